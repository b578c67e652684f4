package timekeeper

import "time"

// State represents the current TimeKeeper mode.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
	StateEnded   State = "ended"
)

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventStateChange     EventType = "state_change"
	EventProgress        EventType = "progress"
	EventAlert           EventType = "alert"
	EventAlertError      EventType = "alert_error"
	EventSettingsApplied EventType = "settings_applied"
	EventMuteChange      EventType = "mute_change"
)

// Event represents a TimeKeeper update for observers.
type Event struct {
	Type      EventType
	State     State
	Title     string
	Duration  int
	Elapsed   int
	Remaining int
	Muted     bool
	Message   string
	At        time.Time
}
