package timekeeper

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ringtimer/internal/core/model"
)

// Alert plays the completion sound owned by a single TimeKeeper.
type Alert interface {
	Play() error
	Stop()
	Rewind() error
}

// Config contains runtime options for TimeKeeper.
type Config struct {
	TickInterval time.Duration
}

// TimeKeeper is the countdown state machine. Elapsed and remaining advance together on one ticker.
type TimeKeeper struct {
	mu        sync.Mutex
	config    model.TimerConfig
	options   Config
	state     State
	elapsed   int
	remaining int
	muted     bool
	alerted   bool
	alert     Alert
	events    []chan Event
	stopCh    chan struct{}
	closed    bool
}

// New creates an idle TimeKeeper. Inputs outside 0 <= elapsed <= duration <= 59:59 fail with a ConfigurationError.
func New(config model.TimerConfig, options Config, alert Alert) (*TimeKeeper, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}

	keeper := &TimeKeeper{
		config:  config,
		options: options,
		state:   StateIdle,
		alert:   alert,
	}
	keeper.rewindCountersLocked()
	return keeper, nil
}

// Subscribe registers a new observer channel.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	if keeper.closed {
		keeper.mu.Unlock()
		close(ch)
		return ch
	}
	keeper.events = append(keeper.events, ch)
	keeper.mu.Unlock()
	return ch
}

// Snapshot returns a copy of the current timer state.
func (keeper *TimeKeeper) Snapshot() model.TimerState {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.snapshotLocked()
}

// State returns the current state machine mode.
func (keeper *TimeKeeper) State() State {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.state
}

// Start moves Idle or Paused to Running. It is a no-op when Running or Ended.
func (keeper *TimeKeeper) Start() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed || keeper.state == StateRunning || keeper.state == StateEnded {
		return
	}

	keeper.state = StateRunning
	stopCh := make(chan struct{})
	keeper.stopCh = stopCh
	go keeper.run(stopCh)

	keeper.emitStateLocked()
}

// Pause moves Running to Paused. It is a no-op otherwise.
func (keeper *TimeKeeper) Pause() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.state != StateRunning {
		return
	}
	keeper.stopTickerLocked()
	keeper.state = StatePaused
	keeper.emitStateLocked()
}

// Reset returns to Idle with the initial elapsed time and silences the alert.
func (keeper *TimeKeeper) Reset() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed {
		return
	}
	keeper.stopTickerLocked()
	keeper.silenceAlertLocked()
	keeper.rewindCountersLocked()
	keeper.state = StateIdle
	keeper.emitStateLocked()
}

// ApplySettings replaces duration, initial elapsed time and title, leaving the timer Idle.
func (keeper *TimeKeeper) ApplySettings(duration, initialElapsed int, title string) error {
	config := model.TimerConfig{
		Title:          title,
		TotalDuration:  duration,
		InitialElapsed: initialElapsed,
	}
	if duration < 0 || duration > model.MaxDuration {
		return config.Validate()
	}
	if initialElapsed < 0 || initialElapsed > duration {
		return &model.ValidationError{Duration: duration, Elapsed: initialElapsed}
	}

	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed {
		return fmt.Errorf("apply settings: timer closed")
	}
	keeper.stopTickerLocked()
	keeper.silenceAlertLocked()
	keeper.config = config
	keeper.rewindCountersLocked()
	keeper.state = StateIdle

	keeper.emitLocked(keeper.eventLocked(EventSettingsApplied, time.Now()))
	keeper.emitStateLocked()
	return nil
}

// SetAlert swaps the alert resource, stopping the previous one.
func (keeper *TimeKeeper) SetAlert(alert Alert) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.alert != nil && keeper.alert != alert {
		keeper.alert.Stop()
	}
	keeper.alert = alert
}

// ToggleMute flips the mute flag and returns the new value. Muting silences a sounding alert.
func (keeper *TimeKeeper) ToggleMute() bool {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.muted = !keeper.muted
	if keeper.muted && keeper.alert != nil {
		keeper.alert.Stop()
	}
	keeper.emitLocked(keeper.eventLocked(EventMuteChange, time.Now()))
	return keeper.muted
}

// Close stops ticking and playback and closes observers.
func (keeper *TimeKeeper) Close() {
	keeper.mu.Lock()
	if keeper.closed {
		keeper.mu.Unlock()
		return
	}
	keeper.closed = true
	keeper.stopTickerLocked()
	if keeper.alert != nil {
		keeper.alert.Stop()
	}
	if keeper.state == StateRunning {
		keeper.state = StatePaused
	}
	events := keeper.events
	keeper.events = nil
	keeper.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (keeper *TimeKeeper) run(stopCh chan struct{}) {
	ticker := time.NewTicker(keeper.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case tickTime := <-ticker.C:
			keeper.mu.Lock()
			// A tick that raced a pause or restart belongs to a stale run.
			if keeper.stopCh != stopCh {
				keeper.mu.Unlock()
				return
			}
			keeper.tickLocked(tickTime)
			keeper.mu.Unlock()
		}
	}
}

func (keeper *TimeKeeper) tickLocked(now time.Time) {
	if keeper.state != StateRunning {
		return
	}

	total := keeper.config.TotalDuration
	if keeper.elapsed < total {
		keeper.elapsed++
	}
	if keeper.remaining > 0 {
		keeper.remaining--
	}
	keeper.emitLocked(keeper.eventLocked(EventProgress, now))

	if keeper.elapsed >= total {
		keeper.finishLocked(now)
	}
}

func (keeper *TimeKeeper) finishLocked(now time.Time) {
	keeper.stopTickerLocked()
	keeper.state = StateEnded
	keeper.remaining = 0
	keeper.emitLocked(keeper.eventLocked(EventStateChange, now))

	if keeper.muted || keeper.alerted || keeper.alert == nil {
		return
	}
	keeper.alerted = true
	if err := keeper.alert.Play(); err != nil {
		slog.Warn("alert playback failed", "error", err, "title", keeper.config.Title)
		event := keeper.eventLocked(EventAlertError, now)
		event.Message = err.Error()
		keeper.emitLocked(event)
		return
	}
	keeper.emitLocked(keeper.eventLocked(EventAlert, now))
}

func (keeper *TimeKeeper) silenceAlertLocked() {
	keeper.alerted = false
	if keeper.alert == nil {
		return
	}
	keeper.alert.Stop()
	if err := keeper.alert.Rewind(); err != nil {
		slog.Warn("alert rewind failed", "error", err)
	}
}

func (keeper *TimeKeeper) rewindCountersLocked() {
	keeper.elapsed = keeper.config.InitialElapsed
	keeper.remaining = keeper.config.TotalDuration - keeper.config.InitialElapsed
}

func (keeper *TimeKeeper) stopTickerLocked() {
	if keeper.stopCh != nil {
		close(keeper.stopCh)
		keeper.stopCh = nil
	}
}

func (keeper *TimeKeeper) snapshotLocked() model.TimerState {
	return model.TimerState{
		Title:          keeper.config.Title,
		TotalDuration:  keeper.config.TotalDuration,
		InitialElapsed: keeper.config.InitialElapsed,
		Elapsed:        keeper.elapsed,
		Remaining:      keeper.remaining,
		Running:        keeper.state == StateRunning,
		Ended:          keeper.state == StateEnded,
		Muted:          keeper.muted,
	}
}

func (keeper *TimeKeeper) eventLocked(eventType EventType, now time.Time) Event {
	return Event{
		Type:      eventType,
		State:     keeper.state,
		Title:     keeper.config.Title,
		Duration:  keeper.config.TotalDuration,
		Elapsed:   keeper.elapsed,
		Remaining: keeper.remaining,
		Muted:     keeper.muted,
		At:        now,
	}
}

func (keeper *TimeKeeper) emitStateLocked() {
	keeper.emitLocked(keeper.eventLocked(EventStateChange, time.Now()))
}

func (keeper *TimeKeeper) emitLocked(event Event) {
	for _, ch := range keeper.events {
		select {
		case ch <- event:
		default:
		}
	}
}
