// Package session assembles one timer widget: the engine, its alert sound and the preset store.
package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ringtimer/internal/core/model"
	"ringtimer/internal/core/presets"
	"ringtimer/internal/core/timekeeper"
)

// AlertLoader turns an audio reference into a playable alert.
type AlertLoader interface {
	LoadAlert(ref model.AudioRef) (timekeeper.Alert, error)
}

// Options are the construction inputs supplied by the host.
type Options struct {
	Title       string
	EndTime     int
	ElapsedTime int
	SavedTimers []model.SavedTimer
	// OnSaveTimer, when set, receives new presets instead of the local list.
	OnSaveTimer  presets.Sink
	Audio        model.AudioRef
	Alerts       AlertLoader
	TickInterval time.Duration
}

// Session is a mounted timer widget.
type Session struct {
	mu     sync.Mutex
	keeper *timekeeper.TimeKeeper
	store  *presets.Store
	alerts AlertLoader
	audio  model.AudioRef
}

// New validates the options and builds an idle session.
func New(options Options) (*Session, error) {
	config := model.TimerConfig{
		Title:          options.Title,
		TotalDuration:  options.EndTime,
		InitialElapsed: options.ElapsedTime,
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	audio := normalizeAudio(options.Audio)
	var alert timekeeper.Alert
	if options.Alerts != nil {
		loaded, err := options.Alerts.LoadAlert(audio)
		if err != nil {
			return nil, fmt.Errorf("load alert sound: %w", err)
		}
		alert = loaded
	}

	keeper, err := timekeeper.New(config, timekeeper.Config{TickInterval: options.TickInterval}, alert)
	if err != nil {
		return nil, err
	}

	var store *presets.Store
	if options.OnSaveTimer != nil {
		store = presets.NewForwarding(options.OnSaveTimer, options.SavedTimers)
	} else {
		store = presets.NewLocal(options.SavedTimers)
	}

	slog.Debug("timer session created", "title", config.Title, "duration", config.TotalDuration, "elapsed", config.InitialElapsed)
	return &Session{
		keeper: keeper,
		store:  store,
		alerts: options.Alerts,
		audio:  audio,
	}, nil
}

// Start begins or continues the countdown.
func (session *Session) Start() {
	session.keeper.Start()
}

// Pause freezes the countdown.
func (session *Session) Pause() {
	session.keeper.Pause()
}

// Reset restores the initial elapsed time.
func (session *Session) Reset() {
	session.keeper.Reset()
}

// ToggleMute flips the mute flag and returns the new value.
func (session *Session) ToggleMute() bool {
	return session.keeper.ToggleMute()
}

// State returns a copy of the timer state.
func (session *Session) State() model.TimerState {
	return session.keeper.Snapshot()
}

// Mode returns the engine state machine mode.
func (session *Session) Mode() timekeeper.State {
	return session.keeper.State()
}

// Audio returns the current alert sound reference.
func (session *Session) Audio() model.AudioRef {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.audio
}

// Subscribe registers an observer of engine events.
func (session *Session) Subscribe(buffer int) <-chan timekeeper.Event {
	return session.keeper.Subscribe(buffer)
}

// ApplySettings commits edited duration, elapsed time and title.
func (session *Session) ApplySettings(duration, initialElapsed int, title string) error {
	return session.keeper.ApplySettings(duration, initialElapsed, title)
}

// ApplyAudio replaces the alert sound. The current sound is kept when loading fails.
func (session *Session) ApplyAudio(ref model.AudioRef) error {
	ref = normalizeAudio(ref)
	session.mu.Lock()
	defer session.mu.Unlock()
	if ref == session.audio {
		return nil
	}
	return session.swapAlertLocked(ref)
}

// SaveCurrentAsPreset stores the current title, duration, elapsed time and sound as a preset.
func (session *Session) SaveCurrentAsPreset() (model.SavedTimer, error) {
	return session.store.Save(session.keeper.Snapshot(), session.Audio())
}

// LoadPreset replaces the timer with a stored preset, leaving it idle.
func (session *Session) LoadPreset(id int64) error {
	saved, err := session.store.Load(id)
	if err != nil {
		return err
	}
	config := saved.Config()
	if err := config.Validate(); err != nil {
		return fmt.Errorf("load preset %d: %w", id, err)
	}

	session.mu.Lock()
	if audio := normalizeAudio(saved.Audio()); audio != session.audio {
		if err := session.swapAlertLocked(audio); err != nil {
			session.mu.Unlock()
			return fmt.Errorf("load preset %d: %w", id, err)
		}
	}
	session.mu.Unlock()

	return session.keeper.ApplySettings(config.TotalDuration, config.InitialElapsed, config.Title)
}

// DeletePreset removes a preset. Unknown ids are ignored.
func (session *Session) DeletePreset(id int64) error {
	return session.store.Delete(id)
}

// Presets lists stored presets in insertion order.
func (session *Session) Presets() ([]model.SavedTimer, error) {
	return session.store.List()
}

// Close stops ticking and playback. The session cannot be restarted afterwards.
func (session *Session) Close() {
	session.keeper.Close()
}

func (session *Session) swapAlertLocked(ref model.AudioRef) error {
	if session.alerts == nil {
		session.audio = ref
		return nil
	}
	alert, err := session.alerts.LoadAlert(ref)
	if err != nil {
		return fmt.Errorf("load alert sound: %w", err)
	}
	session.keeper.SetAlert(alert)
	session.audio = ref
	slog.Debug("alert sound replaced", "file", ref.File, "name", ref.Name)
	return nil
}

func normalizeAudio(ref model.AudioRef) model.AudioRef {
	if ref.Name == "" {
		ref.Name = model.DefaultAudioName
	}
	return ref
}
