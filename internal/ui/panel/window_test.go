package panel

import (
	"errors"
	"testing"

	"ringtimer/internal/core/model"
	"ringtimer/internal/core/timekeeper"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimer struct {
	state   model.TimerState
	mode    timekeeper.State
	presets []model.SavedTimer
	started int
	loaded  []int64
	deleted []int64
	saveErr error
	nextID  int64
}

func (timer *fakeTimer) Start() { timer.started++ }
func (timer *fakeTimer) Pause() {}
func (timer *fakeTimer) Reset() {}

func (timer *fakeTimer) ToggleMute() bool {
	timer.state.Muted = !timer.state.Muted
	return timer.state.Muted
}
func (timer *fakeTimer) State() model.TimerState { return timer.state }
func (timer *fakeTimer) Mode() timekeeper.State { return timer.mode }

func (timer *fakeTimer) SaveCurrentAsPreset() (model.SavedTimer, error) {
	if timer.saveErr != nil {
		return model.SavedTimer{}, timer.saveErr
	}
	timer.nextID++
	saved := model.SavedTimer{
		ID:            timer.nextID,
		Title:         timer.state.Title,
		Minutes:       timer.state.Config().Minutes(),
		Seconds:       timer.state.Config().Seconds(),
		AudioFileName: model.DefaultAudioName,
	}
	timer.presets = append(timer.presets, saved)
	return saved, nil
}

func (timer *fakeTimer) LoadPreset(id int64) error {
	timer.loaded = append(timer.loaded, id)
	return nil
}

func (timer *fakeTimer) DeletePreset(id int64) error {
	timer.deleted = append(timer.deleted, id)
	kept := timer.presets[:0]
	for _, saved := range timer.presets {
		if saved.ID != id {
			kept = append(kept, saved)
		}
	}
	timer.presets = kept
	return nil
}

func (timer *fakeTimer) Presets() ([]model.SavedTimer, error) {
	return append([]model.SavedTimer(nil), timer.presets...), nil
}

func newTimer() *fakeTimer {
	return &fakeTimer{
		state: model.TimerState{Title: "Tea", TotalDuration: 300, Remaining: 300},
		mode:  timekeeper.StateIdle,
	}
}

func newPanel(t *testing.T, timer Timer) *Window {
	t.Helper()
	app := test.NewTempApp(t)
	panel := New(app, timer, nil)
	t.Cleanup(panel.Close)
	return panel
}

func TestNewReflectsIdleTimer(t *testing.T) {
	panel := newPanel(t, newTimer())

	assert.Equal(t, "Start", panel.startButton.Text)
	assert.False(t, panel.startButton.Disabled())
	assert.True(t, panel.pauseButton.Disabled())
	assert.Equal(t, "Tea - 05:00", panel.window.Title())
}

func TestStartButtonStartsTimer(t *testing.T) {
	timer := newTimer()
	panel := newPanel(t, timer)

	test.Tap(panel.startButton)
	assert.Equal(t, 1, timer.started)
}

func TestStateChangesUpdateButtons(t *testing.T) {
	panel := newPanel(t, newTimer())

	panel.HandleEvent(timekeeper.Event{Type: timekeeper.EventStateChange, State: timekeeper.StateRunning, Title: "Tea", Duration: 300, Remaining: 300})
	assert.True(t, panel.startButton.Disabled())
	assert.False(t, panel.pauseButton.Disabled())

	panel.HandleEvent(timekeeper.Event{Type: timekeeper.EventStateChange, State: timekeeper.StatePaused, Title: "Tea", Duration: 300, Elapsed: 10, Remaining: 290})
	assert.Equal(t, "Continue", panel.startButton.Text)
	assert.False(t, panel.startButton.Disabled())
	assert.Equal(t, "Tea - 04:50", panel.window.Title())

	panel.HandleEvent(timekeeper.Event{Type: timekeeper.EventStateChange, State: timekeeper.StateEnded, Title: "Tea", Duration: 300, Elapsed: 300})
	assert.True(t, panel.startButton.Disabled())
	assert.True(t, panel.pauseButton.Disabled())

	panel.HandleEvent(timekeeper.Event{Type: timekeeper.EventStateChange, State: timekeeper.StateIdle, Title: "Tea", Duration: 300, Remaining: 300})
	assert.Equal(t, "Start", panel.startButton.Text)
	assert.False(t, panel.startButton.Disabled())
}

func TestAlertErrorIsShown(t *testing.T) {
	panel := newPanel(t, newTimer())

	panel.HandleEvent(timekeeper.Event{Type: timekeeper.EventAlertError, Message: "no audio device"})
	assert.True(t, panel.statusLabel.Visible())
	assert.Equal(t, "no audio device", panel.statusLabel.Text)

	panel.HandleEvent(timekeeper.Event{Type: timekeeper.EventSettingsApplied, Title: "Tea", Duration: 300, Remaining: 300})
	assert.False(t, panel.statusLabel.Visible())
}

func TestSaveLoadDeletePresets(t *testing.T) {
	timer := newTimer()
	panel := newPanel(t, timer)

	test.Tap(panel.saveButton)
	require.Len(t, panel.presets, 1)
	assert.Equal(t, 1, panel.presetList.Length())

	panel.presetList.Select(0)
	assert.Equal(t, []int64{1}, timer.loaded)

	item := panel.presetList.CreateItem()
	panel.presetList.UpdateItem(0, item)
	row := item.(*fyne.Container)
	assert.Equal(t, "Tea  05:00  (Default)", row.Objects[0].(*widget.Label).Text)

	test.Tap(row.Objects[1].(*widget.Button))
	assert.Equal(t, []int64{1}, timer.deleted)
	assert.Empty(t, panel.presets)
}

func TestSaveErrorLeavesListUnchanged(t *testing.T) {
	timer := newTimer()
	timer.saveErr = errors.New("disk full")
	panel := newPanel(t, timer)

	test.Tap(panel.saveButton)
	assert.Empty(t, panel.presets)
}

func TestPresetLabel(t *testing.T) {
	saved := model.SavedTimer{Title: "Morning", Minutes: 5, Seconds: 3, AudioFileName: "birdson..."}
	assert.Equal(t, "Morning  05:03  (birdson...)", PresetLabel(saved))
}
