package panel

import (
	"context"
	"fmt"

	"ringtimer/internal/core/model"
	"ringtimer/internal/core/timekeeper"
	"ringtimer/internal/ui/animation"
	"ringtimer/internal/ui/ring"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Timer is the session surface the panel drives.
type Timer interface {
	Start()
	Pause()
	Reset()
	ToggleMute() bool
	State() model.TimerState
	Mode() timekeeper.State
	SaveCurrentAsPreset() (model.SavedTimer, error)
	LoadPreset(id int64) error
	DeletePreset(id int64) error
	Presets() ([]model.SavedTimer, error)
}

// Window is the main timer window. Methods must run on the fyne main goroutine.
type Window struct {
	window      fyne.Window
	timer       Timer
	ring        *ring.Widget
	engine      *animation.Engine
	ctx         context.Context
	cancelCtx   context.CancelFunc
	startButton *widget.Button
	pauseButton *widget.Button
	resetButton *widget.Button
	muteButton  *widget.Button
	saveButton  *widget.Button
	presetList  *widget.List
	statusLabel *widget.Label
	presets     []model.SavedTimer
	onSettings  func()
}

// New creates the main window around timer. onSettings opens the settings editor.
func New(app fyne.App, timer Timer, onSettings func()) *Window {
	window := app.NewWindow("RingTimer")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	ctx, cancel := context.WithCancel(context.Background())
	panel := &Window{
		window:      window,
		timer:       timer,
		ring:        ring.NewWidget(),
		ctx:         ctx,
		cancelCtx:   cancel,
		statusLabel: widget.NewLabel(""),
		onSettings:  onSettings,
	}
	panel.engine = animation.New(animation.DefaultConfig(), func(fraction float64) {
		fyne.Do(func() {
			panel.ring.SetFraction(fraction)
		})
	})

	panel.startButton = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), panel.handleStart)
	panel.startButton.Importance = widget.HighImportance
	panel.pauseButton = widget.NewButtonWithIcon("Pause", theme.MediaPauseIcon(), timer.Pause)
	panel.resetButton = widget.NewButtonWithIcon("Reset", theme.MediaReplayIcon(), timer.Reset)
	panel.muteButton = widget.NewButtonWithIcon("", theme.VolumeUpIcon(), func() {
		timer.ToggleMute()
	})
	settingsButton := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		if panel.onSettings != nil {
			panel.onSettings()
		}
	})
	panel.saveButton = widget.NewButtonWithIcon("Save preset", theme.DocumentSaveIcon(), panel.handleSavePreset)

	panel.presetList = widget.NewList(
		func() int { return len(panel.presets) },
		func() fyne.CanvasObject {
			deleteButton := widget.NewButtonWithIcon("", theme.DeleteIcon(), nil)
			deleteButton.Importance = widget.LowImportance
			return container.NewBorder(nil, nil, nil, deleteButton, widget.NewLabel(""))
		},
		panel.updatePresetRow,
	)
	panel.presetList.OnSelected = func(id widget.ListItemID) {
		panel.presetList.UnselectAll()
		if id < 0 || id >= len(panel.presets) {
			return
		}
		panel.handleLoadPreset(panel.presets[id].ID)
	}
	panel.statusLabel.Importance = widget.DangerImportance
	panel.statusLabel.Hide()

	controls := container.NewHBox(panel.startButton, panel.pauseButton, panel.resetButton, panel.muteButton, settingsButton)
	top := container.NewVBox(container.NewCenter(panel.ring), container.NewCenter(controls), panel.statusLabel)
	presetsHeader := container.NewBorder(nil, nil, widget.NewLabelWithStyle("Presets", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}), panel.saveButton)
	window.SetContent(container.NewBorder(container.NewVBox(top, presetsHeader), nil, nil, nil, panel.presetList))
	window.Resize(fyne.NewSize(360, 520))

	panel.sync()
	return panel
}

// Window returns the underlying fyne window.
func (panel *Window) Window() fyne.Window {
	return panel.window
}

// Show displays the window.
func (panel *Window) Show() {
	panel.window.Show()
	panel.window.RequestFocus()
}

// Hide hides the window.
func (panel *Window) Hide() {
	panel.window.Hide()
}

// Close stops the ring animation.
func (panel *Window) Close() {
	panel.engine.Stop()
	panel.cancelCtx()
}

// HandleEvent applies an engine event to the window.
func (panel *Window) HandleEvent(event timekeeper.Event) {
	switch event.Type {
	case timekeeper.EventProgress:
		panel.showCounters(event.Title, event.Elapsed, event.Remaining)
		panel.engine.AnimateTo(panel.ctx, ring.Progress(event.Elapsed, event.Duration))
	case timekeeper.EventStateChange:
		panel.setMode(event.State)
		panel.showCounters(event.Title, event.Elapsed, event.Remaining)
		if event.State == timekeeper.StateIdle {
			panel.engine.Jump(ring.Progress(event.Elapsed, event.Duration))
		}
	case timekeeper.EventSettingsApplied:
		panel.showCounters(event.Title, event.Elapsed, event.Remaining)
		panel.engine.Jump(ring.Progress(event.Elapsed, event.Duration))
		panel.hideStatus()
	case timekeeper.EventMuteChange:
		panel.setMuted(event.Muted)
	case timekeeper.EventAlertError:
		panel.showStatus(event.Message)
	}
}

// ReloadPresets re-reads the preset list.
func (panel *Window) ReloadPresets() {
	entries, err := panel.timer.Presets()
	if err != nil {
		panel.showStatus(fmt.Sprintf("Presets unavailable: %v", err))
		return
	}
	panel.presets = entries
	panel.presetList.Refresh()
}

func (panel *Window) sync() {
	state := panel.timer.State()
	panel.showCounters(state.Title, state.Elapsed, state.Remaining)
	panel.setMode(panel.timer.Mode())
	panel.setMuted(state.Muted)
	panel.engine.Jump(ring.Progress(state.Elapsed, state.TotalDuration))
	panel.ReloadPresets()
}

func (panel *Window) showCounters(title string, elapsed, remaining int) {
	panel.ring.SetText(title, elapsed, remaining)
	panel.window.SetTitle(fmt.Sprintf("%s - %s", title, ring.FormatClock(remaining)))
}

func (panel *Window) setMode(state timekeeper.State) {
	switch state {
	case timekeeper.StateRunning:
		panel.startButton.Disable()
		panel.pauseButton.Enable()
	case timekeeper.StatePaused:
		panel.startButton.SetText("Continue")
		panel.startButton.Enable()
		panel.pauseButton.Disable()
	case timekeeper.StateEnded:
		panel.startButton.Disable()
		panel.pauseButton.Disable()
	default:
		panel.startButton.SetText("Start")
		panel.startButton.Enable()
		panel.pauseButton.Disable()
	}
}

func (panel *Window) setMuted(muted bool) {
	if muted {
		panel.muteButton.SetIcon(theme.VolumeMuteIcon())
		return
	}
	panel.muteButton.SetIcon(theme.VolumeUpIcon())
}

func (panel *Window) showStatus(message string) {
	panel.statusLabel.SetText(message)
	panel.statusLabel.Show()
}

func (panel *Window) hideStatus() {
	panel.statusLabel.SetText("")
	panel.statusLabel.Hide()
}

func (panel *Window) handleStart() {
	panel.hideStatus()
	panel.timer.Start()
}

func (panel *Window) handleSavePreset() {
	if _, err := panel.timer.SaveCurrentAsPreset(); err != nil {
		dialog.ShowError(err, panel.window)
		return
	}
	panel.ReloadPresets()
}

func (panel *Window) handleLoadPreset(id int64) {
	if err := panel.timer.LoadPreset(id); err != nil {
		dialog.ShowError(err, panel.window)
	}
}

func (panel *Window) handleDeletePreset(id int64) {
	if err := panel.timer.DeletePreset(id); err != nil {
		dialog.ShowError(err, panel.window)
		return
	}
	panel.ReloadPresets()
}

func (panel *Window) updatePresetRow(id widget.ListItemID, item fyne.CanvasObject) {
	if id < 0 || id >= len(panel.presets) {
		return
	}
	saved := panel.presets[id]
	row := item.(*fyne.Container)
	row.Objects[0].(*widget.Label).SetText(PresetLabel(saved))
	row.Objects[1].(*widget.Button).OnTapped = func() {
		panel.handleDeletePreset(saved.ID)
	}
}

// PresetLabel renders a preset row.
func PresetLabel(saved model.SavedTimer) string {
	return fmt.Sprintf("%s  %s  (%s)", saved.Title, ring.FormatClock(saved.Duration()), saved.AudioFileName)
}
