package tray

import (
	"fmt"

	"ringtimer/internal/core/timekeeper"
	"ringtimer/internal/ui/ring"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow        func()
	OnStartPause  func()
	OnReset       func()
	OnToggleMute  func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app         desktop.App
	statusItem  *fyne.MenuItem
	startItem   *fyne.MenuItem
	resetItem   *fyne.MenuItem
	muteItem    *fyne.MenuItem
	callbacks   Callbacks
	state       timekeeper.State
	muted       bool
	statusLabel string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:         app,
		callbacks:   callbacks,
		state:       timekeeper.StateIdle,
		statusLabel: "starting...",
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true
	manager.startItem = fyne.NewMenuItem("Start", func() {
		if manager.callbacks.OnStartPause != nil {
			manager.callbacks.OnStartPause()
		}
	})
	manager.resetItem = fyne.NewMenuItem("Reset", func() {
		if manager.callbacks.OnReset != nil {
			manager.callbacks.OnReset()
		}
	})
	manager.muteItem = fyne.NewMenuItem("Mute", func() {
		if manager.callbacks.OnToggleMute != nil {
			manager.callbacks.OnToggleMute()
		}
	})

	manager.refreshStatus()
	return manager
}

// State returns the last engine state shown in the menu.
func (manager *Manager) State() timekeeper.State {
	return manager.state
}

// StatusLabel returns the status line as shown in the menu.
func (manager *Manager) StatusLabel() string {
	return manager.statusItem.Label
}

// HandleEvent applies an engine event to the menu.
func (manager *Manager) HandleEvent(event timekeeper.Event) {
	switch event.Type {
	case timekeeper.EventStateChange, timekeeper.EventSettingsApplied:
		if event.State != "" {
			manager.state = event.State
		}
		manager.statusLabel = statusText(manager.state, event.Title, event.Remaining)
	case timekeeper.EventProgress:
		manager.statusLabel = statusText(manager.state, event.Title, event.Remaining)
	case timekeeper.EventMuteChange:
		manager.muted = event.Muted
	case timekeeper.EventAlertError:
		manager.statusLabel = "alert failed"
	default:
		return
	}
	manager.refreshStatus()
}

func statusText(state timekeeper.State, title string, remaining int) string {
	switch state {
	case timekeeper.StateRunning:
		return fmt.Sprintf("%s, %s", title, ring.RemainingLabel(remaining))
	case timekeeper.StatePaused:
		return fmt.Sprintf("%s, %s (paused)", title, ring.RemainingLabel(remaining))
	case timekeeper.StateEnded:
		return fmt.Sprintf("%s finished", title)
	default:
		return fmt.Sprintf("%s, %s", title, ring.FormatClock(remaining))
	}
}

func (manager *Manager) refreshStatus() {
	manager.statusItem.Label = fmt.Sprintf("Status: %s", manager.statusLabel)

	switch manager.state {
	case timekeeper.StateRunning:
		manager.startItem.Label = "Pause"
		manager.startItem.Disabled = false
	case timekeeper.StatePaused:
		manager.startItem.Label = "Continue"
		manager.startItem.Disabled = false
	case timekeeper.StateEnded:
		manager.startItem.Label = "Start"
		manager.startItem.Disabled = true
	default:
		manager.startItem.Label = "Start"
		manager.startItem.Disabled = false
	}

	if manager.muted {
		manager.muteItem.Label = "Unmute"
	} else {
		manager.muteItem.Label = "Mute"
	}
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(fyne.NewMenu("RingTimer",
			manager.statusItem,
			fyne.NewMenuItem("Show timer", func() {
				if manager.callbacks.OnShow != nil {
					manager.callbacks.OnShow()
				}
			}),
			fyne.NewMenuItemSeparator(),
			manager.startItem,
			manager.resetItem,
			manager.muteItem,
			fyne.NewMenuItemSeparator(),
			fyne.NewMenuItem("Settings", func() {
				if manager.callbacks.OnPreferences != nil {
					manager.callbacks.OnPreferences()
				}
			}),
			fyne.NewMenuItem("Quit", func() {
				if manager.callbacks.OnQuit != nil {
					manager.callbacks.OnQuit()
				}
			}),
		))
	}
}
