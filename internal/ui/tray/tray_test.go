package tray

import (
	"testing"

	"ringtimer/internal/core/timekeeper"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
)

type fakeDesktop struct {
	menus []*fyne.Menu
}

func (app *fakeDesktop) SetSystemTrayMenu(menu *fyne.Menu) {
	app.menus = append(app.menus, menu)
}

func (app *fakeDesktop) SetSystemTrayIcon(fyne.Resource) {}

func (app *fakeDesktop) SetSystemTrayWindow(fyne.Window) {}

func (app *fakeDesktop) lastMenu() *fyne.Menu {
	return app.menus[len(app.menus)-1]
}

func TestNewPublishesMenu(t *testing.T) {
	app := &fakeDesktop{}
	manager := New(app, Callbacks{})

	assert.Len(t, app.menus, 1)
	assert.Equal(t, "Status: starting...", manager.StatusLabel())
	assert.Equal(t, "RingTimer", app.lastMenu().Label)
}

func TestStateChangesRelabelStartItem(t *testing.T) {
	app := &fakeDesktop{}
	manager := New(app, Callbacks{})

	manager.HandleEvent(timekeeper.Event{Type: timekeeper.EventStateChange, State: timekeeper.StateRunning, Title: "Tea", Remaining: 250})
	assert.Equal(t, "Pause", manager.startItem.Label)
	assert.Equal(t, "Status: Tea, 04:10 left", manager.StatusLabel())

	manager.HandleEvent(timekeeper.Event{Type: timekeeper.EventProgress, State: timekeeper.StateRunning, Title: "Tea", Remaining: 249})
	assert.Equal(t, "Status: Tea, 04:09 left", manager.StatusLabel())

	manager.HandleEvent(timekeeper.Event{Type: timekeeper.EventStateChange, State: timekeeper.StatePaused, Title: "Tea", Remaining: 249})
	assert.Equal(t, "Continue", manager.startItem.Label)
	assert.Equal(t, "Status: Tea, 04:09 left (paused)", manager.StatusLabel())

	manager.HandleEvent(timekeeper.Event{Type: timekeeper.EventStateChange, State: timekeeper.StateEnded, Title: "Tea"})
	assert.True(t, manager.startItem.Disabled)
	assert.Equal(t, "Status: Tea finished", manager.StatusLabel())
	assert.Equal(t, timekeeper.StateEnded, manager.State())
}

func TestMuteLabel(t *testing.T) {
	manager := New(nil, Callbacks{})

	manager.HandleEvent(timekeeper.Event{Type: timekeeper.EventMuteChange, Muted: true})
	assert.Equal(t, "Unmute", manager.muteItem.Label)

	manager.HandleEvent(timekeeper.Event{Type: timekeeper.EventMuteChange, Muted: false})
	assert.Equal(t, "Mute", manager.muteItem.Label)
}

func TestMenuItemsInvokeCallbacks(t *testing.T) {
	calls := map[string]int{}
	app := &fakeDesktop{}
	New(app, Callbacks{
		OnShow:        func() { calls["show"]++ },
		OnStartPause:  func() { calls["start"]++ },
		OnReset:       func() { calls["reset"]++ },
		OnToggleMute:  func() { calls["mute"]++ },
		OnPreferences: func() { calls["settings"]++ },
		OnQuit:        func() { calls["quit"]++ },
	})

	for _, item := range app.lastMenu().Items {
		if item.Action != nil && !item.IsSeparator {
			item.Action()
		}
	}
	assert.Equal(t, map[string]int{"show": 1, "start": 1, "reset": 1, "mute": 1, "settings": 1, "quit": 1}, calls)
}
