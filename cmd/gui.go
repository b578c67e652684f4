package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ringtimer/internal/audio"
	"ringtimer/internal/core/presets"
	"ringtimer/internal/core/session"
	"ringtimer/internal/core/timekeeper"
	"ringtimer/internal/platform"
	"ringtimer/internal/storage"
	"ringtimer/internal/ui/panel"
	"ringtimer/internal/ui/preferences"
	"ringtimer/internal/ui/tray"
	"ringtimer/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

func runGUI(settings preferences.Settings) error {
	guard, err := platform.AcquireSingleInstance(appName)
	if errors.Is(err, platform.ErrAlreadyRunning) {
		slog.Info("RingTimer is already running, activated the existing window")
		return nil
	}
	if err != nil {
		return fmt.Errorf("single instance: %w", err)
	}
	defer func() {
		_ = guard.Release()
	}()

	sink, err := openSink(settings)
	if err != nil {
		return err
	}
	if sink != nil {
		defer sink.Close()
	}

	timer, err := newSession(settings, sink, newAlertLoader(settings), time.Second)
	if err != nil {
		return err
	}
	defer timer.Close()

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.MustLogo(resources.LogoActive))

	editor := preferences.NewEditor(timer)
	prefsWindow := preferences.New(fyneApp, editor, func() {
		state := timer.State()
		settings.Title = state.Title
		settings.Duration = state.TotalDuration
		settings.Elapsed = state.InitialElapsed
		settings.Audio = timer.Audio()
		if err := storage.SaveSettings(appName, settings); err != nil {
			slog.Warn("failed to save settings", "error", err)
		}
	})

	mainWindow := panel.New(fyneApp, timer, func() {
		prefsWindow.Show(timer.State(), timer.Audio())
	})
	defer mainWindow.Close()

	var trayManager *tray.Manager
	desktopApp, hasTray := fyneApp.(desktop.App)
	if hasTray {
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnShow: mainWindow.Show,
			OnStartPause: func() {
				if timer.Mode() == timekeeper.StateRunning {
					timer.Pause()
					return
				}
				timer.Start()
			},
			OnReset: timer.Reset,
			OnToggleMute: func() {
				timer.ToggleMute()
			},
			OnPreferences: func() {
				prefsWindow.Show(timer.State(), timer.Audio())
			},
			OnQuit: fyneApp.Quit,
		})
		desktopApp.SetSystemTrayIcon(resources.MustLogo(resources.LogoActive))
		mainWindow.Window().SetCloseIntercept(mainWindow.Hide)
	} else {
		mainWindow.Window().SetMaster()
	}

	go guard.Serve(func() {
		fyne.Do(mainWindow.Show)
	})

	events := timer.Subscribe(16)
	go func() {
		for event := range events {
			event := event
			fyne.Do(func() {
				mainWindow.HandleEvent(event)
				if trayManager != nil {
					trayManager.HandleEvent(event)
					desktopApp.SetSystemTrayIcon(trayIcon(trayManager.State()))
				}
			})
		}
	}()

	mainWindow.Show()
	fyneApp.Run()
	return nil
}

func trayIcon(state timekeeper.State) fyne.Resource {
	switch state {
	case timekeeper.StatePaused:
		return resources.MustLogo(resources.LogoPaused)
	case timekeeper.StateEnded:
		return resources.MustLogo(resources.LogoEnded)
	default:
		return resources.MustLogo(resources.LogoActive)
	}
}

// openSink opens the configured preset backend. A nil sink means presets stay in memory.
func openSink(settings preferences.Settings) (storage.PresetSink, error) {
	dir, err := storage.Dir(appName)
	if err != nil {
		return nil, err
	}
	return storage.OpenPresetSink(settings.PresetBackend, dir)
}

// newAlertLoader connects to the system speaker. Without one every alert reports audio.ErrNoOutput.
func newAlertLoader(settings preferences.Settings) session.AlertLoader {
	output, err := audio.NewSpeaker(audio.DefaultSampleRate)
	if err != nil {
		slog.Warn("audio output unavailable", "error", err)
	}
	return audio.NewLoader(output, settings.AlertVolume)
}

func newSession(settings preferences.Settings, sink storage.PresetSink, alerts session.AlertLoader, tick time.Duration) (*session.Session, error) {
	options := session.Options{
		Title:        settings.Title,
		EndTime:      settings.Duration,
		ElapsedTime:  settings.Elapsed,
		Audio:        settings.Audio,
		Alerts:       alerts,
		TickInterval: tick,
	}
	if sink != nil {
		options.OnSaveTimer = presets.Sink(sink)
	}

	timer, err := session.New(options)
	if err != nil {
		return nil, fmt.Errorf("create timer: %w", err)
	}
	if settings.Muted {
		timer.ToggleMute()
	}
	return timer, nil
}
