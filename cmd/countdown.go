package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ringtimer/internal/core/model"
	"ringtimer/internal/core/session"
	"ringtimer/internal/core/timekeeper"
	"ringtimer/internal/storage"
	"ringtimer/internal/ui/preferences"
	"ringtimer/internal/ui/ring"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

const (
	barWidth = 40
	// alertLinger keeps the process alive while the built-in tone plays.
	alertLinger = 2 * time.Second
)

// countdownRun describes one terminal countdown.
type countdownRun struct {
	settings preferences.Settings
	presetID int64
	tick     time.Duration
	linger   time.Duration
	alerts   session.AlertLoader
	out      io.Writer
}

func newCountdownCommand(opts *options) *cobra.Command {
	var presetID int64
	cmd := &cobra.Command{
		Use:   "countdown",
		Short: "Run the timer in the terminal",
		Long:  `Run the timer without a window, drawing a progress bar on every tick. Exits when the timer ends or on interrupt.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return countdownRun{
				settings: opts.settings,
				presetID: presetID,
				tick:     time.Second,
				linger:   alertLinger,
				alerts:   newAlertLoader(opts.settings),
				out:      cmd.OutOrStdout(),
			}.execute(ctx)
		},
	}
	cmd.Flags().Int64Var(&presetID, "preset", 0, "Load the preset with this id before starting")
	return cmd
}

func (run countdownRun) execute(ctx context.Context) error {
	var sink storage.PresetSink
	if run.presetID != 0 {
		opened, err := openSink(run.settings)
		if err != nil {
			return err
		}
		if opened != nil {
			sink = opened
			defer sink.Close()
		}
	}

	timer, err := newSession(run.settings, sink, run.alerts, run.tick)
	if err != nil {
		return err
	}
	defer timer.Close()

	if run.presetID != 0 {
		if err := timer.LoadPreset(run.presetID); err != nil {
			return err
		}
	}

	view := newCountdownView()
	events := timer.Subscribe(16)
	fmt.Fprintln(run.out, view.Render(timer.State()))
	timer.Start()

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(run.out, view.Notice("Interrupted"))
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			switch event.Type {
			case timekeeper.EventProgress:
				fmt.Fprintln(run.out, view.Render(timer.State()))
			case timekeeper.EventStateChange:
				if event.State != timekeeper.StateEnded {
					continue
				}
				fmt.Fprintln(run.out, view.Notice(fmt.Sprintf("%s: time's up", event.Title)))
				if event.Muted || run.alerts == nil {
					return nil
				}
			case timekeeper.EventAlert:
				return waitContext(ctx, run.linger)
			case timekeeper.EventAlertError:
				fmt.Fprintln(run.out, view.Notice("Alert failed: "+event.Message))
				return nil
			}
		}
	}
}

func waitContext(ctx context.Context, duration time.Duration) error {
	if duration <= 0 {
		return nil
	}
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
	return nil
}

// countdownView renders timer state as terminal lines.
type countdownView struct {
	bar    progress.Model
	title  lipgloss.Style
	clock  lipgloss.Style
	left   lipgloss.Style
	notice lipgloss.Style
}

func newCountdownView() countdownView {
	return countdownView{
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth)),
		title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")),
		clock:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#67CB88")),
		left:   lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B9CC")),
		notice: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E8BE42")),
	}
}

// Render draws one status line: title, bar, elapsed clock and remaining time.
func (view countdownView) Render(state model.TimerState) string {
	parts := []string{
		view.title.Render(state.Title),
		view.bar.ViewAs(ring.Progress(state.Elapsed, state.TotalDuration)),
		view.clock.Render(ring.FormatClock(state.Elapsed)),
		view.left.Render(ring.RemainingLabel(state.Remaining)),
	}
	return strings.Join(parts, "  ")
}

// Notice draws a highlighted message line.
func (view countdownView) Notice(message string) string {
	return view.notice.Render(message)
}
