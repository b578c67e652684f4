package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"ringtimer/internal/audio"
	"ringtimer/internal/storage"
	"ringtimer/internal/ui/preferences"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	appName     = "RingTimer"
	appID       = "com.ringtimer.app"
	logLevelEnv = "RINGTIMER_LOG_LEVEL"
)

// options holds flag values and the settings resolved from them.
type options struct {
	title    string
	duration time.Duration
	elapsed  time.Duration
	alert    string
	muted    bool
	backend  string
	logLevel string
	logDir   string

	settings preferences.Settings
	logFile  io.Closer
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "ringtimer",
		Short:        "Countdown timer with a progress ring, alert sound and presets",
		Long:         `RingTimer counts a duration down to zero while counting elapsed time up, plays an alert when it ends and keeps named presets. Without a subcommand it opens the desktop window.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.prepare(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			opts.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(opts.settings)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.title, "title", "", "Timer title")
	flags.DurationVar(&opts.duration, "duration", 0, "Timer duration, at most 59m59s")
	flags.DurationVar(&opts.elapsed, "elapsed", 0, "Time already elapsed when the timer starts")
	flags.StringVar(&opts.alert, "alert", "", "Alert sound file (.wav or .mp3)")
	flags.BoolVar(&opts.muted, "muted", false, "Start muted")
	flags.StringVar(&opts.backend, "preset-backend", "", "Preset storage: yaml, sqlite or memory")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.logDir, "log-dir", "", "Directory for rotated log files")

	root.AddCommand(newCountdownCommand(opts), newPresetsCommand(opts))
	return root
}

// prepare loads .env, the settings file and flag overrides, then configures logging.
func (opts *options) prepare(cmd *cobra.Command) error {
	envErr := godotenv.Load()

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if level := os.Getenv(logLevelEnv); level != "" {
		settings.LogLevel = level
	}
	opts.apply(cmd.Flags(), &settings)
	opts.settings = settings

	logFile, logErr := setupLogging(settings, cmd.ErrOrStderr())
	if logErr != nil {
		return logErr
	}
	opts.logFile = logFile

	if envErr != nil {
		slog.Debug("failed to load .env file", "error", envErr)
	} else {
		slog.Debug("successfully loaded .env file")
	}
	return nil
}

// apply overrides settings with the flags set on this run.
func (opts *options) apply(flags *pflag.FlagSet, settings *preferences.Settings) {
	if flags.Changed("title") {
		settings.Title = opts.title
	}
	if flags.Changed("duration") {
		settings.Duration = int(opts.duration / time.Second)
		if !flags.Changed("elapsed") && settings.Elapsed > settings.Duration {
			settings.Elapsed = 0
		}
	}
	if flags.Changed("elapsed") {
		settings.Elapsed = int(opts.elapsed / time.Second)
	}
	if flags.Changed("alert") {
		settings.Audio = audio.Ref(opts.alert)
	}
	if flags.Changed("muted") {
		settings.Muted = opts.muted
	}
	if flags.Changed("preset-backend") {
		settings.PresetBackend = opts.backend
	}
	if flags.Changed("log-level") {
		settings.LogLevel = opts.logLevel
	}
	if flags.Changed("log-dir") {
		settings.LogDir = opts.logDir
	}
}

func (opts *options) close() {
	if opts.logFile != nil {
		_ = opts.logFile.Close()
		opts.logFile = nil
	}
}
