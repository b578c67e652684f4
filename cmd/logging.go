package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"ringtimer/internal/ui/preferences"

	"gopkg.in/natefinch/lumberjack.v2"
)

const logFileName = "ringtimer.log"

// setupLogging installs the default slog logger. The returned closer is nil when no log file is used.
func setupLogging(settings preferences.Settings, console io.Writer) (io.Closer, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(settings.LogLevel))); err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", settings.LogLevel, err)
	}

	var output io.Writer = console
	var closer io.Closer
	if settings.LogDir != "" {
		if err := os.MkdirAll(settings.LogDir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		logFile := &lumberjack.Logger{
			Filename:   filepath.Join(settings.LogDir, logFileName),
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}
		output = io.MultiWriter(console, logFile)
		closer = logFile
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return closer, nil
}
