package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/afero"
)

// Options controls where log records go.
type Options struct {
	// Level is one of debug, info, warn, error or fatal. Anything else is info.
	Level string

	// OutputDir, if set, receives a timestamped JSON log file in addition
	// to the console output.
	OutputDir string

	// Console receives human-readable records. Defaults to stderr, since
	// stdout carries command output.
	Console io.Writer
}

// Setup builds the logger described by opts, installs it as the slog
// default and returns it. Log files are created on fs.
func Setup(fs afero.Fs, opts Options) (*slog.Logger, error) {
	level := parseLogLevel(opts.Level)

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	consoleHandler := tint.NewHandler(console, &tint.Options{Level: level})

	var logger *slog.Logger
	if opts.OutputDir != "" {
		logFile, path, err := openLogFile(fs, os.ExpandEnv(opts.OutputDir), time.Now())
		if err != nil {
			return nil, err
		}

		fileHandler := slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: level})
		logger = slog.New(slogmulti.Fanout(consoleHandler, fileHandler))

		fmt.Fprintf(console, "Logging to file: %s\n", path)
	} else {
		logger = slog.New(consoleHandler)
	}

	slog.SetDefault(logger)
	return logger, nil
}

// openLogFile creates dir if needed and opens mintywad_<timestamp>.log in
// it for appending.
func openLogFile(fs afero.Fs, dir string, now time.Time) (afero.File, string, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("failed to create log output directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("mintywad_%s.log", now.Format("20060102_150405")))

	f, err := fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create log file: %w", err)
	}
	return f, path, nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error", "fatal":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
