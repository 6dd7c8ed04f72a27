package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/go-andiamo/kdbxinfo/internal/config"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger builds the process logger
//
// with a log file the output is rotated JSON, otherwise it goes to stderr as text on a terminal and JSON elsewhere
func newLogger(cfg config.LogConfig, stderr io.Writer) (*slog.Logger, io.Closer, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		return slog.New(slog.NewJSONHandler(rotator, opts)), rotator, nil
	}
	if isTerminal(stderr) {
		return slog.New(slog.NewTextHandler(stderr, opts)), io.NopCloser(nil), nil
	}
	return slog.New(slog.NewJSONHandler(stderr, opts)), io.NopCloser(nil), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
