package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
)

var Debug = false

// Log is the process-wide logger. It discards everything until InitDebugLog
// wires it to <data_dir>/debug.log; the TUI owns stdout/stderr so logs can
// never go to the terminal.
var Log = slog.New(discardHandler{})

func CheckDebug() bool {
	debug := os.Getenv("GLINT_DEBUG")
	return debug == "true" || debug == "1"
}

// InitDebugLog enables file logging when GLINT_DEBUG is set.
func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600 - may contain message fragments
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return
	}

	Log = slog.New(tint.NewHandler(f, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.TimeOnly,
		NoColor:    true,
	}))
	Log.Info("debug logging started", "path", logPath)
}

// SetLogOutput points the logger at an arbitrary writer. Used by tests.
func SetLogOutput(w io.Writer) {
	Log = slog.New(tint.NewHandler(w, &tint.Options{Level: slog.LevelDebug, NoColor: true}))
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }
