package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

var Logger = slog.Default()

// Init installs a text logger on stdout tagged with a fresh run id.
func Init(debug bool) *slog.Logger {
	return InitWriter(os.Stdout, debug)
}

func InitWriter(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	Logger = slog.New(slog.NewTextHandler(w, opts)).With("run_id", uuid.NewString())
	slog.SetDefault(Logger)
	return Logger
}

func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}
