package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Logger is the structured logger shared by every service mode. Action
// tags each entry with the operation being performed so log lines can be
// grepped by what happened rather than where it happened.
type Logger interface {
	Action(action string) Logger
	With(args ...any) Logger
	WithGroup(name string) Logger

	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, err error, args ...any)
}

type logger struct {
	sl *slog.Logger
}

// New builds a JSON logger writing to stdout. Level is one of
// DEBUG | INFO | WARN | ERROR (case-insensitive).
func New(level string) (Logger, error) {
	var lvl slog.Level
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "INFO", "":
		lvl = slog.LevelInfo
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level: %s", level)
	}

	hostname, _ := os.Hostname()
	sl := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	return &logger{sl: sl.With("hostname", hostname)}, nil
}

func (l *logger) Action(action string) Logger {
	return &logger{sl: l.sl.With("action", action)}
}

func (l *logger) With(args ...any) Logger {
	return &logger{sl: l.sl.With(args...)}
}

func (l *logger) WithGroup(name string) Logger {
	return &logger{sl: l.sl.WithGroup(name)}
}

func (l *logger) Debug(msg string, args ...any) {
	l.sl.Debug(msg, args...)
}

func (l *logger) Info(msg string, args ...any) {
	l.sl.Info(msg, args...)
}

func (l *logger) Warn(msg string, args ...any) {
	l.sl.Warn(msg, args...)
}

func (l *logger) Error(msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err.Error())
	}
	l.sl.Error(msg, args...)
}
