package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
)

// Logger writes one JSON object per line. Every entry carries the service name,
// the hostname and, when set, the action and request id of the caller.
type Logger struct {
	l         *slog.Logger
	action    string
	requestID string
}

// New creates a logger for service writing to stdout at the given level
// (DEBUG, INFO, WARN or ERROR).
func New(service, level string) (*Logger, error) {
	return NewWithWriter(os.Stdout, service, level)
}

func NewWithWriter(w io.Writer, service, level string) (*Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	hostname, _ := os.Hostname()
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				a.Key = "timestamp"
			}
			if len(groups) == 0 && a.Key == slog.MessageKey {
				a.Key = "message"
			}
			return a
		},
	})

	return &Logger{
		l: slog.New(handler).With("service", service, "hostname", hostname),
	}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{l: slog.New(slog.NewJSONHandler(io.Discard, nil))}
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "", "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", level)
	}
}

// Action returns a copy of the logger tagged with action.
func (l *Logger) Action(action string) *Logger {
	c := *l
	c.action = action
	return &c
}

// RequestID returns a copy of the logger tagged with the request id.
func (l *Logger) RequestID(id string) *Logger {
	c := *l
	c.requestID = id
	return &c
}

func (l *Logger) With(args ...any) *Logger {
	c := *l
	c.l = l.l.With(args...)
	return &c
}

func (l *Logger) Debug(msg string, args ...any) {
	l.l.Debug(msg, l.attrs(args)...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.l.Info(msg, l.attrs(args)...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.l.Warn(msg, l.attrs(args)...)
}

// Error logs msg with err and the stack of the calling goroutine.
func (l *Logger) Error(msg string, err error, args ...any) {
	if err != nil {
		buf := make([]byte, 1024)
		n := runtime.Stack(buf, false)
		args = append(args, slog.Group("error", "msg", err.Error(), "stack", string(buf[:n])))
	}
	l.l.Error(msg, l.attrs(args)...)
}

func (l *Logger) attrs(args []any) []any {
	out := make([]any, 0, len(args)+4)
	if l.action != "" {
		out = append(out, "action", l.action)
	}
	if l.requestID != "" {
		out = append(out, "request_id", l.requestID)
	}
	return append(out, args...)
}
