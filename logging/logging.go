// Package logging provides the logger capability handed to every component.
//
// Nothing in this module logs through process-global state; callers build a
// Logger once and pass it down.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is what components log through.
// keyvals are alternating key and value pairs.
type Logger interface {
	Info(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

// New builds a zerolog logger writing to w at the given level.
// If w is nil, os.Stderr is used. Format must be "text" or "json".
func New(w io.Writer, level zerolog.Level, format string) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if format != "json" {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: "15:04:05"}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// ParseLevel converts a level name such as "info" or "error".
func ParseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q", s)
	}
	return lvl, nil
}

// Zerolog adapts l to Logger.
func Zerolog(l zerolog.Logger) Logger {
	return zl{l}
}

type zl struct {
	log zerolog.Logger
}

func (l zl) Info(msg string, keyvals ...any) {
	l.log.Info().Fields(keyvals).Msg(msg)
}

func (l zl) Error(msg string, keyvals ...any) {
	l.log.Error().Fields(keyvals).Msg(msg)
}

// Component returns a Logger that tags every line with component=name.
// Loggers not created by Zerolog are returned unchanged.
func Component(l Logger, name string) Logger {
	if z, ok := l.(zl); ok {
		return zl{z.log.With().Str("component", name).Logger()}
	}
	return l
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return nop{}
}

type nop struct{}

func (nop) Info(string, ...any)  {}
func (nop) Error(string, ...any) {}

// OrNop returns l, or a no-op Logger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return nop{}
	}
	return l
}
