// internal/logging/levels.go
package logging

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// TraceLevel is a custom level below Debug for ultra-verbose logging.
// Value: -2 (Debug is -1, Info is 0)
const TraceLevel = zapcore.Level(-2)

// LevelFromString parses a level name, supporting "trace". Matching is
// case-insensitive; an empty string means info.
func LevelFromString(level string) (zapcore.Level, error) {
	lower := strings.ToLower(strings.TrimSpace(level))
	if lower == "trace" {
		return TraceLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(lower)); err != nil {
		return zapcore.InfoLevel, err
	}
	return l, nil
}

// LevelName returns the lowercase name of a level, including "trace".
func LevelName(l zapcore.Level) string {
	if l == TraceLevel {
		return "trace"
	}
	return l.String()
}

// Level is a zapcore.Level that decodes "trace" from config text.
type Level zapcore.Level

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := LevelFromString(string(text))
	if err != nil {
		return err
	}
	*l = Level(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(LevelName(l.Zap())), nil
}

// Zap returns the underlying zapcore.Level.
func (l Level) Zap() zapcore.Level {
	return zapcore.Level(l)
}

// Enabled implements zapcore.LevelEnabler.
func (l Level) Enabled(lvl zapcore.Level) bool {
	return l.Zap().Enabled(lvl)
}
