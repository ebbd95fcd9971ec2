// Package leveled defines the generic leveled-logging contract consumed by
// the HTTP logging transport.
//
// The contract is deliberately narrow: a single Log entry point that takes a
// message template, plus the two capability queries (IsEnabled, BeginScope)
// that richer logging frameworks expose. Implementations that cannot honour a
// capability return an error wrapping errors.ErrUnsupported instead of
// guessing.
package leveled

import (
	"fmt"
	"strings"
)

// Level is the severity of a log entry, ordered from least to most severe.
type Level int

const (
	Trace Level = iota
	Debug
	Information
	Warning
	Error
	Critical
	// None is the sentinel that disables logging. It is never a valid
	// severity for an entry.
	None
)

var levelNames = [...]string{
	Trace:       "trace",
	Debug:       "debug",
	Information: "information",
	Warning:     "warning",
	Error:       "error",
	Critical:    "critical",
	None:        "none",
}

// String returns the lowercase name of the level.
func (l Level) String() string {
	if l < Trace || l > None {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// Valid reports whether l is one of the declared levels.
func (l Level) Valid() bool {
	return l >= Trace && l <= None
}

// ParseLevel parses a level name. Matching is case-insensitive and accepts
// the short aliases "info", "warn" and "fatal".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return Trace, nil
	case "debug":
		return Debug, nil
	case "information", "info":
		return Information, nil
	case "warning", "warn":
		return Warning, nil
	case "error":
		return Error, nil
	case "critical", "fatal":
		return Critical, nil
	case "none":
		return None, nil
	}
	return None, fmt.Errorf("unknown log level %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid level %d", int(l))
	}
	return []byte(l.String()), nil
}
