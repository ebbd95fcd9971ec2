// Package hostlog adapts a host environment's two-argument log callback to
// the leveled.Logger contract.
//
// Hosts usually expose nothing richer than "write this message at this
// level". Adapter bridges that callback to leveled.Logger, translating levels
// through a fixed table (see MapLevel) and refusing the capabilities a plain
// callback cannot provide.
package hostlog

import (
	"errors"
	"fmt"

	"github.com/fyrsmithlabs/httplog/pkg/leveled"
)

// Level is the host's severity scale.
type Level int

const (
	Trace Level = iota
	Info
	Warn
	Error
	Fatal
)

// String returns the lowercase name of the level.
func (l Level) String() string {
	switch l {
	case Trace:
		return "trace"
	case Info:
		return "info"
	case Warn:
		return "warn"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// ErrUnmappedLevel is returned for generic levels with no host equivalent.
var ErrUnmappedLevel = errors.New("log level has no host mapping")

// levelMap is the complete translation table. leveled.Debug is absent on
// purpose: the host scale has no slot for it and no neighbour is assumed.
var levelMap = map[leveled.Level]Level{
	leveled.Trace:       Trace,
	leveled.Information: Info,
	leveled.Warning:     Warn,
	leveled.Error:       Error,
	leveled.Critical:    Fatal,
}

// MapLevel translates a generic level to the host scale. Levels outside the
// table, including leveled.Debug and leveled.None, yield an error wrapping
// ErrUnmappedLevel.
func MapLevel(level leveled.Level) (Level, error) {
	if mapped, ok := levelMap[level]; ok {
		return mapped, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnmappedLevel, level)
}

// MappedLevels returns the generic levels MapLevel accepts, in ascending
// order.
func MappedLevels() []leveled.Level {
	return []leveled.Level{
		leveled.Trace,
		leveled.Information,
		leveled.Warning,
		leveled.Error,
		leveled.Critical,
	}
}
