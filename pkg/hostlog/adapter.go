package hostlog

import (
	"context"
	"errors"
	"fmt"

	"github.com/fyrsmithlabs/httplog/pkg/leveled"
)

// Sink receives one formatted message per log call. It must be safe for
// concurrent use.
type Sink func(message string, level Level)

// ErrNilSink is returned by NewAdapter when no sink is given.
var ErrNilSink = errors.New("hostlog: sink is required")

// Adapter implements leveled.Logger on top of a Sink. It holds no mutable
// state and needs no locking.
type Adapter struct {
	sink Sink
}

var _ leveled.Logger = (*Adapter)(nil)

// NewAdapter returns an Adapter that forwards to sink.
func NewAdapter(sink Sink) (*Adapter, error) {
	if sink == nil {
		return nil, ErrNilSink
	}
	return &Adapter{sink: sink}, nil
}

// Log formats the entry and hands it to the sink exactly once. When level has
// no host mapping the sink is not called and the mapping error is returned.
func (a *Adapter) Log(_ context.Context, level leveled.Level, template string, args []any, err error) error {
	mapped, mapErr := MapLevel(level)
	if mapErr != nil {
		return fmt.Errorf("hostlog: %w", mapErr)
	}

	msg := leveled.Format(template, args...)
	if err != nil {
		msg += ": " + err.Error()
	}

	a.sink(msg, mapped)
	return nil
}

// IsEnabled is not supported: the sink offers no level filtering query.
func (a *Adapter) IsEnabled(level leveled.Level) (bool, error) {
	return false, fmt.Errorf("hostlog: IsEnabled(%s): %w", level, errors.ErrUnsupported)
}

// BeginScope is not supported: the sink has no notion of scoped context.
func (a *Adapter) BeginScope(any) (func(), error) {
	return nil, fmt.Errorf("hostlog: BeginScope: %w", errors.ErrUnsupported)
}
