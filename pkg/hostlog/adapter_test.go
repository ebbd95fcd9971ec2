package hostlog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fyrsmithlabs/httplog/pkg/leveled"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	message string
	level   Level
}

// captureSink records every sink invocation.
type captureSink struct {
	mu      sync.Mutex
	entries []entry
}

func (c *captureSink) write(message string, level Level) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entry{message: message, level: level})
}

func (c *captureSink) all() []entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]entry(nil), c.entries...)
}

func newTestAdapter(t *testing.T) (*Adapter, *captureSink) {
	t.Helper()
	sink := &captureSink{}
	a, err := NewAdapter(sink.write)
	require.NoError(t, err)
	return a, sink
}

func TestMapLevel_Table(t *testing.T) {
	tests := []struct {
		in  leveled.Level
		out Level
	}{
		{leveled.Trace, Trace},
		{leveled.Information, Info},
		{leveled.Warning, Warn},
		{leveled.Error, Error},
		{leveled.Critical, Fatal},
	}

	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			for i := 0; i < 3; i++ {
				got, err := MapLevel(tt.in)
				require.NoError(t, err)
				assert.Equal(t, tt.out, got)
			}
		})
	}
}

func TestMapLevel_Unmapped(t *testing.T) {
	for _, level := range []leveled.Level{leveled.Debug, leveled.None, leveled.Level(-1), leveled.Level(17)} {
		t.Run(level.String(), func(t *testing.T) {
			_, err := MapLevel(level)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnmappedLevel)
			assert.Contains(t, err.Error(), level.String())
		})
	}
}

func TestMappedLevels_AllMap(t *testing.T) {
	levels := MappedLevels()
	assert.Len(t, levels, 5)
	for _, l := range levels {
		_, err := MapLevel(l)
		assert.NoError(t, err, l.String())
	}
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "trace", Trace.String())
	assert.Equal(t, "info", Info.String())
	assert.Equal(t, "warn", Warn.String())
	assert.Equal(t, "error", Error.String())
	assert.Equal(t, "fatal", Fatal.String())
	assert.Equal(t, "Level(9)", Level(9).String())
}

func TestNewAdapter_NilSink(t *testing.T) {
	a, err := NewAdapter(nil)
	assert.Nil(t, a)
	assert.ErrorIs(t, err, ErrNilSink)
}

func TestAdapter_Log(t *testing.T) {
	a, sink := newTestAdapter(t)

	err := a.Log(context.Background(), leveled.Information,
		"Sending request: {Method} {RequestUri}", []any{"GET", "https://dummyjson.com/products"}, nil)
	require.NoError(t, err)

	entries := sink.all()
	require.Len(t, entries, 1)
	assert.Equal(t, "Sending request: GET https://dummyjson.com/products", entries[0].message)
	assert.Equal(t, Info, entries[0].level)
}

func TestAdapter_Log_AppendsError(t *testing.T) {
	a, sink := newTestAdapter(t)

	err := a.Log(context.Background(), leveled.Critical, "shutting down {Reason}", []any{"signal"}, errors.New("disk full"))
	require.NoError(t, err)

	entries := sink.all()
	require.Len(t, entries, 1)
	assert.Equal(t, "shutting down signal: disk full", entries[0].message)
	assert.Equal(t, Fatal, entries[0].level)
}

func TestAdapter_Log_UnmappedLevelSkipsSink(t *testing.T) {
	a, sink := newTestAdapter(t)

	err := a.Log(context.Background(), leveled.Debug, "cache hit", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnmappedLevel)
	assert.Empty(t, sink.all())
}

func TestAdapter_IsEnabled_Unsupported(t *testing.T) {
	a, _ := newTestAdapter(t)

	for _, level := range []leveled.Level{leveled.Trace, leveled.Debug, leveled.Information, leveled.Error, leveled.None} {
		enabled, err := a.IsEnabled(level)
		assert.False(t, enabled)
		assert.ErrorIs(t, err, errors.ErrUnsupported)
	}
}

func TestAdapter_BeginScope_Unsupported(t *testing.T) {
	a, _ := newTestAdapter(t)

	for _, state := range []any{nil, "request", map[string]string{"id": "1"}} {
		end, err := a.BeginScope(state)
		assert.Nil(t, end)
		assert.ErrorIs(t, err, errors.ErrUnsupported)
	}
}

func TestAdapter_ConcurrentLog(t *testing.T) {
	a, sink := newTestAdapter(t)

	const workers = 16
	const perWorker = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_ = a.Log(context.Background(), leveled.Warning, "worker {W} item {I}", []any{w, i}, nil)
			}
		}(w)
	}
	wg.Wait()

	entries := sink.all()
	assert.Len(t, entries, workers*perWorker)
	for _, e := range entries {
		assert.Equal(t, Warn, e.level)
	}
}
