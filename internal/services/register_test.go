package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fyrsmithlabs/httplog/internal/config"
	"github.com/fyrsmithlabs/httplog/internal/logging"
	"github.com/fyrsmithlabs/httplog/internal/telemetry"
	"github.com/fyrsmithlabs/httplog/pkg/hostlog"
	"github.com/fyrsmithlabs/httplog/pkg/httplog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// fixedClock advances by step on every Now call.
type fixedClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func TestNewRegistry(t *testing.T) {
	var _ Registry = (*registry)(nil)

	reg := NewRegistry(Options{})
	assert.Nil(t, reg.Config())
	assert.Nil(t, reg.Logger())
	assert.Nil(t, reg.Sink())
	assert.Nil(t, reg.LeveledLogger())
	assert.Nil(t, reg.HTTPClient())
	assert.Nil(t, reg.Telemetry())
	assert.NoError(t, reg.Close(context.Background()))
}

func TestRegistry_CloseJoinsErrors(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")
	var order []string

	reg := NewRegistry(Options{Closers: []func(context.Context) error{
		func(context.Context) error { order = append(order, "sink"); return errA },
		func(context.Context) error { order = append(order, "telemetry"); return nil },
		func(context.Context) error { order = append(order, "other"); return errB },
	}})

	err := reg.Close(context.Background())
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Equal(t, []string{"sink", "telemetry", "other"}, order)
}

func TestRegister_LogsEveryCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	tl := logging.NewTestLogger()
	tt := telemetry.NewTestTelemetry()
	clock := &fixedClock{now: time.Unix(0, 0), step: 15 * time.Millisecond}

	reg, err := Register(context.Background(), config.Default(),
		WithLogger(tl.Logger),
		WithTelemetry(tt.Telemetry),
		WithTransportOptions(httplog.WithClock(clock)),
	)
	require.NoError(t, err)
	defer reg.Close(context.Background())

	assert.Same(t, tl.Logger, reg.Logger())
	assert.Same(t, tt.Telemetry, reg.Telemetry())
	assert.NotNil(t, reg.Sink())
	assert.IsType(t, &hostlog.Adapter{}, reg.LeveledLogger())

	resp, err := reg.HTTPClient().Get(srv.URL + "/brew")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	assert.Equal(t, []string{
		"Sending request: GET " + srv.URL + "/brew",
		"Received response: 418. Duration: 15",
	}, tl.Messages(zapcore.InfoLevel))
	tl.AssertField(t, "Sending request", "component", "httplog.transport")
}

func TestRegister_FailureLoggedAtError(t *testing.T) {
	ln := httptest.NewServer(http.NotFoundHandler())
	addr := ln.URL
	ln.Close()

	tl := logging.NewTestLogger()
	reg, err := Register(context.Background(), config.Default(),
		WithLogger(tl.Logger),
		WithTelemetry(telemetry.NewTestTelemetry().Telemetry),
	)
	require.NoError(t, err)

	_, err = reg.HTTPClient().Get(addr)
	require.Error(t, err)

	errs := tl.Messages(zapcore.ErrorLevel)
	require.Len(t, errs, 1)
	assert.True(t, strings.HasPrefix(errs[0], "Failed http call: unknown. Duration: "), errs[0])
	assert.Contains(t, errs[0], "ExceptionMessage: ")
}

func TestRegister_LogrusBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Host.Backend = config.BackendLogrus
	cfg.Host.File.Path = filepath.Join(t.TempDir(), "calls.log")

	tl := logging.NewTestLogger()
	reg, err := Register(context.Background(), cfg,
		WithLogger(tl.Logger),
		WithTelemetry(telemetry.NewTestTelemetry().Telemetry),
	)
	require.NoError(t, err)

	resp, err := reg.HTTPClient().Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	require.NoError(t, reg.Close(context.Background()))

	data, err := os.ReadFile(cfg.Host.File.Path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Sending request: GET")
	assert.Contains(t, lines[1], "Received response: 200")
	assert.Empty(t, tl.Messages(zapcore.InfoLevel), "zap logger bypassed by logrus backend")
	tl.AssertField(t, "services registered", "host.backend", config.BackendLogrus)
}

func TestRegister_BuildsFromConfig(t *testing.T) {
	reg, err := Register(context.Background(), nil)
	require.NoError(t, err)
	defer reg.Close(context.Background())

	assert.NotNil(t, reg.Config())
	assert.NotNil(t, reg.Logger())
	assert.NotNil(t, reg.Telemetry())
	assert.Equal(t, 30*time.Second, reg.HTTPClient().Timeout)

	transport, ok := reg.HTTPClient().Transport.(*httplog.Transport)
	require.True(t, ok)
	assert.IsType(t, &headerTransport{}, transport.Inner())
}

func TestRegister_UnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Host.Backend = "syslog"

	_, err := Register(context.Background(), cfg,
		WithLogger(logging.NewNop()),
		WithTelemetry(telemetry.NewTestTelemetry().Telemetry),
	)
	require.Error(t, err)
}
