package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// captureStdout redirects the stdout core to a buffer for one test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	orig := stdout
	stdout = buf
	t.Cleanup(func() { stdout = orig })
	return buf
}

// decodeLines parses newline-delimited JSON log output.
func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		out = append(out, m)
	}
	return out
}

func TestNewLogger(t *testing.T) {
	cfg := NewDefaultConfig()

	logger, err := NewLogger(cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, logger)

	assert.NotNil(t, logger.zap)
	assert.Equal(t, cfg, logger.config)
}

func TestNewLogger_InvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "xml"

	_, err := NewLogger(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestNewLogger_OTELOnlyWithoutProvider(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Output.Stdout = false
	cfg.Output.OTEL = true

	_, err := NewLogger(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one output")
}

func TestLogger_ContextAwareMethods(t *testing.T) {
	core, observed := observer.New(TraceLevel)
	logger := &Logger{
		zap:    zap.New(core),
		config: NewDefaultConfig(),
	}

	ctx := context.Background()

	tests := []struct {
		name    string
		logFunc func()
		level   zapcore.Level
		message string
	}{
		{
			name:    "trace",
			logFunc: func() { logger.Trace(ctx, "trace message", zap.String("key", "val")) },
			level:   TraceLevel,
			message: "trace message",
		},
		{
			name:    "debug",
			logFunc: func() { logger.Debug(ctx, "debug message", zap.String("key", "val")) },
			level:   zapcore.DebugLevel,
			message: "debug message",
		},
		{
			name:    "info",
			logFunc: func() { logger.Info(ctx, "info message", zap.String("key", "val")) },
			level:   zapcore.InfoLevel,
			message: "info message",
		},
		{
			name:    "warn",
			logFunc: func() { logger.Warn(ctx, "warn message", zap.String("key", "val")) },
			level:   zapcore.WarnLevel,
			message: "warn message",
		},
		{
			name:    "error",
			logFunc: func() { logger.Error(ctx, "error message", zap.String("key", "val")) },
			level:   zapcore.ErrorLevel,
			message: "error message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observed.TakeAll()
			tt.logFunc()

			logs := observed.All()
			require.Len(t, logs, 1)
			assert.Equal(t, tt.level, logs[0].Level)
			assert.Equal(t, tt.message, logs[0].Message)
			assert.Equal(t, "val", logs[0].ContextMap()["key"])
		})
	}
}

func TestLogger_LogClampsFatal(t *testing.T) {
	logger := NewTestLogger()

	logger.Log(context.Background(), zapcore.FatalLevel, "would exit")
	logger.Log(context.Background(), zapcore.PanicLevel, "would panic")

	entries := logger.All()
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, zapcore.DPanicLevel, e.Level)
	}
}

func TestLogger_LogBelowLevelSkipped(t *testing.T) {
	buf := captureStdout(t)
	cfg := NewDefaultConfig()
	cfg.Level = Level(zapcore.WarnLevel)

	logger, err := NewLogger(cfg, nil)
	require.NoError(t, err)

	logger.Log(context.Background(), zapcore.InfoLevel, "quiet")
	logger.Trace(context.Background(), "quieter")
	logger.Log(context.Background(), zapcore.ErrorLevel, "loud")
	require.NoError(t, logger.Sync())

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "loud", lines[0]["msg"])
	assert.Equal(t, "error", lines[0]["level"])
}

func TestLogger_TraceLevelEncodedAsTrace(t *testing.T) {
	buf := captureStdout(t)
	cfg := NewDefaultConfig()
	cfg.Level = Level(TraceLevel)

	logger, err := NewLogger(cfg, nil)
	require.NoError(t, err)

	logger.Trace(context.Background(), "deep detail")
	require.NoError(t, logger.Sync())

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "trace", lines[0]["level"])
	assert.Equal(t, "httplog", lines[0]["service"])
	assert.Contains(t, lines[0], "ts")
}

func TestLogger_With(t *testing.T) {
	logger := NewTestLogger()

	child := logger.With(zap.String("component", "transport"))
	child.Info(context.Background(), "child message")

	logger.AssertField(t, "child message", "component", "transport")
}

func TestLogger_Named(t *testing.T) {
	logger := NewTestLogger()

	logger.Named("sample").Info(context.Background(), "named")

	entries := logger.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "sample", entries[0].LoggerName)
}

func TestLogger_Enabled(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)
	logger := &Logger{zap: zap.New(core), config: NewDefaultConfig()}

	assert.False(t, logger.Enabled(TraceLevel))
	assert.False(t, logger.Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Enabled(zapcore.ErrorLevel))
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	require.NotNil(t, logger)
	assert.False(t, logger.Enabled(zapcore.ErrorLevel))
	assert.NotPanics(t, func() {
		logger.Error(context.Background(), "dropped")
		logger.Log(context.Background(), zapcore.FatalLevel, "dropped")
	})
	assert.NotNil(t, logger.Underlying())
}

func TestIsStdoutSyncError(t *testing.T) {
	assert.True(t, isStdoutSyncError(syscall.EINVAL))
	assert.True(t, isStdoutSyncError(syscall.ENOTTY))
	assert.False(t, isStdoutSyncError(syscall.EIO))
	assert.False(t, isStdoutSyncError(assert.AnError))
}

func TestLogger_ConsoleFormat(t *testing.T) {
	buf := captureStdout(t)
	cfg := NewDefaultConfig()
	cfg.Format = "console"

	logger, err := NewLogger(cfg, nil)
	require.NoError(t, err)

	logger.Info(context.Background(), "console line")
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.Contains(t, out, "info")
	assert.Contains(t, out, "console line")
	assert.False(t, strings.HasPrefix(out, "{"))
}
