package logging

import (
	"fmt"
	"testing"
	"time"

	"github.com/fyrsmithlabs/httplog/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func sampledLogger(levels map[zapcore.Level]LevelSamplingConfig) (*zap.Logger, *observer.ObservedLogs) {
	core, observed := observer.New(TraceLevel)
	sampled := newSampledCore(core, SamplingConfig{
		Enabled: true,
		Tick:    config.Duration(time.Minute),
		Levels:  levels,
	})
	return zap.New(sampled), observed
}

func TestNewSampledCore_Disabled(t *testing.T) {
	core, _ := observer.New(TraceLevel)
	got := newSampledCore(core, SamplingConfig{Enabled: false})
	assert.Same(t, core, got)
}

func TestNewSampledCore_PerLevelRates(t *testing.T) {
	logger, observed := sampledLogger(map[zapcore.Level]LevelSamplingConfig{
		zapcore.InfoLevel: {Initial: 2, Thereafter: 0},
	})

	for i := 0; i < 10; i++ {
		logger.Info("repeated")
		logger.Warn("repeated")
	}

	assert.Equal(t, 2, observed.FilterLevelExact(zapcore.InfoLevel).Len(), "info sampled")
	assert.Equal(t, 10, observed.FilterLevelExact(zapcore.WarnLevel).Len(), "warn has no sampler")
}

func TestNewSampledCore_ErrorsNeverSampled(t *testing.T) {
	logger, observed := sampledLogger(DefaultLevelSamplingConfig())

	for i := 0; i < 500; i++ {
		logger.Error("failed http call")
	}

	assert.Equal(t, 500, observed.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestNewSampledCore_EachEntryWrittenOnce(t *testing.T) {
	logger, observed := sampledLogger(DefaultLevelSamplingConfig())

	logger.Log(TraceLevel, "t")
	logger.Debug("d")
	logger.Info("i")
	logger.Warn("w")
	logger.Error("e")
	logger.DPanic("p")

	entries := observed.All()
	require.Len(t, entries, 6)
}

func TestNewSampledCore_DistinctMessagesNotCollapsed(t *testing.T) {
	logger, observed := sampledLogger(map[zapcore.Level]LevelSamplingConfig{
		zapcore.InfoLevel: {Initial: 1, Thereafter: 0},
	})

	for i := 0; i < 5; i++ {
		logger.Info(fmt.Sprintf("call %d", i))
	}

	assert.Equal(t, 5, observed.Len())
}

func TestLevelFilterCore_Bounds(t *testing.T) {
	core, _ := observer.New(TraceLevel)

	tests := []struct {
		name   string
		filter *levelFilterCore
		level  zapcore.Level
		want   bool
	}{
		{"unbounded", &levelFilterCore{Core: core}, TraceLevel, true},
		{"min info admits info", &levelFilterCore{Core: core, minLevel: zapcore.InfoLevel, hasMin: true}, zapcore.InfoLevel, true},
		{"min info rejects debug", &levelFilterCore{Core: core, minLevel: zapcore.InfoLevel, hasMin: true}, zapcore.DebugLevel, false},
		{"max info rejects warn", &levelFilterCore{Core: core, maxLevel: zapcore.InfoLevel, hasMax: true}, zapcore.WarnLevel, false},
		{"max info admits trace", &levelFilterCore{Core: core, maxLevel: zapcore.InfoLevel, hasMax: true}, TraceLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Enabled(tt.level))
		})
	}
}

func TestLevelFilterCore_WithKeepsBounds(t *testing.T) {
	core, observed := observer.New(TraceLevel)
	filter := &levelFilterCore{Core: core, minLevel: zapcore.WarnLevel, hasMin: true}

	child := zap.New(filter).With(zap.String("k", "v"))
	child.Info("dropped")
	child.Warn("kept")

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Message)
	assert.Equal(t, "v", entries[0].ContextMap()["k"])
}
