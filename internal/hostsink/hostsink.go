// Package hostsink provides the concrete hostlog.Sink implementations that
// httplog ships with: the zap host logger and a logrus logger with optional
// rotating file output.
//
// A hostlog.Sink receives only a message and a level. The request context
// stops at hostlog.Adapter, so entries written here never carry the call.id,
// request.id or trace_id that internal/logging reads from a context. Fields
// that identify the source of the entries can be bound when the sink is
// built; see Zap.
package hostsink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fyrsmithlabs/httplog/internal/config"
	"github.com/fyrsmithlabs/httplog/internal/logging"
	"github.com/fyrsmithlabs/httplog/pkg/hostlog"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// hostLevelKey tags entries whose host level was lowered or had no mapping.
const hostLevelKey = "host.level"

// Bound by New on every zap entry so transport output can be filtered.
const (
	componentKey  = "component"
	componentName = "httplog.transport"
)

var zapLevels = map[hostlog.Level]zapcore.Level{
	hostlog.Trace: logging.TraceLevel,
	hostlog.Info:  zapcore.InfoLevel,
	hostlog.Warn:  zapcore.WarnLevel,
	hostlog.Error: zapcore.ErrorLevel,
	// Lowered to DPanic by Logger.Log; the process keeps running.
	hostlog.Fatal: zapcore.FatalLevel,
}

// Zap returns a Sink that writes to logger with fields bound on every entry.
// A level outside the hostlog enum is written at Error and tagged with
// host.level, like Fatal, so it is never silently reclassified.
func Zap(logger *logging.Logger, fields ...zap.Field) hostlog.Sink {
	if len(fields) > 0 {
		logger = logger.With(fields...)
	}
	return func(message string, level hostlog.Level) {
		lvl, ok := zapLevels[level]
		if !ok {
			lvl = zapcore.ErrorLevel
		}
		if !ok || level == hostlog.Fatal {
			logger.Log(context.Background(), lvl, message, zap.String(hostLevelKey, level.String()))
			return
		}
		logger.Log(context.Background(), lvl, message)
	}
}

var logrusLevels = map[hostlog.Level]logrus.Level{
	hostlog.Trace: logrus.TraceLevel,
	hostlog.Info:  logrus.InfoLevel,
	hostlog.Warn:  logrus.WarnLevel,
	hostlog.Error: logrus.ErrorLevel,
	// Entry.Log writes fatal entries without calling the exit handler.
	hostlog.Fatal: logrus.FatalLevel,
}

// Logrus returns a Sink that writes to logger. It takes the concrete
// *logrus.Logger because logrus.FieldLogger has no level-parameterised Log.
// Unknown levels are written at Error with a host.level field.
func Logrus(logger *logrus.Logger) hostlog.Sink {
	return func(message string, level hostlog.Level) {
		lvl, ok := logrusLevels[level]
		if !ok {
			logger.WithField(hostLevelKey, level.String()).Log(logrus.ErrorLevel, message)
			return
		}
		logger.Log(lvl, message)
	}
}

// NewLogrus builds a JSON logrus logger at level. With cfg.Path set, output
// goes to a rotating file and the returned closer releases it; otherwise
// output goes to stdout and the closer is a no-op.
func NewLogrus(cfg config.HostFileConfig, level logrus.Level) (*logrus.Logger, io.Closer) {
	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "ts",
		},
	})

	if cfg.Path == "" {
		logger.SetOutput(os.Stdout)
		return logger, closerFunc(func() error { return nil })
	}

	writer := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	logger.SetOutput(writer)
	return logger, writer
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// ErrUnknownBackend is returned by New for a backend it cannot build.
var ErrUnknownBackend = errors.New("hostsink: unknown backend")

// New builds the sink selected by cfg.Backend. The zap backend writes to
// zl; the logrus backend builds its own logger at the level zl is enabled
// for. The returned close function flushes or releases the backend.
func New(cfg config.HostConfig, zl *logging.Logger) (hostlog.Sink, func() error, error) {
	switch cfg.Backend {
	case "", config.BackendZap:
		return Zap(zl, zap.String(componentKey, componentName)), zl.Sync, nil
	case config.BackendLogrus:
		logger, closer := NewLogrus(cfg.File, logrusLevelFor(zl))
		return Logrus(logger), closer.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// logrusLevelFor returns the most verbose logrus level zl has enabled.
func logrusLevelFor(zl *logging.Logger) logrus.Level {
	switch {
	case zl.Enabled(logging.TraceLevel):
		return logrus.TraceLevel
	case zl.Enabled(zapcore.DebugLevel):
		return logrus.DebugLevel
	case zl.Enabled(zapcore.InfoLevel):
		return logrus.InfoLevel
	case zl.Enabled(zapcore.WarnLevel):
		return logrus.WarnLevel
	default:
		return logrus.ErrorLevel
	}
}
