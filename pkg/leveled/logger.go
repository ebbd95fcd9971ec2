package leveled

import "context"

// Logger is the leveled logging capability set.
//
// Log formats template with args (see Format), attaches err when non-nil and
// delivers the result at level. IsEnabled and BeginScope are optional
// capabilities: implementations without them return an error wrapping
// errors.ErrUnsupported.
type Logger interface {
	Log(ctx context.Context, level Level, template string, args []any, err error) error
	IsEnabled(level Level) (bool, error)
	BeginScope(state any) (end func(), err error)
}

// LogTrace logs template at Trace.
func LogTrace(ctx context.Context, l Logger, template string, args ...any) error {
	return l.Log(ctx, Trace, template, args, nil)
}

// LogInformation logs template at Information.
func LogInformation(ctx context.Context, l Logger, template string, args ...any) error {
	return l.Log(ctx, Information, template, args, nil)
}

// LogWarning logs template at Warning.
func LogWarning(ctx context.Context, l Logger, template string, args ...any) error {
	return l.Log(ctx, Warning, template, args, nil)
}

// LogError logs template at Error.
func LogError(ctx context.Context, l Logger, template string, args ...any) error {
	return l.Log(ctx, Error, template, args, nil)
}

// LogCritical logs template at Critical with the causing error attached.
func LogCritical(ctx context.Context, l Logger, cause error, template string, args ...any) error {
	return l.Log(ctx, Critical, template, args, cause)
}
