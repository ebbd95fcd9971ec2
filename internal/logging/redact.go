package logging

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/fyrsmithlabs/httplog/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const maxPatternLen = 200

var (
	// urlCredentials matches the userinfo of an absolute URL inside free text.
	urlCredentials = regexp.MustCompile(`([a-zA-Z][a-zA-Z0-9+.-]*://)([^/\s:@]+):([^/\s@]+)@`)

	// httpURL matches an http(s) URL inside free text, stopping at quotes.
	httpURL = regexp.MustCompile(`https?://[^\s"'<>]+`)
)

// secretMarshaler wraps config.Secret for Zap object marshaling.
type secretMarshaler struct {
	key string
	val config.Secret
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (s *secretMarshaler) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString(s.key, fmt.Sprintf("[REDACTED:%d]", len(s.val.Value())))
	return nil
}

// Secret creates a Zap field for config.Secret with redaction indicator.
func Secret(key string, val config.Secret) zap.Field {
	return zap.Object(key, &secretMarshaler{key: key, val: val})
}

// RedactedString creates a Zap field with redacted value and length.
func RedactedString(key, val string) zap.Field {
	return zap.String(key, "[REDACTED:"+strconv.Itoa(len(val))+"]")
}

// URL creates a Zap field for a URL with its password and any query
// parameter named in sensitive masked.
func URL(key, raw string, sensitive ...string) zap.Field {
	return zap.String(key, RedactURL(raw, sensitive...))
}

// RedactURL masks the userinfo password and the values of query parameters
// whose names appear in sensitive (case-insensitive). Unparseable input has
// only embedded credentials masked.
func RedactURL(raw string, sensitive ...string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return RedactText(raw)
	}
	if len(sensitive) > 0 && u.RawQuery != "" {
		q := u.Query()
		for name := range q {
			for _, s := range sensitive {
				if strings.EqualFold(name, s) {
					q.Set(name, "REDACTED")
				}
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.Redacted()
}

// RedactText masks URL userinfo passwords embedded anywhere in s.
func RedactText(s string) string {
	return urlCredentials.ReplaceAllString(s, "${1}${2}:xxxxx@")
}

// RedactingEncoder wraps a zapcore.Encoder to redact sensitive fields.
type RedactingEncoder struct {
	zapcore.Encoder
	fieldNames  map[string]bool
	redactRegex []*regexp.Regexp
	queryParams []string
	enabled     bool
}

// NewRedactingEncoder wraps an encoder with redaction rules.
// Returns error if any redaction pattern fails to compile.
func NewRedactingEncoder(base zapcore.Encoder, cfg RedactionConfig) (*RedactingEncoder, error) {
	if !cfg.Enabled {
		return &RedactingEncoder{Encoder: base}, nil
	}

	fields := make(map[string]bool, len(cfg.Fields))
	for _, f := range cfg.Fields {
		fields[strings.ToLower(f)] = true
	}

	patterns, err := compilePatterns(cfg.Patterns)
	if err != nil {
		return nil, err
	}

	return &RedactingEncoder{
		Encoder:     base,
		fieldNames:  fields,
		redactRegex: patterns,
		queryParams: cfg.QueryParams,
		enabled:     true,
	}, nil
}

func (e *RedactingEncoder) shouldRedactKey(key string) bool {
	return e.fieldNames[strings.ToLower(key)]
}

// redactValue applies pattern and URL rules to a value.
func (e *RedactingEncoder) redactValue(val string) string {
	for _, re := range e.redactRegex {
		if re.MatchString(val) {
			return "[REDACTED:pattern]"
		}
	}
	return e.redactText(val)
}

// redactText masks URL passwords and sensitive query parameters in s.
func (e *RedactingEncoder) redactText(s string) string {
	s = RedactText(s)
	if len(e.queryParams) == 0 || !strings.Contains(s, "?") {
		return s
	}
	return httpURL.ReplaceAllStringFunc(s, func(u string) string {
		if !strings.Contains(u, "?") {
			return u
		}
		return RedactURL(u, e.queryParams...)
	})
}

// AddString redacts sensitive field names and value patterns.
func (e *RedactingEncoder) AddString(key, val string) {
	if !e.enabled {
		e.Encoder.AddString(key, val)
		return
	}
	if e.shouldRedactKey(key) {
		e.Encoder.AddString(key, "[REDACTED]")
		return
	}
	e.Encoder.AddString(key, e.redactValue(val))
}

// AddByteString redacts sensitive field names.
func (e *RedactingEncoder) AddByteString(key string, val []byte) {
	if e.shouldRedactKey(key) {
		e.Encoder.AddByteString(key, []byte("[REDACTED]"))
		return
	}
	e.Encoder.AddByteString(key, val)
}

// AddBinary redacts sensitive field names.
func (e *RedactingEncoder) AddBinary(key string, val []byte) {
	if e.shouldRedactKey(key) {
		e.Encoder.AddBinary(key, []byte("[REDACTED]"))
		return
	}
	e.Encoder.AddBinary(key, val)
}

// AddReflected redacts the whole value when the key is sensitive.
func (e *RedactingEncoder) AddReflected(key string, val interface{}) error {
	if e.shouldRedactKey(key) {
		e.Encoder.AddString(key, "[REDACTED]")
		return nil
	}
	return e.Encoder.AddReflected(key, val)
}

// AddArray redacts sensitive field names.
func (e *RedactingEncoder) AddArray(key string, arr zapcore.ArrayMarshaler) error {
	if e.shouldRedactKey(key) {
		e.Encoder.AddString(key, "[REDACTED]")
		return nil
	}
	return e.Encoder.AddArray(key, arr)
}

// AddObject redacts sensitive field names.
func (e *RedactingEncoder) AddObject(key string, obj zapcore.ObjectMarshaler) error {
	if e.shouldRedactKey(key) {
		e.Encoder.AddString(key, "[REDACTED]")
		return nil
	}
	return e.Encoder.AddObject(key, obj)
}

// EncodeEntry redacts the message and per-entry fields before encoding.
// Fields added through With reach the Add* methods instead.
func (e *RedactingEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	if !e.enabled {
		return e.Encoder.EncodeEntry(ent, fields)
	}
	ent.Message = e.redactText(ent.Message)
	return e.Encoder.EncodeEntry(ent, e.redactFields(fields))
}

// redactFields returns fields with sensitive keys and string values masked.
// Only string fields are inspected by value.
func (e *RedactingEncoder) redactFields(fields []zapcore.Field) []zapcore.Field {
	redacted := make([]zapcore.Field, len(fields))
	for i, f := range fields {
		switch {
		case e.shouldRedactKey(f.Key):
			redacted[i] = zap.String(f.Key, "[REDACTED]")
		case f.Type == zapcore.StringType:
			redacted[i] = zap.String(f.Key, e.redactValue(f.String))
		default:
			redacted[i] = f
		}
	}
	return redacted
}

// redactingCore applies the encoder's rules to a core that does its own
// encoding, such as the OpenTelemetry bridge.
type redactingCore struct {
	zapcore.Core
	rules *RedactingEncoder
}

func (c *redactingCore) With(fields []zapcore.Field) zapcore.Core {
	return &redactingCore{Core: c.Core.With(c.rules.redactFields(fields)), rules: c.rules}
}

func (c *redactingCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *redactingCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	ent.Message = c.rules.redactText(ent.Message)
	return c.Core.Write(ent, c.rules.redactFields(fields))
}

// Clone creates a copy of the encoder.
func (e *RedactingEncoder) Clone() zapcore.Encoder {
	return &RedactingEncoder{
		Encoder:     e.Encoder.Clone(),
		fieldNames:  e.fieldNames,
		redactRegex: e.redactRegex,
		queryParams: e.queryParams,
		enabled:     e.enabled,
	}
}
