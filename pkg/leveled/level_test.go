package leveled

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel_Ordering(t *testing.T) {
	ordered := []Level{Trace, Debug, Information, Warning, Error, Critical, None}
	for i := 1; i < len(ordered); i++ {
		assert.Less(t, ordered[i-1], ordered[i])
	}
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{Trace, "trace"},
		{Debug, "debug"},
		{Information, "information"},
		{Warning, "warning"},
		{Error, "error"},
		{Critical, "critical"},
		{None, "none"},
		{Level(42), "Level(42)"},
		{Level(-1), "Level(-1)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.level.String())
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"trace", Trace},
		{"DEBUG", Debug},
		{"Information", Information},
		{"info", Information},
		{"warn", Warning},
		{" warning ", Warning},
		{"error", Error},
		{"fatal", Critical},
		{"critical", Critical},
		{"none", None},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestParseLevel_Invalid(t *testing.T) {
	_, err := ParseLevel("verbose")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "verbose")
}

func TestLevel_TextRoundTrip(t *testing.T) {
	var l Level
	require.NoError(t, l.UnmarshalText([]byte("warn")))
	assert.Equal(t, Warning, l)

	text, err := l.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "warning", string(text))

	_, err = Level(99).MarshalText()
	assert.Error(t, err)
}
