package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRFC3339RoundTrip(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 30, 5, 0, time.UTC)

	formatted := FormatRFC3339(now)
	assert.Equal(t, "2026-08-30T14:30:05Z", formatted)

	parsed := ParseRFC3339(formatted)
	require.False(t, parsed.IsZero())
	assert.True(t, parsed.Equal(now))
}

func TestFormatRFC3339NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	local := time.Date(2026, 8, 30, 17, 30, 5, 0, loc)

	assert.Equal(t, "2026-08-30T14:30:05Z", FormatRFC3339(local))
}

func TestParseRFC3339Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty string", input: ""},
		{name: "not a timestamp", input: "yesterday"},
		{name: "date only", input: "2026-08-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, ParseRFC3339(tt.input).IsZero())
		})
	}
}
