package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHourOf(t *testing.T) {
	tests := []struct {
		name      string
		timestamp string
		expected  int
	}{
		{"seconds precision", "2025-09-20T08:30:00", 8},
		{"minute precision", "2025-09-20T10:45", 10},
		{"fractional seconds", "2025-09-20T17:05:00.123456", 17},
		{"space separator", "2025-09-20 21:59:59", 21},
		{"utc suffix", "2025-09-20T23:00:00Z", 23},
		{"offset kept as written", "2025-09-20T06:15:00+08:00", 6},
		{"negative offset kept as written", "2025-09-20T19:00-05:00", 19},
		{"midnight", "2025-09-21T00:00:00", 0},
		{"date only", "2025-09-20", 0},
		{"hour precision", "2025-09-20T08", 8},
		{"compact offset", "2025-09-20T06:15:00+0800", 6},
		{"hour-only offset", "2025-09-20T18:00+05", 18},
		{"comma fraction", "2025-09-20T07:00:00,5", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hour, err := HourOf(tt.timestamp)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, hour)
		})
	}
}

func TestHourOf_FormatError(t *testing.T) {
	tests := []struct {
		name      string
		timestamp string
	}{
		{"empty", ""},
		{"time only", "08:30"},
		{"hour out of range", "2025-09-20T25:00:00"},
		{"invalid day", "2025-02-30T08:00:00"},
		{"slash date", "20/09/2025 08:30"},
		{"free text", "tomorrow morning"},
		{"single-digit hour", "2025-09-20T8:30:00"},
		{"surrounding whitespace", "  2025-09-20T09:00:00 "},
		{"minute out of range", "2025-09-20T08:60"},
		{"offset hour out of range", "2025-09-20T08:00+24:00"},
		{"offset without time", "2025-09-20+08:00"},
		{"month out of range", "2025-13-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HourOf(tt.timestamp)
			require.Error(t, err)

			var fe *FormatError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.timestamp, fe.Value)
			assert.Contains(t, err.Error(), "invalid timestamp")
		})
	}
}

func TestFormatError_WithField(t *testing.T) {
	err := &FormatError{Field: "arr_time", Value: "soon"}
	assert.Equal(t, `invalid arr_time "soon": want ISO-8601 like 2025-09-20T08:30:00`, err.Error())
}
