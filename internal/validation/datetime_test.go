package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDatetime(t *testing.T) {
	nairobi := time.FixedZone("EAT", 3*60*60)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-01-01T00:00Z", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2025-01-01T10:00:00Z", time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2025-01-01T10:00:00.250Z", time.Date(2025, 1, 1, 10, 0, 0, 250_000_000, time.UTC)},
		{"2025-01-01T13:00:00+03:00", time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2025-01-01 13:00:00 03:00", time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2025-01-01T13:00", time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2025-01-01 13:00:00", time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2025-01-02", time.Date(2025, 1, 1, 21, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDatetime(tt.in, nairobi)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseDatetimeRejects(t *testing.T) {
	for _, in := range []string{"", "yesterday", "2025-13-01", "01/02/2025"} {
		_, err := ParseDatetime(in, time.UTC)
		assert.Error(t, err, in)
	}
}
