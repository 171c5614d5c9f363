package bookings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeEndDate(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		days  int
		want  time.Time
	}{
		{"same month", date(2025, 6, 1), 5, date(2025, 6, 6)},
		{"month rollover", date(2025, 1, 29), 5, date(2025, 2, 3)},
		{"leap day", date(2024, 2, 27), 3, date(2024, 3, 1)},
		{"year rollover", date(2025, 12, 30), 3, date(2026, 1, 2)},
		{"zero days", date(2025, 6, 1), 0, date(2025, 6, 1)},
		{"time of day dropped", time.Date(2025, 6, 1, 18, 30, 0, 0, time.UTC), 1, date(2025, 6, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeEndDate(tt.start, tt.days))
		})
	}
}

func TestComputeTotalPrice(t *testing.T) {
	assert.Equal(t, 100000.0, ComputeTotalPrice(25000, 4))
	assert.Equal(t, 25000.0, ComputeTotalPrice(25000, 1))
	assert.InDelta(t, 299.97, ComputeTotalPrice(99.99, 3), 1e-9)
}

func TestParseStartDate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    time.Time
		wantErr bool
	}{
		{"date only", "2025-06-01", date(2025, 6, 1), false},
		{"rfc3339 utc", "2025-06-01T10:00:00Z", date(2025, 6, 1), false},
		{"rfc3339 keeps written date", "2025-06-01T23:30:00-05:00", date(2025, 6, 1), false},
		{"surrounding spaces", " 2025-06-01 ", date(2025, 6, 1), false},
		{"empty", "", time.Time{}, true},
		{"garbage", "next tuesday", time.Time{}, true},
		{"impossible date", "2025-02-30", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStartDate(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
