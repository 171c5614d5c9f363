package bookings

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of booking dates
const DateLayout = "2006-01-02"

// ParseStartDate accepts YYYY-MM-DD or RFC3339 and returns the calendar date at UTC midnight
func ParseStartDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: startDate is required", ErrInvalidInput)
	}

	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return truncateToDate(t), nil
	}
	return time.Time{}, fmt.Errorf("%w: startDate %q is not a valid date", ErrInvalidInput, raw)
}

// truncateToDate keeps the calendar date as written, dropping time of day and zone
func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ComputeEndDate adds durationDays calendar days. Weekends and holidays count.
func ComputeEndDate(start time.Time, durationDays int) time.Time {
	return truncateToDate(start).AddDate(0, 0, durationDays)
}

// ComputeTotalPrice multiplies in float64 with no rounding or currency handling
func ComputeTotalPrice(pricePerPerson float64, numberOfPeople int) float64 {
	return pricePerPerson * float64(numberOfPeople)
}
