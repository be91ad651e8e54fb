package services

import "time"

// Timestamps are persisted as fixed-width UTC text so that lexicographic
// order matches chronological order. RFC3339Nano would trim trailing
// fractional zeros and misorder rows at whole-second boundaries.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// Accepted due date formats: full timestamps from JS clients and bare
// calendar dates from date inputs.
var dueDateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

func parseDueDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dueDateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
