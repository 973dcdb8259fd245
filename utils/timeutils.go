package utils

import (
	"time"
)

// NotAvailable marks a departure with no usable time.
const NotAvailable = "N/A"

// Iso8601Now returns the current time in ISO8601 format
func Iso8601Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Iso8601FromUnixSeconds converts Unix timestamp to ISO8601 format
func Iso8601FromUnixSeconds(sec int64) string {
	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}

// FormatLocalHHMM renders an epoch as 24-hour "HH:MM" in loc. Non-positive
// epochs yield NotAvailable and false.
func FormatLocalHHMM(sec int64, loc *time.Location) (string, bool) {
	if sec <= 0 {
		return NotAvailable, false
	}
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(sec, 0).In(loc).Format("15:04"), true
}
