package tripfinder

import (
	"errors"
	"strings"

	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/gtfs"
)

// ErrNoMatchFound is returned when no stop name matches a destination query
var ErrNoMatchFound = errors.New("no stop matches the query")

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ResolveStop maps free text to a stop. A case-insensitive exact name match
// wins over substring matches; among substring matches the first stop in
// snapshot order is chosen.
func ResolveStop(query string, stops []gtfs.Stop) (gtfs.Stop, error) {
	q := normalizeName(query)
	if q == "" {
		return gtfs.Stop{}, ErrNoMatchFound
	}
	partial := -1
	for i, s := range stops {
		name := normalizeName(s.StopName)
		if name == q {
			return s, nil
		}
		if partial < 0 && strings.Contains(name, q) {
			partial = i
		}
	}
	if partial >= 0 {
		return stops[partial], nil
	}
	return gtfs.Stop{}, ErrNoMatchFound
}
