package gtfs

import (
	"sort"
	"time"
)

// Schedule is an immutable snapshot of the static GTFS tables.
// It is built once and shared read-only between requests.
type Schedule struct {
	stops     []Stop // file order
	stopTimes []StopTime
	routes    map[string]Route
	trips     map[string]Trip
	stopIdx   map[string]int   // stop_id -> position in stops
	atStop    map[string][]int // stop_id -> positions in stopTimes
	source    string
	key       string // identity of the configured source, see Load
	loadedAt  time.Time
}

// NewSchedule indexes the given tables. The slices are owned by the
// schedule afterwards and must not be modified by the caller.
func NewSchedule(routes []Route, trips []Trip, stops []Stop, stopTimes []StopTime) *Schedule {
	s := &Schedule{
		stops:     stops,
		stopTimes: stopTimes,
		routes:    make(map[string]Route, len(routes)),
		trips:     make(map[string]Trip, len(trips)),
		stopIdx:   make(map[string]int, len(stops)),
		atStop:    make(map[string][]int, len(stops)),
		loadedAt:  time.Now(),
	}
	for _, r := range routes {
		if _, ok := s.routes[r.RouteID]; !ok {
			s.routes[r.RouteID] = r
		}
	}
	for _, t := range trips {
		if _, ok := s.trips[t.TripID]; !ok {
			s.trips[t.TripID] = t
		}
	}
	for i, st := range stops {
		if _, ok := s.stopIdx[st.StopID]; !ok {
			s.stopIdx[st.StopID] = i
		}
	}
	for i, st := range stopTimes {
		s.atStop[st.StopID] = append(s.atStop[st.StopID], i)
	}
	return s
}

// WithSource records where the snapshot came from, for health reporting.
func (s *Schedule) WithSource(source string) *Schedule {
	s.source = source
	return s
}

// Source describes where the snapshot was loaded from
func (s *Schedule) Source() string { return s.source }

// LoadedAt is the time the snapshot was built
func (s *Schedule) LoadedAt() time.Time { return s.loadedAt }

// Stops returns every stop in snapshot order. The slice must not be modified.
func (s *Schedule) Stops() []Stop { return s.stops }

// StopTimes returns every stop_time row. The slice must not be modified.
func (s *Schedule) StopTimes() []StopTime { return s.stopTimes }

func (s *Schedule) Stop(stopID string) (Stop, bool) {
	i, ok := s.stopIdx[stopID]
	if !ok {
		return Stop{}, false
	}
	return s.stops[i], true
}

func (s *Schedule) Trip(tripID string) (Trip, bool) {
	t, ok := s.trips[tripID]
	return t, ok
}

func (s *Schedule) Route(routeID string) (Route, bool) {
	r, ok := s.routes[routeID]
	return r, ok
}

// RouteShortName returns the route's short name, or "" when unknown
func (s *Schedule) RouteShortName(routeID string) string { return s.routes[routeID].ShortName }

// TripIDs returns all scheduled trip ids in sorted order
func (s *Schedule) TripIDs() []string {
	ids := make([]string, 0, len(s.trips))
	for id := range s.trips {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// StopTimesAt returns the stop_time rows touching any of the given stops,
// in original row order.
func (s *Schedule) StopTimesAt(stopIDs ...string) []StopTime {
	var idx []int
	seen := make(map[string]struct{}, len(stopIDs))
	for _, id := range stopIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		idx = append(idx, s.atStop[id]...)
	}
	sort.Ints(idx)
	out := make([]StopTime, len(idx))
	for i, j := range idx {
		out[i] = s.stopTimes[j]
	}
	return out
}

func (s *Schedule) NumStops() int { return len(s.stops) }
func (s *Schedule) NumTrips() int { return len(s.trips) }
func (s *Schedule) NumRoutes() int { return len(s.routes) }
func (s *Schedule) NumStopTimes() int { return len(s.stopTimes) }
