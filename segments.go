package tripfinder

import (
	"sort"

	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/gtfs"
)

// Segment is the part of a trip between the origin and destination stops.
// OriginSequence is always less than DestSequence.
type Segment struct {
	TripID         string `json:"trip_id"`
	OriginSequence int    `json:"origin_sequence"`
	DestSequence   int    `json:"dest_sequence"`
	StopsCount     int    `json:"stops_count"`
}

// Segments holds at most one Segment per trip_id
type Segments map[string]Segment

// TripIDs returns the keys in sorted order
func (s Segments) TripIDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// BuildSegments finds every trip that visits originID and later destID and
// keeps, per trip, the pairing with the fewest stops in between. Trips that
// visit the stops in the opposite order are excluded.
func BuildSegments(originID, destID string, stopTimes []gtfs.StopTime) Segments {
	out := Segments{}
	if originID == destID {
		return out
	}

	origins := map[string][]int{}
	for _, st := range stopTimes {
		if st.StopID == originID {
			origins[st.TripID] = append(origins[st.TripID], st.StopSequence)
		}
	}
	if len(origins) == 0 {
		return out
	}

	var candidates []Segment
	for _, st := range stopTimes {
		if st.StopID != destID {
			continue
		}
		for _, o := range origins[st.TripID] {
			if o < st.StopSequence {
				candidates = append(candidates, Segment{
					TripID:         st.TripID,
					OriginSequence: o,
					DestSequence:   st.StopSequence,
					StopsCount:     st.StopSequence - o,
				})
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].TripID != candidates[j].TripID {
			return candidates[i].TripID < candidates[j].TripID
		}
		return candidates[i].StopsCount < candidates[j].StopsCount
	})
	for _, c := range candidates {
		if _, ok := out[c.TripID]; !ok {
			out[c.TripID] = c
		}
	}
	return out
}
