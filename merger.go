package tripfinder

import (
	"time"

	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/gtfs"
	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/gtfsrt"
	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/utils"
)

// DefaultFallbackLimit caps schedule-only rows per plan
const DefaultFallbackLimit = 10

// ResultRow is one direct trip offered to the user
type ResultRow struct {
	Route           string `json:"route"`
	Headsign        string `json:"headsign"`
	OriginStop      string `json:"origin_stop"`
	DestinationStop string `json:"destination_stop"`
	NextDeparture   string `json:"next_departure"` // "HH:MM" or "N/A"
	StopsCount      int    `json:"stops_count"`
	TripID          string `json:"trip_id"`
	RouteID         string `json:"route_id"`
	Realtime        bool   `json:"realtime"`
	StartTime       string `json:"start_time,omitempty"`
	EstimatedCost   string `json:"estimated_cost,omitempty"`
}

// Merger joins segments with live trip updates
type Merger struct {
	Location      *time.Location
	FallbackLimit int
}

// Merge emits one row per live update for a segment trip, then
// schedule-only rows for the remaining segment trips in trip_id order, up
// to the fallback limit. An unavailable feed contributes no updates.
func (m Merger) Merge(segs Segments, feed gtfsrt.Feed, sched *gtfs.Schedule, origin, dest gtfs.Stop) []ResultRow {
	limit := m.FallbackLimit
	if limit <= 0 {
		limit = DefaultFallbackLimit
	}

	rows := make([]ResultRow, 0, len(segs))
	seen := make(map[string]struct{}, len(segs))

	for _, u := range feed.Updates {
		seg, ok := segs[u.TripID]
		if !ok {
			continue
		}
		if _, dup := seen[u.TripID]; dup {
			continue
		}
		seen[u.TripID] = struct{}{}

		row := m.staticRow(seg, sched, origin, dest, u.RouteID)
		row.Realtime = true
		row.StartTime = u.StartTime
		if epoch, ok := u.TimeAtStop(origin.StopID); ok {
			row.NextDeparture, _ = utils.FormatLocalHHMM(epoch, m.Location)
		}
		rows = append(rows, row)
	}

	fallback := 0
	for _, id := range segs.TripIDs() {
		if fallback >= limit {
			break
		}
		if _, ok := seen[id]; ok {
			continue
		}
		rows = append(rows, m.staticRow(segs[id], sched, origin, dest, ""))
		fallback++
	}
	return rows
}

func (m Merger) staticRow(seg Segment, sched *gtfs.Schedule, origin, dest gtfs.Stop, routeID string) ResultRow {
	trip, _ := sched.Trip(seg.TripID)
	if routeID == "" {
		routeID = trip.RouteID
	}
	label := sched.RouteShortName(routeID)
	if label == "" {
		label = routeID
	}
	return ResultRow{
		Route:           label,
		Headsign:        trip.Headsign,
		OriginStop:      origin.StopName,
		DestinationStop: dest.StopName,
		NextDeparture:   utils.NotAvailable,
		StopsCount:      seg.StopsCount,
		TripID:          seg.TripID,
		RouteID:         routeID,
	}
}
