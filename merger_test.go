package tripfinder

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/gtfs"
	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/gtfsrt"
)

func stopsOf(t *testing.T, sched *gtfs.Schedule, ids ...string) []gtfs.Stop {
	t.Helper()
	out := make([]gtfs.Stop, len(ids))
	for i, id := range ids {
		s, ok := sched.Stop(id)
		require.True(t, ok, "stop %s", id)
		out[i] = s
	}
	return out
}

func TestMerge_LiveDeparture(t *testing.T) {
	sched := testSchedule()
	st := stopsOf(t, sched, "S1", "S2")
	segs := BuildSegments("S1", "S2", sched.StopTimes())
	feed := gtfsrt.Feed{Updates: []gtfsrt.TripUpdate{
		{TripID: "TX", StopTimeUpdates: []gtfsrt.StopTimeUpdate{{StopID: "S1", Departure: epochAt(8, 0)}}},
		{TripID: "T1", StartTime: "09:00:00", StopTimeUpdates: []gtfsrt.StopTimeUpdate{
			{StopID: "S1", Arrival: nineFifteen - 60, Departure: nineFifteen},
			{StopID: "S2", Arrival: epochAt(9, 40)},
		}},
	}}

	rows := Merger{Location: time.UTC}.Merge(segs, feed, sched, st[0], st[1])
	require.Len(t, rows, 1)
	assert.Equal(t, ResultRow{
		Route:           "46A",
		Headsign:        "Central",
		OriginStop:      "Main St",
		DestinationStop: "Central Station",
		NextDeparture:   "09:15",
		StopsCount:      5,
		TripID:          "T1",
		RouteID:         "R1",
		Realtime:        true,
		StartTime:       "09:00:00",
	}, rows[0])
}

func TestMerge_LiveTimeSelection(t *testing.T) {
	sched := wideSchedule(4)
	st := stopsOf(t, sched, "S1", "S2")
	segs := BuildSegments("S1", "S2", sched.StopTimes())
	feed := gtfsrt.Feed{Updates: []gtfsrt.TripUpdate{
		{TripID: "T00", StopTimeUpdates: []gtfsrt.StopTimeUpdate{{StopID: "S1", Arrival: epochAt(10, 5)}}},
		{TripID: "T01", StopTimeUpdates: []gtfsrt.StopTimeUpdate{{StopID: "S2", Arrival: epochAt(10, 30)}}},
		{TripID: "T02", RouteID: "R-live", StopTimeUpdates: []gtfsrt.StopTimeUpdate{{StopID: "S1", Departure: -1}}},
		{TripID: "T00", StopTimeUpdates: []gtfsrt.StopTimeUpdate{{StopID: "S1", Departure: epochAt(7, 0)}}},
	}}

	rows := Merger{Location: time.UTC}.Merge(segs, feed, sched, st[0], st[1])
	require.Len(t, rows, 4)

	assert.Equal(t, "T00", rows[0].TripID)
	assert.Equal(t, "10:05", rows[0].NextDeparture, "arrival used when departure missing; duplicate update ignored")

	assert.Equal(t, "T01", rows[1].TripID)
	assert.Equal(t, "N/A", rows[1].NextDeparture, "no update for the origin stop")
	assert.True(t, rows[1].Realtime)

	assert.Equal(t, "T02", rows[2].TripID)
	assert.Equal(t, "N/A", rows[2].NextDeparture)
	assert.Equal(t, "R-live", rows[2].RouteID, "route id from the update wins")
	assert.Equal(t, "R-live", rows[2].Route, "unknown route falls back to its id")

	assert.Equal(t, "T03", rows[3].TripID)
	assert.False(t, rows[3].Realtime)
}

func TestMerge_FallbackWhenFeedUnavailable(t *testing.T) {
	sched := gtfs.NewSchedule(
		[]gtfs.Route{{RouteID: "R1", ShortName: "46A"}, {RouteID: "R2"}},
		[]gtfs.Trip{{TripID: "T1", RouteID: "R1", Headsign: "Central"}, {TripID: "T2", RouteID: "R2", Headsign: "Docks"}},
		[]gtfs.Stop{{StopID: "S1", StopName: "Main St"}, {StopID: "S2", StopName: "Central Station"}},
		[]gtfs.StopTime{
			{TripID: "T2", StopID: "S1", StopSequence: 1}, {TripID: "T2", StopID: "S2", StopSequence: 2},
			{TripID: "T1", StopID: "S1", StopSequence: 3}, {TripID: "T1", StopID: "S2", StopSequence: 9},
		},
	)
	st := stopsOf(t, sched, "S1", "S2")
	segs := BuildSegments("S1", "S2", sched.StopTimes())

	for _, feed := range []gtfsrt.Feed{{}, gtfsrt.Unavailable(errors.New("timeout"))} {
		rows := Merger{Location: time.UTC}.Merge(segs, feed, sched, st[0], st[1])
		require.Len(t, rows, 2)
		assert.Equal(t, "T1", rows[0].TripID)
		assert.Equal(t, "N/A", rows[0].NextDeparture)
		assert.Equal(t, 6, rows[0].StopsCount)
		assert.Equal(t, "T2", rows[1].TripID)
		assert.Equal(t, "N/A", rows[1].NextDeparture)
		assert.Equal(t, "R2", rows[1].Route, "missing short name falls back to route id")
		assert.False(t, rows[1].Realtime)
	}
}

func TestMerge_FallbackCap(t *testing.T) {
	sched := wideSchedule(12)
	st := stopsOf(t, sched, "S1", "S2")
	segs := BuildSegments("S1", "S2", sched.StopTimes())

	rows := Merger{Location: time.UTC}.Merge(segs, gtfsrt.Feed{}, sched, st[0], st[1])
	require.Len(t, rows, DefaultFallbackLimit)
	assert.Equal(t, "T00", rows[0].TripID)
	assert.Equal(t, "T09", rows[9].TripID)

	rows = Merger{Location: time.UTC, FallbackLimit: 3}.Merge(segs, gtfsrt.Feed{}, sched, st[0], st[1])
	assert.Len(t, rows, 3)

	// live rows are not capped, fallback still is
	var updates []gtfsrt.TripUpdate
	for _, id := range segs.TripIDs()[:5] {
		updates = append(updates, gtfsrt.TripUpdate{TripID: id, StopTimeUpdates: []gtfsrt.StopTimeUpdate{{StopID: "S1", Departure: nineFifteen}}})
	}
	rows = Merger{Location: time.UTC, FallbackLimit: 3}.Merge(segs, gtfsrt.Feed{Updates: updates}, sched, st[0], st[1])
	assert.Len(t, rows, 8)
}

func TestMerge_LocalTimezone(t *testing.T) {
	sched := testSchedule()
	st := stopsOf(t, sched, "S1", "S2")
	segs := BuildSegments("S1", "S2", sched.StopTimes())
	feed := gtfsrt.Feed{Updates: []gtfsrt.TripUpdate{
		{TripID: "T1", StopTimeUpdates: []gtfsrt.StopTimeUpdate{{StopID: "S1", Departure: nineFifteen}}},
	}}

	rows := Merger{Location: time.FixedZone("UTC+1", 3600)}.Merge(segs, feed, sched, st[0], st[1])
	require.Len(t, rows, 1)
	assert.Equal(t, "10:15", rows[0].NextDeparture)
}
