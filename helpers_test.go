package tripfinder

import (
	"context"
	"fmt"
	"time"

	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/gtfs"
	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/gtfsrt"
)

// nineFifteen is 2024-01-01 09:15 UTC
var nineFifteen = time.Date(2024, 1, 1, 9, 15, 0, 0, time.UTC).Unix()

func epochAt(hh, mm int) int64 {
	return time.Date(2024, 1, 1, hh, mm, 0, 0, time.UTC).Unix()
}

type stubFeed struct {
	feed  gtfsrt.Feed
	calls int
}

func (s *stubFeed) TripUpdates(context.Context) gtfsrt.Feed {
	s.calls++
	return s.feed
}

type recordingPlanObserver struct {
	outcomes []string
}

func (o *recordingPlanObserver) ObservePlan(outcome string, _ time.Duration) {
	o.outcomes = append(o.outcomes, outcome)
}

// testSchedule is a small network:
//
//	T1 (route 46A): S1 Main St (seq 2) ... S2 Central Station (seq 7)
//	T2 (route R2, no short name): S2 (seq 1) -> S1 (seq 4), the wrong way
//	T3 (route 46A): S3 Park Gate (seq 1) -> S2 (seq 3)
func testSchedule() *gtfs.Schedule {
	return gtfs.NewSchedule(
		[]gtfs.Route{{RouteID: "R1", ShortName: "46A"}, {RouteID: "R2"}},
		[]gtfs.Trip{
			{TripID: "T1", RouteID: "R1", Headsign: "Central"},
			{TripID: "T2", RouteID: "R2", Headsign: "Main St"},
			{TripID: "T3", RouteID: "R1", Headsign: "Central"},
		},
		[]gtfs.Stop{
			{StopID: "S1", StopName: "Main St", Lat: 53.0000, Lon: -6.0000},
			{StopID: "S2", StopName: "Central Station", Lat: 53.1000, Lon: -6.1000},
			{StopID: "S3", StopName: "Park Gate", Lat: 53.0500, Lon: -6.2000},
			{StopID: "S4", StopName: "Central Station Annex", Lat: 53.1010, Lon: -6.1010},
		},
		[]gtfs.StopTime{
			{TripID: "T1", StopID: "S1", StopSequence: 2},
			{TripID: "T1", StopID: "S3", StopSequence: 4},
			{TripID: "T1", StopID: "S2", StopSequence: 7},
			{TripID: "T2", StopID: "S2", StopSequence: 1},
			{TripID: "T2", StopID: "S1", StopSequence: 4},
			{TripID: "T3", StopID: "S3", StopSequence: 1},
			{TripID: "T3", StopID: "S2", StopSequence: 3},
		},
	)
}

// wideSchedule has n trips T00..T(n-1) all running S1 -> S2
func wideSchedule(n int) *gtfs.Schedule {
	var trips []gtfs.Trip
	var stopTimes []gtfs.StopTime
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("T%02d", i)
		trips = append(trips, gtfs.Trip{TripID: id, RouteID: "R1", Headsign: "Central"})
		stopTimes = append(stopTimes,
			gtfs.StopTime{TripID: id, StopID: "S1", StopSequence: 1},
			gtfs.StopTime{TripID: id, StopID: "S2", StopSequence: 3},
		)
	}
	return gtfs.NewSchedule(
		[]gtfs.Route{{RouteID: "R1", ShortName: "46A"}},
		trips,
		[]gtfs.Stop{
			{StopID: "S1", StopName: "Main St", Lat: 53.0, Lon: -6.0},
			{StopID: "S2", StopName: "Central Station", Lat: 53.1, Lon: -6.1},
		},
		stopTimes,
	)
}
