package gtfsrt

import "time"

// StopTimeUpdate is the realtime prediction for one stop of a trip.
// Times are epoch seconds; 0 means absent.
type StopTimeUpdate struct {
	StopID       string
	StopSequence int
	Arrival      int64
	Departure    int64
}

// TripUpdate is a decoded GTFS-RT TripUpdate entity
type TripUpdate struct {
	TripID          string
	RouteID         string // optional
	StartTime       string // optional, HH:MM:SS
	StartDate       string // optional, YYYYMMDD
	StopTimeUpdates []StopTimeUpdate
}

// TimeAtStop returns the predicted time at stopID from the first update for
// that stop: its departure, else its arrival. ok is false when the stop has
// no update or the update carries neither time.
func (u TripUpdate) TimeAtStop(stopID string) (int64, bool) {
	for _, stu := range u.StopTimeUpdates {
		if stu.StopID != stopID {
			continue
		}
		switch {
		case stu.Departure > 0:
			return stu.Departure, true
		case stu.Arrival > 0:
			return stu.Arrival, true
		}
		return 0, false
	}
	return 0, false
}

// Feed is the outcome of one trip-updates fetch. A failed fetch is an
// unavailable feed with no updates rather than an error.
type Feed struct {
	Updates   []TripUpdate
	Timestamp int64 // header timestamp, 0 when absent
	FetchedAt time.Time
	Err       error
}

// Available reports whether the fetch and decode succeeded
func (f Feed) Available() bool { return f.Err == nil }

// Unavailable returns an empty feed carrying err
func Unavailable(err error) Feed {
	return Feed{Err: err, FetchedAt: time.Now()}
}
