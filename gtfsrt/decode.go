package gtfsrt

import (
	"bytes"
	"errors"
	"fmt"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// ErrEmptyFeed is returned for a zero-length payload
var ErrEmptyFeed = errors.New("empty GTFS-RT payload")

// DecodeFeedMessage decodes a GTFS-RT payload. JSON (proto field names or
// JSON names) is detected by a leading '{'; anything else is read as
// protobuf binary.
func DecodeFeedMessage(b []byte) (*gtfsrtpb.FeedMessage, error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return nil, ErrEmptyFeed
	}
	var fm gtfsrtpb.FeedMessage
	if trimmed[0] == '{' {
		opts := protojson.UnmarshalOptions{AllowPartial: true, DiscardUnknown: true}
		if err := opts.Unmarshal(trimmed, &fm); err != nil {
			return nil, fmt.Errorf("decode GTFS-RT json: %w", err)
		}
		return &fm, nil
	}
	opts := proto.UnmarshalOptions{AllowPartial: true, DiscardUnknown: true}
	if err := opts.Unmarshal(b, &fm); err != nil {
		return nil, fmt.Errorf("decode GTFS-RT protobuf: %w", err)
	}
	return &fm, nil
}

// ParseTripUpdates decodes a payload and extracts its trip updates in feed
// order, along with the header timestamp.
func ParseTripUpdates(b []byte) ([]TripUpdate, int64, error) {
	fm, err := DecodeFeedMessage(b)
	if err != nil {
		return nil, 0, err
	}
	return TripUpdatesFromMessage(fm), int64(fm.GetHeader().GetTimestamp()), nil
}

// TripUpdatesFromMessage extracts trip updates from a decoded feed. Deleted
// entities and updates without a trip_id are skipped.
func TripUpdatesFromMessage(fm *gtfsrtpb.FeedMessage) []TripUpdate {
	var out []TripUpdate
	for _, e := range fm.GetEntity() {
		if e.GetIsDeleted() {
			continue
		}
		tu := e.GetTripUpdate()
		if tu == nil || tu.GetTrip().GetTripId() == "" {
			continue
		}
		trip := tu.GetTrip()
		u := TripUpdate{
			TripID:    trip.GetTripId(),
			RouteID:   trip.GetRouteId(),
			StartTime: trip.GetStartTime(),
			StartDate: trip.GetStartDate(),
		}
		if n := len(tu.GetStopTimeUpdate()); n > 0 {
			u.StopTimeUpdates = make([]StopTimeUpdate, 0, n)
		}
		for _, stu := range tu.GetStopTimeUpdate() {
			u.StopTimeUpdates = append(u.StopTimeUpdates, StopTimeUpdate{
				StopID:       stu.GetStopId(),
				StopSequence: int(stu.GetStopSequence()),
				Arrival:      stu.GetArrival().GetTime(),
				Departure:    stu.GetDeparture().GetTime(),
			})
		}
		out = append(out, u)
	}
	return out
}
