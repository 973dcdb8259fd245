package gtfs

// Stop is a row of stops.txt
type Stop struct {
	StopID   string  `json:"stop_id"`
	StopName string  `json:"stop_name"`
	Lat      float64 `json:"stop_lat"`
	Lon      float64 `json:"stop_lon"`
}

// Trip is a row of trips.txt
type Trip struct {
	TripID   string `json:"trip_id"`
	RouteID  string `json:"route_id"`
	Headsign string `json:"trip_headsign"`
}

// Route is a row of routes.txt
type Route struct {
	RouteID   string `json:"route_id"`
	ShortName string `json:"route_short_name"`
}

// StopTime is a row of stop_times.txt. Only the fields used for segment
// computation are kept.
type StopTime struct {
	TripID       string `json:"trip_id"`
	StopID       string `json:"stop_id"`
	StopSequence int    `json:"stop_sequence"`
}
