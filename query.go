package tripfinder

import (
	"math"
	"net/http"
	"strconv"
	"strings"
)

// parseQuery reads destination, lat, lon and budget from the URL query or a
// posted form. Missing lat/lon default to 0, which the planner reports as an
// unavailable location.
func parseQuery(r *http.Request) (Query, error) {
	if err := r.ParseForm(); err != nil {
		return Query{}, &QueryError{Msg: "Malformed request body."}
	}
	q := Query{Destination: strings.TrimSpace(r.Form.Get("destination"))}
	if q.Destination == "" {
		return Query{}, &QueryError{Msg: "You must provide a destination."}
	}

	var err error
	if q.Lat, err = parseFloatParam(r.Form.Get("lat"), "lat"); err != nil {
		return Query{}, err
	}
	if q.Lon, err = parseFloatParam(r.Form.Get("lon"), "lon"); err != nil {
		return Query{}, err
	}
	if q.Budget, err = parseFloatParam(r.Form.Get("budget"), "budget"); err != nil {
		return Query{}, err
	}
	if q.Lat < -90 || q.Lat > 90 || q.Lon < -180 || q.Lon > 180 {
		return Query{}, &QueryError{Msg: "Coordinates are out of range."}
	}
	if q.Budget < 0 {
		return Query{}, &QueryError{Msg: "Budget must not be negative."}
	}
	return q, nil
}

func parseFloatParam(s, name string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &QueryError{Msg: name + " must be a number."}
	}
	return v, nil
}
