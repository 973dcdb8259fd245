package tripfinder

import (
	"errors"
	"math"

	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/gtfs"
	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/utils"
)

// ErrNoStopsAvailable is returned by Nearest when no stop can be located
var ErrNoStopsAvailable = errors.New("no stops available")

// Point is a coordinate in decimal degrees
type Point struct {
	Lat float64
	Lon float64
}

// IsZero reports the (0,0) coordinate sent when the client has no location
func (p Point) IsZero() bool { return p.Lat == 0 && p.Lon == 0 }

// DistanceKM returns the great-circle distance from p to s
func (p Point) DistanceKM(s gtfs.Stop) float64 {
	return utils.HaversineKM(p.Lat, p.Lon, s.Lat, s.Lon)
}

// Nearest returns the stop closest to p. There is no radius cutoff; on equal
// distances the earlier stop wins. Stops at a non-finite distance are never
// chosen.
func Nearest(p Point, stops []gtfs.Stop) (gtfs.Stop, error) {
	best := -1
	bestKM := math.Inf(1)
	for i, s := range stops {
		d := p.DistanceKM(s)
		if math.IsNaN(d) {
			continue
		}
		if best < 0 || d < bestKM {
			best, bestKM = i, d
		}
	}
	if best < 0 {
		return gtfs.Stop{}, ErrNoStopsAvailable
	}
	return stops[best], nil
}
