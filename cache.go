package tripfinder

import (
	"strconv"
	"time"

	"github.com/bluele/gcache"

	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/gtfs"
)

// lookupCache memoises nearest-stop and destination lookups. Both are pure
// functions of the immutable schedule, so entries never go stale while the
// planner lives. A nil *lookupCache computes every lookup.
type lookupCache struct {
	c gcache.Cache
}

func newLookupCache(size int, ttl time.Duration) *lookupCache {
	if size <= 0 {
		return nil
	}
	b := gcache.New(size).LRU()
	if ttl > 0 {
		b = b.Expiration(ttl)
	}
	return &lookupCache{c: b.Build()}
}

func nearestKey(p Point) string {
	return "nearest|" + strconv.FormatFloat(p.Lat, 'g', -1, 64) + "," + strconv.FormatFloat(p.Lon, 'g', -1, 64)
}

func resolveKey(query string) string {
	return "dest|" + normalizeName(query)
}

// stop returns the cached stop for key, or computes and stores it. Failed
// lookups are not cached.
func (lc *lookupCache) stop(key string, compute func() (gtfs.Stop, error)) (gtfs.Stop, error) {
	if lc == nil {
		return compute()
	}
	if cached, err := lc.c.Get(key); err == nil {
		if s, ok := cached.(gtfs.Stop); ok {
			return s, nil
		}
	}
	s, err := compute()
	if err != nil {
		return s, err
	}
	_ = lc.c.Set(key, s)
	return s, nil
}

func (lc *lookupCache) len() int {
	if lc == nil {
		return 0
	}
	return lc.c.Len(false)
}
