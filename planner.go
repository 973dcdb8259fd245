// Package tripfinder finds direct bus trips from the user's location to a
// named destination and orders them by their next live departure.
package tripfinder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/gtfs"
	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/gtfsrt"
)

// FeedSource supplies live trip updates; *gtfsrt.Client implements it
type FeedSource interface {
	TripUpdates(ctx context.Context) gtfsrt.Feed
}

// PlanObserver is notified of every computed plan; *metrics.Collector implements it
type PlanObserver interface {
	ObservePlan(outcome string, elapsed time.Duration)
}

// Query is one trip search
type Query struct {
	Destination string
	Lat         float64
	Lon         float64
	Budget      float64 // optional, enables cost estimates when positive
}

// Plan is the answer to a Query
type Plan struct {
	Outcome          Outcome
	Message          string
	Origin           *gtfs.Stop
	OriginDistanceKM float64
	Destination      *gtfs.Stop
	Rows             []ResultRow
	FeedAvailable    bool
	FeedTimestamp    int64
}

// Planner runs locate, resolve, index, merge and rank for each query
// against one immutable schedule.
type Planner struct {
	schedule *gtfs.Schedule
	loadErr  error
	feed     FeedSource
	merger   Merger
	fare     Fare
	cache    *lookupCache
	observer PlanObserver
}

// PlannerOption customises a Planner
type PlannerOption func(*Planner)

// WithLocation sets the zone used to render departure times
func WithLocation(loc *time.Location) PlannerOption {
	return func(p *Planner) { p.merger.Location = loc }
}

// WithFallbackLimit caps schedule-only rows
func WithFallbackLimit(n int) PlannerOption {
	return func(p *Planner) { p.merger.FallbackLimit = n }
}

// WithFare enables cost estimates for queries with a budget
func WithFare(f Fare) PlannerOption {
	return func(p *Planner) { p.fare = f }
}

// WithLookupCache memoises stop lookups; size 0 disables it
func WithLookupCache(size int, ttl time.Duration) PlannerOption {
	return func(p *Planner) { p.cache = newLookupCache(size, ttl) }
}

// WithPlanObserver registers an observer for plan outcomes
func WithPlanObserver(o PlanObserver) PlannerOption {
	return func(p *Planner) { p.observer = o }
}

// NewPlanner creates a planner over schedule, fetching live data from feed
func NewPlanner(schedule *gtfs.Schedule, feed FeedSource, opts ...PlannerOption) *Planner {
	p := &Planner{
		schedule: schedule,
		feed:     feed,
		merger:   Merger{Location: time.Local, FallbackLimit: DefaultFallbackLimit},
		fare:     Fare{Amount: 2.10, Currency: "€"},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// NewUnavailablePlanner returns a planner whose every Plan call fails with a
// ConfigurationError built from loadErr. It lets the server start and report
// a broken schedule instead of exiting.
func NewUnavailablePlanner(loadErr error, opts ...PlannerOption) *Planner {
	p := NewPlanner(nil, nil, opts...)
	p.loadErr = loadErr
	return p
}

// Schedule returns the loaded schedule, or nil
func (p *Planner) Schedule() *gtfs.Schedule { return p.schedule }

// LoadError returns the schedule loading failure, if any
func (p *Planner) LoadError() error { return p.loadErr }

// Plan answers q. Only configuration problems are returned as errors; every
// other condition is reported through Plan.Outcome and Plan.Message.
func (p *Planner) Plan(ctx context.Context, q Query) (*Plan, error) {
	start := time.Now()
	plan, err := p.plan(ctx, q)
	outcome := OutcomeConfigurationError
	if err == nil {
		outcome = plan.Outcome
	}
	if p.observer != nil {
		p.observer.ObservePlan(string(outcome), time.Since(start))
	}
	return plan, err
}

func (p *Planner) plan(ctx context.Context, q Query) (*Plan, error) {
	if p.schedule == nil {
		err := p.loadErr
		if err == nil {
			err = errors.New("no schedule")
		}
		return nil, NewConfigurationError(err)
	}

	point := Point{Lat: q.Lat, Lon: q.Lon}
	if point.IsZero() {
		return empty(OutcomeLocationUnavailable, "Your location is unavailable. Allow location access and try again."), nil
	}

	stops := p.schedule.Stops()
	origin, err := p.cache.stop(nearestKey(point), func() (gtfs.Stop, error) {
		return Nearest(point, stops)
	})
	if err != nil {
		return nil, &ConfigurationError{Msg: "Static schedule has no stops", Err: err}
	}

	dest, err := p.cache.stop(resolveKey(q.Destination), func() (gtfs.Stop, error) {
		return ResolveStop(q.Destination, stops)
	})
	if err != nil {
		return empty(OutcomeNoDestinationMatch, fmt.Sprintf("No stop matches %q. Try a different destination.", q.Destination)), nil
	}

	plan := &Plan{
		Origin:           &origin,
		OriginDistanceKM: point.DistanceKM(origin),
		Destination:      &dest,
		Rows:             []ResultRow{},
	}

	if origin.StopID == dest.StopID {
		plan.Outcome = OutcomeAlreadyAtDestination
		plan.Message = fmt.Sprintf("You are already at %s.", dest.StopName)
		return plan, nil
	}

	segs := BuildSegments(origin.StopID, dest.StopID, p.schedule.StopTimesAt(origin.StopID, dest.StopID))
	if len(segs) == 0 {
		plan.Outcome = OutcomeNoDirectTrip
		plan.Message = fmt.Sprintf("No direct trips found from %s to %s.", origin.StopName, dest.StopName)
		return plan, nil
	}

	feed := gtfsrt.Unavailable(errors.New("no live feed configured"))
	if p.feed != nil {
		feed = p.feed.TripUpdates(ctx)
	}
	plan.FeedAvailable = feed.Available()
	plan.FeedTimestamp = feed.Timestamp

	rows := Rank(p.merger.Merge(segs, feed, p.schedule, origin, dest))
	if len(rows) == 0 {
		plan.Outcome = OutcomeNoResults
		plan.Message = fmt.Sprintf("No live buses found from your location to %s.", q.Destination)
		return plan, nil
	}

	if cost, ok := p.fare.Estimate(q.Budget); ok {
		for i := range rows {
			rows[i].EstimatedCost = cost
		}
	}
	plan.Outcome = OutcomeOK
	plan.Rows = rows
	return plan, nil
}

func empty(outcome Outcome, msg string) *Plan {
	return &Plan{Outcome: outcome, Message: msg, Rows: []ResultRow{}}
}
