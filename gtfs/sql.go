package gtfs

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// database/sql driver names for the supported SQL sources
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// Rows are ordered by primary key so that "first in snapshot order" is stable
// across loads.
const (
	routesQuery    = `SELECT route_id, COALESCE(route_short_name, '') FROM routes ORDER BY route_id`
	tripsQuery     = `SELECT trip_id, route_id, COALESCE(trip_headsign, '') FROM trips ORDER BY trip_id`
	stopsQuery     = `SELECT stop_id, COALESCE(stop_name, ''), stop_lat, stop_lon FROM stops WHERE stop_lat IS NOT NULL AND stop_lon IS NOT NULL ORDER BY stop_id`
	stopTimesQuery = `SELECT trip_id, stop_id, stop_sequence FROM stop_times ORDER BY trip_id, stop_sequence`
)

// LoadSQL reads the static tables from a database holding the GTFS tables
// under their usual names (routes, trips, stops, stop_times).
func LoadSQL(ctx context.Context, driver, dsn string) (*Schedule, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s, err := LoadFromDB(ctx, db)
	if err != nil {
		return nil, err
	}
	return s.WithSource(driver), nil
}

// LoadFromDB reads the static tables from an open database
func LoadFromDB(ctx context.Context, db *sql.DB) (*Schedule, error) {
	var t tables

	err := queryRows(ctx, db, "routes", routesQuery, func(rows *sql.Rows) error {
		var r Route
		if err := rows.Scan(&r.RouteID, &r.ShortName); err != nil {
			return err
		}
		t.routes = append(t.routes, r)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = queryRows(ctx, db, "trips", tripsQuery, func(rows *sql.Rows) error {
		var tr Trip
		if err := rows.Scan(&tr.TripID, &tr.RouteID, &tr.Headsign); err != nil {
			return err
		}
		t.trips = append(t.trips, tr)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = queryRows(ctx, db, "stops", stopsQuery, func(rows *sql.Rows) error {
		var s Stop
		if err := rows.Scan(&s.StopID, &s.StopName, &s.Lat, &s.Lon); err != nil {
			return err
		}
		if finite(s.Lat, s.Lon) {
			t.stops = append(t.stops, s)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = queryRows(ctx, db, "stop_times", stopTimesQuery, func(rows *sql.Rows) error {
		var st StopTime
		if err := rows.Scan(&st.TripID, &st.StopID, &st.StopSequence); err != nil {
			return err
		}
		t.stopTimes = append(t.stopTimes, st)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return t.schedule("sql"), nil
}

func queryRows(ctx context.Context, db *sql.DB, table, q string, scan func(*sql.Rows) error) error {
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return &MissingTableError{Table: table, Err: err}
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("scan %s: %w", table, err)
		}
	}
	return rows.Err()
}
