/*
Package gtfs provides GTFS static schedule loading and indexing.

Only the four tables needed for direct-trip matching are read: routes.txt,
trips.txt, stops.txt and stop_times.txt. A missing table is reported as a
*MissingTableError.

# Sources

	s, err := gtfs.LoadDir("static_data")                  // directory of .txt files
	s, err := gtfs.LoadZip("gtfs.zip")                      // local zip
	s, err := gtfs.LoadZipFromURL(ctx, "https://.../gtfs.zip")
	s, err := gtfs.LoadSQL(ctx, gtfs.DriverSQLite, "gtfs.db")
	s, err := gtfs.LoadSQL(ctx, gtfs.DriverPostgres, "postgres://...")

Load picks one of these from a config.GTFSConfig.

# Performance: Cache the Schedule

Parse GTFS once at startup and keep the Schedule in memory. The Schedule is
immutable after construction and safe for concurrent readers. Setting
gtfs.cachePath stores a gob snapshot so later startups skip CSV parsing.

# Data Structure

The schedule provides fast lookups for:

- Stops (snapshot order, and stop_id → stop)
- Trips (trip_id → route_id, headsign)
- Routes (route_id → route_short_name)
- Stop times (stop_id → rows touching that stop)
*/
package gtfs
