package gtfs

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"math"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/config"
)

// LoadTimeout bounds Load when the caller's context has no deadline
var LoadTimeout = 2 * time.Minute

// staticHTTPClient downloads static zips; ctx deadlines still apply
var staticHTTPClient = &http.Client{Timeout: 5 * time.Minute}

// RequiredTables are the GTFS files every source must provide
var RequiredTables = []string{"routes.txt", "trips.txt", "stops.txt", "stop_times.txt"}

// MissingTableError reports a required table that could not be read
type MissingTableError struct {
	Table string
	Err   error
}

func (e *MissingTableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("missing GTFS table %s: %v", e.Table, e.Err)
	}
	return "missing GTFS table " + e.Table
}

func (e *MissingTableError) Unwrap() error { return e.Err }

// tables accumulates rows while a source is being read
type tables struct {
	routes    []Route
	trips     []Trip
	stops     []Stop
	stopTimes []StopTime
}

func (t *tables) schedule(source string) *Schedule {
	return NewSchedule(t.routes, t.trips, t.stops, t.stopTimes).WithSource(source)
}

// LoadDir reads the required tables from a directory of GTFS text files
func LoadDir(dir string) (*Schedule, error) {
	var t tables
	for _, name := range RequiredTables {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, &MissingTableError{Table: name}
			}
			return nil, &MissingTableError{Table: name, Err: err}
		}
		err = t.consumeCSV(name, f)
		f.Close()
		if err != nil {
			return nil, err
		}
	}
	return t.schedule("dir:" + dir), nil
}

// LoadZip reads the required tables from a local GTFS zip file
func LoadZip(zipPath string) (*Schedule, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	s, err := loadZipReader(&zr.Reader)
	if err != nil {
		return nil, err
	}
	return s.WithSource("zip:" + zipPath), nil
}

// LoadZipBytes reads the required tables from an in-memory GTFS zip
func LoadZipBytes(b []byte) (*Schedule, error) {
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, err
	}
	s, err := loadZipReader(zr)
	if err != nil {
		return nil, err
	}
	return s.WithSource("zip"), nil
}

// LoadZipFromURL downloads a GTFS zip and loads it
func LoadZipFromURL(ctx context.Context, url string) (*Schedule, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := staticHTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch static GTFS: status %d", resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	s, err := LoadZipBytes(b)
	if err != nil {
		return nil, err
	}
	return s.WithSource("url:" + url), nil
}

func loadZipReader(zr *zip.Reader) (*Schedule, error) {
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		// feeds are sometimes zipped with a top-level folder
		name := strings.ToLower(path.Base(f.Name))
		if _, ok := files[name]; !ok {
			files[name] = f
		}
	}
	var t tables
	for _, name := range RequiredTables {
		f, ok := files[name]
		if !ok {
			return nil, &MissingTableError{Table: name}
		}
		r, err := f.Open()
		if err != nil {
			return nil, &MissingTableError{Table: name, Err: err}
		}
		err = t.consumeCSV(name, r)
		r.Close()
		if err != nil {
			return nil, err
		}
	}
	return t.schedule(""), nil
}

// Load builds a schedule from the configured source. A readable snapshot at
// cfg.CachePath built from the same source takes precedence, and a freshly
// loaded schedule is written back to it.
func Load(ctx context.Context, cfg config.GTFSConfig) (*Schedule, error) {
	key := sourceKey(cfg)
	if cfg.CachePath != "" {
		if _, err := os.Stat(cfg.CachePath); err == nil {
			s, err := LoadSnapshot(cfg.CachePath)
			switch {
			case err != nil:
				log.Printf("ignoring GTFS snapshot %s: %v", cfg.CachePath, err)
			case s.key != key:
				log.Printf("ignoring GTFS snapshot %s: built from a different source", cfg.CachePath)
			default:
				return s, nil
			}
		}
	}

	if _, ok := ctx.Deadline(); !ok && LoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, LoadTimeout)
		defer cancel()
	}

	var s *Schedule
	var err error
	switch sourceOf(cfg) {
	case "sqlite":
		s, err = LoadSQL(ctx, DriverSQLite, cfg.DSN)
	case "postgres":
		s, err = LoadSQL(ctx, DriverPostgres, cfg.DSN)
	case "url":
		s, err = LoadZipFromURL(ctx, cfg.StaticURL)
	case "zip":
		s, err = LoadZip(cfg.Path)
	default:
		s, err = LoadDir(cfg.Path)
	}
	if err != nil {
		return nil, err
	}
	s.key = key

	if cfg.CachePath != "" {
		if err := s.SaveSnapshot(cfg.CachePath); err != nil {
			log.Printf("failed to write GTFS snapshot %s: %v", cfg.CachePath, err)
		}
	}
	return s, nil
}

// sourceKey identifies the configured source without exposing the DSN
func sourceKey(cfg config.GTFSConfig) string {
	sum := sha256.Sum256([]byte(strings.Join([]string{sourceOf(cfg), cfg.Path, cfg.StaticURL, cfg.DSN}, "\x00")))
	return hex.EncodeToString(sum[:])
}

func sourceOf(cfg config.GTFSConfig) string {
	switch cfg.Source {
	case "sqlite", "postgres":
		return cfg.Source
	case "zip":
		if cfg.Path == "" && cfg.StaticURL != "" {
			return "url"
		}
		return "zip"
	case "dir":
		return "dir"
	}
	dsn := strings.ToLower(cfg.DSN)
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres"
	case dsn != "":
		return "sqlite"
	case cfg.Path == "" && cfg.StaticURL != "":
		return "url"
	case strings.HasSuffix(strings.ToLower(cfg.Path), ".zip"):
		return "zip"
	}
	return "dir"
}

func (t *tables) consumeCSV(name string, r io.Reader) error {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1
	csvr.TrimLeadingSpace = true
	rec, err := csvr.ReadAll()
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	if len(rec) == 0 {
		return nil
	}
	head := rec[0]
	if len(head) > 0 {
		head[0] = strings.TrimPrefix(head[0], "\ufeff")
	}
	idx := func(col string) int {
		for i, h := range head {
			if strings.EqualFold(strings.TrimSpace(h), col) {
				return i
			}
		}
		return -1
	}
	field := func(row []string, i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return row[i]
	}
	require := func(cols ...string) error {
		for _, c := range cols {
			if idx(c) < 0 {
				return fmt.Errorf("%s: missing column %q", name, c)
			}
		}
		return nil
	}

	switch name {
	case "routes.txt":
		if err := require("route_id"); err != nil {
			return err
		}
		rID := idx("route_id")
		rSN := idx("route_short_name")
		for _, row := range rec[1:] {
			t.routes = append(t.routes, Route{RouteID: field(row, rID), ShortName: field(row, rSN)})
		}
	case "trips.txt":
		if err := require("trip_id", "route_id"); err != nil {
			return err
		}
		rID := idx("route_id")
		tID := idx("trip_id")
		hs := idx("trip_headsign")
		for _, row := range rec[1:] {
			t.trips = append(t.trips, Trip{TripID: field(row, tID), RouteID: field(row, rID), Headsign: field(row, hs)})
		}
	case "stops.txt":
		if err := require("stop_id", "stop_name", "stop_lat", "stop_lon"); err != nil {
			return err
		}
		sID := idx("stop_id")
		sN := idx("stop_name")
		sLat := idx("stop_lat")
		sLon := idx("stop_lon")
		for _, row := range rec[1:] {
			lat, err1 := strconv.ParseFloat(strings.TrimSpace(field(row, sLat)), 64)
			lon, err2 := strconv.ParseFloat(strings.TrimSpace(field(row, sLon)), 64)
			if err1 != nil || err2 != nil || !finite(lat, lon) {
				// stations without coordinates cannot be located
				continue
			}
			t.stops = append(t.stops, Stop{StopID: field(row, sID), StopName: field(row, sN), Lat: lat, Lon: lon})
		}
	case "stop_times.txt":
		if err := require("trip_id", "stop_id", "stop_sequence"); err != nil {
			return err
		}
		tID := idx("trip_id")
		sID := idx("stop_id")
		sq := idx("stop_sequence")
		for _, row := range rec[1:] {
			seq, err := strconv.Atoi(strings.TrimSpace(field(row, sq)))
			if err != nil {
				continue
			}
			t.stopTimes = append(t.stopTimes, StopTime{TripID: field(row, tID), StopID: field(row, sID), StopSequence: seq})
		}
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
