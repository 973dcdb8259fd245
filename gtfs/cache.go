package gtfs

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"time"
)

// snapshot is the gob form of a Schedule. Only the source tables are stored;
// lookup maps are rebuilt on decode.
type snapshot struct {
	Routes    []Route
	Trips     []Trip
	Stops     []Stop
	StopTimes []StopTime
	Source    string
	Key       string
	LoadedAt  time.Time
}

// Serialize encodes the schedule to bytes using gob encoding.
//
// Example:
//
//	s, _ := gtfs.LoadZip("gtfs.zip")
//	data, err := s.Serialize()
//	if err != nil {
//	    // handle error
//	}
//	os.WriteFile("/path/to/cache/schedule.gob", data, 0644)
func (s *Schedule) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.SerializeToWriter(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SerializeToWriter writes the schedule to an io.Writer using gob encoding.
func (s *Schedule) SerializeToWriter(w io.Writer) error {
	snap := snapshot{
		Stops:     s.stops,
		StopTimes: s.stopTimes,
		Source:    s.source,
		Key:       s.key,
		LoadedAt:  s.loadedAt,
	}
	snap.Routes = make([]Route, 0, len(s.routes))
	for _, r := range s.routes {
		snap.Routes = append(snap.Routes, r)
	}
	snap.Trips = make([]Trip, 0, len(s.trips))
	for _, t := range s.trips {
		snap.Trips = append(snap.Trips, t)
	}
	if err := gob.NewEncoder(w).Encode(&snap); err != nil {
		return fmt.Errorf("failed to encode schedule: %w", err)
	}
	return nil
}

// Deserialize decodes a schedule previously produced by Serialize.
func Deserialize(data []byte) (*Schedule, error) {
	return DeserializeFromReader(bytes.NewReader(data))
}

// DeserializeFromReader reads a schedule from an io.Reader using gob encoding.
func DeserializeFromReader(r io.Reader) (*Schedule, error) {
	var snap snapshot
	if err := gob.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode schedule: %w", err)
	}
	s := NewSchedule(snap.Routes, snap.Trips, snap.Stops, snap.StopTimes)
	s.source = snap.Source
	s.key = snap.Key
	if !snap.LoadedAt.IsZero() {
		s.loadedAt = snap.LoadedAt
	}
	return s, nil
}

// SaveSnapshot writes the schedule to a file.
func (s *Schedule) SaveSnapshot(path string) error {
	data, err := s.Serialize()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadSnapshot reads a schedule written by SaveSnapshot.
//
// Example:
//
//	s, err := gtfs.LoadSnapshot("/cache/schedule.gob")
//	if err != nil {
//	    // cache miss or corrupted, load from source
//	    s, _ = gtfs.LoadDir("static_data")
//	}
func LoadSnapshot(path string) (*Schedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	return Deserialize(data)
}
