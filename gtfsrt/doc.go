// Package gtfsrt fetches and decodes the GTFS-Realtime trip-updates feed.
//
// Payloads may be protobuf binary or JSON (as served by the NTA GTFS-R API
// with ?format=json). The main type is Client, whose TripUpdates method
// returns a Feed that is marked unavailable instead of failing when the
// upstream cannot be reached or decoded.
package gtfsrt
