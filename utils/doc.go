// Package utils provides small helpers shared by the trip finder packages.
//
// It contains:
//   - Great-circle distance and distance formatting
//   - Local clock formatting for departures
//   - JSON response writers
package utils
