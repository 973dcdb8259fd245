package tripfinder

import (
	"errors"
	"fmt"

	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/gtfs"
)

// ConfigurationError is a hard failure caused by missing or unusable static
// data. Its message is shown to the caller verbatim.
type ConfigurationError struct {
	Msg string
	Err error
}

func (e *ConfigurationError) Error() string { return e.Msg }

func (e *ConfigurationError) Unwrap() error { return e.Err }

// NewConfigurationError wraps a schedule loading failure
func NewConfigurationError(err error) *ConfigurationError {
	var missing *gtfs.MissingTableError
	if errors.As(err, &missing) {
		return &ConfigurationError{
			Msg: fmt.Sprintf("Static schedule is incomplete: %s is missing", missing.Table),
			Err: err,
		}
	}
	return &ConfigurationError{Msg: "Static schedule could not be loaded: " + err.Error(), Err: err}
}

// QueryError reports malformed request parameters
type QueryError struct{ Msg string }

func (e *QueryError) Error() string { return e.Msg }

// Outcome classifies a plan. Every outcome other than OutcomeOK comes with
// an empty result list and a message.
type Outcome string

const (
	OutcomeOK                   Outcome = "ok"
	OutcomeLocationUnavailable  Outcome = "location_unavailable"
	OutcomeNoDestinationMatch   Outcome = "no_destination_match"
	OutcomeAlreadyAtDestination Outcome = "already_at_destination"
	OutcomeNoDirectTrip         Outcome = "no_direct_trip"
	OutcomeNoResults            Outcome = "no_results"
	OutcomeConfigurationError   Outcome = "configuration_error"
)
