package tripfinder

import (
	"encoding/json"

	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/gtfs"
	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/utils"
)

type stopResponse struct {
	gtfs.Stop
	Distance string `json:"distance,omitempty"`
}

type liveFeedResponse struct {
	Available bool   `json:"available"`
	Timestamp string `json:"timestamp,omitempty"`
}

// tripsResponse is the JSON body of /api/trips
type tripsResponse struct {
	RequestID       string            `json:"request_id"`
	GeneratedAt     string            `json:"generated_at"`
	Outcome         Outcome           `json:"outcome"`
	Message         string            `json:"message,omitempty"`
	OriginStop      *stopResponse     `json:"origin_stop,omitempty"`
	DestinationStop *stopResponse     `json:"destination_stop,omitempty"`
	LiveFeed        *liveFeedResponse `json:"live_feed,omitempty"`
	Results         []ResultRow       `json:"results"`
}

func newTripsResponse(requestID string, plan *Plan) tripsResponse {
	resp := tripsResponse{
		RequestID:   requestID,
		GeneratedAt: utils.Iso8601Now(),
		Outcome:     plan.Outcome,
		Message:     plan.Message,
		Results:     plan.Rows,
	}
	if resp.Results == nil {
		resp.Results = []ResultRow{}
	}
	if plan.Origin != nil {
		resp.OriginStop = &stopResponse{Stop: *plan.Origin, Distance: utils.PresentableDistance(plan.OriginDistanceKM)}
	}
	if plan.Destination != nil {
		resp.DestinationStop = &stopResponse{Stop: *plan.Destination}
	}
	// the feed is only consulted once segments exist
	if plan.Outcome == OutcomeOK || plan.Outcome == OutcomeNoResults {
		lf := &liveFeedResponse{Available: plan.FeedAvailable}
		if plan.FeedTimestamp > 0 {
			lf.Timestamp = utils.Iso8601FromUnixSeconds(plan.FeedTimestamp)
		}
		resp.LiveFeed = lf
	}
	return resp
}

// EncodePlan renders plan as an indented /api/trips body
func EncodePlan(requestID string, plan *Plan) ([]byte, error) {
	return json.MarshalIndent(newTripsResponse(requestID, plan), "", "  ")
}
