package tripfinder

import (
	"errors"
	"log"
	"net/http"

	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/internal"
	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/utils"
)

func (s *Server) handleTrips(w http.ResponseWriter, r *http.Request) {
	requestID := internal.RequestID(r.Context())

	q, err := parseQuery(r)
	if err != nil {
		var qe *QueryError
		if errors.As(err, &qe) {
			utils.WriteError(w, http.StatusBadRequest, qe.Msg, requestID)
			return
		}
		utils.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	plan, err := s.planner.Plan(r.Context(), q)
	if err != nil {
		var ce *ConfigurationError
		if errors.As(err, &ce) {
			log.Printf("configuration error: %v", ce.Err)
			utils.WriteError(w, http.StatusInternalServerError, ce.Msg, requestID)
			return
		}
		log.Printf("plan failed: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	utils.WriteJSON(w, http.StatusOK, newTripsResponse(requestID, plan))
}
