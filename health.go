package tripfinder

import (
	"net/http"
	"time"

	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/gtfs"
	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/internal"
	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/utils"
)

type healthResponse struct {
	Status         string `json:"status"`
	Error          string `json:"error,omitempty"`
	ScheduleSource string `json:"schedule_source,omitempty"`
	ScheduleLoaded string `json:"schedule_loaded_at,omitempty"`
	Stops          int    `json:"stops"`
	Trips          int    `json:"trips"`
	Routes         int    `json:"routes"`
	StopTimes      int    `json:"stop_times"`
	LookupCache    int    `json:"lookup_cache_entries"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:        "ok",
		LookupCache:   s.planner.cache.len(),
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
	}
	sched := s.planner.Schedule()
	if sched == nil {
		resp.Status = "error"
		if err := s.planner.LoadError(); err != nil {
			resp.Error = NewConfigurationError(err).Error()
		}
		utils.WriteJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	resp.ScheduleSource = sched.Source()
	resp.ScheduleLoaded = sched.LoadedAt().UTC().Format(time.RFC3339)
	resp.Stops = sched.NumStops()
	resp.Trips = sched.NumTrips()
	resp.Routes = sched.NumRoutes()
	resp.StopTimes = sched.NumStopTimes()
	utils.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStops(w http.ResponseWriter, r *http.Request) {
	sched := s.planner.Schedule()
	if sched == nil {
		writeConfigurationError(w, r, s.planner.LoadError())
		return
	}
	stops := sched.Stops()
	if stops == nil {
		stops = []gtfs.Stop{}
	}
	utils.WriteJSON(w, http.StatusOK, stops)
}

func writeConfigurationError(w http.ResponseWriter, r *http.Request, err error) {
	msg := "Static schedule is not loaded"
	if err != nil {
		msg = NewConfigurationError(err).Error()
	}
	utils.WriteError(w, http.StatusInternalServerError, msg, internal.RequestID(r.Context()))
}
