package restserver

import (
	"encoding/json"
	"net/http"

	"github.com/windatlas/windatlas/internal/constants"
	"github.com/windatlas/windatlas/internal/log"
	"github.com/windatlas/windatlas/internal/pipeline"
)

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{controller: ctrl}
}

// writeJSON encodes a response with the standard headers. Listings of
// historical cycles change at most once per cycle, so clients may cache
// briefly.
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Cache-Control", "max-age=60")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("error encoding response to JSON:", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// cycleParams validates the date/cycle query parameters shared by most
// endpoints.
func cycleParams(req *http.Request) (date, cycle string, ok bool) {
	date = req.URL.Query().Get("date")
	cycle = req.URL.Query().Get("cycle")
	if date == "" || cycle == "" {
		return "", "", false
	}
	if !constants.ValidCycle(cycle) {
		return "", "", false
	}
	return date, cycle, true
}

// GetHealth handles liveness requests
func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, map[string]string{
		"status":  "ok",
		"version": constants.Version,
	})
}

// GetDates handles requests for the available forecast dates
func (h *Handlers) GetDates(w http.ResponseWriter, req *http.Request) {
	dates, err := h.controller.store.ListDates(req.Context())
	if err != nil {
		log.Errorf("error listing forecast dates: %v", err)
		writeError(w, http.StatusInternalServerError, "error fetching forecast dates")
		return
	}
	writeJSON(w, dates)
}

// GetCycles handles requests for the cycles available on one date
func (h *Handlers) GetCycles(w http.ResponseWriter, req *http.Request) {
	date := req.URL.Query().Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "date parameter is required")
		return
	}

	cycles, err := h.controller.store.ListCycles(req.Context(), date)
	if err != nil {
		log.Errorf("error listing cycles: %v", err)
		writeError(w, http.StatusInternalServerError, "error fetching cycles")
		return
	}
	writeJSON(w, cycles)
}

// GetSamples handles requests for the raw forecast samples of one cycle
func (h *Handlers) GetSamples(w http.ResponseWriter, req *http.Request) {
	date, cycle, ok := cycleParams(req)
	if !ok {
		writeError(w, http.StatusBadRequest, "date and cycle parameters are required; cycle must be one of 00, 06, 12, 18")
		return
	}

	samples, err := h.controller.store.GetSamples(req.Context(), date, cycle)
	if err != nil {
		log.Errorf("error fetching samples: %v", err)
		writeError(w, http.StatusInternalServerError, "error fetching forecast samples")
		return
	}
	if len(samples) == 0 {
		writeError(w, http.StatusNotFound, "no samples for requested cycle")
		return
	}
	writeJSON(w, transformSamples(samples))
}

// GetRankings handles requests for the country rankings of one cycle
func (h *Handlers) GetRankings(w http.ResponseWriter, req *http.Request) {
	date, cycle, ok := cycleParams(req)
	if !ok {
		writeError(w, http.StatusBadRequest, "date and cycle parameters are required; cycle must be one of 00, 06, 12, 18")
		return
	}

	rankings, err := h.controller.store.GetRankings(req.Context(), date, cycle)
	if err != nil {
		log.Errorf("error fetching rankings: %v", err)
		writeError(w, http.StatusInternalServerError, "error fetching rankings")
		return
	}
	if len(rankings) == 0 {
		writeError(w, http.StatusNotFound, "no rankings for requested cycle")
		return
	}
	writeJSON(w, transformRankings(rankings))
}

// GetHourlyAverage handles requests for the hourly global-average series.
// The series is derived from the samples on every request, never stored.
func (h *Handlers) GetHourlyAverage(w http.ResponseWriter, req *http.Request) {
	date, cycle, ok := cycleParams(req)
	if !ok {
		writeError(w, http.StatusBadRequest, "date and cycle parameters are required; cycle must be one of 00, 06, 12, 18")
		return
	}

	samples, err := h.controller.store.GetSamples(req.Context(), date, cycle)
	if err != nil {
		log.Errorf("error fetching samples: %v", err)
		writeError(w, http.StatusInternalServerError, "error fetching forecast samples")
		return
	}
	if len(samples) == 0 {
		writeError(w, http.StatusNotFound, "no samples for requested cycle")
		return
	}
	writeJSON(w, pipeline.HourlyGlobalAverage(samples))
}
