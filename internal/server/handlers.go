package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/charleira/b3penny/internal/updater"
)

// handleStocks serves the current equity snapshot verbatim. An absent
// snapshot is a 404, not an empty list, so the dashboard can tell "no data
// yet" apart from "no stocks matched".
func (s *Server) handleStocks(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.store.LoadEquities()
	if !ok {
		writeError(w, http.StatusNotFound, "stock data not available, trigger an update first")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleStatus serves the freshness view. It always answers 200.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.reporter.Status())
}

// handleOptions serves the nearest-expiration contracts for one underlying.
// A missing derivatives snapshot or an unknown ticker is an empty list, not
// an error.
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]

	snap, _ := s.store.LoadDerivatives()
	resolved := s.resolver.Resolve(ticker, snap, time.Now())

	writeJSON(w, http.StatusOK, map[string]any{
		"ticker":  strings.ToUpper(strings.TrimSpace(ticker)),
		"options": resolved,
	})
}

// updateRequest is the optional POST /api/update body. maxPrice accepts a
// JSON number or a numeric string.
type updateRequest struct {
	MaxPrice any `json:"maxPrice"`
}

// handleUpdate triggers a manual regeneration. It answers as soon as the run
// is accepted; progress is observable on /api/status.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	maxPrice, ok := s.parseMaxPrice(w, r)
	if !ok {
		return
	}

	switch err := s.updates.TriggerManual(maxPrice); {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	case errors.Is(err, updater.ErrBusy):
		writeError(w, http.StatusConflict, "update already in progress")
	default:
		s.logger.Error("manual update trigger failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to start update")
	}
}

// parseMaxPrice extracts the price filter from the request body, falling back
// to the configured default for an empty or field-less body. On failure it
// writes the 400 itself and returns ok=false.
func (s *Server) parseMaxPrice(w http.ResponseWriter, r *http.Request) (decimal.Decimal, bool) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var req updateRequest
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return decimal.Decimal{}, false
	}

	maxPrice := s.defaultMaxPrice

	switch v := req.MaxPrice.(type) {
	case nil:
	case json.Number:
		parsed, err := decimal.NewFromString(v.String())
		if err != nil {
			writeError(w, http.StatusBadRequest, "maxPrice must be a number")
			return decimal.Decimal{}, false
		}
		maxPrice = parsed
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			writeError(w, http.StatusBadRequest, "maxPrice must be a number")
			return decimal.Decimal{}, false
		}
		maxPrice = parsed
	default:
		writeError(w, http.StatusBadRequest, "maxPrice must be a number")
		return decimal.Decimal{}, false
	}

	if !maxPrice.IsPositive() {
		writeError(w, http.StatusBadRequest, "maxPrice must be greater than zero")
		return decimal.Decimal{}, false
	}

	return maxPrice, true
}

// handleHealth is a liveness probe with a per-component view. Missing
// snapshot data degrades the report but the process itself is healthy, so
// the status code stays 200.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.reporter.Status()

	health := struct {
		Status     string         `json:"status"`
		Components map[string]any `json:"components"`
	}{
		Status:     "healthy",
		Components: make(map[string]any),
	}

	health.Components["snapshot"] = map[string]any{
		"available":      st.Available,
		"reference_date": st.ReferenceDate,
	}
	health.Components["updater"] = map[string]any{
		"running": st.UpdateInProgress,
	}
	if !st.Available {
		health.Status = "degraded"
	}

	writeJSON(w, http.StatusOK, health)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
