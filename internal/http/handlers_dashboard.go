package http

import (
	"errors"
	"net/http"
	"strings"

	applog "clarity/internal/log"
	"clarity/internal/scoring"
	"clarity/internal/storage"
)

// parsePeriod validates the period query parameter, defaulting to
// this_month when absent.
func parsePeriod(r *http.Request) (scoring.Period, bool) {
	v := strings.TrimSpace(r.URL.Query().Get("period"))
	switch scoring.Period(v) {
	case "":
		return scoring.PeriodThisMonth, true
	case scoring.PeriodThisMonth:
		return scoring.PeriodThisMonth, true
	case scoring.PeriodLast30Days:
		return scoring.PeriodLast30Days, true
	default:
		return "", false
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	institutionID := strings.TrimSpace(r.URL.Query().Get("institution"))
	period, ok := parsePeriod(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid period: must be this_month or last_30_days")
		return
	}

	cacheKey := "dashboard:" + institutionID + ":" + string(period)
	if cached, hit := s.dashboardCache.Get(cacheKey); hit {
		s.metrics.cacheHits.Add(1)
		respondJSON(w, http.StatusOK, cached)
		return
	}
	s.metrics.cacheMisses.Add(1)

	dashboard, err := s.dashboards.Build(r.Context(), institutionID, period, s.now())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Dashboard build failed",
			"institution_id", institutionID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}

	s.dashboardCache.Set(cacheKey, dashboard)
	respondJSON(w, http.StatusOK, dashboard)
}

// handleSnapshot serves the last dashboard the worker persisted for the
// scope, without recomputing anything.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	institutionID := strings.TrimSpace(r.URL.Query().Get("institution"))

	snap, err := s.dashboards.LatestSnapshot(r.Context(), institutionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "no snapshot for this scope yet")
			return
		}
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Snapshot lookup failed",
			"institution_id", institutionID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(snap.Payload))
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	institutionID := strings.TrimSpace(r.URL.Query().Get("institution"))

	cacheKey := "insights:" + institutionID
	if cached, hit := s.insightsCache.Get(cacheKey); hit {
		s.metrics.cacheHits.Add(1)
		respondJSON(w, http.StatusOK, cached)
		return
	}
	s.metrics.cacheMisses.Add(1)

	insights, err := s.dashboards.Insights(r.Context(), institutionID, s.now())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Insight generation failed",
			"institution_id", institutionID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to generate insights")
		return
	}
	if insights == nil {
		insights = []scoring.Insight{}
	}

	s.insightsCache.Set(cacheKey, insights)
	respondJSON(w, http.StatusOK, insights)
}
