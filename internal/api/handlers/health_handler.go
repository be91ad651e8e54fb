package handlers

import (
	"database/sql"
	"net/http"

	"github.com/isdelr/taskvault-be/internal/monitoring"
	"github.com/rs/zerolog/log"
)

// HealthHandler reports service liveness plus a host stats snapshot.
type HealthHandler struct {
	db    *sql.DB
	stats *monitoring.StatsCollector
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sql.DB, stats *monitoring.StatsCollector) *HealthHandler {
	return &HealthHandler{db: db, stats: stats}
}

type healthResponse struct {
	Status string              `json:"status"`
	Stats  monitoring.Snapshot `json:"stats"`
}

// Get serves the health check.
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		log.Error().Err(err).Msg("Database ping failed")
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondData(w, http.StatusOK, healthResponse{
		Status: "ok",
		Stats:  h.stats.Snapshot(r.Context()),
	})
}
