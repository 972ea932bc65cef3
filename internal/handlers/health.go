package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"postboard/internal/config"
	"postboard/internal/database"
	"postboard/internal/dto"
	"postboard/internal/utils"
)

// HealthHandler handles health check related requests
type HealthHandler struct {
	db        database.Pool
	config    *config.Config
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(db database.Pool, cfg *config.Config) *HealthHandler {
	return &HealthHandler{db: db, config: cfg, startTime: time.Now()}
}

// APIStatus handles GET /api/v1/health
// @Summary Get api health
// @Tags Health
// @Produce json
// @Success 200 {object} dto.APIStatus
// @Router /api/v1/health [get]
func (h *HealthHandler) APIStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	dbStatus := "Healthy"
	var one int
	if err := h.db.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		dbStatus = "Unhealthy"
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.APIStatus{
		Environment: h.config.App.Environment,
		Status:      "Healthy",
		DBStatus:    dbStatus,
		Timestamp:   time.Now().UTC().Format(time.RFC3339Nano),
		Version:     h.config.App.Version,
		Uptime:      fmt.Sprintf("%f", time.Since(h.startTime).Seconds()),
	})
}

// HealthCheck handles basic health check (no database)
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{Status: "ok"})
}

// LivenessCheck handles process liveness check
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{Status: "alive"})
}

// ReadinessCheck handles readiness check (includes database connectivity)
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		utils.WriteJSONResponse(w, http.StatusServiceUnavailable, dto.HealthResponse{
			Status:  "degraded",
			Details: map[string]any{"db": err.Error()},
		})
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{
		Status:  "ready",
		Details: map[string]any{"db": "ok"},
	})
}
