// Package simulation exposes the price simulation service over HTTP.
package simulation

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kilianp07/iexsim/core/pricing"
	"github.com/kilianp07/iexsim/internal/report"
)

// Handler serves simulation requests.
type Handler struct {
	svc *pricing.Service
}

// NewHandler creates a Handler backed by svc.
func NewHandler(svc *pricing.Service) *Handler {
	return &Handler{svc: svc}
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListPresets handles GET /api/v1/presets.
func (h *Handler) ListPresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"default": h.svc.DefaultPreset(),
		"presets": report.Presets(h.svc),
	})
}

// Simulate handles POST /api/v1/simulations.
func (h *Handler) Simulate(c *gin.Context) {
	var req report.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, report.ErrorBody{Code: report.CodeInvalidInput, Message: err.Error()})
		return
	}
	sim, err := h.svc.Simulate(c.Request.Context(), req.SimulationRequest("api"))
	if err != nil {
		writeError(c, StatusFor(err), report.FromError(err))
		return
	}
	c.JSON(http.StatusOK, report.FromSimulation(sim))
}

// StatusFor maps a simulation error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, pricing.ErrInvalidInput), errors.Is(err, pricing.ErrUnknownPreset):
		return http.StatusBadRequest
	case errors.Is(err, pricing.ErrDegenerateDistribution):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, status int, body report.ErrorBody) {
	c.AbortWithStatusJSON(status, gin.H{"error": body})
}
