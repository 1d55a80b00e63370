// Package http provides the Gin handlers and router for the planning service.
package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adamistheanswer/pokebay/internal/domain/dto"
	"github.com/adamistheanswer/pokebay/internal/middleware"
	"github.com/adamistheanswer/pokebay/internal/optimize"
	"github.com/adamistheanswer/pokebay/internal/repository"
	"github.com/adamistheanswer/pokebay/internal/service"
)

// Handler provides HTTP handlers for the planning routes.
type Handler struct {
	planner service.PlanService
	runs    *repository.RunsRepository
}

// NewHandler creates a new Handler instance. The runs repository is optional;
// nil disables the run history endpoint.
func NewHandler(planner service.PlanService, runs *repository.RunsRepository) *Handler {
	return &Handler{planner: planner, runs: runs}
}

// HasRunHistory reports whether run history queries are available.
func (h *Handler) HasRunHistory() bool {
	return h.runs != nil
}

// Plan handles POST /api/plan requests.
func (h *Handler) Plan(c *gin.Context) {
	requestID := middleware.GetRequestID(c)

	var req dto.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(dto.ErrCodeInvalidRequest, "Invalid request body").
			WithRequestID(requestID))
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(dto.ErrCodeInvalidRequest, err.Error()).
			WithRequestID(requestID))
		return
	}

	ctx := service.WithRequestID(c.Request.Context(), requestID)
	plan, err := h.planner.Plan(ctx, service.PlanParams{
		SetID:               req.SetID,
		Numbers:             req.Numbers,
		ShippingPolicy:      req.ShippingPolicy,
		UnsatisfiablePolicy: req.UnsatisfiablePolicy,
	})
	if err != nil {
		status, code := planErrorStatus(err)
		c.JSON(status, dto.NewError(code, err.Error()).WithRequestID(requestID))
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Data:      plan,
		RequestID: requestID,
		Timestamp: time.Now(),
	})
}

// planErrorStatus maps a planning error to an HTTP status and error code.
func planErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, optimize.ErrUnsatisfiable), errors.Is(err, optimize.ErrInfeasible):
		return http.StatusUnprocessableEntity, dto.ErrCodeUnprocessable
	case errors.Is(err, service.ErrUpstream):
		return http.StatusBadGateway, dto.ErrCodeUpstream
	default:
		// Invariant violations and engine failures are server-side defects.
		return http.StatusInternalServerError, dto.ErrCodeInternal
	}
}

// ListRuns handles GET /api/runs requests.
func (h *Handler) ListRuns(c *gin.Context) {
	requestID := middleware.GetRequestID(c)

	var query struct {
		SetID  string `form:"set_id"`
		Status string `form:"status"`
		Limit  int    `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(dto.ErrCodeInvalidRequest, "Invalid query parameters").
			WithRequestID(requestID))
		return
	}

	records, err := h.runs.List(c.Request.Context(), repository.RunQueryOptions{
		SetID:  query.SetID,
		Status: query.Status,
		Limit:  query.Limit,
	})
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, dto.NewError(dto.ErrCodeInternal, "Failed to list runs").
			WithRequestID(requestID))
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Data:      records,
		RequestID: requestID,
		Timestamp: time.Now(),
	})
}
