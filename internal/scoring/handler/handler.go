// Package handler exposes the scoring engine over HTTP.
package handler

import (
	"context"
	"net/http"

	"leadscore_backend/internal/scoring/service"
	"leadscore_backend/internal/scoring/transport"
	"leadscore_backend/platform/httpkit"
	"leadscore_backend/platform/logger"
	"leadscore_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RescoreEnqueuer hands bulk rescore runs to the background job system so
// the HTTP request returns immediately.
type RescoreEnqueuer interface {
	EnqueueRescore(ctx context.Context) (string, error)
}

// Handler handles scoring HTTP requests.
type Handler struct {
	svc      *service.Service
	rescorer RescoreEnqueuer
	validate *validator.Validator
	log      *logger.Logger
}

// New creates a new scoring handler.
func New(svc *service.Service, rescorer RescoreEnqueuer, validate *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{svc: svc, rescorer: rescorer, validate: validate, log: log}
}

// RegisterRoutes mounts the scoring API under the given router group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	scoring := r.Group("/scoring")
	{
		scoring.POST("/leads/:id/score", h.CalculateScore)
		scoring.GET("/leads/:id/stage", h.GetStage)
		scoring.GET("/leads/:id/history", h.GetHistory)
		scoring.GET("/leads/:id/transitions", h.ListTransitions)
		scoring.GET("/leads/:id/prediction", h.GetPrediction)
		scoring.GET("/benchmarks", h.GetBenchmarks)
		scoring.GET("/config", h.GetConfig)
		scoring.PUT("/config", h.UpdateConfig)
		scoring.POST("/rescore", h.Rescore)
	}
}

// CalculateScore runs a scoring pass for one lead and returns the new record,
// the resulting stage and the transition if one occurred.
func (h *Handler) CalculateScore(c *gin.Context) {
	leadID, ok := h.leadID(c)
	if !ok {
		return
	}

	result, err := h.svc.CalculateScore(c.Request.Context(), leadID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.NewScoreResponse(result))
}

// GetStage returns a lead's current qualification stage.
func (h *Handler) GetStage(c *gin.Context) {
	leadID, ok := h.leadID(c)
	if !ok {
		return
	}

	st, err := h.svc.GetStage(c.Request.Context(), leadID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.StageResponse{Stage: st})
}

// GetHistory returns a lead's retained score records and trend.
func (h *Handler) GetHistory(c *gin.Context) {
	leadID, ok := h.leadID(c)
	if !ok {
		return
	}

	records, trend, err := h.svc.GetHistory(c.Request.Context(), leadID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.HistoryResponse{Records: records, Trend: trend})
}

// ListTransitions returns a lead's stage transition audit trail.
func (h *Handler) ListTransitions(c *gin.Context) {
	leadID, ok := h.leadID(c)
	if !ok {
		return
	}

	transitions, err := h.svc.ListTransitions(c.Request.Context(), leadID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.TransitionsResponse{Transitions: transitions})
}

// GetPrediction returns the predictive insights for a scored lead.
func (h *Handler) GetPrediction(c *gin.Context) {
	leadID, ok := h.leadID(c)
	if !ok {
		return
	}

	p, err := h.svc.GetPrediction(c.Request.Context(), leadID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, p)
}

// GetBenchmarks returns the population benchmark snapshot.
func (h *Handler) GetBenchmarks(c *gin.Context) {
	b, err := h.svc.GetBenchmarks(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, b)
}

// GetConfig returns the active scoring configuration.
func (h *Handler) GetConfig(c *gin.Context) {
	httpkit.OK(c, transport.ConfigResponse{Config: h.svc.ActiveConfig()})
}

// UpdateConfig validates and activates a new scoring configuration.
func (h *Handler) UpdateConfig(c *gin.Context) {
	var req transport.UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	version, err := h.svc.UpdateConfig(c.Request.Context(), req.ToConfig())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.UpdateConfigResponse{Version: version})
}

// Rescore enqueues a bulk rescore of all leads and returns 202 with the
// task id.
func (h *Handler) Rescore(c *gin.Context) {
	taskID, err := h.rescorer.EnqueueRescore(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Accepted(c, gin.H{"taskId": taskID})
}

func (h *Handler) leadID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return uuid.Nil, false
	}
	return id, true
}
