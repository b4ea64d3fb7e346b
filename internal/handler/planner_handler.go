package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hub-grade-planner/internal/dto"
	"github.com/noah-isme/hub-grade-planner/internal/middleware"
	"github.com/noah-isme/hub-grade-planner/internal/models"
	appErrors "github.com/noah-isme/hub-grade-planner/pkg/errors"
	"github.com/noah-isme/hub-grade-planner/pkg/grading"
	"github.com/noah-isme/hub-grade-planner/pkg/response"
)

type plannerService interface {
	Policy() grading.Policy
	Template() models.Snapshot
	Normalize(ctx context.Context, req dto.SnapshotRequest) (*models.Snapshot, error)
	GradeSubject(ctx context.Context, req dto.GradeSubjectRequest) (*dto.GradeSubjectResponse, error)
	Forecast(ctx context.Context, req dto.ForecastRequest) (*dto.ForecastResponse, error)
	Summary(ctx context.Context, req dto.SummaryRequest) (*dto.SummaryResponse, bool, error)
}

// PlannerHandler exposes grading, snapshot and dashboard endpoints.
type PlannerHandler struct {
	planner plannerService
}

// NewPlannerHandler constructs the handler.
func NewPlannerHandler(planner plannerService) *PlannerHandler {
	return &PlannerHandler{planner: planner}
}

// Policy godoc
// @Summary Active grading regulation
// @Tags Planner
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /policy [get]
func (h *PlannerHandler) Policy(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.planner.Policy())
}

// GradeSubject godoc
// @Summary Grade one subject
// @Tags Planner
// @Accept json
// @Produce json
// @Param payload body dto.GradeSubjectRequest true "Component scores"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /grades/subject [post]
func (h *PlannerHandler) GradeSubject(c *gin.Context) {
	var req dto.GradeSubjectRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.planner.GradeSubject(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Template godoc
// @Summary Blank four-year planner
// @Tags Planner
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /planner/template [get]
func (h *PlannerHandler) Template(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.planner.Template())
}

// Normalize godoc
// @Summary Fill defaults, ids and term tags of a snapshot
// @Tags Planner
// @Accept json
// @Produce json
// @Param payload body dto.SnapshotRequest true "Snapshot"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /planner/normalize [post]
func (h *PlannerHandler) Normalize(c *gin.Context) {
	var req dto.SnapshotRequest
	if !bindJSON(c, &req) {
		return
	}
	snapshot, err := h.planner.Normalize(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot)
}

// Summary godoc
// @Summary Dashboard summary of a snapshot
// @Tags Planner
// @Accept json
// @Produce json
// @Param payload body dto.SummaryRequest true "Snapshot and options"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /planner/summary [post]
func (h *PlannerHandler) Summary(c *gin.Context) {
	var req dto.SummaryRequest
	if !bindJSON(c, &req) {
		return
	}
	summary, cacheHit, err := h.planner.Summary(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, summary, middleware.ExtractMeta(c))
}

// Forecast godoc
// @Summary GPA required on the remaining credits
// @Tags Planner
// @Accept json
// @Produce json
// @Param payload body dto.ForecastRequest true "Current position and target"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /planner/forecast [post]
func (h *PlannerHandler) Forecast(c *gin.Context) {
	var req dto.ForecastRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.planner.Forecast(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// bindJSON decodes the body and answers 400 on malformed JSON. Field rules are checked by
// the services.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid JSON body"))
		return false
	}
	return true
}
