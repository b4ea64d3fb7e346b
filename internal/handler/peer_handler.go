package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hub-grade-planner/internal/dto"
	"github.com/noah-isme/hub-grade-planner/internal/models"
	appErrors "github.com/noah-isme/hub-grade-planner/pkg/errors"
	"github.com/noah-isme/hub-grade-planner/pkg/response"
)

type peerService interface {
	Datasets(ctx context.Context) ([]models.PeerDataset, error)
	EnqueueSync(id string) (*dto.PeerSyncResponse, error)
	Forecast(ctx context.Context, req dto.RankForecastRequest) (*dto.RankForecastResponse, error)
}

// PeerHandler exposes the cohort datasets and rank forecasts.
type PeerHandler struct {
	peers peerService
}

// NewPeerHandler constructs the handler.
func NewPeerHandler(peers peerService) *PeerHandler {
	return &PeerHandler{peers: peers}
}

// Datasets godoc
// @Summary List peer datasets with their last sync
// @Tags Peers
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /peers/datasets [get]
func (h *PeerHandler) Datasets(c *gin.Context) {
	datasets, err := h.peers.Datasets(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, datasets)
}

// Sync godoc
// @Summary Queue a refresh of one dataset
// @Tags Peers
// @Produce json
// @Param id path string true "Dataset ID"
// @Success 202 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /peers/datasets/{id}/sync [post]
func (h *PeerHandler) Sync(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "dataset id is required"))
		return
	}
	result, err := h.peers.EnqueueSync(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, result)
}

// Forecast godoc
// @Summary Forecast rank within a cohort
// @Tags Peers
// @Accept json
// @Produce json
// @Param payload body dto.RankForecastRequest true "Semester or explicit record"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /rankings/forecast [post]
func (h *PeerHandler) Forecast(c *gin.Context) {
	var req dto.RankForecastRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.peers.Forecast(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
