package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hub-grade-planner/internal/dto"
	"github.com/noah-isme/hub-grade-planner/internal/models"
	"github.com/noah-isme/hub-grade-planner/internal/service"
	"github.com/noah-isme/hub-grade-planner/pkg/response"
)

type exportService interface {
	Transcript(ctx context.Context, req dto.ExportRequest) (*models.TranscriptExport, error)
	Download(token string) (*service.ExportFile, error)
}

// ExportHandler renders transcripts and serves the signed downloads.
type ExportHandler struct {
	exports exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(exports exportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Transcript godoc
// @Summary Render the transcript as CSV or PDF
// @Tags Exports
// @Accept json
// @Produce json
// @Param payload body dto.ExportRequest true "Snapshot and format"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exports/transcript [post]
func (h *ExportHandler) Transcript(c *gin.Context) {
	var req dto.ExportRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.exports.Transcript(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Download godoc
// @Summary Download a rendered transcript
// @Tags Exports
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /exports/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	file, err := h.exports.Download(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Body.Close()
	response.Stream(c, file.Filename, file.ContentType, file.Body)
}
