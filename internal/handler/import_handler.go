package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hub-grade-planner/internal/dto"
	"github.com/noah-isme/hub-grade-planner/pkg/response"
)

type importService interface {
	Import(ctx context.Context, req dto.TranscriptImportRequest) (*dto.TranscriptImportResponse, error)
}

// ImportHandler accepts transcript text copied from the student portal.
type ImportHandler struct {
	imports importService
}

// NewImportHandler constructs the handler.
func NewImportHandler(imports importService) *ImportHandler {
	return &ImportHandler{imports: imports}
}

// Transcript godoc
// @Summary Import a portal transcript into a snapshot
// @Tags Imports
// @Accept json
// @Produce json
// @Param payload body dto.TranscriptImportRequest true "Transcript text and current snapshot"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /imports/transcript [post]
func (h *ImportHandler) Transcript(c *gin.Context) {
	var req dto.TranscriptImportRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.imports.Import(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
