package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hub-grade-planner/internal/models"
	"github.com/noah-isme/hub-grade-planner/pkg/response"
)

type catalogService interface {
	Programs() []models.Program
}

// CatalogHandler serves the programme catalogue used during onboarding.
type CatalogHandler struct {
	catalog catalogService
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(catalog catalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Programs godoc
// @Summary Programmes, majors and required credits
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/programs [get]
func (h *CatalogHandler) Programs(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.catalog.Programs())
}
