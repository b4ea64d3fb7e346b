package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hub-grade-planner/internal/models"
	"github.com/noah-isme/hub-grade-planner/internal/service"
)

func TestCatalogHandlerPrograms(t *testing.T) {
	r := newTestRouter()
	r.GET("/catalog/programs", NewCatalogHandler(service.NewCatalogService(nil)).Programs)

	rec, env := performJSON(t, r, http.MethodGet, "/catalog/programs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var programs []models.Program
	require.NoError(t, json.Unmarshal(env.Data, &programs))
	assert.Len(t, programs, len(models.AcademicPrograms))
	assert.Equal(t, "standard", programs[0].ID)
}
