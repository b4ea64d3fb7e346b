package service

import (
	"github.com/noah-isme/hub-grade-planner/internal/models"
	appErrors "github.com/noah-isme/hub-grade-planner/pkg/errors"
	"github.com/noah-isme/hub-grade-planner/pkg/textnorm"
)

// CatalogService answers onboarding lookups over the programme catalogue.
type CatalogService struct {
	programs []models.Program
}

// NewCatalogService builds a catalogue over programs, or the published one when nil.
func NewCatalogService(programs []models.Program) *CatalogService {
	if programs == nil {
		programs = models.AcademicPrograms
	}
	return &CatalogService{programs: programs}
}

// Programs lists every programme with its majors.
func (s *CatalogService) Programs() []models.Program {
	return s.programs
}

// RequiredCredits returns the graduation credits of a specialization. Programme, major and
// specialization are matched by id or name, ignoring case and diacritics.
func (s *CatalogService) RequiredCredits(program, major, specialization string) (int, error) {
	for _, p := range s.programs {
		if !sameName(p.ID, program) && !sameName(p.Name, program) {
			continue
		}
		for _, m := range p.Majors {
			if !sameName(m.Name, major) && m.Code != major {
				continue
			}
			for _, spec := range m.Specializations {
				if sameName(spec.Name, specialization) {
					return spec.Credits, nil
				}
			}
		}
	}
	return 0, appErrors.Clone(appErrors.ErrNotFound, "specialization not found")
}

func sameName(a, b string) bool {
	return b != "" && textnorm.Fold(a) == textnorm.Fold(b)
}
