package progress

import (
	"log"

	"gorm.io/gorm"

	"skillpath/backend/models"
)

// FallbackModuleTitle is returned when a module title cannot be resolved.
const FallbackModuleTitle = "Module"

// ModuleRef is one entry of a roadmap's ordered module list.
type ModuleRef struct {
	ID    uint
	Title string
	Order int
}

// EnrollmentStore exposes roadmap reference data to the engine. It is
// read-only and degrades on failure: ListModules returns an empty list and
// ModuleTitle returns FallbackModuleTitle instead of surfacing an error.
type EnrollmentStore interface {
	ListModules(roadmapID uint) []ModuleRef
	ModuleTitle(roadmapID, moduleID uint) string
}

type GormEnrollmentStore struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewGormEnrollmentStore(db *gorm.DB, logger *log.Logger) *GormEnrollmentStore {
	return &GormEnrollmentStore{DB: db, Logger: logger}
}

func (s *GormEnrollmentStore) ListModules(roadmapID uint) []ModuleRef {
	var modules []models.Module
	err := s.DB.Where("roadmap_id = ?", roadmapID).
		Order("sequence_order ASC").
		Find(&modules).Error
	if err != nil {
		if s.Logger != nil {
			s.Logger.Printf("list modules for roadmap %d: %v", roadmapID, err)
		}
		return nil
	}

	refs := make([]ModuleRef, 0, len(modules))
	for _, m := range modules {
		refs = append(refs, ModuleRef{ID: m.ID, Title: m.Title, Order: m.SequenceOrder})
	}
	return refs
}

func (s *GormEnrollmentStore) ModuleTitle(roadmapID, moduleID uint) string {
	var module models.Module
	err := s.DB.Where("id = ? AND roadmap_id = ?", moduleID, roadmapID).
		First(&module).Error
	if err != nil {
		return FallbackModuleTitle
	}
	if module.Title == "" {
		return FallbackModuleTitle
	}
	return module.Title
}
