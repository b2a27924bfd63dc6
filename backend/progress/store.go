package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"skillpath/backend/models"
)

// Record is the loaded form of a per-(user, roadmap) progress row.
type Record struct {
	Completed       []uint
	CurrentModuleID *uint
}

// ProgressStore persists progress records. Get returns (nil, nil) when no
// record exists yet. Put writes the completed set and the current-module
// pointer together; implementations must not let a reader observe one
// without the other.
type ProgressStore interface {
	Get(userID, roadmapID uint) (*Record, error)
	Put(userID, roadmapID uint, completed []uint, currentModuleID *uint) error
}

// StreakStore persists streak state. Get reports ok=false when the user has
// no streak row yet.
type StreakStore interface {
	Get(userID uint) (streak int, lastActive time.Time, ok bool, err error)
	Put(userID uint, streak int, lastActive time.Time) error
}

type GormProgressStore struct {
	DB *gorm.DB
}

func NewGormProgressStore(db *gorm.DB) *GormProgressStore {
	return &GormProgressStore{DB: db}
}

func (s *GormProgressStore) Get(userID, roadmapID uint) (*Record, error) {
	var row models.RoadmapProgress
	err := s.DB.Where("user_id = ? AND roadmap_id = ?", userID, roadmapID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", ErrStoreUnavailable)
	}

	var completed []uint
	if row.CompletedModules != "" {
		if err := json.Unmarshal([]byte(row.CompletedModules), &completed); err != nil {
			return nil, fmt.Errorf("decode completed set: %w", err)
		}
	}
	return &Record{Completed: completed, CurrentModuleID: row.CurrentModuleID}, nil
}

// Put updates both fields of the single progress row with one save, so the
// completed set and the pointer are never observable out of step.
func (s *GormProgressStore) Put(userID, roadmapID uint, completed []uint, currentModuleID *uint) error {
	data, err := json.Marshal(completed)
	if err != nil {
		return fmt.Errorf("encode completed set: %w", err)
	}

	var row models.RoadmapProgress
	err = s.DB.Where("user_id = ? AND roadmap_id = ?", userID, roadmapID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.RoadmapProgress{UserID: userID, RoadmapID: roadmapID}
	} else if err != nil {
		return fmt.Errorf("load progress: %w", ErrStoreUnavailable)
	}

	row.CompletedModules = string(data)
	row.CurrentModuleID = currentModuleID
	if err := s.DB.Save(&row).Error; err != nil {
		return fmt.Errorf("persist progress: %w", ErrStoreUnavailable)
	}
	return nil
}

type GormStreakStore struct {
	DB *gorm.DB
}

func NewGormStreakStore(db *gorm.DB) *GormStreakStore {
	return &GormStreakStore{DB: db}
}

func (s *GormStreakStore) Get(userID uint) (int, time.Time, bool, error) {
	var row models.UserStreak
	err := s.DB.Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, time.Time{}, false, nil
	}
	if err != nil {
		return 0, time.Time{}, false, fmt.Errorf("load streak: %w", ErrStoreUnavailable)
	}
	return row.Streak, row.LastActiveDate, true, nil
}

func (s *GormStreakStore) Put(userID uint, streak int, lastActive time.Time) error {
	var row models.UserStreak
	err := s.DB.Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.UserStreak{UserID: userID}
	} else if err != nil {
		return fmt.Errorf("load streak: %w", ErrStoreUnavailable)
	}

	row.Streak = streak
	row.LastActiveDate = lastActive
	if err := s.DB.Save(&row).Error; err != nil {
		return fmt.Errorf("persist streak: %w", ErrStoreUnavailable)
	}
	return nil
}
