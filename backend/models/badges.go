package models

import "gorm.io/gorm"

// Badge is an append-only award event. The (user, roadmap, module) key is
// unique so retaking a passed quiz never awards the same badge twice.
type Badge struct {
	gorm.Model
	EventID     string `gorm:"uniqueIndex"`
	UserID      uint   `gorm:"index:idx_badge_user_roadmap_module,unique"`
	RoadmapID   uint   `gorm:"index:idx_badge_user_roadmap_module,unique"`
	ModuleID    uint   `gorm:"index:idx_badge_user_roadmap_module,unique"`
	Title       string
	Image       string
	Description string
}
