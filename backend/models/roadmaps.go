package models

import "gorm.io/gorm"

type Roadmap struct {
	gorm.Model
	Title       string `gorm:"not null"`
	Description string
	Icon        string
	IsCustom    bool `gorm:"default:false"` // AI-generated vs. curated
	AuthorID    uint
	Modules     []Module
}

type Module struct {
	gorm.Model
	RoadmapID     uint `gorm:"index:idx_module_roadmap_order,unique"`
	Title         string
	Description   string
	Content       string
	SequenceOrder int `gorm:"index:idx_module_roadmap_order,unique"` // defines traversal order
}

// RoadmapProgress is the per-(user, roadmap) progress record. CompletedModules
// is a JSON array of module IDs stored in a text column; CurrentModuleID is the
// lowest-order incomplete module, or nil once every module is completed. Both
// fields live on one row so a single save updates them together.
type RoadmapProgress struct {
	gorm.Model
	UserID           uint   `gorm:"index:idx_roadmap_progress_user_roadmap,unique"`
	RoadmapID        uint   `gorm:"index:idx_roadmap_progress_user_roadmap,unique"`
	CompletedModules string // JSON array of module IDs
	CurrentModuleID  *uint
}
