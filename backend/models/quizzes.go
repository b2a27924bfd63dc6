package models

import "gorm.io/gorm"

type Quiz struct {
	gorm.Model
	RoadmapID      uint `gorm:"index:idx_quiz_roadmap_module,unique"`
	ModuleID       uint `gorm:"index:idx_quiz_roadmap_module,unique"`
	Title          string
	PassingScore   int // correct answers required to pass
	TotalQuestions int
	BadgeTitle     string
	BadgeImage     string
	BadgeDesc      string
	Questions      []QuizQuestion
}

type QuizQuestion struct {
	gorm.Model
	QuizID        uint
	Question      string
	Options       string // JSON array of options
	CorrectAnswer int
	SequenceOrder int
}
