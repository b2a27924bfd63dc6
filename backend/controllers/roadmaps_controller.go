package controllers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"skillpath/backend/ai"
	"skillpath/backend/config"
	"skillpath/backend/models"
	"skillpath/backend/progress"
	"skillpath/backend/utils"
)

// RoadmapGenerator produces a custom roadmap for a topic.
type RoadmapGenerator interface {
	GenerateRoadmap(ctx context.Context, topic string) (*ai.GeneratedRoadmap, error)
}

// ContentModerator screens user-supplied text.
type ContentModerator interface {
	Check(ctx context.Context, text string) (bool, error)
}

// ModuleListInvalidator drops a cached module list after authoring writes.
type ModuleListInvalidator interface {
	Invalidate(roadmapID uint)
}

type RoadmapsController struct {
	DB        *gorm.DB
	Cfg       *config.Config
	Tracker   *progress.Tracker
	Streaks   *progress.StreakCalculator
	Generator RoadmapGenerator
	Moderator ContentModerator
	Cache     ModuleListInvalidator
}

func NewRoadmapsController(db *gorm.DB, cfg *config.Config, tracker *progress.Tracker, streaks *progress.StreakCalculator) *RoadmapsController {
	return &RoadmapsController{DB: db, Cfg: cfg, Tracker: tracker, Streaks: streaks}
}

func (rc *RoadmapsController) GetRoadmaps(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, rc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var roadmaps []models.Roadmap
	rc.DB.Order("is_custom ASC, title ASC").Find(&roadmaps)

	var result []fiber.Map
	for _, roadmap := range roadmaps {
		snap, err := rc.Tracker.Progress(userID, roadmap.ID)
		if err != nil {
			return utils.EngineError(c, err)
		}

		result = append(result, fiber.Map{
			"id":              roadmap.ID,
			"title":           roadmap.Title,
			"description":     roadmap.Description,
			"icon":            roadmap.Icon,
			"is_custom":       roadmap.IsCustom,
			"total_modules":   snap.TotalModules,
			"completed":       len(snap.Completed),
			"completion_rate": snap.CompletionRate,
		})
	}

	return c.JSON(result)
}

func (rc *RoadmapsController) GetRoadmapDetails(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, rc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	roadmapID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid roadmap ID",
		})
	}

	var roadmap models.Roadmap
	if err := rc.DB.Preload("Modules", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence_order ASC")
	}).First(&roadmap, roadmapID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Roadmap not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	snap, err := rc.Tracker.Progress(userID, roadmap.ID)
	if err != nil {
		return utils.EngineError(c, err)
	}

	return c.JSON(fiber.Map{
		"roadmap": fiber.Map{
			"id":          roadmap.ID,
			"title":       roadmap.Title,
			"description": roadmap.Description,
			"icon":        roadmap.Icon,
			"is_custom":   roadmap.IsCustom,
			"modules":     roadmap.Modules,
		},
		"progress": snap,
	})
}

// Enroll creates the progress record for a roadmap: empty completed set,
// current module at the first in order.
func (rc *RoadmapsController) Enroll(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, rc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	roadmapID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid roadmap ID",
		})
	}

	snap, err := rc.Tracker.StartRoadmap(userID, uint(roadmapID))
	if err != nil {
		return utils.EngineError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Enrolled",
		"progress": snap,
	})
}

// CompleteModule marks a module finished outside the quiz flow (reading-only
// modules). It also counts as the day's learning activity.
func (rc *RoadmapsController) CompleteModule(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, rc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	roadmapID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid roadmap ID",
		})
	}

	moduleID, err := strconv.Atoi(c.Params("moduleId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid module ID",
		})
	}

	snap, err := rc.Tracker.CompleteModule(userID, uint(roadmapID), uint(moduleID))
	if err != nil {
		return utils.EngineError(c, err)
	}

	streak, err := rc.Streaks.RegisterActivity(userID)
	if err != nil {
		return utils.EngineError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Module completed",
		"progress": snap,
		"streak":   streak,
	})
}

// GenerateRoadmap builds a custom roadmap for the requested topic: the topic
// passes moderation first, then the generated modules are persisted in order.
func (rc *RoadmapsController) GenerateRoadmap(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, rc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var input struct {
		Topic string `json:"topic"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.Topic == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Topic is required",
		})
	}

	ok, err := rc.Moderator.Check(c.Context(), input.Topic)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Moderation service unavailable",
		})
	}
	if !ok {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Topic was rejected by moderation",
		})
	}

	generated, err := rc.Generator.GenerateRoadmap(c.Context(), input.Topic)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Could not generate roadmap",
		})
	}

	roadmap := models.Roadmap{
		Title:       generated.Title,
		Description: generated.Description,
		IsCustom:    true,
		AuthorID:    userID,
	}
	for i, title := range generated.Modules {
		roadmap.Modules = append(roadmap.Modules, models.Module{
			Title:         title,
			SequenceOrder: i + 1,
		})
	}

	if err := rc.DB.Create(&roadmap).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save roadmap",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Roadmap generated",
		"roadmap": roadmap,
	})
}

func (rc *RoadmapsController) CreateRoadmap(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, rc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var roadmap models.Roadmap
	if err := c.BodyParser(&roadmap); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	roadmap.AuthorID = userID
	roadmap.IsCustom = false

	if err := rc.DB.Create(&roadmap).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create roadmap",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Roadmap created",
		"roadmap": roadmap,
	})
}

func (rc *RoadmapsController) AddModule(c *fiber.Ctx) error {
	roadmapID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid roadmap ID",
		})
	}

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var roadmap models.Roadmap
	if err := rc.DB.First(&roadmap, roadmapID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Roadmap not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	// MAX rather than COUNT so orders stay unique after a module is removed.
	// Unscoped so a soft-deleted module's order is never reused either.
	var maxOrder int
	rc.DB.Unscoped().Model(&models.Module{}).
		Where("roadmap_id = ?", roadmapID).
		Select("COALESCE(MAX(sequence_order), 0)").
		Scan(&maxOrder)

	module := models.Module{
		RoadmapID:     uint(roadmapID),
		Title:         input.Title,
		Description:   input.Description,
		Content:       input.Content,
		SequenceOrder: maxOrder + 1,
	}

	if err := rc.DB.Create(&module).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create module",
		})
	}

	if rc.Cache != nil {
		rc.Cache.Invalidate(uint(roadmapID))
	}

	return c.JSON(fiber.Map{
		"message": "Module added",
		"module":  module,
	})
}
