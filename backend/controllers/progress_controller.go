package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"skillpath/backend/config"
	"skillpath/backend/models"
	"skillpath/backend/progress"
	"skillpath/backend/utils"
)

type ProgressController struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Tracker *progress.Tracker
	Streaks *progress.StreakCalculator
}

func NewProgressController(db *gorm.DB, cfg *config.Config, tracker *progress.Tracker, streaks *progress.StreakCalculator) *ProgressController {
	return &ProgressController{DB: db, Cfg: cfg, Tracker: tracker, Streaks: streaks}
}

// GetProgress godoc
// @Summary Get user progress
// @Description Returns per-roadmap progress snapshots for every enrollment
// @Tags progress
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress [get]
func (pc *ProgressController) GetProgress(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var records []models.RoadmapProgress
	pc.DB.Where("user_id = ?", userID).Order("updated_at DESC").Find(&records)

	var result []*progress.Snapshot
	for _, record := range records {
		snap, err := pc.Tracker.Progress(userID, record.RoadmapID)
		if err != nil {
			return utils.EngineError(c, err)
		}
		result = append(result, snap)
	}

	return c.JSON(fiber.Map{
		"progress": result,
	})
}

// GetStreak godoc
// @Summary Get streak state
// @Description Returns the current streak, milestone fraction and message
// @Tags progress
// @Accept json
// @Produce json
// @Success 200 {object} progress.StreakResult
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress/streak [get]
func (pc *ProgressController) GetStreak(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	streak, err := pc.Streaks.Current(userID)
	if err != nil {
		return utils.EngineError(c, err)
	}

	return c.JSON(streak)
}

// RegisterActivity godoc
// @Summary Register learning activity
// @Description Counts today as a learning day and returns the updated streak
// @Tags progress
// @Accept json
// @Produce json
// @Success 200 {object} progress.StreakResult
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress/activity [post]
func (pc *ProgressController) RegisterActivity(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	streak, err := pc.Streaks.RegisterActivity(userID)
	if err != nil {
		return utils.EngineError(c, err)
	}

	return c.JSON(streak)
}

// GetOverview godoc
// @Summary Get progress overview
// @Description Returns summary of the user's standing across roadmaps
// @Tags progress
// @Accept json
// @Produce json
// @Success 200 {object} models.ProgressOverview
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress/overview [get]
func (pc *ProgressController) GetOverview(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	streak, err := pc.Streaks.Current(userID)
	if err != nil {
		return utils.EngineError(c, err)
	}

	var enrolled int64
	pc.DB.Model(&models.RoadmapProgress{}).
		Where("user_id = ?", userID).
		Count(&enrolled)

	var completed int64
	pc.DB.Model(&models.RoadmapProgress{}).
		Where("user_id = ? AND current_module_id IS NULL", userID).
		Count(&completed)

	var badges int64
	pc.DB.Model(&models.Badge{}).
		Where("user_id = ?", userID).
		Count(&badges)

	return c.JSON(models.ProgressOverview{
		Streak:            streak.Streak,
		StreakFraction:    streak.ProgressFraction,
		StreakMessage:     streak.Message,
		RoadmapsEnrolled:  int(enrolled),
		RoadmapsCompleted: int(completed),
		BadgesEarned:      int(badges),
	})
}

// GetBadges godoc
// @Summary List earned badges
// @Tags progress
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /badges [get]
func (pc *ProgressController) GetBadges(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var badges []models.Badge
	pc.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&badges)

	var result []fiber.Map
	for _, badge := range badges {
		result = append(result, fiber.Map{
			"event_id":    badge.EventID,
			"roadmap_id":  badge.RoadmapID,
			"module_id":   badge.ModuleID,
			"title":       badge.Title,
			"image":       badge.Image,
			"description": badge.Description,
			"earned_at":   badge.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{
		"badges": result,
	})
}
