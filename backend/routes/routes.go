package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"skillpath/backend/config"
	"skillpath/backend/controllers"
	"skillpath/backend/middleware"
	"skillpath/backend/progress"
)

// Deps carries the wired engine pieces the controllers need.
type Deps struct {
	Tracker   *progress.Tracker
	Streaks   *progress.StreakCalculator
	Generator controllers.RoadmapGenerator
	Moderator controllers.ContentModerator
	Cache     controllers.ModuleListInvalidator
}

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, deps Deps) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg, deps.Streaks)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(db, cfg)

	// User routes
	userController := controllers.NewUserController(db, cfg, deps.Streaks)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)

	// Progress routes
	progressController := controllers.NewProgressController(db, cfg, deps.Tracker, deps.Streaks)
	app.Get("/api/progress", authMiddleware, progressController.GetProgress)
	app.Get("/api/progress/streak", authMiddleware, progressController.GetStreak)
	app.Post("/api/progress/activity", authMiddleware, progressController.RegisterActivity)
	app.Get("/api/progress/overview", authMiddleware, progressController.GetOverview)
	app.Get("/api/badges", authMiddleware, progressController.GetBadges)

	// Roadmap routes
	roadmapsController := controllers.NewRoadmapsController(db, cfg, deps.Tracker, deps.Streaks)
	roadmapsController.Generator = deps.Generator
	roadmapsController.Moderator = deps.Moderator
	roadmapsController.Cache = deps.Cache

	roadmaps := app.Group("/api/roadmaps", authMiddleware)
	roadmaps.Get("/", roadmapsController.GetRoadmaps)
	roadmaps.Post("/generate", roadmapsController.GenerateRoadmap)
	roadmaps.Get("/:id", roadmapsController.GetRoadmapDetails)
	roadmaps.Post("/:id/enroll", roadmapsController.Enroll)
	roadmaps.Post("/:id/modules/:moduleId/complete", roadmapsController.CompleteModule)

	// Quiz routes
	quizzesController := controllers.NewQuizzesController(db, cfg, deps.Tracker, deps.Streaks)
	roadmaps.Get("/:id/modules/:moduleId/quiz", quizzesController.GetQuiz)
	roadmaps.Post("/:id/modules/:moduleId/quiz/attempt", quizzesController.SubmitAttempt)

	// Admin authoring routes
	admin := app.Group("/api/admin/roadmaps", authMiddleware, adminMiddleware)
	admin.Post("/", roadmapsController.CreateRoadmap)
	admin.Post("/:id/modules", roadmapsController.AddModule)
	admin.Post("/:id/modules/:moduleId/quiz", quizzesController.CreateQuiz)
}
