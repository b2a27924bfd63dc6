package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/redis/go-redis/v9"

	"skillpath/backend/ai"
	"skillpath/backend/config"
	"skillpath/backend/middleware"
	"skillpath/backend/progress"
	"skillpath/backend/routes"
	"skillpath/backend/scheduler"
	"skillpath/backend/utils"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger()

	// Redis backs the module-list cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	// Progress & streak engine
	broadcaster := progress.NewBroadcaster()
	enrollment := progress.NewCachedEnrollmentStore(
		progress.NewGormEnrollmentStore(db, logger), redisClient, logger)
	tracker := progress.NewTracker(enrollment, progress.NewGormProgressStore(db), broadcaster)
	streaks := progress.NewStreakCalculator(progress.NewGormStreakStore(db), broadcaster)

	// Reminder scheduler
	reminders := scheduler.New(db, &scheduler.LogNotifier{Logger: logger}, cfg.ReminderHour, logger)
	reminders.Start()
	defer reminders.Stop()

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, db, cfg, routes.Deps{
		Tracker:   tracker,
		Streaks:   streaks,
		Generator: ai.NewGenerator(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel),
		Moderator: ai.NewModerator(cfg.ModerationURL, cfg.AIAPIKey),
		Cache:     enrollment,
	})

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
