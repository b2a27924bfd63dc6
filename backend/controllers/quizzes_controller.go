package controllers

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"skillpath/backend/config"
	"skillpath/backend/models"
	"skillpath/backend/progress"
	"skillpath/backend/utils"
)

type QuizzesController struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Tracker *progress.Tracker
	Streaks *progress.StreakCalculator
}

func NewQuizzesController(db *gorm.DB, cfg *config.Config, tracker *progress.Tracker, streaks *progress.StreakCalculator) *QuizzesController {
	return &QuizzesController{DB: db, Cfg: cfg, Tracker: tracker, Streaks: streaks}
}

func (qc *QuizzesController) loadQuiz(c *fiber.Ctx) (*models.Quiz, error) {
	roadmapID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid roadmap ID")
	}
	moduleID, err := strconv.Atoi(c.Params("moduleId"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid module ID")
	}

	var quiz models.Quiz
	err = qc.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence_order ASC")
	}).Where("roadmap_id = ? AND module_id = ?", roadmapID, moduleID).
		First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Quiz not found")
	}
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Could not query database")
	}
	return &quiz, nil
}

// GetQuiz returns the quiz for a module without leaking correct answers.
func (qc *QuizzesController) GetQuiz(c *fiber.Ctx) error {
	if _, err := utils.ExtractUserIDFromToken(c, qc.Cfg); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	quiz, err := qc.loadQuiz(c)
	if err != nil {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	var questions []fiber.Map
	for _, q := range quiz.Questions {
		var options []string
		json.Unmarshal([]byte(q.Options), &options)

		questions = append(questions, fiber.Map{
			"id":       q.ID,
			"question": q.Question,
			"options":  options,
			"order":    q.SequenceOrder,
		})
	}

	return c.JSON(fiber.Map{
		"quiz": fiber.Map{
			"id":              quiz.ID,
			"title":           quiz.Title,
			"passing_score":   quiz.PassingScore,
			"total_questions": quiz.TotalQuestions,
			"badge_title":     quiz.BadgeTitle,
			"badge_image":     quiz.BadgeImage,
			"questions":       questions,
		},
	})
}

// SubmitAttempt grades a full set of answers. A passing score completes the
// module, registers the day's learning activity and awards the module badge
// once; a failing score leaves persisted progress untouched.
func (qc *QuizzesController) SubmitAttempt(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, qc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	quiz, err := qc.loadQuiz(c)
	if err != nil {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	type AnswerInput struct {
		QuestionID uint `json:"question_id"`
		Answer     int  `json:"answer"`
	}
	var input struct {
		Answers []AnswerInput `json:"answers"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	answered := make(map[uint]int, len(input.Answers))
	for _, a := range input.Answers {
		answered[a.QuestionID] = a.Answer
	}

	attempt := progress.NewAttempt(len(quiz.Questions), quiz.PassingScore)
	for _, q := range quiz.Questions {
		answer, ok := answered[q.ID]
		if ok {
			attempt.Select(answer)
		}
		attempt.Answer(ok && answer == q.CorrectAnswer)
	}

	response := fiber.Map{
		"state":         attempt.State(),
		"score":         attempt.Score(),
		"passing_score": quiz.PassingScore,
		"total":         len(quiz.Questions),
	}

	if attempt.State() != progress.StatePassed {
		return c.JSON(response)
	}

	snap, err := qc.Tracker.CompleteModule(userID, quiz.RoadmapID, quiz.ModuleID)
	if err != nil {
		return utils.EngineError(c, err)
	}
	response["progress"] = snap

	streak, err := qc.Streaks.RegisterActivity(userID)
	if err != nil {
		return utils.EngineError(c, err)
	}
	response["streak"] = streak

	// Append-only award, deduped on (user, roadmap, module).
	badge := models.Badge{
		EventID:     uuid.NewString(),
		UserID:      userID,
		RoadmapID:   quiz.RoadmapID,
		ModuleID:    quiz.ModuleID,
		Title:       quiz.BadgeTitle,
		Image:       quiz.BadgeImage,
		Description: quiz.BadgeDesc,
	}
	result := qc.DB.Where("user_id = ? AND roadmap_id = ? AND module_id = ?",
		userID, quiz.RoadmapID, quiz.ModuleID).FirstOrCreate(&badge)
	if result.Error == nil && result.RowsAffected > 0 {
		response["badge"] = fiber.Map{
			"title":       badge.Title,
			"image":       badge.Image,
			"description": badge.Description,
		}
	}

	return c.JSON(response)
}

// CreateQuiz attaches a quiz with its questions to a module.
func (qc *QuizzesController) CreateQuiz(c *fiber.Ctx) error {
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

	type QuestionInput struct {
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectAnswer int      `json:"correct_answer"`
	}
	var input struct {
		Title        string          `json:"title"`
		PassingScore int             `json:"passing_score"`
		BadgeTitle   string          `json:"badge_title"`
		BadgeImage   string          `json:"badge_image"`
		BadgeDesc    string          `json:"badge_desc"`
		Questions    []QuestionInput `json:"questions"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var module models.Module
	if err := qc.DB.Where("id = ? AND roadmap_id = ?", moduleID, roadmapID).First(&module).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Module not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if input.PassingScore < 0 || input.PassingScore > len(input.Questions) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid passing score",
		})
	}

	quiz := models.Quiz{
		RoadmapID:      uint(roadmapID),
		ModuleID:       uint(moduleID),
		Title:          input.Title,
		PassingScore:   input.PassingScore,
		TotalQuestions: len(input.Questions),
		BadgeTitle:     input.BadgeTitle,
		BadgeImage:     input.BadgeImage,
		BadgeDesc:      input.BadgeDesc,
	}

	for i, q := range input.Questions {
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid correct answer index",
			})
		}
		optionsJson, err := json.Marshal(q.Options)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not encode options",
			})
		}
		quiz.Questions = append(quiz.Questions, models.QuizQuestion{
			Question:      q.Question,
			Options:       string(optionsJson),
			CorrectAnswer: q.CorrectAnswer,
			SequenceOrder: i + 1,
		})
	}

	if err := qc.DB.Create(&quiz).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create quiz",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Quiz created",
		"quiz":    quiz,
	})
}
