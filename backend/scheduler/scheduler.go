package scheduler

import (
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"gorm.io/gorm"

	"skillpath/backend/models"
)

// Notifier delivers a reminder to a user. Delivery mechanics (push, email)
// live behind this interface.
type Notifier interface {
	SendReminder(userID uint, streak int) error
}

// LogNotifier writes reminders to the application log.
type LogNotifier struct {
	Logger *log.Logger
}

func (n *LogNotifier) SendReminder(userID uint, streak int) error {
	n.Logger.Printf("reminder: user %d has a %d-day streak at risk", userID, streak)
	return nil
}

// Scheduler runs the daily reminder sweep: users who were active before
// today and still hold a streak get nudged before it resets.
type Scheduler struct {
	scheduler *gocron.Scheduler
	db        *gorm.DB
	notifier  Notifier
	hour      int
	logger    *log.Logger
}

func New(db *gorm.DB, notifier Notifier, hour int, logger *log.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		db:        db,
		notifier:  notifier,
		hour:      hour,
		logger:    logger,
	}
}

// Start schedules the sweep and runs it asynchronously.
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Day().At(fmt.Sprintf("%02d:00", s.hour)).Do(s.sendReminders)
	s.scheduler.StartAsync()
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) sendReminders() {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var streaks []models.UserStreak
	err := s.db.Where("last_active_date < ? AND streak > 0", today).Find(&streaks).Error
	if err != nil {
		s.logger.Printf("reminder sweep query: %v", err)
		return
	}

	for _, st := range streaks {
		if err := s.notifier.SendReminder(st.UserID, st.Streak); err != nil {
			s.logger.Printf("reminder for user %d: %v", st.UserID, err)
		}
	}
}
