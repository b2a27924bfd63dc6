package progress

import (
	"fmt"
	"sync"
	"time"
)

// MilestoneDays is the single streak milestone: the progress fraction fills
// toward it and stays full beyond it.
const MilestoneDays = 10

// StreakResult is returned after registering learning activity.
type StreakResult struct {
	Streak           int     `json:"streak"`
	ProgressFraction float64 `json:"progress_fraction"`
	Message          string  `json:"message"`
}

// StreakCalculator owns streak-state mutation. Dates are compared as local
// calendar days; the clock is a field so tests can pin it.
type StreakCalculator struct {
	Store     StreakStore
	Broadcast *Broadcaster
	Now       func() time.Time

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewStreakCalculator(store StreakStore, broadcast *Broadcaster) *StreakCalculator {
	return &StreakCalculator{
		Store:     store,
		Broadcast: broadcast,
		Now:       time.Now,
		locks:     make(map[uint]*sync.Mutex),
	}
}

func (s *StreakCalculator) lock(userID uint) func() {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// RegisterActivity applies one day of learning activity: same-day calls are
// idempotent, a last-active date of yesterday continues the streak, anything
// older (or a brand-new user) resets it to 1.
func (s *StreakCalculator) RegisterActivity(userID uint) (StreakResult, error) {
	if userID == 0 {
		return StreakResult{}, ErrUnauthenticated
	}
	defer s.lock(userID)()

	streak, lastActive, ok, err := s.Store.Get(userID)
	if err != nil {
		return StreakResult{}, err
	}

	today := dateOnly(s.Now())
	yesterday := today.AddDate(0, 0, -1)

	// A stored streak of 0 means no day has been counted yet; treat it like
	// a first activity regardless of the stored date.
	newStreak := 1
	if ok && streak > 0 {
		switch lastDay := dateOnly(lastActive); {
		case lastDay.Equal(today):
			newStreak = streak
		case lastDay.Equal(yesterday):
			newStreak = streak + 1
		}
	}

	if err := s.Store.Put(userID, newStreak, today); err != nil {
		return StreakResult{}, err
	}

	result := BuildStreakResult(newStreak)
	if s.Broadcast != nil {
		s.Broadcast.Publish(userID, Event{Streak: &result})
	}
	return result, nil
}

// Current returns the stored streak without registering activity.
func (s *StreakCalculator) Current(userID uint) (StreakResult, error) {
	if userID == 0 {
		return StreakResult{}, ErrUnauthenticated
	}
	streak, _, ok, err := s.Store.Get(userID)
	if err != nil {
		return StreakResult{}, err
	}
	if !ok {
		streak = 0
	}
	return BuildStreakResult(streak), nil
}

// BuildStreakResult derives the milestone fraction and user-facing message
// for a streak value.
func BuildStreakResult(streak int) StreakResult {
	fraction := float64(streak) / float64(MilestoneDays)
	if fraction > 1.0 {
		fraction = 1.0
	}

	var message string
	if streak >= MilestoneDays {
		message = fmt.Sprintf("%d days in a row. Keep it burning!", streak)
	} else {
		message = fmt.Sprintf("%d more days to your %d-day streak badge", MilestoneDays-streak, MilestoneDays)
	}

	return StreakResult{
		Streak:           streak,
		ProgressFraction: fraction,
		Message:          message,
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
