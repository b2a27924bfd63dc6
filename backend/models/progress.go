package models

// ProgressOverview summarizes a user's standing across all roadmaps.
type ProgressOverview struct {
	Streak            int     `json:"streak"`
	StreakFraction    float64 `json:"streak_fraction"`
	StreakMessage     string  `json:"streak_message"`
	RoadmapsEnrolled  int     `json:"roadmaps_enrolled"`
	RoadmapsCompleted int     `json:"roadmaps_completed"`
	BadgesEarned      int     `json:"badges_earned"`
}
