package domain

import (
	"slices"
	"time"
)

// LevelAll selects lessons of every level.
const LevelAll = "all"

// Lesson is one unit of financial education content.
type Lesson struct {
	ID              string `json:"id" yaml:"id"`
	Title           string `json:"title" yaml:"title"`
	Category        string `json:"category" yaml:"category"`
	Level           string `json:"level" yaml:"level"`
	Content         string `json:"content" yaml:"content"`
	DurationMinutes int    `json:"duration_minutes" yaml:"duration_minutes"`
	Points          int    `json:"points" yaml:"points"`
}

// Progress is the user's aggregate learning record. The backend owns the
// arithmetic; the client reports it as received.
type Progress struct {
	ID               string    `json:"id" yaml:"id"`
	UserID           string    `json:"user_id" yaml:"-"`
	CompletedLessons []string  `json:"completed_lessons" yaml:"completed_lessons"`
	TotalPoints      int       `json:"total_points" yaml:"total_points"`
	Achievements     []string  `json:"achievements" yaml:"achievements"`
	CurrentStreak    int       `json:"current_streak" yaml:"current_streak"`
	UpdatedAt        time.Time `json:"updated_at" yaml:"updated_at"`
}

// HasCompleted reports whether the lesson id is in the completed set.
func (p Progress) HasCompleted(id string) bool {
	return slices.Contains(p.CompletedLessons, id)
}

// ValidateLessonLevel accepts "all" or a financial level.
func ValidateLessonLevel(v string) error {
	switch v {
	case LevelAll, LevelBeginner, LevelIntermediate, LevelAdvanced:
		return nil
	}
	return ErrInvalidLessonLevel.WithDetails(v)
}

// ValidateLessonID rejects blank ids.
func ValidateLessonID(id string) error {
	if id == "" {
		return ErrMissingArgument.WithDetails("lesson id")
	}
	return nil
}
