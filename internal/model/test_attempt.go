package model

import (
	"time"
)

// TestAttempt is one user's pass through a randomized set of questions from a
// category. The partial unique index on UserID permits at most one row per
// user with is_completed = false, closing the race between concurrent starts.
type TestAttempt struct {
	ID               uint                  `gorm:"primarykey" json:"id"`
	CategoryID       uint                  `json:"category_id" gorm:"not null;index"`
	Category         Category              `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	UserID           string                `json:"user_id" gorm:"not null;size:200;index;index:idx_test_attempts_one_active_per_user,unique,where:is_completed = false"`
	UserEmail        string                `json:"user_email" gorm:"not null;size:200"`
	StartTime        time.Time             `json:"start_time" gorm:"not null;index"`
	EndTime          *time.Time            `json:"end_time,omitempty"`
	TotalQuestions   int                   `json:"total_questions" gorm:"not null"`
	CorrectAnswers   int                   `json:"correct_answers" gorm:"not null;default:0"`
	SkippedQuestions int                   `json:"skipped_questions" gorm:"not null;default:0"`
	PercentageScore  float64               `json:"percentage_score" gorm:"type:decimal(5,2);not null;default:0"`
	IsCompleted      bool                  `json:"is_completed" gorm:"not null;default:false"`
	WasAbandoned     bool                  `json:"was_abandoned" gorm:"not null;default:false"`
	Questions        []TestAttemptQuestion `json:"questions,omitempty" gorm:"foreignKey:TestAttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
