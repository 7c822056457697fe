package model

import (
	"time"
)

// TestAttemptQuestion pins one question into one attempt. QuestionOrder is the
// randomized presentation order fixed at start time and never re-shuffled.
// Question deletion is restricted so sealed attempts cannot dangle.
type TestAttemptQuestion struct {
	ID                uint       `gorm:"primarykey" json:"id"`
	TestAttemptID     uint       `json:"test_attempt_id" gorm:"not null;index"`
	QuestionID        uint       `json:"question_id" gorm:"not null;index"`
	Question          Question   `json:"question,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:RESTRICT"`
	QuestionOrder     int        `json:"question_order" gorm:"not null"`
	SelectedAnswerID  *uint      `json:"selected_answer_id,omitempty"`
	IsCorrect         bool       `json:"is_correct" gorm:"not null;default:false"`
	IsSkipped         bool       `json:"is_skipped" gorm:"not null;default:false"`
	QuestionStartTime time.Time  `json:"question_start_time" gorm:"not null"`
	QuestionEndTime   *time.Time `json:"question_end_time,omitempty"`
	TimeSpentSeconds  int        `json:"time_spent_seconds" gorm:"not null;default:0"`
}
