package model

import (
	"time"
)

// QuestionFlag is a user-submitted report that a question may be wrong or
// problematic, tracked until a reviewer resolves it.
type QuestionFlag struct {
	ID             uint       `gorm:"primarykey" json:"id"`
	QuestionID     uint       `json:"question_id" gorm:"not null;index"`
	Question       Question   `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	FlaggedBy      string     `json:"flagged_by" gorm:"not null;size:200"`
	FlaggedByEmail string     `json:"flagged_by_email" gorm:"not null;size:200"`
	FlaggedDate    time.Time  `json:"flagged_date" gorm:"not null;index"`
	Comments       *string    `json:"comments,omitempty" gorm:"type:text"`
	IsResolved     bool       `json:"is_resolved" gorm:"not null;default:false;index"`
	ResolvedBy     *string    `json:"resolved_by,omitempty" gorm:"size:200"`
	ResolvedDate   *time.Time `json:"resolved_date,omitempty"`
}
