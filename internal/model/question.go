package model

import (
	"time"
)

// Question belongs to exactly one category. Questions are never hard-deleted;
// IsActive=false deactivates them so historical attempts keep their rows.
type Question struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	CategoryID   uint           `json:"category_id" gorm:"not null;index"`
	Category     Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	QuestionText string         `json:"question_text" gorm:"type:text;not null"`
	ImageBase64  *string        `json:"image_base64,omitempty" gorm:"type:text"`
	ImageURL     *string        `json:"image_url,omitempty"`
	Explanation  *string        `json:"explanation,omitempty" gorm:"type:text"`
	IsActive     bool           `json:"is_active" gorm:"not null;default:true;index"`
	CreatedBy    string         `json:"created_by" gorm:"not null;size:200"`
	ModifiedBy   *string        `json:"modified_by,omitempty" gorm:"size:200"`
	CreatedAt    time.Time      `json:"created_at" gorm:"index"`
	ModifiedAt   *time.Time     `json:"modified_at,omitempty"`
	Answers      []Answer       `json:"answers,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	Flags        []QuestionFlag `json:"flags,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}
