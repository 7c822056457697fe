package model

import (
	"time"
)

// Category is a named grouping of questions. Questions and attempts restrict
// its deletion while they reference it.
type Category struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Name        string     `json:"name" gorm:"not null;size:200;index"`
	Description *string    `json:"description,omitempty" gorm:"size:1000"`
	CreatedBy   string     `json:"created_by" gorm:"not null;size:200"`
	ModifiedBy  *string    `json:"modified_by,omitempty" gorm:"size:200"`
	CreatedAt   time.Time  `json:"created_at"`
	ModifiedAt  *time.Time `json:"modified_at,omitempty"`
	Questions   []Question `json:"questions,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
}
