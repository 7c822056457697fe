package model

// Answer is one option of a question. DisplayOrder is the stable presentation
// order assigned 0..N-1 at creation or import.
type Answer struct {
	ID           uint    `gorm:"primarykey" json:"id"`
	QuestionID   uint    `json:"question_id" gorm:"not null;index"`
	AnswerText   string  `json:"answer_text" gorm:"type:text;not null"`
	IsCorrect    bool    `json:"is_correct" gorm:"not null"`
	Explanation  *string `json:"explanation,omitempty" gorm:"type:text"`
	DisplayOrder int     `json:"display_order" gorm:"not null"`
}
