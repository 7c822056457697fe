package dto

import "encoding/json"

type CategoryCreateRequest struct {
	Name        string  `json:"name" binding:"required,max=200"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	CreatedBy   string  `json:"created_by" binding:"required,max=200"`
}

type CategoryUpdateRequest struct {
	Name        string  `json:"name" binding:"required,max=200"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	ModifiedBy  string  `json:"modified_by" binding:"required,max=200"`
}

type AnswerCreateRequest struct {
	AnswerText  string  `json:"answer_text" binding:"required"`
	IsCorrect   bool    `json:"is_correct"`
	Explanation *string `json:"explanation"`
}

type QuestionCreateRequest struct {
	CategoryID   uint                  `json:"category_id" binding:"required"`
	QuestionText string                `json:"question_text" binding:"required"`
	ImageBase64  *string               `json:"image_base64"`
	ImageURL     *string               `json:"image_url"`
	Explanation  *string               `json:"explanation"`
	CreatedBy    string                `json:"created_by" binding:"required,max=200"`
	Answers      []AnswerCreateRequest `json:"answers" binding:"required,min=2,dive"`
}

// QuestionUpdateRequest replaces the question's scalar fields and its entire
// answer set. Answer identities are not preserved across an edit.
type QuestionUpdateRequest struct {
	QuestionText string                `json:"question_text" binding:"required"`
	ImageBase64  *string               `json:"image_base64"`
	ImageURL     *string               `json:"image_url"`
	Explanation  *string               `json:"explanation"`
	ModifiedBy   string                `json:"modified_by" binding:"required,max=200"`
	Answers      []AnswerCreateRequest `json:"answers" binding:"required,min=2,dive"`
}

// ImportQuestionsRequest wraps the raw import document so the service layer
// owns its parsing and validation.
type ImportQuestionsRequest struct {
	ImportedBy      string          `json:"imported_by" binding:"required,max=200"`
	ImportedByEmail string          `json:"imported_by_email" binding:"required,email"`
	Document        json.RawMessage `json:"document" binding:"required"`
}

type ResolveFlagRequest struct {
	ResolvedBy string `json:"resolved_by" binding:"required,max=200"`
}
