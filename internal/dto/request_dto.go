package dto

// StartTestRequest begins a new attempt. QuestionCount nil means every active
// question in the category.
type StartTestRequest struct {
	CategoryID    uint   `json:"category_id" binding:"required"`
	UserID        string `json:"user_id" binding:"required"`
	UserEmail     string `json:"user_email" binding:"required,email"`
	QuestionCount *int   `json:"question_count" binding:"omitempty,gt=0"`
}

// SubmitAnswerRequest records (or clears, when AnswerID is null) the selection
// for one question of an attempt. Resubmission overwrites the prior selection.
type SubmitAnswerRequest struct {
	QuestionID       uint  `json:"question_id" binding:"required"`
	AnswerID         *uint `json:"answer_id"`
	TimeSpentSeconds int   `json:"time_spent_seconds" binding:"gte=0"`
}

// FlagQuestionRequest reports a question as problematic.
type FlagQuestionRequest struct {
	UserID    string  `json:"user_id" binding:"required"`
	UserEmail string  `json:"user_email" binding:"required,email"`
	Comments  *string `json:"comments"`
}
