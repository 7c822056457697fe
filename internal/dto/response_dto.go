package dto

import "time"

type CategoryResponse struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	CreatedBy   string     `json:"created_by"`
	ModifiedBy  *string    `json:"modified_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ModifiedAt  *time.Time `json:"modified_at,omitempty"`
}

// CategoryDetailResponse includes the category's questions.
type CategoryDetailResponse struct {
	CategoryResponse
	Questions []QuestionResponse `json:"questions"`
}

type AnswerResponse struct {
	ID           uint    `json:"id"`
	QuestionID   uint    `json:"question_id"`
	AnswerText   string  `json:"answer_text"`
	IsCorrect    bool    `json:"is_correct"`
	Explanation  *string `json:"explanation,omitempty"`
	DisplayOrder int     `json:"display_order"`
}

type QuestionResponse struct {
	ID           uint              `json:"id"`
	CategoryID   uint              `json:"category_id"`
	Category     *CategoryResponse `json:"category,omitempty"`
	QuestionText string            `json:"question_text"`
	ImageBase64  *string           `json:"image_base64,omitempty"`
	ImageURL     *string           `json:"image_url,omitempty"`
	Explanation  *string           `json:"explanation,omitempty"`
	IsActive     bool              `json:"is_active"`
	CreatedBy    string            `json:"created_by"`
	ModifiedBy   *string           `json:"modified_by,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	ModifiedAt   *time.Time        `json:"modified_at,omitempty"`
	Answers      []AnswerResponse  `json:"answers"`
	Flags        []FlagResponse    `json:"flags,omitempty"`
}

type FlagResponse struct {
	ID             uint              `json:"id"`
	QuestionID     uint              `json:"question_id"`
	Question       *QuestionResponse `json:"question,omitempty"`
	FlaggedBy      string            `json:"flagged_by"`
	FlaggedByEmail string            `json:"flagged_by_email"`
	FlaggedDate    time.Time         `json:"flagged_date"`
	Comments       *string           `json:"comments,omitempty"`
	IsResolved     bool              `json:"is_resolved"`
	ResolvedBy     *string           `json:"resolved_by,omitempty"`
	ResolvedDate   *time.Time        `json:"resolved_date,omitempty"`
}

type AttemptQuestionResponse struct {
	ID                uint             `json:"id"`
	TestAttemptID     uint             `json:"test_attempt_id"`
	QuestionID        uint             `json:"question_id"`
	Question          QuestionResponse `json:"question"`
	QuestionOrder     int              `json:"question_order"`
	SelectedAnswerID  *uint            `json:"selected_answer_id,omitempty"`
	IsCorrect         bool             `json:"is_correct"`
	IsSkipped         bool             `json:"is_skipped"`
	QuestionStartTime time.Time        `json:"question_start_time"`
	QuestionEndTime   *time.Time       `json:"question_end_time,omitempty"`
	TimeSpentSeconds  int              `json:"time_spent_seconds"`
}

// AttemptDetailResponse is the fully hydrated attempt: category, questions in
// their fixed order, each question's answers in display order.
type AttemptDetailResponse struct {
	ID               uint                      `json:"id"`
	CategoryID       uint                      `json:"category_id"`
	Category         CategoryResponse          `json:"category"`
	UserID           string                    `json:"user_id"`
	UserEmail        string                    `json:"user_email"`
	StartTime        time.Time                 `json:"start_time"`
	EndTime          *time.Time                `json:"end_time,omitempty"`
	TotalQuestions   int                       `json:"total_questions"`
	CorrectAnswers   int                       `json:"correct_answers"`
	SkippedQuestions int                       `json:"skipped_questions"`
	PercentageScore  float64                   `json:"percentage_score"`
	IsCompleted      bool                      `json:"is_completed"`
	WasAbandoned     bool                      `json:"was_abandoned"`
	Questions        []AttemptQuestionResponse `json:"questions"`
}

type AttemptSummaryResponse struct {
	ID               uint             `json:"id"`
	CategoryID       uint             `json:"category_id"`
	Category         CategoryResponse `json:"category"`
	UserID           string           `json:"user_id"`
	StartTime        time.Time        `json:"start_time"`
	EndTime          *time.Time       `json:"end_time,omitempty"`
	TotalQuestions   int              `json:"total_questions"`
	CorrectAnswers   int              `json:"correct_answers"`
	SkippedQuestions int              `json:"skipped_questions"`
	PercentageScore  float64          `json:"percentage_score"`
	WasAbandoned     bool             `json:"was_abandoned"`
}

type PagedAttemptsResponse struct {
	Items      []AttemptSummaryResponse `json:"items"`
	TotalCount int64                    `json:"total_count"`
	Page       int                      `json:"page"`
	PageSize   int                      `json:"page_size"`
}

type CheckAnswerResponse struct {
	IsCorrect bool `json:"is_correct"`
}

type QuestionCountResponse struct {
	CategoryID      uint  `json:"category_id"`
	ActiveQuestions int64 `json:"active_questions"`
}

type ExplanationDraftResponse struct {
	QuestionID  uint   `json:"question_id"`
	Explanation string `json:"explanation"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
