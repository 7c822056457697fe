package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Bettongs/internal/apperror"
	"github.com/lshigami/Bettongs/internal/dto"
	"github.com/lshigami/Bettongs/internal/model"
	"github.com/lshigami/Bettongs/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// TestService drives the attempt lifecycle: Active → Completed, Active →
// Abandoned-with-history, or Active → silently discarded. Completed and
// Abandoned are terminal.
type TestService interface {
	StartTest(req dto.StartTestRequest) (*dto.AttemptDetailResponse, error)
	GetActiveTest(userID string) (*dto.AttemptDetailResponse, error)
	GetAttemptDetails(attemptID uint) (*dto.AttemptDetailResponse, error)
	SubmitAnswer(attemptID uint, req dto.SubmitAnswerRequest) error
	CheckAnswer(questionID, answerID uint) (bool, error)
	CompleteTest(attemptID uint) (*dto.AttemptDetailResponse, error)
	AbandonTest(attemptID uint) (*dto.AttemptDetailResponse, error)
	GetTestHistory(userID string, categoryID *uint) ([]dto.AttemptSummaryResponse, error)
	GetRecentAttempts(limit int) ([]dto.AttemptSummaryResponse, error)
	GetLastAttemptForCategory(userID string, categoryID uint) (*dto.AttemptSummaryResponse, error)
	GetAllHistoryPaged(categoryID int, page, pageSize int) (*dto.PagedAttemptsResponse, error)
}

type testService struct {
	attemptRepo  repository.AttemptRepository
	questionRepo repository.QuestionRepository
	questionSvc  QuestionService
}

func NewTestService(
	attemptRepo repository.AttemptRepository,
	questionRepo repository.QuestionRepository,
	questionSvc QuestionService,
) TestService {
	return &testService{
		attemptRepo:  attemptRepo,
		questionRepo: questionRepo,
		questionSvc:  questionSvc,
	}
}

// StartTest draws a random sample of active questions and creates the attempt
// together with one row per sampled question, QuestionOrder fixed to the
// sample position. The pre-check gives a friendly conflict message; the
// partial unique index on active attempts closes the race two concurrent
// starts would otherwise win together.
func (s *testService) StartTest(req dto.StartTestRequest) (*dto.AttemptDetailResponse, error) {
	active, err := s.attemptRepo.FindActiveByUser(req.UserID)
	if err != nil {
		log.Error().Err(err).Str("userID", req.UserID).Msg("Failed to check for active attempt")
		return nil, fmt.Errorf("error checking active attempt: %w", err)
	}
	if active != nil {
		return nil, fmt.Errorf("user already has an active test, complete or abandon it first: %w", apperror.ErrConflict)
	}

	questions, err := s.questionSvc.GetRandomQuestions(req.CategoryID, req.QuestionCount)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("no questions available for this category: %w", apperror.ErrValidation)
	}

	now := time.Now().UTC()
	attempt := model.TestAttempt{
		CategoryID:     req.CategoryID,
		UserID:         req.UserID,
		UserEmail:      req.UserEmail,
		StartTime:      now,
		TotalQuestions: len(questions),
		IsCompleted:    false,
	}
	for i, q := range questions {
		attempt.Questions = append(attempt.Questions, model.TestAttemptQuestion{
			QuestionID:        q.ID,
			QuestionOrder:     i,
			QuestionStartTime: now,
		})
	}

	if err := s.attemptRepo.Create(&attempt); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("user already has an active test: %w", apperror.ErrConflict)
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, fmt.Errorf("category %d: %w", req.CategoryID, apperror.ErrNotFound)
		}
		log.Error().Err(err).Str("userID", req.UserID).Msg("Failed to create test attempt")
		return nil, fmt.Errorf("error starting test: %w", err)
	}

	log.Info().Uint("attemptID", attempt.ID).Str("userID", req.UserID).Int("questions", len(questions)).Msg("Test started")
	return s.hydrate(attempt.ID)
}

// GetActiveTest returns (nil, nil) when the user has no active attempt.
func (s *testService) GetActiveTest(userID string) (*dto.AttemptDetailResponse, error) {
	attempt, err := s.attemptRepo.FindActiveByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching active attempt: %w", err)
	}
	if attempt == nil {
		return nil, nil
	}

	var resp dto.AttemptDetailResponse
	if err := copier.Copy(&resp, attempt); err != nil {
		return nil, fmt.Errorf("error preparing attempt response: %w", err)
	}
	return &resp, nil
}

func (s *testService) GetAttemptDetails(attemptID uint) (*dto.AttemptDetailResponse, error) {
	return s.hydrate(attemptID)
}

// SubmitAnswer records the selection for one attempt question, or clears it
// when AnswerID is nil. Correctness is resolved against the question's current
// answers; an absent selection is recorded incorrect. Resubmission overwrites.
func (s *testService) SubmitAnswer(attemptID uint, req dto.SubmitAnswerRequest) error {
	attemptQuestion, err := s.attemptRepo.FindAttemptQuestion(attemptID, req.QuestionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("question %d is not part of attempt %d: %w", req.QuestionID, attemptID, apperror.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("error fetching attempt question: %w", err)
	}

	now := time.Now().UTC()
	attemptQuestion.SelectedAnswerID = req.AnswerID
	attemptQuestion.QuestionEndTime = &now
	attemptQuestion.TimeSpentSeconds = req.TimeSpentSeconds

	attemptQuestion.IsCorrect = false
	if req.AnswerID != nil {
		for _, a := range attemptQuestion.Question.Answers {
			if a.ID == *req.AnswerID {
				attemptQuestion.IsCorrect = a.IsCorrect
				break
			}
		}
	}

	if err := s.attemptRepo.SaveAttemptQuestion(attemptQuestion); err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Uint("questionID", req.QuestionID).Msg("Failed to save answer")
		return fmt.Errorf("error saving answer: %w", err)
	}
	return nil
}

// CheckAnswer is a side-effect-free correctness lookup. A pairing that does
// not exist yields false, not an error.
func (s *testService) CheckAnswer(questionID, answerID uint) (bool, error) {
	answer, err := s.questionRepo.FindAnswer(questionID, answerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error checking answer: %w", err)
	}
	return answer.IsCorrect, nil
}

func (s *testService) CompleteTest(attemptID uint) (*dto.AttemptDetailResponse, error) {
	attempt, err := s.loadOpenAttempt(attemptID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for i := range attempt.Questions {
		if attempt.Questions[i].SelectedAnswerID == nil {
			attempt.Questions[i].IsSkipped = true
		}
	}
	s.score(attempt, now)
	attempt.IsCompleted = true

	if err := s.attemptRepo.Seal(attempt); err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("Failed to complete attempt")
		return nil, fmt.Errorf("error completing test: %w", err)
	}

	log.Info().Uint("attemptID", attemptID).Int("correct", attempt.CorrectAnswers).Float64("score", attempt.PercentageScore).Msg("Test completed")
	return s.hydrate(attemptID)
}

// AbandonTest discards the attempt entirely when nothing was answered,
// returning (nil, nil). Otherwise it seals the attempt like CompleteTest,
// additionally marking unanswered questions incorrect and WasAbandoned.
func (s *testService) AbandonTest(attemptID uint) (*dto.AttemptDetailResponse, error) {
	attempt, err := s.loadOpenAttempt(attemptID)
	if err != nil {
		return nil, err
	}

	hasAnswered := false
	for i := range attempt.Questions {
		if attempt.Questions[i].SelectedAnswerID != nil {
			hasAnswered = true
			break
		}
	}

	if !hasAnswered {
		if err := s.attemptRepo.Delete(attempt); err != nil {
			log.Error().Err(err).Uint("attemptID", attemptID).Msg("Failed to discard attempt")
			return nil, fmt.Errorf("error abandoning test: %w", err)
		}
		log.Info().Uint("attemptID", attemptID).Msg("Attempt discarded with no answers")
		return nil, nil
	}

	now := time.Now().UTC()
	for i := range attempt.Questions {
		q := &attempt.Questions[i]
		if q.SelectedAnswerID == nil {
			q.IsSkipped = true
			q.IsCorrect = false
			q.QuestionEndTime = &now
		}
	}
	s.score(attempt, now)
	attempt.IsCompleted = true
	attempt.WasAbandoned = true

	if err := s.attemptRepo.Seal(attempt); err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("Failed to abandon attempt")
		return nil, fmt.Errorf("error abandoning test: %w", err)
	}

	log.Info().Uint("attemptID", attemptID).Msg("Test abandoned with partial progress")
	return s.hydrate(attemptID)
}

func (s *testService) GetTestHistory(userID string, categoryID *uint) ([]dto.AttemptSummaryResponse, error) {
	attempts, err := s.attemptRepo.FindCompletedByUser(userID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("error fetching history: %w", err)
	}
	return toSummaries(attempts)
}

func (s *testService) GetRecentAttempts(limit int) ([]dto.AttemptSummaryResponse, error) {
	if limit <= 0 {
		limit = 10
	}
	attempts, err := s.attemptRepo.FindRecentCompleted(limit)
	if err != nil {
		return nil, fmt.Errorf("error fetching recent attempts: %w", err)
	}
	return toSummaries(attempts)
}

// GetLastAttemptForCategory returns (nil, nil) when the pairing has no
// completed attempt yet.
func (s *testService) GetLastAttemptForCategory(userID string, categoryID uint) (*dto.AttemptSummaryResponse, error) {
	attempt, err := s.attemptRepo.FindLastCompletedForCategory(userID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("error fetching last attempt: %w", err)
	}
	if attempt == nil {
		return nil, nil
	}

	var resp dto.AttemptSummaryResponse
	if err := copier.Copy(&resp, attempt); err != nil {
		return nil, fmt.Errorf("error preparing attempt summary: %w", err)
	}
	return &resp, nil
}

// GetAllHistoryPaged treats a non-positive category id as "no filter".
func (s *testService) GetAllHistoryPaged(categoryID int, page, pageSize int) (*dto.PagedAttemptsResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	var filter *uint
	if categoryID > 0 {
		v := uint(categoryID)
		filter = &v
	}

	attempts, total, err := s.attemptRepo.FindCompletedPaged(filter, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("error fetching paged history: %w", err)
	}

	items, err := toSummaries(attempts)
	if err != nil {
		return nil, err
	}
	return &dto.PagedAttemptsResponse{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// loadOpenAttempt fetches the attempt with its question rows and rejects
// missing or already-sealed attempts.
func (s *testService) loadOpenAttempt(attemptID uint) (*model.TestAttempt, error) {
	attempt, err := s.attemptRepo.FindByID(attemptID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("test attempt %d: %w", attemptID, apperror.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching attempt: %w", err)
	}
	if attempt.IsCompleted {
		return nil, fmt.Errorf("test attempt %d has already been completed: %w", attemptID, apperror.ErrConflict)
	}
	return attempt, nil
}

// score fills the derived counters from the attempt's question rows.
func (s *testService) score(attempt *model.TestAttempt, endTime time.Time) {
	correct, skipped := 0, 0
	for i := range attempt.Questions {
		if attempt.Questions[i].IsCorrect {
			correct++
		}
		if attempt.Questions[i].IsSkipped {
			skipped++
		}
	}
	attempt.CorrectAnswers = correct
	attempt.SkippedQuestions = skipped
	if attempt.TotalQuestions > 0 {
		attempt.PercentageScore = roundToTwo(float64(correct) / float64(attempt.TotalQuestions) * 100)
	} else {
		attempt.PercentageScore = 0
	}
	attempt.EndTime = &endTime
}

func (s *testService) hydrate(attemptID uint) (*dto.AttemptDetailResponse, error) {
	attempt, err := s.attemptRepo.FindByIDWithDetails(attemptID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("test attempt %d: %w", attemptID, apperror.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching attempt details: %w", err)
	}

	var resp dto.AttemptDetailResponse
	if err := copier.Copy(&resp, attempt); err != nil {
		return nil, fmt.Errorf("error preparing attempt response: %w", err)
	}
	return &resp, nil
}

func toSummaries(attempts []model.TestAttempt) ([]dto.AttemptSummaryResponse, error) {
	resp := make([]dto.AttemptSummaryResponse, 0, len(attempts))
	for _, a := range attempts {
		var item dto.AttemptSummaryResponse
		if err := copier.Copy(&item, &a); err != nil {
			return nil, fmt.Errorf("error preparing attempt summary: %w", err)
		}
		resp = append(resp, item)
	}
	return resp, nil
}

// roundToTwo rounds half to even, so midpoints like 0.125 become 0.12.
func roundToTwo(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
