package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Bettongs/internal/apperror"
	"github.com/lshigami/Bettongs/internal/dto"
	"github.com/lshigami/Bettongs/internal/model"
	"github.com/lshigami/Bettongs/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type QuestionService interface {
	GetQuestionsByCategory(categoryID uint) ([]dto.QuestionResponse, error)
	GetQuestion(id uint) (*dto.QuestionResponse, error)
	CreateQuestion(req dto.QuestionCreateRequest) (*dto.QuestionResponse, error)
	UpdateQuestion(id uint, req dto.QuestionUpdateRequest) (*dto.QuestionResponse, error)
	DeleteQuestion(id uint) error
	ImportQuestions(categoryID uint, req dto.ImportQuestionsRequest) ([]dto.QuestionResponse, error)
	GetRandomQuestions(categoryID uint, count *int) ([]model.Question, error)
	FlagQuestion(questionID uint, req dto.FlagQuestionRequest) error
	GetFlaggedQuestions(includeResolved bool) ([]dto.FlagResponse, error)
	ResolveFlag(flagID uint, resolvedBy string) error
}

type questionService struct {
	questionRepo repository.QuestionRepository
	flagRepo     repository.FlagRepository
}

func NewQuestionService(questionRepo repository.QuestionRepository, flagRepo repository.FlagRepository) QuestionService {
	return &questionService{questionRepo: questionRepo, flagRepo: flagRepo}
}

func (s *questionService) GetQuestionsByCategory(categoryID uint) ([]dto.QuestionResponse, error) {
	questions, err := s.questionRepo.FindByCategory(categoryID)
	if err != nil {
		log.Error().Err(err).Uint("categoryID", categoryID).Msg("Failed to list questions for category")
		return nil, fmt.Errorf("error fetching questions: %w", err)
	}

	resp := make([]dto.QuestionResponse, 0, len(questions))
	for _, q := range questions {
		var item dto.QuestionResponse
		if err := copier.Copy(&item, &q); err != nil {
			return nil, fmt.Errorf("error preparing question response: %w", err)
		}
		resp = append(resp, item)
	}
	return resp, nil
}

func (s *questionService) GetQuestion(id uint) (*dto.QuestionResponse, error) {
	question, err := s.questionRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("question %d: %w", id, apperror.ErrNotFound)
	}
	if err != nil {
		log.Error().Err(err).Uint("questionID", id).Msg("Failed to get question")
		return nil, fmt.Errorf("error fetching question: %w", err)
	}

	var resp dto.QuestionResponse
	if err := copier.Copy(&resp, question); err != nil {
		return nil, fmt.Errorf("error preparing question response: %w", err)
	}
	return &resp, nil
}

func (s *questionService) CreateQuestion(req dto.QuestionCreateRequest) (*dto.QuestionResponse, error) {
	if !hasCorrectAnswer(req.Answers) {
		return nil, fmt.Errorf("question must have at least one correct answer: %w", apperror.ErrValidation)
	}

	question := model.Question{
		CategoryID:   req.CategoryID,
		QuestionText: req.QuestionText,
		ImageBase64:  req.ImageBase64,
		ImageURL:     req.ImageURL,
		Explanation:  req.Explanation,
		IsActive:     true,
		CreatedBy:    req.CreatedBy,
	}
	for i, a := range req.Answers {
		question.Answers = append(question.Answers, model.Answer{
			AnswerText:   a.AnswerText,
			IsCorrect:    a.IsCorrect,
			Explanation:  a.Explanation,
			DisplayOrder: i,
		})
	}

	if err := s.questionRepo.Create(&question); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, fmt.Errorf("category %d: %w", req.CategoryID, apperror.ErrNotFound)
		}
		log.Error().Err(err).Msg("Failed to create question")
		return nil, fmt.Errorf("error creating question: %w", err)
	}

	created, err := s.questionRepo.FindByID(question.ID)
	if err != nil {
		log.Error().Err(err).Uint("questionID", question.ID).Msg("Failed to reload question after create")
		var fallback dto.QuestionResponse
		if err := copier.Copy(&fallback, &question); err != nil {
			return nil, fmt.Errorf("error preparing question response: %w", err)
		}
		return &fallback, nil
	}

	var resp dto.QuestionResponse
	if err := copier.Copy(&resp, created); err != nil {
		return nil, fmt.Errorf("error preparing question response: %w", err)
	}
	return &resp, nil
}

// UpdateQuestion is a silent no-op when the question no longer exists. The
// answer set is fully replaced: every prior answer row is deleted and the new
// set inserted with display order 0..N-1, so old answer ids do not survive.
func (s *questionService) UpdateQuestion(id uint, req dto.QuestionUpdateRequest) (*dto.QuestionResponse, error) {
	if !hasCorrectAnswer(req.Answers) {
		return nil, fmt.Errorf("question must have at least one correct answer: %w", apperror.ErrValidation)
	}

	question, err := s.questionRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching question: %w", err)
	}

	now := time.Now().UTC()
	question.QuestionText = req.QuestionText
	question.ImageBase64 = req.ImageBase64
	question.ImageURL = req.ImageURL
	question.Explanation = req.Explanation
	question.ModifiedBy = &req.ModifiedBy
	question.ModifiedAt = &now

	answers := make([]model.Answer, 0, len(req.Answers))
	for i, a := range req.Answers {
		answers = append(answers, model.Answer{
			AnswerText:   a.AnswerText,
			IsCorrect:    a.IsCorrect,
			Explanation:  a.Explanation,
			DisplayOrder: i,
		})
	}

	if err := s.questionRepo.ReplaceAnswersAndSave(question, answers); err != nil {
		log.Error().Err(err).Uint("questionID", id).Msg("Failed to update question")
		return nil, fmt.Errorf("error updating question: %w", err)
	}

	updated, err := s.questionRepo.FindByID(id)
	if err != nil {
		var fallback dto.QuestionResponse
		if err := copier.Copy(&fallback, question); err != nil {
			return nil, fmt.Errorf("error preparing question response: %w", err)
		}
		return &fallback, nil
	}

	var resp dto.QuestionResponse
	if err := copier.Copy(&resp, updated); err != nil {
		return nil, fmt.Errorf("error preparing question response: %w", err)
	}
	return &resp, nil
}

// DeleteQuestion deactivates the question instead of removing the row, so
// historical attempts keep referencing it. Missing ids are a silent no-op.
func (s *questionService) DeleteQuestion(id uint) error {
	question, err := s.questionRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error fetching question: %w", err)
	}

	now := time.Now().UTC()
	question.IsActive = false
	question.ModifiedAt = &now

	if err := s.questionRepo.Save(question); err != nil {
		log.Error().Err(err).Uint("questionID", id).Msg("Failed to deactivate question")
		return fmt.Errorf("error deleting question: %w", err)
	}
	return nil
}

// ImportQuestions parses the import document and persists every question in a
// single batch. Any invalid question rejects the whole document; partial
// imports never happen.
func (s *questionService) ImportQuestions(categoryID uint, req dto.ImportQuestionsRequest) ([]dto.QuestionResponse, error) {
	var doc dto.QuestionImportDocument
	if err := json.Unmarshal(req.Document, &doc); err != nil {
		return nil, fmt.Errorf("invalid import document: %w", apperror.ErrValidation)
	}
	if len(doc.Questions) == 0 {
		return nil, fmt.Errorf("import document contains no questions: %w", apperror.ErrValidation)
	}

	questions := make([]model.Question, 0, len(doc.Questions))
	for _, qImp := range doc.Questions {
		if len(qImp.Answers) < 2 {
			return nil, fmt.Errorf("question %q must have at least 2 answers: %w", qImp.QuestionText, apperror.ErrValidation)
		}
		anyCorrect := false
		for _, a := range qImp.Answers {
			if a.IsCorrect {
				anyCorrect = true
				break
			}
		}
		if !anyCorrect {
			return nil, fmt.Errorf("question %q must have at least one correct answer: %w", qImp.QuestionText, apperror.ErrValidation)
		}

		question := model.Question{
			CategoryID:   categoryID,
			QuestionText: qImp.QuestionText,
			ImageBase64:  qImp.ImageBase64,
			ImageURL:     qImp.ImageURL,
			Explanation:  qImp.Explanation,
			IsActive:     true,
			CreatedBy:    req.ImportedBy,
		}
		for i, aImp := range qImp.Answers {
			question.Answers = append(question.Answers, model.Answer{
				AnswerText:   aImp.AnswerText,
				IsCorrect:    aImp.IsCorrect,
				Explanation:  aImp.Explanation,
				DisplayOrder: i,
			})
		}
		questions = append(questions, question)
	}

	created, err := s.questionRepo.CreateBatch(questions)
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, fmt.Errorf("category %d: %w", categoryID, apperror.ErrNotFound)
		}
		log.Error().Err(err).Uint("categoryID", categoryID).Int("count", len(questions)).Msg("Failed to import questions")
		return nil, fmt.Errorf("error importing questions: %w", err)
	}

	log.Info().Uint("categoryID", categoryID).Int("count", len(created)).Str("importedBy", req.ImportedBy).Msg("Questions imported")

	resp := make([]dto.QuestionResponse, 0, len(created))
	for _, q := range created {
		var item dto.QuestionResponse
		if err := copier.Copy(&item, &q); err != nil {
			return nil, fmt.Errorf("error preparing question response: %w", err)
		}
		resp = append(resp, item)
	}
	return resp, nil
}

// GetRandomQuestions shuffles the category's active questions and takes the
// requested count (all of them when count is nil). The shuffle is unseeded;
// callers get a fresh, non-reproducible order every time. An empty category
// yields an empty slice, not an error.
func (s *questionService) GetRandomQuestions(categoryID uint, count *int) ([]model.Question, error) {
	questions, err := s.questionRepo.FindActiveByCategory(categoryID)
	if err != nil {
		return nil, fmt.Errorf("error fetching active questions: %w", err)
	}
	if len(questions) == 0 {
		return []model.Question{}, nil
	}

	rand.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})

	n := len(questions)
	if count != nil && *count < n {
		n = *count
		if n < 0 {
			n = 0
		}
	}
	return questions[:n], nil
}

func (s *questionService) FlagQuestion(questionID uint, req dto.FlagQuestionRequest) error {
	flag := model.QuestionFlag{
		QuestionID:     questionID,
		FlaggedBy:      req.UserID,
		FlaggedByEmail: req.UserEmail,
		FlaggedDate:    time.Now().UTC(),
		Comments:       req.Comments,
		IsResolved:     false,
	}

	if err := s.flagRepo.Create(&flag); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return fmt.Errorf("question %d: %w", questionID, apperror.ErrNotFound)
		}
		log.Error().Err(err).Uint("questionID", questionID).Msg("Failed to flag question")
		return fmt.Errorf("error flagging question: %w", err)
	}
	return nil
}

func (s *questionService) GetFlaggedQuestions(includeResolved bool) ([]dto.FlagResponse, error) {
	flags, err := s.flagRepo.FindAll(includeResolved)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list flags")
		return nil, fmt.Errorf("error fetching flags: %w", err)
	}

	resp := make([]dto.FlagResponse, 0, len(flags))
	for _, f := range flags {
		var item dto.FlagResponse
		if err := copier.Copy(&item, &f); err != nil {
			return nil, fmt.Errorf("error preparing flag response: %w", err)
		}
		resp = append(resp, item)
	}
	return resp, nil
}

// ResolveFlag is a silent no-op when the flag does not exist.
func (s *questionService) ResolveFlag(flagID uint, resolvedBy string) error {
	flag, err := s.flagRepo.FindByID(flagID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error fetching flag: %w", err)
	}

	now := time.Now().UTC()
	flag.IsResolved = true
	flag.ResolvedBy = &resolvedBy
	flag.ResolvedDate = &now

	if err := s.flagRepo.Save(flag); err != nil {
		log.Error().Err(err).Uint("flagID", flagID).Msg("Failed to resolve flag")
		return fmt.Errorf("error resolving flag: %w", err)
	}
	return nil
}

func hasCorrectAnswer(answers []dto.AnswerCreateRequest) bool {
	for _, a := range answers {
		if a.IsCorrect {
			return true
		}
	}
	return false
}
