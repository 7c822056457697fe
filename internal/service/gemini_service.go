package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/Bettongs/config"
	"github.com/lshigami/Bettongs/internal/apperror"
	"github.com/lshigami/Bettongs/internal/repository"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

// GeminiService drafts an explanation for an authored multiple-choice
// question. The draft is advisory only; nothing is persisted unless the
// author saves the question through the normal update path.
type GeminiService interface {
	DraftExplanation(ctx context.Context, questionID uint) (string, error)
}

type geminiService struct {
	client       *genai.GenerativeModel
	cfg          *config.Config
	questionRepo repository.QuestionRepository
}

func NewGeminiService(cfg *config.Config, questionRepo repository.QuestionRepository) (GeminiService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. GeminiService will be non-functional.")
		return &geminiService{cfg: cfg, client: nil, questionRepo: questionRepo}, nil
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel("gemini-1.5-flash")
	return &geminiService{client: model, cfg: cfg, questionRepo: questionRepo}, nil
}

func (s *geminiService) DraftExplanation(ctx context.Context, questionID uint) (string, error) {
	question, err := s.questionRepo.FindByID(questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("question %d: %w", questionID, apperror.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("error fetching question: %w", err)
	}

	if s.client == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}

	var prompt strings.Builder
	prompt.WriteString("You are an instructor writing study material for a multiple-choice test bank.\n")
	prompt.WriteString("Write a concise explanation (2-4 sentences) of why the correct answer(s) below are correct ")
	prompt.WriteString("and, briefly, why the distractors are not. Address the learner directly and do not repeat the question text.\n\n")
	prompt.WriteString("Question:\n")
	prompt.WriteString(question.QuestionText)
	prompt.WriteString("\n\nAnswers:\n")
	for _, a := range question.Answers {
		marker := " "
		if a.IsCorrect {
			marker = "x"
		}
		prompt.WriteString(fmt.Sprintf("[%s] %s\n", marker, a.AnswerText))
	}
	prompt.WriteString("\nExplanation:\n")

	resp, err := s.client.GenerateContent(ctx, genai.Text(prompt.String()))
	if err != nil {
		log.Error().Err(err).Uint("questionID", question.ID).Msg("Gemini API error while drafting explanation")
		return "", fmt.Errorf("gemini API error: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Uint("questionID", question.ID).Msg("Gemini returned no candidates or parts")
		return "", fmt.Errorf("gemini returned no content")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("gemini returned no text content")
	}

	return strings.TrimSpace(text.String()), nil
}
