package repository

import (
	"github.com/lshigami/Bettongs/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	FindByCategory(categoryID uint) ([]model.Question, error)
	FindActiveByCategory(categoryID uint) ([]model.Question, error)
	FindByID(id uint) (*model.Question, error)
	FindAnswer(questionID, answerID uint) (*model.Answer, error)
	Create(question *model.Question) error
	CreateBatch(questions []model.Question) ([]model.Question, error)
	ReplaceAnswersAndSave(question *model.Question, answers []model.Answer) error
	Save(question *model.Question) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func orderedAnswers(db *gorm.DB) *gorm.DB {
	return db.Order("answers.display_order ASC")
}

func (r *questionRepository) FindByCategory(categoryID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.
		Preload("Answers", orderedAnswers).
		Preload("Flags", "is_resolved = ?", false).
		Where("category_id = ?", categoryID).
		Order("created_at DESC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) FindActiveByCategory(categoryID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.
		Preload("Answers", orderedAnswers).
		Where("category_id = ? AND is_active = ?", categoryID, true).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	err := r.db.
		Preload("Answers", orderedAnswers).
		Preload("Category").
		First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindAnswer(questionID, answerID uint) (*model.Answer, error) {
	var answer model.Answer
	err := r.db.
		Where("id = ? AND question_id = ?", answerID, questionID).
		First(&answer).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *questionRepository) Create(question *model.Question) error {
	// Association create persists the answers with the question.
	return r.db.Create(question).Error
}

// CreateBatch persists every question (with answers) in a single transaction;
// either the whole batch commits or nothing is written.
func (r *questionRepository) CreateBatch(questions []model.Question) ([]model.Question, error) {
	if err := r.db.Create(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

// ReplaceAnswersAndSave updates the question's scalar fields and swaps the
// entire answer set: all prior answers are deleted and the new set inserted.
// Old answer ids do not survive the edit.
func (r *questionRepository) ReplaceAnswersAndSave(question *model.Question, answers []model.Answer) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", question.ID).Delete(&model.Answer{}).Error; err != nil {
			return err
		}
		question.Answers = nil
		if err := tx.Omit("Answers", "Flags", "Category").Save(question).Error; err != nil {
			return err
		}
		for i := range answers {
			answers[i].ID = 0
			answers[i].QuestionID = question.ID
		}
		if err := tx.Create(&answers).Error; err != nil {
			return err
		}
		question.Answers = answers
		return nil
	})
}

func (r *questionRepository) Save(question *model.Question) error {
	return r.db.Omit("Answers", "Flags").Save(question).Error
}
