package repository

import (
	"errors"

	"github.com/lshigami/Bettongs/internal/model"
	"gorm.io/gorm"
)

type AttemptRepository interface {
	Create(attempt *model.TestAttempt) error
	FindActiveByUser(userID string) (*model.TestAttempt, error)
	FindByID(id uint) (*model.TestAttempt, error)
	FindByIDWithDetails(id uint) (*model.TestAttempt, error)
	FindAttemptQuestion(attemptID, questionID uint) (*model.TestAttemptQuestion, error)
	SaveAttemptQuestion(question *model.TestAttemptQuestion) error
	Seal(attempt *model.TestAttempt) error
	Delete(attempt *model.TestAttempt) error
	FindCompletedByUser(userID string, categoryID *uint) ([]model.TestAttempt, error)
	FindRecentCompleted(limit int) ([]model.TestAttempt, error)
	FindLastCompletedForCategory(userID string, categoryID uint) (*model.TestAttempt, error)
	FindCompletedPaged(categoryID *uint, page, pageSize int) ([]model.TestAttempt, int64, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func hydrated(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("test_attempt_questions.question_order ASC")
		}).
		Preload("Questions.Question").
		Preload("Questions.Question.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.display_order ASC")
		})
}

// Create persists the attempt and its per-question rows in one transaction
// via gorm's association create.
func (r *attemptRepository) Create(attempt *model.TestAttempt) error {
	return r.db.Create(attempt).Error
}

func (r *attemptRepository) FindActiveByUser(userID string) (*model.TestAttempt, error) {
	var attempt model.TestAttempt
	err := hydrated(r.db).
		Where("user_id = ? AND is_completed = ?", userID, false).
		First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindByID(id uint) (*model.TestAttempt, error) {
	var attempt model.TestAttempt
	if err := r.db.Preload("Questions").First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindByIDWithDetails(id uint) (*model.TestAttempt, error) {
	var attempt model.TestAttempt
	if err := hydrated(r.db).First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindAttemptQuestion(attemptID, questionID uint) (*model.TestAttemptQuestion, error) {
	var question model.TestAttemptQuestion
	err := r.db.
		Preload("Question").
		Preload("Question.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.display_order ASC")
		}).
		Where("test_attempt_id = ? AND question_id = ?", attemptID, questionID).
		First(&question).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *attemptRepository) SaveAttemptQuestion(question *model.TestAttemptQuestion) error {
	return r.db.Omit("Question").Save(question).Error
}

// Seal writes the attempt's final counters together with every modified
// per-question row; completion is all-or-nothing.
func (r *attemptRepository) Seal(attempt *model.TestAttempt) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range attempt.Questions {
			if err := tx.Omit("Question").Save(&attempt.Questions[i]).Error; err != nil {
				return err
			}
		}
		return tx.Omit("Questions", "Category").Save(attempt).Error
	})
}

// Delete hard-deletes the attempt; its question rows cascade.
func (r *attemptRepository) Delete(attempt *model.TestAttempt) error {
	return r.db.Delete(attempt).Error
}

func (r *attemptRepository) FindCompletedByUser(userID string, categoryID *uint) ([]model.TestAttempt, error) {
	query := r.db.
		Preload("Category").
		Where("user_id = ? AND is_completed = ?", userID, true)
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	var attempts []model.TestAttempt
	if err := query.Order("start_time DESC").Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *attemptRepository) FindRecentCompleted(limit int) ([]model.TestAttempt, error) {
	var attempts []model.TestAttempt
	err := r.db.
		Preload("Category").
		Where("is_completed = ?", true).
		Order("start_time DESC").
		Limit(limit).
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *attemptRepository) FindLastCompletedForCategory(userID string, categoryID uint) (*model.TestAttempt, error) {
	var attempt model.TestAttempt
	err := r.db.
		Preload("Category").
		Where("user_id = ? AND category_id = ? AND is_completed = ?", userID, categoryID, true).
		Order("start_time DESC").
		First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindCompletedPaged(categoryID *uint, page, pageSize int) ([]model.TestAttempt, int64, error) {
	query := r.db.Model(&model.TestAttempt{}).Where("is_completed = ?", true)
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var attempts []model.TestAttempt
	err := query.
		Preload("Category").
		Order("start_time DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&attempts).Error
	if err != nil {
		return nil, 0, err
	}
	return attempts, total, nil
}
