package repository

import (
	"github.com/lshigami/Bettongs/internal/model"
	"gorm.io/gorm"
)

type FlagRepository interface {
	Create(flag *model.QuestionFlag) error
	FindByID(id uint) (*model.QuestionFlag, error)
	FindAll(includeResolved bool) ([]model.QuestionFlag, error)
	Save(flag *model.QuestionFlag) error
}

type flagRepository struct {
	db *gorm.DB
}

func NewFlagRepository(db *gorm.DB) FlagRepository {
	return &flagRepository{db: db}
}

func (r *flagRepository) Create(flag *model.QuestionFlag) error {
	return r.db.Create(flag).Error
}

func (r *flagRepository) FindByID(id uint) (*model.QuestionFlag, error) {
	var flag model.QuestionFlag
	if err := r.db.First(&flag, id).Error; err != nil {
		return nil, err
	}
	return &flag, nil
}

func (r *flagRepository) FindAll(includeResolved bool) ([]model.QuestionFlag, error) {
	query := r.db.
		Preload("Question").
		Preload("Question.Category")
	if !includeResolved {
		query = query.Where("is_resolved = ?", false)
	}

	var flags []model.QuestionFlag
	if err := query.Order("flagged_date DESC").Find(&flags).Error; err != nil {
		return nil, err
	}
	return flags, nil
}

func (r *flagRepository) Save(flag *model.QuestionFlag) error {
	return r.db.Save(flag).Error
}
