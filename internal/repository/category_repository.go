package repository

import (
	"github.com/lshigami/Bettongs/internal/model"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	FindAll() ([]model.Category, error)
	FindByID(id uint) (*model.Category, error)
	FindByIDWithQuestions(id uint) (*model.Category, error)
	Create(category *model.Category) error
	Save(category *model.Category) error
	Delete(id uint) error
	CountActiveQuestions(categoryID uint) (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) FindAll() ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindByIDWithQuestions(id uint) (*model.Category, error) {
	var category model.Category
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.created_at DESC")
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.display_order ASC")
		}).
		First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindByID(id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Create(category *model.Category) error {
	return r.db.Create(category).Error
}

func (r *categoryRepository) Save(category *model.Category) error {
	return r.db.Omit("Questions").Save(category).Error
}

func (r *categoryRepository) Delete(id uint) error {
	// Hard delete; the FK RESTRICT constraint rejects it while questions or
	// attempts still reference the category.
	return r.db.Delete(&model.Category{}, id).Error
}

func (r *categoryRepository) CountActiveQuestions(categoryID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Question{}).
		Where("category_id = ? AND is_active = ?", categoryID, true).
		Count(&count).Error
	return count, err
}
