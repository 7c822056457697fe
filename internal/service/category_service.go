package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Bettongs/internal/apperror"
	"github.com/lshigami/Bettongs/internal/dto"
	"github.com/lshigami/Bettongs/internal/model"
	"github.com/lshigami/Bettongs/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type CategoryService interface {
	GetAllCategories() ([]dto.CategoryResponse, error)
	GetCategory(id uint) (*dto.CategoryDetailResponse, error)
	CreateCategory(req dto.CategoryCreateRequest) (*dto.CategoryResponse, error)
	UpdateCategory(id uint, req dto.CategoryUpdateRequest) (*dto.CategoryResponse, error)
	DeleteCategory(id uint) error
	CountActiveQuestions(id uint) (int64, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) GetAllCategories() ([]dto.CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list categories")
		return nil, fmt.Errorf("error fetching categories: %w", err)
	}

	resp := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		var item dto.CategoryResponse
		if err := copier.Copy(&item, &c); err != nil {
			return nil, fmt.Errorf("error preparing category response: %w", err)
		}
		resp = append(resp, item)
	}
	return resp, nil
}

func (s *categoryService) GetCategory(id uint) (*dto.CategoryDetailResponse, error) {
	category, err := s.categoryRepo.FindByIDWithQuestions(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("category %d: %w", id, apperror.ErrNotFound)
	}
	if err != nil {
		log.Error().Err(err).Uint("categoryID", id).Msg("Failed to get category")
		return nil, fmt.Errorf("error fetching category: %w", err)
	}

	var resp dto.CategoryDetailResponse
	if err := copier.Copy(&resp, category); err != nil {
		return nil, fmt.Errorf("error preparing category response: %w", err)
	}
	if resp.Questions == nil {
		resp.Questions = []dto.QuestionResponse{}
	}
	return &resp, nil
}

func (s *categoryService) CreateCategory(req dto.CategoryCreateRequest) (*dto.CategoryResponse, error) {
	category := model.Category{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   req.CreatedBy,
	}

	if err := s.categoryRepo.Create(&category); err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("Failed to create category")
		return nil, fmt.Errorf("error creating category: %w", err)
	}

	var resp dto.CategoryResponse
	if err := copier.Copy(&resp, &category); err != nil {
		return nil, fmt.Errorf("error preparing category response: %w", err)
	}
	return &resp, nil
}

func (s *categoryService) UpdateCategory(id uint, req dto.CategoryUpdateRequest) (*dto.CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("category %d: %w", id, apperror.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching category: %w", err)
	}

	now := time.Now().UTC()
	category.Name = req.Name
	category.Description = req.Description
	category.ModifiedBy = &req.ModifiedBy
	category.ModifiedAt = &now

	if err := s.categoryRepo.Save(category); err != nil {
		log.Error().Err(err).Uint("categoryID", id).Msg("Failed to update category")
		return nil, fmt.Errorf("error updating category: %w", err)
	}

	var resp dto.CategoryResponse
	if err := copier.Copy(&resp, category); err != nil {
		return nil, fmt.Errorf("error preparing category response: %w", err)
	}
	return &resp, nil
}

// DeleteCategory is an intentional no-op when the id does not exist. Deleting
// a category that still owns questions or attempts is rejected as a conflict.
func (s *categoryService) DeleteCategory(id uint) error {
	err := s.categoryRepo.Delete(id)
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fmt.Errorf("category %d still has questions or attempts: %w", id, apperror.ErrConflict)
	}
	if err != nil {
		log.Error().Err(err).Uint("categoryID", id).Msg("Failed to delete category")
		return fmt.Errorf("error deleting category: %w", err)
	}
	return nil
}

func (s *categoryService) CountActiveQuestions(id uint) (int64, error) {
	count, err := s.categoryRepo.CountActiveQuestions(id)
	if err != nil {
		return 0, fmt.Errorf("error counting active questions: %w", err)
	}
	return count, nil
}
