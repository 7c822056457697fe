package service

import (
	"errors"
	"testing"

	"github.com/lshigami/Bettongs/internal/apperror"
	"github.com/lshigami/Bettongs/internal/dto"
)

func newCategoryService(db *memDB) CategoryService {
	return NewCategoryService(&fakeCategoryRepo{db: db})
}

func TestGetAllCategoriesSortedByName(t *testing.T) {
	db := newMemDB()
	db.seedCategory("Storage")
	db.seedCategory("Networking")
	svc := newCategoryService(db)

	categories, err := svc.GetAllCategories()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}
	if categories[0].Name != "Networking" || categories[1].Name != "Storage" {
		t.Fatalf("categories not sorted by name: %q, %q", categories[0].Name, categories[1].Name)
	}
}

func TestGetCategoryNotFound(t *testing.T) {
	db := newMemDB()
	svc := newCategoryService(db)

	if _, err := svc.GetCategory(42); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestUpdateCategoryStampsModification(t *testing.T) {
	db := newMemDB()
	cat := db.seedCategory("Networking")
	svc := newCategoryService(db)

	desc := "renamed"
	resp, err := svc.UpdateCategory(cat.ID, dto.CategoryUpdateRequest{
		Name:        "Cloud Networking",
		Description: &desc,
		ModifiedBy:  "editor",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if resp.Name != "Cloud Networking" {
		t.Errorf("name not updated: %q", resp.Name)
	}
	if resp.ModifiedBy == nil || *resp.ModifiedBy != "editor" {
		t.Error("ModifiedBy not stamped")
	}
	if resp.ModifiedAt == nil {
		t.Error("ModifiedAt not stamped")
	}

	if _, err := svc.UpdateCategory(999, dto.CategoryUpdateRequest{Name: "x", ModifiedBy: "editor"}); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not-found for missing category, got %v", err)
	}
}

func TestDeleteCategorySemantics(t *testing.T) {
	db := newMemDB()
	empty := db.seedCategory("Empty")
	populated := db.seedCategory("Populated")
	db.seedQuestion(populated.ID, "q", 2)
	svc := newCategoryService(db)

	// Deleting a missing category succeeds silently.
	if err := svc.DeleteCategory(999); err != nil {
		t.Fatalf("expected no-op for missing category, got %v", err)
	}

	// A category that still owns questions is a conflict.
	if err := svc.DeleteCategory(populated.ID); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("expected conflict for populated category, got %v", err)
	}

	if err := svc.DeleteCategory(empty.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok := db.categories[empty.ID]; ok {
		t.Fatal("empty category should be deleted")
	}
}

func TestCountActiveQuestionsExcludesInactive(t *testing.T) {
	db := newMemDB()
	cat := db.seedCategory("Networking")
	db.seedQuestion(cat.ID, "a", 2)
	db.seedQuestion(cat.ID, "b", 2)
	inactive := db.seedQuestion(cat.ID, "c", 2)
	inactive.IsActive = false
	svc := newCategoryService(db)

	count, err := svc.CountActiveQuestions(cat.ID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 active questions, got %d", count)
	}
}
