package database

import (
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/lshigami/Bettongs/config"
	"github.com/lshigami/Bettongs/internal/model"
	"gorm.io/gorm"
)

// openTestDB connects to the postgres instance described by TEST_DATABASE_*
// and is skipped unless TEST_DATABASE_HOST is set.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	host := os.Getenv("TEST_DATABASE_HOST")
	if host == "" {
		t.Skip("TEST_DATABASE_HOST not set; skipping database integration test")
	}

	cfg := &config.Config{}
	cfg.Database.Host = host
	cfg.Database.Port = envOr("TEST_DATABASE_PORT", "5432")
	cfg.Database.User = envOr("TEST_DATABASE_USER", "postgres")
	cfg.Database.Password = os.Getenv("TEST_DATABASE_PASSWORD")
	cfg.Database.Name = envOr("TEST_DATABASE_NAME", "postgres")
	cfg.Database.SSLMode = "disable"

	db, err := NewDatabase(cfg)
	if err != nil {
		t.Fatalf("NewDatabase failed: %v", err)
	}
	return db
}

func TestNewDatabase(t *testing.T) {
	db := openTestDB(t)

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("getting sql.DB failed: %v", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

// TestActiveAttemptIndexAndCascade drives the store-level rules the services
// lean on: the partial unique index that rejects a second active attempt for
// one user (surfaced as gorm.ErrDuplicatedKey through TranslateError), its
// non-applicability to completed attempts, and the attempt→attempt-question
// delete cascade behind the zero-progress abandon path.
func TestActiveAttemptIndexAndCascade(t *testing.T) {
	db := openTestDB(t)

	err := db.AutoMigrate(
		&model.Category{},
		&model.Question{},
		&model.Answer{},
		&model.QuestionFlag{},
		&model.TestAttempt{},
		&model.TestAttemptQuestion{},
	)
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	userID := fmt.Sprintf("itest-%d", time.Now().UnixNano())
	now := time.Now().UTC()

	category := model.Category{Name: "itest-" + userID, CreatedBy: "itest"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	defer db.Delete(&model.Category{}, category.ID)

	question := model.Question{
		CategoryID:   category.ID,
		QuestionText: "q",
		IsActive:     true,
		CreatedBy:    "itest",
		Answers: []model.Answer{
			{AnswerText: "a", IsCorrect: true, DisplayOrder: 0},
			{AnswerText: "b", DisplayOrder: 1},
		},
	}
	if err := db.Create(&question).Error; err != nil {
		t.Fatalf("create question failed: %v", err)
	}
	defer db.Delete(&model.Question{}, question.ID)

	newAttempt := func() model.TestAttempt {
		return model.TestAttempt{
			CategoryID:     category.ID,
			UserID:         userID,
			UserEmail:      userID + "@example.com",
			StartTime:      now,
			TotalQuestions: 1,
			Questions: []model.TestAttemptQuestion{
				{QuestionID: question.ID, QuestionOrder: 0, QuestionStartTime: now},
			},
		}
	}

	first := newAttempt()
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("create first attempt failed: %v", err)
	}
	defer db.Delete(&model.TestAttempt{}, first.ID)

	dup := newAttempt()
	if err := db.Create(&dup).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		if err == nil {
			db.Delete(&model.TestAttempt{}, dup.ID)
		}
		t.Fatalf("second active attempt must hit the partial unique index, got %v", err)
	}

	// The index only covers active rows; a completed attempt does not block a
	// new one.
	if err := db.Model(&first).Update("is_completed", true).Error; err != nil {
		t.Fatalf("completing first attempt failed: %v", err)
	}
	second := newAttempt()
	if err := db.Create(&second).Error; err != nil {
		t.Fatalf("create after completion failed: %v", err)
	}

	// Deleting the attempt cascades to its question rows.
	if err := db.Delete(&model.TestAttempt{}, second.ID).Error; err != nil {
		t.Fatalf("delete attempt failed: %v", err)
	}
	var remaining int64
	err = db.Model(&model.TestAttemptQuestion{}).
		Where("test_attempt_id = ?", second.ID).
		Count(&remaining).Error
	if err != nil {
		t.Fatalf("counting attempt questions failed: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected attempt question rows to cascade on delete, %d remain", remaining)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
