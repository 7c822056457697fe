package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/Bettongs/config"
	"github.com/lshigami/Bettongs/database"
	adminctrl "github.com/lshigami/Bettongs/internal/controller/admin"
	userctrl "github.com/lshigami/Bettongs/internal/controller/user"
	"github.com/lshigami/Bettongs/internal/logger"
	"github.com/lshigami/Bettongs/internal/model"
	"github.com/lshigami/Bettongs/internal/repository"
	"github.com/lshigami/Bettongs/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Study Test Simulator API
// @version 1.0
// @description API for administering randomized multiple-choice study tests: categories, question banks, timed attempts, and question flagging.
// @contact.name API Support
// @contact.email support@example.com
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewCategoryRepository,
			repository.NewQuestionRepository,
			repository.NewFlagRepository,
			repository.NewAttemptRepository,
		),

		fx.Provide(
			service.NewCategoryService,
			service.NewQuestionService,
			service.NewTestService,
			service.NewGeminiService,
		),

		fx.Provide(
			adminctrl.NewAdminController,
			userctrl.NewUserController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	adminCtrl *adminctrl.AdminController,
	userCtrl *userctrl.UserController,
) {
	adminAPIGroup := router.Group("/api/v1/admin")
	{
		categoriesGroup := adminAPIGroup.Group("/categories")
		categoriesGroup.POST("", adminCtrl.CreateCategory)
		categoriesGroup.GET("/:category_id", adminCtrl.GetCategory)
		categoriesGroup.PUT("/:category_id", adminCtrl.UpdateCategory)
		categoriesGroup.DELETE("/:category_id", adminCtrl.DeleteCategory)
		categoriesGroup.GET("/:category_id/question-count", adminCtrl.GetQuestionCount)
		categoriesGroup.GET("/:category_id/questions", adminCtrl.GetQuestionsByCategory)
		categoriesGroup.POST("/:category_id/import", adminCtrl.ImportQuestions)

		questionsGroup := adminAPIGroup.Group("/questions")
		questionsGroup.POST("", adminCtrl.CreateQuestion)
		questionsGroup.GET("/:question_id", adminCtrl.GetQuestion)
		questionsGroup.PUT("/:question_id", adminCtrl.UpdateQuestion)
		questionsGroup.DELETE("/:question_id", adminCtrl.DeleteQuestion)
		questionsGroup.POST("/:question_id/explanation-draft", adminCtrl.DraftExplanation)

		flagsGroup := adminAPIGroup.Group("/flags")
		flagsGroup.GET("", adminCtrl.GetFlags)
		flagsGroup.POST("/:flag_id/resolve", adminCtrl.ResolveFlag)
	}

	userAPIGroup := router.Group("/api/v1")
	{
		userAPIGroup.GET("/categories", userCtrl.GetCategories)

		userAPIGroup.POST("/attempts", userCtrl.StartTest)
		userAPIGroup.GET("/attempts/:attempt_id", userCtrl.GetAttempt)
		userAPIGroup.POST("/attempts/:attempt_id/answers", userCtrl.SubmitAnswer)
		userAPIGroup.POST("/attempts/:attempt_id/complete", userCtrl.CompleteTest)
		userAPIGroup.POST("/attempts/:attempt_id/abandon", userCtrl.AbandonTest)

		userAPIGroup.GET("/active-attempt", userCtrl.GetActiveAttempt)
		userAPIGroup.GET("/check-answer", userCtrl.CheckAnswer)
		userAPIGroup.POST("/questions/:question_id/flags", userCtrl.FlagQuestion)

		userAPIGroup.GET("/history", userCtrl.GetHistory)
		userAPIGroup.GET("/history/paged", userCtrl.GetHistoryPaged)
		userAPIGroup.GET("/recent-attempts", userCtrl.GetRecentAttempts)
		userAPIGroup.GET("/last-attempt", userCtrl.GetLastAttempt)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Study Test Simulator API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Category{},
		&model.Question{},
		&model.Answer{},
		&model.QuestionFlag{},
		&model.TestAttempt{},
		&model.TestAttemptQuestion{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
