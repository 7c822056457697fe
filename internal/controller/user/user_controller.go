package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Bettongs/internal/controller"
	"github.com/lshigami/Bettongs/internal/dto"
	"github.com/lshigami/Bettongs/internal/service"
	"github.com/rs/zerolog/log"
)

// UserController serves the test-taking surface: browsing categories, running
// attempts, and flagging questions.
type UserController struct {
	categorySvc service.CategoryService
	questionSvc service.QuestionService
	testSvc     service.TestService
}

func NewUserController(
	categorySvc service.CategoryService,
	questionSvc service.QuestionService,
	testSvc service.TestService,
) *UserController {
	return &UserController{
		categorySvc: categorySvc,
		questionSvc: questionSvc,
		testSvc:     testSvc,
	}
}

// GetCategories godoc
// @Summary List all categories
// @Tags user-categories
// @Produce json
// @Success 200 {array} dto.CategoryResponse
// @Router /categories [get]
func (ctrl *UserController) GetCategories(c *gin.Context) {
	resp, err := ctrl.categorySvc.GetAllCategories()
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// StartTest godoc
// @Summary Start a new test attempt
// @Description Samples random active questions from the category. A user may only have one active attempt at a time.
// @Tags user-attempts
// @Accept json
// @Produce json
// @Param attempt body dto.StartTestRequest true "Attempt parameters"
// @Success 201 {object} dto.AttemptDetailResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /attempts [post]
func (ctrl *UserController) StartTest(c *gin.Context) {
	var req dto.StartTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind StartTestRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.testSvc.StartTest(req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetAttempt godoc
// @Summary Get a test attempt with its questions and answers
// @Tags user-attempts
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.AttemptDetailResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /attempts/{attempt_id} [get]
func (ctrl *UserController) GetAttempt(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "attempt_id")
	if !ok {
		return
	}

	resp, err := ctrl.testSvc.GetAttemptDetails(id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SubmitAnswer godoc
// @Summary Record an answer for a question in an attempt
// @Description A null answer_id clears the selection. Resubmission overwrites the previous answer.
// @Tags user-attempts
// @Accept json
// @Param attempt_id path int true "Attempt ID"
// @Param answer body dto.SubmitAnswerRequest true "Selection"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse
// @Router /attempts/{attempt_id}/answers [post]
func (ctrl *UserController) SubmitAnswer(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "attempt_id")
	if !ok {
		return
	}

	var req dto.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	if err := ctrl.testSvc.SubmitAnswer(id, req); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CompleteTest godoc
// @Summary Complete an active attempt and compute its score
// @Description Unanswered questions are marked skipped. Completing a sealed attempt is a conflict.
// @Tags user-attempts
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.AttemptDetailResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /attempts/{attempt_id}/complete [post]
func (ctrl *UserController) CompleteTest(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "attempt_id")
	if !ok {
		return
	}

	resp, err := ctrl.testSvc.CompleteTest(id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AbandonTest godoc
// @Summary Abandon an active attempt
// @Description An attempt with no answers is discarded entirely (204). One with partial progress is sealed and scored like a completion, with unanswered questions counted incorrect (200).
// @Tags user-attempts
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.AttemptDetailResponse
// @Success 204 "Attempt discarded"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /attempts/{attempt_id}/abandon [post]
func (ctrl *UserController) AbandonTest(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "attempt_id")
	if !ok {
		return
	}

	resp, err := ctrl.testSvc.AbandonTest(id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	if resp == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetActiveAttempt godoc
// @Summary Get the user's current active attempt
// @Tags user-attempts
// @Produce json
// @Param user_id query string true "User ID"
// @Success 200 {object} dto.AttemptDetailResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /active-attempt [get]
func (ctrl *UserController) GetActiveAttempt(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "user_id is required"})
		return
	}

	resp, err := ctrl.testSvc.GetActiveTest(userID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	if resp == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "no active attempt"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CheckAnswer godoc
// @Summary Check whether an answer is correct for a question
// @Description Side-effect free. An answer that does not belong to the question reads as incorrect.
// @Tags user-attempts
// @Produce json
// @Param question_id query int true "Question ID"
// @Param answer_id query int true "Answer ID"
// @Success 200 {object} dto.CheckAnswerResponse
// @Router /check-answer [get]
func (ctrl *UserController) CheckAnswer(c *gin.Context) {
	questionID, err := strconv.ParseUint(c.Query("question_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid question_id format"})
		return
	}
	answerID, err := strconv.ParseUint(c.Query("answer_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid answer_id format"})
		return
	}

	isCorrect, err := ctrl.testSvc.CheckAnswer(uint(questionID), uint(answerID))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CheckAnswerResponse{IsCorrect: isCorrect})
}

// FlagQuestion godoc
// @Summary Flag a question as problematic
// @Tags user-flags
// @Accept json
// @Param question_id path int true "Question ID"
// @Param flag body dto.FlagQuestionRequest true "Reporter identity and comments"
// @Success 201 "Created"
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{question_id}/flags [post]
func (ctrl *UserController) FlagQuestion(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "question_id")
	if !ok {
		return
	}

	var req dto.FlagQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	if err := ctrl.questionSvc.FlagQuestion(id, req); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// GetHistory godoc
// @Summary List a user's completed attempts, newest first
// @Tags user-history
// @Produce json
// @Param user_id query string true "User ID"
// @Param category_id query int false "Filter by category"
// @Success 200 {array} dto.AttemptSummaryResponse
// @Router /history [get]
func (ctrl *UserController) GetHistory(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "user_id is required"})
		return
	}

	var categoryID *uint
	if raw := c.Query("category_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid category_id format"})
			return
		}
		id := uint(v)
		categoryID = &id
	}

	resp, err := ctrl.testSvc.GetTestHistory(userID, categoryID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetHistoryPaged godoc
// @Summary Page through all completed attempts
// @Tags user-history
// @Produce json
// @Param category_id query int false "Filter by category; zero or absent means all"
// @Param page query int false "Page number, 1-based" default(1)
// @Param page_size query int false "Page size" default(10)
// @Success 200 {object} dto.PagedAttemptsResponse
// @Router /history/paged [get]
func (ctrl *UserController) GetHistoryPaged(c *gin.Context) {
	categoryID, _ := strconv.Atoi(c.DefaultQuery("category_id", "0"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	resp, err := ctrl.testSvc.GetAllHistoryPaged(categoryID, page, pageSize)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetRecentAttempts godoc
// @Summary List the most recent completed attempts across all users
// @Tags user-history
// @Produce json
// @Param limit query int false "Maximum number of attempts" default(10)
// @Success 200 {array} dto.AttemptSummaryResponse
// @Router /recent-attempts [get]
func (ctrl *UserController) GetRecentAttempts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	resp, err := ctrl.testSvc.GetRecentAttempts(limit)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetLastAttempt godoc
// @Summary Get a user's most recent completed attempt for a category
// @Tags user-history
// @Produce json
// @Param user_id query string true "User ID"
// @Param category_id query int true "Category ID"
// @Success 200 {object} dto.AttemptSummaryResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /last-attempt [get]
func (ctrl *UserController) GetLastAttempt(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "user_id is required"})
		return
	}
	categoryID, err := strconv.ParseUint(c.Query("category_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid category_id format"})
		return
	}

	resp, err := ctrl.testSvc.GetLastAttemptForCategory(userID, uint(categoryID))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	if resp == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "no completed attempt for this category"})
		return
	}
	c.JSON(http.StatusOK, resp)
}
