package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Bettongs/internal/apperror"
	"github.com/lshigami/Bettongs/internal/controller"
	"github.com/lshigami/Bettongs/internal/dto"
	"github.com/lshigami/Bettongs/internal/service"
	"github.com/rs/zerolog/log"
)

// AdminController serves the authoring surface: categories, questions, bulk
// import, and flag review.
type AdminController struct {
	categorySvc service.CategoryService
	questionSvc service.QuestionService
	geminiSvc   service.GeminiService
}

func NewAdminController(
	categorySvc service.CategoryService,
	questionSvc service.QuestionService,
	geminiSvc service.GeminiService,
) *AdminController {
	return &AdminController{
		categorySvc: categorySvc,
		questionSvc: questionSvc,
		geminiSvc:   geminiSvc,
	}
}

// CreateCategory godoc
// @Summary Create a category
// @Tags admin-categories
// @Accept json
// @Produce json
// @Param category body dto.CategoryCreateRequest true "Category data"
// @Success 201 {object} dto.CategoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/categories [post]
func (ctrl *AdminController) CreateCategory(c *gin.Context) {
	var req dto.CategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind CategoryCreateRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.categorySvc.CreateCategory(req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetCategory godoc
// @Summary Get a category with its questions
// @Tags admin-categories
// @Produce json
// @Param category_id path int true "Category ID"
// @Success 200 {object} dto.CategoryDetailResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/categories/{category_id} [get]
func (ctrl *AdminController) GetCategory(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "category_id")
	if !ok {
		return
	}

	resp, err := ctrl.categorySvc.GetCategory(id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateCategory godoc
// @Summary Update a category
// @Tags admin-categories
// @Accept json
// @Produce json
// @Param category_id path int true "Category ID"
// @Param category body dto.CategoryUpdateRequest true "Category data"
// @Success 200 {object} dto.CategoryResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/categories/{category_id} [put]
func (ctrl *AdminController) UpdateCategory(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "category_id")
	if !ok {
		return
	}

	var req dto.CategoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.categorySvc.UpdateCategory(id, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteCategory godoc
// @Summary Delete a category
// @Description Deleting a missing category succeeds silently; deleting one that still has questions is a conflict.
// @Tags admin-categories
// @Param category_id path int true "Category ID"
// @Success 204 "No Content"
// @Failure 409 {object} dto.ErrorResponse
// @Router /admin/categories/{category_id} [delete]
func (ctrl *AdminController) DeleteCategory(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "category_id")
	if !ok {
		return
	}

	if err := ctrl.categorySvc.DeleteCategory(id); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetQuestionCount godoc
// @Summary Count active questions in a category
// @Tags admin-categories
// @Produce json
// @Param category_id path int true "Category ID"
// @Success 200 {object} dto.QuestionCountResponse
// @Router /admin/categories/{category_id}/question-count [get]
func (ctrl *AdminController) GetQuestionCount(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "category_id")
	if !ok {
		return
	}

	count, err := ctrl.categorySvc.CountActiveQuestions(id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.QuestionCountResponse{CategoryID: id, ActiveQuestions: count})
}

// GetQuestionsByCategory godoc
// @Summary List all questions of a category
// @Description Includes inactive questions and each question's unresolved flags, newest first.
// @Tags admin-questions
// @Produce json
// @Param category_id path int true "Category ID"
// @Success 200 {array} dto.QuestionResponse
// @Router /admin/categories/{category_id}/questions [get]
func (ctrl *AdminController) GetQuestionsByCategory(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "category_id")
	if !ok {
		return
	}

	resp, err := ctrl.questionSvc.GetQuestionsByCategory(id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ImportQuestions godoc
// @Summary Bulk import questions into a category
// @Description All-or-nothing: any invalid question rejects the entire document.
// @Tags admin-questions
// @Accept json
// @Produce json
// @Param category_id path int true "Category ID"
// @Param import body dto.ImportQuestionsRequest true "Importer identity and the import document"
// @Success 201 {array} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/categories/{category_id}/import [post]
func (ctrl *AdminController) ImportQuestions(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "category_id")
	if !ok {
		return
	}

	var req dto.ImportQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind ImportQuestionsRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.questionSvc.ImportQuestions(id, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CreateQuestion godoc
// @Summary Create a question with its answers
// @Tags admin-questions
// @Accept json
// @Produce json
// @Param question body dto.QuestionCreateRequest true "Question data"
// @Success 201 {object} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/questions [post]
func (ctrl *AdminController) CreateQuestion(c *gin.Context) {
	var req dto.QuestionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind QuestionCreateRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.questionSvc.CreateQuestion(req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetQuestion godoc
// @Summary Get a question with its answers and owning category
// @Tags admin-questions
// @Produce json
// @Param question_id path int true "Question ID"
// @Success 200 {object} dto.QuestionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/questions/{question_id} [get]
func (ctrl *AdminController) GetQuestion(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "question_id")
	if !ok {
		return
	}

	resp, err := ctrl.questionSvc.GetQuestion(id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateQuestion godoc
// @Summary Update a question, replacing its entire answer set
// @Description Silent no-op (204) when the question no longer exists.
// @Tags admin-questions
// @Accept json
// @Produce json
// @Param question_id path int true "Question ID"
// @Param question body dto.QuestionUpdateRequest true "Question data"
// @Success 200 {object} dto.QuestionResponse
// @Success 204 "Question no longer exists"
// @Router /admin/questions/{question_id} [put]
func (ctrl *AdminController) UpdateQuestion(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "question_id")
	if !ok {
		return
	}

	var req dto.QuestionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.questionSvc.UpdateQuestion(id, req)
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

// DeleteQuestion godoc
// @Summary Deactivate a question
// @Description Soft delete: the question is excluded from new tests but kept for historical attempts.
// @Tags admin-questions
// @Param question_id path int true "Question ID"
// @Success 204 "No Content"
// @Router /admin/questions/{question_id} [delete]
func (ctrl *AdminController) DeleteQuestion(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "question_id")
	if !ok {
		return
	}

	if err := ctrl.questionSvc.DeleteQuestion(id); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DraftExplanation godoc
// @Summary Generate an explanation draft for a question
// @Description Advisory only; nothing is saved unless the author updates the question.
// @Tags admin-questions
// @Produce json
// @Param question_id path int true "Question ID"
// @Success 200 {object} dto.ExplanationDraftResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /admin/questions/{question_id}/explanation-draft [post]
func (ctrl *AdminController) DraftExplanation(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "question_id")
	if !ok {
		return
	}

	draft, err := ctrl.geminiSvc.DraftExplanation(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			controller.RespondError(c, err)
			return
		}
		log.Error().Err(err).Uint("questionID", id).Msg("Failed to draft explanation")
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "Explanation drafting is unavailable: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ExplanationDraftResponse{QuestionID: id, Explanation: draft})
}

// GetFlags godoc
// @Summary List question flags
// @Tags admin-flags
// @Produce json
// @Param include_resolved query bool false "Include resolved flags"
// @Success 200 {array} dto.FlagResponse
// @Router /admin/flags [get]
func (ctrl *AdminController) GetFlags(c *gin.Context) {
	includeResolved := c.DefaultQuery("include_resolved", "false") == "true"

	resp, err := ctrl.questionSvc.GetFlaggedQuestions(includeResolved)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ResolveFlag godoc
// @Summary Resolve a question flag
// @Description Silent no-op when the flag does not exist.
// @Tags admin-flags
// @Accept json
// @Param flag_id path int true "Flag ID"
// @Param resolution body dto.ResolveFlagRequest true "Resolver identity"
// @Success 204 "No Content"
// @Router /admin/flags/{flag_id}/resolve [post]
func (ctrl *AdminController) ResolveFlag(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "flag_id")
	if !ok {
		return
	}

	var req dto.ResolveFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	if err := ctrl.questionSvc.ResolveFlag(id, req.ResolvedBy); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
