package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fullgorilla/internal/models/request_models"
	"fullgorilla/internal/questionnaire"
	"fullgorilla/internal/services"
	"fullgorilla/pkg/utils"
)

type QuestionnaireController struct {
	questionnaireService services.QuestionnaireServiceInterface
}

func NewQuestionnaireController(questionnaireService services.QuestionnaireServiceInterface) *QuestionnaireController {
	return &QuestionnaireController{
		questionnaireService: questionnaireService,
	}
}

// respondSession writes a session view, turning a rejected answer into 422 with the
// refreshed view attached so the client can re-render the step.
func respondSession(c *gin.Context, view any, err error, message string) {
	var verr *questionnaire.ValidationError
	if errors.As(err, &verr) {
		utils.RespondErrorWithData(c, http.StatusUnprocessableEntity, verr.Reason, view)
		return
	}
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, view, message)
}

// Questions godoc
// @Summary List questionnaire questions
// @Description The full question catalog in flow order
// @Tags Questionnaire
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /questionnaire/questions [get]
func (q *QuestionnaireController) Questions(c *gin.Context) {
	utils.RespondSuccess(c, q.questionnaireService.Questions(), "Questions fetched successfully")
}

// StartSession godoc
// @Summary Start a questionnaire session
// @Description Opens a new step-by-step questionnaire session for the current account
// @Tags Questionnaire
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Security BearerAuth
// @Router /questionnaire/sessions [post]
func (q *QuestionnaireController) StartSession(c *gin.Context) {
	id, ok := currentAccount(c)
	if !ok {
		return
	}

	view, err := q.questionnaireService.StartSession(c.Request.Context(), id)
	respondSession(c, view, err, "Questionnaire session started")
}

// GetSession godoc
// @Summary Get a questionnaire session
// @Tags Questionnaire
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /questionnaire/sessions/{id} [get]
func (q *QuestionnaireController) GetSession(c *gin.Context) {
	id, ok := currentAccount(c)
	if !ok {
		return
	}

	view, err := q.questionnaireService.GetSession(c.Request.Context(), id, c.Param("id"))
	respondSession(c, view, err, "Questionnaire session fetched successfully")
}

// SetAnswer godoc
// @Summary Set the working answer
// @Description Stores the answer for the current step without advancing
// @Tags Questionnaire
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body request_models.AnswerRequest true "Answer payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Security BearerAuth
// @Router /questionnaire/sessions/{id}/answer [put]
func (q *QuestionnaireController) SetAnswer(c *gin.Context) {
	id, ok := currentAccount(c)
	if !ok {
		return
	}

	var req request_models.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Answer) == 0 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	view, err := q.questionnaireService.SetAnswer(c.Request.Context(), id, c.Param("id"), req.Answer)
	respondSession(c, view, err, "Answer saved")
}

// Next godoc
// @Summary Advance the questionnaire
// @Description Validates the working answer and moves to the next step. The last step completes the session and returns the recommendation.
// @Tags Questionnaire
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Security BearerAuth
// @Router /questionnaire/sessions/{id}/next [post]
func (q *QuestionnaireController) Next(c *gin.Context) {
	id, ok := currentAccount(c)
	if !ok {
		return
	}

	view, err := q.questionnaireService.Next(c.Request.Context(), id, c.Param("id"))
	respondSession(c, view, err, "Moved to next question")
}

// Back godoc
// @Summary Go back one step
// @Tags Questionnaire
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /questionnaire/sessions/{id}/back [post]
func (q *QuestionnaireController) Back(c *gin.Context) {
	id, ok := currentAccount(c)
	if !ok {
		return
	}

	view, err := q.questionnaireService.Back(c.Request.Context(), id, c.Param("id"))
	respondSession(c, view, err, "Moved to previous question")
}

// Submit godoc
// @Summary Submit a complete questionnaire
// @Description Validates and stores a whole questionnaire in one call, then returns the assigned cookbooks
// @Tags Questionnaire
// @Accept json
// @Produce json
// @Param request body request_models.QuestionnairePayload true "Questionnaire payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Security BearerAuth
// @Router /questionnaire/submit [post]
func (q *QuestionnaireController) Submit(c *gin.Context) {
	id, ok := currentAccount(c)
	if !ok {
		return
	}

	var req request_models.QuestionnairePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	result, err := q.questionnaireService.Submit(c.Request.Context(), id, req)
	if err != nil {
		respondSession(c, nil, err, "")
		return
	}
	utils.RespondSuccess(c, result, "Questionnaire submitted successfully")
}
