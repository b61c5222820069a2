package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fullgorilla/internal/models/request_models"
	"fullgorilla/internal/services"
	"fullgorilla/pkg/utils"
)

type CookbookController struct {
	cookbookService services.CookbookServiceInterface
}

func NewCookbookController(cookbookService services.CookbookServiceInterface) *CookbookController {
	return &CookbookController{
		cookbookService: cookbookService,
	}
}

// List godoc
// @Summary List cookbooks
// @Description All cookbooks with the current account's access flag
// @Tags Cookbooks
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Security BearerAuth
// @Router /cookbooks [get]
func (cb *CookbookController) List(c *gin.Context) {
	id, ok := currentAccount(c)
	if !ok {
		return
	}

	cookbooks, err := cb.cookbookService.List(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, cookbooks, "Cookbooks fetched successfully")
}

// Detail godoc
// @Summary Cookbook detail
// @Description A cookbook with its meals. Locked cookbooks return 403.
// @Tags Cookbooks
// @Produce json
// @Param slug path string true "Cookbook slug"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /cookbooks/{slug} [get]
func (cb *CookbookController) Detail(c *gin.Context) {
	id, ok := currentAccount(c)
	if !ok {
		return
	}

	detail, err := cb.cookbookService.Detail(c.Request.Context(), id, c.Param("slug"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, detail, "Cookbook fetched successfully")
}

// Recommend godoc
// @Summary Preview cookbook recommendations
// @Description Scores a questionnaire payload and returns the ranking and assignment without saving
// @Tags Cookbooks
// @Accept json
// @Produce json
// @Param request body request_models.QuestionnairePayload true "Questionnaire payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /cookbooks/recommend [post]
func (cb *CookbookController) Recommend(c *gin.Context) {
	var req request_models.QuestionnairePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	result, err := cb.cookbookService.Recommend(c.Request.Context(), req)
	if err != nil {
		respondSession(c, nil, err, "")
		return
	}

	utils.RespondSuccess(c, result, "Recommendation computed successfully")
}
