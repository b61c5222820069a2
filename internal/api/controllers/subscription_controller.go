package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fullgorilla/internal/models/request_models"
	"fullgorilla/internal/services"
	"fullgorilla/pkg/utils"
)

type SubscriptionController struct {
	subscriptionService services.SubscriptionServiceInterface
}

func NewSubscriptionController(subscriptionService services.SubscriptionServiceInterface) *SubscriptionController {
	return &SubscriptionController{
		subscriptionService: subscriptionService,
	}
}

// Get godoc
// @Summary Current subscription
// @Tags Subscription
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscription [get]
func (s *SubscriptionController) Get(c *gin.Context) {
	id, ok := currentAccount(c)
	if !ok {
		return
	}

	sub, err := s.subscriptionService.Get(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, sub, "Subscription fetched successfully")
}

// Upgrade godoc
// @Summary Upgrade to Pro
// @Description Moves the account to the pro plan and sends the upgrade email
// @Tags Subscription
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscription/upgrade [post]
func (s *SubscriptionController) Upgrade(c *gin.Context) {
	id, ok := currentAccount(c)
	if !ok {
		return
	}

	sub, err := s.subscriptionService.Upgrade(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, sub, "Subscription upgraded successfully")
}

// Downgrade godoc
// @Summary Downgrade to Free
// @Tags Subscription
// @Accept json
// @Produce json
// @Param request body request_models.DowngradeRequest false "Optional downgrade reason"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscription/downgrade [post]
func (s *SubscriptionController) Downgrade(c *gin.Context) {
	id, ok := currentAccount(c)
	if !ok {
		return
	}

	var req request_models.DowngradeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
			return
		}
	}

	sub, err := s.subscriptionService.Downgrade(c.Request.Context(), id, req.Reason)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, sub, "Subscription downgraded successfully")
}
