package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fullgorilla/internal/models/request_models"
	"fullgorilla/internal/services"
	"fullgorilla/pkg/utils"
)

type EmailController struct {
	emailService services.EmailServiceInterface
}

func NewEmailController(emailService services.EmailServiceInterface) *EmailController {
	return &EmailController{
		emailService: emailService,
	}
}

// Send godoc
// @Summary Send a transactional email
// @Description Composes and sends one of the templated emails. Required fields depend on type.
// @Tags Emails
// @Accept json
// @Produce json
// @Param request body request_models.SendEmailRequest true "Email payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Security BearerAuth
// @Router /emails/send [post]
func (e *EmailController) Send(c *gin.Context) {
	var req request_models.SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := e.emailService.Send(c.Request.Context(), req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"type": req.Type, "email": req.Email}, "Email sent successfully")
}
