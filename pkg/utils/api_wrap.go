package utils

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	RespondErrorWithData(c, code, message, nil)
}

func RespondErrorWithData(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

var errorStatus = []struct {
	err     error
	code    int
	message string
}{
	{ErrInvalidPage, http.StatusBadRequest, "Page must be greater than 0"},
	{ErrInvalidPageSize, http.StatusBadRequest, "Page size must be between 1 and 100"},
	{ErrAccountNotFound, http.StatusNotFound, "Account not found"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{ErrEmailAlreadyExists, http.StatusConflict, "Email already registered"},
	{ErrInvalidResetToken, http.StatusBadRequest, "Reset link is invalid or has expired"},
	{ErrSessionNotFound, http.StatusNotFound, "Questionnaire session not found"},
	{ErrSessionForbidden, http.StatusForbidden, "Questionnaire session belongs to another account"},
	{ErrSessionCompleted, http.StatusConflict, "Questionnaire session is already complete"},
	{ErrCookbookNotFound, http.StatusNotFound, "Cookbook not found"},
	{ErrCookbookLocked, http.StatusForbidden, "Upgrade to Pro to unlock this cookbook"},
	{ErrMealNotFound, http.StatusNotFound, "Meal not found"},
	{ErrInvalidRating, http.StatusBadRequest, "Rating must be between 1 and 5"},
	{ErrPlanUnchanged, http.StatusConflict, "Subscription is already on that plan"},
	{ErrInvalidEmailType, http.StatusBadRequest, "Invalid email type. Must be one of: welcome, payment_failure, weekly_meal_plan, subscription_upgrade, subscription_downgrade, subscription_renewal_reminder, meal_rating_reminder, password_reset"},
}

func HandleServiceError(c *gin.Context, err error) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			RespondError(c, e.code, e.message)
			return
		}
	}

	switch {
	case errors.Is(err, ErrMissingField):
		RespondError(c, http.StatusBadRequest, strings.TrimPrefix(err.Error(), ErrMissingField.Error()+": "))
	case errors.Is(err, ErrMailDelivery):
		zap.L().Error("mail delivery failed", zap.Error(err), zap.String("trace_id", c.GetString("trace_id")))
		RespondError(c, http.StatusInternalServerError, "Failed to send email")
	case errors.Is(err, ErrDatabaseError):
		zap.L().Error("database error", zap.Error(err), zap.String("trace_id", c.GetString("trace_id")))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		zap.L().Error("unhandled service error", zap.Error(err), zap.String("trace_id", c.GetString("trace_id")))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
