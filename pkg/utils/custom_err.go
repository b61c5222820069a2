package utils

import "errors"

var (
	ErrInvalidPage     = errors.New("invalid page parameter")
	ErrInvalidPageSize = errors.New("invalid page size parameter")
	ErrDatabaseError   = errors.New("database error")

	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")

	ErrSessionNotFound  = errors.New("questionnaire session not found")
	ErrSessionForbidden = errors.New("questionnaire session belongs to another account")
	ErrSessionCompleted = errors.New("questionnaire session already completed")

	ErrCookbookNotFound = errors.New("cookbook not found")
	ErrCookbookLocked   = errors.New("cookbook requires pro or an access grant")
	ErrMealNotFound     = errors.New("meal not found")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")

	ErrPlanUnchanged = errors.New("subscription already on requested plan")

	ErrInvalidEmailType = errors.New("invalid email type")
	ErrMissingField     = errors.New("missing required field")
	ErrMailDelivery     = errors.New("failed to send email")
)
