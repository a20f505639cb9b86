package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salonbook/models"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger := GetLogger()
				logger.Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	logger := GetLogger()
	logger.Warn(message, zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// RespondError maps the engine's error taxonomy to HTTP statuses. Conflicts
// are routine (the losing side of an approval race) and get a user-facing
// message; only unrecognized errors are treated as internal.
func RespondError(c *gin.Context, err error) {
	var (
		validation *models.ValidationError
		conflict   *models.ConflictError
		state      *models.StateError
		notFound   *models.NotFoundError
		permission *models.PermissionError
		timeout    *models.TimeoutError
		store      *models.StoreError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": "Invalid input",
			"fields":  validation.Fields,
		})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"message": "Slot no longer available",
			"date":    conflict.Date.String(),
			"time":    conflict.Time,
		})
	case errors.As(err, &state):
		c.JSON(http.StatusConflict, gin.H{
			"message": "Request already handled",
			"status":  state.Status,
		})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"message": notFound.Error()})
	case errors.As(err, &permission):
		c.JSON(http.StatusForbidden, gin.H{"message": permission.Error()})
	case errors.As(err, &timeout):
		GetLogger().Warn("store timeout", zap.Error(err))
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{
			Message: "Storage timeout",
			Details: "The operation may or may not have completed. Refresh and retry.",
		})
	case errors.As(err, &store):
		GetLogger().Error("store failure", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Message: "Storage unavailable",
			Details: "Please try again later.",
		})
	default:
		GetLogger().Error("unexpected error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal Server Error",
		})
	}
}
