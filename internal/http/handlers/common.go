package handlers

import (
	"net/http"

	"museumbot/internal/domain"
	"museumbot/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// RespondError sends the standard error payload with request_id included.
func RespondError(c *gin.Context, status int, message string, err error) {
	payload := gin.H{
		"message":    message,
		"request_id": middleware.GetRequestID(c),
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	c.JSON(status, payload)
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		RespondError(c, http.StatusBadRequest, "invalid request", err)
	case domain.IsNotFound(err):
		RespondError(c, http.StatusNotFound, "not found", err)
	case domain.IsCapacity(err):
		RespondError(c, http.StatusConflict, "capacity exceeded", err)
	case domain.IsExternal(err):
		RespondError(c, http.StatusBadGateway, "upstream service failed", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal error", nil)
	}
}

// BindJSONOrError ensures the body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		RespondError(c, http.StatusBadRequest, "empty body", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid payload", err)
		return false
	}
	return true
}
