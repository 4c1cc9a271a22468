package handlers

import (
	"errors"
	"net/http"

	"shuttlebook/internal/domain"
	"shuttlebook/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	resp := ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}
	reqID := middleware.GetRequestID(c)
	if reqID != "" {
		c.JSON(status, gin.H{
			"error":      resp.Error,
			"code":       resp.Code,
			"details":    resp.Details,
			"request_id": reqID,
			"message":    message,
		})
		return
	}
	c.JSON(status, resp)
}

// RespondDomainError maps domain errors to HTTP responses. Raw storage
// errors never reach the client; everything unrecognized collapses into a
// generic 500.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsInsufficientCapacity(err):
		var capErr domain.InsufficientCapacityError
		errors.As(err, &capErr)
		respondError(c, http.StatusConflict, "insufficient_capacity", err.Error(), gin.H{
			"requested": capErr.Requested,
			"remaining": capErr.Remaining,
		})
	case domain.IsUnavailable(err):
		respondError(c, http.StatusConflict, "unavailable", err.Error(), nil)
	case domain.IsContention(err):
		respondError(c, http.StatusConflict, "contention",
			"the departure is busy right now, please try again", nil)
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
	}
}
