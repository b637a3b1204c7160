// Package response writes the JSON envelope shared by every endpoint:
// {"success": true, "data": ...} or {"success": false, "error": {...}}.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SoundHire-Cloud/service-booking/internal/platform/domain"
)

// ErrorBody is the error part of the envelope.
type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Success writes 200 with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// Created writes 201 with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

// Paginated writes 200 with a page of items and paging metadata.
func Paginated[T any](c *gin.Context, items []T, total int64, page, limit int) {
	Success(c, domain.NewPaginatedResult(items, total, page, limit))
}

// BadRequest writes 400 with a validation error.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   ErrorBody{Code: string(domain.CodeValidation), Message: message},
	})
}

// Error maps err to a status code using its ErrorCode and writes it.
// Uncoded errors become 500 without leaking their message.
func Error(c *gin.Context, err error) {
	code := domain.CodeOf(err)
	body := ErrorBody{Code: string(code), Message: err.Error()}

	var detailed domain.Detailed
	if errors.As(err, &detailed) {
		body.Details = detailed.Details()
	}
	if code == domain.CodeInternal {
		body.Message = "internal server error"
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(StatusFor(code), gin.H{"success": false, "error": body})
}

// StatusFor returns the HTTP status for an error code.
func StatusFor(code domain.ErrorCode) int {
	switch code {
	case domain.CodeValidation:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeConflict, domain.CodeInvalidState:
		return http.StatusConflict
	case domain.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
