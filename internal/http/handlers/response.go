// Package handlers provides HTTP handler implementations for the public
// API.
//
// This file defines the uniform response envelope used across all
// endpoints. Every operation returns either a Success envelope (data,
// optional message, optional pagination) or an ErrorResponse with a
// stable machine-readable code; handlers map error kinds to HTTP status
// via respondError so the taxonomy lives in exactly one place.
//
// Example success response:
//
//	HTTP/1.1 200 OK
//	{
//	  "success": true,
//	  "data": [ ... ],
//	  "pagination": { "page": 1, "limit": 10, "total": 25, ... }
//	}
//
// Example error response:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "message": "farmer not found"
//	}
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coffeebridge/go-market-backend/internal/http/middleware"
	"github.com/coffeebridge/go-market-backend/internal/repo"
	"github.com/coffeebridge/go-market-backend/internal/services"
	"github.com/coffeebridge/go-market-backend/internal/store"
	"github.com/coffeebridge/go-market-backend/internal/utils"
)

// SuccessResponse is the uniform success envelope.
type SuccessResponse struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message,omitempty" example:"farmer created"`
	Data       any             `json:"data,omitempty"`
	Pagination *utils.PageMeta `json:"pagination,omitempty"`
}

// ErrorResponse is the uniform failure envelope.
//
// Fields:
//   - RequestID: correlation id echoed from X-Request-ID, for matching
//     server logs with client-side errors.
//   - Code: stable, machine-readable string (see errors.go constants).
//   - Message: human-readable description, safe to show to users.
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	Code      string `json:"code" example:"not_found"`
	Message   string `json:"message" example:"farmer not found"`
}

// ok writes a success envelope with the given status.
func ok(c *gin.Context, status int, body SuccessResponse) {
	body.Success = true
	c.JSON(status, body)
}

// fail aborts the request with a structured error. Server-side statuses
// (>= 500) are logged with the request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	resp := ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail(), for router-level fallbacks
// (NoRoute, NoMethod) that live outside this package's handlers.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// respondError translates the service/repository/store error taxonomy
// into an HTTP response: validation → 400, not-found → 404, store
// unreachable → 503, anything unanticipated → 500 with the cause logged
// and never leaked.
func respondError(c *gin.Context, err error, notFoundMsg string) {
	var ve *services.ValidationError
	var ce *store.ConnectionError

	switch {
	case errors.As(err, &ve):
		fail(c, http.StatusBadRequest, ErrCodeValidation, ve.Error())
	case errors.Is(err, repo.ErrInvalidID):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "id is not a valid identifier")
	case errors.Is(err, repo.ErrEmptyUpdate):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "request contains no fields to update")
	case errors.Is(err, utils.ErrBadPage), errors.Is(err, utils.ErrBadLimit), errors.Is(err, utils.ErrBadSortOrder):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, repo.ErrNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, notFoundMsg)
	case errors.As(err, &ce):
		middleware.LoggerFrom(c).Error().Err(err).Msg("document store unreachable")
		fail(c, http.StatusServiceUnavailable, ErrCodeStoreUnreachable, "datastore unreachable, try again later")
	default:
		middleware.LoggerFrom(c).Error().Err(err).Msg("unexpected store failure")
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
}
