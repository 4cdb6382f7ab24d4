// Package handlers defines the HTTP-layer error codes used across all
// API endpoints.
//
// Codes are lowercase snake_case and stable: clients branch on them
// programmatically, messages are for humans. Every error response pairs
// an HTTP status with exactly one of these codes (see response.go).
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeValidation       = "validation_failed"
	ErrCodeNotFound         = "not_found"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeStoreUnreachable = "store_unreachable"
)
