// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import (
	"errors"
	"strconv"
)

// Pagination bounds. Limit is clamped to [1, MaxLimit] by validation;
// values outside the range are rejected, not silently adjusted.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	SortAsc  = "asc"
	SortDesc = "desc"
)

// Pagination request errors.
var (
	ErrBadPage      = errors.New("page must be >= 1")
	ErrBadLimit     = errors.New("limit must be between 1 and 100")
	ErrBadSortOrder = errors.New(`sortOrder must be "asc" or "desc"`)
)

// PageRequest is the caller-side pagination cursor: which page to fetch,
// how many records per page, and the sort to apply.
type PageRequest struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// DefaultPageRequest returns the request used when the caller supplies
// no pagination parameters: first page of 10, newest records first.
func DefaultPageRequest() PageRequest {
	return PageRequest{
		Page:      DefaultPage,
		Limit:     DefaultLimit,
		SortBy:    "createdAt",
		SortOrder: SortDesc,
	}
}

// Validate rejects out-of-range pagination values. A zero SortBy is
// allowed (the repository applies its default ordering).
func (p PageRequest) Validate() error {
	if p.Page < 1 {
		return ErrBadPage
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		return ErrBadLimit
	}
	switch p.SortOrder {
	case "", SortAsc, SortDesc:
	default:
		return ErrBadSortOrder
	}
	return nil
}

// Skip returns the number of records preceding the requested page.
func (p PageRequest) Skip() int64 { return int64(p.Page-1) * int64(p.Limit) }

// Descending reports whether the requested sort order is descending.
// An empty order defaults to descending (newest first).
func (p PageRequest) Descending() bool { return p.SortOrder != SortAsc }

// PageMeta is the response-side pagination envelope accompanying a page
// of records.
type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewPageMeta computes pagination metadata for a total count under the
// given request: totalPages = ceil(total/limit), hasNext/hasPrev from
// the page position.
func NewPageMeta(p PageRequest, total int64) PageMeta {
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return PageMeta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1,
	}
}

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
