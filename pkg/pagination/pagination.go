// Copyright (c) 2026 Cinelist. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// It standardizes how page-based navigation is requested via query parameters
// and how the resulting metadata is delivered in the API response envelope.
//
// Clients send the page size either as "limit" or as "pageSize". Both are
// accepted and "pageSize" wins when both are present.
package pagination

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
)

const (
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
	// DefaultSize is the number of items per page if not specified.
	DefaultSize = 10
	// MinSize is the lower bound for items per page.
	MinSize = 1
	// MaxSize is the upper bound for items per page to prevent system abuse.
	MaxSize = 100
	// MaxPage keeps (MaxPage-1)*MaxSize within int, so Skip never overflows.
	MaxPage = math.MaxInt/MaxSize + 1
)

// Request is a resolved page request. Page is at least 1 and Size is within [MinSize, MaxSize].
type Request struct {
	Page int
	Size int
}

// Skip returns the number of records that precede the requested page.
// It saturates at math.MaxInt instead of overflowing.
func (r Request) Skip() int {
	if r.Page <= 1 || r.Size <= 0 {
		return 0
	}
	if r.Page-1 > math.MaxInt/r.Size {
		return math.MaxInt
	}
	return (r.Page - 1) * r.Size
}

// Resolve normalizes the raw page inputs into a [Request].
//
// A nil page means page 1 and the page is capped at [MaxPage]. The size comes from
// pageSize, then limit, then [DefaultSize], and is clamped to [MinSize, MaxSize].
func Resolve(page, limit, pageSize *int) Request {
	resolvedPage := DefaultPage
	if page != nil && *page > DefaultPage {
		resolvedPage = min(*page, MaxPage)
	}

	size := DefaultSize
	switch {
	case pageSize != nil:
		size = *pageSize
	case limit != nil:
		size = *limit
	}

	return Request{Page: resolvedPage, Size: clamp(size, MinSize, MaxSize)}
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	CurrentPage  int
	TotalPages   int
	TotalItems   int
	ItemsPerPage int
}

// BuildMeta computes the metadata for a page of a collection holding totalItems records.
//
// An empty collection has zero pages.
func BuildMeta(page, size, totalItems int) Meta {
	totalPages := 0
	if size > 0 && totalItems > 0 {
		totalPages = (totalItems + size - 1) / size
	}

	return Meta{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   totalItems,
		ItemsPerPage: size,
	}
}

// metaJSON carries both naming conventions that browser clients read.
type metaJSON struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
	Page         int `json:"page"`
	LastPage     int `json:"lastPage"`
	Total        int `json:"total"`
	PageSize     int `json:"pageSize"`
}

// MarshalJSON emits the metadata under both the "currentPage/totalPages" and the
// "page/lastPage" field names.
func (m Meta) MarshalJSON() ([]byte, error) {
	return json.Marshal(metaJSON{
		CurrentPage:  m.CurrentPage,
		TotalPages:   m.TotalPages,
		TotalItems:   m.TotalItems,
		ItemsPerPage: m.ItemsPerPage,
		Page:         m.CurrentPage,
		LastPage:     m.TotalPages,
		Total:        m.TotalItems,
		PageSize:     m.ItemsPerPage,
	})
}

// UnmarshalJSON accepts either naming convention.
func (m *Meta) UnmarshalJSON(data []byte) error {
	var raw metaJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*m = Meta{
		CurrentPage:  firstNonZero(raw.CurrentPage, raw.Page),
		TotalPages:   firstNonZero(raw.TotalPages, raw.LastPage),
		TotalItems:   firstNonZero(raw.TotalItems, raw.Total),
		ItemsPerPage: firstNonZero(raw.ItemsPerPage, raw.PageSize),
	}
	return nil
}

// FromRequest parses "page", "limit" and "pageSize" query parameters from an HTTP request.
//
// # Clamping
//
// Non-numeric values are ignored as if absent. Numeric values outside the
// allowed range are clamped rather than rejected.
func FromRequest(r *http.Request) Request {
	query := r.URL.Query()
	return Resolve(
		parseIntParam(query.Get("page")),
		parseIntParam(query.Get("limit")),
		parseIntParam(query.Get("pageSize")),
	)
}

// parseIntParam returns nil for empty or malformed values.
func parseIntParam(raw string) *int {
	if raw == "" {
		return nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}

	return &n
}

func clamp(value, low, high int) int {
	return max(low, min(value, high))
}

func firstNonZero(values ...int) int {
	for _, value := range values {
		if value != 0 {
			return value
		}
	}
	return 0
}
