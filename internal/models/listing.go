package models

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type SortField string

const (
	SortByName      SortField = "name"
	SortByPrice     SortField = "price"
	SortByCreatedAt SortField = "createdAt"
	SortByCategory  SortField = "category"
)

func (f SortField) Valid() bool {
	switch f {
	case SortByName, SortByPrice, SortByCreatedAt, SortByCategory:
		return true
	}
	return false
}

type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// ProductListRequest is a validated, normalized product listing query.
type ProductListRequest struct {
	Page      int
	Limit     int
	SortBy    SortField
	SortOrder SortDirection
	Search    string
	Category  string
}

// RawProductListQuery carries the listing query string as received.
type RawProductListQuery struct {
	Page      string `query:"page" validate:"omitempty,number"`
	Limit     string `query:"limit" validate:"omitempty,number"`
	SortBy    string `query:"sortBy" validate:"omitempty,oneof=name price createdAt category"`
	SortOrder string `query:"sortOrder" validate:"omitempty,oneof=ASC DESC asc desc"`
	Search    string `query:"search" validate:"max=200"`
	Category  string `query:"category" validate:"max=100"`
}

// Normalize converts the raw query into a ProductListRequest, applying
// defaults for absent values and rejecting out of range ones.
func (q RawProductListQuery) Normalize() (ProductListRequest, error) {
	req := ProductListRequest{
		Page:      DefaultPage,
		Limit:     DefaultLimit,
		SortBy:    SortByCreatedAt,
		SortOrder: SortDesc,
		Search:    strings.TrimSpace(q.Search),
		Category:  strings.TrimSpace(q.Category),
	}

	if q.Page != "" {
		page, err := strconv.Atoi(q.Page)
		if err != nil || page < 1 {
			return req, NewValidationError("page must be a positive integer")
		}
		req.Page = page
	}

	if q.Limit != "" {
		limit, err := strconv.Atoi(q.Limit)
		if err != nil || limit < 1 || limit > MaxLimit {
			return req, NewValidationError("limit must be between 1 and %d", MaxLimit)
		}
		req.Limit = limit
	}

	if q.SortBy != "" {
		req.SortBy = SortField(q.SortBy)
		if !req.SortBy.Valid() {
			return req, NewValidationError("sortBy must be one of name, price, createdAt, category")
		}
	}

	if q.SortOrder != "" {
		req.SortOrder = SortDirection(strings.ToUpper(q.SortOrder))
		if req.SortOrder != SortAsc && req.SortOrder != SortDesc {
			return req, NewValidationError("sortOrder must be ASC or DESC")
		}
	}

	return req, nil
}

// Values is the canonical query of the request. Encoding it sorts the keys,
// so two requests that differ only in parameter order share a cache key.
func (r ProductListRequest) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(r.Page))
	v.Set("limit", strconv.Itoa(r.Limit))
	v.Set("sortBy", string(r.SortBy))
	v.Set("sortOrder", string(r.SortOrder))
	if r.Search != "" {
		v.Set("search", r.Search)
	}
	if r.Category != "" {
		v.Set("category", r.Category)
	}
	return v
}

// FetchSpec is a bounded query against the product store.
type FetchSpec struct {
	ActiveOnly bool
	Search     string
	Category   string
	SortBy     SortField
	SortDesc   bool
	Offset     int
	Limit      int
}

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

func NewPagination(page, pageSize int, total int64) Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return Pagination{
		CurrentPage: page,
		PageSize:    pageSize,
		TotalItems:  total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

type ListingResult[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

func NewListingResult[T any](items []T, total int64, page, pageSize int) *ListingResult[T] {
	if items == nil {
		items = []T{}
	}
	return &ListingResult[T]{
		Items:      items,
		Pagination: NewPagination(page, pageSize, total),
	}
}
