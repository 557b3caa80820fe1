package models

import "github.com/noah-isme/practicum-admin-api/internal/query"

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// ListParams is a validated list request for one record kind.
type ListParams struct {
	Query    query.Query
	Page     int
	PageSize int
}

// BulkIDsRequest names the records a bulk action applies to.
type BulkIDsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

// BulkResult reports the outcome of a bulk action.
type BulkResult struct {
	Succeeded []string `json:"succeeded"`
	Failed    []string `json:"failed,omitempty"`
}

// NewPagination copies page metadata into the response shape.
func NewPagination[T any](p query.Page[T]) *Pagination {
	return &Pagination{
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalCount: p.TotalCount,
		TotalPages: p.TotalPages,
	}
}
