package models

import "math"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleTeacher UserRole = "TEACHER"
	RoleStudent UserRole = "STUDENT"
)

// Actor is the resolved identity performing a request.
type Actor struct {
	ID   string   `json:"id"`
	Role UserRole `json:"role"`
}

// Record is a dynamic resource row keyed by field name.
type Record map[string]any

// ID returns the record identifier when present.
func (r Record) ID() string {
	if v, ok := r["id"].(string); ok {
		return v
	}
	return ""
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Pages   int  `json:"pages"`
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}

// NewPagination computes pagination metadata from a full match count.
func NewPagination(total, page, limit int) *Pagination {
	if limit < 1 {
		limit = 1
	}
	if page < 1 {
		page = 1
	}
	pages := int(math.Ceil(float64(total) / float64(limit)))
	return &Pagination{
		Total:   total,
		Page:    page,
		Limit:   limit,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1 && total > 0,
	}
}
