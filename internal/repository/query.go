package repository

import (
	"gorm.io/gorm"
)

// ListQuery carries pagination, search and sorting parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}

// Paginate returns a gorm scope applying the query's page window
func Paginate(q *ListQuery) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q == nil {
			return db
		}
		page := q.Page
		if page < 1 {
			page = 1
		}
		perPage := q.PerPage
		if perPage < 1 || perPage > 100 {
			perPage = 20
		}
		return db.Offset((page - 1) * perPage).Limit(perPage)
	}
}

// sortColumn whitelists a sort field against allowed columns to avoid
// interpolating arbitrary user input into ORDER BY.
func sortColumn(q *ListQuery, allowed map[string]string, fallback string) string {
	if q == nil || q.SortBy == "" {
		return fallback
	}
	col, ok := allowed[q.SortBy]
	if !ok {
		return fallback
	}
	dir := "ASC"
	if q.SortDir == "desc" || q.SortDir == "DESC" {
		dir = "DESC"
	}
	return col + " " + dir
}
