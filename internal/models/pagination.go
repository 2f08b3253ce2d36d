package models

// Pagination is one page of an ordered result set.
type Pagination[T any] struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
	Items      []T   `json:"items"`
}
