package pagination

import (
	"fmt"

	"cartapi/internal/apperror"
	"cartapi/internal/models"

	"gorm.io/gorm"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 3
	MaxPageSize     = 1000
)

// Validate checks page >= 1 and 1 <= pageSize <= MaxPageSize.
func Validate(page, pageSize int) error {
	if page <= 0 {
		return apperror.InvalidInput("Invalid page")
	}
	if pageSize <= 0 {
		return apperror.InvalidInput("Invalid page size")
	}
	if pageSize > MaxPageSize {
		return apperror.InvalidInput("Page size too big")
	}
	return nil
}

// Offset returns how many rows precede the given page. The product must fit
// in an int; Paginate only calls it for pages that hold rows.
func Offset(page, pageSize int) int {
	return (page - 1) * pageSize
}

// TotalPages returns the number of pages needed for total rows.
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// Paginate counts the rows matched by query and fetches the requested window,
// ordered by order. Preloads apply to the fetch only. A page past the end
// yields an empty, non-nil Items slice.
func Paginate[T any](query *gorm.DB, page, pageSize int, order string, preloads ...string) (*models.Pagination[T], error) {
	if err := Validate(page, pageSize); err != nil {
		return nil, err
	}

	q := query.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count rows: %w", err)
	}

	totalPages := TotalPages(total, pageSize)
	items := make([]T, 0)
	if page <= totalPages {
		fetch := q.Order(order).Offset(Offset(page, pageSize)).Limit(pageSize)
		for _, p := range preloads {
			fetch = fetch.Preload(p)
		}
		if err := fetch.Find(&items).Error; err != nil {
			return nil, fmt.Errorf("failed to fetch page %d: %w", page, err)
		}
	}

	return &models.Pagination[T]{
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
		TotalPages: totalPages,
		Items:      items,
	}, nil
}
