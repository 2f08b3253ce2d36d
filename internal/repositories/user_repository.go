package repositories

import (
	"context"

	"cartapi/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	List(ctx context.Context, page, pageSize int) (*models.Pagination[models.User], error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	Exists(ctx context.Context, id uint) (bool, error)
	GetByPhoneNumber(ctx context.Context, phoneNumber string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
}
