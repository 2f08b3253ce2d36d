package repositories

import (
	"context"

	"cartapi/internal/models"
)

// CartItemRepository defines the interface for cart item data access.
type CartItemRepository interface {
	List(ctx context.Context, filter models.CartItemFilter) (*models.Pagination[models.CartItem], error)
	GetByID(ctx context.Context, id uint) (*models.CartItem, error)
	GetByUserAndProduct(ctx context.Context, userID, productID uint) (*models.CartItem, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, item *models.CartItem) error
	Update(ctx context.Context, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, id uint, quantity int) (bool, error)
	Delete(ctx context.Context, id uint) error
}
