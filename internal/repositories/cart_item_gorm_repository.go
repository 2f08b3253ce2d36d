package repositories

import (
	"context"
	"fmt"

	"cartapi/internal/models"
	"cartapi/internal/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCartItemRepository is a GORM implementation of CartItemRepository.
type GORMCartItemRepository struct {
	db *gorm.DB
}

// NewGORMCartItemRepository creates a new instance of GORMCartItemRepository.
func NewGORMCartItemRepository(db *gorm.DB) *GORMCartItemRepository {
	return &GORMCartItemRepository{
		db: db,
	}
}

// List returns one page of cart items matching filter, with products loaded.
func (r *GORMCartItemRepository) List(ctx context.Context, filter models.CartItemFilter) (*models.Pagination[models.CartItem], error) {
	db := r.db.WithContext(ctx)
	query := db.Model(&models.CartItem{})

	if filter.PhoneNumber != "" {
		users := db.Model(&models.User{}).Select("id").Where("phone_number = ?", filter.PhoneNumber)
		query = query.Where("user_id IN (?)", users)
	}
	if filter.ProductID != 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.MinQuantity != 0 {
		query = query.Where("quantity >= ?", filter.MinQuantity)
	}
	if filter.MaxQuantity != 0 {
		query = query.Where("quantity <= ?", filter.MaxQuantity)
	}
	if !filter.From.IsZero() {
		query = query.Where("created_at >= ?", filter.From.UTC())
	}
	if !filter.To.IsZero() {
		query = query.Where("created_at <= ?", filter.To.UTC())
	}

	return pagination.Paginate[models.CartItem](query, filter.Page, filter.PageSize, "id ASC", "Product")
}

// GetByID retrieves a cart item and its product.
func (r *GORMCartItemRepository) GetByID(ctx context.Context, id uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.WithContext(ctx).Preload("Product").First(&item, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get cart item by ID %d: %w", id, translate(err))
	}
	return &item, nil
}

// GetByUserAndProduct retrieves the cart line of userID for productID.
func (r *GORMCartItemRepository) GetByUserAndProduct(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get cart item of user %d for product %d: %w", userID, productID, translate(err))
	}
	return &item, nil
}

// Exists reports whether a cart item with the given ID exists.
func (r *GORMCartItemRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CartItem{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check cart item %d: %w", id, err)
	}
	return count > 0, nil
}

// Create inserts a new cart item. Loaded associations are not written.
func (r *GORMCartItemRepository) Create(ctx context.Context, item *models.CartItem) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create cart item: %w", translate(err))
	}
	return nil
}

// Update replaces the user, product and quantity of an existing cart item.
func (r *GORMCartItemRepository) Update(ctx context.Context, item *models.CartItem) error {
	res := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"user_id":    item.UserID,
			"product_id": item.ProductID,
			"quantity":   item.Quantity,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update cart item %d: %w", item.ID, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item %d not updated: %w", item.ID, ErrStaleRow)
	}
	return nil
}

// UpdateQuantity sets the quantity of one cart item and reports whether
// exactly one row changed.
func (r *GORMCartItemRepository) UpdateQuantity(ctx context.Context, id uint, quantity int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.CartItem{}).Where("id = ?", id).Update("quantity", quantity)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update quantity of cart item %d: %w", id, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// Delete deletes a cart item by its ID from the database.
func (r *GORMCartItemRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart item %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item %d not deleted: %w", id, ErrNotFound)
	}
	return nil
}
