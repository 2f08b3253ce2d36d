package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"cartapi/internal/apperror"
	"cartapi/internal/models"
	"cartapi/internal/repositories"
	"cartapi/internal/validation"
)

// EventPublisher receives cart events after a successful write.
type EventPublisher interface {
	PublishCartEvent(ctx context.Context, event models.CartEvent) error
}

// MergeOutcome tells the caller what AddToCart did.
type MergeOutcome int

const (
	// MergeCreated means a new cart line was inserted.
	MergeCreated MergeOutcome = iota + 1
	// MergeUpdated means the existing line's quantity was replaced.
	MergeUpdated
	// MergeUpdateFailed means the existing line could not be saved.
	MergeUpdateFailed
)

func (o MergeOutcome) String() string {
	switch o {
	case MergeCreated:
		return "created"
	case MergeUpdated:
		return "updated"
	case MergeUpdateFailed:
		return "update failed"
	default:
		return fmt.Sprintf("MergeOutcome(%d)", int(o))
	}
}

// MergeResult is the cart line resulting from AddToCart.
type MergeResult struct {
	Item    *models.CartItem
	Outcome MergeOutcome
}

// CartItemService handles business logic related to cart items.
type CartItemService struct {
	cartRepo    repositories.CartItemRepository
	productRepo repositories.ProductRepository
	userRepo    repositories.UserRepository
	validator   *validation.Validator
	publisher   EventPublisher // optional
	now         func() time.Time
}

// NewCartItemService creates a new CartItemService. publisher may be nil.
func NewCartItemService(
	cartRepo repositories.CartItemRepository,
	productRepo repositories.ProductRepository,
	userRepo repositories.UserRepository,
	validator *validation.Validator,
	publisher EventPublisher,
) *CartItemService {
	return &CartItemService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		validator:   validator,
		publisher:   publisher,
		now:         time.Now,
	}
}

// ListCartItems returns one page of cart items matching filter.
func (s *CartItemService) ListCartItems(ctx context.Context, filter models.CartItemFilter) (*models.Pagination[models.CartItem], error) {
	if err := s.validator.CartItemFilter(filter); err != nil {
		return nil, err
	}
	return s.cartRepo.List(ctx, filter)
}

// GetCartItemByID retrieves a single cart item by its ID.
func (s *CartItemService) GetCartItemByID(ctx context.Context, id uint) (*models.CartItem, error) {
	item, err := s.cartRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.NotFound("Cart item not found.")
	}
	return item, err
}

// GetCartItemByUserAndProduct retrieves the cart line of userID for productID.
func (s *CartItemService) GetCartItemByUserAndProduct(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	item, err := s.cartRepo.GetByUserAndProduct(ctx, userID, productID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.NotFound("Cart item not found.")
	}
	return item, err
}

// AddToCart puts in.Quantity of in.ProductID in the cart of in.UserID. When the
// pair already has a line, its quantity is replaced by in.Quantity instead of
// inserting a second row.
func (s *CartItemService) AddToCart(ctx context.Context, in models.CartItemInput) (*MergeResult, error) {
	product, err := s.checkCartItem(ctx, in)
	if err != nil {
		return nil, err
	}

	existing, err := s.cartRepo.GetByUserAndProduct(ctx, in.UserID, in.ProductID)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		item := &models.CartItem{UserID: in.UserID, ProductID: in.ProductID, Quantity: in.Quantity}
		if err := s.cartRepo.Create(ctx, item); err != nil {
			return nil, err
		}
		item.Product = product
		s.publish(ctx, models.CartItemCreated, item)
		return &MergeResult{Item: item, Outcome: MergeCreated}, nil
	case err != nil:
		return nil, err
	}

	updated, err := s.cartRepo.UpdateQuantity(ctx, existing.ID, in.Quantity)
	if err != nil {
		log.Printf("Error updating quantity of cart item %d: %v", existing.ID, err)
		return &MergeResult{Item: existing, Outcome: MergeUpdateFailed}, nil
	}
	if !updated {
		exists, existsErr := s.cartRepo.Exists(ctx, existing.ID)
		if existsErr != nil {
			return nil, existsErr
		}
		if !exists {
			return nil, apperror.NotFound("Cart item not found.")
		}
		return &MergeResult{Item: existing, Outcome: MergeUpdateFailed}, nil
	}

	existing.Quantity = in.Quantity
	if existing.Product == nil {
		existing.Product = product
	}
	s.publish(ctx, models.CartItemUpdated, existing)
	return &MergeResult{Item: existing, Outcome: MergeUpdated}, nil
}

// UpdateCartItem replaces the user, product and quantity of cart item id.
// Moving a line onto a (user, product) pair that already has one is a conflict.
func (s *CartItemService) UpdateCartItem(ctx context.Context, id uint, in models.CartItemInput) error {
	if _, err := s.checkCartItem(ctx, in); err != nil {
		return err
	}

	other, err := s.cartRepo.GetByUserAndProduct(ctx, in.UserID, in.ProductID)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
	case err != nil:
		return err
	case other.ID != id:
		return apperror.Conflict("Product already in the cart of this user.")
	}

	item := &models.CartItem{ID: id, UserID: in.UserID, ProductID: in.ProductID, Quantity: in.Quantity}
	err = s.cartRepo.Update(ctx, item)
	switch {
	case err == nil:
		s.publish(ctx, models.CartItemUpdated, item)
		return nil
	case errors.Is(err, repositories.ErrStaleRow):
		exists, existsErr := s.cartRepo.Exists(ctx, id)
		if existsErr != nil {
			return existsErr
		}
		if !exists {
			return apperror.NotFound("Cart item not found.")
		}
		return fmt.Errorf("%w: %w", apperror.ErrConcurrencyConflict, err)
	default:
		return err
	}
}

// DeleteCartItem deletes a cart item by its ID.
func (s *CartItemService) DeleteCartItem(ctx context.Context, id uint) error {
	item, err := s.GetCartItemByID(ctx, id)
	if err != nil {
		return err
	}
	return s.delete(ctx, item)
}

// DeleteCartItemByUserAndProduct removes productID from the cart of userID.
func (s *CartItemService) DeleteCartItemByUserAndProduct(ctx context.Context, userID, productID uint) error {
	item, err := s.GetCartItemByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return err
	}
	return s.delete(ctx, item)
}

func (s *CartItemService) delete(ctx context.Context, item *models.CartItem) error {
	if err := s.cartRepo.Delete(ctx, item.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperror.NotFound("Cart item not found.")
		}
		return err
	}
	s.publish(ctx, models.CartItemDeleted, item)
	return nil
}

// checkCartItem runs, in order: quantity, product exists, user exists, stock.
func (s *CartItemService) checkCartItem(ctx context.Context, in models.CartItemInput) (*models.Product, error) {
	if err := s.validator.CartItem(in); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, in.ProductID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.InvalidInput("Invalid product.")
	}
	if err != nil {
		return nil, err
	}

	userExists, err := s.userRepo.Exists(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if !userExists {
		return nil, apperror.InvalidInput("Invalid user.")
	}

	if in.Quantity > product.QuantityInStock {
		return nil, apperror.InvalidInput("Not enough products.")
	}
	return product, nil
}

func (s *CartItemService) publish(ctx context.Context, eventType string, item *models.CartItem) {
	if s.publisher == nil {
		return
	}
	event := models.CartEvent{
		Type:       eventType,
		CartItemID: item.ID,
		UserID:     item.UserID,
		ProductID:  item.ProductID,
		Quantity:   item.Quantity,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.PublishCartEvent(ctx, event); err != nil {
		log.Printf("Warning: Failed to publish %s event for cart item %d: %v", eventType, item.ID, err)
	}
}
