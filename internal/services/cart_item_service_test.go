package services_test

import (
	"context"
	"errors"
	"testing"

	"cartapi/internal/apperror"
	"cartapi/internal/models"
	"cartapi/internal/repositories"
	"cartapi/internal/services"
	"cartapi/internal/validation"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type cartFixture struct {
	carts     *MockCartItemRepository
	products  *MockProductRepository
	users     *MockUserRepository
	publisher *MockPublisher
	service   *services.CartItemService
}

func newCartFixture(withPublisher bool) *cartFixture {
	f := &cartFixture{
		carts:    new(MockCartItemRepository),
		products: new(MockProductRepository),
		users:    new(MockUserRepository),
	}
	var publisher services.EventPublisher
	if withPublisher {
		f.publisher = new(MockPublisher)
		publisher = f.publisher
	}
	f.service = services.NewCartItemService(f.carts, f.products, f.users, validation.New(), publisher)
	return f
}

func (f *cartFixture) assertExpectations(t *testing.T) {
	f.carts.AssertExpectations(t)
	f.products.AssertExpectations(t)
	f.users.AssertExpectations(t)
	if f.publisher != nil {
		f.publisher.AssertExpectations(t)
	}
}

func watch() *models.Product {
	return &models.Product{ID: 1, Name: "Watch", UnitPrice: decimal.NewFromInt(50), QuantityInStock: 5}
}

func eventOfType(eventType string) interface{} {
	return mock.MatchedBy(func(e models.CartEvent) bool { return e.Type == eventType })
}

func TestCartItemService_AddToCartCreates(t *testing.T) {
	f := newCartFixture(true)
	in := models.CartItemInput{UserID: 1, ProductID: 1, Quantity: 2}

	f.products.On("GetByID", mock.Anything, uint(1)).Return(watch(), nil).Once()
	f.users.On("Exists", mock.Anything, uint(1)).Return(true, nil).Once()
	f.carts.On("GetByUserAndProduct", mock.Anything, uint(1), uint(1)).Return(nil, repositories.ErrNotFound).Once()
	f.carts.On("Create", mock.Anything, mock.MatchedBy(func(c *models.CartItem) bool {
		return c.UserID == 1 && c.ProductID == 1 && c.Quantity == 2
	})).Run(func(args mock.Arguments) { args.Get(1).(*models.CartItem).ID = 10 }).Return(nil).Once()
	f.publisher.On("PublishCartEvent", mock.Anything, mock.MatchedBy(func(e models.CartEvent) bool {
		return e.Type == models.CartItemCreated && e.CartItemID == 10 && e.Quantity == 2
	})).Return(nil).Once()

	result, err := f.service.AddToCart(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, services.MergeCreated, result.Outcome)
	assert.Equal(t, uint(10), result.Item.ID)
	assert.Equal(t, 2, result.Item.Quantity)
	require.NotNil(t, result.Item.Product)
	assert.Equal(t, "Watch", result.Item.Product.Name)
	f.assertExpectations(t)
}

func TestCartItemService_AddToCartReplacesQuantity(t *testing.T) {
	f := newCartFixture(true)
	existing := &models.CartItem{ID: 10, UserID: 1, ProductID: 1, Quantity: 2}

	f.products.On("GetByID", mock.Anything, uint(1)).Return(watch(), nil).Once()
	f.users.On("Exists", mock.Anything, uint(1)).Return(true, nil).Once()
	f.carts.On("GetByUserAndProduct", mock.Anything, uint(1), uint(1)).Return(existing, nil).Once()
	f.carts.On("UpdateQuantity", mock.Anything, uint(10), 3).Return(true, nil).Once()
	f.publisher.On("PublishCartEvent", mock.Anything, eventOfType(models.CartItemUpdated)).Return(nil).Once()

	result, err := f.service.AddToCart(context.Background(), models.CartItemInput{UserID: 1, ProductID: 1, Quantity: 3})

	require.NoError(t, err)
	assert.Equal(t, services.MergeUpdated, result.Outcome)
	assert.Equal(t, uint(10), result.Item.ID)
	assert.Equal(t, 3, result.Item.Quantity, "quantity is replaced, not added")
	f.carts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestCartItemService_AddToCartUpdateFailed(t *testing.T) {
	ctx := context.Background()
	in := models.CartItemInput{UserID: 1, ProductID: 1, Quantity: 3}

	t.Run("store error", func(t *testing.T) {
		f := newCartFixture(true)
		f.products.On("GetByID", mock.Anything, uint(1)).Return(watch(), nil).Once()
		f.users.On("Exists", mock.Anything, uint(1)).Return(true, nil).Once()
		f.carts.On("GetByUserAndProduct", mock.Anything, uint(1), uint(1)).Return(&models.CartItem{ID: 10, Quantity: 2}, nil).Once()
		f.carts.On("UpdateQuantity", mock.Anything, uint(10), 3).Return(false, errors.New("disk full")).Once()

		result, err := f.service.AddToCart(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, services.MergeUpdateFailed, result.Outcome)
		f.publisher.AssertNotCalled(t, "PublishCartEvent", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("row vanished", func(t *testing.T) {
		f := newCartFixture(false)
		f.products.On("GetByID", mock.Anything, uint(1)).Return(watch(), nil).Once()
		f.users.On("Exists", mock.Anything, uint(1)).Return(true, nil).Once()
		f.carts.On("GetByUserAndProduct", mock.Anything, uint(1), uint(1)).Return(&models.CartItem{ID: 10, Quantity: 2}, nil).Once()
		f.carts.On("UpdateQuantity", mock.Anything, uint(10), 3).Return(false, nil).Once()
		f.carts.On("Exists", mock.Anything, uint(10)).Return(false, nil).Once()

		_, err := f.service.AddToCart(ctx, in)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		f.assertExpectations(t)
	})

	t.Run("row untouched", func(t *testing.T) {
		f := newCartFixture(false)
		f.products.On("GetByID", mock.Anything, uint(1)).Return(watch(), nil).Once()
		f.users.On("Exists", mock.Anything, uint(1)).Return(true, nil).Once()
		f.carts.On("GetByUserAndProduct", mock.Anything, uint(1), uint(1)).Return(&models.CartItem{ID: 10, Quantity: 2}, nil).Once()
		f.carts.On("UpdateQuantity", mock.Anything, uint(10), 3).Return(false, nil).Once()
		f.carts.On("Exists", mock.Anything, uint(10)).Return(true, nil).Once()

		result, err := f.service.AddToCart(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, services.MergeUpdateFailed, result.Outcome)
		f.assertExpectations(t)
	})
}

func TestCartItemService_AddToCartValidationOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("quantity first", func(t *testing.T) {
		f := newCartFixture(false)
		_, err := f.service.AddToCart(ctx, models.CartItemInput{UserID: 99, ProductID: 99, Quantity: 0})
		assert.EqualError(t, err, "Invalid product quantity.")
		f.products.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("product before user", func(t *testing.T) {
		f := newCartFixture(false)
		f.products.On("GetByID", mock.Anything, uint(99)).Return(nil, repositories.ErrNotFound).Once()

		_, err := f.service.AddToCart(ctx, models.CartItemInput{UserID: 99, ProductID: 99, Quantity: 1})
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
		assert.EqualError(t, err, "Invalid product.")
		f.users.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("user before stock", func(t *testing.T) {
		f := newCartFixture(false)
		f.products.On("GetByID", mock.Anything, uint(1)).Return(watch(), nil).Once()
		f.users.On("Exists", mock.Anything, uint(99)).Return(false, nil).Once()

		_, err := f.service.AddToCart(ctx, models.CartItemInput{UserID: 99, ProductID: 1, Quantity: 100})
		assert.EqualError(t, err, "Invalid user.")
		f.assertExpectations(t)
	})

	t.Run("stock", func(t *testing.T) {
		f := newCartFixture(false)
		f.products.On("GetByID", mock.Anything, uint(1)).Return(watch(), nil).Once()
		f.users.On("Exists", mock.Anything, uint(1)).Return(true, nil).Once()

		_, err := f.service.AddToCart(ctx, models.CartItemInput{UserID: 1, ProductID: 1, Quantity: 6})
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
		assert.EqualError(t, err, "Not enough products.")
		f.carts.AssertNotCalled(t, "GetByUserAndProduct", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})
}

func TestCartItemService_AddToCartPublishFailureIgnored(t *testing.T) {
	f := newCartFixture(true)
	f.products.On("GetByID", mock.Anything, uint(1)).Return(watch(), nil).Once()
	f.users.On("Exists", mock.Anything, uint(1)).Return(true, nil).Once()
	f.carts.On("GetByUserAndProduct", mock.Anything, uint(1), uint(1)).Return(nil, repositories.ErrNotFound).Once()
	f.carts.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	f.publisher.On("PublishCartEvent", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	result, err := f.service.AddToCart(context.Background(), models.CartItemInput{UserID: 1, ProductID: 1, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, services.MergeCreated, result.Outcome)
	f.assertExpectations(t)
}

func TestCartItemService_UpdateCartItem(t *testing.T) {
	ctx := context.Background()
	in := models.CartItemInput{UserID: 1, ProductID: 1, Quantity: 4}

	t.Run("success", func(t *testing.T) {
		f := newCartFixture(true)
		f.products.On("GetByID", mock.Anything, uint(1)).Return(watch(), nil).Once()
		f.users.On("Exists", mock.Anything, uint(1)).Return(true, nil).Once()
		f.carts.On("GetByUserAndProduct", mock.Anything, uint(1), uint(1)).Return(&models.CartItem{ID: 10}, nil).Once()
		f.carts.On("Update", mock.Anything, &models.CartItem{ID: 10, UserID: 1, ProductID: 1, Quantity: 4}).Return(nil).Once()
		f.publisher.On("PublishCartEvent", mock.Anything, eventOfType(models.CartItemUpdated)).Return(nil).Once()

		assert.NoError(t, f.service.UpdateCartItem(ctx, 10, in))
		f.assertExpectations(t)
	})

	t.Run("pair owned by another line", func(t *testing.T) {
		f := newCartFixture(false)
		f.products.On("GetByID", mock.Anything, uint(1)).Return(watch(), nil).Once()
		f.users.On("Exists", mock.Anything, uint(1)).Return(true, nil).Once()
		f.carts.On("GetByUserAndProduct", mock.Anything, uint(1), uint(1)).Return(&models.CartItem{ID: 11}, nil).Once()

		err := f.service.UpdateCartItem(ctx, 10, in)
		assert.ErrorIs(t, err, apperror.ErrConflict)
		assert.EqualError(t, err, "Product already in the cart of this user.")
		f.carts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("missing line", func(t *testing.T) {
		f := newCartFixture(false)
		f.products.On("GetByID", mock.Anything, uint(1)).Return(watch(), nil).Once()
		f.users.On("Exists", mock.Anything, uint(1)).Return(true, nil).Once()
		f.carts.On("GetByUserAndProduct", mock.Anything, uint(1), uint(1)).Return(nil, repositories.ErrNotFound).Once()
		f.carts.On("Update", mock.Anything, mock.Anything).Return(repositories.ErrStaleRow).Once()
		f.carts.On("Exists", mock.Anything, uint(10)).Return(false, nil).Once()

		assert.ErrorIs(t, f.service.UpdateCartItem(ctx, 10, in), apperror.ErrNotFound)
		f.assertExpectations(t)
	})

	t.Run("concurrent write", func(t *testing.T) {
		f := newCartFixture(false)
		f.products.On("GetByID", mock.Anything, uint(1)).Return(watch(), nil).Once()
		f.users.On("Exists", mock.Anything, uint(1)).Return(true, nil).Once()
		f.carts.On("GetByUserAndProduct", mock.Anything, uint(1), uint(1)).Return(nil, repositories.ErrNotFound).Once()
		f.carts.On("Update", mock.Anything, mock.Anything).Return(repositories.ErrStaleRow).Once()
		f.carts.On("Exists", mock.Anything, uint(10)).Return(true, nil).Once()

		assert.ErrorIs(t, f.service.UpdateCartItem(ctx, 10, in), apperror.ErrConcurrencyConflict)
		f.assertExpectations(t)
	})
}

func TestCartItemService_ListCartItems(t *testing.T) {
	ctx := context.Background()

	f := newCartFixture(false)
	filter := models.CartItemFilter{PhoneNumber: "+233000000000", Page: 1, PageSize: 3}
	expected := &models.Pagination[models.CartItem]{Page: 1, PageSize: 3, Items: []models.CartItem{}}
	f.carts.On("List", mock.Anything, filter).Return(expected, nil).Once()

	page, err := f.service.ListCartItems(ctx, filter)
	require.NoError(t, err)
	assert.Same(t, expected, page)

	_, err = f.service.ListCartItems(ctx, models.CartItemFilter{MinQuantity: -1, Page: 1, PageSize: 3})
	assert.EqualError(t, err, "Any specified item quantity must be greater than 0")
	f.assertExpectations(t)
}

func TestCartItemService_DeleteCartItem(t *testing.T) {
	ctx := context.Background()

	t.Run("by id", func(t *testing.T) {
		f := newCartFixture(true)
		item := &models.CartItem{ID: 10, UserID: 1, ProductID: 1, Quantity: 2}
		f.carts.On("GetByID", mock.Anything, uint(10)).Return(item, nil).Once()
		f.carts.On("Delete", mock.Anything, uint(10)).Return(nil).Once()
		f.publisher.On("PublishCartEvent", mock.Anything, eventOfType(models.CartItemDeleted)).Return(nil).Once()

		assert.NoError(t, f.service.DeleteCartItem(ctx, 10))
		f.assertExpectations(t)
	})

	t.Run("by pair not found", func(t *testing.T) {
		f := newCartFixture(false)
		f.carts.On("GetByUserAndProduct", mock.Anything, uint(1), uint(99)).Return(nil, repositories.ErrNotFound).Once()

		err := f.service.DeleteCartItemByUserAndProduct(ctx, 1, 99)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		assert.EqualError(t, err, "Cart item not found.")
		f.carts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})
}
