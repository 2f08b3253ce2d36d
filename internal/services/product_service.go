package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cartapi/internal/apperror"
	"cartapi/internal/models"
	"cartapi/internal/repositories"
	"cartapi/internal/validation"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	validator *validation.Validator
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, validator *validation.Validator) *ProductService {
	return &ProductService{
		repo:      repo,
		validator: validator,
	}
}

// ListProducts returns one page of products.
func (s *ProductService) ListProducts(ctx context.Context, page, pageSize int) (*models.Pagination[models.Product], error) {
	return s.repo.List(ctx, page, pageSize)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.NotFound("Product not found.")
	}
	return product, err
}

// CreateProduct validates in and inserts a product whose name is not used yet.
func (s *ProductService) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validator.Product(in); err != nil {
		return nil, err
	}

	taken, err := s.nameTaken(ctx, in.Name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.Conflict("Product already exists.")
	}

	product := &models.Product{Name: in.Name, UnitPrice: in.UnitPrice, QuantityInStock: in.QuantityInStock}
	if err := s.repo.Create(ctx, product); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperror.Conflict("Product already exists.")
		}
		return nil, err
	}
	return product, nil
}

// UpdateProduct replaces the name, price and stock of product id.
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, in models.ProductInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validator.Product(in); err != nil {
		return err
	}

	taken, err := s.nameTaken(ctx, in.Name, id)
	if err != nil {
		return err
	}
	if taken {
		return apperror.Conflict("Product name already used by another product.")
	}

	err = s.repo.Update(ctx, &models.Product{ID: id, Name: in.Name, UnitPrice: in.UnitPrice, QuantityInStock: in.QuantityInStock})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrDuplicate):
		return apperror.Conflict("Product name already used by another product.")
	case errors.Is(err, repositories.ErrStaleRow):
		exists, existsErr := s.repo.Exists(ctx, id)
		if existsErr != nil {
			return existsErr
		}
		if !exists {
			return apperror.NotFound("Product not found.")
		}
		return fmt.Errorf("%w: %w", apperror.ErrConcurrencyConflict, err)
	default:
		return err
	}
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperror.NotFound("Product not found.")
	}
	return err
}

func (s *ProductService) nameTaken(ctx context.Context, name string, exceptID uint) (bool, error) {
	existing, err := s.repo.GetByName(ctx, name)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return false, nil
	case err != nil:
		return false, err
	}
	return existing.ID != exceptID, nil
}
