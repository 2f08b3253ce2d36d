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

// UserService handles business logic related to users.
type UserService struct {
	repo      repositories.UserRepository
	validator *validation.Validator
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository, validator *validation.Validator) *UserService {
	return &UserService{
		repo:      repo,
		validator: validator,
	}
}

// ListUsers returns one page of users.
func (s *UserService) ListUsers(ctx context.Context, page, pageSize int) (*models.Pagination[models.User], error) {
	return s.repo.List(ctx, page, pageSize)
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.NotFound("User not found.")
	}
	return user, err
}

// CreateUser validates in and inserts a user with a phone number not used yet.
func (s *UserService) CreateUser(ctx context.Context, in models.UserInput) (*models.User, error) {
	in = normalizeUser(in)
	if err := s.validator.User(in); err != nil {
		return nil, err
	}

	taken, err := s.phoneTaken(ctx, in.PhoneNumber, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.Conflict("User already exists.")
	}

	user := &models.User{Name: in.Name, PhoneNumber: in.PhoneNumber}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperror.Conflict("User already exists.")
		}
		return nil, err
	}
	return user, nil
}

// UpdateUser replaces the name and phone number of user id.
func (s *UserService) UpdateUser(ctx context.Context, id uint, in models.UserInput) error {
	in = normalizeUser(in)
	if err := s.validator.User(in); err != nil {
		return err
	}

	taken, err := s.phoneTaken(ctx, in.PhoneNumber, id)
	if err != nil {
		return err
	}
	if taken {
		return apperror.Conflict("Phone number already used by another user.")
	}

	err = s.repo.Update(ctx, &models.User{ID: id, Name: in.Name, PhoneNumber: in.PhoneNumber})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrDuplicate):
		return apperror.Conflict("Phone number already used by another user.")
	case errors.Is(err, repositories.ErrStaleRow):
		exists, existsErr := s.repo.Exists(ctx, id)
		if existsErr != nil {
			return existsErr
		}
		if !exists {
			return apperror.NotFound("User not found.")
		}
		return fmt.Errorf("%w: %w", apperror.ErrConcurrencyConflict, err)
	default:
		return err
	}
}

// DeleteUser deletes user id and, through the schema, their cart items.
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperror.NotFound("User not found.")
	}
	return err
}

// phoneTaken reports whether a user other than exceptID owns phoneNumber.
func (s *UserService) phoneTaken(ctx context.Context, phoneNumber string, exceptID uint) (bool, error) {
	existing, err := s.repo.GetByPhoneNumber(ctx, phoneNumber)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return false, nil
	case err != nil:
		return false, err
	}
	return existing.ID != exceptID, nil
}

func normalizeUser(in models.UserInput) models.UserInput {
	in.Name = strings.TrimSpace(in.Name)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	return in
}
