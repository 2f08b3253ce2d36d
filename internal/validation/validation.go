// Package validation holds the field checks run before any write. Each
// function returns the first rule that fails, in declaration order.
package validation

import (
	"cartapi/internal/apperror"
	"cartapi/internal/models"
	"cartapi/internal/pagination"

	"github.com/go-playground/validator/v10"
)

// Validator wraps a go-playground validator. It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator.
func New() *Validator {
	return &Validator{validate: validator.New()}
}

type rule struct {
	value   any
	tag     string
	message string
}

func (v *Validator) first(rules ...rule) error {
	for _, r := range rules {
		if err := v.validate.Var(r.value, r.tag); err != nil {
			return apperror.InvalidInput(r.message)
		}
	}
	return nil
}

// User validates the body of a user create or update.
func (v *Validator) User(in models.UserInput) error {
	return v.first(
		rule{in.Name, "min=2", "User name too short"},
		rule{in.Name, "max=50", "User name too long"},
		rule{in.PhoneNumber, "min=10", "Phone number too short"},
		rule{in.PhoneNumber, "max=15", "Phone number too long"},
	)
}

// Product validates the body of a product create or update.
func (v *Validator) Product(in models.ProductInput) error {
	if err := v.first(
		rule{in.Name, "min=2", "Product name too short"},
		rule{in.Name, "max=50", "Product name too long"},
	); err != nil {
		return err
	}
	if in.UnitPrice.IsNegative() {
		return apperror.InvalidInput("Product unit price invalid")
	}
	return v.first(rule{in.QuantityInStock, "gte=0", "Product quantity in stock invalid"})
}

// CartItem validates the shape of an add-to-cart or cart update body. Checks
// that need the store (product, user, stock) live in the cart service.
func (v *Validator) CartItem(in models.CartItemInput) error {
	return v.first(rule{in.Quantity, "gt=0", "Invalid product quantity."})
}

// CartItemFilter validates the query of GET /api/cartitems.
func (v *Validator) CartItemFilter(f models.CartItemFilter) error {
	if err := v.first(
		rule{f.PhoneNumber, "omitempty,min=9,max=15", "Invalid phone number"},
		rule{f.ProductID, "omitempty,gt=0", "Product id must be greater than 0"},
		rule{f.MinQuantity, "omitempty,gt=0", "Any specified item quantity must be greater than 0"},
		rule{f.MaxQuantity, "omitempty,gt=0", "Any specified item quantity must be greater than 0"},
	); err != nil {
		return err
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return apperror.InvalidInput("Start date must be less than end date")
	}
	return pagination.Validate(f.Page, f.PageSize)
}
