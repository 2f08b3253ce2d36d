package models

import "github.com/shopspring/decimal"

// Product represents a product in the store.
type Product struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	Name            string          `json:"name" gorm:"uniqueIndex;type:varchar(50);not null"`
	UnitPrice       decimal.Decimal `json:"unitPrice" gorm:"type:numeric(12,2);not null"`
	QuantityInStock int             `json:"quantityInStock" gorm:"not null"`
}

// ProductInput is the body accepted by POST and PUT on /api/products.
type ProductInput struct {
	Name            string          `json:"name"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	QuantityInStock int             `json:"quantityInStock"`
}

func init() {
	// Prices go over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}
