package models

import "time"

// CartItem is one line of a user's cart. There is at most one row per
// (UserID, ProductID) pair; the services enforce that, not the schema.
type CartItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"not null;index"`
	ProductID uint      `json:"productId" gorm:"not null;index"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// CartItemInput is the body accepted by POST and PUT on /api/cartitems.
type CartItemInput struct {
	UserID    uint `json:"userId"`
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

// CartItemFilter narrows GET /api/cartitems. Zero values mean "not given".
type CartItemFilter struct {
	PhoneNumber string
	ProductID   int64
	MinQuantity int
	MaxQuantity int
	From        time.Time
	To          time.Time
	Page        int
	PageSize    int
}
