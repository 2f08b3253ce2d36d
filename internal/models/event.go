package models

import "time"

// Cart event types published after a cart write.
const (
	CartItemCreated = "cart_item.created"
	CartItemUpdated = "cart_item.updated"
	CartItemDeleted = "cart_item.deleted"
)

// CartEvent describes a change to one cart line.
type CartEvent struct {
	Type       string    `json:"type"`
	CartItemID uint      `json:"cartItemId"`
	UserID     uint      `json:"userId"`
	ProductID  uint      `json:"productId"`
	Quantity   int       `json:"quantity"`
	OccurredAt time.Time `json:"occurredAt"`
}
