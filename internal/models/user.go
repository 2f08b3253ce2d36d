package models

import "time"

// User represents a shopper. Phone numbers are unique across users.
type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(50);not null"`
	PhoneNumber string    `json:"phoneNumber" gorm:"uniqueIndex;type:varchar(15);not null"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UserInput is the body accepted by POST and PUT on /api/users.
type UserInput struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
}
