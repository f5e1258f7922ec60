package domain

import "time"

// User Model
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`            // Primary key
	Username  string    `gorm:"unique;not null" json:"username"` // Unique username
	Email     string    `gorm:"unique;not null" json:"email"`    // Unique email
	Password  string    `gorm:"not null" json:"-"`               // Hashed password, never serialized
	CreatedAt time.Time `json:"createdAt"`
}
