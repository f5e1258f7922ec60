package domain

import "time"

// BillFromAddress Model (the invoice issuer's sender profile). Many per user.
type BillFromAddress struct {
	ID          uint      `gorm:"primaryKey" json:"id"`        // Primary key
	UserID      uint      `gorm:"index;not null" json:"userId"` // Owning user
	CompanyName string    `gorm:"not null" json:"companyName"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	PostalCode  string    `json:"postalCode"`
	Country     string    `json:"country"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	CreatedAt   time.Time `json:"createdAt"`
}
