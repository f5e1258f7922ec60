package domain

import "time"

// Client Model (invoice recipient). Clients are global, not per-user.
type Client struct {
	ID         uint      `gorm:"primaryKey" json:"id"` // Primary key
	Name       string    `gorm:"not null" json:"name"` // Required display name
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	PostalCode string    `json:"postalCode"`
	Country    string    `json:"country"`
	TaxID      string    `json:"taxId"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
