package domain

import "time"

// Invoice statuses
const (
	StatusPending       = "pending"
	StatusPaid          = "paid"
	StatusPartiallyPaid = "partially_paid"
	StatusOverdue       = "overdue"
)

// ValidStatus reports whether s is one of the accepted invoice statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusPaid, StatusPartiallyPaid, StatusOverdue:
		return true
	}
	return false
}

// Invoice Model
type Invoice struct {
	ID            uint          `gorm:"primaryKey" json:"id"`                        // Primary key
	UserID        uint          `gorm:"index;not null" json:"userId"`                // Owning user
	ClientID      uint          `gorm:"index;not null" json:"clientId"`              // Foreign key to Client
	InvoiceNumber string        `gorm:"uniqueIndex;not null" json:"invoiceNumber"`   // Unique; the DB index is the backstop for the numbering protocol
	InvoiceDate   time.Time     `json:"invoiceDate"`
	DueDate       time.Time     `json:"dueDate"`
	BillFromID    *uint         `json:"billFromId"`                                  // Optional foreign key to BillFromAddress
	Subtotal      float64       `gorm:"not null" json:"subtotal"`
	TaxRate       float64       `json:"taxRate"`
	TaxAmount     float64       `json:"taxAmount"`
	Total         float64       `gorm:"not null" json:"total"`
	Status        string        `gorm:"default:pending" json:"status"`               // pending, paid, partially_paid, overdue
	AmountPaid    float64       `gorm:"default:0" json:"amountPaid"`                 // Not capped at Total on purpose
	Notes         string        `json:"notes"`
	Items         []InvoiceItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`    // Line items, cascade-deleted with the parent
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// InvoiceItem Model. Items have no lifecycle of their own.
type InvoiceItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`                         // Primary key
	InvoiceID   uint    `gorm:"index;not null" json:"invoiceId"`              // Foreign key to Invoice
	Description string  `gorm:"not null" json:"description"`
	Quantity    int     `gorm:"not null;check:quantity > 0" json:"quantity"`  // Positive integer
	UnitPrice   float64 `gorm:"not null" json:"unitPrice"`
	Total       float64 `gorm:"not null" json:"total"`                        // Caller-supplied, not recomputed
}
