package domain

import "time"

// PaymentDetail Model. At most one IsDefault row per scope (client when set,
// else user); enforced by unsetting sibling defaults in the same transaction.
type PaymentDetail struct {
	ID            uint      `gorm:"primaryKey" json:"id"`           // Primary key
	UserID        uint      `gorm:"index;not null" json:"userId"`   // Owning user
	ClientID      *uint     `gorm:"index" json:"clientId"`          // Optional foreign key to Client
	InvoiceID     *uint     `gorm:"index" json:"invoiceId"`         // Optional foreign key to Invoice
	Method        string    `gorm:"not null" json:"method"`         // e.g. bank-transfer, card, cash
	AccountName   string    `json:"accountName"`
	AccountNumber string    `json:"accountNumber"`
	BankName      string    `json:"bankName"`
	SwiftCode     string    `json:"swiftCode"`
	IsDefault     bool      `gorm:"default:false" json:"isDefault"`
	CreatedAt     time.Time `json:"createdAt"`
}
