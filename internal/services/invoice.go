package services

import (
	"errors"  // Sentinel errors and inspection
	"fmt"     // Invoice number formatting
	"strconv" // Suffix parsing
	"strings" // Suffix splitting
	"time"    // Creation timestamps

	"invoice_system/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Sentinel errors for the creation gates. Handlers map these to HTTP codes.
var (
	ErrDuplicateInvoiceNumber = errors.New("invoice number already in use")
	ErrInvalidClient          = errors.New("client does not exist")
	ErrInvalidBillFrom        = errors.New("bill-from address does not exist or does not belong to you")
)

// InvoiceService runs the invoice numbering and creation protocol.
type InvoiceService struct {
	DB  *gorm.DB
	now func() time.Time // Injectable clock for numbering tests
}

func NewInvoiceService(db *gorm.DB) *InvoiceService {
	return &InvoiceService{DB: db, now: time.Now}
}

// Create atomically inserts an invoice and its line items. All existence and
// uniqueness gates run inside the same transaction as the writes, so a
// failure at any step leaves no rows behind. The unique index on
// invoice_number is the backstop for concurrent creations racing past the
// in-transaction duplicate check; the loser surfaces gorm.ErrDuplicatedKey.
func (s *InvoiceService) Create(userID uint, inv *domain.Invoice) error {
	inv.UserID = userID
	if inv.Status == "" {
		inv.Status = domain.StatusPending
	}
	items := inv.Items
	inv.Items = nil
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// Gate 1: explicit number must not already be taken
		if inv.InvoiceNumber != "" {
			var count int64
			if err := tx.Model(&domain.Invoice{}).Where("invoice_number = ?", inv.InvoiceNumber).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrDuplicateInvoiceNumber
			}
		}
		// Gate 2: the referenced client must exist
		var client domain.Client
		if err := tx.First(&client, inv.ClientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidClient
			}
			return err
		}
		// Gate 3: an optional bill-from address must exist and be the caller's
		if inv.BillFromID != nil {
			var billFrom domain.BillFromAddress
			if err := tx.Where("id = ? AND user_id = ?", *inv.BillFromID, userID).First(&billFrom).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrInvalidBillFrom
				}
				return err
			}
		}
		if inv.InvoiceNumber == "" {
			inv.InvoiceNumber = s.nextInvoiceNumber(tx, s.now())
		}
		if err := tx.Create(inv).Error; err != nil {
			return err
		}
		// Items inserted one by one in input order; any failure rolls
		// back the invoice row with them
		for i := range items {
			items[i].ID = 0
			items[i].InvoiceID = inv.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	inv.Items = items // Echo items back as supplied
	return nil
}

// nextInvoiceNumber returns the next sequential number under the
// INV-{year}-{month}- prefix for the given timestamp. Numbering must never
// block invoice creation: on any query or parse failure it falls back to a
// timestamp-derived number, trading the readable sequence for availability.
func (s *InvoiceService) nextInvoiceNumber(tx *gorm.DB, at time.Time) string {
	prefix := fmt.Sprintf("INV-%d-%02d-", at.Year(), int(at.Month()))
	var last domain.Invoice
	err := tx.Where("invoice_number LIKE ?", prefix+"%").
		Order("invoice_number desc"). // Suffixes are fixed-width, so string order is numeric order
		First(&last).Error
	seq := 1
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// First invoice of the month
	case err != nil:
		logrus.WithFields(logrus.Fields{"prefix": prefix, "error": err.Error()}).Warn("Invoice number lookup failed, using timestamp fallback")
		return fallbackInvoiceNumber(at)
	default:
		parts := strings.Split(last.InvoiceNumber, "-")
		n, perr := strconv.Atoi(parts[len(parts)-1])
		if perr != nil {
			logrus.WithFields(logrus.Fields{"invoice_number": last.InvoiceNumber}).Warn("Unparseable invoice number suffix, using timestamp fallback")
			return fallbackInvoiceNumber(at)
		}
		seq = n + 1
	}
	return fmt.Sprintf("%s%04d", prefix, seq)
}

func fallbackInvoiceNumber(at time.Time) string {
	return fmt.Sprintf("INV-%d", at.UnixMilli())
}
