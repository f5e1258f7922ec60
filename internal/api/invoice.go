package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"time"     // Date parsing

	"invoice_system/internal/domain"     // Importing domain models
	"invoice_system/internal/services"   // Invoice creation protocol
	"invoice_system/internal/validation" // Payload validation

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Request struct for one invoice line item
type InvoiceItemRequest struct {
	Description string  `json:"description" validate:"required"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice   float64 `json:"unitPrice" validate:"gte=0"`
	Total       float64 `json:"total" validate:"gte=0"`
}

// Request struct for invoice creation
type CreateInvoiceRequest struct {
	ClientID      uint                 `json:"clientId" validate:"required"`
	BillFromID    *uint                `json:"billFromId"`
	InvoiceNumber string               `json:"invoiceNumber"` // Optional; generated when empty
	InvoiceDate   string               `json:"invoiceDate" validate:"required"`
	DueDate       string               `json:"dueDate" validate:"required"`
	Items         []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
	Subtotal      float64              `json:"subtotal" validate:"gte=0"`
	TaxRate       float64              `json:"taxRate" validate:"gte=0,lte=100"`
	TaxAmount     float64              `json:"taxAmount" validate:"gte=0"`
	Total         float64              `json:"total" validate:"required,gt=0"`
	Status        string               `json:"status" validate:"omitempty,oneof=pending paid partially_paid overdue"`
	AmountPaid    float64              `json:"amountPaid" validate:"gte=0"`
	Notes         string               `json:"notes"`
}

// Request struct for status updates
type UpdateInvoiceStatusRequest struct {
	Status     string   `json:"status" validate:"required,oneof=pending paid partially_paid overdue"`
	AmountPaid *float64 `json:"amountPaid" validate:"omitempty,gte=0"`
	Notes      *string  `json:"notes"`
}

// parseDate accepts plain dates and RFC3339 timestamps
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// CreateInvoiceHandler validates the payload and runs the creation protocol
func CreateInvoiceHandler(svc *services.InvoiceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		var req CreateInvoiceRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		if details := validation.ValidateStruct(req); details != nil {
			validationFailed(c, details)
			return
		}
		invoiceDate, err := parseDate(req.InvoiceDate)
		if err != nil {
			validationFailed(c, []string{"invoiceDate must be a valid date"})
			return
		}
		dueDate, err := parseDate(req.DueDate)
		if err != nil {
			validationFailed(c, []string{"dueDate must be a valid date"})
			return
		}
		if dueDate.Before(invoiceDate) {
			validationFailed(c, []string{"dueDate must not be before invoiceDate"})
			return
		}
		items := make([]domain.InvoiceItem, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, domain.InvoiceItem{
				Description: it.Description,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
				Total:       it.Total,
			})
		}
		inv := domain.Invoice{
			ClientID:      req.ClientID,
			BillFromID:    req.BillFromID,
			InvoiceNumber: req.InvoiceNumber,
			InvoiceDate:   invoiceDate,
			DueDate:       dueDate,
			Subtotal:      req.Subtotal,
			TaxRate:       req.TaxRate,
			TaxAmount:     req.TaxAmount,
			Total:         req.Total,
			Status:        req.Status,
			AmountPaid:    req.AmountPaid,
			Notes:         req.Notes,
			Items:         items,
		}
		if err := svc.Create(userID, &inv); err != nil {
			switch {
			case errors.Is(err, services.ErrDuplicateInvoiceNumber), errors.Is(err, gorm.ErrDuplicatedKey):
				// ErrDuplicatedKey covers the lost race past the pre-check
				fail(c, http.StatusConflict, "Invoice number already exists")
			case errors.Is(err, services.ErrInvalidClient):
				fail(c, http.StatusBadRequest, "Invalid client")
			case errors.Is(err, services.ErrInvalidBillFrom):
				fail(c, http.StatusBadRequest, "Invalid bill-from address")
			default:
				logrus.WithFields(logrus.Fields{
					"user_id":   userID,
					"client_id": req.ClientID,
					"error":     err.Error(),
				}).Error("Invoice creation failed")
				fail(c, http.StatusInternalServerError, "Failed to create invoice")
			}
			return
		}
		c.JSON(http.StatusCreated, gin.H{"invoice": inv})
	}
}

// ListInvoicesHandler returns the authenticated user's invoices with items
func ListInvoicesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		var invoices []domain.Invoice
		if err := db.Where("user_id = ?", userID).Preload("Items").Order("id asc").Find(&invoices).Error; err != nil {
			fail(c, http.StatusInternalServerError, "Failed to fetch invoices")
			return
		}
		c.JSON(http.StatusOK, gin.H{"invoices": invoices})
	}
}

// GetInvoiceHandler returns one invoice owned by the caller
func GetInvoiceHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		id, ok := pathID(c)
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid invoice id")
			return
		}
		var inv domain.Invoice
		if err := db.Where("id = ? AND user_id = ?", id, userID).Preload("Items").First(&inv).Error; err != nil {
			fail(c, http.StatusNotFound, "Invoice not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"invoice": inv})
	}
}

// DeleteInvoiceHandler removes an invoice and its items atomically
func DeleteInvoiceHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		id, ok := pathID(c)
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid invoice id")
			return
		}
		var inv domain.Invoice
		if err := db.Where("id = ? AND user_id = ?", id, userID).First(&inv).Error; err != nil {
			fail(c, http.StatusNotFound, "Invoice not found")
			return
		}
		// Items deleted in the same transaction; mirrors the FK cascade
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("invoice_id = ?", inv.ID).Delete(&domain.InvoiceItem{}).Error; err != nil {
				return err
			}
			return tx.Delete(&inv).Error
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{"invoice_id": inv.ID, "error": err.Error()}).Error("Invoice deletion failed")
			fail(c, http.StatusInternalServerError, "Failed to delete invoice")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted"})
	}
}

// UpdateInvoiceStatusHandler updates status, amount paid and notes
func UpdateInvoiceStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		id, ok := pathID(c)
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid invoice id")
			return
		}
		var req UpdateInvoiceStatusRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		if details := validation.ValidateStruct(req); details != nil {
			validationFailed(c, details)
			return
		}
		var inv domain.Invoice
		if err := db.Where("id = ? AND user_id = ?", id, userID).First(&inv).Error; err != nil {
			fail(c, http.StatusNotFound, "Invoice not found")
			return
		}
		inv.Status = req.Status
		if req.AmountPaid != nil {
			// amountPaid may exceed Total; overpayment is stored as-is
			inv.AmountPaid = *req.AmountPaid
		}
		if req.Notes != nil {
			inv.Notes = *req.Notes
		}
		if err := db.Save(&inv).Error; err != nil {
			fail(c, http.StatusInternalServerError, "Failed to update invoice")
			return
		}
		c.JSON(http.StatusOK, gin.H{"invoice": inv})
	}
}
