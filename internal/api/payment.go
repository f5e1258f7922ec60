package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes

	"invoice_system/internal/domain"     // Importing domain models
	"invoice_system/internal/validation" // Payload validation

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Request struct for payment detail create/update
type PaymentDetailRequest struct {
	ClientID      *uint  `json:"clientId"`
	InvoiceID     *uint  `json:"invoiceId"`
	Method        string `json:"method" validate:"required,max=50"`
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	BankName      string `json:"bankName"`
	SwiftCode     string `json:"swiftCode"`
	IsDefault     bool   `json:"isDefault"`
}

func (r *PaymentDetailRequest) apply(pd *domain.PaymentDetail) {
	pd.ClientID = r.ClientID
	pd.InvoiceID = r.InvoiceID
	pd.Method = r.Method
	pd.AccountName = r.AccountName
	pd.AccountNumber = r.AccountNumber
	pd.BankName = r.BankName
	pd.SwiftCode = r.SwiftCode
	pd.IsDefault = r.IsDefault
}

// checkPaymentRefs validates the optional client and invoice references.
// The invoice must belong to the caller; clients are global.
func checkPaymentRefs(db *gorm.DB, userID uint, req *PaymentDetailRequest) (string, error) {
	if req.ClientID != nil {
		var client domain.Client
		if err := db.First(&client, *req.ClientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "Invalid client", nil
			}
			return "", err
		}
	}
	if req.InvoiceID != nil {
		var inv domain.Invoice
		if err := db.Where("id = ? AND user_id = ?", *req.InvoiceID, userID).First(&inv).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "Invalid invoice", nil
			}
			return "", err
		}
	}
	return "", nil
}

// unsetSiblingDefaults clears is_default on every other row in the same
// scope: the client when one is set, otherwise the user's unscoped rows.
// Must run in the same transaction as the write that sets the new default.
func unsetSiblingDefaults(tx *gorm.DB, userID uint, clientID *uint, exceptID uint) error {
	q := tx.Model(&domain.PaymentDetail{}).Where("user_id = ?", userID)
	if clientID != nil {
		q = q.Where("client_id = ?", *clientID)
	} else {
		q = q.Where("client_id IS NULL")
	}
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	return q.Update("is_default", false).Error
}

// CreatePaymentDetailHandler creates a payment detail for the caller
func CreatePaymentDetailHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		var req PaymentDetailRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		if details := validation.ValidateStruct(req); details != nil {
			validationFailed(c, details)
			return
		}
		refErr, err := checkPaymentRefs(db, userID, &req)
		if err != nil {
			fail(c, http.StatusInternalServerError, "Failed to validate references")
			return
		}
		if refErr != "" {
			fail(c, http.StatusBadRequest, refErr)
			return
		}
		pd := domain.PaymentDetail{UserID: userID}
		req.apply(&pd)
		// Unset-then-insert in one transaction keeps the single-default invariant
		err = db.Transaction(func(tx *gorm.DB) error {
			if pd.IsDefault {
				if err := unsetSiblingDefaults(tx, userID, pd.ClientID, 0); err != nil {
					return err
				}
			}
			return tx.Create(&pd).Error
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Error("Failed to create payment detail")
			fail(c, http.StatusInternalServerError, "Failed to create payment detail")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"paymentDetail": pd})
	}
}

// ListPaymentDetailsHandler returns the caller's payment details,
// optionally filtered by ?clientId=
func ListPaymentDetailsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		q := db.Where("user_id = ?", userID)
		if clientID := c.Query("clientId"); clientID != "" {
			q = q.Where("client_id = ?", clientID)
		}
		var details []domain.PaymentDetail
		if err := q.Order("id asc").Find(&details).Error; err != nil {
			fail(c, http.StatusInternalServerError, "Failed to fetch payment details")
			return
		}
		c.JSON(http.StatusOK, gin.H{"paymentDetails": details})
	}
}

// GetPaymentDetailHandler returns one payment detail owned by the caller
func GetPaymentDetailHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		id, ok := pathID(c)
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid payment detail id")
			return
		}
		var pd domain.PaymentDetail
		if err := db.Where("id = ? AND user_id = ?", id, userID).First(&pd).Error; err != nil {
			fail(c, http.StatusNotFound, "Payment detail not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"paymentDetail": pd})
	}
}

// UpdatePaymentDetailHandler replaces a payment detail's fields
func UpdatePaymentDetailHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		id, ok := pathID(c)
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid payment detail id")
			return
		}
		var req PaymentDetailRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		if details := validation.ValidateStruct(req); details != nil {
			validationFailed(c, details)
			return
		}
		var pd domain.PaymentDetail
		if err := db.Where("id = ? AND user_id = ?", id, userID).First(&pd).Error; err != nil {
			fail(c, http.StatusNotFound, "Payment detail not found")
			return
		}
		refErr, err := checkPaymentRefs(db, userID, &req)
		if err != nil {
			fail(c, http.StatusInternalServerError, "Failed to validate references")
			return
		}
		if refErr != "" {
			fail(c, http.StatusBadRequest, refErr)
			return
		}
		req.apply(&pd)
		err = db.Transaction(func(tx *gorm.DB) error {
			if pd.IsDefault {
				if err := unsetSiblingDefaults(tx, userID, pd.ClientID, pd.ID); err != nil {
					return err
				}
			}
			return tx.Save(&pd).Error
		})
		if err != nil {
			fail(c, http.StatusInternalServerError, "Failed to update payment detail")
			return
		}
		c.JSON(http.StatusOK, gin.H{"paymentDetail": pd})
	}
}

// DeletePaymentDetailHandler removes a payment detail owned by the caller
func DeletePaymentDetailHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		id, ok := pathID(c)
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid payment detail id")
			return
		}
		var pd domain.PaymentDetail
		if err := db.Where("id = ? AND user_id = ?", id, userID).First(&pd).Error; err != nil {
			fail(c, http.StatusNotFound, "Payment detail not found")
			return
		}
		if err := db.Delete(&pd).Error; err != nil {
			fail(c, http.StatusInternalServerError, "Failed to delete payment detail")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Payment detail deleted"})
	}
}
