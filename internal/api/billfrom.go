package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes

	"invoice_system/internal/domain"     // Importing domain models
	"invoice_system/internal/validation" // Payload validation

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// Request struct for bill-from address create/update
type BillFromRequest struct {
	CompanyName string `json:"companyName" validate:"required,max=255"`
	Address     string `json:"address"`
	City        string `json:"city"`
	PostalCode  string `json:"postalCode"`
	Country     string `json:"country"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`
}

func (r *BillFromRequest) apply(addr *domain.BillFromAddress) {
	addr.CompanyName = r.CompanyName
	addr.Address = r.Address
	addr.City = r.City
	addr.PostalCode = r.PostalCode
	addr.Country = r.Country
	addr.Email = r.Email
	addr.Phone = r.Phone
}

// CreateBillFromHandler creates a sender profile for the authenticated user
func CreateBillFromHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		var req BillFromRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		if details := validation.ValidateStruct(req); details != nil {
			validationFailed(c, details)
			return
		}
		addr := domain.BillFromAddress{UserID: userID}
		req.apply(&addr)
		if err := db.Create(&addr).Error; err != nil {
			fail(c, http.StatusInternalServerError, "Failed to create bill-from address")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"billFromAddress": addr})
	}
}

// ListBillFromHandler returns the authenticated user's sender profiles
func ListBillFromHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		var addrs []domain.BillFromAddress
		if err := db.Where("user_id = ?", userID).Order("id asc").Find(&addrs).Error; err != nil {
			fail(c, http.StatusInternalServerError, "Failed to fetch bill-from addresses")
			return
		}
		c.JSON(http.StatusOK, gin.H{"billFromAddresses": addrs})
	}
}

// GetBillFromHandler returns one sender profile owned by the caller
func GetBillFromHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		id, ok := pathID(c)
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid bill-from address id")
			return
		}
		var addr domain.BillFromAddress
		if err := db.Where("id = ? AND user_id = ?", id, userID).First(&addr).Error; err != nil {
			fail(c, http.StatusNotFound, "Bill-from address not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"billFromAddress": addr})
	}
}

// UpdateBillFromHandler replaces a sender profile's fields
func UpdateBillFromHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		id, ok := pathID(c)
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid bill-from address id")
			return
		}
		var req BillFromRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		if details := validation.ValidateStruct(req); details != nil {
			validationFailed(c, details)
			return
		}
		var addr domain.BillFromAddress
		if err := db.Where("id = ? AND user_id = ?", id, userID).First(&addr).Error; err != nil {
			fail(c, http.StatusNotFound, "Bill-from address not found")
			return
		}
		req.apply(&addr)
		if err := db.Save(&addr).Error; err != nil {
			fail(c, http.StatusInternalServerError, "Failed to update bill-from address")
			return
		}
		c.JSON(http.StatusOK, gin.H{"billFromAddress": addr})
	}
}

// DeleteBillFromHandler deletes a sender profile unless invoices reference it
func DeleteBillFromHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		id, ok := pathID(c)
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid bill-from address id")
			return
		}
		var addr domain.BillFromAddress
		if err := db.Where("id = ? AND user_id = ?", id, userID).First(&addr).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				fail(c, http.StatusNotFound, "Bill-from address not found")
				return
			}
			fail(c, http.StatusInternalServerError, "Failed to fetch bill-from address")
			return
		}
		// Dependency gate: an address still printed on invoices must survive
		var invoiceCount int64
		if err := db.Model(&domain.Invoice{}).Where("bill_from_id = ?", id).Count(&invoiceCount).Error; err != nil {
			fail(c, http.StatusInternalServerError, "Failed to check address usage")
			return
		}
		if invoiceCount > 0 {
			failWith(c, http.StatusConflict, "Bill-from address is in use", "Invoices still reference this address")
			return
		}
		if err := db.Delete(&addr).Error; err != nil {
			fail(c, http.StatusInternalServerError, "Failed to delete bill-from address")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Bill-from address deleted"})
	}
}
