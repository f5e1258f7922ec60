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

// Request struct for client create/update
type ClientRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	TaxID      string `json:"taxId"`
	Notes      string `json:"notes"`
}

func (r *ClientRequest) apply(client *domain.Client) {
	client.Name = r.Name
	client.Email = r.Email
	client.Phone = r.Phone
	client.Address = r.Address
	client.City = r.City
	client.PostalCode = r.PostalCode
	client.Country = r.Country
	client.TaxID = r.TaxID
	client.Notes = r.Notes
}

// CreateClientHandler creates a new client
func CreateClientHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ClientRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		if details := validation.ValidateStruct(req); details != nil {
			validationFailed(c, details)
			return
		}
		var client domain.Client
		req.apply(&client)
		if err := db.Create(&client).Error; err != nil {
			logrus.WithFields(logrus.Fields{"name": req.Name, "error": err.Error()}).Error("Failed to create client")
			fail(c, http.StatusInternalServerError, "Failed to create client")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"client": client})
	}
}

// ListClientsHandler returns all clients
func ListClientsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var clients []domain.Client
		if err := db.Order("id asc").Find(&clients).Error; err != nil {
			fail(c, http.StatusInternalServerError, "Failed to fetch clients")
			return
		}
		c.JSON(http.StatusOK, gin.H{"clients": clients})
	}
}

// GetClientHandler returns one client by id
func GetClientHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid client id")
			return
		}
		var client domain.Client
		if err := db.First(&client, id).Error; err != nil {
			fail(c, http.StatusNotFound, "Client not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"client": client})
	}
}

// UpdateClientHandler replaces a client's fields
func UpdateClientHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid client id")
			return
		}
		var req ClientRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		if details := validation.ValidateStruct(req); details != nil {
			validationFailed(c, details)
			return
		}
		var client domain.Client
		if err := db.First(&client, id).Error; err != nil {
			fail(c, http.StatusNotFound, "Client not found")
			return
		}
		req.apply(&client)
		if err := db.Save(&client).Error; err != nil {
			fail(c, http.StatusInternalServerError, "Failed to update client")
			return
		}
		c.JSON(http.StatusOK, gin.H{"client": client})
	}
}

// DeleteClientHandler deletes a client unless invoices still reference it
func DeleteClientHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid client id")
			return
		}
		var client domain.Client
		if err := db.First(&client, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				fail(c, http.StatusNotFound, "Client not found")
				return
			}
			fail(c, http.StatusInternalServerError, "Failed to fetch client")
			return
		}
		// Dependency gate: a referenced client must stay readable
		var invoiceCount int64
		if err := db.Model(&domain.Invoice{}).Where("client_id = ?", id).Count(&invoiceCount).Error; err != nil {
			fail(c, http.StatusInternalServerError, "Failed to check client invoices")
			return
		}
		if invoiceCount > 0 {
			failWith(c, http.StatusConflict, "Client has invoices", "Delete or reassign the client's invoices first")
			return
		}
		if err := db.Delete(&client).Error; err != nil {
			fail(c, http.StatusInternalServerError, "Failed to delete client")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Client deleted"})
	}
}
