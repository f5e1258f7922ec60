package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"invoice_system/internal/domain"     // Importing domain models
	"invoice_system/internal/utils"      // Credential helpers
	"invoice_system/internal/validation" // Payload validation

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// Request struct for registration
type RegisterRequest struct {
	Username string `json:"username" validate:"required,alphanum,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Request struct for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Response struct for authentication
type AuthResponse struct {
	User  domain.User `json:"user"`  // The account, password omitted
	Token string      `json:"token"` // JWT token
}

// RegisterHandler creates a user account and returns it with a session token
func RegisterHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		if details := validation.ValidateStruct(req); details != nil {
			validationFailed(c, details)
			return
		}
		// Hash the password before storing
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			fail(c, http.StatusInternalServerError, "Failed to hash password")
			return
		}
		// Lowercase username and email so uniqueness is case-insensitive
		user := domain.User{
			Username: strings.ToLower(req.Username),
			Email:    strings.ToLower(req.Email),
			Password: hash,
		}
		if err := db.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				fail(c, http.StatusConflict, "Username or email already exists")
				return
			}
			fail(c, http.StatusInternalServerError, "Failed to create user")
			return
		}
		token, err := utils.GenerateJWT(user.ID, jwtSecret)
		if err != nil {
			fail(c, http.StatusInternalServerError, "Failed to generate token")
			return
		}
		c.JSON(http.StatusCreated, AuthResponse{User: user, Token: token})
	}
}

// LoginHandler authenticates a user by email and returns a JWT token
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		if details := validation.ValidateStruct(req); details != nil {
			validationFailed(c, details)
			return
		}
		var user domain.User // Fetch user from database
		if err := db.Where("email = ?", strings.ToLower(req.Email)).First(&user).Error; err != nil {
			// Same response for unknown email and wrong password
			fail(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		if !utils.CheckPassword(req.Password, user.Password) {
			fail(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		token, err := utils.GenerateJWT(user.ID, jwtSecret)
		if err != nil {
			fail(c, http.StatusInternalServerError, "Failed to generate token")
			return
		}
		c.JSON(http.StatusOK, AuthResponse{User: user, Token: token})
	}
}

// ProfileHandler returns the authenticated user's account
func ProfileHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		var user domain.User
		if err := db.First(&user, userID).Error; err != nil {
			fail(c, http.StatusNotFound, "User not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}
