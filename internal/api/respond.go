package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Path parameter parsing

	"github.com/gin-gonic/gin" // Gin web framework
)

// ErrorResponse is the body shape of every error reply
type ErrorResponse struct {
	Error   string   `json:"error"`             // Short machine-friendly reason
	Message string   `json:"message,omitempty"` // Optional human-readable detail
	Details []string `json:"details,omitempty"` // Field-level validation messages
}

// fail writes a plain error response
func fail(c *gin.Context, status int, errMsg string) {
	c.JSON(status, ErrorResponse{Error: errMsg})
}

// failWith writes an error response with a supporting message
func failWith(c *gin.Context, status int, errMsg, message string) {
	c.JSON(status, ErrorResponse{Error: errMsg, Message: message})
}

// validationFailed writes a 400 with field-level messages and performs no write
func validationFailed(c *gin.Context, details []string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Details: details})
}

// currentUserID extracts the authenticated user's ID set by the JWT middleware
func currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// pathID parses the :id path parameter
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
