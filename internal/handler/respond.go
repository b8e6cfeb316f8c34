package handler

import (
	"errors"
	"log"
	"net/http"

	"expense_manager/internal/middleware"
	"expense_manager/internal/service"

	"github.com/gin-gonic/gin"
)

// statusByError is the single mapping from service error kind to HTTP status.
// Anything not listed is treated as an internal failure.
var statusByError = []struct {
	err    error
	status int
}{
	{service.ErrValidation, http.StatusBadRequest},
	{service.ErrDuplicateEmail, http.StatusBadRequest},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrStoreUnavailable, http.StatusInternalServerError},
}

// respondOK writes the success envelope
func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// respondError translates a service error through the mapping table. Internal
// details are logged, not leaked to the client.
func respondError(c *gin.Context, err error) {
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			message := err.Error()
			if m.status == http.StatusInternalServerError {
				log.Printf("Internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
				message = m.err.Error()
			}
			c.JSON(m.status, gin.H{"success": false, "message": message})
			return
		}
	}
	log.Printf("Unhandled error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal server error"})
}

// respondBadRequest writes a request binding/parsing failure
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}

// getAuthUserID reads the authenticated user ID placed by the JWT middleware
func getAuthUserID(c *gin.Context) (int64, bool) {
	userIDVal, exists := c.Get(middleware.AuthUserKey)
	if !exists {
		return 0, false
	}
	userID, ok := userIDVal.(int64)
	return userID, ok
}
