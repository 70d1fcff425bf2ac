// Package response renders service errors as HTTP responses.
package response

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"tasktracker/middleware"
	"tasktracker/model"
)

// Error writes the status matching err's kind. Unclassified errors are
// logged and reported as a generic 500.
func Error(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrAuthentication):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrAuthorization):
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to change this task"})
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, model.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("[HTTP] %s %s request=%s: %v", c.Request.Method, c.Request.URL.Path, middleware.GetRequestID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// BindError reports a request that could not be bound.
func BindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "detail": err.Error()})
}
