package controllers

import (
	"errors"
	"net/http"

	"go-restaurant-pos/services"

	"github.com/gin-gonic/gin"
)

// abortWithError maps the service failure taxonomy onto HTTP status
// codes: InvalidInput → 400, NotFound → 404, Conflict → 409,
// everything else → 500.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
