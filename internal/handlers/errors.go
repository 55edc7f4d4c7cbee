// Package handlers implements the HTTP endpoints over the repositories.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gopress/internal/logger"
	"github.com/jonesrussell/gopress/internal/models"
	"github.com/jonesrussell/gopress/internal/repository"
)

// respondError maps repository and validation failures onto HTTP statuses:
// ValidationError -> 400, ErrNotFound -> 404, anything else -> 500.
func respondError(c *gin.Context, log logger.Logger, err error, message string) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": message, "details": ve.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": message})
	default:
		log.Error(message, logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}
