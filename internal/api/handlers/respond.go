// internal/api/handlers/respond.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/praveenkumar-ap/PulseCast/internal/domain"
	"github.com/rs/zerolog/log"
)

// respondError maps engine error kinds onto HTTP statuses. Anything not in
// the taxonomy is a server-side failure and its detail stays out of the
// response body.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidParameter), errors.Is(err, domain.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
