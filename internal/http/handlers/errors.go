package handlers

import (
	"errors"
	"net/http"

	"flowtasks/internal/domain"
	"flowtasks/internal/logger"

	"github.com/gin-gonic/gin"
)

// respondError maps domain error codes onto HTTP statuses. Anything that is
// not a DomainError is an infrastructure failure and comes back as a 500
// without leaking the underlying message.
func respondError(c *gin.Context, err error) {
	var derr *domain.DomainError
	if errors.As(err, &derr) {
		c.JSON(statusFor(derr.Code), gin.H{"error": derr.Message})
		return
	}
	logger.Error("internal error", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func statusFor(code string) int {
	switch code {
	case "NOT_FOUND":
		return http.StatusNotFound
	case "FORBIDDEN":
		return http.StatusForbidden
	case "VALIDATION":
		return http.StatusBadRequest
	case "CONFLICT":
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
