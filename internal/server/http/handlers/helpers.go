package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/bazaar/internal/domain/errors"
	"github.com/polkiloo/bazaar/internal/server/http/middleware"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// respondError maps domain errors to HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domainErrors.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domainErrors.ErrInvalidInput), errors.Is(err, domainErrors.ErrInvalidCredentials):
		status = http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrAlreadyExists), errors.Is(err, domainErrors.ErrInsufficientStock):
		status = http.StatusConflict
	case errors.Is(err, domainErrors.ErrInvalidStatusTransition):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domainErrors.ErrTransferRejected):
		status = http.StatusBadGateway
	}

	_ = c.Error(err)
	if status == http.StatusInternalServerError {
		c.AbortWithStatusJSON(status, gin.H{"error": "internal error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
