package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"case-analysis/apperrors"
)

// respondError maps err onto the HTTP error convention: 400 for bad input,
// 404 for a missing entity, 409 for a constraint violation, 500 otherwise.
// entity names the thing that was looked up, for the 404 message.
func respondError(c *gin.Context, logger *zap.Logger, err error, entity string) {
	_ = c.Error(err)

	switch {
	case apperrors.IsValidation(err), apperrors.IsNormalization(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": entity + " not found"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// parseID reads a positive integer id; ok is false after a 400 has been written.
func parseID(c *gin.Context, raw, name string) (uint, bool) {
	if raw == "" {
		badRequest(c, fmt.Sprintf("%s required", name))
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		badRequest(c, fmt.Sprintf("invalid %s %q", name, raw))
		return 0, false
	}
	return uint(id), true
}

// queryInt reads an optional positive integer query parameter.
func queryInt(c *gin.Context, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		badRequest(c, fmt.Sprintf("invalid %s %q", key, raw))
		return 0, false
	}
	return v, true
}
