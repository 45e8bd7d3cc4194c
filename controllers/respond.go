package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vmalakhov/service-center-api/services"
)

// parseIDParam extracts the numeric :id path parameter. On failure it writes
// the error envelope and returns false.
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Invalid id parameter",
			},
		})
		return 0, false
	}
	return uint(id), true
}

// respondServiceError maps a service-level error onto the JSON error
// envelope and the matching HTTP status code
func respondServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var referenceErr *services.ReferenceNotFoundError
	var constraintErr *services.ConstraintViolationError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": validationErr.Message,
				"field":   validationErr.Field,
			},
		})
	case errors.As(err, &referenceErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REFERENCE_NOT_FOUND",
				"message": referenceErr.Message,
				"field":   referenceErr.Field,
			},
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Record not found",
			},
		})
	case errors.Is(err, services.ErrConcurrencyConflict):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONCURRENCY_CONFLICT",
				"message": "The record was modified concurrently. Reload and retry.",
			},
		})
	case errors.As(err, &constraintErr):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONSTRAINT_VIOLATION",
				"message": constraintErr.Message,
			},
		})
	case services.IsDuplicateKeyError(err):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DUPLICATE_KEY",
				"message": "A record with the same unique value already exists",
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Unexpected database error",
			},
		})
	}
}
