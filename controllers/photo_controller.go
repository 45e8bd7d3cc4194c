package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vmalakhov/service-center-api/models"
	"github.com/vmalakhov/service-center-api/services"
	"github.com/vmalakhov/service-center-api/utils"
)

// PhotoController handles the damage photos attached to orders
type PhotoController struct {
	db *gorm.DB
}

// NewPhotoController creates a PhotoController backed by the given database handle
func NewPhotoController(db *gorm.DB) *PhotoController {
	return &PhotoController{db: db}
}

// Upload handles POST /api/v1/orders/:id/photo - attaches a damage photo
// (PNG, max 10MB) to an order; an existing photo is replaced
func (ctrl *PhotoController) Upload(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var order models.Order
	if err := ctrl.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Order not found",
				},
			})
			return
		}
		respondServiceError(c, err)
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "A photo file is required",
			},
		})
		return
	}

	photoService := services.GetPhotoService()
	if photoService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_UNAVAILABLE",
				"message": "Photo storage is not configured",
			},
		})
		return
	}

	photoKey, err := photoService.UploadPhoto(fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": "Failed to store the photo",
			},
		})
		return
	}

	// Replace the previous photo, if any
	if order.PhotoS3Key != nil && *order.PhotoS3Key != photoKey {
		_ = photoService.DeletePhoto(*order.PhotoS3Key)
	}

	if err := ctrl.db.Model(&order).Update("photo_s3_key", photoKey).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	photoURL, err := photoService.GetPhotoURL(photoKey)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"order_id":     order.ID,
			"photo_s3_key": photoKey,
			"photo_url":    photoURL,
		},
	})
}

// Delete handles DELETE /api/v1/orders/:id/photo - removes the order's photo
// from storage and clears the stored key
func (ctrl *PhotoController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var order models.Order
	if err := ctrl.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Order not found",
				},
			})
			return
		}
		respondServiceError(c, err)
		return
	}

	if order.PhotoS3Key == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PHOTO_NOT_FOUND",
				"message": "Order has no photo",
			},
		})
		return
	}

	photoService := services.GetPhotoService()
	if photoService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_UNAVAILABLE",
				"message": "Photo storage is not configured",
			},
		})
		return
	}

	if err := photoService.DeletePhoto(*order.PhotoS3Key); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DELETE_FAILED",
				"message": "Failed to delete the photo",
			},
		})
		return
	}

	if err := ctrl.db.Model(&order).Update("photo_s3_key", nil).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"order_id": order.ID,
		},
	})
}
