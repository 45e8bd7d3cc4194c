package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vmalakhov/service-center-api/models"
)

// CarRequest represents the request body for creating or updating a car
type CarRequest struct {
	SerialNumber string `json:"serial_number" binding:"required,len=17"`
	ModelID      uint   `json:"model_id" binding:"required"`
	CustomerID   uint   `json:"customer_id" binding:"required"`
}

// CarController handles car CRUD
type CarController struct {
	db *gorm.DB
}

// NewCarController creates a CarController backed by the given database handle
func NewCarController(db *gorm.DB) *CarController {
	return &CarController{db: db}
}

// Create handles POST /api/v1/cars
func (ctrl *CarController) Create(c *gin.Context) {
	var req CarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	if !ctrl.validateReferences(c, req) {
		return
	}

	car := models.Car{
		SerialNumber: req.SerialNumber,
		ModelID:      req.ModelID,
		CustomerID:   req.CustomerID,
	}

	if err := ctrl.db.Create(&car).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	if err := ctrl.db.Preload("Model").Preload("Customer").First(&car, car.ID).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    car,
	})
}

// List handles GET /api/v1/cars - optionally filtered by ?serial= substring
// and ?model_id=
func (ctrl *CarController) List(c *gin.Context) {
	query := ctrl.db.Model(&models.Car{}).Preload("Model").Preload("Customer")
	if serial := c.Query("serial"); serial != "" {
		query = query.Where("serial_number LIKE ?", "%"+serial+"%")
	}
	if modelID := c.Query("model_id"); modelID != "" {
		query = query.Where("model_id = ?", modelID)
	}

	var cars []models.Car
	if err := query.Order("serial_number ASC").Find(&cars).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cars,
	})
}

// Get handles GET /api/v1/cars/:id
func (ctrl *CarController) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var car models.Car
	if err := ctrl.db.Preload("Model").Preload("Customer").First(&car, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Car not found",
				},
			})
			return
		}
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    car,
	})
}

// Update handles PUT /api/v1/cars/:id
func (ctrl *CarController) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req CarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	var car models.Car
	if err := ctrl.db.First(&car, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Car not found",
				},
			})
			return
		}
		respondServiceError(c, err)
		return
	}

	if !ctrl.validateReferences(c, req) {
		return
	}

	// Keep the denormalized serial on existing orders in step with the car
	err := ctrl.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"serial_number": req.SerialNumber,
			"model_id":      req.ModelID,
			"customer_id":   req.CustomerID,
		}
		if err := tx.Model(&car).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Model(&models.Order{}).
			Where("car_id = ?", car.ID).
			Update("car_serial_number", req.SerialNumber).Error
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := ctrl.db.Preload("Model").Preload("Customer").First(&car, id).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    car,
	})
}

// Delete handles DELETE /api/v1/cars/:id - rejected while any order
// references the car
func (ctrl *CarController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var car models.Car
	if err := ctrl.db.First(&car, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Car not found",
				},
			})
			return
		}
		respondServiceError(c, err)
		return
	}

	var orderCount int64
	if err := ctrl.db.Model(&models.Order{}).Where("car_id = ?", id).Count(&orderCount).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if orderCount > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONSTRAINT_VIOLATION",
				"message": "Car cannot be deleted while orders reference it",
			},
		})
		return
	}

	if err := ctrl.db.Delete(&car).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id": car.ID,
		},
	})
}

// validateReferences checks the serial number format and that the referenced
// model and customer exist, writing the error envelope on failure
func (ctrl *CarController) validateReferences(c *gin.Context, req CarRequest) bool {
	if !models.IsValidSerialNumber(req.SerialNumber) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Serial number must be exactly 17 characters from A-Z and 0-9",
				"field":   "serial_number",
			},
		})
		return false
	}

	var count int64
	if err := ctrl.db.Model(&models.RepairableModel{}).Where("id = ?", req.ModelID).Count(&count).Error; err != nil {
		respondServiceError(c, err)
		return false
	}
	if count == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REFERENCE_NOT_FOUND",
				"message": "Repairable model not found",
				"field":   "model_id",
			},
		})
		return false
	}

	if err := ctrl.db.Model(&models.Customer{}).Where("id = ?", req.CustomerID).Count(&count).Error; err != nil {
		respondServiceError(c, err)
		return false
	}
	if count == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REFERENCE_NOT_FOUND",
				"message": "Customer not found",
				"field":   "customer_id",
			},
		})
		return false
	}

	return true
}
