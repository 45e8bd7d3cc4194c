package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vmalakhov/service-center-api/models"
)

// RepairableModelRequest represents the request body for creating or updating
// a repairable vehicle model
type RepairableModelRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	Manufacturer string `json:"manufacturer" binding:"omitempty,max=50"`
	Features     string `json:"features" binding:"omitempty,max=500"`
}

// RepairableModelController handles vehicle model CRUD
type RepairableModelController struct {
	db *gorm.DB
}

// NewRepairableModelController creates a RepairableModelController backed by
// the given database handle
func NewRepairableModelController(db *gorm.DB) *RepairableModelController {
	return &RepairableModelController{db: db}
}

// Create handles POST /api/v1/models
func (ctrl *RepairableModelController) Create(c *gin.Context) {
	var req RepairableModelRequest
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

	model := models.RepairableModel{
		Name:         req.Name,
		Manufacturer: req.Manufacturer,
		Features:     req.Features,
	}

	if err := ctrl.db.Create(&model).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    model,
	})
}

// List handles GET /api/v1/models
func (ctrl *RepairableModelController) List(c *gin.Context) {
	var repairableModels []models.RepairableModel
	if err := ctrl.db.Order("manufacturer ASC, name ASC").Find(&repairableModels).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    repairableModels,
	})
}

// Get handles GET /api/v1/models/:id
func (ctrl *RepairableModelController) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var model models.RepairableModel
	if err := ctrl.db.Preload("FaultTypes").First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Repairable model not found",
				},
			})
			return
		}
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    model,
	})
}

// Update handles PUT /api/v1/models/:id
func (ctrl *RepairableModelController) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req RepairableModelRequest
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

	var model models.RepairableModel
	if err := ctrl.db.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Repairable model not found",
				},
			})
			return
		}
		respondServiceError(c, err)
		return
	}

	updates := map[string]interface{}{
		"name":         req.Name,
		"manufacturer": req.Manufacturer,
		"features":     req.Features,
	}
	if err := ctrl.db.Model(&model).Updates(updates).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	if err := ctrl.db.First(&model, id).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    model,
	})
}

// Delete handles DELETE /api/v1/models/:id - the model's fault types are
// deleted with it, but the delete is rejected while any car uses the model or
// any of its fault types is referenced by an order
func (ctrl *RepairableModelController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var model models.RepairableModel
	if err := ctrl.db.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Repairable model not found",
				},
			})
			return
		}
		respondServiceError(c, err)
		return
	}

	var carCount int64
	if err := ctrl.db.Model(&models.Car{}).Where("model_id = ?", id).Count(&carCount).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if carCount > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONSTRAINT_VIOLATION",
				"message": "Model cannot be deleted while cars reference it",
			},
		})
		return
	}

	var orderFaultCount int64
	err := ctrl.db.Model(&models.OrderFault{}).
		Joins("JOIN fault_types ON fault_types.id = order_faults.fault_type_id").
		Where("fault_types.model_id = ?", id).
		Count(&orderFaultCount).Error
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if orderFaultCount > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONSTRAINT_VIOLATION",
				"message": "Model cannot be deleted while orders reference its fault types",
			},
		})
		return
	}

	err = ctrl.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("model_id = ?", id).Delete(&models.FaultType{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model).Error
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id": model.ID,
		},
	})
}
