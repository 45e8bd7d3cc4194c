package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vmalakhov/service-center-api/models"
)

// FaultTypeRequest represents the request body for creating or updating a fault type
type FaultTypeRequest struct {
	Description   string  `json:"description" binding:"required,max=200"`
	RepairMethods string  `json:"repair_methods" binding:"required,max=500"`
	RepairCost    float64 `json:"repair_cost" binding:"gte=0"`
	ModelID       uint    `json:"model_id" binding:"required"`
}

// FaultTypeController handles fault type CRUD
type FaultTypeController struct {
	db *gorm.DB
}

// NewFaultTypeController creates a FaultTypeController backed by the given database handle
func NewFaultTypeController(db *gorm.DB) *FaultTypeController {
	return &FaultTypeController{db: db}
}

// Create handles POST /api/v1/fault-types
func (ctrl *FaultTypeController) Create(c *gin.Context) {
	var req FaultTypeRequest
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

	if !ctrl.modelExists(c, req.ModelID) {
		return
	}

	faultType := models.FaultType{
		Description:   req.Description,
		RepairMethods: req.RepairMethods,
		RepairCost:    req.RepairCost,
		ModelID:       req.ModelID,
	}

	if err := ctrl.db.Create(&faultType).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	if err := ctrl.db.Preload("Model").First(&faultType, faultType.ID).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    faultType,
	})
}

// List handles GET /api/v1/fault-types - optionally filtered by ?model_id=
func (ctrl *FaultTypeController) List(c *gin.Context) {
	query := ctrl.db.Model(&models.FaultType{}).Preload("Model")
	if modelID := c.Query("model_id"); modelID != "" {
		query = query.Where("model_id = ?", modelID)
	}

	var faultTypes []models.FaultType
	if err := query.Order("description ASC").Find(&faultTypes).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    faultTypes,
	})
}

// Get handles GET /api/v1/fault-types/:id
func (ctrl *FaultTypeController) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var faultType models.FaultType
	if err := ctrl.db.Preload("Model").First(&faultType, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Fault type not found",
				},
			})
			return
		}
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    faultType,
	})
}

// Update handles PUT /api/v1/fault-types/:id
func (ctrl *FaultTypeController) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req FaultTypeRequest
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

	var faultType models.FaultType
	if err := ctrl.db.First(&faultType, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Fault type not found",
				},
			})
			return
		}
		respondServiceError(c, err)
		return
	}

	if !ctrl.modelExists(c, req.ModelID) {
		return
	}

	updates := map[string]interface{}{
		"description":    req.Description,
		"repair_methods": req.RepairMethods,
		"repair_cost":    req.RepairCost,
		"model_id":       req.ModelID,
	}
	if err := ctrl.db.Model(&faultType).Updates(updates).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	if err := ctrl.db.Preload("Model").First(&faultType, id).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    faultType,
	})
}

// Delete handles DELETE /api/v1/fault-types/:id - rejected while the fault
// type is referenced by any order
func (ctrl *FaultTypeController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var faultType models.FaultType
	if err := ctrl.db.First(&faultType, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Fault type not found",
				},
			})
			return
		}
		respondServiceError(c, err)
		return
	}

	var referenceCount int64
	if err := ctrl.db.Model(&models.OrderFault{}).Where("fault_type_id = ?", id).Count(&referenceCount).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if referenceCount > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONSTRAINT_VIOLATION",
				"message": "Fault type cannot be deleted while orders reference it",
			},
		})
		return
	}

	if err := ctrl.db.Delete(&faultType).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id": faultType.ID,
		},
	})
}

// modelExists verifies the referenced repairable model and writes the error
// envelope when it does not resolve
func (ctrl *FaultTypeController) modelExists(c *gin.Context, modelID uint) bool {
	var count int64
	if err := ctrl.db.Model(&models.RepairableModel{}).Where("id = ?", modelID).Count(&count).Error; err != nil {
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
	return true
}
