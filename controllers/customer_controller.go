package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vmalakhov/service-center-api/models"
)

// CustomerRequest represents the request body for creating or updating a customer
type CustomerRequest struct {
	FullName string `json:"full_name" binding:"required,max=100"`
	Age      int    `json:"age" binding:"required,gte=18,lte=100"`
	Gender   string `json:"gender" binding:"omitempty,max=10"`
	Address  string `json:"address" binding:"omitempty,max=200"`
	Phone    string `json:"phone" binding:"required,max=20"`
}

// CustomerController handles customer CRUD
type CustomerController struct {
	db *gorm.DB
}

// NewCustomerController creates a CustomerController backed by the given database handle
func NewCustomerController(db *gorm.DB) *CustomerController {
	return &CustomerController{db: db}
}

// Create handles POST /api/v1/customers
func (ctrl *CustomerController) Create(c *gin.Context) {
	var req CustomerRequest
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

	customer := models.Customer{
		FullName: req.FullName,
		Age:      req.Age,
		Gender:   req.Gender,
		Address:  req.Address,
		Phone:    req.Phone,
	}

	if err := ctrl.db.Create(&customer).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    customer,
	})
}

// List handles GET /api/v1/customers
func (ctrl *CustomerController) List(c *gin.Context) {
	var customers []models.Customer
	if err := ctrl.db.Order("full_name ASC").Find(&customers).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customers,
	})
}

// Get handles GET /api/v1/customers/:id
func (ctrl *CustomerController) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var customer models.Customer
	if err := ctrl.db.Preload("Cars.Model").First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Customer not found",
				},
			})
			return
		}
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customer,
	})
}

// Update handles PUT /api/v1/customers/:id - replaces the mutable fields wholesale
func (ctrl *CustomerController) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req CustomerRequest
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

	var customer models.Customer
	if err := ctrl.db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Customer not found",
				},
			})
			return
		}
		respondServiceError(c, err)
		return
	}

	updates := map[string]interface{}{
		"full_name": req.FullName,
		"age":       req.Age,
		"gender":    req.Gender,
		"address":   req.Address,
		"phone":     req.Phone,
	}
	if err := ctrl.db.Model(&customer).Updates(updates).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	if err := ctrl.db.First(&customer, id).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customer,
	})
}

// Delete handles DELETE /api/v1/customers/:id - the customer's cars are
// deleted with it, but the delete is rejected while any order references the
// customer or one of those cars
func (ctrl *CustomerController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var customer models.Customer
	if err := ctrl.db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Customer not found",
				},
			})
			return
		}
		respondServiceError(c, err)
		return
	}

	var orderCount int64
	err := ctrl.db.Model(&models.Order{}).
		Joins("JOIN cars ON cars.id = orders.car_id").
		Where("orders.customer_id = ? OR cars.customer_id = ?", id, id).
		Count(&orderCount).Error
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if orderCount > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONSTRAINT_VIOLATION",
				"message": "Customer cannot be deleted while orders reference them or their cars",
			},
		})
		return
	}

	err = ctrl.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", id).Delete(&models.Car{}).Error; err != nil {
			return err
		}
		return tx.Delete(&customer).Error
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id": customer.ID,
		},
	})
}
