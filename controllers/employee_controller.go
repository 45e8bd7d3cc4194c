package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vmalakhov/service-center-api/models"
)

// EmployeeRequest represents the request body for creating or updating an employee
type EmployeeRequest struct {
	FullName string `json:"full_name" binding:"required,max=100"`
	Age      int    `json:"age" binding:"required,gte=18,lte=100"`
	Gender   string `json:"gender" binding:"omitempty,max=10"`
	Address  string `json:"address" binding:"omitempty,max=200"`
	Phone    string `json:"phone" binding:"required,max=20"`
	Position string `json:"position" binding:"required,max=50"`
}

// EmployeeController handles employee CRUD
type EmployeeController struct {
	db *gorm.DB
}

// NewEmployeeController creates an EmployeeController backed by the given database handle
func NewEmployeeController(db *gorm.DB) *EmployeeController {
	return &EmployeeController{db: db}
}

// Create handles POST /api/v1/employees
func (ctrl *EmployeeController) Create(c *gin.Context) {
	var req EmployeeRequest
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

	if !models.IsValidPosition(req.Position) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Unknown employee position",
				"field":   "position",
			},
		})
		return
	}

	employee := models.Employee{
		FullName: req.FullName,
		Age:      req.Age,
		Gender:   req.Gender,
		Address:  req.Address,
		Phone:    req.Phone,
		Position: req.Position,
	}

	if err := ctrl.db.Create(&employee).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    employee,
	})
}

// List handles GET /api/v1/employees - optionally filtered by ?position=
func (ctrl *EmployeeController) List(c *gin.Context) {
	query := ctrl.db.Model(&models.Employee{})
	if position := c.Query("position"); position != "" {
		query = query.Where("position = ?", position)
	}

	var employees []models.Employee
	if err := query.Order("full_name ASC").Find(&employees).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    employees,
	})
}

// Positions handles GET /api/v1/employees/positions - the fixed position set
func (ctrl *EmployeeController) Positions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    models.Positions(),
	})
}

// Get handles GET /api/v1/employees/:id
func (ctrl *EmployeeController) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var employee models.Employee
	if err := ctrl.db.First(&employee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Employee not found",
				},
			})
			return
		}
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    employee,
	})
}

// Update handles PUT /api/v1/employees/:id
func (ctrl *EmployeeController) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req EmployeeRequest
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

	if !models.IsValidPosition(req.Position) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Unknown employee position",
				"field":   "position",
			},
		})
		return
	}

	var employee models.Employee
	if err := ctrl.db.First(&employee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Employee not found",
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
		"position":  req.Position,
	}
	if err := ctrl.db.Model(&employee).Updates(updates).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	if err := ctrl.db.First(&employee, id).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    employee,
	})
}

// Delete handles DELETE /api/v1/employees/:id - rejected while any order
// references the employee
func (ctrl *EmployeeController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var employee models.Employee
	if err := ctrl.db.First(&employee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Employee not found",
				},
			})
			return
		}
		respondServiceError(c, err)
		return
	}

	var orderCount int64
	if err := ctrl.db.Model(&models.Order{}).Where("employee_id = ?", id).Count(&orderCount).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if orderCount > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONSTRAINT_VIOLATION",
				"message": "Employee cannot be deleted while orders reference them",
			},
		})
		return
	}

	if err := ctrl.db.Delete(&employee).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id": employee.ID,
		},
	})
}
