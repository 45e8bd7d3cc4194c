package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vmalakhov/service-center-api/models"
	"github.com/vmalakhov/service-center-api/services"
)

// OrderRequest represents the request body for creating or updating an order.
// There is no price field: the total is always derived server-side from the
// fault selection.
type OrderRequest struct {
	ID                 *uint      `json:"id"`      // optional echo of the target id on updates
	Version            *uint      `json:"version"` // optional: the version the client last read; a superseded value is rejected
	OrderDate          time.Time  `json:"order_date" binding:"required"`
	ReturnDate         *time.Time `json:"return_date"`
	HasWarranty        bool       `json:"has_warranty"`
	WarrantyPeriodDays *int       `json:"warranty_period_days" binding:"omitempty,gte=0,lte=365"`
	CustomerID         uint       `json:"customer_id" binding:"required"`
	EmployeeID         uint       `json:"employee_id" binding:"required"`
	CarSerialNumber    string     `json:"car_serial_number" binding:"required,len=17"`
	FaultTypeIDs       []uint     `json:"fault_type_ids"`
}

// OrderController handles the order aggregate endpoints
type OrderController struct {
	orders *services.OrderService
}

// NewOrderController creates an OrderController over the given order service
func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

func (req OrderRequest) toInput() services.OrderInput {
	return services.OrderInput{
		OrderDate:          req.OrderDate,
		ReturnDate:         req.ReturnDate,
		HasWarranty:        req.HasWarranty,
		WarrantyPeriodDays: req.WarrantyPeriodDays,
		CustomerID:         req.CustomerID,
		EmployeeID:         req.EmployeeID,
		CarSerialNumber:    req.CarSerialNumber,
		FaultTypeIDs:       req.FaultTypeIDs,
		ExpectedVersion:    req.Version,
	}
}

// Create handles POST /api/v1/orders
func (ctrl *OrderController) Create(c *gin.Context) {
	var req OrderRequest
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

	order, err := ctrl.orders.Create(req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	attachPhotoURL(order)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// List handles GET /api/v1/orders - optional conjunctive filters
// ?serial= substring, ?start_date= / ?end_date= (YYYY-MM-DD), ?model_id=
func (ctrl *OrderController) List(c *gin.Context) {
	var filter services.OrderFilter
	filter.SerialNumber = c.Query("serial")

	if raw := c.Query("start_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "start_date must be formatted as YYYY-MM-DD",
					"field":   "start_date",
				},
			})
			return
		}
		filter.StartDate = &parsed
	}
	if raw := c.Query("end_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "end_date must be formatted as YYYY-MM-DD",
					"field":   "end_date",
				},
			})
			return
		}
		filter.EndDate = &parsed
	}
	if raw := c.Query("model_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "model_id must be a number",
					"field":   "model_id",
				},
			})
			return
		}
		modelID := uint(parsed)
		filter.ModelID = &modelID
	}

	orders, err := ctrl.orders.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	for i := range orders {
		attachPhotoURL(&orders[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// Get handles GET /api/v1/orders/:id
func (ctrl *OrderController) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	order, err := ctrl.orders.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	attachPhotoURL(order)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// Update handles PUT /api/v1/orders/:id
func (ctrl *OrderController) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req OrderRequest
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

	// A payload id that disagrees with the URL targets nothing
	if req.ID != nil && *req.ID != id {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Order id in payload does not match the request",
			},
		})
		return
	}

	order, err := ctrl.orders.Update(id, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	attachPhotoURL(order)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// Delete handles DELETE /api/v1/orders/:id
func (ctrl *OrderController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	order, err := ctrl.orders.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := ctrl.orders.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}

	// Best effort: the photo has no value once the order is gone
	if order.PhotoS3Key != nil {
		if photoService := services.GetPhotoService(); photoService != nil {
			_ = photoService.DeletePhoto(*order.PhotoS3Key)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id": id,
		},
	})
}

// FaultsByCar handles GET /api/v1/orders/faults-by-car?serial_number= -
// returns the fault types selectable for the car's model plus the owning
// customer, for populating a fault-selection input
func (ctrl *OrderController) FaultsByCar(c *gin.Context) {
	serialNumber := c.Query("serial_number")
	if serialNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "serial_number is required",
				"field":   "serial_number",
			},
		})
		return
	}

	result, err := ctrl.orders.SelectableFaults(serialNumber)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "CAR_NOT_FOUND",
					"message": "Car not found",
				},
			})
			return
		}
		respondServiceError(c, err)
		return
	}

	if len(result.Faults) == 0 {
		// Distinct from car-not-found: the car resolved but its model has no
		// cataloged faults
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NO_FAULTS_CATALOGED",
				"message": "No faults are cataloged for this car's model",
			},
			"data": gin.H{
				"customer_id":   result.CustomerID,
				"customer_name": result.CustomerName,
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// attachPhotoURL fills the computed PhotoURL field from the stored S3 key
func attachPhotoURL(order *models.Order) {
	if order == nil || order.PhotoS3Key == nil {
		return
	}
	photoService := services.GetPhotoService()
	if photoService == nil {
		return
	}
	if url, err := photoService.GetPhotoURL(*order.PhotoS3Key); err == nil && url != "" {
		order.PhotoURL = &url
	}
}
