package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/vmalakhov/service-center-api/models"
)

// OrderService manages the order aggregate: the order row, its fault
// association rows and the derived total price are always written together
// inside one transaction.
type OrderService struct {
	db *gorm.DB
}

// NewOrderService creates an OrderService backed by the given database handle
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// OrderInput carries the caller-supplied fields for creating or replacing an
// order. Total price is intentionally absent: it is always derived from the
// fault selection.
type OrderInput struct {
	OrderDate          time.Time
	ReturnDate         *time.Time
	HasWarranty        bool
	WarrantyPeriodDays *int
	CustomerID         uint
	EmployeeID         uint
	CarSerialNumber    string
	FaultTypeIDs       []uint

	// ExpectedVersion, when set, is the version the caller last read. The
	// update is rejected with ErrConcurrencyConflict if the stored row has
	// already moved past it, so a client editing from a stale read cannot
	// silently overwrite a newer write.
	ExpectedVersion *uint
}

// OrderFilter holds the optional list filters. Each filter is a no-op when
// its value is absent; set filters combine with AND.
type OrderFilter struct {
	SerialNumber string
	StartDate    *time.Time
	EndDate      *time.Time
	ModelID      *uint
}

// SelectableFault describes one fault type a caller may select for an order
type SelectableFault struct {
	ID          uint    `json:"id"`
	Description string  `json:"description"`
	RepairCost  float64 `json:"repair_cost"`
	Label       string  `json:"label"`
}

// SelectableFaultsResult is the outcome of a faults-by-car lookup. An empty
// Faults slice means the car's model has no cataloged faults; the customer
// fields are populated either way.
type SelectableFaultsResult struct {
	Faults       []SelectableFault `json:"faults"`
	CustomerID   uint              `json:"customer_id"`
	CustomerName string            `json:"customer_name"`
}

// Create validates the input, derives the total price from the fault
// selection and persists the order plus its fault rows as one transaction.
func (s *OrderService) Create(input OrderInput) (*models.Order, error) {
	if err := validateOrderInput(input); err != nil {
		return nil, err
	}

	var created models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		car, err := resolveCar(tx, input.CarSerialNumber)
		if err != nil {
			return err
		}
		if err := resolveCustomer(tx, input.CustomerID); err != nil {
			return err
		}
		if err := resolveEmployee(tx, input.EmployeeID); err != nil {
			return err
		}
		faults, err := resolveFaultSelection(tx, car, input.FaultTypeIDs)
		if err != nil {
			return err
		}

		created = models.Order{
			OrderDate:          input.OrderDate,
			ReturnDate:         input.ReturnDate,
			HasWarranty:        input.HasWarranty,
			WarrantyPeriodDays: input.WarrantyPeriodDays,
			TotalPrice:         sumRepairCosts(faults),
			CustomerID:         input.CustomerID,
			EmployeeID:         input.EmployeeID,
			CarID:              car.ID,
			CarSerialNumber:    car.SerialNumber,
			Version:            1,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}

		for _, fault := range faults {
			orderFault := models.OrderFault{OrderID: created.ID, FaultTypeID: fault.ID}
			if err := tx.Create(&orderFault).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(created.ID)
}

// Update replaces the order's mutable fields and recomputes the fault
// association as a set difference against the current rows: new selections
// are inserted, deselected ones removed, the intersection is left untouched.
// A stale version surfaces as ErrConcurrencyConflict; a concurrent delete as
// ErrNotFound. Callers that pass ExpectedVersion are additionally protected
// against edits based on a stale read.
func (s *OrderService) Update(id uint, input OrderInput) (*models.Order, error) {
	if err := validateOrderInput(input); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("OrderFaults").First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if input.ExpectedVersion != nil && *input.ExpectedVersion != order.Version {
			return ErrConcurrencyConflict
		}

		car, err := resolveCar(tx, input.CarSerialNumber)
		if err != nil {
			return err
		}
		if err := resolveCustomer(tx, input.CustomerID); err != nil {
			return err
		}
		if err := resolveEmployee(tx, input.EmployeeID); err != nil {
			return err
		}
		faults, err := resolveFaultSelection(tx, car, input.FaultTypeIDs)
		if err != nil {
			return err
		}

		// Diff the new selection against the current association rows
		current := make(map[uint]bool, len(order.OrderFaults))
		for _, of := range order.OrderFaults {
			current[of.FaultTypeID] = true
		}
		selected := make(map[uint]bool, len(faults))
		var toAdd []uint
		for _, fault := range faults {
			selected[fault.ID] = true
			if !current[fault.ID] {
				toAdd = append(toAdd, fault.ID)
			}
		}
		var toRemove []uint
		for faultTypeID := range current {
			if !selected[faultTypeID] {
				toRemove = append(toRemove, faultTypeID)
			}
		}

		// Optimistic concurrency: the update only lands if the version we
		// loaded is still current
		result := tx.Model(&models.Order{}).
			Where("id = ? AND version = ?", order.ID, order.Version).
			Updates(map[string]interface{}{
				"order_date":           input.OrderDate,
				"return_date":          input.ReturnDate,
				"has_warranty":         input.HasWarranty,
				"warranty_period_days": input.WarrantyPeriodDays,
				"customer_id":          input.CustomerID,
				"employee_id":          input.EmployeeID,
				"car_id":               car.ID,
				"car_serial_number":    car.SerialNumber,
				"total_price":          sumRepairCosts(faults),
				"version":              order.Version + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrNotFound
			}
			return ErrConcurrencyConflict
		}

		if len(toRemove) > 0 {
			if err := tx.Where("order_id = ? AND fault_type_id IN ?", order.ID, toRemove).
				Delete(&models.OrderFault{}).Error; err != nil {
				return err
			}
		}
		for _, faultTypeID := range toAdd {
			orderFault := models.OrderFault{OrderID: order.ID, FaultTypeID: faultTypeID}
			if err := tx.Create(&orderFault).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(id)
}

// Delete removes the order and all of its fault association rows
func (s *OrderService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderFault{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
}

// Get loads one order with its customer, employee, car (including model) and
// fault associations
func (s *OrderService) Get(id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.
		Preload("Customer").
		Preload("Employee").
		Preload("Car.Model").
		Preload("OrderFaults.FaultType").
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// List returns the orders matching the filter, most recent order date first
func (s *OrderService) List(filter OrderFilter) ([]models.Order, error) {
	query := s.db.Model(&models.Order{}).
		Preload("Customer").
		Preload("Employee").
		Preload("Car.Model").
		Preload("OrderFaults.FaultType")

	if filter.SerialNumber != "" {
		query = query.Where("orders.car_serial_number LIKE ?", "%"+filter.SerialNumber+"%")
	}
	if filter.StartDate != nil {
		query = query.Where("orders.order_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("orders.order_date <= ?", *filter.EndDate)
	}
	if filter.ModelID != nil {
		query = query.Joins("JOIN cars ON cars.id = orders.car_id").
			Where("cars.model_id = ?", *filter.ModelID)
	}

	var orders []models.Order
	if err := query.Order("orders.order_date DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// SelectableFaults resolves a serial number to its car and returns the fault
// types cataloged for that car's model, plus the owning customer for display.
// Returns ErrNotFound when no car carries the serial number; a car whose
// model has no cataloged faults yields an empty Faults slice with the
// customer fields still populated.
func (s *OrderService) SelectableFaults(serialNumber string) (*SelectableFaultsResult, error) {
	var car models.Car
	err := s.db.
		Preload("Model.FaultTypes").
		Preload("Customer").
		Where("serial_number = ?", serialNumber).
		First(&car).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	result := &SelectableFaultsResult{
		Faults:     []SelectableFault{},
		CustomerID: car.CustomerID,
	}
	if car.Customer != nil {
		result.CustomerName = car.Customer.FullName
	}
	if car.Model != nil {
		for _, faultType := range car.Model.FaultTypes {
			result.Faults = append(result.Faults, SelectableFault{
				ID:          faultType.ID,
				Description: faultType.Description,
				RepairCost:  faultType.RepairCost,
				Label:       fmt.Sprintf("%s (%.2f USD)", faultType.Description, faultType.RepairCost),
			})
		}
	}
	return result, nil
}

func validateOrderInput(input OrderInput) error {
	if input.OrderDate.IsZero() {
		return &ValidationError{Field: "order_date", Message: "order date is required"}
	}
	if input.WarrantyPeriodDays != nil {
		if days := *input.WarrantyPeriodDays; days < 0 || days > 365 {
			return &ValidationError{
				Field:   "warranty_period_days",
				Message: "warranty period must be between 0 and 365 days",
			}
		}
	}
	return nil
}

func resolveCar(tx *gorm.DB, serialNumber string) (*models.Car, error) {
	var car models.Car
	err := tx.Where("serial_number = ?", serialNumber).First(&car).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ReferenceNotFoundError{
				Field:   "car_serial_number",
				Message: fmt.Sprintf("car with serial number %q not found", serialNumber),
			}
		}
		return nil, err
	}
	return &car, nil
}

func resolveCustomer(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&models.Customer{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return &ReferenceNotFoundError{
			Field:   "customer_id",
			Message: fmt.Sprintf("customer %d not found", id),
		}
	}
	return nil
}

func resolveEmployee(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&models.Employee{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return &ReferenceNotFoundError{
			Field:   "employee_id",
			Message: fmt.Sprintf("employee %d not found", id),
		}
	}
	return nil
}

// resolveFaultSelection resolves the de-duplicated fault selection against
// the catalog and rejects any fault that is not cataloged for the car's
// model. The model check runs on every write, not just in the selection UI.
func resolveFaultSelection(tx *gorm.DB, car *models.Car, faultTypeIDs []uint) ([]models.FaultType, error) {
	unique := make([]uint, 0, len(faultTypeIDs))
	seen := make(map[uint]bool, len(faultTypeIDs))
	for _, id := range faultTypeIDs {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	if len(unique) == 0 {
		return nil, nil
	}

	var found []models.FaultType
	if err := tx.Where("id IN ?", unique).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.FaultType, len(found))
	for _, fault := range found {
		byID[fault.ID] = fault
	}

	faults := make([]models.FaultType, 0, len(unique))
	for _, id := range unique {
		fault, ok := byID[id]
		if !ok {
			return nil, &ReferenceNotFoundError{
				Field:   "fault_type_ids",
				Message: fmt.Sprintf("fault type %d not found", id),
			}
		}
		if fault.ModelID != car.ModelID {
			return nil, &ValidationError{
				Field:   "fault_type_ids",
				Message: fmt.Sprintf("fault type %d is not cataloged for this car's model", id),
			}
		}
		faults = append(faults, fault)
	}
	return faults, nil
}

func sumRepairCosts(faults []models.FaultType) float64 {
	var total float64
	for _, fault := range faults {
		total += fault.RepairCost
	}
	// Keep the derived price at two decimal places
	return math.Round(total*100) / 100
}
