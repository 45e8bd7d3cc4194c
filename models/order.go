package models

import (
	"time"
)

// Order represents a repair ticket linking one customer, one car, one employee
// and the set of fault types being repaired
type Order struct {
	ID                 uint         `gorm:"primaryKey" json:"id"`
	OrderDate          time.Time    `gorm:"not null;index" json:"order_date"`
	ReturnDate         *time.Time   `json:"return_date"`
	HasWarranty        bool         `gorm:"not null;default:false" json:"has_warranty"`
	WarrantyPeriodDays *int         `json:"warranty_period_days"` // nullable, 0-365 when set
	TotalPrice         float64      `gorm:"type:decimal(10,2);not null" json:"total_price"` // derived from selected faults, never client-supplied
	CustomerID         uint         `gorm:"not null;index" json:"customer_id"`
	Customer           *Customer    `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	CarSerialNumber    string       `gorm:"size:17;index" json:"car_serial_number"` // denormalized copy for display and filtering
	CarID              uint         `gorm:"not null;index" json:"car_id"`
	Car                *Car         `gorm:"foreignKey:CarID" json:"car,omitempty"`
	EmployeeID         uint         `gorm:"not null;index" json:"employee_id"`
	Employee           *Employee    `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	PhotoS3Key         *string      `json:"photo_s3_key"`                 // nullable, S3 key for the uploaded damage photo
	PhotoURL           *string      `gorm:"-" json:"photo_url,omitempty"` // computed field, presigned URL for the photo
	Version            uint         `gorm:"not null;default:1" json:"version"` // optimistic concurrency counter
	OrderFaults        []OrderFault `gorm:"foreignKey:OrderID" json:"order_faults,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderFault records that a given fault type is addressed within a given order
type OrderFault struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	OrderID     uint       `gorm:"not null;index;uniqueIndex:idx_order_fault" json:"order_id"`
	FaultTypeID uint       `gorm:"not null;index;uniqueIndex:idx_order_fault" json:"fault_type_id"`
	FaultType   *FaultType `gorm:"foreignKey:FaultTypeID" json:"fault_type,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TableName specifies the table name for the OrderFault model
func (OrderFault) TableName() string {
	return "order_faults"
}

// AllModels lists every model in migration order
func AllModels() []interface{} {
	return []interface{}{
		&Customer{},
		&Employee{},
		&RepairableModel{},
		&FaultType{},
		&Car{},
		&Order{},
		&OrderFault{},
	}
}
