package models

import (
	"regexp"
	"time"
)

// SerialNumberLength is the exact length of a car serial number (VIN-like)
const SerialNumberLength = 17

var serialNumberPattern = regexp.MustCompile(`^[A-Z0-9]{17}$`)

// IsValidSerialNumber reports whether serial is exactly 17 characters from [A-Z0-9]
func IsValidSerialNumber(serial string) bool {
	return serialNumberPattern.MatchString(serial)
}

// Car represents a customer's vehicle identified by a globally unique serial number
type Car struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	SerialNumber string           `gorm:"size:17;uniqueIndex;not null" json:"serial_number"`
	ModelID      uint             `gorm:"not null;index" json:"model_id"`
	Model        *RepairableModel `gorm:"foreignKey:ModelID" json:"model,omitempty"`
	CustomerID   uint             `gorm:"not null;index" json:"customer_id"`
	Customer     *Customer        `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Orders       []Order          `gorm:"foreignKey:CarID" json:"orders,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// TableName specifies the table name for the Car model
func (Car) TableName() string {
	return "cars"
}
