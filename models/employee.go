package models

import (
	"time"
)

// Employee positions recognized by the service center.
const (
	PositionSeniorMechanic        = "Senior Mechanic"
	PositionMechanic              = "Mechanic"
	PositionElectrician           = "Electrician"
	PositionMechanicDiagnostician = "Mechanic-Diagnostician"
)

// Positions returns the fixed set of valid employee positions
func Positions() []string {
	return []string{
		PositionSeniorMechanic,
		PositionMechanic,
		PositionElectrician,
		PositionMechanicDiagnostician,
	}
}

// IsValidPosition reports whether position is one of the recognized positions
func IsValidPosition(position string) bool {
	for _, p := range Positions() {
		if p == position {
			return true
		}
	}
	return false
}

// Employee represents a staff member who works on repair orders
type Employee struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FullName  string    `gorm:"size:100;not null" json:"full_name"`
	Age       int       `gorm:"not null;check:age >= 18 AND age <= 100" json:"age"`
	Gender    string    `gorm:"size:10" json:"gender"`
	Address   string    `gorm:"size:200" json:"address"`
	Phone     string    `gorm:"size:20;uniqueIndex;not null" json:"phone"`
	Position  string    `gorm:"size:50;not null" json:"position"`
	Orders    []Order   `gorm:"foreignKey:EmployeeID" json:"orders,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Employee model
func (Employee) TableName() string {
	return "employees"
}
