package models

import (
	"time"
)

// FaultType represents a cataloged defect pattern for one vehicle model,
// with a standard repair cost
type FaultType struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	Description   string           `gorm:"size:200;not null" json:"description"`
	RepairMethods string           `gorm:"size:500;not null" json:"repair_methods"`
	RepairCost    float64          `gorm:"type:decimal(10,2);not null;check:repair_cost >= 0" json:"repair_cost"`
	ModelID       uint             `gorm:"not null;index" json:"model_id"`
	Model         *RepairableModel `gorm:"foreignKey:ModelID" json:"model,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// TableName specifies the table name for the FaultType model
func (FaultType) TableName() string {
	return "fault_types"
}
