package models

import (
	"time"
)

// RepairableModel represents a vehicle model the service center can repair
type RepairableModel struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Name         string      `gorm:"size:100;not null;uniqueIndex:idx_model_name_manufacturer" json:"name"`
	Manufacturer string      `gorm:"size:50;uniqueIndex:idx_model_name_manufacturer" json:"manufacturer"`
	Features     string      `gorm:"size:500" json:"features"`
	FaultTypes   []FaultType `gorm:"foreignKey:ModelID" json:"fault_types,omitempty"`
	Cars         []Car       `gorm:"foreignKey:ModelID" json:"cars,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// TableName specifies the table name for the RepairableModel model
func (RepairableModel) TableName() string {
	return "repairable_models"
}
