package models

import (
	"time"
)

// Customer represents a client of the service center
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FullName  string    `gorm:"size:100;not null" json:"full_name"`
	Age       int       `gorm:"not null;check:age >= 18 AND age <= 100" json:"age"`
	Gender    string    `gorm:"size:10" json:"gender"`
	Address   string    `gorm:"size:200" json:"address"`
	Phone     string    `gorm:"size:20;uniqueIndex;not null" json:"phone"`
	Cars      []Car     `gorm:"foreignKey:CustomerID" json:"cars,omitempty"`
	Orders    []Order   `gorm:"foreignKey:CustomerID" json:"orders,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
