package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer represents a client of the design studio.
type Customer struct {
	ID        int            `gorm:"primaryKey;column:id" json:"id"`
	Name      string         `gorm:"column:name;not null" json:"name" binding:"required"`
	Email     string         `gorm:"column:email" json:"email"`
	Phone     string         `gorm:"column:phone" json:"phone"`
	Address   string         `gorm:"column:address" json:"address"`
	City      string         `gorm:"column:city" json:"city"`
	GSTNumber string         `gorm:"column:gst_number" json:"gst_number"`
	Stage     string         `gorm:"column:stage;default:'lead'" json:"stage"` // lead, prospect, client
	CreatedBy int            `gorm:"column:created_by" json:"created_by"`
	CreatedAt time.Time      `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Customer
func (Customer) TableName() string {
	return "customers"
}
