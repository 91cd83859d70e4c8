package models

import (
	"time"

	"gorm.io/datatypes"
)

// OrderModel is the hosting_orders row. The configuration is stored both as
// flat columns (for aggregation) and as a JSON snapshot of what the client sent.
type OrderModel struct {
	ID              string         `gorm:"primaryKey;size:32"`
	Name            string         `gorm:"size:255;not null"`
	Location        string         `gorm:"size:32;not null"`
	OperatingSystem string         `gorm:"size:64;not null"`
	Cores           int            `gorm:"not null"`
	RAMGb           int            `gorm:"column:ram_gb;not null"`
	StorageGb       int            `gorm:"column:storage_gb;not null"`
	BillingPeriod   string         `gorm:"size:16;not null"`
	QuotedPrice     float64        `gorm:"not null"`
	MonthlyRevenue  float64        `gorm:"not null"`
	Currency        string         `gorm:"size:3;not null;default:'EUR'"`
	Configuration   datatypes.JSON `gorm:"type:json"`
	ClientName      *string        `gorm:"size:255"`
	ClientEmail     *string        `gorm:"size:255;index"`
	ClientIP        *string        `gorm:"column:client_ip;size:64"`
	Status          string         `gorm:"size:20;not null;default:'active';index"`
	CreatedAt       time.Time      `gorm:"index"`
	UpdatedAt       time.Time
}

func (OrderModel) TableName() string {
	return "hosting_orders"
}
