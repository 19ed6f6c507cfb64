package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Part is a component recovered from a vehicle and offered for sale.
type Part struct {
	ID          string          `json:"id" gorm:"type:uuid;primary_key"`
	VehicleID   *string         `json:"vehicle_id" gorm:"type:uuid;index"`
	Name        string          `json:"name" gorm:"not null" binding:"required"`
	Reference   *string         `json:"reference" gorm:"index"`
	Description *string         `json:"description"`
	Condition   PartCondition   `json:"condition" gorm:"default:USED"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	Stock       int             `json:"stock"`
	Status      PartStatus      `json:"status" gorm:"default:AVAILABLE"`
	Images      *string         `json:"images"` // comma separated URLs

	WooProductID *int64     `json:"woo_product_id"`
	SyncedAt     *time.Time `json:"synced_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PartCondition string

const (
	PartConditionUsed        PartCondition = "USED"
	PartConditionRefurbished PartCondition = "REFURBISHED"
	PartConditionForRepair   PartCondition = "FOR_REPAIR"
)

type PartStatus string

const (
	PartStatusAvailable PartStatus = "AVAILABLE"
	PartStatusReserved  PartStatus = "RESERVED"
	PartStatusSold      PartStatus = "SOLD"
)

func (p *Part) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = PartStatusAvailable
	}
	if p.Condition == "" {
		p.Condition = PartConditionUsed
	}
	return nil
}

// All returns every model that belongs to the schema.
func All() []interface{} {
	return []interface{}{&Client{}, &Yard{}, &Vehicle{}, &Part{}, &Setting{}}
}
