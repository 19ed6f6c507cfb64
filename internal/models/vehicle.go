package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Vehicle struct {
	ID         string        `json:"id" gorm:"type:uuid;primary_key"`
	Plate      string        `json:"plate" gorm:"uniqueIndex;not null" binding:"required"`
	VIN        *string       `json:"vin"`
	Make       string        `json:"make" gorm:"not null" binding:"required"`
	Model      string        `json:"model" gorm:"not null" binding:"required"`
	Year       *int          `json:"year"`
	Color      *string       `json:"color"`
	ClientID   *string       `json:"client_id" gorm:"type:uuid;index"`
	YardID     *string       `json:"yard_id" gorm:"type:uuid;index"`
	Status     VehicleStatus `json:"status" gorm:"default:RECEIVED"`
	ReceivedAt *time.Time    `json:"received_at"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

type VehicleStatus string

const (
	VehicleStatusReceived    VehicleStatus = "RECEIVED"
	VehicleStatusDismantling VehicleStatus = "DISMANTLING"
	VehicleStatusDismantled  VehicleStatus = "DISMANTLED"
	VehicleStatusScrapped    VehicleStatus = "SCRAPPED"
)

func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.Status == "" {
		v.Status = VehicleStatusReceived
	}
	return nil
}
