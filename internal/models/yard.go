package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Yard is a storage yard ("campa") where received vehicles are kept.
type Yard struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key"`
	Name      string    `json:"name" gorm:"not null" binding:"required"`
	Address   *string   `json:"address"`
	Capacity  int       `json:"capacity"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (y *Yard) BeforeCreate(tx *gorm.DB) error {
	if y.ID == "" {
		y.ID = uuid.New().String()
	}
	return nil
}
