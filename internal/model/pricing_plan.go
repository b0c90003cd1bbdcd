package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PricingPlan is a package offered on the pricing page.
// At most one plan is expected to be popular; this is editorial, not enforced.
type PricingPlan struct {
	ID          uuid.UUID                   `json:"id" gorm:"type:char(36);primaryKey"`
	Name        string                      `json:"name" gorm:"size:100;not null"`
	Description string                      `json:"description" gorm:"size:500"`
	Price       decimal.Decimal             `json:"price" gorm:"type:decimal(12,2);not null;default:0"`
	Currency    string                      `json:"currency" gorm:"size:3;not null;default:'INR'"`
	Period      string                      `json:"period" gorm:"size:30"`
	Features    datatypes.JSONSlice[string] `json:"features"`
	Popular     bool                        `json:"popular" gorm:"not null;default:false"`
	Order       int                         `json:"order" gorm:"column:display_order;not null;default:0;index"`
	IsActive    bool                        `json:"isActive" gorm:"not null;index"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (p *PricingPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
