package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product carries the current cost basis; the stock level itself is never
// stored, it is always derived from the stock transaction ledger.
type Product struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyID     *uuid.UUID `gorm:"type:uuid;index"`
	Company       *Company
	Name          string          `gorm:"not null"`
	Category      string          `gorm:"size:100"`
	Unit          string          `gorm:"size:20;not null"` // kg, pcs, box etc.
	PurchasePrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	MinStock      int             `gorm:"not null;default:5"` // reorder threshold
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
