package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentType string

const (
	PaymentCredit PaymentType = "Credit"
	PaymentDebit  PaymentType = "Debit"
)

type Sale struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID     uuid.UUID `gorm:"type:uuid;index;not null"`
	Product       *Product
	CustomerName  string          `gorm:"not null"`
	CustomerPhone string          `gorm:"size:11"`
	Quantity      int             `gorm:"not null"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Snapshot of the product's purchase price at sale time.
	PurchasePrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"` // selling_price * quantity
	PaymentType   PaymentType     `gorm:"size:10;not null"`
	CreatedAt     time.Time       `gorm:"index"`
	UpdatedAt     time.Time

	IsDeleted bool `gorm:"not null;default:false;index"`
	DeletedAt *time.Time
}

func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
