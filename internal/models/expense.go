package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense rows carry a signed amount: negative for money going out,
// positive for income/gifts coming in.
type Expense struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name        string          `gorm:"not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity    int             `gorm:"not null;default:1"`
	Details     string
	ExpenseDate time.Time `gorm:"index;not null"` // accounting date, distinct from created_at
	CreatedAt   time.Time
	UpdatedAt   time.Time

	IsDeleted bool `gorm:"not null;default:false;index"`
	DeletedAt *time.Time
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
