package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionIn  TransactionType = "IN"
	TransactionOut TransactionType = "OUT"
)

// StockTransaction is one ledger entry: a single inbound or outbound stock
// movement. Entries are immutable once written except for soft deletion and,
// for sale-linked entries, edits driven by the owning sale.
type StockTransaction struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null"`
	Product   *Product
	Quantity  int             `gorm:"not null"`
	Type      TransactionType `gorm:"size:3;not null"`
	PartyName string          `gorm:"size:255"`
	// Price at the time of the movement, not a live reference to the product.
	PurchasePrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	SaleID        *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	IsDeleted bool `gorm:"not null;default:false;index"`
	DeletedAt *time.Time
}

func (t *StockTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
