package inventory

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"shopledger-backend/internal/models"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrTransactionNotFound = errors.New("stock transaction not found")
	ErrInvalidQuantity     = errors.New("quantity must be greater than zero")
	ErrInvalidType         = errors.New("transaction type must be IN or OUT")
	ErrCompanyNotFound     = errors.New("company not found")
)

type CreateTransactionInput struct {
	ProductID     uuid.UUID
	Quantity      int
	Type          models.TransactionType
	PurchasePrice *decimal.Decimal
	PartyName     string
}

// CreateTransaction writes one ledger entry. An IN entry with a price also
// refreshes the product's current purchase price; both writes share a commit.
func CreateTransaction(db *gorm.DB, in CreateTransactionInput) (*models.StockTransaction, error) {
	if in.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if in.Type != models.TransactionIn && in.Type != models.TransactionOut {
		return nil, ErrInvalidType
	}

	var trx models.StockTransaction
	err := db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", in.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		trx = models.StockTransaction{
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			Type:      in.Type,
			PartyName: in.PartyName,
		}
		if in.PurchasePrice != nil {
			trx.PurchasePrice = *in.PurchasePrice
		}

		if err := tx.Create(&trx).Error; err != nil {
			return err
		}

		// This is how the product's cost basis is kept current.
		if in.Type == models.TransactionIn && in.PurchasePrice != nil {
			if err := tx.Model(&product).Update("purchase_price", *in.PurchasePrice).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &trx, nil
}

// DeleteTransaction soft-deletes a ledger entry. Sale-linked entries may be
// deleted independently of their sale; the sale's ledger link is not guarded.
func DeleteTransaction(db *gorm.DB, id uuid.UUID) (*models.StockTransaction, error) {
	var trx models.StockTransaction
	if err := db.First(&trx, "id = ? AND NOT is_deleted", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	now := time.Now()
	trx.IsDeleted = true
	trx.DeletedAt = &now
	if err := db.Save(&trx).Error; err != nil {
		return nil, err
	}
	return &trx, nil
}

type ListTransactionsParams struct {
	Skip           int
	Limit          int
	IncludeDeleted bool
}

func ListTransactions(db *gorm.DB, params ListTransactionsParams) ([]models.StockTransaction, error) {
	if params.Limit <= 0 {
		params.Limit = 100
	}

	q := db.Model(&models.StockTransaction{})
	if !params.IncludeDeleted {
		q = q.Where("NOT is_deleted")
	}

	var rows []models.StockTransaction
	err := q.Order("created_at DESC").
		Offset(params.Skip).Limit(params.Limit).
		Find(&rows).Error
	return rows, err
}
