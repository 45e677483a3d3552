package sales

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"shopledger-backend/internal/inventory"
	"shopledger-backend/internal/models"
)

var (
	ErrSaleNotFound       = errors.New("sale not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrInsufficientStock  = errors.New("insufficient stock for sale")
	ErrInvalidQuantity    = errors.New("quantity must be greater than zero")
	ErrInvalidPaymentType = errors.New("payment type must be Credit or Debit")
)

func partyName(customerName string) string {
	return fmt.Sprintf("Sale to %s", customerName)
}

type CreateSaleInput struct {
	ProductID     uuid.UUID
	CustomerName  string
	CustomerPhone string
	Quantity      int
	SellingPrice  decimal.Decimal
	PaymentType   models.PaymentType
	CreatedAt     *time.Time // backdated entry when set
}

// Create persists a sale and its OUT ledger entry as one atomic unit; a sale
// without its ledger entry must never be observable. The product's purchase
// price is snapshotted onto both rows.
func Create(db *gorm.DB, in CreateSaleInput) (*models.Sale, error) {
	if in.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if in.PaymentType != models.PaymentCredit && in.PaymentType != models.PaymentDebit {
		return nil, ErrInvalidPaymentType
	}

	var sale models.Sale
	err := db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", in.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		stock, err := inventory.CurrentStock(tx, in.ProductID)
		if err != nil {
			return err
		}
		if stock < int64(in.Quantity) {
			return ErrInsufficientStock
		}

		sale = models.Sale{
			ProductID:     in.ProductID,
			CustomerName:  in.CustomerName,
			CustomerPhone: in.CustomerPhone,
			Quantity:      in.Quantity,
			SellingPrice:  in.SellingPrice,
			PurchasePrice: product.PurchasePrice,
			TotalAmount:   in.SellingPrice.Mul(decimal.NewFromInt(int64(in.Quantity))),
			PaymentType:   in.PaymentType,
		}
		if in.CreatedAt != nil {
			sale.CreatedAt = *in.CreatedAt
		}
		if err := tx.Create(&sale).Error; err != nil {
			return err
		}

		trx := models.StockTransaction{
			ProductID:     in.ProductID,
			Quantity:      in.Quantity,
			Type:          models.TransactionOut,
			PartyName:     partyName(in.CustomerName),
			PurchasePrice: product.PurchasePrice,
			SaleID:        &sale.ID,
		}
		// Keep the ledger entry on the same calendar day as the sale.
		if in.CreatedAt != nil {
			trx.CreatedAt = *in.CreatedAt
		}
		return tx.Create(&trx).Error
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

type UpdateSaleInput struct {
	ProductID     *uuid.UUID
	CustomerName  *string
	CustomerPhone *string
	Quantity      *int
	SellingPrice  *decimal.Decimal
	PaymentType   *models.PaymentType
}

// Update edits an active sale and keeps its linked ledger entry in step:
// quantity, product (with a fresh price snapshot) and the party name label
// all follow the sale inside the same commit.
func Update(db *gorm.DB, id uuid.UUID, in UpdateSaleInput) (*models.Sale, error) {
	if in.Quantity != nil && *in.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if in.PaymentType != nil && *in.PaymentType != models.PaymentCredit && *in.PaymentType != models.PaymentDebit {
		return nil, ErrInvalidPaymentType
	}

	var sale models.Sale
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&sale, "id = ? AND NOT is_deleted", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSaleNotFound
			}
			return err
		}

		quantityChanged := in.Quantity != nil && *in.Quantity != sale.Quantity
		productChanged := in.ProductID != nil && *in.ProductID != sale.ProductID
		nameChanged := in.CustomerName != nil && *in.CustomerName != sale.CustomerName

		if in.ProductID != nil {
			sale.ProductID = *in.ProductID
		}
		if in.CustomerName != nil {
			sale.CustomerName = *in.CustomerName
		}
		if in.CustomerPhone != nil {
			sale.CustomerPhone = *in.CustomerPhone
		}
		if in.Quantity != nil {
			sale.Quantity = *in.Quantity
		}
		if in.SellingPrice != nil {
			sale.SellingPrice = *in.SellingPrice
		}
		if in.PaymentType != nil {
			sale.PaymentType = *in.PaymentType
		}

		if productChanged {
			var product models.Product
			if err := tx.First(&product, "id = ?", sale.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProductNotFound
				}
				return err
			}
			sale.PurchasePrice = product.PurchasePrice
		}

		if in.Quantity != nil || in.SellingPrice != nil {
			sale.TotalAmount = sale.SellingPrice.Mul(decimal.NewFromInt(int64(sale.Quantity)))
		}

		if err := tx.Save(&sale).Error; err != nil {
			return err
		}

		if quantityChanged || productChanged || nameChanged {
			var trx models.StockTransaction
			err := tx.First(&trx, "sale_id = ? AND NOT is_deleted", sale.ID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Ledger link was deleted independently; nothing to sync.
				return nil
			}
			if err != nil {
				return err
			}

			if quantityChanged {
				trx.Quantity = sale.Quantity
			}
			if productChanged {
				trx.ProductID = sale.ProductID
				trx.PurchasePrice = sale.PurchasePrice
			}
			if nameChanged {
				trx.PartyName = partyName(sale.CustomerName)
			}
			return tx.Save(&trx).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// Delete soft-deletes a sale and its linked active ledger entry, stamping
// both with the same deletion time.
func Delete(db *gorm.DB, id uuid.UUID) (*models.Sale, error) {
	var sale models.Sale
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&sale, "id = ? AND NOT is_deleted", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSaleNotFound
			}
			return err
		}

		now := time.Now()
		sale.IsDeleted = true
		sale.DeletedAt = &now
		if err := tx.Save(&sale).Error; err != nil {
			return err
		}

		var trx models.StockTransaction
		err := tx.First(&trx, "sale_id = ? AND NOT is_deleted", sale.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		trx.IsDeleted = true
		trx.DeletedAt = &now
		return tx.Save(&trx).Error
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

type ListSalesParams struct {
	Skip           int
	Limit          int
	IncludeDeleted bool
}

func List(db *gorm.DB, params ListSalesParams) ([]models.Sale, error) {
	if params.Limit <= 0 {
		params.Limit = 100
	}

	q := db.Model(&models.Sale{})
	if !params.IncludeDeleted {
		q = q.Where("NOT is_deleted")
	}

	var rows []models.Sale
	err := q.Order("created_at DESC").
		Offset(params.Skip).Limit(params.Limit).
		Find(&rows).Error
	return rows, err
}
