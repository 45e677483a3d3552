package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"shopledger-backend/internal/models"
)

// The ledger is the single source of truth for stock levels: the balance is
// recomputed from non-deleted transactions on every call, never cached.

// CurrentStock returns sum(IN) - sum(OUT) over active ledger entries for one
// product. The balance may go negative; the ledger itself never rejects that.
func CurrentStock(db *gorm.DB, productID uuid.UUID) (int64, error) {
	var balance int64
	err := db.Model(&models.StockTransaction{}).
		Select("COALESCE(SUM(CASE WHEN type = 'IN' THEN quantity ELSE -quantity END), 0)").
		Where("product_id = ? AND NOT is_deleted", productID).
		Scan(&balance).Error
	return balance, err
}

type ProductWithStock struct {
	ID            uuid.UUID       `json:"id"`
	CompanyID     *uuid.UUID      `json:"company_id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	MinStock      int             `json:"min_stock"`
	CreatedAt     time.Time       `json:"created_at"`
	CurrentStock  int64           `json:"current_stock"`
}

// ProductStockStat is the slice of product state the reporting engine needs:
// cost basis, reorder threshold and the derived balance.
type ProductStockStat struct {
	ProductID     uuid.UUID
	PurchasePrice decimal.Decimal
	MinStock      int
	StockBalance  int64
}

func ProductStockStats(db *gorm.DB) ([]ProductStockStat, error) {
	var stats []ProductStockStat
	err := db.Model(&models.Product{}).
		Select(`products.id AS product_id, products.purchase_price, products.min_stock,
			` + stockBalanceExpr + ` AS stock_balance`).
		Joins("LEFT JOIN stock_transactions st ON st.product_id = products.id").
		Group("products.id").
		Scan(&stats).Error
	return stats, err
}

type ListProductsParams struct {
	Skip     int
	Limit    int
	Search   string
	Category string
}

const stockBalanceExpr = `COALESCE(SUM(CASE
	WHEN st.type = 'IN'  AND NOT st.is_deleted THEN st.quantity
	WHEN st.type = 'OUT' AND NOT st.is_deleted THEN -st.quantity
	ELSE 0 END), 0)`

// ProductsWithStock lists products with their derived stock balance attached,
// in one joined aggregate query.
func ProductsWithStock(db *gorm.DB, params ListProductsParams) ([]ProductWithStock, error) {
	if params.Limit <= 0 {
		params.Limit = 100
	}

	q := db.Model(&models.Product{}).
		Select(`products.id, products.company_id, products.name, products.category,
			products.unit, products.purchase_price, products.min_stock, products.created_at,
			`+stockBalanceExpr+` AS current_stock`).
		Joins("LEFT JOIN stock_transactions st ON st.product_id = products.id").
		Group("products.id")

	if params.Search != "" {
		q = q.Where("LOWER(products.name) LIKE LOWER(?)", "%"+params.Search+"%")
	}
	if params.Category != "" {
		q = q.Where("products.category = ?", params.Category)
	}

	var rows []ProductWithStock
	err := q.Order("products.created_at ASC").
		Offset(params.Skip).Limit(params.Limit).
		Scan(&rows).Error
	return rows, err
}
