package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shopledger-backend/internal/database"
	"shopledger-backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// A second connection to :memory: would be a second empty database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price string) *models.Product {
	t.Helper()
	product := models.Product{
		Name:          name,
		Unit:          "pcs",
		PurchasePrice: decimal.RequireFromString(price),
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return &product
}

func seedEntry(t *testing.T, db *gorm.DB, product *models.Product, typ models.TransactionType, qty int) *models.StockTransaction {
	t.Helper()
	trx := models.StockTransaction{
		ProductID: product.ID,
		Quantity:  qty,
		Type:      typ,
	}
	if err := db.Create(&trx).Error; err != nil {
		t.Fatalf("seed entry: %v", err)
	}
	return &trx
}

func TestCurrentStockDerivedFromLedger(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Rice 5kg", "1000.00")

	seedEntry(t, db, product, models.TransactionIn, 100)
	seedEntry(t, db, product, models.TransactionOut, 30)

	stock, err := CurrentStock(db, product.ID)
	if err != nil {
		t.Fatalf("CurrentStock: %v", err)
	}
	if stock != 70 {
		t.Fatalf("stock = %d, want 70", stock)
	}

	seedEntry(t, db, product, models.TransactionOut, 65)
	stock, err = CurrentStock(db, product.ID)
	if err != nil {
		t.Fatalf("CurrentStock: %v", err)
	}
	if stock != 5 {
		t.Fatalf("stock = %d, want 5", stock)
	}
}

func TestCurrentStockEmptyLedgerIsZero(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Empty", "0")

	stock, err := CurrentStock(db, product.ID)
	if err != nil {
		t.Fatalf("CurrentStock: %v", err)
	}
	if stock != 0 {
		t.Fatalf("stock = %d, want 0", stock)
	}
}

func TestCurrentStockIgnoresSoftDeletedEntries(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Oil 1L", "500.00")

	seedEntry(t, db, product, models.TransactionIn, 50)
	out := seedEntry(t, db, product, models.TransactionOut, 20)

	if _, err := DeleteTransaction(db, out.ID); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}

	stock, err := CurrentStock(db, product.ID)
	if err != nil {
		t.Fatalf("CurrentStock: %v", err)
	}
	if stock != 50 {
		t.Fatalf("stock = %d, want 50 after the OUT entry was soft-deleted", stock)
	}
}

func TestProductsWithStock(t *testing.T) {
	db := newTestDB(t)
	rice := seedProduct(t, db, "Rice 5kg", "1000.00")
	oil := seedProduct(t, db, "Sunflower Oil", "500.00")
	if err := db.Model(oil).Update("category", "Grocery").Error; err != nil {
		t.Fatalf("set category: %v", err)
	}

	seedEntry(t, db, rice, models.TransactionIn, 40)
	seedEntry(t, db, rice, models.TransactionOut, 15)
	seedEntry(t, db, oil, models.TransactionIn, 8)

	rows, err := ProductsWithStock(db, ListProductsParams{})
	if err != nil {
		t.Fatalf("ProductsWithStock: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d products, want 2", len(rows))
	}
	byName := map[string]int64{}
	for _, r := range rows {
		byName[r.Name] = r.CurrentStock
	}
	if byName["Rice 5kg"] != 25 {
		t.Errorf("rice stock = %d, want 25", byName["Rice 5kg"])
	}
	if byName["Sunflower Oil"] != 8 {
		t.Errorf("oil stock = %d, want 8", byName["Sunflower Oil"])
	}

	// Case-insensitive name search.
	rows, err = ProductsWithStock(db, ListProductsParams{Search: "rice"})
	if err != nil {
		t.Fatalf("ProductsWithStock search: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Rice 5kg" {
		t.Fatalf("search returned %+v, want only Rice 5kg", rows)
	}

	// Category filter.
	rows, err = ProductsWithStock(db, ListProductsParams{Category: "Grocery"})
	if err != nil {
		t.Fatalf("ProductsWithStock category: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Sunflower Oil" {
		t.Fatalf("category filter returned %+v, want only Sunflower Oil", rows)
	}
}

func TestProductStockStats(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Sugar", "120.50")
	seedEntry(t, db, product, models.TransactionIn, 12)
	seedProduct(t, db, "No Stock", "10.00")

	stats, err := ProductStockStats(db)
	if err != nil {
		t.Fatalf("ProductStockStats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d stats, want 2", len(stats))
	}
	for _, s := range stats {
		switch s.ProductID {
		case product.ID:
			if s.StockBalance != 12 {
				t.Errorf("sugar balance = %d, want 12", s.StockBalance)
			}
			if !s.PurchasePrice.Equal(decimal.RequireFromString("120.50")) {
				t.Errorf("sugar price = %s, want 120.50", s.PurchasePrice)
			}
		default:
			if s.StockBalance != 0 {
				t.Errorf("empty product balance = %d, want 0", s.StockBalance)
			}
		}
	}
}
