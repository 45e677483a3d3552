package inventory

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"shopledger-backend/internal/models"
)

type CreateProductInput struct {
	CompanyID     *uuid.UUID
	Name          string
	Category      string
	Unit          string
	PurchasePrice decimal.Decimal
	MinStock      *int
}

func CreateProduct(db *gorm.DB, in CreateProductInput) (*models.Product, error) {
	if in.CompanyID != nil {
		var count int64
		if err := db.Model(&models.Company{}).Where("id = ?", *in.CompanyID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrCompanyNotFound
		}
	}

	product := models.Product{
		CompanyID:     in.CompanyID,
		Name:          in.Name,
		Category:      in.Category,
		Unit:          in.Unit,
		PurchasePrice: in.PurchasePrice,
		MinStock:      5,
	}
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}

	if err := db.Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

type UpdateProductInput struct {
	CompanyID     *uuid.UUID
	Name          *string
	Category      *string
	Unit          *string
	PurchasePrice *decimal.Decimal
	MinStock      *int
}

func UpdateProduct(db *gorm.DB, id uuid.UUID, in UpdateProductInput) (*models.Product, error) {
	var product models.Product
	if err := db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if in.CompanyID != nil {
		product.CompanyID = in.CompanyID
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Unit != nil {
		product.Unit = *in.Unit
	}
	if in.PurchasePrice != nil {
		product.PurchasePrice = *in.PurchasePrice
	}
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}

	if err := db.Save(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func GetProduct(db *gorm.DB, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// DeleteProduct hard-deletes a product together with its full transaction and
// sale history (the store's referential rule), under one commit.
func DeleteProduct(db *gorm.DB, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		if err := tx.Where("product_id = ?", id).Delete(&models.StockTransaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.Sale{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
}
