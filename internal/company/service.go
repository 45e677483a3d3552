package company

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shopledger-backend/internal/models"
)

var (
	ErrCompanyNotFound    = errors.New("company not found")
	ErrCompanyHasProducts = errors.New("company still has products")
)

func Create(db *gorm.DB, name string) (*models.Company, error) {
	comp := models.Company{Name: name}
	if err := db.Create(&comp).Error; err != nil {
		return nil, err
	}
	return &comp, nil
}

func List(db *gorm.DB, skip, limit int) ([]models.Company, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []models.Company
	err := db.Order("created_at ASC").Offset(skip).Limit(limit).Find(&rows).Error
	return rows, err
}

func Update(db *gorm.DB, id uuid.UUID, name string) (*models.Company, error) {
	var comp models.Company
	if err := db.First(&comp, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}

	comp.Name = name
	if err := db.Save(&comp).Error; err != nil {
		return nil, err
	}
	return &comp, nil
}

// Delete hard-deletes a company. Deletion is refused while products still
// reference it; reassign or delete the products first.
func Delete(db *gorm.DB, id uuid.UUID) error {
	var comp models.Company
	if err := db.First(&comp, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCompanyNotFound
		}
		return err
	}

	var productCount int64
	if err := db.Model(&models.Product{}).Where("company_id = ?", id).Count(&productCount).Error; err != nil {
		return err
	}
	if productCount > 0 {
		return ErrCompanyHasProducts
	}

	return db.Delete(&comp).Error
}
