package database

import (
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"shopledger-backend/internal/config"
	"shopledger-backend/internal/models"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		logrus.WithError(err).Fatal("could not connect to database")
	}

	if err := Migrate(DB); err != nil {
		logrus.WithError(err).Fatal("auto migration failed")
	}

	logrus.Info("database connected, migration complete")
}

// Migrate is separate from Init so tests can run it against their own DB.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Product{},
		&models.StockTransaction{},
		&models.Sale{},
		&models.Expense{},
		&models.AuditLog{},
	)
}
