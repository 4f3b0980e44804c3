package database

import (
	"github.com/CodeBuddy07/accounting-server/internal/config"
	"github.com/CodeBuddy07/accounting-server/internal/logger"
	"github.com/CodeBuddy07/accounting-server/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		logger.Fatal(err, "could not connect to the database")
	}

	if err := Migrate(DB); err != nil {
		logger.Fatal(err, "automigrate failed")
	}

	logger.Info("database connected, migration complete")
}

// Migrate runs the schema migration for every model. Split out from Init so
// tests can run it against their own gorm.DB.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Admin{},
		&models.Customer{},
		&models.Product{},
		&models.Transaction{},
		&models.TransactionItem{},
		&models.Template{},
		&models.AuditLog{},
	)
}
