package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Windi-Fikriyansyah/gigboard/internal/models"
)

// Connect opens postgres in production. sqlite serves local runs and tests.
func Connect(driver, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}

	var dialector gorm.Dialector
	switch driver {
	case "postgres", "":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	gdb, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// sqlite has one writer; serialize through a single connection.
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		if err := gdb.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, err
		}
	}
	return gdb, nil
}

func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&models.UserRole{},
		&models.Job{},
		&models.Application{},
		&models.Review{},
	)
}
