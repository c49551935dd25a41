package database

import (
	"fmt"
	"log"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fornecedores/internal/models"
)

// Open returns a connected GORM DB for the given driver name.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		mysqlDSN, err := MySQLDSN(dsn)
		if err != nil {
			return nil, err
		}
		dialector = mysql.Open(mysqlDSN)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	return db, nil
}

// MySQLDSN enables clientFoundRows on dsn. Without it MySQL reports changed
// rows instead of matched rows, and an UPDATE writing identical values would
// look like a no-op.
func MySQLDSN(dsn string) (string, error) {
	cfg, err := mysqldriver.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ClientFoundRows = true
	return cfg.FormatDSN(), nil
}

// Migrate creates or updates the tables of every persisted model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Fornecedor{},
		&models.User{},
		&models.UserClaim{},
		&models.UserRole{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	log.Println("Database schema is up to date")
	return nil
}
