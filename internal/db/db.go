package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/natacion/clubmanager/internal/models"
)

// DefaultDSN keeps the database next to the binary, WAL mode, foreign keys on.
const DefaultDSN = "natacion.db?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

var conn *gorm.DB

// Init opens the process-wide connection returned by Conn.
func Init(dsn string, level logger.LogLevel) error {
	gdb, err := Open(dsn, level)
	if err != nil {
		return err
	}
	conn = gdb
	return nil
}

// Open connects to SQLite, caps the pool to a single writer and migrates the schema.
func Open(dsn string, level logger.LogLevel) (*gorm.DB, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single writer; cap the pool accordingly.
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}

// Migrate creates or updates every table plus the composite indexes
// GORM does not derive from struct tags.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&models.Club{},
		&models.Category{},
		&models.Swimmer{},
		&models.Style{},
		&models.BestTime{},
		&models.Championship{},
		&models.ChampionshipSwimmer{},
		&models.Session{},
		&models.Test{},
		&models.TestRegistration{},
		&models.Serie{},
		&models.Result{},
		&models.Product{},
		&models.SaleOrder{},
		&models.SaleOrderLine{},
		&models.TelegramUser{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	for _, stmt := range []string{
		"CREATE INDEX IF NOT EXISTS idx_session_champ_date ON sessions(championship_id, date)",
		"CREATE INDEX IF NOT EXISTS idx_result_test_serie  ON results(test_id, serie_id)",
	} {
		if err := gdb.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

func Conn() *gorm.DB {
	return conn
}
