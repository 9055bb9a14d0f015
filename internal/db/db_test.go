package db_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/natacion/clubmanager/internal/db"
)

// TestWALMode verifies that the default DSN parameters enable WAL journal mode.
func TestWALMode(t *testing.T) {
	dir := t.TempDir()
	dsn := filepath.Join(dir, "wal_test.db") +
		"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	var mode string
	gdb.Raw("PRAGMA journal_mode").Scan(&mode)
	if mode != "wal" {
		t.Errorf("expected journal_mode=wal, got %q", mode)
	}
}

// TestInit_CreatesIndexes verifies that Init creates the composite indexes
// on sessions and results that GORM does not auto-create.
func TestInit_CreatesIndexes(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "init.db") + "?_foreign_keys=on"
	if err := db.Init(dsn, logger.Silent); err != nil {
		t.Fatalf("Init: %v", err)
	}

	sqlDB, err := db.Conn().DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}

	if found := indexNames(t, sqlDB, "sessions"); !found["idx_session_champ_date"] {
		t.Errorf("index idx_session_champ_date missing; found: %v", found)
	}
	if found := indexNames(t, sqlDB, "results"); !found["idx_result_test_serie"] {
		t.Errorf("index idx_result_test_serie missing; found: %v", found)
	}
	if found := indexNames(t, sqlDB, "test_registrations"); !found["idx_test_swimmer"] {
		t.Errorf("unique index idx_test_swimmer missing; found: %v", found)
	}
}

func indexNames(t *testing.T, sqlDB *sql.DB, table string) map[string]bool {
	t.Helper()
	rows, err := sqlDB.Query("PRAGMA index_list(" + table + ")")
	if err != nil {
		t.Fatalf("PRAGMA index_list: %v", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var seq int
		var name string
		var unique bool
		var origin, partial string
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			t.Fatalf("scan: %v", err)
		}
		out[name] = true
	}
	return out
}
