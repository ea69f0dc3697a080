// Package dbtest opens throwaway databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/localnerve/ductapedb/internal/config"
	"github.com/localnerve/ductapedb/internal/database"
	"github.com/localnerve/ductapedb/internal/logger"
)

// Config returns a sqlite configuration pointing into the test temp dir.
func Config(tb testing.TB) *config.Config {
	tb.Helper()
	cfg := config.Default()
	cfg.DBDatabase = filepath.Join(tb.TempDir(), "storage.db")
	cfg.DBLogLevel = "silent"
	return cfg
}

// Open connects to a fresh, migrated sqlite database that is closed when
// the test ends.
func Open(tb testing.TB) *gorm.DB {
	tb.Helper()
	return OpenWith(tb, Config(tb))
}

// OpenWith connects and migrates using cfg.
func OpenWith(tb testing.TB, cfg *config.Config) *gorm.DB {
	tb.Helper()
	db, err := database.Connect(cfg, logger.NewNop())
	if err != nil {
		tb.Fatalf("connect: %v", err)
	}
	tb.Cleanup(func() {
		_ = database.Close(db)
	})
	if err := database.AutoMigrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}
