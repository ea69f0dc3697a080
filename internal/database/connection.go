// connection.go
//
// Relational store for comparative genomics and phenomics pipelines
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of ductapedb.
// ductapedb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// ductapedb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with ductapedb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/zeebo/errs"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	sqlite3 "gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/localnerve/ductapedb/internal/config"
	"github.com/localnerve/ductapedb/internal/logger"
	"github.com/localnerve/ductapedb/internal/models"
	"github.com/localnerve/ductapedb/internal/types"
)

// Connect establishes a database connection based on the configured DB_TYPE
func Connect(cfg *config.Config, log *logger.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   newGormLogger(cfg.DBLogLevel),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, types.ErrDatabase.Wrap(err)
	}

	// Get underlying SQL DB for connection pool configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, types.ErrDatabase.Wrap(err)
	}

	if cfg.IsSQLite() {
		// Single writer: every statement goes through one connection, which
		// also keeps connection-scoped pragmas (boost) in effect.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		if err := db.Exec("PRAGMA busy_timeout = 5000").Error; err != nil {
			return nil, types.ErrDatabase.Wrap(err)
		}
	} else {
		sqlDB.SetMaxOpenConns(cfg.DBConnectionLimit)
		sqlDB.SetMaxIdleConns(max(cfg.DBConnectionLimit/2, 1))
	}

	log.Info("connected to database", "type", cfg.DBType, "database", cfg.DBDatabase)

	return db, nil
}

func dialectorFor(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBType {
	case "mysql", "mariadb":
		mc := mysqlDriver.NewConfig()
		mc.User = cfg.DBUser
		mc.Passwd = cfg.DBPassword
		mc.Net = "tcp"
		mc.Addr = fmt.Sprintf("%s:%s", cfg.DBHost, portOr(cfg.DBPort, "3306"))
		mc.DBName = cfg.DBDatabase
		mc.ParseTime = true
		mc.Loc = time.UTC
		mc.Params = map[string]string{"charset": "utf8mb4"}
		return mysql.Open(mc.FormatDSN()), nil

	case "postgres", "postgresql":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			cfg.DBHost,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBDatabase,
			portOr(cfg.DBPort, "5432"),
		)
		return postgres.Open(dsn), nil

	case "sqlite":
		// Pure Go driver; DBDatabase is the file path
		return sqlite.Open(cfg.DBDatabase), nil

	case "sqlite3":
		// cgo driver, for hosts that already link libsqlite3
		return sqlite3.Open(cfg.DBDatabase), nil

	case "sqlserver", "mssql":
		dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=%s",
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBHost,
			portOr(cfg.DBPort, "1433"),
			cfg.DBDatabase,
		)
		return sqlserver.Open(dsn), nil
	}
	return nil, types.ErrConfig.New("unsupported database type: %s", cfg.DBType)
}

func portOr(port, def string) string {
	if port == "" {
		return def
	}
	return port
}

func newGormLogger(level string) gormlogger.Interface {
	lvl := gormlogger.Warn
	switch level {
	case "silent":
		lvl = gormlogger.Silent
	case "error":
		lvl = gormlogger.Error
	case "info":
		lvl = gormlogger.Info
	}
	return gormlogger.New(log.New(os.Stderr, "\r\n", log.LstdFlags), gormlogger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
	})
}

// AutoMigrate creates every relation of the store. It is idempotent.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Project{},
		&models.Organism{},
		&models.Protein{},
		&models.Ortholog{},
		&models.MapKO{},
		&models.KO{},
		&models.Reaction{},
		&models.Compound{},
		&models.Pathway{},
		&models.KOReact{},
		&models.ReactComp{},
		&models.ReactPath{},
		&models.CompPath{},
		&models.PathMap{},
		&models.Biolog{},
		&models.BiologExp{},
		&models.BiologExpDet{},
		&models.BiologPurgedExp{},
		&models.BiologPurgedExpDet{},
	)
	if err != nil {
		return types.ErrDatabase.Wrap(err)
	}
	return nil
}

// Boost trades durability for speed ahead of bulk loads. Only sqlite is
// affected, and it must be called outside of any transaction.
func Boost(ctx context.Context, db *gorm.DB) error {
	if db.Dialector.Name() != "sqlite" {
		return nil
	}
	for _, pragma := range []string{
		"PRAGMA synchronous = OFF",
		"PRAGMA journal_mode = MEMORY",
	} {
		if err := db.WithContext(ctx).Exec(pragma).Error; err != nil {
			return types.ErrTransient.Wrap(err)
		}
	}
	return nil
}

// Ping checks the database connection.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return types.ErrDatabase.Wrap(err)
	}
	return types.ErrDatabase.Wrap(sqlDB.PingContext(ctx))
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return errs.Wrap(sqlDB.Close())
}
