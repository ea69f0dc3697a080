package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/localnerve/ductapedb/internal/config"
	"github.com/localnerve/ductapedb/internal/database"
	"github.com/localnerve/ductapedb/internal/database/dbtest"
	"github.com/localnerve/ductapedb/internal/logger"
	"github.com/localnerve/ductapedb/internal/models"
	"github.com/localnerve/ductapedb/internal/types"
)

func TestConnectAndMigrate(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)

	// Migration is idempotent.
	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.Ping(ctx, db))

	for _, table := range []string{
		"project", "organism", "protein", "ortholog", "mapko",
		"ko", "reaction", "compound", "pathway",
		"ko_react", "react_comp", "react_path", "comp_path", "pathmap",
		"biolog", "biolog_exp", "biolog_exp_det", "biolog_purged_exp", "biolog_purged_exp_det",
	} {
		require.True(t, db.Migrator().HasTable(table), table)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestBoostSQLite(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)

	require.NoError(t, database.Boost(ctx, db))

	var mode string
	require.NoError(t, db.Raw("PRAGMA journal_mode").Scan(&mode).Error)
	require.Equal(t, "memory", mode)

	var sync int
	require.NoError(t, db.Raw("PRAGMA synchronous").Scan(&sync).Error)
	require.Equal(t, 0, sync)
}

func TestSeriesRoundTrip(t *testing.T) {
	db := dbtest.Open(t)

	det := models.BiologExpDet{
		WellKey: models.WellKey{PlateID: "PM01", WellID: "A01", OrgID: "E1", Replica: 1},
		Times:   models.Series{0, 0.25, 0.5},
		Signals: models.Series{10, 12.5, 40},
	}
	require.NoError(t, db.Create(&det).Error)

	var got models.BiologExpDet
	require.NoError(t, db.Where("plate_id = ?", "PM01").First(&got).Error)
	require.Equal(t, det.Times, got.Times)
	require.Equal(t, det.Signals, got.Signals)
}

func TestConnectUnsupported(t *testing.T) {
	cfg := config.Default()
	cfg.DBType = "oracle"
	_, err := database.Connect(cfg, logger.NewNop())
	require.Error(t, err)
	require.True(t, types.ErrConfig.Has(err))
}

func TestMigrateKeepsCause(t *testing.T) {
	db := dbtest.Open(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := database.AutoMigrate(db.WithContext(ctx))
	require.Error(t, err)
	require.True(t, types.ErrDatabase.Has(err))
	require.True(t, errors.Is(err, context.Canceled))
}
