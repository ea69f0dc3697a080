package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"

	"github.com/localnerve/ductapedb/internal/config"
	"github.com/localnerve/ductapedb/internal/database/dbtest"
	"github.com/localnerve/ductapedb/internal/logger"
	"github.com/localnerve/ductapedb/internal/models"
	"github.com/localnerve/ductapedb/internal/services"
)

func newStore(t *testing.T) *services.Store {
	t.Helper()
	s, _ := newObservedStore(t, config.Default())
	return s
}

// newObservedStore returns a store whose log entries can be inspected.
func newObservedStore(t *testing.T, cfg *config.Config) (*services.Store, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return services.New(dbtest.Open(t), cfg, logger.FromZap(zap.New(core)), nil), logs
}

func storeDB(s *services.Store) *gorm.DB {
	return s.DB()
}

func addOrgs(t *testing.T, s *services.Store, ids ...string) {
	t.Helper()
	ctx := context.Background()
	for _, id := range ids {
		_, err := s.Organisms.Upsert(ctx, models.Organism{OrgID: id, Name: "organism " + id})
		require.NoError(t, err)
	}
}

func addProteins(t *testing.T, s *services.Store, orgID string, ids ...string) {
	t.Helper()
	prots := make([]models.Protein, len(ids))
	for i, id := range ids {
		prots[i] = models.Protein{ProtID: id, Description: "protein " + id, Sequence: "MKV"}
	}
	require.NoError(t, s.Proteome.LoadProteome(context.Background(), orgID, prots))
}

func groupIDs(t *testing.T, s *services.Store, p services.Partition) []string {
	t.Helper()
	gcs, err := services.Collect(s.Pangenome.Partition(context.Background(), p))
	require.NoError(t, err)
	ids := make([]string, 0, len(gcs))
	for _, gc := range gcs {
		ids = append(ids, gc.GroupID)
	}
	return ids
}

func TestCollectPagesThroughLargeSets(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	addOrgs(t, s, "A")

	ids := make([]string, 1234)
	for i := range ids {
		ids[i] = fmt.Sprintf("p%04d", i)
	}
	addProteins(t, s, "A", ids...)

	prots, err := services.Collect(s.Proteome.AllOf(ctx, "A"))
	require.NoError(t, err)
	require.Len(t, prots, len(ids))
	require.Equal(t, "p0000", prots[0].ProtID)
	require.Equal(t, "p1233", prots[len(prots)-1].ProtID)

	// Stopping early ends the enumeration without error.
	seen := 0
	for _, err := range s.Proteome.AllOf(ctx, "A") {
		require.NoError(t, err)
		seen++
		if seen == 3 {
			break
		}
	}
	require.Equal(t, 3, seen)
}

func TestHealthCheck(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	res := s.HealthCheck(ctx)
	require.Equal(t, "healthy", res.Status)
	require.Equal(t, "ok", res.Database)
	require.Equal(t, "none", res.Project)

	_, err := s.Project.Add(ctx, "demo", "", "", nil)
	require.NoError(t, err)
	addOrgs(t, s, "A", "B")

	res = s.HealthCheck(ctx)
	require.Equal(t, "healthy", res.Status)
	require.Equal(t, "ok", res.Project)
	require.Equal(t, "demo", res.Details["project_name"])
	require.Equal(t, "2", res.Details["organisms"])
}
