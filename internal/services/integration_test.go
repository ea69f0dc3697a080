package services_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/localnerve/ductapedb/internal/database"
	"github.com/localnerve/ductapedb/internal/database/dbtest"
	"github.com/localnerve/ductapedb/internal/logger"
	"github.com/localnerve/ductapedb/internal/models"
	"github.com/localnerve/ductapedb/internal/services"
)

// TestServerDialects runs a pangenome and phenome round trip against
// database servers in containers. Each dialect runs only when its image
// variable is set, e.g. MYSQL_IMAGE=mysql:8.4.
func TestServerDialects(t *testing.T) {
	if testing.Short() {
		t.Skip("container tests skipped in short mode")
	}

	for _, tc := range []struct {
		dbType string
		envVar string
	}{
		{"mysql", "MYSQL_IMAGE"},
		{"postgres", "POSTGRES_IMAGE"},
		{"sqlserver", "MSSQL_IMAGE"},
	} {
		t.Run(tc.dbType, func(t *testing.T) {
			imageName := os.Getenv(tc.envVar)
			if imageName == "" {
				t.Skipf("%s not set", tc.envVar)
			}

			ctx := context.Background()
			srv, err := dbtest.StartServer(ctx, tc.dbType, imageName)
			require.NoError(t, err)
			t.Cleanup(func() {
				if err := srv.Terminate(context.Background()); err != nil {
					t.Logf("terminate %s: %v", tc.dbType, err)
				}
			})

			db, err := database.Connect(srv.Config, logger.NewNop())
			require.NoError(t, err)
			t.Cleanup(func() { _ = database.Close(db) })
			require.NoError(t, database.AutoMigrate(db))

			roundTrip(t, services.New(db, srv.Config, logger.NewNop(), nil))
		})
	}
}

func roundTrip(t *testing.T, s *services.Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Project.Add(ctx, "demo", "", "", nil)
	require.NoError(t, err)
	threeOrganisms(t, s)

	require.Equal(t, []string{"G1"}, groupIDs(t, s, services.PartitionCore))
	require.Equal(t, []string{"G2"}, groupIDs(t, s, services.PartitionUnique))
	require.Empty(t, groupIDs(t, s, services.PartitionAccessory))

	require.NoError(t, s.Annotation.AddDraftTerms(ctx, []string{"K1"}))
	require.NoError(t, s.Proteome.LinkTerms(ctx, []models.MapKO{{ProtID: "p_A", KOID: "K1"}}))
	counts, err := s.Annotation.Counts(ctx, services.CountFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 1, counts.Proteins)

	loadCatalog(t, s)
	key := models.WellKey{PlateID: "PM01", WellID: "A02", OrgID: "A", Replica: 1}
	w := clustered(well("PM01", "A02", "A", 1, false), 5, 1, 90)
	require.NoError(t, s.Phenotype.AddWells(ctx, []models.Well{w}, true))

	before, err := s.Phenotype.Signals(ctx, key)
	require.NoError(t, err)

	res, err := s.Phenotype.MoveToPurged(ctx, []models.WellKey{key})
	require.NoError(t, err)
	require.Equal(t, 1, res.Moved)

	n, err := s.Phenotype.Restore(ctx, "PM01")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	after, err := s.Phenotype.Signals(ctx, key)
	require.NoError(t, err)
	require.Equal(t, before, after)

	// Ortholog groups are recomputed after any proteome change.
	require.NoError(t, s.Organisms.Delete(ctx, "A", false))
	require.Empty(t, groupIDs(t, s, services.PartitionCore))
}
