package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/localnerve/ductapedb/internal/cli"
	"github.com/localnerve/ductapedb/internal/database"
	"github.com/localnerve/ductapedb/internal/database/dbtest"
	"github.com/localnerve/ductapedb/internal/logger"
	"github.com/localnerve/ductapedb/internal/models"
	"github.com/localnerve/ductapedb/internal/services"
	"github.com/localnerve/ductapedb/internal/types"
)

// storage points the command line at a fresh sqlite file and returns its path.
func storage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "storage.db")
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("DB_DATABASE", path)
	t.Setenv("DB_LOG_LEVEL", "silent")
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := cli.NewRootCommand("test")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env", filepath.Join(t.TempDir(), "missing.env")}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// seed writes organisms directly and closes the connection before the
// command line opens its own.
func seed(t *testing.T, path string, fn func(s *services.Store)) {
	t.Helper()
	cfg := dbtest.Config(t)
	cfg.DBDatabase = path
	db, err := database.Connect(cfg, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	fn(services.New(db, cfg, logger.NewNop(), nil))
	require.NoError(t, database.Close(db))
}

func TestMigrate(t *testing.T) {
	path := storage(t)

	out, err := run(t, "migrate")
	require.NoError(t, err)
	require.Contains(t, out, "store ready: sqlite "+path)

	// Idempotent.
	_, err = run(t, "migrate")
	require.NoError(t, err)
}

func TestSchema(t *testing.T) {
	storage(t)

	out, err := run(t, "schema")
	require.NoError(t, err)
	require.Contains(t, out, "=== Table: organism ===")
	require.Contains(t, out, "=== Table: biolog_exp ===")
	require.Contains(t, out, "CREATE TABLE")
}

func TestProjectCommands(t *testing.T) {
	storage(t)

	_, err := run(t, "project", "show")
	require.True(t, types.IsNotFound(err))

	out, err := run(t, "project", "init", "demo", "--kind", "pangenome", "--description", "two strains")
	require.NoError(t, err)
	require.Contains(t, out, "demo - two strains - pangenome")

	_, err = run(t, "project", "init", "again")
	require.True(t, types.IsDuplicateSingleton(err))

	out, err = run(t, "project", "show", "--json")
	require.NoError(t, err)
	var p models.Project
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	require.Equal(t, "demo", p.Name)
	require.Equal(t, models.StatusNone, p.Genome)
}

func TestStatus(t *testing.T) {
	path := storage(t)

	out, err := run(t, "status")
	require.NoError(t, err)
	require.Contains(t, out, "project:   none")
	require.Contains(t, out, "organisms: 0 (0 mutants)")

	seed(t, path, func(s *services.Store) {
		ctx := context.Background()
		_, err := s.Project.Add(ctx, "demo", "", "", nil)
		require.NoError(t, err)
		for _, id := range []string{"A", "B"} {
			_, err := s.Organisms.Upsert(ctx, models.Organism{OrgID: id})
			require.NoError(t, err)
		}
		ref := "A"
		_, err = s.Organisms.Upsert(ctx, models.Organism{OrgID: "A1", Mutant: true, Reference: &ref})
		require.NoError(t, err)
	})

	out, err = run(t, "status", "--json")
	require.NoError(t, err)
	var st cli.Status
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	require.NotNil(t, st.Project)
	require.Equal(t, "demo", st.Project.Name)
	require.EqualValues(t, 3, st.Organisms)
	require.EqualValues(t, 1, st.Mutants)
	require.Zero(t, st.Purged)
}

func TestDeleteOrganism(t *testing.T) {
	path := storage(t)
	seed(t, path, func(s *services.Store) {
		ctx := context.Background()
		_, err := s.Organisms.Upsert(ctx, models.Organism{OrgID: "A"})
		require.NoError(t, err)
		ref := "A"
		_, err = s.Organisms.Upsert(ctx, models.Organism{OrgID: "A1", Mutant: true, Reference: &ref})
		require.NoError(t, err)
	})

	_, err := run(t, "delete", "organism", "Z")
	require.True(t, types.IsNotFound(err))

	out, err := run(t, "delete", "organism", "A", "--cascade")
	require.NoError(t, err)
	require.Contains(t, out, "deleted organism A")

	out, err = run(t, "status", "--json")
	require.NoError(t, err)
	var st cli.Status
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	require.Zero(t, st.Organisms)
}

func TestRestoreEmpty(t *testing.T) {
	storage(t)

	out, err := run(t, "restore", "PM01")
	require.NoError(t, err)
	require.Contains(t, out, "restored 0 measurements")
}

func TestBadConfig(t *testing.T) {
	storage(t)
	t.Setenv("DB_TYPE", "oracle")

	_, err := run(t, "status")
	require.Error(t, err)
	require.True(t, types.ErrConfig.Has(err))
}
