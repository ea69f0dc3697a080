package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/localnerve/ductapedb/internal/models"
	"github.com/localnerve/ductapedb/internal/types"
)

func TestProjectAddDefaults(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	ok, err := s.Project.Exists(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = s.Project.Get(ctx)
	require.True(t, types.IsNotFound(err))

	p, err := s.Project.Add(ctx, "", "", "", nil)
	require.NoError(t, err)
	require.Equal(t, "Project", p.Name)
	require.Equal(t, "Generic project", p.Description)
	require.Equal(t, "generic", p.Kind)
	require.Equal(t, models.StatusNone, p.Genome)
	require.Equal(t, models.StatusNone, p.Phenome)
	require.False(t, p.Pangenome)
	require.True(t, strings.HasPrefix(p.String(), "Project - Generic project - generic - "))

	ok, err = s.Project.Exists(ctx)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestProjectDuplicateLeavesExisting(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	tmp := "/tmp/run"
	_, err := s.Project.Add(ctx, "first", "the first one", "pangenome", &tmp)
	require.NoError(t, err)

	_, err = s.Project.Add(ctx, "second", "", "", nil)
	require.Error(t, err)
	require.True(t, types.IsDuplicateSingleton(err))
	require.Contains(t, err.Error(), "first")

	p, err := s.Project.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "first", p.Name)
	require.Equal(t, "the first one", p.Description)
	require.Equal(t, "pangenome", p.Kind)
	require.NotNil(t, p.Tmp)
	require.Equal(t, tmp, *p.Tmp)
}

func TestProjectSetters(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.Project.SetName(ctx, "nobody")
	require.True(t, types.IsNotFound(err))

	created, err := s.Project.Add(ctx, "demo", "", "", nil)
	require.NoError(t, err)

	p, err := s.Project.SetName(ctx, "renamed")
	require.NoError(t, err)
	require.Equal(t, "renamed", p.Name)

	p, err = s.Project.SetKind(ctx, "mutants")
	require.NoError(t, err)
	require.Equal(t, "mutants", p.Kind)

	p, err = s.Project.SetGenome(ctx, models.StatusDone)
	require.NoError(t, err)
	require.Equal(t, models.StatusDone, p.Genome)

	p, err = s.Project.SetPhenome(ctx, models.StatusRunning)
	require.NoError(t, err)
	require.Equal(t, models.StatusRunning, p.Phenome)

	p, err = s.Project.DonePanGenome(ctx)
	require.NoError(t, err)
	require.True(t, p.Pangenome)

	p, err = s.Project.ClearPanGenome(ctx)
	require.NoError(t, err)
	require.False(t, p.Pangenome)

	p, err = s.Project.Touch(ctx)
	require.NoError(t, err)
	require.False(t, p.Last.Before(created.Last.Truncate(1e9)))
}
