package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/localnerve/ductapedb/internal/config"
	"github.com/localnerve/ductapedb/internal/models"
	"github.com/localnerve/ductapedb/internal/services"
	"github.com/localnerve/ductapedb/internal/types"
)

func ptr[T any](v T) *T {
	return &v
}

func TestOrganismUpsert(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.Project.Add(ctx, "demo", "", "", nil)
	require.NoError(t, err)
	_, err = s.Project.DonePanGenome(ctx)
	require.NoError(t, err)

	org, err := s.Organisms.Upsert(ctx, models.Organism{OrgID: "A", Name: "first"})
	require.NoError(t, err)
	require.Equal(t, models.StatusNone, org.Genome)
	require.Equal(t, models.StatusNone, org.Phenome)

	p, err := s.Project.Get(ctx)
	require.NoError(t, err)
	require.False(t, p.Pangenome)

	require.NoError(t, s.Organisms.SetGenomeStatus(ctx, "A", models.StatusDone))

	// Replacing keeps statuses that are not given.
	org, err = s.Organisms.Upsert(ctx, models.Organism{OrgID: "A", Name: "renamed", Description: "d"})
	require.NoError(t, err)
	require.Equal(t, models.StatusDone, org.Genome)

	got, err := s.Organisms.Get(ctx, "A")
	require.NoError(t, err)
	require.Equal(t, "renamed", got.Name)
	require.Equal(t, "d", got.Description)
	require.Equal(t, models.StatusDone, got.Genome)
	require.Equal(t, models.StatusNone, got.Phenome)

	n, err := s.Organisms.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = s.Organisms.Get(ctx, "missing")
	require.True(t, types.IsNotFound(err))
}

func TestOrganismMissingReference(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.Organisms.Upsert(ctx, models.Organism{OrgID: "M", Mutant: true, Reference: ptr("WT")})
	require.Error(t, err)
	require.True(t, types.IsNotFound(err))
	require.Contains(t, err.Error(), "missing reference")
	require.Contains(t, err.Error(), "WT")

	ok, err := s.Organisms.Exists(ctx, "M")
	require.NoError(t, err)
	require.False(t, ok)

	// A mutant without reference is accepted.
	_, err = s.Organisms.Upsert(ctx, models.Organism{OrgID: "M", Mutant: true})
	require.NoError(t, err)

	err = s.Organisms.SetMutant(ctx, "M", true, ptr("WT"))
	require.True(t, types.IsNotFound(err))

	addOrgs(t, s, "WT")
	require.NoError(t, s.Organisms.SetMutant(ctx, "M", true, ptr("WT")))

	mutant, err := s.Organisms.IsMutant(ctx, "M")
	require.NoError(t, err)
	require.True(t, mutant)

	_, err = s.Organisms.IsMutant(ctx, "nobody")
	require.True(t, types.IsNotFound(err))
}

func TestOrganismMutants(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	addOrgs(t, s, "WT")
	for _, id := range []string{"M2", "M1"} {
		_, err := s.Organisms.Upsert(ctx, models.Organism{OrgID: id, Mutant: true, Reference: ptr("WT")})
		require.NoError(t, err)
	}

	mutants, err := services.Collect(s.Organisms.MutantsOf(ctx, "WT"))
	require.NoError(t, err)
	require.Equal(t, []string{"M1", "M2"}, mutants)

	mutants, err = services.Collect(s.Organisms.MutantsOf(ctx, "nobody"))
	require.NoError(t, err)
	require.Empty(t, mutants)

	n, err := s.Organisms.HowManyMutants(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	all, err := services.Collect(s.Organisms.All(ctx))
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "M1", all[0].OrgID)
	require.Equal(t, "WT", all[0].ReferenceID())
}

func TestOrganismDeleteCascade(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.Project.Add(ctx, "demo", "", "", nil)
	require.NoError(t, err)

	addOrgs(t, s, "WT", "B")
	_, err = s.Organisms.Upsert(ctx, models.Organism{OrgID: "M", Mutant: true, Reference: ptr("WT")})
	require.NoError(t, err)
	addProteins(t, s, "WT", "wt1", "wt2")
	addProteins(t, s, "M", "m1")
	addProteins(t, s, "B", "b1")
	require.NoError(t, s.Pangenome.AddGroups(ctx, map[string][]string{
		"G1": {"wt1", "m1", "b1"},
		"G2": {"wt2"},
	}))

	loadCatalog(t, s)
	require.NoError(t, s.Phenotype.AddWells(ctx, []models.Well{
		well("PM01", "A01", "WT", 1, false),
		well("PM01", "A01", "B", 1, false),
	}, false))

	// Without cascade the mutant survives.
	require.NoError(t, s.Organisms.Delete(ctx, "B", false))
	ok, err := s.Organisms.Exists(ctx, "B")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = s.Proteome.Exists(ctx, "b1")
	require.NoError(t, err)
	require.False(t, ok)

	groups, err := s.Pangenome.Groups(ctx)
	require.NoError(t, err)
	require.Empty(t, groups)

	replicas, err := s.Phenotype.Replicas(ctx, "PM01", "A01", "B")
	require.NoError(t, err)
	require.Empty(t, replicas)

	p, err := s.Project.Get(ctx)
	require.NoError(t, err)
	require.False(t, p.Pangenome)

	require.NoError(t, s.Organisms.Delete(ctx, "WT", true))
	for _, id := range []string{"WT", "M"} {
		ok, err := s.Organisms.Exists(ctx, id)
		require.NoError(t, err)
		require.False(t, ok, id)
	}
	n, err := s.Proteome.HowMany(ctx, "M")
	require.NoError(t, err)
	require.Zero(t, n)

	replicas, err = s.Phenotype.Replicas(ctx, "PM01", "A01", "WT")
	require.NoError(t, err)
	require.Empty(t, replicas)

	// Unknown ids are a no-op.
	require.NoError(t, s.Organisms.Delete(ctx, "WT", true))
}

func TestOrganismDeleteReferenceCycle(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	addOrgs(t, s, "A", "B")
	require.NoError(t, s.Organisms.SetMutant(ctx, "A", true, ptr("B")))
	require.NoError(t, s.Organisms.SetMutant(ctx, "B", true, ptr("A")))

	require.NoError(t, s.Organisms.Delete(ctx, "A", true))

	n, err := s.Organisms.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestOrganismDeleteAll(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	addOrgs(t, s, "A", "B", "C")
	addProteins(t, s, "A", "a1")
	require.NoError(t, s.Organisms.DeleteAll(ctx))

	n, err := s.Organisms.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	ok, err := s.Proteome.Exists(ctx, "a1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOrganismColorCollision(t *testing.T) {
	ctx := context.Background()
	s, logs := newObservedStore(t, config.Default())

	addOrgs(t, s, "A", "B")
	require.NoError(t, s.Organisms.SetColor(ctx, "A", "#ff0000"))
	require.Zero(t, logs.FilterMessage("colour already in use").Len())

	require.NoError(t, s.Organisms.SetColor(ctx, "B", "#ff0000"))
	require.Equal(t, 1, logs.FilterMessage("colour already in use").Len())

	b, err := s.Organisms.Get(ctx, "B")
	require.NoError(t, err)
	require.Equal(t, "#ff0000", *b.Color)

	require.True(t, types.IsNotFound(s.Organisms.SetColor(ctx, "C", "#00ff00")))
}

func TestOrganismSetters(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	addOrgs(t, s, "A", "B")
	require.NoError(t, s.Organisms.SetName(ctx, "A", "alpha"))
	require.NoError(t, s.Organisms.SetDescription(ctx, "A", "first"))
	require.NoError(t, s.Organisms.SetFile(ctx, "A", "a.faa"))
	require.NoError(t, s.Organisms.SetPhenomeStatus(ctx, "A", models.StatusDone))

	a, err := s.Organisms.Get(ctx, "A")
	require.NoError(t, err)
	require.Equal(t, "alpha", a.Name)
	require.Equal(t, "first", a.Description)
	require.Equal(t, "a.faa", a.File)
	require.Equal(t, models.StatusDone, a.Phenome)

	require.NoError(t, s.Organisms.SetAllGenomeStatus(ctx, models.StatusRunning))
	require.NoError(t, s.Organisms.ResetPhenomes(ctx))
	all, err := services.Collect(s.Organisms.All(ctx))
	require.NoError(t, err)
	for _, o := range all {
		require.Equal(t, models.StatusRunning, o.Genome)
		require.Equal(t, models.StatusNone, o.Phenome)
	}

	require.NoError(t, s.Organisms.ResetGenomes(ctx))
	b, err := s.Organisms.Get(ctx, "B")
	require.NoError(t, err)
	require.Equal(t, models.StatusNone, b.Genome)

	require.True(t, types.IsNotFound(s.Organisms.SetName(ctx, "nobody", "x")))
}
