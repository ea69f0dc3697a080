// handlers_test.go
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

package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/localnerve/ductapedb/internal/config"
	"github.com/localnerve/ductapedb/internal/database/dbtest"
	"github.com/localnerve/ductapedb/internal/handlers"
	"github.com/localnerve/ductapedb/internal/logger"
	"github.com/localnerve/ductapedb/internal/models"
	"github.com/localnerve/ductapedb/internal/services"
	"github.com/localnerve/ductapedb/internal/utils"
)

func setupApp(t *testing.T) (*fiber.App, *services.Store) {
	t.Helper()
	store := services.New(dbtest.Open(t), config.Default(), logger.NewNop(), nil)
	app := fiber.New()
	handlers.Register(app.Group("/api"), store)
	return app, store
}

// seed loads organisms A, B and C with G1 shared by all and G2 unique to A,
// one mapped term and two measurements.
func seed(t *testing.T, s *services.Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Project.Add(ctx, "demo", "", "", nil)
	require.NoError(t, err)
	for _, id := range []string{"A", "B", "C"} {
		_, err := s.Organisms.Upsert(ctx, models.Organism{OrgID: id})
		require.NoError(t, err)
	}
	require.NoError(t, s.Proteome.LoadProteome(ctx, "A", []models.Protein{{ProtID: "p_A"}, {ProtID: "p_A2"}}))
	require.NoError(t, s.Proteome.LoadProteome(ctx, "B", []models.Protein{{ProtID: "p_B"}}))
	require.NoError(t, s.Proteome.LoadProteome(ctx, "C", []models.Protein{{ProtID: "p_C"}}))
	require.NoError(t, s.Pangenome.AddGroups(ctx, map[string][]string{
		"G1": {"p_A", "p_B", "p_C"},
		"G2": {"p_A2"},
	}))

	require.NoError(t, s.Annotation.AddDraftTerms(ctx, []string{"K1"}))
	require.NoError(t, s.Annotation.AddReactions(ctx, []models.Reaction{{ReID: "R1"}}))
	require.NoError(t, s.Proteome.LinkTerms(ctx, []models.MapKO{{ProtID: "p_A2", KOID: "K1"}}))
	require.NoError(t, s.Annotation.LinkTermReaction(ctx, map[string][]string{"ko:K1": {"R1"}}))

	require.NoError(t, s.Phenotype.LoadCatalog(ctx, []models.Biolog{
		{PlateID: "PM01", WellID: "A01"},
		{PlateID: "PM01", WellID: "A02"},
	}))
	low, high := 1, 8
	require.NoError(t, s.Phenotype.AddWells(ctx, []models.Well{
		{WellKey: models.WellKey{PlateID: "PM01", WellID: "A01", OrgID: "A", Replica: 1}, CurveParams: models.CurveParams{Activity: &low}},
		{WellKey: models.WellKey{PlateID: "PM01", WellID: "A02", OrgID: "B", Replica: 1}, CurveParams: models.CurveParams{Activity: &high}},
	}, true))
}

func get(t *testing.T, app *fiber.App, url string, out any) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", url, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil && len(body) > 0 {
		require.NoError(t, json.Unmarshal(body, out), string(body))
	}
	return resp.StatusCode
}

func TestGetProject(t *testing.T) {
	app, store := setupApp(t)

	var e utils.ErrorResponseStruct
	require.Equal(t, fiber.StatusNotFound, get(t, app, "/api/project", &e))
	require.False(t, e.Ok)
	require.Contains(t, e.Message, "project")

	seed(t, store)

	var p models.Project
	require.Equal(t, fiber.StatusOK, get(t, app, "/api/project", &p))
	require.Equal(t, "demo", p.Name)
	require.True(t, p.Pangenome)
}

func TestOrganismRoutes(t *testing.T) {
	app, store := setupApp(t)
	seed(t, store)

	var orgs utils.ListResponseStruct[models.Organism]
	require.Equal(t, fiber.StatusOK, get(t, app, "/api/organisms", &orgs))
	require.Equal(t, 3, orgs.Count)
	require.Equal(t, "A", orgs.Items[0].OrgID)

	var org models.Organism
	require.Equal(t, fiber.StatusOK, get(t, app, "/api/organisms/B", &org))
	require.Equal(t, "B", org.OrgID)

	require.Equal(t, fiber.StatusNotFound, get(t, app, "/api/organisms/Z", nil))

	var prots utils.ListResponseStruct[models.Protein]
	require.Equal(t, fiber.StatusOK, get(t, app, "/api/organisms/A/proteins", &prots))
	require.Equal(t, 2, prots.Count)
	require.Equal(t, "p_A", prots.Items[0].ProtID)

	require.Equal(t, fiber.StatusNotFound, get(t, app, "/api/organisms/Z/proteins", nil))
}

func TestPangenomeRoutes(t *testing.T) {
	app, store := setupApp(t)
	seed(t, store)

	var sum handlers.PangenomeSummary
	require.Equal(t, fiber.StatusOK, get(t, app, "/api/pangenome", &sum))
	require.Equal(t, handlers.PangenomeSummary{Organisms: 3, Core: 1, Accessory: 0, Unique: 1}, sum)

	var core utils.ListResponseStruct[models.GroupCount]
	require.Equal(t, fiber.StatusOK, get(t, app, "/api/pangenome/core", &core))
	require.Equal(t, []models.GroupCount{{GroupID: "G1", Orgs: 3}}, core.Items)

	var acc utils.ListResponseStruct[models.GroupCount]
	require.Equal(t, fiber.StatusOK, get(t, app, "/api/pangenome/accessory", &acc))
	require.Zero(t, acc.Count)
	require.NotNil(t, acc.Items)

	require.Equal(t, fiber.StatusBadRequest, get(t, app, "/api/pangenome/shell", nil))
	require.Equal(t, fiber.StatusBadRequest, get(t, app, "/api/pangenome/dispensable", nil))

	var reactions utils.ListResponseStruct[models.ReactionCount]
	require.Equal(t, fiber.StatusOK, get(t, app, "/api/pangenome/dispensable/reactions", &reactions))
	require.Equal(t, []models.ReactionCount{{ReID: "R1", Groups: 1}}, reactions.Items)

	require.Equal(t, fiber.StatusOK, get(t, app, "/api/pangenome/core/reactions", &reactions))
	require.Empty(t, reactions.Items)
}

func TestAnnotationCountsRoute(t *testing.T) {
	app, store := setupApp(t)
	seed(t, store)

	var counts services.AnnotationCounts
	require.Equal(t, fiber.StatusOK, get(t, app, "/api/annotation/counts", &counts))
	require.Equal(t, services.AnnotationCounts{Proteins: 1, Terms: 1, Reactions: 1}, counts)

	require.Equal(t, fiber.StatusOK, get(t, app, "/api/annotation/counts?organism=B", &counts))
	require.Equal(t, services.AnnotationCounts{}, counts)

	require.Equal(t, fiber.StatusOK, get(t, app, "/api/annotation/counts?partition=core", &counts))
	require.Equal(t, services.AnnotationCounts{}, counts)

	require.Equal(t, fiber.StatusBadRequest, get(t, app, "/api/annotation/counts?partition=cloud", nil))
}

func TestActiveRoute(t *testing.T) {
	app, store := setupApp(t)
	seed(t, store)

	var exps utils.ListResponseStruct[models.BiologExp]
	require.Equal(t, fiber.StatusOK, get(t, app, "/api/phenotype/active", &exps))
	require.Equal(t, 2, exps.Count)

	require.Equal(t, fiber.StatusOK, get(t, app, "/api/phenotype/active?activity=5", &exps))
	require.Equal(t, 1, exps.Count)
	require.Equal(t, "B", exps.Items[0].OrgID)
	require.Equal(t, 8, *exps.Items[0].Activity)

	require.Equal(t, fiber.StatusOK, get(t, app, "/api/phenotype/active?organism=A&plate=PM01", &exps))
	require.Equal(t, 1, exps.Count)

	require.Equal(t, fiber.StatusBadRequest, get(t, app, "/api/phenotype/active?activity=high", nil))
}

func TestHealthRoute(t *testing.T) {
	app, _ := setupApp(t)

	var res services.HealthCheckResult
	require.Equal(t, fiber.StatusOK, get(t, app, "/api/health", &res))
	require.Equal(t, "healthy", res.Status)
	require.Equal(t, "none", res.Project)
}

func TestVersionHeader(t *testing.T) {
	app, _ := setupApp(t)

	req := httptest.NewRequest("GET", "/api/health", nil)
	req.Header.Set("X-Api-Version", "1.0")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "1.0.0", resp.Header.Get("X-Api-Version"))

	req = httptest.NewRequest("GET", "/api/health", nil)
	req.Header.Set("X-Api-Version", "2.0.0")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotAcceptable, resp.StatusCode)
}
