// routes.go
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

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/localnerve/ductapedb/internal/middleware"
	"github.com/localnerve/ductapedb/internal/services"
)

// Register mounts the read-only query routes on api.
func Register(api fiber.Router, store *services.Store) {
	api.Use(middleware.VersionMiddleware())

	project := &ProjectHandler{Store: store}
	genome := &GenomeHandler{Store: store}
	phenome := &PhenomeHandler{Store: store}

	api.Get("/project", project.GetProject)
	api.Get("/health", project.GetHealth)

	api.Get("/organisms", genome.ListOrganisms)
	api.Get("/organisms/:id", genome.GetOrganism)
	api.Get("/organisms/:id/proteins", genome.ListProteins)

	api.Get("/pangenome", genome.GetPangenome)
	api.Get("/pangenome/:partition", genome.GetPartition)
	api.Get("/pangenome/:partition/reactions", genome.GetReactionPartition)

	api.Get("/annotation/counts", genome.GetAnnotationCounts)

	api.Get("/phenotype/active", phenome.GetActive)
}
