// genome.go
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

	"github.com/localnerve/ductapedb/internal/services"
	"github.com/localnerve/ductapedb/internal/utils"
)

// GenomeHandler serves organisms, proteomes, pangenome partitions and
// annotation counts.
type GenomeHandler struct {
	Store *services.Store
}

// PangenomeSummary is the size of each partition.
type PangenomeSummary struct {
	Organisms int64 `json:"organisms"`
	Core      int64 `json:"core"`
	Accessory int64 `json:"accessory"`
	Unique    int64 `json:"unique"`
}

// ListOrganisms handles GET /api/organisms
// @Summary List organisms
// @Tags Genome
// @Produce json
// @Success 200 {object} utils.ListResponseStruct[models.Organism]
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /organisms [get]
func (h *GenomeHandler) ListOrganisms(c *fiber.Ctx) error {
	orgs, truncated, err := collect(h.Store.Organisms.All(c.UserContext()))
	if err != nil {
		return storeError(c, err, "listOrganisms")
	}
	if truncated {
		c.Set("X-Truncated", "true")
	}
	return utils.ListResponse(c, orgs)
}

// GetOrganism handles GET /api/organisms/:id
// @Summary Get an organism
// @Tags Genome
// @Produce json
// @Param id path string true "Organism ID"
// @Success 200 {object} models.Organism
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /organisms/{id} [get]
func (h *GenomeHandler) GetOrganism(c *fiber.Ctx) error {
	org, err := h.Store.Organisms.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return storeError(c, err, "getOrganism")
	}
	return utils.SuccessResponse(c, org, fiber.StatusOK)
}

// ListProteins handles GET /api/organisms/:id/proteins
// @Summary List the proteins of an organism
// @Tags Genome
// @Produce json
// @Param id path string true "Organism ID"
// @Success 200 {object} utils.ListResponseStruct[models.Protein]
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /organisms/{id}/proteins [get]
func (h *GenomeHandler) ListProteins(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id := c.Params("id")

	// Distinguish an unknown organism from an empty proteome.
	if _, err := h.Store.Organisms.Get(ctx, id); err != nil {
		return storeError(c, err, "listProteins")
	}
	prots, truncated, err := collect(h.Store.Proteome.AllOf(ctx, id))
	if err != nil {
		return storeError(c, err, "listProteins")
	}
	if truncated {
		c.Set("X-Truncated", "true")
	}
	return utils.ListResponse(c, prots)
}

// GetPangenome handles GET /api/pangenome
// @Summary Pangenome partition sizes
// @Tags Pangenome
// @Produce json
// @Success 200 {object} handlers.PangenomeSummary
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /pangenome [get]
func (h *GenomeHandler) GetPangenome(c *fiber.Ctx) error {
	ctx := c.UserContext()
	var (
		sum PangenomeSummary
		err error
	)
	if sum.Organisms, err = h.Store.Organisms.Count(ctx); err != nil {
		return storeError(c, err, "getPangenome")
	}
	if sum.Core, err = h.Store.Pangenome.CoreCount(ctx); err != nil {
		return storeError(c, err, "getPangenome")
	}
	if sum.Accessory, err = h.Store.Pangenome.AccessoryCount(ctx); err != nil {
		return storeError(c, err, "getPangenome")
	}
	if sum.Unique, err = h.Store.Pangenome.UniqueCount(ctx); err != nil {
		return storeError(c, err, "getPangenome")
	}
	return utils.SuccessResponse(c, sum, fiber.StatusOK)
}

// GetPartition handles GET /api/pangenome/:partition
// @Summary Groups of a pangenome partition
// @Tags Pangenome
// @Produce json
// @Param partition path string true "core, accessory or unique"
// @Success 200 {object} utils.ListResponseStruct[models.GroupCount]
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /pangenome/{partition} [get]
func (h *GenomeHandler) GetPartition(c *fiber.Ctx) error {
	p, err := partitionParam(c.Params("partition"), false)
	if err != nil {
		return utils.BadRequestResponse(c, err.Error())
	}
	groups, truncated, err := collect(h.Store.Pangenome.Partition(c.UserContext(), p))
	if err != nil {
		return storeError(c, err, "getPartition")
	}
	if truncated {
		c.Set("X-Truncated", "true")
	}
	return utils.ListResponse(c, groups)
}

// GetReactionPartition handles GET /api/pangenome/:partition/reactions
// @Summary Reactions of a pangenome partition
// @Description Reactions reached from the groups of a partition, most shared first
// @Tags Pangenome
// @Produce json
// @Param partition path string true "core, accessory, unique or dispensable"
// @Success 200 {object} utils.ListResponseStruct[models.ReactionCount]
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /pangenome/{partition}/reactions [get]
func (h *GenomeHandler) GetReactionPartition(c *fiber.Ctx) error {
	p, err := partitionParam(c.Params("partition"), true)
	if err != nil {
		return utils.BadRequestResponse(c, err.Error())
	}
	reactions, err := h.Store.Pangenome.ReactionPartition(c.UserContext(), p)
	if err != nil {
		return storeError(c, err, "getReactionPartition")
	}
	return utils.ListResponse(c, reactions)
}

// GetAnnotationCounts handles GET /api/annotation/counts?organism=&partition=
// @Summary Annotation counts
// @Description Distinct mapped proteins, terms, reactions and pathways, optionally for one organism and/or one partition
// @Tags Annotation
// @Produce json
// @Param organism query string false "Organism ID"
// @Param partition query string false "core, accessory or unique"
// @Success 200 {object} services.AnnotationCounts
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /annotation/counts [get]
func (h *GenomeHandler) GetAnnotationCounts(c *fiber.Ctx) error {
	p, err := partitionParam(c.Query("partition"), false)
	if err != nil {
		return utils.BadRequestResponse(c, err.Error())
	}
	counts, err := h.Store.Annotation.Counts(c.UserContext(), services.CountFilter{
		OrgID:     c.Query("organism"),
		Partition: p,
	})
	if err != nil {
		return storeError(c, err, "getAnnotationCounts")
	}
	return utils.SuccessResponse(c, counts, fiber.StatusOK)
}
