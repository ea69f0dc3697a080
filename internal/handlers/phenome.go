// phenome.go
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

// PhenomeHandler serves assay measurements.
type PhenomeHandler struct {
	Store *services.Store
}

// GetActive handles GET /api/phenotype/active?activity=&plate=&organism=
// @Summary Active measurements
// @Description Measurements with activity at least the given level (default 0), optionally on one plate and/or for one organism
// @Tags Phenotype
// @Produce json
// @Param activity query int false "Minimum activity"
// @Param plate query string false "Plate ID"
// @Param organism query string false "Organism ID"
// @Success 200 {object} utils.ListResponseStruct[models.BiologExp]
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /phenotype/active [get]
func (h *PhenomeHandler) GetActive(c *fiber.Ctx) error {
	activity, err := queryInt(c, "activity", 0)
	if err != nil {
		return utils.BadRequestResponse(c, err.Error())
	}
	exps, truncated, err := collect(h.Store.Phenotype.Active(c.UserContext(), services.ActiveFilter{
		Activity: activity,
		PlateID:  c.Query("plate"),
		OrgID:    c.Query("organism"),
	}))
	if err != nil {
		return storeError(c, err, "getActive")
	}
	if truncated {
		c.Set("X-Truncated", "true")
	}
	return utils.ListResponse(c, exps)
}
