// common.go
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
	"fmt"
	"iter"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/localnerve/ductapedb/internal/services"
	"github.com/localnerve/ductapedb/internal/types"
	"github.com/localnerve/ductapedb/internal/utils"
)

// maxListItems bounds the rows a single list response materializes.
const maxListItems = 10000

// storeError maps a store error onto the gateway status codes.
func storeError(c *fiber.Ctx, err error, op string) error {
	switch {
	case types.IsNotFound(err):
		return utils.NotFoundResponse(c, err.Error())
	case types.IsPrecondition(err), types.IsDuplicateSingleton(err):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusConflict, op)
	}
	return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, op)
}

// queryInt reads an integer query parameter, def when it is absent.
func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("query parameter %s: %q is not an integer", key, raw)
	}
	return v, nil
}

// partitionParam parses an optional partition; dispensable only when
// allowed.
func partitionParam(raw string, dispensable bool) (services.Partition, error) {
	if raw == "" {
		return "", nil
	}
	p, err := services.ParsePartition(raw)
	if err != nil {
		return "", err
	}
	if p == services.PartitionDispensable && !dispensable {
		return "", fmt.Errorf("partition %q is only available for reactions", raw)
	}
	return p, nil
}

// collect drains a lazy sequence, stopping at maxListItems.
func collect[T any](seq iter.Seq2[T, error]) ([]T, bool, error) {
	var (
		out       []T
		truncated bool
		failed    error
	)
	for v, err := range seq {
		if err != nil {
			failed = err
			break
		}
		if len(out) == maxListItems {
			truncated = true
			break
		}
		out = append(out, v)
	}
	return out, truncated, failed
}
