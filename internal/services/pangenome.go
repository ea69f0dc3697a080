// pangenome.go
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

package services

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"sort"

	"gorm.io/gorm"
	"gorm.io/hints"

	"github.com/localnerve/ductapedb/internal/logger"
	"github.com/localnerve/ductapedb/internal/models"
	"github.com/localnerve/ductapedb/internal/types"
)

// Partition names a slice of the pangenome by how many organisms own a group.
type Partition string

const (
	PartitionCore      Partition = "core"
	PartitionAccessory Partition = "accessory"
	PartitionUnique    Partition = "unique"
	// PartitionDispensable is accessory and unique together.
	PartitionDispensable Partition = "dispensable"
)

// ParsePartition validates a partition name.
func ParsePartition(s string) (Partition, error) {
	switch p := Partition(s); p {
	case PartitionCore, PartitionAccessory, PartitionUnique, PartitionDispensable:
		return p, nil
	}
	return "", fmt.Errorf("unknown pangenome partition %q", s)
}

// PangenomeEngine stores ortholog group membership and classifies groups
// into core, accessory and unique genome.
type PangenomeEngine struct {
	s   *Store
	log *logger.Logger
}

// AddGroups stores group membership. Every protein must exist; the first
// missing one fails the call before any row is written. On success the
// project pangenome is marked done.
func (e *PangenomeEngine) AddGroups(ctx context.Context, groups map[string][]string) error {
	groupIDs := make([]string, 0, len(groups))
	for id := range groups {
		groupIDs = append(groupIDs, id)
	}
	sort.Strings(groupIDs)

	var (
		rows  []models.Ortholog
		prots []string
	)
	for _, group := range groupIDs {
		for _, prot := range groups[group] {
			rows = append(rows, models.Ortholog{GroupID: group, ProtID: prot})
			prots = append(prots, prot)
		}
	}

	e.s.boost(ctx)

	return e.s.transaction(ctx, func(tx *gorm.DB) error {
		missing, err := firstMissing(tx, "protein", "prot_id", prots)
		if err != nil {
			return err
		}
		if missing != "" {
			e.log.Warn("protein is not present yet", "prot_id", missing)
			e.s.metrics.ValidationFailed(types.KindProtein)
			return types.NotFound(types.KindProtein, missing)
		}
		if err := insertIgnore(tx, rows, e.s.cfg.SignalBatchSize); err != nil {
			return err
		}
		e.s.metrics.RowsWritten("ortholog", len(rows))
		e.log.Debug("added orthologous groups", "groups", len(groupIDs), "members", len(rows))
		return e.s.Project.setPangenome(tx, true)
	})
}

// Groups returns every group with its member proteins.
func (e *PangenomeEngine) Groups(ctx context.Context) (map[string][]string, error) {
	var rows []models.Ortholog
	if err := e.s.db.WithContext(ctx).Order("group_id, prot_id").Find(&rows).Error; err != nil {
		return nil, storeErr(err)
	}
	out := make(map[string][]string)
	for _, r := range rows {
		out[r.GroupID] = append(out[r.GroupID], r.ProtID)
	}
	return out, nil
}

// GroupsByOrganism returns every group with the sorted, distinct ids of
// the organisms owning its members.
func (e *PangenomeEngine) GroupsByOrganism(ctx context.Context) (map[string][]string, error) {
	var rows []struct {
		GroupID string
		OrgID   string
	}
	err := e.s.db.WithContext(ctx).
		Table("ortholog").
		Select("DISTINCT ortholog.group_id AS group_id, protein.org_id AS org_id").
		Joins("JOIN protein ON protein.prot_id = ortholog.prot_id").
		Order("group_id, org_id").
		Scan(&rows).Error
	if err != nil {
		return nil, storeErr(err)
	}
	out := make(map[string][]string)
	for _, r := range rows {
		out[r.GroupID] = append(out[r.GroupID], r.OrgID)
	}
	for id := range out {
		out[id] = slices.Compact(out[id])
	}
	return out, nil
}

// GroupsOf returns the sorted ids of the groups an organism contributes to.
func (e *PangenomeEngine) GroupsOf(ctx context.Context, orgID string) ([]string, error) {
	var ids []string
	err := e.s.db.WithContext(ctx).
		Table("ortholog").
		Distinct("ortholog.group_id").
		Joins("JOIN protein ON protein.prot_id = ortholog.prot_id").
		Where("protein.org_id = ?", orgID).
		Order("ortholog.group_id").
		Pluck("ortholog.group_id", &ids).Error
	return ids, storeErr(err)
}

// Clear drops all group membership and marks the pangenome as cleared.
func (e *PangenomeEngine) Clear(ctx context.Context) error {
	return e.s.transaction(ctx, e.clear)
}

func (e *PangenomeEngine) clear(tx *gorm.DB) error {
	if err := tx.Where("1 = 1").Delete(&models.Ortholog{}).Error; err != nil {
		return storeErr(err)
	}
	return e.s.Project.setPangenome(tx, false)
}

// Core lists the groups owned by every organism.
func (e *PangenomeEngine) Core(ctx context.Context) iter.Seq2[models.GroupCount, error] {
	return e.Partition(ctx, PartitionCore)
}

// Accessory lists the groups owned by more than one organism but not all.
func (e *PangenomeEngine) Accessory(ctx context.Context) iter.Seq2[models.GroupCount, error] {
	return e.Partition(ctx, PartitionAccessory)
}

// Unique lists the groups owned by exactly one organism.
func (e *PangenomeEngine) Unique(ctx context.Context) iter.Seq2[models.GroupCount, error] {
	return e.Partition(ctx, PartitionUnique)
}

func (e *PangenomeEngine) CoreCount(ctx context.Context) (int64, error) {
	return e.PartitionCount(ctx, PartitionCore)
}

func (e *PangenomeEngine) AccessoryCount(ctx context.Context) (int64, error) {
	return e.PartitionCount(ctx, PartitionAccessory)
}

func (e *PangenomeEngine) UniqueCount(ctx context.Context) (int64, error) {
	return e.PartitionCount(ctx, PartitionUnique)
}

// Partition lists the groups of p with their organism counts, ordered by
// group id. The organism count is read once when iteration starts.
func (e *PangenomeEngine) Partition(ctx context.Context, p Partition) iter.Seq2[models.GroupCount, error] {
	return func(yield func(models.GroupCount, error) bool) {
		n, err := countOrganisms(e.s.db.WithContext(ctx))
		if err != nil {
			yield(models.GroupCount{}, err)
			return
		}
		filter, ok := partitionFilter(p, n)
		if !ok {
			return
		}
		seq := paged[models.GroupCount](ctx, func(db *gorm.DB) *gorm.DB {
			return groupCounts(db, p, filter).Order("group_id")
		}, e.s.db)
		for gc, err := range seq {
			if !yield(gc, err) || err != nil {
				return
			}
		}
	}
}

// PartitionCount returns the number of groups in p.
func (e *PangenomeEngine) PartitionCount(ctx context.Context, p Partition) (int64, error) {
	db := e.s.db.WithContext(ctx)
	n, err := countOrganisms(db)
	if err != nil {
		return 0, err
	}
	filter, ok := partitionFilter(p, n)
	if !ok {
		return 0, nil
	}
	var count int64
	err = db.Table("(?) AS part", groupCounts(db, p, filter)).Count(&count).Error
	return count, storeErr(err)
}

// ReactionPartition lists the reactions reachable from the groups of p,
// each with the number of distinct groups contributing it, most shared
// first.
func (e *PangenomeEngine) ReactionPartition(ctx context.Context, p Partition) ([]models.ReactionCount, error) {
	db := e.s.db.WithContext(ctx)
	n, err := countOrganisms(db)
	if err != nil {
		return nil, err
	}
	filter, ok := partitionFilter(p, n)
	if !ok {
		return nil, nil
	}

	var out []models.ReactionCount
	err = db.Clauses(hints.CommentBefore("select", "pangenome:"+string(p)+":reactions")).
		Table("ortholog").
		Select("ko_react.re_id AS re_id, COUNT(DISTINCT ortholog.group_id) AS n_groups").
		Joins("JOIN mapko ON mapko.prot_id = ortholog.prot_id").
		Joins("JOIN ko_react ON ko_react.ko_id = mapko.ko_id").
		Where("ortholog.group_id IN (?)", groupIDs(db, filter)).
		Group("ko_react.re_id").
		Order("n_groups DESC, re_id").
		Scan(&out).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}

// havingFilter is the HAVING predicate on the distinct organism count of a
// group.
type havingFilter struct {
	expr string
	args []any
}

const orgCount = "COUNT(DISTINCT protein.org_id)"

// partitionFilter builds the predicate for p given n organisms. With no
// organisms every partition is empty; unique needs more than one organism
// to stay apart from core.
func partitionFilter(p Partition, n int64) (havingFilter, bool) {
	if n == 0 {
		return havingFilter{}, false
	}
	switch p {
	case PartitionCore:
		return havingFilter{orgCount + " = ?", []any{n}}, true
	case PartitionAccessory:
		if n < 3 {
			return havingFilter{}, false
		}
		return havingFilter{orgCount + " > 1 AND " + orgCount + " < ?", []any{n}}, true
	case PartitionUnique:
		if n < 2 {
			return havingFilter{}, false
		}
		return havingFilter{orgCount + " = 1", nil}, true
	case PartitionDispensable:
		if n < 2 {
			return havingFilter{}, false
		}
		return havingFilter{orgCount + " < ?", []any{n}}, true
	}
	return havingFilter{}, false
}

func groupCounts(db *gorm.DB, p Partition, f havingFilter) *gorm.DB {
	return db.Clauses(hints.CommentBefore("select", "pangenome:"+string(p))).
		Table("ortholog").
		Select("ortholog.group_id AS group_id, "+orgCount+" AS orgs").
		Joins("JOIN protein ON protein.prot_id = ortholog.prot_id").
		Group("ortholog.group_id").
		Having(f.expr, f.args...)
}

func groupIDs(db *gorm.DB, f havingFilter) *gorm.DB {
	return db.Table("ortholog").
		Select("ortholog.group_id").
		Joins("JOIN protein ON protein.prot_id = ortholog.prot_id").
		Group("ortholog.group_id").
		Having(f.expr, f.args...)
}
