// annotation.go
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
	"errors"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/localnerve/ductapedb/internal/config"
	"github.com/localnerve/ductapedb/internal/logger"
	"github.com/localnerve/ductapedb/internal/models"
	"github.com/localnerve/ductapedb/internal/types"
)

const termPrefix = "ko:"

// TermID returns id with the term namespace prefix.
func TermID(id string) string {
	if strings.HasPrefix(id, termPrefix) {
		return id
	}
	return termPrefix + id
}

// node describes one kind of annotation graph vertex.
type node struct {
	kind   string
	table  string
	column string
}

var (
	termNode     = node{types.KindTerm, "ko", "ko_id"}
	reactionNode = node{types.KindReaction, "reaction", "re_id"}
	compoundNode = node{types.KindCompound, "compound", "co_id"}
	pathwayNode  = node{types.KindPathway, "pathway", "path_id"}
)

// AnnotationStore holds ontology terms, reactions, compounds and pathways
// with the edges between them. Edges are only written once both ends exist.
type AnnotationStore struct {
	s   *Store
	log *logger.Logger
}

// AnnotationIDs lists the ids already stored, terms limited to analyzed ones.
type AnnotationIDs struct {
	Terms     []string `json:"terms"`
	Reactions []string `json:"reactions"`
	Compounds []string `json:"compounds"`
	Pathways  []string `json:"pathways"`
}

// CountFilter restricts annotation counts to an organism, a pangenome
// partition, or both.
type CountFilter struct {
	OrgID     string
	Partition Partition
}

// AnnotationCounts are the distinct annotated entities under a CountFilter.
type AnnotationCounts struct {
	Proteins  int64 `json:"proteins"`
	Terms     int64 `json:"terms"`
	Reactions int64 `json:"reactions"`
	Pathways  int64 `json:"pathways"`
}

func (a *AnnotationStore) IsTerm(ctx context.Context, id string) (bool, error) {
	return a.isPresent(a.s.db.WithContext(ctx), termNode, id)
}

func (a *AnnotationStore) IsReaction(ctx context.Context, id string) (bool, error) {
	return a.isPresent(a.s.db.WithContext(ctx), reactionNode, id)
}

func (a *AnnotationStore) IsCompound(ctx context.Context, id string) (bool, error) {
	return a.isPresent(a.s.db.WithContext(ctx), compoundNode, id)
}

func (a *AnnotationStore) IsPathway(ctx context.Context, id string) (bool, error) {
	return a.isPresent(a.s.db.WithContext(ctx), pathwayNode, id)
}

// isPresent looks an id up. When the lookup itself fails the existence
// policy decides: fail open reports the id as present.
func (a *AnnotationStore) isPresent(tx *gorm.DB, n node, id string) (bool, error) {
	var count int64
	err := tx.Table(n.table).Where(n.column+" = ?", id).Count(&count).Error
	if err != nil {
		return a.onLookupError(n, id, storeErr(err))
	}
	return count > 0, nil
}

// checkAll fails with a NotFoundError naming the first id of ids that is
// not stored.
func (a *AnnotationStore) checkAll(tx *gorm.DB, n node, ids []string) error {
	missing, err := firstMissing(tx, n.table, n.column, ids)
	if err != nil {
		if _, err := a.onLookupError(n, "", err); err != nil {
			return err
		}
		return nil
	}
	if missing != "" {
		a.log.Warn(n.kind+" is not present yet", "id", missing)
		a.s.metrics.ValidationFailed(n.kind)
		return types.NotFound(n.kind, missing)
	}
	return nil
}

func (a *AnnotationStore) onLookupError(n node, id string, err error) (bool, error) {
	if a.s.cfg.ExistencePolicy == config.ExistenceFailClosed {
		return false, err
	}
	a.log.Debug("lookup failed, assuming id is present", "kind", n.kind, "id", id, "error", err)
	return true, nil
}

// AddDraftTerms stores bare term ids awaiting analysis. Terms already
// stored are kept as they are.
func (a *AnnotationStore) AddDraftTerms(ctx context.Context, ids []string) error {
	rows := make([]models.KO, 0, len(ids))
	for _, id := range uniq(ids) {
		rows = append(rows, models.KO{KOID: TermID(id)})
	}
	return a.write(ctx, "ko", func(tx *gorm.DB) error {
		return insertIgnore(tx, rows, a.s.cfg.SignalBatchSize)
	}, len(rows))
}

// AddTerms stores analyzed terms, replacing draft or older rows.
func (a *AnnotationStore) AddTerms(ctx context.Context, terms []models.KO) error {
	rows := make([]models.KO, len(terms))
	for i, t := range terms {
		t.Analyzed = true
		rows[i] = t
	}
	return a.write(ctx, "ko", func(tx *gorm.DB) error {
		return upsert(tx, rows, a.s.cfg.SignalBatchSize)
	}, len(rows))
}

func (a *AnnotationStore) AddReactions(ctx context.Context, reactions []models.Reaction) error {
	return a.write(ctx, "reaction", func(tx *gorm.DB) error {
		return insertIgnore(tx, reactions, a.s.cfg.SignalBatchSize)
	}, len(reactions))
}

func (a *AnnotationStore) AddCompounds(ctx context.Context, compounds []models.Compound) error {
	return a.write(ctx, "compound", func(tx *gorm.DB) error {
		return insertIgnore(tx, compounds, a.s.cfg.SignalBatchSize)
	}, len(compounds))
}

func (a *AnnotationStore) AddPathways(ctx context.Context, pathways []models.Pathway) error {
	return a.write(ctx, "pathway", func(tx *gorm.DB) error {
		return insertIgnore(tx, pathways, a.s.cfg.SignalBatchSize)
	}, len(pathways))
}

// LinkTermReaction maps each term to its reactions.
func (a *AnnotationStore) LinkTermReaction(ctx context.Context, edges map[string][]string) error {
	return link(ctx, a, "ko_react", termNode, reactionNode, edges, func(ko, re string) models.KOReact {
		return models.KOReact{KOID: ko, ReID: re}
	})
}

// LinkReactionCompound maps each reaction to its compounds.
func (a *AnnotationStore) LinkReactionCompound(ctx context.Context, edges map[string][]string) error {
	return link(ctx, a, "react_comp", reactionNode, compoundNode, edges, func(re, co string) models.ReactComp {
		return models.ReactComp{ReID: re, CoID: co}
	})
}

// LinkPathwayReaction maps each pathway to its reactions.
func (a *AnnotationStore) LinkPathwayReaction(ctx context.Context, edges map[string][]string) error {
	return link(ctx, a, "react_path", pathwayNode, reactionNode, edges, func(path, re string) models.ReactPath {
		return models.ReactPath{ReID: re, PathID: path}
	})
}

// LinkPathwayCompound maps each pathway to its compounds.
func (a *AnnotationStore) LinkPathwayCompound(ctx context.Context, edges map[string][]string) error {
	return link(ctx, a, "comp_path", pathwayNode, compoundNode, edges, func(path, co string) models.CompPath {
		return models.CompPath{CoID: co, PathID: path}
	})
}

// LinkProteinTerm maps proteins to terms; see ProteomeStore.LinkTerms.
func (a *AnnotationStore) LinkProteinTerm(ctx context.Context, links []models.MapKO) error {
	return a.s.Proteome.LinkTerms(ctx, links)
}

// link validates both ends of every edge across the batch, then writes the
// edges, ignoring those already stored.
func link[T any](ctx context.Context, a *AnnotationStore, relation string, left, right node,
	edges map[string][]string, row func(l, r string) T) error {
	keys := make([]string, 0, len(edges))
	for k := range edges {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		rights []string
		rows   []T
	)
	for _, k := range keys {
		for _, r := range edges[k] {
			rights = append(rights, r)
			rows = append(rows, row(k, r))
		}
	}

	a.s.boost(ctx)

	return a.s.transaction(ctx, func(tx *gorm.DB) error {
		if err := a.checkAll(tx, left, keys); err != nil {
			return err
		}
		if err := a.checkAll(tx, right, rights); err != nil {
			return err
		}
		if err := insertIgnore(tx, rows, a.s.cfg.SignalBatchSize); err != nil {
			return err
		}
		a.s.metrics.RowsWritten(relation, len(rows))
		return nil
	})
}

// AddPathwayMaps stores the rendered map of each pathway, one line per
// element.
func (a *AnnotationStore) AddPathwayMaps(ctx context.Context, maps map[string][]string) error {
	rows := make([]models.PathMap, 0, len(maps))
	ids := make([]string, 0, len(maps))
	for id, lines := range maps {
		ids = append(ids, id)
		rows = append(rows, models.PathMap{PathID: id, HTML: strings.Join(lines, "\n")})
	}
	return a.addPathMaps(ctx, ids, rows, "html")
}

// AddPathwayPictures stores the picture of each pathway.
func (a *AnnotationStore) AddPathwayPictures(ctx context.Context, pics map[string][]byte) error {
	rows := make([]models.PathMap, 0, len(pics))
	ids := make([]string, 0, len(pics))
	for id, png := range pics {
		ids = append(ids, id)
		rows = append(rows, models.PathMap{PathID: id, PNG: png})
	}
	return a.addPathMaps(ctx, ids, rows, "png")
}

func (a *AnnotationStore) addPathMaps(ctx context.Context, ids []string, rows []models.PathMap, column string) error {
	sort.Strings(ids)
	return a.s.transaction(ctx, func(tx *gorm.DB) error {
		if err := a.checkAll(tx, pathwayNode, ids); err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "path_id"}},
			DoUpdates: clause.AssignmentColumns([]string{column}),
		}).CreateInBatches(rows, a.s.cfg.WellBatchSize).Error
		if err != nil {
			return storeErr(err)
		}
		a.s.metrics.RowsWritten("pathmap", len(rows))
		return nil
	})
}

// PathwayMap returns the stored map and picture of a pathway.
func (a *AnnotationStore) PathwayMap(ctx context.Context, pathID string) (models.PathMap, error) {
	var m models.PathMap
	err := first(a.s.db.WithContext(ctx).Where("path_id = ?", pathID), &m, pathwayNode.kind, pathID)
	return m, err
}

// TermsToAnalyze lists the draft term ids.
func (a *AnnotationStore) TermsToAnalyze(ctx context.Context) ([]string, error) {
	var ids []string
	err := a.s.db.WithContext(ctx).Model(&models.KO{}).Where("analyzed = ?", false).Order("ko_id").Pluck("ko_id", &ids).Error
	return ids, storeErr(err)
}

// AllIDs lists every analyzed term, reaction, compound and pathway id.
func (a *AnnotationStore) AllIDs(ctx context.Context) (AnnotationIDs, error) {
	db := a.s.db.WithContext(ctx)
	var ids AnnotationIDs
	if err := db.Model(&models.KO{}).Where("analyzed = ?", true).Order("ko_id").Pluck("ko_id", &ids.Terms).Error; err != nil {
		return AnnotationIDs{}, storeErr(err)
	}
	if err := db.Model(&models.Reaction{}).Order("re_id").Pluck("re_id", &ids.Reactions).Error; err != nil {
		return AnnotationIDs{}, storeErr(err)
	}
	if err := db.Model(&models.Compound{}).Order("co_id").Pluck("co_id", &ids.Compounds).Error; err != nil {
		return AnnotationIDs{}, storeErr(err)
	}
	if err := db.Model(&models.Pathway{}).Order("path_id").Pluck("path_id", &ids.Pathways).Error; err != nil {
		return AnnotationIDs{}, storeErr(err)
	}
	return ids, nil
}

func (a *AnnotationStore) Term(ctx context.Context, id string) (models.KO, error) {
	var v models.KO
	err := first(a.s.db.WithContext(ctx).Where("ko_id = ?", id), &v, types.KindTerm, id)
	return v, err
}

func (a *AnnotationStore) Reaction(ctx context.Context, id string) (models.Reaction, error) {
	var v models.Reaction
	err := first(a.s.db.WithContext(ctx).Where("re_id = ?", id), &v, types.KindReaction, id)
	return v, err
}

func (a *AnnotationStore) Compound(ctx context.Context, id string) (models.Compound, error) {
	var v models.Compound
	err := first(a.s.db.WithContext(ctx).Where("co_id = ?", id), &v, types.KindCompound, id)
	return v, err
}

func (a *AnnotationStore) Pathway(ctx context.Context, id string) (models.Pathway, error) {
	var v models.Pathway
	err := first(a.s.db.WithContext(ctx).Where("path_id = ?", id), &v, types.KindPathway, id)
	return v, err
}

// Counts returns every annotation count under f.
func (a *AnnotationStore) Counts(ctx context.Context, f CountFilter) (AnnotationCounts, error) {
	var (
		out AnnotationCounts
		err error
	)
	if out.Proteins, err = a.CountMappedProteins(ctx, f); err != nil {
		return AnnotationCounts{}, err
	}
	if out.Terms, err = a.CountTerms(ctx, f); err != nil {
		return AnnotationCounts{}, err
	}
	if out.Reactions, err = a.CountReactions(ctx, f); err != nil {
		return AnnotationCounts{}, err
	}
	if out.Pathways, err = a.CountPathways(ctx, f); err != nil {
		return AnnotationCounts{}, err
	}
	return out, nil
}

// CountMappedProteins counts proteins with at least one term.
func (a *AnnotationStore) CountMappedProteins(ctx context.Context, f CountFilter) (int64, error) {
	return a.count(ctx, f, "COUNT(DISTINCT mapko.prot_id)")
}

// CountTerms counts distinct terms mapped to proteins.
func (a *AnnotationStore) CountTerms(ctx context.Context, f CountFilter) (int64, error) {
	return a.count(ctx, f, "COUNT(DISTINCT mapko.ko_id)")
}

// CountReactions counts distinct reactions reached from mapped terms.
func (a *AnnotationStore) CountReactions(ctx context.Context, f CountFilter) (int64, error) {
	return a.count(ctx, f, "COUNT(DISTINCT ko_react.re_id)", "JOIN ko_react ON ko_react.ko_id = mapko.ko_id")
}

// CountPathways counts distinct pathways reached from mapped terms.
func (a *AnnotationStore) CountPathways(ctx context.Context, f CountFilter) (int64, error) {
	return a.count(ctx, f, "COUNT(DISTINCT react_path.path_id)",
		"JOIN ko_react ON ko_react.ko_id = mapko.ko_id",
		"JOIN react_path ON react_path.re_id = ko_react.re_id")
}

func (a *AnnotationStore) count(ctx context.Context, f CountFilter, sel string, joins ...string) (int64, error) {
	db := a.s.db.WithContext(ctx)
	q := db.Table("mapko").Joins("JOIN protein ON protein.prot_id = mapko.prot_id")
	for _, j := range joins {
		q = q.Joins(j)
	}
	if f.OrgID != "" {
		q = q.Where("protein.org_id = ?", f.OrgID)
	}
	if f.Partition != "" {
		n, err := countOrganisms(db)
		if err != nil {
			return 0, err
		}
		filter, ok := partitionFilter(f.Partition, n)
		if !ok {
			return 0, nil
		}
		q = q.Joins("JOIN ortholog ON ortholog.prot_id = mapko.prot_id").
			Where("ortholog.group_id IN (?)", groupIDs(db, filter))
	}
	var n int64
	if err := q.Select(sel).Scan(&n).Error; err != nil {
		return 0, storeErr(err)
	}
	return n, nil
}

func (a *AnnotationStore) write(ctx context.Context, relation string, fn func(tx *gorm.DB) error, n int) error {
	a.s.boost(ctx)
	err := a.s.transaction(ctx, fn)
	if err == nil {
		a.s.metrics.RowsWritten(relation, n)
	}
	return err
}

// first loads one row into dest or reports it as not found.
func first(q *gorm.DB, dest any, kind, id string) error {
	err := q.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.NotFound(kind, id)
	}
	return storeErr(err)
}
