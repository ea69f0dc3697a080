// store.go
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
	"iter"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/localnerve/ductapedb/internal/config"
	"github.com/localnerve/ductapedb/internal/database"
	"github.com/localnerve/ductapedb/internal/logger"
	"github.com/localnerve/ductapedb/internal/metrics"
	"github.com/localnerve/ductapedb/internal/types"
)

// pageSize bounds every lazy enumeration and every IN (...) lookup.
const pageSize = 500

// Store is the storage layer. Components share one database handle; the
// sqlite dialect pins it to a single connection, so helpers that run inside
// a transaction always take the transaction handle.
type Store struct {
	db      *gorm.DB
	cfg     *config.Config
	log     *logger.Logger
	metrics *metrics.Metrics

	boostMu sync.Mutex
	boosted bool

	Project    *ProjectRegister
	Organisms  *OrganismRegistry
	Proteome   *ProteomeStore
	Pangenome  *PangenomeEngine
	Annotation *AnnotationStore
	Phenotype  *PhenotypeStore
}

// New wires the components over an open, migrated database. A nil m
// disables metrics.
func New(db *gorm.DB, cfg *config.Config, log *logger.Logger, m *metrics.Metrics) *Store {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logger.NewNop()
	}
	s := &Store{db: db, cfg: cfg, log: log, metrics: m}
	s.Project = &ProjectRegister{s: s, log: log.With("component", "project")}
	s.Organisms = &OrganismRegistry{s: s, log: log.With("component", "organism")}
	s.Proteome = &ProteomeStore{s: s, log: log.With("component", "proteome")}
	s.Pangenome = &PangenomeEngine{s: s, log: log.With("component", "pangenome")}
	s.Annotation = &AnnotationStore{s: s, log: log.With("component", "annotation")}
	s.Phenotype = &PhenotypeStore{s: s, log: log.With("component", "phenotype")}
	return s
}

// DB exposes the underlying handle for health checks and tooling.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Config returns the configuration the store was built with.
func (s *Store) Config() *config.Config {
	return s.cfg
}

// transaction runs fn as one atomic unit.
func (s *Store) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return storeErr(s.db.WithContext(ctx).Transaction(fn))
}

// boost applies the bulk load pragmas once per store. Failure only costs
// speed, so it is logged and ignored.
func (s *Store) boost(ctx context.Context) {
	if !s.cfg.DBBoost {
		return
	}
	s.boostMu.Lock()
	defer s.boostMu.Unlock()
	if s.boosted {
		return
	}
	if err := database.Boost(ctx, s.db); err != nil {
		s.log.Warn("boost failed", "error", err)
		return
	}
	s.boosted = true
}

// storeErr classifies raw storage engine failures as transient and leaves
// typed domain errors untouched.
func storeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case types.IsNotFound(err), types.IsPrecondition(err), types.IsDuplicateSingleton(err), types.IsTransient(err):
		return err
	}
	return types.ErrTransient.Wrap(err)
}

// exists reports whether model has a row matching query.
func exists(tx *gorm.DB, model any, query string, args ...any) (bool, error) {
	var n int64
	if err := tx.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		return false, storeErr(err)
	}
	return n > 0, nil
}

// firstMissing returns the first id, in input order, that has no row in
// table, or "" when every id is present.
func firstMissing(tx *gorm.DB, table, column string, ids []string) (string, error) {
	present := make(map[string]struct{}, len(ids))
	for chunk := range chunked(uniq(ids), pageSize) {
		var found []string
		if err := tx.Table(table).Where(column+" IN ?", chunk).Pluck(column, &found).Error; err != nil {
			return "", storeErr(err)
		}
		for _, id := range found {
			present[id] = struct{}{}
		}
	}
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			return id, nil
		}
	}
	return "", nil
}

// upsert inserts rows in batches, replacing rows whose primary key exists.
func upsert[T any](tx *gorm.DB, rows []T, batch int) error {
	if len(rows) == 0 {
		return nil
	}
	return storeErr(tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(rows, batch).Error)
}

// insertIgnore inserts rows in batches, keeping rows whose primary key exists.
func insertIgnore[T any](tx *gorm.DB, rows []T, batch int) error {
	if len(rows) == 0 {
		return nil
	}
	return storeErr(tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(rows, batch).Error)
}

// paged lazily walks query page by page. query must return a fresh, ordered
// chain on each call; no connection is held between pages.
func paged[T any](ctx context.Context, query func(db *gorm.DB) *gorm.DB, db *gorm.DB) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for offset := 0; ; offset += pageSize {
			var page []T
			if err := query(db.WithContext(ctx)).Offset(offset).Limit(pageSize).Find(&page).Error; err != nil {
				var zero T
				yield(zero, storeErr(err))
				return
			}
			for _, row := range page {
				if !yield(row, nil) {
					return
				}
			}
			if len(page) < pageSize {
				return
			}
		}
	}
}

// Collect drains a lazy enumeration into a slice.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for v, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func chunked[T any](s []T, size int) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		for start := 0; start < len(s); start += size {
			if !yield(s[start:min(start+size, len(s))]) {
				return
			}
		}
	}
}

func uniq(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
