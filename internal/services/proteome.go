// proteome.go
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
	"iter"

	"gorm.io/gorm"

	"github.com/localnerve/ductapedb/internal/logger"
	"github.com/localnerve/ductapedb/internal/models"
	"github.com/localnerve/ductapedb/internal/types"
)

// ProteomeStore holds the predicted proteins of each organism and their
// term mappings. Protein ids are unique across the whole store.
type ProteomeStore struct {
	s   *Store
	log *logger.Logger
}

// Exists reports whether the protein is stored.
func (p *ProteomeStore) Exists(ctx context.Context, protID string) (bool, error) {
	return exists(p.s.db.WithContext(ctx), &models.Protein{}, "prot_id = ?", protID)
}

// AllExist reports whether every protein is stored, logging the first one
// that is not.
func (p *ProteomeStore) AllExist(ctx context.Context, protIDs []string) (bool, error) {
	missing, err := firstMissing(p.s.db.WithContext(ctx), "protein", "prot_id", protIDs)
	if err != nil {
		return false, err
	}
	if missing != "" {
		p.log.Warn("protein is not present yet", "prot_id", missing)
		return false, nil
	}
	return true, nil
}

// LoadProteome inserts or replaces the proteins of a registered organism.
// The organism genome status goes back to none and any computed pangenome
// is invalidated.
func (p *ProteomeStore) LoadProteome(ctx context.Context, orgID string, proteins []models.Protein) error {
	p.s.boost(ctx)

	return p.s.transaction(ctx, func(tx *gorm.DB) error {
		ok, err := exists(tx, &models.Organism{}, "org_id = ?", orgID)
		if err != nil {
			return err
		}
		if !ok {
			p.log.Warn("organism is not present yet", "org_id", orgID)
			p.s.metrics.ValidationFailed(types.KindOrganism)
			return types.NotFound(types.KindOrganism, orgID)
		}

		rows := make([]models.Protein, len(proteins))
		for i, prot := range proteins {
			prot.OrgID = orgID
			rows[i] = prot
		}
		if err := upsert(tx, rows, p.s.cfg.WellBatchSize*10); err != nil {
			return err
		}
		p.s.metrics.RowsWritten("protein", len(rows))
		p.log.Debug("loaded proteome", "org_id", orgID, "proteins", len(rows))

		err = tx.Model(&models.Organism{}).Where("org_id = ?", orgID).Update("genome", models.StatusNone).Error
		if err != nil {
			return storeErr(err)
		}
		return p.s.Project.resetGenome(tx)
	})
}

// Get returns one protein, or a NotFoundError.
func (p *ProteomeStore) Get(ctx context.Context, protID string) (models.Protein, error) {
	var prot models.Protein
	err := p.s.db.WithContext(ctx).Where("prot_id = ?", protID).First(&prot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Protein{}, types.NotFound(types.KindProtein, protID)
	}
	if err != nil {
		return models.Protein{}, storeErr(err)
	}
	return prot, nil
}

// AllOf lists the proteins of an organism; an unknown organism yields
// nothing.
func (p *ProteomeStore) AllOf(ctx context.Context, orgID string) iter.Seq2[models.Protein, error] {
	return paged[models.Protein](ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("org_id = ?", orgID).Order("prot_id")
	}, p.s.db)
}

// HowMany returns the number of proteins of an organism.
func (p *ProteomeStore) HowMany(ctx context.Context, orgID string) (int64, error) {
	var n int64
	err := p.s.db.WithContext(ctx).Model(&models.Protein{}).Where("org_id = ?", orgID).Count(&n).Error
	return n, storeErr(err)
}

// DeleteProteome removes the proteins of an organism with their term
// mappings. Group membership spans organisms, so the whole pangenome goes.
func (p *ProteomeStore) DeleteProteome(ctx context.Context, orgID string) error {
	return p.s.transaction(ctx, func(tx *gorm.DB) error {
		return p.deleteProteome(tx, orgID)
	})
}

func (p *ProteomeStore) deleteProteome(tx *gorm.DB, orgID string) error {
	owned := tx.Model(&models.Protein{}).Select("prot_id").Where("org_id = ?", orgID)
	if err := tx.Where("prot_id IN (?)", owned).Delete(&models.MapKO{}).Error; err != nil {
		return storeErr(err)
	}
	res := tx.Where("org_id = ?", orgID).Delete(&models.Protein{})
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if err := p.s.Pangenome.clear(tx); err != nil {
		return err
	}
	p.log.Debug("deleted proteome", "org_id", orgID, "proteins", res.RowsAffected)
	return p.s.Project.resetAll(tx)
}

// ClearAll removes every protein, group membership and term mapping.
func (p *ProteomeStore) ClearAll(ctx context.Context) error {
	return p.s.transaction(ctx, func(tx *gorm.DB) error {
		for _, model := range []any{&models.MapKO{}, &models.Ortholog{}, &models.Protein{}} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return storeErr(err)
			}
		}
		if err := setAllOrganisms(tx, "genome", models.StatusNone); err != nil {
			return err
		}
		return p.s.Project.resetGenome(tx)
	})
}

// LinkTerms maps proteins to ontology terms. Both ends are checked across
// the whole batch before anything is written; term ids get the ko: prefix.
func (p *ProteomeStore) LinkTerms(ctx context.Context, links []models.MapKO) error {
	p.s.boost(ctx)

	rows := make([]models.MapKO, len(links))
	prots := make([]string, len(links))
	terms := make([]string, len(links))
	for i, l := range links {
		rows[i] = models.MapKO{ProtID: l.ProtID, KOID: TermID(l.KOID)}
		prots[i] = rows[i].ProtID
		terms[i] = rows[i].KOID
	}

	return p.s.transaction(ctx, func(tx *gorm.DB) error {
		missing, err := firstMissing(tx, "protein", "prot_id", prots)
		if err != nil {
			return err
		}
		if missing != "" {
			p.log.Warn("protein is not present yet", "prot_id", missing)
			p.s.metrics.ValidationFailed(types.KindProtein)
			return types.NotFound(types.KindProtein, missing)
		}
		if err := p.s.Annotation.checkAll(tx, termNode, terms); err != nil {
			return err
		}
		if err := insertIgnore(tx, rows, p.s.cfg.SignalBatchSize); err != nil {
			return err
		}
		p.s.metrics.RowsWritten("mapko", len(rows))
		return nil
	})
}

// TermOf returns the first term mapped to a protein, or nil.
func (p *ProteomeStore) TermOf(ctx context.Context, protID string) (*models.MapKO, error) {
	var m models.MapKO
	err := p.s.db.WithContext(ctx).Where("prot_id = ?", protID).Order("ko_id").First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &m, nil
}

// DeleteTermMappings drops the term mappings of the given proteins.
func (p *ProteomeStore) DeleteTermMappings(ctx context.Context, protIDs []string) error {
	return p.s.transaction(ctx, func(tx *gorm.DB) error {
		for chunk := range chunked(protIDs, pageSize) {
			if err := tx.Where("prot_id IN ?", chunk).Delete(&models.MapKO{}).Error; err != nil {
				return storeErr(err)
			}
		}
		return p.s.Project.resetAll(tx)
	})
}
