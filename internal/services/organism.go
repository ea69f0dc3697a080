// organism.go
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
	"gorm.io/gorm/clause"

	"github.com/localnerve/ductapedb/internal/logger"
	"github.com/localnerve/ductapedb/internal/models"
	"github.com/localnerve/ductapedb/internal/types"
)

// OrganismRegistry is the canonical list of organisms. Deleting an organism
// cascades into its proteome and phenome.
type OrganismRegistry struct {
	s   *Store
	log *logger.Logger
}

// Exists reports whether the organism is registered.
func (r *OrganismRegistry) Exists(ctx context.Context, orgID string) (bool, error) {
	return exists(r.s.db.WithContext(ctx), &models.Organism{}, "org_id = ?", orgID)
}

// IsMutant reports the mutant flag of a registered organism.
func (r *OrganismRegistry) IsMutant(ctx context.Context, orgID string) (bool, error) {
	org, err := r.Get(ctx, orgID)
	if err != nil {
		return false, err
	}
	return org.Mutant, nil
}

// MutantsOf lists the mutants referencing orgID. An unknown organism yields
// nothing.
func (r *OrganismRegistry) MutantsOf(ctx context.Context, orgID string) iter.Seq2[string, error] {
	return paged[string](ctx, func(db *gorm.DB) *gorm.DB {
		return db.Model(&models.Organism{}).
			Select("org_id").
			Where("reference = ? AND mutant = ?", orgID, true).
			Order("org_id")
	}, r.s.db)
}

// Count returns the number of registered organisms.
func (r *OrganismRegistry) Count(ctx context.Context) (int64, error) {
	return countOrganisms(r.s.db.WithContext(ctx))
}

// HowManyMutants returns the number of organisms flagged as mutants.
func (r *OrganismRegistry) HowManyMutants(ctx context.Context) (int64, error) {
	var n int64
	err := r.s.db.WithContext(ctx).Model(&models.Organism{}).Where("mutant = ?", true).Count(&n).Error
	return n, storeErr(err)
}

// All lists every organism ordered by id.
func (r *OrganismRegistry) All(ctx context.Context) iter.Seq2[models.Organism, error] {
	return paged[models.Organism](ctx, func(db *gorm.DB) *gorm.DB {
		return db.Order("org_id")
	}, r.s.db)
}

// Get returns one organism, or a NotFoundError.
func (r *OrganismRegistry) Get(ctx context.Context, orgID string) (models.Organism, error) {
	return getOrganism(r.s.db.WithContext(ctx), orgID)
}

// Upsert registers or replaces an organism. A mutant with a reference
// requires the reference to be registered already. A new organism starts
// with genome and phenome status none; an existing one keeps its statuses
// unless org sets them. Project aggregates are reset either way.
func (r *OrganismRegistry) Upsert(ctx context.Context, org models.Organism) (models.Organism, error) {
	err := r.s.transaction(ctx, func(tx *gorm.DB) error {
		if err := r.checkReference(tx, org.Mutant, org.Reference); err != nil {
			return err
		}

		existing, err := getOrganism(tx, org.OrgID)
		switch {
		case err == nil:
			if org.Genome == "" {
				org.Genome = existing.Genome
			}
			if org.Phenome == "" {
				org.Phenome = existing.Phenome
			}
		case types.IsNotFound(err):
			if org.Genome == "" {
				org.Genome = models.StatusNone
			}
			if org.Phenome == "" {
				org.Phenome = models.StatusNone
			}
		default:
			return err
		}

		if org.Color != nil {
			r.warnColor(tx, org.OrgID, *org.Color)
		}

		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&org).Error; err != nil {
			return storeErr(err)
		}
		r.s.metrics.RowsWritten("organism", 1)
		return r.s.Project.resetAll(tx)
	})
	if err != nil {
		return models.Organism{}, err
	}
	return org, nil
}

// Delete removes an organism with its proteome and phenome. With cascade,
// mutants referencing it are deleted too, recursively. Unknown ids are a
// no-op.
func (r *OrganismRegistry) Delete(ctx context.Context, orgID string, cascade bool) error {
	return r.s.transaction(ctx, func(tx *gorm.DB) error {
		return r.delete(tx, orgID, cascade)
	})
}

// DeleteAll removes every organism and everything that depends on them.
func (r *OrganismRegistry) DeleteAll(ctx context.Context) error {
	return r.s.transaction(ctx, func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&models.Organism{}).Order("org_id").Pluck("org_id", &ids).Error; err != nil {
			return storeErr(err)
		}
		for _, id := range ids {
			if err := r.delete(tx, id, false); err != nil {
				return err
			}
		}
		return r.s.Project.resetAll(tx)
	})
}

func (r *OrganismRegistry) delete(tx *gorm.DB, orgID string, cascade bool) error {
	ok, err := exists(tx, &models.Organism{}, "org_id = ?", orgID)
	if err != nil || !ok {
		return err
	}

	if err := tx.Where("org_id = ?", orgID).Delete(&models.Organism{}).Error; err != nil {
		return storeErr(err)
	}

	// Collected after the row is gone so a reference cycle terminates.
	var mutants []string
	if cascade {
		err := tx.Model(&models.Organism{}).
			Where("reference = ? AND mutant = ?", orgID, true).
			Order("org_id").
			Pluck("org_id", &mutants).Error
		if err != nil {
			return storeErr(err)
		}
	}

	if err := r.s.Proteome.deleteProteome(tx, orgID); err != nil {
		return err
	}
	if err := r.s.Phenotype.deleteOrganismPhenome(tx, orgID); err != nil {
		return err
	}
	for _, mutant := range mutants {
		if err := r.delete(tx, mutant, true); err != nil {
			return err
		}
	}

	r.log.Debug("deleted organism", "org_id", orgID, "mutants", len(mutants))
	return r.s.Project.resetAll(tx)
}

func (r *OrganismRegistry) SetName(ctx context.Context, orgID, name string) error {
	return r.update(ctx, orgID, map[string]any{"name": name})
}

func (r *OrganismRegistry) SetDescription(ctx context.Context, orgID, description string) error {
	return r.update(ctx, orgID, map[string]any{"description": description})
}

func (r *OrganismRegistry) SetFile(ctx context.Context, orgID, file string) error {
	return r.update(ctx, orgID, map[string]any{"file": file})
}

// SetColor sets the display colour. A colour already used by another
// organism is logged but accepted.
func (r *OrganismRegistry) SetColor(ctx context.Context, orgID, color string) error {
	return r.s.transaction(ctx, func(tx *gorm.DB) error {
		if _, err := getOrganism(tx, orgID); err != nil {
			return err
		}
		r.warnColor(tx, orgID, color)
		return storeErr(tx.Model(&models.Organism{}).Where("org_id = ?", orgID).Update("color", color).Error)
	})
}

// SetMutant changes the mutant flag and reference of an organism. The
// reference, when given for a mutant, must be registered.
func (r *OrganismRegistry) SetMutant(ctx context.Context, orgID string, mutant bool, reference *string) error {
	return r.s.transaction(ctx, func(tx *gorm.DB) error {
		if err := r.checkReference(tx, mutant, reference); err != nil {
			return err
		}
		if _, err := getOrganism(tx, orgID); err != nil {
			return err
		}
		return storeErr(tx.Model(&models.Organism{}).Where("org_id = ?", orgID).
			Updates(map[string]any{"mutant": mutant, "reference": reference}).Error)
	})
}

func (r *OrganismRegistry) SetGenomeStatus(ctx context.Context, orgID, status string) error {
	return r.update(ctx, orgID, map[string]any{"genome": status})
}

func (r *OrganismRegistry) SetPhenomeStatus(ctx context.Context, orgID, status string) error {
	return r.update(ctx, orgID, map[string]any{"phenome": status})
}

// ResetGenomes sets every organism genome status to none.
func (r *OrganismRegistry) ResetGenomes(ctx context.Context) error {
	return r.SetAllGenomeStatus(ctx, models.StatusNone)
}

// ResetPhenomes sets every organism phenome status to none.
func (r *OrganismRegistry) ResetPhenomes(ctx context.Context) error {
	return r.SetAllPhenomeStatus(ctx, models.StatusNone)
}

func (r *OrganismRegistry) SetAllGenomeStatus(ctx context.Context, status string) error {
	return setAllOrganisms(r.s.db.WithContext(ctx), "genome", status)
}

func (r *OrganismRegistry) SetAllPhenomeStatus(ctx context.Context, status string) error {
	return setAllOrganisms(r.s.db.WithContext(ctx), "phenome", status)
}

func (r *OrganismRegistry) update(ctx context.Context, orgID string, fields map[string]any) error {
	return r.s.transaction(ctx, func(tx *gorm.DB) error {
		if _, err := getOrganism(tx, orgID); err != nil {
			return err
		}
		return storeErr(tx.Model(&models.Organism{}).Where("org_id = ?", orgID).Updates(fields).Error)
	})
}

func (r *OrganismRegistry) checkReference(tx *gorm.DB, mutant bool, reference *string) error {
	if !mutant || reference == nil || *reference == "" {
		return nil
	}
	ok, err := exists(tx, &models.Organism{}, "org_id = ?", *reference)
	if err != nil {
		return err
	}
	if !ok {
		r.log.Warn("reference is not present yet", "reference", *reference)
		r.s.metrics.ValidationFailed(types.KindReference)
		return types.NotFound(types.KindReference, *reference)
	}
	return nil
}

func (r *OrganismRegistry) warnColor(tx *gorm.DB, orgID, color string) {
	var others []string
	err := tx.Model(&models.Organism{}).
		Where("color = ? AND org_id <> ?", color, orgID).
		Pluck("org_id", &others).Error
	if err != nil {
		r.log.Debug("colour check failed", "org_id", orgID, "error", err)
		return
	}
	if len(others) > 0 {
		r.log.Warn("colour already in use", "org_id", orgID, "color", color, "used_by", others)
	}
}

func getOrganism(tx *gorm.DB, orgID string) (models.Organism, error) {
	var org models.Organism
	err := tx.Where("org_id = ?", orgID).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Organism{}, types.NotFound(types.KindOrganism, orgID)
	}
	if err != nil {
		return models.Organism{}, storeErr(err)
	}
	return org, nil
}

func countOrganisms(tx *gorm.DB) (int64, error) {
	var n int64
	err := tx.Model(&models.Organism{}).Count(&n).Error
	return n, storeErr(err)
}

func setAllOrganisms(tx *gorm.DB, column, status string) error {
	return storeErr(tx.Model(&models.Organism{}).Where("1 = 1").Update(column, status).Error)
}
