// catalog.go
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

	"gorm.io/gorm"

	"github.com/localnerve/ductapedb/internal/models"
	"github.com/localnerve/ductapedb/internal/types"
)

// Concentration tiers of a well in a concentration series.
var concentrationTiers = []int{1, 2, 3, 4}

// LoadCatalog inserts or replaces static plate/well entries.
func (p *PhenotypeStore) LoadCatalog(ctx context.Context, entries []models.Biolog) error {
	p.s.boost(ctx)
	err := p.s.transaction(ctx, func(tx *gorm.DB) error {
		return upsert(tx, entries, p.s.cfg.SignalBatchSize)
	})
	if err == nil {
		p.s.metrics.RowsWritten("biolog", len(entries))
	}
	return err
}

// IsPlate reports whether the catalog has any well on plate.
func (p *PhenotypeStore) IsPlate(ctx context.Context, plateID string) (bool, error) {
	return exists(p.s.db.WithContext(ctx), &models.Biolog{}, "plate_id = ?", plateID)
}

// IsWell reports whether the catalog has the well on the plate.
func (p *PhenotypeStore) IsWell(ctx context.Context, plateID, wellID string) (bool, error) {
	return exists(p.s.db.WithContext(ctx), &models.Biolog{}, "plate_id = ? AND well_id = ?", plateID, wellID)
}

// Plates lists the distinct plate ids.
func (p *PhenotypeStore) Plates(ctx context.Context) ([]string, error) {
	return p.distinct(ctx, "plate_id", nil)
}

// Plate lists the wells of a plate.
func (p *PhenotypeStore) Plate(ctx context.Context, plateID string) ([]models.Biolog, error) {
	return p.catalog(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("plate_id = ?", plateID).Order("well_id")
	})
}

// Wells lists the distinct well ids across plates.
func (p *PhenotypeStore) Wells(ctx context.Context) ([]string, error) {
	return p.distinct(ctx, "well_id", nil)
}

// Well returns one catalog entry, or a NotFoundError.
func (p *PhenotypeStore) Well(ctx context.Context, plateID, wellID string) (models.Biolog, error) {
	return getWell(p.s.db.WithContext(ctx), plateID, wellID)
}

// IsMulti reports whether the well belongs to a concentration series.
// Unknown wells are not.
func (p *PhenotypeStore) IsMulti(ctx context.Context, plateID, wellID string) (bool, error) {
	w, err := p.Well(ctx, plateID, wellID)
	if types.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return w.Concentration != 0, nil
}

// RelatedWells lists the wells of the plate sharing the chemical of a
// series well, across every concentration tier. A well outside any series
// has no related wells.
func (p *PhenotypeStore) RelatedWells(ctx context.Context, plateID, wellID string) ([]models.Biolog, error) {
	w, err := p.Well(ctx, plateID, wellID)
	if types.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if w.Concentration == 0 {
		return nil, nil
	}
	return p.catalog(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("plate_id = ? AND chemical = ? AND concentration IN ?", plateID, w.Chemical, concentrationTiers).
			Order("concentration, well_id")
	})
}

// Categories lists the distinct well categories.
func (p *PhenotypeStore) Categories(ctx context.Context) ([]string, error) {
	return p.distinct(ctx, "category", nil)
}

// CategoryOf returns the category of a plate.
func (p *PhenotypeStore) CategoryOf(ctx context.Context, plateID string) (string, error) {
	var w models.Biolog
	err := first(p.s.db.WithContext(ctx).Where("plate_id = ?", plateID).Order("well_id"), &w, types.KindPlate, plateID)
	return w.Category, err
}

// WellsInCategory lists the wells of a category.
func (p *PhenotypeStore) WellsInCategory(ctx context.Context, category string) ([]models.Biolog, error) {
	return p.catalog(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("category = ?", category).Order("plate_id, well_id")
	})
}

// WellsByCompound lists the wells holding a compound.
func (p *PhenotypeStore) WellsByCompound(ctx context.Context, coID string) ([]models.Biolog, error) {
	return p.catalog(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("co_id = ?", coID).Order("plate_id, well_id")
	})
}

// Compounds lists the distinct compound ids linked to wells.
func (p *PhenotypeStore) Compounds(ctx context.Context) ([]string, error) {
	return p.distinct(ctx, "co_id", func(db *gorm.DB) *gorm.DB {
		return db.Where("co_id IS NOT NULL")
	})
}

func (p *PhenotypeStore) CompoundsByPlate(ctx context.Context, plateID string) ([]string, error) {
	return p.distinct(ctx, "co_id", func(db *gorm.DB) *gorm.DB {
		return db.Where("co_id IS NOT NULL AND plate_id = ?", plateID)
	})
}

func (p *PhenotypeStore) CompoundsByCategory(ctx context.Context, category string) ([]string, error) {
	return p.distinct(ctx, "co_id", func(db *gorm.DB) *gorm.DB {
		return db.Where("co_id IS NOT NULL AND category = ?", category)
	})
}

// CompoundWells lists every well linked to a compound.
func (p *PhenotypeStore) CompoundWells(ctx context.Context) ([]models.Biolog, error) {
	return p.catalog(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("co_id IS NOT NULL").Order("plate_id, well_id")
	})
}

func (p *PhenotypeStore) catalog(ctx context.Context, scope func(db *gorm.DB) *gorm.DB) ([]models.Biolog, error) {
	var out []models.Biolog
	err := p.s.db.WithContext(ctx).Scopes(scope).Find(&out).Error
	return out, storeErr(err)
}

func (p *PhenotypeStore) distinct(ctx context.Context, column string, scope func(db *gorm.DB) *gorm.DB) ([]string, error) {
	q := p.s.db.WithContext(ctx).Model(&models.Biolog{})
	if scope != nil {
		q = q.Scopes(scope)
	}
	var out []string
	err := q.Distinct(column).Order(column).Pluck(column, &out).Error
	return out, storeErr(err)
}

func getWell(tx *gorm.DB, plateID, wellID string) (models.Biolog, error) {
	var w models.Biolog
	err := first(tx.Where("plate_id = ? AND well_id = ?", plateID, wellID), &w, types.KindWell, plateID+"/"+wellID)
	return w, err
}
