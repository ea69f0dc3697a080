// phenotype.go
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
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/localnerve/ductapedb/internal/logger"
	"github.com/localnerve/ductapedb/internal/models"
	"github.com/localnerve/ductapedb/internal/types"
)

// PhenotypeStore holds the plate/well catalog and the assay measurements of
// each organism, with their raw signal curves and the purged mirror used to
// keep outliers out of analysis.
type PhenotypeStore struct {
	s   *Store
	log *logger.Logger
}

// ActiveFilter selects active measurements. Empty ids match everything.
type ActiveFilter struct {
	Activity int
	PlateID  string
	OrgID    string
}

// PurgeResult reports a MoveToPurged call.
type PurgeResult struct {
	BatchID string `json:"batchId"`
	Moved   int    `json:"moved"`
}

// AddWells inserts or replaces a batch of measurements with their raw
// curves. Plate, well and organism of every entry must exist; when
// clustered is set, every entry must carry its activity. An entry without
// a time series drops any curve stored for its key. Nothing is written
// unless the whole batch passes.
func (p *PhenotypeStore) AddWells(ctx context.Context, wells []models.Well, clustered bool) error {
	p.s.boost(ctx)

	return p.s.transaction(ctx, func(tx *gorm.DB) error {
		if err := p.validate(tx, wells, clustered); err != nil {
			return err
		}

		exps := make([]models.BiologExp, 0, len(wells))
		dets := make([]models.BiologExpDet, 0, len(wells))
		for _, w := range wells {
			exps = append(exps, w.Measurement())
			if len(w.Times) > 0 {
				dets = append(dets, w.Detail())
				continue
			}
			if err := deleteByKey(tx, w.WellKey, &models.BiologExpDet{}); err != nil {
				return err
			}
		}
		if err := upsert(tx, exps, p.s.cfg.WellBatchSize); err != nil {
			return err
		}
		if err := upsert(tx, dets, p.s.cfg.SignalBatchSize); err != nil {
			return err
		}
		p.s.metrics.RowsWritten("biolog_exp", len(exps))
		p.s.metrics.RowsWritten("biolog_exp_det", len(dets))
		p.log.Debug("added wells", "wells", len(exps), "curves", len(dets), "clustered", clustered)
		return nil
	})
}

func (p *PhenotypeStore) validate(tx *gorm.DB, wells []models.Well, clustered bool) error {
	plates := make([]string, 0, len(wells))
	orgs := make([]string, 0, len(wells))
	for _, w := range wells {
		plates = append(plates, w.PlateID)
		orgs = append(orgs, w.OrgID)
	}

	type pair struct{ plate, well string }
	catalog := make(map[pair]struct{})
	for chunk := range chunked(uniq(plates), pageSize) {
		var rows []models.Biolog
		if err := tx.Select("plate_id, well_id").Where("plate_id IN ?", chunk).Find(&rows).Error; err != nil {
			return storeErr(err)
		}
		for _, r := range rows {
			catalog[pair{r.PlateID, r.WellID}] = struct{}{}
		}
	}
	knownPlates := make(map[string]struct{})
	for k := range catalog {
		knownPlates[k.plate] = struct{}{}
	}
	knownOrgs := make(map[string]struct{})
	for chunk := range chunked(uniq(orgs), pageSize) {
		var found []string
		if err := tx.Model(&models.Organism{}).Where("org_id IN ?", chunk).Pluck("org_id", &found).Error; err != nil {
			return storeErr(err)
		}
		for _, id := range found {
			knownOrgs[id] = struct{}{}
		}
	}

	for _, w := range wells {
		if _, ok := knownPlates[w.PlateID]; !ok {
			return p.reject(types.NotFound(types.KindPlate, w.PlateID), types.KindPlate)
		}
		if _, ok := catalog[pair{w.PlateID, w.WellID}]; !ok {
			return p.reject(types.NotFound(types.KindWell, w.PlateID+"/"+w.WellID), types.KindWell)
		}
		if _, ok := knownOrgs[w.OrgID]; !ok {
			return p.reject(types.NotFound(types.KindOrganism, w.OrgID), types.KindOrganism)
		}
		if len(w.Times) != len(w.Signals) {
			return p.reject(&types.PreconditionError{Reason: "times and signals differ in length", Key: w.WellKey.String()}, "signals")
		}
		if !finite(w.Times) || !finite(w.Signals) {
			return p.reject(&types.PreconditionError{Reason: "curve holds a NaN or infinite sample", Key: w.WellKey.String()}, "signals")
		}
		if clustered && w.Activity == nil {
			return p.reject(&types.PreconditionError{Reason: "parameters not yet computed", Key: w.WellKey.String()}, "parameters")
		}
	}
	return nil
}

func finite(s models.Series) bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (p *PhenotypeStore) reject(err error, kind string) error {
	p.log.Warn("well batch rejected", "error", err)
	p.s.metrics.ValidationFailed(kind)
	return err
}

// DeleteWells removes measurements and their raw curves.
func (p *PhenotypeStore) DeleteWells(ctx context.Context, keys []models.WellKey) error {
	return p.s.transaction(ctx, func(tx *gorm.DB) error {
		for _, k := range keys {
			if err := deleteByKey(tx, k, &models.BiologExp{}, &models.BiologExpDet{}); err != nil {
				return err
			}
		}
		return nil
	})
}

// Replicas lists the measurements of an organism in a well by replica.
func (p *PhenotypeStore) Replicas(ctx context.Context, plateID, wellID, orgID string) ([]models.BiologExp, error) {
	var out []models.BiologExp
	err := p.s.db.WithContext(ctx).
		Where("plate_id = ? AND well_id = ? AND org_id = ?", plateID, wellID, orgID).
		Order("replica").
		Find(&out).Error
	return out, storeErr(err)
}

// Measurement returns one active measurement.
func (p *PhenotypeStore) Measurement(ctx context.Context, key models.WellKey) (models.BiologExp, error) {
	var m models.BiologExp
	err := first(p.s.db.WithContext(ctx).Where(keyWhere(key)), &m, types.KindWell, key.String())
	return m, err
}

// Signals returns the raw curve of one active measurement.
func (p *PhenotypeStore) Signals(ctx context.Context, key models.WellKey) (models.BiologExpDet, error) {
	var d models.BiologExpDet
	err := first(p.s.db.WithContext(ctx).Where(keyWhere(key)), &d, types.KindWell, key.String())
	return d, err
}

// Active lists measurements at least as active as f.Activity.
func (p *PhenotypeStore) Active(ctx context.Context, f ActiveFilter) iter.Seq2[models.BiologExp, error] {
	return paged[models.BiologExp](ctx, func(db *gorm.DB) *gorm.DB {
		return activeScope(db, f).Order("plate_id, well_id, org_id, replica")
	}, p.s.db)
}

func (p *PhenotypeStore) ActiveByPlate(ctx context.Context, plateID string, activity int) iter.Seq2[models.BiologExp, error] {
	return p.Active(ctx, ActiveFilter{Activity: activity, PlateID: plateID})
}

func (p *PhenotypeStore) AllActive(ctx context.Context, activity int) iter.Seq2[models.BiologExp, error] {
	return p.Active(ctx, ActiveFilter{Activity: activity})
}

// HowManyActive counts measurements at least as active as activity.
func (p *PhenotypeStore) HowManyActive(ctx context.Context, activity int) (int64, error) {
	return p.countActive(ctx, ActiveFilter{Activity: activity})
}

func (p *PhenotypeStore) HowManyActiveByPlate(ctx context.Context, plateID string, activity int) (int64, error) {
	return p.countActive(ctx, ActiveFilter{Activity: activity, PlateID: plateID})
}

func (p *PhenotypeStore) HowManyActiveByOrganism(ctx context.Context, orgID string, activity int) (int64, error) {
	return p.countActive(ctx, ActiveFilter{Activity: activity, OrgID: orgID})
}

func (p *PhenotypeStore) countActive(ctx context.Context, f ActiveFilter) (int64, error) {
	var n int64
	err := activeScope(p.s.db.WithContext(ctx).Model(&models.BiologExp{}), f).Count(&n).Error
	return n, storeErr(err)
}

func activeScope(db *gorm.DB, f ActiveFilter) *gorm.DB {
	q := db.Where("activity >= ?", f.Activity)
	if f.PlateID != "" {
		q = q.Where("plate_id = ?", f.PlateID)
	}
	if f.OrgID != "" {
		q = q.Where("org_id = ?", f.OrgID)
	}
	return q
}

// IsZeroSubtracted reports whether there are measurements and all of them
// are zero subtracted.
func (p *PhenotypeStore) IsZeroSubtracted(ctx context.Context) (bool, error) {
	db := p.s.db.WithContext(ctx)
	some, err := exists(db, &models.BiologExp{}, "1 = 1")
	if err != nil || !some {
		return false, err
	}
	raw, err := exists(db, &models.BiologExp{}, "zero = ?", false)
	return !raw, err
}

// AtLeastOneZeroSubtracted reports whether any measurement is zero subtracted.
func (p *PhenotypeStore) AtLeastOneZeroSubtracted(ctx context.Context) (bool, error) {
	return exists(p.s.db.WithContext(ctx), &models.BiologExp{}, "zero = ?", true)
}

// AtLeastOneParameter reports whether any measurement has its activity.
func (p *PhenotypeStore) AtLeastOneParameter(ctx context.Context) (bool, error) {
	return exists(p.s.db.WithContext(ctx), &models.BiologExp{}, "activity IS NOT NULL")
}

// AtLeastOneNoParameter reports whether any measurement still lacks its
// activity.
func (p *PhenotypeStore) AtLeastOneNoParameter(ctx context.Context) (bool, error) {
	return exists(p.s.db.WithContext(ctx), &models.BiologExp{}, "activity IS NULL")
}

// MoveToPurged moves measurements and their raw curves to the purged
// relations. Keys without an active measurement are skipped.
func (p *PhenotypeStore) MoveToPurged(ctx context.Context, keys []models.WellKey) (PurgeResult, error) {
	res := PurgeResult{BatchID: uuid.NewString()}
	now := time.Now().UTC()

	err := p.s.transaction(ctx, func(tx *gorm.DB) error {
		for _, k := range keys {
			var exp models.BiologExp
			err := tx.Where(keyWhere(k)).First(&exp).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			if err != nil {
				return storeErr(err)
			}
			purged := []models.BiologPurgedExp{{
				WellKey:     exp.WellKey,
				Zero:        exp.Zero,
				CurveParams: exp.CurveParams,
				PurgeID:     res.BatchID,
				PurgedAt:    now,
			}}
			if err := upsert(tx, purged, 1); err != nil {
				return err
			}

			// The purged mirror holds exactly the current state of the key.
			if err := deleteByKey(tx, k, &models.BiologPurgedExpDet{}); err != nil {
				return err
			}
			var det models.BiologExpDet
			err = tx.Where(keyWhere(k)).First(&det).Error
			switch {
			case err == nil:
				purgedDet := []models.BiologPurgedExpDet{{
					WellKey:  det.WellKey,
					Times:    det.Times,
					Signals:  det.Signals,
					PurgedAt: now,
				}}
				if err := upsert(tx, purgedDet, 1); err != nil {
					return err
				}
			case !errors.Is(err, gorm.ErrRecordNotFound):
				return storeErr(err)
			}

			if err := deleteByKey(tx, k, &models.BiologExp{}, &models.BiologExpDet{}); err != nil {
				return err
			}
			res.Moved++
		}
		return nil
	})
	if err != nil {
		return PurgeResult{}, err
	}

	p.s.metrics.WellsPurged(res.Moved)
	p.log.Info("purged wells", "batch", res.BatchID, "moved", res.Moved)
	return res, nil
}

// Restore moves purged measurements back, all of them or those on the
// given plates, and returns how many were restored. The purged copies are
// trusted as they are.
func (p *PhenotypeStore) Restore(ctx context.Context, plates ...string) (int, error) {
	var restored int
	err := p.s.transaction(ctx, func(tx *gorm.DB) error {
		var purged []models.BiologPurgedExp
		if err := purgedScope(tx, plates).Find(&purged).Error; err != nil {
			return storeErr(err)
		}
		var purgedDets []models.BiologPurgedExpDet
		if err := purgedScope(tx, plates).Find(&purgedDets).Error; err != nil {
			return storeErr(err)
		}

		exps := make([]models.BiologExp, len(purged))
		for i, e := range purged {
			exps[i] = models.BiologExp{WellKey: e.WellKey, Zero: e.Zero, CurveParams: e.CurveParams}
		}
		dets := make([]models.BiologExpDet, len(purgedDets))
		withCurve := make(map[models.WellKey]struct{}, len(purgedDets))
		for i, d := range purgedDets {
			dets[i] = models.BiologExpDet{WellKey: d.WellKey, Times: d.Times, Signals: d.Signals}
			withCurve[d.WellKey] = struct{}{}
		}
		if err := upsert(tx, exps, p.s.cfg.WellBatchSize); err != nil {
			return err
		}
		for _, e := range exps {
			if _, ok := withCurve[e.WellKey]; ok {
				continue
			}
			if err := deleteByKey(tx, e.WellKey, &models.BiologExpDet{}); err != nil {
				return err
			}
		}
		if err := upsert(tx, dets, p.s.cfg.SignalBatchSize); err != nil {
			return err
		}

		if err := purgedScope(tx, plates).Delete(&models.BiologPurgedExp{}).Error; err != nil {
			return storeErr(err)
		}
		if err := purgedScope(tx, plates).Delete(&models.BiologPurgedExpDet{}).Error; err != nil {
			return storeErr(err)
		}
		restored = len(exps)
		return nil
	})
	if err != nil {
		return 0, err
	}

	p.s.metrics.WellsRestored(restored)
	p.log.Info("restored wells", "restored", restored, "plates", plates)
	return restored, nil
}

// Purged lists purged measurements, all of them or those on the given plates.
func (p *PhenotypeStore) Purged(ctx context.Context, plates ...string) ([]models.BiologPurgedExp, error) {
	var out []models.BiologPurgedExp
	err := purgedScope(p.s.db.WithContext(ctx), plates).
		Order("plate_id, well_id, org_id, replica").
		Find(&out).Error
	return out, storeErr(err)
}

// HowManyPurged counts purged measurements.
func (p *PhenotypeStore) HowManyPurged(ctx context.Context) (int64, error) {
	var n int64
	err := p.s.db.WithContext(ctx).Model(&models.BiologPurgedExp{}).Count(&n).Error
	return n, storeErr(err)
}

// deleteOrganismPhenome removes every active and purged row of an organism.
func (p *PhenotypeStore) deleteOrganismPhenome(tx *gorm.DB, orgID string) error {
	for _, model := range []any{
		&models.BiologExp{},
		&models.BiologExpDet{},
		&models.BiologPurgedExp{},
		&models.BiologPurgedExpDet{},
	} {
		if err := tx.Where("org_id = ?", orgID).Delete(model).Error; err != nil {
			return storeErr(err)
		}
	}
	return nil
}

func purgedScope(db *gorm.DB, plates []string) *gorm.DB {
	if len(plates) == 0 {
		return db.Where("1 = 1")
	}
	return db.Where("plate_id IN ?", plates)
}

func keyWhere(k models.WellKey) map[string]any {
	return map[string]any{
		"plate_id": k.PlateID,
		"well_id":  k.WellID,
		"org_id":   k.OrgID,
		"replica":  k.Replica,
	}
}

func deleteByKey(tx *gorm.DB, k models.WellKey, targets ...any) error {
	for _, model := range targets {
		if err := tx.Where(keyWhere(k)).Delete(model).Error; err != nil {
			return storeErr(err)
		}
	}
	return nil
}
