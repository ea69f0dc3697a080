package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/localnerve/ductapedb/internal/logger"
	"github.com/localnerve/ductapedb/internal/models"
	"github.com/localnerve/ductapedb/internal/types"
)

// ProjectRegister owns the single project row and its aggregate status flags.
// Every operation returns the stored value as it is after the call.
type ProjectRegister struct {
	s   *Store
	log *logger.Logger
}

// Exists reports whether a project has been created.
func (p *ProjectRegister) Exists(ctx context.Context) (bool, error) {
	return exists(p.s.db.WithContext(ctx), &models.Project{}, "id = ?", models.ProjectRowID)
}

// Get returns the project, or a NotFoundError when none was created.
func (p *ProjectRegister) Get(ctx context.Context) (models.Project, error) {
	return getProject(p.s.db.WithContext(ctx))
}

// Add creates the project. Empty arguments take the usual defaults. A
// second call fails with DuplicateSingletonError and changes nothing.
func (p *ProjectRegister) Add(ctx context.Context, name, description, kind string, tmp *string) (models.Project, error) {
	if name == "" {
		name = "Project"
	}
	if description == "" {
		description = "Generic project"
	}
	if kind == "" {
		kind = "generic"
	}

	var project models.Project
	err := p.s.transaction(ctx, func(tx *gorm.DB) error {
		existing, err := getProject(tx)
		if err == nil {
			p.log.Warn("tried to add a project when one is already defined", "name", existing.Name)
			return &types.DuplicateSingletonError{Name: existing.Name}
		}
		if !types.IsNotFound(err) {
			return err
		}

		now := time.Now().UTC()
		project = models.Project{
			ID:          models.ProjectRowID,
			Name:        name,
			Description: description,
			Kind:        kind,
			Tmp:         tmp,
			Creation:    now,
			Last:        now,
			Genome:      models.StatusNone,
			Phenome:     models.StatusNone,
		}
		if err := tx.Create(&project).Error; err != nil {
			return storeErr(err)
		}
		p.s.metrics.RowsWritten("project", 1)
		return nil
	})
	if err != nil {
		return models.Project{}, err
	}
	return project, nil
}

// Touch updates the last-touch timestamp.
func (p *ProjectRegister) Touch(ctx context.Context) (models.Project, error) {
	return p.update(ctx, map[string]any{"last": time.Now().UTC()})
}

func (p *ProjectRegister) SetName(ctx context.Context, name string) (models.Project, error) {
	return p.update(ctx, map[string]any{"name": name})
}

func (p *ProjectRegister) SetKind(ctx context.Context, kind string) (models.Project, error) {
	return p.update(ctx, map[string]any{"kind": kind})
}

// SetGenome sets the genomic status of the project.
func (p *ProjectRegister) SetGenome(ctx context.Context, status string) (models.Project, error) {
	return p.update(ctx, map[string]any{"genome": status})
}

// SetPhenome sets the phenomic status of the project.
func (p *ProjectRegister) SetPhenome(ctx context.Context, status string) (models.Project, error) {
	return p.update(ctx, map[string]any{"phenome": status})
}

// DonePanGenome marks the pangenome as computed.
func (p *ProjectRegister) DonePanGenome(ctx context.Context) (models.Project, error) {
	return p.update(ctx, map[string]any{"pangenome": true})
}

// ClearPanGenome marks the pangenome as cleared.
func (p *ProjectRegister) ClearPanGenome(ctx context.Context) (models.Project, error) {
	return p.update(ctx, map[string]any{"pangenome": false})
}

func (p *ProjectRegister) update(ctx context.Context, fields map[string]any) (models.Project, error) {
	var project models.Project
	err := p.s.transaction(ctx, func(tx *gorm.DB) error {
		if _, err := getProject(tx); err != nil {
			return err
		}
		if err := setProject(tx, fields); err != nil {
			return err
		}
		var err error
		project, err = getProject(tx)
		return err
	})
	return project, err
}

// resetAll invalidates every aggregate: pangenome cleared, genome and
// phenome back to none. A missing project is left alone.
func (p *ProjectRegister) resetAll(tx *gorm.DB) error {
	return setProject(tx, map[string]any{
		"pangenome": false,
		"genome":    models.StatusNone,
		"phenome":   models.StatusNone,
	})
}

// resetGenome invalidates the genomic aggregates only.
func (p *ProjectRegister) resetGenome(tx *gorm.DB) error {
	return setProject(tx, map[string]any{
		"pangenome": false,
		"genome":    models.StatusNone,
	})
}

func (p *ProjectRegister) setPangenome(tx *gorm.DB, done bool) error {
	return setProject(tx, map[string]any{"pangenome": done})
}

func getProject(tx *gorm.DB) (models.Project, error) {
	var project models.Project
	err := tx.Where("id = ?", models.ProjectRowID).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Project{}, types.NotFound(types.KindProject, "current")
	}
	if err != nil {
		return models.Project{}, storeErr(err)
	}
	return project, nil
}

func setProject(tx *gorm.DB, fields map[string]any) error {
	return storeErr(tx.Model(&models.Project{}).Where("id = ?", models.ProjectRowID).Updates(fields).Error)
}
