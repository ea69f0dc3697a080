// commands.go
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

package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/localnerve/ductapedb/internal/config"
	"github.com/localnerve/ductapedb/internal/database"
	"github.com/localnerve/ductapedb/internal/logger"
	"github.com/localnerve/ductapedb/internal/models"
	"github.com/localnerve/ductapedb/internal/services"
	"github.com/localnerve/ductapedb/internal/types"
)

// Status is the summary printed by the status command.
type Status struct {
	Project   *models.Project `json:"project,omitempty"`
	Organisms int64           `json:"organisms"`
	Mutants   int64           `json:"mutants"`
	Core      int64           `json:"core"`
	Accessory int64           `json:"accessory"`
	Unique    int64           `json:"unique"`
	Active    int64           `json:"active"`
	Purged    int64           `json:"purged"`
}

func RunMigrate(cmd *cobra.Command, _ []string) error {
	store, closeFn, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	cfg := store.Config()
	fmt.Fprintf(cmd.OutOrStdout(), "store ready: %s %s\n", cfg.DBType, cfg.DBDatabase)
	return nil
}

// RunSchema migrates a throwaway in-memory database and prints its tables.
func RunSchema(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()
	cfg.DBDatabase = ":memory:"
	cfg.DBLogLevel = "silent"

	db, err := database.Connect(cfg, logger.NewNop())
	if err != nil {
		return err
	}
	defer database.Close(db)
	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	var tables []struct {
		Name string
		SQL  string
	}
	err = db.Raw("SELECT name, sql FROM sqlite_master WHERE type = 'table' ORDER BY name").Scan(&tables).Error
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, t := range tables {
		fmt.Fprintf(out, "\n=== Table: %s ===\n%s\n", t.Name, t.SQL)
	}
	return nil
}

func RunProjectInit(cmd *cobra.Command, args []string) error {
	store, closeFn, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	var name string
	if len(args) > 0 {
		name = args[0]
	}
	description, _ := cmd.Flags().GetString("description")
	kind, _ := cmd.Flags().GetString("kind")
	var tmp *string
	if v, _ := cmd.Flags().GetString("tmp"); v != "" {
		tmp = &v
	}

	p, err := store.Project.Add(cmd.Context(), name, description, kind, tmp)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), p.String())
	return nil
}

func RunProjectShow(cmd *cobra.Command, _ []string) error {
	store, closeFn, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	p, err := store.Project.Get(cmd.Context())
	if err != nil {
		return err
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(cmd.OutOrStdout(), p)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, p.String())
	fmt.Fprintf(out, "genome: %s  phenome: %s  pangenome: %t\n", p.Genome, p.Phenome, p.Pangenome)
	return nil
}

func RunStatus(cmd *cobra.Command, _ []string) error {
	store, closeFn, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	st, err := collectStatus(cmd, store)
	if err != nil {
		return err
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(cmd.OutOrStdout(), st)
	}

	out := cmd.OutOrStdout()
	if st.Project != nil {
		fmt.Fprintf(out, "project:   %s (%s)\n", st.Project.Name, st.Project.Kind)
	} else {
		fmt.Fprintln(out, "project:   none")
	}
	fmt.Fprintf(out, "organisms: %d (%d mutants)\n", st.Organisms, st.Mutants)
	fmt.Fprintf(out, "pangenome: core=%d accessory=%d unique=%d\n", st.Core, st.Accessory, st.Unique)
	fmt.Fprintf(out, "phenome:   active=%d purged=%d\n", st.Active, st.Purged)
	return nil
}

func collectStatus(cmd *cobra.Command, store *services.Store) (Status, error) {
	ctx := cmd.Context()
	var st Status

	p, err := store.Project.Get(ctx)
	switch {
	case err == nil:
		st.Project = &p
	case !types.IsNotFound(err):
		return Status{}, err
	}

	for _, c := range []struct {
		dst *int64
		fn  func() (int64, error)
	}{
		{&st.Organisms, func() (int64, error) { return store.Organisms.Count(ctx) }},
		{&st.Mutants, func() (int64, error) { return store.Organisms.HowManyMutants(ctx) }},
		{&st.Core, func() (int64, error) { return store.Pangenome.CoreCount(ctx) }},
		{&st.Accessory, func() (int64, error) { return store.Pangenome.AccessoryCount(ctx) }},
		{&st.Unique, func() (int64, error) { return store.Pangenome.UniqueCount(ctx) }},
		{&st.Active, func() (int64, error) { return store.Phenotype.HowManyActive(ctx, 0) }},
		{&st.Purged, func() (int64, error) { return store.Phenotype.HowManyPurged(ctx) }},
	} {
		n, err := c.fn()
		if err != nil {
			return Status{}, err
		}
		*c.dst = n
	}
	return st, nil
}

func RunRestore(cmd *cobra.Command, args []string) error {
	store, closeFn, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	n, err := store.Phenotype.Restore(cmd.Context(), args...)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "restored %d measurements\n", n)
	return nil
}

func RunDeleteOrganism(cmd *cobra.Command, args []string) error {
	store, closeFn, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	cascade, _ := cmd.Flags().GetBool("cascade")
	ctx := cmd.Context()

	if _, err := store.Organisms.Get(ctx, args[0]); err != nil {
		return err
	}
	if err := store.Organisms.Delete(ctx, args[0], cascade); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted organism %s\n", args[0])
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
