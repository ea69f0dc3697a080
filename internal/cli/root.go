// root.go
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

// Package cli is the administrative command line of the store.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/localnerve/ductapedb/internal/config"
	"github.com/localnerve/ductapedb/internal/database"
	"github.com/localnerve/ductapedb/internal/logger"
	"github.com/localnerve/ductapedb/internal/services"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "ductapedb",
		Short:   "Administer a comparative genomics and phenomics store",
		Version: version,
		Long: `ductapedb manages the relational store shared by the genome and
phenome pipelines: organisms, proteomes, ortholog groups, annotation
and assay measurements.

Connection settings come from the environment (DB_TYPE, DB_DATABASE, ...),
optionally loaded from a .env file.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringP("env", "f", ".env", "Path to the .env file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log store activity to stderr")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create every relation of the store (idempotent)",
		Args:  cobra.NoArgs,
		RunE:  RunMigrate,
	}

	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the DDL the migration creates, as sqlite sees it",
		Args:  cobra.NoArgs,
		RunE:  RunSchema,
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show project, organism, pangenome and assay counters",
		Args:  cobra.NoArgs,
		RunE:  RunStatus,
	}
	statusCmd.Flags().Bool("json", false, "Print machine-readable status output")

	// Project Commands
	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Manage the project descriptor",
	}
	projectInitCmd := &cobra.Command{
		Use:   "init [name]",
		Short: "Create the project",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunProjectInit,
	}
	projectInitCmd.Flags().String("description", "", "Project description")
	projectInitCmd.Flags().String("kind", "", "Project kind")
	projectInitCmd.Flags().String("tmp", "", "Working directory of the pipeline")
	projectShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the project",
		Args:  cobra.NoArgs,
		RunE:  RunProjectShow,
	}
	projectShowCmd.Flags().Bool("json", false, "Print machine-readable project")
	projectCmd.AddCommand(projectInitCmd, projectShowCmd)

	// Maintenance Commands
	restoreCmd := &cobra.Command{
		Use:   "restore [plate...]",
		Short: "Move purged measurements back, all of them or those on the given plates",
		RunE:  RunRestore,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete stored entities",
	}
	deleteOrganismCmd := &cobra.Command{
		Use:   "organism <id>",
		Short: "Delete an organism with its proteome and measurements",
		Args:  cobra.ExactArgs(1),
		RunE:  RunDeleteOrganism,
	}
	deleteOrganismCmd.Flags().Bool("cascade", false, "Also delete the mutants of the organism")
	deleteCmd.AddCommand(deleteOrganismCmd)

	rootCmd.AddCommand(migrateCmd, schemaCmd, statusCmd, projectCmd, restoreCmd, deleteCmd)
	return rootCmd
}

// openStore connects with the configuration named by the persistent
// flags. The returned function closes the connection.
func openStore(cmd *cobra.Command) (*services.Store, func(), error) {
	envFile, _ := cmd.Flags().GetString("env")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, err
	}

	log := logger.NewNop()
	if verbose {
		if log, err = logger.New(cfg.LogMode); err != nil {
			return nil, nil, err
		}
	}

	db, err := database.Connect(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		_ = database.Close(db)
		log.Sync()
	}
	if err := database.AutoMigrate(db); err != nil {
		closeFn()
		return nil, nil, err
	}
	return services.New(db, cfg, log, nil), closeFn, nil
}
