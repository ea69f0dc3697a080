// main.go
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

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/localnerve/ductapedb/internal/config"
	"github.com/localnerve/ductapedb/internal/database"
	"github.com/localnerve/ductapedb/internal/logger"
	"github.com/localnerve/ductapedb/internal/services"
)

func main() {
	var envFile string
	flag.StringVar(&envFile, "f", ".env", "path to the .env file")
	flag.Parse()

	os.Exit(run(envFile))
}

func run(envFile string) int {
	cfg, err := config.Load(envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 1
	}

	log := logger.NewNop()
	db, err := database.Connect(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to database: %v\n", err)
		return 1
	}
	defer database.Close(db)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result := services.New(db, cfg, log, nil).HealthCheck(ctx)

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal health check result: %v\n", err)
		return 1
	}
	fmt.Println(string(output))

	if result.Status != "healthy" {
		return 1
	}
	return 0
}
