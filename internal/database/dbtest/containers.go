// containers.go
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

package dbtest

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/microsoft/go-mssqldb"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/localnerve/ductapedb/internal/config"
)

const (
	containerUser     = "ductape"
	containerPassword = "Ductape!Passw0rd"
	containerDatabase = "ductapedb"
)

// Server is a database server running in a container, with the
// configuration that reaches it from the host.
type Server struct {
	Container testcontainers.Container
	Config    *config.Config
}

// Terminate stops and removes the container.
func (s *Server) Terminate(ctx context.Context) error {
	if s == nil || s.Container == nil {
		return nil
	}
	return s.Container.Terminate(ctx)
}

type engine struct {
	port   string
	user   string
	dbname string
	driver string
	env    map[string]string
	dsn    func(host string, port nat.Port) string
}

func engineFor(dbType string) (engine, error) {
	switch dbType {
	case "mysql", "mariadb":
		return engine{
			port:   "3306",
			user:   containerUser,
			dbname: containerDatabase,
			driver: "mysql",
			env: map[string]string{
				"MYSQL_ROOT_PASSWORD": containerPassword,
				"MYSQL_DATABASE":      containerDatabase,
				"MYSQL_USER":          containerUser,
				"MYSQL_PASSWORD":      containerPassword,
			},
			dsn: func(host string, port nat.Port) string {
				return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", containerUser, containerPassword, host, port.Port(), containerDatabase)
			},
		}, nil
	case "postgres", "postgresql":
		return engine{
			port:   "5432",
			user:   containerUser,
			dbname: containerDatabase,
			driver: "pgx",
			env: map[string]string{
				"POSTGRES_PASSWORD": containerPassword,
				"POSTGRES_USER":     containerUser,
				"POSTGRES_DB":       containerDatabase,
			},
			dsn: func(host string, port nat.Port) string {
				return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", containerUser, containerPassword, host, port.Port(), containerDatabase)
			},
		}, nil
	case "sqlserver", "mssql":
		// The image only provisions the administrator account.
		return engine{
			port:   "1433",
			user:   "sa",
			dbname: "master",
			driver: "sqlserver",
			env: map[string]string{
				"ACCEPT_EULA":       "Y",
				"MSSQL_SA_PASSWORD": containerPassword,
			},
			dsn: func(host string, port nat.Port) string {
				return fmt.Sprintf("sqlserver://sa:%s@%s:%s?database=master", containerPassword, host, port.Port())
			},
		}, nil
	}
	return engine{}, fmt.Errorf("no container recipe for database type %q", dbType)
}

// StartServer starts imageName as a dbType server and waits until it
// accepts SQL connections.
func StartServer(ctx context.Context, dbType, imageName string) (*Server, error) {
	e, err := engineFor(dbType)
	if err != nil {
		return nil, err
	}
	tcpPort, err := nat.NewPort("tcp", e.port)
	if err != nil {
		return nil, err
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        imageName,
			ExposedPorts: []string{string(tcpPort)},
			Env:          e.env,
			WaitingFor: wait.ForAll(
				wait.ForListeningPort(tcpPort),
				wait.ForSQL(tcpPort, e.driver, e.dsn),
			).WithDeadline(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		return nil, err
	}
	srv := &Server{Container: c}

	host, err := c.Host(ctx)
	if err != nil {
		_ = srv.Terminate(ctx)
		return nil, err
	}
	mapped, err := c.MappedPort(ctx, tcpPort)
	if err != nil {
		_ = srv.Terminate(ctx)
		return nil, err
	}

	cfg := config.Default()
	cfg.DBType = dbType
	cfg.DBHost = host
	cfg.DBPort = mapped.Port()
	cfg.DBDatabase = e.dbname
	cfg.DBUser = e.user
	cfg.DBPassword = containerPassword
	cfg.DBLogLevel = "silent"
	srv.Config = cfg
	return srv, nil
}

// ImagePresent reports whether imageName is already in the local docker
// image store, so callers can say whether a start will pull.
func ImagePresent(ctx context.Context, imageName string) (bool, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return false, err
	}
	defer cli.Close()

	images, err := cli.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return false, err
	}
	for _, img := range images {
		for _, tag := range img.RepoTags {
			if tag == imageName {
				return true, nil
			}
		}
	}
	return false, nil
}
