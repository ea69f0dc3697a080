package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/localnerve/ductapedb/internal/database"
	"github.com/localnerve/ductapedb/internal/types"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Project      string            `json:"project"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck checks database connectivity and reports the project state.
// A store without a project is still healthy.
func (s *Store) HealthCheck(ctx context.Context) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	if err := database.Ping(ctx, s.db); err != nil {
		result.Status = "unhealthy"
		result.Database = "unreachable"
		result.Details["database_ping_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database ping failed: %v", err)
		s.log.Error("health check failed - database ping", "error", err)
		return result
	}
	result.Database = "ok"
	result.Details["database_type"] = s.cfg.DBType
	result.Details["database_name"] = s.cfg.DBDatabase

	project, err := s.Project.Get(ctx)
	switch {
	case err == nil:
		result.Project = "ok"
		result.Details["project_name"] = project.Name
		result.Details["genome"] = project.Genome
		result.Details["phenome"] = project.Phenome
		result.Details["pangenome"] = strconv.FormatBool(project.Pangenome)
	case types.IsNotFound(err):
		result.Project = "none"
	default:
		result.Status = "unhealthy"
		result.Project = "error"
		result.Details["project_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Project lookup failed: %v", err)
		s.log.Error("health check failed - project lookup", "error", err)
		return result
	}

	if n, err := s.Organisms.Count(ctx); err == nil {
		result.Details["organisms"] = strconv.FormatInt(n, 10)
	}

	s.log.Debug("health check passed")
	return result
}
