package config

import (
	"fmt"
	"slices"
	"strings"
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

var validRollbacks = []string{"video", "snapshot"}

// Validate checks the configuration and returns one message per problem.
func (c *Config) Validate() []string {
	var errs []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !slices.Contains(validLogLevels, c.Server.LogLevel) {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of %s; got %q",
			strings.Join(validLogLevels, ", "), c.Server.LogLevel))
	}
	if c.Database.Path == "" {
		errs = append(errs, "database.path: required")
	}
	if !slices.Contains(validRollbacks, c.Board.Rollback) {
		errs = append(errs, fmt.Sprintf("board.rollback: must be video or snapshot; got %q", c.Board.Rollback))
	}
	if c.API.RequestsPerSecond < 0 {
		errs = append(errs, "api.requests_per_second: must not be negative")
	}
	if c.API.RequestsPerSecond > 0 && c.API.Burst < 1 {
		errs = append(errs, "api.burst: must be at least 1 when rate limiting is enabled")
	}
	if c.Events.Retention.Duration < 0 {
		errs = append(errs, "events.retention: must not be negative")
	}
	if c.Events.PruneInterval.Duration < 0 {
		errs = append(errs, "events.prune_interval: must not be negative")
	}

	return errs
}
