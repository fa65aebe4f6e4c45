package dbmigrate

import (
	"fmt"

	"github.com/fdg312/health-export/internal/config"
)

// EmbeddedMigrationsDir is the directory of the SQL files inside the binary.
const EmbeddedMigrationsDir = "migrations"

// Target is the database a migration command runs against.
type Target struct {
	URL     string
	Source  string // env var the URL came from
	Warning string
}

// SelectTarget picks the URL for DDL: DATABASE_URL_DIRECT, then
// DATABASE_URL, then DATABASE_URL_POOLED with a warning. With
// requireDirect only DATABASE_URL_DIRECT is accepted.
func SelectTarget(cfg *config.Config, requireDirect bool) (Target, error) {
	candidates := []Target{
		{URL: cfg.DatabaseURLDirect, Source: "DATABASE_URL_DIRECT"},
	}
	if !requireDirect {
		candidates = append(candidates,
			Target{URL: cfg.DatabaseURLRaw, Source: "DATABASE_URL"},
			Target{
				URL:     cfg.DatabaseURLPooled,
				Source:  "DATABASE_URL_POOLED",
				Warning: "using pooled connection for DDL is not recommended; set DATABASE_URL_DIRECT",
			},
		)
	}

	for _, c := range candidates {
		if c.URL != "" {
			return c, nil
		}
	}

	if requireDirect {
		return Target{}, fmt.Errorf("DATABASE_URL_DIRECT is required for DDL/migrations")
	}
	return Target{}, fmt.Errorf("no database URL configured (set DATABASE_URL_DIRECT or DATABASE_URL)")
}
