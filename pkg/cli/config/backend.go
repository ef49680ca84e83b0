package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/merlin-energy/merlinctl/pkg/domain/interfaces"
	"github.com/merlin-energy/merlinctl/pkg/repository/postgres"
	"github.com/merlin-energy/merlinctl/pkg/service/supabase"
	"github.com/merlin-energy/merlinctl/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

const (
	BackendSupabase = "supabase"
	BackendPostgres = "postgres"
)

// Backend holds CLI flags for the migration backend
type Backend struct {
	backend     string
	supabaseURL string
	supabaseKey string
	databaseURL string
	timeout     time.Duration
}

// Flags returns CLI flags for backend configuration
func (x *Backend) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "migration-backend",
			Usage:       "Migration backend type (supabase or postgres)",
			Category:    "Database",
			Value:       BackendSupabase,
			Sources:     cli.EnvVars("MERLINCTL_MIGRATION_BACKEND"),
			Destination: &x.backend,
		},
		&cli.StringFlag{
			Name:        "supabase-url",
			Usage:       "Supabase project URL (required when using supabase backend)",
			Category:    "Database",
			Sources:     cli.EnvVars("MERLINCTL_SUPABASE_URL", "VITE_SUPABASE_URL", "SUPABASE_URL"),
			Destination: &x.supabaseURL,
		},
		&cli.StringFlag{
			Name:        "supabase-key",
			Usage:       "Supabase API key allowed to call the exec_sql function",
			Category:    "Database",
			Sources:     cli.EnvVars("MERLINCTL_SUPABASE_KEY", "SUPABASE_SERVICE_ROLE_KEY", "VITE_SUPABASE_ANON_KEY"),
			Destination: &x.supabaseKey,
		},
		&cli.StringFlag{
			Name:        "database-url",
			Usage:       "PostgreSQL connection URL (required when using postgres backend)",
			Category:    "Database",
			Sources:     cli.EnvVars("MERLINCTL_DATABASE_URL", "DATABASE_URL"),
			Destination: &x.databaseURL,
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "Request timeout for the migration backend",
			Category:    "Database",
			Value:       30 * time.Second,
			Sources:     cli.EnvVars("MERLINCTL_TIMEOUT"),
			Destination: &x.timeout,
		},
	}
}

func (x Backend) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", x.backend),
		slog.String("supabase-url", x.supabaseURL),
		slog.Int("supabase-key.len", len(x.supabaseKey)),
		slog.Bool("database-url", x.databaseURL != ""),
		slog.Duration("timeout", x.timeout),
	)
}

// Configure initializes the SQL backend selected by the flags.
// The caller is responsible for calling Close() on the returned backend.
func (x *Backend) Configure(ctx context.Context) (interfaces.SQLBackend, error) {
	switch x.backend {
	case BackendSupabase:
		if x.supabaseURL == "" || x.supabaseKey == "" {
			return nil, goerr.Wrap(ErrMissingCredential, "supabase-url and supabase-key are required when using supabase backend")
		}
		backend, err := supabase.New(x.supabaseURL, x.supabaseKey, supabase.WithTimeout(x.timeout))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize supabase backend")
		}
		logging.From(ctx).Info("Using Supabase backend", "url", x.supabaseURL)
		return backend, nil

	case BackendPostgres:
		if x.databaseURL == "" {
			return nil, goerr.Wrap(ErrMissingCredential, "database-url is required when using postgres backend")
		}
		ctx, cancel := context.WithTimeout(ctx, x.timeout)
		defer cancel()
		backend, err := postgres.New(ctx, x.databaseURL)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize postgres backend")
		}
		logging.From(ctx).Info("Using PostgreSQL backend")
		return backend, nil

	default:
		return nil, goerr.Wrap(ErrInvalidConfig, "invalid migration backend", goerr.V("backend", x.backend))
	}
}
