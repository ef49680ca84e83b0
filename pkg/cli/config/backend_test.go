package config_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/merlin-energy/merlinctl/pkg/cli/config"
)

func TestBackend_Configure(t *testing.T) {
	ctx := context.Background()

	t.Run("supabase backend", func(t *testing.T) {
		cfg := config.NewBackendForTest(config.BackendSupabase, "https://example.supabase.co", "anon", "")
		backend, err := cfg.Configure(ctx)
		gt.NoError(t, err).Required()
		gt.NoError(t, backend.Close())
	})

	t.Run("supabase without key", func(t *testing.T) {
		cfg := config.NewBackendForTest(config.BackendSupabase, "https://example.supabase.co", "", "")
		_, err := cfg.Configure(ctx)
		gt.Error(t, err).Is(config.ErrMissingCredential)
	})

	t.Run("postgres without URL", func(t *testing.T) {
		cfg := config.NewBackendForTest(config.BackendPostgres, "", "", "")
		_, err := cfg.Configure(ctx)
		gt.Error(t, err).Is(config.ErrMissingCredential)
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := config.NewBackendForTest("firestore", "", "", "")
		_, err := cfg.Configure(ctx)
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})
}
