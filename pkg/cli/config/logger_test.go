package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/merlin-energy/merlinctl/pkg/cli/config"
	"github.com/merlin-energy/merlinctl/pkg/utils/logging"
)

func TestLogger_Configure(t *testing.T) {
	orig := logging.Default()
	t.Cleanup(func() { logging.SetDefault(orig) })

	t.Run("json to file masks secrets", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "merlinctl.log")
		closer, err := config.NewLoggerForTest("debug", "json", path).Configure()
		gt.NoError(t, err).Required()

		logging.Default().Info("calling Stripe", "key", "sk_test_abcdef", "tier", "pro")
		closer()

		data, err := os.ReadFile(path)
		gt.NoError(t, err).Required()
		out := string(data)
		gt.Bool(t, strings.Contains(out, "sk_test_abcdef")).False()
		gt.String(t, out).Contains(`"tier":"pro"`)
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := config.NewLoggerForTest("verbose", "json", "stderr").Configure()
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := config.NewLoggerForTest("info", "xml", "stderr").Configure()
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("console", func(t *testing.T) {
		closer, err := config.NewLoggerForTest("WARN", "console", "stderr").Configure()
		gt.NoError(t, err)
		closer()
	})
}
