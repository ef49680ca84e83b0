package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/m-mizutani/gt"
	"github.com/merlin-energy/merlinctl/pkg/cli"
)

// runCLI runs merlinctl with args and returns what it printed
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("MERLINCTL_ENV_FILE", filepath.Join(t.TempDir(), "none.env"))
	color.NoColor = true

	var buf bytes.Buffer
	err := cli.RunWithWriter(context.Background(), append([]string{"merlinctl", "--log-level", "error"}, args...), &buf)
	return buf.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	gt.NoError(t, err).Required()
	return string(data)
}
