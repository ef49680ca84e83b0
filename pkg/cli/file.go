package cli

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/creachadair/atomicfile"
	"github.com/dustin/go-humanize"
	"github.com/m-mizutani/goerr/v2"
	"github.com/merlin-energy/merlinctl/pkg/utils/logging"
	"github.com/merlin-energy/merlinctl/pkg/utils/safe"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/urfave/cli/v3"
)

const backupTimeFormat = "20060102_150405"

// sourceFile holds the flags shared by commands that rewrite a source file in place
type sourceFile struct {
	dryRun bool
	backup bool
}

func (x *sourceFile) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Print a unified diff instead of writing the file",
			Sources:     cli.EnvVars("MERLINCTL_DRY_RUN"),
			Destination: &x.dryRun,
		},
		&cli.BoolFlag{
			Name:        "backup",
			Usage:       "Keep a timestamped copy of the file before writing",
			Sources:     cli.EnvVars("MERLINCTL_BACKUP"),
			Destination: &x.backup,
		},
	}
}

func readSource(path string) ([]byte, os.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, goerr.Wrap(err, "failed to stat source file", goerr.V("path", path))
	}
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, goerr.Wrap(err, "failed to read source file", goerr.V("path", path))
	}
	return data, info.Mode().Perm(), nil
}

// save writes updated to path atomically, or prints the diff against
// original to w in dry-run mode.
func (x *sourceFile) save(ctx context.Context, w io.Writer, path string, original, updated []byte, mode os.FileMode) error {
	logger := logging.From(ctx)

	if x.dryRun {
		diff, err := unifiedDiff(path, original, updated)
		if err != nil {
			return err
		}
		safe.WriteString(ctx, w, diff)
		logger.Info("Dry run, file not written", "path", path)
		return nil
	}

	if x.backup {
		backupPath := path + ".backup_" + time.Now().Format(backupTimeFormat)
		if err := atomicfile.WriteData(backupPath, original, mode); err != nil {
			return goerr.Wrap(err, "failed to write backup", goerr.V("path", backupPath))
		}
		logger.Info("Backup written", "path", backupPath)
	}

	if err := atomicfile.WriteData(path, updated, mode); err != nil {
		return goerr.Wrap(err, "failed to write file", goerr.V("path", path))
	}

	logger.Info("File updated",
		"path", path,
		"before", humanize.Bytes(uint64(len(original))),
		"after", humanize.Bytes(uint64(len(updated))),
	)
	return nil
}

func unifiedDiff(path string, original, updated []byte) (string, error) {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(original),
		B:        splitLines(updated),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to build diff", goerr.V("path", path))
	}
	return diff, nil
}

// splitLines keeps line terminators and adds no element after a final newline
func splitLines(content []byte) []string {
	lines := strings.SplitAfter(string(content), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
