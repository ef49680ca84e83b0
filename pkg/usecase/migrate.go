package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/merlin-energy/merlinctl/pkg/domain/model"
	"github.com/merlin-energy/merlinctl/pkg/utils/errutil"
	"github.com/merlin-energy/merlinctl/pkg/utils/logging"
)

const defaultSampleSize = 5

// MigrationResult is the outcome of one migration
type MigrationResult struct {
	ID       string
	Executed bool
	Affected []model.Row
	Verified []model.Row
	Err      error
	// VerifyErr is set when the verification query failed
	VerifyErr error
}

// MigrationReport summarizes a migration run
type MigrationReport struct {
	DryRun  bool
	Results []MigrationResult
}

// Failed returns the migrations whose statement or verification failed
func (r *MigrationReport) Failed() []MigrationResult {
	var failed []MigrationResult
	for _, res := range r.Results {
		if res.Err != nil || res.VerifyErr != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// MigrateOptions controls RunMigrations
type MigrateOptions struct {
	DryRun bool
	// SampleSize is the number of verified rows written to the log
	SampleSize int
}

// RunMigrations executes migrations in order. A failing statement is logged
// and the run continues with its verification and the remaining migrations;
// callers inspect the report to decide on the exit status.
func (uc *UseCases) RunMigrations(ctx context.Context, migrations []model.Migration, opts MigrateOptions) (*MigrationReport, error) {
	for _, m := range migrations {
		if err := m.Validate(); err != nil {
			return nil, err
		}
	}
	if !opts.DryRun && uc.sql == nil {
		return nil, goerr.Wrap(ErrBackendNotConfigured, "migrations need a database backend")
	}
	if opts.SampleSize <= 0 {
		opts.SampleSize = defaultSampleSize
	}

	logger := logging.From(ctx)
	report := &MigrationReport{DryRun: opts.DryRun}

	for i, m := range migrations {
		logger.Info("Running migration",
			"step", i+1,
			"total", len(migrations),
			"id", m.ID,
			"description", m.Description,
		)

		if opts.DryRun {
			logger.Info("Dry run, statement not executed", "id", m.ID, "statement", strings.TrimSpace(m.Statement))
			report.Results = append(report.Results, MigrationResult{ID: m.ID})
			continue
		}

		report.Results = append(report.Results, uc.runMigration(ctx, m, opts.SampleSize))
	}

	if failed := report.Failed(); len(failed) > 0 {
		logger.Warn("Migrations finished with failures", "failed", len(failed), "total", len(migrations))
	} else {
		logger.Info("Migrations complete", "total", len(migrations), "dry_run", opts.DryRun)
	}

	return report, nil
}

func (uc *UseCases) runMigration(ctx context.Context, m model.Migration, sampleSize int) MigrationResult {
	logger := logging.From(ctx)
	res := MigrationResult{ID: m.ID}

	rows, err := uc.sql.Exec(ctx, m.Statement)
	if err != nil {
		res.Err = goerr.Wrap(err, "migration statement failed", goerr.V(MigrationKey, m.ID))
		errutil.Warn(ctx, res.Err, "Migration statement failed, it may already be applied", "id", m.ID)
	} else {
		res.Executed = true
		res.Affected = rows
		logger.Info("Migration statement executed", "id", m.ID, "rows", len(rows))
	}

	if m.Verify == nil {
		return res
	}

	verified, err := uc.sql.Select(ctx, *m.Verify)
	if err != nil {
		res.VerifyErr = goerr.Wrap(err, "verification failed", goerr.V(MigrationKey, m.ID))
		errutil.Warn(ctx, res.VerifyErr, "Verification failed", "id", m.ID)
		return res
	}

	res.Verified = verified
	logger.Info("Verification",
		"id", m.ID,
		"table", m.Verify.Table,
		"filter", m.Verify.Filter.Column+"="+m.Verify.Filter.Value,
		"found", len(verified),
	)
	for _, row := range verified[:min(sampleSize, len(verified))] {
		logger.Info("Verified row", "id", m.ID, "row", map[string]any(row))
	}

	return res
}
