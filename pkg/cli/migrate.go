package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/merlin-energy/merlinctl/pkg/cli/config"
	"github.com/merlin-energy/merlinctl/pkg/domain/model"
	"github.com/merlin-energy/merlinctl/pkg/usecase"
	"github.com/merlin-energy/merlinctl/pkg/utils/logging"
	"github.com/merlin-energy/merlinctl/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdMigrate() *cli.Command {
	var backendCfg config.Backend
	var ids []string
	var dryRun bool
	var list bool

	flags := []cli.Flag{
		&cli.StringSliceFlag{
			Name:        "id",
			Usage:       "Migration to run (repeatable); every built-in migration when omitted",
			Destination: &ids,
		},
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Print the statements without executing them",
			Sources:     cli.EnvVars("MERLINCTL_DRY_RUN"),
			Destination: &dryRun,
		},
		&cli.BoolFlag{
			Name:        "list",
			Usage:       "List the built-in migrations and exit",
			Destination: &list,
		},
	}

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Run database migrations against Supabase or PostgreSQL",
		Flags:   append(flags, backendCfg.Flags()...),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.From(ctx)
			w := c.Root().Writer

			if list {
				for _, m := range model.BuiltinMigrations() {
					fmt.Fprintf(w, "%s\t%s\n", m.ID, m.Description)
				}
				return nil
			}

			migrations, err := model.FindMigrations(ids)
			if err != nil {
				return err
			}

			logger.Info("Migrate configuration",
				"backend", backendCfg,
				"migrations", len(migrations),
				"dryRun", dryRun)

			var opts []usecase.Option
			if !dryRun {
				backend, err := backendCfg.Configure(ctx)
				if err != nil {
					return err
				}
				defer safe.Close(ctx, backend, "migration backend")
				opts = append(opts, usecase.WithSQLBackend(backend))
			}

			uc := usecase.New(opts...)
			report, err := uc.RunMigrations(ctx, migrations, usecase.MigrateOptions{DryRun: dryRun})
			if err != nil {
				return err
			}

			printMigrationReport(w, report)
			if failed := report.Failed(); len(failed) > 0 {
				return goerr.Wrap(ErrMigrationFailed, "some migrations did not complete",
					goerr.V("failed", len(failed)), goerr.V("total", len(report.Results)))
			}
			return nil
		},
	}
}

func printMigrationReport(w io.Writer, report *usecase.MigrationReport) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed, color.Bold).SprintFunc()

	for _, res := range report.Results {
		switch {
		case report.DryRun:
			fmt.Fprintf(w, "%s %s\n", color.New(color.FgHiBlack).Sprint("dry-run"), res.ID)
		case res.Err != nil:
			fmt.Fprintf(w, "%s %s: %v\n", red("failed"), res.ID, res.Err)
		case res.VerifyErr != nil:
			fmt.Fprintf(w, "%s %s: verification: %v\n", red("failed"), res.ID, res.VerifyErr)
		default:
			fmt.Fprintf(w, "%s %s: %d rows affected, %d rows verified\n",
				green("ok"), res.ID, len(res.Affected), len(res.Verified))
		}
	}
}
