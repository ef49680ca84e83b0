package cli

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/m-mizutani/goerr/v2"
	"github.com/merlin-energy/merlinctl/pkg/cli/config"
	"github.com/merlin-energy/merlinctl/pkg/utils/errutil"
	"github.com/merlin-energy/merlinctl/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

const defaultEnvFile = ".env"

func Run(ctx context.Context, args []string, version string) error {
	return run(ctx, args, version, os.Stdout)
}

func run(ctx context.Context, args []string, version string, w io.Writer) error {
	if err := loadEnvFile(); err != nil {
		return errutil.Handle(ctx, err, "failed to load env file")
	}

	var loggerCfg config.Logger
	var closer func()

	app := &cli.Command{
		Name:    "merlinctl",
		Usage:   "Maintenance tasks for the Merlin energy platform",
		Version: version,
		Flags:   loggerCfg.Flags(),
		Writer:  w,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closer = f

			logging.Default().Debug("Starting merlinctl", "logger", loggerCfg, "version", version)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if closer != nil {
				closer()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdTemplates(),
			cmdRefactor(),
			cmdMigrate(),
			cmdBilling(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		return errutil.Handle(ctx, err, "failed to run app")
	}

	return nil
}

// loadEnvFile reads MERLINCTL_ENV_FILE (or .env) into the environment.
// Variables already set are kept and a missing file is not an error.
func loadEnvFile() error {
	path := os.Getenv("MERLINCTL_ENV_FILE")
	if path == "" {
		path = defaultEnvFile
	}

	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return goerr.Wrap(err, "failed to load env file", goerr.V("path", path))
	}
	return nil
}
