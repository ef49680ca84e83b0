package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/merlin-energy/merlinctl/pkg/cli/config"
	"github.com/merlin-energy/merlinctl/pkg/usecase"
	"github.com/merlin-energy/merlinctl/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdRefactor() *cli.Command {
	var planPath string
	var target string
	var sf sourceFile

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "plan",
			Aliases:     []string{"p"},
			Usage:       "Refactor plan (.toml, .yaml or .json); the built-in extract-step3 plan when empty",
			Sources:     cli.EnvVars("MERLINCTL_REFACTOR_PLAN"),
			Destination: &planPath,
		},
		&cli.StringFlag{
			Name:        "file",
			Aliases:     []string{"f"},
			Usage:       "Source file to rewrite, overriding the target of the plan",
			Destination: &target,
		},
	}

	return &cli.Command{
		Name:    "refactor",
		Aliases: []string{"r"},
		Usage:   "Apply an anchored, re-runnable refactor plan to a TypeScript file",
		Flags:   append(flags, sf.Flags()...),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.From(ctx)

			plan, err := config.LoadRefactorPlan(planPath)
			if err != nil {
				return err
			}
			if target == "" {
				target = plan.Target
			}

			content, mode, err := readSource(target)
			if err != nil {
				return err
			}

			logger.Info("Refactoring", "plan", plan.Name, "path", target, "steps", len(plan.Steps))

			uc := usecase.New()
			updated, outcomes, err := uc.Refactor(ctx, content, plan)
			if err != nil {
				return err
			}

			w := c.Root().Writer
			applied := 0
			for _, o := range outcomes {
				status := color.New(color.FgHiBlack).Sprint("skip")
				if o.Applied {
					status = color.New(color.FgGreen).Sprint("done")
					applied++
				}
				fmt.Fprintf(w, "%s step %d %s: %s\n", status, o.Index+1, o.Op, o.Detail)
			}

			if applied == 0 {
				logger.Info("Refactor already applied", "plan", plan.Name, "path", target)
				return nil
			}
			return sf.save(ctx, w, target, content, updated, mode)
		},
	}
}
