package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/merlin-energy/merlinctl/pkg/cli/config"
	"github.com/merlin-energy/merlinctl/pkg/domain/types"
	"github.com/merlin-energy/merlinctl/pkg/usecase"
	"github.com/merlin-energy/merlinctl/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// confirm asks the operator a yes/no question on the terminal
var confirm = func(message string) (bool, error) {
	var ok bool
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	if err := survey.AskOne(prompt, &ok); err != nil {
		return false, goerr.Wrap(err, "failed to read confirmation")
	}
	return ok, nil
}

func cmdBilling() *cli.Command {
	return &cli.Command{
		Name:    "billing",
		Aliases: []string{"b"},
		Usage:   "Manage subscription products at the payment provider",
		Commands: []*cli.Command{
			cmdBillingProvision(),
		},
	}
}

func cmdBillingProvision() *cli.Command {
	var stripeCfg config.Stripe
	var plansPath string
	var seed string
	var yes bool

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "plans",
			Usage:       "Plan definitions (.toml, .yaml or .json); the built-in tiers when empty",
			Sources:     cli.EnvVars("MERLINCTL_PLANS"),
			Destination: &plansPath,
		},
		&cli.StringFlag{
			Name:        "idempotency-seed",
			Usage:       "Seed for request idempotency keys; reuse it to retry a run without duplicates",
			Sources:     cli.EnvVars("MERLINCTL_IDEMPOTENCY_SEED"),
			Destination: &seed,
		},
		&cli.BoolFlag{
			Name:        "yes",
			Aliases:     []string{"y"},
			Usage:       "Skip the confirmation prompt",
			Destination: &yes,
		},
	}

	return &cli.Command{
		Name:  "provision",
		Usage: "Create a product with monthly and annual prices for every plan",
		Flags: append(flags, stripeCfg.Flags()...),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.From(ctx)

			plans, err := config.LoadPlans(plansPath)
			if err != nil {
				return err
			}

			svc, err := stripeCfg.Configure()
			if err != nil {
				return err
			}

			logger.Info("Billing configuration", "stripe", stripeCfg, "plans", len(plans))

			if !yes {
				mode := "test"
				if stripeCfg.LiveMode() {
					mode = "LIVE"
				}
				ok, err := confirm(fmt.Sprintf("Create %d products and %d prices in %s mode?", len(plans), len(plans)*2, mode))
				if err != nil {
					return err
				}
				if !ok {
					logger.Info("Provisioning cancelled")
					return nil
				}
			}

			uc := usecase.New(usecase.WithBillingService(svc))
			report, err := uc.ProvisionBilling(ctx, plans, usecase.BillingOptions{Seed: seed})
			if err != nil {
				return err
			}

			printBillingReport(c.Root().Writer, report)
			if report.Failed() {
				return goerr.Wrap(ErrBillingFailed, "some tiers were not fully provisioned",
					goerr.V("seed", report.Seed))
			}
			return nil
		},
	}
}

func formatAmount(amount int64, currency string) string {
	return humanize.CommafWithDigits(float64(amount)/100, 2) + " " + strings.ToUpper(currency)
}

func printBillingReport(w io.Writer, report *usecase.BillingReport) {
	bold := color.New(color.Bold).SprintFunc()
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	rule := strings.Repeat("=", 60)

	var complete []usecase.TierResult
	for _, tier := range report.Tiers {
		if !tier.Complete() {
			for _, err := range tier.Errors {
				fmt.Fprintf(w, "%s %s: %v\n", red("ERROR"), tier.Plan.Tier, err)
			}
			continue
		}
		complete = append(complete, tier)
		fmt.Fprintf(w, "%s %s\n", bold(tier.Plan.ProductName()), tier.Product.ID)
		fmt.Fprintf(w, "  Monthly: %s  (%s/mo)\n", tier.Monthly.ID, formatAmount(tier.Plan.MonthlyAmount, tier.Plan.Currency))
		fmt.Fprintf(w, "  Annual:  %s  (%s/yr)\n", tier.Annual.ID, formatAmount(tier.Plan.AnnualAmount, tier.Plan.Currency))
	}

	if len(complete) == 0 {
		fmt.Fprintf(w, "No tier was provisioned (idempotency seed %s)\n", report.Seed)
		return
	}

	fmt.Fprintf(w, "\n%s\n%s\n%s\n", rule, bold("PRICE IDS (subscriptionService.ts)"), rule)
	for _, tier := range complete {
		fmt.Fprintf(w, "\n%s:\n", tier.Plan.Tier)
		fmt.Fprintf(w, "  stripePriceIdMonthly: '%s',\n", tier.Monthly.ID)
		fmt.Fprintf(w, "  stripePriceIdAnnual:  '%s',\n", tier.Annual.ID)
	}

	fmt.Fprintf(w, "\n%s\n%s\n%s\n", rule, bold("WEBHOOK PRICE_TO_TIER MAP (stripe-webhook/index.ts)"), rule)
	for _, tier := range complete {
		fmt.Fprintf(w, "  '%s': '%s',  // monthly\n", tier.Monthly.ID, tier.Plan.Tier)
		fmt.Fprintf(w, "  '%s': '%s',  // annual\n", tier.Annual.ID, tier.Plan.Tier)
	}

	fmt.Fprintf(w, "\n%s\n%s\n%s\n", rule, bold("WEBHOOK PRICE_TO_BILLING MAP"), rule)
	for _, tier := range complete {
		fmt.Fprintf(w, "  '%s': '%s',\n", tier.Monthly.ID, types.BillingCycleMonthly)
		fmt.Fprintf(w, "  '%s': '%s',\n", tier.Annual.ID, types.BillingCycleAnnual)
	}

	fmt.Fprintf(w, "\nIdempotency seed: %s\n", report.Seed)
}
