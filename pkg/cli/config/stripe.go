package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/merlin-energy/merlinctl/pkg/domain/interfaces"
	"github.com/merlin-energy/merlinctl/pkg/service/stripe"
	"github.com/urfave/cli/v3"
)

// Stripe holds configuration for the Stripe client
type Stripe struct {
	secretKey string
	baseURL   string
	timeout   time.Duration
}

// Flags returns CLI flags for Stripe configuration
func (x *Stripe) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "stripe-secret-key",
			Usage:       "Stripe secret API key",
			Category:    "Stripe",
			Sources:     cli.EnvVars("MERLINCTL_STRIPE_SECRET_KEY", "STRIPE_SECRET_KEY"),
			Destination: &x.secretKey,
		},
		&cli.StringFlag{
			Name:        "stripe-api-url",
			Usage:       "Stripe API endpoint",
			Category:    "Stripe",
			Value:       stripe.DefaultBaseURL,
			Sources:     cli.EnvVars("MERLINCTL_STRIPE_API_URL"),
			Destination: &x.baseURL,
		},
		&cli.DurationFlag{
			Name:        "stripe-timeout",
			Usage:       "Request timeout for Stripe API calls",
			Category:    "Stripe",
			Value:       30 * time.Second,
			Sources:     cli.EnvVars("MERLINCTL_STRIPE_TIMEOUT"),
			Destination: &x.timeout,
		},
	}
}

// MaskedKey returns the key with everything but its prefix and last four characters hidden
func (x *Stripe) MaskedKey() string {
	if len(x.secretKey) <= 16 {
		return "****"
	}
	return x.secretKey[:12] + "..." + x.secretKey[len(x.secretKey)-4:]
}

// LiveMode reports whether the key operates on live data
func (x *Stripe) LiveMode() bool {
	return len(x.secretKey) > 8 && (x.secretKey[:8] == "sk_live_" || x.secretKey[:8] == "rk_live_")
}

func (x Stripe) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("secret-key", x.MaskedKey()),
		slog.Bool("live", x.LiveMode()),
		slog.String("api-url", x.baseURL),
	)
}

// Configure creates a Stripe billing service from the configured flags
func (x *Stripe) Configure() (interfaces.BillingService, error) {
	if x.secretKey == "" {
		return nil, goerr.Wrap(ErrMissingCredential, "stripe-secret-key is required")
	}

	opts := []stripe.Option{stripe.WithTimeout(x.timeout)}
	if x.baseURL != "" {
		opts = append(opts, stripe.WithBaseURL(x.baseURL))
	}

	svc, err := stripe.New(x.secretKey, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Stripe client")
	}
	return svc, nil
}
