package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/merlin-energy/merlinctl/pkg/domain/model"
	"github.com/merlin-energy/merlinctl/pkg/domain/types"
	"github.com/merlin-energy/merlinctl/pkg/utils/errutil"
	"github.com/merlin-energy/merlinctl/pkg/utils/logging"
)

// TierResult is the outcome of provisioning one plan
type TierResult struct {
	Plan    model.Plan
	Product *model.Product
	Monthly *model.Price
	Annual  *model.Price
	Errors  []error
}

// Complete reports whether the product and both prices were created
func (r *TierResult) Complete() bool {
	return r.Product != nil && r.Monthly != nil && r.Annual != nil
}

// BillingReport summarizes a provisioning run
type BillingReport struct {
	Seed  string
	Tiers []TierResult
}

// Failed reports whether any tier is incomplete
func (r *BillingReport) Failed() bool {
	for i := range r.Tiers {
		if !r.Tiers[i].Complete() {
			return true
		}
	}
	return false
}

// BillingOptions controls ProvisionBilling
type BillingOptions struct {
	// Seed derives the idempotency keys. Re-running with the same seed
	// returns the objects created by the first run instead of duplicates.
	// A random seed is used when empty.
	Seed string
}

// IdempotencyKey derives a stable request key for one object of a tier
func IdempotencyKey(seed string, tier types.TierID, kind string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("merlinctl:billing:"+seed+":"+string(tier)+":"+kind)).String()
}

// ProvisionBilling creates a product and a monthly and annual price for each
// plan. A failed product skips the prices of that tier only; a failed monthly
// price does not prevent the annual one.
func (uc *UseCases) ProvisionBilling(ctx context.Context, plans []model.Plan, opts BillingOptions) (*BillingReport, error) {
	if uc.billing == nil {
		return nil, goerr.Wrap(ErrBillingNotConfigured, "billing provisioning needs a payment provider")
	}
	if err := model.ValidatePlans(plans); err != nil {
		return nil, goerr.Wrap(err, "invalid plans")
	}

	seed := opts.Seed
	if seed == "" {
		seed = uuid.NewString()
	}

	logger := logging.From(ctx)
	logger.Info("Provisioning billing", "plans", len(plans), "seed", seed)

	report := &BillingReport{Seed: seed}
	for _, plan := range plans {
		report.Tiers = append(report.Tiers, uc.provisionTier(ctx, plan, seed))
	}

	return report, nil
}

func (uc *UseCases) provisionTier(ctx context.Context, plan model.Plan, seed string) TierResult {
	logger := logging.From(ctx).With("tier", plan.Tier)
	res := TierResult{Plan: plan}

	product, err := uc.billing.CreateProduct(ctx, model.ProductRequest{
		Name:           plan.ProductName(),
		Description:    plan.Description,
		Metadata:       map[string]string{"tier": string(plan.Tier)},
		IdempotencyKey: IdempotencyKey(seed, plan.Tier, "product"),
	})
	if err != nil {
		err = goerr.Wrap(err, "failed to create product", goerr.V(TierKey, plan.Tier))
		errutil.Warn(ctx, err, "Product creation failed, skipping tier prices", "tier", plan.Tier)
		res.Errors = append(res.Errors, err)
		return res
	}
	res.Product = product
	logger.Info("Product created", "product", product.ID, "name", product.Name)

	for _, cycle := range []types.BillingCycle{types.BillingCycleMonthly, types.BillingCycleAnnual} {
		price, err := uc.billing.CreatePrice(ctx, model.PriceRequest{
			ProductID:  product.ID,
			UnitAmount: plan.Amount(cycle),
			Currency:   plan.Currency,
			Interval:   cycle.Interval(),
			Metadata: map[string]string{
				"tier":    string(plan.Tier),
				"billing": string(cycle),
			},
			IdempotencyKey: IdempotencyKey(seed, plan.Tier, string(cycle)),
		})
		if err != nil {
			err = goerr.Wrap(err, "failed to create price", goerr.V(TierKey, plan.Tier), goerr.V("cycle", cycle))
			errutil.Warn(ctx, err, "Price creation failed", "tier", plan.Tier, "cycle", cycle)
			res.Errors = append(res.Errors, err)
			continue
		}

		logger.Info("Price created", "price", price.ID, "cycle", cycle, "amount", price.UnitAmount)
		if cycle == types.BillingCycleAnnual {
			res.Annual = price
		} else {
			res.Monthly = price
		}
	}

	return res
}
