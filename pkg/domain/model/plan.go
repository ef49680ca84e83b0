package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/merlin-energy/merlinctl/pkg/domain/types"
)

// Plan is a subscription tier to provision at the payment provider.
// Amounts are in the smallest currency unit (cents).
type Plan struct {
	Tier          types.TierID
	Name          string
	Description   string
	MonthlyAmount int64
	AnnualAmount  int64
	Currency      string
}

// ProductName returns the display name of the product created for the plan
func (p *Plan) ProductName() string {
	return "Merlin " + p.Name
}

// Amount returns the price amount for the billing cycle
func (p *Plan) Amount(cycle types.BillingCycle) int64 {
	if cycle == types.BillingCycleAnnual {
		return p.AnnualAmount
	}
	return p.MonthlyAmount
}

// Validate checks the plan definition
func (p *Plan) Validate() error {
	if err := p.Tier.Validate(); err != nil {
		return goerr.Wrap(ErrInvalidPlan, err.Error(), goerr.V(TierIDKey, p.Tier))
	}
	if p.Name == "" {
		return goerr.Wrap(ErrInvalidPlan, "plan name is required", goerr.V(TierIDKey, p.Tier))
	}
	if p.MonthlyAmount <= 0 || p.AnnualAmount <= 0 {
		return goerr.Wrap(ErrInvalidPlan, "amounts must be positive",
			goerr.V(TierIDKey, p.Tier),
			goerr.V("monthly", p.MonthlyAmount),
			goerr.V("annual", p.AnnualAmount))
	}
	if len(p.Currency) != 3 {
		return goerr.Wrap(ErrInvalidPlan, "currency must be an ISO 4217 code",
			goerr.V(TierIDKey, p.Tier), goerr.V("currency", p.Currency))
	}
	return nil
}

// ValidatePlans validates every plan and rejects duplicate tiers
func ValidatePlans(plans []Plan) error {
	seen := make(map[types.TierID]bool, len(plans))
	for _, p := range plans {
		if err := p.Validate(); err != nil {
			return err
		}
		if seen[p.Tier] {
			return goerr.Wrap(ErrDuplicateTier, "tier defined twice", goerr.V(TierIDKey, p.Tier))
		}
		seen[p.Tier] = true
	}
	return nil
}

// DefaultPlans returns the three subscription tiers sold by Merlin
func DefaultPlans() []Plan {
	return []Plan{
		{
			Tier:          "starter",
			Name:          "Builder",
			Description:   "Professional BESS quotes and project sizing",
			MonthlyAmount: 2900,
			AnnualAmount:  29000,
			Currency:      "usd",
		},
		{
			Tier:          "pro",
			Name:          "Pro",
			Description:   "Advanced analytics and professional deliverables",
			MonthlyAmount: 4900,
			AnnualAmount:  49000,
			Currency:      "usd",
		},
		{
			Tier:          "advanced",
			Name:          "Advanced",
			Description:   "Full platform with bank-ready models and market intelligence",
			MonthlyAmount: 9900,
			AnnualAmount:  99000,
			Currency:      "usd",
		},
	}
}

// Product is a product created at the payment provider
type Product struct {
	ID   string
	Name string
}

// Price is a recurring price created at the payment provider
type Price struct {
	ID         string
	ProductID  string
	UnitAmount int64
	Interval   string
}

// ProductRequest holds the parameters for creating a product
type ProductRequest struct {
	Name           string
	Description    string
	Metadata       map[string]string
	IdempotencyKey string
}

// PriceRequest holds the parameters for creating a recurring price
type PriceRequest struct {
	ProductID      string
	UnitAmount     int64
	Currency       string
	Interval       string
	Metadata       map[string]string
	IdempotencyKey string
}
