package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

var tierIDPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// TierID identifies a subscription tier (e.g. "starter", "pro")
type TierID string

// Validate checks if the TierID is valid
func (t TierID) Validate() error {
	if t == "" {
		return goerr.New("tier ID cannot be empty")
	}
	if !tierIDPattern.MatchString(string(t)) {
		return goerr.New("tier ID must be lowercase alphanumeric with hyphens", goerr.V("id", t))
	}
	return nil
}

// String returns the string representation of TierID
func (t TierID) String() string {
	return string(t)
}

// BillingCycle is the billing label stored in price metadata and webhook maps
type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleAnnual  BillingCycle = "annual"
)

// Interval returns the recurring interval the payment provider expects for the cycle
func (c BillingCycle) Interval() string {
	switch c {
	case BillingCycleMonthly:
		return "month"
	case BillingCycleAnnual:
		return "year"
	default:
		return ""
	}
}

// String returns the string representation of the billing cycle
func (c BillingCycle) String() string {
	return string(c)
}
