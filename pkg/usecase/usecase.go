package usecase

import (
	"github.com/merlin-energy/merlinctl/pkg/domain/interfaces"
)

type UseCases struct {
	sql     interfaces.SQLBackend
	billing interfaces.BillingService
}

type Option func(*UseCases)

// WithSQLBackend sets the database used by RunMigrations
func WithSQLBackend(backend interfaces.SQLBackend) Option {
	return func(uc *UseCases) {
		uc.sql = backend
	}
}

// WithBillingService sets the payment provider used by ProvisionBilling
func WithBillingService(svc interfaces.BillingService) Option {
	return func(uc *UseCases) {
		uc.billing = svc
	}
}

func New(opts ...Option) *UseCases {
	uc := &UseCases{}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
