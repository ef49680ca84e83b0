package interfaces

import (
	"context"

	"github.com/merlin-energy/merlinctl/pkg/domain/model"
)

// BillingService creates catalog objects at the payment provider.
// Requests carrying the same idempotency key must not create duplicates.
type BillingService interface {
	CreateProduct(ctx context.Context, req model.ProductRequest) (*model.Product, error)
	CreatePrice(ctx context.Context, req model.PriceRequest) (*model.Price, error)
}
