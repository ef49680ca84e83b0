package interfaces

import (
	"context"

	"github.com/merlin-energy/merlinctl/pkg/domain/model"
)

// SQLBackend executes migration statements against the application database
type SQLBackend interface {
	// Exec runs a single statement and returns the rows it produced, if any
	Exec(ctx context.Context, statement string) ([]model.Row, error)

	// Select reads rows matching the verification query
	Select(ctx context.Context, query model.VerifyQuery) ([]model.Row, error)

	// Close releases the connection
	Close() error
}
