package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for use case layer
var (
	ErrBackendNotConfigured = goerr.New("SQL backend is not configured")
	ErrBillingNotConfigured = goerr.New("billing service is not configured")
	ErrInvalidQuestion      = goerr.New("invalid question")
)

// Context keys for error values
const (
	TemplateKey  = "template"
	QuestionKey  = "question"
	MigrationKey = "migration"
	TierKey      = "tier"
)
