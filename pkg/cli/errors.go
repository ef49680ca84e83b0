package cli

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrCheckFailed is returned when the data file check finds problems
	ErrCheckFailed = goerr.New("template check failed")

	// ErrMigrationFailed is returned when any migration statement or verification failed
	ErrMigrationFailed = goerr.New("migration failed")

	// ErrBillingFailed is returned when any tier was not fully provisioned
	ErrBillingFailed = goerr.New("billing provisioning failed")
)
