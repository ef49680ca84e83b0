package stripe

import "github.com/m-mizutani/goerr/v2"

var (
	ErrMissingSecretKey = goerr.New("missing Stripe secret key")
	ErrAPI              = goerr.New("Stripe API error")
)

// StatusKey is the error value key for the HTTP status code
const StatusKey = "status"
