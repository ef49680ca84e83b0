package supabase

import "github.com/m-mizutani/goerr/v2"

var (
	ErrMissingConfig = goerr.New("missing Supabase configuration")
	ErrAPI           = goerr.New("Supabase API error")
)

// StatusKey is the error value key for the HTTP status code
const StatusKey = "status"
