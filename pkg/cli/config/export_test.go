package config

// NewStripeForTest creates a Stripe config for testing purposes
func NewStripeForTest(secretKey, baseURL string) *Stripe {
	return &Stripe{
		secretKey: secretKey,
		baseURL:   baseURL,
	}
}

// NewBackendForTest creates a backend config for testing purposes
func NewBackendForTest(backend, supabaseURL, supabaseKey, databaseURL string) *Backend {
	return &Backend{
		backend:     backend,
		supabaseURL: supabaseURL,
		supabaseKey: supabaseKey,
		databaseURL: databaseURL,
	}
}

// NewLoggerForTest creates a logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

var NormalizeDefault = normalizeDefault
