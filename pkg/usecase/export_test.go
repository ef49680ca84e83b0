package usecase

// DefaultSampleSize is exported for testing
const DefaultSampleSize = defaultSampleSize
