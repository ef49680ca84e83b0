package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound     = goerr.New("configuration file not found")
	ErrInvalidConfig      = goerr.New("invalid configuration")
	ErrUnsupportedFormat  = goerr.New("unsupported configuration file format")
	ErrMissingCredential  = goerr.New("missing credential")
	ErrQuestionSetUnknown = goerr.New("question set not found")
	ErrUnsupportedDefault = goerr.New("unsupported default value")
)

// Context keys for error values
const (
	ConfigPathKey  = "config_path"
	SetNameKey     = "set"
	QuestionIDKey  = "question_id"
	QuestionIdxKey = "question_index"
)
