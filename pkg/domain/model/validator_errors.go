package model

import "github.com/m-mizutani/goerr/v2"

// Validation errors
var (
	ErrInvalidQuestionID   = goerr.New("invalid question ID")
	ErrInvalidQuestionType = goerr.New("invalid question type")
	ErrInvalidImpactType   = goerr.New("invalid impact type")
	ErrMissingOptions      = goerr.New("select question requires at least one option")
	ErrDuplicateOption     = goerr.New("duplicate option value")
	ErrDuplicateQuestionID = goerr.New("duplicate question ID")
	ErrMissingMarker       = goerr.New("question set marker is not one of its questions")
	ErrEmptyQuestionSet    = goerr.New("question set has no questions")
	ErrInvalidPlan         = goerr.New("invalid billing plan")
	ErrDuplicateTier       = goerr.New("duplicate tier ID")
	ErrInvalidMigration    = goerr.New("invalid migration")
	ErrInvalidRefactorStep = goerr.New("invalid refactor step")
)

// Context keys for error values
const (
	QuestionIDKey   = "question_id"
	QuestionTypeKey = "question_type"
	OptionValueKey  = "option_value"
	TemplateIDKey   = "template_id"
	TierIDKey       = "tier_id"
	MigrationIDKey  = "migration_id"
	StepIndexKey    = "step_index"
)
