package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

var questionIDPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// QuestionID identifies a question within a use case template
type QuestionID string

// Validate checks if the QuestionID is a plain identifier (the data file uses camelCase keys)
func (id QuestionID) Validate() error {
	if id == "" {
		return goerr.New("question ID cannot be empty")
	}
	if !questionIDPattern.MatchString(string(id)) {
		return goerr.New("question ID must be an identifier", goerr.V("id", id))
	}
	return nil
}

// String returns the string representation of QuestionID
func (id QuestionID) String() string {
	return string(id)
}

// QuestionType represents the input type of a question
type QuestionType string

const (
	QuestionTypeNumber      QuestionType = "number"
	QuestionTypeSelect      QuestionType = "select"
	QuestionTypeMultiSelect QuestionType = "multiselect"
	QuestionTypeText        QuestionType = "text"
	QuestionTypeBoolean     QuestionType = "boolean"
	QuestionTypeSlider      QuestionType = "slider"
)

// AllQuestionTypes returns all valid question types
func AllQuestionTypes() []QuestionType {
	return []QuestionType{
		QuestionTypeNumber,
		QuestionTypeSelect,
		QuestionTypeMultiSelect,
		QuestionTypeText,
		QuestionTypeBoolean,
		QuestionTypeSlider,
	}
}

// IsValid checks if the question type is valid
func (t QuestionType) IsValid() bool {
	switch t {
	case QuestionTypeNumber,
		QuestionTypeSelect,
		QuestionTypeMultiSelect,
		QuestionTypeText,
		QuestionTypeBoolean,
		QuestionTypeSlider:
		return true
	default:
		return false
	}
}

// HasOptions reports whether the type requires a list of options
func (t QuestionType) HasOptions() bool {
	return t == QuestionTypeSelect || t == QuestionTypeMultiSelect
}

// String returns the string representation of the question type
func (t QuestionType) String() string {
	return string(t)
}
