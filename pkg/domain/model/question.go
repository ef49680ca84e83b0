package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/merlin-energy/merlinctl/pkg/domain/types"
)

// Option is one choice of a select question
type Option struct {
	Value string
	Label string
}

// Question is one configurable input of a use case template.
// Default holds int64, float64, string or bool; nil means no default.
type Question struct {
	ID         types.QuestionID
	Question   string
	Type       types.QuestionType
	Default    any
	Unit       string
	ImpactType types.ImpactType
	HelpText   string
	Required   bool
	Options    []Option
}

// Validate checks the question definition
func (q *Question) Validate() error {
	if err := q.ID.Validate(); err != nil {
		return goerr.Wrap(ErrInvalidQuestionID, err.Error(), goerr.V(QuestionIDKey, q.ID))
	}
	if !q.Type.IsValid() {
		return goerr.Wrap(ErrInvalidQuestionType, "unknown question type",
			goerr.V(QuestionIDKey, q.ID), goerr.V(QuestionTypeKey, q.Type))
	}
	if !q.ImpactType.IsValid() {
		return goerr.Wrap(ErrInvalidImpactType, "unknown impact type",
			goerr.V(QuestionIDKey, q.ID), goerr.V("impact_type", q.ImpactType))
	}

	if q.Type.HasOptions() && len(q.Options) == 0 {
		return goerr.Wrap(ErrMissingOptions, "options are required",
			goerr.V(QuestionIDKey, q.ID), goerr.V(QuestionTypeKey, q.Type))
	}

	seen := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		if seen[opt.Value] {
			return goerr.Wrap(ErrDuplicateOption, "option values must be unique",
				goerr.V(QuestionIDKey, q.ID), goerr.V(OptionValueKey, opt.Value))
		}
		seen[opt.Value] = true
	}

	return nil
}

// QuestionSet is an ordered block of questions injected into templates.
// A template that already has the Marker question is considered patched.
type QuestionSet struct {
	Name      string
	Marker    types.QuestionID
	Questions []Question
}

// Validate checks that the set is usable for idempotent patching
func (s *QuestionSet) Validate() error {
	if len(s.Questions) == 0 {
		return goerr.Wrap(ErrEmptyQuestionSet, "no questions", goerr.V("set", s.Name))
	}

	ids := make(map[types.QuestionID]bool, len(s.Questions))
	for _, q := range s.Questions {
		if err := q.Validate(); err != nil {
			return goerr.Wrap(err, "invalid question in set", goerr.V("set", s.Name))
		}
		if ids[q.ID] {
			return goerr.Wrap(ErrDuplicateQuestionID, "question set contains duplicates",
				goerr.V("set", s.Name), goerr.V(QuestionIDKey, q.ID))
		}
		ids[q.ID] = true
	}

	if !ids[s.Marker] {
		return goerr.Wrap(ErrMissingMarker, "marker must be injected by the set",
			goerr.V("set", s.Name), goerr.V("marker", s.Marker))
	}

	return nil
}

// IDs returns the question IDs of the set in order
func (s *QuestionSet) IDs() []types.QuestionID {
	ids := make([]types.QuestionID, len(s.Questions))
	for i, q := range s.Questions {
		ids[i] = q.ID
	}
	return ids
}

// Missing returns the questions of the set that the template lacks, in set order
func (s *QuestionSet) Missing(t *Template) []Question {
	var missing []Question
	for _, q := range s.Questions {
		if !t.HasQuestion(q.ID) {
			missing = append(missing, q)
		}
	}
	return missing
}
