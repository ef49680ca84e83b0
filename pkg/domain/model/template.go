package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/merlin-energy/merlinctl/pkg/domain/types"
)

// Template is a use case definition with its custom questions
type Template struct {
	ID        string
	Questions []Question
}

// HasQuestion reports whether the template has a question with the ID
func (t *Template) HasQuestion(id types.QuestionID) bool {
	for _, q := range t.Questions {
		if q.ID == id {
			return true
		}
	}
	return false
}

// QuestionIDs returns the question IDs in file order
func (t *Template) QuestionIDs() []types.QuestionID {
	ids := make([]types.QuestionID, len(t.Questions))
	for i, q := range t.Questions {
		ids[i] = q.ID
	}
	return ids
}

// DuplicateIDs returns question IDs that appear more than once, in first-seen order
func (t *Template) DuplicateIDs() []types.QuestionID {
	counts := make(map[types.QuestionID]int, len(t.Questions))
	var dups []types.QuestionID
	for _, q := range t.Questions {
		counts[q.ID]++
		if counts[q.ID] == 2 {
			dups = append(dups, q.ID)
		}
	}
	return dups
}

// Validate checks that question IDs are unique within the template
func (t *Template) Validate() error {
	if dups := t.DuplicateIDs(); len(dups) > 0 {
		return goerr.Wrap(ErrDuplicateQuestionID, "question IDs must be unique within a template",
			goerr.V(TemplateIDKey, t.ID), goerr.V(QuestionIDKey, dups[0]))
	}
	return nil
}
