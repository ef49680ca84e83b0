package usecase

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/merlin-energy/merlinctl/pkg/domain/model"
	"github.com/merlin-energy/merlinctl/pkg/tsdata"
)

// IssueKind classifies a problem found in a data file
type IssueKind string

const (
	IssueSyntax    IssueKind = "syntax"
	IssueDuplicate IssueKind = "duplicate"
	IssueInvalid   IssueKind = "invalid"
	IssuePartial   IssueKind = "partial"
	IssueSkipped   IssueKind = "skipped"
)

// CheckIssue represents a single problem found in the data file
type CheckIssue struct {
	Kind     IssueKind
	Template string
	Line     int
	Column   int
	Message  string
}

// CheckResult holds the results of a data file check
type CheckResult struct {
	Templates int
	Issues    []CheckIssue
}

// HasErrors returns true if an issue other than a skipped template was found
func (r *CheckResult) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Kind != IssueSkipped {
			return true
		}
	}
	return false
}

// AddIssue adds an issue to the result
func (r *CheckResult) AddIssue(issue CheckIssue) {
	r.Issues = append(r.Issues, issue)
}

// CheckTemplates inspects the data file without modifying it. It reports
// syntax errors with their position, duplicated question ids, questions with
// invalid definitions, and templates that hold some but not all questions of
// one of sets.
func (uc *UseCases) CheckTemplates(ctx context.Context, content []byte, sets []model.QuestionSet) (*CheckResult, error) {
	doc, err := tsdata.Parse(ctx, content)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse data file")
	}

	result := &CheckResult{Templates: len(doc.Templates)}

	for _, pos := range doc.Errors {
		result.AddIssue(CheckIssue{
			Kind:    IssueSyntax,
			Line:    pos.Line,
			Column:  pos.Column,
			Message: pos.Detail,
		})
	}

	for _, t := range doc.Templates {
		if t.Skipped() {
			result.AddIssue(CheckIssue{Kind: IssueSkipped, Template: t.ID, Line: t.Line, Message: t.SkipReason})
			continue
		}

		for _, id := range t.DuplicateIDs() {
			result.AddIssue(CheckIssue{
				Kind:     IssueDuplicate,
				Template: t.ID,
				Line:     t.Line,
				Message:  fmt.Sprintf("question id %q appears more than once", id),
			})
		}

		for _, q := range t.Questions {
			if err := q.Validate(); err != nil {
				result.AddIssue(CheckIssue{
					Kind:     IssueInvalid,
					Template: t.ID,
					Line:     t.Line,
					Message:  fmt.Sprintf("question %q: %s", q.ID, err.Error()),
				})
			}
		}

		for _, set := range sets {
			missing := set.Missing(&t.Template)
			if len(missing) == 0 || len(missing) == len(set.Questions) {
				continue
			}
			ids := make([]string, len(missing))
			for i, q := range missing {
				ids[i] = string(q.ID)
			}
			result.AddIssue(CheckIssue{
				Kind:     IssuePartial,
				Template: t.ID,
				Line:     t.Line,
				Message:  fmt.Sprintf("question set %q is incomplete, missing %v", set.Name, ids),
			})
		}
	}

	return result, nil
}
