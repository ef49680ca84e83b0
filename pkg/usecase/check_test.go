package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/merlin-energy/merlinctl/pkg/domain/model"
	"github.com/merlin-energy/merlinctl/pkg/usecase"
)

func issuesOf(result *usecase.CheckResult, kind usecase.IssueKind) []usecase.CheckIssue {
	var found []usecase.CheckIssue
	for _, issue := range result.Issues {
		if issue.Kind == kind {
			found = append(found, issue)
		}
	}
	return found
}

func TestCheckTemplates(t *testing.T) {
	src := `export const USE_CASE_TEMPLATES = [
  {
    id: 'hotel',
    customQuestions: [
      { id: 'rooms', type: 'number', default: 100, required: true },
      { id: 'rooms', type: 'number', default: 120, required: true },
      { id: 'mood', type: 'dropdown', required: false }
    ]
  },
  {
    id: 'data-center',
    customQuestions: [
      { id: 'facilitySize', type: 'number', default: 1, required: true }
    ]
  },
  {
    id: 'campus',
    customQuestions: SHARED
  }
];
`
	result, err := usecase.New().CheckTemplates(context.Background(), []byte(src), []model.QuestionSet{*universalSet()})
	gt.NoError(t, err).Required()

	gt.Value(t, result.Templates).Equal(3)
	gt.Bool(t, result.HasErrors()).True()

	dups := issuesOf(result, usecase.IssueDuplicate)
	gt.Array(t, dups).Length(1).Required()
	gt.Value(t, dups[0].Template).Equal("hotel")
	gt.String(t, dups[0].Message).Contains(`"rooms"`)

	invalid := issuesOf(result, usecase.IssueInvalid)
	gt.Array(t, invalid).Length(1).Required()
	gt.String(t, invalid[0].Message).Contains(`"mood"`)

	partial := issuesOf(result, usecase.IssuePartial)
	gt.Array(t, partial).Length(1).Required()
	gt.Value(t, partial[0].Template).Equal("data-center")
	gt.String(t, partial[0].Message).Contains("operatingHours")

	gt.Array(t, issuesOf(result, usecase.IssueSkipped)).Length(1)
	gt.Array(t, issuesOf(result, usecase.IssueSyntax)).Length(0)
}

func TestCheckTemplates_Clean(t *testing.T) {
	ctx := context.Background()
	uc := usecase.New()

	patched, _, err := uc.PatchTemplates(ctx, []byte(templatesSource), universalSet(), usecase.PatchOptions{FillMissing: true})
	gt.NoError(t, err).Required()

	result, err := uc.CheckTemplates(ctx, patched, []model.QuestionSet{*universalSet()})
	gt.NoError(t, err).Required()
	gt.Bool(t, result.HasErrors()).False()
	// campus references a shared constant
	gt.Array(t, result.Issues).Length(1)
}

func TestCheckTemplates_SyntaxError(t *testing.T) {
	src := `export const USE_CASE_TEMPLATES = [
  {
    id: 'hotel',
    customQuestions: [
      { id: 'rooms', type: 'number', default: 100, required: true }
    ]
  },
  {
    id: 'office',
    customQuestions: [
      { id: 'floors', type: 'number', default: 3, required: true
    ]
  }
];
`
	result, err := usecase.New().CheckTemplates(context.Background(), []byte(src), nil)
	if err != nil {
		return
	}
	syntax := issuesOf(result, usecase.IssueSyntax)
	gt.Bool(t, len(syntax) > 0).True()
	gt.Bool(t, syntax[0].Line > 0).True()
	gt.Bool(t, result.HasErrors()).True()
}
