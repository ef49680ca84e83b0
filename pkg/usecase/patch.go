package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/merlin-energy/merlinctl/pkg/domain/model"
	"github.com/merlin-energy/merlinctl/pkg/domain/types"
	"github.com/merlin-energy/merlinctl/pkg/tsdata"
	"github.com/merlin-energy/merlinctl/pkg/utils/logging"
)

// PatchOutcome is what happened to one template
type PatchOutcome string

const (
	PatchApplied        PatchOutcome = "patched"
	PatchAlreadyApplied PatchOutcome = "already-applied"
	PatchSkipped        PatchOutcome = "skipped"
)

// TemplateResult is the outcome of patching one template
type TemplateResult struct {
	Template string
	Line     int
	Outcome  PatchOutcome
	Added    []types.QuestionID
	Reason   string
}

// PatchReport summarizes a patch run over a data file
type PatchReport struct {
	Results      []TemplateResult
	SyntaxErrors []tsdata.Position
}

// Count returns the number of templates with the given outcome
func (r *PatchReport) Count(outcome PatchOutcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}

// Changed reports whether any template was modified
func (r *PatchReport) Changed() bool {
	return r.Count(PatchApplied) > 0
}

// PatchOptions controls PatchTemplates
type PatchOptions struct {
	// FillMissing ignores the marker and adds every question of the set that
	// a template lacks. It repairs templates holding a partial block.
	FillMissing bool
}

// PatchTemplates appends the questions of set to every template of the data
// file that does not have the set's marker question yet. Only questions whose
// id is not already present are added, in set order. Templates that cannot be
// edited structurally are left untouched and reported as skipped.
func (uc *UseCases) PatchTemplates(ctx context.Context, content []byte, set *model.QuestionSet, opts PatchOptions) ([]byte, *PatchReport, error) {
	if err := set.Validate(); err != nil {
		return nil, nil, goerr.Wrap(err, "invalid question set")
	}

	logger := logging.From(ctx)

	doc, err := tsdata.Parse(ctx, content)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to parse data file")
	}

	report := &PatchReport{SyntaxErrors: doc.Errors}
	for _, pos := range doc.Errors {
		logger.Warn("Syntax error in data file", "line", pos.Line, "column", pos.Column, "detail", pos.Detail)
	}

	var edits []tsdata.Edit
	for _, t := range doc.Templates {
		res := TemplateResult{Template: t.ID, Line: t.Line}

		switch {
		case t.Skipped():
			res.Outcome = PatchSkipped
			res.Reason = t.SkipReason
			logger.Warn("Template skipped", "template", t.ID, "line", t.Line, "reason", t.SkipReason)

		case !opts.FillMissing && t.HasQuestion(set.Marker):
			res.Outcome = PatchAlreadyApplied

		default:
			missing := set.Missing(&t.Template)
			if len(missing) == 0 {
				res.Outcome = PatchAlreadyApplied
				break
			}

			edit, err := doc.AppendQuestions(t, missing)
			if err != nil {
				return nil, nil, goerr.Wrap(err, "failed to build edit", goerr.V(TemplateKey, t.ID))
			}
			edits = append(edits, edit)

			res.Outcome = PatchApplied
			for _, q := range missing {
				res.Added = append(res.Added, q.ID)
			}
			logger.Info("Template patched", "template", t.ID, "added", res.Added)
		}

		report.Results = append(report.Results, res)
	}

	out, err := tsdata.Apply(content, edits)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to apply edits")
	}

	logger.Info("Patch completed",
		"set", set.Name,
		"patched", report.Count(PatchApplied),
		"already_applied", report.Count(PatchAlreadyApplied),
		"skipped", report.Count(PatchSkipped),
	)

	return out, report, nil
}
