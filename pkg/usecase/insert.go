package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/merlin-energy/merlinctl/pkg/domain/model"
	"github.com/merlin-energy/merlinctl/pkg/domain/types"
	"github.com/merlin-energy/merlinctl/pkg/tsdata"
	"github.com/merlin-energy/merlinctl/pkg/utils/logging"
)

// InsertQuestionAfter places q directly after the question with ID after in
// every template that has it. Templates already holding q are left as they are.
func (uc *UseCases) InsertQuestionAfter(ctx context.Context, content []byte, after types.QuestionID, q model.Question) ([]byte, *PatchReport, error) {
	if err := q.Validate(); err != nil {
		return nil, nil, goerr.Wrap(ErrInvalidQuestion, err.Error(), goerr.V(QuestionKey, q.ID))
	}
	if err := after.Validate(); err != nil {
		return nil, nil, goerr.Wrap(ErrInvalidQuestion, "invalid anchor question id", goerr.V(QuestionKey, after))
	}

	logger := logging.From(ctx)

	doc, err := tsdata.Parse(ctx, content)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to parse data file")
	}

	report := &PatchReport{SyntaxErrors: doc.Errors}
	var edits []tsdata.Edit
	for _, t := range doc.Templates {
		res := TemplateResult{Template: t.ID, Line: t.Line}

		switch {
		case t.Skipped():
			res.Outcome = PatchSkipped
			res.Reason = t.SkipReason

		case t.HasQuestion(q.ID):
			res.Outcome = PatchAlreadyApplied

		default:
			edit, found, err := doc.InsertAfter(t, after, []model.Question{q})
			if err != nil {
				return nil, nil, goerr.Wrap(err, "failed to build edit", goerr.V(TemplateKey, t.ID))
			}
			if !found {
				res.Outcome = PatchSkipped
				res.Reason = "no question " + string(after)
				break
			}
			edits = append(edits, edit)
			res.Outcome = PatchApplied
			res.Added = []types.QuestionID{q.ID}
		}

		if res.Outcome == PatchSkipped {
			logger.Debug("Template skipped", "template", t.ID, "reason", res.Reason)
		}
		report.Results = append(report.Results, res)
	}

	out, err := tsdata.Apply(content, edits)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to apply edits")
	}

	logger.Info("Insert completed",
		"question", q.ID,
		"after", after,
		"patched", report.Count(PatchApplied),
		"already_applied", report.Count(PatchAlreadyApplied),
		"skipped", report.Count(PatchSkipped),
	)

	return out, report, nil
}
