package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/merlin-energy/merlinctl/pkg/domain/model"
	"github.com/merlin-energy/merlinctl/pkg/tsdata"
	"github.com/merlin-energy/merlinctl/pkg/utils/logging"
)

// Refactor applies plan to content. Either every step succeeds or content is
// returned unchanged with an error.
func (uc *UseCases) Refactor(ctx context.Context, content []byte, plan *model.RefactorPlan) ([]byte, []tsdata.StepOutcome, error) {
	out, outcomes, err := tsdata.Rewrite(ctx, content, plan)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "refactor failed", goerr.V("plan", plan.Name))
	}

	logger := logging.From(ctx)
	applied := 0
	for _, o := range outcomes {
		if o.Applied {
			applied++
		}
		logger.Info("Refactor step",
			"index", o.Index,
			"op", o.Op,
			"applied", o.Applied,
			"detail", o.Detail,
		)
	}
	logger.Info("Refactor completed", "plan", plan.Name, "steps", len(outcomes), "applied", applied)

	return out, outcomes, nil
}
