package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/merlin-energy/merlinctl/pkg/domain/model"
	"github.com/merlin-energy/merlinctl/pkg/domain/types"
	"github.com/merlin-energy/merlinctl/pkg/tsdata"
	"github.com/merlin-energy/merlinctl/pkg/usecase"
)

func resultOf(t *testing.T, report *usecase.PatchReport, id string) usecase.TemplateResult {
	t.Helper()
	for _, r := range report.Results {
		if r.Template == id {
			return r
		}
	}
	t.Fatalf("no result for template %q", id)
	return usecase.TemplateResult{}
}

func templateIDs(t *testing.T, content []byte, id string) []types.QuestionID {
	t.Helper()
	doc, err := tsdata.Parse(context.Background(), content)
	gt.NoError(t, err).Required()
	for _, tmpl := range doc.Templates {
		if tmpl.ID == id {
			return tmpl.QuestionIDs()
		}
	}
	t.Fatalf("template %q not found", id)
	return nil
}

func TestPatchTemplates(t *testing.T) {
	ctx := context.Background()
	uc := usecase.New()

	out, report, err := uc.PatchTemplates(ctx, []byte(templatesSource), universalSet(), usecase.PatchOptions{})
	gt.NoError(t, err).Required()

	gt.Value(t, report.Count(usecase.PatchApplied)).Equal(2)
	gt.Value(t, report.Count(usecase.PatchAlreadyApplied)).Equal(1)
	gt.Value(t, report.Count(usecase.PatchSkipped)).Equal(1)
	gt.Bool(t, report.Changed()).True()

	t.Run("appends the whole set in order", func(t *testing.T) {
		gt.Value(t, templateIDs(t, out, "hotel")).
			Equal([]types.QuestionID{"rooms", "facilitySize", "operatingHours", "gridConnection"})
		gt.Value(t, resultOf(t, report, "hotel").Added).
			Equal([]types.QuestionID{"facilitySize", "operatingHours", "gridConnection"})
	})

	t.Run("does not duplicate existing ids", func(t *testing.T) {
		gt.Value(t, templateIDs(t, out, "office")).
			Equal([]types.QuestionID{"facilitySize", "operatingHours", "gridConnection"})
	})

	t.Run("marker leaves the template untouched", func(t *testing.T) {
		gt.Value(t, resultOf(t, report, "data-center").Outcome).Equal(usecase.PatchAlreadyApplied)

		doc, err := tsdata.Parse(ctx, []byte(templatesSource))
		gt.NoError(t, err).Required()
		patched, err := tsdata.Parse(ctx, out)
		gt.NoError(t, err).Required()
		gt.Value(t, patched.QuestionBlock(patched.Templates[1])).Equal(doc.QuestionBlock(doc.Templates[1]))
	})

	t.Run("skipped template is reported", func(t *testing.T) {
		res := resultOf(t, report, "campus")
		gt.Value(t, res.Outcome).Equal(usecase.PatchSkipped)
		gt.String(t, res.Reason).Contains("not an array literal")
	})

	t.Run("second run is a no-op", func(t *testing.T) {
		again, report, err := uc.PatchTemplates(ctx, out, universalSet(), usecase.PatchOptions{})
		gt.NoError(t, err).Required()
		gt.Value(t, string(again)).Equal(string(out))
		gt.Bool(t, report.Changed()).False()
		gt.Value(t, report.Count(usecase.PatchAlreadyApplied)).Equal(3)
	})
}

func TestPatchTemplates_FillMissing(t *testing.T) {
	ctx := context.Background()
	uc := usecase.New()

	out, report, err := uc.PatchTemplates(ctx, []byte(templatesSource), universalSet(), usecase.PatchOptions{FillMissing: true})
	gt.NoError(t, err).Required()

	gt.Value(t, resultOf(t, report, "data-center").Added).Equal([]types.QuestionID{"operatingHours"})
	gt.Value(t, templateIDs(t, out, "data-center")).
		Equal([]types.QuestionID{"facilitySize", "gridConnection", "operatingHours"})
}

func TestPatchTemplates_InvalidSet(t *testing.T) {
	set := universalSet()
	set.Marker = "notInSet"

	_, _, err := usecase.New().PatchTemplates(context.Background(), []byte(templatesSource), set, usecase.PatchOptions{})
	gt.Error(t, err).Is(model.ErrMissingMarker)
}

func TestPatchTemplates_NoTemplateArray(t *testing.T) {
	_, _, err := usecase.New().PatchTemplates(context.Background(), []byte("export const x = 1;\n"), universalSet(), usecase.PatchOptions{})
	gt.Error(t, err).Is(tsdata.ErrTemplatesNotFound)
}

func TestInsertQuestionAfter(t *testing.T) {
	ctx := context.Background()
	uc := usecase.New()

	capacity := model.Question{
		ID:       "gridCapacity",
		Question: "Grid connection capacity",
		Type:     types.QuestionTypeNumber,
		Default:  int64(0),
		Unit:     "kW",
		Required: false,
	}

	out, report, err := uc.InsertQuestionAfter(ctx, []byte(templatesSource), "facilitySize", capacity)
	gt.NoError(t, err).Required()

	gt.Value(t, report.Count(usecase.PatchApplied)).Equal(2)
	gt.Value(t, templateIDs(t, out, "data-center")).
		Equal([]types.QuestionID{"facilitySize", "gridCapacity", "gridConnection"})
	gt.Value(t, templateIDs(t, out, "office")).
		Equal([]types.QuestionID{"facilitySize", "gridCapacity"})

	hotel := resultOf(t, report, "hotel")
	gt.Value(t, hotel.Outcome).Equal(usecase.PatchSkipped)
	gt.Value(t, hotel.Reason).Equal("no question facilitySize")

	t.Run("second run is a no-op", func(t *testing.T) {
		again, report, err := uc.InsertQuestionAfter(ctx, out, "facilitySize", capacity)
		gt.NoError(t, err).Required()
		gt.Value(t, string(again)).Equal(string(out))
		gt.Value(t, report.Count(usecase.PatchAlreadyApplied)).Equal(2)
	})

	t.Run("invalid question", func(t *testing.T) {
		bad := capacity
		bad.Type = "dropdown"
		_, _, err := uc.InsertQuestionAfter(ctx, []byte(templatesSource), "facilitySize", bad)
		gt.Error(t, err).Is(usecase.ErrInvalidQuestion)
	})
}
