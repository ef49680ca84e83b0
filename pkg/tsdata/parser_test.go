package tsdata_test

import (
	"context"
	"os"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/merlin-energy/merlinctl/pkg/domain/model"
	"github.com/merlin-energy/merlinctl/pkg/domain/types"
	"github.com/merlin-energy/merlinctl/pkg/tsdata"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	gt.NoError(t, err).Required()
	return data
}

func findTemplate(t *testing.T, doc *tsdata.Document, id string) *tsdata.Template {
	t.Helper()
	for _, tmpl := range doc.Templates {
		if tmpl.ID == id {
			return tmpl
		}
	}
	t.Fatalf("template %q not found", id)
	return nil
}

func TestParse(t *testing.T) {
	doc, err := tsdata.Parse(context.Background(), loadFixture(t, "useCaseTemplates.ts"))
	gt.NoError(t, err).Required()

	gt.Array(t, doc.Templates).Length(5)
	gt.Array(t, doc.Errors).Length(0)

	hotel := findTemplate(t, doc, "hotel")
	gt.Bool(t, hotel.Skipped()).False()
	gt.Value(t, hotel.Index).Equal(0)
	gt.Array(t, hotel.Questions).Length(1)
	q := hotel.Questions[0]
	gt.Value(t, q.ID).Equal(types.QuestionID("industrySpecific"))
	gt.Value(t, q.Question).Equal("Number of guest rooms")
	gt.Value(t, q.Type).Equal(types.QuestionTypeNumber)
	gt.Value(t, q.Default).Equal(any(int64(150)))
	gt.Value(t, q.Unit).Equal("rooms")
	gt.Value(t, q.ImpactType).Equal(types.ImpactTypeFactor)
	gt.Bool(t, q.Required).True()

	dc := findTemplate(t, doc, "data-center")
	gt.Value(t, dc.QuestionIDs()).Equal([]types.QuestionID{"rackCount", "gridConnection"})
	grid := dc.Questions[1]
	gt.Value(t, grid.Default).Equal(any("reliable"))
	gt.Value(t, grid.Options).Equal([]model.Option{
		{Value: "reliable", Label: "Reliable Grid"},
		{Value: "off_grid", Label: "Off-Grid"},
	})

	carWash := findTemplate(t, doc, "car-wash")
	gt.Bool(t, carWash.Skipped()).False()
	gt.Array(t, carWash.Questions).Length(0)

	campus := findTemplate(t, doc, "campus")
	gt.Bool(t, campus.Skipped()).True()
	gt.String(t, campus.SkipReason).Contains("not an array literal")

	airport := findTemplate(t, doc, "airport")
	gt.Bool(t, airport.Skipped()).True()
	gt.String(t, airport.SkipReason).Contains("not found")
}

func TestParse_NoTemplates(t *testing.T) {
	src := []byte(`export const COLORS = ['red', 'green'];
export function noop() { return [{ customQuestions: [] }]; }
`)
	_, err := tsdata.Parse(context.Background(), src)
	gt.Error(t, err).Is(tsdata.ErrTemplatesNotFound)
}

func TestParse_SpreadQuestionSkipsTemplate(t *testing.T) {
	src := []byte(`const templates = [
  {
    id: 'office',
    customQuestions: [
      ...COMMON_QUESTIONS,
      { id: 'floors', type: 'number', default: 3, required: false }
    ]
  }
];
`)
	doc, err := tsdata.Parse(context.Background(), src)
	gt.NoError(t, err).Required()
	gt.Array(t, doc.Templates).Length(1)
	gt.Bool(t, doc.Templates[0].Skipped()).True()
	gt.Array(t, doc.Templates[0].Questions).Length(0)
}

func TestParse_SyntaxErrorIsReportedAndSkipped(t *testing.T) {
	src := []byte(`export const templates = [
  {
    id: 'good',
    customQuestions: [
      { id: 'a', type: 'number', default: 1, required: true }
    ]
  },
  {
    id: 'broken',
    customQuestions: [
      { id: 'b', type: 'number', default: 10 10, required: true }
    ]
  }
];
`)
	doc, err := tsdata.Parse(context.Background(), src)
	if err != nil {
		// recovery may swallow the whole array; that is reported as not found
		gt.Error(t, err).Is(tsdata.ErrTemplatesNotFound)
		return
	}
	gt.Bool(t, len(doc.Errors) > 0).True()

	for _, tmpl := range doc.Templates {
		if tmpl.ID == "broken" {
			gt.Bool(t, tmpl.Skipped()).True()
		}
		if tmpl.ID == "good" {
			gt.Bool(t, tmpl.Skipped()).False()
			gt.Value(t, tmpl.QuestionIDs()).Equal([]types.QuestionID{"a"})
		}
	}
}

func TestParse_LiteralForms(t *testing.T) {
	src := []byte(`export default [
  {
    slug: 'lab',
    customQuestions: [
      {
        id: 'ratio',
        question: "Lab's \"clean\" share",
        type: 'number',
        default: -0.25,
        required: false
      },
      {
        id: 'mode',
        question: ` + "`Operating mode`" + `,
        type: 'select',
        default: DEFAULT_MODE,
        options: [{ value: 1, label: 'One' }],
        required: true
      }
    ]
  }
] as const;
`)
	doc, err := tsdata.Parse(context.Background(), src)
	gt.NoError(t, err).Required()
	gt.Array(t, doc.Templates).Length(1)

	lab := doc.Templates[0]
	gt.Value(t, lab.ID).Equal("lab")
	gt.Array(t, lab.Questions).Length(2)
	gt.Value(t, lab.Questions[0].Question).Equal(`Lab's "clean" share`)
	gt.Value(t, lab.Questions[0].Default).Equal(any(-0.25))
	gt.Bool(t, lab.Questions[0].Required).False()
	gt.Value(t, lab.Questions[1].Question).Equal("Operating mode")
	gt.Value(t, lab.Questions[1].Default).Equal(any(tsdata.Expr("DEFAULT_MODE")))
	gt.Value(t, lab.Questions[1].Options).Equal([]model.Option{{Value: "1", Label: "One"}})
}
