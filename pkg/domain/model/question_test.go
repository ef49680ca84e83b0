package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/merlin-energy/merlinctl/pkg/domain/model"
	"github.com/merlin-energy/merlinctl/pkg/domain/types"
)

func gridConnection() model.Question {
	return model.Question{
		ID:         "gridConnection",
		Question:   "Grid connection quality",
		Type:       types.QuestionTypeSelect,
		Default:    "reliable",
		ImpactType: types.ImpactTypeFactor,
		Required:   true,
		Options: []model.Option{
			{Value: "reliable", Label: "Reliable Grid"},
			{Value: "off_grid", Label: "Off-Grid"},
		},
	}
}

func TestQuestion_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(q *model.Question)
		wantErr error
	}{
		{
			name:   "valid select",
			mutate: func(q *model.Question) {},
		},
		{
			name:    "invalid id",
			mutate:  func(q *model.Question) { q.ID = "grid-connection" },
			wantErr: model.ErrInvalidQuestionID,
		},
		{
			name:    "unknown type",
			mutate:  func(q *model.Question) { q.Type = "dropdown" },
			wantErr: model.ErrInvalidQuestionType,
		},
		{
			name:    "unknown impact type",
			mutate:  func(q *model.Question) { q.ImpactType = "huge" },
			wantErr: model.ErrInvalidImpactType,
		},
		{
			name:    "select without options",
			mutate:  func(q *model.Question) { q.Options = nil },
			wantErr: model.ErrMissingOptions,
		},
		{
			name: "duplicate option value",
			mutate: func(q *model.Question) {
				q.Options = append(q.Options, model.Option{Value: "reliable", Label: "Again"})
			},
			wantErr: model.ErrDuplicateOption,
		},
		{
			name: "number without options",
			mutate: func(q *model.Question) {
				q.Type = types.QuestionTypeNumber
				q.Options = nil
				q.Default = int64(0)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := gridConnection()
			tt.mutate(&q)
			err := q.Validate()
			if tt.wantErr == nil {
				gt.NoError(t, err)
				return
			}
			gt.Error(t, err).Is(tt.wantErr)
		})
	}
}

func TestQuestionSet_Validate(t *testing.T) {
	peak := model.Question{ID: "peakLoad", Type: types.QuestionTypeNumber, Default: int64(0)}

	t.Run("valid", func(t *testing.T) {
		set := model.QuestionSet{Name: "universal", Marker: "gridConnection", Questions: []model.Question{peak, gridConnection()}}
		gt.NoError(t, set.Validate())
	})

	t.Run("empty", func(t *testing.T) {
		set := model.QuestionSet{Name: "empty", Marker: "gridConnection"}
		gt.Error(t, set.Validate()).Is(model.ErrEmptyQuestionSet)
	})

	t.Run("marker not in set", func(t *testing.T) {
		set := model.QuestionSet{Name: "bad", Marker: "gridCapacity", Questions: []model.Question{peak}}
		gt.Error(t, set.Validate()).Is(model.ErrMissingMarker)
	})

	t.Run("duplicate ids", func(t *testing.T) {
		set := model.QuestionSet{Name: "dup", Marker: "peakLoad", Questions: []model.Question{peak, peak}}
		gt.Error(t, set.Validate()).Is(model.ErrDuplicateQuestionID)
	})
}

func TestQuestionSet_Missing(t *testing.T) {
	set := model.QuestionSet{
		Marker: "gridConnection",
		Questions: []model.Question{
			{ID: "facilitySize"},
			{ID: "operatingHours"},
			{ID: "peakLoad"},
			{ID: "gridConnection"},
		},
	}
	tmpl := &model.Template{
		ID:        "hotel",
		Questions: []model.Question{{ID: "industrySpecific"}, {ID: "operatingHours"}},
	}

	missing := set.Missing(tmpl)
	gt.Array(t, missing).Length(3)
	gt.Value(t, missing[0].ID).Equal(types.QuestionID("facilitySize"))
	gt.Value(t, missing[1].ID).Equal(types.QuestionID("peakLoad"))
	gt.Value(t, missing[2].ID).Equal(types.QuestionID("gridConnection"))
}

func TestTemplate_DuplicateIDs(t *testing.T) {
	tmpl := &model.Template{
		Questions: []model.Question{{ID: "a"}, {ID: "b"}, {ID: "a"}, {ID: "a"}, {ID: "b"}, {ID: "c"}},
	}
	gt.Value(t, tmpl.DuplicateIDs()).Equal([]types.QuestionID{"a", "b"})
	gt.Bool(t, tmpl.HasQuestion("c")).True()
	gt.Bool(t, tmpl.HasQuestion("d")).False()
}

func TestTemplate_Validate(t *testing.T) {
	tmpl := &model.Template{
		ID:        "hotel",
		Questions: []model.Question{{ID: "rooms"}, {ID: "gridConnection"}, {ID: "rooms"}},
	}
	gt.Error(t, tmpl.Validate()).Is(model.ErrDuplicateQuestionID)
	gt.Value(t, tmpl.QuestionIDs()).Equal([]types.QuestionID{"rooms", "gridConnection", "rooms"})

	tmpl.Questions = tmpl.Questions[:2]
	gt.NoError(t, tmpl.Validate())
}
