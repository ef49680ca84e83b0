package usecase_test

import (
	"github.com/merlin-energy/merlinctl/pkg/domain/model"
	"github.com/merlin-energy/merlinctl/pkg/domain/types"
)

const templatesSource = `export const USE_CASE_TEMPLATES = [
  {
    id: 'hotel',
    customQuestions: [
      { id: 'rooms', type: 'number', default: 100, required: true }
    ]
  },
  {
    id: 'data-center',
    customQuestions: [
      { id: 'facilitySize', type: 'number', default: 1, required: true },
      {
        id: 'gridConnection',
        type: 'select',
        default: 'reliable',
        options: [{ value: 'reliable', label: 'Reliable' }],
        required: true
      }
    ]
  },
  {
    id: 'office',
    customQuestions: [
      { id: 'facilitySize', type: 'number', default: 1, required: true },
    ]
  },
  {
    id: 'campus',
    customQuestions: SHARED_CAMPUS_QUESTIONS
  }
];
`

func universalSet() *model.QuestionSet {
	return &model.QuestionSet{
		Name:   "universal",
		Marker: "gridConnection",
		Questions: []model.Question{
			{
				ID:         "facilitySize",
				Question:   "Facility size",
				Type:       types.QuestionTypeNumber,
				Default:    int64(50000),
				Unit:       "sq ft",
				ImpactType: types.ImpactTypeMultiplier,
				Required:   true,
			},
			{
				ID:       "operatingHours",
				Question: "Operating hours per day",
				Type:     types.QuestionTypeNumber,
				Default:  int64(12),
				Unit:     "hours",
				Required: true,
			},
			{
				ID:       "gridConnection",
				Question: "Grid connection quality",
				Type:     types.QuestionTypeSelect,
				Default:  "reliable",
				Options: []model.Option{
					{Value: "reliable", Label: "Reliable Grid"},
					{Value: "off_grid", Label: "Off-Grid"},
				},
				Required: true,
			},
		},
	}
}
