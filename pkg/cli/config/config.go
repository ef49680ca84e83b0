package config

import (
	"bytes"
	"embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/m-mizutani/goerr/v2"
	"github.com/merlin-energy/merlinctl/pkg/domain/model"
	"github.com/merlin-energy/merlinctl/pkg/domain/types"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed defaults/*
var defaults embed.FS

const (
	defaultQuestionSets = "defaults/question_sets.toml"
	defaultRefactorPlan = "defaults/extract_step3.yaml"
)

// QuestionSetFile is the file format of question set definitions
type QuestionSetFile struct {
	Sets []QuestionSetEntry `toml:"set" yaml:"sets" json:"sets"`
}

// QuestionSetEntry represents one question set
type QuestionSetEntry struct {
	Name      string          `toml:"name" yaml:"name" json:"name"`
	Marker    string          `toml:"marker" yaml:"marker" json:"marker"`
	Questions []QuestionEntry `toml:"question" yaml:"questions" json:"questions"`
}

// QuestionEntry represents one question of a set
type QuestionEntry struct {
	ID         string        `toml:"id" yaml:"id" json:"id"`
	Question   string        `toml:"question" yaml:"question" json:"question"`
	Type       string        `toml:"type" yaml:"type" json:"type"`
	Default    any           `toml:"default" yaml:"default" json:"default"`
	Unit       string        `toml:"unit" yaml:"unit" json:"unit"`
	ImpactType string        `toml:"impact_type" yaml:"impact_type" json:"impact_type"`
	HelpText   string        `toml:"help_text" yaml:"help_text" json:"help_text"`
	Required   bool          `toml:"required" yaml:"required" json:"required"`
	Options    []OptionEntry `toml:"options" yaml:"options" json:"options"`
}

// OptionEntry represents a choice of a select question
type OptionEntry struct {
	Value string `toml:"value" yaml:"value" json:"value"`
	Label string `toml:"label" yaml:"label" json:"label"`
}

// PlanFile is the file format of subscription plan definitions
type PlanFile struct {
	Plans []PlanEntry `toml:"plan" yaml:"plans" json:"plans"`
}

// PlanEntry represents one subscription tier
type PlanEntry struct {
	Tier        string `toml:"tier" yaml:"tier" json:"tier"`
	Name        string `toml:"name" yaml:"name" json:"name"`
	Description string `toml:"description" yaml:"description" json:"description"`
	Monthly     int64  `toml:"monthly" yaml:"monthly" json:"monthly"`
	Annual      int64  `toml:"annual" yaml:"annual" json:"annual"`
	Currency    string `toml:"currency" yaml:"currency" json:"currency"`
}

// RefactorPlanFile is the file format of a refactor plan
type RefactorPlanFile struct {
	Name     string              `toml:"name" yaml:"name" json:"name"`
	Target   string              `toml:"target" yaml:"target" json:"target"`
	Function string              `toml:"function" yaml:"function" json:"function"`
	Steps    []RefactorStepEntry `toml:"step" yaml:"steps" json:"steps"`
}

// RefactorStepEntry represents one step of a refactor plan
type RefactorStepEntry struct {
	Op     string   `toml:"op" yaml:"op" json:"op"`
	Anchor string   `toml:"anchor" yaml:"anchor" json:"anchor"`
	Text   string   `toml:"text" yaml:"text" json:"text"`
	Names  []string `toml:"names" yaml:"names" json:"names"`
	After  string   `toml:"after" yaml:"after" json:"after"`
}

// LoadQuestionSets loads question sets from path, or the built-in sets when path is empty
func LoadQuestionSets(path string) ([]model.QuestionSet, error) {
	var file QuestionSetFile
	if err := loadFile(path, defaultQuestionSets, &file); err != nil {
		return nil, err
	}

	sets := make([]model.QuestionSet, 0, len(file.Sets))
	names := make(map[string]bool, len(file.Sets))
	for _, entry := range file.Sets {
		set, err := entry.toModel()
		if err != nil {
			return nil, goerr.Wrap(err, "invalid question set", goerr.V(ConfigPathKey, path))
		}
		if names[set.Name] {
			return nil, goerr.Wrap(ErrInvalidConfig, "duplicate question set name",
				goerr.V(ConfigPathKey, path), goerr.V(SetNameKey, set.Name))
		}
		names[set.Name] = true
		sets = append(sets, *set)
	}

	if len(sets) == 0 {
		return nil, goerr.Wrap(ErrInvalidConfig, "no question set defined", goerr.V(ConfigPathKey, path))
	}
	return sets, nil
}

// FindQuestionSet returns the set called name
func FindQuestionSet(sets []model.QuestionSet, name string) (*model.QuestionSet, error) {
	for i := range sets {
		if sets[i].Name == name {
			return &sets[i], nil
		}
	}

	available := make([]string, len(sets))
	for i, s := range sets {
		available[i] = s.Name
	}
	return nil, goerr.Wrap(ErrQuestionSetUnknown, "no such question set",
		goerr.V(SetNameKey, name), goerr.V("available", available))
}

func (x *QuestionSetEntry) toModel() (*model.QuestionSet, error) {
	if x.Name == "" {
		return nil, goerr.Wrap(ErrInvalidConfig, "question set name is required")
	}

	set := &model.QuestionSet{
		Name:      x.Name,
		Marker:    types.QuestionID(x.Marker),
		Questions: make([]model.Question, 0, len(x.Questions)),
	}
	for i, q := range x.Questions {
		def, err := normalizeDefault(q.Default)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid default",
				goerr.V(SetNameKey, x.Name), goerr.V(QuestionIdxKey, i), goerr.V(QuestionIDKey, q.ID))
		}

		question := model.Question{
			ID:         types.QuestionID(q.ID),
			Question:   q.Question,
			Type:       types.QuestionType(q.Type),
			Default:    def,
			Unit:       q.Unit,
			ImpactType: types.ImpactType(q.ImpactType),
			HelpText:   q.HelpText,
			Required:   q.Required,
		}
		for _, opt := range q.Options {
			question.Options = append(question.Options, model.Option{Value: opt.Value, Label: opt.Label})
		}
		set.Questions = append(set.Questions, question)
	}

	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

// normalizeDefault maps decoder specific scalar types to int64, float64, string or bool
func normalizeDefault(v any) (any, error) {
	switch val := v.(type) {
	case nil, string, bool, int64, float64:
		return val, nil
	case int:
		return int64(val), nil
	case uint64:
		return int64(val), nil
	case float32:
		return float64(val), nil
	default:
		return nil, goerr.Wrap(ErrUnsupportedDefault, "default must be a scalar", goerr.V("value", v))
	}
}

// LoadPlans loads subscription plans from path, or the built-in tiers when path is empty
func LoadPlans(path string) ([]model.Plan, error) {
	if path == "" {
		return model.DefaultPlans(), nil
	}

	var file PlanFile
	if err := loadFile(path, "", &file); err != nil {
		return nil, err
	}

	plans := make([]model.Plan, len(file.Plans))
	for i, p := range file.Plans {
		currency := p.Currency
		if currency == "" {
			currency = "usd"
		}
		plans[i] = model.Plan{
			Tier:          types.TierID(p.Tier),
			Name:          p.Name,
			Description:   p.Description,
			MonthlyAmount: p.Monthly,
			AnnualAmount:  p.Annual,
			Currency:      strings.ToLower(currency),
		}
	}

	if len(plans) == 0 {
		return nil, goerr.Wrap(ErrInvalidConfig, "no plan defined", goerr.V(ConfigPathKey, path))
	}
	if err := model.ValidatePlans(plans); err != nil {
		return nil, goerr.Wrap(err, "invalid plans", goerr.V(ConfigPathKey, path))
	}
	return plans, nil
}

// LoadRefactorPlan loads a refactor plan from path, or the built-in extract-step3 plan when path is empty
func LoadRefactorPlan(path string) (*model.RefactorPlan, error) {
	var file RefactorPlanFile
	if err := loadFile(path, defaultRefactorPlan, &file); err != nil {
		return nil, err
	}

	plan := &model.RefactorPlan{
		Name:     file.Name,
		Target:   file.Target,
		Function: file.Function,
		Steps:    make([]model.RefactorStep, len(file.Steps)),
	}
	for i, s := range file.Steps {
		plan.Steps[i] = model.RefactorStep{
			Op:     model.RefactorOp(s.Op),
			Anchor: s.Anchor,
			Text:   s.Text,
			Names:  s.Names,
			After:  s.After,
		}
	}

	if err := plan.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid refactor plan", goerr.V(ConfigPathKey, path))
	}
	return plan, nil
}

// loadFile decodes path into v, falling back to the embedded file fallback when path is empty
func loadFile(path, fallback string, v any) error {
	name := path
	var data []byte
	var err error

	if path == "" {
		name = fallback
		data, err = fs.ReadFile(defaults, fallback)
	} else {
		// #nosec G304 - path is expected to be provided by CLI argument
		data, err = os.ReadFile(path)
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return goerr.Wrap(ErrConfigNotFound, "config file not found", goerr.V(ConfigPathKey, name))
		}
		return goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, name))
	}

	return decode(name, data, v)
}

func decode(name string, data []byte, v any) error {
	var err error
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(v)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(v)
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(v)
	default:
		return goerr.Wrap(ErrUnsupportedFormat, "use a .toml, .yaml or .json file", goerr.V(ConfigPathKey, name))
	}
	if err != nil {
		return goerr.Wrap(ErrInvalidConfig, err.Error(), goerr.V(ConfigPathKey, name))
	}
	return nil
}
