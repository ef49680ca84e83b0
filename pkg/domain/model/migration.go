package model

import (
	_ "embed"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Row is one result row returned by a migration backend
type Row map[string]any

// Filter restricts a verification query to rows where Column equals Value
type Filter struct {
	Column string
	Value  string
}

// VerifyQuery reads back rows after a migration statement ran
type VerifyQuery struct {
	Table   string
	Columns []string
	Filter  Filter
	Limit   int
}

// Migration is a single SQL statement plus the query that verifies its effect
type Migration struct {
	ID          string
	Description string
	Statement   string
	Verify      *VerifyQuery
}

// Validate checks the migration definition
func (m *Migration) Validate() error {
	if m.ID == "" {
		return goerr.Wrap(ErrInvalidMigration, "migration ID is required")
	}
	if strings.TrimSpace(m.Statement) == "" {
		return goerr.Wrap(ErrInvalidMigration, "statement is required", goerr.V(MigrationIDKey, m.ID))
	}
	if m.Verify != nil {
		if m.Verify.Table == "" || len(m.Verify.Columns) == 0 {
			return goerr.Wrap(ErrInvalidMigration, "verify query needs a table and columns",
				goerr.V(MigrationIDKey, m.ID))
		}
		if m.Verify.Filter.Column == "" {
			return goerr.Wrap(ErrInvalidMigration, "verify query needs a filter column",
				goerr.V(MigrationIDKey, m.ID))
		}
	}
	return nil
}

//go:embed migrations/grid_connection_question.sql
var gridConnectionQuestionSQL string

// BuiltinMigrations returns the migrations shipped with the tool, in execution order
func BuiltinMigrations() []Migration {
	return []Migration{
		{
			ID:          "grid-connection-question",
			Description: "Rename utilityRateType questions to gridConnection",
			Statement:   gridConnectionQuestionSQL,
			Verify: &VerifyQuery{
				Table:   "custom_questions",
				Columns: []string{"use_case_id", "field_name", "question_text", "is_required"},
				Filter:  Filter{Column: "field_name", Value: "gridConnection"},
			},
		},
	}
}

// FindMigrations returns the builtin migrations with the given IDs, or all of them when ids is empty
func FindMigrations(ids []string) ([]Migration, error) {
	all := BuiltinMigrations()
	if len(ids) == 0 {
		return all, nil
	}

	byID := make(map[string]Migration, len(all))
	for _, m := range all {
		byID[m.ID] = m
	}

	result := make([]Migration, 0, len(ids))
	for _, id := range ids {
		m, ok := byID[id]
		if !ok {
			return nil, goerr.Wrap(ErrInvalidMigration, "unknown migration", goerr.V(MigrationIDKey, id))
		}
		result = append(result, m)
	}
	return result, nil
}
