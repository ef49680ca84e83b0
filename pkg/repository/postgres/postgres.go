package postgres

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/merlin-energy/merlinctl/pkg/domain/interfaces"
	"github.com/merlin-energy/merlinctl/pkg/domain/model"
)

// Backend runs migrations over a direct PostgreSQL connection
type Backend struct {
	conn *pgx.Conn
}

var _ interfaces.SQLBackend = (*Backend)(nil)

// New connects to the database at databaseURL
func New(ctx context.Context, databaseURL string) (*Backend, error) {
	if databaseURL == "" {
		return nil, goerr.New("database URL is required")
	}

	cfg, err := pgx.ParseConfig(databaseURL)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid database URL")
	}

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to connect to database",
			goerr.V("host", cfg.Host), goerr.V("database", cfg.Database))
	}

	return &Backend{conn: conn}, nil
}

// Exec runs statement with the simple protocol so that statements with
// casts and literal JSON need no parameter binding.
func (b *Backend) Exec(ctx context.Context, statement string) ([]model.Row, error) {
	rows, err := b.conn.Query(ctx, statement, pgx.QueryExecModeSimpleProtocol)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to execute statement")
	}

	result, err := collect(rows)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read statement result")
	}
	return result, nil
}

// Select reads rows matching query
func (b *Backend) Select(ctx context.Context, query model.VerifyQuery) ([]model.Row, error) {
	sql, args := buildSelect(query)

	rows, err := b.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to select rows", goerr.V("table", query.Table))
	}

	result, err := collect(rows)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read rows", goerr.V("table", query.Table))
	}
	return result, nil
}

// Close closes the connection
func (b *Backend) Close() error {
	return b.conn.Close(context.Background())
}

func buildSelect(query model.VerifyQuery) (string, []any) {
	cols := make([]string, len(query.Columns))
	for i, c := range query.Columns {
		cols[i] = pgx.Identifier{c}.Sanitize()
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(cols, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(pgx.Identifier(strings.Split(query.Table, ".")).Sanitize())

	var args []any
	if query.Filter.Column != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(pgx.Identifier{query.Filter.Column}.Sanitize())
		sb.WriteString(" = $1")
		args = append(args, query.Filter.Value)
	}
	if query.Limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(query.Limit))
	}

	return sb.String(), args
}

func collect(rows pgx.Rows) ([]model.Row, error) {
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}

	result := make([]model.Row, len(maps))
	for i, m := range maps {
		result[i] = model.Row(m)
	}
	return result, nil
}
