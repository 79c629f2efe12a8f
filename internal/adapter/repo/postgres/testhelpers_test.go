package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// rowStub implements pgx.Row
type rowStub struct{ scan func(dest ...any) error }

func (r rowStub) Scan(dest ...any) error { return r.scan(dest...) }

// scanValues copies vals into dest pointers by reflection.
func scanValues(vals ...any) func(dest ...any) error {
	return func(dest ...any) error {
		if len(dest) != len(vals) {
			return fmt.Errorf("scan: %d dest for %d values", len(dest), len(vals))
		}
		for i, v := range vals {
			dv := reflect.ValueOf(dest[i]).Elem()
			if v == nil {
				dv.Set(reflect.Zero(dv.Type()))
				continue
			}
			dv.Set(reflect.ValueOf(v))
		}
		return nil
	}
}

// rowsStub implements pgx.Rows over a fixed list of rows.
type rowsStub struct {
	rows [][]any
	i    int
	err  error
}

func (r *rowsStub) Close()                                       {}
func (r *rowsStub) Err() error                                   { return r.err }
func (r *rowsStub) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *rowsStub) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *rowsStub) Next() bool                                   { r.i++; return r.i <= len(r.rows) }
func (r *rowsStub) Scan(dest ...any) error                       { return scanValues(r.rows[r.i-1]...)(dest...) }
func (r *rowsStub) Values() ([]any, error)                       { return r.rows[r.i-1], nil }
func (r *rowsStub) RawValues() [][]byte                          { return nil }
func (r *rowsStub) Conn() *pgx.Conn                              { return nil }

type execCall struct {
	sql  string
	args []any
}

// poolStub implements postgres.PgxPool for tests. It records Exec and
// QueryRow calls and returns the configured results.
type poolStub struct {
	execErr  error
	execTag  pgconn.CommandTag
	row      rowStub
	rows     *rowsStub
	queryErr error
	execs    []execCall
	queries  []execCall
}

func (p *poolStub) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	p.execs = append(p.execs, execCall{sql: sql, args: args})
	return p.execTag, p.execErr
}

func (p *poolStub) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	p.queries = append(p.queries, execCall{sql: sql, args: args})
	if p.row.scan == nil {
		return rowStub{scan: func(_ ...any) error { return errors.New("no row configured") }}
	}
	return p.row
}

func (p *poolStub) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	p.queries = append(p.queries, execCall{sql: sql, args: args})
	if p.queryErr != nil {
		return nil, p.queryErr
	}
	if p.rows == nil {
		return &rowsStub{}, nil
	}
	return p.rows, nil
}

func noRows(_ ...any) error { return pgx.ErrNoRows }

func containsSQL(sql, fragment string) bool {
	return strings.Contains(strings.Join(strings.Fields(sql), " "), fragment)
}
