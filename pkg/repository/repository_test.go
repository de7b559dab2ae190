package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JaimeStill/companion/pkg/repository"
)

var (
	errNotFound     = errors.New("persona not found")
	errDuplicate    = errors.New("persona name already exists")
	errInvalidStyle = errors.New("invalid style")
)

func TestErrorsMap(t *testing.T) {
	full := repository.Errors{
		NotFound:  errNotFound,
		Duplicate: errDuplicate,
		Invalid:   errInvalidStyle,
	}
	other := errors.New("connection reset")
	fk := &pgconn.PgError{Code: "23503"}
	check := &pgconn.PgError{Code: repository.CodeCheckViolation}

	tests := []struct {
		name string
		set  repository.Errors
		err  error
		want error
	}{
		{"nil", full, nil, nil},
		{"no rows", full, sql.ErrNoRows, errNotFound},
		{"unique violation", full, &pgconn.PgError{Code: repository.CodeUniqueViolation}, errDuplicate},
		{"check violation", full, &pgconn.PgError{Code: repository.CodeCheckViolation}, errInvalidStyle},
		{"foreign key passthrough", full, fk, fk},
		{"other passthrough", full, other, other},
		{"check without invalid", repository.Errors{NotFound: errNotFound}, check, check},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.set.Map(tt.err)
			if got != tt.want {
				t.Errorf("Map() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapErrorWrappedNoRows(t *testing.T) {
	wrapped := errors.Join(errors.New("scan persona"), sql.ErrNoRows)
	got := repository.MapError(wrapped, errNotFound, errDuplicate)
	if got != errNotFound {
		t.Errorf("MapError(wrapped ErrNoRows) = %v, want %v", got, errNotFound)
	}
}

type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

type fakeExecutor struct {
	result sql.Result
	err    error
	query  string
	args   []any
}

func (e *fakeExecutor) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	e.query = query
	e.args = args
	return e.result, e.err
}

func TestExecCount(t *testing.T) {
	exec := &fakeExecutor{result: fakeResult{rows: 4}}

	n, err := repository.ExecCount(context.Background(), exec, "DELETE FROM chat_messages WHERE conversation_id = $1", "c1")
	if err != nil {
		t.Fatalf("ExecCount() error: %v", err)
	}
	if n != 4 {
		t.Errorf("ExecCount() = %d, want 4", n)
	}
	if len(exec.args) != 1 || exec.args[0] != "c1" {
		t.Errorf("args = %v, want [c1]", exec.args)
	}
}

func TestExecExpectOne(t *testing.T) {
	execErr := errors.New("exec failed")
	rowsErr := errors.New("rows unavailable")

	tests := []struct {
		name string
		exec *fakeExecutor
		want error
	}{
		{"one row", &fakeExecutor{result: fakeResult{rows: 1}}, nil},
		{"no rows", &fakeExecutor{result: fakeResult{rows: 0}}, sql.ErrNoRows},
		{"exec error", &fakeExecutor{err: execErr}, execErr},
		{"rows error", &fakeExecutor{result: fakeResult{err: rowsErr}}, rowsErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repository.ExecExpectOne(context.Background(), tt.exec, "DELETE FROM personas WHERE id = $1", 1)
			if !errors.Is(err, tt.want) && !(err == nil && tt.want == nil) {
				t.Errorf("ExecExpectOne() = %v, want %v", err, tt.want)
			}
		})
	}
}
