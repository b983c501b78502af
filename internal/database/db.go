package database

import (
	"context"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool the stores and health checks use.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(context.Context) error
	Close()
}

// Statement is one SQL call seen by FakeDB.
type Statement struct {
	SQL  string
	Args []any
}

// Verb is the leading SQL keyword, upper-cased.
func (s Statement) Verb() string {
	fields := strings.Fields(s.SQL)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}

// Touches reports whether the statement names table as its target.
func (s Statement) Touches(table string) bool {
	sql := " " + strings.Join(strings.Fields(strings.ToLower(s.SQL)), " ") + " "
	for _, kw := range []string{" from ", " into ", "update "} {
		if strings.Contains(sql, kw+table+" ") {
			return true
		}
	}
	return false
}

// FakeDB stands in for the pool in store and service tests. Every call is
// recorded before its Fn runs; a call without a Fn panics.
type FakeDB struct {
	ExecFn     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryFn    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRowFn func(ctx context.Context, sql string, args ...any) pgx.Row
	PingFn     func(ctx context.Context) error
	CloseFn    func()

	mu    sync.Mutex
	calls []Statement
}

func (f *FakeDB) record(sql string, args []any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Statement{SQL: sql, Args: args})
}

// Statements returns the calls seen so far, oldest first.
func (f *FakeDB) Statements() []Statement {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Statement(nil), f.calls...)
}

// Writes returns the recorded INSERT, UPDATE and DELETE statements on table.
func (f *FakeDB) Writes(table string) []Statement {
	var out []Statement
	for _, s := range f.Statements() {
		switch s.Verb() {
		case "INSERT", "UPDATE", "DELETE":
			if s.Touches(table) {
				out = append(out, s)
			}
		}
	}
	return out
}

func (f *FakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.record(sql, args)
	if f.ExecFn != nil {
		return f.ExecFn(ctx, sql, args...)
	}
	panic("unexpected Exec: " + sql)
}

func (f *FakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.record(sql, args)
	if f.QueryFn != nil {
		return f.QueryFn(ctx, sql, args...)
	}
	panic("unexpected Query: " + sql)
}

func (f *FakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.record(sql, args)
	if f.QueryRowFn != nil {
		return f.QueryRowFn(ctx, sql, args...)
	}
	panic("unexpected QueryRow: " + sql)
}

func (f *FakeDB) Ping(ctx context.Context) error {
	if f.PingFn != nil {
		return f.PingFn(ctx)
	}
	panic("unexpected Ping")
}

func (f *FakeDB) Close() {
	if f.CloseFn != nil {
		f.CloseFn()
	}
}
