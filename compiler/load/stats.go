package load

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	atlas "ariga.io/atlas/sql/schema"
)

// DefaultSlowQuery is the duration above which an introspection query is
// logged as slow.
const DefaultSlowQuery = 500 * time.Millisecond

// QueryStats holds the statistics of the introspection queries of one load.
type QueryStats struct {
	Queries  atomic.Int64
	Execs    atomic.Int64
	Slow     atomic.Int64
	Errors   atomic.Int64
	Duration atomic.Int64 // nanoseconds
}

// String returns a human-readable summary of the statistics.
func (s *QueryStats) String() string {
	return fmt.Sprintf("queries=%d execs=%d duration=%s slow=%d errors=%d",
		s.Queries.Load(), s.Execs.Load(), time.Duration(s.Duration.Load()),
		s.Slow.Load(), s.Errors.Load(),
	)
}

// querier records statistics for the queries Atlas runs while inspecting.
type querier struct {
	db    *sql.DB
	stats *QueryStats
	slow  time.Duration
	log   *slog.Logger
}

var _ atlas.ExecQuerier = (*querier)(nil)

func (q *querier) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := q.db.QueryContext(ctx, query, args...)
	q.record(ctx, query, start, err, true)
	return rows, err
}

func (q *querier) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := q.db.ExecContext(ctx, query, args...)
	q.record(ctx, query, start, err, false)
	return res, err
}

func (q *querier) record(ctx context.Context, query string, start time.Time, err error, isQuery bool) {
	d := time.Since(start)
	if isQuery {
		q.stats.Queries.Add(1)
	} else {
		q.stats.Execs.Add(1)
	}
	q.stats.Duration.Add(int64(d))
	if err != nil {
		q.stats.Errors.Add(1)
		q.log.DebugContext(ctx, "introspection query failed", "query", query, "error", err)
	}
	if q.slow > 0 && d > q.slow {
		q.stats.Slow.Add(1)
		q.log.WarnContext(ctx, "slow introspection query", "duration", d, "query", query)
	}
}
