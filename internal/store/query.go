package store

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// Filter selects archived transmissions. Zero fields do not filter.
type Filter struct {
	// RootKind matches the root operator name, or "literal".
	RootKind string

	// MinVersionSum keeps transmissions whose version sum is at least this.
	MinVersionSum uint64

	// Limit caps the number of rows returned.
	Limit int
}

// compile converts the filter to parameterized SQL.
// Every query carries ORDER BY seq ASC, id COLLATE BINARY ASC so results
// are in insertion order with a deterministic tiebreaker.
// Values are always bound with ? placeholders, never interpolated.
func (f Filter) compile() (string, []any, error) {
	if f.Limit < 0 {
		return "", nil, fmt.Errorf("limit must be non-negative, got %d", f.Limit)
	}
	// version_sum is a SQLite INTEGER; larger bounds would wrap negative.
	if f.MinVersionSum > math.MaxInt64 {
		return "", nil, fmt.Errorf("min version sum %d exceeds %d", f.MinVersionSum, int64(math.MaxInt64))
	}

	var where []string
	var params []any

	if f.RootKind != "" {
		where = append(where, "root_kind = ?")
		params = append(params, f.RootKind)
	}
	if f.MinVersionSum > 0 {
		where = append(where, "version_sum >= ?")
		params = append(params, int64(f.MinVersionSum))
	}

	var b strings.Builder
	b.WriteString(selectTransmission)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY seq ASC, id COLLATE BINARY ASC")
	if f.Limit > 0 {
		b.WriteString(" LIMIT ?")
		params = append(params, f.Limit)
	}

	return b.String(), params, nil
}

// ListTransmissions returns archived transmissions matching f in insertion order.
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ListTransmissions(ctx context.Context, f Filter) ([]Transmission, error) {
	query, params, err := f.compile()
	if err != nil {
		return nil, fmt.Errorf("list transmissions: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query transmissions: %w", err)
	}
	defer rows.Close()

	transmissions := []Transmission{}
	for rows.Next() {
		tr, err := scanTransmission(rows)
		if err != nil {
			return nil, err
		}
		transmissions = append(transmissions, tr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transmissions: %w", err)
	}

	return transmissions, nil
}
