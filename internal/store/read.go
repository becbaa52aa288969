package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
)

const selectTransmission = `
	SELECT id, seq, input, bit_length, tree_hash, root_kind, packet_count, depth, version_sum, value, eval_error, tree
	FROM transmissions`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// ReadTransmission retrieves a transmission by tree hash.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadTransmission(ctx context.Context, treeHash string) (Transmission, error) {
	return scanTransmission(s.db.QueryRowContext(ctx,
		selectTransmission+" WHERE tree_hash = ?", treeHash))
}

// Count returns the number of archived transmissions.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transmissions").Scan(&n); err != nil {
		return 0, fmt.Errorf("count transmissions: %w", err)
	}
	return n, nil
}

func scanTransmission(row rowScanner) (Transmission, error) {
	var (
		tr         Transmission
		versionSum int64
		value      sql.NullString
		evalError  sql.NullString
	)
	err := row.Scan(
		&tr.ID,
		&tr.Seq,
		&tr.Input,
		&tr.BitLength,
		&tr.TreeHash,
		&tr.RootKind,
		&tr.PacketCount,
		&tr.Depth,
		&versionSum,
		&value,
		&evalError,
		&tr.Tree,
	)
	if err != nil {
		// Pass sql.ErrNoRows through unwrapped so callers can compare directly
		if err == sql.ErrNoRows {
			return Transmission{}, err
		}
		return Transmission{}, fmt.Errorf("scan transmission: %w", err)
	}

	tr.VersionSum = uint64(versionSum)
	if value.Valid {
		v, err := strconv.ParseUint(value.String, 10, 64)
		if err != nil {
			return Transmission{}, fmt.Errorf("scan transmission %s: value: %w", tr.ID, err)
		}
		tr.Value = &v
	}
	tr.EvalError = evalError.String
	return tr, nil
}
