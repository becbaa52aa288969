package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/roach88/bits/internal/eval"
	"github.com/roach88/bits/internal/packet"
)

// RootKindLiteral is the root_kind recorded for a bare literal transmission.
const RootKindLiteral = "literal"

// Transmission is one archived, decoded transmission.
//
// Value is nil when evaluation failed; EvalError then holds the error code.
// Tree is the canonical JSON of the packet tree and TreeHash its hash.
type Transmission struct {
	ID          string  `json:"id"`
	Seq         int64   `json:"seq"`
	Input       string  `json:"input"`
	BitLength   int     `json:"bit_length"`
	TreeHash    string  `json:"tree_hash"`
	RootKind    string  `json:"root_kind"`
	PacketCount int     `json:"packet_count"`
	Depth       int     `json:"depth"`
	VersionSum  uint64  `json:"version_sum"`
	Value       *uint64 `json:"value,omitempty"`
	EvalError   string  `json:"eval_error,omitempty"`
	Tree        string  `json:"tree"`
}

// BuildTransmission derives the archive record for a decoded tree.
// ID and Seq are assigned by WriteTransmission.
func BuildTransmission(input string, bitLength int, p packet.Packet) (Transmission, error) {
	tree, err := packet.MarshalCanonical(p)
	if err != nil {
		return Transmission{}, fmt.Errorf("build transmission: %w", err)
	}
	hash, err := packet.Hash(p)
	if err != nil {
		return Transmission{}, fmt.Errorf("build transmission: %w", err)
	}

	stats := packet.Stats(p)
	tr := Transmission{
		Input:       input,
		BitLength:   bitLength,
		TreeHash:    hash,
		RootKind:    rootKind(p),
		PacketCount: stats.Packets,
		Depth:       stats.Depth,
		VersionSum:  eval.SumVersions(p),
		Tree:        string(tree),
	}

	value, err := eval.Evaluate(p)
	if err != nil {
		var ee *eval.Error
		if !errors.As(err, &ee) {
			return Transmission{}, fmt.Errorf("build transmission: %w", err)
		}
		tr.EvalError = string(ee.Code)
		return tr, nil
	}
	tr.Value = &value
	return tr, nil
}

func rootKind(p packet.Packet) string {
	if op, ok := p.Payload.(packet.Operator); ok {
		return op.Kind.String()
	}
	return RootKindLiteral
}

// WriteTransmission archives tr and returns the stored record.
//
// Writes are idempotent per tree hash: if a transmission with the same tree
// is already archived, the existing record is returned with inserted=false.
// New records get the next seq and, when tr.ID is empty, a generated id.
func (s *Store) WriteTransmission(ctx context.Context, tr Transmission) (stored Transmission, inserted bool, err error) {
	if tr.TreeHash == "" {
		return Transmission{}, false, fmt.Errorf("write transmission: tree hash is required")
	}
	if (tr.Value == nil) == (tr.EvalError == "") {
		return Transmission{}, false, fmt.Errorf("write transmission: exactly one of value or eval error is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Transmission{}, false, fmt.Errorf("write transmission: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	existing, err := scanTransmission(tx.QueryRowContext(ctx,
		selectTransmission+" WHERE tree_hash = ?", tr.TreeHash))
	if err == nil {
		s.logger.Debug("transmission already archived", "id", existing.ID, "tree_hash", existing.TreeHash)
		return existing, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Transmission{}, false, fmt.Errorf("write transmission: lookup: %w", err)
	}

	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(seq), 0) + 1 FROM transmissions").Scan(&tr.Seq); err != nil {
		return Transmission{}, false, fmt.Errorf("write transmission: next seq: %w", err)
	}
	if tr.ID == "" {
		tr.ID = s.ids.Generate()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO transmissions
		(id, seq, input, bit_length, tree_hash, root_kind, packet_count, depth, version_sum, value, eval_error, tree)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		tr.ID,
		tr.Seq,
		tr.Input,
		tr.BitLength,
		tr.TreeHash,
		tr.RootKind,
		tr.PacketCount,
		tr.Depth,
		int64(tr.VersionSum),
		nullableValue(tr.Value),
		nullableString(tr.EvalError),
		tr.Tree,
	)
	if err != nil {
		return Transmission{}, false, fmt.Errorf("write transmission: insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Transmission{}, false, fmt.Errorf("write transmission: commit: %w", err)
	}

	s.logger.Info("transmission archived", "id", tr.ID, "seq", tr.Seq, "root_kind", tr.RootKind)
	return tr, true, nil
}

// Values above MaxInt64 do not fit SQLite INTEGER, so value is stored as decimal text.
func nullableValue(v *uint64) any {
	if v == nil {
		return nil
	}
	return strconv.FormatUint(*v, 10)
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
