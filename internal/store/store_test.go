package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/roach88/bits/internal/bitstream"
	"github.com/roach88/bits/internal/packet"
)

// createTestStore opens a fresh store in a temp directory.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// buildFromHex decodes hex and builds its archive record.
func buildFromHex(t *testing.T, hex string) Transmission {
	t.Helper()
	p, err := packet.DecodeHex(hex)
	if err != nil {
		t.Fatalf("DecodeHex(%q) failed: %v", hex, err)
	}
	tr, err := BuildTransmission(hex, len(hex)*4, p)
	if err != nil {
		t.Fatalf("BuildTransmission(%q) failed: %v", hex, err)
	}
	return tr
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	var name string
	err = s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='index' AND name=?",
		"idx_transmissions_kind_seq",
	).Scan(&name)
	if err != nil {
		t.Errorf("history index not found after idempotent opens: %v", err)
	}
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	tests := []struct {
		name     string
		expected string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"},
		{"busy_timeout", "5000"},
		{"user_version", "1"},
	}

	for _, tt := range tests {
		if err := s.verifyPragma(tt.name, tt.expected); err != nil {
			t.Error(err)
		}
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "test.db"))
	if err == nil {
		t.Fatal("Open() with missing parent directory should fail")
	}
}

func TestBuildTransmission_Literal(t *testing.T) {
	tr := buildFromHex(t, "D2FE28")

	if tr.RootKind != RootKindLiteral {
		t.Errorf("RootKind = %q, want %q", tr.RootKind, RootKindLiteral)
	}
	if tr.PacketCount != 1 || tr.Depth != 1 {
		t.Errorf("PacketCount, Depth = %d, %d, want 1, 1", tr.PacketCount, tr.Depth)
	}
	if tr.VersionSum != 6 {
		t.Errorf("VersionSum = %d, want 6", tr.VersionSum)
	}
	if tr.Value == nil || *tr.Value != 2021 {
		t.Errorf("Value = %v, want 2021", tr.Value)
	}
	if tr.Tree != `{"literal":2021,"version":6}` {
		t.Errorf("Tree = %s", tr.Tree)
	}
	if tr.BitLength != 24 {
		t.Errorf("BitLength = %d, want 24", tr.BitLength)
	}
}

func TestBuildTransmission_EvalFailure(t *testing.T) {
	p := packet.NewOperator(0, packet.KindSum, packet.FramingCount,
		packet.NewLiteral(0, ^uint64(0)),
		packet.NewLiteral(0, 1),
	)
	bits, err := packet.Encode(p)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}

	tr, err := BuildTransmission(bits, len(bits), p)
	if err != nil {
		t.Fatalf("BuildTransmission() failed: %v", err)
	}
	if tr.Value != nil {
		t.Errorf("Value = %d, want nil", *tr.Value)
	}
	if tr.EvalError != "OVERFLOW" {
		t.Errorf("EvalError = %q, want OVERFLOW", tr.EvalError)
	}
	if tr.RootKind != "sum" {
		t.Errorf("RootKind = %q, want sum", tr.RootKind)
	}
}

func TestBuildTransmission_SharesHashAcrossPadding(t *testing.T) {
	a := buildFromHex(t, "38006F45291200")
	b := buildFromHex(t, "38006F4529120")

	if a.TreeHash != b.TreeHash {
		t.Errorf("tree hashes differ: %s vs %s", a.TreeHash, b.TreeHash)
	}

	bits, err := bitstream.ExpandHex("38006F4529120")
	if err != nil {
		t.Fatal(err)
	}
	if len(bits) != b.BitLength {
		t.Errorf("BitLength = %d, want %d", b.BitLength, len(bits))
	}

	ctx := context.Background()
	s := createTestStore(t)
	if _, _, err := s.WriteTransmission(ctx, a); err != nil {
		t.Fatal(err)
	}
	got, inserted, err := s.WriteTransmission(ctx, b)
	if err != nil {
		t.Fatal(err)
	}
	if inserted {
		t.Error("second write of the same tree should not insert")
	}
	if got.Input != "38006F45291200" {
		t.Errorf("Input = %q, want first archived input", got.Input)
	}
}
