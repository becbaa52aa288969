package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/roach88/bits/internal/packet"
)

func TestWriteTransmission_AssignsIDAndSeq(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, WithIDGenerator(NewFixedGenerator("tx-1", "tx-2")))

	first, inserted, err := s.WriteTransmission(ctx, buildFromHex(t, "D2FE28"))
	if err != nil {
		t.Fatalf("WriteTransmission() failed: %v", err)
	}
	if !inserted {
		t.Error("first write should insert")
	}
	if first.ID != "tx-1" || first.Seq != 1 {
		t.Errorf("got id=%q seq=%d, want tx-1/1", first.ID, first.Seq)
	}

	second, _, err := s.WriteTransmission(ctx, buildFromHex(t, "EE00D40C823060"))
	if err != nil {
		t.Fatalf("WriteTransmission() failed: %v", err)
	}
	if second.ID != "tx-2" || second.Seq != 2 {
		t.Errorf("got id=%q seq=%d, want tx-2/2", second.ID, second.Seq)
	}
}

func TestWriteTransmission_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	tr := buildFromHex(t, "C200B40A82")

	first, inserted, err := s.WriteTransmission(ctx, tr)
	if err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	if !inserted {
		t.Error("first write should insert")
	}

	again, inserted, err := s.WriteTransmission(ctx, tr)
	if err != nil {
		t.Fatalf("second write failed: %v", err)
	}
	if inserted {
		t.Error("second write should not insert")
	}
	if again.ID != first.ID || again.Seq != first.Seq {
		t.Errorf("second write returned %s/%d, want %s/%d", again.ID, again.Seq, first.ID, first.Seq)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}

func TestWriteTransmission_GeneratesUUIDv7(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	tr, _, err := s.WriteTransmission(ctx, buildFromHex(t, "D2FE28"))
	if err != nil {
		t.Fatal(err)
	}
	if len(tr.ID) != 36 {
		t.Errorf("ID = %q, want a 36-character UUID", tr.ID)
	}
	if tr.ID[14] != '7' {
		t.Errorf("ID = %q, want version 7", tr.ID)
	}
}

func TestWriteTransmission_RejectsIncompleteRecords(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	noHash := buildFromHex(t, "D2FE28")
	noHash.TreeHash = ""
	if _, _, err := s.WriteTransmission(ctx, noHash); err == nil {
		t.Error("write without tree hash should fail")
	}

	noOutcome := buildFromHex(t, "D2FE28")
	noOutcome.Value = nil
	if _, _, err := s.WriteTransmission(ctx, noOutcome); err == nil {
		t.Error("write without value or eval error should fail")
	}
}

func TestReadTransmission_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	p := packet.NewLiteral(3, ^uint64(0))
	bits, err := packet.Encode(p)
	if err != nil {
		t.Fatal(err)
	}
	tr, err := BuildTransmission(bits, len(bits), p)
	if err != nil {
		t.Fatal(err)
	}
	written, _, err := s.WriteTransmission(ctx, tr)
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.ReadTransmission(ctx, tr.TreeHash)
	if err != nil {
		t.Fatalf("ReadTransmission() failed: %v", err)
	}
	if got.ID != written.ID || got.Tree != tr.Tree || got.VersionSum != 3 {
		t.Errorf("read %+v, want %+v", got, written)
	}
	if got.Value == nil || *got.Value != ^uint64(0) {
		t.Errorf("Value = %v, want max uint64", got.Value)
	}
}

func TestReadTransmission_EvalError(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	tr := buildFromHex(t, "D2FE28")
	tr.Value = nil
	tr.EvalError = "OVERFLOW"
	if _, _, err := s.WriteTransmission(ctx, tr); err != nil {
		t.Fatal(err)
	}

	got, err := s.ReadTransmission(ctx, tr.TreeHash)
	if err != nil {
		t.Fatal(err)
	}
	if got.Value != nil || got.EvalError != "OVERFLOW" {
		t.Errorf("got value=%v eval_error=%q", got.Value, got.EvalError)
	}
}

func TestReadTransmission_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadTransmission(context.Background(), "missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}
