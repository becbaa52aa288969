package store

import (
	"context"
	"math"
	"strings"
	"testing"
)

func seedHistory(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	for _, hex := range []string{"D2FE28", "38006F45291200", "EE00D40C823060", "C200B40A82"} {
		if _, _, err := s.WriteTransmission(ctx, buildFromHex(t, hex)); err != nil {
			t.Fatalf("seed %s: %v", hex, err)
		}
	}
}

func inputs(trs []Transmission) []string {
	out := make([]string, len(trs))
	for i, tr := range trs {
		out[i] = tr.Input
	}
	return out
}

func TestListTransmissions(t *testing.T) {
	s := createTestStore(t)
	seedHistory(t, s)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all in insertion order", Filter{}, []string{"D2FE28", "38006F45291200", "EE00D40C823060", "C200B40A82"}},
		{"by kind", Filter{RootKind: "maximum"}, []string{"EE00D40C823060"}},
		{"literal kind", Filter{RootKind: RootKindLiteral}, []string{"D2FE28"}},
		{"min version sum", Filter{MinVersionSum: 10}, []string{"EE00D40C823060", "C200B40A82"}},
		{"combined", Filter{RootKind: "sum", MinVersionSum: 14}, []string{"C200B40A82"}},
		{"limit", Filter{Limit: 2}, []string{"D2FE28", "38006F45291200"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListTransmissions(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("ListTransmissions() failed: %v", err)
			}
			if strings.Join(inputs(got), ",") != strings.Join(tt.want, ",") {
				t.Errorf("got %v, want %v", inputs(got), tt.want)
			}
		})
	}
}

func TestListTransmissions_EmptyIsNotNil(t *testing.T) {
	s := createTestStore(t)

	got, err := s.ListTransmissions(context.Background(), Filter{RootKind: "product"})
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Error("ListTransmissions() returned nil, want empty slice")
	}
}

func TestFilter_Compile(t *testing.T) {
	query, params, err := Filter{RootKind: "sum", MinVersionSum: 3, Limit: 5}.compile()
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(query, "WHERE root_kind = ? AND version_sum >= ?") {
		t.Errorf("query missing parameterized filters: %s", query)
	}
	if !strings.Contains(query, "ORDER BY seq ASC, id COLLATE BINARY ASC LIMIT ?") {
		t.Errorf("query missing stable order: %s", query)
	}
	if strings.Contains(query, "sum'") {
		t.Errorf("value interpolated into query: %s", query)
	}
	if len(params) != 3 {
		t.Errorf("params = %v, want 3 values", params)
	}

	if _, _, err := (Filter{Limit: -1}).compile(); err == nil {
		t.Error("negative limit should fail")
	}
}

func TestListTransmissions_RejectsMinVersionSumAboveInt64(t *testing.T) {
	s := createTestStore(t)
	seedHistory(t, s)

	got, err := s.ListTransmissions(context.Background(), Filter{MinVersionSum: math.MaxInt64 + 1})
	if err == nil {
		t.Fatalf("expected error, got %d rows", len(got))
	}
	if !strings.Contains(err.Error(), "exceeds") {
		t.Errorf("error = %v, want bound error", err)
	}

	got, err = s.ListTransmissions(context.Background(), Filter{MinVersionSum: math.MaxInt64})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("got %d rows, want none", len(got))
	}
}
