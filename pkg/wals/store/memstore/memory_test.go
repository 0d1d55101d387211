package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cognicore/wals/pkg/wals/internalerr"
	"github.com/cognicore/wals/pkg/wals/store"
)

func sample(id string, kind store.Kind) store.Report {
	return store.Report{
		ID:        id,
		Kind:      kind,
		Subject:   "EUROPE",
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Meta:      map[string]string{"scoring": "wilson"},
		Rows: []store.Row{
			{Key: "ger", Label: "German", Value: 0.71, Matches: 40, Total: 50},
			{Key: "fra", Label: "French", Value: 0.52, Matches: 30, Total: 50},
		},
	}
}

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := New()
	defer s.Close()

	r := sample("01A", store.KindDistance)
	if err := s.SaveReport(ctx, r); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	got, ok, err := s.GetReport(ctx, "01A")
	if err != nil || !ok {
		t.Fatalf("GetReport: %v %v", ok, err)
	}
	if got.Subject != "EUROPE" || len(got.Rows) != 2 || got.Rows[0].Key != "ger" || got.Meta["scoring"] != "wilson" {
		t.Errorf("unexpected report: %+v", got)
	}

	// Mutating the caller's copy must not leak into the store.
	r.Rows[0].Key = "xxx"
	r.Meta["scoring"] = "ratio"
	got, _, _ = s.GetReport(ctx, "01A")
	if got.Rows[0].Key != "ger" || got.Meta["scoring"] != "wilson" {
		t.Error("store shares memory with caller")
	}

	if _, ok, err := s.GetReport(ctx, "missing"); ok || err != nil {
		t.Errorf("missing report: ok=%v err=%v", ok, err)
	}
}

func TestSaveRequiresID(t *testing.T) {
	err := New().SaveReport(context.Background(), store.Report{Kind: store.KindProfile})
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestListReports(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, r := range []store.Report{
		sample("01A", store.KindDistance),
		sample("01C", store.KindProfile),
		sample("01B", store.KindDistance),
	} {
		if err := s.SaveReport(ctx, r); err != nil {
			t.Fatalf("SaveReport: %v", err)
		}
	}

	all, err := s.ListReports(ctx, "", 0)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(all) != 3 || all[0].ID != "01C" || all[2].ID != "01A" {
		t.Errorf("expected newest first, got %v", ids(all))
	}

	dist, _ := s.ListReports(ctx, store.KindDistance, 1)
	if len(dist) != 1 || dist[0].ID != "01B" {
		t.Errorf("expected latest distance report, got %v", ids(dist))
	}
}

func ids(rs []store.Report) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}
