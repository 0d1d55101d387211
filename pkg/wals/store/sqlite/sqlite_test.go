package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/cognicore/wals/pkg/wals/internalerr"
	"github.com/cognicore/wals/pkg/wals/store"
)

func openTemp(t *testing.T) (store.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reports.db")
	st, err := OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st, path
}

func report(id string, kind store.Kind, subject string) store.Report {
	return store.Report{
		ID:        id,
		Kind:      kind,
		Subject:   subject,
		CreatedAt: time.Date(2024, 3, 1, 12, 30, 0, 123, time.UTC),
		Meta:      map[string]string{"scoring": "wilson", "classifier": "tree"},
		Rows: []store.Row{
			{Key: "eng", Label: "English", Value: 1, Matches: 140, Total: 140},
			{Key: "ger", Label: "German", Value: 0.62, Matches: 80, Total: 120},
			{Key: "jpn", Label: "Japanese", Value: 0.21, Matches: 30, Total: 110},
		},
	}
}

// TestSchemaCreationIdempotent tests that running initSchema multiple times is safe
func TestSchemaCreationIdempotent(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Open database: %v", err)
	}
	defer db.Close()

	for i := 0; i < 3; i++ {
		if err := initSchema(ctx, db); err != nil {
			t.Fatalf("initSchema iteration %d: %v", i, err)
		}
	}

	var count int
	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'").Scan(&count)
	if err != nil {
		t.Fatalf("Count tables: %v", err)
	}
	if count != 2 { // reports, report_rows
		t.Errorf("Expected 2 tables, got %d", count)
	}
}

func TestSaveAndGetReport(t *testing.T) {
	ctx := context.Background()
	st, _ := openTemp(t)

	want := report("01HZX0000000000000000000AA", store.KindDistance, "eng")
	if err := st.SaveReport(ctx, want); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	got, ok, err := st.GetReport(ctx, want.ID)
	if err != nil || !ok {
		t.Fatalf("GetReport: ok=%v err=%v", ok, err)
	}
	if got.Kind != store.KindDistance || got.Subject != "eng" {
		t.Errorf("header mismatch: %+v", got)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, want.CreatedAt)
	}
	if got.Meta["classifier"] != "tree" || got.Meta["scoring"] != "wilson" {
		t.Errorf("Meta = %v", got.Meta)
	}
	if len(got.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got.Rows))
	}
	for i := range want.Rows {
		if got.Rows[i] != want.Rows[i] {
			t.Errorf("row %d = %+v, want %+v", i, got.Rows[i], want.Rows[i])
		}
	}

	if _, ok, err := st.GetReport(ctx, "nope"); ok || err != nil {
		t.Errorf("missing report: ok=%v err=%v", ok, err)
	}
}

func TestSaveReplacesRows(t *testing.T) {
	ctx := context.Background()
	st, _ := openTemp(t)

	r := report("01HZX0000000000000000000AA", store.KindProfile, "EUROPE")
	if err := st.SaveReport(ctx, r); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	r.Rows = r.Rows[:1]
	if err := st.SaveReport(ctx, r); err != nil {
		t.Fatalf("SaveReport again: %v", err)
	}

	got, _, err := st.GetReport(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if len(got.Rows) != 1 {
		t.Errorf("expected rows to be replaced, got %d", len(got.Rows))
	}
}

func TestSaveRequiresID(t *testing.T) {
	st, _ := openTemp(t)
	err := st.SaveReport(context.Background(), store.Report{Kind: store.KindProfile})
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestListReportsNewestFirst(t *testing.T) {
	ctx := context.Background()
	st, _ := openTemp(t)

	for _, r := range []store.Report{
		report("01HZX0000000000000000000AA", store.KindDistance, "eng"),
		report("01HZX0000000000000000000CC", store.KindTypicality, "EUROPE"),
		report("01HZX0000000000000000000BB", store.KindDistance, "ger"),
	} {
		if err := st.SaveReport(ctx, r); err != nil {
			t.Fatalf("SaveReport: %v", err)
		}
	}

	all, err := st.ListReports(ctx, "", 0)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(all) != 3 || all[0].Subject != "EUROPE" || all[2].Subject != "eng" {
		t.Errorf("unexpected order: %+v", all)
	}
	if len(all[0].Rows) != 3 {
		t.Errorf("rows not loaded for listed report")
	}

	dist, err := st.ListReports(ctx, store.KindDistance, 5)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(dist) != 2 || dist[0].Subject != "ger" {
		t.Errorf("unexpected distance reports: %+v", dist)
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reports.db")

	st, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := st.SaveReport(ctx, report("01HZX0000000000000000000AA", store.KindDistance, "eng")); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	st.Close()

	st, err = OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st.Close()

	if _, ok, err := st.GetReport(ctx, "01HZX0000000000000000000AA"); !ok || err != nil {
		t.Fatalf("report lost after reopen: ok=%v err=%v", ok, err)
	}
}
