package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/wals/pkg/wals/internalerr"
	"github.com/cognicore/wals/pkg/wals/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled and creates the
// report tables if needed.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %v", path, internalerr.ErrStoreUnavailable, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable wal: %w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS reports (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	subject TEXT NOT NULL,
	created_at TEXT NOT NULL,
	meta TEXT
);

CREATE INDEX IF NOT EXISTS idx_reports_kind ON reports(kind, id);

CREATE TABLE IF NOT EXISTS report_rows (
	report_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	key TEXT NOT NULL,
	label TEXT,
	value REAL NOT NULL,
	matches INTEGER NOT NULL,
	total INTEGER NOT NULL,
	PRIMARY KEY(report_id, position),
	FOREIGN KEY(report_id) REFERENCES reports(id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveReport inserts or replaces a report and its rows in one transaction.
func (s *sqliteStore) SaveReport(ctx context.Context, r store.Report) error {
	if r.ID == "" {
		return fmt.Errorf("report without id: %w", internalerr.ErrInvalidInput)
	}
	metaJSON, err := json.Marshal(r.Meta)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO reports (id, kind, subject, created_at, meta)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	kind=excluded.kind,
	subject=excluded.subject,
	created_at=excluded.created_at,
	meta=excluded.meta;
`, r.ID, string(r.Kind), r.Subject, r.CreatedAt.UTC().Format(time.RFC3339Nano), string(metaJSON))
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM report_rows WHERE report_id = ?`, r.ID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO report_rows (report_id, position, key, label, value, matches, total)
VALUES (?, ?, ?, ?, ?, ?, ?);
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, row := range r.Rows {
		if _, err := stmt.ExecContext(ctx, r.ID, i, row.Key, row.Label, row.Value, row.Matches, row.Total); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetReport loads a report with its rows in their saved order.
func (s *sqliteStore) GetReport(ctx context.Context, id string) (store.Report, bool, error) {
	r, err := scanReport(s.db.QueryRowContext(ctx, `
SELECT id, kind, subject, created_at, meta FROM reports WHERE id = ?;
`, id))
	if err == sql.ErrNoRows {
		return store.Report{}, false, nil
	}
	if err != nil {
		return store.Report{}, false, err
	}

	if r.Rows, err = s.loadRows(ctx, id); err != nil {
		return store.Report{}, false, err
	}
	return r, true, nil
}

// ListReports returns reports newest first. ULIDs order by creation time.
func (s *sqliteStore) ListReports(ctx context.Context, kind store.Kind, limit int) ([]store.Report, error) {
	if limit <= 0 {
		limit = store.DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, kind, subject, created_at, meta
FROM reports
WHERE ? = '' OR kind = ?
ORDER BY id DESC
LIMIT ?;
`, string(kind), string(kind), limit)
	if err != nil {
		return nil, err
	}

	var reports []store.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range reports {
		if reports[i].Rows, err = s.loadRows(ctx, reports[i].ID); err != nil {
			return nil, err
		}
	}
	return reports, nil
}

func (s *sqliteStore) loadRows(ctx context.Context, id string) ([]store.Row, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT key, label, value, matches, total
FROM report_rows
WHERE report_id = ?
ORDER BY position;
`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Row
	for rows.Next() {
		var row store.Row
		var label sql.NullString
		if err := rows.Scan(&row.Key, &label, &row.Value, &row.Matches, &row.Total); err != nil {
			return nil, err
		}
		row.Label = label.String
		out = append(out, row)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(sc scanner) (store.Report, error) {
	var r store.Report
	var kind, created string
	var meta sql.NullString
	if err := sc.Scan(&r.ID, &kind, &r.Subject, &created, &meta); err != nil {
		return store.Report{}, err
	}
	r.Kind = store.Kind(kind)

	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return store.Report{}, fmt.Errorf("report %s created_at: %w", r.ID, err)
	}
	r.CreatedAt = t

	if meta.Valid && meta.String != "" && meta.String != "null" {
		if err := json.Unmarshal([]byte(meta.String), &r.Meta); err != nil {
			return store.Report{}, fmt.Errorf("report %s meta: %w", r.ID, err)
		}
	}
	return r, nil
}
