package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/codemix/pkg/codemix/internalerr"
	"github.com/cognicore/codemix/pkg/codemix/store"
)

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Utterance and perplexity rows cascade with their report
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
	corpus TEXT NOT NULL,
	tagset TEXT,
	created_at TEXT NOT NULL,
	utterances INTEGER NOT NULL DEFAULT 0,
	mixed INTEGER NOT NULL DEFAULT 0,
	non_mixed INTEGER NOT NULL DEFAULT 0,
	cu_total REAL NOT NULL DEFAULT 0,
	switches INTEGER NOT NULL DEFAULT 0,
	inter_switches INTEGER NOT NULL DEFAULT 0,
	warnings INTEGER NOT NULL DEFAULT 0,
	cc REAL NOT NULL DEFAULT 0,
	buckets_json TEXT,
	tags_json TEXT
);

CREATE INDEX IF NOT EXISTS idx_reports_corpus ON reports(corpus, created_at);

CREATE TABLE IF NOT EXISTS report_perplexity (
	report_id TEXT NOT NULL,
	model TEXT NOT NULL,
	value REAL NOT NULL,
	PRIMARY KEY(report_id, model),
	FOREIGN KEY(report_id) REFERENCES reports(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS utterances (
	report_id TEXT NOT NULL,
	idx INTEGER NOT NULL,
	cu REAL NOT NULL,
	switches INTEGER NOT NULL,
	delta INTEGER NOT NULL,
	matrix TEXT NOT NULL,
	warnings INTEGER NOT NULL,
	PRIMARY KEY(report_id, idx),
	FOREIGN KEY(report_id) REFERENCES reports(id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveReport upserts the report row and replaces its perplexity values.
func (s *sqliteStore) SaveReport(ctx context.Context, r store.Report) error {
	if r.ID == "" {
		return fmt.Errorf("%w: report without id", internalerr.ErrInvalidInput)
	}
	bucketsJSON, err := json.Marshal(r.Stats.Buckets)
	if err != nil {
		return err
	}
	tagsJSON, err := json.Marshal(r.Stats.TagTotals)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	st := r.Stats
	_, err = tx.ExecContext(ctx, `
INSERT INTO reports(id, kind, corpus, tagset, created_at, utterances, mixed, non_mixed,
	cu_total, switches, inter_switches, warnings, cc, buckets_json, tags_json)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	kind=excluded.kind,
	corpus=excluded.corpus,
	tagset=excluded.tagset,
	created_at=excluded.created_at,
	utterances=excluded.utterances,
	mixed=excluded.mixed,
	non_mixed=excluded.non_mixed,
	cu_total=excluded.cu_total,
	switches=excluded.switches,
	inter_switches=excluded.inter_switches,
	warnings=excluded.warnings,
	cc=excluded.cc,
	buckets_json=excluded.buckets_json,
	tags_json=excluded.tags_json
`,
		r.ID, r.Kind, r.Corpus, r.Tagset, r.CreatedAt.UTC().Format(timeLayout),
		st.Utterances, st.Mixed, st.NonMixed, st.CuTotal, st.Switches, st.InterSwitches,
		st.Warnings, st.Cc, string(bucketsJSON), string(tagsJSON),
	)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM report_perplexity WHERE report_id = ?`, r.ID); err != nil {
		return err
	}
	for model, v := range r.Perplexity {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO report_perplexity(report_id, model, value) VALUES(?, ?, ?)`,
			r.ID, model, v); err != nil {
			return err
		}
	}
	return tx.Commit()
}

const reportColumns = `id, kind, corpus, COALESCE(tagset, ''), created_at, utterances, mixed,
	non_mixed, cu_total, switches, inter_switches, warnings, cc,
	COALESCE(buckets_json, ''), COALESCE(tags_json, '')`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(sc rowScanner) (store.Report, error) {
	var (
		r                   store.Report
		created             string
		bucketsJSON, tagsJS string
	)
	st := &r.Stats
	if err := sc.Scan(&r.ID, &r.Kind, &r.Corpus, &r.Tagset, &created, &st.Utterances,
		&st.Mixed, &st.NonMixed, &st.CuTotal, &st.Switches, &st.InterSwitches,
		&st.Warnings, &st.Cc, &bucketsJSON, &tagsJS); err != nil {
		return store.Report{}, err
	}
	if parsed, perr := time.Parse(timeLayout, created); perr == nil {
		r.CreatedAt = parsed
	}
	st.Tagset = r.Tagset
	if bucketsJSON != "" {
		if err := json.Unmarshal([]byte(bucketsJSON), &st.Buckets); err != nil {
			return store.Report{}, err
		}
	}
	if tagsJS != "" {
		if err := json.Unmarshal([]byte(tagsJS), &st.TagTotals); err != nil {
			return store.Report{}, err
		}
	}
	return r, nil
}

// GetReport loads a report and its perplexity values.
func (s *sqliteStore) GetReport(ctx context.Context, id string) (store.Report, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = ?`, id)
	r, err := scanReport(row)
	if err == sql.ErrNoRows {
		return store.Report{}, fmt.Errorf("report %q: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Report{}, err
	}
	if r.Perplexity, err = s.loadPerplexity(ctx, id); err != nil {
		return store.Report{}, err
	}
	return r, nil
}

// ListReports returns the newest reports first. An empty corpus lists all.
func (s *sqliteStore) ListReports(ctx context.Context, corpus string, limit int) ([]store.Report, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT `+reportColumns+`
FROM reports
WHERE ? = '' OR corpus = ?
ORDER BY created_at DESC, id DESC
LIMIT ?
`, corpus, corpus, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range out {
		if out[i].Perplexity, err = s.loadPerplexity(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *sqliteStore) loadPerplexity(ctx context.Context, id string) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT model, value FROM report_perplexity WHERE report_id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out map[string]float64
	for rows.Next() {
		var model string
		var v float64
		if err := rows.Scan(&model, &v); err != nil {
			return nil, err
		}
		if out == nil {
			out = make(map[string]float64)
		}
		out[model] = v
	}
	return out, rows.Err()
}

func (s *sqliteStore) reportExists(ctx context.Context, q interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
}, id string) error {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM reports WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return fmt.Errorf("report %q: %w", id, internalerr.ErrNotFound)
	}
	return err
}

// SaveUtterances replaces the utterance rows of an existing report.
func (s *sqliteStore) SaveUtterances(ctx context.Context, reportID string, rows []store.UtteranceRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.reportExists(ctx, tx, reportID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM utterances WHERE report_id = ?`, reportID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO utterances(report_id, idx, cu, switches, delta, matrix, warnings)
VALUES(?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, u := range rows {
		if _, err := stmt.ExecContext(ctx, reportID, u.Index, u.Cu, u.Switches, u.Delta, u.Matrix, u.Warnings); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Utterances returns the rows of a report ordered by index.
func (s *sqliteStore) Utterances(ctx context.Context, reportID string) ([]store.UtteranceRow, error) {
	if err := s.reportExists(ctx, s.db, reportID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT idx, cu, switches, delta, matrix, warnings
FROM utterances
WHERE report_id = ?
ORDER BY idx`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.UtteranceRow
	for rows.Next() {
		var u store.UtteranceRow
		if err := rows.Scan(&u.Index, &u.Cu, &u.Switches, &u.Delta, &u.Matrix, &u.Warnings); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
