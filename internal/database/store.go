package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/docproof/internal/model"
)

// FileName is the database file name inside the data directory.
const FileName = "docproof.db"

// RunKind tells generate runs from verify runs.
type RunKind string

const (
	KindGenerate RunKind = "generate"
	KindVerify   RunKind = "verify"
)

// timestampLayout is fixed width so that text ordering is chronological.
const timestampLayout = "2006-01-02 15:04:05.000000000"

// Store is the SQLite backed run history.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Options configures Open.
type Options struct {
	// CreateIfNotExists creates the directory and database when missing.
	CreateIfNotExists bool

	// EnableWAL turns on write-ahead logging.
	EnableWAL bool
}

// DefaultOptions returns the options used by the CLI.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens the store in dbDir.
func Open(dbDir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dbDir, FileName)

	mode := "rwc"
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	} else {
		if _, err := os.Stat(dbPath); err != nil {
			return nil, fmt.Errorf("database not found at %s: %w", dbPath, err)
		}
		mode = "rw"
	}

	db, err := sql.Open("sqlite", dbPath+"?mode="+mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		project TEXT NOT NULL,
		kind TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		summary TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_project_kind ON runs(project, kind, timestamp);

	CREATE TABLE IF NOT EXISTS diff_indexes (
		run_id TEXT PRIMARY KEY REFERENCES runs(id),
		index_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS violations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		module TEXT NOT NULL,
		method TEXT NOT NULL,
		check_name TEXT NOT NULL,
		message TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_violations_run ON violations(run_id);
	`
	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// RunMetadata describes a stored run without its payload.
type RunMetadata struct {
	ID        string         `json:"id"`
	Project   string         `json:"project"`
	Kind      RunKind        `json:"kind"`
	Timestamp time.Time      `json:"timestamp"`
	Summary   map[string]int `json:"summary"`
}

// StoredIndex is a diff index together with the run that produced it.
type StoredIndex struct {
	RunMetadata
	Index model.DiffIndex `json:"index"`
}

func (s *Store) insertRun(ctx context.Context, tx *sql.Tx, id, project string, kind RunKind, ts time.Time, summary map[string]int) error {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode run summary: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, project, kind, timestamp, summary) VALUES (?, ?, ?, ?, ?)`,
		id, project, string(kind), ts.UTC().Format(timestampLayout), string(summaryJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// SaveDiffIndex stores the diff index of a generate run.
func (s *Store) SaveDiffIndex(ctx context.Context, project, runID string, ts time.Time, idx model.DiffIndex) error {
	indexJSON, err := json.Marshal(idx)
	if err != nil {
		return fmt.Errorf("failed to encode diff index: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	methods := 0
	for _, d := range idx {
		methods += len(d) - 1
	}
	if err := s.insertRun(ctx, tx, runID, project, KindGenerate, ts, map[string]int{
		"pages":   len(idx),
		"methods": methods,
	}); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO diff_indexes (run_id, index_json) VALUES (?, ?)`, runID, string(indexJSON),
	); err != nil {
		return fmt.Errorf("failed to insert diff index: %w", err)
	}
	return tx.Commit()
}

// SaveVerification stores a verification report and its violations.
func (s *Store) SaveVerification(ctx context.Context, report *model.VerificationReport) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	violations := report.Violations()
	if err := s.insertRun(ctx, tx, report.RunID, report.Project, KindVerify, report.StartedAt, map[string]int{
		"callables":  len(report.Callables),
		"failed":     report.FailedCount(),
		"violations": len(violations),
	}); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO violations (run_id, module, method, check_name, message) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare violation insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range violations {
		if _, err := stmt.ExecContext(ctx, report.RunID, v.Module, v.Method, string(v.Check), v.Message); err != nil {
			return fmt.Errorf("failed to insert violation: %w", err)
		}
	}
	return tx.Commit()
}

// ListRuns returns the runs of project, newest first. An empty kind lists
// every kind.
func (s *Store) ListRuns(ctx context.Context, project string, kind RunKind) ([]RunMetadata, error) {
	query := `SELECT id, project, kind, timestamp, summary FROM runs WHERE project = ?`
	args := []any{project}
	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY timestamp DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunMetadata
	for rows.Next() {
		meta, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, meta)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunMetadata, error) {
	var (
		meta        RunMetadata
		kind        string
		timestamp   string
		summaryJSON sql.NullString
	)
	if err := row.Scan(&meta.ID, &meta.Project, &kind, &timestamp, &summaryJSON); err != nil {
		return meta, fmt.Errorf("failed to scan run: %w", err)
	}
	meta.Kind = RunKind(kind)
	meta.Timestamp = parseTimestamp(timestamp)
	meta.Summary = make(map[string]int)
	if summaryJSON.Valid && summaryJSON.String != "" {
		_ = json.Unmarshal([]byte(summaryJSON.String), &meta.Summary)
	}
	return meta, nil
}

// LatestDiffIndexes returns up to n diff indexes of project, newest first.
func (s *Store) LatestDiffIndexes(ctx context.Context, project string, n int) ([]StoredIndex, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT r.id, r.project, r.kind, r.timestamp, r.summary, d.index_json
	FROM runs r JOIN diff_indexes d ON d.run_id = r.id
	WHERE r.project = ?
	ORDER BY r.timestamp DESC, r.id DESC
	LIMIT ?`, project, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query diff indexes: %w", err)
	}
	defer rows.Close()

	var out []StoredIndex
	for rows.Next() {
		si, err := scanIndex(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, si)
	}
	return out, rows.Err()
}

// DiffIndexByRunID returns the diff index stored for runID.
func (s *Store) DiffIndexByRunID(ctx context.Context, runID string) (*StoredIndex, error) {
	row := s.db.QueryRowContext(ctx, `
	SELECT r.id, r.project, r.kind, r.timestamp, r.summary, d.index_json
	FROM runs r JOIN diff_indexes d ON d.run_id = r.id
	WHERE r.id = ?`, runID)
	si, err := scanIndex(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	if err != nil {
		return nil, err
	}
	return &si, nil
}

func scanIndex(row rowScanner) (StoredIndex, error) {
	var (
		si          StoredIndex
		kind        string
		timestamp   string
		summaryJSON sql.NullString
		indexJSON   string
	)
	if err := row.Scan(&si.ID, &si.Project, &kind, &timestamp, &summaryJSON, &indexJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return si, err
		}
		return si, fmt.Errorf("failed to scan diff index: %w", err)
	}
	si.Kind = RunKind(kind)
	si.Timestamp = parseTimestamp(timestamp)
	si.Summary = make(map[string]int)
	if summaryJSON.Valid {
		_ = json.Unmarshal([]byte(summaryJSON.String), &si.Summary)
	}
	if err := json.Unmarshal([]byte(indexJSON), &si.Index); err != nil {
		return si, fmt.Errorf("failed to parse diff index: %w", err)
	}
	return si, nil
}

// Violations returns the violations stored for a verify run.
func (s *Store) Violations(ctx context.Context, runID string) ([]model.Violation, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT module, method, check_name, message FROM violations
	WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query violations: %w", err)
	}
	defer rows.Close()

	var out []model.Violation
	for rows.Next() {
		var v model.Violation
		var check string
		if err := rows.Scan(&v.Module, &v.Method, &check, &v.Message); err != nil {
			return nil, fmt.Errorf("failed to scan violation: %w", err)
		}
		v.Check = model.Check(check)
		out = append(out, v)
	}
	return out, rows.Err()
}

// ListProjects returns every project with stored runs.
func (s *Store) ListProjects(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT project FROM runs ORDER BY project`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// timestampFormats are tried in order when reading timestamps back.
var timestampFormats = []string{
	timestampLayout,
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
}

// parseTimestamp returns the zero time when no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
