package vocabstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"corpusprep/internal/jobs"
	"corpusprep/internal/vocab"
)

const jobName = "vocabstore"

// Store persists vocabularies in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Run describes one stored vocabulary build.
type Run struct {
	RunID      string
	CorpusPath string
	MaxSize    int
	VocabSize  int
	CreatedAt  time.Time
}

// Open creates or connects to the database at path and prepares the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, jobs.Invalid(jobName, "sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, jobs.Wrap(jobs.ErrIO, jobName, "open", "create database directory", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, jobs.Wrap(jobs.ErrIO, jobName, "open", "open sqlite db", err)
	}
	// A single connection keeps the foreign_keys pragma in effect for every statement.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, jobs.Wrap(jobs.ErrIO, jobName, "open", fmt.Sprintf("apply pragma %q", pragma), execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, jobs.Wrap(jobs.ErrIO, jobName, "schema", path, err)
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveVocabulary records v under runID in a single transaction. Saving the
// same runID twice fails.
func (s *Store) SaveVocabulary(ctx context.Context, runID, corpusPath string, maxSize int, v *vocab.Vocabulary) error {
	if strings.TrimSpace(runID) == "" {
		return jobs.Invalid(jobName, "run id is required")
	}
	if v == nil {
		return jobs.Invalid(jobName, "vocabulary is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return jobs.Wrap(jobs.ErrIO, jobName, "save", "begin tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	entries := v.Entries()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, corpus_path, max_size, vocab_size, created_at) VALUES (?, ?, ?, ?, ?)`,
		runID, corpusPath, maxSize, len(entries), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return jobs.Wrap(jobs.ErrIO, jobName, "save", "insert run "+runID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO vocabulary (run_id, id, term, frequency, column_index) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return jobs.Wrap(jobs.ErrIO, jobName, "save", "prepare insert", err)
	}
	defer stmt.Close()

	for column, e := range entries {
		if _, err := stmt.ExecContext(ctx, runID, e.ID, e.Term, e.Frequency, column); err != nil {
			return jobs.Wrap(jobs.ErrIO, jobName, "save", "insert term "+e.Term, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return jobs.Wrap(jobs.ErrIO, jobName, "save", "commit", err)
	}
	return nil
}

// LoadVocabulary reads the vocabulary stored for runID.
func (s *Store) LoadVocabulary(ctx context.Context, runID string) (*vocab.Vocabulary, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, term, frequency FROM vocabulary WHERE run_id = ? ORDER BY column_index`, runID)
	if err != nil {
		return nil, jobs.Wrap(jobs.ErrIO, jobName, "load", "query vocabulary", err)
	}
	defer rows.Close()

	var entries []vocab.Entry
	for rows.Next() {
		var e vocab.Entry
		if err := rows.Scan(&e.ID, &e.Term, &e.Frequency); err != nil {
			return nil, jobs.Wrap(jobs.ErrIO, jobName, "load", "scan vocabulary", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, jobs.Wrap(jobs.ErrIO, jobName, "load", "iterate vocabulary", err)
	}
	v, err := vocab.FromEntries(entries)
	if err != nil {
		return nil, jobs.Wrap(jobs.ErrInvariant, jobName, "load", "stored vocabulary for "+runID, err)
	}
	return v, nil
}

// GetRun returns the run row for runID.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT run_id, corpus_path, max_size, vocab_size, created_at FROM runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, jobs.Wrap(jobs.ErrNotFound, jobName, "load", "run "+runID, nil)
	}
	if err != nil {
		return nil, jobs.Wrap(jobs.ErrIO, jobName, "load", "run "+runID, err)
	}
	return run, nil
}

// LatestRunID returns the most recently saved run id.
func (s *Store) LatestRunID(ctx context.Context) (string, error) {
	var runID string
	err := s.db.QueryRowContext(ctx,
		`SELECT run_id FROM runs ORDER BY created_at DESC, rowid DESC LIMIT 1`).Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", jobs.Wrap(jobs.ErrNotFound, jobName, "latest", "no runs recorded", nil)
	}
	if err != nil {
		return "", jobs.Wrap(jobs.ErrIO, jobName, "latest", "query runs", err)
	}
	return runID, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run       Run
		createdAt string
	)
	if err := row.Scan(&run.RunID, &run.CorpusPath, &run.MaxSize, &run.VocabSize, &createdAt); err != nil {
		return nil, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	run.CreatedAt = parsed
	return &run, nil
}
