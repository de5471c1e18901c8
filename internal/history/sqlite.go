package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is the transactional history backend for deployments where
// more than one process appends to the same history. Same contract as
// FileStore, without the whole-file read-modify-write race.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens the SQLite database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS topics (
		id TEXT PRIMARY KEY,
		prompt TEXT NOT NULL,
		learning_plan TEXT NOT NULL,
		svg_content TEXT,
		created_at TEXT NOT NULL
	);`)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Load(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, prompt, learning_plan, svg_content, created_at FROM topics ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Append(ctx context.Context, prompt, plan, svg string) (Entry, error) {
	entry := Entry{
		ID:        uuid.New().String(),
		Prompt:    prompt,
		Plan:      plan,
		SVG:       svg,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO topics (id, prompt, learning_plan, svg_content, created_at) VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.Prompt, entry.Plan, entry.SVG, entry.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (Entry, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, prompt, learning_plan, svg_content, created_at FROM topics WHERE id = ?`, id)

	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var e Entry
	var svg sql.NullString
	var created string
	if err := row.Scan(&e.ID, &e.Prompt, &e.Plan, &svg, &created); err != nil {
		return Entry{}, err
	}
	e.SVG = svg.String
	ts, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Entry{}, fmt.Errorf("bad timestamp for entry %s: %w", e.ID, err)
	}
	e.CreatedAt = ts
	return e, nil
}
