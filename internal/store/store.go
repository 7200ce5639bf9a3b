// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/verte-zerg/tuiread/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

var (
	// ErrNotFound is returned when a document lookup matches nothing.
	ErrNotFound = errors.New("document not found")
	// ErrAmbiguous is returned when an ID prefix matches several documents.
	ErrAmbiguous = errors.New("document id prefix is ambiguous")
)

// timeLayout keeps stored timestamps fixed-width so they sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// minPrefix is the shortest ID prefix accepted by GetDocument.
const minPrefix = 4

// Store wraps SQLite access for documents, settings, and reading sessions.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			lang TEXT NOT NULL,
			content TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS reading_sessions (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			lang TEXT NOT NULL,
			wpm INTEGER NOT NULL,
			chunk_size INTEGER NOT NULL,
			words_read INTEGER NOT NULL,
			total_words INTEGER NOT NULL,
			completed INTEGER NOT NULL,
			document_id TEXT NOT NULL,
			source_path TEXT NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_reading_sessions_ended_at ON reading_sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_updated_at ON documents(updated_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveDocument inserts or updates a document. An empty ID gets a fresh UUID.
func (s *Store) SaveDocument(ctx context.Context, doc model.Document) (model.Document, error) {
	now := s.now().UTC()
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, title, lang, content, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			lang = excluded.lang,
			content = excluded.content,
			position = excluded.position,
			updated_at = excluded.updated_at`,
		doc.ID,
		doc.Title,
		doc.Lang,
		doc.Content,
		doc.Position,
		doc.CreatedAt.UTC().Format(timeLayout),
		doc.UpdatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return model.Document{}, err
	}
	return doc, nil
}

// GetDocument returns the document with the given ID or unique ID prefix.
func (s *Store) GetDocument(ctx context.Context, id string) (model.Document, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Document{}, ErrNotFound
	}
	row := s.db.QueryRowContext(ctx, `SELECT id, title, lang, content, position, created_at, updated_at
		FROM documents WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Document{}, err
	}
	if len(id) < minPrefix {
		return model.Document{}, ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, title, lang, content, position, created_at, updated_at
		FROM documents WHERE substr(id, 1, ?) = ? LIMIT 2`, len(id), id)
	if err != nil {
		return model.Document{}, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	var matches []model.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return model.Document{}, err
		}
		matches = append(matches, doc)
	}
	if err := rows.Err(); err != nil {
		return model.Document{}, err
	}
	switch len(matches) {
	case 0:
		return model.Document{}, ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return model.Document{}, ErrAmbiguous
	}
}

// ListDocuments returns all documents, most recently updated first. Content is omitted.
func (s *Store) ListDocuments(ctx context.Context) ([]model.Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, lang, '', position, created_at, updated_at
		FROM documents ORDER BY updated_at DESC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var docs []model.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// DeleteDocument removes a document by exact ID.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePosition stores the reading position of a document.
func (s *Store) UpdatePosition(ctx context.Context, id string, position int) error {
	if position < 0 {
		position = 0
	}
	res, err := s.db.ExecContext(ctx, `UPDATE documents SET position = ?, updated_at = ? WHERE id = ?`,
		position, s.now().UTC().Format(timeLayout), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (model.Document, error) {
	var doc model.Document
	var createdAt, updatedAt string
	if err := row.Scan(&doc.ID, &doc.Title, &doc.Lang, &doc.Content, &doc.Position, &createdAt, &updatedAt); err != nil {
		return model.Document{}, err
	}
	var err error
	if doc.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return model.Document{}, err
	}
	if doc.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return model.Document{}, err
	}
	return doc, nil
}

const (
	keyLang       = "lang"
	keyWPM        = "wpm"
	keyChunk      = "chunk"
	keyStartDelay = "start_delay_ms"
	keyMode       = "mode"
)

// GetSettings returns stored settings, using defaults for keys never saved.
func (s *Store) GetSettings(ctx context.Context, defaults model.Settings) (model.Settings, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return defaults, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	out := defaults
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return defaults, err
		}
		switch key {
		case keyLang:
			out.Lang = value
		case keyMode:
			out.Mode = value
		case keyWPM, keyChunk, keyStartDelay:
			n, err := strconv.Atoi(value)
			if err != nil {
				return defaults, fmt.Errorf("invalid stored setting %s=%q: %w", key, value, err)
			}
			switch key {
			case keyWPM:
				out.WPM = n
			case keyChunk:
				out.ChunkSize = n
			default:
				out.StartDelay = time.Duration(n) * time.Millisecond
			}
		}
	}
	if err := rows.Err(); err != nil {
		return defaults, err
	}
	return out, nil
}

// SaveSettings persists every settings field.
func (s *Store) SaveSettings(ctx context.Context, settings model.Settings) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()
	values := [][2]string{
		{keyLang, settings.Lang},
		{keyWPM, strconv.Itoa(settings.WPM)},
		{keyChunk, strconv.Itoa(settings.ChunkSize)},
		{keyStartDelay, strconv.FormatInt(settings.StartDelay.Milliseconds(), 10)},
		{keyMode, settings.Mode},
	}
	for _, kv := range values {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO settings (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, kv[0], kv[1]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// InsertSession stores a finished reading session.
func (s *Store) InsertSession(ctx context.Context, session model.ReadingSession) (int64, error) {
	completed := 0
	if session.Completed {
		completed = 1
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reading_sessions (started_at, ended_at, lang, wpm, chunk_size, words_read, total_words, completed, document_id, source_path, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.StartedAt.UTC().Format(timeLayout),
		session.EndedAt.UTC().Format(timeLayout),
		session.Lang,
		session.WPM,
		session.ChunkSize,
		session.WordsRead,
		session.TotalWords,
		completed,
		session.DocumentID,
		session.SourcePath,
		session.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListSessions returns session aggregates filtered by stats config, oldest first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Lang != "" {
		clauses = append(clauses, "lang = ?")
		args = append(args, cfg.Lang)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	limit := ""
	if cfg.Last > 0 {
		limit = " LIMIT ?"
		args = append(args, cfg.Last)
	}
	query := fmt.Sprintf(`SELECT id, ended_at, lang, wpm, words_read, total_words, completed, duration_ms
		FROM reading_sessions
		WHERE %s
		ORDER BY ended_at DESC, id DESC%s`, strings.Join(clauses, " AND "), limit)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		var completed int
		if err := rows.Scan(&agg.SessionID, &endedAt, &agg.Lang, &agg.WPM, &agg.WordsRead, &agg.TotalWords, &completed, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		agg.Completed = completed != 0
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(sessions)-1; i < j; i, j = i+1, j-1 {
		sessions[i], sessions[j] = sessions[j], sessions[i]
	}
	return sessions, nil
}
