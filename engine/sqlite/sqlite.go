// Package sqlite provides a quad engine backed by SQLite.
//
// Each quad is one row keyed by the BLAKE2b-256 digest of its N-Triples
// form, which gives set semantics through INSERT OR IGNORE. Match results
// come back in rowid order, which is insertion order.
package sqlite

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/opd-ai/rdfstore/interfaces"
	"github.com/opd-ai/rdfstore/term"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
)

//go:embed schema.sql
var schemaSQL string

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// ErrInUse is returned by Open when another engine in this process already
// holds the database file.
var ErrInUse = errors.New("sqlite: database already open")

// Database files held by open engines, keyed by absolute path.
var (
	openFiles   = make(map[string]bool)
	openFilesMu sync.Mutex
)

// fileKey returns the key under which path is held, or "" for in-memory
// databases, which are private to each engine.
func fileKey(path string) string {
	if path == MemoryPath || strings.Contains(path, ":memory:") || strings.Contains(path, "mode=memory") {
		return ""
	}
	if strings.HasPrefix(path, "file:") {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func acquireFile(key string) error {
	if key == "" {
		return nil
	}
	openFilesMu.Lock()
	defer openFilesMu.Unlock()
	if openFiles[key] {
		return fmt.Errorf("%w: %s", ErrInUse, key)
	}
	openFiles[key] = true
	return nil
}

func releaseFile(key string) {
	if key == "" {
		return
	}
	openFilesMu.Lock()
	delete(openFiles, key)
	openFilesMu.Unlock()
}

// Engine is a SQLite-backed interfaces.IQuadEngine.
type Engine struct {
	mu     sync.RWMutex
	db     *sql.DB
	path   string
	key    string
	closed bool
}

// Open creates or opens a quad database at path.
//
// The database is configured with:
//   - WAL mode for file databases
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
//
// A single connection is used, so ":memory:" keeps one database for the
// lifetime of the engine. A database file can be held by one engine at a
// time in a process; a second Open of the same file fails with ErrInUse
// until the first engine is closed.
func Open(path string) (*Engine, error) {
	if path == "" {
		path = MemoryPath
	}

	key := fileKey(path)
	if err := acquireFile(key); err != nil {
		return nil, err
	}
	e, err := open(path)
	if err != nil {
		releaseFile(key)
		return nil, err
	}
	e.key = key
	return e, nil
}

func open(path string) (*Engine, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "Open",
		"engine":   "sqlite",
		"path":     path,
	}).Debug("Opened quad database")

	return &Engine{db: db, path: path}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// quadID returns the primary key for q.
func quadID(q term.Quad) []byte {
	sum := blake2b.Sum256([]byte(q.String()))
	return sum[:]
}

// Insert adds q unless a row with the same key exists.
func (e *Engine) Insert(q term.Quad) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return interfaces.ErrEngineClosed
	}
	_, err := e.db.Exec(`
		INSERT OR IGNORE INTO quads (id, s_kind, s_value, p_value, o_kind, o_value, o_datatype, o_lang)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, quadID(q),
		int(q.Subject.Kind()), q.Subject.Value(),
		q.Predicate.Value(),
		int(q.Object.Kind()), q.Object.Value(), q.Object.Datatype(), q.Object.Lang())
	if err != nil {
		return fmt.Errorf("insert quad: %w", err)
	}
	return nil
}

// Contains reports whether q is stored.
func (e *Engine) Contains(q term.Quad) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return false, interfaces.ErrEngineClosed
	}
	var one int
	err := e.db.QueryRow(`SELECT 1 FROM quads WHERE id = ?`, quadID(q)).Scan(&one)
	switch {
	case err == sql.ErrNoRows:
		return false, nil
	case err != nil:
		return false, fmt.Errorf("lookup quad: %w", err)
	}
	return true, nil
}

// Len returns the number of stored quads.
func (e *Engine) Len() (int64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return 0, interfaces.ErrEngineClosed
	}
	var n int64
	if err := e.db.QueryRow(`SELECT COUNT(*) FROM quads`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count quads: %w", err)
	}
	return n, nil
}

// Clear removes every quad.
func (e *Engine) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return interfaces.ErrEngineClosed
	}
	res, err := e.db.Exec(`DELETE FROM quads`)
	if err != nil {
		return fmt.Errorf("clear quads: %w", err)
	}
	removed, _ := res.RowsAffected()
	logrus.WithFields(logrus.Fields{
		"function": "Clear",
		"engine":   "sqlite",
		"removed":  removed,
	}).Debug("Clearing engine")
	return nil
}

// Match returns the quads matching pattern in insertion order.
//
// Rows are read eagerly and the cursor is released before Match returns, so
// callers may issue further engine calls while iterating. A row that cannot
// be decoded ends iteration with its error.
func (e *Engine) Match(pattern interfaces.Pattern) (interfaces.IQuadIterator, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return nil, interfaces.ErrEngineClosed
	}

	query, args := buildMatchQuery(pattern)
	rows, err := e.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quads: %w", err)
	}
	defer rows.Close()

	it := &iterator{}
	for rows.Next() {
		q, err := scanQuad(rows)
		if err != nil {
			it.err = err
			break
		}
		it.quads = append(it.quads, q)
	}
	if it.err == nil {
		if err := rows.Err(); err != nil {
			it.err = fmt.Errorf("iterate quads: %w", err)
		}
	}
	return it, nil
}

func buildMatchQuery(pattern interfaces.Pattern) (string, []any) {
	var (
		where []string
		args  []any
	)
	if t := pattern.Subject; !t.IsZero() {
		where = append(where, "s_kind = ? AND s_value = ?")
		args = append(args, int(t.Kind()), t.Value())
	}
	if t := pattern.Predicate; !t.IsZero() {
		if !t.IsIRI() {
			// No stored predicate can match a non-IRI term.
			where = append(where, "0")
		} else {
			where = append(where, "p_value = ?")
			args = append(args, t.Value())
		}
	}
	if t := pattern.Object; !t.IsZero() {
		where = append(where, "o_kind = ? AND o_value = ? AND o_datatype = ? AND o_lang = ?")
		args = append(args, int(t.Kind()), t.Value(), t.Datatype(), t.Lang())
	}

	var b strings.Builder
	b.WriteString(`SELECT s_kind, s_value, p_value, o_kind, o_value, o_datatype, o_lang FROM quads`)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY rowid ASC")
	return b.String(), args
}

func scanQuad(rows *sql.Rows) (term.Quad, error) {
	var (
		sKind, oKind                       int
		sValue, pValue, oValue, oDT, oLang string
	)
	if err := rows.Scan(&sKind, &sValue, &pValue, &oKind, &oValue, &oDT, &oLang); err != nil {
		return term.Quad{}, fmt.Errorf("scan quad: %w", err)
	}
	s, err := term.FromParts(term.Kind(sKind), sValue, "", "")
	if err != nil {
		return term.Quad{}, fmt.Errorf("decode subject: %w", err)
	}
	p, err := term.NewIRI(pValue)
	if err != nil {
		return term.Quad{}, fmt.Errorf("decode predicate: %w", err)
	}
	o, err := term.FromParts(term.Kind(oKind), oValue, oDT, oLang)
	if err != nil {
		return term.Quad{}, fmt.Errorf("decode object: %w", err)
	}
	return term.NewQuad(s, p, o)
}

// Close closes the database connection. It is safe to call more than once.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	err := e.db.Close()
	releaseFile(e.key)
	logrus.WithFields(logrus.Fields{
		"function": "Close",
		"engine":   "sqlite",
		"path":     e.path,
	}).Debug("Closed quad database")
	return err
}

type iterator struct {
	quads []term.Quad
	pos   int
	cur   term.Quad
	err   error
	done  bool
}

func (it *iterator) Next() bool {
	if it.pos >= len(it.quads) {
		it.done = true
		return false
	}
	it.cur = it.quads[it.pos]
	it.pos++
	return true
}

func (it *iterator) Quad() term.Quad { return it.cur }

func (it *iterator) Err() error {
	if !it.done {
		return nil
	}
	return it.err
}

func (it *iterator) Close() error {
	it.quads = nil
	return nil
}
