package interfaces

import (
	"errors"

	"github.com/opd-ai/rdfstore/term"
)

// ErrEngineClosed is returned by every engine call after Close.
var ErrEngineClosed = errors.New("engine closed")

// Backend names an engine implementation.
type Backend string

const (
	// BackendMemory keeps quads in process memory.
	BackendMemory Backend = "memory"
	// BackendSQLite keeps quads in a SQLite database.
	BackendSQLite Backend = "sqlite"
)

// IQuadEngine defines the storage operations a store delegates to.
// Insert has set semantics: inserting a quad that is already present
// succeeds and leaves the engine unchanged.
type IQuadEngine interface {
	// Insert adds a quad to the default graph
	Insert(q term.Quad) error

	// Contains reports whether the exact quad is present
	Contains(q term.Quad) (bool, error)

	// Len returns the number of stored quads
	Len() (int64, error)

	// Clear removes every quad
	Clear() error

	// Match returns the quads matching pattern, in insertion order
	Match(pattern Pattern) (IQuadIterator, error)

	// Close releases engine resources; further calls fail
	Close() error
}

// IQuadIterator walks the result of a Match call.
//
//	it, err := engine.Match(interfaces.Pattern{})
//	if err != nil {
//	    return err
//	}
//	defer it.Close()
//	for it.Next() {
//	    use(it.Quad())
//	}
//	return it.Err()
type IQuadIterator interface {
	// Next advances to the next quad and reports whether one is available
	Next() bool

	// Quad returns the current quad
	Quad() term.Quad

	// Err returns the first error met while iterating
	Err() error

	// Close releases iterator resources
	Close() error
}

// Pattern selects quads by position. A zero term matches anything.
type Pattern struct {
	Subject   term.Term
	Predicate term.Term
	Object    term.Term
}

// Matches reports whether q satisfies the pattern.
func (p Pattern) Matches(q term.Quad) bool {
	return (p.Subject.IsZero() || p.Subject == q.Subject) &&
		(p.Predicate.IsZero() || p.Predicate == q.Predicate) &&
		(p.Object.IsZero() || p.Object == q.Object)
}

// EngineConfig holds configuration for engine implementations
type EngineConfig struct {
	// Backend selects the engine implementation
	Backend Backend

	// SQLitePath is the database path for BackendSQLite; ":memory:" keeps it in memory
	SQLitePath string
}
