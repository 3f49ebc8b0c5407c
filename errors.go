package rdfstore

import "errors"

// Sentinel errors returned by Store methods. Underlying causes are wrapped, so
// callers classify with errors.Is.
var (
	// ErrNullArgument indicates a missing required argument.
	ErrNullArgument = errors.New("rdfstore: null argument")

	// ErrInvalidEncoding indicates text that is not valid UTF-8 or contains a
	// zero byte.
	ErrInvalidEncoding = errors.New("rdfstore: invalid text encoding")

	// ErrTermParse indicates text that cannot be classified into a term for
	// its position.
	ErrTermParse = errors.New("rdfstore: term parse failure")

	// ErrQueryParse indicates query text outside the supported SPARQL grammar.
	ErrQueryParse = errors.New("rdfstore: query parse failure")

	// ErrQueryEvaluation indicates a failure while executing a parsed query.
	ErrQueryEvaluation = errors.New("rdfstore: query evaluation failure")

	// ErrEngine indicates a failure reported by the storage engine.
	ErrEngine = errors.New("rdfstore: engine failure")

	// ErrTurtleParse indicates Turtle input that could not be loaded.
	ErrTurtleParse = errors.New("rdfstore: turtle parse failure")

	// ErrDump indicates a failure while serializing the store.
	ErrDump = errors.New("rdfstore: dump failure")

	// ErrClosed indicates use of a store after Close.
	ErrClosed = errors.New("rdfstore: store closed")
)
