// Package sparql parses and evaluates a subset of SPARQL 1.1 over a quad
// engine.
//
// Supported:
//   - BASE and PREFIX declarations
//   - SELECT [DISTINCT|REDUCED] with a variable list or '*', ASK, CONSTRUCT and DESCRIBE
//   - basic graph patterns with the '.', ';' and ',' abbreviations and 'a'
//   - FILTER with comparisons, logical and arithmetic operators and the
//     built-ins BOUND, isIRI, isURI, isBlank, isLiteral, STR, LANG, DATATYPE and sameTerm
//   - ORDER BY, LIMIT and OFFSET
//
// Blank nodes in a WHERE clause act as variables that are never projected.
// Blank nodes in a CONSTRUCT template are minted fresh for every solution.
//
// Parse failures wrap ErrParse. Failures while reading the engine wrap
// ErrEvaluation. When the engine fails partway through one branch of a join,
// that branch yields a single failed row and the remaining rows are still
// returned.
package sparql

import "errors"

var (
	// ErrParse indicates query text outside the supported grammar.
	ErrParse = errors.New("sparql: parse error")

	// ErrEvaluation indicates a failure while evaluating a parsed query.
	ErrEvaluation = errors.New("sparql: evaluation error")
)
