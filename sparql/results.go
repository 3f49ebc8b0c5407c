package sparql

import "github.com/opd-ai/rdfstore/term"

// ResultKind distinguishes the shape of query results.
type ResultKind uint8

const (
	// ResultSolutions is a sequence of variable bindings (SELECT).
	ResultSolutions ResultKind = iota
	// ResultBoolean is a single truth value (ASK).
	ResultBoolean
	// ResultGraph is a set of quads (CONSTRUCT, DESCRIBE).
	ResultGraph
)

// String returns a lowercase name for the kind.
func (k ResultKind) String() string {
	switch k {
	case ResultSolutions:
		return "solutions"
	case ResultBoolean:
		return "boolean"
	case ResultGraph:
		return "graph"
	default:
		return "unknown"
	}
}

// Binding is one variable bound to a term.
type Binding struct {
	Name  string
	Value term.Term
}

// Solution lists the bound projected variables of one row in projection order.
// Unbound variables are omitted.
type Solution []Binding

// Get returns the value bound to name.
func (s Solution) Get(name string) (term.Term, bool) {
	for _, b := range s {
		if b.Name == name {
			return b.Value, true
		}
	}
	return term.Term{}, false
}

// SolutionResult is one row: a solution, or the error met while producing it.
type SolutionResult struct {
	Solution Solution
	Err      error
}

// Results holds the outcome of a query.
type Results struct {
	Kind ResultKind

	// Variables is the projection of a SELECT query.
	Variables []string

	// Solutions holds SELECT rows in order.
	Solutions []SolutionResult

	// Boolean holds the ASK answer.
	Boolean bool

	// Graph holds CONSTRUCT and DESCRIBE quads without duplicates.
	Graph []term.Quad
}
