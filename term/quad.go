package term

import (
	"errors"
	"fmt"
)

// GraphName labels the graph a quad belongs to. Only the default graph exists.
type GraphName uint8

// DefaultGraph is the single graph every quad lives in.
const DefaultGraph GraphName = 0

// ErrInvalidQuad indicates terms that violate the quad shape.
var ErrInvalidQuad = errors.New("term: invalid quad")

// Quad is a statement in the default graph. The subject is an IRI or blank
// node, the predicate is an IRI, and the object is any term.
type Quad struct {
	Subject   Term
	Predicate Term
	Object    Term
	Graph     GraphName
}

// NewQuad validates the quad shape and returns a default-graph quad.
func NewQuad(subject, predicate, object Term) (Quad, error) {
	if !subject.IsIRI() && !subject.IsBlankNode() {
		return Quad{}, fmt.Errorf("%w: subject must be an IRI or blank node, got %s", ErrInvalidQuad, subject.Kind())
	}
	if !predicate.IsIRI() {
		return Quad{}, fmt.Errorf("%w: predicate must be an IRI, got %s", ErrInvalidQuad, predicate.Kind())
	}
	if object.IsZero() {
		return Quad{}, fmt.Errorf("%w: object is unbound", ErrInvalidQuad)
	}
	return Quad{Subject: subject, Predicate: predicate, Object: object, Graph: DefaultGraph}, nil
}

// String renders the quad as an N-Triples statement without a trailing newline.
func (q Quad) String() string {
	return q.Subject.String() + " " + q.Predicate.String() + " " + q.Object.String() + " ."
}
