// Package turtle bridges Turtle text and a quad engine.
//
// Parsing is delegated to github.com/geoknoesis/rdf-go; this package
// converts its statements into rdfstore quads. Dumps are written as
// N-Triples lines, a subset of Turtle.
package turtle

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/geoknoesis/rdf-go/rdf"
	"github.com/opd-ai/rdfstore/interfaces"
	"github.com/opd-ai/rdfstore/logging"
	"github.com/opd-ai/rdfstore/term"
)

var (
	// ErrParse indicates Turtle text the reader rejects or a statement
	// outside the default-graph triple model.
	ErrParse = errors.New("turtle: parse error")

	// ErrInsert indicates an engine failure while loading.
	ErrInsert = errors.New("turtle: insert failed")

	// ErrDump indicates a failure while reading the engine or writing Turtle.
	ErrDump = errors.New("turtle: dump failed")
)

// Load parses Turtle from r and inserts every statement into engine. It
// returns the number of statements read.
//
// Blank node labels are scoped to the document: each distinct label maps to
// one fresh blank node minted by classifier, so separate loads never merge
// nodes that merely share a label.
//
// Loading is not atomic. Statements inserted before a failure stay in the
// engine.
func Load(ctx context.Context, engine interfaces.IQuadEngine, r io.Reader, classifier *term.Classifier) (int, error) {
	if classifier == nil {
		classifier = term.NewClassifier(nil)
	}
	reader, err := rdf.NewReader(r, rdf.FormatTurtle, rdf.OptContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer reader.Close()

	conv := &converter{classifier: classifier, blanks: make(map[string]term.Term)}
	n := 0
	for {
		stmt, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return n, fmt.Errorf("%w: statement %d: %v", ErrParse, n+1, err)
		}
		q, err := conv.quad(stmt)
		if err != nil {
			return n, fmt.Errorf("%w: statement %d: %v", ErrParse, n+1, err)
		}
		if err := engine.Insert(q); err != nil {
			return n, fmt.Errorf("%w: %w", ErrInsert, err)
		}
		n++
	}

	logging.NewLogger("turtle", "Load").
		WithField("statements", n).
		WithField("blank_nodes", len(conv.blanks)).
		Debug("Loaded Turtle document")
	return n, nil
}

type converter struct {
	classifier *term.Classifier
	blanks     map[string]term.Term
}

func (c *converter) quad(stmt rdf.Statement) (term.Quad, error) {
	if stmt.G != nil {
		return term.Quad{}, fmt.Errorf("named graph %s is not supported", stmt.G.String())
	}
	s, err := c.term(stmt.S)
	if err != nil {
		return term.Quad{}, fmt.Errorf("subject: %w", err)
	}
	p, err := term.NewIRI(stmt.P.Value)
	if err != nil {
		return term.Quad{}, fmt.Errorf("predicate: %w", err)
	}
	o, err := c.term(stmt.O)
	if err != nil {
		return term.Quad{}, fmt.Errorf("object: %w", err)
	}
	return term.NewQuad(s, p, o)
}

func (c *converter) term(t rdf.Term) (term.Term, error) {
	switch v := t.(type) {
	case rdf.IRI:
		return term.NewIRI(v.Value)
	case rdf.BlankNode:
		if b, ok := c.blanks[v.ID]; ok {
			return b, nil
		}
		b, err := c.classifier.FreshBlankNode()
		if err != nil {
			return term.Term{}, err
		}
		c.blanks[v.ID] = b
		return b, nil
	case rdf.Literal:
		switch {
		case v.Lang != "":
			return term.NewLangLiteral(v.Lexical, v.Lang), nil
		case v.Datatype.Value != "" && v.Datatype.Value != xsdString:
			return term.NewTypedLiteral(v.Lexical, v.Datatype.Value), nil
		default:
			return term.NewLiteral(v.Lexical), nil
		}
	case nil:
		return term.Term{}, errors.New("missing term")
	default:
		return term.Term{}, fmt.Errorf("unsupported term %s", t.String())
	}
}

// xsdString is the implicit datatype of plain literals.
const xsdString = "http://www.w3.org/2001/XMLSchema#string"

// Dump writes every quad in engine to w as Turtle, one statement per line,
// in insertion order. Each line is the quad's N-Triples form, which is
// valid Turtle and escapes every control character as \uXXXX.
func Dump(engine interfaces.IQuadEngine, w io.Writer) error {
	it, err := engine.Match(interfaces.Pattern{})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDump, err)
	}
	defer it.Close()

	out := bufio.NewWriter(w)
	n := 0
	for it.Next() {
		if _, err := out.WriteString(it.Quad().String() + "\n"); err != nil {
			return fmt.Errorf("%w: %v", ErrDump, err)
		}
		n++
	}
	if err := it.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrDump, err)
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrDump, err)
	}

	logging.NewLogger("turtle", "Dump").WithField("statements", n).Debug("Dumped engine as Turtle")
	return nil
}
