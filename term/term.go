package term

import (
	"fmt"
	"strings"
)

// Kind identifies the variant held by a Term.
type Kind uint8

const (
	// KindNone is the zero Kind. A Term of this kind is unbound and acts as a
	// wildcard in engine patterns.
	KindNone Kind = iota
	// KindIRI is a named node.
	KindIRI
	// KindBlankNode is a store-local anonymous node.
	KindBlankNode
	// KindLiteral is a constant value.
	KindLiteral
)

// String returns a short lowercase name for the kind.
func (k Kind) String() string {
	switch k {
	case KindIRI:
		return "iri"
	case KindBlankNode:
		return "blank"
	case KindLiteral:
		return "literal"
	default:
		return "none"
	}
}

// Term is a tagged RDF term: an IRI, a blank node or a literal.
// Terms are comparable and can be used as map keys.
type Term struct {
	kind     Kind
	value    string
	datatype string
	lang     string
}

// NewIRI parses value as an absolute IRI.
func NewIRI(value string) (Term, error) {
	if err := ParseIRI(value); err != nil {
		return Term{}, err
	}
	return Term{kind: KindIRI, value: value}, nil
}

// NewBlankNode creates a blank node with the given label (without the "_:" prefix).
func NewBlankNode(label string) (Term, error) {
	if !ValidBlankNodeLabel(label) {
		return Term{}, fmt.Errorf("%w: %q", ErrInvalidBlankNode, label)
	}
	return Term{kind: KindBlankNode, value: label}, nil
}

// NewLiteral creates a plain literal with no datatype and no language tag.
func NewLiteral(lexical string) Term {
	return Term{kind: KindLiteral, value: lexical}
}

// NewTypedLiteral creates a literal with a datatype IRI.
func NewTypedLiteral(lexical, datatype string) Term {
	return Term{kind: KindLiteral, value: lexical, datatype: datatype}
}

// NewLangLiteral creates a language-tagged literal.
func NewLangLiteral(lexical, lang string) Term {
	return Term{kind: KindLiteral, value: lexical, lang: lang}
}

// Kind returns the variant of the term.
func (t Term) Kind() Kind { return t.kind }

// Value returns the IRI text, the blank node label or the literal lexical form.
func (t Term) Value() string { return t.value }

// Datatype returns the datatype IRI of a typed literal, or "".
func (t Term) Datatype() string { return t.datatype }

// Lang returns the language tag of a literal, or "".
func (t Term) Lang() string { return t.lang }

// IsZero reports whether the term is unbound.
func (t Term) IsZero() bool { return t.kind == KindNone }

// IsIRI reports whether the term is a named node.
func (t Term) IsIRI() bool { return t.kind == KindIRI }

// IsBlankNode reports whether the term is a blank node.
func (t Term) IsBlankNode() bool { return t.kind == KindBlankNode }

// IsLiteral reports whether the term is a literal.
func (t Term) IsLiteral() bool { return t.kind == KindLiteral }

// String renders the term in N-Triples syntax: <iri>, _:label, "lexical",
// "lexical"@lang or "lexical"^^<datatype>.
func (t Term) String() string {
	switch t.kind {
	case KindIRI:
		return "<" + t.value + ">"
	case KindBlankNode:
		return "_:" + t.value
	case KindLiteral:
		var b strings.Builder
		b.Grow(len(t.value) + 2)
		b.WriteByte('"')
		writeEscaped(&b, t.value)
		b.WriteByte('"')
		if t.lang != "" {
			b.WriteByte('@')
			b.WriteString(t.lang)
		} else if t.datatype != "" {
			b.WriteString("^^<")
			b.WriteString(t.datatype)
			b.WriteByte('>')
		}
		return b.String()
	default:
		return ""
	}
}

func writeEscaped(b *strings.Builder, s string) {
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(b, `\u%04X`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
}

// FromParts rebuilds a term from its stored components, validating IRIs and
// blank node labels again.
func FromParts(kind Kind, value, datatype, lang string) (Term, error) {
	switch kind {
	case KindIRI:
		return NewIRI(value)
	case KindBlankNode:
		return NewBlankNode(value)
	case KindLiteral:
		switch {
		case lang != "":
			return NewLangLiteral(value, lang), nil
		case datatype != "":
			return NewTypedLiteral(value, datatype), nil
		default:
			return NewLiteral(value), nil
		}
	default:
		return Term{}, fmt.Errorf("term: unknown kind %d", kind)
	}
}
