package term

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Position is the structural slot a raw value is classified for.
type Position uint8

const (
	PositionSubject Position = iota
	PositionPredicate
	PositionObject
)

// String returns the lowercase position name.
func (p Position) String() string {
	switch p {
	case PositionSubject:
		return "subject"
	case PositionPredicate:
		return "predicate"
	case PositionObject:
		return "object"
	default:
		return "unknown"
	}
}

const (
	iriPrefix   = "http"
	blankPrefix = "_:"
)

var (
	// ErrUnclassifiable indicates text that has no term form in its position.
	ErrUnclassifiable = errors.New("term: text cannot be classified for this position")

	// ErrFreshBlankNode indicates the random source failed while minting a blank node.
	ErrFreshBlankNode = errors.New("term: cannot mint fresh blank node")
)

// Classifier maps raw text to typed terms using a fixed prefix heuristic:
//
//   - text starting with "http" is parsed as an IRI and fails hard if invalid
//   - text starting with "_:" is a blank node; an invalid label is replaced by a fresh one
//   - any other text is a plain literal in object position and an error elsewhere
//
// IRIs with other schemes (urn:, mailto:, ...) are therefore literals in
// object position and errors in subject or predicate position.
//
// A Classifier is not safe for concurrent use when its random source is not.
type Classifier struct {
	random io.Reader
}

// NewClassifier returns a Classifier drawing fresh blank node identifiers from
// random. A nil random uses crypto/rand.
func NewClassifier(random io.Reader) *Classifier {
	if random == nil {
		random = rand.Reader
	}
	return &Classifier{random: random}
}

// Classify converts text into a term valid for pos.
func (c *Classifier) Classify(text string, pos Position) (Term, error) {
	switch {
	case strings.HasPrefix(text, iriPrefix):
		t, err := NewIRI(text)
		if err != nil {
			return Term{}, fmt.Errorf("%s: %w", pos, err)
		}
		return t, nil
	case strings.HasPrefix(text, blankPrefix) && pos != PositionPredicate:
		label := text[len(blankPrefix):]
		if t, err := NewBlankNode(label); err == nil {
			return t, nil
		}
		t, err := c.FreshBlankNode()
		if err != nil {
			return Term{}, fmt.Errorf("%s: %w", pos, err)
		}
		logrus.WithFields(logrus.Fields{
			"function": "Classify",
			"position": pos.String(),
			"label":    label,
			"fresh":    t.Value(),
		}).Debug("Substituted fresh blank node for invalid label")
		return t, nil
	case pos == PositionObject:
		return NewLiteral(text), nil
	default:
		return Term{}, fmt.Errorf("%w: %s %q", ErrUnclassifiable, pos, text)
	}
}

// FreshBlankNode mints a blank node with a 128-bit random hexadecimal label.
func (c *Classifier) FreshBlankNode() (Term, error) {
	id, err := uuid.NewRandomFromReader(c.random)
	if err != nil {
		return Term{}, fmt.Errorf("%w: %v", ErrFreshBlankNode, err)
	}
	return Term{kind: KindBlankNode, value: strings.ReplaceAll(id.String(), "-", "")}, nil
}

// BuildQuad classifies subject, predicate and object in that order and
// combines them into a default-graph quad. The first failure is returned and
// no quad is produced.
func (c *Classifier) BuildQuad(subject, predicate, object string) (Quad, error) {
	s, err := c.Classify(subject, PositionSubject)
	if err != nil {
		return Quad{}, err
	}
	p, err := c.Classify(predicate, PositionPredicate)
	if err != nil {
		return Quad{}, err
	}
	o, err := c.Classify(object, PositionObject)
	if err != nil {
		return Quad{}, err
	}
	return NewQuad(s, p, o)
}
