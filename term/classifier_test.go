package term

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(nil)

	tests := []struct {
		name     string
		text     string
		pos      Position
		wantKind Kind
		want     string
		wantErr  error
	}{
		{"subject iri", "http://a", PositionSubject, KindIRI, "http://a", nil},
		{"subject https iri", "https://example.org/x#y", PositionSubject, KindIRI, "https://example.org/x#y", nil},
		{"subject blank", "_:b1", PositionSubject, KindBlankNode, "b1", nil},
		{"subject literal rejected", "plain", PositionSubject, KindNone, "", ErrUnclassifiable},
		{"subject urn rejected", "urn:isbn:123", PositionSubject, KindNone, "", ErrUnclassifiable},
		{"subject bad iri", "http://a b", PositionSubject, KindNone, "", ErrInvalidIRI},
		{"relative http text", "httpfoo", PositionSubject, KindNone, "", ErrInvalidIRI},
		{"predicate iri", "http://p", PositionPredicate, KindIRI, "http://p", nil},
		{"predicate blank rejected", "_:p", PositionPredicate, KindNone, "", ErrUnclassifiable},
		{"predicate urn rejected", "urn:p", PositionPredicate, KindNone, "", ErrUnclassifiable},
		{"object iri", "http://b", PositionObject, KindIRI, "http://b", nil},
		{"object blank", "_:o", PositionObject, KindBlankNode, "o", nil},
		{"object literal", "plain", PositionObject, KindLiteral, "plain", nil},
		{"object urn is literal", "urn:isbn:123", PositionObject, KindLiteral, "urn:isbn:123", nil},
		{"object empty literal", "", PositionObject, KindLiteral, "", nil},
		{"object bad iri fails hard", "http://a<b", PositionObject, KindNone, "", ErrInvalidIRI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Classify(tt.text, tt.pos)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.True(t, got.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, got.Kind())
			assert.Equal(t, tt.want, got.Value())
			assert.Empty(t, got.Datatype())
			assert.Empty(t, got.Lang())
		})
	}
}

func TestClassifyInvalidBlankLabelSubstitutesFreshNode(t *testing.T) {
	c := NewClassifier(nil)

	for _, text := range []string{"_:", "_:bad label", "_:.x", "_:x."} {
		got, err := c.Classify(text, PositionSubject)
		require.NoError(t, err, text)
		assert.Equal(t, KindBlankNode, got.Kind())
		assert.Len(t, got.Value(), 32)
		assert.True(t, ValidBlankNodeLabel(got.Value()))
	}

	a, err := c.Classify("_:", PositionObject)
	require.NoError(t, err)
	b, err := c.Classify("_:", PositionObject)
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "fresh blank nodes must differ")
}

func TestFreshBlankNodeDeterministicReader(t *testing.T) {
	seed := bytes.Repeat([]byte{0x2a}, 16)
	a, err := NewClassifier(bytes.NewReader(seed)).FreshBlankNode()
	require.NoError(t, err)
	b, err := NewClassifier(bytes.NewReader(seed)).FreshBlankNode()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFreshBlankNodeReaderFailure(t *testing.T) {
	c := NewClassifier(bytes.NewReader(nil))
	_, err := c.Classify("_:not valid", PositionSubject)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFreshBlankNode))
}

func TestBuildQuad(t *testing.T) {
	c := NewClassifier(nil)

	q, err := c.BuildQuad("http://a", "http://p", "plain")
	require.NoError(t, err)
	assert.Equal(t, DefaultGraph, q.Graph)
	assert.True(t, q.Subject.IsIRI())
	assert.True(t, q.Predicate.IsIRI())
	assert.True(t, q.Object.IsLiteral())
	assert.Equal(t, `<http://a> <http://p> "plain" .`, q.String())
}

func TestBuildQuadStopsAtFirstFailure(t *testing.T) {
	// A failing subject must short-circuit before the object is classified,
	// so the empty reader is never consulted for a fresh blank node.
	c := NewClassifier(bytes.NewReader(nil))

	_, err := c.BuildQuad("plain", "http://p", "_:invalid label")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnclassifiable))
	assert.Contains(t, err.Error(), "subject")

	_, err = c.BuildQuad("http://a", "nope", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "predicate")
}

func TestNewQuadShape(t *testing.T) {
	iri, err := NewIRI("http://a")
	require.NoError(t, err)
	lit := NewLiteral("x")

	_, err = NewQuad(lit, iri, iri)
	assert.True(t, errors.Is(err, ErrInvalidQuad))

	_, err = NewQuad(iri, lit, iri)
	assert.True(t, errors.Is(err, ErrInvalidQuad))

	_, err = NewQuad(iri, iri, Term{})
	assert.True(t, errors.Is(err, ErrInvalidQuad))
}
