package term

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/geoknoesis/rdf-go/rdf"
)

var (
	// ErrInvalidIRI indicates text that the IRI parser rejects.
	ErrInvalidIRI = errors.New("term: invalid IRI")

	// ErrInvalidBlankNode indicates a label outside the blank node label grammar.
	ErrInvalidBlankNode = errors.New("term: invalid blank node label")
)

// iriForbidden are the characters an IRIREF may not contain unescaped.
const iriForbidden = "<>\"{}|^`\\ "

// ParseIRI checks that text is an absolute IRI the Turtle writer can emit
// between angle brackets.
func ParseIRI(text string) error {
	if err := rdf.ValidateIRI(text); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidIRI, err)
	}
	if !utf8.ValidString(text) {
		return fmt.Errorf("%w: not valid UTF-8", ErrInvalidIRI)
	}
	for i, r := range text {
		if r <= 0x20 || strings.ContainsRune(iriForbidden, r) {
			return fmt.Errorf("%w: forbidden character %q at offset %d", ErrInvalidIRI, r, i)
		}
	}
	parsed, err := url.Parse(text)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidIRI, err)
	}
	if parsed.Scheme == "" {
		return fmt.Errorf("%w: %q is not absolute", ErrInvalidIRI, text)
	}
	return nil
}

// ValidBlankNodeLabel reports whether label matches the Turtle
// BLANK_NODE_LABEL production (without the leading "_:").
func ValidBlankNodeLabel(label string) bool {
	if label == "" || !utf8.ValidString(label) {
		return false
	}
	runes := []rune(label)
	first := runes[0]
	if !isPNCharsU(first) && !(first >= '0' && first <= '9') {
		return false
	}
	last := len(runes) - 1
	for i := 1; i <= last; i++ {
		r := runes[i]
		if r == '.' && i != last {
			continue
		}
		if !isPNChars(r) {
			return false
		}
	}
	return true
}

func isPNCharsBase(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		return true
	case r >= 0x00C0 && r <= 0x00D6, r >= 0x00D8 && r <= 0x00F6, r >= 0x00F8 && r <= 0x02FF:
		return true
	case r >= 0x0370 && r <= 0x037D, r >= 0x037F && r <= 0x1FFF, r >= 0x200C && r <= 0x200D:
		return true
	case r >= 0x2070 && r <= 0x218F, r >= 0x2C00 && r <= 0x2FEF, r >= 0x3001 && r <= 0xD7FF:
		return true
	case r >= 0xF900 && r <= 0xFDCF, r >= 0xFDF0 && r <= 0xFFFD, r >= 0x10000 && r <= 0xEFFFF:
		return true
	}
	return false
}

func isPNCharsU(r rune) bool {
	return isPNCharsBase(r) || r == '_'
}

func isPNChars(r rune) bool {
	switch {
	case isPNCharsU(r), r == '-', r >= '0' && r <= '9', r == 0x00B7:
		return true
	case r >= 0x0300 && r <= 0x036F, r >= 0x203F && r <= 0x2040:
		return true
	}
	return false
}
