package sparql

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIRI
	tokPName
	tokVar
	tokBlank
	tokString
	tokLangTag
	tokInteger
	tokDecimal
	tokDouble
	tokKeyword
	tokPunct
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of query"
	case tokIRI:
		return "IRI"
	case tokPName:
		return "prefixed name"
	case tokVar:
		return "variable"
	case tokBlank:
		return "blank node"
	case tokString:
		return "string"
	case tokLangTag:
		return "language tag"
	case tokInteger, tokDecimal, tokDouble:
		return "number"
	case tokKeyword:
		return "keyword"
	default:
		return "punctuation"
	}
}

type token struct {
	kind tokenKind
	text string // keywords are upper-cased; strings are unescaped
	pos  int
}

func (t token) is(kind tokenKind, text string) bool {
	return t.kind == kind && t.text == text
}

func (t token) String() string {
	if t.kind == tokEOF {
		return t.kind.String()
	}
	return fmt.Sprintf("%s %q", t.kind, t.text)
}

// lex splits a query into tokens.
func lex(src string) ([]token, error) {
	l := &lexer{src: src}
	var out []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
		if tok.kind == tokEOF {
			return out, nil
		}
	}
}

type lexer struct {
	src string
	pos int
}

func (l *lexer) errorf(pos int, format string, args ...any) error {
	return fmt.Errorf("%w: offset %d: %s", ErrParse, pos, fmt.Sprintf(format, args...))
}

func (l *lexer) peekByte(off int) byte {
	if l.pos+off < len(l.src) {
		return l.src[l.pos+off]
	}
	return 0
}

func (l *lexer) skipSpaceAndComments() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.pos++
		case c == '#':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipSpaceAndComments()
	start := l.pos
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: start}, nil
	}

	c := l.src[l.pos]
	switch {
	case c == '<':
		if iri, ok := l.scanIRIRef(); ok {
			return token{kind: tokIRI, text: iri, pos: start}, nil
		}
		if l.peekByte(1) == '=' {
			l.pos += 2
			return token{kind: tokPunct, text: "<=", pos: start}, nil
		}
		l.pos++
		return token{kind: tokPunct, text: "<", pos: start}, nil
	case c == '>':
		if l.peekByte(1) == '=' {
			l.pos += 2
			return token{kind: tokPunct, text: ">=", pos: start}, nil
		}
		l.pos++
		return token{kind: tokPunct, text: ">", pos: start}, nil
	case c == '!':
		if l.peekByte(1) == '=' {
			l.pos += 2
			return token{kind: tokPunct, text: "!=", pos: start}, nil
		}
		l.pos++
		return token{kind: tokPunct, text: "!", pos: start}, nil
	case c == '&' && l.peekByte(1) == '&':
		l.pos += 2
		return token{kind: tokPunct, text: "&&", pos: start}, nil
	case c == '|' && l.peekByte(1) == '|':
		l.pos += 2
		return token{kind: tokPunct, text: "||", pos: start}, nil
	case c == '^' && l.peekByte(1) == '^':
		l.pos += 2
		return token{kind: tokPunct, text: "^^", pos: start}, nil
	case c == '?' || c == '$':
		l.pos++
		name := l.scanName()
		if name == "" {
			return token{}, l.errorf(start, "empty variable name")
		}
		return token{kind: tokVar, text: name, pos: start}, nil
	case c == '_' && l.peekByte(1) == ':':
		l.pos += 2
		label := l.scanLocal()
		if label == "" {
			return token{}, l.errorf(start, "empty blank node label")
		}
		return token{kind: tokBlank, text: label, pos: start}, nil
	case c == '"' || c == '\'':
		s, err := l.scanString()
		if err != nil {
			return token{}, err
		}
		return token{kind: tokString, text: s, pos: start}, nil
	case c == '@':
		l.pos++
		tag := l.scanLangTag()
		if tag == "" {
			return token{}, l.errorf(start, "empty language tag")
		}
		return token{kind: tokLangTag, text: tag, pos: start}, nil
	case isDigit(c) || (c == '.' && isDigit(l.peekByte(1))):
		return l.scanNumber(start), nil
	case strings.IndexByte("{}()[].;,*=+-/", c) >= 0:
		l.pos++
		return token{kind: tokPunct, text: string(c), pos: start}, nil
	}

	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	if r == ':' || isNameStart(r) {
		return l.scanWordOrPName(start)
	}
	return token{}, l.errorf(start, "unexpected character %q", r)
}

// scanIRIRef consumes an IRIREF if one starts at the cursor.
func (l *lexer) scanIRIRef() (string, bool) {
	for i := l.pos + 1; i < len(l.src); {
		r, size := utf8.DecodeRuneInString(l.src[i:])
		switch {
		case r == '>':
			iri := l.src[l.pos+1 : i]
			l.pos = i + 1
			return iri, true
		case r <= 0x20 || strings.ContainsRune("<\"{}|^`\\", r):
			return "", false
		}
		i += size
	}
	return "", false
}

func (l *lexer) scanName() string {
	start := l.pos
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !isNameChar(r) {
			break
		}
		l.pos += size
	}
	return l.src[start:l.pos]
}

// scanLocal reads a local name or blank label; a trailing '.' is left for the
// statement terminator.
func (l *lexer) scanLocal() string {
	start := l.pos
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !isNameChar(r) && r != '.' && r != '-' {
			break
		}
		l.pos += size
	}
	for l.pos > start && l.src[l.pos-1] == '.' {
		l.pos--
	}
	return l.src[start:l.pos]
}

func (l *lexer) scanLangTag() string {
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || isDigit(c) || c == '-') {
			break
		}
		l.pos++
	}
	return l.src[start:l.pos]
}

func (l *lexer) scanWordOrPName(start int) (token, error) {
	word := ""
	if l.src[l.pos] != ':' {
		word = l.scanName()
	}
	if l.peekByte(0) == ':' {
		l.pos++
		local := l.scanLocal()
		return token{kind: tokPName, text: word + ":" + local, pos: start}, nil
	}
	if word == "a" {
		return token{kind: tokKeyword, text: "a", pos: start}, nil
	}
	return token{kind: tokKeyword, text: strings.ToUpper(word), pos: start}, nil
}

func (l *lexer) scanNumber(start int) token {
	kind := tokInteger
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	if l.peekByte(0) == '.' && isDigit(l.peekByte(1)) {
		kind = tokDecimal
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	if c := l.peekByte(0); c == 'e' || c == 'E' {
		off := 1
		if s := l.peekByte(1); s == '+' || s == '-' {
			off = 2
		}
		if isDigit(l.peekByte(off)) {
			kind = tokDouble
			l.pos += off
			for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.pos++
			}
		}
	}
	return token{kind: kind, text: l.src[start:l.pos], pos: start}
}

func (l *lexer) scanString() (string, error) {
	start := l.pos
	quote := l.src[l.pos]
	long := l.pos+2 < len(l.src) && l.src[l.pos+1] == quote && l.src[l.pos+2] == quote
	if long {
		l.pos += 3
	} else {
		l.pos++
	}

	var b strings.Builder
	for {
		if l.pos >= len(l.src) {
			return "", l.errorf(start, "unterminated string")
		}
		c := l.src[l.pos]
		switch {
		case long && c == quote && l.peekByte(1) == quote && l.peekByte(2) == quote:
			l.pos += 3
			return b.String(), nil
		case !long && c == quote:
			l.pos++
			return b.String(), nil
		case !long && (c == '\n' || c == '\r'):
			return "", l.errorf(l.pos, "line break in short string")
		case c == '\\':
			if err := l.scanEscape(&b); err != nil {
				return "", err
			}
		default:
			b.WriteByte(c)
			l.pos++
		}
	}
}

func (l *lexer) scanEscape(b *strings.Builder) error {
	at := l.pos
	e := l.peekByte(1)
	l.pos += 2
	switch e {
	case 't':
		b.WriteByte('\t')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case '"', '\'', '\\':
		b.WriteByte(e)
	case 'u', 'U':
		n := 4
		if e == 'U' {
			n = 8
		}
		if l.pos+n > len(l.src) {
			return l.errorf(at, "short unicode escape")
		}
		var r rune
		for _, h := range l.src[l.pos : l.pos+n] {
			v, ok := hexValue(h)
			if !ok {
				return l.errorf(at, "bad unicode escape")
			}
			r = r<<4 | v
		}
		if !utf8.ValidRune(r) {
			return l.errorf(at, "escape is not a valid code point")
		}
		b.WriteRune(r)
		l.pos += n
	default:
		return l.errorf(at, "unknown escape \\%c", e)
	}
	return nil
}

func hexValue(r rune) (rune, bool) {
	switch {
	case r >= '0' && r <= '9':
		return r - '0', true
	case r >= 'a' && r <= 'f':
		return r - 'a' + 10, true
	case r >= 'A' && r <= 'F':
		return r - 'A' + 10, true
	}
	return 0, false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNameChar(r rune) bool {
	return isNameStart(r) || unicode.IsDigit(r) || r == 0x00B7 || unicode.Is(unicode.Mn, r)
}
