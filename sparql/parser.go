package sparql

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/opd-ai/rdfstore/term"
)

// blankVarPrefix marks variables introduced for blank nodes in a WHERE
// clause. ':' cannot occur in a variable name, so they never collide with
// user variables.
const blankVarPrefix = "_:"

// Parse parses query text. Errors wrap ErrParse.
func Parse(text string) (*Query, error) {
	toks, err := lex(text)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, prefixes: map[string]string{}}
	q, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	return q, nil
}

type parser struct {
	toks     []token
	pos      int
	base     *url.URL
	prefixes map[string]string
	anon     int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return fmt.Errorf("%w: offset %d: %s", ErrParse, t.pos, fmt.Sprintf(format, args...))
}

func (p *parser) accept(kind tokenKind, text string) bool {
	if p.peek().is(kind, text) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(kind tokenKind, text string) error {
	if t := p.peek(); !t.is(kind, text) {
		return p.errorf(t, "expected %q, found %s", text, t)
	}
	p.pos++
	return nil
}

func (p *parser) parseQuery() (*Query, error) {
	if err := p.parsePrologue(); err != nil {
		return nil, err
	}

	q := &Query{Limit: -1}
	t := p.advance()
	var err error
	switch {
	case t.is(tokKeyword, "SELECT"):
		q.Form = FormSelect
		err = p.parseSelect(q)
	case t.is(tokKeyword, "ASK"):
		q.Form = FormAsk
		err = p.parseWhere(q)
	case t.is(tokKeyword, "CONSTRUCT"):
		q.Form = FormConstruct
		err = p.parseConstruct(q)
	case t.is(tokKeyword, "DESCRIBE"):
		q.Form = FormDescribe
		err = p.parseDescribe(q)
	default:
		return nil, p.errorf(t, "expected SELECT, ASK, CONSTRUCT or DESCRIBE, found %s", t)
	}
	if err != nil {
		return nil, err
	}

	if err := p.parseModifiers(q); err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorf(t, "unexpected %s after query", t)
	}
	return q, nil
}

func (p *parser) parsePrologue() error {
	for {
		t := p.peek()
		switch {
		case t.is(tokKeyword, "BASE"):
			p.advance()
			iri := p.advance()
			if iri.kind != tokIRI {
				return p.errorf(iri, "BASE requires an IRI, found %s", iri)
			}
			resolved, err := p.resolve(iri)
			if err != nil {
				return err
			}
			p.base, _ = url.Parse(resolved)
		case t.is(tokKeyword, "PREFIX"):
			p.advance()
			name := p.advance()
			if name.kind != tokPName || !strings.HasSuffix(name.text, ":") {
				return p.errorf(name, "PREFIX requires a prefix name ending in ':', found %s", name)
			}
			iri := p.advance()
			if iri.kind != tokIRI {
				return p.errorf(iri, "PREFIX requires an IRI, found %s", iri)
			}
			resolved, err := p.resolve(iri)
			if err != nil {
				return err
			}
			p.prefixes[strings.TrimSuffix(name.text, ":")] = resolved
		default:
			return nil
		}
	}
}

func (p *parser) parseSelect(q *Query) error {
	if p.accept(tokKeyword, "DISTINCT") {
		q.Distinct = true
	} else if p.accept(tokKeyword, "REDUCED") {
		q.Reduced = true
	}

	if p.accept(tokPunct, "*") {
		q.Variables = nil
	} else {
		seen := map[string]bool{}
		for p.peek().kind == tokVar {
			v := p.advance().text
			if !seen[v] {
				seen[v] = true
				q.Variables = append(q.Variables, v)
			}
		}
		if len(q.Variables) == 0 {
			return p.errorf(p.peek(), "SELECT requires variables or '*'")
		}
	}
	if err := p.parseWhere(q); err != nil {
		return err
	}
	if q.Variables == nil {
		q.Variables = patternVariables(q.Where)
		if q.Variables == nil {
			q.Variables = []string{}
		}
	}
	return nil
}

func (p *parser) parseConstruct(q *Query) error {
	if err := p.expect(tokPunct, "{"); err != nil {
		return err
	}
	for !p.accept(tokPunct, "}") {
		triples, err := p.parseTriplesSameSubject(true)
		if err != nil {
			return err
		}
		q.Template = append(q.Template, triples...)
		if !p.accept(tokPunct, ".") && !p.peek().is(tokPunct, "}") {
			return p.errorf(p.peek(), "expected '.' or '}' in CONSTRUCT template, found %s", p.peek())
		}
	}
	return p.parseWhere(q)
}

func (p *parser) parseDescribe(q *Query) error {
	if p.accept(tokPunct, "*") {
		q.Describe = nil
	} else {
		for {
			t := p.peek()
			if t.kind == tokVar {
				p.advance()
				q.Describe = append(q.Describe, Node{Var: t.text})
				continue
			}
			if t.kind == tokIRI || t.kind == tokPName {
				n, err := p.parseIRINode()
				if err != nil {
					return err
				}
				q.Describe = append(q.Describe, n)
				continue
			}
			break
		}
		if len(q.Describe) == 0 {
			return p.errorf(p.peek(), "DESCRIBE requires variables, IRIs or '*'")
		}
	}

	t := p.peek()
	if t.is(tokKeyword, "WHERE") || t.is(tokPunct, "{") {
		if err := p.parseWhere(q); err != nil {
			return err
		}
	}
	if q.Describe == nil {
		for _, v := range patternVariables(q.Where) {
			q.Describe = append(q.Describe, Node{Var: v})
		}
	}
	return nil
}

// parseWhere parses a group graph pattern; the WHERE keyword is optional.
func (p *parser) parseWhere(q *Query) error {
	p.accept(tokKeyword, "WHERE")
	if err := p.expect(tokPunct, "{"); err != nil {
		return err
	}
	for {
		t := p.peek()
		switch {
		case t.is(tokPunct, "}"):
			p.advance()
			return nil
		case t.is(tokKeyword, "FILTER"):
			p.advance()
			e, err := p.parseConstraint()
			if err != nil {
				return err
			}
			q.Filters = append(q.Filters, e)
			p.accept(tokPunct, ".")
		case t.kind == tokKeyword && t.text != "TRUE" && t.text != "FALSE":
			return p.errorf(t, "unsupported keyword %s in graph pattern", t.text)
		default:
			triples, err := p.parseTriplesSameSubject(false)
			if err != nil {
				return err
			}
			q.Where = append(q.Where, triples...)
			next := p.peek()
			if !p.accept(tokPunct, ".") && !next.is(tokPunct, "}") && !next.is(tokKeyword, "FILTER") {
				return p.errorf(next, "expected '.', '}' or FILTER, found %s", next)
			}
		}
	}
}

func (p *parser) parseTriplesSameSubject(template bool) ([]TriplePattern, error) {
	subjTok := p.peek()
	subject, err := p.parseNode(template)
	if err != nil {
		return nil, err
	}
	if !subject.IsVar() && subject.Blank == "" && subject.Term.IsLiteral() {
		return nil, p.errorf(subjTok, "literal %s cannot be a subject", subject.Term)
	}

	var out []TriplePattern
	for {
		verb, err := p.parseVerb()
		if err != nil {
			return nil, err
		}
		for {
			object, err := p.parseNode(template)
			if err != nil {
				return nil, err
			}
			out = append(out, TriplePattern{Subject: subject, Predicate: verb, Object: object})
			if !p.accept(tokPunct, ",") {
				break
			}
		}
		if !p.accept(tokPunct, ";") {
			return out, nil
		}
		// A trailing ';' before '.' or '}' is allowed.
		if t := p.peek(); t.is(tokPunct, ".") || t.is(tokPunct, "}") {
			return out, nil
		}
	}
}

func (p *parser) parseVerb() (Node, error) {
	t := p.peek()
	switch {
	case t.kind == tokVar:
		p.advance()
		return Node{Var: t.text}, nil
	case t.is(tokKeyword, "a"):
		p.advance()
		iri, err := term.NewIRI(rdfType)
		if err != nil {
			return Node{}, p.errorf(t, "%v", err)
		}
		return Node{Term: iri}, nil
	case t.kind == tokIRI || t.kind == tokPName:
		return p.parseIRINode()
	default:
		return Node{}, p.errorf(t, "expected predicate, found %s", t)
	}
}

func (p *parser) parseIRINode() (Node, error) {
	iri, err := p.parseIRI()
	if err != nil {
		return Node{}, err
	}
	return Node{Term: iri}, nil
}

func (p *parser) parseIRI() (term.Term, error) {
	t := p.advance()
	var text string
	switch t.kind {
	case tokIRI:
		resolved, err := p.resolve(t)
		if err != nil {
			return term.Term{}, err
		}
		text = resolved
	case tokPName:
		prefix, local, _ := strings.Cut(t.text, ":")
		ns, ok := p.prefixes[prefix]
		if !ok {
			return term.Term{}, p.errorf(t, "undeclared prefix %q", prefix)
		}
		text = ns + local
	default:
		return term.Term{}, p.errorf(t, "expected IRI, found %s", t)
	}
	iri, err := term.NewIRI(text)
	if err != nil {
		return term.Term{}, p.errorf(t, "%v", err)
	}
	return iri, nil
}

func (p *parser) resolve(t token) (string, error) {
	if p.base == nil {
		return t.text, nil
	}
	ref, err := url.Parse(t.text)
	if err != nil {
		return "", p.errorf(t, "bad IRI reference: %v", err)
	}
	return p.base.ResolveReference(ref).String(), nil
}

// parseNode parses a subject or object position.
func (p *parser) parseNode(template bool) (Node, error) {
	t := p.peek()
	switch {
	case t.kind == tokVar:
		p.advance()
		return Node{Var: t.text}, nil
	case t.kind == tokBlank:
		p.advance()
		if template {
			return Node{Blank: t.text}, nil
		}
		return Node{Var: blankVarPrefix + t.text}, nil
	case t.is(tokPunct, "["):
		p.advance()
		if err := p.expect(tokPunct, "]"); err != nil {
			return Node{}, err
		}
		p.anon++
		label := "anon" + strconv.Itoa(p.anon)
		if template {
			return Node{Blank: label}, nil
		}
		return Node{Var: blankVarPrefix + label}, nil
	case t.kind == tokIRI || t.kind == tokPName:
		return p.parseIRINode()
	default:
		lit, err := p.parseLiteral()
		if err != nil {
			return Node{}, err
		}
		return Node{Term: lit}, nil
	}
}

// parseLiteral parses a string, numeric or boolean literal.
func (p *parser) parseLiteral() (term.Term, error) {
	t := p.advance()
	switch {
	case t.kind == tokString:
		if tag := p.peek(); tag.kind == tokLangTag {
			p.advance()
			return term.NewLangLiteral(t.text, tag.text), nil
		}
		if p.accept(tokPunct, "^^") {
			dt, err := p.parseIRI()
			if err != nil {
				return term.Term{}, err
			}
			if dt.Value() == xsdString {
				return term.NewLiteral(t.text), nil
			}
			return term.NewTypedLiteral(t.text, dt.Value()), nil
		}
		return term.NewLiteral(t.text), nil
	case t.kind == tokInteger:
		return term.NewTypedLiteral(t.text, xsdInteger), nil
	case t.kind == tokDecimal:
		return term.NewTypedLiteral(t.text, xsdDecimal), nil
	case t.kind == tokDouble:
		return term.NewTypedLiteral(t.text, xsdDouble), nil
	case t.is(tokPunct, "-") || t.is(tokPunct, "+"):
		n := p.advance()
		switch n.kind {
		case tokInteger:
			return term.NewTypedLiteral(t.text+n.text, xsdInteger), nil
		case tokDecimal:
			return term.NewTypedLiteral(t.text+n.text, xsdDecimal), nil
		case tokDouble:
			return term.NewTypedLiteral(t.text+n.text, xsdDouble), nil
		}
		return term.Term{}, p.errorf(n, "expected number after %q, found %s", t.text, n)
	case t.is(tokKeyword, "TRUE"):
		return term.NewTypedLiteral("true", xsdBoolean), nil
	case t.is(tokKeyword, "FALSE"):
		return term.NewTypedLiteral("false", xsdBoolean), nil
	default:
		return term.Term{}, p.errorf(t, "expected term, found %s", t)
	}
}

func (p *parser) parseModifiers(q *Query) error {
	if p.accept(tokKeyword, "ORDER") {
		if err := p.expect(tokKeyword, "BY"); err != nil {
			return err
		}
		for {
			cond, ok, err := p.parseOrderCondition()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			q.OrderBy = append(q.OrderBy, cond)
		}
		if len(q.OrderBy) == 0 {
			return p.errorf(p.peek(), "ORDER BY requires at least one condition")
		}
	}

	for i := 0; i < 2; i++ {
		switch {
		case p.accept(tokKeyword, "LIMIT"):
			n, err := p.parseCount()
			if err != nil {
				return err
			}
			q.Limit = n
		case p.accept(tokKeyword, "OFFSET"):
			n, err := p.parseCount()
			if err != nil {
				return err
			}
			q.Offset = n
		}
	}
	return nil
}

func (p *parser) parseCount() (int, error) {
	t := p.advance()
	if t.kind != tokInteger {
		return 0, p.errorf(t, "expected integer, found %s", t)
	}
	n, err := strconv.Atoi(t.text)
	if err != nil {
		return 0, p.errorf(t, "bad integer: %v", err)
	}
	return n, nil
}

func (p *parser) parseOrderCondition() (OrderCondition, bool, error) {
	t := p.peek()
	switch {
	case t.is(tokKeyword, "ASC"), t.is(tokKeyword, "DESC"):
		p.advance()
		if err := p.expect(tokPunct, "("); err != nil {
			return OrderCondition{}, false, err
		}
		e, err := p.parseExpr()
		if err != nil {
			return OrderCondition{}, false, err
		}
		if err := p.expect(tokPunct, ")"); err != nil {
			return OrderCondition{}, false, err
		}
		return OrderCondition{Expr: e, Descending: t.text == "DESC"}, true, nil
	case t.kind == tokVar:
		p.advance()
		return OrderCondition{Expr: VarExpr{Name: t.text}}, true, nil
	case t.is(tokPunct, "("), t.kind == tokKeyword && isBuiltin(t.text):
		e, err := p.parseConstraint()
		if err != nil {
			return OrderCondition{}, false, err
		}
		return OrderCondition{Expr: e}, true, nil
	default:
		return OrderCondition{}, false, nil
	}
}

// parseConstraint parses a bracketted expression or a built-in call.
func (p *parser) parseConstraint() (Expr, error) {
	t := p.peek()
	if t.is(tokPunct, "(") {
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokPunct, ")"); err != nil {
			return nil, err
		}
		return e, nil
	}
	if t.kind == tokKeyword && isBuiltin(t.text) {
		return p.parseCall()
	}
	return nil, p.errorf(t, "expected '(' or function call, found %s", t)
}

func (p *parser) parseExpr() (Expr, error) { return p.parseOr() }

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.accept(tokPunct, "||") {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = BinaryExpr{Op: "||", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.accept(tokPunct, "&&") {
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = BinaryExpr{Op: "&&", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseRelational() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	t := p.peek()
	if t.kind == tokPunct {
		switch t.text {
		case "=", "!=", "<", ">", "<=", ">=":
			p.advance()
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			return BinaryExpr{Op: t.text, Left: left, Right: right}, nil
		}
	}
	return left, nil
}

func (p *parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if !t.is(tokPunct, "+") && !t.is(tokPunct, "-") {
			return left, nil
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = BinaryExpr{Op: t.text, Left: left, Right: right}
	}
}

func (p *parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if !t.is(tokPunct, "*") && !t.is(tokPunct, "/") {
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = BinaryExpr{Op: t.text, Left: left, Right: right}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	t := p.peek()
	if t.is(tokPunct, "!") || t.is(tokPunct, "-") || t.is(tokPunct, "+") {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return UnaryExpr{Op: t.text, Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.peek()
	switch {
	case t.is(tokPunct, "("):
		return p.parseConstraint()
	case t.kind == tokVar:
		p.advance()
		return VarExpr{Name: t.text}, nil
	case t.kind == tokKeyword && isBuiltin(t.text):
		return p.parseCall()
	case t.kind == tokIRI || t.kind == tokPName:
		iri, err := p.parseIRI()
		if err != nil {
			return nil, err
		}
		return ConstExpr{Value: iri}, nil
	default:
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return ConstExpr{Value: lit}, nil
	}
}

// builtins maps supported function names to their arity.
var builtins = map[string]int{
	"BOUND":     1,
	"ISIRI":     1,
	"ISURI":     1,
	"ISBLANK":   1,
	"ISLITERAL": 1,
	"STR":       1,
	"LANG":      1,
	"DATATYPE":  1,
	"SAMETERM":  2,
}

func isBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

func (p *parser) parseCall() (Expr, error) {
	name := p.advance()
	if err := p.expect(tokPunct, "("); err != nil {
		return nil, err
	}
	var args []Expr
	if !p.accept(tokPunct, ")") {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.accept(tokPunct, ")") {
				break
			}
			if err := p.expect(tokPunct, ","); err != nil {
				return nil, err
			}
		}
	}
	if want := builtins[name.text]; len(args) != want {
		return nil, p.errorf(name, "%s takes %d argument(s), got %d", name.text, want, len(args))
	}
	if name.text == "BOUND" {
		if _, ok := args[0].(VarExpr); !ok {
			return nil, p.errorf(name, "BOUND requires a variable")
		}
	}
	return CallExpr{Name: name.text, Args: args}, nil
}

// patternVariables lists the user variables of patterns in order of first
// appearance.
func patternVariables(patterns []TriplePattern) []string {
	var out []string
	seen := map[string]bool{}
	add := func(n Node) {
		if n.Var == "" || strings.HasPrefix(n.Var, blankVarPrefix) || seen[n.Var] {
			return
		}
		seen[n.Var] = true
		out = append(out, n.Var)
	}
	for _, tp := range patterns {
		add(tp.Subject)
		add(tp.Predicate)
		add(tp.Object)
	}
	return out
}
