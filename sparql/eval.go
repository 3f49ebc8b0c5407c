package sparql

import (
	"fmt"
	"sort"
	"strings"

	"github.com/opd-ai/rdfstore/interfaces"
	"github.com/opd-ai/rdfstore/term"
)

// Evaluator runs parsed queries against an engine.
type Evaluator struct {
	engine     interfaces.IQuadEngine
	classifier *term.Classifier
}

// NewEvaluator returns an evaluator over engine. classifier mints blank nodes
// for CONSTRUCT templates; nil uses crypto/rand.
func NewEvaluator(engine interfaces.IQuadEngine, classifier *term.Classifier) *Evaluator {
	if classifier == nil {
		classifier = term.NewClassifier(nil)
	}
	return &Evaluator{engine: engine, classifier: classifier}
}

// Execute parses and evaluates text.
func (ev *Evaluator) Execute(text string) (*Results, error) {
	q, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return ev.Evaluate(q)
}

// row is an intermediate solution, or the error that ended its branch.
type row struct {
	b   binding
	err error
}

// Evaluate runs q. Errors wrap ErrEvaluation.
func (ev *Evaluator) Evaluate(q *Query) (*Results, error) {
	rows, err := ev.matchPatterns(q.Where)
	if err != nil {
		return nil, err
	}
	rows = applyFilters(rows, q.Filters)

	switch q.Form {
	case FormAsk:
		return ev.ask(rows)
	case FormSelect:
		rows = applyOrder(rows, q.OrderBy)
		sols := project(rows, q.Variables)
		if q.Distinct || q.Reduced {
			sols = distinct(sols)
		}
		sols = slice(sols, q.Offset, q.Limit)
		return &Results{Kind: ResultSolutions, Variables: q.Variables, Solutions: sols}, nil
	case FormConstruct:
		rows = sliceRows(applyOrder(rows, q.OrderBy), q.Offset, q.Limit)
		graph, err := ev.construct(rows, q.Template)
		if err != nil {
			return nil, err
		}
		return &Results{Kind: ResultGraph, Graph: graph}, nil
	case FormDescribe:
		rows = sliceRows(applyOrder(rows, q.OrderBy), q.Offset, q.Limit)
		graph, err := ev.describe(rows, q.Describe)
		if err != nil {
			return nil, err
		}
		return &Results{Kind: ResultGraph, Graph: graph}, nil
	default:
		return nil, fmt.Errorf("%w: unknown query form %d", ErrEvaluation, q.Form)
	}
}

// matchPatterns joins the triple patterns left to right. A failure on the
// first engine call fails the query; later failures end only their branch.
func (ev *Evaluator) matchPatterns(patterns []TriplePattern) ([]row, error) {
	rows := []row{{b: binding{}}}
	for i, tp := range patterns {
		var next []row
		for _, r := range rows {
			if r.err != nil {
				next = append(next, r)
				continue
			}
			extended, err := ev.matchOne(tp, r.b)
			if err != nil {
				if i == 0 {
					return nil, fmt.Errorf("%w: %w", ErrEvaluation, err)
				}
				next = append(next, extended...)
				next = append(next, row{err: fmt.Errorf("%w: %w", ErrEvaluation, err)})
				continue
			}
			next = append(next, extended...)
		}
		rows = next
	}
	return rows, nil
}

// matchOne extends b with every quad matching tp. Rows found before an
// iterator failure are returned with the error.
func (ev *Evaluator) matchOne(tp TriplePattern, b binding) ([]row, error) {
	pattern := interfaces.Pattern{
		Subject:   resolveNode(tp.Subject, b),
		Predicate: resolveNode(tp.Predicate, b),
		Object:    resolveNode(tp.Object, b),
	}

	it, err := ev.engine.Match(pattern)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var out []row
	for it.Next() {
		q := it.Quad()
		nb := make(binding, len(b)+3)
		for k, v := range b {
			nb[k] = v
		}
		if bindNode(nb, tp.Subject, q.Subject) && bindNode(nb, tp.Predicate, q.Predicate) && bindNode(nb, tp.Object, q.Object) {
			out = append(out, row{b: nb})
		}
	}
	return out, it.Err()
}

// resolveNode turns a pattern position into an engine pattern term; an
// unbound variable becomes the wildcard.
func resolveNode(n Node, b binding) term.Term {
	if !n.IsVar() {
		return n.Term
	}
	return b[n.Var]
}

// bindNode binds a variable position, checking consistency when the same
// variable occurs more than once in a pattern.
func bindNode(b binding, n Node, value term.Term) bool {
	if !n.IsVar() {
		return true
	}
	if existing, ok := b[n.Var]; ok {
		return existing == value
	}
	b[n.Var] = value
	return true
}

func applyFilters(rows []row, filters []Expr) []row {
	if len(filters) == 0 {
		return rows
	}
	out := rows[:0:0]
	for _, r := range rows {
		if r.err != nil {
			out = append(out, r)
			continue
		}
		keep := true
		for _, f := range filters {
			v, err := evalEBV(f, r.b)
			if err != nil || !v {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, r)
		}
	}
	return out
}

// applyOrder sorts rows by conds. Failed rows sort last.
func applyOrder(rows []row, conds []OrderCondition) []row {
	if len(conds) == 0 {
		return rows
	}
	sorted := make([]row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.err != nil || b.err != nil {
			return a.err == nil && b.err != nil
		}
		for _, c := range conds {
			av, aerr := eval(c.Expr, a.b)
			bv, berr := eval(c.Expr, b.b)
			cmp := orderCompare(av, bv, aerr == nil, berr == nil)
			if c.Descending {
				cmp = -cmp
			}
			if cmp != 0 {
				return cmp < 0
			}
		}
		return false
	})
	return sorted
}

func project(rows []row, vars []string) []SolutionResult {
	out := make([]SolutionResult, 0, len(rows))
	for _, r := range rows {
		if r.err != nil {
			out = append(out, SolutionResult{Err: r.err})
			continue
		}
		sol := Solution{}
		for _, v := range vars {
			if val, ok := r.b[v]; ok {
				sol = append(sol, Binding{Name: v, Value: val})
			}
		}
		out = append(out, SolutionResult{Solution: sol})
	}
	return out
}

func distinct(sols []SolutionResult) []SolutionResult {
	seen := map[string]bool{}
	out := sols[:0:0]
	for _, s := range sols {
		if s.Err != nil {
			out = append(out, s)
			continue
		}
		var key strings.Builder
		for _, b := range s.Solution {
			key.WriteString(b.Name)
			key.WriteByte('=')
			key.WriteString(b.Value.String())
			key.WriteByte(0)
		}
		if seen[key.String()] {
			continue
		}
		seen[key.String()] = true
		out = append(out, s)
	}
	return out
}

func bounds(n, offset, limit int) (int, int) {
	start := offset
	if start > n {
		start = n
	}
	end := n
	if limit >= 0 && limit < end-start {
		end = start + limit
	}
	return start, end
}

func slice(sols []SolutionResult, offset, limit int) []SolutionResult {
	start, end := bounds(len(sols), offset, limit)
	return sols[start:end]
}

func sliceRows(rows []row, offset, limit int) []row {
	start, end := bounds(len(rows), offset, limit)
	return rows[start:end]
}

func (ev *Evaluator) ask(rows []row) (*Results, error) {
	var firstErr error
	for _, r := range rows {
		if r.err == nil {
			return &Results{Kind: ResultBoolean, Boolean: true}, nil
		}
		if firstErr == nil {
			firstErr = r.err
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return &Results{Kind: ResultBoolean, Boolean: false}, nil
}

// graphBuilder collects quads without duplicates, in first-seen order.
type graphBuilder struct {
	seen  map[term.Quad]bool
	quads []term.Quad
}

func (g *graphBuilder) add(q term.Quad) {
	if g.seen == nil {
		g.seen = map[term.Quad]bool{}
	}
	if g.seen[q] {
		return
	}
	g.seen[q] = true
	g.quads = append(g.quads, q)
}

func (ev *Evaluator) construct(rows []row, template []TriplePattern) ([]term.Quad, error) {
	var g graphBuilder
	for _, r := range rows {
		if r.err != nil {
			continue
		}
		blanks := map[string]term.Term{}
		instantiate := func(n Node) (term.Term, bool, error) {
			switch {
			case n.Blank != "":
				if t, ok := blanks[n.Blank]; ok {
					return t, true, nil
				}
				t, err := ev.classifier.FreshBlankNode()
				if err != nil {
					return term.Term{}, false, err
				}
				blanks[n.Blank] = t
				return t, true, nil
			case n.IsVar():
				t, ok := r.b[n.Var]
				return t, ok, nil
			default:
				return n.Term, true, nil
			}
		}
		for _, tp := range template {
			s, okS, err := instantiate(tp.Subject)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrEvaluation, err)
			}
			p, okP, err := instantiate(tp.Predicate)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrEvaluation, err)
			}
			o, okO, err := instantiate(tp.Object)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrEvaluation, err)
			}
			if !okS || !okP || !okO {
				continue
			}
			// Instantiations that break the quad shape are skipped.
			if q, err := term.NewQuad(s, p, o); err == nil {
				g.add(q)
			}
		}
	}
	return g.quads, nil
}

func (ev *Evaluator) describe(rows []row, targets []Node) ([]term.Quad, error) {
	var resources []term.Term
	seen := map[term.Term]bool{}
	addResource := func(t term.Term) {
		if t.IsZero() || t.IsLiteral() || seen[t] {
			return
		}
		seen[t] = true
		resources = append(resources, t)
	}
	for _, n := range targets {
		if !n.IsVar() {
			addResource(n.Term)
			continue
		}
		for _, r := range rows {
			if r.err == nil {
				addResource(r.b[n.Var])
			}
		}
	}

	var g graphBuilder
	for _, res := range resources {
		it, err := ev.engine.Match(interfaces.Pattern{Subject: res})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEvaluation, err)
		}
		for it.Next() {
			g.add(it.Quad())
		}
		err = it.Err()
		it.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEvaluation, err)
		}
	}
	return g.quads, nil
}
