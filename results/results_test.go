package results

import (
	"errors"
	"testing"

	"github.com/opd-ai/rdfstore/engine/memory"
	"github.com/opd-ai/rdfstore/sparql"
	"github.com/opd-ai/rdfstore/term"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func mustIRI(t *testing.T, v string) term.Term {
	t.Helper()
	i, err := term.NewIRI(v)
	require.NoError(t, err)
	return i
}

func mustBlank(t *testing.T, label string) term.Term {
	t.Helper()
	b, err := term.NewBlankNode(label)
	require.NoError(t, err)
	return b
}

func TestRenderSolutionsGolden(t *testing.T) {
	res := &sparql.Results{
		Kind:      sparql.ResultSolutions,
		Variables: []string{"s", "o"},
		Solutions: []sparql.SolutionResult{
			{Solution: sparql.Solution{
				{Name: "s", Value: mustIRI(t, "http://ex/a")},
				{Name: "o", Value: term.NewLiteral("plain")},
			}},
			{Solution: sparql.Solution{
				{Name: "s", Value: mustBlank(t, "b1")},
				{Name: "o", Value: term.NewLangLiteral("chat", "fr")},
			}},
			{Err: errors.New("engine failed mid-row")},
			{Solution: sparql.Solution{
				{Name: "s", Value: mustIRI(t, "http://ex/c")},
				{Name: "o", Value: term.NewTypedLiteral("42", "http://www.w3.org/2001/XMLSchema#integer")},
			}},
			{Solution: sparql.Solution{
				{Name: "s", Value: mustIRI(t, "http://ex/d")},
				{Name: "o", Value: term.NewLiteral("say \"hi\"\n")},
			}},
			{Solution: sparql.Solution{
				{Name: "s", Value: mustIRI(t, "http://ex/e")},
			}},
		},
	}

	newGoldie(t).Assert(t, "select_rows", []byte(Render(res)))
}

func TestRenderGraphGolden(t *testing.T) {
	p := mustIRI(t, "http://ex/p")
	q1, err := term.NewQuad(mustIRI(t, "http://ex/a"), p, mustIRI(t, "http://ex/b"))
	require.NoError(t, err)
	q2, err := term.NewQuad(mustBlank(t, "n"), p, term.NewLiteral("tab\there"))
	require.NoError(t, err)

	newGoldie(t).Assert(t, "graph_ntriples", []byte(Graph([]term.Quad{q1, q2})))
}

func TestRenderKinds(t *testing.T) {
	tests := []struct {
		name string
		res  *sparql.Results
		want string
	}{
		{"nil", nil, ""},
		{"true", &sparql.Results{Kind: sparql.ResultBoolean, Boolean: true}, "true"},
		{"false", &sparql.Results{Kind: sparql.ResultBoolean}, "false"},
		{"graph", &sparql.Results{Kind: sparql.ResultGraph}, GraphPlaceholder},
		{"no rows", &sparql.Results{Kind: sparql.ResultSolutions}, ""},
		{"only failed rows", &sparql.Results{
			Kind:      sparql.ResultSolutions,
			Solutions: []sparql.SolutionResult{{Err: errors.New("a")}, {Err: errors.New("b")}},
		}, ""},
		{"empty solution", &sparql.Results{
			Kind:      sparql.ResultSolutions,
			Solutions: []sparql.SolutionResult{{Solution: sparql.Solution{}}, {Solution: sparql.Solution{}}},
		}, "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.res))
		})
	}
}

func TestRenderEvaluatedQuery(t *testing.T) {
	e := memory.New()
	c := term.NewClassifier(nil)
	for _, triple := range [][3]string{
		{"http://a", "http://p", "http://b"},
		{"http://a", "http://p", "plain"},
	} {
		q, err := c.BuildQuad(triple[0], triple[1], triple[2])
		require.NoError(t, err)
		require.NoError(t, e.Insert(q))
	}
	ev := sparql.NewEvaluator(e, c)

	res, err := ev.Execute(`SELECT ?o ?s WHERE { ?s <http://p> ?o }`)
	require.NoError(t, err)
	assert.Equal(t, "o=<http://b>, s=<http://a>\no=\"plain\", s=<http://a>", Render(res))

	res, err = ev.Execute(`ASK { <http://a> <http://p> "plain" }`)
	require.NoError(t, err)
	assert.Equal(t, "true", Render(res))

	res, err = ev.Execute(`CONSTRUCT { ?s <http://q> ?o } WHERE { ?s <http://p> ?o }`)
	require.NoError(t, err)
	assert.Equal(t, "graph result", Render(res))
	assert.Equal(t, "<http://a> <http://q> <http://b> .\n<http://a> <http://q> \"plain\" .\n", Graph(res.Graph))
}

func TestSolution(t *testing.T) {
	s := sparql.Solution{
		{Name: "x", Value: term.NewLiteral("1")},
		{Name: "y", Value: mustIRI(t, "http://ex/y")},
	}
	assert.Equal(t, `x="1", y=<http://ex/y>`, Solutions([]sparql.SolutionResult{{Solution: s}}))
	assert.Equal(t, "", Solutions([]sparql.SolutionResult{{Solution: nil}}))
}
