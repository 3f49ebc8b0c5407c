package sparql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelect(t *testing.T) {
	q, err := Parse(`PREFIX ex: <http://example.org/>
SELECT DISTINCT ?s ?o WHERE { ?s ex:p ?o ; a ex:T , ex:U . FILTER(?o != "x") } ORDER BY DESC(?o) ?s LIMIT 5 OFFSET 2`)
	require.NoError(t, err)

	assert.Equal(t, FormSelect, q.Form)
	assert.True(t, q.Distinct)
	assert.Equal(t, []string{"s", "o"}, q.Variables)
	require.Len(t, q.Where, 3)
	assert.Equal(t, "http://example.org/p", q.Where[0].Predicate.Term.Value())
	assert.Equal(t, rdfType, q.Where[1].Predicate.Term.Value())
	assert.Equal(t, "http://example.org/U", q.Where[2].Object.Term.Value())
	assert.Equal(t, "s", q.Where[2].Subject.Var)
	require.Len(t, q.Filters, 1)
	require.Len(t, q.OrderBy, 2)
	assert.True(t, q.OrderBy[0].Descending)
	assert.False(t, q.OrderBy[1].Descending)
	assert.Equal(t, 5, q.Limit)
	assert.Equal(t, 2, q.Offset)
}

func TestParseSelectStar(t *testing.T) {
	q, err := Parse(`SELECT * WHERE { ?a <http://p> _:b . _:b <http://q> ?c }`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, q.Variables, "blank nodes are not projected")
	assert.Equal(t, -1, q.Limit)

	q, err = Parse(`SELECT * {}`)
	require.NoError(t, err)
	assert.Empty(t, q.Variables)
	assert.NotNil(t, q.Variables)
}

func TestParseLiterals(t *testing.T) {
	q, err := Parse(`PREFIX xsd: <http://www.w3.org/2001/XMLSchema#>
SELECT ?s WHERE {
  ?s <http://p> "plain", 'single', "chat"@fr, "1"^^xsd:integer, "s"^^xsd:string,
     42, -3, 1.5, 2e3, true, """long
text""" .
}`)
	require.NoError(t, err)
	require.Len(t, q.Where, 11)

	objects := make([]string, len(q.Where))
	for i, tp := range q.Where {
		objects[i] = tp.Object.Term.String()
	}
	assert.Equal(t, []string{
		`"plain"`,
		`"single"`,
		`"chat"@fr`,
		`"1"^^<http://www.w3.org/2001/XMLSchema#integer>`,
		`"s"`,
		`"42"^^<http://www.w3.org/2001/XMLSchema#integer>`,
		`"-3"^^<http://www.w3.org/2001/XMLSchema#integer>`,
		`"1.5"^^<http://www.w3.org/2001/XMLSchema#decimal>`,
		`"2e3"^^<http://www.w3.org/2001/XMLSchema#double>`,
		`"true"^^<http://www.w3.org/2001/XMLSchema#boolean>`,
		`"long\ntext"`,
	}, objects)
}

func TestParseStringEscapes(t *testing.T) {
	q, err := Parse(`ASK { ?s ?p "a\"b\\cé\t" }`)
	require.NoError(t, err)
	assert.Equal(t, "a\"b\\cé\t", q.Where[0].Object.Term.Value())
}

func TestParseBase(t *testing.T) {
	q, err := Parse(`BASE <http://example.org/dir/> SELECT ?s { ?s <p> <../q> }`)
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/dir/p", q.Where[0].Predicate.Term.Value())
	assert.Equal(t, "http://example.org/q", q.Where[0].Object.Term.Value())
}

func TestParseConstructAndDescribe(t *testing.T) {
	q, err := Parse(`CONSTRUCT { ?s <http://q> _:n . _:n <http://r> ?o } WHERE { ?s <http://p> ?o }`)
	require.NoError(t, err)
	assert.Equal(t, FormConstruct, q.Form)
	require.Len(t, q.Template, 2)
	assert.Equal(t, "n", q.Template[0].Object.Blank)
	assert.Equal(t, "n", q.Template[1].Subject.Blank)

	q, err = Parse(`DESCRIBE <http://a>`)
	require.NoError(t, err)
	assert.Equal(t, FormDescribe, q.Form)
	require.Len(t, q.Describe, 1)
	assert.Empty(t, q.Where)

	q, err = Parse(`DESCRIBE * WHERE { ?x <http://p> ?y }`)
	require.NoError(t, err)
	assert.Equal(t, []Node{{Var: "x"}, {Var: "y"}}, q.Describe)
}

func TestParseComments(t *testing.T) {
	_, err := Parse("# leading comment\nASK { # inside\n ?s ?p ?o }")
	assert.NoError(t, err)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"garbage", "not a query"},
		{"empty", ""},
		{"unterminated group", "SELECT ?s WHERE { ?s ?p ?o"},
		{"missing projection", "SELECT WHERE { ?s ?p ?o }"},
		{"unknown prefix", "SELECT ?s WHERE { ?s ex:p ?o }"},
		{"literal subject", `SELECT ?s WHERE { "x" ?p ?o }`},
		{"literal predicate", `SELECT ?s WHERE { ?s "p" ?o }`},
		{"relative iri without base", "SELECT ?s WHERE { ?s <p> ?o }"},
		{"unterminated string", `SELECT ?s WHERE { ?s ?p "abc }`},
		{"bad escape", `SELECT ?s WHERE { ?s ?p "\q" }`},
		{"unsupported keyword", "SELECT ?s WHERE { OPTIONAL { ?s ?p ?o } }"},
		{"trailing tokens", "ASK { ?s ?p ?o } ?x"},
		{"bound needs variable", `ASK { ?s ?p ?o FILTER(BOUND("x")) }`},
		{"wrong arity", `ASK { ?s ?p ?o FILTER(STR(?s, ?p)) }`},
		{"bad limit", "SELECT ?s WHERE { ?s ?p ?o } LIMIT x"},
		{"missing object", "SELECT ?s WHERE { ?s ?p }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.query)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestFormString(t *testing.T) {
	assert.Equal(t, "SELECT", FormSelect.String())
	assert.Equal(t, "ASK", FormAsk.String())
	assert.Equal(t, "CONSTRUCT", FormConstruct.String())
	assert.Equal(t, "DESCRIBE", FormDescribe.String())
	assert.Equal(t, "solutions", ResultSolutions.String())
	assert.Equal(t, "boolean", ResultBoolean.String())
	assert.Equal(t, "graph", ResultGraph.String())
}
