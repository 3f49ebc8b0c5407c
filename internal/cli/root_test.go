package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opd-ai/rdfstore"
	"github.com/opd-ai/rdfstore/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const people = `@prefix ex: <http://example.org/> .
ex:alice ex:knows ex:bob .
ex:alice ex:name "Alice" .
`

// execute runs the root command with args and returns standard output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// sqliteArgs returns flags selecting a fresh sqlite database shared by
// every invocation in the test.
func sqliteArgs(t *testing.T) []string {
	return []string{"--backend", "sqlite", "--sqlite-path", filepath.Join(t.TempDir(), "store.db")}
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "rdfstore", cmd.Use)
	assert.Contains(t, cmd.Long, "blank node")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"add", "contains", "count", "query", "quads", "dump", "load", "clear"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()
	defaults := map[string]string{
		"config":        "",
		"backend":       "memory",
		"sqlite-path":   ":memory:",
		"log-level":     "warn",
		"log-format":    "text",
		"deterministic": "false",
		"seed":          "rdfstore",
		"data":          "[]",
	}
	for name, def := range defaults {
		flag := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, def, flag.DefValue, name)
	}
}

func TestCountWithData(t *testing.T) {
	data := writeFile(t, "people.ttl", people)

	out, err := execute(t, "", "count", "--data", data)
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	out, err = execute(t, "", "count")
	require.NoError(t, err)
	assert.Equal(t, "0\n", out, "the memory backend starts empty")
}

func TestContains(t *testing.T) {
	data := writeFile(t, "people.ttl", people)

	out, err := execute(t, "", "contains", "--data", data,
		"http://example.org/alice", "http://example.org/name", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	out, err = execute(t, "", "contains", "--data", data,
		"http://example.org/alice", "http://example.org/name", "Bob")
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)
}

func TestQuery(t *testing.T) {
	data := writeFile(t, "people.ttl", people)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			"select",
			[]string{"query", "SELECT ?o WHERE { <http://example.org/alice> <http://example.org/knows> ?o }"},
			"o=<http://example.org/bob>\n",
		},
		{
			"ask",
			[]string{"query", "ASK { ?s <http://example.org/name> \"Alice\" }"},
			"true\n",
		},
		{
			"construct as n-triples",
			[]string{"query", "CONSTRUCT { ?o <http://example.org/knownBy> ?s } WHERE { ?s <http://example.org/knows> ?o }"},
			"<http://example.org/bob> <http://example.org/knownBy> <http://example.org/alice> .\n",
		},
		{
			"construct placeholder",
			[]string{"query", "--placeholder", "CONSTRUCT { ?o <http://example.org/knownBy> ?s } WHERE { ?s <http://example.org/knows> ?o }"},
			"graph result\n",
		},
		{
			"no rows",
			[]string{"query", "SELECT ?s WHERE { ?s <http://example.org/none> ?o }"},
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "", append(tt.args, "--data", data)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestQueryFromStdin(t *testing.T) {
	data := writeFile(t, "people.ttl", people)
	out, err := execute(t, "ASK { <http://example.org/alice> ?p ?o }\n", "query", "-", "--data", data)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestQueryParseError(t *testing.T) {
	_, err := execute(t, "", "query", "SELECT WHERE {")
	assert.ErrorIs(t, err, rdfstore.ErrQueryParse)
}

func TestSQLiteSession(t *testing.T) {
	db := sqliteArgs(t)
	run := func(args ...string) string {
		t.Helper()
		out, err := execute(t, "", append(args, db...)...)
		require.NoError(t, err, strings.Join(args, " "))
		return out
	}

	run("add", "http://a", "http://p", "http://b")
	run("add", "http://a", "http://p", "plain")
	run("add", "http://a", "http://p", "plain")
	assert.Equal(t, "2\n", run("count"))
	assert.Equal(t, "true\n", run("contains", "http://a", "http://p", "plain"))

	dump := run("dump")
	assert.Equal(t, 2, strings.Count(dump, "\n"))

	run("clear")
	assert.Equal(t, "0\n", run("count"))

	path := writeFile(t, "dump.ttl", dump)
	assert.Equal(t, "2\n", run("load", path))
}

func TestLoadFromStdin(t *testing.T) {
	out, err := execute(t, people, "load", "-")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)
}

func TestLoadErrors(t *testing.T) {
	_, err := execute(t, "", "load", filepath.Join(t.TempDir(), "missing.ttl"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := writeFile(t, "bad.ttl", "this is not turtle")
	_, err = execute(t, "", "load", bad)
	assert.ErrorIs(t, err, rdfstore.ErrTurtleParse)

	_, err = execute(t, "", "count", "--data", bad)
	assert.ErrorIs(t, err, rdfstore.ErrTurtleParse)
}

func TestQuads(t *testing.T) {
	data := writeFile(t, "people.ttl", people)

	out, err := execute(t, "", "quads", "--data", data)
	require.NoError(t, err)
	assert.Equal(t, "<http://example.org/alice> <http://example.org/knows> <http://example.org/bob> .\n"+
		"<http://example.org/alice> <http://example.org/name> \"Alice\" .\n", out)

	out, err = execute(t, "", "quads", "-n", "1", "--data", data)
	require.NoError(t, err)
	assert.Equal(t, "<http://example.org/alice> <http://example.org/knows> <http://example.org/bob> .\n", out)

	out, err = execute(t, "", "quads")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDumpToFile(t *testing.T) {
	data := writeFile(t, "people.ttl", people)
	target := filepath.Join(t.TempDir(), "out.ttl")

	out, err := execute(t, "", "dump", "--data", data, "-o", target)
	require.NoError(t, err)
	assert.Empty(t, out)

	written, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(written), "\n"))
}

func TestAddErrors(t *testing.T) {
	_, err := execute(t, "", "add", "plain", "http://p", "x")
	assert.ErrorIs(t, err, rdfstore.ErrTermParse)

	_, err = execute(t, "", "add", "http://a", "http://p")
	assert.Error(t, err, "add takes three arguments")
}

func TestInvalidConfiguration(t *testing.T) {
	_, err := execute(t, "", "count", "--backend", "tape")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

}

func TestUnknownLogLevelFallsBack(t *testing.T) {
	out, err := execute(t, "", "count", "--log-level", "chatty", "--log-format", "xml")
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)
}

func TestConfigFile(t *testing.T) {
	db := filepath.Join(t.TempDir(), "store.db")
	cfgFile := writeFile(t, "rdfstore.yaml", "backend: sqlite\nsqlite:\n  path: "+db+"\n")

	_, err := execute(t, "", "add", "--config", cfgFile, "http://a", "http://p", "x")
	require.NoError(t, err)

	out, err := execute(t, "", "count", "--config", cfgFile)
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}
