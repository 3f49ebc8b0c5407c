// Package results renders query outcomes into the single text form copied
// across the C boundary.
//
// Solutions render one row per line, each bound variable as name=value with
// bindings joined by ", ". Values use N-Triples term syntax. Rows that failed
// during evaluation are dropped. Boolean outcomes render as "true" or
// "false", and graph outcomes as the fixed text GraphPlaceholder.
package results

import (
	"strings"

	"github.com/opd-ai/rdfstore/logging"
	"github.com/opd-ai/rdfstore/sparql"
	"github.com/opd-ai/rdfstore/term"
)

// GraphPlaceholder is the rendering of CONSTRUCT and DESCRIBE results.
const GraphPlaceholder = "graph result"

const (
	bindingSeparator = ", "
	rowSeparator     = "\n"
)

// Render returns the text form of res. A nil res renders as the empty string.
func Render(res *sparql.Results) string {
	if res == nil {
		return ""
	}
	switch res.Kind {
	case sparql.ResultBoolean:
		return Boolean(res.Boolean)
	case sparql.ResultGraph:
		return GraphPlaceholder
	default:
		return Solutions(res.Solutions)
	}
}

// Boolean renders an ASK answer.
func Boolean(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// Solutions renders SELECT rows, skipping rows that carry an error.
func Solutions(rows []sparql.SolutionResult) string {
	var b strings.Builder
	written, dropped := 0, 0
	for _, r := range rows {
		if r.Err != nil {
			dropped++
			continue
		}
		if written > 0 {
			b.WriteString(rowSeparator)
		}
		writeSolution(&b, r.Solution)
		written++
	}
	if dropped > 0 {
		logging.NewLogger("results", "Solutions").
			WithField("rows", written).
			WithField("dropped", dropped).
			Debug("Dropped failed solution rows")
	}
	return b.String()
}

func writeSolution(b *strings.Builder, s sparql.Solution) {
	for i, binding := range s {
		if i > 0 {
			b.WriteString(bindingSeparator)
		}
		b.WriteString(binding.Name)
		b.WriteByte('=')
		b.WriteString(binding.Value.String())
	}
}

// Graph renders quads as N-Triples, one statement per line. The C surface
// keeps GraphPlaceholder; this form serves Go callers and the CLI.
func Graph(quads []term.Quad) string {
	var b strings.Builder
	for _, q := range quads {
		b.WriteString(q.String())
		b.WriteByte('\n')
	}
	return b.String()
}
