// Package rdfstore implements an embedded RDF quad store with a text-in,
// text-out API, and the flat C call surface built on it (see package capi).
//
// # Getting Started
//
// Create a store, add statements as plain text, and query them with SPARQL:
//
//	store, err := rdfstore.New(rdfstore.NewOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	_ = store.AddTriple("http://example.org/a", "http://example.org/p", "http://example.org/b")
//	_ = store.AddTriple("http://example.org/a", "http://example.org/p", "plain text")
//
//	out, err := store.QueryText("SELECT ?o WHERE { <http://example.org/a> ?p ?o }")
//	// o=<http://example.org/b>
//	// o="plain text"
//
// # Term Classification
//
// Text arguments are classified by prefix rather than parsed as full RDF term
// syntax:
//
//   - text starting with "http" is an IRI and must parse as one
//   - text starting with "_:" is a blank node; an invalid label is replaced by a fresh one
//   - any other text is a plain literal in object position and an error elsewhere
//
// An object such as "urn:isbn:123" is therefore stored as a literal, not as
// an IRI.
//
// # Storage Backends
//
// [Options.Backend] selects the engine: "memory" (default) keeps quads in a
// slice, "sqlite" stores them in a SQLite database at [Options.SQLitePath].
// Both have set semantics and return quads in insertion order.
//
// # Determinism
//
// [Options.Deterministic] swaps the clock for [FixedTimeProvider] and the
// random source for [NewDeterministicSource], so blank node identifiers
// minted for CONSTRUCT templates and invalid labels repeat across runs.
//
// # Errors
//
// Every method returns errors wrapping one of the package sentinels
// ([ErrTermParse], [ErrQueryParse], [ErrEngine], ...). Package capi maps
// them onto the per-call negative status codes.
package rdfstore
