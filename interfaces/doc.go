// Package interfaces defines the storage abstraction behind an rdfstore Store.
//
// A Store never touches storage directly. It classifies text into terms,
// then hands quads to an [IQuadEngine], which may keep them in memory or in a
// SQLite database. The same Store code runs on both, which keeps tests fast
// and lets hosts choose durability through configuration.
//
// # Core Interfaces
//
// [IQuadEngine] is the primary interface. It stores default-graph quads with
// set semantics and answers exact lookups and pattern matches:
//
//	engine := memory.New()
//	q, _ := term.NewClassifier(nil).BuildQuad("http://a", "http://p", "x")
//	if err := engine.Insert(q); err != nil {
//	    log.Printf("insert failed: %v", err)
//	}
//
// [IQuadIterator] walks Match results in insertion order. Iterators must be
// closed; a SQLite iterator holds a database cursor until then.
//
// # Patterns
//
// A [Pattern] binds zero or more positions. An unbound position is the zero
// term.Term:
//
//	it, err := engine.Match(interfaces.Pattern{Predicate: rdfType})
//
// # Configuration
//
// [EngineConfig] names the backend and, for SQLite, the database path:
//
//	config := &interfaces.EngineConfig{
//	    Backend:    interfaces.BackendSQLite,
//	    SQLitePath: "/var/lib/app/quads.db",
//	}
//
// # Thread Safety
//
// Engines must be safe for concurrent use. A Store serializes writes itself,
// but read calls may arrive from several goroutines.
//
// # Error Handling
//
// Methods return errors for:
//   - Insert: engine closed, storage failure
//   - Contains/Len/Match: engine closed, storage failure
//   - IQuadIterator.Err: a row that could not be decoded
package interfaces
