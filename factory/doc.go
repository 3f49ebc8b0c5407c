// Package factory creates quad engines for rdfstore.
//
// The factory decouples the Store from concrete engines, so the same Store
// code runs over process memory or a SQLite database depending on
// configuration.
//
// # Configuration
//
// Engines are selected by [interfaces.EngineConfig]:
//   - BackendMemory: an in-process engine; contents vanish with the store
//   - BackendSQLite: a SQLite engine at SQLitePath (":memory:" by default)
//
// Process configuration from the config package maps onto it with
// [NewEngineFactoryFromConfig], which reads RDFSTORE_BACKEND and
// RDFSTORE_SQLITE_PATH among others.
//
// # Usage
//
//	factory := factory.NewEngineFactory(&interfaces.EngineConfig{
//	    Backend:    interfaces.BackendSQLite,
//	    SQLitePath: "quads.db",
//	})
//	engine, err := factory.CreateEngine()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Close()
//
// A SQLite database file is held by one engine at a time, so a second
// CreateEngine on the same file fails until the first engine is closed.
//
// # Thread Safety
//
// EngineFactory is safe for concurrent use.
package factory
