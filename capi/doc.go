// Package main provides the C API for rdfstore, a flat call surface over an
// embedded RDF quad store for hosts that can only speak the C ABI.
//
// # Build Instructions
//
// To build as a C shared library:
//
//	go build -buildmode=c-shared -o librdfstore.so ./capi/
//
// This generates:
//   - librdfstore.so: The shared library
//   - librdfstore.h: Auto-generated C header file with function declarations
//
// # C API Usage
//
//	#include "librdfstore.h"
//
//	uintptr_t store = rdfstore_create_store();
//	if (store == 0) {
//	    fprintf(stderr, "Failed to create store\n");
//	    return 1;
//	}
//
//	rdfstore_add_triple(store, "http://a", "http://p", "http://b");
//	rdfstore_add_triple(store, "http://a", "http://p", "plain");
//
//	char buf[1024];
//	int32_t n = rdfstore_query_sparql(store,
//	    "SELECT ?s ?o WHERE { ?s <http://p> ?o }", buf, sizeof buf);
//	if (n >= 0) {
//	    printf("%s\n", buf);
//	}
//
//	rdfstore_destroy_store(store);
//
// # Handles
//
// Stores are identified by opaque integer handles. Handle 0 is the null
// handle and is never issued. Destroying a handle twice, or destroying the
// null handle, is a no-op. Any call on an unknown or destroyed handle
// reports a null-argument failure.
//
// # Term Text
//
// Subjects, predicates and objects are passed as plain text and classified
// the same way everywhere: "_:label" is a blank node, text beginning with
// "http://" or "https://" is an IRI, and anything else is a plain literal.
// Predicates must be IRIs. Objects such as "urn:isbn:123" are therefore
// stored as literals.
//
// # Output Buffers
//
// Query and serialize calls write a zero-terminated string into a
// caller-supplied buffer and return the content length without the
// terminator. When the output does not fit, or contains a zero byte, the
// call fails and the buffer is left untouched. A null buffer or zero
// capacity is a null-argument failure.
//
// Query results are rendered as one line per solution with name=value
// pairs separated by ", ". ASK renders as "true" or "false". CONSTRUCT and
// DESCRIBE render as the fixed text "graph result".
//
// # Status Codes
//
// Every call returns 0 or a non-negative count on success and a negative
// status on failure; the meaning of each negative value is per call:
//
//	rdfstore_add_triple       -1 null  -2 encoding  -3 term      -4 insert
//	rdfstore_contains_triple  -1 null  -2 encoding  -3 term      -4 engine
//	rdfstore_query_sparql     -1 null  -2 encoding  -3 parse     -4 evaluate
//	                          -5 zero byte in output  -6 buffer too small
//	rdfstore_load_turtle      -1 null  -2 encoding  -3 parse
//	rdfstore_serialize_turtle -1 null  -2 dump      -3 too small -4 zero byte
//	rdfstore_count_triples    -1 null  -2 engine
//	rdfstore_clear_store      -1 null  -2 engine
//
// A panic inside any call is recovered and reported as that call's engine
// failure code.
//
// # Configuration
//
// The library reads its configuration on the first store creation from
// RDFSTORE_* environment variables and the optional file named by
// RDFSTORE_CONFIG, and keeps it once it is valid. While it is invalid,
// rdfstore_create_store returns 0 and the next call reads it again.
// RDFSTORE_BACKEND selects "memory" or "sqlite", RDFSTORE_LOG_LEVEL controls
// logging (an unknown level falls back to warn), and RDFSTORE_DETERMINISTIC
// pins the clock to the Unix epoch and seeds blank node generation.
//
// A SQLite database file backs at most one live handle. Creating a second
// store on the same RDFSTORE_SQLITE_PATH returns 0 until the first handle is
// destroyed. The default ":memory:" path gives every handle its own database.
//
// # Thread Safety
//
// All calls may be made from any thread. Calls against the same handle are
// serialized.
package main
