package main

/*
#include <stdint.h>
#include <stddef.h>
*/
import "C"

import (
	"fmt"
	"sync"

	"github.com/opd-ai/rdfstore"
	"github.com/opd-ai/rdfstore/config"
	"github.com/opd-ai/rdfstore/logging"
	"github.com/opd-ai/rdfstore/marshal"
	"github.com/sirupsen/logrus"
)

func main() {} // Required for c-shared build mode

// Store instances by handle. Handle 0 is the null handle.
var (
	stores              = make(map[uintptr]*rdfstore.Store)
	nextStoreID uintptr = 1
	storeMutex  sync.RWMutex
)

// Process configuration, resolved on first successful use.
var (
	configMu       sync.Mutex
	processOptions *rdfstore.Options
	processClock   rdfstore.TimeProvider = rdfstore.RealTimeProvider{}
)

// loadOptions resolves configuration from the environment and configures
// the logger from it. A successful result is kept for the life of the
// process; a failure is not, so the next call reads the environment again.
func loadOptions() (*rdfstore.Options, error) {
	configMu.Lock()
	defer configMu.Unlock()

	if processOptions == nil {
		cfg, err := config.Load()
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "loadOptions",
				"error":    err.Error(),
			}).Warn("Invalid configuration")
			return nil, err
		}
		if err := logging.Configure(cfg.Log.Level, cfg.Log.Format); err != nil {
			logrus.SetLevel(logrus.WarnLevel)
			logrus.WithFields(logrus.Fields{
				"function": "loadOptions",
				"error":    err.Error(),
			}).Warn("Invalid log configuration, using warn level")
		}
		processOptions = rdfstore.OptionsFromConfig(cfg)
		if processOptions.Deterministic {
			processClock = rdfstore.FixedTimeProvider{}
		}
	}
	opts := *processOptions
	return &opts, nil
}

// currentClock returns the clock selected by the process configuration.
func currentClock() rdfstore.TimeProvider {
	configMu.Lock()
	defer configMu.Unlock()
	return processClock
}

// lookupStore returns the store registered under handle.
func lookupStore(handle uintptr) (*rdfstore.Store, error) {
	if handle == 0 {
		return nil, fmt.Errorf("%w: null store handle", rdfstore.ErrNullArgument)
	}
	storeMutex.RLock()
	store, exists := stores[handle]
	storeMutex.RUnlock()
	if !exists {
		return nil, fmt.Errorf("%w: unknown store handle %d", rdfstore.ErrNullArgument, handle)
	}
	return store, nil
}

// readTriple decodes the three term arguments in order.
func readTriple(subject, predicate, object *byte) (s, p, o string, err error) {
	if s, err = marshal.ReadString(subject); err != nil {
		return "", "", "", err
	}
	if p, err = marshal.ReadString(predicate); err != nil {
		return "", "", "", err
	}
	if o, err = marshal.ReadString(object); err != nil {
		return "", "", "", err
	}
	return s, p, o, nil
}

// rdfstore_create_store creates a store and returns its handle, or 0 when
// configuration or engine setup fails.
//
//export rdfstore_create_store
func rdfstore_create_store() (handle uintptr) {
	defer recoverStatus("rdfstore_create_store", 0, &handle)

	opts, err := loadOptions()
	if err != nil {
		return 0
	}
	store, err := rdfstore.New(opts)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "rdfstore_create_store",
			"error":    err.Error(),
		}).Debug("Failed to create store")
		return 0
	}

	storeMutex.Lock()
	defer storeMutex.Unlock()

	handle = nextStoreID
	nextStoreID++
	stores[handle] = store

	logrus.WithFields(logrus.Fields{
		"function": "rdfstore_create_store",
		"handle":   handle,
	}).Debug("Created store")
	return handle
}

// rdfstore_destroy_store releases the store behind handle. The null handle
// is ignored.
//
//export rdfstore_destroy_store
func rdfstore_destroy_store(handle uintptr) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"function": "rdfstore_destroy_store",
				"panic":    r,
			}).Error("Recovered panic in C API call")
		}
	}()
	if handle == 0 {
		return
	}

	storeMutex.Lock()
	store, exists := stores[handle]
	delete(stores, handle)
	storeMutex.Unlock()

	if !exists {
		return
	}
	if err := store.Close(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "rdfstore_destroy_store",
			"handle":   handle,
			"error":    err.Error(),
		}).Debug("Failed to close store cleanly")
		return
	}
	logrus.WithFields(logrus.Fields{
		"function": "rdfstore_destroy_store",
		"handle":   handle,
	}).Debug("Destroyed store")
}

// rdfstore_add_triple inserts one statement built from three text terms.
//
//export rdfstore_add_triple
func rdfstore_add_triple(handle uintptr, subject, predicate, object *byte) (status int32) {
	const function = "rdfstore_add_triple"
	defer recoverStatus(function, addTripleInsertFailed, &status)

	store, err := lookupStore(handle)
	if err != nil {
		return fail(function, err, mapAddTripleError)
	}
	s, p, o, err := readTriple(subject, predicate, object)
	if err != nil {
		return fail(function, err, mapAddTripleError)
	}
	if err := store.AddTriple(s, p, o); err != nil {
		return fail(function, err, mapAddTripleError)
	}
	return statusOK
}

// rdfstore_contains_triple returns 1 when the statement is stored and 0
// when it is not.
//
//export rdfstore_contains_triple
func rdfstore_contains_triple(handle uintptr, subject, predicate, object *byte) (status int32) {
	const function = "rdfstore_contains_triple"
	defer recoverStatus(function, containsEngineFailed, &status)

	store, err := lookupStore(handle)
	if err != nil {
		return fail(function, err, mapContainsError)
	}
	s, p, o, err := readTriple(subject, predicate, object)
	if err != nil {
		return fail(function, err, mapContainsError)
	}
	ok, err := store.ContainsTriple(s, p, o)
	if err != nil {
		return fail(function, err, mapContainsError)
	}
	if ok {
		return 1
	}
	return 0
}

// rdfstore_query_sparql evaluates a query and writes the rendered result
// into result. It returns the content length without the terminator.
//
//export rdfstore_query_sparql
func rdfstore_query_sparql(handle uintptr, query *byte, result *byte, resultLen uintptr) (status int32) {
	const function = "rdfstore_query_sparql"
	defer recoverStatus(function, queryExecutionFailed, &status)

	store, err := lookupStore(handle)
	if err != nil {
		return fail(function, err, mapQueryError)
	}
	if query == nil {
		return fail(function, marshal.ErrNullPointer, mapQueryError)
	}
	if err := marshal.CheckBuffer(result, resultLen); err != nil {
		return fail(function, err, mapQueryError)
	}
	text, err := marshal.ReadString(query)
	if err != nil {
		return fail(function, err, mapQueryError)
	}

	out, err := store.QueryText(text)
	if err != nil {
		return fail(function, err, mapQueryError)
	}
	n, err := marshal.WriteString(result, resultLen, out)
	if err != nil {
		return fail(function, err, mapQueryError)
	}
	return n
}

// rdfstore_load_turtle parses text as Turtle into the store. base may be
// null; when present it must be valid UTF-8 but is not used for resolution.
//
//export rdfstore_load_turtle
func rdfstore_load_turtle(handle uintptr, text *byte, base *byte) (status int32) {
	const function = "rdfstore_load_turtle"
	defer recoverStatus(function, loadParseFailed, &status)

	store, err := lookupStore(handle)
	if err != nil {
		return fail(function, err, mapLoadError)
	}
	data, err := marshal.ReadString(text)
	if err != nil {
		return fail(function, err, mapLoadError)
	}
	baseText, _, err := marshal.ReadOptionalString(base)
	if err != nil {
		return fail(function, err, mapLoadError)
	}
	if err := store.LoadTurtle(data, baseText); err != nil {
		return fail(function, err, mapLoadError)
	}
	return statusOK
}

// rdfstore_serialize_turtle writes the whole store as Turtle into result.
// It returns the content length without the terminator.
//
//export rdfstore_serialize_turtle
func rdfstore_serialize_turtle(handle uintptr, result *byte, resultLen uintptr) (status int32) {
	const function = "rdfstore_serialize_turtle"
	defer recoverStatus(function, serializeDumpFailed, &status)

	store, err := lookupStore(handle)
	if err != nil {
		return fail(function, err, mapSerializeError)
	}
	if err := marshal.CheckBuffer(result, resultLen); err != nil {
		return fail(function, err, mapSerializeError)
	}

	out, err := store.SerializeTurtle()
	if err != nil {
		return fail(function, err, mapSerializeError)
	}
	n, err := marshal.WriteString(result, resultLen, out)
	if err != nil {
		return fail(function, err, mapSerializeError)
	}
	return n
}

// rdfstore_count_triples returns the number of stored statements.
//
//export rdfstore_count_triples
func rdfstore_count_triples(handle uintptr) (count int64) {
	const function = "rdfstore_count_triples"
	defer recoverStatus(function, countEngineFailed, &count)

	store, err := lookupStore(handle)
	if err != nil {
		return fail(function, err, mapCountError)
	}
	n, err := store.Count()
	if err != nil {
		return fail(function, err, mapCountError)
	}
	return n
}

// rdfstore_clear_store removes every statement from the store.
//
//export rdfstore_clear_store
func rdfstore_clear_store(handle uintptr) (status int32) {
	const function = "rdfstore_clear_store"
	defer recoverStatus(function, clearEngineFailed, &status)

	store, err := lookupStore(handle)
	if err != nil {
		return fail(function, err, mapClearError)
	}
	if err := store.Clear(); err != nil {
		return fail(function, err, mapClearError)
	}
	return statusOK
}

// rdfstore_now returns the process clock as milliseconds since the Unix
// epoch; 0 when deterministic mode is configured.
//
//export rdfstore_now
func rdfstore_now() uint64 {
	_, _ = loadOptions()
	return rdfstore.UnixMillis(currentClock())
}
