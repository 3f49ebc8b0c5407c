package main

import (
	"errors"
	"fmt"

	"github.com/opd-ai/rdfstore"
	"github.com/opd-ai/rdfstore/logging"
	"github.com/opd-ai/rdfstore/marshal"
	"github.com/sirupsen/logrus"
)

// Status codes returned by each export. Success codes are non-negative;
// each call partitions its own negative space.
const (
	statusOK int32 = 0

	addTripleNullArgument   int32 = -1
	addTripleInvalidUTF8    int32 = -2
	addTripleTermParse      int32 = -3
	addTripleInsertFailed   int32 = -4
	containsNullArgument    int32 = -1
	containsInvalidUTF8     int32 = -2
	containsTermParse       int32 = -3
	containsEngineFailed    int32 = -4
	queryNullArgument       int32 = -1
	queryInvalidUTF8        int32 = -2
	queryParseFailed        int32 = -3
	queryExecutionFailed    int32 = -4
	queryEmbeddedNUL        int32 = -5
	queryBufferTooSmall     int32 = -6
	loadNullArgument        int32 = -1
	loadInvalidUTF8         int32 = -2
	loadParseFailed         int32 = -3
	serializeNullArgument   int32 = -1
	serializeDumpFailed     int32 = -2
	serializeBufferTooSmall int32 = -3
	serializeEmbeddedNUL    int32 = -4
	clearNullHandle         int32 = -1
	clearEngineFailed       int32 = -2

	countNullHandle   int64 = -1
	countEngineFailed int64 = -2
)

func isNullArgument(err error) bool {
	return errors.Is(err, marshal.ErrNullPointer) ||
		errors.Is(err, marshal.ErrZeroCapacity) ||
		errors.Is(err, rdfstore.ErrNullArgument)
}

func isBadEncoding(err error) bool {
	return errors.Is(err, marshal.ErrInvalidUTF8) ||
		errors.Is(err, marshal.ErrUnterminated) ||
		errors.Is(err, rdfstore.ErrInvalidEncoding)
}

// mapAddTripleError converts an add_triple failure into its status code.
func mapAddTripleError(err error) int32 {
	switch {
	case isNullArgument(err):
		return addTripleNullArgument
	case isBadEncoding(err):
		return addTripleInvalidUTF8
	case errors.Is(err, rdfstore.ErrTermParse):
		return addTripleTermParse
	default:
		return addTripleInsertFailed
	}
}

// mapContainsError converts a contains_triple failure into its status code.
func mapContainsError(err error) int32 {
	switch {
	case isNullArgument(err):
		return containsNullArgument
	case isBadEncoding(err):
		return containsInvalidUTF8
	case errors.Is(err, rdfstore.ErrTermParse):
		return containsTermParse
	default:
		return containsEngineFailed
	}
}

// mapQueryError converts a query_sparql failure into its status code.
func mapQueryError(err error) int32 {
	switch {
	case isNullArgument(err):
		return queryNullArgument
	case isBadEncoding(err):
		return queryInvalidUTF8
	case errors.Is(err, rdfstore.ErrQueryParse):
		return queryParseFailed
	case errors.Is(err, marshal.ErrEmbeddedNUL):
		return queryEmbeddedNUL
	case errors.Is(err, marshal.ErrBufferTooSmall):
		return queryBufferTooSmall
	default:
		return queryExecutionFailed
	}
}

// mapLoadError converts a load_turtle failure into its status code. Every
// failure after decoding counts as a parse failure.
func mapLoadError(err error) int32 {
	switch {
	case isNullArgument(err):
		return loadNullArgument
	case isBadEncoding(err):
		return loadInvalidUTF8
	default:
		return loadParseFailed
	}
}

// mapSerializeError converts a serialize_turtle failure into its status code.
func mapSerializeError(err error) int32 {
	switch {
	case isNullArgument(err):
		return serializeNullArgument
	case errors.Is(err, marshal.ErrBufferTooSmall):
		return serializeBufferTooSmall
	case errors.Is(err, marshal.ErrEmbeddedNUL):
		return serializeEmbeddedNUL
	default:
		return serializeDumpFailed
	}
}

// mapCountError converts a count_triples failure into its status code.
func mapCountError(err error) int64 {
	if isNullArgument(err) {
		return countNullHandle
	}
	return countEngineFailed
}

// mapClearError converts a clear_store failure into its status code.
func mapClearError(err error) int32 {
	if isNullArgument(err) {
		return clearNullHandle
	}
	return clearEngineFailed
}

// fail logs a failed call at debug level and returns its status code.
func fail[T int32 | int64](function string, err error, mapErr func(error) T) T {
	code := mapErr(err)
	logrus.WithFields(logrus.Fields{
		"function": function,
		"status":   code,
		"error":    err.Error(),
	}).Debug("C API call failed")
	return code
}

// recoverStatus turns a panic in an export into the call's engine failure
// code. It must be deferred directly by the export.
func recoverStatus[T int32 | int64 | uintptr](function string, code T, status *T) {
	if r := recover(); r != nil {
		logging.NewLogger("capi", function).
			WithCaller().
			WithFields(logrus.Fields{"status": code, "panic": fmt.Sprint(r)}).
			Error("Recovered panic in C API call")
		*status = code
	}
}
