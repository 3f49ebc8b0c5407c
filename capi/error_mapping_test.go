package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/opd-ai/rdfstore"
	"github.com/opd-ai/rdfstore/marshal"
)

func wrap(err error) error {
	return fmt.Errorf("context: %w", err)
}

// TestMapAddTripleError verifies add_triple error classification.
func TestMapAddTripleError(t *testing.T) {
	tests := []struct {
		err  error
		want int32
	}{
		{marshal.ErrNullPointer, -1},
		{wrap(rdfstore.ErrNullArgument), -1},
		{marshal.ErrInvalidUTF8, -2},
		{marshal.ErrUnterminated, -2},
		{wrap(rdfstore.ErrInvalidEncoding), -2},
		{wrap(rdfstore.ErrTermParse), -3},
		{wrap(rdfstore.ErrEngine), -4},
		{rdfstore.ErrClosed, -4},
		{errors.New("anything else"), -4},
	}
	for _, tt := range tests {
		if got := mapAddTripleError(tt.err); got != tt.want {
			t.Errorf("mapAddTripleError(%v) = %d, want %d", tt.err, got, tt.want)
		}
		if got := mapContainsError(tt.err); got != tt.want {
			t.Errorf("mapContainsError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

// TestMapQueryError verifies query_sparql error classification.
func TestMapQueryError(t *testing.T) {
	tests := []struct {
		err  error
		want int32
	}{
		{marshal.ErrNullPointer, -1},
		{marshal.ErrZeroCapacity, -1},
		{wrap(rdfstore.ErrNullArgument), -1},
		{marshal.ErrInvalidUTF8, -2},
		{wrap(rdfstore.ErrInvalidEncoding), -2},
		{wrap(rdfstore.ErrQueryParse), -3},
		{wrap(rdfstore.ErrQueryEvaluation), -4},
		{rdfstore.ErrClosed, -4},
		{wrap(marshal.ErrEmbeddedNUL), -5},
		{wrap(marshal.ErrBufferTooSmall), -6},
	}
	for _, tt := range tests {
		if got := mapQueryError(tt.err); got != tt.want {
			t.Errorf("mapQueryError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

// TestMapLoadError verifies that every failure past decoding is a parse
// failure.
func TestMapLoadError(t *testing.T) {
	tests := []struct {
		err  error
		want int32
	}{
		{marshal.ErrNullPointer, -1},
		{wrap(rdfstore.ErrNullArgument), -1},
		{marshal.ErrInvalidUTF8, -2},
		{wrap(rdfstore.ErrInvalidEncoding), -2},
		{wrap(rdfstore.ErrTurtleParse), -3},
		{rdfstore.ErrClosed, -3},
		{wrap(rdfstore.ErrEngine), -3},
	}
	for _, tt := range tests {
		if got := mapLoadError(tt.err); got != tt.want {
			t.Errorf("mapLoadError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

// TestMapSerializeError verifies serialize_turtle error classification.
func TestMapSerializeError(t *testing.T) {
	tests := []struct {
		err  error
		want int32
	}{
		{marshal.ErrNullPointer, -1},
		{marshal.ErrZeroCapacity, -1},
		{wrap(rdfstore.ErrNullArgument), -1},
		{wrap(rdfstore.ErrDump), -2},
		{rdfstore.ErrClosed, -2},
		{wrap(marshal.ErrBufferTooSmall), -3},
		{wrap(marshal.ErrEmbeddedNUL), -4},
	}
	for _, tt := range tests {
		if got := mapSerializeError(tt.err); got != tt.want {
			t.Errorf("mapSerializeError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

// TestMapCountAndClearError verifies the two-way classification used by
// count_triples and clear_store.
func TestMapCountAndClearError(t *testing.T) {
	if got := mapCountError(wrap(rdfstore.ErrNullArgument)); got != -1 {
		t.Errorf("mapCountError(null) = %d, want -1", got)
	}
	if got := mapCountError(rdfstore.ErrClosed); got != -2 {
		t.Errorf("mapCountError(closed) = %d, want -2", got)
	}
	if got := mapClearError(wrap(rdfstore.ErrNullArgument)); got != -1 {
		t.Errorf("mapClearError(null) = %d, want -1", got)
	}
	if got := mapClearError(wrap(rdfstore.ErrEngine)); got != -2 {
		t.Errorf("mapClearError(engine) = %d, want -2", got)
	}
}

func panicking32() (status int32) {
	defer recoverStatus("panicking32", addTripleInsertFailed, &status)
	panic("boom")
}

func panicking64() (count int64) {
	defer recoverStatus("panicking64", countEngineFailed, &count)
	var m map[string]int
	m["x"] = 1
	return 0
}

func calm() (status int32) {
	defer recoverStatus("calm", queryExecutionFailed, &status)
	return 7
}

// TestRecoverStatus verifies that a panic becomes the call's failure code
// and that normal returns are untouched.
func TestRecoverStatus(t *testing.T) {
	if got := panicking32(); got != -4 {
		t.Errorf("panicking32() = %d, want -4", got)
	}
	if got := panicking64(); got != -2 {
		t.Errorf("panicking64() = %d, want -2", got)
	}
	if got := calm(); got != 7 {
		t.Errorf("calm() = %d, want 7", got)
	}
}

// TestFailReturnsMappedCode verifies fail passes the mapped code through.
func TestFailReturnsMappedCode(t *testing.T) {
	if got := fail("test", marshal.ErrBufferTooSmall, mapQueryError); got != -6 {
		t.Errorf("fail() = %d, want -6", got)
	}
	if got := fail("test", rdfstore.ErrClosed, mapCountError); got != -2 {
		t.Errorf("fail() = %d, want -2", got)
	}
}
