// Package marshal moves text across the C call boundary.
//
// Incoming strings are zero-terminated byte sequences that must decode as
// UTF-8. They are copied into Go memory, so nothing keeps a reference to
// caller memory after the call returns.
//
// Outgoing text is always built completely before the caller buffer is
// touched. WriteString checks for embedded terminators, then for capacity
// (content plus one terminator byte) and only then copies, once, in full. On
// any failure the destination buffer is left exactly as it was.
package marshal

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
	"unsafe"

	"github.com/opd-ai/rdfstore/limits"
)

var (
	// ErrNullPointer indicates a required pointer argument was null.
	ErrNullPointer = errors.New("marshal: null pointer")

	// ErrZeroCapacity indicates an output buffer declared with zero bytes.
	ErrZeroCapacity = errors.New("marshal: zero buffer capacity")

	// ErrUnterminated indicates an input string with no terminator within the scan limit.
	ErrUnterminated = errors.New("marshal: unterminated string")

	// ErrInvalidUTF8 indicates input bytes that are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("marshal: invalid UTF-8")

	// ErrEmbeddedNUL indicates output text containing a zero byte.
	ErrEmbeddedNUL = errors.New("marshal: embedded terminator in output")

	// ErrBufferTooSmall indicates the caller buffer cannot hold content and terminator.
	ErrBufferTooSmall = errors.New("marshal: buffer too small")
)

// ReadString decodes the zero-terminated string at p.
func ReadString(p *byte) (string, error) {
	if p == nil {
		return "", ErrNullPointer
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
		if err := limits.ValidateInputLength(n); err != nil {
			return "", fmt.Errorf("%w: %w", ErrUnterminated, err)
		}
	}
	raw := unsafe.Slice(p, n)
	if !utf8.Valid(raw) {
		return "", ErrInvalidUTF8
	}
	return string(raw), nil
}

// ReadOptionalString decodes the string at p, reporting ok=false for a null
// pointer instead of failing.
func ReadOptionalString(p *byte) (s string, ok bool, err error) {
	if p == nil {
		return "", false, nil
	}
	s, err = ReadString(p)
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}

// CheckBuffer validates an output buffer declaration before any work is done.
func CheckBuffer(dst *byte, capacity uintptr) error {
	if dst == nil {
		return ErrNullPointer
	}
	if capacity == 0 {
		return ErrZeroCapacity
	}
	return nil
}

// CheckContent reports whether content can be written into a buffer of
// capacity bytes, without touching the buffer.
func CheckContent(content string, capacity uintptr) error {
	if i := strings.IndexByte(content, 0); i >= 0 {
		return fmt.Errorf("%w at offset %d", ErrEmbeddedNUL, i)
	}
	if err := limits.ValidateOutputLength(len(content)); err != nil {
		return fmt.Errorf("%w: %w", ErrBufferTooSmall, err)
	}
	if need := limits.RequiredCapacity(len(content)); need > uint64(capacity) {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrBufferTooSmall, need, capacity)
	}
	return nil
}

// WriteString copies content and a terminator into dst and returns the
// content length. dst is written only when every check passes.
func WriteString(dst *byte, capacity uintptr, content string) (int32, error) {
	if err := CheckBuffer(dst, capacity); err != nil {
		return 0, err
	}
	if err := CheckContent(content, capacity); err != nil {
		return 0, err
	}
	out := unsafe.Slice(dst, len(content)+limits.TerminatorSize)
	copy(out, content)
	out[len(content)] = 0
	return int32(len(content)), nil
}
