// Package limits provides centralized size bounds for the C call boundary.
package limits

import (
	"errors"
	"fmt"
	"math"
)

const (
	// MaxInputBytes bounds the terminator scan of incoming strings (1 GiB).
	MaxInputBytes = 1 << 30

	// MaxOutputLength is the largest content length a buffer-filling call can
	// report through its int32 status.
	MaxOutputLength = math.MaxInt32

	// TerminatorSize is the room the caller buffer must reserve after the content.
	TerminatorSize = 1
)

var (
	// ErrInputTooLong indicates an incoming string without a terminator in range.
	ErrInputTooLong = errors.New("input exceeds maximum length")

	// ErrOutputTooLarge indicates content longer than MaxOutputLength.
	ErrOutputTooLarge = errors.New("output too large")
)

// ValidateInputLength checks a scanned input length against MaxInputBytes.
func ValidateInputLength(n int) error {
	if n > MaxInputBytes {
		return fmt.Errorf("%w: scanned %d bytes, limit %d", ErrInputTooLong, n, MaxInputBytes)
	}
	return nil
}

// ValidateOutputLength checks that content of n bytes can be reported as a
// non-negative int32 status.
func ValidateOutputLength(n int) error {
	if n < 0 || int64(n) > MaxOutputLength {
		return fmt.Errorf("%w: size %d exceeds limit %d", ErrOutputTooLarge, n, MaxOutputLength)
	}
	return nil
}

// RequiredCapacity returns the buffer size needed to hold content of n bytes
// plus the terminator.
func RequiredCapacity(n int) uint64 {
	return uint64(n) + TerminatorSize
}
