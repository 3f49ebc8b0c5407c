package rdfstore

import (
	"crypto/rand"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/blake2b"
)

// TimeProvider abstracts the clock for deterministic builds and tests.
// Implementations must be safe for concurrent use.
type TimeProvider interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// RealTimeProvider uses the system clock.
type RealTimeProvider struct{}

// Now returns the current time.
func (RealTimeProvider) Now() time.Time { return time.Now() }

// Since returns the duration since t.
func (RealTimeProvider) Since(t time.Time) time.Duration { return time.Since(t) }

// FixedTimeProvider always reports the same instant. The zero value reports
// the Unix epoch.
type FixedTimeProvider struct {
	Time time.Time
}

// Now returns the fixed instant.
func (f FixedTimeProvider) Now() time.Time {
	if f.Time.IsZero() {
		return time.Unix(0, 0).UTC()
	}
	return f.Time
}

// Since returns the duration between t and the fixed instant.
func (f FixedTimeProvider) Since(t time.Time) time.Duration { return f.Now().Sub(t) }

// UnixMillis returns the provider's current time in milliseconds since the
// Unix epoch, clamped at zero.
func UnixMillis(tp TimeProvider) uint64 {
	ms := tp.Now().UnixMilli()
	if ms < 0 {
		return 0
	}
	return uint64(ms)
}

// NewDeterministicSource returns a byte stream fully determined by seed: the
// BLAKE2b XOF keyed by the BLAKE2b-512 digest of the seed. The stream is not
// safe for concurrent use.
func NewDeterministicSource(seed string) (io.Reader, error) {
	key := blake2b.Sum512([]byte(seed))
	xof, err := blake2b.NewXOF(blake2b.OutputLengthUnknown, key[:])
	if err != nil {
		return nil, fmt.Errorf("create deterministic source: %w", err)
	}
	return xof, nil
}

// DefaultRandomSource is the non-deterministic source used for fresh blank
// node identifiers.
func DefaultRandomSource() io.Reader { return rand.Reader }
