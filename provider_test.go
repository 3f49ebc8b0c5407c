package rdfstore

import (
	"bytes"
	"io"
	"testing"
	"time"
)

// MockTimeProvider is a deterministic time provider for testing.
type MockTimeProvider struct {
	currentTime time.Time
}

// Now returns the mock time.
func (m *MockTimeProvider) Now() time.Time {
	return m.currentTime
}

// Since returns the duration between t and the mock time.
func (m *MockTimeProvider) Since(t time.Time) time.Duration {
	return m.currentTime.Sub(t)
}

// Advance moves the mock time forward by the given duration.
func (m *MockTimeProvider) Advance(d time.Duration) {
	m.currentTime = m.currentTime.Add(d)
}

func TestTimeProvider_RealTimeProvider(t *testing.T) {
	provider := RealTimeProvider{}
	before := time.Now()
	result := provider.Now()
	after := time.Now()

	if result.Before(before) || result.After(after) {
		t.Errorf("RealTimeProvider.Now() returned time outside expected range")
	}
	if provider.Since(before) < 0 {
		t.Errorf("RealTimeProvider.Since() returned a negative duration")
	}
}

func TestTimeProvider_FixedTimeProvider(t *testing.T) {
	var zero FixedTimeProvider
	if !zero.Now().Equal(time.Unix(0, 0)) {
		t.Errorf("zero FixedTimeProvider.Now() = %v, want Unix epoch", zero.Now())
	}
	if got := UnixMillis(zero); got != 0 {
		t.Errorf("UnixMillis(zero) = %d, want 0", got)
	}

	fixedTime := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	provider := FixedTimeProvider{Time: fixedTime}
	if !provider.Now().Equal(fixedTime) {
		t.Errorf("FixedTimeProvider.Now() = %v, want %v", provider.Now(), fixedTime)
	}
	if got := provider.Since(fixedTime.Add(-time.Minute)); got != time.Minute {
		t.Errorf("FixedTimeProvider.Since() = %v, want 1m", got)
	}
	if got, want := UnixMillis(provider), uint64(fixedTime.UnixMilli()); got != want {
		t.Errorf("UnixMillis() = %d, want %d", got, want)
	}
}

func TestUnixMillis_BeforeEpoch(t *testing.T) {
	provider := FixedTimeProvider{Time: time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC)}
	if got := UnixMillis(provider); got != 0 {
		t.Errorf("UnixMillis() before epoch = %d, want 0", got)
	}
}

func TestStore_SetTimeProvider(t *testing.T) {
	store, err := New(nil)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	if time.Since(store.Now()) > time.Second {
		t.Errorf("Default time provider should return current time")
	}

	fixedTime := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	mockProvider := &MockTimeProvider{currentTime: fixedTime}
	store.SetTimeProvider(mockProvider)

	if !store.Now().Equal(fixedTime) {
		t.Errorf("After SetTimeProvider, Now() = %v, want %v", store.Now(), fixedTime)
	}

	mockProvider.Advance(10 * time.Minute)
	expected := fixedTime.Add(10 * time.Minute)
	if !store.Now().Equal(expected) {
		t.Errorf("After Advance, Now() = %v, want %v", store.Now(), expected)
	}

	store.SetTimeProvider(nil)
	if time.Since(store.Now()) > time.Second {
		t.Errorf("SetTimeProvider(nil) should restore the system clock")
	}
}

func TestStore_DeterministicClock(t *testing.T) {
	opts := NewOptions()
	opts.Deterministic = true
	store, err := New(opts)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	if !store.Now().Equal(time.Unix(0, 0)) {
		t.Errorf("Deterministic Now() = %v, want Unix epoch", store.Now())
	}
}

func readN(t *testing.T, r io.Reader, n int) []byte {
	t.Helper()
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		t.Fatalf("read deterministic source: %v", err)
	}
	return buf
}

func TestNewDeterministicSource(t *testing.T) {
	a, err := NewDeterministicSource("seed")
	if err != nil {
		t.Fatalf("NewDeterministicSource() error = %v", err)
	}
	b, err := NewDeterministicSource("seed")
	if err != nil {
		t.Fatalf("NewDeterministicSource() error = %v", err)
	}
	c, err := NewDeterministicSource("other seed")
	if err != nil {
		t.Fatalf("NewDeterministicSource() error = %v", err)
	}

	first, second, other := readN(t, a, 64), readN(t, b, 64), readN(t, c, 64)
	if !bytes.Equal(first, second) {
		t.Errorf("same seed produced different streams")
	}
	if bytes.Equal(first, other) {
		t.Errorf("different seeds produced the same stream")
	}
	if bytes.Equal(readN(t, a, 64), first) {
		t.Errorf("stream repeated its first block")
	}
}

func TestNewDeterministicSource_LongSeed(t *testing.T) {
	if _, err := NewDeterministicSource(string(bytes.Repeat([]byte("x"), 1000))); err != nil {
		t.Errorf("long seed rejected: %v", err)
	}
}
