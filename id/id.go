package id

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Source mints report identifiers that sort by the time they were minted.
// Identifiers from one Source within the same millisecond stay ordered.
type Source struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// NewSource returns a Source stamping identifiers with now.
func NewSource(now func() time.Time) *Source {
	return &Source{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     now,
	}
}

// Next returns a fresh identifier.
func (s *Source) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(s.now().UTC()), s.entropy).String()
}

var std = NewSource(time.Now)

// New returns a report identifier from the process-wide source.
func New() string {
	return std.Next()
}

// Short returns the trailing characters used in headings.
func Short(s string) string {
	if len(s) <= 8 {
		return s
	}
	return s[len(s)-8:]
}
