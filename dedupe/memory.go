// Package dedupe provides request-scoped fingerprint sets used by the logger
// to suppress duplicate activities within one logical request. The host owns
// cache lifetime: create one per request (or flush between requests).
package dedupe

import (
	"context"

	"github.com/goliatone/go-activity/pkg/types"
)

// Memory is a map-backed fingerprint set scoped to one logical request. It is
// intentionally lock free: the intended deployment handles one request per
// goroutine, and the check-then-add race under shared concurrent use is a
// documented limitation of the design, not a bug.
type Memory struct {
	seen map[uint64]struct{}
}

// NewMemory returns an empty request cache.
func NewMemory() *Memory {
	return &Memory{seen: map[uint64]struct{}{}}
}

var _ types.DedupeCache = (*Memory)(nil)

// Contains reports whether the fingerprint was recorded this request.
func (m *Memory) Contains(_ context.Context, fingerprint uint64) bool {
	_, ok := m.seen[fingerprint]
	return ok
}

// Add records the fingerprint.
func (m *Memory) Add(_ context.Context, fingerprint uint64) {
	m.seen[fingerprint] = struct{}{}
}

// Reset drops every recorded fingerprint so the cache can be reused for the
// next request.
func (m *Memory) Reset() {
	m.seen = map[uint64]struct{}{}
}

// Len returns the number of recorded fingerprints.
func (m *Memory) Len() int {
	return len(m.seen)
}
