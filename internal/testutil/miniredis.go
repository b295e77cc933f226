package testutil

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
)

// NewMiniredis creates an in-memory Redis for run-lock tests (no Docker
// needed). The server is closed when the test completes.
func NewMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	return miniredis.RunT(t)
}

// NewMiniredisURL returns a miniredis server together with the redis://
// URL the scheduler configuration expects. The server handle is returned
// too so tests can expire leases with FastForward.
func NewMiniredisURL(t *testing.T) (*miniredis.Miniredis, string) {
	t.Helper()

	mr := miniredis.RunT(t)

	return mr, "redis://" + mr.Addr()
}
