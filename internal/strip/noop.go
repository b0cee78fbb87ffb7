package strip

import (
	"slices"
	"sync"

	"github.com/lednode/lednode/internal/logging"
)

// noop implements Driver for systems without strip hardware. It records the
// last rendered frame so callers and tests can inspect what would have been
// shown.
type noop struct {
	count  int
	logger logging.Logger
	mu     sync.Mutex
	last   Buffer
}

// newNoop creates a new no-op strip driver.
func newNoop(count int, logger logging.Logger) *noop {
	return &noop{count: count, logger: logger}
}

// Render stores a copy of the buffer and logs it at debug level.
func (n *noop) Render(buf Buffer) error {
	n.mu.Lock()
	n.last = slices.Clone(buf)
	n.mu.Unlock()

	if n.logger != nil {
		n.logger.Debug("Strip render (no-op)", "pixels", len(buf))
	}
	return nil
}

// Count returns the configured pixel count.
func (n *noop) Count() int {
	return n.count
}

// Close is a no-op.
func (n *noop) Close() error {
	return nil
}

// LastFrame returns a copy of the most recently rendered buffer, or nil when
// nothing has been rendered yet.
func (n *noop) LastFrame() Buffer {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.last)
}
