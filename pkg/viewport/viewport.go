// Package viewport picks the rendering height of the graph canvas from the
// window size.
//
// Small windows get a fixed compact canvas; everything else uses the
// configured height. The height is a CSS-style length ("600px") so it can be
// handed to a browser surface unchanged; [Pixels] converts it for surfaces
// that need a number.
package viewport

import (
	"strconv"
	"strings"
	"sync"
)

const (
	// CompactBreakpoint is the window height below which the compact
	// canvas is used.
	CompactBreakpoint = 768

	// CompactHeight is the canvas height for small windows.
	CompactHeight = "400px"

	// DefaultHeight is the configured height when none is given.
	DefaultHeight = "600px"
)

// ChooseRenderHeight returns [CompactHeight] when windowHeight is below
// [CompactBreakpoint], and configured unchanged otherwise.
func ChooseRenderHeight(windowHeight int, configured string) string {
	if windowHeight < CompactBreakpoint {
		return CompactHeight
	}
	return configured
}

// Adapter tracks the render height across window resizes.
type Adapter struct {
	configured string

	mu      sync.Mutex
	current string
	sized   bool
}

// NewAdapter returns an Adapter for the given configured height. An empty
// value means [DefaultHeight].
func NewAdapter(configured string) *Adapter {
	if configured == "" {
		configured = DefaultHeight
	}
	return &Adapter{configured: configured}
}

// Configured returns the height used for windows at or above the breakpoint.
func (a *Adapter) Configured() string { return a.configured }

// Resize recomputes the height for a new window height. changed is false
// when the result equals the previous one, so callers can skip redrawing.
// The first call always reports a change.
func (a *Adapter) Resize(windowHeight int) (height string, changed bool) {
	h := ChooseRenderHeight(windowHeight, a.configured)

	a.mu.Lock()
	defer a.mu.Unlock()
	changed = !a.sized || h != a.current
	a.current, a.sized = h, true
	return h, changed
}

// Current returns the last computed height, or the configured height before
// the first Resize.
func (a *Adapter) Current() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.sized {
		return a.configured
	}
	return a.current
}

// Pixels parses a height such as "600px" or "600". ok is false for other
// units or malformed values.
func Pixels(height string) (px int, ok bool) {
	s := strings.TrimSuffix(strings.TrimSpace(height), "px")
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
