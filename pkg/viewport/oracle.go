package viewport

import "sync"

// Size is what the hosting environment reports about its visible area.
// InnerWidth and InnerHeight are zero when the window size is unavailable.
type Size struct {
	ClientWidth  int
	ClientHeight int
	InnerWidth   int
	InnerHeight  int
}

// Width returns the larger of the client and window widths
func (s Size) Width() int { return max(s.ClientWidth, s.InnerWidth, 0) }

// Height returns the larger of the client and window heights
func (s Size) Height() int { return max(s.ClientHeight, s.InnerHeight, 0) }

// Oracle reports the current viewport size. It is read on every render and
// never cached by the view.
type Oracle interface {
	Size() Size
}

// StaticOracle is an Oracle whose size is set explicitly, for servers,
// command line rendering and tests
type StaticOracle struct {
	mu   sync.RWMutex
	size Size
}

// NewStaticOracle creates an oracle reporting a width x height viewport
func NewStaticOracle(width, height int) *StaticOracle {
	return &StaticOracle{size: Size{ClientWidth: width, ClientHeight: height}}
}

// Size implements Oracle
func (o *StaticOracle) Size() Size {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.size
}

// Set replaces the reported size
func (o *StaticOracle) Set(s Size) {
	o.mu.Lock()
	o.size = s
	o.mu.Unlock()
}

// Resize sets client width and height and clears the window size
func (o *StaticOracle) Resize(width, height int) {
	o.Set(Size{ClientWidth: width, ClientHeight: height})
}
