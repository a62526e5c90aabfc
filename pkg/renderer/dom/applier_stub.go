//go:build !js || !wasm
// +build !js !wasm

package dom

import (
	"fmt"

	"github.com/recera/graphview/pkg/svg"
	"github.com/recera/graphview/pkg/viewport"
)

// DOMApplier applies svg patches to the browser DOM (stub for non-WASM builds)
type DOMApplier struct{}

// NewDOMApplier creates a new DOM applier (stub)
func NewDOMApplier() *DOMApplier {
	return &DOMApplier{}
}

// Apply applies patches to the DOM (stub)
func (a *DOMApplier) Apply(patches ...svg.Patch) error {
	return fmt.Errorf("DOM applier is only available in WASM builds")
}

// BrowserOracle reports a zero viewport outside the browser
type BrowserOracle struct{}

// Size implements viewport.Oracle
func (BrowserOracle) Size() viewport.Size { return viewport.Size{} }
