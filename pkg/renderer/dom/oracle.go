//go:build js && wasm
// +build js,wasm

package dom

import (
	"syscall/js"

	"github.com/recera/graphview/pkg/viewport"
)

// BrowserOracle reads the viewport size from the document and window
type BrowserOracle struct{}

// Size implements viewport.Oracle
func (BrowserOracle) Size() viewport.Size {
	doc := js.Global().Get("document").Get("documentElement")
	win := js.Global().Get("window")
	return viewport.Size{
		ClientWidth:  intOrZero(doc.Get("clientWidth")),
		ClientHeight: intOrZero(doc.Get("clientHeight")),
		InnerWidth:   intOrZero(win.Get("innerWidth")),
		InnerHeight:  intOrZero(win.Get("innerHeight")),
	}
}

func intOrZero(v js.Value) int {
	if v.Type() != js.TypeNumber {
		return 0
	}
	return v.Int()
}
