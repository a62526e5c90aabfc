//go:build js && wasm
// +build js,wasm

// Package dom mirrors svg patches into the browser DOM.
package dom

import (
	"fmt"
	"syscall/js"

	"github.com/recera/graphview/pkg/svg"
)

// DOMApplier applies svg patches to the browser DOM
type DOMApplier struct {
	document js.Value
	nodeMap  map[uint32]js.Value // Maps node IDs to DOM elements
}

// NewDOMApplier creates a new DOM applier
func NewDOMApplier() *DOMApplier {
	return &DOMApplier{
		document: js.Global().Get("document"),
		nodeMap:  make(map[uint32]js.Value),
	}
}

// Bind maps an existing DOM element to a document element so that its
// insert patch reuses the element instead of creating one
func (a *DOMApplier) Bind(el *svg.Element, node js.Value) {
	a.nodeMap[el.ID()] = node
}

// Apply applies patches to the DOM
func (a *DOMApplier) Apply(patches ...svg.Patch) error {
	for _, patch := range patches {
		if err := a.applyPatch(patch); err != nil {
			return fmt.Errorf("failed to apply patch %v: %w", patch, err)
		}
	}
	return nil
}

func (a *DOMApplier) applyPatch(patch svg.Patch) error {
	switch patch.Op {
	case svg.OpSetAttribute:
		return a.setAttribute(patch)
	case svg.OpInsertNode:
		return a.insertNode(patch)
	default:
		return fmt.Errorf("unknown patch operation: %v", patch.Op)
	}
}

// setAttribute sets an attribute on an element
func (a *DOMApplier) setAttribute(patch svg.Patch) error {
	node, ok := a.nodeMap[patch.NodeID]
	if !ok {
		return fmt.Errorf("node %d not found", patch.NodeID)
	}
	node.Call("setAttribute", patch.Key, patch.Value)
	return nil
}

// insertNode creates an svg element and appends it to its parent
func (a *DOMApplier) insertNode(patch svg.Patch) error {
	if _, bound := a.nodeMap[patch.NodeID]; bound {
		return nil
	}

	var parent js.Value
	if patch.ParentID == 0 {
		parent = a.document.Get("body")
	} else {
		p, ok := a.nodeMap[patch.ParentID]
		if !ok {
			return fmt.Errorf("parent node %d not found", patch.ParentID)
		}
		parent = p
	}

	elem := a.document.Call("createElementNS", svg.Namespace, patch.Tag)
	a.nodeMap[patch.NodeID] = elem
	parent.Call("appendChild", elem)
	return nil
}

// Node returns the DOM element mirrored for id
func (a *DOMApplier) Node(id uint32) (js.Value, bool) {
	n, ok := a.nodeMap[id]
	return n, ok
}
