// Package svg holds a retained SVG element tree. Every mutation is reported
// as a Patch so that a browser DOM, a websocket client or a test recorder can
// mirror the tree.
package svg

import (
	"sync"
)

// Namespace is the SVG XML namespace used when elements are created in a browser
const Namespace = "http://www.w3.org/2000/svg"

// Document owns a set of elements and the subscribers observing them
type Document struct {
	mu     sync.RWMutex
	nextID uint32
	roots  []*Element

	subMu   sync.RWMutex
	subs    map[uint64]func(Patch)
	nextSub uint64
}

// Element is a node of the retained tree. Its methods are safe for
// concurrent use; they lock the owning document.
type Element struct {
	doc    *Document
	id     uint32
	tag    string
	parent *Element
	kids   []*Element

	// keys keeps attribute insertion order for deterministic output
	keys  []string
	attrs map[string]string
}

// Attr is a single key/value attribute pair
type Attr struct {
	Key   string
	Value string
}

// NewDocument creates an empty document
func NewDocument() *Document {
	return &Document{
		nextID: 1,
		subs:   make(map[uint64]func(Patch)),
	}
}

// Subscribe registers fn to receive every subsequent patch. The returned
// function removes the subscription.
func (d *Document) Subscribe(fn func(Patch)) (cancel func()) {
	d.subMu.Lock()
	id := d.nextSub
	d.nextSub++
	d.subs[id] = fn
	d.subMu.Unlock()

	return func() {
		d.subMu.Lock()
		delete(d.subs, id)
		d.subMu.Unlock()
	}
}

// emit must be called without d.mu held
func (d *Document) emit(p Patch) {
	d.subMu.RLock()
	fns := make([]func(Patch), 0, len(d.subs))
	for _, fn := range d.subs {
		fns = append(fns, fn)
	}
	d.subMu.RUnlock()

	for _, fn := range fns {
		fn(p)
	}
}

// NewRoot creates a parentless element, typically the <svg> canvas
func (d *Document) NewRoot(tag string) *Element {
	d.mu.Lock()
	el := d.newElementLocked(tag, nil)
	d.roots = append(d.roots, el)
	d.mu.Unlock()

	d.emit(Patch{Op: OpInsertNode, NodeID: el.id, Tag: tag})
	return el
}

// Snapshot returns the patch sequence that rebuilds the current tree from
// nothing: every insert in creation order followed by its attributes.
func (d *Document) Snapshot() []Patch {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var patches []Patch
	var walk func(el *Element)
	walk = func(el *Element) {
		var parentID uint32
		if el.parent != nil {
			parentID = el.parent.id
		}
		patches = append(patches, Patch{Op: OpInsertNode, NodeID: el.id, ParentID: parentID, Tag: el.tag})
		for _, k := range el.keys {
			patches = append(patches, Patch{Op: OpSetAttribute, NodeID: el.id, Key: k, Value: el.attrs[k]})
		}
		for _, kid := range el.kids {
			walk(kid)
		}
	}
	for _, root := range d.roots {
		walk(root)
	}
	return patches
}

func (d *Document) newElementLocked(tag string, parent *Element) *Element {
	el := &Element{
		doc:    d,
		id:     d.nextID,
		tag:    tag,
		parent: parent,
		attrs:  make(map[string]string),
	}
	d.nextID++
	return el
}

// Append creates a new child element as the last child of e
func (e *Element) Append(tag string) *Element {
	d := e.doc
	d.mu.Lock()
	el := d.newElementLocked(tag, e)
	e.kids = append(e.kids, el)
	d.mu.Unlock()

	d.emit(Patch{Op: OpInsertNode, NodeID: el.id, ParentID: e.id, Tag: tag})
	return el
}

// SetAttr writes an attribute. The write is reported even when the value is
// unchanged, the same way a DOM setAttribute call would be.
func (e *Element) SetAttr(key, value string) {
	d := e.doc
	d.mu.Lock()
	if _, ok := e.attrs[key]; !ok {
		e.keys = append(e.keys, key)
	}
	e.attrs[key] = value
	d.mu.Unlock()

	d.emit(Patch{Op: OpSetAttribute, NodeID: e.id, Key: key, Value: value})
}

// Attr returns the attribute value and whether it is set
func (e *Element) Attr(key string) (string, bool) {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	v, ok := e.attrs[key]
	return v, ok
}

// Attrs returns the attributes in insertion order
func (e *Element) Attrs() []Attr {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	out := make([]Attr, 0, len(e.keys))
	for _, k := range e.keys {
		out = append(out, Attr{Key: k, Value: e.attrs[k]})
	}
	return out
}

// Children returns a copy of the child list
func (e *Element) Children() []*Element {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	out := make([]*Element, len(e.kids))
	copy(out, e.kids)
	return out
}

// Parent returns the parent element, nil for a root
func (e *Element) Parent() *Element { return e.parent }

// ID returns the element's document-unique id
func (e *Element) ID() uint32 { return e.id }

// Tag returns the element tag name
func (e *Element) Tag() string { return e.tag }

// Document returns the owning document
func (e *Element) Document() *Document { return e.doc }
