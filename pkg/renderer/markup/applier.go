// Package markup serializes a retained svg tree to SVG markup for server
// side rendering and snapshots.
package markup

import (
	"html"
	"io"
	"strings"

	"github.com/recera/graphview/pkg/svg"
)

// Applier renders svg elements to markup
type Applier struct {
	w   io.Writer
	err error
}

// NewApplier creates a new markup applier writing to w
func NewApplier(w io.Writer) *Applier {
	return &Applier{w: w}
}

// Apply renders el and its descendants
func (a *Applier) Apply(el *svg.Element) error {
	if el == nil {
		return nil
	}
	a.renderElement(el, el.Parent() == nil)
	return a.err
}

// write helper that tracks errors
func (a *Applier) write(s string) {
	if a.err != nil {
		return
	}
	_, a.err = io.WriteString(a.w, s)
}

func (a *Applier) renderElement(el *svg.Element, root bool) {
	if a.err != nil {
		return
	}

	a.write("<")
	a.write(el.Tag())

	attrs := el.Attrs()
	if root && el.Tag() == "svg" && !hasAttr(attrs, "xmlns") {
		a.write(` xmlns="`)
		a.write(svg.Namespace)
		a.write(`"`)
	}
	for _, attr := range attrs {
		a.write(" ")
		a.write(attr.Key)
		a.write(`="`)
		a.write(html.EscapeString(attr.Value))
		a.write(`"`)
	}
	a.write(">")

	for _, kid := range el.Children() {
		a.renderElement(kid, false)
	}

	a.write("</")
	a.write(el.Tag())
	a.write(">")
}

func hasAttr(attrs []svg.Attr, key string) bool {
	for _, attr := range attrs {
		if attr.Key == key {
			return true
		}
	}
	return false
}

// RenderToString is a convenience function to render an element to a string
func RenderToString(el *svg.Element) (string, error) {
	var buf strings.Builder
	if err := NewApplier(&buf).Apply(el); err != nil {
		return "", err
	}
	return buf.String(), nil
}
