// Package vecdoc is an in-memory vector document: a tree of rect, ellipse,
// path, text and group elements with string attributes, drawn through an
// inkwell.Surface and persisted as YAML.
package vecdoc

import (
	"context"

	"github.com/phanxgames/inkwell"
)

// Document is the top-level element list, back to front.
type Document struct {
	children []*Element
}

var _ inkwell.Document = (*Document)(nil)

// New creates an empty document.
func New() *Document { return &Document{} }

// Children returns the top-level elements in paint order.
func (d *Document) Children() []inkwell.Element {
	out := make([]inkwell.Element, len(d.children))
	for i, c := range d.children {
		out[i] = c
	}
	return out
}

// Elements returns the top-level elements. The returned slice must not be
// mutated by the caller.
func (d *Document) Elements() []*Element { return d.children }

// Len returns the number of top-level elements.
func (d *Document) Len() int { return len(d.children) }

// NewElement creates a detached element.
func (d *Document) NewElement(kind string) inkwell.Element { return NewElement(kind) }

// Add appends e on top and returns it.
func (d *Document) Add(e *Element) *Element {
	d.Insert(e, len(d.children))
	return e
}

// Insert attaches e at index; an out of range index appends. Panics if e
// is not a *vecdoc.Element.
func (d *Document) Insert(el inkwell.Element, index int) {
	e := mustElement(el)
	e.detach()
	if index < 0 || index > len(d.children) {
		index = len(d.children)
	}
	d.children = append(d.children, nil)
	copy(d.children[index+1:], d.children[index:])
	d.children[index] = e
	e.doc = d
}

// Remove detaches e and returns its former index, or -1 if e is not a
// top-level element of d.
func (d *Document) Remove(el inkwell.Element) int {
	e, ok := el.(*Element)
	if !ok || e.doc != d {
		return -1
	}
	for i, c := range d.children {
		if c == e {
			copy(d.children[i:], d.children[i+1:])
			d.children[len(d.children)-1] = nil
			d.children = d.children[:len(d.children)-1]
			e.doc = nil
			return i
		}
	}
	return -1
}

// Find returns the element with the given ID anywhere in the tree, or nil.
func (d *Document) Find(id string) *Element {
	var walk func([]*Element) *Element
	walk = func(es []*Element) *Element {
		for _, e := range es {
			if e.id == id {
				return e
			}
			if f := walk(e.children); f != nil {
				return f
			}
		}
		return nil
	}
	return walk(d.children)
}

// BoundingBox returns e's bounds in document space.
func (d *Document) BoundingBox(el inkwell.Element) inkwell.Rect {
	e, ok := el.(*Element)
	if !ok {
		return inkwell.Rect{}
	}
	m := e.transform
	for p := e.parent; p != nil; p = p.parent {
		m = p.transform.Mul(m)
	}
	return m.ApplyRect(e.LocalBounds())
}

// HitTest returns the topmost top-level element containing p. A hit inside
// a group returns the group.
func (d *Document) HitTest(p inkwell.Vec2) inkwell.Element {
	for i := len(d.children) - 1; i >= 0; i-- {
		e := d.children[i]
		if e.attrs["visible"] == "false" {
			continue
		}
		if e.contains(e.transform.Invert().Apply(p)) {
			return e
		}
	}
	return nil
}

// Draw paints every visible element back to front.
func (d *Document) Draw(ctx context.Context, s inkwell.Surface, view inkwell.Matrix) error {
	for _, e := range d.children {
		if err := ctx.Err(); err != nil {
			return err
		}
		drawElement(s, e, view)
	}
	return nil
}

func mustElement(el inkwell.Element) *Element {
	e, ok := el.(*Element)
	if !ok || e == nil {
		panic("vecdoc: element does not belong to this document type")
	}
	return e
}
