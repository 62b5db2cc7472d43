package vecdoc

import (
	"maps"
	"math"
	"slices"

	"github.com/google/uuid"

	"github.com/phanxgames/inkwell"
)

// KindGroup is a container element whose children draw and hit test with
// the group's transform applied.
const KindGroup = "group"

// Element is a node of the document tree. Top-level elements belong to a
// Document; nested ones belong to a group element.
type Element struct {
	id        string
	kind      string
	attrs     map[string]string
	transform inkwell.Matrix

	parent   *Element
	doc      *Document
	children []*Element
}

// NewElement creates a detached element with a fresh ID.
func NewElement(kind string) *Element {
	return newElement(uuid.NewString(), kind)
}

func newElement(id, kind string) *Element {
	return &Element{id: id, kind: kind, attrs: map[string]string{}, transform: inkwell.Identity}
}

func (e *Element) ID() string   { return e.id }
func (e *Element) Kind() string { return e.kind }

func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// SetAttr sets an attribute; an empty value removes it.
func (e *Element) SetAttr(name, value string) {
	if value == "" {
		delete(e.attrs, name)
		return
	}
	e.attrs[name] = value
}

// Attrs returns a copy of the attributes.
func (e *Element) Attrs() map[string]string { return maps.Clone(e.attrs) }

func (e *Element) Transform() inkwell.Matrix     { return e.transform }
func (e *Element) SetTransform(m inkwell.Matrix) { e.transform = m }

// Parent returns the enclosing group, or nil for top-level and detached
// elements.
func (e *Element) Parent() *Element { return e.parent }

// --- Tree manipulation ---

// AddChild appends child to this group. If child is attached elsewhere it
// is detached first. Panics if child is nil or an ancestor of e.
func (e *Element) AddChild(child *Element) {
	if child == nil {
		panic("vecdoc: cannot add nil child")
	}
	if isAncestor(child, e) {
		panic("vecdoc: adding child would create a cycle")
	}
	child.detach()
	child.parent = e
	e.children = append(e.children, child)
}

// RemoveChild detaches child from this group.
// Panics if child.Parent() != e.
func (e *Element) RemoveChild(child *Element) {
	if child.parent != e {
		panic("vecdoc: child's parent is not this element")
	}
	e.children = slices.DeleteFunc(e.children, func(c *Element) bool { return c == child })
	child.parent = nil
}

// Children returns the nested elements. The returned slice must not be
// mutated by the caller.
func (e *Element) Children() []*Element { return e.children }

func (e *Element) detach() {
	switch {
	case e.parent != nil:
		e.parent.RemoveChild(e)
	case e.doc != nil:
		e.doc.Remove(e)
	}
}

// isAncestor reports whether candidate is n or one of n's ancestors.
func isAncestor(candidate, n *Element) bool {
	for p := n; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// --- Geometry ---

// number reads a numeric attribute, or def.
func (e *Element) number(name string, def float64) float64 {
	v, ok := e.attrs[name]
	if !ok {
		return def
	}
	f, err := inkwell.ParseNumber(v)
	if err != nil {
		return def
	}
	return f
}

func (e *Element) points() []inkwell.Vec2 {
	pts, err := inkwell.ParsePoints(e.attrs[inkwell.AttrPoints])
	if err != nil {
		return nil
	}
	return pts
}

func (e *Element) strokeWidth() float64 {
	if e.attrs[inkwell.AttrStroke] == "" || e.attrs[inkwell.AttrStroke] == "none" {
		return 0
	}
	return e.number(inkwell.AttrStrokeWidth, 1)
}

func (e *Element) fontSize() float64 {
	return e.number(inkwell.AttrFontSize, inkwell.TextHeight)
}

// LocalBounds returns the bounds in the element's own coordinates.
func (e *Element) LocalBounds() inkwell.Rect {
	switch e.kind {
	case inkwell.KindPath:
		pts := e.points()
		if len(pts) == 0 {
			return inkwell.Rect{}
		}
		minP, maxP := pts[0], pts[0]
		for _, p := range pts[1:] {
			minP.X, minP.Y = math.Min(minP.X, p.X), math.Min(minP.Y, p.Y)
			maxP.X, maxP.Y = math.Max(maxP.X, p.X), math.Max(maxP.Y, p.Y)
		}
		h := e.strokeWidth() / 2
		return inkwell.Rect{X: minP.X - h, Y: minP.Y - h, Width: maxP.X - minP.X + 2*h, Height: maxP.Y - minP.Y + 2*h}
	case inkwell.KindText:
		scale := e.fontSize() / inkwell.TextHeight
		text := e.attrs[inkwell.AttrText]
		return inkwell.Rect{
			X:      e.number(inkwell.AttrX, 0),
			Y:      e.number(inkwell.AttrY, 0),
			Width:  inkwell.TextWidth(text) * scale,
			Height: inkwell.TextHeight * scale,
		}
	case KindGroup:
		var r inkwell.Rect
		for _, c := range e.children {
			r = r.Union(c.transform.ApplyRect(c.LocalBounds()))
		}
		return r
	}
	return inkwell.Rect{
		X:      e.number(inkwell.AttrX, 0),
		Y:      e.number(inkwell.AttrY, 0),
		Width:  e.number(inkwell.AttrWidth, 0),
		Height: e.number(inkwell.AttrHeight, 0),
	}
}

// hitSlop is the minimum pick distance for thin strokes, in local units.
const hitSlop = 4

// contains reports whether the local point p hits the element.
func (e *Element) contains(p inkwell.Vec2) bool {
	switch e.kind {
	case KindGroup:
		for i := len(e.children) - 1; i >= 0; i-- {
			c := e.children[i]
			if c.contains(c.transform.Invert().Apply(p)) {
				return true
			}
		}
		return false
	case inkwell.KindEllipse:
		r := e.LocalBounds()
		if r.IsEmpty() {
			return false
		}
		c := r.Center()
		dx, dy := (p.X-c.X)/(r.Width/2), (p.Y-c.Y)/(r.Height/2)
		return dx*dx+dy*dy <= 1
	case inkwell.KindPath:
		pts := e.points()
		tol := math.Max(e.strokeWidth()/2, hitSlop)
		for i := 1; i < len(pts); i++ {
			if segmentDist(p, pts[i-1], pts[i]) <= tol {
				return true
			}
		}
		if len(pts) == 1 {
			return p.Dist(pts[0]) <= tol
		}
		if fill := e.attrs[inkwell.AttrFill]; fill != "" && fill != "none" {
			return polygonContains(pts, p)
		}
		return false
	}
	return e.LocalBounds().Contains(p)
}

// segmentDist returns the distance from p to the segment a-b.
func segmentDist(p, a, b inkwell.Vec2) float64 {
	ab := b.Sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Dist(a.Add(ab.Scale(t)))
}

// polygonContains is the even-odd ray casting test.
func polygonContains(pts []inkwell.Vec2, p inkwell.Vec2) bool {
	in := false
	for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
		a, b := pts[i], pts[j]
		if (a.Y > p.Y) != (b.Y > p.Y) && p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}
