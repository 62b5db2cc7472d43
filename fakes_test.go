package inkwell

import (
	"context"
	"fmt"
)

// fakeElement is a minimal Element for package-internal tests.
type fakeElement struct {
	id    string
	kind  string
	attrs map[string]string
	m     Matrix
}

func newFakeElement(id string, attrs ...string) *fakeElement {
	e := &fakeElement{id: id, kind: KindRect, attrs: map[string]string{}, m: Identity}
	for i := 0; i+1 < len(attrs); i += 2 {
		e.attrs[attrs[i]] = attrs[i+1]
	}
	return e
}

func (e *fakeElement) ID() string   { return e.id }
func (e *fakeElement) Kind() string { return e.kind }

func (e *fakeElement) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

func (e *fakeElement) SetAttr(name, value string) {
	if value == "" {
		delete(e.attrs, name)
		return
	}
	e.attrs[name] = value
}

func (e *fakeElement) Transform() Matrix     { return e.m }
func (e *fakeElement) SetTransform(m Matrix) { e.m = m }

func (e *fakeElement) num(name string) float64 {
	f, _ := ParseNumber(e.attrs[name])
	return f
}

// fakeDoc is a flat list of fakeElements hit-tested by their boxes.
type fakeDoc struct {
	elems []Element
	seq   int
}

func newFakeDoc(es ...*fakeElement) *fakeDoc {
	d := &fakeDoc{}
	for _, e := range es {
		d.elems = append(d.elems, e)
	}
	return d
}

func (d *fakeDoc) Children() []Element { return append([]Element(nil), d.elems...) }

func (d *fakeDoc) NewElement(kind string) Element {
	d.seq++
	e := newFakeElement(fmt.Sprintf("new-%d", d.seq))
	e.kind = kind
	return e
}

func (d *fakeDoc) Insert(e Element, index int) {
	if index < 0 || index > len(d.elems) {
		index = len(d.elems)
	}
	d.elems = append(d.elems, nil)
	copy(d.elems[index+1:], d.elems[index:])
	d.elems[index] = e
}

func (d *fakeDoc) Remove(e Element) int {
	i := indexOf(d, e)
	if i >= 0 {
		d.elems = append(d.elems[:i], d.elems[i+1:]...)
	}
	return i
}

func (d *fakeDoc) BoundingBox(e Element) Rect {
	f := e.(*fakeElement)
	return e.Transform().ApplyRect(Rect{X: f.num(AttrX), Y: f.num(AttrY), Width: f.num(AttrWidth), Height: f.num(AttrHeight)})
}

func (d *fakeDoc) HitTest(p Vec2) Element {
	for i := len(d.elems) - 1; i >= 0; i-- {
		if d.BoundingBox(d.elems[i]).Contains(p) {
			return d.elems[i]
		}
	}
	return nil
}

func (d *fakeDoc) Draw(ctx context.Context, s Surface, view Matrix) error {
	return ctx.Err()
}

func (d *fakeDoc) ids() []string {
	out := make([]string, len(d.elems))
	for i, e := range d.elems {
		out[i] = e.ID()
	}
	return out
}

// box returns a fakeElement covering (x, y, w, h).
func box(id string, x, y, w, h float64, attrs ...string) *fakeElement {
	base := []string{
		AttrX, FormatNumber(x), AttrY, FormatNumber(y),
		AttrWidth, FormatNumber(w), AttrHeight, FormatNumber(h),
	}
	return newFakeElement(id, append(base, attrs...)...)
}
