package vecdoc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/inkwell"
)

func rect(x, y, w, h string) *Element {
	e := NewElement(inkwell.KindRect)
	e.SetAttr(inkwell.AttrX, x)
	e.SetAttr(inkwell.AttrY, y)
	e.SetAttr(inkwell.AttrWidth, w)
	e.SetAttr(inkwell.AttrHeight, h)
	return e
}

func TestNewElementIDsAreUnique(t *testing.T) {
	a, b := NewElement(inkwell.KindRect), NewElement(inkwell.KindRect)
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, inkwell.Identity, a.Transform())
}

func TestSetAttrEmptyRemoves(t *testing.T) {
	e := NewElement(inkwell.KindRect)
	e.SetAttr("fill", "#fff")
	e.SetAttr("fill", "")
	_, ok := e.Attr("fill")
	assert.False(t, ok)

	attrs := e.Attrs()
	attrs["x"] = "1"
	_, ok = e.Attr("x")
	assert.False(t, ok, "Attrs returns a copy")
}

func TestInsertRemove(t *testing.T) {
	d := New()
	a, b, c := rect("0", "0", "1", "1"), rect("0", "0", "1", "1"), rect("0", "0", "1", "1")
	d.Add(a)
	d.Add(b)
	d.Insert(c, 1)
	assert.Equal(t, []*Element{a, c, b}, d.Elements())

	d.Insert(a, 99)
	assert.Equal(t, []*Element{c, b, a}, d.Elements(), "reinserting moves the element")

	assert.Equal(t, 1, d.Remove(b))
	assert.Equal(t, -1, d.Remove(b))
	assert.Equal(t, -1, d.Remove(NewElement(inkwell.KindRect)))
	assert.Equal(t, 2, d.Len())
}

func TestInsertForeignElementPanics(t *testing.T) {
	d := New()
	assert.PanicsWithValue(t, "vecdoc: element does not belong to this document type", func() {
		d.Insert(nil, 0)
	})
}

func TestGroupTree(t *testing.T) {
	g := NewElement(KindGroup)
	child := rect("0", "0", "10", "10")
	g.AddChild(child)
	assert.Same(t, g, child.Parent())

	assert.PanicsWithValue(t, "vecdoc: adding child would create a cycle", func() { child.AddChild(g) })
	assert.PanicsWithValue(t, "vecdoc: adding child would create a cycle", func() { g.AddChild(g) })
	assert.PanicsWithValue(t, "vecdoc: cannot add nil child", func() { g.AddChild(nil) })

	other := NewElement(KindGroup)
	other.AddChild(child)
	assert.Empty(t, g.Children(), "adding elsewhere detaches")
	assert.PanicsWithValue(t, "vecdoc: child's parent is not this element", func() { g.RemoveChild(child) })

	d := New()
	d.Add(other)
	assert.Same(t, child, d.Find(child.ID()))
	assert.Nil(t, d.Find("missing"))
}

func TestBoundingBoxComposesGroupTransforms(t *testing.T) {
	g := NewElement(KindGroup)
	g.SetTransform(inkwell.Translation(100, 0))
	child := rect("0", "0", "10", "20")
	child.SetTransform(inkwell.Scaling(2))
	g.AddChild(child)
	d := New()
	d.Add(g)

	assert.Equal(t, inkwell.Rect{X: 100, Y: 0, Width: 20, Height: 40}, d.BoundingBox(child))
	assert.Equal(t, inkwell.Rect{X: 100, Y: 0, Width: 20, Height: 40}, d.BoundingBox(g))
}

func TestLocalBoundsByKind(t *testing.T) {
	path := NewElement(inkwell.KindPath)
	path.SetAttr(inkwell.AttrPoints, "0,0 10,5")
	path.SetAttr(inkwell.AttrStroke, "#000")
	path.SetAttr(inkwell.AttrStrokeWidth, "2")
	assert.Equal(t, inkwell.Rect{X: -1, Y: -1, Width: 12, Height: 7}, path.LocalBounds())

	text := NewElement(inkwell.KindText)
	text.SetAttr(inkwell.AttrText, "abc")
	text.SetAttr(inkwell.AttrFontSize, "26")
	assert.Equal(t, inkwell.Rect{Width: 42, Height: 26}, text.LocalBounds())
}

func TestHitTest(t *testing.T) {
	d := New()
	bottom := d.Add(rect("0", "0", "100", "100"))
	top := d.Add(rect("50", "50", "100", "100"))

	ellipse := NewElement(inkwell.KindEllipse)
	for k, v := range map[string]string{"x": "200", "y": "0", "width": "100", "height": "50"} {
		ellipse.SetAttr(k, v)
	}
	d.Add(ellipse)

	line := NewElement(inkwell.KindPath)
	line.SetAttr(inkwell.AttrPoints, "0,300 100,300")
	d.Add(line)

	hidden := d.Add(rect("0", "400", "10", "10"))
	hidden.SetAttr("visible", "false")

	moved := d.Add(rect("0", "0", "10", "10"))
	moved.SetTransform(inkwell.Translation(500, 500))

	tests := []struct {
		name string
		p    inkwell.Vec2
		want inkwell.Element
	}{
		{"overlap picks topmost", inkwell.Vec2{X: 75, Y: 75}, top},
		{"bottom only", inkwell.Vec2{X: 10, Y: 10}, bottom},
		{"ellipse center", inkwell.Vec2{X: 250, Y: 25}, ellipse},
		{"ellipse bbox corner misses", inkwell.Vec2{X: 202, Y: 2}, nil},
		{"near line", inkwell.Vec2{X: 50, Y: 303}, line},
		{"far from line", inkwell.Vec2{X: 50, Y: 310}, nil},
		{"hidden", inkwell.Vec2{X: 5, Y: 405}, nil},
		{"transformed", inkwell.Vec2{X: 505, Y: 505}, moved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.HitTest(tt.p)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.Same(t, tt.want, got)
		})
	}
}

func TestFilledPathHit(t *testing.T) {
	d := New()
	tri := NewElement(inkwell.KindPath)
	tri.SetAttr(inkwell.AttrPoints, "0,0 100,0 0,100")
	d.Add(tri)
	assert.Nil(t, d.HitTest(inkwell.Vec2{X: 20, Y: 20}), "unfilled interior misses")

	tri.SetAttr(inkwell.AttrFill, "#f00")
	assert.Same(t, tri, d.HitTest(inkwell.Vec2{X: 20, Y: 20}))
	assert.Nil(t, d.HitTest(inkwell.Vec2{X: 80, Y: 80}))
}

func TestDrawPaintsElements(t *testing.T) {
	d := New()
	r := d.Add(rect("2", "2", "6", "6"))
	r.SetAttr(inkwell.AttrFill, "#ff0000")

	s := inkwell.NewImageSurface(40, 40)
	s.Clear(nil)
	require.NoError(t, d.Draw(context.Background(), s, inkwell.Scaling(4)))

	assert.Equal(t, uint8(0xff), s.Image().RGBAAt(20, 20).R)
	assert.Equal(t, uint8(0), s.Image().RGBAAt(4, 4).A, "outside the scaled rect")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, d.Draw(ctx, s, inkwell.Identity), context.Canceled)
}
