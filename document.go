package inkwell

import (
	"context"
	"image"
	"image/color"
)

// Element is one node of a vector document. Attribute values are strings in
// the document's own format; setting an empty value removes the attribute.
type Element interface {
	ID() string
	Kind() string
	Attr(name string) (string, bool)
	SetAttr(name, value string)
	// Transform is the element's local-to-document matrix.
	Transform() Matrix
	SetTransform(m Matrix)
}

// Document is the vector scene graph edited through the tools. The engine
// only touches top-level elements.
type Document interface {
	Children() []Element
	// NewElement creates a detached element of the given kind.
	NewElement(kind string) Element
	// Insert attaches e at index; an out of range index appends.
	Insert(e Element, index int)
	// Remove detaches e and returns its former index, or -1.
	Remove(e Element) int
	// BoundingBox returns e's bounds in document space.
	BoundingBox(e Element) Rect
	// HitTest returns the topmost element containing the document point p.
	HitTest(p Vec2) Element
	// Draw renders the document through view (document to screen).
	Draw(ctx context.Context, s Surface, view Matrix) error
}

// Surface is a 2D drawing target in screen space.
type Surface interface {
	Bounds() image.Rectangle
	Clear(c color.Color)
	FillPolygon(pts []Vec2, c color.Color)
	StrokePolyline(pts []Vec2, closed bool, width float64, c color.Color)
	FillCircle(center Vec2, radius float64, c color.Color)
	DrawText(s string, at Vec2, c color.Color)
}

// Kinds created by the built-in tools.
const (
	KindRect    = "rect"
	KindEllipse = "ellipse"
	KindPath    = "path"
	KindText    = "text"
)

// Attribute names written by the built-in tools.
const (
	AttrX           = "x"
	AttrY           = "y"
	AttrWidth       = "width"
	AttrHeight      = "height"
	AttrPoints      = "points"
	AttrFill        = "fill"
	AttrStroke      = "stroke"
	AttrStrokeWidth = "stroke-width"
	AttrText        = "text"
	AttrFontSize    = "font-size"
)

// indexOf returns the position of e among doc's children, or -1.
func indexOf(doc Document, e Element) int {
	for i, c := range doc.Children() {
		if c == e {
			return i
		}
	}
	return -1
}
