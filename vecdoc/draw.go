package vecdoc

import (
	"image/color"

	"github.com/phanxgames/inkwell"
)

// drawElement walks the subtree depth-first, composing each element's
// transform onto its parent's.
func drawElement(s inkwell.Surface, e *Element, parent inkwell.Matrix) {
	if e.attrs["visible"] == "false" {
		return
	}
	world := parent.Mul(e.transform)
	scale := world.ScaleFactor()
	fill := paint(e.attrs[inkwell.AttrFill])
	stroke := paint(e.attrs[inkwell.AttrStroke])
	width := e.strokeWidth() * scale

	switch e.kind {
	case KindGroup:
		for _, c := range e.children {
			drawElement(s, c, world)
		}
	case inkwell.KindRect:
		cs := e.LocalBounds().Corners()
		pts := apply(world, cs[:])
		s.FillPolygon(pts, fill)
		s.StrokePolyline(pts, true, width, stroke)
	case inkwell.KindEllipse:
		pts := apply(world, inkwell.EllipsePoints(e.LocalBounds()))
		s.FillPolygon(pts, fill)
		s.StrokePolyline(pts, true, width, stroke)
	case inkwell.KindPath:
		pts := apply(world, e.points())
		s.FillPolygon(pts, fill)
		s.StrokePolyline(pts, false, width, stroke)
	case inkwell.KindText:
		at := world.Apply(inkwell.Vec2{X: e.number(inkwell.AttrX, 0), Y: e.number(inkwell.AttrY, 0)})
		c := fill
		if c == nil {
			c = color.Black
		}
		s.DrawText(e.attrs[inkwell.AttrText], at, c)
	}
}

func apply(m inkwell.Matrix, pts []inkwell.Vec2) []inkwell.Vec2 {
	out := make([]inkwell.Vec2, len(pts))
	for i, p := range pts {
		out[i] = m.Apply(p)
	}
	return out
}

// paint parses a fill or stroke value; missing, "none" and malformed values
// paint nothing.
func paint(v string) color.Color {
	if v == "" {
		return nil
	}
	c, err := inkwell.ParseColor(v)
	if err != nil || c.A == 0 {
		return nil
	}
	return c
}
