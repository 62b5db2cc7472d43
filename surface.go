package inkwell

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// circleSegments is the polygon resolution used for circles and round joins.
const circleSegments = 32

// ImageSurface is a software Surface over an *image.RGBA. It needs no GPU
// or window, which makes it the surface used by headless hosts and tests.
type ImageSurface struct {
	img *image.RGBA
	ras *vector.Rasterizer
}

// NewImageSurface allocates a w x h surface.
func NewImageSurface(w, h int) *ImageSurface {
	return &ImageSurface{
		img: image.NewRGBA(image.Rect(0, 0, w, h)),
		ras: vector.NewRasterizer(w, h),
	}
}

// Image returns the backing image.
func (s *ImageSurface) Image() *image.RGBA { return s.img }

func (s *ImageSurface) Bounds() image.Rectangle { return s.img.Bounds() }

func (s *ImageSurface) Clear(c color.Color) {
	if c == nil {
		c = color.Transparent
	}
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

func (s *ImageSurface) FillPolygon(pts []Vec2, c color.Color) {
	if len(pts) < 3 || transparent(c) {
		return
	}
	b := s.img.Bounds()
	s.ras.Reset(b.Dx(), b.Dy())
	s.ras.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		s.ras.LineTo(float32(p.X), float32(p.Y))
	}
	s.ras.ClosePath()
	s.ras.Draw(s.img, b, image.NewUniform(c), image.Point{})
}

// StrokePolyline draws each segment as a quad and fills the joints with
// discs, giving round joins and caps.
func (s *ImageSurface) StrokePolyline(pts []Vec2, closed bool, width float64, c color.Color) {
	if len(pts) == 0 || width <= 0 || transparent(c) {
		return
	}
	half := width / 2
	n := len(pts)
	segs := n - 1
	if closed && n > 2 {
		segs = n
	}
	for i := 0; i < segs; i++ {
		a, b := pts[i], pts[(i+1)%n]
		if quad, ok := segmentQuad(a, b, half); ok {
			s.FillPolygon(quad[:], c)
		}
	}
	if half >= 1 {
		for _, p := range pts {
			s.FillCircle(p, half, c)
		}
	}
}

func (s *ImageSurface) FillCircle(center Vec2, radius float64, c color.Color) {
	if radius <= 0 {
		return
	}
	s.FillPolygon(circlePoints(center, radius, radius), c)
}

// DrawText draws s with the 7x13 bitmap face; at is the top-left corner.
func (s *ImageSurface) DrawText(str string, at Vec2, c color.Color) {
	d := &font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(int(math.Round(at.X)), int(math.Round(at.Y))+basicfont.Face7x13.Ascent),
	}
	d.DrawString(str)
}

// TextWidth returns the advance of s in the face used by DrawText.
func TextWidth(s string) float64 {
	return float64(font.MeasureString(basicfont.Face7x13, s).Round())
}

// TextHeight is the line height of the face used by DrawText.
const TextHeight = 13

// segmentQuad returns the rectangle of half-width half around a→b.
func segmentQuad(a, b Vec2, half float64) ([4]Vec2, bool) {
	d := b.Sub(a)
	l := d.Len()
	if l == 0 {
		return [4]Vec2{}, false
	}
	n := Vec2{-d.Y / l * half, d.X / l * half}
	return [4]Vec2{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)}, true
}

// circlePoints returns an ellipse outline with radii rx, ry.
func circlePoints(center Vec2, rx, ry float64) []Vec2 {
	pts := make([]Vec2, circleSegments)
	for i := range pts {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / circleSegments)
		pts[i] = Vec2{center.X + rx*cos, center.Y + ry*sin}
	}
	return pts
}

// EllipsePoints returns a polygon approximating the ellipse inscribed in r.
func EllipsePoints(r Rect) []Vec2 {
	return circlePoints(r.Center(), r.Width/2, r.Height/2)
}

func transparent(c color.Color) bool {
	if c == nil {
		return true
	}
	_, _, _, a := c.RGBA()
	return a == 0
}
