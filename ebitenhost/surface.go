package ebitenhost

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/inkwell"
)

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image used
// as the source for solid triangle fills.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.White)
	}
	return whitePixelImage
}

// Surface draws onto an *ebiten.Image.
type Surface struct {
	Image *ebiten.Image
	// AntiAlias smooths strokes and circles.
	AntiAlias bool

	verts []ebiten.Vertex
	inds  []uint16
}

var _ inkwell.Surface = (*Surface)(nil)

// NewSurface wraps img.
func NewSurface(img *ebiten.Image) *Surface {
	return &Surface{Image: img, AntiAlias: true}
}

func (s *Surface) Bounds() image.Rectangle { return s.Image.Bounds() }

func (s *Surface) Clear(c color.Color) {
	if c == nil {
		s.Image.Clear()
		return
	}
	s.Image.Fill(c)
}

// FillPolygon fills with the even-odd rule so self-intersecting freehand
// outlines render as expected.
func (s *Surface) FillPolygon(pts []inkwell.Vec2, c color.Color) {
	if len(pts) < 3 || invisible(c) {
		return
	}
	var path vector.Path
	path.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		path.LineTo(float32(p.X), float32(p.Y))
	}
	path.Close()

	s.verts, s.inds = path.AppendVerticesAndIndicesForFilling(s.verts[:0], s.inds[:0])
	r, g, b, a := straight(c)
	for i := range s.verts {
		v := &s.verts[i]
		v.SrcX, v.SrcY = 0.5, 0.5
		v.ColorR, v.ColorG, v.ColorB, v.ColorA = r, g, b, a
	}
	op := &ebiten.DrawTrianglesOptions{FillRule: ebiten.FillRuleEvenOdd, AntiAlias: s.AntiAlias}
	s.Image.DrawTriangles(s.verts, s.inds, ensureWhitePixel(), op)
}

func (s *Surface) StrokePolyline(pts []inkwell.Vec2, closed bool, width float64, c color.Color) {
	if len(pts) == 0 || width <= 0 || invisible(c) {
		return
	}
	n := len(pts)
	segs := n - 1
	if closed && n > 2 {
		segs = n
	}
	w := float32(width)
	for i := 0; i < segs; i++ {
		a, b := pts[i], pts[(i+1)%n]
		vector.StrokeLine(s.Image, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), w, c, s.AntiAlias)
	}
	if width >= 2 {
		for _, p := range pts {
			vector.DrawFilledCircle(s.Image, float32(p.X), float32(p.Y), w/2, c, s.AntiAlias)
		}
	}
}

func (s *Surface) FillCircle(center inkwell.Vec2, radius float64, c color.Color) {
	if radius <= 0 || invisible(c) {
		return
	}
	vector.DrawFilledCircle(s.Image, float32(center.X), float32(center.Y), float32(radius), c, s.AntiAlias)
}

// DrawText uses the built-in debug font. It draws in the debug font's own
// color; c only decides visibility.
func (s *Surface) DrawText(str string, at inkwell.Vec2, c color.Color) {
	if invisible(c) {
		return
	}
	ebitenutil.DebugPrintAt(s.Image, str, int(at.X), int(at.Y))
}

func invisible(c color.Color) bool {
	if c == nil {
		return true
	}
	_, _, _, a := c.RGBA()
	return a == 0
}

// straight converts c to straight-alpha float components.
func straight(c color.Color) (r, g, b, a float32) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return float32(n.R) / 0xff, float32(n.G) / 0xff, float32(n.B) / 0xff, float32(n.A) / 0xff
}
