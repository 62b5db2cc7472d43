package inkwell

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	red   = color.NRGBA{R: 0xff, A: 0xff}
	white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

func opaque(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

func TestImageSurfaceFillPolygon(t *testing.T) {
	s := NewImageSurface(20, 20)
	s.Clear(white)
	s.FillPolygon([]Vec2{{X: 2, Y: 2}, {X: 12, Y: 2}, {X: 12, Y: 12}, {X: 2, Y: 12}}, red)

	assert.Equal(t, red, opaque(s.Image().At(7, 7)))
	assert.Equal(t, white, opaque(s.Image().At(15, 15)))
	assert.Equal(t, white, opaque(s.Image().At(1, 1)))
}

func TestImageSurfaceSkipsInvisible(t *testing.T) {
	s := NewImageSurface(10, 10)
	s.Clear(white)
	s.FillPolygon([]Vec2{{}, {X: 10}, {X: 10, Y: 10}}, nil)
	s.FillPolygon([]Vec2{{}, {X: 10}, {X: 10, Y: 10}}, color.NRGBA{R: 0xff})
	s.StrokePolyline([]Vec2{{}, {X: 10, Y: 10}}, false, 0, red)
	assert.Equal(t, white, opaque(s.Image().At(8, 2)))
}

func TestImageSurfaceStroke(t *testing.T) {
	s := NewImageSurface(30, 30)
	s.Clear(white)
	s.StrokePolyline([]Vec2{{X: 5, Y: 15}, {X: 25, Y: 15}}, false, 4, red)

	assert.Equal(t, red, opaque(s.Image().At(15, 15)))
	assert.Equal(t, white, opaque(s.Image().At(15, 5)))
}

func TestImageSurfaceFillCircle(t *testing.T) {
	s := NewImageSurface(30, 30)
	s.Clear(white)
	s.FillCircle(Vec2{X: 15, Y: 15}, 8, red)

	assert.Equal(t, red, opaque(s.Image().At(15, 15)))
	assert.Equal(t, white, opaque(s.Image().At(1, 1)), "corner stays outside the disc")
}

func TestImageSurfaceDrawText(t *testing.T) {
	s := NewImageSurface(60, 20)
	s.Clear(white)
	s.DrawText("HH", Vec2{X: 2, Y: 2}, red)

	inked := 0
	for y := 0; y < 20; y++ {
		for x := 0; x < 60; x++ {
			if opaque(s.Image().At(x, y)) != white {
				inked++
			}
		}
	}
	assert.Positive(t, inked)
	assert.Equal(t, 14.0, TextWidth("HH"))
}

func TestImageSurfaceClearNil(t *testing.T) {
	s := NewImageSurface(4, 4)
	s.Clear(nil)
	assert.Equal(t, uint8(0), s.Image().RGBAAt(1, 1).A)
}
