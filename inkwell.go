package inkwell

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/tdewolff/parse/v2/strconv"
)

// Vec2 is a 2D vector used for positions, offsets and sizes throughout the
// API. Whether it is in screen or document space depends on the call site.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v scaled by f.
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

// Len returns the length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Dist returns the distance between v and o.
func (v Vec2) Dist(o Vec2) float64 { return math.Hypot(o.X-v.X, o.Y-v.Y) }

// Mid returns the midpoint of v and o.
func (v Vec2) Mid(o Vec2) Vec2 { return Vec2{(v.X + o.X) / 2, (v.Y + o.Y) / 2} }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// RectFromPoints returns the smallest rectangle containing a and b.
func RectFromPoints(a, b Vec2) Rect {
	minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
	minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Contains reports whether p lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Union returns the smallest rectangle containing r and other.
// An empty operand is ignored.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	minX := math.Min(r.X, other.X)
	minY := math.Min(r.Y, other.Y)
	maxX := math.Max(r.X+r.Width, other.X+other.Width)
	maxY := math.Max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// Corners returns the four corners in clockwise order starting top-left.
func (r Rect) Corners() [4]Vec2 {
	return [4]Vec2{
		{r.X, r.Y},
		{r.X + r.Width, r.Y},
		{r.X + r.Width, r.Y + r.Height},
		{r.X, r.Y + r.Height},
	}
}

// --- Attribute helpers ---

// ParseNumber parses a float attribute value. Leading and trailing
// whitespace is ignored; anything else after the number is an error.
func ParseNumber(s string) (float64, error) {
	b := []byte(strings.TrimSpace(s))
	f, n := strconv.ParseFloat(b)
	if n == 0 || n != len(b) {
		return 0, fmt.Errorf("parse number %q: invalid syntax", s)
	}
	return f, nil
}

// FormatNumber formats a float attribute value in its shortest form.
func FormatNumber(f float64) string {
	return fmt.Sprint(f)
}

// ParsePoints parses an SVG-style point list ("x1,y1 x2,y2 ...").
// Commas and whitespace are both accepted as separators.
func ParsePoints(s string) ([]Vec2, error) {
	b := []byte(s)
	var nums []float64
	i := skipSeparators(b, 0)
	for i < len(b) {
		f, n := strconv.ParseFloat(b[i:])
		if n == 0 {
			return nil, fmt.Errorf("parse points: bad number at offset %d", i)
		}
		nums = append(nums, f)
		i = skipSeparators(b, i+n)
	}
	if len(nums)%2 != 0 {
		return nil, fmt.Errorf("parse points: odd coordinate count %d", len(nums))
	}
	pts := make([]Vec2, len(nums)/2)
	for j := range pts {
		pts[j] = Vec2{nums[2*j], nums[2*j+1]}
	}
	return pts, nil
}

func skipSeparators(b []byte, i int) int {
	for i < len(b) && (b[i] == ',' || b[i] == ' ' || b[i] == '\t' || b[i] == '\n' || b[i] == '\r') {
		i++
	}
	return i
}

// FormatPoints formats points in the format read by ParsePoints.
func FormatPoints(pts []Vec2) string {
	var sb strings.Builder
	for i, p := range pts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(FormatNumber(p.X))
		sb.WriteByte(',')
		sb.WriteString(FormatNumber(p.Y))
	}
	return sb.String()
}

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa" hex colors, plus the
// keyword "none" which yields a fully transparent color.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if s == "none" || s == "transparent" {
		return color.NRGBA{}, nil
	}
	if !strings.HasPrefix(s, "#") {
		return color.NRGBA{}, fmt.Errorf("parse color %q: missing #", s)
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("parse color %q: bad length", s)
	}
	var v [4]uint8
	for i := range v {
		hi, ok1 := hexDigit(hex[2*i])
		lo, ok2 := hexDigit(hex[2*i+1])
		if !ok1 || !ok2 {
			return color.NRGBA{}, fmt.Errorf("parse color %q: bad digit", s)
		}
		v[i] = hi<<4 | lo
	}
	return color.NRGBA{R: v[0], G: v[1], B: v[2], A: v[3]}, nil
}

// FormatColor formats c as "#rrggbb", or "#rrggbbaa" when not opaque.
func FormatColor(c color.NRGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
