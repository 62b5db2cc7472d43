package inkwell

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"golang.org/x/image/math/f64"
	"gonum.org/v1/gonum/floats/scalar"
)

// Epsilon is the tolerance used when comparing matrices.
const Epsilon = 1e-9

// Matrix is a 2D affine matrix.
//
//	Layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Matrix [6]float64

// Identity is the identity matrix.
var Identity = Matrix{1, 0, 0, 1, 0, 0}

// Translation returns a translation matrix.
func Translation(dx, dy float64) Matrix {
	return Matrix{1, 0, 0, 1, dx, dy}
}

// Scaling returns a uniform scale matrix.
func Scaling(f float64) Matrix {
	return Matrix{f, 0, 0, f, 0, 0}
}

// RotationDegrees returns a clockwise (Y-down) rotation matrix.
func RotationDegrees(deg float64) Matrix {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return Matrix{cos, sin, -sin, cos, 0, 0}
}

// Mul returns m * o: the result applies o first, then m.
func (m Matrix) Mul(o Matrix) Matrix {
	return Matrix{
		m[0]*o[0] + m[2]*o[1],
		m[1]*o[0] + m[3]*o[1],
		m[0]*o[2] + m[2]*o[3],
		m[1]*o[2] + m[3]*o[3],
		m[0]*o[4] + m[2]*o[5] + m[4],
		m[1]*o[4] + m[3]*o[5] + m[5],
	}
}

// Invert returns the inverse of m.
// Returns Identity if the matrix is singular (determinant ≈ 0).
func (m Matrix) Invert() Matrix {
	det := m.Det()
	if det > -1e-12 && det < 1e-12 {
		return Identity
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Matrix{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// Det returns the determinant of the linear part.
func (m Matrix) Det() float64 {
	return m[0]*m[3] - m[2]*m[1]
}

// Apply transforms a point.
func (m Matrix) Apply(p Vec2) Vec2 {
	return Vec2{m[0]*p.X + m[2]*p.Y + m[4], m[1]*p.X + m[3]*p.Y + m[5]}
}

// ApplyRect transforms the corners of r and returns their bounding box.
func (m Matrix) ApplyRect(r Rect) Rect {
	cs := r.Corners()
	minP := m.Apply(cs[0])
	maxP := minP
	for _, c := range cs[1:] {
		p := m.Apply(c)
		minP.X, minP.Y = math.Min(minP.X, p.X), math.Min(minP.Y, p.Y)
		maxP.X, maxP.Y = math.Max(maxP.X, p.X), math.Max(maxP.Y, p.Y)
	}
	return Rect{X: minP.X, Y: minP.Y, Width: maxP.X - minP.X, Height: maxP.Y - minP.Y}
}

// ScaleFactor returns the uniform scale of m (sqrt of |det|).
func (m Matrix) ScaleFactor() float64 {
	return math.Sqrt(math.Abs(m.Det()))
}

// ApproxEqual reports whether every component of m and o differs by at most eps.
func (m Matrix) ApproxEqual(o Matrix, eps float64) bool {
	for i := range m {
		if !scalar.EqualWithinAbs(m[i], o[i], eps) {
			return false
		}
	}
	return true
}

// Aff3 returns m in the row-major layout used by golang.org/x/image/draw.
func (m Matrix) Aff3() f64.Aff3 {
	return f64.Aff3{m[0], m[2], m[4], m[1], m[3], m[5]}
}

// anchored conjugates op by a translation to focus so that focus is a fixed
// point of the returned matrix.
func anchored(op Matrix, focus Vec2) Matrix {
	return Translation(focus.X, focus.Y).Mul(op).Mul(Translation(-focus.X, -focus.Y))
}

// viewAnim tweens a view as translation, uniform scale and angle so every
// intermediate frame is a non-degenerate similarity.
type viewAnim struct {
	tx, ty, scale, angle *gween.Tween
	target               Matrix
}

// similarity splits m into translation, uniform scale and clockwise angle
// in degrees. Shear and reflection are not represented.
func similarity(m Matrix) (tx, ty, scale, angle float64) {
	return m[4], m[5], math.Hypot(m[0], m[1]), math.Atan2(m[1], m[0]) * 180 / math.Pi
}

func fromSimilarity(tx, ty, scale, angle float64) Matrix {
	m := RotationDegrees(angle)
	for i := 0; i < 4; i++ {
		m[i] *= scale
	}
	m[4], m[5] = tx, ty
	return m
}

// Transform is the affine mapping between document space and screen space
// owned by a Canvas. The stored matrix maps document points to screen points.
//
// Pan, ZoomAt and RotateAt take screen-space arguments and compose onto the
// current matrix, so that the focus point maps to the same document point
// before and after the operation.
type Transform struct {
	m   Matrix
	inv Matrix

	anim *viewAnim
}

// NewTransform creates an identity transform.
func NewTransform() *Transform {
	return &Transform{m: Identity, inv: Identity}
}

// Matrix returns the document-to-screen matrix.
func (t *Transform) Matrix() Matrix {
	return t.m
}

// Inverse returns the screen-to-document matrix.
func (t *Transform) Inverse() Matrix {
	return t.inv
}

// Set replaces the matrix and stops any running animation.
func (t *Transform) Set(m Matrix) {
	t.anim = nil
	t.set(m)
}

func (t *Transform) set(m Matrix) {
	t.m = m
	t.inv = m.Invert()
}

// Reset restores the identity mapping.
func (t *Transform) Reset() {
	t.Set(Identity)
}

// Pan translates the view by (dx, dy) screen pixels.
func (t *Transform) Pan(dx, dy float64) {
	t.Set(Translation(dx, dy).Mul(t.m))
}

// ZoomAt scales the view by factor around the screen point focus.
// Non-positive or non-finite factors are ignored.
func (t *Transform) ZoomAt(factor float64, focus Vec2) {
	if factor <= 0 || math.IsInf(factor, 0) || math.IsNaN(factor) {
		return
	}
	t.Set(anchored(Scaling(factor), focus).Mul(t.m))
}

// RotateAt rotates the view by deg degrees clockwise around the screen point focus.
func (t *Transform) RotateAt(deg float64, focus Vec2) {
	if math.IsInf(deg, 0) || math.IsNaN(deg) {
		return
	}
	t.Set(anchored(RotationDegrees(deg), focus).Mul(t.m))
}

// ToDocument converts a screen point to document space.
func (t *Transform) ToDocument(p Vec2) Vec2 {
	return t.Inverse().Apply(p)
}

// ToScreen converts a document point to screen space.
func (t *Transform) ToScreen(p Vec2) Vec2 {
	return t.m.Apply(p)
}

// Zoom returns the current uniform scale factor.
func (t *Transform) Zoom() float64 {
	return t.m.ScaleFactor()
}

// AnimateTo tweens the view to target over duration seconds. A nil easeFn
// defaults to ease.OutQuad. Translation, scale and angle are interpolated
// separately, the angle along the shorter arc; the last frame lands exactly
// on target.
func (t *Transform) AnimateTo(target Matrix, duration float32, easeFn ease.TweenFunc) {
	if duration <= 0 {
		t.Set(target)
		return
	}
	if easeFn == nil {
		easeFn = ease.OutQuad
	}
	fx, fy, fs, fa := similarity(t.m)
	tx, ty, ts, ta := similarity(target)
	ta = fa + normalizeDegrees(ta-fa)
	t.anim = &viewAnim{
		tx:     gween.New(float32(fx), float32(tx), duration, easeFn),
		ty:     gween.New(float32(fy), float32(ty), duration, easeFn),
		scale:  gween.New(float32(fs), float32(ts), duration, easeFn),
		angle:  gween.New(float32(fa), float32(ta), duration, easeFn),
		target: target,
	}
}

// Animating reports whether an AnimateTo tween is in progress.
func (t *Transform) Animating() bool {
	return t.anim != nil
}

// Update advances a running animation by dt seconds and reports whether the
// matrix changed.
func (t *Transform) Update(dt float32) bool {
	a := t.anim
	if a == nil {
		return false
	}
	tx, done := a.tx.Update(dt)
	ty, _ := a.ty.Update(dt)
	scale, _ := a.scale.Update(dt)
	angle, _ := a.angle.Update(dt)
	if done {
		// Tweens run in float32; land exactly on the target.
		t.anim = nil
		t.set(a.target)
		return true
	}
	t.set(fromSimilarity(float64(tx), float64(ty), float64(scale), float64(angle)))
	return true
}
