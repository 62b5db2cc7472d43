package inkwell

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func feed(r *Recognizer, id int, x, y float64, at time.Duration, phase Phase) []Gesture {
	return r.Feed(PointerSample{PointerID: id, Position: Vec2{X: x, Y: y}, Time: at}, phase)
}

func kinds(gs []Gesture) []GestureKind {
	out := make([]GestureKind, len(gs))
	for i, g := range gs {
		out[i] = g.Kind()
	}
	return out
}

// --- Taps ---

func TestRecognizerTapIsDeferredUntilDoubleTapWindowCloses(t *testing.T) {
	r := NewRecognizer(RecognizerConfig{})

	assert.Empty(t, feed(r, 1, 10, 10, 0, PhaseDown))
	assert.Empty(t, feed(r, 1, 12, 11, ms(50), PhaseUp))
	assert.Empty(t, r.Tick(ms(300)))

	gs := r.Tick(ms(400))
	require.Len(t, gs, 1)
	assert.Equal(t, Tap{Position: Vec2{X: 12, Y: 11}}, gs[0])

	assert.Empty(t, r.Tick(ms(1000)), "tap must be reported once")
}

func TestRecognizerImmediateTapWhenDoubleTapDisabled(t *testing.T) {
	r := NewRecognizer(RecognizerConfig{DoubleTapTimeout: -1})

	feed(r, 1, 10, 10, 0, PhaseDown)
	gs := feed(r, 1, 10, 10, ms(40), PhaseUp)
	require.Len(t, gs, 1)
	assert.Equal(t, GestureTap, gs[0].Kind())
}

func TestRecognizerSlowReleaseIsNotATap(t *testing.T) {
	r := NewRecognizer(RecognizerConfig{LongPressTimeout: time.Second})

	feed(r, 1, 10, 10, 0, PhaseDown)
	assert.Empty(t, feed(r, 1, 10, 10, ms(400), PhaseUp))
	assert.Empty(t, r.Tick(ms(2000)))
}

func TestRecognizerDoubleTap(t *testing.T) {
	r := NewRecognizer(RecognizerConfig{})

	feed(r, 1, 10, 10, 0, PhaseDown)
	feed(r, 1, 10, 10, ms(50), PhaseUp)
	gs := feed(r, 1, 15, 14, ms(150), PhaseDown)
	require.Len(t, gs, 1)
	assert.Equal(t, DoubleTap{Position: Vec2{X: 15, Y: 14}}, gs[0])

	assert.Empty(t, feed(r, 1, 15, 14, ms(200), PhaseUp), "second release is consumed")
	assert.Empty(t, r.Tick(ms(2000)), "no trailing tap after a double tap")
}

func TestRecognizerFarSecondPressFlushesPendingTap(t *testing.T) {
	r := NewRecognizer(RecognizerConfig{})

	feed(r, 1, 10, 10, 0, PhaseDown)
	feed(r, 1, 10, 10, ms(50), PhaseUp)
	gs := feed(r, 1, 200, 200, ms(100), PhaseDown)
	require.Len(t, gs, 1)
	assert.Equal(t, Tap{Position: Vec2{X: 10, Y: 10}}, gs[0])

	feed(r, 1, 200, 200, ms(150), PhaseUp)
	gs = r.Tick(ms(600))
	require.Len(t, gs, 1)
	assert.Equal(t, Tap{Position: Vec2{X: 200, Y: 200}}, gs[0])
}

// --- Long press ---

func TestRecognizerLongPressFiresFromTick(t *testing.T) {
	r := NewRecognizer(RecognizerConfig{})

	feed(r, 1, 30, 40, 0, PhaseDown)
	assert.Empty(t, r.Tick(ms(499)))

	gs := r.Tick(ms(500))
	require.Len(t, gs, 1)
	assert.Equal(t, LongPress{Position: Vec2{X: 30, Y: 40}}, gs[0])

	assert.Empty(t, r.Tick(ms(900)), "long press fires once")
	assert.Empty(t, feed(r, 1, 30, 40, ms(1000), PhaseUp), "release after long press is silent")
	assert.Empty(t, r.Tick(ms(2000)))
}

func TestRecognizerLongPressSuppressesDrag(t *testing.T) {
	r := NewRecognizer(RecognizerConfig{})

	feed(r, 1, 0, 0, 0, PhaseDown)
	r.Tick(ms(600))
	assert.Empty(t, feed(r, 1, 100, 0, ms(650), PhaseMove))
}

// --- Drag ---

func TestRecognizerDragLifecycle(t *testing.T) {
	r := NewRecognizer(RecognizerConfig{})

	var all []Gesture
	all = append(all, feed(r, 1, 0, 0, 0, PhaseDown)...)
	assert.Empty(t, feed(r, 1, 5, 0, ms(10), PhaseMove), "inside the tap slop")

	gs := feed(r, 1, 20, 0, ms(20), PhaseMove)
	require.Len(t, gs, 1)
	enter := gs[0].(Drag)
	assert.Equal(t, DragEnter, enter.State)
	assert.Equal(t, Vec2{X: 20}, enter.Delta)
	assert.Equal(t, 20.0, enter.Distance)
	all = append(all, gs...)

	gs = feed(r, 1, 30, 0, ms(30), PhaseMove)
	require.Len(t, gs, 1)
	assert.Equal(t, Drag{State: Dragging, PointerID: 1, Start: Vec2{}, Current: Vec2{X: 30}, Delta: Vec2{X: 10}, Distance: 30}, gs[0])
	all = append(all, gs...)

	assert.Empty(t, r.Tick(ms(900)), "no long press while dragging")

	gs = feed(r, 1, 30, 0, ms(950), PhaseUp)
	require.Len(t, gs, 1)
	exit := gs[0].(Drag)
	assert.Equal(t, DragExit, exit.State)
	assert.False(t, exit.Cancelled)
	assert.Equal(t, Vec2{X: 30}, exit.Current)
	all = append(all, gs...)

	enters, exits := 0, 0
	for _, g := range all {
		switch g.(Drag).State {
		case DragEnter:
			enters++
		case DragExit:
			exits++
		}
	}
	assert.Equal(t, 1, enters)
	assert.Equal(t, 1, exits)
	assert.Empty(t, r.Tick(ms(2000)), "a drag is never a tap")
}

func TestRecognizerCancelEndsDrag(t *testing.T) {
	r := NewRecognizer(RecognizerConfig{})

	feed(r, 1, 0, 0, 0, PhaseDown)
	feed(r, 1, 50, 0, ms(10), PhaseMove)
	gs := feed(r, 1, 80, 0, ms(20), PhaseCancel)
	require.Len(t, gs, 1)
	exit := gs[0].(Drag)
	assert.Equal(t, DragExit, exit.State)
	assert.True(t, exit.Cancelled)
	assert.Equal(t, Vec2{X: 50}, exit.Current, "cancel keeps the last real position")
	assert.Equal(t, 0, r.Active())
}

func TestRecognizerCancelledPressIsNotATap(t *testing.T) {
	r := NewRecognizer(RecognizerConfig{})

	feed(r, 1, 0, 0, 0, PhaseDown)
	assert.Empty(t, feed(r, 1, 0, 0, ms(10), PhaseCancel))
	assert.Empty(t, r.Tick(ms(1000)))
}

// --- Pinch ---

func TestRecognizerPinchScaleAndLazyRotate(t *testing.T) {
	r := NewRecognizer(RecognizerConfig{})

	feed(r, 1, 0, 0, 0, PhaseDown)
	gs := feed(r, 2, 100, 0, ms(10), PhaseDown)
	require.Len(t, gs, 1)
	assert.Equal(t, Scale{Status: GestureStart, Factor: 1, Focus: Vec2{X: 50}}, gs[0])

	gs = feed(r, 2, 200, 0, ms(20), PhaseMove)
	require.Len(t, gs, 1, "no rotate while the angle is inside the slop")
	assert.Equal(t, Scale{Status: GestureUpdate, Factor: 2, Focus: Vec2{X: 100}}, gs[0])

	gs = feed(r, 2, 0, 200, ms(30), PhaseMove)
	require.Equal(t, []GestureKind{GestureRotate}, kinds(gs), "distance unchanged so no scale update")
	rot := gs[0].(Rotate)
	assert.Equal(t, GestureStart, rot.Status)
	assert.InDelta(t, 90, rot.AbsoluteDegrees, 1e-9)
	assert.InDelta(t, 90, rot.RelativeDegrees, 1e-9)
	assert.Equal(t, 2, rot.PointerCount)

	gs = feed(r, 2, -200, 0, ms(40), PhaseMove)
	require.Equal(t, []GestureKind{GestureRotate}, kinds(gs))
	rot = gs[0].(Rotate)
	assert.Equal(t, GestureUpdate, rot.Status)
	assert.InDelta(t, 90, rot.RelativeDegrees, 1e-9)
	assert.InDelta(t, 180, rot.AbsoluteDegrees, 1e-9)

	gs = feed(r, 2, -200, 0, ms(50), PhaseUp)
	require.Equal(t, []GestureKind{GestureScale, GestureRotate}, kinds(gs))
	end := gs[0].(Scale)
	assert.Equal(t, GestureEnd, end.Status)
	assert.Equal(t, 2.0, end.Factor)
	assert.Equal(t, GestureEnd, gs[1].(Rotate).Status)
}

func TestRecognizerPinchWithoutTwistNeverRotates(t *testing.T) {
	r := NewRecognizer(RecognizerConfig{})

	feed(r, 1, 0, 0, 0, PhaseDown)
	feed(r, 2, 100, 0, ms(10), PhaseDown)
	feed(r, 2, 150, 2, ms(20), PhaseMove)
	gs := feed(r, 2, 150, 2, ms(30), PhaseUp)
	assert.Equal(t, []GestureKind{GestureScale}, kinds(gs))
}

func TestRecognizerPinchPreemptsDrag(t *testing.T) {
	r := NewRecognizer(RecognizerConfig{})

	feed(r, 1, 0, 0, 0, PhaseDown)
	feed(r, 1, 40, 0, ms(10), PhaseMove)
	gs := feed(r, 2, 140, 0, ms(20), PhaseDown)
	require.Equal(t, []GestureKind{GestureDrag, GestureScale}, kinds(gs))
	exit := gs[0].(Drag)
	assert.Equal(t, DragExit, exit.State)
	assert.True(t, exit.Cancelled)
	assert.Equal(t, GestureStart, gs[1].(Scale).Status)
}

func TestRecognizerSilentAfterPinchUntilAllUp(t *testing.T) {
	r := NewRecognizer(RecognizerConfig{})

	feed(r, 1, 0, 0, 0, PhaseDown)
	feed(r, 2, 100, 0, ms(10), PhaseDown)
	feed(r, 2, 100, 0, ms(20), PhaseUp)

	assert.Empty(t, feed(r, 1, 80, 0, ms(30), PhaseMove), "remaining pointer must not start a drag")
	assert.Empty(t, r.Tick(ms(2000)), "or a long press")
	assert.Empty(t, feed(r, 1, 80, 0, ms(2100), PhaseUp))

	// Fresh gestures work again once everything is up.
	feed(r, 1, 0, 0, ms(3000), PhaseDown)
	gs := feed(r, 1, 50, 0, ms(3010), PhaseMove)
	assert.Equal(t, []GestureKind{GestureDrag}, kinds(gs))
}

func TestRecognizerCancelEndsPinch(t *testing.T) {
	r := NewRecognizer(RecognizerConfig{})

	feed(r, 1, 0, 0, 0, PhaseDown)
	feed(r, 2, 100, 0, ms(10), PhaseDown)
	gs := feed(r, 1, 0, 0, ms(20), PhaseCancel)
	require.Len(t, gs, 1)
	end := gs[0].(Scale)
	assert.Equal(t, GestureEnd, end.Status)
	assert.True(t, end.Cancelled)
}

func TestRecognizerThirdPointerIsIgnored(t *testing.T) {
	r := NewRecognizer(RecognizerConfig{})

	feed(r, 1, 0, 0, 0, PhaseDown)
	feed(r, 2, 100, 0, ms(10), PhaseDown)
	assert.Empty(t, feed(r, 3, 300, 300, ms(20), PhaseDown))
	assert.Empty(t, feed(r, 3, 400, 300, ms(30), PhaseMove))
	assert.Empty(t, feed(r, 3, 400, 300, ms(40), PhaseUp))
	assert.Equal(t, 2, r.Active())
}

// --- Robustness ---

func TestRecognizerIgnoresInconsistentSequences(t *testing.T) {
	r := NewRecognizer(RecognizerConfig{})

	assert.NotPanics(t, func() {
		assert.Empty(t, feed(r, 7, 1, 1, 0, PhaseMove))
		assert.Empty(t, feed(r, 7, 1, 1, ms(1), PhaseUp))
		assert.Empty(t, feed(r, 7, 1, 1, ms(2), PhaseCancel))
		assert.Empty(t, feed(r, 7, 1, 1, ms(3), Phase(42)))
	})

	feed(r, 1, 0, 0, ms(10), PhaseDown)
	assert.Empty(t, feed(r, 1, 0, 0, ms(11), PhaseDown), "duplicate down")
	assert.Equal(t, 1, r.Active())
}

func TestRecognizerPointerLimit(t *testing.T) {
	r := NewRecognizer(RecognizerConfig{})
	for id := 0; id < MaxPointers+3; id++ {
		feed(r, id, float64(id*10), 0, 0, PhaseDown)
	}
	assert.Equal(t, MaxPointers, r.Active())
}

func TestRecognizerReset(t *testing.T) {
	r := NewRecognizer(RecognizerConfig{})

	feed(r, 1, 0, 0, 0, PhaseDown)
	feed(r, 1, 50, 0, ms(10), PhaseMove)
	r.Reset()

	assert.Equal(t, 0, r.Active())
	assert.Empty(t, feed(r, 1, 60, 0, ms(20), PhaseMove))
	assert.Empty(t, r.Tick(ms(5000)))
}

func TestRecognizerConfigDefaults(t *testing.T) {
	r := NewRecognizer(RecognizerConfig{TapSlop: 3})
	cfg := r.Config()
	assert.Equal(t, 3.0, cfg.TapSlop)
	assert.Equal(t, defaultLongPressTimeout, cfg.LongPressTimeout)
	assert.Equal(t, defaultRotateSlop, cfg.RotateSlop)
}

func TestNormalizeDegrees(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{180, 180},
		{-180, 180},
		{270, -90},
		{-270, 90},
		{725, 5},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, normalizeDegrees(tt.in), 1e-9, "normalizeDegrees(%v)", tt.in)
	}
}
