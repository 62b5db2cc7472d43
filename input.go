package inkwell

import (
	"math"
	"time"
)

// --- Constants ---

const (
	// MaxPointers is the number of simultaneously tracked pointers.
	// Pointers beyond this are ignored.
	MaxPointers = 10

	defaultTapSlop          = 10.0 // pixels
	defaultTapTimeout       = 300 * time.Millisecond
	defaultDoubleTapTimeout = 300 * time.Millisecond
	defaultDoubleTapSlop    = 40.0 // pixels
	defaultLongPressTimeout = 500 * time.Millisecond
	defaultRotateSlop       = 5.0 // degrees
)

// RecognizerConfig holds the recognizer thresholds. Zero fields take the
// defaults; a negative DoubleTapTimeout disables double-tap detection so
// taps are reported immediately.
type RecognizerConfig struct {
	TapSlop          float64
	TapTimeout       time.Duration
	DoubleTapTimeout time.Duration
	DoubleTapSlop    float64
	LongPressTimeout time.Duration
	RotateSlop       float64
}

// DefaultRecognizerConfig returns the default thresholds.
func DefaultRecognizerConfig() RecognizerConfig {
	return RecognizerConfig{
		TapSlop:          defaultTapSlop,
		TapTimeout:       defaultTapTimeout,
		DoubleTapTimeout: defaultDoubleTapTimeout,
		DoubleTapSlop:    defaultDoubleTapSlop,
		LongPressTimeout: defaultLongPressTimeout,
		RotateSlop:       defaultRotateSlop,
	}
}

func (c RecognizerConfig) withDefaults() RecognizerConfig {
	d := DefaultRecognizerConfig()
	if c.TapSlop <= 0 {
		c.TapSlop = d.TapSlop
	}
	if c.TapTimeout <= 0 {
		c.TapTimeout = d.TapTimeout
	}
	if c.DoubleTapTimeout == 0 {
		c.DoubleTapTimeout = d.DoubleTapTimeout
	}
	if c.DoubleTapSlop <= 0 {
		c.DoubleTapSlop = d.DoubleTapSlop
	}
	if c.LongPressTimeout <= 0 {
		c.LongPressTimeout = d.LongPressTimeout
	}
	if c.RotateSlop <= 0 {
		c.RotateSlop = d.RotateSlop
	}
	return c
}

// --- Per-pointer state ---

type pointerState struct {
	used     bool
	id       int
	down     bool
	start    Vec2
	last     Vec2
	downAt   time.Duration
	dragging bool
	// spent pointers produce no further single-pointer gestures for the rest
	// of their lifecycle (long press fired, double tap, pinch member).
	spent bool
}

// --- Pinch state ---

type pinchState struct {
	active       bool
	pointer0     int // slot indices
	pointer1     int
	initialDist  float64
	initialAngle float64
	prevDist     float64
	prevAngle    float64
	factor       float64
	absolute     float64
	focus        Vec2
	rotating     bool
}

// pendingTap is a completed tap held back until the double-tap window closes.
type pendingTap struct {
	active bool
	pos    Vec2
	upAt   time.Duration
}

// Recognizer turns pointer samples into gestures. It is a set of small
// per-family state machines: single-pointer (tap, double tap, long press,
// drag) and pointer pair (scale, rotate). It never panics; inconsistent
// sequences simply produce no gestures.
//
// A Recognizer is not safe for concurrent use.
type Recognizer struct {
	cfg      RecognizerConfig
	pointers [MaxPointers]pointerState
	pinch    pinchState
	pending  pendingTap
	// silent is set when a pinch ends with pointers still down; those
	// pointers stay quiet until every pointer has been released.
	silent bool
	now    time.Duration
}

// NewRecognizer creates a recognizer with the given thresholds.
func NewRecognizer(cfg RecognizerConfig) *Recognizer {
	return &Recognizer{cfg: cfg.withDefaults()}
}

// Config returns the effective thresholds.
func (r *Recognizer) Config() RecognizerConfig {
	return r.cfg
}

// Feed processes one sample and returns the gestures it completes, in order.
func (r *Recognizer) Feed(s PointerSample, phase Phase) []Gesture {
	var out []Gesture
	out = r.advance(s.Time, out)
	switch phase {
	case PhaseDown:
		out = r.pointerDown(s, out)
	case PhaseMove:
		out = r.pointerMove(s, out)
	case PhaseUp:
		out = r.pointerUp(s, false, out)
	case PhaseCancel:
		out = r.pointerUp(s, true, out)
	}
	return out
}

// Tick advances the clock without a sample, firing time-based gestures
// (long press, deferred tap). Hosts call it once per frame.
func (r *Recognizer) Tick(now time.Duration) []Gesture {
	return r.advance(now, nil)
}

// Reset drops all tracking state without emitting anything. In-flight
// gestures are abandoned.
func (r *Recognizer) Reset() {
	cfg, now := r.cfg, r.now
	*r = Recognizer{cfg: cfg, now: now}
}

// Active returns the number of pointers currently down.
func (r *Recognizer) Active() int {
	n := 0
	for i := range r.pointers {
		if r.pointers[i].used && r.pointers[i].down {
			n++
		}
	}
	return n
}

// advance moves the clock forward and fires expired timers.
func (r *Recognizer) advance(now time.Duration, out []Gesture) []Gesture {
	if now > r.now {
		r.now = now
	}
	if r.pending.active && r.now-r.pending.upAt > r.cfg.DoubleTapTimeout {
		out = append(out, Tap{Position: r.pending.pos})
		r.pending.active = false
	}
	if r.pinch.active || r.silent {
		return out
	}
	for i := range r.pointers {
		ps := &r.pointers[i]
		if !ps.used || !ps.down || ps.dragging || ps.spent {
			continue
		}
		if r.now-ps.downAt >= r.cfg.LongPressTimeout {
			ps.spent = true
			out = append(out, LongPress{Position: ps.start})
		}
	}
	return out
}

// slot returns the slot tracking pointer id, or -1.
func (r *Recognizer) slot(id int) int {
	for i := range r.pointers {
		if r.pointers[i].used && r.pointers[i].id == id {
			return i
		}
	}
	return -1
}

// allocSlot reserves a slot for id. Returns -1 if full.
func (r *Recognizer) allocSlot(id int) int {
	for i := range r.pointers {
		if !r.pointers[i].used {
			r.pointers[i] = pointerState{used: true, id: id}
			return i
		}
	}
	return -1
}

func (r *Recognizer) pointerDown(s PointerSample, out []Gesture) []Gesture {
	if r.slot(s.PointerID) >= 0 {
		// Duplicate down for a tracked pointer.
		return out
	}
	active := r.Active()
	i := r.allocSlot(s.PointerID)
	if i < 0 {
		return out
	}
	ps := &r.pointers[i]
	ps.down = true
	ps.start = s.Position
	ps.last = s.Position
	ps.downAt = r.now

	switch {
	case r.silent || active >= 2:
		ps.spent = true
	case active == 0:
		if r.pending.active {
			if r.now-r.pending.upAt <= r.cfg.DoubleTapTimeout &&
				r.pending.pos.Dist(s.Position) <= r.cfg.DoubleTapSlop {
				ps.spent = true
				out = append(out, DoubleTap{Position: s.Position})
			} else {
				out = append(out, Tap{Position: r.pending.pos})
			}
			r.pending.active = false
		}
	case active == 1:
		out = r.startPinch(i, out)
	}
	return out
}

// startPinch pairs the pointer in slot i with the one already down. A drag
// in progress on the first pointer is cancelled: two-pointer gestures win.
func (r *Recognizer) startPinch(i int, out []Gesture) []Gesture {
	other := -1
	for j := range r.pointers {
		if j != i && r.pointers[j].used && r.pointers[j].down {
			other = j
			break
		}
	}
	if other < 0 {
		return out
	}
	ps0 := &r.pointers[other]
	ps1 := &r.pointers[i]
	if ps0.dragging {
		out = append(out, Drag{
			State:     DragExit,
			PointerID: ps0.id,
			Start:     ps0.start,
			Current:   ps0.last,
			Distance:  ps0.start.Dist(ps0.last),
			Cancelled: true,
		})
		ps0.dragging = false
	}
	ps0.spent = true
	ps1.spent = true

	dist, angle := pairGeometry(ps0.last, ps1.last)
	r.pinch = pinchState{
		active:       true,
		pointer0:     other,
		pointer1:     i,
		initialDist:  dist,
		initialAngle: angle,
		prevDist:     dist,
		prevAngle:    angle,
		factor:       1,
		focus:        ps0.last.Mid(ps1.last),
	}
	return append(out, Scale{Status: GestureStart, Factor: 1, Focus: r.pinch.focus})
}

func (r *Recognizer) pointerMove(s PointerSample, out []Gesture) []Gesture {
	i := r.slot(s.PointerID)
	if i < 0 || !r.pointers[i].down {
		return out
	}
	ps := &r.pointers[i]
	prev := ps.last
	ps.last = s.Position

	if r.pinch.active && (i == r.pinch.pointer0 || i == r.pinch.pointer1) {
		return r.updatePinch(out)
	}
	if ps.spent {
		return out
	}
	if !ps.dragging {
		d := ps.start.Dist(s.Position)
		if d > r.cfg.TapSlop {
			ps.dragging = true
			out = append(out, Drag{
				State:     DragEnter,
				PointerID: ps.id,
				Start:     ps.start,
				Current:   s.Position,
				Delta:     s.Position.Sub(ps.start),
				Distance:  d,
			})
		}
		return out
	}
	return append(out, Drag{
		State:     Dragging,
		PointerID: ps.id,
		Start:     ps.start,
		Current:   s.Position,
		Delta:     s.Position.Sub(prev),
		Distance:  ps.start.Dist(s.Position),
	})
}

func (r *Recognizer) updatePinch(out []Gesture) []Gesture {
	p0 := r.pointers[r.pinch.pointer0].last
	p1 := r.pointers[r.pinch.pointer1].last
	dist, angle := pairGeometry(p0, p1)
	r.pinch.focus = p0.Mid(p1)

	if dist != r.pinch.prevDist {
		if r.pinch.initialDist > 0 {
			r.pinch.factor = dist / r.pinch.initialDist
		}
		r.pinch.prevDist = dist
		out = append(out, Scale{Status: GestureUpdate, Factor: r.pinch.factor, Focus: r.pinch.focus})
	}

	absolute := normalizeDegrees(angle - r.pinch.initialAngle)
	if !r.pinch.rotating {
		if math.Abs(absolute) < r.cfg.RotateSlop {
			return out
		}
		r.pinch.rotating = true
		r.pinch.absolute = absolute
		r.pinch.prevAngle = angle
		return append(out, Rotate{
			Status:          GestureStart,
			RelativeDegrees: absolute,
			AbsoluteDegrees: absolute,
			PointerCount:    2,
			Focus:           r.pinch.focus,
		})
	}
	rel := normalizeDegrees(angle - r.pinch.prevAngle)
	if rel == 0 {
		return out
	}
	r.pinch.prevAngle = angle
	r.pinch.absolute = absolute
	return append(out, Rotate{
		Status:          GestureUpdate,
		RelativeDegrees: rel,
		AbsoluteDegrees: absolute,
		PointerCount:    2,
		Focus:           r.pinch.focus,
	})
}

func (r *Recognizer) endPinch(cancelled bool, out []Gesture) []Gesture {
	out = append(out, Scale{
		Status:    GestureEnd,
		Factor:    r.pinch.factor,
		Focus:     r.pinch.focus,
		Cancelled: cancelled,
	})
	if r.pinch.rotating {
		out = append(out, Rotate{
			Status:          GestureEnd,
			AbsoluteDegrees: r.pinch.absolute,
			PointerCount:    2,
			Focus:           r.pinch.focus,
			Cancelled:       cancelled,
		})
	}
	r.pinch = pinchState{}
	return out
}

func (r *Recognizer) pointerUp(s PointerSample, cancelled bool, out []Gesture) []Gesture {
	i := r.slot(s.PointerID)
	if i < 0 || !r.pointers[i].down {
		return out
	}
	ps := &r.pointers[i]
	prev := ps.last
	if !cancelled {
		ps.last = s.Position
	}

	switch {
	case r.pinch.active && (cancelled || i == r.pinch.pointer0 || i == r.pinch.pointer1):
		// A platform cancel on any pointer ends the pair.
		out = r.endPinch(cancelled, out)
		r.silent = true
	case ps.dragging:
		out = append(out, Drag{
			State:     DragExit,
			PointerID: ps.id,
			Start:     ps.start,
			Current:   ps.last,
			Delta:     ps.last.Sub(prev),
			Distance:  ps.start.Dist(ps.last),
			Cancelled: cancelled,
		})
	case ps.spent || cancelled:
	case ps.start.Dist(s.Position) <= r.cfg.TapSlop && r.now-ps.downAt <= r.cfg.TapTimeout:
		if r.cfg.DoubleTapTimeout < 0 {
			out = append(out, Tap{Position: s.Position})
		} else {
			r.pending = pendingTap{active: true, pos: s.Position, upAt: r.now}
		}
	}

	r.pointers[i] = pointerState{}
	if r.Active() == 0 {
		r.silent = false
	}
	return out
}

// pairGeometry returns the distance between a and b and the angle of the
// a→b vector in degrees.
func pairGeometry(a, b Vec2) (dist, deg float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	return math.Hypot(dx, dy), math.Atan2(dy, dx) * 180 / math.Pi
}

// normalizeDegrees maps d into (-180, 180].
func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}
