package inkwell

import (
	"fmt"
	"time"
)

// Phase is the lifecycle stage of a pointer sample.
type Phase uint8

const (
	PhaseDown Phase = iota
	PhaseMove
	PhaseUp
	PhaseCancel
)

func (p Phase) String() string {
	switch p {
	case PhaseDown:
		return "Down"
	case PhaseMove:
		return "Move"
	case PhaseUp:
		return "Up"
	case PhaseCancel:
		return "Cancel"
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}

// PointerSample is one raw pointer reading in screen space. Time is a
// monotonic timestamp relative to an arbitrary epoch chosen by the adapter.
type PointerSample struct {
	PointerID int
	Position  Vec2
	Time      time.Duration
}

// PointerInput is a sample plus its phase, as sent by a platform adapter.
type PointerInput struct {
	Sample PointerSample
	Phase  Phase
}

// GestureKind identifies the concrete type of a Gesture.
type GestureKind uint8

const (
	GestureUndefined GestureKind = iota
	GestureTap
	GestureDoubleTap
	GestureLongPress
	GestureDrag
	GestureScale
	GestureRotate
)

func (k GestureKind) String() string {
	switch k {
	case GestureTap:
		return "Tap"
	case GestureDoubleTap:
		return "DoubleTap"
	case GestureLongPress:
		return "LongPress"
	case GestureDrag:
		return "Drag"
	case GestureScale:
		return "Scale"
	case GestureRotate:
		return "Rotate"
	}
	return "Undefined"
}

// Gesture is a semantic event produced by the Recognizer. The concrete types
// are Tap, DoubleTap, LongPress, Drag, Scale and Rotate.
type Gesture interface {
	Kind() GestureKind
	// Anchor is the screen point the gesture acts on: the tap position, the
	// drag start, or the multi-pointer focus.
	Anchor() Vec2
}

// Tap is a short press and release without significant movement.
type Tap struct {
	Position Vec2
}

// DoubleTap is a second press shortly after a Tap, near the same spot.
type DoubleTap struct {
	Position Vec2
}

// LongPress is a press held in place beyond the long-press timeout.
type LongPress struct {
	Position Vec2
}

// DragState is the stage of a single-pointer drag.
type DragState uint8

const (
	DragEnter DragState = iota
	Dragging
	DragExit
)

func (s DragState) String() string {
	switch s {
	case DragEnter:
		return "Enter"
	case Dragging:
		return "Dragging"
	case DragExit:
		return "Exit"
	}
	return fmt.Sprintf("DragState(%d)", uint8(s))
}

// Drag is a single-pointer move beyond the tap slop.
type Drag struct {
	State     DragState
	PointerID int
	Start     Vec2
	Current   Vec2
	// Delta is the movement since the previous Drag event.
	Delta Vec2
	// Distance is the straight-line distance from Start to Current.
	Distance float64
	// Cancelled is set on an Exit caused by a platform cancel or by a second
	// pointer taking over. Tools must discard pending state without committing.
	Cancelled bool
}

// GestureStatus is the stage of a multi-pointer gesture.
type GestureStatus uint8

const (
	GestureStart GestureStatus = iota
	GestureUpdate
	GestureEnd
)

func (s GestureStatus) String() string {
	switch s {
	case GestureStart:
		return "Start"
	case GestureUpdate:
		return "Update"
	case GestureEnd:
		return "End"
	}
	return fmt.Sprintf("GestureStatus(%d)", uint8(s))
}

// Scale is a two-pointer pinch. Factor is cumulative since Start.
type Scale struct {
	Status    GestureStatus
	Factor    float64
	Focus     Vec2
	Cancelled bool
}

// Rotate is a two-pointer twist. AbsoluteDegrees is cumulative since the
// pair formed; RelativeDegrees is the change since the previous Rotate event.
type Rotate struct {
	Status          GestureStatus
	RelativeDegrees float64
	AbsoluteDegrees float64
	PointerCount    int
	Focus           Vec2
	Cancelled       bool
}

func (Tap) Kind() GestureKind       { return GestureTap }
func (DoubleTap) Kind() GestureKind { return GestureDoubleTap }
func (LongPress) Kind() GestureKind { return GestureLongPress }
func (Drag) Kind() GestureKind      { return GestureDrag }
func (Scale) Kind() GestureKind     { return GestureScale }
func (Rotate) Kind() GestureKind    { return GestureRotate }

func (g Tap) Anchor() Vec2       { return g.Position }
func (g DoubleTap) Anchor() Vec2 { return g.Position }
func (g LongPress) Anchor() Vec2 { return g.Position }
func (g Drag) Anchor() Vec2      { return g.Start }
func (g Scale) Anchor() Vec2     { return g.Focus }
func (g Rotate) Anchor() Vec2    { return g.Focus }

// terminal reports whether g ends its gesture family.
func terminal(g Gesture) bool {
	switch g := g.(type) {
	case Drag:
		return g.State == DragExit
	case Scale:
		return g.Status == GestureEnd
	case Rotate:
		return g.Status == GestureEnd
	}
	return true
}
