// Package ebitenhost runs an inkwell Canvas inside an Ebitengine game:
// it turns mouse and touch polling into pointer samples, draws through an
// ebiten-backed Surface and drives the canvas from the game loop.
package ebitenhost

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/inkwell"
)

// MousePointerID is the pointer ID used for the left mouse button. Touches
// use their ebiten.TouchID plus one.
const MousePointerID = 0

// Contact is one pointer that is down in the current frame.
type Contact struct {
	ID       int
	Position inkwell.Vec2
}

type injected struct {
	pos     inkwell.Vec2
	pressed bool
}

// Poller diffs per-frame contact sets into Down/Move/Up samples. Ebitengine
// reports touches by polling, so a pointer that disappears between frames
// is reported as Up at its last position.
type Poller struct {
	prev     map[int]inkwell.Vec2
	touchIDs []ebiten.TouchID
	contacts []Contact
	inject   []injected
}

// NewPoller creates a Poller.
func NewPoller() *Poller {
	return &Poller{prev: map[int]inkwell.Vec2{}}
}

// Poll reads the mouse and touch state from ebiten and returns the samples
// for this frame. Injected events replace the mouse for the frame they are
// consumed in.
func (p *Poller) Poll(now time.Duration) []inkwell.PointerInput {
	p.contacts = p.contacts[:0]
	if len(p.inject) > 0 {
		ev := p.inject[0]
		p.inject = p.inject[1:]
		if ev.pressed {
			p.contacts = append(p.contacts, Contact{ID: MousePointerID, Position: ev.pos})
		}
	} else if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		p.contacts = append(p.contacts, Contact{ID: MousePointerID, Position: inkwell.Vec2{X: float64(mx), Y: float64(my)}})
	}
	p.touchIDs = ebiten.AppendTouchIDs(p.touchIDs[:0])
	for _, tid := range p.touchIDs {
		tx, ty := ebiten.TouchPosition(tid)
		p.contacts = append(p.contacts, Contact{ID: int(tid) + 1, Position: inkwell.Vec2{X: float64(tx), Y: float64(ty)}})
	}
	return p.Diff(p.contacts, now)
}

// Diff compares contacts against the previous frame. New contacts yield
// Down, moved ones Move and vanished ones Up, in that order.
func (p *Poller) Diff(contacts []Contact, now time.Duration) []inkwell.PointerInput {
	var out []inkwell.PointerInput
	seen := make(map[int]bool, len(contacts))
	for _, c := range contacts {
		seen[c.ID] = true
		last, down := p.prev[c.ID]
		switch {
		case !down:
			out = append(out, input(c.ID, c.Position, now, inkwell.PhaseDown))
		case last != c.Position:
			out = append(out, input(c.ID, c.Position, now, inkwell.PhaseMove))
		}
		p.prev[c.ID] = c.Position
	}
	for id, last := range p.prev {
		if !seen[id] {
			out = append(out, input(id, last, now, inkwell.PhaseUp))
			delete(p.prev, id)
		}
	}
	return out
}

// CancelAll reports every tracked pointer as cancelled, e.g. when the
// window loses focus.
func (p *Poller) CancelAll(now time.Duration) []inkwell.PointerInput {
	var out []inkwell.PointerInput
	for id, last := range p.prev {
		out = append(out, input(id, last, now, inkwell.PhaseCancel))
		delete(p.prev, id)
	}
	return out
}

func input(id int, pos inkwell.Vec2, now time.Duration, phase inkwell.Phase) inkwell.PointerInput {
	return inkwell.PointerInput{
		Sample: inkwell.PointerSample{PointerID: id, Position: pos, Time: now},
		Phase:  phase,
	}
}

// --- Synthetic input ---

// InjectPress queues a mouse press at the given screen coordinates. Each
// injected event is consumed by one Poll.
func (p *Poller) InjectPress(x, y float64) {
	p.inject = append(p.inject, injected{pos: inkwell.Vec2{X: x, Y: y}, pressed: true})
}

// InjectMove queues a held-button move.
func (p *Poller) InjectMove(x, y float64) {
	p.InjectPress(x, y)
}

// InjectRelease queues a release.
func (p *Poller) InjectRelease(x, y float64) {
	p.inject = append(p.inject, injected{pos: inkwell.Vec2{X: x, Y: y}})
}

// InjectDrag queues a press, frames-2 interpolated moves and a release.
func (p *Poller) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	p.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		p.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	p.InjectRelease(toX, toY)
}

// Injecting reports whether synthetic events are still queued.
func (p *Poller) Injecting() bool { return len(p.inject) > 0 }
