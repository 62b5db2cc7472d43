package ebitenhost

import (
	"image/color"
	"testing"

	"github.com/phanxgames/inkwell"
)

func phases(ins []inkwell.PointerInput) []inkwell.Phase {
	out := make([]inkwell.Phase, len(ins))
	for i, in := range ins {
		out[i] = in.Phase
	}
	return out
}

func TestDiffLifecycle(t *testing.T) {
	p := NewPoller()
	at := inkwell.Vec2{X: 10, Y: 20}

	got := p.Diff([]Contact{{ID: 1, Position: at}}, 0)
	if len(got) != 1 || got[0].Phase != inkwell.PhaseDown || got[0].Sample.Position != at {
		t.Fatalf("frame 1: got %v", got)
	}

	// Same position: nothing to report.
	if got := p.Diff([]Contact{{ID: 1, Position: at}}, 1); len(got) != 0 {
		t.Fatalf("frame 2: expected no samples, got %v", got)
	}

	moved := inkwell.Vec2{X: 15, Y: 20}
	got = p.Diff([]Contact{{ID: 1, Position: moved}}, 2)
	if len(got) != 1 || got[0].Phase != inkwell.PhaseMove || got[0].Sample.Time != 2 {
		t.Fatalf("frame 3: got %v", got)
	}

	got = p.Diff(nil, 3)
	if len(got) != 1 || got[0].Phase != inkwell.PhaseUp {
		t.Fatalf("frame 4: got %v", got)
	}
	if got[0].Sample.Position != moved {
		t.Errorf("up should report the last position, got %v", got[0].Sample.Position)
	}
	if got := p.Diff(nil, 4); len(got) != 0 {
		t.Errorf("released pointer reported again: %v", got)
	}
}

func TestDiffOrdersDownMoveBeforeUp(t *testing.T) {
	p := NewPoller()
	p.Diff([]Contact{{ID: 1}, {ID: 2}}, 0)

	got := p.Diff([]Contact{{ID: 1, Position: inkwell.Vec2{X: 5}}, {ID: 3}}, 1)
	want := []inkwell.Phase{inkwell.PhaseMove, inkwell.PhaseDown, inkwell.PhaseUp}
	if ph := phases(got); len(ph) != 3 || ph[0] != want[0] || ph[1] != want[1] || ph[2] != want[2] {
		t.Fatalf("expected %v, got %v", want, ph)
	}
	if got[2].Sample.PointerID != 2 {
		t.Errorf("expected pointer 2 up, got %d", got[2].Sample.PointerID)
	}
}

func TestCancelAll(t *testing.T) {
	p := NewPoller()
	p.Diff([]Contact{{ID: 1}, {ID: 2}}, 0)

	got := p.CancelAll(1)
	if len(got) != 2 {
		t.Fatalf("expected 2 cancels, got %d", len(got))
	}
	for _, in := range got {
		if in.Phase != inkwell.PhaseCancel {
			t.Errorf("expected cancel, got %v", in.Phase)
		}
	}
	// Cancelled pointers are forgotten: the next contact is a fresh Down.
	got = p.Diff([]Contact{{ID: 1}}, 2)
	if len(got) != 1 || got[0].Phase != inkwell.PhaseDown {
		t.Errorf("expected a new down, got %v", got)
	}
}

func TestInjectDragQueue(t *testing.T) {
	p := NewPoller()
	if p.Injecting() {
		t.Fatal("new poller should not be injecting")
	}

	p.InjectDrag(0, 0, 30, 60, 5)
	if len(p.inject) != 5 {
		t.Fatalf("expected 5 queued events, got %d", len(p.inject))
	}
	if !p.inject[0].pressed || p.inject[4].pressed {
		t.Error("drag should start pressed and end released")
	}
	if mid := p.inject[2].pos; mid != (inkwell.Vec2{X: 15, Y: 30}) {
		t.Errorf("expected midpoint (15,30), got %v", mid)
	}
	if end := p.inject[4].pos; end != (inkwell.Vec2{X: 30, Y: 60}) {
		t.Errorf("expected release at target, got %v", end)
	}

	p = NewPoller()
	p.InjectDrag(0, 0, 10, 10, 0)
	if len(p.inject) != 2 {
		t.Errorf("short drag should still press and release, got %d events", len(p.inject))
	}
}

func TestSanitizeLabel(t *testing.T) {
	tests := map[string]string{
		"":             "screenshot",
		"after-move_1": "after-move_1",
		"a b/c.png":    "a_b_c_png",
	}
	for in, want := range tests {
		if got := sanitizeLabel(in); got != want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInvisible(t *testing.T) {
	if !invisible(nil) || !invisible(color.Transparent) {
		t.Error("nil and transparent colors are invisible")
	}
	if invisible(color.NRGBA{A: 1}) {
		t.Error("any alpha is visible")
	}
	r, _, _, a := straight(color.NRGBA{R: 0xff, A: 0x80})
	if r != 1 || a != float32(0x80)/0xff {
		t.Errorf("straight alpha: got r=%v a=%v", r, a)
	}
}
