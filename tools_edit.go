package inkwell

import (
	"image/color"
	"math"
)

const groupEdit = "Edit"

// --- Grid ---

// GridConfig configures GridTool.
type GridConfig struct {
	// Angle rotates the grid, in degrees.
	Angle    float64
	StepX    float64
	StepY    float64
	Snapping bool
	Visible  bool
	Color    color.NRGBA
}

// GridConfigFrom reads "angle", "stepSizeX", "stepSizeY",
// "isSnappingEnabled", "isVisible" and "color".
func GridConfigFrom(o Options) GridConfig {
	return GridConfig{
		Angle:    o.Float("angle", 0),
		StepX:    o.Float("stepSizeX", 20),
		StepY:    o.Float("stepSizeY", 20),
		Snapping: o.Bool("isSnappingEnabled", false),
		Visible:  o.Bool("isVisible", false),
		Color:    o.Color("color", color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}),
	}
}

// maxGridLines bounds the overlay when zoomed far out.
const maxGridLines = 400

// GridTool snaps document points to a (possibly rotated) grid and draws it.
// It claims no gestures.
type GridTool struct {
	cfg GridConfig
}

// NewGridTool creates a GridTool.
func NewGridTool(cfg GridConfig) *GridTool { return &GridTool{cfg: cfg} }

func (t *GridTool) Info() ToolInfo { return ToolInfo{Name: ToolGrid, Icon: "grid", Group: groupView} }
func (t *GridTool) CanHandle(Gesture, *Context) bool { return false }
func (t *GridTool) Handle(Gesture, *Context) Outcome { return Outcome{} }
func (t *GridTool) Snapping() bool { return t.cfg.Snapping }
func (t *GridTool) Visible() bool { return t.cfg.Visible }

// Snap rounds p to the nearest grid intersection when snapping is on.
func (t *GridTool) Snap(p Vec2) Vec2 {
	if !t.cfg.Snapping || t.cfg.StepX <= 0 || t.cfg.StepY <= 0 {
		return p
	}
	toGrid := RotationDegrees(-t.cfg.Angle)
	q := toGrid.Apply(p)
	q.X = math.Round(q.X/t.cfg.StepX) * t.cfg.StepX
	q.Y = math.Round(q.Y/t.cfg.StepY) * t.cfg.StepY
	return RotationDegrees(t.cfg.Angle).Apply(q)
}

func (t *GridTool) DrawOverlay(s Surface, ctx *Context) {
	if !t.cfg.Visible || t.cfg.StepX <= 0 || t.cfg.StepY <= 0 {
		return
	}
	b := s.Bounds()
	screen := Rect{X: float64(b.Min.X), Y: float64(b.Min.Y), Width: float64(b.Dx()), Height: float64(b.Dy())}
	fromGrid := RotationDegrees(t.cfg.Angle)
	// Screen to grid space, where lines are axis aligned.
	toGrid := RotationDegrees(-t.cfg.Angle).Mul(ctx.Transform.Inverse())
	area := toGrid.ApplyRect(screen)
	view := ctx.Transform.Matrix().Mul(fromGrid)

	x0 := math.Floor(area.X/t.cfg.StepX) * t.cfg.StepX
	y0 := math.Floor(area.Y/t.cfg.StepY) * t.cfg.StepY
	if (area.Width/t.cfg.StepX)+(area.Height/t.cfg.StepY) > maxGridLines {
		return
	}
	for x := x0; x <= area.X+area.Width; x += t.cfg.StepX {
		line := []Vec2{view.Apply(Vec2{x, area.Y}), view.Apply(Vec2{x, area.Y + area.Height})}
		s.StrokePolyline(line, false, 1, t.cfg.Color)
	}
	for y := y0; y <= area.Y+area.Height; y += t.cfg.StepY {
		line := []Vec2{view.Apply(Vec2{area.X, y}), view.Apply(Vec2{area.X + area.Width, y})}
		s.StrokePolyline(line, false, 1, t.cfg.Color)
	}
}

func (t *GridTool) Commands() []ToolCommand {
	return []ToolCommand{
		{
			Name: "Snap to grid", Group: groupView, Icon: "grid-snap", SortKey: 20,
			Checked: func(*Context) bool { return t.cfg.Snapping },
			Execute: func(*Context) Outcome {
				t.cfg.Snapping = !t.cfg.Snapping
				return Outcome{Consumed: true}
			},
		},
		{
			Name: "Show grid", Group: groupView, Icon: "grid", SortKey: 21,
			Checked: func(*Context) bool { return t.cfg.Visible },
			Execute: func(*Context) Outcome {
				t.cfg.Visible = !t.cfg.Visible
				return Outcome{Consumed: true, Invalidate: true}
			},
		},
	}
}

// --- Move ---

// MoveTool drags elements. The drag previews live and commits a single
// command on release; a cancelled drag restores the original positions.
type MoveTool struct {
	active  bool
	targets []Element
	before  []Matrix
	origin  Vec2 // document-space top-left of the dragged bounds
	start   Vec2 // document-space drag start
	offset  Vec2
}

// NewMoveTool creates a MoveTool.
func NewMoveTool() *MoveTool { return &MoveTool{} }

func (t *MoveTool) Info() ToolInfo { return ToolInfo{Name: ToolMove, Icon: "move", Group: groupEdit} }

func (t *MoveTool) CanHandle(g Gesture, ctx *Context) bool {
	switch g := g.(type) {
	case Drag:
		return g.State == DragEnter && ctx.Allows(ctx.HitTest(g.Start), OpMove)
	case LongPress:
		return ctx.Allows(ctx.HitTest(g.Position), OpMove)
	}
	return false
}

func (t *MoveTool) Handle(g Gesture, ctx *Context) Outcome {
	switch g := g.(type) {
	case LongPress:
		// Picks the element up: it becomes the selection for the next drag.
		e := ctx.HitTest(g.Position)
		if e == nil {
			return Outcome{}
		}
		ctx.Selection().Set(e)
		return Outcome{Consumed: true, Invalidate: true}
	case Drag:
		switch g.State {
		case DragEnter:
			if !t.begin(g, ctx) {
				return Outcome{}
			}
			t.update(g, ctx)
			return Outcome{Consumed: true, Invalidate: true}
		case Dragging:
			if !t.active {
				return Outcome{}
			}
			t.update(g, ctx)
			return Outcome{Consumed: true, Invalidate: true}
		case DragExit:
			if !t.active {
				return Outcome{}
			}
			if g.Cancelled {
				t.Reset()
				return Outcome{Consumed: true, Invalidate: true}
			}
			t.update(g, ctx)
			return t.finish()
		}
	}
	return Outcome{}
}

func (t *MoveTool) begin(d Drag, ctx *Context) bool {
	hit := ctx.HitTest(d.Start)
	if !ctx.Allows(hit, OpMove) {
		return false
	}
	targets := []Element{hit}
	sel := ctx.Selection()
	if sel.Contains(hit) && sel.Len() > 1 {
		targets = targets[:0]
		for _, e := range sel.Elements() {
			if ctx.Allows(e, OpMove) {
				targets = append(targets, e)
			}
		}
	}
	var bounds Rect
	t.before = make([]Matrix, len(targets))
	for i, e := range targets {
		t.before[i] = e.Transform()
		if bb := ctx.Document.BoundingBox(e); i == 0 {
			bounds = bb
		} else {
			bounds = bounds.Union(bb)
		}
	}
	t.targets = targets
	t.origin = Vec2{bounds.X, bounds.Y}
	t.start = ctx.ToDocument(d.Start)
	t.offset = Vec2{}
	t.active = true
	return true
}

func (t *MoveTool) update(d Drag, ctx *Context) {
	delta := ctx.ToDocument(d.Current).Sub(t.start)
	t.offset = ctx.Snap(t.origin.Add(delta)).Sub(t.origin)
	for i, e := range t.targets {
		e.SetTransform(Translation(t.offset.X, t.offset.Y).Mul(t.before[i]))
	}
}

func (t *MoveTool) finish() Outcome {
	defer t.clear()
	if t.offset == (Vec2{}) {
		return Outcome{Consumed: true, Invalidate: true}
	}
	after := make([]Matrix, len(t.targets))
	for i, e := range t.targets {
		after[i] = e.Transform()
	}
	cmd := SetTransforms(t.targets, t.before, after, "Move")
	return Outcome{Consumed: true, Commands: []Command{cmd}, Invalidate: true}
}

// Reset restores any element moved by an unfinished drag.
func (t *MoveTool) Reset() {
	if t.active {
		for i, e := range t.targets {
			e.SetTransform(t.before[i])
		}
	}
	t.clear()
}

func (t *MoveTool) clear() {
	t.active = false
	t.targets = nil
	t.before = nil
	t.offset = Vec2{}
}

// --- Selection ---

// SelectionTool selects with taps and, in area mode, with a rubber band
// drag on empty space. Selection changes are not undoable; Delete is.
type SelectionTool struct {
	area    bool
	banding bool
	band    [2]Vec2 // screen space
	color   color.NRGBA
}

// NewSelectionTool creates a SelectionTool.
func NewSelectionTool(o Options) *SelectionTool {
	return &SelectionTool{
		area:  o.Bool("areaMode", false),
		color: o.Color("bandColor", color.NRGBA{R: 0x33, G: 0x88, B: 0xff, A: 0xff}),
	}
}

func (t *SelectionTool) Info() ToolInfo {
	return ToolInfo{Name: ToolSelection, Icon: "select", Group: groupEdit}
}

func (t *SelectionTool) CanHandle(g Gesture, ctx *Context) bool {
	switch g := g.(type) {
	case Tap:
		return ctx.Document != nil
	case Drag:
		return t.area && g.State == DragEnter && ctx.HitTest(g.Start) == nil
	}
	return false
}

func (t *SelectionTool) Handle(g Gesture, ctx *Context) Outcome {
	sel := ctx.Selection()
	switch g := g.(type) {
	case Tap:
		hit := ctx.HitTest(g.Position)
		if hit != nil && ctx.Allows(hit, OpSelect) {
			if sel.Len() == 1 && sel.Contains(hit) {
				return Outcome{Consumed: true}
			}
			sel.Set(hit)
			return Outcome{Consumed: true, Invalidate: true}
		}
		if sel.Len() == 0 {
			return Outcome{Consumed: true}
		}
		sel.Clear()
		return Outcome{Consumed: true, Invalidate: true}
	case Drag:
		switch {
		case g.State == DragEnter:
			t.banding = true
			t.band = [2]Vec2{g.Start, g.Current}
		case !t.banding:
			return Outcome{}
		case g.State == Dragging:
			t.band[1] = g.Current
		case g.State == DragExit:
			t.banding = false
			if !g.Cancelled {
				t.band[1] = g.Current
				t.selectBand(ctx)
			}
		}
		return Outcome{Consumed: true, Invalidate: true}
	}
	return Outcome{}
}

func (t *SelectionTool) selectBand(ctx *Context) {
	band := RectFromPoints(t.band[0], t.band[1])
	view := ctx.Transform.Matrix()
	var picked []Element
	for _, e := range ctx.Document.Children() {
		if !ctx.Allows(e, OpSelect) {
			continue
		}
		if view.ApplyRect(ctx.Document.BoundingBox(e)).Intersects(band) {
			picked = append(picked, e)
		}
	}
	ctx.Selection().Set(picked...)
}

func (t *SelectionTool) DrawOverlay(s Surface, _ *Context) {
	if !t.banding {
		return
	}
	cs := RectFromPoints(t.band[0], t.band[1]).Corners()
	s.StrokePolyline(cs[:], true, 1, t.color)
}

func (t *SelectionTool) Reset() { t.banding = false }

func (t *SelectionTool) Commands() []ToolCommand {
	return []ToolCommand{
		{
			Name: "Select all", Group: groupEdit, Icon: "select-all", SortKey: 10,
			CanExecute: func(ctx *Context) bool { return ctx.Document != nil && len(ctx.Document.Children()) > 0 },
			Execute: func(ctx *Context) Outcome {
				var all []Element
				for _, e := range ctx.Document.Children() {
					if ctx.Allows(e, OpSelect) {
						all = append(all, e)
					}
				}
				ctx.Selection().Set(all...)
				return Outcome{Consumed: true, Invalidate: true}
			},
		},
		{
			Name: "Clear selection", Group: groupEdit, Icon: "select-none", SortKey: 11,
			CanExecute: func(ctx *Context) bool { return ctx.Selection().Len() > 0 },
			Execute: func(ctx *Context) Outcome {
				ctx.Selection().Clear()
				return Outcome{Consumed: true, Invalidate: true}
			},
		},
		{
			Name: "Select area", Group: groupEdit, Icon: "select-area", SortKey: 12,
			Checked: func(*Context) bool { return t.area },
			Execute: func(*Context) Outcome {
				t.area = !t.area
				return Outcome{Consumed: true}
			},
		},
		{
			Name: "Delete", Group: groupEdit, Icon: "delete", SortKey: 20,
			CanExecute: func(ctx *Context) bool { return len(deletable(ctx)) > 0 },
			Execute: func(ctx *Context) Outcome {
				return commit(RemoveElements(ctx.Document, deletable(ctx), "Delete"))
			},
		},
	}
}

func deletable(ctx *Context) []Element {
	if ctx.Document == nil {
		return nil
	}
	var out []Element
	for _, e := range ctx.Selection().Elements() {
		if ctx.Allows(e, OpDelete) {
			out = append(out, e)
		}
	}
	return out
}

// --- Pin ---

// PinTool locks and unlocks the selection in place by toggling the "move"
// constraint.
type PinTool struct{}

// NewPinTool creates a PinTool.
func NewPinTool() *PinTool { return &PinTool{} }

func (t *PinTool) Info() ToolInfo { return ToolInfo{Name: ToolPin, Icon: "pin", Group: groupEdit} }
func (t *PinTool) CanHandle(Gesture, *Context) bool { return false }
func (t *PinTool) Handle(Gesture, *Context) Outcome { return Outcome{} }

func (t *PinTool) Commands() []ToolCommand {
	return []ToolCommand{
		{
			Name: "Pin", Group: groupEdit, Icon: "pin", SortKey: 30,
			CanExecute: func(ctx *Context) bool { return len(pinnable(ctx, false)) > 0 },
			Execute: func(ctx *Context) Outcome {
				return commit(pinCommand(ctx, pinnable(ctx, false), true))
			},
		},
		{
			Name: "Unpin", Group: groupEdit, Icon: "unpin", SortKey: 31,
			CanExecute: func(ctx *Context) bool { return len(pinnable(ctx, true)) > 0 },
			Execute: func(ctx *Context) Outcome {
				return commit(pinCommand(ctx, pinnable(ctx, true), false))
			},
		},
	}
}

// pinnable returns selected elements whose pinned state is pinned.
func pinnable(ctx *Context, pinned bool) []Element {
	var out []Element
	for _, e := range ctx.Selection().Elements() {
		if ctx.Constraints(e).Forbids(OpMove) == pinned {
			out = append(out, e)
		}
	}
	return out
}

func pinCommand(ctx *Context, es []Element, pin bool) Command {
	name := "Unpin"
	if pin {
		name = "Pin"
	}
	parts := make([]Command, len(es))
	for i, e := range es {
		c := ctx.Constraints(e)
		if pin {
			c = c.With(OpMove)
		} else {
			c = c.Without(OpMove)
		}
		parts[i] = SetAttrs([]Element{e}, ConstraintsAttr, c.String(), name)
	}
	return &Batch{Label: name, Parts: parts}
}
