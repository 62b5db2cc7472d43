package inkwell

import (
	"math"
)

// Tool names, also used as keys in ToolOptions.
const (
	ToolPan         = "Pan"
	ToolZoom        = "Zoom"
	ToolRotate      = "Rotate"
	ToolGrid        = "Grid"
	ToolMove        = "Move"
	ToolSelection   = "Selection"
	ToolText        = "Text"
	ToolPin         = "Pin"
	ToolStrokeStyle = "StrokeStyle"
	ToolMarker      = "Marker"
	ToolAddItem     = "AddItem"
	ToolFile        = "File"
	ToolHistory     = "History"
)

const groupView = "View"

// --- Pan ---

// PanConfig configures PanTool.
type PanConfig struct {
	// Anywhere lets drags that start on an element pan too.
	Anywhere bool
}

// PanConfigFrom reads "anywhere".
func PanConfigFrom(o Options) PanConfig {
	return PanConfig{Anywhere: o.Bool("anywhere", false)}
}

// PanTool scrolls the view with a one-finger drag on empty space.
type PanTool struct {
	cfg PanConfig
}

// NewPanTool creates a PanTool.
func NewPanTool(cfg PanConfig) *PanTool { return &PanTool{cfg: cfg} }

func (t *PanTool) Info() ToolInfo { return ToolInfo{Name: ToolPan, Icon: "pan", Group: groupView} }

func (t *PanTool) CanHandle(g Gesture, ctx *Context) bool {
	d, ok := g.(Drag)
	if !ok || d.State != DragEnter {
		return false
	}
	return t.cfg.Anywhere || ctx.HitTest(d.Start) == nil
}

func (t *PanTool) Handle(g Gesture, ctx *Context) Outcome {
	d, ok := g.(Drag)
	if !ok {
		return Outcome{}
	}
	if d.Delta == (Vec2{}) {
		return Outcome{Consumed: true}
	}
	ctx.Transform.Pan(d.Delta.X, d.Delta.Y)
	return Outcome{Consumed: true, Invalidate: true}
}

// --- Zoom ---

// ZoomConfig configures ZoomTool.
type ZoomConfig struct {
	MinScale         float64
	MaxScale         float64
	DoubleTapFactor  float64
	StepFactor       float64
	AnimationSeconds float64
}

// ZoomConfigFrom reads "minScale", "maxScale", "doubleTapFactor",
// "stepFactor" and "animationSeconds".
func ZoomConfigFrom(o Options) ZoomConfig {
	return ZoomConfig{
		MinScale:         o.Float("minScale", 0.1),
		MaxScale:         o.Float("maxScale", 10),
		DoubleTapFactor:  o.Float("doubleTapFactor", 2),
		StepFactor:       o.Float("stepFactor", 1.25),
		AnimationSeconds: o.Float("animationSeconds", 0.25),
	}
}

// ZoomTool scales the view with a pinch around its focus and zooms in on
// double tap.
type ZoomTool struct {
	cfg        ZoomConfig
	lastFactor float64
}

// NewZoomTool creates a ZoomTool.
func NewZoomTool(cfg ZoomConfig) *ZoomTool { return &ZoomTool{cfg: cfg} }

func (t *ZoomTool) Info() ToolInfo { return ToolInfo{Name: ToolZoom, Icon: "zoom", Group: groupView} }

func (t *ZoomTool) CanHandle(g Gesture, _ *Context) bool {
	switch g.(type) {
	case Scale, DoubleTap:
		return true
	}
	return false
}

func (t *ZoomTool) Handle(g Gesture, ctx *Context) Outcome {
	switch g := g.(type) {
	case Scale:
		if g.Status == GestureStart {
			t.lastFactor = g.Factor
			return Outcome{Consumed: true}
		}
		last := t.lastFactor
		if last <= 0 {
			last = 1
		}
		t.lastFactor = g.Factor
		if g.Status == GestureEnd {
			t.lastFactor = 0
		}
		t.zoomBy(ctx.Transform, g.Factor/last, g.Focus)
		return Outcome{Consumed: true, Invalidate: true}
	case DoubleTap:
		t.animateBy(ctx.Transform, t.cfg.DoubleTapFactor, g.Position)
		return Outcome{Consumed: true, Invalidate: true}
	}
	return Outcome{}
}

// clampFactor limits factor so the resulting zoom stays in range.
func (t *ZoomTool) clampFactor(current, factor float64) float64 {
	if current <= 0 || factor <= 0 || math.IsNaN(factor) {
		return 1
	}
	target := current * factor
	if t.cfg.MinScale > 0 {
		target = math.Max(target, t.cfg.MinScale)
	}
	if t.cfg.MaxScale > 0 {
		target = math.Min(target, t.cfg.MaxScale)
	}
	return target / current
}

func (t *ZoomTool) zoomBy(tr *Transform, factor float64, focus Vec2) {
	f := t.clampFactor(tr.Zoom(), factor)
	if f != 1 {
		tr.ZoomAt(f, focus)
	}
}

func (t *ZoomTool) animateBy(tr *Transform, factor float64, focus Vec2) {
	f := t.clampFactor(tr.Zoom(), factor)
	target := anchored(Scaling(f), focus).Mul(tr.Matrix())
	tr.AnimateTo(target, float32(t.cfg.AnimationSeconds), nil)
}

func (t *ZoomTool) Reset() { t.lastFactor = 0 }

func (t *ZoomTool) Commands() []ToolCommand {
	return []ToolCommand{
		{
			Name: "Zoom in", Group: groupView, Icon: "zoom-in", SortKey: 10,
			Execute: func(ctx *Context) Outcome {
				t.animateBy(ctx.Transform, t.cfg.StepFactor, ctx.Viewport.Center())
				return Outcome{Consumed: true, Invalidate: true}
			},
		},
		{
			Name: "Zoom out", Group: groupView, Icon: "zoom-out", SortKey: 11,
			Execute: func(ctx *Context) Outcome {
				t.animateBy(ctx.Transform, 1/t.cfg.StepFactor, ctx.Viewport.Center())
				return Outcome{Consumed: true, Invalidate: true}
			},
		},
		{
			Name: "Reset view", Group: groupView, Icon: "zoom-reset", SortKey: 12,
			CanExecute: func(ctx *Context) bool {
				return !ctx.Transform.Matrix().ApproxEqual(Identity, Epsilon)
			},
			Execute: func(ctx *Context) Outcome {
				ctx.Transform.AnimateTo(Identity, float32(t.cfg.AnimationSeconds), nil)
				return Outcome{Consumed: true, Invalidate: true}
			},
		},
	}
}

// --- Rotate ---

// RotateConfig configures RotateTool.
type RotateConfig struct {
	// Step snaps the view angle to multiples of Step degrees when the
	// gesture ends. Zero disables snapping.
	Step float64
}

// RotateConfigFrom reads "step".
func RotateConfigFrom(o Options) RotateConfig {
	return RotateConfig{Step: o.Float("step", 0)}
}

// RotateTool turns the view with a two-finger twist around the focus.
type RotateTool struct {
	cfg RotateConfig
}

// NewRotateTool creates a RotateTool.
func NewRotateTool(cfg RotateConfig) *RotateTool { return &RotateTool{cfg: cfg} }

func (t *RotateTool) Info() ToolInfo {
	return ToolInfo{Name: ToolRotate, Icon: "rotate", Group: groupView}
}

func (t *RotateTool) CanHandle(g Gesture, _ *Context) bool {
	_, ok := g.(Rotate)
	return ok
}

func (t *RotateTool) Handle(g Gesture, ctx *Context) Outcome {
	r, ok := g.(Rotate)
	if !ok {
		return Outcome{}
	}
	if r.Status != GestureEnd {
		ctx.Transform.RotateAt(r.RelativeDegrees, r.Focus)
		return Outcome{Consumed: true, Invalidate: r.RelativeDegrees != 0}
	}
	if r.Cancelled || t.cfg.Step <= 0 {
		return Outcome{Consumed: true}
	}
	angle := ViewAngle(ctx.Transform.Matrix())
	snapped := math.Round(angle/t.cfg.Step) * t.cfg.Step
	if d := snapped - angle; math.Abs(d) > 1e-9 {
		ctx.Transform.RotateAt(d, r.Focus)
	}
	return Outcome{Consumed: true, Invalidate: true}
}

// ViewAngle returns the rotation of m in degrees.
func ViewAngle(m Matrix) float64 {
	return math.Atan2(m[1], m[0]) * 180 / math.Pi
}
