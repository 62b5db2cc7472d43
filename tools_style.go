package inkwell

import (
	"image/color"
	"strings"
)

const (
	groupInsert = "Insert"
	groupStyle  = "Style"
)

// armed is the toggle shared by tools that only claim gestures in a mode.
type armed bool

func (a *armed) command(name, icon, group string, key int) ToolCommand {
	return ToolCommand{
		Name: name, Group: group, Icon: icon, SortKey: key,
		Checked: func(*Context) bool { return bool(*a) },
		Execute: func(*Context) Outcome {
			*a = !*a
			return Outcome{Consumed: true}
		},
	}
}

// --- Text ---

// TextConfig configures TextTool.
type TextConfig struct {
	FontSize float64
	Color    color.NRGBA
	Armed    bool
}

// TextConfigFrom reads "fontSize", "color" and "armed".
func TextConfigFrom(o Options) TextConfig {
	return TextConfig{
		FontSize: o.Float("fontSize", 13),
		Color:    o.Color("color", color.NRGBA{A: 0xff}),
		Armed:    o.Bool("armed", false),
	}
}

// TextTool places text with a tap in text mode and edits existing text
// with a double tap. Both ask the host for the string first.
type TextTool struct {
	cfg   TextConfig
	armed armed
}

// NewTextTool creates a TextTool.
func NewTextTool(cfg TextConfig) *TextTool {
	return &TextTool{cfg: cfg, armed: armed(cfg.Armed)}
}

func (t *TextTool) Info() ToolInfo { return ToolInfo{Name: ToolText, Icon: "text", Group: groupInsert} }

// Armed reports whether text mode is on.
func (t *TextTool) Armed() bool { return bool(t.armed) }

func (t *TextTool) CanHandle(g Gesture, ctx *Context) bool {
	if ctx.Document == nil {
		return false
	}
	switch g := g.(type) {
	case Tap:
		return bool(t.armed) && ctx.HitTest(g.Position) == nil
	case DoubleTap:
		e := ctx.HitTest(g.Position)
		return e != nil && e.Kind() == KindText && ctx.Allows(e, OpText)
	}
	return false
}

func (t *TextTool) Handle(g Gesture, ctx *Context) Outcome {
	switch g := g.(type) {
	case Tap:
		at := ctx.Snap(ctx.ToDocument(g.Position))
		return Outcome{Consumed: true, Prompt: &Prompt{
			Request: PromptRequest{Kind: PromptText, Title: "Text"},
			Policy:  PromptDrop,
			Apply: func(answer string, ctx *Context) Outcome {
				if answer == "" || ctx.Document == nil {
					return Outcome{}
				}
				e := ctx.Document.NewElement(KindText)
				e.SetAttr(AttrX, FormatNumber(at.X))
				e.SetAttr(AttrY, FormatNumber(at.Y))
				e.SetAttr(AttrText, answer)
				e.SetAttr(AttrFontSize, FormatNumber(t.cfg.FontSize))
				e.SetAttr(AttrFill, FormatColor(t.cfg.Color))
				return commit(AppendElement(ctx.Document, e, "Add text"))
			},
		}}
	case DoubleTap:
		e := ctx.HitTest(g.Position)
		if e == nil {
			return Outcome{}
		}
		old, _ := e.Attr(AttrText)
		return Outcome{Consumed: true, Prompt: &Prompt{
			Request: PromptRequest{Kind: PromptText, Title: "Edit text", Initial: old},
			Policy:  PromptDrop,
			Apply: func(answer string, ctx *Context) Outcome {
				if answer == old || ctx.Document == nil || indexOf(ctx.Document, e) < 0 {
					return Outcome{}
				}
				return commit(SetAttrs([]Element{e}, AttrText, answer, "Edit text"))
			},
		}}
	}
	return Outcome{}
}

func (t *TextTool) Commands() []ToolCommand {
	return []ToolCommand{t.armed.command("Text mode", "text", groupInsert, 10)}
}

// --- StrokeStyle ---

// StrokeStyleConfig configures StrokeStyleTool.
type StrokeStyleConfig struct {
	DefaultColor color.NRGBA
	DefaultWidth float64
}

// StrokeStyleConfigFrom reads "defaultColor" and "defaultWidth".
func StrokeStyleConfigFrom(o Options) StrokeStyleConfig {
	return StrokeStyleConfig{
		DefaultColor: o.Color("defaultColor", color.NRGBA{A: 0xff}),
		DefaultWidth: o.Float("defaultWidth", 1),
	}
}

// StrokeStyleTool sets the stroke color and width of the selection.
type StrokeStyleTool struct {
	cfg StrokeStyleConfig
}

// NewStrokeStyleTool creates a StrokeStyleTool.
func NewStrokeStyleTool(cfg StrokeStyleConfig) *StrokeStyleTool {
	return &StrokeStyleTool{cfg: cfg}
}

func (t *StrokeStyleTool) Info() ToolInfo {
	return ToolInfo{Name: ToolStrokeStyle, Icon: "stroke", Group: groupStyle}
}

func (t *StrokeStyleTool) CanHandle(Gesture, *Context) bool { return false }

func (t *StrokeStyleTool) Handle(Gesture, *Context) Outcome { return Outcome{} }

func (t *StrokeStyleTool) Commands() []ToolCommand {
	return []ToolCommand{
		{
			Name: "Stroke color…", Group: groupStyle, Icon: "stroke-color", SortKey: 10,
			CanExecute: func(ctx *Context) bool { return len(styleable(ctx)) > 0 },
			Execute: func(ctx *Context) Outcome {
				return t.prompt(ctx, PromptColor, "Stroke color", AttrStroke, FormatColor(t.cfg.DefaultColor),
					func(s string) (string, bool) {
						c, err := ParseColor(s)
						return FormatColor(c), err == nil
					})
			},
		},
		{
			Name: "Stroke width…", Group: groupStyle, Icon: "stroke-width", SortKey: 11,
			CanExecute: func(ctx *Context) bool { return len(styleable(ctx)) > 0 },
			Execute: func(ctx *Context) Outcome {
				return t.prompt(ctx, PromptNumber, "Stroke width", AttrStrokeWidth, FormatNumber(t.cfg.DefaultWidth),
					func(s string) (string, bool) {
						f, err := ParseNumber(s)
						return FormatNumber(f), err == nil && f >= 0
					})
			},
		},
	}
}

// prompt asks for a value and applies it to the styleable selection as a
// single command. Invalid answers are ignored.
func (t *StrokeStyleTool) prompt(ctx *Context, kind PromptKind, title, attr, def string, parse func(string) (string, bool)) Outcome {
	initial := def
	if sel := styleable(ctx); len(sel) > 0 {
		if v, ok := sel[0].Attr(attr); ok {
			initial = v
		}
	}
	return Outcome{Consumed: true, Prompt: &Prompt{
		Request: PromptRequest{Kind: kind, Title: title, Initial: initial},
		Policy:  PromptQueue,
		Apply: func(answer string, ctx *Context) Outcome {
			value, ok := parse(strings.TrimSpace(answer))
			if !ok {
				ctx.Logger.Warn("ignoring invalid style value", "attr", attr, "value", answer)
				return Outcome{}
			}
			targets := styleable(ctx)
			if len(targets) == 0 {
				return Outcome{}
			}
			return commit(SetAttrs(targets, attr, value, title))
		},
	}}
}

func styleable(ctx *Context) []Element {
	var out []Element
	for _, e := range ctx.Selection().Elements() {
		if ctx.Allows(e, OpStyle) {
			out = append(out, e)
		}
	}
	return out
}

// --- Marker ---

// MarkerConfig configures MarkerTool.
type MarkerConfig struct {
	Color color.NRGBA
	Width float64
	// MinSegment drops samples closer than this many screen pixels to the
	// previous point.
	MinSegment float64
	Armed      bool
}

// MarkerConfigFrom reads "color", "width", "minSegment" and "armed".
func MarkerConfigFrom(o Options) MarkerConfig {
	return MarkerConfig{
		Color:      o.Color("color", color.NRGBA{R: 0xe0, G: 0x20, B: 0x20, A: 0xff}),
		Width:      o.Float("width", 3),
		MinSegment: o.Float("minSegment", 2),
		Armed:      o.Bool("armed", false),
	}
}

// MarkerTool draws freehand strokes in marker mode. The stroke becomes one
// path element, added with a single command when the drag ends.
type MarkerTool struct {
	cfg    MarkerConfig
	armed  armed
	stroke []Vec2 // screen space
	active bool
}

// NewMarkerTool creates a MarkerTool.
func NewMarkerTool(cfg MarkerConfig) *MarkerTool {
	return &MarkerTool{cfg: cfg, armed: armed(cfg.Armed)}
}

func (t *MarkerTool) Info() ToolInfo {
	return ToolInfo{Name: ToolMarker, Icon: "marker", Group: groupInsert}
}

// Armed reports whether marker mode is on.
func (t *MarkerTool) Armed() bool { return bool(t.armed) }

func (t *MarkerTool) CanHandle(g Gesture, ctx *Context) bool {
	d, ok := g.(Drag)
	return ok && bool(t.armed) && d.State == DragEnter && ctx.Document != nil
}

func (t *MarkerTool) Handle(g Gesture, ctx *Context) Outcome {
	d, ok := g.(Drag)
	if !ok {
		return Outcome{}
	}
	switch d.State {
	case DragEnter:
		t.active = true
		t.stroke = append(t.stroke[:0], d.Start, d.Current)
		return Outcome{Consumed: true, Invalidate: true}
	case Dragging:
		if !t.active {
			return Outcome{}
		}
		if d.Current.Dist(t.stroke[len(t.stroke)-1]) >= t.cfg.MinSegment {
			t.stroke = append(t.stroke, d.Current)
		}
		return Outcome{Consumed: true, Invalidate: true}
	case DragExit:
		if !t.active {
			return Outcome{}
		}
		defer t.Reset()
		if d.Cancelled || ctx.Document == nil {
			return Outcome{Consumed: true, Invalidate: true}
		}
		if last := t.stroke[len(t.stroke)-1]; last != d.Current {
			t.stroke = append(t.stroke, d.Current)
		}
		pts := make([]Vec2, len(t.stroke))
		for i, p := range t.stroke {
			pts[i] = ctx.ToDocument(p)
		}
		e := ctx.Document.NewElement(KindPath)
		e.SetAttr(AttrPoints, FormatPoints(pts))
		e.SetAttr(AttrStroke, FormatColor(t.cfg.Color))
		e.SetAttr(AttrStrokeWidth, FormatNumber(t.cfg.Width))
		e.SetAttr(AttrFill, "none")
		return commit(AppendElement(ctx.Document, e, "Draw"))
	}
	return Outcome{}
}

func (t *MarkerTool) DrawOverlay(s Surface, ctx *Context) {
	if !t.active || len(t.stroke) < 2 {
		return
	}
	s.StrokePolyline(t.stroke, false, t.cfg.Width*ctx.Transform.Zoom(), t.cfg.Color)
}

func (t *MarkerTool) Reset() {
	t.active = false
	t.stroke = t.stroke[:0]
}

func (t *MarkerTool) Commands() []ToolCommand {
	return []ToolCommand{t.armed.command("Marker mode", "marker", groupInsert, 20)}
}

// --- AddItem ---

// AddItemConfig configures AddItemTool.
type AddItemConfig struct {
	// Kind is the shape added by a tap: KindRect or KindEllipse. Empty
	// means the tool starts disarmed.
	Kind   string
	Width  float64
	Height float64
	Fill   color.NRGBA
	Stroke color.NRGBA
}

// AddItemConfigFrom reads "kind", "width", "height", "fill" and "stroke".
func AddItemConfigFrom(o Options) AddItemConfig {
	return AddItemConfig{
		Kind:   o.String("kind", ""),
		Width:  o.Float("width", 80),
		Height: o.Float("height", 60),
		Fill:   o.Color("fill", color.NRGBA{R: 0xdd, G: 0xee, B: 0xff, A: 0xff}),
		Stroke: o.Color("stroke", color.NRGBA{A: 0xff}),
	}
}

// AddItemTool adds a shape where the user taps while a shape mode is
// armed. The tap point, snapped, becomes the shape's top-left corner.
type AddItemTool struct {
	cfg  AddItemConfig
	kind string
}

// NewAddItemTool creates an AddItemTool.
func NewAddItemTool(cfg AddItemConfig) *AddItemTool {
	return &AddItemTool{cfg: cfg, kind: cfg.Kind}
}

func (t *AddItemTool) Info() ToolInfo {
	return ToolInfo{Name: ToolAddItem, Icon: "shape", Group: groupInsert}
}

// Kind returns the armed shape kind, or "".
func (t *AddItemTool) Kind() string { return t.kind }

func (t *AddItemTool) CanHandle(g Gesture, ctx *Context) bool {
	tap, ok := g.(Tap)
	return ok && t.kind != "" && ctx.Document != nil && ctx.HitTest(tap.Position) == nil
}

func (t *AddItemTool) Handle(g Gesture, ctx *Context) Outcome {
	tap, ok := g.(Tap)
	if !ok || t.kind == "" {
		return Outcome{}
	}
	at := ctx.Snap(ctx.ToDocument(tap.Position))
	e := ctx.Document.NewElement(t.kind)
	e.SetAttr(AttrX, FormatNumber(at.X))
	e.SetAttr(AttrY, FormatNumber(at.Y))
	e.SetAttr(AttrWidth, FormatNumber(t.cfg.Width))
	e.SetAttr(AttrHeight, FormatNumber(t.cfg.Height))
	e.SetAttr(AttrFill, FormatColor(t.cfg.Fill))
	e.SetAttr(AttrStroke, FormatColor(t.cfg.Stroke))
	return commit(AppendElement(ctx.Document, e, "Add "+t.kind))
}

func (t *AddItemTool) Commands() []ToolCommand {
	mode := func(name, icon, kind string, key int) ToolCommand {
		return ToolCommand{
			Name: name, Group: groupInsert, Icon: icon, SortKey: key,
			Checked: func(*Context) bool { return t.kind == kind },
			Execute: func(*Context) Outcome {
				if t.kind == kind {
					t.kind = ""
				} else {
					t.kind = kind
				}
				return Outcome{Consumed: true}
			},
		}
	}
	return []ToolCommand{
		mode("Rectangle mode", "rect", KindRect, 30),
		mode("Ellipse mode", "ellipse", KindEllipse, 31),
	}
}
