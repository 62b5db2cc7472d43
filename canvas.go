package inkwell

import (
	"cmp"
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
)

const defaultInputBuffer = 256

// Config configures a Canvas. Only Document is commonly set; everything
// else has a usable default.
type Config struct {
	// Document is the initial document. It may be nil and set later.
	Document Document
	// Tools is the dispatch chain in priority order. Nil means
	// DefaultTools(ToolOptions, ToolDeps).
	Tools []Tool
	// ToolOptions configures the default tools when Tools is nil.
	ToolOptions ToolOptions
	// ToolDeps supplies host collaborators to the default tools.
	ToolDeps ToolDeps

	Recognizer   RecognizerConfig
	HistoryLimit int
	// InputBuffer is the capacity of the Send channel.
	InputBuffer int
	// Prompter answers tool prompts. Nil drops prompts with a warning.
	Prompter Prompter
	// Background is the clear color; nil means white.
	Background color.Color
	// SelectionColor outlines selected elements; nil means a blue tint.
	SelectionColor color.Color
	Logger         *slog.Logger
}

// Stats are counters for diagnostics and tests.
type Stats struct {
	Gestures      uint64
	Unclaimed     uint64
	Commands      uint64
	Invalidations uint64
	Frames        uint64
	Prompts       uint64
}

type registration struct {
	tool    Tool
	enabled bool
}

// familyKey identifies a continuous gesture family for capture.
type familyKey struct {
	kind    GestureKind
	pointer int
}

// Canvas is the editor orchestrator. It owns the transform, recognizer,
// history, selection and tool chain, and routes each gesture to the first
// enabled tool that claims it. Once a tool claims the first event of a
// drag, scale or rotate it receives the rest of that family.
//
// OnEvent, Update, ExecuteCommand and the other mutating methods must be
// called from one goroutine (the host's UI thread). Send may be called from
// any goroutine. Drawing takes the same lock as dispatch so frames never
// observe a half-applied gesture.
type Canvas struct {
	mu  sync.Mutex
	log *slog.Logger

	doc        Document
	transform  *Transform
	recognizer *Recognizer
	history    *History
	selection  Selection
	tools      []*registration
	captures   map[familyKey]*registration
	malformed  map[string]string

	render  *RenderLoop
	prompts *promptRunner

	inMu   sync.RWMutex
	input  chan PointerInput
	closed bool

	commandsChanged chan struct{}
	dirtyChanged    chan struct{}
	commandSig      string
	cleanVersion    HistoryVersion
	dirty           bool

	background     color.Color
	selectionColor color.Color

	viewport Rect

	lastUpdate time.Duration
	started    bool
	stats      Stats
}

// NewCanvas builds a canvas and its tool chain.
func NewCanvas(cfg Config) *Canvas {
	base := cfg.Logger
	if base == nil {
		base = slog.Default()
	}
	log := base.With("component", "canvas")
	buf := cfg.InputBuffer
	if buf <= 0 {
		buf = defaultInputBuffer
	}
	c := &Canvas{
		log:             log,
		doc:             cfg.Document,
		transform:       NewTransform(),
		recognizer:      NewRecognizer(cfg.Recognizer),
		history:         NewHistory(cfg.HistoryLimit),
		captures:        make(map[familyKey]*registration),
		malformed:       make(map[string]string),
		prompts:         newPromptRunner(cfg.Prompter, base.With("component", "prompt")),
		input:           make(chan PointerInput, buf),
		commandsChanged: make(chan struct{}, 1),
		dirtyChanged:    make(chan struct{}, 1),
		background:      cmp.Or[color.Color](cfg.Background, color.White),
		selectionColor:  cmp.Or[color.Color](cfg.SelectionColor, color.NRGBA{R: 0x33, G: 0x88, B: 0xff, A: 0xff}),
	}
	c.render = newRenderLoop(c.drawLocked)
	c.cleanVersion = c.history.Version()

	tools := cfg.Tools
	if tools == nil {
		deps := cfg.ToolDeps
		if deps.Logger == nil {
			deps.Logger = cfg.Logger
		}
		tools = DefaultTools(cfg.ToolOptions, deps)
	}
	for _, t := range tools {
		c.tools = append(c.tools, &registration{tool: t, enabled: true})
	}
	c.commandSig = c.commandSignature()
	return c
}

// --- Input ---

// Send queues a pointer sample from the platform adapter. It never blocks.
func (c *Canvas) Send(in PointerInput) error {
	c.inMu.RLock()
	defer c.inMu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	select {
	case c.input <- in:
		return nil
	default:
		return ErrInputFull
	}
}

// Update runs one UI-thread step at monotonic time now: it drains queued
// input through the recognizer, fires time-based gestures, advances view
// animation and applies completed prompts.
func (c *Canvas) Update(now time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isClosed() {
		return ErrClosed
	}

	for drained := false; !drained; {
		select {
		case in := <-c.input:
			for _, g := range c.recognizer.Feed(in.Sample, in.Phase) {
				c.dispatch(g)
			}
		default:
			drained = true
		}
	}
	for _, g := range c.recognizer.Tick(now) {
		c.dispatch(g)
	}

	if c.started && now > c.lastUpdate {
		dt := float32((now - c.lastUpdate).Seconds())
		if c.transform.Update(dt) {
			c.render.Invalidate()
		}
	}
	c.lastUpdate, c.started = now, true

	if res, ok := c.prompts.poll(); ok {
		c.finishPrompt(res)
	}
	c.settle()
	return nil
}

// OnEvent dispatches a recognized gesture through the tool chain.
func (c *Canvas) OnEvent(g Gesture) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isClosed() {
		return
	}
	c.dispatch(g)
	c.settle()
}

// dispatch routes g to a captured tool or to the first tool that claims it.
func (c *Canvas) dispatch(g Gesture) {
	c.stats.Gestures++
	ctx := c.context()

	key, family := gestureFamily(g)
	if family {
		if reg, ok := c.captures[key]; ok {
			if terminal(g) {
				delete(c.captures, key)
			}
			if reg == nil || !reg.enabled {
				return
			}
			c.apply(reg.tool.Handle(g, ctx))
			return
		}
	}

	var target *registration
	for _, reg := range c.tools {
		if reg.enabled && reg.tool.CanHandle(g, ctx) {
			target = reg
			break
		}
	}
	if family && !terminal(g) {
		// An unclaimed start still captures, so later events of the same
		// family are not picked up mid-gesture by another tool.
		c.captures[key] = target
	}
	if target == nil {
		c.stats.Unclaimed++
		c.log.Debug("gesture unclaimed", "gesture", g.Kind().String())
		return
	}
	c.apply(target.tool.Handle(g, ctx))
}

func gestureFamily(g Gesture) (familyKey, bool) {
	switch g := g.(type) {
	case Drag:
		return familyKey{kind: GestureDrag, pointer: g.PointerID}, true
	case Scale:
		return familyKey{kind: GestureScale}, true
	case Rotate:
		return familyKey{kind: GestureRotate}, true
	}
	return familyKey{}, false
}

// apply records an Outcome: commands go to the history in order, then
// redraw, document replacement and prompts are handled.
func (c *Canvas) apply(out Outcome) {
	for _, cmd := range out.Commands {
		if cmd == nil {
			continue
		}
		c.history.Push(cmd)
		c.stats.Commands++
	}
	if len(out.Commands) > 0 {
		out.Invalidate = true
	}
	if out.Load != nil {
		c.setDocument(out.Load, out.ClearHistory)
		out.Invalidate = true
	}
	if out.Saved {
		c.cleanVersion = c.history.Version()
	}
	if out.Invalidate {
		c.selection.retain(c.doc)
		c.render.Invalidate()
	}
	if out.Prompt != nil {
		c.stats.Prompts++
		if err := c.prompts.request(out.Prompt); err != nil {
			c.log.Debug("prompt not started", "error", err)
		}
	}
}

func (c *Canvas) finishPrompt(res promptResult) {
	switch {
	case res.err == nil:
		if res.prompt.Apply != nil {
			c.apply(res.prompt.Apply(res.answer, c.context()))
		}
	case isCancel(res.err):
		c.log.Debug("prompt cancelled", "title", res.prompt.Request.Title)
	default:
		c.log.Warn("prompt failed", "title", res.prompt.Request.Title, "error", res.err)
	}
}

// settle publishes dirty and command-set changes after a mutation.
func (c *Canvas) settle() {
	dirty := c.history.Version() != c.cleanVersion
	if dirty != c.dirty {
		c.dirty = dirty
		notify(c.dirtyChanged)
	}
	if sig := c.commandSignature(); sig != c.commandSig {
		c.commandSig = sig
		notify(c.commandsChanged)
	}
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func (c *Canvas) context() *Context {
	return &Context{
		Document:  c.doc,
		Transform: c.transform,
		History:   c.history,
		Logger:    c.log,
		Viewport:  c.viewport,
		selection: &c.selection,
		snap:      c.snapper(),
		malformed: c.malformed,
	}
}

func (c *Canvas) snapper() func(Vec2) Vec2 {
	for _, reg := range c.tools {
		if !reg.enabled {
			continue
		}
		if s, ok := reg.tool.(Snapper); ok {
			return s.Snap
		}
	}
	return nil
}

// --- Commands ---

// ToolCommands lists the commands of enabled tools. Groups keep the order
// in which tools first mention them; within a group commands are ordered by
// SortKey, then name.
func (c *Canvas) ToolCommands() []CommandState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commandStates()
}

func (c *Canvas) commandStates() []CommandState {
	ctx := c.context()
	groupOrder := map[string]int{}
	type entry struct {
		state CommandState
		key   int
		group int
	}
	var entries []entry
	for _, reg := range c.tools {
		cmdr, ok := reg.tool.(Commander)
		if !reg.enabled || !ok {
			continue
		}
		for _, tc := range cmdr.Commands() {
			g, seen := groupOrder[tc.Group]
			if !seen {
				g = len(groupOrder)
				groupOrder[tc.Group] = g
			}
			st := CommandState{
				Name:    tc.Name,
				Group:   tc.Group,
				Icon:    tc.Icon,
				Tool:    reg.tool.Info().Name,
				Enabled: tc.CanExecute == nil || tc.CanExecute(ctx),
				Toggle:  tc.Checked != nil,
			}
			if st.Toggle {
				st.Checked = tc.Checked(ctx)
			}
			entries = append(entries, entry{state: st, key: tc.SortKey, group: g})
		}
	}
	slices.SortStableFunc(entries, func(a, b entry) int {
		return cmp.Or(
			cmp.Compare(a.group, b.group),
			cmp.Compare(a.key, b.key),
			strings.Compare(a.state.Name, b.state.Name),
		)
	})
	out := make([]CommandState, len(entries))
	for i, e := range entries {
		out[i] = e.state
	}
	return out
}

func (c *Canvas) commandSignature() string {
	var sb strings.Builder
	for _, st := range c.commandStates() {
		fmt.Fprintf(&sb, "%s|%t|%t;", st.Name, st.Enabled, st.Checked)
	}
	return sb.String()
}

// ExecuteCommand runs the named tool command. A gesture in progress is
// abandoned before the command runs.
func (c *Canvas) ExecuteCommand(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isClosed() {
		return ErrClosed
	}
	ctx := c.context()
	for _, reg := range c.tools {
		cmdr, ok := reg.tool.(Commander)
		if !reg.enabled || !ok {
			continue
		}
		for _, tc := range cmdr.Commands() {
			if tc.Name != name {
				continue
			}
			if tc.Execute == nil || (tc.CanExecute != nil && !tc.CanExecute(ctx)) {
				return fmt.Errorf("execute %q: %w", name, ErrCommandDisabled)
			}
			c.abandonGestures()
			c.apply(tc.Execute(ctx))
			c.settle()
			return nil
		}
	}
	return fmt.Errorf("execute %q: %w", name, ErrUnknownCommand)
}

// CommandsChanged receives a value when the set or state of tool commands
// changes.
func (c *Canvas) CommandsChanged() <-chan struct{} { return c.commandsChanged }

// DirtyChanged receives a value when IsDirty flips.
func (c *Canvas) DirtyChanged() <-chan struct{} { return c.dirtyChanged }

// Invalidated receives a value when a redraw is needed.
func (c *Canvas) Invalidated() <-chan struct{} { return c.render.Notify() }

// --- Tools ---

// Tools returns the chain in dispatch order.
func (c *Canvas) Tools() []Tool {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Tool, len(c.tools))
	for i, reg := range c.tools {
		out[i] = reg.tool
	}
	return out
}

// SetToolEnabled enables or disables the named tool. Disabling drops its
// transient state and any gesture it had captured.
func (c *Canvas) SetToolEnabled(name string, enabled bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, reg := range c.tools {
		if reg.tool.Info().Name != name {
			continue
		}
		if reg.enabled && !enabled {
			resetTool(reg.tool)
			for k, r := range c.captures {
				if r == reg {
					delete(c.captures, k)
				}
			}
			c.render.Invalidate()
		}
		reg.enabled = enabled
		c.settle()
		return true
	}
	return false
}

// ToolEnabled reports whether the named tool is enabled.
func (c *Canvas) ToolEnabled(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, reg := range c.tools {
		if reg.tool.Info().Name == name {
			return reg.enabled
		}
	}
	return false
}

// abandonGestures resets every tool holding a gesture family. The families
// stay captured by nothing, so their remaining events are dropped until the
// recognizer ends them.
func (c *Canvas) abandonGestures() {
	for k, reg := range c.captures {
		if reg == nil {
			continue
		}
		resetTool(reg.tool)
		c.captures[k] = nil
		c.render.Invalidate()
	}
}

func resetTool(t Tool) {
	if r, ok := t.(Resetter); ok {
		r.Reset()
	}
}

// --- Document & history ---

// Document returns the current document.
func (c *Canvas) Document() Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc
}

// SetDocument replaces the document. Tool state, captures and the selection
// are reset; the tool chain and transform are kept. History is kept unless
// clearHistory is set. The new document counts as clean.
func (c *Canvas) SetDocument(doc Document, clearHistory bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setDocument(doc, clearHistory)
	c.render.Invalidate()
	c.settle()
}

func (c *Canvas) setDocument(doc Document, clearHistory bool) {
	for _, reg := range c.tools {
		resetTool(reg.tool)
	}
	clear(c.captures)
	c.recognizer.Reset()
	c.selection.Clear()
	clear(c.malformed)
	c.doc = doc
	if clearHistory {
		c.history.Clear()
	}
	c.cleanVersion = c.history.Version()
}

// Undo reverts the last command, abandoning any gesture in progress first.
// It reports false when there was nothing to undo.
func (c *Canvas) Undo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.history.CanUndo() {
		c.log.Debug("undo: nothing to undo")
		return false
	}
	c.abandonGestures()
	c.history.Undo()
	c.selection.retain(c.doc)
	c.render.Invalidate()
	c.settle()
	return true
}

// Redo re-applies the last undone command, abandoning any gesture in
// progress first. It reports false when there was nothing to redo.
func (c *Canvas) Redo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.history.CanRedo() {
		c.log.Debug("redo: nothing to redo")
		return false
	}
	c.abandonGestures()
	c.history.Redo()
	c.selection.retain(c.doc)
	c.render.Invalidate()
	c.settle()
	return true
}

// History returns the undo history.
func (c *Canvas) History() *History { return c.history }

// Transform returns the view transform.
func (c *Canvas) Transform() *Transform { return c.transform }

// Selection returns a copy of the selected elements.
func (c *Canvas) Selection() []Element {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection.Elements()
}

// MarkClean records the current state as saved.
func (c *Canvas) MarkClean() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanVersion = c.history.Version()
	c.settle()
}

// IsDirty reports whether the document changed since it was set or last
// marked clean.
func (c *Canvas) IsDirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Version() != c.cleanVersion
}

// PromptPending reports whether a prompt is outstanding or queued.
func (c *Canvas) PromptPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prompts.busy()
}

// Stats returns a snapshot of the counters.
func (c *Canvas) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Invalidations = c.render.Invalidations()
	s.Frames = c.render.Frames()
	return s
}

// --- Drawing ---

// SetViewport records the host surface size before the first frame.
func (c *Canvas) SetViewport(w, h int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewport = Rect{Width: float64(w), Height: float64(h)}
}

// RenderLoop returns the canvas render loop.
func (c *Canvas) RenderLoop() *RenderLoop { return c.render }

// Frame draws into s if the view was invalidated since the last frame.
func (c *Canvas) Frame(ctx context.Context, s Surface) (bool, error) {
	return c.render.Frame(ctx, s)
}

// OnDraw draws the document, selection and tool overlays into s
// unconditionally.
func (c *Canvas) OnDraw(ctx context.Context, s Surface) error {
	return c.drawLocked(ctx, s)
}

func (c *Canvas) drawLocked(ctx context.Context, s Surface) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := s.Bounds()
	c.viewport = Rect{X: float64(b.Min.X), Y: float64(b.Min.Y), Width: float64(b.Dx()), Height: float64(b.Dy())}
	s.Clear(c.background)
	view := c.transform.Matrix()
	if c.doc != nil {
		if err := c.doc.Draw(ctx, s, view); err != nil {
			return fmt.Errorf("draw document: %w", err)
		}
		for _, e := range c.selection.items {
			cs := c.doc.BoundingBox(e).Corners()
			pts := make([]Vec2, len(cs))
			for i, p := range cs {
				pts[i] = view.Apply(p)
			}
			s.StrokePolyline(pts, true, 1, c.selectionColor)
		}
	}
	tctx := c.context()
	for _, reg := range c.tools {
		if o, ok := reg.tool.(Overlay); ok && reg.enabled {
			o.DrawOverlay(s, tctx)
		}
	}
	return nil
}

// --- Lifecycle ---

func (c *Canvas) isClosed() bool {
	c.inMu.RLock()
	defer c.inMu.RUnlock()
	return c.closed
}

// Close detaches the canvas: the input channel is released, any
// outstanding prompt is cancelled and in-flight gestures are abandoned
// without committing. Close is idempotent.
func (c *Canvas) Close() error {
	c.inMu.Lock()
	if c.closed {
		c.inMu.Unlock()
		return nil
	}
	c.closed = true
	c.inMu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts.close()
	for _, reg := range c.tools {
		resetTool(reg.tool)
	}
	clear(c.captures)
	c.recognizer.Reset()
	for drained := false; !drained; {
		select {
		case <-c.input:
		default:
			drained = true
		}
	}
	c.log.Debug("canvas closed")
	return nil
}
