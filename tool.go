package inkwell

import (
	"log/slog"
	"slices"
)

// ToolInfo describes a tool for toolbars and logs.
type ToolInfo struct {
	Name  string
	Icon  string
	Group string
}

// Tool is one link of the Canvas dispatch chain. CanHandle must not mutate
// anything; the first enabled tool answering true receives Handle and the
// gesture goes no further.
//
// Tools must not keep the Document or Transform between calls; both are
// reached through the Context passed to each call.
type Tool interface {
	Info() ToolInfo
	CanHandle(g Gesture, ctx *Context) bool
	Handle(g Gesture, ctx *Context) Outcome
}

// Resetter is implemented by tools with transient gesture state. Reset
// drops that state without committing anything.
type Resetter interface {
	Reset()
}

// Commander is implemented by tools that contribute toolbar commands.
type Commander interface {
	Commands() []ToolCommand
}

// Snapper is implemented by tools that snap document points, such as a grid.
// The Canvas uses the first enabled Snapper in chain order.
type Snapper interface {
	Snap(p Vec2) Vec2
}

// Overlay is implemented by tools that draw above the document.
type Overlay interface {
	DrawOverlay(s Surface, ctx *Context)
}

// Outcome is what a tool reports back from Handle or a command.
type Outcome struct {
	// Consumed reports whether the tool acted on the gesture.
	Consumed bool
	// Commands have already been applied and are pushed to the history in
	// order.
	Commands []Command
	// Invalidate requests a redraw.
	Invalidate bool
	// Prompt requests a value from the user.
	Prompt *Prompt
	// Load replaces the canvas document as SetDocument does.
	Load Document
	// ClearHistory drops the undo history along with Load.
	ClearHistory bool
	// Saved marks the current state clean.
	Saved bool
}

// ToolCommand is a discrete action a tool offers to a toolbar.
type ToolCommand struct {
	Name    string
	Group   string
	Icon    string
	SortKey int
	// CanExecute reports whether the command is currently available. Nil
	// means always.
	CanExecute func(ctx *Context) bool
	// Checked reports toggle state for mode commands. Nil means the command
	// is not a toggle.
	Checked func(ctx *Context) bool
	Execute func(ctx *Context) Outcome
}

// CommandState is a ToolCommand resolved against the current state, as
// listed by Canvas.ToolCommands.
type CommandState struct {
	Name    string
	Group   string
	Icon    string
	Tool    string
	Enabled bool
	Toggle  bool
	Checked bool
}

// Context gives tools access to the canvas state for the duration of one
// call.
type Context struct {
	Document  Document
	Transform *Transform
	History   *History
	Logger    *slog.Logger
	// Viewport is the screen area of the last drawn surface. It is empty
	// before the first frame unless the host called Canvas.SetViewport.
	Viewport Rect

	selection *Selection
	snap      func(Vec2) Vec2
	// malformed maps element IDs to the malformed constraints value already
	// warned about.
	malformed map[string]string
}

// Selection returns the canvas selection.
func (c *Context) Selection() *Selection { return c.selection }

// ToDocument converts a screen point to document space.
func (c *Context) ToDocument(p Vec2) Vec2 { return c.Transform.ToDocument(p) }

// HitTest returns the topmost element under the screen point p, or nil.
func (c *Context) HitTest(p Vec2) Element {
	if c.Document == nil {
		return nil
	}
	return c.Document.HitTest(c.ToDocument(p))
}

// Snap snaps a document point through the active Snapper, if any.
func (c *Context) Snap(p Vec2) Vec2 {
	if c.snap == nil {
		return p
	}
	return c.snap(p)
}

// Constraints returns the constraints of e. A malformed value is warned
// about once per element and value.
func (c *Context) Constraints(e Element) Constraints {
	log := c.Logger
	if e != nil && c.malformed != nil {
		raw, _ := e.Attr(ConstraintsAttr)
		if prev, seen := c.malformed[e.ID()]; seen && prev == raw {
			log = nil
		} else if _, ok := ParseConstraints(raw); !ok {
			c.malformed[e.ID()] = raw
		}
	}
	return ConstraintsOf(e, log)
}

// Allows reports whether op may be applied to e.
func (c *Context) Allows(e Element, op string) bool {
	return e != nil && !c.Constraints(e).Forbids(op)
}

// Selection is the ordered set of selected elements.
type Selection struct {
	items []Element
}

// Elements returns a copy of the selected elements in selection order.
func (s *Selection) Elements() []Element { return slices.Clone(s.items) }

// Len returns the number of selected elements.
func (s *Selection) Len() int { return len(s.items) }

// Contains reports whether e is selected.
func (s *Selection) Contains(e Element) bool { return slices.Contains(s.items, e) }

// Set replaces the selection.
func (s *Selection) Set(es ...Element) {
	s.items = s.items[:0]
	for _, e := range es {
		s.Add(e)
	}
}

// Add selects e if it is not already selected.
func (s *Selection) Add(e Element) {
	if e != nil && !s.Contains(e) {
		s.items = append(s.items, e)
	}
}

// Remove deselects e.
func (s *Selection) Remove(e Element) {
	s.items = slices.DeleteFunc(s.items, func(x Element) bool { return x == e })
}

// Toggle flips e's membership.
func (s *Selection) Toggle(e Element) {
	if s.Contains(e) {
		s.Remove(e)
	} else {
		s.Add(e)
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	clear(s.items)
	s.items = s.items[:0]
}

// retain drops selected elements that are no longer in doc.
func (s *Selection) retain(doc Document) {
	if doc == nil {
		s.Clear()
		return
	}
	live := doc.Children()
	s.items = slices.DeleteFunc(s.items, func(x Element) bool { return !slices.Contains(live, x) })
}
