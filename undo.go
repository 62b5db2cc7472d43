package inkwell

import "sync"

// Command is one reversible document mutation. Do must be repeatable after
// Undo and Undo must restore exactly the state Do started from.
type Command interface {
	Name() string
	Do()
	Undo()
}

// CommandFunc is a Command built from a closure pair capturing the before
// and after state.
type CommandFunc struct {
	Label  string
	DoFn   func()
	UndoFn func()
}

// NewCommand returns a CommandFunc.
func NewCommand(name string, do, undo func()) *CommandFunc {
	return &CommandFunc{Label: name, DoFn: do, UndoFn: undo}
}

func (c *CommandFunc) Name() string { return c.Label }

func (c *CommandFunc) Do() {
	if c.DoFn != nil {
		c.DoFn()
	}
}

func (c *CommandFunc) Undo() {
	if c.UndoFn != nil {
		c.UndoFn()
	}
}

// Batch groups commands into a single history entry. Undo runs the parts in
// reverse order.
type Batch struct {
	Label string
	Parts []Command
}

func (b *Batch) Name() string { return b.Label }

func (b *Batch) Do() {
	for _, c := range b.Parts {
		c.Do()
	}
}

func (b *Batch) Undo() {
	for i := len(b.Parts) - 1; i >= 0; i-- {
		b.Parts[i].Undo()
	}
}

// History is the undo/redo manager: two stacks with the standard discipline.
// Execute pushes onto the undo stack and discards the redo branch.
type History struct {
	// Limit caps the undo stack; the oldest entries are dropped first.
	// Zero means unbounded.
	Limit int

	mu   sync.Mutex
	undo []Command
	redo []Command
	// version moves forward on Execute/Redo and backward on Undo, so it
	// identifies the current position for dirty tracking.
	version int64
	// branch is bumped whenever the redo branch is discarded so that a
	// version reached on a different branch never compares equal.
	branch int64
}

// NewHistory creates a history with the given stack limit (0 = unbounded).
func NewHistory(limit int) *History {
	return &History{Limit: limit}
}

// Execute runs cmd.Do and records it.
func (h *History) Execute(cmd Command) {
	cmd.Do()
	h.Push(cmd)
}

// Push records a command whose effect has already been applied.
func (h *History) Push(cmd Command) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo = append(h.undo, cmd)
	if len(h.redo) > 0 {
		clear(h.redo)
		h.redo = h.redo[:0]
		h.branch++
	}
	if h.Limit > 0 && len(h.undo) > h.Limit {
		n := len(h.undo) - h.Limit
		clear(h.undo[:n])
		h.undo = h.undo[n:]
	}
	h.version++
}

// Undo reverts the most recent command. Returns false (a no-op) if there is
// nothing to undo.
func (h *History) Undo() bool {
	h.mu.Lock()
	n := len(h.undo)
	if n == 0 {
		h.mu.Unlock()
		return false
	}
	cmd := h.undo[n-1]
	h.undo[n-1] = nil
	h.undo = h.undo[:n-1]
	h.redo = append(h.redo, cmd)
	h.version--
	h.mu.Unlock()

	cmd.Undo()
	return true
}

// Redo re-applies the most recently undone command. Returns false (a no-op)
// if there is nothing to redo.
func (h *History) Redo() bool {
	h.mu.Lock()
	n := len(h.redo)
	if n == 0 {
		h.mu.Unlock()
		return false
	}
	cmd := h.redo[n-1]
	h.redo[n-1] = nil
	h.redo = h.redo[:n-1]
	h.undo = append(h.undo, cmd)
	h.version++
	h.mu.Unlock()

	cmd.Do()
	return true
}

// CanUndo reports whether Undo would do something.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo) > 0
}

// CanRedo reports whether Redo would do something.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo) > 0
}

// Len returns the sizes of the undo and redo stacks.
func (h *History) Len() (undo, redo int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo), len(h.redo)
}

// NextUndo returns the name of the command Undo would revert, or "".
func (h *History) NextUndo() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undo) == 0 {
		return ""
	}
	return h.undo[len(h.undo)-1].Name()
}

// NextRedo returns the name of the command Redo would re-apply, or "".
func (h *History) NextRedo() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.redo) == 0 {
		return ""
	}
	return h.redo[len(h.redo)-1].Name()
}

// Clear drops both stacks.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo = nil
	h.redo = nil
	h.branch++
	h.version = 0
}

// Version identifies the current position in the history. Two equal
// versions mean the document is in the same state.
func (h *History) Version() HistoryVersion {
	h.mu.Lock()
	defer h.mu.Unlock()
	return HistoryVersion{branch: h.branch, pos: h.version}
}

// HistoryVersion is an opaque history position; see History.Version.
type HistoryVersion struct {
	branch int64
	pos    int64
}
