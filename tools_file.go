package inkwell

import (
	"context"
	"log/slog"
	"time"
)

const groupFile = "File"

// Store is host-supplied persistence for the File tool.
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Codec converts documents to and from bytes.
type Codec interface {
	Encode(doc Document) ([]byte, error)
	Decode(data []byte) (Document, error)
}

// ToolDeps are the host collaborators handed to DefaultTools.
type ToolDeps struct {
	Store  Store
	Codec  Codec
	Logger *slog.Logger
}

// --- File ---

// FileConfig configures FileTool.
type FileConfig struct {
	ClearHistoryOnLoad bool
	// Timeout bounds a single Save or Load.
	Timeout time.Duration
}

// FileConfigFrom reads "clearHistoryOnLoad" and "timeoutSeconds".
func FileConfigFrom(o Options) FileConfig {
	return FileConfig{
		ClearHistoryOnLoad: o.Bool("clearHistoryOnLoad", true),
		Timeout:            time.Duration(o.Float("timeoutSeconds", 10) * float64(time.Second)),
	}
}

// FileTool offers Save, Load and Clear. Save and Load go through the host
// Store and Codec; Clear is undoable.
type FileTool struct {
	cfg   FileConfig
	store Store
	codec Codec
	log   *slog.Logger
}

// NewFileTool creates a FileTool. Save and Load stay disabled without a
// store and codec.
func NewFileTool(cfg FileConfig, deps ToolDeps) *FileTool {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &FileTool{cfg: cfg, store: deps.Store, codec: deps.Codec, log: log.With("component", "file")}
}

func (t *FileTool) Info() ToolInfo                   { return ToolInfo{Name: ToolFile, Icon: "file", Group: groupFile} }
func (t *FileTool) CanHandle(Gesture, *Context) bool { return false }
func (t *FileTool) Handle(Gesture, *Context) Outcome { return Outcome{} }

func (t *FileTool) io() (context.Context, context.CancelFunc) {
	if t.cfg.Timeout > 0 {
		return context.WithTimeout(context.Background(), t.cfg.Timeout)
	}
	return context.WithCancel(context.Background())
}

// Save encodes and stores doc.
func (t *FileTool) Save(doc Document) error {
	if doc == nil {
		return ErrNoDocument
	}
	data, err := t.codec.Encode(doc)
	if err != nil {
		return err
	}
	ctx, cancel := t.io()
	defer cancel()
	return t.store.Save(ctx, data)
}

// Load fetches and decodes a document.
func (t *FileTool) Load() (Document, error) {
	ctx, cancel := t.io()
	defer cancel()
	data, err := t.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return t.codec.Decode(data)
}

func (t *FileTool) Commands() []ToolCommand {
	hasIO := func(*Context) bool { return t.store != nil && t.codec != nil }
	return []ToolCommand{
		{
			Name: "Save", Group: groupFile, Icon: "save", SortKey: 10,
			CanExecute: func(ctx *Context) bool { return hasIO(ctx) && ctx.Document != nil },
			Execute: func(ctx *Context) Outcome {
				if err := t.Save(ctx.Document); err != nil {
					t.log.Error("save failed", "error", err)
					return Outcome{}
				}
				return Outcome{Consumed: true, Saved: true}
			},
		},
		{
			Name: "Load", Group: groupFile, Icon: "open", SortKey: 11,
			CanExecute: hasIO,
			Execute: func(*Context) Outcome {
				doc, err := t.Load()
				if err != nil {
					t.log.Error("load failed", "error", err)
					return Outcome{}
				}
				return Outcome{Consumed: true, Load: doc, ClearHistory: t.cfg.ClearHistoryOnLoad, Invalidate: true}
			},
		},
		{
			Name: "Clear", Group: groupFile, Icon: "clear", SortKey: 12,
			CanExecute: func(ctx *Context) bool { return len(clearable(ctx)) > 0 },
			Execute: func(ctx *Context) Outcome {
				return commit(RemoveElements(ctx.Document, clearable(ctx), "Clear"))
			},
		},
	}
}

// clearable returns the elements Clear removes: all but those forbidding
// delete.
func clearable(ctx *Context) []Element {
	if ctx.Document == nil {
		return nil
	}
	var out []Element
	for _, e := range ctx.Document.Children() {
		if ctx.Allows(e, OpDelete) {
			out = append(out, e)
		}
	}
	return out
}

// --- History ---

// HistoryTool exposes Undo and Redo as toolbar commands.
type HistoryTool struct{}

// NewHistoryTool creates a HistoryTool.
func NewHistoryTool() *HistoryTool { return &HistoryTool{} }

func (t *HistoryTool) Info() ToolInfo {
	return ToolInfo{Name: ToolHistory, Icon: "history", Group: groupEdit}
}
func (t *HistoryTool) CanHandle(Gesture, *Context) bool { return false }
func (t *HistoryTool) Handle(Gesture, *Context) Outcome { return Outcome{} }

func (t *HistoryTool) Commands() []ToolCommand {
	return []ToolCommand{
		{
			Name: "Undo", Group: groupEdit, Icon: "undo", SortKey: 0,
			CanExecute: func(ctx *Context) bool { return ctx.History.CanUndo() },
			Execute: func(ctx *Context) Outcome {
				return Outcome{Consumed: true, Invalidate: ctx.History.Undo()}
			},
		},
		{
			Name: "Redo", Group: groupEdit, Icon: "redo", SortKey: 1,
			CanExecute: func(ctx *Context) bool { return ctx.History.CanRedo() },
			Execute: func(ctx *Context) Outcome {
				return Outcome{Consumed: true, Invalidate: ctx.History.Redo()}
			},
		},
	}
}

// --- Factory ---

// DefaultTools builds the standard chain in dispatch order. Armed tools come
// first so their modes take priority, then editing, then view navigation,
// then command-only tools.
func DefaultTools(opts ToolOptions, deps ToolDeps) []Tool {
	return []Tool{
		NewTextTool(TextConfigFrom(opts.For(ToolText))),
		NewMarkerTool(MarkerConfigFrom(opts.For(ToolMarker))),
		NewAddItemTool(AddItemConfigFrom(opts.For(ToolAddItem))),
		NewMoveTool(),
		NewSelectionTool(opts.For(ToolSelection)),
		NewPanTool(PanConfigFrom(opts.For(ToolPan))),
		NewZoomTool(ZoomConfigFrom(opts.For(ToolZoom))),
		NewRotateTool(RotateConfigFrom(opts.For(ToolRotate))),
		NewGridTool(GridConfigFrom(opts.For(ToolGrid))),
		NewPinTool(),
		NewStrokeStyleTool(StrokeStyleConfigFrom(opts.For(ToolStrokeStyle))),
		NewFileTool(FileConfigFrom(opts.For(ToolFile)), deps),
		NewHistoryTool(),
	}
}
