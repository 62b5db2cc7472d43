package vecdoc

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/inkwell"
)

func touch(t *testing.T, c *inkwell.Canvas, id int, x, y float64, at time.Duration, phase inkwell.Phase) {
	t.Helper()
	require.NoError(t, c.Send(inkwell.PointerInput{
		Sample: inkwell.PointerSample{PointerID: id, Position: inkwell.Vec2{X: x, Y: y}, Time: at},
		Phase:  phase,
	}))
}

// End to end: drag an element with the default tools, save it, and load it
// back through the file commands.
func TestCanvasEditSaveLoad(t *testing.T) {
	doc := New()
	r := doc.Add(rect("0", "0", "50", "50"))
	pinned := doc.Add(rect("100", "0", "50", "50"))
	pinned.SetAttr(inkwell.ConstraintsAttr, "move,delete")

	store := FileStore{Path: filepath.Join(t.TempDir(), "doc.yaml")}
	c := inkwell.NewCanvas(inkwell.Config{
		Document: doc,
		ToolDeps: inkwell.ToolDeps{Store: store, Codec: YAMLCodec{}},
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	defer c.Close()

	ms := time.Millisecond
	touch(t, c, 1, 10, 10, 0, inkwell.PhaseDown)
	touch(t, c, 1, 40, 30, 10*ms, inkwell.PhaseMove)
	touch(t, c, 1, 40, 30, 20*ms, inkwell.PhaseUp)
	require.NoError(t, c.Update(30*ms))
	assert.Equal(t, inkwell.Translation(30, 20), r.Transform())
	assert.Equal(t, inkwell.Rect{X: 30, Y: 20, Width: 50, Height: 50}, doc.BoundingBox(r))

	// The pinned element does not move.
	touch(t, c, 1, 110, 10, 100*ms, inkwell.PhaseDown)
	touch(t, c, 1, 140, 10, 110*ms, inkwell.PhaseMove)
	touch(t, c, 1, 140, 10, 120*ms, inkwell.PhaseUp)
	require.NoError(t, c.Update(130*ms))
	assert.Equal(t, inkwell.Identity, pinned.Transform())

	require.True(t, c.IsDirty())
	require.NoError(t, c.ExecuteCommand("Save"))
	assert.False(t, c.IsDirty())

	require.True(t, c.Undo())
	assert.Equal(t, inkwell.Identity, r.Transform())

	require.NoError(t, c.ExecuteCommand("Load"))
	loaded, ok := c.Document().(*Document)
	require.True(t, ok)
	require.NotSame(t, doc, loaded)
	lr := loaded.Find(r.ID())
	require.NotNil(t, lr)
	assert.Equal(t, inkwell.Translation(30, 20), lr.Transform())
	v, _ := loaded.Find(pinned.ID()).Attr(inkwell.ConstraintsAttr)
	assert.Equal(t, "move,delete", v)
}

// snapshot renders the document structure: order, IDs, kinds, attributes
// and transforms.
func snapshot(d *Document) []string {
	var out []string
	var walk func(prefix string, es []*Element)
	walk = func(prefix string, es []*Element) {
		for _, e := range es {
			out = append(out, fmt.Sprintf("%s%s %s %v %v", prefix, e.ID(), e.Kind(), e.Attrs(), e.Transform()))
			walk(prefix+"  ", e.Children())
		}
	}
	walk("", d.Elements())
	return out
}

func TestCanvasUndoRedoRoundTripsToolCommands(t *testing.T) {
	doc := New()
	a := doc.Add(rect("0", "0", "50", "50"))
	doc.Add(rect("100", "0", "50", "50"))
	c := inkwell.NewCanvas(inkwell.Config{
		Document: doc,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	defer c.Close()

	states := [][]string{snapshot(doc)}
	record := func() { states = append(states, snapshot(doc)) }

	// Move a down by 100.
	start := inkwell.Vec2{X: 10, Y: 10}
	end := inkwell.Vec2{X: 10, Y: 110}
	c.OnEvent(inkwell.Drag{State: inkwell.DragEnter, PointerID: 1, Start: start, Current: end, Delta: end.Sub(start)})
	c.OnEvent(inkwell.Drag{State: inkwell.DragExit, PointerID: 1, Start: start, Current: end})
	require.Equal(t, inkwell.Translation(0, 100), a.Transform())
	record()

	// Add a rectangle on empty space.
	require.NoError(t, c.ExecuteCommand("Rectangle mode"))
	c.OnEvent(inkwell.Tap{Position: inkwell.Vec2{X: 300, Y: 300}})
	require.NoError(t, c.ExecuteCommand("Rectangle mode"))
	require.Equal(t, 3, doc.Len())
	record()

	// Pin the second element.
	c.OnEvent(inkwell.Tap{Position: inkwell.Vec2{X: 120, Y: 10}})
	require.NoError(t, c.ExecuteCommand("Pin"))
	record()

	// Delete the moved element.
	c.OnEvent(inkwell.Tap{Position: inkwell.Vec2{X: 10, Y: 110}})
	require.NoError(t, c.ExecuteCommand("Delete"))
	require.Equal(t, 2, doc.Len())
	record()

	n := len(states) - 1
	u, _ := c.History().Len()
	require.Equal(t, n, u, "one history entry per edit")

	for i := n - 1; i >= 0; i-- {
		require.True(t, c.Undo())
		assert.Equal(t, states[i], snapshot(doc), "after undo to state %d", i)
	}
	assert.False(t, c.Undo())
	for i := 1; i <= n; i++ {
		require.True(t, c.Redo())
		assert.Equal(t, states[i], snapshot(doc), "after redo to state %d", i)
	}
	assert.False(t, c.Redo())
}
