package vecdoc

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/inkwell"
)

func TestYAMLCodecRoundTrip(t *testing.T) {
	d := New()
	r := d.Add(rect("1", "2", "3", "4"))
	r.SetAttr(inkwell.AttrFill, "#ff0000")
	r.SetAttr(inkwell.ConstraintsAttr, "move,delete")
	r.SetTransform(inkwell.Translation(10, 20))

	g := d.Add(NewElement(KindGroup))
	child := NewElement(inkwell.KindText)
	child.SetAttr(inkwell.AttrText, "hello")
	g.AddChild(child)

	data, err := YAMLCodec{}.Encode(d)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version: 1")

	out, err := YAMLCodec{}.Decode(data)
	require.NoError(t, err)
	got := out.(*Document)
	require.Equal(t, 2, got.Len())

	r2 := got.Elements()[0]
	assert.Equal(t, r.ID(), r2.ID())
	assert.Equal(t, r.Attrs(), r2.Attrs())
	assert.Equal(t, inkwell.Translation(10, 20), r2.Transform())

	g2 := got.Elements()[1]
	assert.Equal(t, inkwell.Identity, g2.Transform())
	require.Len(t, g2.Children(), 1)
	assert.Equal(t, child.ID(), g2.Children()[0].ID())
	assert.Same(t, g2, g2.Children()[0].Parent())
	assert.Same(t, g2.Children()[0], got.Find(child.ID()))
}

func TestYAMLCodecDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"malformed", "elements: ["},
		{"future version", "version: 2\nelements: []\n"},
		{"missing kind", "version: 1\nelements:\n  - id: a\n"},
		{"short transform", "version: 1\nelements:\n  - id: a\n    kind: rect\n    transform: [1, 0, 0]\n"},
		{"bad child", "version: 1\nelements:\n  - id: g\n    kind: group\n    children:\n      - id: c\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := YAMLCodec{}.Decode([]byte(tt.in))
			assert.Error(t, err)
		})
	}
}

func TestYAMLCodecAssignsMissingIDs(t *testing.T) {
	out, err := YAMLCodec{}.Decode([]byte("elements:\n  - kind: rect\n  - kind: rect\n"))
	require.NoError(t, err)
	es := out.(*Document).Elements()
	require.Len(t, es, 2)
	assert.NotEmpty(t, es[0].ID())
	assert.NotEqual(t, es[0].ID(), es[1].ID())
}

func TestYAMLCodecRejectsForeignDocument(t *testing.T) {
	_, err := YAMLCodec{}.Encode(nil)
	assert.ErrorIs(t, err, ErrForeignDocument)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.yaml")
	fs := FileStore{Path: path}
	ctx := context.Background()

	_, err := fs.Load(ctx)
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, fs.Save(ctx, []byte("one")))
	require.NoError(t, fs.Save(ctx, []byte("two")))
	data, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
	assert.NoFileExists(t, path+".tmp")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, fs.Save(cancelled, []byte("three")), context.Canceled)
	_, err = fs.Load(cancelled)
	assert.ErrorIs(t, err, context.Canceled)
}
