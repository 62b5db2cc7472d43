package vecdoc

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/inkwell"
)

// ErrForeignDocument is returned when encoding a document of another type.
var ErrForeignDocument = errors.New("vecdoc: not a vecdoc document")

// formatVersion is written to every snapshot.
const formatVersion = 1

type docSnapshot struct {
	Version  int            `yaml:"version"`
	Elements []elemSnapshot `yaml:"elements"`
}

type elemSnapshot struct {
	ID        string            `yaml:"id"`
	Kind      string            `yaml:"kind"`
	Transform []float64         `yaml:"transform,flow,omitempty"`
	Attrs     map[string]string `yaml:"attrs,omitempty"`
	Children  []elemSnapshot    `yaml:"children,omitempty"`
}

// YAMLCodec encodes documents as YAML. It implements inkwell.Codec.
type YAMLCodec struct{}

var _ inkwell.Codec = YAMLCodec{}

func (YAMLCodec) Encode(doc inkwell.Document) ([]byte, error) {
	d, ok := doc.(*Document)
	if !ok {
		return nil, ErrForeignDocument
	}
	snap := docSnapshot{Version: formatVersion, Elements: snapshotAll(d.children)}
	return yaml.Marshal(&snap)
}

func (YAMLCodec) Decode(data []byte) (inkwell.Document, error) {
	var snap docSnapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if snap.Version > formatVersion {
		return nil, fmt.Errorf("decode document: unsupported version %d", snap.Version)
	}
	d := New()
	for _, s := range snap.Elements {
		e, err := restore(s)
		if err != nil {
			return nil, err
		}
		d.Add(e)
	}
	return d, nil
}

func snapshotAll(es []*Element) []elemSnapshot {
	out := make([]elemSnapshot, len(es))
	for i, e := range es {
		out[i] = elemSnapshot{
			ID:       e.id,
			Kind:     e.kind,
			Attrs:    e.Attrs(),
			Children: snapshotAll(e.children),
		}
		if e.transform != inkwell.Identity {
			out[i].Transform = e.transform[:]
		}
		if len(out[i].Children) == 0 {
			out[i].Children = nil
		}
	}
	return out
}

func restore(s elemSnapshot) (*Element, error) {
	if s.Kind == "" {
		return nil, fmt.Errorf("decode document: element %q has no kind", s.ID)
	}
	id := s.ID
	if id == "" {
		id = NewElement(s.Kind).id
	}
	e := newElement(id, s.Kind)
	for k, v := range s.Attrs {
		e.SetAttr(k, v)
	}
	switch len(s.Transform) {
	case 0:
	case 6:
		copy(e.transform[:], s.Transform)
	default:
		return nil, fmt.Errorf("decode document: element %q transform has %d values, want 6", id, len(s.Transform))
	}
	for _, cs := range s.Children {
		c, err := restore(cs)
		if err != nil {
			return nil, err
		}
		e.AddChild(c)
	}
	return e, nil
}

// FileStore keeps one document file on disk. It implements inkwell.Store.
type FileStore struct {
	Path string
}

var _ inkwell.Store = FileStore{}

func (f FileStore) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(f.Path)
}

// Save writes through a temporary file so a failed write leaves the old
// document intact.
func (f FileStore) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.Path)
}
