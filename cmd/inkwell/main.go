// Inkwell is a small vector sketch pad: pan, pinch-zoom and rotate the
// view, tap to select, drag to move, and use the keyboard for the rest.
//
// Configuration comes from INKWELL_* environment variables (see
// inkwell.Settings). Tool options can be given as YAML or TOML through
// INKWELL_TOOL_OPTIONS. Prompts for text and stroke values are read from
// stdin.
//
// Keys:
//   - T / M / R / E: text, marker, rectangle and ellipse modes
//   - G: toggle grid snapping, Shift+G: toggle grid
//   - Ctrl+Z / Ctrl+Y: undo / redo, Ctrl+S: save, Ctrl+O: load
//   - Delete: delete the selection, 0: reset view
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/inkwell"
	"github.com/phanxgames/inkwell/ebitenhost"
	"github.com/phanxgames/inkwell/vecdoc"
)

const (
	windowTitle = "Inkwell"
	showFPS     = true
	screenW     = 960
	screenH     = 640
)

// keyCommands maps single keys to tool commands.
var keyCommands = map[ebiten.Key]string{
	ebiten.KeyT:      "Text mode",
	ebiten.KeyM:      "Marker mode",
	ebiten.KeyR:      "Rectangle mode",
	ebiten.KeyE:      "Ellipse mode",
	ebiten.KeyG:      "Snap to grid",
	ebiten.KeyDigit0: "Reset view",
	ebiten.KeyP:      "Pin",
	ebiten.KeyU:      "Unpin",
	ebiten.KeyA:      "Select all",
	ebiten.KeyC:      "Stroke color…",
	ebiten.KeyW:      "Stroke width…",
}

// stdinPrompter answers prompts from the terminal.
type stdinPrompter struct {
	lines chan string
}

func newStdinPrompter() *stdinPrompter {
	p := &stdinPrompter{lines: make(chan string)}
	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			p.lines <- sc.Text()
		}
		close(p.lines)
	}()
	return p
}

func (p *stdinPrompter) Prompt(ctx context.Context, req inkwell.PromptRequest) (string, error) {
	fmt.Fprintf(os.Stderr, "%s [%s]: ", req.Title, req.Initial)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-p.lines:
		if !ok {
			return "", inkwell.ErrPromptCancelled
		}
		if line = strings.TrimSpace(line); line == "" {
			return req.Initial, nil
		}
		return line, nil
	}
}

// game adds demo key bindings on top of the host game.
type game struct {
	*ebitenhost.Game
}

func (g *game) Update() error {
	if err := g.Game.Update(); err != nil {
		return err
	}
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	if ctrl {
		if inpututil.IsKeyJustPressed(ebiten.KeyO) {
			g.run("Load")
		}
		return nil
	}
	for key, name := range keyCommands {
		if !inpututil.IsKeyJustPressed(key) {
			continue
		}
		if key == ebiten.KeyG && ebiten.IsKeyPressed(ebiten.KeyShift) {
			name = "Show grid"
		}
		g.run(name)
	}
	return nil
}

func (g *game) run(name string) {
	if err := g.Canvas.ExecuteCommand(name); err != nil && !errors.Is(err, inkwell.ErrCommandDisabled) {
		g.Logger.Warn("command failed", "command", name, "error", err)
	}
}

func main() {
	settings, err := inkwell.LoadSettings()
	if err != nil {
		log.Fatalf("settings: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: settings.Level()}))
	slog.SetDefault(logger)

	opts := inkwell.ToolOptions{}
	if settings.ToolOptions != "" {
		if opts, err = inkwell.LoadToolOptions(settings.ToolOptions); err != nil {
			log.Fatalf("tool options: %v", err)
		}
	}

	store := vecdoc.FileStore{Path: settings.Document}
	codec := vecdoc.YAMLCodec{}
	doc := loadOrSample(store, codec, logger)

	canvas := inkwell.NewCanvas(inkwell.Config{
		Document:     doc,
		ToolOptions:  opts,
		ToolDeps:     inkwell.ToolDeps{Store: store, Codec: codec, Logger: logger},
		Recognizer:   settings.Recognizer(),
		HistoryLimit: settings.HistoryLimit,
		InputBuffer:  settings.InputBuffer,
		Prompter:     newStdinPrompter(),
		Logger:       logger,
	})

	g := ebitenhost.NewGame(canvas, logger)
	g.ShowFPS = showFPS
	if err := ebitenhost.Run(windowTitle, screenW, screenH, &game{Game: g}); err != nil {
		log.Fatal(err)
	}
}

func loadOrSample(store vecdoc.FileStore, codec vecdoc.YAMLCodec, logger *slog.Logger) inkwell.Document {
	data, err := store.Load(context.Background())
	if err == nil {
		doc, err := codec.Decode(data)
		if err == nil {
			return doc
		}
		logger.Warn("could not decode document, starting fresh", "path", store.Path, "error", err)
	}
	return sampleDocument()
}

func sampleDocument() *vecdoc.Document {
	d := vecdoc.New()
	rect := vecdoc.NewElement(inkwell.KindRect)
	for k, v := range map[string]string{"x": "80", "y": "80", "width": "160", "height": "100", "fill": "#ffd166", "stroke": "#073b4c", "stroke-width": "2"} {
		rect.SetAttr(k, v)
	}
	d.Add(rect)

	ellipse := vecdoc.NewElement(inkwell.KindEllipse)
	for k, v := range map[string]string{"x": "300", "y": "120", "width": "140", "height": "140", "fill": "#06d6a0", "stroke": "#073b4c", "stroke-width": "2"} {
		ellipse.SetAttr(k, v)
	}
	d.Add(ellipse)

	pinned := vecdoc.NewElement(inkwell.KindText)
	for k, v := range map[string]string{"x": "80", "y": "40", "text": "pinned title", "fill": "#073b4c", "constraints": "move,delete"} {
		pinned.SetAttr(k, v)
	}
	d.Add(pinned)
	return d
}
