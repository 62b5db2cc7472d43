package ebitenhost

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/inkwell"
)

// wheelZoomStep is the zoom factor per wheel notch.
const wheelZoomStep = 1.1

// Game adapts a Canvas to ebiten.Game.
type Game struct {
	Canvas *inkwell.Canvas
	Poller *Poller
	// ShowFPS draws FPS/TPS in the top-left corner.
	ShowFPS bool
	// ScreenshotDir receives PNGs queued with Screenshot.
	ScreenshotDir string
	Logger        *slog.Logger

	start     time.Time
	offscreen *ebiten.Image
	surface   *Surface
	width     int
	height    int
	shots     []string
	focused   bool
}

// NewGame wires c to ebiten input and drawing.
func NewGame(c *inkwell.Canvas, log *slog.Logger) *Game {
	if log == nil {
		log = slog.Default()
	}
	return &Game{
		Canvas:        c,
		Poller:        NewPoller(),
		ScreenshotDir: "screenshots",
		Logger:        log.With("component", "ebitenhost"),
		start:         time.Now(),
		focused:       true,
	}
}

// now is the monotonic time since the game started.
func (g *Game) now() time.Duration { return time.Since(g.start) }

func (g *Game) Update() error {
	now := g.now()

	focused := ebiten.IsFocused()
	if !focused && g.focused {
		g.send(g.Poller.CancelAll(now))
	}
	g.focused = focused
	if focused {
		g.send(g.Poller.Poll(now))
	}

	if err := g.Canvas.Update(now); err != nil {
		return err
	}
	g.wheel()
	g.shortcuts()
	return nil
}

func (g *Game) send(ins []inkwell.PointerInput) {
	for _, in := range ins {
		if err := g.Canvas.Send(in); err != nil {
			g.Logger.Warn("dropping pointer sample", "phase", in.Phase.String(), "error", err)
		}
	}
}

// wheel turns mouse wheel notches into a one-step pinch so the Zoom tool
// handles them like touch input.
func (g *Game) wheel() {
	_, dy := ebiten.Wheel()
	if dy == 0 {
		return
	}
	mx, my := ebiten.CursorPosition()
	focus := inkwell.Vec2{X: float64(mx), Y: float64(my)}
	factor := math.Pow(wheelZoomStep, dy)
	g.Canvas.OnEvent(inkwell.Scale{Status: inkwell.GestureStart, Factor: 1, Focus: focus})
	g.Canvas.OnEvent(inkwell.Scale{Status: inkwell.GestureUpdate, Factor: factor, Focus: focus})
	g.Canvas.OnEvent(inkwell.Scale{Status: inkwell.GestureEnd, Factor: factor, Focus: focus})
}

func (g *Game) shortcuts() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	switch {
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyZ):
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			g.Canvas.Redo()
		} else {
			g.Canvas.Undo()
		}
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyY):
		g.Canvas.Redo()
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.execute("Save")
	case inpututil.IsKeyJustPressed(ebiten.KeyDelete), inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		g.execute("Delete")
	case inpututil.IsKeyJustPressed(ebiten.KeyF12):
		g.Screenshot("manual")
	}
}

func (g *Game) execute(name string) {
	if err := g.Canvas.ExecuteCommand(name); err != nil {
		g.Logger.Debug("command not run", "command", name, "error", err)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.offscreen == nil {
		return
	}
	if _, err := g.Canvas.Frame(context.Background(), g.surface); err != nil {
		g.Logger.Error("frame failed", "error", err)
	}
	screen.DrawImage(g.offscreen, nil)
	if g.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	g.flushScreenshots()
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height || g.offscreen == nil {
		g.width, g.height = outsideWidth, outsideHeight
		if g.offscreen != nil {
			g.offscreen.Deallocate()
		}
		g.offscreen = ebiten.NewImage(outsideWidth, outsideHeight)
		g.surface = NewSurface(g.offscreen)
		g.Canvas.SetViewport(outsideWidth, outsideHeight)
		g.Canvas.RenderLoop().Force()
	}
	return outsideWidth, outsideHeight
}

// Screenshot queues a labeled capture of the canvas, written as a PNG at
// the end of the next Draw.
func (g *Game) Screenshot(label string) {
	g.shots = append(g.shots, label)
}

func (g *Game) flushScreenshots() {
	if len(g.shots) == 0 || g.offscreen == nil {
		return
	}
	defer func() { g.shots = g.shots[:0] }()
	if err := os.MkdirAll(g.ScreenshotDir, 0o755); err != nil {
		g.Logger.Error("screenshot: mkdir", "dir", g.ScreenshotDir, "error", err)
		return
	}

	b := g.offscreen.Bounds()
	pixels := make([]byte, 4*b.Dx()*b.Dy())
	g.offscreen.ReadPixels(pixels)
	img := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	// Premultiplied RGBA to straight alpha.
	for i := 0; i < len(pixels); i += 4 {
		r, gr, bl, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			gr = uint8(min(int(gr)*255/int(a), 255))
			bl = uint8(min(int(bl)*255/int(a), 255))
		}
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = r, gr, bl, a
	}

	stamp := time.Now().Format("20060102_150405")
	for _, label := range g.shots {
		path := filepath.Join(g.ScreenshotDir, stamp+"_"+sanitizeLabel(label)+".png")
		if err := writePNG(path, img); err != nil {
			g.Logger.Error("screenshot", "error", err)
		}
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel keeps letters, digits, '-' and '_'; everything else
// becomes '_'.
func sanitizeLabel(label string) string {
	if label == "" {
		return "screenshot"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, label)
}

// Run opens a window and runs g until it is closed, then closes the canvas.
func Run(title string, width, height int, g *Game) error {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	defer g.Canvas.Close()
	return ebiten.RunGame(g)
}
