// Package editor runs the interactive board window: a shiny event loop
// feeding the pointer state machine, a cancellable paint goroutine and
// the keyboard shortcut table.
package editor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log"
	"sync"
	"time"
	"unicode"

	"github.com/fogleman/gg"
	"golang.design/x/clipboard"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/frameboard/internal/board"
	"github.com/example/frameboard/internal/frame"
	"github.com/example/frameboard/internal/geom"
	"github.com/example/frameboard/internal/notify"
	"github.com/example/frameboard/internal/render"
	"github.com/example/frameboard/internal/theme"
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

const (
	defaultWidth  = 1280
	defaultHeight = 800
)

// Editor holds the window configuration and wiring.
type Editor struct {
	Store    *board.Store
	Theme    *theme.Theme
	Output   string
	Notifier *notify.Notifier
	Width    int
	Height   int

	updateCh chan struct{}

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an Editor during creation.
type Option func(*Editor)

// WithStore sets the board store driven by the window.
func WithStore(s *board.Store) Option { return func(e *Editor) { e.Store = s } }

// WithTheme sets the canvas theme.
func WithTheme(t *theme.Theme) Option { return func(e *Editor) { e.Theme = t } }

// WithOutput sets the path used by the export shortcut.
func WithOutput(out string) Option { return func(e *Editor) { e.Output = out } }

// WithNotifier sets the desktop notifier for save and export events.
func WithNotifier(n *notify.Notifier) Option { return func(e *Editor) { e.Notifier = n } }

// WithWindowSize sets the initial window dimensions.
func WithWindowSize(w, h int) Option {
	return func(e *Editor) {
		if w > 0 && h > 0 {
			e.Width, e.Height = w, h
		}
	}
}

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(e *Editor) { e.onClose = fn } }

// New creates an Editor with the provided options.
func New(opts ...Option) *Editor {
	e := &Editor{
		Theme:    theme.Default(),
		Output:   "board.png",
		Width:    defaultWidth,
		Height:   defaultHeight,
		updateCh: make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(e)
	}
	if e.Store == nil {
		e.Store = board.New()
	}
	return e
}

func (e *Editor) notifyChanged() {
	select {
	case e.updateCh <- struct{}{}:
	default:
	}
}

func (e *Editor) notifyClose() {
	e.closeOnce.Do(func() {
		if e.onClose != nil {
			e.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (e *Editor) Run() { driver.Main(e.Main) }

// paintState is the immutable snapshot handed to the paint goroutine.
type paintState struct {
	scene        render.Scene
	message      string
	messageUntil time.Time
}

func (e *Editor) Main(s screen.Screen) {
	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard init: %v", err)
	}

	width := e.Width
	height := e.Height
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "Frameboard"})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer e.notifyClose()

	renderer, err := render.New()
	if err != nil {
		log.Fatalf("renderer: %v", err)
	}

	// Store mutations, including external watcher changes, schedule a
	// repaint through the update channel.
	e.Store.Subscribe(e.notifyChanged)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-e.updateCh:
				w.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	pointer := NewPointer(e.Store)
	pointer.SetViewport(geom.Size{W: float64(width), H: float64(height)})

	var message string
	var messageUntil time.Time
	flash := func(format string, args ...any) {
		message = fmt.Sprintf(format, args...)
		log.Print(message)
		messageUntil = time.Now().Add(2 * time.Second)
		w.Send(paint.Event{})
	}

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			e.drawFrame(ctx, s, w, renderer, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
		}
	}()

	actions := map[string]func(){}
	keyboardAction := map[KeyShortcut]string{}
	register := func(name string, keys []KeyShortcut, fn func()) {
		actions[name] = fn
		for _, sc := range keys {
			keyboardAction[sc] = name
		}
	}

	register("select-tool", []KeyShortcut{{Rune: 'v'}}, func() {
		e.Store.SetTool(board.ToolSelect)
	})
	register("frame-tool", []KeyShortcut{{Rune: 'f'}}, func() {
		e.Store.SetTool(board.ToolFrame)
	})
	register("pan-tool", []KeyShortcut{{Rune: 'h'}}, func() {
		e.Store.SetTool(board.ToolPan)
	})
	register("delete", []KeyShortcut{{Code: key.CodeDeleteBackspace}, {Code: key.CodeDeleteForward}}, func() {
		if ids := e.Store.SelectedIDs(); len(ids) > 0 {
			e.Store.DeleteFrames(ids)
		}
	})
	register("duplicate", []KeyShortcut{{Rune: 'd', Modifiers: key.ModControl}}, func() {
		if ids := e.Store.SelectedIDs(); len(ids) > 0 {
			e.Store.DuplicateFrames(ids)
		}
	})
	register("undo", []KeyShortcut{{Rune: 'z', Modifiers: key.ModControl}}, func() {
		e.Store.Undo()
	})
	register("redo", []KeyShortcut{
		{Rune: 'z', Modifiers: key.ModControl | key.ModShift},
		{Rune: 'y', Modifiers: key.ModControl},
	}, func() {
		e.Store.Redo()
	})
	register("select-all", []KeyShortcut{{Rune: 'a', Modifiers: key.ModControl}}, func() {
		e.Store.SelectAll()
	})
	register("clear-selection", []KeyShortcut{{Code: key.CodeEscape}}, func() {
		e.Store.ClearSelection()
	})
	register("toggle-grid", []KeyShortcut{{Rune: 'g'}}, func() {
		e.Store.ToggleGrid()
	})
	register("toggle-snap", []KeyShortcut{{Rune: 'x'}}, func() {
		e.Store.ToggleSnap()
	})
	register("zoom-in", []KeyShortcut{{Rune: '+'}, {Rune: '='}}, func() {
		e.Store.ZoomIn()
	})
	register("zoom-out", []KeyShortcut{{Rune: '-'}}, func() {
		e.Store.ZoomOut()
	})
	register("zoom-fit", []KeyShortcut{{Rune: '1'}}, func() {
		e.Store.ZoomToFit(geom.Size{W: float64(width), H: float64(height)})
	})
	register("zoom-reset", []KeyShortcut{{Rune: '0'}}, func() {
		e.Store.ResetCamera()
	})
	register("copy", []KeyShortcut{{Rune: 'c', Modifiers: key.ModControl}}, func() {
		ids := e.Store.SelectedIDs()
		if len(ids) == 0 {
			return
		}
		selected := make(map[string]bool, len(ids))
		for _, id := range ids {
			selected[id] = true
		}
		var frames []frame.Frame
		for _, f := range e.Store.Frames() {
			if selected[f.ID] {
				frames = append(frames, f)
			}
		}
		opts := render.DefaultExportOptions()
		opts.Theme = e.Theme
		img, err := renderer.Export(frames, opts)
		if err != nil {
			log.Printf("copy: %v", err)
			return
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			log.Printf("copy: %v", err)
			return
		}
		clipboard.Write(clipboard.FmtImage, buf.Bytes())
		e.Notifier.Copy(fmt.Sprintf("%d frame(s)", len(frames)), img)
		flash("copied %d frame(s) to clipboard", len(frames))
	})
	register("export", []KeyShortcut{{Rune: 'e', Modifiers: key.ModControl}}, func() {
		opts := render.DefaultExportOptions()
		opts.Theme = e.Theme
		if err := renderer.ExportFile(e.Output, e.Store.Frames(), opts); err != nil {
			log.Printf("export: %v", err)
			return
		}
		e.Notifier.Export(e.Output)
		flash("exported %s", e.Output)
	})

	handleAction := func(name string) {
		if fn, ok := actions[name]; ok {
			fn()
		}
		w.Send(paint.Event{})
	}

	w.Send(paint.Event{})

	for {
		ev := w.NextEvent()
		switch ev := ev.(type) {
		case lifecycle.Event:
			if ev.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			width = ev.WidthPx
			height = ev.HeightPx
			pointer.SetViewport(geom.Size{W: float64(width), H: float64(height)})
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil {
				if dropCount < frameDropThreshold {
					paintCancel()
					dropCount++
				}
			}
			paintMu.Unlock()
			settings := e.Store.Settings()
			sel := make(map[string]bool)
			for _, id := range e.Store.SelectedIDs() {
				sel[id] = true
			}
			st := paintState{
				scene: render.Scene{
					Frames:      e.Store.Frames(),
					Selected:    sel,
					Camera:      e.Store.Camera(),
					Size:        geom.Size{W: float64(width), H: float64(height)},
					Theme:       e.Theme,
					GridSize:    settings.GridSize,
					GridVisible: settings.GridVisible,
					Marquee:     pointer.Marquee(),
					Preview:     pointer.Preview(),
				},
				message:      message,
				messageUntil: messageUntil,
			}
			select {
			case paintCh <- st:
			default:
				<-paintCh
				paintCh <- st
			}
		case mouse.Event:
			vp := geom.Point{X: float64(ev.X), Y: float64(ev.Y)}
			switch ev.Button {
			case mouse.ButtonWheelUp, mouse.ButtonWheelDown:
				if ev.Direction == mouse.DirRelease {
					continue
				}
				cam := e.Store.Camera()
				factor := board.ZoomStep
				if ev.Button == mouse.ButtonWheelDown {
					factor = 1 / board.ZoomStep
				}
				zoom := e.Store.ClampZoom(cam.Zoom * factor)
				sz := geom.Size{W: float64(width), H: float64(height)}
				e.Store.SetCamera(geom.ZoomAt(cam, vp, sz, zoom))
				continue
			case mouse.ButtonLeft:
				additive := ev.Modifiers&key.ModShift != 0
				switch ev.Direction {
				case mouse.DirPress:
					pointer.Press(vp, additive)
					w.Send(paint.Event{})
				case mouse.DirRelease:
					pointer.Release(vp)
					w.Send(paint.Event{})
				}
			}
			if ev.Direction == mouse.DirNone && pointer.Mode() != ModeIdle {
				pointer.Move(vp)
				w.Send(paint.Event{})
			}
		case key.Event:
			if ev.Code == key.CodeSpacebar {
				pointer.SetSpaceHeld(ev.Direction == key.DirPress)
				continue
			}
			if ev.Direction != key.DirPress {
				continue
			}
			// Printable keys match on rune, the rest on key code.
			ks := KeyShortcut{Rune: unicode.ToLower(ev.Rune), Code: ev.Code, Modifiers: ev.Modifiers}
			if ev.Rune > 0 {
				ks.Code = 0
			} else {
				ks.Rune = 0
			}
			if action, ok := keyboardAction[ks]; ok {
				handleAction(action)
				continue
			}
			switch ev.Rune {
			case 'q', 'Q':
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		}
	}
}

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// drawFrame renders one paint snapshot into a fresh screen buffer. The
// context lets a newer frame cancel a stale in-flight draw.
func (e *Editor) drawFrame(ctx context.Context, s screen.Screen, w screen.Window, r *render.Renderer, st paintState) {
	width := int(st.scene.Size.W)
	height := int(st.scene.Size.H)
	if width < 1 || height < 1 {
		return
	}
	b, err := s.NewBuffer(image.Point{width, height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	img := r.Render(st.scene)
	if ctx.Err() != nil {
		return
	}
	draw.Draw(b.RGBA(), b.Bounds(), img, image.Point{}, draw.Src)

	if st.message != "" && time.Now().Before(st.messageUntil) {
		drawMessage(b.RGBA(), st.message)
	}
	if ctx.Err() != nil {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// drawMessage paints the transient status snackbar along the bottom edge.
func drawMessage(img *image.RGBA, message string) {
	dc := gg.NewContextForRGBA(img)
	w := float64(img.Bounds().Dx())
	h := float64(img.Bounds().Dy())
	tw, th := dc.MeasureString(message)
	pad := 10.0
	bw := tw + 2*pad
	bh := th + 2*pad
	x := (w - bw) / 2
	y := h - bh - 24
	dc.SetRGBA(0, 0, 0, 0.75)
	dc.DrawRoundedRectangle(x, y, bw, bh, 6)
	dc.Fill()
	dc.SetRGB(1, 1, 1)
	dc.DrawString(message, x+pad, y+pad+th-2)
}
