// Package board holds the authoritative in-memory state of a frameboard:
// the frame collection, the selection, the camera, tool settings and the
// undo history. Mutations are synchronous in memory; every externally
// visible mutation is mirrored to the directory backend on a single
// persistence goroutine so the UI thread never blocks on I/O.
package board

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/example/frameboard/internal/frame"
	"github.com/example/frameboard/internal/geom"
	"github.com/example/frameboard/internal/storage"
)

// Tool selects the pointer behaviour on the canvas.
type Tool int

const (
	ToolSelect Tool = iota
	ToolFrame
	ToolPan
)

func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "select"
	case ToolFrame:
		return "frame"
	case ToolPan:
		return "pan"
	}
	return "unknown"
}

// Settings are the board-level toggles the interaction layer consults.
type Settings struct {
	Tool        Tool
	GridSize    float64
	GridVisible bool
	SnapEnabled bool
}

const (
	// ZoomStep is the multiplicative zoom increment.
	ZoomStep = 1.2
	// DuplicateOffset shifts duplicated frames in both world axes.
	DuplicateOffset = 20.0
	// arrangeGap separates frames laid out by the load-time auto layout.
	arrangeGap = 40.0
)

// Store owns all persisted board state.
type Store struct {
	mu        sync.Mutex
	root      string
	frames    []frame.Frame // collection order == draw order
	selection map[string]bool
	camera    geom.Camera
	settings  Settings

	history    []Snapshot
	histIdx    int
	maxHistory int

	zoomMin, zoomMax float64

	subs []func()

	persist *persister
	watcher *storage.Watcher
}

// Option configures a Store during creation.
type Option func(*Store)

// WithRoot sets the board directory mirrored by the store.
func WithRoot(root string) Option { return func(s *Store) { s.root = root } }

// WithMaxHistory bounds the undo history length.
func WithMaxHistory(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxHistory = n
		}
	}
}

// WithZoomBounds sets the camera zoom clamp range.
func WithZoomBounds(min, max float64) Option {
	return func(s *Store) {
		if min > 0 && max >= min {
			s.zoomMin, s.zoomMax = min, max
		}
	}
}

// WithSettings sets the initial tool and grid settings.
func WithSettings(st Settings) Option { return func(s *Store) { s.settings = st } }

// New creates a Store with the provided options. Persistence stays inert
// until Load is called with a board root configured.
func New(opts ...Option) *Store {
	s := &Store{
		selection:  make(map[string]bool),
		camera:     geom.Camera{Zoom: 1},
		settings:   Settings{Tool: ToolSelect, GridSize: 20, GridVisible: true, SnapEnabled: true},
		maxHistory: 50,
		zoomMin:    0.1,
		zoomMax:    10,
	}
	for _, o := range opts {
		o(s)
	}
	s.history = []Snapshot{s.snapshotLocked()}
	s.histIdx = 0
	return s
}

// Subscribe registers fn to run after every mutation, outside the store
// lock. Used by the editor to schedule repaints.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.Lock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// Root returns the board directory, empty for an in-memory board.
func (s *Store) Root() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root
}

// Frames returns a copy of the collection in draw order.
func (s *Store) Frames() []frame.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]frame.Frame, len(s.frames))
	copy(out, s.frames)
	return out
}

// FrameByID returns a copy of the frame and whether it exists.
func (s *Store) FrameByID(id string) (frame.Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.frames[i], true
	}
	return frame.Frame{}, false
}

// Camera returns the current camera.
func (s *Store) Camera() geom.Camera {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.camera
}

// Settings returns the current tool and grid settings.
func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SetTool switches the active tool.
func (s *Store) SetTool(t Tool) {
	s.mu.Lock()
	s.settings.Tool = t
	s.mu.Unlock()
	s.notify()
}

// ToggleGrid flips grid visibility.
func (s *Store) ToggleGrid() {
	s.mu.Lock()
	s.settings.GridVisible = !s.settings.GridVisible
	s.mu.Unlock()
	s.notify()
}

// ToggleSnap flips grid snapping.
func (s *Store) ToggleSnap() {
	s.mu.Lock()
	s.settings.SnapEnabled = !s.settings.SnapEnabled
	s.mu.Unlock()
	s.notify()
}

func (s *Store) indexLocked(id string) int {
	for i := range s.frames {
		if s.frames[i].ID == id {
			return i
		}
	}
	return -1
}

// NewFrame builds an unsaved frame covering r with rotating palette colors
// and a sequential name. The caller passes it to AddFrame.
func (s *Store) NewFrame(r geom.Rect) frame.Frame {
	s.mu.Lock()
	n := len(s.frames) + 1
	s.mu.Unlock()
	pal := frame.Palette()
	f := frame.Frame{
		Name:    fmt.Sprintf("Frame %d", n),
		Color:   pal[(n-1)%len(pal)].Color,
		Visible: true,
		Opacity: 1,
	}
	f.SetRect(r)
	return f
}

// AddFrame assigns a fresh id, normalizes the rectangle, appends the frame,
// pushes a history snapshot and requests backend creation. The in-memory
// frame exists regardless of backend success. Returns the new id.
func (s *Store) AddFrame(f frame.Frame) string {
	f.ID = uuid.New().String()
	f.Ref = ""
	f.SetRect(f.Rect())

	s.mu.Lock()
	s.frames = append(s.frames, f)
	s.saveHistoryLocked()
	s.mu.Unlock()

	s.requestCreate(f.ID)
	s.notify()
	return f.ID
}

// UpdateFrame merges a partial patch into the frame and persists the full
// new state. A missing id is a silent no-op: a concurrent external removal
// may legitimately race a property edit. Locked frames accept property
// edits; the lock only blocks pointer-driven move/resize in the editor.
func (s *Store) UpdateFrame(id string, u frame.Update) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.frames[i].Apply(u)
	s.mu.Unlock()

	s.requestWrite(id)
	s.notify()
}

// SetFrameRects writes normalized geometry for several frames at once
// without touching history. The interaction layer uses it for live drag
// and resize feedback; the snapshot lands at pointer-up.
func (s *Store) SetFrameRects(rects map[string]geom.Rect) {
	if len(rects) == 0 {
		return
	}
	s.mu.Lock()
	var dirty []string
	for id, r := range rects {
		i := s.indexLocked(id)
		if i < 0 || s.frames[i].Locked {
			continue
		}
		s.frames[i].SetRect(r)
		dirty = append(dirty, id)
	}
	s.mu.Unlock()

	for _, id := range dirty {
		s.requestWrite(id)
	}
	if len(dirty) > 0 {
		s.notify()
	}
}

// DeleteFrame removes a single frame.
func (s *Store) DeleteFrame(id string) { s.DeleteFrames([]string{id}) }

// DeleteFrames removes matching frames, prunes them from the selection,
// pushes one history snapshot and requests backend deletion of each
// associated location. Backend failures are logged, never surfaced.
func (s *Store) DeleteFrames(ids []string) {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	s.mu.Lock()
	var refs []string
	kept := s.frames[:0]
	removed := false
	for _, f := range s.frames {
		if drop[f.ID] {
			removed = true
			delete(s.selection, f.ID)
			if f.Ref != "" {
				refs = append(refs, f.Ref)
			}
			continue
		}
		kept = append(kept, f)
	}
	s.frames = kept
	if removed {
		s.saveHistoryLocked()
	}
	s.mu.Unlock()

	if !removed {
		return
	}
	for _, ref := range refs {
		s.requestDelete(ref)
	}
	s.notify()
}

// DuplicateFrames copies the matching frames with fresh ids, offset
// positions and derived names, selects the new set and pushes one snapshot
// for the whole batch.
func (s *Store) DuplicateFrames(ids []string) []string {
	s.mu.Lock()
	var dups []frame.Frame
	for _, id := range ids {
		i := s.indexLocked(id)
		if i < 0 {
			continue
		}
		d := s.frames[i].Clone()
		d.ID = uuid.New().String()
		d.Ref = ""
		d.Name = d.Name + " copy"
		d.X += DuplicateOffset
		d.Y += DuplicateOffset
		dups = append(dups, d)
	}
	if len(dups) == 0 {
		s.mu.Unlock()
		return nil
	}
	s.frames = append(s.frames, dups...)
	s.selection = make(map[string]bool, len(dups))
	newIDs := make([]string, len(dups))
	for i, d := range dups {
		s.selection[d.ID] = true
		newIDs[i] = d.ID
	}
	s.saveHistoryLocked()
	s.mu.Unlock()

	for _, id := range newIDs {
		s.requestCreate(id)
	}
	s.notify()
	return newIDs
}

// SelectFrame replaces the selection with {id}, or toggles membership when
// additive is true.
func (s *Store) SelectFrame(id string, additive bool) {
	s.mu.Lock()
	if s.indexLocked(id) < 0 {
		s.mu.Unlock()
		return
	}
	if additive {
		if s.selection[id] {
			delete(s.selection, id)
		} else {
			s.selection[id] = true
		}
	} else {
		s.selection = map[string]bool{id: true}
	}
	s.mu.Unlock()
	s.notify()
}

// SelectFrames replaces the selection with the given ids, dropping any that
// do not reference live frames.
func (s *Store) SelectFrames(ids []string) {
	s.mu.Lock()
	s.selection = make(map[string]bool, len(ids))
	for _, id := range ids {
		if s.indexLocked(id) >= 0 {
			s.selection[id] = true
		}
	}
	s.mu.Unlock()
	s.notify()
}

// SelectAll selects every frame.
func (s *Store) SelectAll() {
	s.mu.Lock()
	s.selection = make(map[string]bool, len(s.frames))
	for _, f := range s.frames {
		s.selection[f.ID] = true
	}
	s.mu.Unlock()
	s.notify()
}

// ClearSelection empties the selection.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	s.selection = make(map[string]bool)
	s.mu.Unlock()
	s.notify()
}

// IsSelected reports whether id is in the selection.
func (s *Store) IsSelected(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection[id]
}

// SelectedIDs returns the selected ids in draw order.
func (s *Store) SelectedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.selection))
	for _, f := range s.frames {
		if s.selection[f.ID] {
			out = append(out, f.ID)
		}
	}
	return out
}

// SetCamera replaces the camera, clamping zoom to the configured bounds.
func (s *Store) SetCamera(cam geom.Camera) {
	s.mu.Lock()
	cam.Zoom = s.clampZoomLocked(cam.Zoom)
	s.camera = cam
	s.mu.Unlock()
	s.notify()
}

// Pan shifts the camera translation by a world-space delta.
func (s *Store) Pan(dx, dy float64) {
	s.mu.Lock()
	s.camera.X += dx
	s.camera.Y += dy
	s.mu.Unlock()
	s.notify()
}

// ZoomIn zooms by one step, keeping the translation.
func (s *Store) ZoomIn() { s.scaleZoom(ZoomStep) }

// ZoomOut zooms out by one step.
func (s *Store) ZoomOut() { s.scaleZoom(1 / ZoomStep) }

func (s *Store) scaleZoom(factor float64) {
	s.mu.Lock()
	s.camera.Zoom = s.clampZoomLocked(s.camera.Zoom * factor)
	s.mu.Unlock()
	s.notify()
}

// ClampZoom bounds a zoom value to the configured range.
func (s *Store) ClampZoom(z float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clampZoomLocked(z)
}

func (s *Store) clampZoomLocked(z float64) float64 {
	if z < s.zoomMin {
		return s.zoomMin
	}
	if z > s.zoomMax {
		return s.zoomMax
	}
	return z
}

// zoomFitMargin leaves breathing room around the fitted bounds.
const zoomFitMargin = 0.8

// ZoomToFit frames the whole board in the viewport: the smaller of the two
// axis ratios times a safety margin, never zooming in past 100%, centered
// on the bounds centroid. A board without frames resets the camera.
func (s *Store) ZoomToFit(size geom.Size) {
	s.mu.Lock()
	rects := make([]geom.Rect, len(s.frames))
	for i, f := range s.frames {
		rects[i] = f.Rect()
	}
	bounds, ok := geom.UnionBounds(rects)
	if !ok || bounds.W <= 0 || bounds.H <= 0 {
		s.camera = geom.Camera{Zoom: 1}
		s.mu.Unlock()
		s.notify()
		return
	}
	zoom := size.W / bounds.W
	if zy := size.H / bounds.H; zy < zoom {
		zoom = zy
	}
	if zoom > 1 {
		zoom = 1
	}
	zoom = s.clampZoomLocked(zoom * zoomFitMargin)
	s.camera = geom.Camera{
		X:    -(bounds.X + bounds.W/2),
		Y:    -(bounds.Y + bounds.H/2),
		Zoom: zoom,
	}
	s.mu.Unlock()
	s.notify()
}

// ResetCamera restores the identity camera.
func (s *Store) ResetCamera() {
	s.mu.Lock()
	s.camera = geom.Camera{Zoom: 1}
	s.mu.Unlock()
	s.notify()
}
