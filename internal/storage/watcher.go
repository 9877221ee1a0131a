package storage

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventKind classifies an external change to a board entity.
type EventKind int

const (
	Added EventKind = iota
	Removed
	Changed
)

func (k EventKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Changed:
		return "changed"
	}
	return "unknown"
}

// Event describes an external change to an immediate child of the board
// root.
type Event struct {
	Kind     EventKind
	Name     string
	Location string
}

// debounceDelay coalesces the burst of filesystem events a single logical
// change produces (mkdir + write, or temp file + rename).
const debounceDelay = 120 * time.Millisecond

// Watcher monitors the immediate children of a board root and delivers
// debounced Added/Removed/Changed events. Hidden entries are ignored.
type Watcher struct {
	root     string
	fsw      *fsnotify.Watcher
	onEvent  func(Event)
	mu       sync.Mutex
	known    map[string]bool // child name -> seen
	pending  map[string]*time.Timer
	closed   bool
	closeufn sync.Once
}

// Watch begins monitoring root. Known children are registered so the first
// events classify correctly; onEvent is called from the watcher goroutine.
func Watch(root string, onEvent func(Event)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		root:    root,
		fsw:     fsw,
		onEvent: onEvent,
		known:   make(map[string]bool),
		pending: make(map[string]*time.Timer),
	}
	if err := fsw.Add(root); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}
	children, err := List(root)
	if err != nil {
		fsw.Close()
		return nil, err
	}
	for _, c := range children {
		w.known[c.Name] = true
		// Child watches catch metadata writes; fsnotify is one level deep
		// per watch, which matches the one-level contract.
		if err := fsw.Add(c.Location); err != nil {
			log.Printf("storage: watch %s: %v", c.Location, err)
		}
	}
	go w.loop()
	return w, nil
}

// Close stops event delivery. Pending debounce timers are cancelled.
func (w *Watcher) Close() error {
	var err error
	w.closeufn.Do(func() {
		w.mu.Lock()
		w.closed = true
		for name, t := range w.pending {
			t.Stop()
			delete(w.pending, name)
		}
		w.mu.Unlock()
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if name := w.childName(ev.Name); name != "" {
				w.schedule(name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("storage: watcher error: %v", err)
		}
	}
}

// childName maps an event path to the immediate child of the root it
// belongs to, or "" when the event is about the root itself or a hidden
// entry.
func (w *Watcher) childName(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	name := rel
	if idx := strings.IndexRune(rel, filepath.Separator); idx >= 0 {
		name = rel[:idx]
	}
	if strings.HasPrefix(name, ".") {
		return ""
	}
	return name
}

// schedule (re)arms the debounce timer for a child; the classification is
// deferred to fire time so rapid-fire events collapse into one delivery.
func (w *Watcher) schedule(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if t, ok := w.pending[name]; ok {
		t.Reset(debounceDelay)
		return
	}
	w.pending[name] = time.AfterFunc(debounceDelay, func() { w.fire(name) })
}

// fire classifies the change by looking at the directory now, after the
// dust has settled, rather than trusting the raw event kinds.
func (w *Watcher) fire(name string) {
	loc := filepath.Join(w.root, name)
	info, statErr := os.Stat(loc)
	exists := statErr == nil && info.IsDir()

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	delete(w.pending, name)
	was := w.known[name]
	var kind EventKind
	switch {
	case exists && !was:
		kind = Added
		w.known[name] = true
	case !exists && was:
		kind = Removed
		delete(w.known, name)
	case exists && was:
		kind = Changed
	default:
		// Appeared and vanished within the debounce window.
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	if kind == Added {
		if err := w.fsw.Add(loc); err != nil {
			log.Printf("storage: watch %s: %v", loc, err)
		}
	}
	if w.onEvent != nil {
		w.onEvent(Event{Kind: kind, Name: name, Location: loc})
	}
}
