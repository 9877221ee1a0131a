package board

import (
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/example/frameboard/internal/frame"
	"github.com/example/frameboard/internal/geom"
	"github.com/example/frameboard/internal/storage"
)

// persister runs backend operations one at a time in arrival order, which
// makes the last write for any frame the one that sticks on disk.
type persister struct {
	ops  chan func()
	done chan struct{}
}

const persistQueueSize = 128

func newPersister() *persister {
	p := &persister{
		ops:  make(chan func(), persistQueueSize),
		done: make(chan struct{}),
	}
	go func() {
		defer close(p.done)
		for op := range p.ops {
			op()
		}
	}()
	return p
}

func (p *persister) enqueue(op func()) {
	select {
	case p.ops <- op:
	default:
		// A full queue means the disk is badly behind; run inline rather
		// than drop the write.
		op()
	}
}

func (p *persister) stop() {
	close(p.ops)
	<-p.done
}

// Load mirrors the board root into memory: existing entities are read,
// entities without metadata get a synthesized record written back, and
// malformed metadata is logged and skipped. Overlapping boards are
// auto-arranged into a row. Returns after the watcher is running.
func (s *Store) Load() error {
	s.mu.Lock()
	root := s.root
	s.mu.Unlock()
	if root == "" {
		return nil
	}
	if err := storage.EnsureRoot(root); err != nil {
		return err
	}
	entities, err := storage.List(root)
	if err != nil {
		return err
	}

	var frames []frame.Frame
	var writeBack []frame.Frame
	for _, ent := range entities {
		rec, err := storage.ReadRecord(ent.Location)
		if err != nil {
			log.Printf("board: skipping %s: %v", ent.Name, err)
			continue
		}
		synthesized := rec == nil
		if synthesized {
			r := frame.DefaultRecord(uuid.New().String(), ent.Name)
			rec = &r
		}
		f, err := frame.FromRecord(*rec)
		if err != nil {
			log.Printf("board: skipping %s: %v", ent.Name, err)
			continue
		}
		f.Ref = ent.Location
		frames = append(frames, f)
		if synthesized {
			writeBack = append(writeBack, f)
		}
	}

	if arranged := autoArrange(frames); arranged {
		writeBack = frames
	}

	s.mu.Lock()
	s.frames = frames
	s.selection = make(map[string]bool)
	s.history = []Snapshot{s.snapshotLocked()}
	s.histIdx = 0
	s.persist = newPersister()
	s.mu.Unlock()

	for _, f := range writeBack {
		s.requestWrite(f.ID)
	}

	w, err := storage.Watch(root, s.HandleExternalChange)
	if err != nil {
		return fmt.Errorf("watch board: %w", err)
	}
	s.mu.Lock()
	s.watcher = w
	s.mu.Unlock()
	s.notify()
	return nil
}

// autoArrange rows out the frames when any pair overlaps, so a freshly
// synthesized board does not open as a stack of frames on top of each
// other. Reports whether positions changed.
func autoArrange(frames []frame.Frame) bool {
	rects := make([]geom.Rect, len(frames))
	for i, f := range frames {
		rects[i] = f.Rect()
	}
	if !geom.AnyOverlap(rects) {
		return false
	}
	for i, r := range geom.ArrangeRow(rects, arrangeGap) {
		frames[i].SetRect(r)
	}
	return true
}

// Close stops the watcher and drains the persistence queue.
func (s *Store) Close() {
	s.mu.Lock()
	w := s.watcher
	p := s.persist
	s.watcher = nil
	s.persist = nil
	s.mu.Unlock()
	if w != nil {
		w.Close()
	}
	if p != nil {
		p.stop()
	}
}

// requestCreate enqueues backend creation for the frame. The entity name
// derives from the frame name, falling back to an id suffix on collision.
// The frame's Ref is set once the location exists.
func (s *Store) requestCreate(id string) {
	s.enqueue(func() {
		s.mu.Lock()
		i := s.indexLocked(id)
		if i < 0 || s.frames[i].Ref != "" {
			s.mu.Unlock()
			return
		}
		f := s.frames[i]
		root := s.root
		s.mu.Unlock()

		name := entityName(f.Name)
		loc, err := storage.Create(root, name)
		if err != nil {
			loc, err = storage.Create(root, name+"-"+shortID(f.ID))
			if err != nil {
				log.Printf("board: create %s: %v", f.Name, err)
				return
			}
		}

		s.mu.Lock()
		i = s.indexLocked(id)
		if i < 0 {
			// Deleted while the create was queued; drop the orphan.
			s.mu.Unlock()
			if err := storage.Delete(loc); err != nil {
				log.Printf("board: delete %s: %v", loc, err)
			}
			return
		}
		s.frames[i].Ref = loc
		rec := s.frames[i].ToRecord()
		s.mu.Unlock()

		if err := storage.WriteRecord(loc, rec); err != nil {
			log.Printf("board: write %s: %v", f.Name, err)
		}
	})
}

// requestWrite enqueues a full-record write of the frame's current state.
// The state is read at execution time, so a queued burst of writes for the
// same frame converges on the latest state.
func (s *Store) requestWrite(id string) {
	s.enqueue(func() {
		s.mu.Lock()
		i := s.indexLocked(id)
		if i < 0 || s.frames[i].Ref == "" {
			s.mu.Unlock()
			return
		}
		loc := s.frames[i].Ref
		rec := s.frames[i].ToRecord()
		s.mu.Unlock()
		if err := storage.WriteRecord(loc, rec); err != nil {
			log.Printf("board: write %s: %v", rec.Name, err)
		}
	})
}

// requestDelete enqueues removal of a storage location.
func (s *Store) requestDelete(ref string) {
	s.enqueue(func() {
		if err := storage.Delete(ref); err != nil {
			log.Printf("board: delete %s: %v", ref, err)
		}
	})
}

func (s *Store) enqueue(op func()) {
	s.mu.Lock()
	p := s.persist
	s.mu.Unlock()
	if p == nil {
		return
	}
	p.enqueue(op)
}

// HandleExternalChange folds a watcher event into the board. External
// changes never push history; undo is reserved for the user's own edits.
func (s *Store) HandleExternalChange(ev storage.Event) {
	switch ev.Kind {
	case storage.Added:
		s.externalUpsert(ev)
	case storage.Changed:
		s.externalUpsert(ev)
	case storage.Removed:
		s.externalRemove(ev)
	}
}

func (s *Store) externalUpsert(ev storage.Event) {
	rec, err := storage.ReadRecord(ev.Location)
	if err != nil {
		log.Printf("board: external %s: %v", ev.Name, err)
		return
	}
	synthesized := rec == nil
	if synthesized {
		r := frame.DefaultRecord(uuid.New().String(), ev.Name)
		rec = &r
	}
	f, err := frame.FromRecord(*rec)
	if err != nil {
		log.Printf("board: external %s: %v", ev.Name, err)
		return
	}
	f.Ref = ev.Location

	s.mu.Lock()
	replaced := false
	for i := range s.frames {
		if s.frames[i].Ref == ev.Location {
			f.ID = s.frames[i].ID // keep identity stable across edits
			s.frames[i] = f
			replaced = true
			break
		}
	}
	if !replaced {
		s.frames = append(s.frames, f)
	}
	s.mu.Unlock()

	if synthesized {
		s.requestWrite(f.ID)
	}
	s.notify()
}

func (s *Store) externalRemove(ev storage.Event) {
	s.mu.Lock()
	kept := s.frames[:0]
	removed := false
	for _, f := range s.frames {
		if f.Ref == ev.Location {
			removed = true
			delete(s.selection, f.ID)
			continue
		}
		kept = append(kept, f)
	}
	s.frames = kept
	s.mu.Unlock()
	if removed {
		s.notify()
	}
}

// entityName turns a frame name into a filesystem-safe directory name.
func entityName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ' || r == '_':
			b.WriteByte('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "frame"
	}
	return out
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
