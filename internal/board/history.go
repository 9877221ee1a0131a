package board

import (
	"github.com/example/frameboard/internal/frame"
	"github.com/example/frameboard/internal/geom"
)

// Snapshot is one entry in the undo history: a deep copy of the frame
// collection plus the selection and camera at the time of capture.
type Snapshot struct {
	Frames    []frame.Frame
	Selection []string
	Camera    geom.Camera
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Frames: make([]frame.Frame, len(s.frames)),
		Camera: s.camera,
	}
	for i := range s.frames {
		snap.Frames[i] = s.frames[i].Clone()
	}
	for _, f := range s.frames {
		if s.selection[f.ID] {
			snap.Selection = append(snap.Selection, f.ID)
		}
	}
	return snap
}

func (s *Store) restoreLocked(snap Snapshot) {
	// Storage locations are owned by the live state, not the snapshot; a
	// snapshot's Ref may predate renames or recreations.
	refs := make(map[string]string, len(s.frames))
	for _, f := range s.frames {
		refs[f.ID] = f.Ref
	}
	s.frames = make([]frame.Frame, len(snap.Frames))
	for i := range snap.Frames {
		s.frames[i] = snap.Frames[i].Clone()
		s.frames[i].Ref = refs[s.frames[i].ID]
	}
	s.selection = make(map[string]bool, len(snap.Selection))
	for _, id := range snap.Selection {
		s.selection[id] = true
	}
	s.camera = snap.Camera
}

// saveHistoryLocked captures the current state as the newest snapshot.
// Any redo tail past the cursor is discarded first; when the history is
// full the oldest snapshot is evicted instead of advancing the cursor.
func (s *Store) saveHistoryLocked() {
	s.history = s.history[:s.histIdx+1]
	s.history = append(s.history, s.snapshotLocked())
	if len(s.history) > s.maxHistory {
		s.history = s.history[1:]
	} else {
		s.histIdx++
	}
}

// SaveHistory pushes a snapshot of the current state. The interaction
// layer calls it once per completed gesture.
func (s *Store) SaveHistory() {
	s.mu.Lock()
	s.saveHistoryLocked()
	s.mu.Unlock()
}

// CanUndo reports whether an older snapshot exists.
func (s *Store) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.histIdx > 0
}

// CanRedo reports whether a newer snapshot exists.
func (s *Store) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.histIdx < len(s.history)-1
}

// Undo restores the previous snapshot and reconciles the backend with the
// restored state. At the oldest snapshot it is a no-op.
func (s *Store) Undo() {
	s.step(-1)
}

// Redo restores the next snapshot after an undo.
func (s *Store) Redo() {
	s.step(1)
}

func (s *Store) step(dir int) {
	s.mu.Lock()
	next := s.histIdx + dir
	if next < 0 || next >= len(s.history) {
		s.mu.Unlock()
		return
	}
	before := s.frames
	s.histIdx = next
	s.restoreLocked(s.history[next])
	after := s.frames
	s.mu.Unlock()

	s.reconcilePersist(before, after)
	s.notify()
}

// reconcilePersist mirrors a history jump to the backend: frames that
// vanished are deleted, frames that appeared are created, surviving frames
// are rewritten in case their properties moved.
func (s *Store) reconcilePersist(before, after []frame.Frame) {
	now := make(map[string]bool, len(after))
	for _, f := range after {
		now[f.ID] = true
	}
	for _, f := range before {
		if !now[f.ID] && f.Ref != "" {
			s.requestDelete(f.Ref)
		}
	}
	was := make(map[string]bool, len(before))
	for _, f := range before {
		was[f.ID] = true
	}
	for _, f := range after {
		if !was[f.ID] {
			s.requestCreate(f.ID)
		} else {
			s.requestWrite(f.ID)
		}
	}
}
