package frame

import (
	"fmt"
	"math/rand"

	"github.com/example/frameboard/internal/geom"
)

// Record is the persisted metadata schema. The field set is fixed; the
// directory backend round-trips exactly these keys.
type Record struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Color    string  `json:"color"`
	Rotation float64 `json:"rotation"`
	Locked   bool    `json:"locked"`
	Visible  bool    `json:"visible"`
	Opacity  float64 `json:"opacity"`
}

// ToRecord converts the frame to its persisted form.
func (f *Frame) ToRecord() Record {
	return Record{
		ID:       f.ID,
		Name:     f.Name,
		X:        f.X,
		Y:        f.Y,
		Width:    f.Width,
		Height:   f.Height,
		Color:    FormatColor(f.Color),
		Rotation: f.Rotation,
		Locked:   f.Locked,
		Visible:  f.Visible,
		Opacity:  f.Opacity,
	}
}

// FromRecord builds a frame out of a persisted record, validating the fields
// that can be malformed on disk. A failure means the record is skipped by the
// loader, not surfaced to the user.
func FromRecord(rec Record) (Frame, error) {
	if rec.ID == "" {
		return Frame{}, fmt.Errorf("record missing id")
	}
	col, err := ParseColor(rec.Color)
	if err != nil {
		return Frame{}, fmt.Errorf("record %s: color %q: %w", rec.ID, rec.Color, err)
	}
	for _, v := range []float64{rec.X, rec.Y, rec.Width, rec.Height, rec.Rotation, rec.Opacity} {
		if !finite(v) {
			return Frame{}, fmt.Errorf("record %s: non-finite geometry", rec.ID)
		}
	}
	f := Frame{
		ID:       rec.ID,
		Name:     rec.Name,
		Color:    col,
		Rotation: rec.Rotation,
		Locked:   rec.Locked,
		Visible:  rec.Visible,
		Opacity:  clamp01(rec.Opacity),
	}
	f.SetRect(geom.Rect{X: rec.X, Y: rec.Y, W: rec.Width, H: rec.Height})
	return f, nil
}

// DefaultSize is the extent given to frames synthesized for entities that
// have no readable metadata yet.
const DefaultSize = 200.0

// DefaultRecord synthesizes metadata for a storage entity that has none: a
// scattered position, the default size and a palette color. The caller
// writes the result straight back to the backend.
func DefaultRecord(id, name string) Record {
	pc := palette[rand.Intn(len(palette))]
	return Record{
		ID:      id,
		Name:    name,
		X:       float64(rand.Intn(12)) * (DefaultSize / 2),
		Y:       float64(rand.Intn(8)) * (DefaultSize / 2),
		Width:   DefaultSize,
		Height:  DefaultSize,
		Color:   FormatColor(pc.Color),
		Visible: true,
		Opacity: 1,
	}
}
