package frame

import (
	"image/color"
	"math"
	"testing"
)

func TestParseColorRGB(t *testing.T) {
	got, err := ParseColor("#3B82F6")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := color.RGBA{R: 0x3B, G: 0x82, B: 0xF6, A: 255}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestParseColorRGBA(t *testing.T) {
	got, err := ParseColor("#3B82F680")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.A != 0x80 {
		t.Fatalf("alpha not independent: %+v", got)
	}
}

func TestParseColorRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "3B82F6", "#12345", "#GGGGGG", "#123456789"} {
		if _, err := ParseColor(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestFormatColorRoundTrip(t *testing.T) {
	for _, c := range []color.RGBA{
		{10, 20, 30, 255},
		{10, 20, 30, 128},
	} {
		back, err := ParseColor(FormatColor(c))
		if err != nil {
			t.Fatalf("round trip %+v: %v", c, err)
		}
		if back != c {
			t.Fatalf("round trip %+v: got %+v", c, back)
		}
	}
}

func TestApplyMergesAndValidates(t *testing.T) {
	f := Frame{ID: "a", Name: "one", Width: 100, Height: 100, Opacity: 1}
	name := "renamed"
	x := 42.0
	bad := math.NaN()
	opacity := 3.5
	f.Apply(Update{Name: &name, X: &x, Y: &bad, Opacity: &opacity})
	if f.Name != "renamed" || f.X != 42 {
		t.Fatalf("merge failed: %+v", f)
	}
	if f.Y != 0 {
		t.Fatalf("NaN accepted: %+v", f)
	}
	if f.Opacity != 1 {
		t.Fatalf("opacity not clamped: %v", f.Opacity)
	}
}

func TestApplyNormalizesNegativeExtent(t *testing.T) {
	f := Frame{ID: "a", X: 100, Y: 100, Width: 50, Height: 50}
	w := -30.0
	f.Apply(Update{Width: &w})
	if f.Width != 30 || f.X != 70 {
		t.Fatalf("negative width not folded: %+v", f)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	f := Frame{
		ID:       "abc",
		Name:     "hero",
		X:        -10.5,
		Y:        20,
		Width:    300,
		Height:   200,
		Color:    color.RGBA{59, 130, 246, 128},
		Rotation: 15,
		Locked:   true,
		Visible:  true,
		Opacity:  0.75,
	}
	back, err := FromRecord(f.ToRecord())
	if err != nil {
		t.Fatalf("from record: %v", err)
	}
	back.Ref = f.Ref
	if back != f {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", back, f)
	}
}

func TestFromRecordRejectsMalformed(t *testing.T) {
	cases := []Record{
		{ID: "", Color: "#FFFFFF"},
		{ID: "x", Color: "nope"},
		{ID: "x", Color: "#FFFFFF", X: math.Inf(1)},
	}
	for _, rec := range cases {
		if _, err := FromRecord(rec); err == nil {
			t.Fatalf("expected error for %+v", rec)
		}
	}
}

func TestDefaultRecordSynthesis(t *testing.T) {
	rec := DefaultRecord("id-1", "frame-1")
	if rec.Width != DefaultSize || rec.Height != DefaultSize {
		t.Fatalf("unexpected size: %+v", rec)
	}
	if !rec.Visible || rec.Opacity != 1 {
		t.Fatalf("bad defaults: %+v", rec)
	}
	if _, err := ParseColor(rec.Color); err != nil {
		t.Fatalf("synthesized color invalid: %v", err)
	}
	if _, err := FromRecord(rec); err != nil {
		t.Fatalf("synthesized record must load: %v", err)
	}
}
