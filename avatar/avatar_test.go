package avatar

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestIsDefaultExactMatch(t *testing.T) {
	ref := solidImage(4, 4, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	set, err := NewFromBytes(encodePNG(t, ref))
	if err != nil {
		t.Fatal(err)
	}

	if !set.IsDefault(encodePNG(t, ref)) {
		t.Error("byte-identical image should be default")
	}
}

func TestIsDefaultSinglePixelDiff(t *testing.T) {
	ref := solidImage(4, 4, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	set, err := NewFromBytes(encodePNG(t, ref))
	if err != nil {
		t.Fatal(err)
	}

	altered := solidImage(4, 4, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	altered.SetNRGBA(2, 2, color.NRGBA{R: 201, G: 200, B: 200, A: 255})

	if set.IsDefault(encodePNG(t, altered)) {
		t.Error("image with one differing pixel should be custom")
	}
}

func TestIsDefaultDimensionMismatch(t *testing.T) {
	ref := solidImage(4, 4, color.NRGBA{A: 255})
	set, err := NewFromBytes(encodePNG(t, ref))
	if err != nil {
		t.Fatal(err)
	}

	other := solidImage(8, 8, color.NRGBA{A: 255})
	if set.IsDefault(encodePNG(t, other)) {
		t.Error("dimension mismatch should be custom")
	}
}

func TestIsDefaultFailsOpen(t *testing.T) {
	ref := solidImage(4, 4, color.NRGBA{A: 255})
	set, err := NewFromBytes(encodePNG(t, ref))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		candidate []byte
	}{
		{"corrupt bytes", []byte("not an image")},
		{"empty input", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if set.IsDefault(tt.candidate) {
				t.Error("undecodable candidate should be custom")
			}
		})
	}
}

func TestIsDefaultSecondReference(t *testing.T) {
	refA := solidImage(4, 4, color.NRGBA{R: 10, A: 255})
	refB := solidImage(4, 4, color.NRGBA{R: 20, A: 255})
	set, err := NewFromBytes(encodePNG(t, refA), encodePNG(t, refB))
	if err != nil {
		t.Fatal(err)
	}
	if set.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", set.Len())
	}

	if !set.IsDefault(encodePNG(t, refB)) {
		t.Error("match against second reference should be default")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "default.png")
	ref := solidImage(4, 4, color.NRGBA{A: 255})
	if err := os.WriteFile(path, encodePNG(t, ref), 0o600); err != nil {
		t.Fatal(err)
	}

	set, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if set.Len() != 1 {
		t.Errorf("Len() = %d, want 1", set.Len())
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Load with missing reference should fail")
	}
}

func TestLoadCorruptFileFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(path, []byte("garbage"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load with corrupt reference should fail")
	}
}
