package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPicture_PNGPassesThrough(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")
	writeTestPNG(t, path, 4, 2)

	data, kind, err := loadPicture(path)
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := os.ReadFile(path)
	if kind != "PNG" || len(data) != len(raw) {
		t.Errorf("expected unchanged PNG, got %s with %d bytes", kind, len(data))
	}
}

func TestLoadPicture_WidePNGIsReencoded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wide.png")
	img := image.NewRGBA64(image.Rect(0, 0, 3, 3))
	img.Set(1, 1, color.RGBA64{R: 0xffff, A: 0xffff})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	data, kind, err := loadPicture(path)
	if err != nil {
		t.Fatal(err)
	}
	if kind != "PNG" {
		t.Fatalf("expected PNG, got %s", kind)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if wideColor(cfg.ColorModel) {
		t.Error("re-encoded picture should be 8-bit")
	}
}

func TestLoadPicture_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := loadPicture(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
	bad := filepath.Join(dir, "bad.jpg")
	if err := os.WriteFile(bad, []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := loadPicture(bad); err == nil {
		t.Error("expected error for undecodable file")
	}
}

func TestAspectRatio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")
	writeTestPNG(t, path, 6, 4)

	got, err := AspectRatio(path)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-1.5) > 1e-9 {
		t.Errorf("expected 1.5, got %v", got)
	}
}

func TestIsPicture(t *testing.T) {
	for _, p := range []string{"a.JPG", "b.jpeg", "c.png", "d.webp", "e.tiff"} {
		if !IsPicture(p) {
			t.Errorf("%s should be a picture", p)
		}
	}
	for _, p := range []string{"a.csv", "b.pdf", "noext"} {
		if IsPicture(p) {
			t.Errorf("%s should not be a picture", p)
		}
	}
}
