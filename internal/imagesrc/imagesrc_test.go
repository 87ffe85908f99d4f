package imagesrc

import (
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 6, 4))
	img.Set(1, 2, color.NRGBA{255, 0, 0, 255})
	return img
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.png")
	if err := Save(testImage(), path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if w, h := Size(img); w != 6 || h != 4 {
		t.Errorf("Size = %v x %v", w, h)
	}
	if r, _, _, _ := img.At(1, 2).RGBA(); r>>8 != 255 {
		t.Errorf("pixel not preserved: %v", img.At(1, 2))
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSaveUnsupported(t *testing.T) {
	err := Save(testImage(), filepath.Join(t.TempDir(), "img.xyz"))
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
}

func TestCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.png")
	if err := Save(testImage(), path); err != nil {
		t.Fatal(err)
	}
	c := NewCache()
	a, err := c.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if a != b || c.Len() != 1 {
		t.Errorf("second load should hit the cache")
	}
	c.Evict(path)
	if c.Len() != 0 {
		t.Errorf("Len after Evict = %d", c.Len())
	}
	if _, err := c.Load(path + ".gone"); err == nil || c.Len() != 0 {
		t.Errorf("failed loads must not be cached")
	}
}
