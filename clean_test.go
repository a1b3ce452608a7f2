package scanwash

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"
)

// watermarkedPage builds a white page with a light-gray block inside the
// watermark region.
func watermarkedPage(w, h int) *image.RGBA {
	img := uniformPage(w, h, 255)
	region, _ := SelectRegion(w, h)
	block := image.Rect(region.Min.X+10, region.Min.Y+10, region.Min.X+40, region.Min.Y+30)
	fillRect(img, block, 200)
	return img
}

func TestCleanPassThroughWithoutWatermark(t *testing.T) {
	img := uniformPage(1000, 1200, 100)

	cleaned, present, err := Clean(img, DefaultPolicy())
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if present {
		t.Fatalf("expected present=false on uniform page")
	}
	if !pixEqual(img, cleaned) {
		t.Fatalf("cleaned page must equal input when nothing was detected")
	}
}

func TestCleanRemovesWatermarkBlock(t *testing.T) {
	img := watermarkedPage(400, 500)

	cleaned, present, err := Clean(img, DefaultPolicy())
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if !present {
		t.Fatalf("expected watermark detection")
	}
	if pixEqual(img, cleaned) {
		t.Fatalf("cleaned page should differ from watermarked input")
	}
}

// Cleaning an already-cleaned page detects nothing and changes nothing.
func TestCleanIsIdempotent(t *testing.T) {
	first, present, err := Clean(watermarkedPage(400, 500), DefaultPolicy())
	if err != nil {
		t.Fatalf("first Clean: %v", err)
	}
	if !present {
		t.Fatalf("expected detection on first pass")
	}

	second, present, err := Clean(first, DefaultPolicy())
	if err != nil {
		t.Fatalf("second Clean: %v", err)
	}
	if present {
		t.Fatalf("expected no detection on second pass")
	}
	if !pixEqual(first, second) {
		t.Fatalf("second pass altered an already-cleaned page")
	}
}

func TestCleanRejectsNilImage(t *testing.T) {
	if _, _, err := Clean(nil, DefaultPolicy()); !errors.Is(err, ErrInvalidPage) {
		t.Fatalf("want ErrInvalidPage, got %v", err)
	}
}

func TestCleanFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "page_001.png")
	out := filepath.Join(dir, "cleaned", "page_001.png")

	f, err := os.Create(in)
	if err != nil {
		t.Fatalf("create input: %v", err)
	}
	if err := EncodePNG(f, watermarkedPage(400, 500)); err != nil {
		t.Fatalf("encode input: %v", err)
	}
	f.Close()

	present, err := CleanFile(in, out, DefaultPolicy())
	if err != nil {
		t.Fatalf("CleanFile: %v", err)
	}
	if !present {
		t.Fatalf("expected watermark detection")
	}

	g, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer g.Close()
	img, format, err := Decode(g)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if format != "png" {
		t.Fatalf("expected png output, got %q", format)
	}
	if img.Bounds().Dx() != 400 || img.Bounds().Dy() != 500 {
		t.Fatalf("output dimensions changed: %v", img.Bounds())
	}
}

func TestCleanFileUnreadableInput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "broken.png")
	if err := os.WriteFile(in, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	if _, err := CleanFile(in, filepath.Join(dir, "out.png"), DefaultPolicy()); !errors.Is(err, ErrUnreadablePage) {
		t.Fatalf("want ErrUnreadablePage, got %v", err)
	}

	if _, err := CleanFile(filepath.Join(dir, "missing.png"), filepath.Join(dir, "out.png"), DefaultPolicy()); !errors.Is(err, ErrUnreadablePage) {
		t.Fatalf("want ErrUnreadablePage for missing file, got %v", err)
	}
}
