package scanwash

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// Clean removes the corner watermark from a single page. It composes region
// selection, detection, mask refinement and inpainting, and reports whether a
// watermark was found. The returned image is always a fresh buffer; when no
// watermark is present it is a pixel-for-pixel copy of the input.
//
// Clean is deterministic and stateless, so pages may be cleaned in any order
// without affecting individual results.
func Clean(img image.Image, p Policy) (*image.RGBA, bool, error) {
	if img == nil {
		return nil, false, fmt.Errorf("%w: nil image", ErrInvalidPage)
	}

	bounds := img.Bounds()
	region, err := SelectRegion(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, false, err
	}
	region = region.Add(bounds.Min)

	regionMask, present := Detect(img, region, p)
	if !present {
		return cloneToRGBA(img), false, nil
	}

	mask := Refine(bounds, regionMask, present, p)
	return Inpaint(img, mask, p.InpaintRadius), true, nil
}

// CleanFile decodes the page at inPath, cleans it, and writes the result to
// outPath, choosing the encoder from the output extension. Undecodable input
// is reported as ErrUnreadablePage so batch callers can skip the page.
func CleanFile(inPath, outPath string, p Policy) (bool, error) {
	f, err := os.Open(inPath)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrUnreadablePage, inPath, err)
	}
	defer f.Close()

	img, _, err := Decode(f)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrUnreadablePage, inPath, err)
	}

	cleaned, present, err := Clean(img, p)
	if err != nil {
		return false, err
	}

	if err := SaveImage(cleaned, outPath); err != nil {
		return present, err
	}
	return present, nil
}

// SaveImage writes img to path using the encoder matching the extension,
// creating parent directories as needed. Extensions without an encoder
// (webp, gif inputs) fall back to PNG.
func SaveImage(img image.Image, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	err := imaging.Save(img, path)
	if err == imaging.ErrUnsupportedFormat {
		f, createErr := os.Create(path)
		if createErr != nil {
			return createErr
		}
		defer f.Close()
		return EncodePNG(f, img)
	}
	return err
}
