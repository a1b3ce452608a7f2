package scanwash

import (
	"image"
	"testing"
)

func TestInpaintEmptyMaskCopiesInput(t *testing.T) {
	img := uniformPage(60, 60, 130)
	fillRect(img, image.Rect(10, 10, 20, 20), 40)

	out := Inpaint(img, image.NewGray(img.Bounds()), 5)
	if !pixEqual(img, out) {
		t.Fatalf("empty mask must yield a pixel-for-pixel copy")
	}
}

func TestInpaintNilMaskCopiesInput(t *testing.T) {
	img := uniformPage(30, 30, 200)
	out := Inpaint(img, nil, 5)
	if !pixEqual(img, out) {
		t.Fatalf("nil mask must yield a pixel-for-pixel copy")
	}
}

// On a constant background the reconstruction must restore the background
// exactly: every contributing neighbor carries the same value.
func TestInpaintRestoresConstantBackground(t *testing.T) {
	img := uniformPage(50, 50, 255)
	hole := image.Rect(20, 20, 30, 30)
	fillRect(img, hole, 0)

	mask := image.NewGray(img.Bounds())
	for y := hole.Min.Y; y < hole.Max.Y; y++ {
		for x := hole.Min.X; x < hole.Max.X; x++ {
			mask.SetGray(x, y, maskOn)
		}
	}

	out := Inpaint(img, mask, 5)
	for y := hole.Min.Y; y < hole.Max.Y; y++ {
		for x := hole.Min.X; x < hole.Max.X; x++ {
			off := out.PixOffset(x, y)
			if out.Pix[off] != 255 || out.Pix[off+1] != 255 || out.Pix[off+2] != 255 {
				t.Fatalf("pixel (%d,%d) not restored: %v", x, y, out.Pix[off:off+3])
			}
		}
	}
}

// Reconstruction is strictly confined to masked pixels.
func TestInpaintLeavesUnmaskedPixelsUntouched(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			v := uint8((x*7 + y*13) % 256)
			off := img.PixOffset(x, y)
			img.Pix[off] = v
			img.Pix[off+1] = v / 2
			img.Pix[off+2] = 255 - v
			img.Pix[off+3] = 255
		}
	}

	hole := image.Rect(15, 15, 25, 25)
	mask := image.NewGray(img.Bounds())
	for y := hole.Min.Y; y < hole.Max.Y; y++ {
		for x := hole.Min.X; x < hole.Max.X; x++ {
			mask.SetGray(x, y, maskOn)
		}
	}

	out := Inpaint(img, mask, 5)
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			if (image.Point{X: x, Y: y}).In(hole) {
				continue
			}
			srcOff := img.PixOffset(x, y)
			dstOff := out.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				if img.Pix[srcOff+c] != out.Pix[dstOff+c] {
					t.Fatalf("unmasked pixel (%d,%d) channel %d altered", x, y, c)
				}
			}
		}
	}
}
