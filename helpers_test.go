package scanwash

import (
	"bytes"
	"image"
	"image/color"
)

// uniformPage builds an opaque RGBA page filled with a single gray value.
func uniformPage(w, h int, gray uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fillRect(img, img.Bounds(), gray)
	return img
}

// fillRect sets every pixel of rect to the given gray value.
func fillRect(img *image.RGBA, rect image.Rectangle, gray uint8) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.SetRGBA(x, y, color.RGBA{R: gray, G: gray, B: gray, A: 255})
		}
	}
}

func pixEqual(a, b *image.RGBA) bool {
	return a.Bounds().Eq(b.Bounds()) && bytes.Equal(a.Pix, b.Pix)
}
