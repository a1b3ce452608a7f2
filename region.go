package scanwash

import (
	"fmt"
	"image"
)

// The watermark occupies the bottom-right 20% x 8% band of a page.
const (
	regionLeftFrac = 0.80
	regionTopFrac  = 0.92
)

// SelectRegion computes the watermark candidate rectangle for a page of the
// given pixel dimensions. It is a pure function of the dimensions and fails
// only when they are non-positive.
func SelectRegion(width, height int) (image.Rectangle, error) {
	if width <= 0 || height <= 0 {
		return image.Rectangle{}, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidPage, width, height)
	}

	x0 := int(float64(width) * regionLeftFrac)
	y0 := int(float64(height) * regionTopFrac)

	return image.Rect(x0, y0, width, height), nil
}
