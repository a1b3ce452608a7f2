package scanwash

import (
	"image"
	"image/color"
)

// maskOn is the color of a set mask pixel.
var maskOn = color.Gray{Y: 255}

// Refine embeds a region-local mask into a zero full-page mask at the
// region's offset and applies the safety-margin expansion pass. When no
// watermark was detected the full-page mask stays all zero.
//
// Dilation only ever adds pixels, so the result is a superset of the
// embedded region mask.
func Refine(bounds image.Rectangle, regionMask *image.Gray, present bool, p Policy) *image.Gray {
	full := image.NewGray(bounds)
	if !present {
		return full
	}

	rb := regionMask.Bounds().Intersect(bounds)
	for y := rb.Min.Y; y < rb.Max.Y; y++ {
		for x := rb.Min.X; x < rb.Max.X; x++ {
			if regionMask.GrayAt(x, y).Y != 0 {
				full.SetGray(x, y, maskOn)
			}
		}
	}

	return dilate(full, p.ExpandKernel, p.ExpandIterations)
}

// dilate grows the set pixels of a binary mask with a kernel x kernel square
// structuring element, repeated iterations times. The square kernel is
// separable, so each iteration runs a horizontal and a vertical max pass.
func dilate(m *image.Gray, kernel, iterations int) *image.Gray {
	radius := kernel / 2
	if radius < 1 || iterations < 1 {
		return m
	}

	for i := 0; i < iterations; i++ {
		m = dilatePass(m, radius, true)
		m = dilatePass(m, radius, false)
	}
	return m
}

func dilatePass(m *image.Gray, radius int, horizontal bool) *image.Gray {
	b := m.Bounds()
	out := image.NewGray(b)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if m.GrayAt(x, y).Y == 0 {
				continue
			}
			if horizontal {
				for dx := -radius; dx <= radius; dx++ {
					if p := (image.Point{X: x + dx, Y: y}); p.In(b) {
						out.SetGray(p.X, p.Y, maskOn)
					}
				}
			} else {
				for dy := -radius; dy <= radius; dy++ {
					if p := (image.Point{X: x, Y: y + dy}); p.In(b) {
						out.SetGray(p.X, p.Y, maskOn)
					}
				}
			}
		}
	}
	return out
}
