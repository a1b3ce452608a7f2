package scanwash

import "image"

// Detect scans the candidate region of img for watermark-colored pixels.
// It returns a binary mask over the region (255 marks candidates, connected
// by the policy's dilation pass) and whether the accumulated mask mass
// crosses the presence threshold.
//
// A degenerate region yields an empty mask and present=false.
func Detect(img image.Image, region image.Rectangle, p Policy) (*image.Gray, bool) {
	region = region.Intersect(img.Bounds())
	mask := image.NewGray(region)
	if region.Empty() {
		return mask, false
	}

	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			l := luma(img.At(x, y).RGBA())
			if l >= p.LumaLo && l <= p.LumaHi {
				mask.SetGray(x, y, maskOn)
			}
		}
	}

	mask = dilate(mask, p.ConnectKernel, p.ConnectIterations)

	return mask, maskSum(mask) > p.PresenceThreshold
}

// luma converts 16-bit premultiplied channel values to 8-bit Rec.601
// luminance, matching the grayscale conversion the detection band was tuned
// against.
func luma(r, g, b, _ uint32) uint8 {
	r8 := r >> 8
	g8 := g >> 8
	b8 := b >> 8
	return uint8((299*r8 + 587*g8 + 114*b8 + 500) / 1000)
}

// maskSum totals the mask values; each set pixel contributes 255.
func maskSum(m *image.Gray) int {
	sum := 0
	for _, v := range m.Pix {
		if v != 0 {
			sum += int(maskOn.Y)
		}
	}
	return sum
}
