package scanwash

import (
	"container/heap"
	"image"
	"image/draw"
	"math"
)

// Pixel states during the fast marching sweep.
const (
	pixelKnown uint8 = iota
	pixelBand
	pixelInside
)

const farDistance = 1e6

// Inpaint reconstructs the masked pixels of img using Telea's fast marching
// method with the given neighborhood radius. The result is returned as a new
// RGBA image; unmasked pixels are copied through untouched. An empty mask
// yields a plain copy.
func Inpaint(img image.Image, mask *image.Gray, radius int) *image.RGBA {
	dst := cloneToRGBA(img)
	if mask == nil || radius < 1 {
		return dst
	}

	st := newMarcher(dst, mask)
	if st == nil {
		return dst
	}
	st.march(radius)
	return dst
}

// marcher holds the fast marching state in mask-local coordinates.
type marcher struct {
	img    *image.RGBA
	w, h   int
	flags  []uint8
	dist   []float64
	band   bandHeap
	origin image.Point
}

// newMarcher initializes flags, distances and the narrow band. It returns nil
// when the mask has no set pixels.
func newMarcher(img *image.RGBA, mask *image.Gray) *marcher {
	b := mask.Bounds().Intersect(img.Bounds())
	if b.Empty() {
		return nil
	}

	w, h := b.Dx(), b.Dy()
	st := &marcher{
		img:    img,
		w:      w,
		h:      h,
		flags:  make([]uint8, w*h),
		dist:   make([]float64, w*h),
		origin: b.Min,
	}

	inside := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mask.GrayAt(b.Min.X+x, b.Min.Y+y).Y != 0 {
				st.flags[y*w+x] = pixelInside
				st.dist[y*w+x] = farDistance
				inside++
			}
		}
	}
	if inside == 0 {
		return nil
	}

	// The initial narrow band is the ring of known pixels touching the mask.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if st.flags[y*w+x] != pixelInside {
				continue
			}
			for _, n := range neighbors4 {
				nx, ny := x+n.X, y+n.Y
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				if st.flags[ny*w+nx] == pixelKnown {
					st.flags[ny*w+nx] = pixelBand
					heap.Push(&st.band, bandPoint{x: nx, y: ny, t: 0})
				}
			}
		}
	}

	return st
}

var neighbors4 = [4]image.Point{{X: -1, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: -1}, {X: 0, Y: 1}}

// march propagates inward from the band in ascending distance order,
// reconstructing each inside pixel the moment it joins the band.
func (st *marcher) march(radius int) {
	for st.band.Len() > 0 {
		p := heap.Pop(&st.band).(bandPoint)
		st.flags[p.y*st.w+p.x] = pixelKnown

		for _, n := range neighbors4 {
			nx, ny := p.x+n.X, p.y+n.Y
			if nx < 0 || ny < 0 || nx >= st.w || ny >= st.h {
				continue
			}
			idx := ny*st.w + nx
			if st.flags[idx] == pixelKnown {
				continue
			}

			t := math.Min(
				math.Min(st.solve(nx-1, ny, nx, ny-1), st.solve(nx+1, ny, nx, ny-1)),
				math.Min(st.solve(nx-1, ny, nx, ny+1), st.solve(nx+1, ny, nx, ny+1)),
			)
			if t < st.dist[idx] {
				st.dist[idx] = t
			}

			if st.flags[idx] == pixelInside {
				st.flags[idx] = pixelBand
				st.reconstruct(nx, ny, radius)
				heap.Push(&st.band, bandPoint{x: nx, y: ny, t: st.dist[idx]})
			}
		}
	}
}

// solve computes the eikonal distance update for a pixel from the pair of
// neighbors at (x1,y1) and (x2,y2).
func (st *marcher) solve(x1, y1, x2, y2 int) float64 {
	known1 := st.known(x1, y1)
	known2 := st.known(x2, y2)

	switch {
	case known1 && known2:
		t1 := st.dist[y1*st.w+x1]
		t2 := st.dist[y2*st.w+x2]
		d := 2 - (t1-t2)*(t1-t2)
		if d > 0 {
			r := math.Sqrt(d)
			s := (t1 + t2 - r) / 2
			if s >= t1 && s >= t2 {
				return s
			}
			s += r
			if s >= t1 && s >= t2 {
				return s
			}
		}
		return 1 + math.Min(t1, t2)
	case known1:
		return 1 + st.dist[y1*st.w+x1]
	case known2:
		return 1 + st.dist[y2*st.w+x2]
	}
	return farDistance
}

func (st *marcher) known(x, y int) bool {
	return x >= 0 && y >= 0 && x < st.w && y < st.h && st.flags[y*st.w+x] == pixelKnown
}

// reconstruct fills pixel (x,y) with a weighted average of the known pixels
// inside the neighborhood radius. Weights follow Telea: alignment with the
// marching direction, geometric distance, and level-set proximity.
func (st *marcher) reconstruct(x, y, radius int) {
	gradX, gradY := st.distGradient(x, y)

	var wSum, rSum, gSum, bSum float64

	for ny := y - radius; ny <= y+radius; ny++ {
		for nx := x - radius; nx <= x+radius; nx++ {
			if !st.known(nx, ny) {
				continue
			}

			rx := float64(x - nx)
			ry := float64(y - ny)
			lenR := math.Sqrt(rx*rx + ry*ry)
			if lenR == 0 || lenR > float64(radius) {
				continue
			}

			dir := (rx*gradX + ry*gradY) / lenR
			if math.Abs(dir) < 1e-6 {
				dir = 1e-6
			}
			dst := 1 / (lenR * lenR)
			lev := 1 / (1 + math.Abs(st.dist[ny*st.w+nx]-st.dist[y*st.w+x]))
			weight := math.Abs(dir * dst * lev)

			off := st.img.PixOffset(st.origin.X+nx, st.origin.Y+ny)
			rSum += weight * float64(st.img.Pix[off])
			gSum += weight * float64(st.img.Pix[off+1])
			bSum += weight * float64(st.img.Pix[off+2])
			wSum += weight
		}
	}

	if wSum == 0 {
		return
	}

	off := st.img.PixOffset(st.origin.X+x, st.origin.Y+y)
	st.img.Pix[off] = clampByte(rSum / wSum)
	st.img.Pix[off+1] = clampByte(gSum / wSum)
	st.img.Pix[off+2] = clampByte(bSum / wSum)
	st.img.Pix[off+3] = 255
}

// distGradient estimates the distance-field gradient at (x,y) with central
// differences, falling back to one-sided differences at the field edge.
func (st *marcher) distGradient(x, y int) (float64, float64) {
	return st.axisGradient(x, y, 1, 0), st.axisGradient(x, y, 0, 1)
}

func (st *marcher) axisGradient(x, y, dx, dy int) float64 {
	prevOK := st.inField(x-dx, y-dy)
	nextOK := st.inField(x+dx, y+dy)

	switch {
	case prevOK && nextOK:
		return (st.fieldDist(x+dx, y+dy) - st.fieldDist(x-dx, y-dy)) / 2
	case nextOK:
		return st.fieldDist(x+dx, y+dy) - st.dist[y*st.w+x]
	case prevOK:
		return st.dist[y*st.w+x] - st.fieldDist(x-dx, y-dy)
	}
	return 0
}

func (st *marcher) inField(x, y int) bool {
	return x >= 0 && y >= 0 && x < st.w && y < st.h && st.dist[y*st.w+x] < farDistance
}

func (st *marcher) fieldDist(x, y int) float64 {
	return st.dist[y*st.w+x]
}

func clampByte(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}

// cloneToRGBA copies the image into a mutable RGBA buffer.
func cloneToRGBA(src image.Image) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}

// bandPoint is a narrow-band entry ordered by distance.
type bandPoint struct {
	x, y int
	t    float64
}

type bandHeap []bandPoint

func (h bandHeap) Len() int            { return len(h) }
func (h bandHeap) Less(i, j int) bool  { return h[i].t < h[j].t }
func (h bandHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *bandHeap) Push(x interface{}) { *h = append(*h, x.(bandPoint)) }
func (h *bandHeap) Pop() interface{} {
	old := *h
	n := len(old)
	p := old[n-1]
	*h = old[:n-1]
	return p
}
