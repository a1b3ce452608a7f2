package scanwash

import (
	"image"
	"testing"
)

// A page with no pixels in the luminance band must never trigger detection,
// no matter where the gray sits on the page.
func TestDetectUniformMidGrayPage(t *testing.T) {
	img := uniformPage(1000, 1200, 100)
	region, err := SelectRegion(1000, 1200)
	if err != nil {
		t.Fatalf("SelectRegion: %v", err)
	}

	mask, present := Detect(img, region, DefaultPolicy())
	if present {
		t.Fatalf("expected no detection on uniform gray page")
	}
	if got := maskSum(mask); got != 0 {
		t.Fatalf("expected empty mask, sum=%d", got)
	}
}

// A light-gray block inside the region must be detected and fully covered by
// the region mask.
func TestDetectLightGrayBlock(t *testing.T) {
	img := uniformPage(1000, 1200, 255)
	block := image.Rect(850, 1104, 1000, 1200)
	fillRect(img, block, 200)

	region, err := SelectRegion(1000, 1200)
	if err != nil {
		t.Fatalf("SelectRegion: %v", err)
	}

	mask, present := Detect(img, region, DefaultPolicy())
	if !present {
		t.Fatalf("expected detection of in-band block")
	}

	for y := block.Min.Y; y < block.Max.Y; y++ {
		for x := block.Min.X; x < block.Max.X; x++ {
			if mask.GrayAt(x, y).Y == 0 {
				t.Fatalf("mask misses block pixel (%d,%d)", x, y)
			}
		}
	}
}

// Band boundaries are inclusive on both ends.
func TestDetectBandBoundaries(t *testing.T) {
	cases := []struct {
		name string
		gray uint8
		want bool
	}{
		{name: "below_band", gray: 149, want: false},
		{name: "band_low_edge", gray: 150, want: true},
		{name: "band_high_edge", gray: 240, want: true},
		{name: "above_band", gray: 241, want: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			img := uniformPage(500, 600, 255)
			region, err := SelectRegion(500, 600)
			if err != nil {
				t.Fatalf("SelectRegion: %v", err)
			}
			fillRect(img, region, tc.gray)

			if _, present := Detect(img, region, DefaultPolicy()); present != tc.want {
				t.Fatalf("gray %d: present=%v, want %v", tc.gray, present, tc.want)
			}
		})
	}
}

// A degenerate region yields no detection and an empty mask.
func TestDetectDegenerateRegion(t *testing.T) {
	img := uniformPage(100, 100, 200)
	mask, present := Detect(img, image.Rect(50, 50, 50, 100), DefaultPolicy())
	if present {
		t.Fatalf("expected no detection for zero-area region")
	}
	if maskSum(mask) != 0 {
		t.Fatalf("expected empty mask for zero-area region")
	}
}
