package scanwash

import (
	"errors"
	"testing"
)

func TestSelectRegionInvariants(t *testing.T) {
	cases := []struct {
		name string
		w, h int
	}{
		{name: "tiny", w: 1, h: 1},
		{name: "small", w: 10, h: 10},
		{name: "letter_200dpi", w: 1700, h: 2200},
		{name: "reference", w: 1000, h: 1200},
		{name: "narrow", w: 3, h: 100},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			r, err := SelectRegion(tc.w, tc.h)
			if err != nil {
				t.Fatalf("SelectRegion(%d,%d): %v", tc.w, tc.h, err)
			}
			if r.Min.X < 0 || r.Min.X > r.Max.X || r.Max.X > tc.w {
				t.Fatalf("x bounds violated: %v for %dx%d", r, tc.w, tc.h)
			}
			if r.Min.Y < 0 || r.Min.Y > r.Max.Y || r.Max.Y > tc.h {
				t.Fatalf("y bounds violated: %v for %dx%d", r, tc.w, tc.h)
			}
		})
	}
}

func TestSelectRegionReferenceValues(t *testing.T) {
	r, err := SelectRegion(1000, 1200)
	if err != nil {
		t.Fatalf("SelectRegion: %v", err)
	}
	if r.Min.X != 800 || r.Min.Y != 1104 || r.Max.X != 1000 || r.Max.Y != 1200 {
		t.Fatalf("unexpected region %v", r)
	}
}

func TestSelectRegionRejectsMalformedDimensions(t *testing.T) {
	for _, dims := range [][2]int{{0, 10}, {10, 0}, {-1, 5}, {5, -1}} {
		if _, err := SelectRegion(dims[0], dims[1]); !errors.Is(err, ErrInvalidPage) {
			t.Fatalf("SelectRegion(%d,%d): want ErrInvalidPage, got %v", dims[0], dims[1], err)
		}
	}
}
