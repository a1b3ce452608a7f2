package scanwash

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Policy carries the tuned detection and repair constants. The defaults were
// calibrated against one light-gray corner watermark style; treat them as
// configuration for that style, not a general watermark detector.
type Policy struct {
	// LumaLo and LumaHi bound the inclusive luminance band considered
	// watermark-colored. The band excludes near-white background and
	// near-black ink.
	LumaLo uint8 `yaml:"luma_lo"`
	LumaHi uint8 `yaml:"luma_hi"`

	// ConnectKernel and ConnectIterations control the dilation pass that
	// merges fragmented glyph strokes into contiguous blobs.
	ConnectKernel     int `yaml:"connect_kernel"`
	ConnectIterations int `yaml:"connect_iterations"`

	// ExpandKernel and ExpandIterations control the coarser safety-margin
	// pass applied to the full-page mask, covering glyph edges and
	// anti-aliasing halos.
	ExpandKernel     int `yaml:"expand_kernel"`
	ExpandIterations int `yaml:"expand_iterations"`

	// PresenceThreshold is the minimum sum of mask values (each set pixel
	// contributes 255) for a watermark to count as present. Deliberately
	// low and noise-tolerant; inpainting is visually conservative on small
	// masks.
	PresenceThreshold int `yaml:"presence_threshold"`

	// InpaintRadius is the neighborhood radius used to reconstruct masked
	// pixels.
	InpaintRadius int `yaml:"inpaint_radius"`
}

// DefaultPolicy returns the tuned constants for the corner watermark.
func DefaultPolicy() Policy {
	return Policy{
		LumaLo:            150,
		LumaHi:            240,
		ConnectKernel:     5,
		ConnectIterations: 2,
		ExpandKernel:      7,
		ExpandIterations:  1,
		PresenceThreshold: 100,
		InpaintRadius:     5,
	}
}

// LoadPolicy reads a YAML policy file. Fields absent from the file keep their
// default values.
func LoadPolicy(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("%w: read policy: %v", ErrInvalidInput, err)
	}

	p := DefaultPolicy()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("%w: parse policy: %v", ErrInvalidInput, err)
	}

	if err := p.validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

func (p Policy) validate() error {
	if p.LumaLo > p.LumaHi {
		return fmt.Errorf("%w: luma band [%d,%d] is inverted", ErrInvalidInput, p.LumaLo, p.LumaHi)
	}
	for _, k := range []int{p.ConnectKernel, p.ExpandKernel} {
		if k < 1 || k%2 == 0 {
			return fmt.Errorf("%w: kernel size %d must be odd and positive", ErrInvalidInput, k)
		}
	}
	if p.ConnectIterations < 0 || p.ExpandIterations < 0 {
		return fmt.Errorf("%w: negative dilation iterations", ErrInvalidInput)
	}
	if p.InpaintRadius < 1 {
		return fmt.Errorf("%w: inpaint radius %d", ErrInvalidInput, p.InpaintRadius)
	}
	return nil
}
