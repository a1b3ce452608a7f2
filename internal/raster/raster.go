// Package raster wraps the external poppler rasterizer that converts PDF
// pages into raster images.
package raster

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/scanwash/scanwash"
)

const (
	// DefaultDPI matches the resolution the detection constants were tuned at.
	DefaultDPI = 200

	// Timeout bounds one rasterization run.
	Timeout = 5 * time.Minute

	tool = "pdftoppm"
)

// Probe verifies the rasterizer binary is available. Run it once at process
// start, before any workspace is created.
func Probe() error {
	if _, err := exec.LookPath(tool); err != nil {
		return fmt.Errorf("%w: %s not found in PATH (install poppler, e.g. brew install poppler)", scanwash.ErrMissingDependency, tool)
	}
	return nil
}

// PDFToImages rasterizes every page of pdfPath into dir at the given DPI and
// returns the ordered page paths, named page_NNN.png with 1-based 3-digit
// ordinals.
func PDFToImages(ctx context.Context, pdfPath, dir string, dpi int) ([]string, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	ctx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, tool, "-png", "-r", strconv.Itoa(dpi), pdfPath, filepath.Join(dir, "page"))
	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("%w: %s timed out after %v", scanwash.ErrRasterization, tool, Timeout)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v: %s", scanwash.ErrRasterization, tool, err, strings.TrimSpace(string(out)))
	}

	pages, err := normalizePages(dir)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: %s produced no pages for %s", scanwash.ErrRasterization, tool, pdfPath)
	}
	return pages, nil
}

// normalizePages renames the rasterizer output (page-1.png, page-02.png, ...)
// to the canonical page_NNN.png form and returns the paths in page order.
func normalizePages(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "page-*.png"))
	if err != nil {
		return nil, fmt.Errorf("%w: list pages: %v", scanwash.ErrRasterization, err)
	}

	type page struct {
		path string
		num  int
	}
	pages := make([]page, 0, len(matches))
	for _, m := range matches {
		base := filepath.Base(m)
		numStr := strings.TrimSuffix(strings.TrimPrefix(base, "page-"), ".png")
		n, err := strconv.Atoi(numStr)
		if err != nil {
			continue
		}
		pages = append(pages, page{path: m, num: n})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].num < pages[j].num })

	ordered := make([]string, 0, len(pages))
	for _, p := range pages {
		dst := filepath.Join(dir, fmt.Sprintf("page_%03d.png", p.num))
		if err := os.Rename(p.path, dst); err != nil {
			return nil, fmt.Errorf("%w: rename page %d: %v", scanwash.ErrRasterization, p.num, err)
		}
		ordered = append(ordered, dst)
	}
	return ordered, nil
}
