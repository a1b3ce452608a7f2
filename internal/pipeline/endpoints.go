package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/scanwash/scanwash"
	"github.com/scanwash/scanwash/internal/assemble"
	"github.com/scanwash/scanwash/internal/raster"
	"github.com/scanwash/scanwash/internal/workspace"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
}

// PDFSource rasterizes a PDF document into the run workspace.
func PDFSource(path string, dpi int) Source {
	return &pdfSource{path: path, dpi: dpi}
}

type pdfSource struct {
	path string
	dpi  int
}

func (s *pdfSource) Validate() error {
	fi, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("%w: input PDF not found: %s", scanwash.ErrInvalidInput, s.path)
	}
	if fi.IsDir() {
		return fmt.Errorf("%w: %s is a directory, not a PDF", scanwash.ErrInvalidInput, s.path)
	}
	return nil
}

func (s *pdfSource) Pages(ctx context.Context, ws *workspace.Workspace) ([]string, error) {
	return raster.PDFToImages(ctx, s.path, ws.Pages, s.dpi)
}

// DirSource reads a pre-existing directory of page images in sorted order.
// pattern, when non-empty, is a filename glob (e.g. "*.png"); otherwise every
// file with a known image extension is taken. Leftover *_processed.png files
// from earlier runs are skipped.
func DirSource(dir, pattern string) Source {
	return &dirSource{dir: dir, pattern: pattern}
}

type dirSource struct {
	dir     string
	pattern string
}

func (s *dirSource) Validate() error {
	fi, err := os.Stat(s.dir)
	if err != nil || !fi.IsDir() {
		return fmt.Errorf("%w: directory not found: %s", scanwash.ErrInvalidInput, s.dir)
	}
	return nil
}

func (s *dirSource) Pages(_ context.Context, _ *workspace.Workspace) ([]string, error) {
	var files []string

	if s.pattern != "" {
		matches, err := filepath.Glob(filepath.Join(s.dir, s.pattern))
		if err != nil {
			return nil, fmt.Errorf("%w: bad pattern %q: %v", scanwash.ErrInvalidInput, s.pattern, err)
		}
		files = matches
	}

	if len(files) == 0 {
		entries, err := os.ReadDir(s.dir)
		if err != nil {
			return nil, fmt.Errorf("%w: read directory: %v", scanwash.ErrInvalidInput, err)
		}
		for _, e := range entries {
			if e.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
				continue
			}
			files = append(files, filepath.Join(s.dir, e.Name()))
		}
	}

	filtered := files[:0]
	for _, f := range files {
		if strings.HasSuffix(f, "_processed.png") {
			continue
		}
		filtered = append(filtered, f)
	}
	sort.Strings(filtered)

	if len(filtered) == 0 {
		return nil, fmt.Errorf("%w: no images found in %s", scanwash.ErrInvalidInput, s.dir)
	}
	return filtered, nil
}

// PDFSink assembles the cleaned pages into a single PDF at path.
func PDFSink(path string) Sink {
	return &pdfSink{path: path}
}

type pdfSink struct {
	path string
}

func (s *pdfSink) Write(pages []string) ([]string, int64, error) {
	size, err := assemble.ImagesToPDF(pages, s.path)
	if err != nil {
		return nil, 0, err
	}
	return []string{s.path}, size, nil
}

// DirSink copies the cleaned pages into dir, keeping their basenames so the
// output ordinal sequence matches the input order.
func DirSink(dir string) Sink {
	return &dirSink{dir: dir}
}

type dirSink struct {
	dir string
}

func (s *dirSink) Write(pages []string) ([]string, int64, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, 0, fmt.Errorf("%w: create output dir: %v", scanwash.ErrInvalidInput, err)
	}

	outputs := make([]string, 0, len(pages))
	for _, p := range pages {
		dst := filepath.Join(s.dir, filepath.Base(p))
		if err := copyFile(p, dst); err != nil {
			return nil, 0, fmt.Errorf("write %s: %w", dst, err)
		}
		outputs = append(outputs, dst)
	}
	return outputs, 0, nil
}

// copyFile copies a file from src to dst. The cleaned pages live in the
// workspace, which may sit on another filesystem than the output directory,
// so a rename is not enough.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
