// Package assemble wraps the pdfcpu image-to-PDF importer that merges the
// ordered cleaned pages into the final document.
package assemble

import (
	"fmt"
	"os"
	"path/filepath"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/scanwash/scanwash"
)

// ImagesToPDF merges the images into a single PDF at outPath, one page per
// image in slice order, and returns the size of the written file. On failure
// no partial output file is left behind.
func ImagesToPDF(paths []string, outPath string) (int64, error) {
	if len(paths) == 0 {
		return 0, fmt.Errorf("%w: no pages to assemble", scanwash.ErrAssembly)
	}

	if dir := filepath.Dir(outPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("%w: create output dir: %v", scanwash.ErrAssembly, err)
		}
	}

	// pdfcpu appends imported pages to an existing output file, so replace
	// any previous result before importing. After this the failure-path
	// cleanup can only ever remove a file this call created.
	if err := os.Remove(outPath); err != nil && !os.IsNotExist(err) {
		return 0, fmt.Errorf("%w: replace existing output: %v", scanwash.ErrAssembly, err)
	}

	conf := model.NewDefaultConfiguration()
	if err := pdfapi.ImportImagesFile(paths, outPath, pdfcpu.DefaultImportConfig(), conf); err != nil {
		os.Remove(outPath)
		return 0, fmt.Errorf("%w: %v", scanwash.ErrAssembly, err)
	}

	fi, err := os.Stat(outPath)
	if err != nil {
		return 0, fmt.Errorf("%w: stat output: %v", scanwash.ErrAssembly, err)
	}
	return fi.Size(), nil
}
