// Package pipeline drives the page cleaner across all pages of a document.
//
// A run is configured with a Source (PDF rasterizer or image directory) and a
// Sink (PDF assembler or directory writer). The run owns a scoped workspace
// that is released on every exit path, processes pages in ordinal order, and
// aggregates a Summary.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/scanwash/scanwash"
	"github.com/scanwash/scanwash/internal/workspace"
)

// Source yields the ordered raw page files for a run.
type Source interface {
	// Validate checks the source before any workspace is created.
	Validate() error

	// Pages produces the ordered page image paths, rasterizing into the
	// workspace when the source is a PDF.
	Pages(ctx context.Context, ws *workspace.Workspace) ([]string, error)
}

// Sink consumes the ordered cleaned page files and produces the final
// artifact.
type Sink interface {
	// Write persists the cleaned pages in order. It returns the output
	// locations and, when a single artifact is produced, its size in bytes.
	Write(pages []string) (outputs []string, sizeBytes int64, err error)
}

// Config holds one run's endpoints and options.
type Config struct {
	Source  Source
	Sink    Sink
	Policy  scanwash.Policy
	Workers int
	TempDir string
	Log     zerolog.Logger
}

// Summary aggregates the counts and outputs of a completed run.
// Removed + Unchanged + Failed == Total for every run that reaches the sink.
type Summary struct {
	Total     int
	Removed   int
	Unchanged int
	Failed    int
	Outputs   []string
	SizeBytes int64
}

type pageResult struct {
	path    string
	present bool
	err     error
}

// Run executes the pipeline: validate source, allocate workspace, obtain
// pages, clean each page in ordinal order, hand the cleaned sequence to the
// sink. The workspace is released on every exit path. Per-page unreadable
// failures are recorded and skipped; every other failure aborts the run.
func Run(ctx context.Context, cfg Config) (Summary, error) {
	var sum Summary

	if cfg.Source == nil || cfg.Sink == nil {
		return sum, fmt.Errorf("%w: pipeline needs a source and a sink", scanwash.ErrInvalidInput)
	}
	if err := cfg.Source.Validate(); err != nil {
		return sum, err
	}

	ws, err := workspace.New(cfg.TempDir)
	if err != nil {
		return sum, err
	}
	defer ws.Release()

	pages, err := cfg.Source.Pages(ctx, ws)
	if err != nil {
		return sum, err
	}
	sum.Total = len(pages)
	cfg.Log.Info().Int("pages", len(pages)).Msg("pages ready")

	results, err := processAll(ctx, cfg, ws, pages)
	if err != nil {
		return sum, err
	}

	cleaned := make([]string, 0, len(results))
	for i, r := range results {
		base := filepath.Base(pages[i])
		switch {
		case r.err != nil:
			sum.Failed++
			cfg.Log.Warn().Str("page", base).Err(r.err).Msg("page skipped")
		case r.present:
			sum.Removed++
			cleaned = append(cleaned, r.path)
			cfg.Log.Info().Str("page", base).Msg("watermark removed")
		default:
			sum.Unchanged++
			cleaned = append(cleaned, r.path)
			cfg.Log.Info().Str("page", base).Msg("no watermark")
		}
	}

	if len(cleaned) == 0 {
		return sum, fmt.Errorf("%w: no readable pages", scanwash.ErrInvalidInput)
	}

	outputs, size, err := cfg.Sink.Write(cleaned)
	if err != nil {
		return sum, err
	}
	sum.Outputs = outputs
	sum.SizeBytes = size
	return sum, nil
}

// processAll cleans every page, sequentially or on a bounded worker pool.
// Results land in an ordinal-indexed slice so output ordering never depends
// on completion order.
func processAll(ctx context.Context, cfg Config, ws *workspace.Workspace, pages []string) ([]pageResult, error) {
	results := make([]pageResult, len(pages))

	process := func(i int) pageResult {
		out := filepath.Join(ws.Cleaned, filepath.Base(pages[i]))
		present, err := scanwash.CleanFile(pages[i], out, cfg.Policy)
		return pageResult{path: out, present: present, err: err}
	}

	if cfg.Workers <= 1 {
		for i := range pages {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = process(i)
			if err := fatalPageError(results[i].err); err != nil {
				return nil, err
			}
		}
		return results, nil
	}

	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				results[i] = process(i)
			}
		}()
	}

	for i := range pages {
		if err := ctx.Err(); err != nil {
			close(indices)
			wg.Wait()
			return nil, err
		}
		indices <- i
	}
	close(indices)
	wg.Wait()

	for _, r := range results {
		if err := fatalPageError(r.err); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// fatalPageError filters out the recoverable per-page failure class.
func fatalPageError(err error) error {
	if err == nil || errors.Is(err, scanwash.ErrUnreadablePage) {
		return nil
	}
	return err
}
