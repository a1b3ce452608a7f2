// Command scanwash removes the fixed-position corner watermark from scanned
// documents.
//
// One binary covers the whole pipeline with pluggable endpoints:
//
//	scanwash process <input.pdf> <output.pdf> [dpi]
//	scanwash process-to-images <input.pdf> <output_dir> [dpi]
//	scanwash pdf-to-images <input.pdf> <output_dir> [dpi]
//	scanwash images-to-pdf <image_dir> <output.pdf> [pattern]
//	scanwash clean-image <image> [-out path] [-inplace]
//	scanwash clean-dir <image_dir> [output_dir]
//
// Every command prints a final machine-readable JSON_RESULT line to stdout
// and exits non-zero on any unrecoverable error, with diagnostics on stderr.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/scanwash/scanwash"
	"github.com/scanwash/scanwash/internal/assemble"
	"github.com/scanwash/scanwash/internal/pipeline"
	"github.com/scanwash/scanwash/internal/raster"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd, args := os.Args[1], os.Args[2:]

	var err error
	switch cmd {
	case "process":
		err = runProcess(args, false)
	case "process-to-images":
		err = runProcess(args, true)
	case "pdf-to-images":
		err = runPDFToImages(args)
	case "images-to-pdf":
		err = runImagesToPDF(args)
	case "clean-image":
		err = runCleanImage(args)
	case "clean-dir":
		err = runCleanDir(args)
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: scanwash <command> [flags] <args>

Commands:
  process           <input.pdf> <output.pdf> [dpi]   full round trip to a PDF
  process-to-images <input.pdf> <output_dir> [dpi]   round trip to an image directory
  pdf-to-images     <input.pdf> <output_dir> [dpi]   rasterize only
  images-to-pdf     <image_dir> <output.pdf> [pattern]  assemble only
  clean-image       <image> [-out path] [-inplace]   clean one image
  clean-dir         <image_dir> [output_dir]         clean a directory of images

Flags (before positional args):
  -debug          verbose logging
  -workers N      parallel page workers (default 1)
  -policy FILE    YAML detection policy overrides
`)
}

// options carries the flags shared by every subcommand.
type options struct {
	workers int
	policy  scanwash.Policy
	log     zerolog.Logger
}

func parseCommon(fs *flag.FlagSet, args []string) (*options, []string, error) {
	debug := fs.Bool("debug", false, "verbose logging")
	workers := fs.Int("workers", 1, "parallel page workers")
	policyPath := fs.String("policy", "", "YAML detection policy file")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	policy := scanwash.DefaultPolicy()
	if *policyPath != "" {
		var err error
		policy, err = scanwash.LoadPolicy(*policyPath)
		if err != nil {
			return nil, nil, err
		}
	}

	return &options{workers: *workers, policy: policy, log: log}, fs.Args(), nil
}

func parseDPI(args []string, idx int) (int, error) {
	if len(args) <= idx {
		return raster.DefaultDPI, nil
	}
	dpi, err := strconv.Atoi(args[idx])
	if err != nil || dpi <= 0 {
		return 0, fmt.Errorf("%w: bad dpi %q", scanwash.ErrInvalidInput, args[idx])
	}
	return dpi, nil
}

func printResult(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Printf("JSON_RESULT:%s\n", data)
}

// runProcess is the full round trip: rasterize, clean every page, then either
// assemble a PDF or write the cleaned pages to a directory.
func runProcess(args []string, toImages bool) error {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	opts, pos, err := parseCommon(fs, args)
	if err != nil {
		return err
	}
	if len(pos) < 2 {
		return fmt.Errorf("%w: need <input.pdf> and an output path", scanwash.ErrInvalidInput)
	}
	input, output := pos[0], pos[1]
	dpi, err := parseDPI(pos, 2)
	if err != nil {
		return err
	}

	if err := raster.Probe(); err != nil {
		return err
	}

	opts.log.Info().Str("input", input).Int("dpi", dpi).Msg("rasterizing PDF")

	sink := pipeline.PDFSink(output)
	if toImages {
		sink = pipeline.DirSink(output)
	}

	sum, err := pipeline.Run(context.Background(), pipeline.Config{
		Source:  pipeline.PDFSource(input, dpi),
		Sink:    sink,
		Policy:  opts.policy,
		Workers: opts.workers,
		Log:     opts.log,
	})
	if err != nil {
		return err
	}

	opts.log.Info().
		Int("pages", sum.Total).
		Int("removed", sum.Removed).
		Int("unchanged", sum.Unchanged).
		Msg("processing complete")

	if toImages {
		printResult(struct {
			InputPDF          string   `json:"input_pdf"`
			OutputDir         string   `json:"output_dir"`
			PageCount         int      `json:"page_count"`
			WatermarksRemoved int      `json:"watermarks_removed"`
			Images            []string `json:"images"`
		}{input, output, sum.Total, sum.Removed, sum.Outputs})
		return nil
	}

	printResult(struct {
		InputPDF          string `json:"input_pdf"`
		OutputPDF         string `json:"output_pdf"`
		PageCount         int    `json:"page_count"`
		WatermarksRemoved int    `json:"watermarks_removed"`
		SizeBytes         int64  `json:"size_bytes"`
	}{input, output, sum.Total, sum.Removed, sum.SizeBytes})
	return nil
}

// runPDFToImages rasterizes a PDF straight into the output directory, no
// watermark processing.
func runPDFToImages(args []string) error {
	fs := flag.NewFlagSet("pdf-to-images", flag.ExitOnError)
	opts, pos, err := parseCommon(fs, args)
	if err != nil {
		return err
	}
	if len(pos) < 2 {
		return fmt.Errorf("%w: need <input.pdf> and <output_dir>", scanwash.ErrInvalidInput)
	}
	input, outDir := pos[0], pos[1]
	dpi, err := parseDPI(pos, 2)
	if err != nil {
		return err
	}

	if _, err := os.Stat(input); err != nil {
		return fmt.Errorf("%w: PDF not found: %s", scanwash.ErrInvalidInput, input)
	}
	if err := raster.Probe(); err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("%w: create output dir: %v", scanwash.ErrInvalidInput, err)
	}

	opts.log.Info().Str("input", input).Int("dpi", dpi).Msg("rasterizing PDF")

	pages, err := raster.PDFToImages(context.Background(), input, outDir, dpi)
	if err != nil {
		return err
	}
	opts.log.Info().Int("pages", len(pages)).Str("dir", outDir).Msg("conversion complete")

	printResult(struct {
		OutputDir string   `json:"output_dir"`
		PageCount int      `json:"page_count"`
		Images    []string `json:"images"`
	}{outDir, len(pages), pages})
	return nil
}

// runImagesToPDF merges a directory of images into a PDF, no watermark
// processing.
func runImagesToPDF(args []string) error {
	fs := flag.NewFlagSet("images-to-pdf", flag.ExitOnError)
	opts, pos, err := parseCommon(fs, args)
	if err != nil {
		return err
	}
	if len(pos) < 2 {
		return fmt.Errorf("%w: need <image_dir> and <output.pdf>", scanwash.ErrInvalidInput)
	}
	dir, output := pos[0], pos[1]
	pattern := ""
	if len(pos) > 2 {
		pattern = pos[2]
	}

	src := pipeline.DirSource(dir, pattern)
	if err := src.Validate(); err != nil {
		return err
	}
	pages, err := src.Pages(context.Background(), nil)
	if err != nil {
		return err
	}
	opts.log.Info().Int("images", len(pages)).Str("output", output).Msg("assembling PDF")

	size, err := assemble.ImagesToPDF(pages, output)
	if err != nil {
		return err
	}
	opts.log.Info().Int64("size_bytes", size).Msg("PDF created")

	printResult(struct {
		OutputPath string `json:"output_path"`
		PageCount  int    `json:"page_count"`
		SizeBytes  int64  `json:"size_bytes"`
	}{output, len(pages), size})
	return nil
}

// runCleanImage cleans a single image. An unreadable input fails the whole
// command, unlike batch mode.
func runCleanImage(args []string) error {
	fs := flag.NewFlagSet("clean-image", flag.ExitOnError)
	out := fs.String("out", "", "output path (defaults to <name>_unwatermarked.png)")
	inplace := fs.Bool("inplace", false, "overwrite the input file")
	opts, pos, err := parseCommon(fs, args)
	if err != nil {
		return err
	}
	if len(pos) < 1 {
		return fmt.Errorf("%w: need an image path", scanwash.ErrInvalidInput)
	}
	input := pos[0]
	if _, err := os.Stat(input); err != nil {
		return fmt.Errorf("%w: image not found: %s", scanwash.ErrInvalidInput, input)
	}

	outPath := *out
	switch {
	case *inplace:
		outPath = input
	case outPath == "":
		base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		outPath = filepath.Join(filepath.Dir(input), base+"_unwatermarked.png")
	}

	present, err := scanwash.CleanFile(input, outPath, opts.policy)
	if err != nil {
		return err
	}

	processed, skipped := 0, 1
	if present {
		processed, skipped = 1, 0
		opts.log.Info().Str("output", outPath).Msg("watermark removed")
	} else {
		opts.log.Info().Str("output", outPath).Msg("no watermark detected")
	}

	printResult(struct {
		Processed int    `json:"processed"`
		Skipped   int    `json:"skipped"`
		OutputDir string `json:"output_dir"`
	}{processed, skipped, filepath.Dir(outPath)})
	return nil
}

// runCleanDir cleans every image in a directory; unreadable images are
// reported and skipped.
func runCleanDir(args []string) error {
	fs := flag.NewFlagSet("clean-dir", flag.ExitOnError)
	opts, pos, err := parseCommon(fs, args)
	if err != nil {
		return err
	}
	if len(pos) < 1 {
		return fmt.Errorf("%w: need an image directory", scanwash.ErrInvalidInput)
	}
	dir := pos[0]
	outDir := dir
	if len(pos) > 1 {
		outDir = pos[1]
	}

	sum, err := pipeline.Run(context.Background(), pipeline.Config{
		Source:  pipeline.DirSource(dir, ""),
		Sink:    pipeline.DirSink(outDir),
		Policy:  opts.policy,
		Workers: opts.workers,
		Log:     opts.log,
	})
	if err != nil {
		return err
	}

	opts.log.Info().
		Int("processed", sum.Removed).
		Int("skipped", sum.Unchanged).
		Int("failed", sum.Failed).
		Msg("directory cleaned")

	printResult(cleanDirResult(sum, outDir))
	return nil
}

type dirResult struct {
	Processed int    `json:"processed"`
	Skipped   int    `json:"skipped"`
	OutputDir string `json:"output_dir"`
}

// cleanDirResult maps a batch summary to the clean-dir result line. Unreadable
// images count as skipped, so processed+skipped always totals the images
// scanned.
func cleanDirResult(sum pipeline.Summary, outDir string) dirResult {
	return dirResult{
		Processed: sum.Removed,
		Skipped:   sum.Unchanged + sum.Failed,
		OutputDir: outDir,
	}
}
