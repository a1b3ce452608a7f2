// Package scanwash removes the fixed-position corner watermark from scanned
// document pages.
//
// The watermark sits in the bottom-right 20% x 8% band of a page. Detection
// thresholds light-gray pixels in that band, morphology connects the glyph
// strokes into a mask, and a fast-marching inpainter reconstructs the masked
// pixels from their surroundings. Everything runs in memory on stdlib image
// types; no native libraries are required.
//
// The internal packages add the batch side: a poppler-backed PDF rasterizer,
// a pdfcpu-backed PDF assembler, and a pipeline that drives the cleaner over
// all pages of a document inside a scoped temporary workspace.
package scanwash
