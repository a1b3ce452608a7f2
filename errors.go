package scanwash

import "errors"

// Sentinel errors classifying every failure the pipeline can surface.
var (
	// ErrInvalidInput marks a missing or unusable source path.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidPage marks a page with malformed dimensions.
	ErrInvalidPage = errors.New("invalid page")

	// ErrMissingDependency marks an absent external tool. Fatal before any
	// work starts; the message carries a remediation hint.
	ErrMissingDependency = errors.New("missing dependency")

	// ErrRasterization marks a failure of the external PDF rasterizer.
	ErrRasterization = errors.New("pdf rasterization failed")

	// ErrUnreadablePage marks a page whose bytes cannot be decoded.
	// Recoverable in batch mode, fatal in single-page mode.
	ErrUnreadablePage = errors.New("unreadable page")

	// ErrAssembly marks a failure while writing the final PDF.
	ErrAssembly = errors.New("pdf assembly failed")
)
