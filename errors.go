package paperpdf

import (
	"errors"
	"fmt"
)

// Top-level failure classes surfaced by Export.
var (
	ErrCaptureFailure  = errors.New("surface capture failed")
	ErrEncodingFailure = errors.New("PDF encoding failed")
)

// Capture failures. Each wraps ErrCaptureFailure so callers can treat
// them uniformly with errors.Is.
var (
	ErrBrowserConnect     = fmt.Errorf("%w: failed to connect to browser", ErrCaptureFailure)
	ErrPageCreate         = fmt.Errorf("%w: failed to create browser page", ErrCaptureFailure)
	ErrPageLoad           = fmt.Errorf("%w: failed to load page", ErrCaptureFailure)
	ErrEmptySurface       = fmt.Errorf("%w: surface has zero size", ErrCaptureFailure)
	ErrCrossOriginBlocked = fmt.Errorf("%w: embedded image could not be loaded", ErrCaptureFailure)
)

// Pipeline state and input validation errors.
var (
	ErrExportInProgress = errors.New("export already in progress for this surface")
	ErrInvalidPaperSize = errors.New("invalid paper size")
	ErrInvalidScale     = errors.New("invalid render scale")
	ErrEmptyMarkdown    = errors.New("markdown content cannot be empty")
	ErrWritePDF         = errors.New("failed to write PDF file")
)
