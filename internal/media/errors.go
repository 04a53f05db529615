package media

import "errors"

// Sentinel errors for pipeline operations. Boundary handlers map these
// to HTTP statuses or {success:false, error} results; nothing in the
// pipeline panics past its boundary.
var (
	// ErrNotFound indicates the asset path does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrUnreadable indicates a permission or I/O failure opening the asset.
	ErrUnreadable = errors.New("file not readable")

	// ErrDecodeFailed indicates a corrupt file or unsupported codec.
	ErrDecodeFailed = errors.New("decode failed")

	// ErrDestinationExists indicates a move would overwrite an existing
	// file and the caller did not ask for overwrite.
	ErrDestinationExists = errors.New("destination file already exists")
)
