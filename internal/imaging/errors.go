package imaging

import "errors"

// Error kinds returned by this package. Callers should match them with errors.Is;
// the returned errors wrap these sentinels with context about the failing input.
var (
	// ErrUnknownFormat is returned when no image format can be derived for encoding,
	// or when an explicit format value is not recognized.
	ErrUnknownFormat = errors.New("unknown image format")

	// ErrDecode is returned when source bytes or a file cannot be decoded as a
	// supported raster format.
	ErrDecode = errors.New("failed to decode image")

	// ErrOperation is returned when a resize, crop or composite cannot complete,
	// for example because the computed extents are empty.
	ErrOperation = errors.New("image operation failed")

	// ErrMissingDestination is returned by Save when no output path was given and
	// the image was not loaded from a file.
	ErrMissingDestination = errors.New("no output file for image")

	// ErrInvalidAnchor is returned when an anchor string cannot be parsed.
	ErrInvalidAnchor = errors.New("invalid anchor")

	// ErrUnknownResampler is returned by ResamplerByName for unregistered names.
	ErrUnknownResampler = errors.New("unknown resampler")
)
