package imaging

import (
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
)

// Format is the container type of an encoded image.
type Format int

// Supported formats. FormatUnknown is the zero value and means "not determined";
// callers must handle it explicitly.
const (
	FormatUnknown Format = iota
	JPEG
	PNG
	GIF
)

var formatNames = map[Format]string{
	JPEG: "jpeg",
	PNG:  "png",
	GIF:  "gif",
}

// String returns the lower-case format name, or "unknown".
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether f is one of JPEG, PNG or GIF.
func (f Format) Valid() bool {
	_, ok := formatNames[f]
	return ok
}

// Extension returns the canonical file extension without the dot.
func (f Format) Extension() string {
	switch f {
	case JPEG:
		return "jpg"
	case PNG:
		return "png"
	case GIF:
		return "gif"
	}
	return ""
}

// ContentType returns the MIME type emitted alongside encoded output.
func (f Format) ContentType() string {
	switch f {
	case JPEG:
		return "image/jpg"
	case PNG:
		return "image/png"
	case GIF:
		return "image/gif"
	}
	return ""
}

func (f Format) imagingFormat() (imaging.Format, error) {
	switch f {
	case JPEG:
		return imaging.JPEG, nil
	case PNG:
		return imaging.PNG, nil
	case GIF:
		return imaging.GIF, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrUnknownFormat, int(f))
}

// FormatFromExtension maps a file extension to a Format. The lookup is
// case-insensitive and tolerates a leading dot. Unrecognized extensions
// yield FormatUnknown.
func FormatFromExtension(ext string) Format {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "jpg", "jpeg":
		return JPEG
	case "png":
		return PNG
	case "gif":
		return GIF
	}
	return FormatUnknown
}

// FileExtension returns the lower-cased text after the last dot of the last
// path segment, or "" when that segment has no dot.
func FileExtension(path string) string {
	name := path
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// FormatFromFilename derives the format from the extension of path.
func FormatFromFilename(path string) Format {
	if path == "" {
		return FormatUnknown
	}
	return FormatFromExtension(FileExtension(path))
}

// ExtensionFromMIME maps an image MIME type to its file extension, or "" if
// the type is not supported.
func ExtensionFromMIME(mime string) string {
	switch mime {
	case "image/jpg", "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	}
	return ""
}

// FormatFromMIME maps an image MIME type to a Format.
func FormatFromMIME(mime string) Format {
	return FormatFromExtension(ExtensionFromMIME(mime))
}

// ParseFormat resolves an explicit format argument given as a name,
// extension or MIME type. An empty string yields FormatUnknown without error
// so that callers can fall back to filename detection.
func ParseFormat(s string) (Format, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return FormatUnknown, nil
	}
	if f := FormatFromExtension(s); f != FormatUnknown {
		return f, nil
	}
	if f := FormatFromMIME(strings.ToLower(s)); f != FormatUnknown {
		return f, nil
	}
	return FormatUnknown, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}
