package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/disintegration/imaging"
)

// Source yields a decoded image together with the format it was stored in.
type Source interface {
	Decode() (image.Image, Format, error)
}

// FileSource decodes the image file at the given path. A known extension selects the
// decoder directly; otherwise the content is sniffed.
type FileSource string

// BytesSource decodes an in-memory encoded image by sniffing its content.
type BytesSource []byte

// RasterSource wraps an already decoded image. Its format is FormatUnknown.
type RasterSource struct {
	Image image.Image
}

func (s FileSource) Decode() (image.Image, Format, error) {
	path := string(s)
	f, err := os.Open(path)
	if err != nil {
		return nil, FormatUnknown, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer f.Close()

	format := FormatFromFilename(path)
	var img image.Image
	switch format {
	case JPEG:
		img, err = jpeg.Decode(f)
	case PNG:
		img, err = png.Decode(f)
	case GIF:
		img, err = gif.Decode(f)
	default:
		img, format, err = sniff(f)
	}
	if err != nil {
		return nil, FormatUnknown, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	return img, format, nil
}

func (s BytesSource) Decode() (image.Image, Format, error) {
	img, format, err := sniff(bytes.NewReader(s))
	if err != nil {
		return nil, FormatUnknown, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return img, format, nil
}

func (s RasterSource) Decode() (image.Image, Format, error) {
	if s.Image == nil {
		return nil, FormatUnknown, fmt.Errorf("%w: nil image", ErrDecode)
	}
	return s.Image, FormatUnknown, nil
}

// sniff decodes any format registered with the image package. Formats other
// than JPEG, PNG and GIF decode fine but report FormatUnknown.
func sniff(r io.Reader) (image.Image, Format, error) {
	img, name, err := image.Decode(r)
	if err != nil {
		return nil, FormatUnknown, err
	}
	return img, FormatFromExtension(name), nil
}

// Load decodes src and normalizes the result to a zero-origin NRGBA raster.
func Load(src Source) (*image.NRGBA, Format, error) {
	img, format, err := src.Decode()
	if err != nil {
		return nil, FormatUnknown, err
	}
	if img.Bounds().Empty() {
		return nil, FormatUnknown, fmt.Errorf("%w: empty image", ErrDecode)
	}
	return imaging.Clone(img), format, nil
}
