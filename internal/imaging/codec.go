package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Encoder defaults. PNG compression uses a 0-9 zlib-style scale and has no
// relation to the JPEG quality scale.
const (
	DefaultJPEGQuality    = 75
	DefaultPNGCompression = 3
)

// EncodeOptions controls how a raster is written out.
type EncodeOptions struct {
	// JPEGQuality is 1-100, higher is better.
	JPEGQuality int
	// PNGCompression is 0 (none) to 9 (best).
	PNGCompression int
	// Background is a hex color ("#RRGGBB") that transparent pixels are
	// flattened onto before encoding JPEG or GIF output. Empty leaves the
	// pixels as they are.
	Background string
}

// EncodeOption mutates EncodeOptions.
type EncodeOption func(*EncodeOptions)

// WithJPEGQuality sets the JPEG quality. Values <= 0 keep the default.
func WithJPEGQuality(q int) EncodeOption {
	return func(o *EncodeOptions) {
		if q > 0 {
			o.JPEGQuality = q
		}
	}
}

// WithPNGCompression sets the PNG compression level. Negative values keep the default.
func WithPNGCompression(level int) EncodeOption {
	return func(o *EncodeOptions) {
		if level >= 0 {
			o.PNGCompression = level
		}
	}
}

// WithBackground sets the flattening color for formats without alpha.
func WithBackground(hex string) EncodeOption {
	return func(o *EncodeOptions) {
		o.Background = hex
	}
}

// DefaultEncodeOptions returns the encoder defaults.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{
		JPEGQuality:    DefaultJPEGQuality,
		PNGCompression: DefaultPNGCompression,
	}
}

func buildEncodeOptions(opts []EncodeOption) EncodeOptions {
	o := DefaultEncodeOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format, opts ...EncodeOption) error {
	format, err := f.imagingFormat()
	if err != nil {
		return err
	}
	o := buildEncodeOptions(opts)

	if o.Background != "" && f != PNG {
		img, err = flatten(img, o.Background)
		if err != nil {
			return err
		}
	}

	quality := o.JPEGQuality
	if quality > 100 {
		quality = 100
	}

	err = imaging.Encode(w, img, format,
		imaging.JPEGQuality(quality),
		imaging.PNGCompressionLevel(pngCompressionLevel(o.PNGCompression)),
	)
	if err != nil {
		return fmt.Errorf("failed to encode %s image: %w", f, err)
	}
	return nil
}

// pngCompressionLevel maps the 0-9 scale onto the levels image/png offers.
func pngCompressionLevel(level int) png.CompressionLevel {
	switch {
	case level <= 0:
		return png.NoCompression
	case level <= 3:
		return png.BestSpeed
	case level <= 6:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}

// flatten composites img onto an opaque canvas of the given hex color.
func flatten(img image.Image, hex string) (*image.NRGBA, error) {
	bg, err := parseHexColor(hex)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return imaging.Overlay(imaging.New(b.Dx(), b.Dy(), bg), img, image.Point{}, 1.0), nil
}

// parseHexColor parses "#RRGGBB" or "#RGB" into an opaque color.
func parseHexColor(hex string) (color.Color, error) {
	if len(hex) > 0 && hex[0] != '#' {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("invalid background color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
