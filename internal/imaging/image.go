package imaging

import (
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
)

// Image holds a decoded raster, the extents it was loaded with and the
// pending pipeline of modifiers.
//
// Adding modifiers does no raster work. Show and Save run the pipeline
// against the current raster and replace it with the result; calling either a
// second time applies the pipeline again on top of the already transformed
// raster. An Image is not safe for concurrent use.
type Image struct {
	source    string
	width     int
	height    int
	format    Format
	raster    *image.NRGBA
	pipeline  Pipeline
	resampler Resampler
}

// New decodes src eagerly and returns an Image over it.
func New(src Source) (*Image, error) {
	raster, format, err := Load(src)
	if err != nil {
		return nil, err
	}
	img := newImage(raster, format)
	if path, ok := src.(FileSource); ok {
		img.source = string(path)
	}
	return img, nil
}

// Open decodes the image file at path.
func Open(path string) (*Image, error) {
	return New(FileSource(path))
}

// FromBytes decodes an encoded image held in memory.
func FromBytes(data []byte) (*Image, error) {
	return New(BytesSource(data))
}

// FromImage wraps an already decoded image. The format of the result is
// FormatUnknown and the caller keeps ownership of img.
func FromImage(img image.Image) (*Image, error) {
	return New(RasterSource{Image: img})
}

func newImage(raster *image.NRGBA, format Format) *Image {
	b := raster.Bounds()
	return &Image{
		width:  b.Dx(),
		height: b.Dy(),
		format: format,
		raster: raster,
	}
}

// Width returns the width of the original image.
func (img *Image) Width() int { return img.width }

// Height returns the height of the original image.
func (img *Image) Height() int { return img.height }

// Format returns the detected source format, FormatUnknown for rasters.
func (img *Image) Format() Format { return img.format }

// IsFormat reports whether the source was stored as f.
func (img *Image) IsFormat(f Format) bool { return img.format == f }

// SourcePath returns the file the image was loaded from, or "".
func (img *Image) SourcePath() string { return img.source }

// Raster returns the current raster.
func (img *Image) Raster() *image.NRGBA { return img.raster }

// Pipeline returns the pending modifiers.
func (img *Image) Pipeline() Pipeline { return img.pipeline }

// SetResampler selects the resampler used by resize steps.
func (img *Image) SetResampler(r Resampler) *Image {
	img.resampler = r
	return img
}

// SetPipeline replaces the pending modifiers.
func (img *Image) SetPipeline(p Pipeline) *Image {
	img.pipeline = p
	return img
}

// AddResize appends a proportional resize into a width x height box.
func (img *Image) AddResize(width, height int) *Image {
	img.pipeline = img.pipeline.Resize(width, height)
	return img
}

// AddCrop appends a width x height crop placed by x and y.
func (img *Image) AddCrop(width, height int, x, y Anchor) *Image {
	img.pipeline = img.pipeline.Crop(width, height, x, y)
	return img
}

// AddWatermark appends a watermark decoded from src, placed by x and y.
func (img *Image) AddWatermark(src Source, x, y Anchor) *Image {
	img.pipeline = img.pipeline.Watermark(src, x, y)
	return img
}

func (img *Image) applyModifiers() error {
	raster, err := img.pipeline.Apply(img.raster, img.width, img.height, img.resampler)
	img.raster = raster
	return err
}

// headerWriter is implemented by http.ResponseWriter.
type headerWriter interface {
	Header() http.Header
}

// Show applies the modifiers and encodes the result to w in format f, or JPEG
// when f is FormatUnknown. If w carries HTTP headers the Content-Type is set.
// The format that was written is returned.
func (img *Image) Show(w io.Writer, f Format, opts ...EncodeOption) (Format, error) {
	if f == FormatUnknown {
		f = JPEG
	}
	if !f.Valid() {
		return FormatUnknown, fmt.Errorf("%w: %d", ErrUnknownFormat, int(f))
	}
	if err := img.applyModifiers(); err != nil {
		return FormatUnknown, err
	}
	if hw, ok := w.(headerWriter); ok {
		hw.Header().Set("Content-Type", f.ContentType())
	}
	if err := Encode(w, img.raster, f, opts...); err != nil {
		return FormatUnknown, err
	}
	return f, nil
}

// OutputFormat resolves the format Save writes: f when given, otherwise the
// format of the path extension, otherwise JPEG.
func OutputFormat(path string, f Format) Format {
	if f != FormatUnknown {
		return f
	}
	if f = FormatFromFilename(path); f != FormatUnknown {
		return f
	}
	return JPEG
}

// Save applies the modifiers and writes the result to path. An empty path
// overwrites the source file. The format is f when given, otherwise it is
// taken from the extension of path, falling back to JPEG.
func (img *Image) Save(path string, f Format, opts ...EncodeOption) error {
	if path == "" {
		path = img.source
	}
	if path == "" {
		return ErrMissingDestination
	}
	f = OutputFormat(path, f)
	if !f.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownFormat, int(f))
	}

	if err := img.applyModifiers(); err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Encode(out, img.raster, f, opts...); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
