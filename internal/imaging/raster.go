package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// newCanvas allocates a fully transparent width x height NRGBA canvas.
func newCanvas(width, height int) *image.NRGBA {
	return imaging.New(width, height, color.NRGBA{})
}

// Resize scales src into the proportional fit of a targetW x targetH box,
// computed from the srcW x srcH extents with Fit. The whole of src is the
// pixel source regardless of srcW and srcH. Transparency is preserved.
func Resize(src image.Image, targetW, targetH, srcW, srcH int, r Resampler) (*image.NRGBA, error) {
	w, h := Fit(targetW, targetH, srcW, srcH)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: resize %dx%d into %dx%d yields empty image %dx%d",
			ErrOperation, srcW, srcH, targetW, targetH, w, h)
	}
	if src.Bounds().Empty() {
		return nil, fmt.Errorf("%w: resize of empty image", ErrOperation)
	}
	if r == nil {
		r = DefaultResampler
	}

	scaled := r.Resample(src, w, h)
	if scaled == nil || scaled.Bounds().Dx() != w || scaled.Bounds().Dy() != h {
		return nil, fmt.Errorf("%w: resampler produced %v, want %dx%d", ErrOperation, boundsOf(scaled), w, h)
	}

	return imaging.Paste(newCanvas(w, h), scaled, image.Point{}), nil
}

// Crop cuts a width x height region out of src. The requested extents
// are first clamped to the extents of src, then the region is placed with the
// x and y anchors. Parts of the region outside src stay transparent.
func Crop(src image.Image, width, height int, x, y Anchor) (*image.NRGBA, error) {
	bounds := src.Bounds()
	if width > bounds.Dx() {
		width = bounds.Dx()
	}
	if height > bounds.Dy() {
		height = bounds.Dy()
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: crop region %dx%d is empty", ErrOperation, width, height)
	}

	offset := ResolveOffset(x, y, bounds.Dx(), bounds.Dy(), width, height)
	region := image.Rect(0, 0, width, height).Add(offset).Add(bounds.Min)
	visible := region.Intersect(bounds)
	if visible.Empty() {
		return nil, fmt.Errorf("%w: crop region %v outside image bounds %v", ErrOperation, region, bounds)
	}

	canvas := newCanvas(width, height)
	part := imaging.Crop(src, visible)
	return imaging.Paste(canvas, part, visible.Min.Sub(region.Min)), nil
}

// Watermark composites mark onto dst at the position given by the x and y
// anchors, resolved against the extents of dst and mark. Unset anchors center
// the mark. dst is modified in place and returned.
func Watermark(dst draw.Image, mark image.Image, x, y Anchor) (draw.Image, error) {
	if mark == nil || mark.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty watermark", ErrOperation)
	}
	bounds := dst.Bounds()
	size := mark.Bounds().Size()

	offset := ResolveOffset(x.orDefault(Center()), y.orDefault(Center()),
		bounds.Dx(), bounds.Dy(), size.X, size.Y)
	target := image.Rectangle{Min: offset, Max: offset.Add(size)}.Add(bounds.Min)

	draw.Draw(dst, target, mark, mark.Bounds().Min, draw.Over)
	return dst, nil
}

func boundsOf(img image.Image) image.Rectangle {
	if img == nil {
		return image.Rectangle{}
	}
	return img.Bounds()
}
