package imaging

import (
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
)

// Resampler scales a source image to exactly width x height pixels.
type Resampler interface {
	Resample(src image.Image, width, height int) image.Image
}

// DefaultResampler is used when an Image has no resampler configured.
var DefaultResampler Resampler = FilterResampler{Filter: imaging.Lanczos}

// FilterResampler resamples with a disintegration/imaging filter.
type FilterResampler struct {
	Filter imaging.ResampleFilter
}

func (r FilterResampler) Resample(src image.Image, width, height int) image.Image {
	return imaging.Resize(src, width, height, r.Filter)
}

// BildResampler resamples with an anthonynsimon/bild filter.
type BildResampler struct {
	Filter transform.ResampleFilter
}

func (r BildResampler) Resample(src image.Image, width, height int) image.Image {
	return transform.Resize(src, width, height, r.Filter)
}

// InterpolatorResampler resamples with a golang.org/x/image/draw interpolator.
type InterpolatorResampler struct {
	Interpolator xdraw.Interpolator
}

func (r InterpolatorResampler) Resample(src image.Image, width, height int) image.Image {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	r.Interpolator.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

var resamplers = map[string]Resampler{
	"lanczos":          FilterResampler{Filter: imaging.Lanczos},
	"catmullrom":       FilterResampler{Filter: imaging.CatmullRom},
	"linear":           FilterResampler{Filter: imaging.Linear},
	"box":              FilterResampler{Filter: imaging.Box},
	"nearest":          FilterResampler{Filter: imaging.NearestNeighbor},
	"bild-lanczos":     BildResampler{Filter: transform.Lanczos},
	"bild-linear":      BildResampler{Filter: transform.Linear},
	"bild-gaussian":    BildResampler{Filter: transform.Gaussian},
	"xdraw-bilinear":   InterpolatorResampler{Interpolator: xdraw.BiLinear},
	"xdraw-catmullrom": InterpolatorResampler{Interpolator: xdraw.CatmullRom},
	"xdraw-nearest":    InterpolatorResampler{Interpolator: xdraw.NearestNeighbor},
}

// ResamplerByName looks up a resampler by its registered name. An empty name
// returns DefaultResampler.
func ResamplerByName(name string) (Resampler, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultResampler, nil
	}
	r, ok := resamplers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownResampler, name)
	}
	return r, nil
}

// ResamplerNames lists the registered resampler names in sorted order.
func ResamplerNames() []string {
	names := make([]string, 0, len(resamplers))
	for name := range resamplers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
