package imaging

import (
	"fmt"
	"image"
)

// Modifier is one step of a Pipeline: ResizeModifier, CropModifier or
// WatermarkModifier.
type Modifier interface {
	fmt.Stringer
	apply(src *image.NRGBA, env stepEnv) (*image.NRGBA, error)
}

// stepEnv carries the values a step may need besides the current raster.
type stepEnv struct {
	origW, origH int
	resampler    Resampler
}

// ResizeModifier proportionally fits the image into Width x Height. The fit is
// always computed from the original extents of the image, so a resize placed
// after a crop still scales relative to the source.
type ResizeModifier struct {
	Width  int
	Height int
}

func (m ResizeModifier) String() string {
	return fmt.Sprintf("resize(%dx%d)", m.Width, m.Height)
}

func (m ResizeModifier) apply(src *image.NRGBA, env stepEnv) (*image.NRGBA, error) {
	return Resize(src, m.Width, m.Height, env.origW, env.origH, env.resampler)
}

// CropModifier cuts a Width x Height region placed by X and Y out of the
// current raster.
type CropModifier struct {
	Width  int
	Height int
	X, Y   Anchor
}

func (m CropModifier) String() string {
	return fmt.Sprintf("crop(%dx%d at %s,%s)", m.Width, m.Height, m.X, m.Y)
}

func (m CropModifier) apply(src *image.NRGBA, _ stepEnv) (*image.NRGBA, error) {
	return Crop(src, m.Width, m.Height, m.X, m.Y)
}

// WatermarkModifier composites the image decoded from Source onto the current
// raster. The watermark is decoded when the step runs and released afterwards.
type WatermarkModifier struct {
	Source Source
	X, Y   Anchor
}

func (m WatermarkModifier) String() string {
	return fmt.Sprintf("watermark(at %s,%s)", m.X.orDefault(Center()), m.Y.orDefault(Center()))
}

func (m WatermarkModifier) apply(src *image.NRGBA, _ stepEnv) (*image.NRGBA, error) {
	if m.Source == nil {
		return nil, fmt.Errorf("%w: watermark has no source", ErrDecode)
	}
	mark, _, err := m.Source.Decode()
	if err != nil {
		return nil, err
	}
	if _, err := Watermark(src, mark, m.X, m.Y); err != nil {
		return nil, err
	}
	return src, nil
}

// Pipeline is an ordered list of modifiers. It is immutable: every method that
// adds a step returns a new Pipeline and leaves the receiver untouched.
// The zero value is an empty pipeline.
type Pipeline struct {
	steps []Modifier
}

// NewPipeline returns a pipeline running steps in the given order.
func NewPipeline(steps ...Modifier) Pipeline {
	return Pipeline{}.Append(steps...)
}

// Append returns a pipeline with steps added after the existing ones.
func (p Pipeline) Append(steps ...Modifier) Pipeline {
	out := make([]Modifier, 0, len(p.steps)+len(steps))
	out = append(out, p.steps...)
	for _, s := range steps {
		if s != nil {
			out = append(out, s)
		}
	}
	return Pipeline{steps: out}
}

// Resize returns p with a ResizeModifier appended.
func (p Pipeline) Resize(width, height int) Pipeline {
	return p.Append(ResizeModifier{Width: width, Height: height})
}

// Crop returns p with a CropModifier appended.
func (p Pipeline) Crop(width, height int, x, y Anchor) Pipeline {
	return p.Append(CropModifier{Width: width, Height: height, X: x, Y: y})
}

// Watermark returns p with a WatermarkModifier appended.
func (p Pipeline) Watermark(src Source, x, y Anchor) Pipeline {
	return p.Append(WatermarkModifier{Source: src, X: x, Y: y})
}

// Len returns the number of steps.
func (p Pipeline) Len() int { return len(p.steps) }

// Steps returns a copy of the steps in execution order.
func (p Pipeline) Steps() []Modifier {
	out := make([]Modifier, len(p.steps))
	copy(out, p.steps)
	return out
}

// Apply runs the steps in order, feeding each step the output of the previous
// one. origW and origH are the extents resize steps fit from. Apply takes
// ownership of src: watermark steps draw onto the raster they receive.
//
// On failure Apply stops and returns the last raster that was produced
// successfully together with the error.
func (p Pipeline) Apply(src *image.NRGBA, origW, origH int, r Resampler) (*image.NRGBA, error) {
	env := stepEnv{origW: origW, origH: origH, resampler: r}
	cur := src
	for i, step := range p.steps {
		next, err := step.apply(cur, env)
		if err != nil {
			return cur, fmt.Errorf("step %d %s: %w", i+1, step, err)
		}
		cur = next
	}
	return cur, nil
}
