package imaging

import (
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"
)

// AnchorKind selects how an Anchor is resolved along one axis.
type AnchorKind int

const (
	// AnchorUnset is the zero value. It resolves like AnchorStart; watermark
	// steps substitute AnchorCenter for it.
	AnchorUnset AnchorKind = iota
	AnchorStart
	AnchorCenter
	AnchorEnd
	AnchorPercent
	AnchorPixel
)

// Axis distinguishes the keyword sets accepted by ParseAnchor.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

// Anchor places an item along one axis of a container. Percent and Pixel
// anchors are resolved against the extents in effect when the step runs, not
// when the anchor is created.
type Anchor struct {
	Kind AnchorKind
	// Percent is the item center position in percent of the container (0-100).
	Percent float64
	// Pixels is an absolute offset when >= 0, or an inset from the far edge
	// when negative.
	Pixels int
}

// Start anchors the item at the left or top edge.
func Start() Anchor { return Anchor{Kind: AnchorStart} }

// Center centers the item on the axis.
func Center() Anchor { return Anchor{Kind: AnchorCenter} }

// End anchors the item at the right or bottom edge.
func End() Anchor { return Anchor{Kind: AnchorEnd} }

// Percent centers the item at p percent of the container, kept inside it.
func Percent(p float64) Anchor { return Anchor{Kind: AnchorPercent, Percent: p} }

// Pixels places the item at offset n, or n pixels inset from the far edge when n < 0.
func Pixels(n int) Anchor { return Anchor{Kind: AnchorPixel, Pixels: n} }

// IsSet reports whether a was given explicitly.
func (a Anchor) IsSet() bool { return a.Kind != AnchorUnset }

func (a Anchor) orDefault(def Anchor) Anchor {
	if a.IsSet() {
		return a
	}
	return def
}

func (a Anchor) String() string {
	switch a.Kind {
	case AnchorStart:
		return "start"
	case AnchorCenter:
		return "center"
	case AnchorEnd:
		return "end"
	case AnchorPercent:
		return strconv.FormatFloat(a.Percent, 'f', -1, 64) + "%"
	case AnchorPixel:
		return strconv.Itoa(a.Pixels)
	}
	return "unset"
}

// ResolveAxis converts an anchor into the offset of an item of extent item
// inside a container of extent container. Only percent anchors are clamped
// into the container; keyword and pixel anchors may produce negative offsets
// or offsets past the far edge when the item does not fit.
func ResolveAxis(a Anchor, container, item int) int {
	c, i := float64(container), float64(item)

	switch a.Kind {
	case AnchorCenter:
		return int(math.Floor(c/2 - i/2))
	case AnchorEnd:
		return container - item
	case AnchorPercent:
		offset := int(math.Floor(float64((c/100)*a.Percent) - i/2))
		if offset < 0 {
			offset = 0
		}
		if offset+item > container {
			offset = container - item
		}
		return offset
	case AnchorPixel:
		if a.Pixels < 0 {
			return container - item + a.Pixels
		}
		return a.Pixels
	}
	return 0
}

// ResolveOffset resolves both axes and returns the top-left corner of the item.
func ResolveOffset(x, y Anchor, containerW, containerH, itemW, itemH int) image.Point {
	return image.Pt(
		ResolveAxis(x, containerW, itemW),
		ResolveAxis(y, containerH, itemH),
	)
}

// ParseAnchor parses the textual anchor forms accepted at the API boundary:
//
//	left | center | right           (Horizontal)
//	top | center | middle | bottom  (Vertical)
//	"30%", "12.5%"                  percent of the container, 0-100
//	"150", "-10"                    pixel offset, negative insets from the far edge
//
// An empty string yields an unset anchor.
func ParseAnchor(axis Axis, s string) (Anchor, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Anchor{}, nil
	}

	switch s {
	case "center":
		return Center(), nil
	case "left":
		if axis == Horizontal {
			return Start(), nil
		}
	case "right":
		if axis == Horizontal {
			return End(), nil
		}
	case "top":
		if axis == Vertical {
			return Start(), nil
		}
	case "middle":
		if axis == Vertical {
			return Center(), nil
		}
	case "bottom":
		if axis == Vertical {
			return End(), nil
		}
	}

	if strings.HasSuffix(s, "%") {
		p, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "%")), 64)
		if err != nil || math.IsNaN(p) || p < 0 || p > 100 {
			return Anchor{}, fmt.Errorf("%w: percent %q", ErrInvalidAnchor, s)
		}
		return Percent(p), nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return Anchor{}, fmt.Errorf("%w: %q", ErrInvalidAnchor, s)
	}
	return Pixels(n), nil
}
