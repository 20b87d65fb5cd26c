package imaging

import "math"

// Fit computes the extents of a proportional resize of an origW x origH image
// into a targetW x targetH box. It never upscales: when the original already
// fits, the original extents are returned unchanged.
//
// The width-bound fit is tried first; if it overflows the target height the
// height binds instead, and the width is finally re-derived from the height so
// both sides agree with the original aspect ratio. All rounding is floor.
// Non-positive original or target extents yield (0, 0).
func Fit(targetW, targetH, origW, origH int) (w, h int) {
	if origW <= 0 || origH <= 0 || targetW <= 0 || targetH <= 0 {
		return 0, 0
	}
	if targetW >= origW && targetH >= origH {
		return origW, origH
	}

	ratio := float64(origW) / float64(origH)
	newW := float64(targetW)
	newH := float64(targetH)

	if targetW < origW {
		newH = math.Floor(float64(targetW) / ratio)
	}

	if newH > float64(targetH) {
		newW = math.Floor(newW * (newH / float64(targetH)))
		newH = float64(targetH)
	}

	if newH < float64(origH) {
		newW = math.Floor(newH * ratio)
	}

	return int(newW), int(newH)
}
