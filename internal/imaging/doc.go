// Package imaging resizes, crops and watermarks images through an ordered
// pipeline of modifiers.
//
// An Image is decoded eagerly from a file, encoded bytes or an existing
// image.Image. Modifiers are accumulated without touching pixels and run in
// insertion order when the image is materialized with Show or Save:
//
//	img, err := imaging.Open("photo.gif")
//	if err != nil {
//	    return err
//	}
//	err = img.
//	    AddResize(400, 300).
//	    AddCrop(300, 300, imaging.Center(), imaging.Start()).
//	    AddWatermark(imaging.FileSource("logo.png"), imaging.Pixels(-5), imaging.Pixels(-5)).
//	    Save("thumb.png", imaging.FormatUnknown)
//
// # Geometry
//
// Fit computes proportional resize extents and never upscales. Resize steps
// always fit from the original extents of the Image, even when they follow a
// crop. Crop and watermark steps place their region with a pair of Anchors,
// resolved by ResolveAxis against the raster produced by the previous step.
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner.
//
// # Formats
//
// JPEG, PNG and GIF are supported for output. Decoding sniffs content when
// the format cannot be taken from a file extension. JPEG quality defaults to
// 75 and PNG compression to level 3; both are set per call with EncodeOption.
//
// # Error Handling
//
// Errors wrap one of the sentinel values ErrUnknownFormat, ErrDecode,
// ErrOperation, ErrMissingDestination, ErrInvalidAnchor or
// ErrUnknownResampler. Fit and ResolveAxis never fail. A failing pipeline step
// aborts the remaining steps and leaves the Image with the last raster that
// was produced successfully.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Image is not; use one Image per
// goroutine.
package imaging
