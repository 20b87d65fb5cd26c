package imaging

import (
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/disintegration/imaging"
)

// cachedImage is a decoded source file as stored in an ImageCache.
type cachedImage struct {
	raster *image.NRGBA
	format Format
}

// ImageCache provides thread-safe caching of decoded image files to avoid
// redundant disk reads and decoding.
//
// The cache stores rasters keyed by their file path. Callers never receive the
// cached raster itself: Open hands out an Image over a private copy, so a
// pipeline run on one Image cannot affect the cache or other Images.
//
// ImageCache is safe for concurrent use by multiple goroutines. The Images it
// returns are not.
//
// # Memory Management
//
// Cached rasters remain in memory until explicitly removed via Evict() or
// Clear(). Rasters are stored as 8-bit NRGBA, so an image costs four bytes per
// pixel regardless of its on-disk format.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Open("/path/to/photo.jpg")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = img.AddResize(400, 300).Save("/path/to/thumb.png", imaging.FormatUnknown)
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]cachedImage
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]cachedImage),
	}
}

// load returns the cached raster for path, decoding the file on a miss.
func (c *ImageCache) load(path string) (cachedImage, error) {
	c.mu.RLock()
	entry, ok := c.images[path]
	c.mu.RUnlock()
	if ok {
		return entry, nil
	}

	raster, format, err := Load(FileSource(path))
	if err != nil {
		return cachedImage{}, err
	}
	entry = cachedImage{raster: raster, format: format}

	c.mu.Lock()
	c.images[path] = entry
	c.mu.Unlock()

	return entry, nil
}

// Open returns a new Image for the file at path, using the cached raster when
// the file was decoded before.
//
// The returned Image has its own copy of the pixels and an empty pipeline. Its
// source path is path, so Save("") overwrites the file. The cache is not
// invalidated by such a save; call Evict afterwards if the file is read again.
func (c *ImageCache) Open(path string) (*Image, error) {
	entry, err := c.load(path)
	if err != nil {
		return nil, err
	}
	img := newImage(imaging.Clone(entry.raster), entry.format)
	img.source = path
	return img, nil
}

// Clear removes all images from the cache, freeing the associated memory.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]cachedImage)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
//
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// ImageInfo contains metadata about an image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the stored format: "jpeg", "png", "gif", or "unknown".
	// A known extension decides the format; otherwise it is sniffed from the
	// file contents.
	Format string `json:"format"`

	// MimeType is the content type used when the image is emitted, empty for
	// unknown formats.
	MimeType string `json:"mime_type,omitempty"`

	// HasAlpha indicates whether any pixel is not fully opaque.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image through the cache and returns its metadata.
//
// Parameters:
//   - cache: The image cache to use for loading. Must not be nil.
//   - path: Path to the image file.
//
// Returns:
//   - *ImageInfo: Metadata about the image.
//   - error: Non-nil if the image cannot be decoded or the file cannot be stat'd.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	entry, err := cache.load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	bounds := entry.raster.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        entry.format.String(),
		MimeType:      entry.format.ContentType(),
		HasAlpha:      !entry.raster.Opaque(),
		FileSizeBytes: stat.Size(),
	}, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`
}

// GetDimensions returns the dimensions of an image without additional metadata.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	entry, err := cache.load(path)
	if err != nil {
		return nil, err
	}

	bounds := entry.raster.Bounds()
	return &DimensionsResult{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
