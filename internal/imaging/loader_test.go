package imaging

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
)

func TestNewImageCache(t *testing.T) {
	cache := NewImageCache()
	if cache == nil {
		t.Fatal("NewImageCache returned nil")
	}
	if cache.images == nil {
		t.Fatal("NewImageCache did not initialize images map")
	}
}

func TestImageCache_Open(t *testing.T) {
	dir := t.TempDir()
	path := writeTestImage(t, dir, "cached.png", createInMemoryImage(100, 80, red))

	cache := NewImageCache()
	first, err := cache.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if cache.Len() != 1 {
		t.Errorf("cache size: got %d, want 1", cache.Len())
	}

	if err := first.AddCrop(10, 10, Start(), Start()).Save(filepath.Join(dir, "small.png"), FormatUnknown); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	second, err := cache.Open(path)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	assertSize(t, second.Raster(), 100, 80)
	if second.SourcePath() != path || !second.IsFormat(PNG) {
		t.Errorf("second image: source %q format %v", second.SourcePath(), second.Format())
	}
	if second.Pipeline().Len() != 0 {
		t.Error("cached images should start with an empty pipeline")
	}
}

func TestImageCache_Errors(t *testing.T) {
	cache := NewImageCache()
	if _, err := cache.Open(filepath.Join(t.TempDir(), "missing.png")); !errors.Is(err, ErrDecode) {
		t.Errorf("got %v, want ErrDecode", err)
	}
	if cache.Len() != 0 {
		t.Error("failed loads must not be cached")
	}
}

func TestImageCache_EvictAndClear(t *testing.T) {
	dir := t.TempDir()
	a := writeTestImage(t, dir, "a.png", createInMemoryImage(10, 10, red))
	b := writeTestImage(t, dir, "b.png", createInMemoryImage(10, 10, blue))

	cache := NewImageCache()
	for _, p := range []string{a, b} {
		if _, err := cache.Open(p); err != nil {
			t.Fatalf("Open failed: %v", err)
		}
	}

	cache.Evict(a)
	cache.Evict("never-loaded")
	if cache.Len() != 1 {
		t.Errorf("after Evict: got %d entries, want 1", cache.Len())
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("after Clear: got %d entries, want 0", cache.Len())
	}
}

func TestImageCache_Concurrent(t *testing.T) {
	dir := t.TempDir()
	path := writeTestImage(t, dir, "shared.png", createInMemoryImage(50, 50, green))

	cache := NewImageCache()
	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			img, err := cache.Open(path)
			if err != nil {
				errs <- err
				return
			}
			img.AddResize(10, 10)
			if err := img.applyModifiers(); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent use failed: %v", err)
	}
}

func TestLoadImageInfo(t *testing.T) {
	dir := t.TempDir()
	opaque := writeTestImage(t, dir, "opaque.jpg", createInMemoryImage(120, 60, red))
	alpha := writeTestImage(t, dir, "alpha.png", createInMemoryImage(30, 40, transparent))

	cache := NewImageCache()

	info, err := LoadImageInfo(cache, opaque)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}
	if info.Width != 120 || info.Height != 60 || info.Format != "jpeg" || info.MimeType != "image/jpg" {
		t.Errorf("jpeg info: got %+v", info)
	}
	if info.HasAlpha {
		t.Error("jpeg should not report alpha")
	}
	if info.FileSizeBytes <= 0 {
		t.Error("file size should be positive")
	}

	info, err = LoadImageInfo(cache, alpha)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}
	if !info.HasAlpha || info.Format != "png" {
		t.Errorf("png info: got %+v", info)
	}
}

func TestGetDimensions(t *testing.T) {
	path := writeTestImage(t, t.TempDir(), "dims.gif", createInMemoryImage(33, 17, blue))

	dims, err := GetDimensions(NewImageCache(), path)
	if err != nil {
		t.Fatalf("GetDimensions failed: %v", err)
	}
	if dims.Width != 33 || dims.Height != 17 {
		t.Errorf("got %dx%d, want 33x17", dims.Width, dims.Height)
	}
}
