// Package frameio is the still-image boundary of the engine: it decodes
// frame files into pixel buffers and encodes result buffers back to disk.
// JPEG, PNG and WebP are supported.
package frameio

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// DefaultQuality is the JPEG/WebP encode quality used when a caller does
// not choose one.
const DefaultQuality = 95

// Options control how frames are encoded.
type Options struct {
	Quality  int  // JPEG/WebP quality (1-100); 0 means DefaultQuality
	Lossless bool // WebP lossless mode
}

// SupportedExtensions lists the file name extensions (lower case, without
// dot) that Load and Save handle.
func SupportedExtensions() []string {
	return []string{"jpg", "jpeg", "png", "webp"}
}

// Supported reports whether the path's extension is a supported frame
// format.
func Supported(path string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, supported := range SupportedExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// Load decodes a frame file into a pixel buffer.
func Load(path string) (image.Image, error) {
	// imaging.Open covers every registered decoder, including the x/image
	// WebP decoder linked above.
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	// Fallback: some WebP files only decode through the libwebp binding.
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if img, err := webp.Decode(f); err == nil {
		return img, nil
	}
	if _, err := f.Seek(0, 0); err == nil {
		if img, _, err := image.Decode(f); err == nil {
			return img, nil
		}
	}
	return nil, fmt.Errorf("frameio: unknown image format for %s", path)
}

// Save encodes the image to path, choosing the format by file extension.
func Save(img image.Image, path string, opts Options) error {
	quality := opts.Quality
	if quality <= 0 {
		quality = DefaultQuality
	}

	switch strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".") {
	case "webp":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return webp.Encode(f, img, &webp.Options{Lossless: opts.Lossless, Quality: float32(quality)})
	case "png":
		return imaging.Save(img, path)
	case "jpg", "jpeg":
		return imaging.Save(img, path, imaging.JPEGQuality(quality))
	default:
		return fmt.Errorf("frameio: unsupported output format for %s", path)
	}
}
