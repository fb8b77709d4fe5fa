// Package pixelator obscures regions of images and video frame sequences
// by replacing them with a blocky, pixelated version of themselves while
// leaving the rest of the picture untouched.
//
// Basic usage:
//
//	package main
//
//	import (
//		"log"
//
//		"github.com/menta2k/pixelator"
//	)
//
//	func main() {
//		px := pixelator.New()
//
//		// Pixelate a 200x150 ellipse centered at (400, 300)
//		err := px.PixelateFile("photo.jpg", "photo_masked.jpg", pixelator.Params{
//			Tilesize: 25,
//			Shape:    "ellipse",
//			CenterX:  400,
//			CenterY:  300,
//			Width:    200,
//			Height:   150,
//		})
//		if err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The package consists of five main components:
//
// 1. Display (pkg/display): Maps image coordinates to a bounded canvas
// 2. Shapes (pkg/shapes): Rasterizes and caches rectangle/ellipse masks
// 3. Transform (pkg/transform): The block pixelation transform itself
// 4. Pixelation (pkg/pixelation): Per-image state with lazy result caching
// 5. Sequence (pkg/sequence): Interpolating multi-frame batch driver
//
// For video, an external tool (such as ffmpeg) splits the clip into
// numbered frame files; the sequence driver pixelates every frame between
// two keyframes with the region interpolated linearly, and the same tool
// reassembles the output frames afterwards.
package pixelator

import (
	"fmt"
	"image"

	"github.com/menta2k/pixelator/pkg/frameio"
	"github.com/menta2k/pixelator/pkg/pixelation"
	"github.com/menta2k/pixelator/pkg/sequence"
	"github.com/menta2k/pixelator/pkg/shapes"
	"github.com/menta2k/pixelator/pkg/transform"
)

// Version of the pixelator library
const Version = "1.0.0"

// Pixelator provides a high-level interface for selective pixelation. All
// states and sequence runs created through one Pixelator share one mask
// cache.
type Pixelator struct {
	cache   *shapes.Cache
	quality int
}

// Options configure a Pixelator.
type Options struct {
	CacheLimit int // mask cache capacity; 0 means shapes.DefaultCacheLimit
	Quality    int // save quality for PixelateFile; 0 means frameio.DefaultQuality
}

// New creates a Pixelator with default configuration
func New() *Pixelator {
	return NewWithOptions(Options{})
}

// NewWithOptions creates a Pixelator with custom configuration
func NewWithOptions(opts Options) *Pixelator {
	return &Pixelator{
		cache:   shapes.NewCache(opts.CacheLimit),
		quality: opts.Quality,
	}
}

// Params bundles the pixelation parameters for a single image.
type Params struct {
	Tilesize int
	Shape    string // shape label, e.g. "rectangle", "ellipse", "circle"
	CenterX  int
	CenterY  int
	Width    int
	Height   int
}

// OpenImage loads an image into a whole-image pixelation state, suited for
// interactive editing where the region changes repeatedly.
func (p *Pixelator) OpenImage(path string) (*pixelation.ImageState, error) {
	img, err := frameio.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	return pixelation.NewImageState(img, p.cache), nil
}

// OpenFrame loads an image into a cropped-region pixelation state, suited
// for batch processing where every image is touched exactly once.
func (p *Pixelator) OpenFrame(path string) (*pixelation.FrameState, error) {
	img, err := frameio.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	return pixelation.NewFrameState(img, p.cache), nil
}

// Pixelate applies the parameters to an in-memory image and returns the
// composited result.
func (p *Pixelator) Pixelate(img image.Image, params Params) (*image.NRGBA, error) {
	kind, err := shapes.ParseKind(params.Shape)
	if err != nil {
		return nil, err
	}
	tilesize := params.Tilesize
	if tilesize == 0 {
		tilesize = transform.DefaultTilesize
	}

	frame := pixelation.NewFrameState(img, p.cache)
	frame.SetTilesize(tilesize)
	err = frame.SetShape(
		image.Pt(params.CenterX, params.CenterY),
		kind,
		image.Pt(params.Width, params.Height),
	)
	if err != nil {
		return nil, err
	}
	return frame.Result()
}

// PixelateFile loads an image, pixelates the selected region and saves the
// result.
func (p *Pixelator) PixelateFile(inputPath, outputPath string, params Params) error {
	img, err := frameio.Load(inputPath)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	result, err := p.Pixelate(img, params)
	if err != nil {
		return fmt.Errorf("pixelation failed: %w", err)
	}
	if err := frameio.Save(result, outputPath, frameio.Options{Quality: p.quality}); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

// RunJob pixelates a span of frames described by a sequence job, reporting
// one progress percentage per completed frame.
func (p *Pixelator) RunJob(job *sequence.Job, progress sequence.ProgressFunc) error {
	return sequence.RunJob(job, p.cache, progress)
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
