// Package pixelation owns one image's original pixels plus a lazily
// computed, dependency-tracked cache of derived buffers: the pixelated
// area, the region mask, and the composited result.
//
// Two interchangeable strategies share the State contract. ImageState
// pixelates the whole image once so that repeated region changes only
// redraw the mask (interactive editing). FrameState pixelates only the
// selected region, which is cheap when every frame is touched exactly once
// (batch processing). For identical parameters both produce identical
// composited output.
package pixelation

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/menta2k/pixelator/pkg/display"
	"github.com/menta2k/pixelator/pkg/shapes"
	"github.com/menta2k/pixelator/pkg/transform"
)

// ErrNotConfigured is returned when a derived buffer is requested before a
// shape has ever been set.
var ErrNotConfigured = errors.New("no shape set yet")

// State is the capability set shared by both pixelation strategies.
type State interface {
	// SetTilesize changes the pixelation block size, invalidating the
	// pixelated area and the result.
	SetTilesize(tilesize int)
	// SetShape places a shape of the given kind and size centered at
	// center (image coordinates), invalidating the mask and the result.
	SetShape(center image.Point, kind shapes.Kind, size image.Point) error
	// SetCanvasSize changes the display canvas bound, invalidating the
	// display mapper. Zero dimensions mean "no scaling".
	SetCanvasSize(width, height int)

	Original() *image.NRGBA
	Tilesize() int
	ShapeOffset() image.Point
	Mapper() *display.Mapper

	Mask() (*image.Alpha, error)
	PixelatedArea() (*image.NRGBA, error)
	Result() (*image.NRGBA, error)
	Preview() (*image.NRGBA, error)
}

var (
	_ State = (*ImageState)(nil)
	_ State = (*FrameState)(nil)
)

// state carries the original image and the invalidation slots common to
// both strategies. Each derived value lives in its own nullable slot; the
// setters clear exactly the slots the changed parameter feeds into, so a
// result can never be served from a stale mask or pixelated area.
type state struct {
	original *image.NRGBA
	cache    *shapes.Cache

	tilesize     int
	canvasWidth  int
	canvasHeight int

	shapeSet  bool
	shapeKind shapes.Kind
	shapeSize image.Point
	offset    image.Point
	shapeMask *image.Alpha // owned by the cache, never modified

	mapper *display.Mapper
	pxArea *image.NRGBA
	mask   *image.Alpha
	result *image.NRGBA
}

func newState(img image.Image, cache *shapes.Cache) state {
	if cache == nil {
		cache = shapes.NewCache(shapes.DefaultCacheLimit)
	}
	return state{
		original:     imaging.Clone(img),
		cache:        cache,
		tilesize:     transform.DefaultTilesize,
		canvasWidth:  display.DefaultCanvasWidth,
		canvasHeight: display.DefaultCanvasHeight,
	}
}

// Original returns the image the state was created from. Callers must treat
// it as read-only.
func (s *state) Original() *image.NRGBA {
	return s.original
}

// Tilesize returns the current pixelation block size.
func (s *state) Tilesize() int {
	return s.tilesize
}

// ShapeOffset returns the top-left placement of the shape mask in image
// coordinates (center minus half the shape size).
func (s *state) ShapeOffset() image.Point {
	return s.offset
}

// SetTilesize invalidates the pixelated area and the result. Setting the
// current value again is a no-op and keeps the cached buffers.
func (s *state) SetTilesize(tilesize int) {
	if s.tilesize == tilesize {
		return
	}
	s.tilesize = tilesize
	s.pxArea = nil
	s.result = nil
}

// SetCanvasSize invalidates the display mapper. The image buffers are
// unaffected.
func (s *state) SetCanvasSize(width, height int) {
	if s.canvasWidth == width && s.canvasHeight == height {
		return
	}
	s.canvasWidth = width
	s.canvasHeight = height
	s.mapper = nil
}

// setShape is the common part of SetShape: it resolves the mask shape
// through the shared cache and invalidates mask and result.
func (s *state) setShape(center image.Point, kind shapes.Kind, size image.Point) error {
	shapeMask, err := s.cache.Get(kind, size.X, size.Y)
	if err != nil {
		return fmt.Errorf("set shape: %w", err)
	}
	s.shapeSet = true
	s.shapeKind = kind
	s.shapeSize = size
	s.offset = image.Pt(center.X-size.X/2, center.Y-size.Y/2)
	s.shapeMask = shapeMask
	s.mask = nil
	s.result = nil
	return nil
}

// Mapper returns the display mapper for the current image and canvas size,
// computing it on first use.
func (s *state) Mapper() *display.Mapper {
	if s.mapper == nil {
		b := s.original.Bounds()
		s.mapper = display.NewMapper(b.Dx(), b.Dy(), s.canvasWidth, s.canvasHeight)
	}
	return s.mapper
}

// preview resizes an already composited result down to the canvas bound.
func (s *state) preview(result *image.NRGBA) *image.NRGBA {
	m := s.Mapper()
	if !m.Scales() {
		return result
	}
	b := result.Bounds()
	return imaging.Resize(result, m.ToDisplay(b.Dx()), m.ToDisplay(b.Dy()), imaging.CatmullRom)
}

func (s *state) requireShape() error {
	if !s.shapeSet {
		return ErrNotConfigured
	}
	return nil
}

// shapeRect returns the mask's placement rectangle in image coordinates.
func (s *state) shapeRect() image.Rectangle {
	return image.Rectangle{Min: s.offset, Max: s.offset.Add(s.shapeSize)}
}
