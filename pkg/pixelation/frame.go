package pixelation

import (
	"image"
	"image/draw"

	"github.com/disintegration/imaging"

	"github.com/menta2k/pixelator/pkg/shapes"
	"github.com/menta2k/pixelator/pkg/transform"
)

// FrameState is the cropped-region pixelation strategy: only the
// sub-rectangle under the mask is pixelated, so the work is proportional to
// the region, not the image. Meant for batch processing where every frame
// is configured once, read once and discarded.
type FrameState struct {
	state
}

// NewFrameState creates a cropped-region pixelation state for the image,
// sharing the given mask cache. A nil cache allocates a private one.
func NewFrameState(img image.Image, cache *shapes.Cache) *FrameState {
	return &FrameState{state: newState(img, cache)}
}

// SetShape places the pixelation shape. Unlike the whole-image strategy
// this also invalidates the pixelated area, since the crop window moved.
func (s *FrameState) SetShape(center image.Point, kind shapes.Kind, size image.Point) error {
	if err := s.setShape(center, kind, size); err != nil {
		return err
	}
	s.pxArea = nil
	return nil
}

// PixelatedArea returns the pixelated crop under the mask's bounding box,
// computing it on first use. The tile grid stays anchored at the image
// origin, so the crop matches what the whole-image strategy would produce
// for the same window.
func (s *FrameState) PixelatedArea() (*image.NRGBA, error) {
	if err := s.requireShape(); err != nil {
		return nil, err
	}
	if s.pxArea == nil {
		pxArea, err := transform.PixelateRegion(s.original, s.shapeRect(), s.tilesize)
		if err != nil {
			return nil, err
		}
		s.pxArea = pxArea
	}
	return s.pxArea, nil
}

// Mask returns the shape mask itself; no full-image allocation is needed
// because compositing places it at the shape offset.
func (s *FrameState) Mask() (*image.Alpha, error) {
	if err := s.requireShape(); err != nil {
		return nil, err
	}
	return s.shapeMask, nil
}

// Result returns the original image with the cropped pixelated area
// composited at the shape offset through the mask, computing it on first
// use.
func (s *FrameState) Result() (*image.NRGBA, error) {
	if err := s.requireShape(); err != nil {
		return nil, err
	}
	if s.result == nil {
		pxArea, err := s.PixelatedArea()
		if err != nil {
			return nil, err
		}
		mask, err := s.Mask()
		if err != nil {
			return nil, err
		}
		result := imaging.Clone(s.original)
		draw.DrawMask(result, s.shapeRect(), pxArea, image.Point{}, mask, image.Point{}, draw.Over)
		s.result = result
	}
	return s.result, nil
}

// Preview returns the result resized to the display canvas.
func (s *FrameState) Preview() (*image.NRGBA, error) {
	result, err := s.Result()
	if err != nil {
		return nil, err
	}
	return s.preview(result), nil
}
