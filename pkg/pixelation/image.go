package pixelation

import (
	"image"
	"image/draw"

	"github.com/disintegration/imaging"

	"github.com/menta2k/pixelator/pkg/shapes"
	"github.com/menta2k/pixelator/pkg/transform"
)

// ImageState is the whole-image pixelation strategy: the pixelated area
// always covers the entire image, so moving or reshaping the region only
// redraws the mask. That makes repeated interactive region changes cheap at
// the cost of one full-size transform per tilesize.
type ImageState struct {
	state
}

// NewImageState creates a whole-image pixelation state for the image,
// sharing the given mask cache. A nil cache allocates a private one.
func NewImageState(img image.Image, cache *shapes.Cache) *ImageState {
	return &ImageState{state: newState(img, cache)}
}

// SetShape places the pixelation shape. Only the mask and the result are
// invalidated; the full-image pixelated area stays valid.
func (s *ImageState) SetShape(center image.Point, kind shapes.Kind, size image.Point) error {
	return s.setShape(center, kind, size)
}

// PixelatedArea returns the whole original image pixelated at the current
// tilesize, computing it on first use.
func (s *ImageState) PixelatedArea() (*image.NRGBA, error) {
	if err := s.requireShape(); err != nil {
		return nil, err
	}
	if s.pxArea == nil {
		pxArea, err := transform.Pixelate(s.original, s.tilesize)
		if err != nil {
			return nil, err
		}
		s.pxArea = pxArea
	}
	return s.pxArea, nil
}

// Mask returns a full-image-sized mask with the shape silhouette placed at
// the shape offset, computing it on first use.
func (s *ImageState) Mask() (*image.Alpha, error) {
	if err := s.requireShape(); err != nil {
		return nil, err
	}
	if s.mask == nil {
		mask := image.NewAlpha(s.original.Bounds())
		draw.Draw(mask, s.shapeRect(), s.shapeMask, image.Point{}, draw.Src)
		s.mask = mask
	}
	return s.mask, nil
}

// Result returns the original image with the pixelated area composited
// through the mask, computing it on first use.
func (s *ImageState) Result() (*image.NRGBA, error) {
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
		draw.DrawMask(result, result.Bounds(), pxArea, image.Point{}, mask, image.Point{}, draw.Over)
		s.result = result
	}
	return s.result, nil
}

// Preview returns the result resized to the display canvas.
func (s *ImageState) Preview() (*image.NRGBA, error) {
	result, err := s.Result()
	if err != nil {
		return nil, err
	}
	return s.preview(result), nil
}
