// Package transform implements the block pixelation transform: a smooth
// area-averaging downsample followed by a hard block-replicating upsample,
// which averages color fairly within each tile while producing visibly
// square blocks.
package transform

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// DefaultTilesize is the edge length of one pixelation block unless a
// caller chooses otherwise.
const DefaultTilesize = 10

// Pixelate returns a pixelated copy of the whole image with the given tile
// size. The result has the same dimensions as the input; every pixel within
// one tile-aligned block holds the same value. A tile size of 1 is the
// identity transform.
func Pixelate(img image.Image, tilesize int) (*image.NRGBA, error) {
	b := img.Bounds()
	return PixelateRegion(img, image.Rect(0, 0, b.Dx(), b.Dy()), tilesize)
}

// PixelateRegion pixelates only the given sub-rectangle of the image,
// returning a buffer of exactly the region's size. The tile grid is
// anchored at the image origin and tiles reaching past the image bounds are
// padded with the image's dominant color, so for any region the result is
// identical to the corresponding window of Pixelate applied to the whole
// image. The region may extend beyond the image; pixels outside the padded
// tile grid come back fully transparent.
func PixelateRegion(img image.Image, region image.Rectangle, tilesize int) (*image.NRGBA, error) {
	if tilesize < 1 {
		return nil, fmt.Errorf("invalid tilesize %d", tilesize)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	// The dominant color pads edge tiles so they stay continuous with the
	// image content. Failing to resolve it marks the image unsupported.
	pad, err := DominantColor(img)
	if err != nil {
		return nil, err
	}

	out := imaging.New(region.Dx(), region.Dy(), color.NRGBA{})

	// Tile-aligned window covering the region, clamped to the padded grid
	// (one tile of slack past each image edge).
	ax0 := max(floorTo(region.Min.X, tilesize), 0)
	ay0 := max(floorTo(region.Min.Y, tilesize), 0)
	ax1 := min(ceilTo(region.Max.X, tilesize), (w/tilesize+1)*tilesize)
	ay1 := min(ceilTo(region.Max.Y, tilesize), (h/tilesize+1)*tilesize)
	if ax1 <= ax0 || ay1 <= ay0 {
		return out, nil
	}

	src := imaging.Clone(img)
	window := imaging.New(ax1-ax0, ay1-ay0, pad)
	visible := image.Rect(ax0, ay0, min(ax1, w), min(ay1, h))
	if visible.Dx() > 0 && visible.Dy() > 0 {
		window = imaging.Paste(
			window,
			imaging.Crop(src, visible),
			image.Pt(visible.Min.X-ax0, visible.Min.Y-ay0),
		)
	}

	reducedW := (ax1 - ax0) / tilesize
	reducedH := (ay1 - ay0) / tilesize
	reduced := imaging.Resize(window, reducedW, reducedH, imaging.Box)
	blocks := imaging.Resize(reduced, ax1-ax0, ay1-ay0, imaging.NearestNeighbor)

	covered := region.Intersect(image.Rect(ax0, ay0, ax1, ay1))
	return imaging.Paste(
		out,
		imaging.Crop(blocks, covered.Sub(image.Pt(ax0, ay0))),
		covered.Min.Sub(region.Min),
	), nil
}

// floorTo rounds v down to a multiple of step (grid anchored at zero).
func floorTo(v, step int) int {
	r := v % step
	if r < 0 {
		r += step
	}
	return v - r
}

// ceilTo rounds v up to a multiple of step.
func ceilTo(v, step int) int {
	return floorTo(v+step-1, step)
}
