package transform

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrUnsupportedImage is returned when an image's pixels cannot be resolved
// to RGB values, for example an image with no pixels at all.
var ErrUnsupportedImage = errors.New("unsupported image")

// DominantColor returns the most frequent pixel color of the image, fully
// opaque. Palette-indexed images are tallied by palette index and resolved
// through the palette table; grayscale images replicate the single channel
// to three. Ties are broken towards the smaller packed RGBA value so the
// result is deterministic.
func DominantColor(img image.Image) (color.NRGBA, error) {
	bounds := img.Bounds()
	if bounds.Dx() < 1 || bounds.Dy() < 1 {
		return color.NRGBA{}, fmt.Errorf("%w: image has no pixels", ErrUnsupportedImage)
	}

	switch src := img.(type) {
	case *image.Paletted:
		return dominantPaletted(src)
	case *image.Gray:
		return dominantGray(src), nil
	default:
		return dominantGeneric(img), nil
	}
}

func dominantPaletted(src *image.Paletted) (color.NRGBA, error) {
	if len(src.Palette) == 0 {
		return color.NRGBA{}, fmt.Errorf("%w: paletted image without palette", ErrUnsupportedImage)
	}
	counts := make([]int, len(src.Palette))
	bounds := src.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := src.Pix[(y-bounds.Min.Y)*src.Stride:]
		for x := 0; x < bounds.Dx(); x++ {
			counts[row[x]]++
		}
	}
	best := 0
	for i, n := range counts {
		if n > counts[best] {
			best = i
		}
	}
	c := color.NRGBAModel.Convert(src.Palette[best]).(color.NRGBA)
	c.A = 0xff
	return c, nil
}

func dominantGray(src *image.Gray) color.NRGBA {
	var counts [256]int
	bounds := src.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := src.Pix[(y-bounds.Min.Y)*src.Stride:]
		for x := 0; x < bounds.Dx(); x++ {
			counts[row[x]]++
		}
	}
	best := 0
	for v, n := range counts {
		if n > counts[best] {
			best = v
		}
	}
	g := uint8(best)
	return color.NRGBA{R: g, G: g, B: g, A: 0xff}
}

func dominantGeneric(img image.Image) color.NRGBA {
	counts := make(map[uint32]int)
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			packed := uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
			counts[packed]++
		}
	}
	var (
		bestPacked uint32
		bestCount  int
	)
	for packed, n := range counts {
		if n > bestCount || (n == bestCount && packed < bestPacked) {
			bestPacked = packed
			bestCount = n
		}
	}
	return color.NRGBA{
		R: uint8(bestPacked >> 24),
		G: uint8(bestPacked >> 16),
		B: uint8(bestPacked >> 8),
		A: 0xff,
	}
}
