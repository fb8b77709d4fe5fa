// Package display maps between an image's native pixel coordinates and a
// bounded on-screen canvas.
//
// Large images are scaled down by a single rational ratio so that they fit
// the canvas in both dimensions while preserving the aspect ratio. The ratio
// is quantized to coarse steps (quarters, halves, whole numbers) so that
// slightly different image sizes do not produce jarringly different scales.
package display

import (
	"math/big"
)

// DefaultCanvasWidth and DefaultCanvasHeight are the canvas bounds used when
// no explicit canvas size is given.
const (
	DefaultCanvasWidth  = 720
	DefaultCanvasHeight = 405
)

var one = big.NewRat(1, 1)

// Ratio returns the display ratio for a single dimension.
//
// Images smaller than the canvas are not scaled (ratio 1). Otherwise the
// exact fraction imageDim/canvasDim is rounded up to the nearest quarter if
// it is at most 3, up to the nearest half if it is at most 5, and up to the
// nearest whole number beyond that.
func Ratio(imageDim, canvasDim int) *big.Rat {
	if canvasDim <= 0 || imageDim <= canvasDim {
		return new(big.Rat).Set(one)
	}

	raw := big.NewRat(int64(imageDim), int64(canvasDim))
	switch {
	case raw.Cmp(big.NewRat(3, 1)) <= 0:
		return big.NewRat(ceilScaled(raw, 4), 4)
	case raw.Cmp(big.NewRat(5, 1)) <= 0:
		return big.NewRat(ceilScaled(raw, 2), 2)
	default:
		return big.NewRat(ceilScaled(raw, 1), 1)
	}
}

// ceilScaled returns ceil(r * scale) as an integer.
func ceilScaled(r *big.Rat, scale int64) int64 {
	scaled := new(big.Rat).Mul(r, big.NewRat(scale, 1))
	quo := new(big.Int).Quo(scaled.Num(), scaled.Denom())
	if scaled.IsInt() {
		return quo.Int64()
	}
	return quo.Int64() + 1
}

// Mapper converts lengths between image space and display space using a
// single scale ratio computed once per (image size, canvas size) pair.
type Mapper struct {
	ratio *big.Rat
}

// NewMapper computes the overall display ratio for an image of the given
// size shown on a canvas of the given bounds. A canvas dimension of zero or
// less means "unbounded" in that dimension. The overall ratio is the larger
// of the two per-dimension ratios.
func NewMapper(imageWidth, imageHeight, canvasWidth, canvasHeight int) *Mapper {
	rx := Ratio(imageWidth, canvasWidth)
	ry := Ratio(imageHeight, canvasHeight)
	if rx.Cmp(ry) < 0 {
		rx = ry
	}
	return &Mapper{ratio: rx}
}

// Identity returns a mapper that performs no scaling.
func Identity() *Mapper {
	return &Mapper{ratio: new(big.Rat).Set(one)}
}

// Scale returns a copy of the mapper's scale ratio.
func (m *Mapper) Scale() *big.Rat {
	return new(big.Rat).Set(m.ratio)
}

// Scales reports whether the mapper actually scales (ratio > 1).
func (m *Mapper) Scales() bool {
	return m.ratio.Cmp(one) > 0
}

// ToDisplay converts a length in image pixels to display pixels,
// truncating towards zero.
func (m *Mapper) ToDisplay(length int) int {
	if !m.Scales() {
		return length
	}
	// length / ratio == length * denom / num
	v := new(big.Int).Mul(big.NewInt(int64(length)), m.ratio.Denom())
	return int(v.Quo(v, m.ratio.Num()).Int64())
}

// FromDisplay converts a length in display pixels back to image pixels,
// truncating towards zero.
func (m *Mapper) FromDisplay(length int) int {
	if !m.Scales() {
		return length
	}
	v := new(big.Int).Mul(big.NewInt(int64(length)), m.ratio.Num())
	return int(v.Quo(v, m.ratio.Denom()).Int64())
}
