// Package shapes rasterizes the mask silhouettes used to confine pixelation
// to a region, and caches them in a bounded, shared cache.
package shapes

import (
	"errors"
	"fmt"
	"image"
	"strings"
)

// Kind identifies a mask silhouette primitive.
type Kind string

// Supported shape kinds. The user-facing labels "circle" and "square" are
// degenerate cases (equal width and height) of ellipse and rectangle and
// normalize to those kinds.
const (
	Rectangle Kind = "rectangle"
	Ellipse   Kind = "ellipse"
)

// ErrUnsupportedKind is returned for shape kinds that cannot be rasterized.
var ErrUnsupportedKind = errors.New("unsupported shape kind")

// ParseKind normalizes a shape label to a canonical Kind. Any non-empty
// prefix of a canonical kind name is accepted ("rect", "e", ...), as are the
// degenerate labels "circle" and "square".
func ParseKind(label string) (Kind, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	switch {
	case label == "":
		return "", fmt.Errorf("%w: empty label", ErrUnsupportedKind)
	case label == "square" || strings.HasPrefix(string(Rectangle), label):
		return Rectangle, nil
	case label == "circle" || strings.HasPrefix(string(Ellipse), label):
		return Ellipse, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, label)
}

// Mask rasterizes a binary mask of the given kind and size. Pixels inside
// the silhouette are 0xff, all others 0. The silhouette fills the inclusive
// bounding box (0,0)-(width-1,height-1).
func Mask(kind Kind, width, height int) (*image.Alpha, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("invalid mask size %dx%d", width, height)
	}
	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	switch kind {
	case Rectangle:
		for i := range mask.Pix {
			mask.Pix[i] = 0xff
		}
	case Ellipse:
		fillEllipse(mask, width, height)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
	return mask, nil
}

// fillEllipse fills the ellipse inscribed in the inclusive bounding box
// (0,0)-(w-1,h-1). Degenerate 1-pixel-wide axes collapse to a line.
func fillEllipse(mask *image.Alpha, w, h int) {
	cx := float64(w-1) / 2
	cy := float64(h-1) / 2
	rx := float64(w-1) / 2
	ry := float64(h-1) / 2
	for y := 0; y < h; y++ {
		dy := 0.0
		if ry > 0 {
			dy = (float64(y) - cy) / ry
		} else if float64(y) != cy {
			continue
		}
		for x := 0; x < w; x++ {
			dx := 0.0
			if rx > 0 {
				dx = (float64(x) - cx) / rx
			} else if float64(x) != cx {
				continue
			}
			if dx*dx+dy*dy <= 1.0000001 {
				mask.Pix[y*mask.Stride+x] = 0xff
			}
		}
	}
}
