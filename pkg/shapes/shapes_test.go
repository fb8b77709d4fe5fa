package shapes

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"testing"
	"time"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		label string
		want  Kind
	}{
		{"rectangle", Rectangle},
		{"rect", Rectangle},
		{"r", Rectangle},
		{"square", Rectangle},
		{"ellipse", Ellipse},
		{"ell", Ellipse},
		{"e", Ellipse},
		{"circle", Ellipse},
		{"  Ellipse ", Ellipse},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.label)
		if err != nil {
			t.Errorf("ParseKind(%q) failed: %v", tt.label, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestParseKindUnsupported(t *testing.T) {
	for _, label := range []string{"", "triangle", "rectangles", "blob"} {
		if _, err := ParseKind(label); !errors.Is(err, ErrUnsupportedKind) {
			t.Errorf("ParseKind(%q) error = %v, want ErrUnsupportedKind", label, err)
		}
	}
}

func countSet(mask *image.Alpha) int {
	n := 0
	for _, v := range mask.Pix {
		if v == 0xff {
			n++
		}
	}
	return n
}

func TestMaskRectangle(t *testing.T) {
	mask, err := Mask(Rectangle, 7, 5)
	if err != nil {
		t.Fatalf("Mask failed: %v", err)
	}

	b := mask.Bounds()
	if b.Dx() != 7 || b.Dy() != 5 {
		t.Errorf("mask size = %dx%d, want 7x5", b.Dx(), b.Dy())
	}
	if got := countSet(mask); got != 35 {
		t.Errorf("rectangle set pixels = %d, want 35", got)
	}
}

func TestMaskEllipse(t *testing.T) {
	mask, err := Mask(Ellipse, 20, 10)
	if err != nil {
		t.Fatalf("Mask failed: %v", err)
	}

	set := countSet(mask)
	if set == 0 {
		t.Fatal("ellipse mask has no set pixels")
	}
	if set == 20*10 {
		t.Error("ellipse mask covers the whole bounding box")
	}

	// Center set, corners clear
	if mask.Pix[5*mask.Stride+10] != 0xff {
		t.Error("ellipse center is not set")
	}
	for _, pt := range []image.Point{{0, 0}, {19, 0}, {0, 9}, {19, 9}} {
		if mask.Pix[pt.Y*mask.Stride+pt.X] != 0 {
			t.Errorf("ellipse corner (%d,%d) is set", pt.X, pt.Y)
		}
	}
}

func TestMaskMinimalSizes(t *testing.T) {
	for _, kind := range []Kind{Rectangle, Ellipse} {
		for _, size := range []image.Point{{1, 1}, {1, 5}, {5, 1}} {
			mask, err := Mask(kind, size.X, size.Y)
			if err != nil {
				t.Fatalf("Mask(%q, %d, %d) failed: %v", kind, size.X, size.Y, err)
			}
			if countSet(mask) == 0 {
				t.Errorf("Mask(%q, %d, %d) has no set pixels", kind, size.X, size.Y)
			}
		}
	}
}

func TestMaskInvalid(t *testing.T) {
	if _, err := Mask(Rectangle, 0, 5); err == nil {
		t.Error("expected an error for zero width")
	}
	if _, err := Mask(Kind("blob"), 5, 5); !errors.Is(err, ErrUnsupportedKind) {
		t.Errorf("error = %v, want ErrUnsupportedKind", err)
	}
}

func TestCacheSharesMasks(t *testing.T) {
	cache := NewCache(0)

	first, err := cache.Get(Ellipse, 30, 20)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	second, err := cache.Get(Ellipse, 30, 20)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if first != second {
		t.Error("expected the same mask instance for the same key")
	}
	if !bytes.Equal(first.Pix, second.Pix) {
		t.Error("cached mask content differs between calls")
	}
	if cache.Len() != 1 {
		t.Errorf("cache holds %d masks, want 1", cache.Len())
	}
}

func TestCacheRejectsUnsupportedKind(t *testing.T) {
	cache := NewCache(0)
	if _, err := cache.Get(Kind("blob"), 10, 10); !errors.Is(err, ErrUnsupportedKind) {
		t.Errorf("error = %v, want ErrUnsupportedKind", err)
	}
	if cache.Len() != 0 {
		t.Error("failed rasterization must not be cached")
	}
}

func TestCacheEviction(t *testing.T) {
	cache := NewCache(50)

	// Deterministic clock so every access gets a distinct timestamp
	tick := time.Unix(0, 0)
	cache.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	for i := 0; i < 51; i++ {
		if _, err := cache.Get(Rectangle, 10+i, 10); err != nil {
			t.Fatalf("Get %d failed: %v", i, err)
		}
	}

	if cache.Len() != 50 {
		t.Fatalf("cache holds %d masks after 51 inserts, want 50", cache.Len())
	}
	// The first inserted key has the oldest access time and must be gone
	if cache.Contains(Rectangle, 10, 10) {
		t.Error("least recently accessed mask was not evicted")
	}
	if !cache.Contains(Rectangle, 11, 10) {
		t.Error("second oldest mask should still be resident")
	}
}

func TestCacheEvictionRespectsAccessOrder(t *testing.T) {
	cache := NewCache(50)

	tick := time.Unix(0, 0)
	cache.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	for i := 0; i < 50; i++ {
		if _, err := cache.Get(Rectangle, 10+i, 10); err != nil {
			t.Fatalf("Get %d failed: %v", i, err)
		}
	}

	// Touch the oldest entry, then overflow: the second oldest must go
	if _, err := cache.Get(Rectangle, 10, 10); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if _, err := cache.Get(Ellipse, 99, 99); err != nil {
		t.Fatalf("overflow insert failed: %v", err)
	}

	if !cache.Contains(Rectangle, 10, 10) {
		t.Error("recently touched mask was evicted")
	}
	if cache.Contains(Rectangle, 11, 10) {
		t.Error("least recently accessed mask survived eviction")
	}
	if cache.Len() != 50 {
		t.Errorf("cache holds %d masks, want 50", cache.Len())
	}
}

func TestCacheKeyIncludesKindAndSize(t *testing.T) {
	cache := NewCache(0)
	keys := []struct {
		kind Kind
		w, h int
	}{
		{Rectangle, 10, 10},
		{Ellipse, 10, 10},
		{Rectangle, 10, 11},
	}
	for _, k := range keys {
		if _, err := cache.Get(k.kind, k.w, k.h); err != nil {
			t.Fatalf("Get(%v) failed: %v", k, err)
		}
	}
	if cache.Len() != len(keys) {
		t.Errorf("cache holds %d masks, want %d", cache.Len(), len(keys))
	}
}

func ExampleParseKind() {
	kind, _ := ParseKind("circle")
	fmt.Println(kind)
	// Output: ellipse
}
