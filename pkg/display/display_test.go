package display

import (
	"math/big"
	"testing"
)

func TestRatioSmallImage(t *testing.T) {
	// Images fitting the canvas are never scaled
	for _, dim := range []int{1, 100, 719, 720} {
		r := Ratio(dim, 720)
		if r.Cmp(big.NewRat(1, 1)) != 0 {
			t.Errorf("Ratio(%d, 720) = %s, want 1", dim, r.RatString())
		}
	}
}

func TestRatioStaircase(t *testing.T) {
	tests := []struct {
		image  int
		canvas int
		want   *big.Rat
	}{
		// raw <= 3: rounded up to quarters
		{1280, 720, big.NewRat(2, 1)},
		{900, 720, big.NewRat(5, 4)},
		{2000, 720, big.NewRat(3, 1)},
		// 3 < raw <= 5: rounded up to halves
		{3000, 720, big.NewRat(9, 2)},
		{2200, 720, big.NewRat(7, 2)},
		// raw > 5: rounded up to whole numbers
		{4000, 720, big.NewRat(6, 1)},
		{7201, 720, big.NewRat(11, 1)},
	}

	for _, tt := range tests {
		got := Ratio(tt.image, tt.canvas)
		if got.Cmp(tt.want) != 0 {
			t.Errorf("Ratio(%d, %d) = %s, want %s",
				tt.image, tt.canvas, got.RatString(), tt.want.RatString())
		}
	}
}

func TestRatioUnboundedCanvas(t *testing.T) {
	if r := Ratio(5000, 0); r.Cmp(big.NewRat(1, 1)) != 0 {
		t.Errorf("Ratio with unbounded canvas = %s, want 1", r.RatString())
	}
}

func TestMapperPicksLargerRatio(t *testing.T) {
	// Width ratio 2, height ratio 4 -> overall 4 preserves the aspect ratio
	m := NewMapper(1440, 1620, 720, 405)
	if m.Scale().Cmp(big.NewRat(4, 1)) != 0 {
		t.Errorf("Scale() = %s, want 4", m.Scale().RatString())
	}
}

func TestMapperIdentity(t *testing.T) {
	m := NewMapper(640, 360, 720, 405)
	if m.Scales() {
		t.Error("expected no scaling for an image smaller than the canvas")
	}
	if got := m.ToDisplay(123); got != 123 {
		t.Errorf("ToDisplay(123) = %d, want 123", got)
	}
	if got := m.FromDisplay(123); got != 123 {
		t.Errorf("FromDisplay(123) = %d, want 123", got)
	}
}

func TestMapperConversions(t *testing.T) {
	// 3000x100 on a 720x405 canvas: ratio 9/2
	m := NewMapper(3000, 100, 720, 405)
	if m.Scale().Cmp(big.NewRat(9, 2)) != 0 {
		t.Fatalf("Scale() = %s, want 9/2", m.Scale().RatString())
	}

	if got := m.ToDisplay(3000); got != 666 {
		t.Errorf("ToDisplay(3000) = %d, want 666", got)
	}
	if got := m.FromDisplay(100); got != 450 {
		t.Errorf("FromDisplay(100) = %d, want 450", got)
	}
}

func TestMapperRoundTrip(t *testing.T) {
	m := NewMapper(1440, 810, 720, 405)

	for _, length := range []int{0, 2, 100, 720, 1440} {
		display := m.ToDisplay(length)
		back := m.FromDisplay(display)
		// Round trip must land within one ratio step of the original
		if diff := length - back; diff < 0 || diff > 2 {
			t.Errorf("round trip of %d came back as %d", length, back)
		}
	}
}
