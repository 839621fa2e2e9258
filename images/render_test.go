package images

import (
	"image/color"
	"testing"
)

func TestRenderOverlay(t *testing.T) {
	a := NewMask(20, 20)
	fillRect(a, Rect{X1: 0, Y1: 0, X2: 5, Y2: 5})
	b := NewMask(20, 20)
	fillRect(b, Rect{X1: 4, Y1: 0, X2: 8, Y2: 5})

	red := color.NRGBA{R: 255, A: 160}
	green := color.NRGBA{G: 255, A: 160}
	img := RenderOverlay(20, 20, []OverlayLayer{
		{Mask: a, Color: red},
		{Mask: b, Color: green},
	})

	if got := img.NRGBAAt(1, 1); got != red {
		t.Errorf("pixel (1,1) = %v, want %v", got, red)
	}
	if got := img.NRGBAAt(6, 1); got != green {
		t.Errorf("pixel (6,1) = %v, want %v", got, green)
	}
	// Later layers win where masks overlap.
	if got := img.NRGBAAt(4, 1); got != green {
		t.Errorf("overlap pixel (4,1) = %v, want %v", got, green)
	}
	// Untouched pixels stay transparent.
	if got := img.NRGBAAt(15, 15); got != (color.NRGBA{}) {
		t.Errorf("background pixel = %v, want transparent", got)
	}

	// Nil masks are skipped, not a panic.
	_ = RenderOverlay(20, 20, []OverlayLayer{{Mask: nil, Color: red}})
}

func TestScaleOverlay(t *testing.T) {
	m := NewMask(10, 10)
	fillRect(m, Rect{X1: 0, Y1: 0, X2: 10, Y2: 10})
	img := RenderOverlay(10, 10, []OverlayLayer{{Mask: m, Color: color.NRGBA{R: 255, A: 255}}})

	scaled := ScaleOverlay(img, 40, 40)
	bounds := scaled.Bounds()
	if bounds.Dx() != 40 || bounds.Dy() != 40 {
		t.Errorf("scaled bounds = %v, want 40x40", bounds)
	}
}
