package images

import (
	"image"
	"testing"
)

// fillRect activates a rectangular region of the mask.
func fillRect(m *Mask, r Rect) {
	for y := r.Y1; y < r.Y2; y++ {
		for x := r.X1; x < r.X2; x++ {
			m.Set(x, y, 1.0)
		}
	}
}

func TestMaskAreaAndCentroid(t *testing.T) {
	m := NewMask(100, 100)
	if m.Area() != 0 {
		t.Errorf("empty mask area = %d, want 0", m.Area())
	}
	if _, ok := m.Centroid(); ok {
		t.Error("empty mask should have no centroid")
	}

	fillRect(m, Rect{X1: 10, Y1: 20, X2: 20, Y2: 40})
	if m.Area() != 200 {
		t.Errorf("area = %d, want 200", m.Area())
	}

	c, ok := m.Centroid()
	if !ok {
		t.Fatal("mask should have a centroid")
	}
	// Mean of 10..19 is 14 (integer division), mean of 20..39 is 29.
	if c != image.Pt(14, 29) {
		t.Errorf("centroid = %v, want (14, 29)", c)
	}
}

func TestMaskThresholdBoundary(t *testing.T) {
	m := NewMask(4, 1)
	m.Set(0, 0, 0.5) // exactly at the threshold: inactive
	m.Set(1, 0, 0.51)
	m.Set(2, 0, 0.49)
	if m.Area() != 1 {
		t.Errorf("area = %d, want 1 (0.5 itself is inactive)", m.Area())
	}
}

func TestMaskActiveBounds(t *testing.T) {
	m := NewMask(50, 50)
	if _, ok := m.ActiveBounds(); ok {
		t.Error("empty mask should have no bounds")
	}

	fillRect(m, Rect{X1: 5, Y1: 7, X2: 12, Y2: 30})
	m.Set(40, 2, 1.0)
	bounds, ok := m.ActiveBounds()
	if !ok {
		t.Fatal("mask should have bounds")
	}
	want := Rect{X1: 5, Y1: 2, X2: 41, Y2: 30}
	if bounds != want {
		t.Errorf("bounds = %v, want %v", bounds, want)
	}
}

func TestMaskIntersectionAndUnion(t *testing.T) {
	a := NewMask(100, 100)
	b := NewMask(100, 100)
	fillRect(a, Rect{X1: 0, Y1: 0, X2: 20, Y2: 20})   // 400 px
	fillRect(b, Rect{X1: 10, Y1: 0, X2: 30, Y2: 20}) // 400 px, 200 shared

	if got := a.IntersectionArea(b); got != 200 {
		t.Errorf("intersection = %d, want 200", got)
	}
	if got := b.IntersectionArea(a); got != 200 {
		t.Errorf("intersection not symmetric: %d", got)
	}

	union := NewMask(100, 100)
	a.UnionInto(union)
	b.UnionInto(union)
	if got := union.Area(); got != 600 {
		t.Errorf("union area = %d, want 600", got)
	}

	// Union is idempotent.
	a.UnionInto(union)
	if got := union.Area(); got != 600 {
		t.Errorf("union area after repeat = %d, want 600", got)
	}
}

func TestMaskCropDensity(t *testing.T) {
	m := NewMask(100, 100)
	fillRect(m, Rect{X1: 0, Y1: 0, X2: 10, Y2: 10}) // 100 active px

	tests := []struct {
		name string
		r    Rect
		want float32
	}{
		{"exact box", Rect{0, 0, 10, 10}, 1.0},
		{"double box", Rect{0, 0, 20, 10}, 0.5},
		{"disjoint box", Rect{50, 50, 60, 60}, 0.0},
		{"degenerate box", Rect{5, 5, 5, 5}, 0.0},
		{"box past canvas clips", Rect{0, 0, 200, 10}, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.CropDensity(tt.r); got != tt.want {
				t.Errorf("CropDensity(%v) = %f, want %f", tt.r, got, tt.want)
			}
		})
	}
}
