// Package images - shared geometry primitives for detection and segmentation.
package images

// Rect is a lightweight bounding box in pixel space.
type Rect struct {
	// X2,Y2 are exclusive (like image.Rectangle).
	X1, Y1, X2, Y2 int
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() int { return r.X2 - r.X1 }

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() int { return r.Y2 - r.Y1 }

// Area returns the pixel area of the rectangle, or 0 when degenerate.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return (r.X2 - r.X1) * (r.Y2 - r.Y1)
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool { return r.X2 <= r.X1 || r.Y2 <= r.Y1 }

// CenterX returns the horizontal center of the rectangle.
func (r Rect) CenterX() int { return (r.X1 + r.X2) / 2 }

// CenterY returns the vertical center of the rectangle.
func (r Rect) CenterY() int { return (r.Y1 + r.Y2) / 2 }

// CalculateIoU computes the Intersection over Union of two rectangles.
//
// IoU = Area of Intersection / Area of Union, in [0, 1]. 1.0 means the
// rectangles coincide, 0.0 means they do not overlap at all. The union is
// computed by inclusion-exclusion:
//
//	Union(A, B) = Area(A) + Area(B) - Intersection(A, B)
//
// Arguments:
//   - r: The first rectangle.
//   - o: The other rectangle to compare against.
//
// Returns:
//   - float32: A value between 0.0 and 1.0 representing the IoU score.
func CalculateIoU(r, o Rect) float32 {
	// The overlap can't start before both rectangles have begun, and must end
	// as soon as the first one ends.
	ix1 := max(r.X1, o.X1)
	iy1 := max(r.Y1, o.Y1)
	ix2 := min(r.X2, o.X2)
	iy2 := min(r.Y2, o.Y2)

	interW := ix2 - ix1
	interH := iy2 - iy1
	if interW <= 0 || interH <= 0 {
		return 0.0
	}
	interArea := interW * interH

	union := r.Area() + o.Area() - interArea
	if union <= 0 {
		return 0.0
	}

	return float32(interArea) / float32(union)
}
