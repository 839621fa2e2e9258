package images

import "image"

// ActiveThreshold is the value above which a mask pixel counts as active.
// Reconstructed masks hold sigmoid outputs in (0, 1); 0.5 is the decision
// boundary of the segmentation head.
const ActiveThreshold = 0.5

// Mask is a dense single-channel float mask on a full image canvas.
//
// Pixel values are stored row-major in Data; anything above ActiveThreshold
// is considered part of the object. A zero value outside the pasted patch is
// always inactive, so area and centroid computations over the whole canvas
// are equivalent to computing them over the patch alone.
type Mask struct {
	W, H int
	Data []float32
}

// NewMask allocates a zeroed w by h mask.
func NewMask(w, h int) *Mask {
	return &Mask{W: w, H: h, Data: make([]float32, w*h)}
}

// At returns the value at (x, y). The caller is responsible for bounds.
func (m *Mask) At(x, y int) float32 { return m.Data[y*m.W+x] }

// Set stores v at (x, y). The caller is responsible for bounds.
func (m *Mask) Set(x, y int, v float32) { m.Data[y*m.W+x] = v }

// Active reports whether the pixel at (x, y) is above the activation
// threshold.
func (m *Mask) Active(x, y int) bool { return m.Data[y*m.W+x] > ActiveThreshold }

// Area counts the active pixels of the mask.
func (m *Mask) Area() int {
	n := 0
	for _, v := range m.Data {
		if v > ActiveThreshold {
			n++
		}
	}
	return n
}

// Centroid returns the mean coordinate of the active pixels. ok is false
// when the mask has no active pixels, in which case the caller should fall
// back to a geometric center.
func (m *Mask) Centroid() (pt image.Point, ok bool) {
	var sumX, sumY, n int
	for y := 0; y < m.H; y++ {
		row := m.Data[y*m.W : (y+1)*m.W]
		for x, v := range row {
			if v > ActiveThreshold {
				sumX += x
				sumY += y
				n++
			}
		}
	}
	if n == 0 {
		return image.Point{}, false
	}
	return image.Pt(sumX/n, sumY/n), true
}

// ActiveBounds returns the tight bounding rectangle of the active pixels.
// ok is false when the mask is entirely inactive.
func (m *Mask) ActiveBounds() (r Rect, ok bool) {
	r = Rect{X1: m.W, Y1: m.H, X2: 0, Y2: 0}
	for y := 0; y < m.H; y++ {
		row := m.Data[y*m.W : (y+1)*m.W]
		for x, v := range row {
			if v > ActiveThreshold {
				ok = true
				if x < r.X1 {
					r.X1 = x
				}
				if x+1 > r.X2 {
					r.X2 = x + 1
				}
				if y < r.Y1 {
					r.Y1 = y
				}
				if y+1 > r.Y2 {
					r.Y2 = y + 1
				}
			}
		}
	}
	if !ok {
		return Rect{}, false
	}
	return r, true
}

// IntersectionArea counts the pixels active in both masks. The masks must
// share the same canvas dimensions.
func (m *Mask) IntersectionArea(o *Mask) int {
	n := 0
	for i, v := range m.Data {
		if v > ActiveThreshold && o.Data[i] > ActiveThreshold {
			n++
		}
	}
	return n
}

// UnionInto ORs the active pixels of m into dst, which must share the same
// canvas dimensions. Active source pixels are written as 1.0 so repeated
// unions stay idempotent.
func (m *Mask) UnionInto(dst *Mask) {
	for i, v := range m.Data {
		if v > ActiveThreshold {
			dst.Data[i] = 1.0
		}
	}
}

// CropDensity returns the fraction of active pixels within r, clipped to the
// canvas. Returns 0 when the clipped region is empty.
func (m *Mask) CropDensity(r Rect) float32 {
	x1 := max(r.X1, 0)
	y1 := max(r.Y1, 0)
	x2 := min(r.X2, m.W)
	y2 := min(r.Y2, m.H)
	if x2 <= x1 || y2 <= y1 {
		return 0
	}
	active := 0
	for y := y1; y < y2; y++ {
		row := m.Data[y*m.W : (y+1)*m.W]
		for x := x1; x < x2; x++ {
			if row[x] > ActiveThreshold {
				active++
			}
		}
	}
	return float32(active) / float32((x2-x1)*(y2-y1))
}
