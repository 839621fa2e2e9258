package yoloseg

import (
	"github.com/nvr-ai/go-seg/images"
	"github.com/nvr-ai/go-seg/models/postprocess"
)

// ConvertBoxes maps normalized center-format candidate boxes into clipped,
// axis-aligned pixel rectangles.
//
//	x1 = (cx - w/2) * W    x2 = (cx + w/2) * W
//	y1 = (cy - h/2) * H    y2 = (cy + h/2) * H
//
// Each corner is clipped to the canvas; x2/y2 are exclusive edges. A
// candidate whose clipped box has no area is dropped silently and counted,
// never treated as an error.
//
// Arguments:
//   - candidates: Decoded candidates with normalized boxes.
//   - width, height: The image canvas dimensions in pixels.
//
// Returns:
//   - The surviving detections with pixel boxes, in input order.
//   - The number of candidates dropped for degenerate geometry.
func ConvertBoxes(candidates []Candidate, width, height int) ([]postprocess.Result, int) {
	results := make([]postprocess.Result, 0, len(candidates))
	dropped := 0

	fw := float32(width)
	fh := float32(height)
	for _, c := range candidates {
		box := images.Rect{
			X1: int(clamp((c.CX-c.W/2)*fw, 0, fw-1)),
			Y1: int(clamp((c.CY-c.H/2)*fh, 0, fh-1)),
			X2: int(clamp((c.CX+c.W/2)*fw, 0, fw)),
			Y2: int(clamp((c.CY+c.H/2)*fh, 0, fh)),
		}
		if box.Empty() {
			dropped++
			continue
		}
		results = append(results, postprocess.Result{
			Box:    box,
			Score:  c.Score,
			Class:  0,
			Anchor: c.Anchor,
			Coeffs: c.Coeffs,
		})
	}

	return results, dropped
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
