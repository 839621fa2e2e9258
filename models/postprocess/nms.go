package postprocess

import (
	"sort"

	"github.com/nvr-ai/go-seg/images"
)

// NMSConfig defines parameters for Non-Maximum Suppression.
type NMSConfig struct {
	// IoUThreshold is the overlap at or above which the lower-scored of two
	// boxes is suppressed.
	IoUThreshold float32
}

// DefaultNMSConfig returns the suppression threshold used by the
// segmentation models.
func DefaultNMSConfig() NMSConfig {
	return NMSConfig{IoUThreshold: 0.45}
}

// ApplyGreedyNMS filters overlapping detections using greedy Non-Maximum
// Suppression.
//
// Detections are ordered by descending score before suppression; equal
// scores are broken by ascending anchor index, so the output is fully
// determined by the input regardless of its initial order. A detection is
// kept only if its IoU with every already-kept detection stays below the
// threshold. Suppression is class-blind: the segmentation models here are
// single class.
//
// Arguments:
//   - detections: Candidate detections in any order.
//   - config: NMS configuration.
//
// Returns:
//   - Filtered slice of detections, highest score first. If no detections
//     are provided, returns nil.
func ApplyGreedyNMS(detections []Result, config NMSConfig) []Result {
	n := len(detections)
	if n == 0 {
		return nil
	}

	ordered := make([]Result, n)
	copy(ordered, detections)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Score != ordered[j].Score {
			return ordered[i].Score > ordered[j].Score
		}
		return ordered[i].Anchor < ordered[j].Anchor
	})

	filtered := make([]Result, 0, n)
	for _, cand := range ordered {
		keep := true
		for _, kept := range filtered {
			if images.CalculateIoU(cand.Box, kept.Box) >= config.IoUThreshold {
				keep = false
				break
			}
		}
		if keep {
			filtered = append(filtered, cand)
		}
	}

	return filtered
}
