package pipeline

import (
	"time"

	"github.com/nvr-ai/go-seg/segmentation"
)

// Stage names a pipeline stage in the timing report.
type Stage string

const (
	// StageDecode covers tensor decode and box conversion.
	StageDecode Stage = "decode"
	// StageNMS covers non-maximum suppression.
	StageNMS Stage = "nms"
	// StageReconstruct covers prototype mask reconstruction.
	StageReconstruct Stage = "reconstruct"
	// StageQuality covers the quality gate.
	StageQuality Stage = "quality"
	// StageFusion covers fragment consolidation.
	StageFusion Stage = "fusion"
)

// Report is the per-frame diagnostic breakdown: how many candidates each
// stage saw, per-reason rejection counts, and per-stage wall-clock time.
// It is informational only; an empty frame with a full rejection histogram
// is still a successful analysis.
type Report struct {
	// Decoded is the number of anchors above the confidence floor.
	Decoded int
	// Converted is the number of candidates with a valid pixel box.
	Converted int
	// Kept is the number of detections surviving NMS.
	Kept int
	// Reconstructed is the number of instances with a valid mask.
	Reconstructed int
	// Accepted is the number of instances passing the quality gate.
	Accepted int
	// Emitted is the number of final instances after fusion.
	Emitted int

	// Rejections tallies dropped candidates and instances by reason.
	Rejections map[segmentation.RejectReason]int

	// Durations holds the wall-clock time spent in each stage.
	Durations map[Stage]time.Duration
}

func newReport() *Report {
	return &Report{
		Rejections: make(map[segmentation.RejectReason]int),
		Durations:  make(map[Stage]time.Duration),
	}
}

// timeStage records the duration of fn under the given stage.
func (r *Report) timeStage(stage Stage, fn func()) {
	start := time.Now()
	fn()
	r.Durations[stage] += time.Since(start)
}

// TotalRejected sums the rejection histogram.
func (r *Report) TotalRejected() int {
	total := 0
	for _, n := range r.Rejections {
		total += n
	}
	return total
}
