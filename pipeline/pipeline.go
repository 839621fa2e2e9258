// Package pipeline - composes the instance segmentation stages into one
// frame analysis: decode, box conversion, NMS, mask reconstruction, quality
// gate and fusion, strictly left to right.
//
// The pipeline consumes two numeric tensors plus a settings object and
// returns geometric instances. It does not capture frames, does not run the
// neural network and does not write any file; the inference session and any
// persistence are external collaborators. Every stage is a pure function
// over immutable per-frame inputs, so independent frames may be processed
// concurrently through the same Pipeline.
package pipeline

import (
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/nvr-ai/go-seg/models"
	"github.com/nvr-ai/go-seg/models/postprocess"
	"github.com/nvr-ai/go-seg/models/yoloseg"
	"github.com/nvr-ai/go-seg/segmentation"
)

// RawOutput is what the external inference engine produced for one image:
// the detection tensor [5+K, A], the prototype tensor [K, Hp, Wp], and the
// canvas the output geometry is expressed in. Both tensors are read-only for
// the duration of the call.
type RawOutput struct {
	Detections  *tensor.Dense
	Prototypes  *tensor.Dense
	ImageWidth  int
	ImageHeight int
}

// FrameResult is the immutable outcome of one frame analysis.
type FrameResult struct {
	// Instances is the final list, ordered by descending confidence.
	Instances []segmentation.FusedInstance
	// Report is the diagnostic breakdown of the frame.
	Report *Report
}

// Pipeline runs the full segmentation postprocess for one model.
type Pipeline struct {
	settings Settings
	classes  *models.ClassSet
	logger   golog.Logger
}

// New returns a Pipeline with the given settings. A nil logger falls back to
// the global one.
func New(settings Settings, logger golog.Logger) *Pipeline {
	if logger == nil {
		logger = golog.Global()
	}
	classes := settings.Classes
	if classes == nil {
		classes = models.PartClasses()
	}
	return &Pipeline{settings: settings, classes: classes, logger: logger}
}

// Process analyzes one frame's raw model output.
//
// The only failure mode is a malformed tensor contract
// (yoloseg.ErrMalformedInput); everything else, including a frame where
// nothing survives, is a successful result with an empty instance list and a
// populated rejection histogram. Process never mutates its input.
func (p *Pipeline) Process(raw RawOutput) (*FrameResult, error) {
	if raw.ImageWidth <= 0 || raw.ImageHeight <= 0 {
		return nil, errors.Wrapf(yoloseg.ErrMalformedInput,
			"image canvas %dx%d must be positive", raw.ImageWidth, raw.ImageHeight)
	}

	report := newReport()

	var detections []postprocess.Result
	var decodeErr error
	report.timeStage(StageDecode, func() {
		var candidates []yoloseg.Candidate
		candidates, decodeErr = yoloseg.Decode(raw.Detections, p.settings.decoderConfig())
		if decodeErr != nil {
			return
		}
		report.Decoded = len(candidates)

		var dropped int
		detections, dropped = yoloseg.ConvertBoxes(candidates, raw.ImageWidth, raw.ImageHeight)
		report.Converted = len(detections)
		report.Rejections[segmentation.RejectDegenerateBox] += dropped
	})
	if decodeErr != nil {
		return nil, decodeErr
	}

	report.timeStage(StageNMS, func() {
		detections = postprocess.ApplyGreedyNMS(detections, p.settings.nmsConfig())
		report.Kept = len(detections)
	})

	var instances []segmentation.SegmentedInstance
	var reconstructErr error
	report.timeStage(StageReconstruct, func() {
		var dropped int
		instances, dropped, reconstructErr = segmentation.ReconstructMasks(
			detections, raw.Prototypes, raw.ImageWidth, raw.ImageHeight,
			p.settings.reconstructConfig())
		if reconstructErr != nil {
			return
		}
		report.Reconstructed = len(instances)
		report.Rejections[segmentation.RejectDegenerateMask] += dropped
	})
	if reconstructErr != nil {
		return nil, reconstructErr
	}

	report.timeStage(StageQuality, func() {
		instances = segmentation.ApplyQualityGate(
			instances, p.settings.qualityConfig(), report.Rejections)
		report.Accepted = len(instances)
	})

	var fused []segmentation.FusedInstance
	report.timeStage(StageFusion, func() {
		fused = segmentation.FuseInstances(instances, p.settings.fusionConfig(), p.logger)
		report.Emitted = len(fused)
	})
	for i := range fused {
		fused[i].Label = p.classes.Label(fused[i].Class)
	}

	if report.Emitted == 0 && report.TotalRejected() > 0 {
		p.logger.Debugw("frame produced no instances",
			"decoded", report.Decoded,
			"rejected", report.TotalRejected(),
		)
	}

	return &FrameResult{Instances: fused, Report: report}, nil
}
