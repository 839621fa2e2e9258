// Package segmentation - turns surviving detections into geometrically valid,
// deduplicated object instances: prototype mask reconstruction, the
// multi-criterion quality gate, and fusion of instance fragments.
package segmentation

import (
	"image"

	"github.com/nvr-ai/go-seg/images"
)

// SegmentedInstance is one reconstructed object instance on the full image
// canvas.
type SegmentedInstance struct {
	// Class is the predicted class index.
	Class int
	// Label is the human-readable class name, when the caller supplied a
	// class set.
	Label string
	// Confidence is the detection confidence, in [0, 1].
	Confidence float32
	// Box is the detection bounding box in pixel space.
	Box images.Rect
	// Centroid is the mean coordinate of the active mask pixels, or the box
	// center when the mask is empty.
	Centroid image.Point
	// AreaBox is the pixel area of Box.
	AreaBox int
	// Mask is the dense mask on the full canvas. The mask is generated
	// strictly within Box, so AreaMask <= AreaBox before fusion.
	Mask *images.Mask
	// AreaMask is the number of active mask pixels.
	AreaMask int
	// MaskWidth and MaskHeight are the box dimensions the mask patch was
	// generated at.
	MaskWidth, MaskHeight int
}

// FusedInstance is a SegmentedInstance annotated with its fusion provenance.
type FusedInstance struct {
	SegmentedInstance
	// Fused reports whether this instance was merged from several fragments.
	Fused bool
	// SourceCount is the number of original detections behind this instance,
	// always >= 1.
	SourceCount int
}

// RejectReason classifies why a candidate or instance was discarded before
// fusion. Rejections are diagnostics, never errors; they are tallied per
// frame so threshold tuning can see what a preset is filtering out.
type RejectReason int

const (
	// RejectDegenerateBox - the clipped pixel box had no area.
	RejectDegenerateBox RejectReason = iota
	// RejectDegenerateMask - the mask patch was fully clipped off canvas.
	RejectDegenerateMask
	// RejectBoxArea - box area below the minimum.
	RejectBoxArea
	// RejectMaskArea - active mask area below the minimum.
	RejectMaskArea
	// RejectMaskWidth - mask narrower than the minimum.
	RejectMaskWidth
	// RejectMaskHeight - mask shorter than the minimum.
	RejectMaskHeight
	// RejectBoxCoverage - mask covered too little of its box.
	RejectBoxCoverage
	// RejectMaskDensity - too few active pixels inside the box crop.
	RejectMaskDensity
	// RejectAspectRatio - box more elongated than allowed.
	RejectAspectRatio
)

func (r RejectReason) String() string {
	switch r {
	case RejectDegenerateBox:
		return "degenerate_box"
	case RejectDegenerateMask:
		return "degenerate_mask"
	case RejectBoxArea:
		return "box_area"
	case RejectMaskArea:
		return "mask_area"
	case RejectMaskWidth:
		return "mask_width"
	case RejectMaskHeight:
		return "mask_height"
	case RejectBoxCoverage:
		return "box_coverage"
	case RejectMaskDensity:
		return "mask_density"
	case RejectAspectRatio:
		return "aspect_ratio"
	default:
		return "unknown"
	}
}
