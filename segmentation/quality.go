package segmentation

// QualityConfig holds the multi-criterion accept/reject thresholds applied
// to every reconstructed instance. All criteria must pass, independently of
// order, for the instance to be accepted.
//
// MinBoxCoverage and MinMaskDensity derive from the same ratio when the box
// crop covers the whole mask, which is the common case; both knobs are kept
// so existing presets keep their meaning.
type QualityConfig struct {
	// MinBoxArea is the minimum pixel area of the bounding box.
	MinBoxArea int
	// MinMaskArea is the minimum number of active mask pixels.
	MinMaskArea int
	// MinMaskWidth and MinMaskHeight are the minimum mask patch dimensions.
	MinMaskWidth, MinMaskHeight int
	// MinBoxCoverage is the minimum AreaMask / AreaBox ratio.
	MinBoxCoverage float32
	// MinMaskDensity is the minimum fraction of active pixels within the
	// box-local crop of the mask.
	MinMaskDensity float32
	// MaxAspectRatio is the maximum max(w,h)/min(w,h) of the mask patch.
	MaxAspectRatio float32
}

// DefaultQualityConfig returns the thresholds tuned for the part
// segmentation model.
func DefaultQualityConfig() QualityConfig {
	return QualityConfig{
		MinBoxArea:     500,
		MinMaskArea:    2000,
		MinMaskWidth:   30,
		MinMaskHeight:  30,
		MinBoxCoverage: 0.4,
		MinMaskDensity: 0.1,
		MaxAspectRatio: 10.0,
	}
}

// Evaluate checks one instance against every criterion. ok is true when all
// pass; otherwise reason names the first failing criterion. The criteria are
// independent, so which one is reported first has no effect on acceptance.
func (c QualityConfig) Evaluate(inst *SegmentedInstance) (reason RejectReason, ok bool) {
	if inst.AreaBox < c.MinBoxArea {
		return RejectBoxArea, false
	}
	if inst.AreaMask < c.MinMaskArea {
		return RejectMaskArea, false
	}
	if inst.MaskWidth < c.MinMaskWidth {
		return RejectMaskWidth, false
	}
	if inst.MaskHeight < c.MinMaskHeight {
		return RejectMaskHeight, false
	}
	if inst.AreaBox > 0 {
		coverage := float32(inst.AreaMask) / float32(inst.AreaBox)
		if coverage < c.MinBoxCoverage {
			return RejectBoxCoverage, false
		}
	}
	if inst.Mask != nil {
		if inst.Mask.CropDensity(inst.Box) < c.MinMaskDensity {
			return RejectMaskDensity, false
		}
	}
	longSide := max(inst.MaskWidth, inst.MaskHeight)
	shortSide := min(inst.MaskWidth, inst.MaskHeight)
	if shortSide > 0 && float32(longSide)/float32(shortSide) > c.MaxAspectRatio {
		return RejectAspectRatio, false
	}
	return 0, true
}

// ApplyQualityGate filters instances through the quality criteria, tallying
// each rejection by reason into hist when hist is non-nil. A frame where
// every instance is rejected is a valid, empty outcome.
func ApplyQualityGate(
	instances []SegmentedInstance,
	cfg QualityConfig,
	hist map[RejectReason]int,
) []SegmentedInstance {
	accepted := make([]SegmentedInstance, 0, len(instances))
	for i := range instances {
		reason, ok := cfg.Evaluate(&instances[i])
		if !ok {
			if hist != nil {
				hist[reason]++
			}
			continue
		}
		accepted = append(accepted, instances[i])
	}
	return accepted
}
