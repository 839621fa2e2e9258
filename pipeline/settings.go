package pipeline

import (
	"github.com/nvr-ai/go-seg/models"
	"github.com/nvr-ai/go-seg/models/postprocess"
	"github.com/nvr-ai/go-seg/models/yoloseg"
	"github.com/nvr-ai/go-seg/segmentation"
)

// Settings is the single flat configuration of a frame analysis. Named
// presets only select different numeric values for this same struct; the
// stages themselves never see the preset name.
type Settings struct {
	// ConfidenceMin is the post-sigmoid confidence floor of the decoder.
	ConfidenceMin float32
	// IoUThreshold is the NMS suppression threshold.
	IoUThreshold float32
	// CoeffCount is K, the mask-basis rank of the model.
	CoeffCount int
	// Workers caps the mask reconstruction goroutines; zero means one per
	// CPU.
	Workers int
	// Classes maps class indices to labels on emitted instances; nil means
	// the stock part segmentation labels.
	Classes *models.ClassSet

	// Quality gate thresholds.
	MinBoxArea     int
	MinMaskArea    int
	MinMaskWidth   int
	MinMaskHeight  int
	MinBoxCoverage float32
	MinMaskDensity float32
	MaxAspectRatio float32

	// Fusion parameters.
	FusionDistanceMax float32
	FusionOverlapMin  float32
	FusionAreaMin     int
}

// ModerateSettings is the default profile: the model's stock thresholds
// with balanced fusion.
func ModerateSettings() Settings {
	return Settings{
		ConfidenceMin:     0.6,
		IoUThreshold:      0.45,
		CoeffCount:        32,
		MinBoxArea:        500,
		MinMaskArea:       2000,
		MinMaskWidth:      30,
		MinMaskHeight:     30,
		MinBoxCoverage:    0.4,
		MinMaskDensity:    0.1,
		MaxAspectRatio:    10.0,
		FusionDistanceMax: 30,
		FusionOverlapMin:  0.1,
		FusionAreaMin:     100,
	}
}

// ConservativeSettings fuses only fragments that are clearly one object:
// tighter distance, higher required overlap, larger minimum cluster.
func ConservativeSettings() Settings {
	s := ModerateSettings()
	s.FusionDistanceMax = 20
	s.FusionOverlapMin = 0.2
	s.FusionAreaMin = 200
	return s
}

// AggressiveSettings consolidates eagerly, accepting farther and fainter
// fragments. Useful when the model splits parts often.
func AggressiveSettings() Settings {
	s := ModerateSettings()
	s.FusionDistanceMax = 50
	s.FusionOverlapMin = 0.05
	s.FusionAreaMin = 50
	return s
}

func (s Settings) decoderConfig() yoloseg.Config {
	return yoloseg.Config{
		CoeffCount:    s.CoeffCount,
		ConfidenceMin: s.ConfidenceMin,
	}
}

func (s Settings) nmsConfig() postprocess.NMSConfig {
	return postprocess.NMSConfig{IoUThreshold: s.IoUThreshold}
}

func (s Settings) reconstructConfig() segmentation.ReconstructConfig {
	return segmentation.ReconstructConfig{Workers: s.Workers}
}

func (s Settings) qualityConfig() segmentation.QualityConfig {
	return segmentation.QualityConfig{
		MinBoxArea:     s.MinBoxArea,
		MinMaskArea:    s.MinMaskArea,
		MinMaskWidth:   s.MinMaskWidth,
		MinMaskHeight:  s.MinMaskHeight,
		MinBoxCoverage: s.MinBoxCoverage,
		MinMaskDensity: s.MinMaskDensity,
		MaxAspectRatio: s.MaxAspectRatio,
	}
}

func (s Settings) fusionConfig() segmentation.FusionConfig {
	return segmentation.FusionConfig{
		DistanceMax: s.FusionDistanceMax,
		OverlapMin:  s.FusionOverlapMin,
		AreaMin:     s.FusionAreaMin,
	}
}
