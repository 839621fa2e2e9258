package segmentation

import (
	"image"
	"image/color"

	"github.com/nvr-ai/go-seg/images"
)

// Consolidated instances render green, untouched singletons red.
var (
	fusedTint     = color.NRGBA{G: 255, A: 160}
	singletonTint = color.NRGBA{R: 255, A: 160}
)

// RenderOverlay paints the instance masks of a frame onto a transparent
// canvas for visual inspection of what the pipeline accepted and fused. The
// caller owns encoding and display.
func RenderOverlay(instances []FusedInstance, width, height int) *image.NRGBA {
	layers := make([]images.OverlayLayer, 0, len(instances))
	for i := range instances {
		tint := singletonTint
		if instances[i].Fused {
			tint = fusedTint
		}
		layers = append(layers, images.OverlayLayer{
			Mask:  instances[i].Mask,
			Color: tint,
		})
	}
	return images.RenderOverlay(width, height, layers)
}
