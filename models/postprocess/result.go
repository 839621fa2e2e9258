// Package postprocess - model-agnostic postprocessing of detection results.
package postprocess

import "github.com/nvr-ai/go-seg/images"

// Result represents a single detection surviving decode and box conversion.
type Result struct {
	// The bounding box of the result, in image pixel space.
	Box images.Rect
	// The confidence score of the result, after sigmoid.
	Score float32
	// The predicted class index of the result.
	Class int
	// Anchor is the index of the source anchor in the detection tensor. It
	// breaks confidence ties so repeated runs order identically.
	Anchor int
	// Coeffs are the mask-basis coefficients attached to this anchor, one
	// per prototype channel.
	Coeffs []float32
}
