package images

import (
	"image"
	"image/color"

	"github.com/nfnt/resize"
)

// OverlayLayer pairs a mask with the tint it should be painted in.
type OverlayLayer struct {
	Mask  *Mask
	Color color.NRGBA
}

// RenderOverlay paints the active pixels of each layer onto a transparent
// w by h canvas. Later layers win where masks overlap. The result is an
// in-memory diagnostic image; encoding or persisting it is the caller's
// concern.
func RenderOverlay(w, h int, layers []OverlayLayer) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for _, layer := range layers {
		m := layer.Mask
		if m == nil {
			continue
		}
		my := min(m.H, h)
		mx := min(m.W, w)
		for y := 0; y < my; y++ {
			for x := 0; x < mx; x++ {
				if m.Active(x, y) {
					img.SetNRGBA(x, y, layer.Color)
				}
			}
		}
	}
	return img
}

// ScaleOverlay resizes a rendered overlay to the requested display
// resolution using bilinear interpolation.
func ScaleOverlay(img image.Image, w, h uint) image.Image {
	return resize.Resize(w, h, img, resize.Bilinear)
}
