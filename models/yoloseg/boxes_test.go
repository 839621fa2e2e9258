package yoloseg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-seg/images"
)

func TestConvertBoxesCenterToPixel(t *testing.T) {
	candidates := []Candidate{
		{CX: 0.5, CY: 0.5, W: 0.25, H: 0.5, Score: 0.8, Anchor: 7, Coeffs: []float32{1, 2}},
	}

	got, dropped := ConvertBoxes(candidates, 640, 640)
	require.Len(t, got, 1)
	assert.Zero(t, dropped)

	want := images.Rect{X1: 240, Y1: 160, X2: 400, Y2: 480}
	assert.Equal(t, want, got[0].Box)
	assert.Equal(t, float32(0.8), got[0].Score)
	assert.Equal(t, 7, got[0].Anchor)
	assert.Equal(t, []float32{1, 2}, got[0].Coeffs)
}

func TestConvertBoxesClipsToCanvas(t *testing.T) {
	candidates := []Candidate{
		// Box spills over every edge; corners clip to the canvas.
		{CX: 0.0, CY: 0.0, W: 0.5, H: 0.5, Score: 0.9, Anchor: 0},
		{CX: 1.0, CY: 1.0, W: 0.5, H: 0.5, Score: 0.9, Anchor: 1},
	}

	got, dropped := ConvertBoxes(candidates, 640, 480)
	require.Len(t, got, 2)
	assert.Zero(t, dropped)

	assert.Equal(t, images.Rect{X1: 0, Y1: 0, X2: 160, Y2: 120}, got[0].Box)
	assert.Equal(t, images.Rect{X1: 480, Y1: 360, X2: 640, Y2: 480}, got[1].Box)

	for _, r := range got {
		assert.GreaterOrEqual(t, r.Box.X1, 0)
		assert.GreaterOrEqual(t, r.Box.Y1, 0)
		assert.LessOrEqual(t, r.Box.X2, 640)
		assert.LessOrEqual(t, r.Box.Y2, 480)
	}
}

func TestConvertBoxesDropsDegenerate(t *testing.T) {
	candidates := []Candidate{
		// Negative width inverts the corners: x2 < x1 after conversion.
		{CX: 0.5, CY: 0.5, W: -0.2, H: 0.2, Score: 0.9, Anchor: 0},
		// Zero size collapses to a point.
		{CX: 0.5, CY: 0.5, W: 0, H: 0, Score: 0.9, Anchor: 1},
		// Entirely left of the canvas: clips to a zero-width sliver.
		{CX: -0.5, CY: 0.5, W: 0.1, H: 0.1, Score: 0.9, Anchor: 2},
		// Healthy box survives.
		{CX: 0.5, CY: 0.5, W: 0.2, H: 0.2, Score: 0.9, Anchor: 3},
	}

	got, dropped := ConvertBoxes(candidates, 640, 640)
	require.Len(t, got, 1)
	assert.Equal(t, 3, dropped)
	assert.Equal(t, 3, got[0].Anchor)
}

func TestConvertBoxesEmptyInput(t *testing.T) {
	got, dropped := ConvertBoxes(nil, 640, 640)
	assert.Empty(t, got)
	assert.Zero(t, dropped)
}
