// Package yoloseg - decodes the raw output of YOLO-style instance
// segmentation heads into detection candidates.
//
// The segmentation head emits a detection tensor of shape [5+K, A]: for each
// of the A anchors there are 4 center-format box values, 1 raw confidence
// logit, and K mask-basis coefficients. The layout is a fixed contract
// validated once per call; no heuristic layout guessing is attempted.
package yoloseg

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// ErrMalformedInput indicates a tensor whose shape or dtype does not match
// the declared model output contract.
var ErrMalformedInput = errors.New("malformed model output")

const (
	// boxFields is the number of box values per anchor (cx, cy, w, h).
	boxFields = 4
	// headFields is boxFields plus the confidence logit.
	headFields = 5
)

// Config holds the decoder parameters.
type Config struct {
	// CoeffCount is K, the mask-basis rank of the model. The detection
	// tensor's leading dimension must be exactly 5+K.
	CoeffCount int
	// ConfidenceMin is the minimum post-sigmoid confidence for an anchor to
	// become a candidate.
	ConfidenceMin float32
}

// DefaultConfig returns the decoder parameters of the part-segmentation
// model (32 prototype channels, 0.6 confidence floor).
func DefaultConfig() Config {
	return Config{
		CoeffCount:    32,
		ConfidenceMin: 0.6,
	}
}

// Candidate is a pre-mask, pre-filter detection decoded from one anchor.
type Candidate struct {
	// CX, CY, W, H are the center-format box, normalized to [0, 1] of the
	// network input size.
	CX, CY, W, H float32
	// Score is the confidence after sigmoid, in (0, 1).
	Score float32
	// Anchor is the source anchor index.
	Anchor int
	// Coeffs are the K mask-basis coefficients for this anchor.
	Coeffs []float32
}

// Decode validates the detection tensor against the [5+K, A] contract and
// returns the candidates above the confidence floor.
//
// A leading batch dimension of 1 is tolerated, as the inference engine
// reports shape (1, 5+K, A). An empty candidate list is a valid outcome,
// not an error; only a contract violation fails the call.
//
// Arguments:
//   - det: The detection tensor produced by the inference engine.
//   - cfg: Decoder parameters.
//
// Returns:
//   - The candidates with confidence >= cfg.ConfidenceMin, in anchor order.
//   - ErrMalformedInput when the tensor shape or dtype breaks the contract.
func Decode(det *tensor.Dense, cfg Config) ([]Candidate, error) {
	if det == nil {
		return nil, errors.Wrap(ErrMalformedInput, "detection tensor is nil")
	}
	if cfg.CoeffCount <= 0 {
		return nil, errors.Wrapf(ErrMalformedInput, "coefficient count %d must be positive", cfg.CoeffCount)
	}

	shape := det.Shape()
	if len(shape) == 3 && shape[0] == 1 {
		shape = shape[1:]
	}
	rows := headFields + cfg.CoeffCount
	if len(shape) != 2 || shape[0] != rows {
		return nil, errors.Wrapf(ErrMalformedInput,
			"detection tensor shape %v does not match [%d, A]", det.Shape(), rows)
	}
	anchors := shape[1]

	data, ok := det.Data().([]float32)
	if !ok {
		return nil, errors.Wrapf(ErrMalformedInput, "detection tensor dtype %v, want float32", det.Dtype())
	}
	if len(data) != rows*anchors {
		return nil, errors.Wrapf(ErrMalformedInput,
			"detection tensor backing has %d values, want %d", len(data), rows*anchors)
	}

	// Row-major [5+K, A]: value (row, a) lives at row*A + a.
	candidates := make([]Candidate, 0, anchors/8)
	for a := 0; a < anchors; a++ {
		score := sigmoid(data[boxFields*anchors+a])
		if score < cfg.ConfidenceMin {
			continue
		}

		coeffs := make([]float32, cfg.CoeffCount)
		for k := 0; k < cfg.CoeffCount; k++ {
			coeffs[k] = data[(headFields+k)*anchors+a]
		}

		candidates = append(candidates, Candidate{
			CX:     data[0*anchors+a],
			CY:     data[1*anchors+a],
			W:      data[2*anchors+a],
			H:      data[3*anchors+a],
			Score:  score,
			Anchor: a,
			Coeffs: coeffs,
		})
	}

	return candidates, nil
}

func sigmoid(x float32) float32 {
	return 1.0 / (1.0 + math32.Exp(-x))
}
