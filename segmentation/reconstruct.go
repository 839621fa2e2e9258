package segmentation

import (
	"image"
	"runtime"
	"sync"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/nvr-ai/go-seg/images"
	"github.com/nvr-ai/go-seg/models/postprocess"
	"github.com/nvr-ai/go-seg/models/yoloseg"
)

// ReconstructConfig holds the mask reconstruction parameters.
type ReconstructConfig struct {
	// Workers caps the goroutines combining prototypes. Zero or negative
	// means one worker per CPU.
	Workers int
}

// ReconstructMasks rebuilds a dense full-canvas mask for every surviving
// detection from the shared prototype tensor.
//
// For each detection the K prototypes are blended with the detection's
// coefficients, passed through a sigmoid, bilinearly resized to the box
// dimensions, and pasted onto a zeroed canvas at the box offset, clipped to
// the canvas. Reconstruction is the most compute-heavy stage and each
// detection is independent, so the work is dispatched over a bounded worker
// pool; the output order matches the input order regardless of scheduling.
//
// The prototype tensor and the detections are only read, never written, so
// they are safe to share across concurrent frames.
//
// Arguments:
//   - detections: Detections surviving NMS, with mask coefficients.
//   - protos: The prototype tensor of shape [K, Hp, Wp] (a leading batch
//     dimension of 1 is tolerated).
//   - width, height: The image canvas dimensions in pixels.
//   - cfg: Reconstruction parameters.
//
// Returns:
//   - The reconstructed instances, in detection order.
//   - The number of detections dropped for fully clipped or empty patches.
//   - yoloseg.ErrMalformedInput when the prototype tensor breaks its contract.
func ReconstructMasks(
	detections []postprocess.Result,
	protos *tensor.Dense,
	width, height int,
	cfg ReconstructConfig,
) ([]SegmentedInstance, int, error) {
	protoData, protoK, protoH, protoW, err := validatePrototypes(protos)
	if err != nil {
		return nil, 0, err
	}
	if len(detections) == 0 {
		return nil, 0, nil
	}
	for i := range detections {
		if len(detections[i].Coeffs) != protoK {
			return nil, 0, errors.Wrapf(yoloseg.ErrMalformedInput,
				"detection %d carries %d coefficients, prototype tensor has %d channels",
				i, len(detections[i].Coeffs), protoK)
		}
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(detections) {
		workers = len(detections)
	}

	built := make([]*SegmentedInstance, len(detections))
	jobs := make(chan int, len(detections))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				built[i] = reconstructOne(
					detections[i], protoData, protoK, protoH, protoW, width, height)
			}
		}()
	}
	for i := range detections {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	instances := make([]SegmentedInstance, 0, len(detections))
	dropped := 0
	for _, inst := range built {
		if inst == nil {
			dropped++
			continue
		}
		instances = append(instances, *inst)
	}
	return instances, dropped, nil
}

// validatePrototypes checks the [K, Hp, Wp] contract and returns the flat
// row-major backing plus the dimensions.
func validatePrototypes(protos *tensor.Dense) ([]float32, int, int, int, error) {
	if protos == nil {
		return nil, 0, 0, 0, errors.Wrap(yoloseg.ErrMalformedInput, "prototype tensor is nil")
	}
	shape := protos.Shape()
	if len(shape) == 4 && shape[0] == 1 {
		shape = shape[1:]
	}
	if len(shape) != 3 {
		return nil, 0, 0, 0, errors.Wrapf(yoloseg.ErrMalformedInput,
			"prototype tensor shape %v does not match [K, Hp, Wp]", protos.Shape())
	}
	k, h, w := shape[0], shape[1], shape[2]
	data, ok := protos.Data().([]float32)
	if !ok {
		return nil, 0, 0, 0, errors.Wrapf(yoloseg.ErrMalformedInput,
			"prototype tensor dtype %v, want float32", protos.Dtype())
	}
	if len(data) != k*h*w {
		return nil, 0, 0, 0, errors.Wrapf(yoloseg.ErrMalformedInput,
			"prototype tensor backing has %d values, want %d", len(data), k*h*w)
	}
	return data, k, h, w, nil
}

// reconstructOne builds a single instance, or nil when its patch is
// degenerate after clipping.
func reconstructOne(
	det postprocess.Result,
	protoData []float32,
	protoK, protoH, protoW int,
	width, height int,
) *SegmentedInstance {
	boxW := det.Box.Width()
	boxH := det.Box.Height()
	if boxW <= 0 || boxH <= 0 {
		return nil
	}

	// raw[y][x] = sigmoid(sum_k coeffs[k] * proto[k][y][x])
	plane := protoH * protoW
	raw := make([]float32, plane)
	for k, coeff := range det.Coeffs {
		page := protoData[k*plane : (k+1)*plane]
		for i, v := range page {
			raw[i] += coeff * v
		}
	}
	for i, v := range raw {
		raw[i] = 1.0 / (1.0 + math32.Exp(-v))
	}

	patch := resizeBilinear(raw, protoW, protoH, boxW, boxH)

	// Paste within the canvas; the box may touch the right/bottom edge.
	pasteW := min(boxW, width-det.Box.X1)
	pasteH := min(boxH, height-det.Box.Y1)
	if pasteW <= 0 || pasteH <= 0 {
		return nil
	}

	mask := images.NewMask(width, height)
	for y := 0; y < pasteH; y++ {
		src := patch[y*boxW : y*boxW+pasteW]
		dst := mask.Data[(det.Box.Y1+y)*width+det.Box.X1:]
		copy(dst[:pasteW], src)
	}

	areaMask := mask.Area()
	centroid, ok := mask.Centroid()
	if !ok {
		centroid = image.Pt(det.Box.CenterX(), det.Box.CenterY())
	}

	return &SegmentedInstance{
		Class:      det.Class,
		Confidence: det.Score,
		Box:        det.Box,
		Centroid:   centroid,
		AreaBox:    det.Box.Area(),
		Mask:       mask,
		AreaMask:   areaMask,
		MaskWidth:  boxW,
		MaskHeight: boxH,
	}
}

// resizeBilinear maps a sw by sh float grid onto dw by dh with bilinear
// interpolation, aligning pixel centers. Precision matters here: the 0.5
// activation threshold sits exactly where 8-bit image resampling would
// quantize, so the interpolation runs on the float grid directly.
func resizeBilinear(src []float32, sw, sh, dw, dh int) []float32 {
	dst := make([]float32, dw*dh)
	if sw <= 0 || sh <= 0 || dw <= 0 || dh <= 0 {
		return dst
	}

	scaleX := float32(sw) / float32(dw)
	scaleY := float32(sh) / float32(dh)
	for dy := 0; dy < dh; dy++ {
		sy := (float32(dy)+0.5)*scaleY - 0.5
		y0 := int(math32.Floor(sy))
		fy := sy - float32(y0)
		y1 := y0 + 1
		if y0 < 0 {
			y0, y1, fy = 0, 0, 0
		}
		if y1 >= sh {
			y1 = sh - 1
			if y0 > y1 {
				y0 = y1
			}
		}
		for dx := 0; dx < dw; dx++ {
			sx := (float32(dx)+0.5)*scaleX - 0.5
			x0 := int(math32.Floor(sx))
			fx := sx - float32(x0)
			x1 := x0 + 1
			if x0 < 0 {
				x0, x1, fx = 0, 0, 0
			}
			if x1 >= sw {
				x1 = sw - 1
				if x0 > x1 {
					x0 = x1
				}
			}

			top := src[y0*sw+x0]*(1-fx) + src[y0*sw+x1]*fx
			bottom := src[y1*sw+x0]*(1-fx) + src[y1*sw+x1]*fx
			dst[dy*dw+dx] = top*(1-fy) + bottom*fy
		}
	}
	return dst
}
