package contrast

import (
	"fmt"
	"math"

	"gocv.io/x/gocv"

	"dermoscopy-preprocessing/internal/core"
)

// DefaultClipPercent is the share of pixel mass clipped across both tails.
const DefaultClipPercent = 25.0

// MaxClipPercent is the largest clip percentage the front ends offer.
// ComputeRescale itself accepts anything below 100.
const MaxClipPercent = 99.0

// RescaleParameters define out = clamp(round(Alpha*in + Beta), 0, 255).
type RescaleParameters struct {
	Alpha float64
	Beta  float64
}

// ClipRange holds the cut points located on the cumulative histogram.
type ClipRange struct {
	MinGray int
	MaxGray int
}

// Width is MaxGray - MinGray.
func (r ClipRange) Width() int {
	return r.MaxGray - r.MinGray
}

// AutoResult is the outcome of AutoBrightnessContrast. Image is owned by the
// caller.
type AutoResult struct {
	Image  gocv.Mat
	Params RescaleParameters
	Range  ClipRange
}

// ComputeRescale locates the clip points of hist for clipPercent and derives
// the linear stretch mapping them onto [0, 255].
//
// clipPercent must lie in [0, 100). Half of it is clipped at each tail: the
// lower cut is the first level whose cumulative count reaches the half clip,
// the upper cut is found walking down from 255 while the cumulative count is
// still at or above total minus the half clip.
func ComputeRescale(hist Histogram, clipPercent float64) (RescaleParameters, ClipRange, error) {
	if math.IsNaN(clipPercent) || clipPercent < 0 || clipPercent >= 100 {
		return RescaleParameters{}, ClipRange{}, fmt.Errorf("%w: clip percent %v not in [0, 100)", core.ErrInvalidParameter, clipPercent)
	}

	cum := hist.Cumulative()
	total := cum[Levels-1]
	if total == 0 {
		return RescaleParameters{}, ClipRange{}, fmt.Errorf("%w: empty histogram", core.ErrInvalidParameter)
	}

	halfClip := clipPercent * total / 100 / 2

	minGray := 0
	for minGray < Levels && cum[minGray] < halfClip {
		minGray++
	}
	if minGray == Levels {
		return RescaleParameters{}, ClipRange{}, fmt.Errorf("%w: no lower cut for half clip %.2f", core.ErrOutOfRange, halfClip)
	}

	maxGray := Levels - 1
	for maxGray >= 0 && cum[maxGray] >= total-halfClip {
		maxGray--
	}
	if maxGray < 0 {
		return RescaleParameters{}, ClipRange{}, fmt.Errorf("%w: no upper cut for half clip %.2f", core.ErrOutOfRange, halfClip)
	}

	r := ClipRange{MinGray: minGray, MaxGray: maxGray}
	if r.Width() <= 0 {
		return RescaleParameters{}, r, fmt.Errorf("%w: max gray %d <= min gray %d", core.ErrDegenerateRange, maxGray, minGray)
	}

	alpha := 255 / float64(r.Width())
	return RescaleParameters{Alpha: alpha, Beta: -float64(minGray) * alpha}, r, nil
}

// Level maps one input level with saturating, round-half-to-even semantics.
func (p RescaleParameters) Level(v uint8) uint8 {
	out := math.RoundToEven(p.Alpha*float64(v) + p.Beta)
	switch {
	case out <= 0 || math.IsNaN(out):
		return 0
	case out >= 255:
		return 255
	}
	return uint8(out)
}

// LUT tabulates Level for every input level.
func (p RescaleParameters) LUT() *core.LUT {
	var lut core.LUT
	for i := range lut {
		lut[i] = p.Level(uint8(i))
	}
	return &lut
}

// Apply rescales every sample of src, all channels alike.
func (p RescaleParameters) Apply(src gocv.Mat) (gocv.Mat, error) {
	if math.IsNaN(p.Alpha) || math.IsInf(p.Alpha, 0) || math.IsNaN(p.Beta) || math.IsInf(p.Beta, 0) {
		return gocv.NewMat(), fmt.Errorf("%w: rescale alpha=%v beta=%v", core.ErrInvalidParameter, p.Alpha, p.Beta)
	}
	return core.ApplyLUT(src, p.LUT())
}

// AutoBrightnessContrast stretches src so that clipPercent of its grayscale
// pixel mass falls outside [0, 255], half at each end. The stretch is
// computed on the grayscale projection and applied to the original channels.
func AutoBrightnessContrast(src gocv.Mat, clipPercent float64) (AutoResult, error) {
	hist, err := GrayHistogram(src)
	if err != nil {
		return AutoResult{}, err
	}

	params, r, err := ComputeRescale(hist, clipPercent)
	if err != nil {
		return AutoResult{}, err
	}

	out, err := params.Apply(src)
	if err != nil {
		return AutoResult{}, err
	}

	return AutoResult{Image: out, Params: params, Range: r}, nil
}
