// Package illumination corrects the brightness of dermoscopic images.
//
// Automatic brightness and contrast by histogram clipping lives in the
// contrast package; this package holds the purely tonal corrections.
package illumination

import (
	"fmt"
	"math"

	"gocv.io/x/gocv"

	"dermoscopy-preprocessing/internal/core"
)

// DefaultFactor is the default exponent of MulLogBrightness.
const DefaultFactor = 5.0

// mulLogRange is the M of the multiplicative-logarithm curve.
const mulLogRange = 256.0

// MulLogBrightness brightens src by multiplying in logarithmic space:
// every level f becomes M - M*(1 - f/M)^factor with M = 256, truncated to
// 8 bits. factor > 1 brightens, factor < 1 darkens.
func MulLogBrightness(src gocv.Mat, factor float64) (gocv.Mat, error) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return gocv.NewMat(), fmt.Errorf("%w: factor %v must be positive", core.ErrInvalidParameter, factor)
	}

	bgr, err := core.DropAlpha(src)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer bgr.Close()

	return core.ApplyLUT(bgr, MulLogLUT(factor))
}

// MulLogLUT tabulates the multiplicative-logarithm curve.
func MulLogLUT(factor float64) *core.LUT {
	var lut core.LUT
	for f := range lut {
		v := mulLogRange - mulLogRange*math.Pow(1-float64(f)/mulLogRange, factor)
		switch {
		case v <= 0:
			lut[f] = 0
		case v >= 255:
			lut[f] = 255
		default:
			lut[f] = uint8(v)
		}
	}
	return &lut
}
