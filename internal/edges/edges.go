// Package edges sharpens lesion borders
package edges

import (
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"

	"dermoscopy-preprocessing/internal/core"
	"dermoscopy-preprocessing/internal/kernels"
)

// DefaultUnsharpAmount is the default k of Unsharp.
const DefaultUnsharpAmount = 1.0

const (
	gaussianSize  = 5
	gaussianSigma = 1.5
)

// Sharpen filters every colour plane with kernel, typically
// kernels.Sharpen3x3.
func Sharpen(src gocv.Mat, kernel kernels.Kernel) (gocv.Mat, error) {
	if !kernel.IsFilter() {
		return gocv.NewMat(), fmt.Errorf("%w: %s is not a filter kernel", core.ErrInvalidParameter, kernel.Name())
	}

	k := kernel.Mat()
	defer k.Close()

	return core.MapChannels(src, func(plane gocv.Mat) (gocv.Mat, error) {
		dst := gocv.NewMat()
		gocv.Filter2D(plane, &dst, -1, k, image.Pt(-1, -1), 0, gocv.BorderDefault)
		return dst, nil
	})
}

// Laplacian subtracts the 8-bit Laplacian of every colour plane from the
// plane itself. Negative Laplacian responses saturate to zero first, so only
// the dark side of each edge is deepened.
func Laplacian(src gocv.Mat) (gocv.Mat, error) {
	return core.MapChannels(src, func(plane gocv.Mat) (gocv.Mat, error) {
		lap := gocv.NewMat()
		defer lap.Close()
		gocv.Laplacian(plane, &lap, gocv.MatTypeCV8U, 1, 1, 0, gocv.BorderDefault)

		dst := gocv.NewMat()
		gocv.Subtract(plane, lap, &dst)
		return dst, nil
	})
}

// Unsharp adds amount times the detail layer (src minus its blur) back to
// src. The blur is a vertical 5-tap Gaussian with sigma 1.5.
func Unsharp(src gocv.Mat, amount float64) (gocv.Mat, error) {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return gocv.NewMat(), fmt.Errorf("%w: amount %v must be finite and not negative", core.ErrInvalidParameter, amount)
	}

	img, err := core.DropAlpha(src)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer img.Close()

	gauss := gocv.GetGaussianKernel(gaussianSize, gaussianSigma)
	defer gauss.Close()

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.Filter2D(img, &blurred, -1, gauss, image.Pt(-1, -1), 0, gocv.BorderDefault)

	detail := gocv.NewMat()
	defer detail.Close()
	gocv.Subtract(img, blurred, &detail)

	dst := gocv.NewMat()
	gocv.AddWeighted(img, 1, detail, amount, 0, &dst)
	return dst, nil
}
