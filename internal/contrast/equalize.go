// Histogram-based contrast enhancement
package contrast

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"dermoscopy-preprocessing/internal/core"
)

// Default CLAHE parameters
const (
	DefaultCLAHEClipLimit = 3.0
	DefaultCLAHETileGrid  = 3
)

// EqualizeHistogram equalizes every colour plane independently.
func EqualizeHistogram(src gocv.Mat) (gocv.Mat, error) {
	return core.MapChannels(src, func(plane gocv.Mat) (gocv.Mat, error) {
		dst := gocv.NewMat()
		gocv.EqualizeHist(plane, &dst)
		return dst, nil
	})
}

// CLAHE applies contrast-limited adaptive histogram equalization to every
// colour plane. tileGrid is the number of tiles per row and per column.
func CLAHE(src gocv.Mat, clipLimit float64, tileGrid image.Point) (gocv.Mat, error) {
	if clipLimit <= 0 {
		return gocv.NewMat(), fmt.Errorf("%w: clip limit %v must be positive", core.ErrInvalidParameter, clipLimit)
	}
	if tileGrid.X < 1 || tileGrid.Y < 1 {
		return gocv.NewMat(), fmt.Errorf("%w: tile grid %v", core.ErrInvalidParameter, tileGrid)
	}

	clahe := gocv.NewCLAHEWithParams(clipLimit, tileGrid)
	defer clahe.Close()

	return core.MapChannels(src, func(plane gocv.Mat) (gocv.Mat, error) {
		dst := gocv.NewMat()
		clahe.Apply(plane, &dst)
		return dst, nil
	})
}

// WindowEnhancement stretches the grayscale window [windowMin, windowMax]
// onto [0, 255]; levels below the window go black and above it go white. The
// result is single-channel.
func WindowEnhancement(src gocv.Mat, windowMin, windowMax int) (gocv.Mat, error) {
	if windowMin < 0 || windowMax > 255 || windowMin >= windowMax {
		return gocv.NewMat(), fmt.Errorf("%w: window [%d, %d]", core.ErrInvalidParameter, windowMin, windowMax)
	}

	gray, err := core.ToGray(src)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer gray.Close()

	var lut core.LUT
	for i := range lut {
		switch {
		case i < windowMin:
			lut[i] = 0
		case i > windowMax:
			lut[i] = 255
		default:
			lut[i] = uint8((i - windowMin) * 255 / (windowMax - windowMin))
		}
	}

	return core.ApplyLUT(gray, &lut)
}
