package contrast

import (
	"gocv.io/x/gocv"

	"dermoscopy-preprocessing/internal/core"
	"dermoscopy-preprocessing/internal/kernels"
)

// MorphologicalContrast returns src + tophat(src) - blackhat(src), which
// brightens small bright details and darkens small dark ones. Arithmetic
// saturates at 0 and 255.
func MorphologicalContrast(src gocv.Mat, kernel kernels.Kernel) (gocv.Mat, error) {
	return morphContrast(src, kernel, false)
}

// ReverseMorphologicalContrast returns src - tophat(src) + blackhat(src),
// flattening small details instead.
func ReverseMorphologicalContrast(src gocv.Mat, kernel kernels.Kernel) (gocv.Mat, error) {
	return morphContrast(src, kernel, true)
}

func morphContrast(src gocv.Mat, kernel kernels.Kernel, reverse bool) (gocv.Mat, error) {
	img, err := core.DropAlpha(src)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer img.Close()

	k := kernel.Mat()
	defer k.Close()

	tophat := gocv.NewMat()
	defer tophat.Close()
	gocv.MorphologyEx(img, &tophat, gocv.MorphTophat, k)

	blackhat := gocv.NewMat()
	defer blackhat.Close()
	gocv.MorphologyEx(img, &blackhat, gocv.MorphBlackhat, k)

	plus, minus := tophat, blackhat
	if reverse {
		plus, minus = blackhat, tophat
	}

	tmp := gocv.NewMat()
	defer tmp.Close()
	gocv.Add(img, plus, &tmp)

	dst := gocv.NewMat()
	gocv.Subtract(tmp, minus, &dst)
	return dst, nil
}
