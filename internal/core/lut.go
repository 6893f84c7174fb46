package core

import (
	"gocv.io/x/gocv"
)

// LUT maps every 8-bit level to an output level.
type LUT [256]uint8

// ApplyLUT returns a new Mat with lut applied to every sample of src, all
// channels alike. src is left untouched.
func ApplyLUT(src gocv.Mat, lut *LUT) (gocv.Mat, error) {
	if err := ValidateImage(src); err != nil {
		return gocv.NewMat(), err
	}

	cont := src
	if !src.IsContinuous() {
		cont = src.Clone()
		defer cont.Close()
	}

	// ToBytes copies, so mapping in place leaves src intact
	data := cont.ToBytes()
	for i, v := range data {
		data[i] = lut[v]
	}

	return gocv.NewMatFromBytes(src.Rows(), src.Cols(), src.Type(), data)
}
