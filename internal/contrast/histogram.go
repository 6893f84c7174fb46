package contrast

import (
	"gocv.io/x/gocv"

	"dermoscopy-preprocessing/internal/core"
)

// Levels is the number of 8-bit intensity levels.
const Levels = 256

// Histogram counts pixels per intensity level.
type Histogram [Levels]uint64

// Cumulative is the prefix-sum transform of a Histogram.
type Cumulative [Levels]float64

// GrayHistogram computes the histogram of the grayscale projection of src.
func GrayHistogram(src gocv.Mat) (Histogram, error) {
	gray, err := core.ToGray(src)
	if err != nil {
		return Histogram{}, err
	}
	defer gray.Close()

	return planeHistogram(gray), nil
}

// planeHistogram counts the samples of a single-channel 8-bit Mat.
func planeHistogram(plane gocv.Mat) Histogram {
	var hist Histogram
	for _, v := range plane.ToBytes() {
		hist[v]++
	}
	return hist
}

// Total returns the number of pixels counted.
func (h *Histogram) Total() uint64 {
	var n uint64
	for _, c := range h {
		n += c
	}
	return n
}

// Cumulative returns cum[i] = hist[0] + ... + hist[i].
func (h *Histogram) Cumulative() Cumulative {
	var cum Cumulative
	cum[0] = float64(h[0])
	for i := 1; i < Levels; i++ {
		cum[i] = cum[i-1] + float64(h[i])
	}
	return cum
}
