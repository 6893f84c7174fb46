package contrast

import (
	"fmt"

	"gocv.io/x/gocv"

	"dermoscopy-preprocessing/internal/core"
	"dermoscopy-preprocessing/internal/kernels"
)

const classEpsilon = 1e-12

// BimodalityResult is the best channel mix found by HistogramBimodality.
type BimodalityResult struct {
	Image  gocv.Mat
	Weight kernels.Weight
	Score  float64
}

// HistogramBimodality mixes the colour planes of src with each candidate
// weight and keeps the gray image whose histogram is most bimodal, scored by
// NormalizedBCV.
func HistogramBimodality(src gocv.Mat, weights []kernels.Weight) (BimodalityResult, error) {
	if len(weights) == 0 {
		return BimodalityResult{}, fmt.Errorf("%w: no candidate weights", core.ErrInvalidParameter)
	}
	for _, w := range weights {
		if !w.Valid() {
			return BimodalityResult{}, fmt.Errorf("%w: weight %s must be non-negative and sum to 1", core.ErrInvalidParameter, w)
		}
	}

	ch, err := core.SplitChannels(src)
	if err != nil {
		return BimodalityResult{}, err
	}
	defer ch.Close()

	red, green, blue := ch.Red.ToBytes(), ch.Green.ToBytes(), ch.Blue.ToBytes()

	var (
		best      []byte
		bestScore float64
		bestW     kernels.Weight
	)
	for _, w := range weights {
		mixed := make([]byte, len(red))
		var hist Histogram
		for i := range mixed {
			v := float64(red[i])*w.R + float64(green[i])*w.G + float64(blue[i])*w.B
			if v > 255 {
				v = 255
			}
			mixed[i] = uint8(v)
			hist[mixed[i]]++
		}

		score := NormalizedBCV(hist)
		if score > bestScore {
			best, bestScore, bestW = mixed, score, w
		}
	}

	if best == nil {
		return BimodalityResult{}, fmt.Errorf("%w: no weight produced a bimodal histogram", core.ErrDegenerateRange)
	}

	img, err := gocv.NewMatFromBytes(src.Rows(), src.Cols(), gocv.MatTypeCV8UC1, best)
	if err != nil {
		return BimodalityResult{}, fmt.Errorf("build gray image: %w", err)
	}
	return BimodalityResult{Image: img, Weight: bestW, Score: bestScore}, nil
}

// NormalizedBCV scans every threshold of hist for the largest between-class
// variance and normalizes it by the total variance. The ratio is divided by
// the total variance once more, which favours mixes with a narrower overall
// spread. Flat histograms score 0.
func NormalizedBCV(hist Histogram) float64 {
	n := float64(hist.Total())
	if n == 0 {
		return 0
	}

	var meanT float64
	for i, c := range hist {
		meanT += float64(i) * float64(c) / n
	}

	var varT float64
	for i, c := range hist {
		d := float64(i) - meanT
		varT += d * d * float64(c) / n
	}
	if varT == 0 {
		return 0
	}

	var best, p1, mu float64
	for t, c := range hist {
		p1 += float64(c) / n
		mu += float64(t) * float64(c) / n

		// rounding leaves p1 a hair below 1 past the last occupied level
		if p1 < classEpsilon || p1 > 1-classEpsilon {
			continue
		}
		p2 := 1 - p1

		mu1 := mu / p1
		mu2 := (meanT - mu) / p2
		bcv := p1 * p2 * (mu1 - mu2) * (mu1 - mu2) / varT
		if bcv > best {
			best = bcv
		}
	}

	return best / varT
}
