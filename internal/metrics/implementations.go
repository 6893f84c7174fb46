// Concrete implementations of quality metrics
package metrics

import (
	"fmt"
	"math"

	"gocv.io/x/gocv"

	"dermoscopy-preprocessing/internal/contrast"
	"dermoscopy-preprocessing/internal/core"
)

// PSNR implements Peak Signal-to-Noise Ratio metric
type PSNR struct{}

// NewPSNR creates a new PSNR metric
func NewPSNR() *PSNR {
	return &PSNR{}
}

func (p *PSNR) Calculate(original, processed gocv.Mat) (float64, error) {
	mse, err := meanSquaredError(original, processed)
	if err != nil {
		return 0, err
	}
	if mse == 0 {
		return math.Inf(1), nil
	}
	return 20 * math.Log10(255.0/math.Sqrt(mse)), nil
}

func (p *PSNR) GetName() string {
	return "PSNR"
}

func (p *PSNR) GetDescription() string {
	return "Peak Signal-to-Noise Ratio between input and output"
}

func (p *PSNR) GetRange() (float64, float64) {
	return 0, 100
}

func (p *PSNR) IsHigherBetter() bool {
	return true
}

// MSE implements Mean Squared Error metric
type MSE struct{}

// NewMSE creates a new MSE metric
func NewMSE() *MSE {
	return &MSE{}
}

func (m *MSE) Calculate(original, processed gocv.Mat) (float64, error) {
	return meanSquaredError(original, processed)
}

func (m *MSE) GetName() string {
	return "MSE"
}

func (m *MSE) GetDescription() string {
	return "Mean Squared Error between grayscale projections"
}

func (m *MSE) GetRange() (float64, float64) {
	return 0, 65025 // 255^2
}

func (m *MSE) IsHigherBetter() bool {
	return false
}

// ContrastRatio implements contrast ratio metric
type ContrastRatio struct{}

// NewContrastRatio creates a new contrast ratio metric
func NewContrastRatio() *ContrastRatio {
	return &ContrastRatio{}
}

func (c *ContrastRatio) Calculate(original, processed gocv.Mat) (float64, error) {
	origContrast, err := grayStdDev(original)
	if err != nil {
		return 0, err
	}
	procContrast, err := grayStdDev(processed)
	if err != nil {
		return 0, err
	}

	if origContrast == 0 {
		return 1.0, nil
	}
	return procContrast / origContrast, nil
}

func (c *ContrastRatio) GetName() string {
	return "Contrast Ratio"
}

func (c *ContrastRatio) GetDescription() string {
	return "Ratio of grayscale standard deviations, output over input"
}

func (c *ContrastRatio) GetRange() (float64, float64) {
	return 0, 2
}

func (c *ContrastRatio) IsHigherBetter() bool {
	return true
}

// Sharpness implements sharpness metric
type Sharpness struct{}

// NewSharpness creates a new sharpness metric
func NewSharpness() *Sharpness {
	return &Sharpness{}
}

func (s *Sharpness) Calculate(original, processed gocv.Mat) (float64, error) {
	origSharpness, err := laplacianVariance(original)
	if err != nil {
		return 0, err
	}
	procSharpness, err := laplacianVariance(processed)
	if err != nil {
		return 0, err
	}

	if origSharpness == 0 {
		return 1.0, nil
	}
	return procSharpness / origSharpness, nil
}

func (s *Sharpness) GetName() string {
	return "Sharpness"
}

func (s *Sharpness) GetDescription() string {
	return "Ratio of Laplacian variances, output over input"
}

func (s *Sharpness) GetRange() (float64, float64) {
	return 0, 2
}

func (s *Sharpness) IsHigherBetter() bool {
	return true
}

// EntropyGain implements the histogram entropy ratio
type EntropyGain struct{}

// NewEntropyGain creates a new entropy gain metric
func NewEntropyGain() *EntropyGain {
	return &EntropyGain{}
}

func (e *EntropyGain) Calculate(original, processed gocv.Mat) (float64, error) {
	origEntropy, err := Entropy(original)
	if err != nil {
		return 0, err
	}
	procEntropy, err := Entropy(processed)
	if err != nil {
		return 0, err
	}

	if origEntropy == 0 {
		return 1.0, nil
	}
	return procEntropy / origEntropy, nil
}

func (e *EntropyGain) GetName() string {
	return "Entropy Gain"
}

func (e *EntropyGain) GetDescription() string {
	return "Ratio of grayscale Shannon entropies, output over input"
}

func (e *EntropyGain) GetRange() (float64, float64) {
	return 0, 2
}

func (e *EntropyGain) IsHigherBetter() bool {
	return true
}

// Entropy returns the Shannon entropy in bits of the grayscale histogram.
func Entropy(mat gocv.Mat) (float64, error) {
	hist, err := contrast.GrayHistogram(mat)
	if err != nil {
		return 0, err
	}

	total := float64(hist.Total())
	entropy := 0.0
	for _, count := range hist {
		if count == 0 {
			continue
		}
		p := float64(count) / total
		entropy -= p * math.Log2(p)
	}
	return entropy, nil
}

func meanSquaredError(original, processed gocv.Mat) (float64, error) {
	if original.Empty() || processed.Empty() {
		return 0, fmt.Errorf("%w: empty images", core.ErrInvalidParameter)
	}
	if original.Rows() != processed.Rows() || original.Cols() != processed.Cols() {
		return 0, fmt.Errorf("%w: image dimensions mismatch", core.ErrInvalidParameter)
	}

	gray1, err := core.ToGray(original)
	if err != nil {
		return 0, err
	}
	defer gray1.Close()

	gray2, err := core.ToGray(processed)
	if err != nil {
		return 0, err
	}
	defer gray2.Close()

	a, b := gray1.ToBytes(), gray2.ToBytes()
	sumSquaredDiff := 0.0
	for i := range a {
		diff := float64(a[i]) - float64(b[i])
		sumSquaredDiff += diff * diff
	}
	return sumSquaredDiff / float64(len(a)), nil
}

func grayStdDev(input gocv.Mat) (float64, error) {
	gray, err := core.ToGray(input)
	if err != nil {
		return 0, err
	}
	defer gray.Close()

	return stdDev(gray), nil
}

func laplacianVariance(input gocv.Mat) (float64, error) {
	gray, err := core.ToGray(input)
	if err != nil {
		return 0, err
	}
	defer gray.Close()

	laplacian := gocv.NewMat()
	defer laplacian.Close()
	gocv.Laplacian(gray, &laplacian, gocv.MatTypeCV64F, 1, 1, 0, gocv.BorderDefault)

	sd := stdDev(laplacian)
	return sd * sd, nil
}

// stdDev returns the standard deviation of a single-channel Mat.
func stdDev(mat gocv.Mat) float64 {
	mean := gocv.NewMat()
	defer mean.Close()
	sd := gocv.NewMat()
	defer sd.Close()

	gocv.MeanStdDev(mat, &mean, &sd)
	return sd.GetDoubleAt(0, 0)
}
