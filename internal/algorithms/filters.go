// Smoothing filters commonly run before artifact removal
package algorithms

import (
	"image"

	"gocv.io/x/gocv"

	"dermoscopy-preprocessing/internal/core"
)

// GaussianFilter implements Gaussian blur filter
type GaussianFilter struct{ base }

func NewGaussianFilter() *GaussianFilter {
	return &GaussianFilter{base{
		name:        "Gaussian Filter",
		description: "Gaussian blur for general noise reduction",
		params: []ParameterInfo{
			{
				Name:        "kernel_size",
				Type:        "int",
				Min:         3.0,
				Max:         21.0,
				Default:     5.0,
				Description: "Size of the Gaussian kernel (even sizes are rounded up)",
			},
			{
				Name:        "sigma",
				Type:        "float",
				Min:         0.1,
				Max:         10.0,
				Default:     1.0,
				Description: "Standard deviation in both directions",
			},
		},
	}}
}

func (g *GaussianFilter) Apply(input gocv.Mat, params map[string]interface{}) (Result, error) {
	src, err := core.DropAlpha(input)
	if err != nil {
		return Result{}, err
	}
	defer src.Close()

	kernelSize := oddSize(intParam(params, "kernel_size", 5))
	sigma := floatParam(params, "sigma", 1.0)

	output := gocv.NewMat()
	gocv.GaussianBlur(src, &output, image.Pt(kernelSize, kernelSize), sigma, sigma, gocv.BorderDefault)
	return Result{Image: output}, nil
}

// MedianFilter implements median filter
type MedianFilter struct{ base }

func NewMedianFilter() *MedianFilter {
	return &MedianFilter{base{
		name:        "Median Filter",
		description: "Median filter to remove salt-and-pepper noise and fine hair",
		params: []ParameterInfo{
			{
				Name:        "kernel_size",
				Type:        "int",
				Min:         3.0,
				Max:         15.0,
				Default:     5.0,
				Description: "Size of the median filter kernel (even sizes are rounded up)",
			},
		},
	}}
}

func (m *MedianFilter) Apply(input gocv.Mat, params map[string]interface{}) (Result, error) {
	src, err := core.DropAlpha(input)
	if err != nil {
		return Result{}, err
	}
	defer src.Close()

	output := gocv.NewMat()
	gocv.MedianBlur(src, &output, oddSize(intParam(params, "kernel_size", 5)))
	return Result{Image: output}, nil
}

// BilateralFilter implements bilateral filter
type BilateralFilter struct{ base }

func NewBilateralFilter() *BilateralFilter {
	return &BilateralFilter{base{
		name:        "Bilateral Filter",
		description: "Edge-preserving smoothing that keeps lesion borders",
		params: []ParameterInfo{
			{
				Name:        "d",
				Type:        "int",
				Min:         3.0,
				Max:         15.0,
				Default:     9.0,
				Description: "Diameter of each pixel neighborhood",
			},
			{
				Name:        "sigma_color",
				Type:        "float",
				Min:         10.0,
				Max:         200.0,
				Default:     75.0,
				Description: "Filter sigma in the color space",
			},
			{
				Name:        "sigma_space",
				Type:        "float",
				Min:         10.0,
				Max:         200.0,
				Default:     75.0,
				Description: "Filter sigma in the coordinate space",
			},
		},
	}}
}

func (b *BilateralFilter) Apply(input gocv.Mat, params map[string]interface{}) (Result, error) {
	src, err := core.DropAlpha(input)
	if err != nil {
		return Result{}, err
	}
	defer src.Close()

	output := gocv.NewMat()
	gocv.BilateralFilter(src, &output,
		intParam(params, "d", 9),
		floatParam(params, "sigma_color", 75.0),
		floatParam(params, "sigma_space", 75.0))
	return Result{Image: output}, nil
}

// oddSize rounds even kernel sizes up; OpenCV rejects them.
func oddSize(n int) int {
	if n%2 == 0 {
		return n + 1
	}
	return n
}
