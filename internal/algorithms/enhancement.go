// Illumination, edge and artifact-removal algorithms
package algorithms

import (
	"gocv.io/x/gocv"

	"dermoscopy-preprocessing/internal/artifacts"
	"dermoscopy-preprocessing/internal/edges"
	"dermoscopy-preprocessing/internal/illumination"
	"dermoscopy-preprocessing/internal/kernels"
)

// MulLogBrightness implements brightness enhancement in logarithmic space
type MulLogBrightness struct{ base }

func NewMulLogBrightness() *MulLogBrightness {
	return &MulLogBrightness{base{
		name:        "Multiplicative Log Brightness",
		description: "Brightness enhancement by multiplication in logarithmic space",
		params: []ParameterInfo{
			{
				Name:        "factor",
				Type:        "float",
				Min:         0.1,
				Max:         20.0,
				Default:     illumination.DefaultFactor,
				Description: "Multiplication factor; above 1 brightens",
			},
		},
	}}
}

func (m *MulLogBrightness) Apply(input gocv.Mat, params map[string]interface{}) (Result, error) {
	out, err := illumination.MulLogBrightness(input, floatParam(params, "factor", illumination.DefaultFactor))
	if err != nil {
		return Result{}, err
	}
	return Result{Image: out}, nil
}

// Sharpen implements kernel sharpening
type Sharpen struct{ base }

func NewSharpen() *Sharpen {
	return &Sharpen{base{
		name:        "Sharpen",
		description: "Filter every RGB channel with a 3x3 sharpening kernel",
	}}
}

func (s *Sharpen) Apply(input gocv.Mat, params map[string]interface{}) (Result, error) {
	out, err := edges.Sharpen(input, kernels.Sharpen3x3())
	if err != nil {
		return Result{}, err
	}
	return Result{Image: out}, nil
}

// LaplacianSharpen implements Laplacian subtraction
type LaplacianSharpen struct{ base }

func NewLaplacianSharpen() *LaplacianSharpen {
	return &LaplacianSharpen{base{
		name:        "Laplacian Sharpen",
		description: "Subtract the Laplacian of every RGB channel from the channel",
	}}
}

func (l *LaplacianSharpen) Apply(input gocv.Mat, params map[string]interface{}) (Result, error) {
	out, err := edges.Laplacian(input)
	if err != nil {
		return Result{}, err
	}
	return Result{Image: out}, nil
}

// Unsharp implements unsharp masking
type Unsharp struct{ base }

func NewUnsharp() *Unsharp {
	return &Unsharp{base{
		name:        "Unsharp Mask",
		description: "Add the difference between the image and its Gaussian blur",
		params: []ParameterInfo{
			{
				Name:        "amount",
				Type:        "float",
				Min:         0.0,
				Max:         10.0,
				Default:     edges.DefaultUnsharpAmount,
				Description: "Multiplication factor of the detail layer",
			},
		},
	}}
}

func (u *Unsharp) Apply(input gocv.Mat, params map[string]interface{}) (Result, error) {
	out, err := edges.Unsharp(input, floatParam(params, "amount", edges.DefaultUnsharpAmount))
	if err != nil {
		return Result{}, err
	}
	return Result{Image: out}, nil
}

// MorphologicalClosure implements closure-based artifact removal
type MorphologicalClosure struct{ base }

func NewMorphologicalClosure() *MorphologicalClosure {
	return &MorphologicalClosure{base{
		name:        "Morphological Closure",
		description: "Remove thin dark artifacts by closing every RGB channel",
		params: []ParameterInfo{
			kernelParam("circle7"),
			{
				Name:        "blur",
				Type:        "bool",
				Default:     true,
				Description: "Median blur before closing",
			},
		},
	}}
}

func (m *MorphologicalClosure) Apply(input gocv.Mat, params map[string]interface{}) (Result, error) {
	k, err := lookupKernel(params, "circle7")
	if err != nil {
		return Result{}, err
	}
	out, err := artifacts.MorphologicalClosure(input, k, boolParam(params, "blur", true))
	if err != nil {
		return Result{}, err
	}
	return Result{Image: out}, nil
}

// DullRazor implements the Dull Razor hair removal method
type DullRazor struct{ base }

func NewDullRazor() *DullRazor {
	return &DullRazor{base{
		name:        "Dull Razor",
		description: "Inpaint strong blackhat responses of every RGB channel",
		params:      []ParameterInfo{kernelParam("circle9")},
	}}
}

func (d *DullRazor) Apply(input gocv.Mat, params map[string]interface{}) (Result, error) {
	k, err := lookupKernel(params, "circle9")
	if err != nil {
		return Result{}, err
	}
	out, err := artifacts.DullRazor(input, k)
	if err != nil {
		return Result{}, err
	}
	return Result{Image: out}, nil
}

// Bothat implements directional bottom-hat hair removal
type Bothat struct{ base }

func NewBothat() *Bothat {
	return &Bothat{base{
		name:        "Bottom-hat Removal",
		description: "Directional bottom-hat hair detection with Otsu mask and inpainting",
		params:      []ParameterInfo{kernelParam("circle5")},
	}}
}

func (b *Bothat) Apply(input gocv.Mat, params map[string]interface{}) (Result, error) {
	k, err := lookupKernel(params, "circle5")
	if err != nil {
		return Result{}, err
	}
	out, err := artifacts.Bothat(input, k)
	if err != nil {
		return Result{}, err
	}
	return Result{Image: out}, nil
}

// LaplacianOfGaussian implements LoG artifact removal
type LaplacianOfGaussian struct{ base }

func NewLaplacianOfGaussian() *LaplacianOfGaussian {
	return &LaplacianOfGaussian{base{
		name:        "Laplacian of Gaussian",
		description: "Inpaint the closed response of an 11x11 LoG filter",
	}}
}

func (l *LaplacianOfGaussian) Apply(input gocv.Mat, params map[string]interface{}) (Result, error) {
	out, err := artifacts.LaplacianOfGaussian(input)
	if err != nil {
		return Result{}, err
	}
	return Result{Image: out}, nil
}

// CleanRemaining implements saturation-mask artifact removal
type CleanRemaining struct{ base }

func NewCleanRemaining() *CleanRemaining {
	return &CleanRemaining{base{
		name:        "Clean Remaining Artifacts",
		description: "Experimental: inpaint saturated regions outside the Otsu lesion mask",
	}}
}

func (c *CleanRemaining) Apply(input gocv.Mat, params map[string]interface{}) (Result, error) {
	out, lesion, err := artifacts.CleanRemaining(input)
	if err != nil {
		return Result{}, err
	}
	return Result{Image: out, Mask: lesion}, nil
}
