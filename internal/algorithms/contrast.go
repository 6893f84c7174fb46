// Contrast enhancement algorithms
package algorithms

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"dermoscopy-preprocessing/internal/contrast"
	"dermoscopy-preprocessing/internal/core"
	"dermoscopy-preprocessing/internal/kernels"
)

func kernelParam(defaultKernel string) ParameterInfo {
	return ParameterInfo{
		Name:        "kernel",
		Type:        "enum",
		Default:     defaultKernel,
		Description: "Structuring element",
		Options:     kernels.Names(),
	}
}

func lookupKernel(params map[string]interface{}, def string) (kernels.Kernel, error) {
	name := stringParam(params, "kernel", def)
	k, ok := kernels.ByName(name)
	if !ok {
		return kernels.Kernel{}, fmt.Errorf("%w: unknown kernel %q", core.ErrInvalidParameter, name)
	}
	return k, nil
}

// EqualizeHistogram implements per-channel histogram equalization
type EqualizeHistogram struct{ base }

func NewEqualizeHistogram() *EqualizeHistogram {
	return &EqualizeHistogram{base{
		name:        "Histogram Equalization",
		description: "Classical histogram equalization of every RGB channel",
	}}
}

func (e *EqualizeHistogram) Apply(input gocv.Mat, params map[string]interface{}) (Result, error) {
	out, err := contrast.EqualizeHistogram(input)
	if err != nil {
		return Result{}, err
	}
	return Result{Image: out}, nil
}

// CLAHE implements contrast-limited adaptive histogram equalization
type CLAHE struct{ base }

func NewCLAHE() *CLAHE {
	return &CLAHE{base{
		name:        "CLAHE",
		description: "Contrast limited adaptive histogram equalization of every RGB channel",
		params: []ParameterInfo{
			{
				Name:        "clip_limit",
				Type:        "float",
				Min:         0.1,
				Max:         40.0,
				Default:     contrast.DefaultCLAHEClipLimit,
				Description: "Threshold for contrast limiting",
			},
			{
				Name:        "tile_grid",
				Type:        "int",
				Min:         1.0,
				Max:         32.0,
				Default:     float64(contrast.DefaultCLAHETileGrid),
				Description: "Tiles per row and per column",
			},
		},
	}}
}

func (c *CLAHE) Apply(input gocv.Mat, params map[string]interface{}) (Result, error) {
	tiles := intParam(params, "tile_grid", contrast.DefaultCLAHETileGrid)
	out, err := contrast.CLAHE(input,
		floatParam(params, "clip_limit", contrast.DefaultCLAHEClipLimit),
		image.Pt(tiles, tiles))
	if err != nil {
		return Result{}, err
	}
	return Result{Image: out}, nil
}

// AutoBrightnessContrast implements histogram-clipping brightness and contrast
type AutoBrightnessContrast struct{ base }

func NewAutoBrightnessContrast() *AutoBrightnessContrast {
	return &AutoBrightnessContrast{base{
		name:        "Automatic Brightness and Contrast",
		description: "Linear stretch computed from the clipped cumulative grayscale histogram",
		params: []ParameterInfo{
			{
				Name:        "clip_percent",
				Type:        "float",
				Min:         0.0,
				Max:         contrast.MaxClipPercent,
				Default:     contrast.DefaultClipPercent,
				Description: "Percentage of pixels clipped across both histogram tails",
			},
		},
	}}
}

func (a *AutoBrightnessContrast) Apply(input gocv.Mat, params map[string]interface{}) (Result, error) {
	res, err := contrast.AutoBrightnessContrast(input, floatParam(params, "clip_percent", contrast.DefaultClipPercent))
	if err != nil {
		return Result{}, err
	}
	return Result{
		Image: res.Image,
		Details: map[string]interface{}{
			"alpha":    res.Params.Alpha,
			"beta":     res.Params.Beta,
			"min_gray": res.Range.MinGray,
			"max_gray": res.Range.MaxGray,
		},
	}, nil
}

// WindowEnhancement implements grayscale window stretching
type WindowEnhancement struct{ base }

func NewWindowEnhancement() *WindowEnhancement {
	return &WindowEnhancement{base{
		name:        "Window Enhancement",
		description: "Stretch a grayscale window to the full range; output is grayscale",
		params: []ParameterInfo{
			{
				Name:        "window_min",
				Type:        "int",
				Min:         0.0,
				Max:         254.0,
				Default:     50.0,
				Description: "Lower bound of the window",
			},
			{
				Name:        "window_max",
				Type:        "int",
				Min:         1.0,
				Max:         255.0,
				Default:     200.0,
				Description: "Upper bound of the window",
			},
		},
	}}
}

func (w *WindowEnhancement) Validate(params map[string]interface{}) error {
	if err := w.base.Validate(params); err != nil {
		return err
	}
	lo := intParam(params, "window_min", 50)
	hi := intParam(params, "window_max", 200)
	if lo >= hi {
		return fmt.Errorf("%w: window_min %d must be below window_max %d", core.ErrInvalidParameter, lo, hi)
	}
	return nil
}

func (w *WindowEnhancement) Apply(input gocv.Mat, params map[string]interface{}) (Result, error) {
	out, err := contrast.WindowEnhancement(input,
		intParam(params, "window_min", 50),
		intParam(params, "window_max", 200))
	if err != nil {
		return Result{}, err
	}
	return Result{Image: out}, nil
}

// HistogramBimodality implements the bimodality-maximizing channel mix
type HistogramBimodality struct {
	base
	weights []kernels.Weight
}

func NewHistogramBimodality() *HistogramBimodality {
	return &HistogramBimodality{
		base: base{
			name:        "Histogram Bimodality",
			description: "Grayscale channel mix whose histogram is most bimodal",
		},
		weights: kernels.DefaultWeights(),
	}
}

func (h *HistogramBimodality) Apply(input gocv.Mat, params map[string]interface{}) (Result, error) {
	res, err := contrast.HistogramBimodality(input, h.weights)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Image: res.Image,
		Details: map[string]interface{}{
			"weight": res.Weight.String(),
			"score":  res.Score,
		},
	}, nil
}

// MorphologicalContrast implements top-hat/bottom-hat contrast enhancement
type MorphologicalContrast struct {
	base
	reverse bool
}

func NewMorphologicalContrast(reverse bool) *MorphologicalContrast {
	m := &MorphologicalContrast{
		base: base{
			name:        "Morphological Contrast",
			description: "Original plus top-hat minus bottom-hat",
			params:      []ParameterInfo{kernelParam("circle9")},
		},
		reverse: reverse,
	}
	if reverse {
		m.name = "Reverse Morphological Contrast"
		m.description = "Original minus top-hat plus bottom-hat"
	}
	return m
}

func (m *MorphologicalContrast) Apply(input gocv.Mat, params map[string]interface{}) (Result, error) {
	k, err := lookupKernel(params, "circle9")
	if err != nil {
		return Result{}, err
	}

	var out gocv.Mat
	if m.reverse {
		out, err = contrast.ReverseMorphologicalContrast(input, k)
	} else {
		out, err = contrast.MorphologicalContrast(input, k)
	}
	if err != nil {
		return Result{}, err
	}
	return Result{Image: out}, nil
}
