// Named access to every enhancement routine behind one interface
package algorithms

import (
	"fmt"
	"sort"

	"gocv.io/x/gocv"
)

// Algorithm defines the interface for enhancement routines
type Algorithm interface {
	Apply(input gocv.Mat, params map[string]interface{}) (Result, error)
	GetDefaultParams() map[string]interface{}
	GetName() string
	GetDescription() string
	Validate(params map[string]interface{}) error
	GetParameterInfo() []ParameterInfo
}

// ParameterInfo describes a parameter for UI and CLI generation
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "int", "float", "bool", "string", "enum"
	Min         interface{} `json:"min,omitempty"`
	Max         interface{} `json:"max,omitempty"`
	Default     interface{} `json:"default"`
	Description string      `json:"description"`
	Options     []string    `json:"options,omitempty"` // For enum type
}

// Result is the output of an Algorithm. Image is always set; Mask is only
// set by routines that also produce a segmentation. Details carries scalar
// by-products such as the computed rescale parameters.
type Result struct {
	Image   gocv.Mat
	Mask    gocv.Mat
	Details map[string]interface{}
}

// HasMask reports whether the routine produced a mask.
func (r *Result) HasMask() bool {
	return r.Mask.Ptr() != nil && !r.Mask.Empty()
}

// Close releases the Mats held by r.
func (r *Result) Close() {
	if r.Image.Ptr() != nil {
		r.Image.Close()
	}
	if r.Mask.Ptr() != nil {
		r.Mask.Close()
	}
}

// Category names
const (
	CategoryContrast     = "Contrast"
	CategoryIllumination = "Illumination"
	CategoryEdges        = "Edges"
	CategoryArtifacts    = "Artifacts"
	CategorySmoothing    = "Smoothing"
	CategoryMorphology   = "Morphology"
)

// Registry maps names to algorithms. Build one with NewRegistry.
type Registry struct {
	algorithms map[string]Algorithm
	categories map[string][]string
}

// NewRegistry returns a registry holding every built-in routine.
func NewRegistry() *Registry {
	r := &Registry{
		algorithms: make(map[string]Algorithm),
		categories: make(map[string][]string),
	}
	r.registerDefaults()
	return r
}

func (r *Registry) registerDefaults() {
	r.Register(CategoryContrast, "equalize_histogram", NewEqualizeHistogram())
	r.Register(CategoryContrast, "clahe", NewCLAHE())
	r.Register(CategoryContrast, "auto_brightness_contrast", NewAutoBrightnessContrast())
	r.Register(CategoryContrast, "window_enhancement", NewWindowEnhancement())
	r.Register(CategoryContrast, "histogram_bimodality", NewHistogramBimodality())
	r.Register(CategoryContrast, "morphological_contrast", NewMorphologicalContrast(false))
	r.Register(CategoryContrast, "reverse_morphological_contrast", NewMorphologicalContrast(true))

	r.Register(CategoryIllumination, "mul_log_brightness", NewMulLogBrightness())

	r.Register(CategoryEdges, "sharpen", NewSharpen())
	r.Register(CategoryEdges, "laplacian_sharpen", NewLaplacianSharpen())
	r.Register(CategoryEdges, "unsharp", NewUnsharp())

	r.Register(CategoryArtifacts, "morphological_closure", NewMorphologicalClosure())
	r.Register(CategoryArtifacts, "dull_razor", NewDullRazor())
	r.Register(CategoryArtifacts, "bothat", NewBothat())
	r.Register(CategoryArtifacts, "laplacian_of_gaussian", NewLaplacianOfGaussian())
	r.Register(CategoryArtifacts, "clean_remaining", NewCleanRemaining())

	r.Register(CategorySmoothing, "gaussian", NewGaussianFilter())
	r.Register(CategorySmoothing, "median", NewMedianFilter())
	r.Register(CategorySmoothing, "bilateral", NewBilateralFilter())

	r.Register(CategoryMorphology, "erode", NewErosion())
	r.Register(CategoryMorphology, "dilate", NewDilation())
	r.Register(CategoryMorphology, "open", NewOpening())
	r.Register(CategoryMorphology, "close", NewClosing())
}

// Register adds algorithm under name, replacing any previous entry.
func (r *Registry) Register(category, name string, algorithm Algorithm) {
	if _, exists := r.algorithms[name]; !exists {
		r.categories[category] = append(r.categories[category], name)
	}
	r.algorithms[name] = algorithm
}

func (r *Registry) Get(name string) (Algorithm, bool) {
	algorithm, exists := r.algorithms[name]
	return algorithm, exists
}

func (r *Registry) IsValidAlgorithm(name string) bool {
	_, exists := r.algorithms[name]
	return exists
}

// Names returns every registered name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.algorithms))
	for name := range r.algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAlgorithmsByCategory returns a copy of the category index.
func (r *Registry) GetAlgorithmsByCategory() map[string][]string {
	result := make(map[string][]string, len(r.categories))
	for category, names := range r.categories {
		result[category] = append([]string(nil), names...)
	}
	return result
}

// CategoryOf returns the category name was registered under.
func (r *Registry) CategoryOf(name string) string {
	for category, names := range r.categories {
		for _, n := range names {
			if n == name {
				return category
			}
		}
	}
	return "Unknown"
}

// Apply fills params with defaults, validates them and runs the algorithm.
func (r *Registry) Apply(name string, input gocv.Mat, params map[string]interface{}) (Result, error) {
	algorithm, exists := r.algorithms[name]
	if !exists {
		return Result{}, fmt.Errorf("algorithm not found: %s", name)
	}

	merged := algorithm.GetDefaultParams()
	for k, v := range params {
		merged[k] = v
	}

	if err := algorithm.Validate(merged); err != nil {
		return Result{}, fmt.Errorf("%s: %w", name, err)
	}

	result, err := algorithm.Apply(input, merged)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", name, err)
	}
	return result, nil
}

// ValidateParameters validates params for name without running it.
func (r *Registry) ValidateParameters(name string, params map[string]interface{}) error {
	algorithm, exists := r.algorithms[name]
	if !exists {
		return fmt.Errorf("algorithm not found: %s", name)
	}
	return algorithm.Validate(params)
}
