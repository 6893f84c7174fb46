// Morphological primitives over the named structuring elements
package algorithms

import (
	"fmt"

	"gocv.io/x/gocv"

	"dermoscopy-preprocessing/internal/core"
)

// Morphology implements one gocv.MorphologyEx operation repeated a number of
// times, per colour plane.
type Morphology struct {
	base
	op gocv.MorphType
}

func morphologyParams() []ParameterInfo {
	return []ParameterInfo{
		kernelParam("circle3"),
		{
			Name:        "iterations",
			Type:        "int",
			Min:         1.0,
			Max:         10.0,
			Default:     1.0,
			Description: "Number of times the operation is applied",
		},
	}
}

// NewErosion creates a new erosion algorithm
func NewErosion() *Morphology {
	return &Morphology{
		base: base{
			name:        "Erosion",
			description: "Morphological erosion; shrinks bright regions",
			params:      morphologyParams(),
		},
		op: gocv.MorphErode,
	}
}

// NewDilation creates a new dilation algorithm
func NewDilation() *Morphology {
	return &Morphology{
		base: base{
			name:        "Dilation",
			description: "Morphological dilation; grows bright regions",
			params:      morphologyParams(),
		},
		op: gocv.MorphDilate,
	}
}

// NewOpening creates a new opening algorithm
func NewOpening() *Morphology {
	return &Morphology{
		base: base{
			name:        "Opening",
			description: "Erosion followed by dilation; removes small bright specks",
			params:      morphologyParams(),
		},
		op: gocv.MorphOpen,
	}
}

// NewClosing creates a new closing algorithm
func NewClosing() *Morphology {
	return &Morphology{
		base: base{
			name:        "Closing",
			description: "Dilation followed by erosion; fills small dark gaps",
			params:      morphologyParams(),
		},
		op: gocv.MorphClose,
	}
}

func (m *Morphology) Apply(input gocv.Mat, params map[string]interface{}) (Result, error) {
	k, err := lookupKernel(params, "circle3")
	if err != nil {
		return Result{}, err
	}
	iterations := intParam(params, "iterations", 1)
	if iterations < 1 {
		return Result{}, fmt.Errorf("%w: iterations %d must be at least 1", core.ErrInvalidParameter, iterations)
	}

	element := k.Mat()
	defer element.Close()

	out, err := core.MapChannels(input, func(plane gocv.Mat) (gocv.Mat, error) {
		output := plane.Clone()
		for i := 0; i < iterations; i++ {
			temp := gocv.NewMat()
			gocv.MorphologyEx(output, &temp, m.op, element)
			output.Close()
			output = temp
		}
		return output, nil
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Image: out}, nil
}
