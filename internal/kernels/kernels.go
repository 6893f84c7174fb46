// Package kernels provides the structuring elements, filter masks and channel
// weights used by the enhancement routines. Every value is immutable and is
// materialised into a fresh Mat on demand, so callers own what they get.
package kernels

import (
	"fmt"
	"image"
	"math"
	"sort"

	"gocv.io/x/gocv"
)

type shape int

const (
	shapeMatrix shape = iota
	shapeEllipse
)

// Kernel is an immutable structuring element or filter mask.
type Kernel struct {
	name   string
	rows   int
	cols   int
	shape  shape
	filter bool
	values []float64
}

// Name returns the identifier used by ByName.
func (k Kernel) Name() string { return k.name }

// Size returns the kernel width and height.
func (k Kernel) Size() image.Point { return image.Pt(k.cols, k.rows) }

// IsFilter reports whether the kernel is a real-valued filter mask rather than
// a binary structuring element.
func (k Kernel) IsFilter() bool { return k.filter }

// At returns the coefficient at row, col. Ellipse kernels are resolved by
// OpenCV and report NaN here.
func (k Kernel) At(row, col int) float64 {
	if k.shape == shapeEllipse {
		return math.NaN()
	}
	return k.values[row*k.cols+col]
}

// Mat materialises the kernel: CV_8U for structuring elements, CV_64F for
// filters. The caller must Close it.
func (k Kernel) Mat() gocv.Mat {
	if k.shape == shapeEllipse {
		return gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(k.cols, k.rows))
	}

	if k.filter {
		m := gocv.NewMatWithSize(k.rows, k.cols, gocv.MatTypeCV64F)
		for r := 0; r < k.rows; r++ {
			for c := 0; c < k.cols; c++ {
				m.SetDoubleAt(r, c, k.values[r*k.cols+c])
			}
		}
		return m
	}

	m := gocv.NewMatWithSize(k.rows, k.cols, gocv.MatTypeCV8U)
	for r := 0; r < k.rows; r++ {
		for c := 0; c < k.cols; c++ {
			m.SetUCharAt(r, c, uint8(k.values[r*k.cols+c]))
		}
	}
	return m
}

func newMatrix(name string, filter bool, rows [][]float64) Kernel {
	k := Kernel{
		name:   name,
		rows:   len(rows),
		cols:   len(rows[0]),
		shape:  shapeMatrix,
		filter: filter,
		values: make([]float64, 0, len(rows)*len(rows[0])),
	}
	for _, row := range rows {
		k.values = append(k.values, row...)
	}
	return k
}

// Hexagon5x5 is a 5x5 element with the four corners cut.
func Hexagon5x5() Kernel {
	return newMatrix("hexagon5", false, [][]float64{
		{0, 1, 1, 1, 0},
		{1, 1, 1, 1, 1},
		{1, 1, 1, 1, 1},
		{1, 1, 1, 1, 1},
		{0, 1, 1, 1, 0},
	})
}

// Rhomb3x3 is the 4-connected cross.
func Rhomb3x3() Kernel {
	return newMatrix("rhomb3", false, [][]float64{
		{0, 1, 0},
		{1, 1, 1},
		{0, 1, 0},
	})
}

// Star3x3 is the diagonal cross.
func Star3x3() Kernel {
	return newMatrix("star3", false, [][]float64{
		{1, 0, 1},
		{0, 1, 0},
		{1, 0, 1},
	})
}

// Ellipse is OpenCV's elliptic structuring element of size n x n.
func Ellipse(n int) Kernel {
	return Kernel{
		name:  fmt.Sprintf("circle%d", n),
		rows:  n,
		cols:  n,
		shape: shapeEllipse,
	}
}

// Sharpen3x3 is the classic Laplacian-boosted sharpening mask.
func Sharpen3x3() Kernel {
	return newMatrix("sharpen3", true, [][]float64{
		{0, -1, 0},
		{-1, 5, -1},
		{0, -1, 0},
	})
}

// Lines returns the four n x n line elements used to detect thin hair: the
// horizontal, vertical, anti-diagonal and main-diagonal lines through the
// centre. n must be odd.
func Lines(n int) [4]Kernel {
	mid := n / 2
	build := func(name string, on func(i, j int) bool) Kernel {
		rows := make([][]float64, n)
		for i := range rows {
			rows[i] = make([]float64, n)
			for j := range rows[i] {
				if on(i, j) {
					rows[i][j] = 1
				}
			}
		}
		return newMatrix(name, false, rows)
	}

	return [4]Kernel{
		build(fmt.Sprintf("line%d_h", n), func(i, _ int) bool { return i == mid }),
		build(fmt.Sprintf("line%d_v", n), func(_, j int) bool { return j == mid }),
		build(fmt.Sprintf("line%d_anti", n), func(i, j int) bool { return i+j == n-1 }),
		build(fmt.Sprintf("line%d_diag", n), func(i, j int) bool { return i == j }),
	}
}

// LaplacianOfGaussian builds an n x n LoG mask with variance sigma2.
func LaplacianOfGaussian(n int, sigma2 float64) Kernel {
	rows := make([][]float64, n)
	half := (n - 1) / 2
	for i := 0; i < n; i++ {
		rows[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			x := float64(i - half)
			y := float64(j - half)
			t := (x*x + y*y) / (2 * sigma2)
			rows[i][j] = (-1 / (math.Pi * sigma2 * sigma2)) * (1 - t) * math.Exp(-t)
		}
	}
	return newMatrix(fmt.Sprintf("log%d", n), true, rows)
}

var ellipseSizes = []int{3, 4, 5, 7, 9, 11}

// ByName looks up a named structuring element: hexagon5, rhomb3, star3, or
// circleN for the supported ellipse sizes.
func ByName(name string) (Kernel, bool) {
	switch name {
	case "hexagon5":
		return Hexagon5x5(), true
	case "rhomb3":
		return Rhomb3x3(), true
	case "star3":
		return Star3x3(), true
	}
	for _, n := range ellipseSizes {
		if name == fmt.Sprintf("circle%d", n) {
			return Ellipse(n), true
		}
	}
	return Kernel{}, false
}

// Names lists every name ByName accepts, sorted.
func Names() []string {
	names := []string{"hexagon5", "rhomb3", "star3"}
	for _, n := range ellipseSizes {
		names = append(names, fmt.Sprintf("circle%d", n))
	}
	sort.Strings(names)
	return names
}
