package kernels

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestNamedKernels(t *testing.T) {
	for _, name := range Names() {
		k, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, k.Name())
		assert.False(t, k.IsFilter(), name)

		m := k.Mat()
		assert.Equal(t, gocv.MatTypeCV8U, m.Type(), name)
		assert.Equal(t, k.Size().X, m.Cols(), name)
		assert.Equal(t, k.Size().Y, m.Rows(), name)
		m.Close()
	}

	_, ok := ByName("circle6")
	assert.False(t, ok)
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, "circle9")
	assert.Contains(t, names, "hexagon5")
	assert.Len(t, names, 9)
}

func TestHexagon(t *testing.T) {
	k := Hexagon5x5()
	assert.Equal(t, 0.0, k.At(0, 0))
	assert.Equal(t, 1.0, k.At(0, 1))
	assert.Equal(t, 1.0, k.At(2, 2))
	assert.Equal(t, 0.0, k.At(4, 4))
}

func TestEllipseAt(t *testing.T) {
	assert.True(t, math.IsNaN(Ellipse(5).At(0, 0)))
}

func TestSharpen3x3(t *testing.T) {
	k := Sharpen3x3()
	require.True(t, k.IsFilter())

	m := k.Mat()
	defer m.Close()
	assert.Equal(t, gocv.MatTypeCV64F, m.Type())
	assert.Equal(t, 5.0, m.GetDoubleAt(1, 1))
	assert.Equal(t, -1.0, m.GetDoubleAt(0, 1))
	assert.Equal(t, 0.0, m.GetDoubleAt(0, 0))
}

func TestLines(t *testing.T) {
	lines := Lines(9)

	h, v, anti, diag := lines[0], lines[1], lines[2], lines[3]
	for i := 0; i < 9; i++ {
		assert.Equal(t, 1.0, h.At(4, i))
		assert.Equal(t, 1.0, v.At(i, 4))
		assert.Equal(t, 1.0, anti.At(i, 8-i))
		assert.Equal(t, 1.0, diag.At(i, i))
	}
	assert.Equal(t, 0.0, h.At(0, 0))
	assert.Equal(t, 0.0, v.At(0, 0))
	assert.Equal(t, 0.0, anti.At(0, 0))
	assert.Equal(t, 0.0, diag.At(0, 8))

	for _, l := range lines {
		sum := 0.0
		for i := 0; i < 9; i++ {
			for j := 0; j < 9; j++ {
				sum += l.At(i, j)
			}
		}
		assert.Equal(t, 9.0, sum, l.Name())
	}
}

func TestLaplacianOfGaussian(t *testing.T) {
	k := LaplacianOfGaussian(11, 2)
	require.True(t, k.IsFilter())
	assert.Equal(t, 11, k.Size().X)

	centre := k.At(5, 5)
	assert.InDelta(t, -1/(math.Pi*4), centre, 1e-12)
	assert.Less(t, centre, 0.0)

	assert.InDelta(t, k.At(0, 5), k.At(5, 0), 1e-15, "mask is symmetric")
	assert.InDelta(t, k.At(2, 3), k.At(8, 7), 1e-15, "mask is symmetric")
	assert.Greater(t, k.At(5, 8), 0.0, "ring is positive")
}

func TestKernelMatIsFresh(t *testing.T) {
	k := Sharpen3x3()
	a := k.Mat()
	defer a.Close()
	a.SetDoubleAt(1, 1, 100)

	b := k.Mat()
	defer b.Close()
	assert.Equal(t, 5.0, b.GetDoubleAt(1, 1))
}
