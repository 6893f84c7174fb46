package artifacts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"dermoscopy-preprocessing/internal/core"
	"dermoscopy-preprocessing/internal/kernels"
)

const (
	skinLevel = 200
	hairLevel = 40
	hairRow   = 16
)

// hairMat is a 32x32 bright BGR image crossed by a horizontal dark line of
// the given odd width, centred on hairRow.
func hairMat(t *testing.T, width int) gocv.Mat {
	t.Helper()
	half := width / 2
	data := make([]byte, 0, 32*32*3)
	for r := 0; r < 32; r++ {
		for c := 0; c < 32; c++ {
			v := byte(skinLevel)
			if r >= hairRow-half && r <= hairRow+half {
				v = hairLevel
			}
			data = append(data, v, v, v)
		}
	}
	m, err := gocv.NewMatFromBytes(32, 32, gocv.MatTypeCV8UC3, data)
	require.NoError(t, err)
	return m
}

func assertSameShape(t *testing.T, src, out gocv.Mat) {
	t.Helper()
	assert.Equal(t, src.Rows(), out.Rows())
	assert.Equal(t, src.Cols(), out.Cols())
	assert.Equal(t, gocv.MatTypeCV8UC3, out.Type())
}

func TestMorphologicalClosureRemovesLine(t *testing.T) {
	src := hairMat(t, 1)
	defer src.Close()

	for _, blur := range []bool{false, true} {
		out, err := MorphologicalClosure(src, kernels.Ellipse(7), blur)
		require.NoError(t, err)
		assertSameShape(t, src, out)
		assert.Equal(t, uint8(skinLevel), out.GetVecbAt(hairRow, 16)[1], "blur=%v", blur)
		out.Close()
	}
}

func TestDullRazorRemovesLine(t *testing.T) {
	src := hairMat(t, 1)
	defer src.Close()

	out, err := DullRazor(src, kernels.Ellipse(9))
	require.NoError(t, err)
	defer out.Close()

	assertSameShape(t, src, out)
	assert.Greater(t, out.GetVecbAt(hairRow, 16)[0], uint8(150))
	assert.Equal(t, uint8(skinLevel), out.GetVecbAt(2, 2)[0])
}

func TestDullRazorFlatUnchanged(t *testing.T) {
	data := make([]byte, 16*16*3)
	for i := range data {
		data[i] = 128
	}
	src, err := gocv.NewMatFromBytes(16, 16, gocv.MatTypeCV8UC3, data)
	require.NoError(t, err)
	defer src.Close()

	out, err := DullRazor(src, kernels.Ellipse(9))
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, src.ToBytes(), out.ToBytes())
}

// assertLineRemoved checks that every row of the hair band was pulled up
// toward the skin level and that rows far from it are untouched.
func assertLineRemoved(t *testing.T, out gocv.Mat, width int) {
	t.Helper()
	half := width / 2
	for r := hairRow - half; r <= hairRow+half; r++ {
		for _, c := range []int{8, 16, 24} {
			px := out.GetVecbAt(r, c)
			for ch := 0; ch < 3; ch++ {
				assert.Greater(t, px[ch], uint8(150), "row %d col %d channel %d", r, c, ch)
			}
		}
	}
	for _, r := range []int{0, 2, 29, 31} {
		px := out.GetVecbAt(r, 16)
		assert.InDelta(t, skinLevel, int(px[0]), 2, "row %d", r)
	}
}

func TestBothatRemovesLine(t *testing.T) {
	// a single pixel line does not survive the 3x3 median, so use a band
	src := hairMat(t, 3)
	defer src.Close()

	out, err := Bothat(src, kernels.Ellipse(5))
	require.NoError(t, err)
	defer out.Close()

	assertSameShape(t, src, out)
	assertLineRemoved(t, out, 3)
}

func TestBothatFlatUnchanged(t *testing.T) {
	data := make([]byte, 16*16*3)
	for i := range data {
		data[i] = 128
	}
	src, err := gocv.NewMatFromBytes(16, 16, gocv.MatTypeCV8UC3, data)
	require.NoError(t, err)
	defer src.Close()

	out, err := Bothat(src, kernels.Ellipse(5))
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, src.ToBytes(), out.ToBytes())
}

func TestLaplacianOfGaussianRemovesLine(t *testing.T) {
	src := hairMat(t, 3)
	defer src.Close()

	out, err := LaplacianOfGaussian(src)
	require.NoError(t, err)
	defer out.Close()

	assertSameShape(t, src, out)
	assertLineRemoved(t, out, 3)
}

func TestCleanRemaining(t *testing.T) {
	src := hairMat(t, 1)
	defer src.Close()

	out, lesion, err := CleanRemaining(src)
	require.NoError(t, err)
	defer out.Close()
	defer lesion.Close()

	assertSameShape(t, src, out)
	assert.Equal(t, gocv.MatTypeCV8UC1, lesion.Type())
	assert.Equal(t, src.Rows(), lesion.Rows())
	assert.Equal(t, src.Cols(), lesion.Cols())
}

func TestGrayscaleInputStaysGray(t *testing.T) {
	src := gocv.NewMatWithSize(16, 16, gocv.MatTypeCV8UC1)
	defer src.Close()
	src.SetTo(gocv.NewScalar(100, 0, 0, 0))

	out, err := MorphologicalClosure(src, kernels.Rhomb3x3(), false)
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, gocv.MatTypeCV8UC1, out.Type())
}

func TestEmptyInput(t *testing.T) {
	empty := gocv.NewMat()
	defer empty.Close()

	_, err := DullRazor(empty, kernels.Ellipse(9))
	assert.ErrorIs(t, err, core.ErrInvalidParameter)

	_, _, err = CleanRemaining(empty)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}

func TestCleanRemainingLeavesUnsaturatedSkin(t *testing.T) {
	// gray skin with a dark lesion: nothing is saturated, so nothing is
	// inpainted inside or outside the lesion
	data := make([]byte, 0, 32*32*3)
	for r := 0; r < 32; r++ {
		for c := 0; c < 32; c++ {
			v := byte(skinLevel)
			if r >= 10 && r < 22 && c >= 10 && c < 22 {
				v = 60
			}
			data = append(data, v, v, v)
		}
	}
	src, err := gocv.NewMatFromBytes(32, 32, gocv.MatTypeCV8UC3, data)
	require.NoError(t, err)
	defer src.Close()

	out, lesion, err := CleanRemaining(src)
	require.NoError(t, err)
	defer out.Close()
	defer lesion.Close()

	assert.Equal(t, src.ToBytes(), out.ToBytes())
	assert.Greater(t, gocv.CountNonZero(lesion), 0)
}
