package contrast

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dermoscopy-preprocessing/internal/core"
)

func TestEqualizeHistogramShape(t *testing.T) {
	src := colorMat(t, 16, 16)

	out, err := EqualizeHistogram(src)
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, src.Rows(), out.Rows())
	assert.Equal(t, src.Cols(), out.Cols())
	assert.Equal(t, 3, out.Channels())
}

func TestEqualizeHistogramStretchesBand(t *testing.T) {
	out, err := EqualizeHistogram(bandMat(t, 100, 140))
	require.NoError(t, err)
	defer out.Close()

	hist, err := GrayHistogram(out)
	require.NoError(t, err)

	lo, hi := -1, -1
	for i, c := range hist {
		if c == 0 {
			continue
		}
		if lo < 0 {
			lo = i
		}
		hi = i
	}
	assert.Less(t, lo, 100)
	assert.Equal(t, 255, hi)
}

func TestCLAHE(t *testing.T) {
	src := colorMat(t, 32, 32)

	out, err := CLAHE(src, DefaultCLAHEClipLimit, image.Pt(DefaultCLAHETileGrid, DefaultCLAHETileGrid))
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, src.Rows(), out.Rows())
	assert.Equal(t, src.Cols(), out.Cols())
	assert.Equal(t, 3, out.Channels())
}

func TestCLAHEInvalidParameters(t *testing.T) {
	src := rampMat(t)

	_, err := CLAHE(src, 0, image.Pt(3, 3))
	assert.ErrorIs(t, err, core.ErrInvalidParameter)

	_, err = CLAHE(src, 2, image.Pt(0, 3))
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}

func TestWindowEnhancement(t *testing.T) {
	out, err := WindowEnhancement(rampMat(t), 50, 150)
	require.NoError(t, err)
	defer out.Close()

	require.Equal(t, 1, out.Channels())
	data := out.ToBytes()

	assert.Equal(t, uint8(0), data[0])
	assert.Equal(t, uint8(0), data[49])
	assert.Equal(t, uint8(0), data[50])
	assert.Equal(t, uint8(127), data[100])
	assert.Equal(t, uint8(255), data[150])
	assert.Equal(t, uint8(255), data[151])
	assert.Equal(t, uint8(255), data[255])
}

func TestWindowEnhancementColorInput(t *testing.T) {
	out, err := WindowEnhancement(colorMat(t, 8, 8), 0, 255)
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, 1, out.Channels())
}

func TestWindowEnhancementInvalid(t *testing.T) {
	src := rampMat(t)

	for _, w := range [][2]int{{100, 100}, {150, 100}, {-1, 100}, {0, 256}} {
		_, err := WindowEnhancement(src, w[0], w[1])
		assert.ErrorIs(t, err, core.ErrInvalidParameter, "window %v", w)
	}
}
