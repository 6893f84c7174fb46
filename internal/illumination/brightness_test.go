package illumination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"dermoscopy-preprocessing/internal/core"
)

func TestMulLogLUT(t *testing.T) {
	identity := MulLogLUT(1)
	for i := range identity {
		assert.Equal(t, uint8(i), identity[i], "factor 1 is the identity at %d", i)
	}

	lut := MulLogLUT(DefaultFactor)
	assert.Equal(t, uint8(0), lut[0])
	assert.Equal(t, uint8(255), lut[255])
	for i := 1; i < 256; i++ {
		assert.GreaterOrEqual(t, lut[i], lut[i-1], "monotonic at %d", i)
		assert.GreaterOrEqual(t, lut[i], uint8(i), "brightens at %d", i)
	}

	want := uint8(256 - 256*math.Pow(1-64.0/256, DefaultFactor))
	assert.Equal(t, want, lut[64])
}

func TestMulLogLUTDarkens(t *testing.T) {
	lut := MulLogLUT(0.5)
	for i := 1; i < 255; i++ {
		assert.LessOrEqual(t, lut[i], uint8(i), "darkens at %d", i)
	}
}

func TestMulLogBrightness(t *testing.T) {
	data := make([]byte, 0, 4*4*3)
	for i := 0; i < 16; i++ {
		data = append(data, byte(i*10), byte(i*12), byte(i*15))
	}
	src, err := gocv.NewMatFromBytes(4, 4, gocv.MatTypeCV8UC3, data)
	require.NoError(t, err)
	defer src.Close()

	out, err := MulLogBrightness(src, DefaultFactor)
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, src.Type(), out.Type())
	lut := MulLogLUT(DefaultFactor)
	got := out.ToBytes()
	for i, v := range src.ToBytes() {
		assert.Equal(t, lut[v], got[i])
	}
}

func TestMulLogBrightnessInvalid(t *testing.T) {
	src := gocv.NewMatWithSize(2, 2, gocv.MatTypeCV8UC1)
	defer src.Close()

	for _, f := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := MulLogBrightness(src, f)
		assert.ErrorIs(t, err, core.ErrInvalidParameter, "factor %v", f)
	}
}
