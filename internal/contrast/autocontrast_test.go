package contrast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"dermoscopy-preprocessing/internal/core"
)

func TestComputeRescaleUniformNoClip(t *testing.T) {
	hist, err := GrayHistogram(rampMat(t))
	require.NoError(t, err)

	params, r, err := ComputeRescale(hist, 0)
	require.NoError(t, err)

	assert.Equal(t, 0, r.MinGray)
	assert.Equal(t, 254, r.MaxGray)
	assert.InDelta(t, 1.0, params.Alpha, 0.01)
	assert.Equal(t, 0.0, params.Beta)
}

func TestComputeRescaleBand(t *testing.T) {
	hist, err := GrayHistogram(bandMat(t, 50, 200))
	require.NoError(t, err)

	params, r, err := ComputeRescale(hist, 10)
	require.NoError(t, err)

	assert.Greater(t, r.MinGray, 50)
	assert.Less(t, r.MaxGray, 200)
	assert.Equal(t, 57, r.MinGray)
	assert.Equal(t, 192, r.MaxGray)
	assert.Greater(t, params.Alpha, 1.0)
	assert.InDelta(t, -float64(r.MinGray)*params.Alpha, params.Beta, 1e-9)
}

func TestComputeRescaleErrors(t *testing.T) {
	ramp, err := GrayHistogram(rampMat(t))
	require.NoError(t, err)

	constant, err := GrayHistogram(constantMat(t, 4, 4, 128))
	require.NoError(t, err)

	black, err := GrayHistogram(constantMat(t, 4, 4, 0))
	require.NoError(t, err)

	white, err := GrayHistogram(constantMat(t, 4, 4, 255))
	require.NoError(t, err)

	tests := []struct {
		name    string
		hist    Histogram
		p       float64
		wantErr error
	}{
		{name: "negative percent", hist: ramp, p: -1, wantErr: core.ErrInvalidParameter},
		{name: "hundred percent", hist: ramp, p: 100, wantErr: core.ErrInvalidParameter},
		{name: "nan percent", hist: ramp, p: math.NaN(), wantErr: core.ErrInvalidParameter},
		{name: "empty histogram", hist: Histogram{}, p: 25, wantErr: core.ErrInvalidParameter},
		{name: "constant image", hist: constant, p: 25, wantErr: core.ErrDegenerateRange},
		{name: "white image", hist: white, p: 25, wantErr: core.ErrDegenerateRange},
		{name: "black image", hist: black, p: 25, wantErr: core.ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ComputeRescale(tt.hist, tt.p)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestComputeRescaleConstantRange(t *testing.T) {
	hist, err := GrayHistogram(constantMat(t, 4, 4, 128))
	require.NoError(t, err)

	_, r, err := ComputeRescale(hist, 25)
	require.ErrorIs(t, err, core.ErrDegenerateRange)
	assert.Equal(t, 128, r.MinGray)
	assert.Equal(t, 127, r.MaxGray)
}

func TestComputeRescaleClipInvariant(t *testing.T) {
	images := map[string]gocv.Mat{
		"ramp":  rampMat(t),
		"band":  bandMat(t, 50, 200),
		"color": colorMat(t, 24, 24),
	}

	for name, mat := range images {
		hist, err := GrayHistogram(mat)
		require.NoError(t, err)
		total := float64(hist.Total())

		for _, p := range []float64{0, 1, 5, 10, 25, 40} {
			params, r, err := ComputeRescale(hist, p)
			require.NoError(t, err, "%s p=%v", name, p)
			halfClip := p * total / 100 / 2

			var below, above float64
			for i := 0; i < r.MinGray; i++ {
				below += float64(hist[i])
			}
			for i := r.MaxGray + 2; i < Levels; i++ {
				above += float64(hist[i])
			}

			assert.LessOrEqual(t, below, halfClip, "%s p=%v lower tail", name, p)
			assert.LessOrEqual(t, above, halfClip, "%s p=%v upper tail", name, p)
			assert.Greater(t, params.Alpha, 0.0, "%s p=%v", name, p)
		}
	}
}

func TestComputeRescaleMonotonicInClip(t *testing.T) {
	hist, err := GrayHistogram(colorMat(t, 32, 32))
	require.NoError(t, err)

	prev, prevRange, err := ComputeRescale(hist, 0)
	require.NoError(t, err)

	for p := 2.5; p < 50; p += 2.5 {
		params, r, err := ComputeRescale(hist, p)
		require.NoError(t, err, "p=%v", p)

		assert.GreaterOrEqual(t, r.MinGray, prevRange.MinGray, "p=%v", p)
		assert.LessOrEqual(t, r.MaxGray, prevRange.MaxGray, "p=%v", p)
		assert.GreaterOrEqual(t, params.Alpha, prev.Alpha, "p=%v", p)

		prev, prevRange = params, r
	}
}

func TestRescaleLevel(t *testing.T) {
	p := RescaleParameters{Alpha: 2, Beta: -10}

	assert.Equal(t, uint8(0), p.Level(0))
	assert.Equal(t, uint8(0), p.Level(5))
	assert.Equal(t, uint8(10), p.Level(10))
	assert.Equal(t, uint8(255), p.Level(200))

	half := RescaleParameters{Alpha: 0.5, Beta: 0}
	assert.Equal(t, uint8(2), half.Level(5), "2.5 rounds to even")
	assert.Equal(t, uint8(4), half.Level(7), "3.5 rounds to even")
}

func TestRescaleApplyMatchesLUT(t *testing.T) {
	src := colorMat(t, 16, 16)

	res, err := AutoBrightnessContrast(src, DefaultClipPercent)
	require.NoError(t, err)
	defer res.Image.Close()

	lut := res.Params.LUT()
	in := src.ToBytes()
	out := res.Image.ToBytes()
	require.Len(t, out, len(in))

	for i := range in {
		want := uint8(math.Max(0, math.Min(255, math.RoundToEven(res.Params.Alpha*float64(in[i])+res.Params.Beta))))
		require.Equal(t, want, out[i], "sample %d", i)
		require.Equal(t, lut[in[i]], out[i], "sample %d", i)
	}
}

func TestRescaleApplyRejectsNonFinite(t *testing.T) {
	src := rampMat(t)

	for _, p := range []RescaleParameters{
		{Alpha: math.Inf(1), Beta: 0},
		{Alpha: 1, Beta: math.NaN()},
	} {
		_, err := p.Apply(src)
		assert.ErrorIs(t, err, core.ErrInvalidParameter)
	}
}

func TestAutoBrightnessContrastPreservesShape(t *testing.T) {
	for name, src := range map[string]gocv.Mat{
		"gray":  rampMat(t),
		"color": colorMat(t, 12, 20),
	} {
		t.Run(name, func(t *testing.T) {
			res, err := AutoBrightnessContrast(src, DefaultClipPercent)
			require.NoError(t, err)
			defer res.Image.Close()

			assert.Equal(t, src.Rows(), res.Image.Rows())
			assert.Equal(t, src.Cols(), res.Image.Cols())
			assert.Equal(t, src.Type(), res.Image.Type())
			assert.Greater(t, res.Params.Alpha, 0.0)
		})
	}
}

func TestAutoBrightnessContrastLeavesInputIntact(t *testing.T) {
	src := rampMat(t)
	before := append([]byte(nil), src.ToBytes()...)

	res, err := AutoBrightnessContrast(src, 25)
	require.NoError(t, err)
	defer res.Image.Close()

	assert.Equal(t, before, src.ToBytes())
}

func TestAutoBrightnessContrastNotIdempotent(t *testing.T) {
	first, err := AutoBrightnessContrast(rampMat(t), 25)
	require.NoError(t, err)
	defer first.Image.Close()

	second, err := AutoBrightnessContrast(first.Image, 25)
	require.NoError(t, err)
	defer second.Image.Close()

	assert.NotEqual(t, first.Image.ToBytes(), second.Image.ToBytes())
	assert.NotEqual(t, first.Params, second.Params)
}

func TestAutoBrightnessContrastConstantImage(t *testing.T) {
	_, err := AutoBrightnessContrast(constantMat(t, 4, 4, 128), 25)
	assert.ErrorIs(t, err, core.ErrDegenerateRange)
}

func TestAutoBrightnessContrastEmptyImage(t *testing.T) {
	mat := gocv.NewMat()
	defer mat.Close()

	_, err := AutoBrightnessContrast(mat, 25)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}
