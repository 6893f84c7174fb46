package kernels

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultWeightsValid(t *testing.T) {
	weights := DefaultWeights()
	assert.Len(t, weights, 10)
	for _, w := range weights {
		assert.True(t, w.Valid(), w.String())
	}
}

func TestDefaultWeightsFreshCopy(t *testing.T) {
	a := DefaultWeights()
	a[0].R = 42

	b := DefaultWeights()
	assert.Equal(t, 0.2, b[0].R)
}

func TestWeightValid(t *testing.T) {
	tests := []struct {
		w    Weight
		want bool
	}{
		{Weight{1, 0, 0}, true},
		{Weight{0.3, 0.4, 0.3}, true},
		{Weight{0.3, 0.4, 0.4}, false},
		{Weight{-0.1, 0.6, 0.5}, false},
		{Weight{0, 0, 0}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.w.Valid(), tt.w.String())
	}
}

func TestWeightString(t *testing.T) {
	assert.Equal(t, "(0.20, 0.60, 0.20)", Weight{0.2, 0.6, 0.2}.String())
}
