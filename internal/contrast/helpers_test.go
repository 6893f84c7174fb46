package contrast

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// grayMat builds a rows x cols single-channel image from data.
func grayMat(t *testing.T, rows, cols int, data []byte) gocv.Mat {
	t.Helper()
	mat, err := gocv.NewMatFromBytes(rows, cols, gocv.MatTypeCV8UC1, data)
	require.NoError(t, err)
	t.Cleanup(func() { mat.Close() })
	return mat
}

// constantMat is a rows x cols gray image filled with v.
func constantMat(t *testing.T, rows, cols int, v byte) gocv.Mat {
	t.Helper()
	data := make([]byte, rows*cols)
	for i := range data {
		data[i] = v
	}
	return grayMat(t, rows, cols, data)
}

// rampMat is a 16x16 gray image holding every level exactly once.
func rampMat(t *testing.T) gocv.Mat {
	t.Helper()
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}
	return grayMat(t, 16, 16, data)
}

// bandMat has ten pixels at every level in [lo, hi] and nothing else.
func bandMat(t *testing.T, lo, hi int) gocv.Mat {
	t.Helper()
	cols := hi - lo + 1
	data := make([]byte, 0, 10*cols)
	for r := 0; r < 10; r++ {
		for v := lo; v <= hi; v++ {
			data = append(data, byte(v))
		}
	}
	return grayMat(t, 10, cols, data)
}

// colorMat is a BGR image whose planes are derived from the pixel position.
func colorMat(t *testing.T, rows, cols int) gocv.Mat {
	t.Helper()
	data := make([]byte, 0, rows*cols*3)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			data = append(data, byte((r*7+c*3)%256), byte((r*13+c)%200+30), byte((r+c*11)%180+60))
		}
	}
	mat, err := gocv.NewMatFromBytes(rows, cols, gocv.MatTypeCV8UC3, data)
	require.NoError(t, err)
	t.Cleanup(func() { mat.Close() })
	return mat
}

// bimodalColorMat splits the image into a dark lesion on the left and bright
// skin on the right.
func bimodalColorMat(t *testing.T) gocv.Mat {
	t.Helper()
	const rows, cols = 20, 40
	data := make([]byte, 0, rows*cols*3)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if c < cols/2 {
				data = append(data, 40, 30, 90)
			} else {
				data = append(data, 170, 190, 230)
			}
		}
	}
	mat, err := gocv.NewMatFromBytes(rows, cols, gocv.MatTypeCV8UC3, data)
	require.NoError(t, err)
	t.Cleanup(func() { mat.Close() })
	return mat
}
