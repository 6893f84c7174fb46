package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"dermoscopy-preprocessing/internal/core"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp(&out)
	app.ErrWriter = io.Discard
	err := app.Run(append([]string{"enhance"}, args...))
	return out.String(), err
}

// writeBand saves a grayscale PNG whose levels span 50..200.
func writeBand(t *testing.T) string {
	t.Helper()
	data := make([]byte, 0, 151*10)
	for level := 50; level <= 200; level++ {
		for i := 0; i < 10; i++ {
			data = append(data, byte(level))
		}
	}
	m, err := gocv.NewMatFromBytes(151, 10, gocv.MatTypeCV8UC1, data)
	require.NoError(t, err)
	defer m.Close()

	path := filepath.Join(t.TempDir(), "band.png")
	require.True(t, gocv.IMWrite(path, m))
	return path
}

func TestList(t *testing.T) {
	out, err := run(t, "list")
	require.NoError(t, err)

	assert.Contains(t, out, "Contrast:\n")
	assert.Contains(t, out, "auto_brightness_contrast")
	assert.Contains(t, out, "clip_percent (float, default 25, 0..99)")
	assert.Less(t, strings.Index(out, "Artifacts:"), strings.Index(out, "Smoothing:"))
}

func TestApply(t *testing.T) {
	input := writeBand(t)
	output := filepath.Join(t.TempDir(), "out.png")

	out, err := run(t, "apply", "-m", "auto_brightness_contrast", "-p", "clip_percent=10", "--metrics", input, output)
	require.NoError(t, err)

	assert.Contains(t, out, "min_gray: 57\n")
	assert.Contains(t, out, "max_gray: 192\n")
	assert.Contains(t, out, "psnr: ")

	saved := gocv.IMRead(output, gocv.IMReadUnchanged)
	defer saved.Close()
	assert.False(t, saved.Empty())
}

func TestApplyErrors(t *testing.T) {
	input := writeBand(t)
	output := filepath.Join(t.TempDir(), "out.png")

	_, err := run(t, "apply", "-m", "otsu", input, output)
	assert.Error(t, err)

	_, err = run(t, "apply", "-m", "clahe", "-p", "clip_limit=-1", input, output)
	assert.Error(t, err)

	_, err = run(t, "apply", "-m", "clahe", input)
	assert.Error(t, err)
}

func TestAutocontrast(t *testing.T) {
	input := writeBand(t)

	out, err := run(t, "autocontrast", "--clip", "10", input)
	require.NoError(t, err)
	assert.Contains(t, out, "min_gray: 57\n")
	assert.Contains(t, out, "max_gray: 192\n")
	assert.Contains(t, out, "alpha: ")
}

func TestHistogram(t *testing.T) {
	input := writeBand(t)

	out, err := run(t, "histogram", "--clip", "10", input)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 257)
	assert.Equal(t, "  0 0", lines[0])
	assert.Equal(t, "100 10", lines[100])
	assert.Contains(t, lines[256], "min_gray 57, max_gray 192")
}

func TestMissingConfigFallsBack(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "list")
	assert.NoError(t, err)
}

// writeFlat saves a 4x4 grayscale PNG with every pixel at 128.
func writeFlat(t *testing.T) string {
	t.Helper()
	m := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC1)
	defer m.Close()
	m.SetTo(gocv.NewScalar(128, 0, 0, 0))

	path := filepath.Join(t.TempDir(), "flat.png")
	require.True(t, gocv.IMWrite(path, m))
	return path
}

func TestClipOutOfRange(t *testing.T) {
	input := writeBand(t)

	for _, clip := range []string{"-5", "100"} {
		for _, command := range []string{"autocontrast", "histogram"} {
			_, err := run(t, command, "--clip", clip, input)
			assert.ErrorIs(t, err, core.ErrInvalidParameter, "%s --clip %s", command, clip)
		}
	}
}

func TestClipDefaultsFromConfig(t *testing.T) {
	input := writeBand(t)
	cfgPath := filepath.Join(t.TempDir(), "enhance.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("defaults:\n  clip_percent: 10\n"), 0o600))

	out, err := run(t, "--config", cfgPath, "autocontrast", input)
	require.NoError(t, err)
	assert.Contains(t, out, "min_gray: 57\n")
	assert.Contains(t, out, "max_gray: 192\n")
}

func TestHistogramDegenerateFails(t *testing.T) {
	out, err := run(t, "histogram", writeFlat(t))
	assert.ErrorIs(t, err, core.ErrDegenerateRange)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 256)
	assert.Equal(t, "128 16", lines[128])
}
