package core

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Decoder turns a file path into a decoded image. *io.ImageLoader satisfies it.
type Decoder interface {
	LoadImage(path string) (gocv.Mat, error)
}

// Source is the input of an enhancement: either a file on disk or an image
// already in memory. Resolve it once at the boundary; the routines only ever
// see decoded Mats.
type Source interface {
	resolve(dec Decoder) (gocv.Mat, error)
	String() string
}

// FilePath is a Source decoded from disk.
type FilePath string

func (p FilePath) resolve(dec Decoder) (gocv.Mat, error) {
	if p == "" {
		return gocv.NewMat(), fmt.Errorf("%w: empty file path", ErrInvalidParameter)
	}
	if dec == nil {
		return gocv.NewMat(), fmt.Errorf("%w: no decoder for %s", ErrInvalidParameter, string(p))
	}
	return dec.LoadImage(string(p))
}

func (p FilePath) String() string {
	return string(p)
}

// Buffer is a Source wrapping an in-memory image. The caller keeps ownership
// of Mat; resolution hands back a clone.
type Buffer struct {
	Mat gocv.Mat
}

func (b Buffer) resolve(Decoder) (gocv.Mat, error) {
	if b.Mat.Ptr() == nil || b.Mat.Empty() {
		return gocv.NewMat(), fmt.Errorf("%w: empty image buffer", ErrInvalidParameter)
	}
	return b.Mat.Clone(), nil
}

func (b Buffer) String() string {
	if b.Mat.Ptr() == nil {
		return "buffer(nil)"
	}
	return fmt.Sprintf("buffer(%dx%dx%d)", b.Mat.Cols(), b.Mat.Rows(), b.Mat.Channels())
}

// Resolve decodes src into a validated Mat owned by the caller.
func Resolve(src Source, dec Decoder) (gocv.Mat, error) {
	if src == nil {
		return gocv.NewMat(), fmt.Errorf("%w: nil source", ErrInvalidParameter)
	}

	mat, err := src.resolve(dec)
	if err != nil {
		return gocv.NewMat(), err
	}

	if err := ValidateImage(mat); err != nil {
		mat.Close()
		return gocv.NewMat(), fmt.Errorf("resolve %s: %w", src, err)
	}
	return mat, nil
}
