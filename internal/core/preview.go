package core

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"
)

// Preview converts mat to an image.Image no larger than maxWidth x maxHeight,
// preserving aspect ratio. Smaller images are returned at full size.
func Preview(mat gocv.Mat, maxWidth, maxHeight int) (image.Image, error) {
	if maxWidth <= 0 || maxHeight <= 0 {
		return nil, fmt.Errorf("%w: preview bounds %dx%d", ErrInvalidParameter, maxWidth, maxHeight)
	}

	bgr, err := ToBGR(mat)
	if err != nil {
		return nil, err
	}
	defer bgr.Close()

	img, err := bgr.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert mat to image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() <= maxWidth && b.Dy() <= maxHeight {
		return imaging.Clone(img), nil
	}
	return imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos), nil
}
