package core

import (
	"fmt"

	"gocv.io/x/gocv"
)

// ToGray returns the grayscale projection of src as a new single-channel Mat.
func ToGray(src gocv.Mat) (gocv.Mat, error) {
	if err := ValidateImage(src); err != nil {
		return gocv.NewMat(), err
	}

	gray := gocv.NewMat()
	switch src.Channels() {
	case 1:
		src.CopyTo(&gray)
	case 3:
		gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)
	case 4:
		gocv.CvtColor(src, &gray, gocv.ColorBGRAToGray)
	}
	return gray, nil
}

// ToBGR returns src as a new 3-channel BGR Mat. Grayscale input is replicated
// across channels and alpha is dropped.
func ToBGR(src gocv.Mat) (gocv.Mat, error) {
	if err := ValidateImage(src); err != nil {
		return gocv.NewMat(), err
	}

	bgr := gocv.NewMat()
	switch src.Channels() {
	case 1:
		gocv.CvtColor(src, &bgr, gocv.ColorGrayToBGR)
	case 3:
		src.CopyTo(&bgr)
	case 4:
		gocv.CvtColor(src, &bgr, gocv.ColorBGRAToBGR)
	}
	return bgr, nil
}

// Channels is the decomposition every per-channel routine starts from.
type Channels struct {
	Blue  gocv.Mat
	Green gocv.Mat
	Red   gocv.Mat
	Gray  gocv.Mat
}

// SplitChannels decomposes src into its colour planes and grayscale
// projection. Grayscale input yields three identical planes.
func SplitChannels(src gocv.Mat) (*Channels, error) {
	bgr, err := ToBGR(src)
	if err != nil {
		return nil, err
	}
	defer bgr.Close()

	gray, err := ToGray(src)
	if err != nil {
		return nil, err
	}

	planes := gocv.Split(bgr)
	if len(planes) != 3 {
		for i := range planes {
			planes[i].Close()
		}
		gray.Close()
		return nil, fmt.Errorf("%w: split produced %d planes", ErrInvalidParameter, len(planes))
	}

	return &Channels{
		Blue:  planes[0],
		Green: planes[1],
		Red:   planes[2],
		Gray:  gray,
	}, nil
}

// Close releases every plane
func (c *Channels) Close() {
	c.Blue.Close()
	c.Green.Close()
	c.Red.Close()
	c.Gray.Close()
}

// MergeBGR stacks three single-channel planes into a BGR image.
func MergeBGR(blue, green, red gocv.Mat) gocv.Mat {
	dst := gocv.NewMat()
	gocv.Merge([]gocv.Mat{blue, green, red}, &dst)
	return dst
}

// ChannelFunc transforms one 8-bit plane into a new Mat.
type ChannelFunc func(plane gocv.Mat) (gocv.Mat, error)

// MapChannels applies fn to every colour plane of src and merges the results.
// Single-channel input is passed to fn directly; colour input comes back BGR.
func MapChannels(src gocv.Mat, fn ChannelFunc) (gocv.Mat, error) {
	if err := ValidateImage(src); err != nil {
		return gocv.NewMat(), err
	}

	if src.Channels() == 1 {
		return fn(src)
	}

	ch, err := SplitChannels(src)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer ch.Close()

	outputs := make([]gocv.Mat, 0, 3)
	defer func() {
		for i := range outputs {
			outputs[i].Close()
		}
	}()

	for _, plane := range []gocv.Mat{ch.Blue, ch.Green, ch.Red} {
		out, err := fn(plane)
		if err != nil {
			return gocv.NewMat(), err
		}
		outputs = append(outputs, out)
	}

	return MergeBGR(outputs[0], outputs[1], outputs[2]), nil
}

// DropAlpha returns a validated copy of src with any alpha plane removed.
// Grayscale stays single-channel.
func DropAlpha(src gocv.Mat) (gocv.Mat, error) {
	if err := ValidateImage(src); err != nil {
		return gocv.NewMat(), err
	}
	if src.Channels() == 4 {
		return ToBGR(src)
	}
	return src.Clone(), nil
}
