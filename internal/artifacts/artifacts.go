// Package artifacts removes hair, ruler marks and similar occlusions from
// dermoscopic images. Each method builds a mask of thin dark structures per
// colour plane and inpaints it with Telea's method.
package artifacts

import (
	"image"

	"gocv.io/x/gocv"

	"dermoscopy-preprocessing/internal/core"
	"dermoscopy-preprocessing/internal/kernels"
)

const (
	closureMedianSize = 5
	dullRazorLevel    = 10
	bothatMedianSize  = 3
	lineKernelSize    = 9
	logMaskSize       = 11
	logSigma2         = 2.0
	saturationLevel   = 50
	cleanKernelSize   = 9
	cleanInpaintRange = 100
)

// MorphologicalClosure closes every colour plane with kernel, optionally
// after a 5x5 median blur. Dark structures narrower than the kernel vanish.
func MorphologicalClosure(src gocv.Mat, kernel kernels.Kernel, blur bool) (gocv.Mat, error) {
	k := kernel.Mat()
	defer k.Close()

	return core.MapChannels(src, func(plane gocv.Mat) (gocv.Mat, error) {
		in := plane
		if blur {
			blurred := gocv.NewMat()
			defer blurred.Close()
			gocv.MedianBlur(plane, &blurred, closureMedianSize)
			in = blurred
		}

		dst := gocv.NewMat()
		gocv.MorphologyEx(in, &dst, gocv.MorphClose, k)
		return dst, nil
	})
}

// DullRazor inpaints, per colour plane, every pixel whose blackhat response
// to kernel exceeds 10.
func DullRazor(src gocv.Mat, kernel kernels.Kernel) (gocv.Mat, error) {
	k := kernel.Mat()
	defer k.Close()

	return core.MapChannels(src, func(plane gocv.Mat) (gocv.Mat, error) {
		blackhat := gocv.NewMat()
		defer blackhat.Close()
		gocv.MorphologyEx(plane, &blackhat, gocv.MorphBlackhat, k)

		mask := gocv.NewMat()
		defer mask.Close()
		gocv.Threshold(blackhat, &mask, dullRazorLevel, 255, gocv.ThresholdBinary)

		return inpaint(plane, mask, 1), nil
	})
}

// Bothat detects hair with blackhats along four 9x9 line directions on the
// Laplacian-sharpened plane, thresholds the sum with Otsu, grows the mask
// with kernel and inpaints it.
func Bothat(src gocv.Mat, kernel kernels.Kernel) (gocv.Mat, error) {
	k := kernel.Mat()
	defer k.Close()

	lines := kernels.Lines(lineKernelSize)
	var lineMats [4]gocv.Mat
	for i, l := range lines {
		lineMats[i] = l.Mat()
	}
	defer func() {
		for i := range lineMats {
			lineMats[i].Close()
		}
	}()

	return core.MapChannels(src, func(plane gocv.Mat) (gocv.Mat, error) {
		blur := gocv.NewMat()
		defer blur.Close()
		gocv.MedianBlur(plane, &blur, bothatMedianSize)

		lap := gocv.NewMat()
		defer lap.Close()
		gocv.Laplacian(blur, &lap, gocv.MatTypeCV64F, 1, 1, 0, gocv.BorderDefault)

		blurF := gocv.NewMat()
		defer blurF.Close()
		blur.ConvertTo(&blurF, gocv.MatTypeCV64F)

		diff := gocv.NewMat()
		defer diff.Close()
		gocv.Subtract(blurF, lap, &diff)

		sum := gocv.NewMatWithSize(plane.Rows(), plane.Cols(), gocv.MatTypeCV64F)
		defer sum.Close()
		sum.SetTo(gocv.NewScalar(0, 0, 0, 0))
		for i := range lineMats {
			bh := gocv.NewMat()
			gocv.MorphologyEx(diff, &bh, gocv.MorphBlackhat, lineMats[i])
			gocv.Add(sum, bh, &sum)
			bh.Close()
		}

		sum8 := gocv.NewMat()
		defer sum8.Close()
		sum.ConvertTo(&sum8, gocv.MatTypeCV8U)

		binary := gocv.NewMat()
		defer binary.Close()
		gocv.Threshold(sum8, &binary, 0, 255, gocv.ThresholdBinary+gocv.ThresholdOtsu)

		mask := gocv.NewMat()
		defer mask.Close()
		gocv.Dilate(binary, &mask, k)

		return inpaint(plane, mask, 1), nil
	})
}

// LaplacianOfGaussian marks, per colour plane, the closed response of an
// 11x11 LoG filter and inpaints it.
func LaplacianOfGaussian(src gocv.Mat) (gocv.Mat, error) {
	logMask := kernels.LaplacianOfGaussian(logMaskSize, logSigma2).Mat()
	defer logMask.Close()

	circle := kernels.Ellipse(5).Mat()
	defer circle.Close()

	return core.MapChannels(src, func(plane gocv.Mat) (gocv.Mat, error) {
		response := gocv.NewMat()
		defer response.Close()
		gocv.Filter2D(plane, &response, -1, logMask, image.Pt(-1, -1), 0, gocv.BorderDefault)

		mask := gocv.NewMat()
		defer mask.Close()
		gocv.MorphologyEx(response, &mask, gocv.MorphClose, circle)

		return inpaint(plane, mask, 3), nil
	})
}

// CleanRemaining is experimental. It masks saturated regions outside the
// lesion and inpaints them. The lesion is located with Otsu on the grayscale
// image and returned as the second value; both Mats belong to the caller.
//
// The inpaint region is mask minus the inverted lesion with saturating
// subtraction, so it only covers pixels inside both the saturation mask and
// the lesion. A wrapping 8-bit subtraction would also mark every pixel
// outside the mask and outside the lesion; that wider region is not used.
func CleanRemaining(src gocv.Mat) (gocv.Mat, gocv.Mat, error) {
	img, err := core.ToBGR(src)
	if err != nil {
		return gocv.NewMat(), gocv.NewMat(), err
	}
	defer img.Close()

	ellipse := kernels.Ellipse(cleanKernelSize).Mat()
	defer ellipse.Close()

	blur := gocv.NewMat()
	defer blur.Close()
	gocv.GaussianBlur(img, &blur, image.Pt(3, 3), 0, 0, gocv.BorderDefault)

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(blur, &hsv, gocv.ColorBGRToHSV)

	planes := gocv.Split(hsv)
	defer func() {
		for i := range planes {
			planes[i].Close()
		}
	}()

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(planes[1], &thresh, saturationLevel, 255, gocv.ThresholdBinary)

	closed := gocv.NewMat()
	defer closed.Close()
	gocv.MorphologyEx(thresh, &closed, gocv.MorphClose, ellipse)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.MorphologyEx(closed, &mask, gocv.MorphOpen, ellipse)

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	otsu := gocv.NewMat()
	defer otsu.Close()
	gocv.Threshold(gray, &otsu, 0, 255, gocv.ThresholdBinary+gocv.ThresholdOtsu)

	dilated := gocv.NewMat()
	defer dilated.Close()
	gocv.Dilate(otsu, &dilated, ellipse)

	lesion := gocv.NewMat()
	gocv.Erode(dilated, &lesion, ellipse)

	notLesion := gocv.NewMat()
	defer notLesion.Close()
	gocv.BitwiseNot(lesion, &notLesion)

	region := gocv.NewMat()
	defer region.Close()
	gocv.Subtract(mask, notLesion, &region)

	return inpaint(img, region, cleanInpaintRange), lesion, nil
}

func inpaint(src, mask gocv.Mat, radius float32) gocv.Mat {
	dst := gocv.NewMat()
	gocv.Inpaint(src, mask, &dst, radius, gocv.Telea)
	return dst
}
