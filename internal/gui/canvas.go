// Side-by-side display of the original and processed images
package gui

import (
	"image"
	"image/color"
	"image/draw"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"dermoscopy-preprocessing/internal/core"
)

// Previews are downscaled to this box before being handed to fyne.
const (
	previewWidth  = 1024
	previewHeight = 1024
)

// ImageCanvas shows the original and processed image
type ImageCanvas struct {
	imageData *core.ImageData
	logger    *logrus.Logger

	split          *container.Split
	originalView   *widget.Card
	processedView  *widget.Card
	originalImage  *canvas.Image
	processedImage *canvas.Image
}

func NewImageCanvas(imageData *core.ImageData, logger *logrus.Logger) *ImageCanvas {
	ic := &ImageCanvas{
		imageData: imageData,
		logger:    logger,
	}

	ic.initializeUI()
	return ic
}

func (ic *ImageCanvas) initializeUI() {
	ic.originalImage = newPreviewImage()
	ic.processedImage = newPreviewImage()

	ic.originalView = widget.NewCard("Original", "", ic.originalImage)
	ic.processedView = widget.NewCard("Processed", "", ic.processedImage)

	ic.split = container.NewHSplit(ic.originalView, ic.processedView)
	ic.split.SetOffset(0.5)
}

func newPreviewImage() *canvas.Image {
	placeholder := image.NewRGBA(image.Rect(0, 0, 200, 150))
	draw.Draw(placeholder, placeholder.Bounds(), image.NewUniform(color.RGBA{240, 240, 240, 255}), image.Point{}, draw.Src)

	img := canvas.NewImageFromImage(placeholder)
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScaleSmooth
	img.SetMinSize(fyne.NewSize(300, 300))
	return img
}

func (ic *ImageCanvas) GetContainer() fyne.CanvasObject {
	return ic.split
}

// UpdateOriginalImage redraws the original view. Call on the fyne thread.
func (ic *ImageCanvas) UpdateOriginalImage() {
	original := ic.imageData.GetOriginal()
	defer original.Close()

	ic.show(ic.originalImage, original, "original")
	ic.originalView.SetSubTitle(ic.imageData.GetSource())
}

// UpdateProcessedImage redraws the processed view. Call on the fyne thread.
func (ic *ImageCanvas) UpdateProcessedImage() {
	processed := ic.imageData.GetProcessed()
	defer processed.Close()

	ic.show(ic.processedImage, processed, "processed")
	ic.processedView.SetSubTitle(ic.imageData.GetOperation())
}

func (ic *ImageCanvas) show(target *canvas.Image, mat gocv.Mat, view string) {
	if mat.Empty() {
		return
	}

	img, err := core.Preview(mat, previewWidth, previewHeight)
	if err != nil {
		ic.logger.WithError(err).WithField("view", view).Error("Failed to build preview")
		return
	}

	target.Image = img
	target.Refresh()
	ic.logger.WithFields(logrus.Fields{
		"view":   view,
		"width":  img.Bounds().Dx(),
		"height": img.Bounds().Dy(),
	}).Debug("Preview updated")
}

func (ic *ImageCanvas) Refresh() {
	ic.split.Refresh()
}
