// Menu handler for application actions
package gui

import (
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"dermoscopy-preprocessing/internal/core"
	"dermoscopy-preprocessing/internal/io"
)

// MenuHandler handles menu actions
type MenuHandler struct {
	window    fyne.Window
	imageData *core.ImageData
	loader    *io.ImageLoader
	logger    *logrus.Logger

	onImageLoaded func(string)
	onImageSaved  func(string)
	onError       func(string, error)
}

func NewMenuHandler(window fyne.Window, imageData *core.ImageData, loader *io.ImageLoader, logger *logrus.Logger) *MenuHandler {
	return &MenuHandler{
		window:    window,
		imageData: imageData,
		loader:    loader,
		logger:    logger,
	}
}

func (mh *MenuHandler) GetMainMenu() *fyne.MainMenu {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mh.openImage),
		fyne.NewMenuItem("Save Result...", mh.saveImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Exit", func() {
			mh.window.Close()
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mh.showAbout),
	)

	return fyne.NewMainMenu(fileMenu, helpMenu)
}

func (mh *MenuHandler) openImage() {
	mh.logger.Debug("Opening file dialog for image selection")

	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			mh.showError("File Dialog Error", err)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		if err := mh.load(reader.URI().Path()); err != nil {
			mh.showError("Failed to Load Image", err)
		}
	}, mh.window)

	fileDialog.SetFilter(storage.NewExtensionFileFilter(io.SupportedExtensions()))
	fileDialog.Show()
}

// load resolves path through the loader and installs it as the original.
func (mh *MenuHandler) load(path string) error {
	mat, err := core.Resolve(core.FilePath(path), mh.loader)
	if err != nil {
		return err
	}
	defer mat.Close()

	if err := mh.imageData.SetOriginal(mat, path); err != nil {
		return err
	}

	mh.logger.WithField("filepath", path).Info("Image loaded")
	if mh.onImageLoaded != nil {
		mh.onImageLoaded(path)
	}
	return nil
}

func (mh *MenuHandler) saveImage() {
	if !mh.imageData.HasImage() {
		mh.showError("No Image", fmt.Errorf("no image loaded to save"))
		return
	}

	fileDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			mh.showError("File Dialog Error", err)
			return
		}
		if writer == nil {
			return
		}
		// gocv writes by path; the handle is only used for its URI
		writer.Close()

		path := writer.URI().Path()
		processed := mh.imageData.GetProcessed()
		defer processed.Close()

		if err := mh.loader.SaveImage(processed, path); err != nil {
			mh.showError("Failed to Save Image", err)
			return
		}

		mh.logger.WithFields(logrus.Fields{
			"filepath":  path,
			"operation": mh.imageData.GetOperation(),
		}).Info("Image saved")

		if mh.onImageSaved != nil {
			mh.onImageSaved(path)
		}
	}, mh.window)

	fileDialog.SetFileName(mh.suggestedName())
	fileDialog.SetFilter(storage.NewExtensionFileFilter(io.SupportedExtensions()))
	fileDialog.Show()
}

// suggestedName derives "<input>_<operation>.png" from the loaded image.
func (mh *MenuHandler) suggestedName() string {
	base := strings.TrimSuffix(filepath.Base(mh.imageData.GetSource()), filepath.Ext(mh.imageData.GetSource()))
	if base == "" || base == "." {
		base = "image"
	}
	if op := mh.imageData.GetOperation(); op != "" {
		base += "_" + op
	}
	return base + ".png"
}

func (mh *MenuHandler) showAbout() {
	content := container.NewVBox(
		widget.NewLabel("Dermoscopy Preprocessing"),
		widget.NewSeparator(),
		widget.NewLabel("Contrast, illumination, sharpening and hair removal"),
		widget.NewLabel("routines for dermoscopic images."),
		widget.NewSeparator(),
		widget.NewLabel("Built with Go, Fyne and OpenCV"),
	)

	aboutDialog := dialog.NewCustom("About", "Close", content, mh.window)
	aboutDialog.Resize(fyne.NewSize(400, 220))
	aboutDialog.Show()
}

func (mh *MenuHandler) showError(title string, err error) {
	if mh.onError != nil {
		mh.onError(title, err)
		return
	}
	mh.logger.WithError(err).Error(title)
	dialog.ShowError(err, mh.window)
}

func (mh *MenuHandler) SetCallbacks(onImageLoaded, onImageSaved func(string), onError func(string, error)) {
	mh.onImageLoaded = onImageLoaded
	mh.onImageSaved = onImageSaved
	mh.onError = onError
}
