// Viewer window: load an image, run one routine, compare and save
package gui

import (
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"dermoscopy-preprocessing/internal/algorithms"
	"dermoscopy-preprocessing/internal/config"
	"dermoscopy-preprocessing/internal/core"
	"dermoscopy-preprocessing/internal/io"
	"dermoscopy-preprocessing/internal/metrics"
)

// Application represents the main viewer window
type Application struct {
	app    fyne.App
	window fyne.Window
	logger *logrus.Logger
	cfg    config.Config

	// Core components
	imageData *core.ImageData
	loader    *io.ImageLoader
	registry  *algorithms.Registry
	evaluator *metrics.Evaluator

	// GUI components
	canvas      *ImageCanvas
	toolbar     *Toolbar
	properties  *PropertiesPanel
	infoPanel   *InfoPanel
	menuHandler *MenuHandler
	statusLabel *widget.Label

	// processing serialises routine runs
	processing sync.Mutex
}

func NewApplication(app fyne.App, logger *logrus.Logger, cfg config.Config) *Application {
	window := app.NewWindow("Dermoscopy Preprocessing")
	window.Resize(fyne.NewSize(1400, 900))
	window.CenterOnScreen()

	a := &Application{
		app:    app,
		window: window,
		logger: logger,
		cfg:    cfg,
	}

	a.initializeCore()
	a.initializeGUI()
	a.setupLayout()
	a.setupCallbacks()

	return a
}

func (a *Application) initializeCore() {
	a.imageData = core.NewImageData()
	a.loader = io.NewImageLoader(a.logger)
	a.registry = algorithms.NewRegistry()
	a.evaluator = metrics.NewEvaluator()
}

func (a *Application) initializeGUI() {
	a.canvas = NewImageCanvas(a.imageData, a.logger)
	a.toolbar = NewToolbar()
	a.properties = NewPropertiesPanel(a.registry, a.cfg, a.logger)
	a.infoPanel = NewInfoPanel()
	a.menuHandler = NewMenuHandler(a.window, a.imageData, a.loader, a.logger)
	a.statusLabel = widget.NewLabel("Open an image to start")
}

func (a *Application) setupLayout() {
	center := container.NewBorder(
		a.toolbar.GetContainer(),
		a.statusLabel,
		nil,
		nil,
		container.NewPadded(a.canvas.GetContainer()),
	)

	left := container.NewVScroll(a.properties.GetContainer())
	right := container.NewVScroll(a.infoPanel.GetContainer())

	centerAndRight := container.NewHSplit(center, right)
	centerAndRight.SetOffset(0.78)

	main := container.NewHSplit(left, centerAndRight)
	main.SetOffset(0.22)

	a.window.SetMainMenu(a.menuHandler.GetMainMenu())
	a.window.SetContent(main)
}

func (a *Application) setupCallbacks() {
	a.menuHandler.SetCallbacks(
		// onImageLoaded
		func(path string) {
			fyne.Do(func() {
				a.canvas.UpdateOriginalImage()
				a.canvas.UpdateProcessedImage()
				a.infoPanel.SetImageInfo(a.imageData.GetMetadata())
				a.infoPanel.Clear()
				a.properties.Enable()
				a.toolbar.Enable()
				a.updateStatusMessage(fmt.Sprintf("Loaded: %s", path))
			})
		},
		// onImageSaved
		func(path string) {
			fyne.Do(func() {
				a.updateStatusMessage(fmt.Sprintf("Saved: %s", path))
			})
		},
		// onError
		func(title string, err error) {
			fyne.Do(func() {
				a.showError(title, err)
			})
		},
	)

	a.toolbar.SetCallbacks(
		// onApply
		func() {
			a.applySelected()
		},
		// onReset
		func() {
			if err := a.imageData.ResetToOriginal(); err != nil {
				a.showError("Reset Failed", err)
				return
			}
			a.canvas.UpdateProcessedImage()
			a.infoPanel.Clear()
			a.updateStatusMessage("Reset to original image")
		},
	)

	a.properties.SetChangedCallback(func() {
		if a.toolbar.AutoApply() {
			a.applySelected()
		}
	})
}

// applySelected runs the selected routine on the original image in the
// background and publishes the result to the widgets.
func (a *Application) applySelected() {
	name, params := a.properties.Selection()
	if name == "" || !a.imageData.HasImage() {
		return
	}

	a.updateStatusMessage(fmt.Sprintf("Running %s...", name))
	go func() {
		a.processing.Lock()
		defer a.processing.Unlock()

		original := a.imageData.GetOriginal()
		defer original.Close()

		log := a.logger.WithField("algorithm", name)
		result, err := a.registry.Apply(name, original, params)
		if err != nil {
			log.WithError(err).Warn("Routine failed")
			fyne.Do(func() {
				a.showError("Processing Error", err)
			})
			return
		}
		defer result.Close()

		if err := a.imageData.SetProcessed(result.Image, name); err != nil {
			log.WithError(err).Error("Failed to store result")
			return
		}

		report := a.evaluator.GenerateReport(original, result.Image)
		log.WithFields(logrus.Fields{
			"params":  params,
			"score":   report.OverallScore,
			"details": result.Details,
		}).Info("Routine applied")

		fyne.Do(func() {
			a.canvas.UpdateProcessedImage()
			a.infoPanel.UpdateReport(report)
			a.infoPanel.UpdateDetails(result.Details)
			a.updateStatusMessage(fmt.Sprintf("Applied: %s / %s", a.registry.CategoryOf(name), name))
		})
	}()
}

func (a *Application) updateStatusMessage(message string) {
	a.statusLabel.SetText(message)
}

func (a *Application) ShowAndRun() {
	a.logger.Info("Showing main application window")

	a.window.SetCloseIntercept(func() {
		a.cleanup()
		a.app.Quit()
	})

	a.window.ShowAndRun()
}

func (a *Application) cleanup() {
	a.logger.Info("Cleaning up application resources")
	a.processing.Lock()
	defer a.processing.Unlock()
	a.imageData.Close()
}

func (a *Application) showError(title string, err error) {
	a.logger.WithError(err).Error(title)
	dialog.ShowError(err, a.window)
	a.updateStatusMessage(fmt.Sprintf("Error: %s", err.Error()))
}

// LoadImageFromPath loads path as if it had been picked in the open dialog.
func (a *Application) LoadImageFromPath(path string) error {
	return a.menuHandler.load(path)
}
