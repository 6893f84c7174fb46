// Image information, quality metrics and routine by-products
package gui

import (
	"fmt"
	"math"
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"dermoscopy-preprocessing/internal/core"
	"dermoscopy-preprocessing/internal/metrics"
)

const metricsPlaceholder = "Quality metrics appear after a routine runs."

// InfoPanel provides the right panel
type InfoPanel struct {
	container *fyne.Container

	sizeLabel     *widget.Label
	channelsLabel *widget.Label
	formatLabel   *widget.Label

	metricsContent *fyne.Container
	detailsContent *fyne.Container
}

func NewInfoPanel() *InfoPanel {
	ip := &InfoPanel{}
	ip.initializeUI()
	return ip
}

func (ip *InfoPanel) initializeUI() {
	ip.sizeLabel = widget.NewLabel("Size: -")
	ip.channelsLabel = widget.NewLabel("Channels: -")
	ip.formatLabel = widget.NewLabel("Format: -")

	ip.metricsContent = container.NewVBox(widget.NewLabel(metricsPlaceholder))
	ip.detailsContent = container.NewVBox()

	ip.container = container.NewVBox(
		widget.NewCard("Image", "", container.NewVBox(ip.sizeLabel, ip.channelsLabel, ip.formatLabel)),
		widget.NewCard("Quality Metrics", "", ip.metricsContent),
		widget.NewCard("Details", "", ip.detailsContent),
	)
}

func (ip *InfoPanel) GetContainer() fyne.CanvasObject {
	return ip.container
}

func (ip *InfoPanel) SetImageInfo(meta core.ImageMetadata) {
	ip.sizeLabel.SetText(fmt.Sprintf("Size: %d x %d", meta.Width, meta.Height))
	ip.channelsLabel.SetText(fmt.Sprintf("Channels: %d", meta.Channels))
	ip.formatLabel.SetText(fmt.Sprintf("Format: %s", meta.Format))
}

// UpdateReport shows the metrics of the last run. Call on the fyne thread.
func (ip *InfoPanel) UpdateReport(report metrics.QualityReport) {
	ip.metricsContent.RemoveAll()

	names := make([]string, 0, len(report.Metrics))
	for name := range report.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ip.metricsContent.Add(widget.NewLabel(formatMetric(name, report.Metrics[name])))
	}

	ip.metricsContent.Add(widget.NewSeparator())
	ip.metricsContent.Add(widget.NewLabel(fmt.Sprintf("Score: %.1f (%s)", report.OverallScore, report.Analysis.QualityLevel)))
	for _, issue := range report.Analysis.Issues {
		label := widget.NewLabel(issue)
		label.Wrapping = fyne.TextWrapWord
		ip.metricsContent.Add(label)
	}
	ip.metricsContent.Refresh()
}

func formatMetric(name string, value float64) string {
	switch name {
	case "psnr":
		if math.IsInf(value, 1) {
			return "PSNR: identical"
		}
		return fmt.Sprintf("PSNR: %.2f dB", value)
	case "mse":
		return fmt.Sprintf("MSE: %.2f", value)
	default:
		return fmt.Sprintf("%s: %.3f", name, value)
	}
}

// UpdateDetails shows scalar by-products such as rescale parameters.
func (ip *InfoPanel) UpdateDetails(details map[string]interface{}) {
	ip.detailsContent.RemoveAll()

	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		ip.detailsContent.Add(widget.NewLabel(fmt.Sprintf("%s: %v", k, details[k])))
	}
	ip.detailsContent.Refresh()
}

func (ip *InfoPanel) Clear() {
	ip.metricsContent.RemoveAll()
	ip.metricsContent.Add(widget.NewLabel(metricsPlaceholder))
	ip.detailsContent.RemoveAll()
}

func (ip *InfoPanel) Refresh() {
	ip.container.Refresh()
}
