// Routine selection and generated parameter widgets
package gui

import (
	"fmt"
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"dermoscopy-preprocessing/internal/algorithms"
	"dermoscopy-preprocessing/internal/config"
)

const optionSeparator = " → "

// PropertiesPanel lets the user pick a routine and tune its parameters
type PropertiesPanel struct {
	registry *algorithms.Registry
	cfg      config.Config
	logger   *logrus.Logger

	vbox            *fyne.Container
	algorithmSelect *widget.Select
	description     *widget.Label
	paramContent    *fyne.Container

	currentAlgorithm string
	params           map[string]interface{}
	onChanged        func()
}

func NewPropertiesPanel(registry *algorithms.Registry, cfg config.Config, logger *logrus.Logger) *PropertiesPanel {
	panel := &PropertiesPanel{
		registry: registry,
		cfg:      cfg,
		logger:   logger,
		params:   make(map[string]interface{}),
	}

	panel.initializeUI()
	return panel
}

func (pp *PropertiesPanel) initializeUI() {
	pp.algorithmSelect = widget.NewSelect(pp.algorithmOptions(), pp.onAlgorithmSelected)
	pp.algorithmSelect.PlaceHolder = "Choose a routine..."
	pp.algorithmSelect.Disable()

	pp.description = widget.NewLabel("")
	pp.description.Wrapping = fyne.TextWrapWord

	pp.paramContent = container.NewVBox()

	pp.vbox = container.NewVBox(
		widget.NewCard("Routine", "", container.NewVBox(pp.algorithmSelect, pp.description)),
		widget.NewCard("Parameters", "", pp.paramContent),
	)
}

// algorithmOptions lists every routine as "Category → name", sorted.
func (pp *PropertiesPanel) algorithmOptions() []string {
	var options []string
	for category, names := range pp.registry.GetAlgorithmsByCategory() {
		for _, name := range names {
			options = append(options, category+optionSeparator+name)
		}
	}
	sort.Strings(options)
	return options
}

func (pp *PropertiesPanel) onAlgorithmSelected(selected string) {
	_, name, ok := strings.Cut(selected, optionSeparator)
	if !ok {
		return
	}

	algorithm, exists := pp.registry.Get(name)
	if !exists {
		pp.logger.WithField("algorithm", name).Error("Algorithm not found")
		return
	}

	pp.currentAlgorithm = name
	pp.params = algorithm.GetDefaultParams()
	for k, v := range pp.cfg.Overrides(name) {
		pp.params[k] = v
	}
	pp.description.SetText(algorithm.GetDescription())
	pp.createParameterWidgets(algorithm)

	pp.logger.WithField("algorithm", name).Debug("Routine selected")
	pp.notify()
}

func (pp *PropertiesPanel) createParameterWidgets(algorithm algorithms.Algorithm) {
	pp.paramContent.RemoveAll()

	paramInfo := algorithm.GetParameterInfo()
	if len(paramInfo) == 0 {
		pp.paramContent.Add(widget.NewLabel("No configurable parameters"))
		return
	}

	for _, param := range paramInfo {
		pp.paramContent.Add(widget.NewLabelWithStyle(param.Name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
		pp.paramContent.Add(pp.createParameterWidget(param))
		if param.Description != "" {
			hint := widget.NewLabel(param.Description)
			hint.Wrapping = fyne.TextWrapWord
			pp.paramContent.Add(hint)
		}
		pp.paramContent.Add(widget.NewSeparator())
	}
}

func (pp *PropertiesPanel) createParameterWidget(param algorithms.ParameterInfo) fyne.CanvasObject {
	switch param.Type {
	case "int", "float":
		format, step := "%.2f", 0.1
		if param.Type == "int" {
			format, step = "%.0f", 1
		}

		value, _ := pp.params[param.Name].(float64)
		slider := widget.NewSlider(param.Min.(float64), param.Max.(float64))
		slider.Step = step
		slider.SetValue(value)
		valueLabel := widget.NewLabel(fmt.Sprintf(format, value))

		slider.OnChanged = func(v float64) {
			valueLabel.SetText(fmt.Sprintf(format, v))
		}
		slider.OnChangeEnded = func(v float64) {
			pp.updateParameter(param.Name, v)
		}
		return container.NewBorder(nil, nil, nil, valueLabel, slider)

	case "bool":
		check := widget.NewCheck("", nil)
		if v, ok := pp.params[param.Name].(bool); ok {
			check.SetChecked(v)
		}
		check.OnChanged = func(checked bool) {
			pp.updateParameter(param.Name, checked)
		}
		return check

	case "enum":
		selectWidget := widget.NewSelect(param.Options, nil)
		if v, ok := pp.params[param.Name].(string); ok {
			selectWidget.SetSelected(v)
		}
		selectWidget.OnChanged = func(selected string) {
			pp.updateParameter(param.Name, selected)
		}
		return selectWidget

	default:
		return widget.NewLabel("Unsupported parameter type")
	}
}

func (pp *PropertiesPanel) updateParameter(name string, value interface{}) {
	if pp.currentAlgorithm == "" {
		return
	}

	pp.params[name] = value
	pp.logger.WithFields(logrus.Fields{
		"algorithm": pp.currentAlgorithm,
		"param":     name,
		"value":     value,
	}).Debug("Parameter updated")
	pp.notify()
}

func (pp *PropertiesPanel) notify() {
	if pp.onChanged != nil {
		pp.onChanged()
	}
}

// Selection returns the selected routine and a copy of its parameters.
func (pp *PropertiesPanel) Selection() (string, map[string]interface{}) {
	params := make(map[string]interface{}, len(pp.params))
	for k, v := range pp.params {
		params[k] = v
	}
	return pp.currentAlgorithm, params
}

func (pp *PropertiesPanel) SetChangedCallback(onChanged func()) {
	pp.onChanged = onChanged
}

func (pp *PropertiesPanel) GetContainer() fyne.CanvasObject {
	return pp.vbox
}

func (pp *PropertiesPanel) Enable() {
	pp.algorithmSelect.Enable()
}

func (pp *PropertiesPanel) Disable() {
	pp.algorithmSelect.Disable()
}

func (pp *PropertiesPanel) Refresh() {
	pp.vbox.Refresh()
}
