// Toolbar with the apply and reset actions
package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

type Toolbar struct {
	container *fyne.Container

	applyBtn  *widget.Button
	resetBtn  *widget.Button
	autoCheck *widget.Check

	onApply func()
	onReset func()
}

func NewToolbar() *Toolbar {
	t := &Toolbar{}
	t.initializeUI()
	return t
}

func (t *Toolbar) initializeUI() {
	t.applyBtn = widget.NewButtonWithIcon("Apply", theme.MediaPlayIcon(), func() {
		if t.onApply != nil {
			t.onApply()
		}
	})
	t.applyBtn.Importance = widget.HighImportance

	t.resetBtn = widget.NewButtonWithIcon("Reset", theme.ViewRefreshIcon(), func() {
		if t.onReset != nil {
			t.onReset()
		}
	})

	t.autoCheck = widget.NewCheck("Apply on change", nil)
	t.autoCheck.SetChecked(true)

	t.container = container.NewHBox(
		t.applyBtn,
		t.resetBtn,
		widget.NewSeparator(),
		t.autoCheck,
	)

	t.Disable()
}

func (t *Toolbar) GetContainer() fyne.CanvasObject {
	return t.container
}

// AutoApply reports whether parameter changes should rerun the routine.
func (t *Toolbar) AutoApply() bool {
	return t.autoCheck.Checked
}

func (t *Toolbar) Enable() {
	t.applyBtn.Enable()
	t.resetBtn.Enable()
}

func (t *Toolbar) Disable() {
	t.applyBtn.Disable()
	t.resetBtn.Disable()
}

func (t *Toolbar) SetCallbacks(onApply, onReset func()) {
	t.onApply = onApply
	t.onReset = onReset
}

func (t *Toolbar) Refresh() {
	t.container.Refresh()
}
