// Package popup is the small window opened from the tray: it shows the
// session and offers the day's actions.
package popup

import (
	"time"

	"worktime/internal/core/session"
	"worktime/internal/ui/tray"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// Callbacks defines popup action handlers. Each returns the resulting
// snapshot so the window updates without waiting for the next tick.
type Callbacks struct {
	OnStartWork  func(start time.Time) (session.Snapshot, error)
	OnStartLunch func() (session.Snapshot, error)
	OnEndLunch   func() (session.Snapshot, error)
	OnEndWork    func() (session.Snapshot, error)
	OnReset      func() (session.Snapshot, error)
}

// Window shows the session status.
type Window struct {
	window    fyne.Window
	callbacks Callbacks
	label     tray.Label

	status    *widget.Label
	startTime *widget.Entry
	endTime   *widget.Label
	worked    *widget.Label
	remaining *widget.Label

	startWork  *widget.Button
	startLunch *widget.Button
	endLunch   *widget.Button
	endWork    *widget.Button
}

// New creates the popup window.
func New(app fyne.App, label tray.Label, callbacks Callbacks) *Window {
	popup := &Window{
		window:    app.NewWindow("WorkTime"),
		callbacks: callbacks,
		label:     label,
		status:    widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		startTime: widget.NewEntry(),
		endTime:   widget.NewLabel("--:--"),
		worked:    widget.NewLabel(tray.FormatDuration(0)),
		remaining: widget.NewLabel(tray.FormatDuration(0)),
	}
	popup.startTime.SetPlaceHolder("HH:MM (now)")

	popup.startWork = widget.NewButton("Start work", popup.handleStartWork)
	popup.startWork.Importance = widget.HighImportance
	popup.startLunch = widget.NewButton("Start lunch", popup.run(callbacks.OnStartLunch))
	popup.endLunch = widget.NewButton("End lunch", popup.run(callbacks.OnEndLunch))
	popup.endWork = widget.NewButton("End work", popup.run(callbacks.OnEndWork))
	reset := widget.NewButton("Reset", popup.handleReset)

	details := widget.NewForm(
		widget.NewFormItem("Start", popup.startTime),
		widget.NewFormItem("End", popup.endTime),
		widget.NewFormItem("Worked", popup.worked),
		widget.NewFormItem("Remaining", popup.remaining),
	)
	actions := container.NewGridWithColumns(2,
		popup.startWork, popup.startLunch,
		popup.endLunch, popup.endWork,
	)

	popup.window.SetContent(container.NewVBox(popup.status, details, actions, reset))
	popup.window.Resize(fyne.NewSize(320, 300))
	popup.window.SetCloseIntercept(popup.window.Hide)
	popup.SetSnapshot(session.Snapshot{Phase: session.PhaseIdle, Status: session.StatusReady})
	return popup
}

// Window returns the underlying fyne window.
func (popup *Window) Window() fyne.Window {
	return popup.window
}

// Show displays the popup.
func (popup *Window) Show() {
	popup.window.Show()
	popup.window.RequestFocus()
}

// SetSnapshot refreshes labels and buttons. Call it on the fyne goroutine.
func (popup *Window) SetSnapshot(snapshot session.Snapshot) {
	popup.status.SetText(tray.StatusLabel(snapshot, popup.label))
	// While idle the entry belongs to the user.
	if snapshot.Phase != session.PhaseIdle {
		popup.startTime.SetText(FormatClock(snapshot.StartTime))
	}
	popup.endTime.SetText(FormatClock(snapshot.EndTime))
	popup.worked.SetText(tray.FormatDuration(snapshot.Worked))
	if snapshot.Phase == session.PhaseIdle {
		popup.remaining.SetText(tray.FormatDuration(0))
	} else if snapshot.Overtime {
		popup.remaining.SetText("+" + tray.FormatDuration(-snapshot.Remaining))
	} else {
		popup.remaining.SetText(tray.FormatDuration(snapshot.Remaining))
	}

	idle := snapshot.Phase == session.PhaseIdle
	setEnabled(popup.startWork, idle)
	setEnabled(popup.startLunch, snapshot.Phase == session.PhaseWorking)
	setEnabled(popup.endLunch, snapshot.Phase == session.PhaseOnLunch)
	setEnabled(popup.endWork, !idle)
	if idle {
		popup.startTime.Enable()
	} else {
		popup.startTime.Disable()
	}
}

func (popup *Window) handleStartWork() {
	start, err := ParseClock(popup.startTime.Text, time.Now())
	if err != nil {
		dialog.ShowError(err, popup.window)
		return
	}
	popup.run(func() (session.Snapshot, error) {
		return popup.callbacks.OnStartWork(start)
	})()
}

func (popup *Window) handleReset() {
	dialog.ShowConfirm("Reset", "Are you sure you want to reset your work session?", func(confirmed bool) {
		if confirmed {
			popup.startTime.SetText("")
			popup.run(popup.callbacks.OnReset)()
		}
	}, popup.window)
}

func (popup *Window) run(action func() (session.Snapshot, error)) func() {
	return func() {
		if action == nil {
			return
		}
		snapshot, err := action()
		if err != nil {
			dialog.ShowError(err, popup.window)
			return
		}
		popup.SetSnapshot(snapshot)
	}
}

func setEnabled(button *widget.Button, enabled bool) {
	if enabled {
		button.Enable()
	} else {
		button.Disable()
	}
}
