package preferences

import (
	"strconv"

	"worktime/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window     fyne.Window
	settings   model.Settings
	onSave     func(model.Settings) error
	onResetAll func() error

	requiredHours *widget.Entry
	preLeave      *widget.Entry
	lunchReminder *widget.Entry
	language      *widget.Select
	theme         *widget.Select
	badgeMode     *widget.Select
	style         *widget.Select
	weekdays      *widget.CheckGroup
	holidays      *widget.Entry
	notifyPre     *widget.Check
	notifyEnd     *widget.Check
	notifyLunch   *widget.Check
	microBreak    *widget.Check
	microInterval *widget.Entry
	launchAtLogin *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, settings model.Settings, onSave func(model.Settings) error, onResetAll func() error) *Window {
	window := app.NewWindow("WorkTime Settings")

	prefs := &Window{
		window:        window,
		onSave:        onSave,
		onResetAll:    onResetAll,
		requiredHours: widget.NewEntry(),
		preLeave:      widget.NewEntry(),
		lunchReminder: widget.NewEntry(),
		language:      widget.NewSelect([]string{"en", "vi"}, nil),
		theme:         widget.NewSelect([]string{"light", "dark"}, nil),
		badgeMode:     widget.NewSelect([]string{model.BadgeMinutes, model.BadgeClock, model.BadgeOff}, nil),
		style:         widget.NewSelect([]string{model.StyleRich, model.StyleSimple}, nil),
		weekdays:      widget.NewCheckGroup(weekdayLabels, nil),
		holidays:      widget.NewMultiLineEntry(),
		notifyPre:     widget.NewCheck("Before the end of the day", nil),
		notifyEnd:     widget.NewCheck("At the end of the day", nil),
		notifyLunch:   widget.NewCheck("When lunch should end", nil),
		microBreak:    widget.NewCheck("Remind me to take micro-breaks", nil),
		microInterval: widget.NewEntry(),
		launchAtLogin: widget.NewCheck("Launch at login", nil),
	}
	prefs.weekdays.Horizontal = true
	prefs.holidays.SetPlaceHolder("2026-12-25 Christmas")
	prefs.holidays.SetMinRowsVisible(3)

	work := widget.NewForm(
		widget.NewFormItem("Required hours", prefs.requiredHours),
		widget.NewFormItem("Warn minutes before end", prefs.preLeave),
		widget.NewFormItem("Lunch reminder after (min)", prefs.lunchReminder),
		widget.NewFormItem("Work days", prefs.weekdays),
		widget.NewFormItem("Holidays", prefs.holidays),
	)
	display := widget.NewForm(
		widget.NewFormItem("Language", prefs.language),
		widget.NewFormItem("Theme", prefs.theme),
		widget.NewFormItem("Badge", prefs.badgeMode),
		widget.NewFormItem("Notification style", prefs.style),
		widget.NewFormItem("", prefs.launchAtLogin),
	)
	reminders := container.NewVBox(
		prefs.notifyPre,
		prefs.notifyEnd,
		prefs.notifyLunch,
		prefs.microBreak,
		container.NewHBox(widget.NewLabel("Every"), prefs.microInterval, widget.NewLabel("min")),
	)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Work day", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		work,
		widget.NewLabelWithStyle("Notifications", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		reminders,
		widget.NewLabelWithStyle("Display", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		display,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", window.Hide)
	resetButton := widget.NewButton("Reset all data", prefs.handleResetAll)
	resetButton.Importance = widget.DangerImportance
	buttons := container.NewHBox(saveButton, cancelButton, layout.NewSpacer(), resetButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, container.NewVScroll(form)))
	window.Resize(fyne.NewSize(480, 620))
	window.SetCloseIntercept(window.Hide)

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings model.Settings) {
	prefs.settings = settings
	prefs.requiredHours.SetText(formatHours(settings.RequiredHours))
	prefs.preLeave.SetText(strconv.Itoa(settings.PreLeaveMinutes))
	prefs.lunchReminder.SetText(strconv.Itoa(settings.LunchReminderMinutes))
	prefs.language.SetSelected(settings.Language)
	prefs.theme.SetSelected(settings.Theme)
	prefs.badgeMode.SetSelected(settings.BadgeMode)
	prefs.style.SetSelected(settings.NotificationStyle)
	prefs.weekdays.SetSelected(WeekdayLabels(settings.Weekdays))
	prefs.holidays.SetText(FormatHolidays(settings.Holidays))
	prefs.notifyPre.SetChecked(settings.Notifications.PreLeave)
	prefs.notifyEnd.SetChecked(settings.Notifications.EndTime)
	prefs.notifyLunch.SetChecked(settings.Notifications.LunchEnd)
	prefs.microBreak.SetChecked(settings.MicroBreakEnabled)
	prefs.microInterval.SetText(strconv.Itoa(settings.MicroBreakIntervalMinutes))
	prefs.launchAtLogin.SetChecked(settings.LaunchAtLogin)
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if hours, ok := parseHours(prefs.requiredHours.Text); ok {
		settings.RequiredHours = hours
	}
	if minutes, ok := parsePositiveInt(prefs.preLeave.Text); ok {
		settings.PreLeaveMinutes = minutes
	}
	if minutes, ok := parsePositiveInt(prefs.lunchReminder.Text); ok {
		settings.LunchReminderMinutes = minutes
	}
	if minutes, ok := parsePositiveInt(prefs.microInterval.Text); ok {
		settings.MicroBreakIntervalMinutes = minutes
	}
	holidays, err := ParseHolidays(prefs.holidays.Text)
	if err != nil {
		dialog.ShowError(err, prefs.window)
		return
	}

	settings.Holidays = holidays
	settings.Weekdays = Weekdays(prefs.weekdays.Selected)
	settings.Language = prefs.language.Selected
	settings.Theme = prefs.theme.Selected
	settings.BadgeMode = prefs.badgeMode.Selected
	settings.NotificationStyle = prefs.style.Selected
	settings.Notifications = model.NotificationToggles{
		PreLeave: prefs.notifyPre.Checked,
		EndTime:  prefs.notifyEnd.Checked,
		LunchEnd: prefs.notifyLunch.Checked,
	}
	settings.MicroBreakEnabled = prefs.microBreak.Checked
	settings.LaunchAtLogin = prefs.launchAtLogin.Checked

	if prefs.onSave != nil {
		if err := prefs.onSave(settings); err != nil {
			dialog.ShowError(err, prefs.window)
			return
		}
	}
	prefs.settings = settings
	prefs.window.Hide()
}

func (prefs *Window) handleResetAll() {
	dialog.ShowConfirm("Reset all data",
		"Reset all settings and the current session? This action cannot be undone.",
		func(confirmed bool) {
			if !confirmed || prefs.onResetAll == nil {
				return
			}
			if err := prefs.onResetAll(); err != nil {
				dialog.ShowError(err, prefs.window)
				return
			}
			prefs.UpdateSettings(model.DefaultSettings())
			dialog.ShowInformation("Reset all data", "All data has been reset to defaults.", prefs.window)
		}, prefs.window)
}
