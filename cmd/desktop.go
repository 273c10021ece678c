package main

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"worktime/internal/core/model"
	"worktime/internal/core/session"
	"worktime/internal/core/workday"
	"worktime/internal/notify"
	"worktime/internal/ui/popup"
	"worktime/internal/ui/preferences"
	"worktime/internal/ui/tray"
	"worktime/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/rs/zerolog/log"
)

// desktopUI owns the fyne app and its windows. service is set once the
// scheduler has been built on top of the tray.
type desktopUI struct {
	ctx        context.Context
	service    *workday.Service
	translator *notify.Translator
	language   atomic.Value

	app   fyne.App
	tray  *tray.Manager
	popup *popup.Window
	prefs *preferences.Window
}

func newDesktopUI(ctx context.Context, settings model.Settings, translator *notify.Translator) (*desktopUI, error) {
	fyneApp := app.NewWithID("com.worktime.app")
	fyneApp.SetIcon(resources.MustIcon(resources.IconNormal))
	fyneApp.Settings().SetTheme(preferences.Theme(settings.Theme))
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		return nil, errors.New("system tray unsupported on this platform")
	}

	ui := &desktopUI{ctx: ctx, app: fyneApp, translator: translator}
	ui.language.Store(settings.Language)

	ui.popup = popup.New(fyneApp, ui.label, popup.Callbacks{
		OnStartWork: func(start time.Time) (session.Snapshot, error) {
			return ui.service.StartWork(ui.ctx, start)
		},
		OnStartLunch: func() (session.Snapshot, error) { return ui.service.StartLunch(ui.ctx) },
		OnEndLunch:   func() (session.Snapshot, error) { return ui.service.EndLunch(ui.ctx) },
		OnEndWork:    func() (session.Snapshot, error) { return ui.service.EndWork(ui.ctx) },
		OnReset:      func() (session.Snapshot, error) { return ui.service.Reset(ui.ctx) },
	})
	desktopApp.SetSystemTrayWindow(ui.popup.Window())

	ui.prefs = preferences.New(fyneApp, settings,
		func(updated model.Settings) error {
			_, err := ui.service.UpdateSettings(ui.ctx, updated)
			return err
		},
		func() error { return ui.service.ResetAll(ui.ctx) },
	)

	ui.tray = tray.New(fyneApp, desktopApp, tray.Icons{
		Normal:   resources.MustIcon(resources.IconNormal),
		Overtime: resources.MustIcon(resources.IconOvertime),
		Idle:     resources.MustIcon(resources.IconIdle),
	}, ui.label, tray.Callbacks{
		OnOpen:        ui.popup.Show,
		OnStartWork:   ui.startWork,
		OnStartLunch:  ui.startLunch,
		OnEndLunch:    ui.endLunch,
		OnEndWork:     ui.endWork,
		OnPreferences: ui.showPreferences,
		OnAlertAction: ui.alertAction,
		OnAlertClick:  ui.alertClick,
		OnQuit:        fyneApp.Quit,
	})

	return ui, nil
}

// label localizes UI text in the language of the latest settings. It is
// read from the fyne and tracker goroutines.
func (ui *desktopUI) label(id string, data map[string]any) string {
	language, _ := ui.language.Load().(string)
	return ui.translator.Message(language, id, data)
}

func (ui *desktopUI) startWork() {
	ui.act("start work", func() (session.Snapshot, error) { return ui.service.StartWork(ui.ctx, time.Time{}) })
}

func (ui *desktopUI) startLunch() {
	ui.act("start lunch", func() (session.Snapshot, error) { return ui.service.StartLunch(ui.ctx) })
}

func (ui *desktopUI) endLunch() {
	ui.act("end lunch", func() (session.Snapshot, error) { return ui.service.EndLunch(ui.ctx) })
}

func (ui *desktopUI) endWork() {
	ui.act("end work", func() (session.Snapshot, error) { return ui.service.EndWork(ui.ctx) })
}

func (ui *desktopUI) showPreferences() {
	if settings, err := ui.service.Settings(); err == nil {
		ui.prefs.UpdateSettings(settings)
	}
	ui.prefs.Show()
}

func (ui *desktopUI) alertAction(id string, index int) {
	if err := ui.service.HandleAlertAction(ui.ctx, id, index); err != nil {
		log.Error().Err(err).Str("alert", id).Int("action", index).Msg("Alert action failed")
	}
}

func (ui *desktopUI) alertClick(id string) {
	ui.service.HandleAlertClick(ui.ctx, id)
	ui.popup.Show()
}

// act runs a tray action on the fyne goroutine and shows the result.
func (ui *desktopUI) act(name string, action func() (session.Snapshot, error)) {
	snapshot, err := action()
	if err != nil {
		log.Error().Err(err).Str("action", name).Msg("Action failed")
		return
	}
	ui.tray.SetSnapshot(snapshot)
	ui.popup.SetSnapshot(snapshot)
}

// setSnapshot is called from the tracker goroutine.
func (ui *desktopUI) setSnapshot(snapshot session.Snapshot) {
	ui.tray.SetSnapshot(snapshot)
	fyne.Do(func() {
		ui.popup.SetSnapshot(snapshot)
	})
}

// settingsChanged is called from the settings watcher goroutine.
func (ui *desktopUI) settingsChanged(settings model.Settings) {
	ui.language.Store(settings.Language)
	fyne.Do(func() {
		ui.app.Settings().SetTheme(preferences.Theme(settings.Theme))
		ui.prefs.UpdateSettings(settings)
		ui.tray.Relabel()
	})
}

func (ui *desktopUI) run() {
	ui.app.Run()
}

func (ui *desktopUI) quit() {
	fyne.Do(ui.app.Quit)
}
