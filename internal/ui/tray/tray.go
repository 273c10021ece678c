package tray

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"worktime/internal/core/session"
	"worktime/internal/notify"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/systray"
)

const appTitle = "WorkTime"

// Callbacks defines tray action handlers. OnAlertAction and OnAlertClick are
// the single dispatch points for every alert.
type Callbacks struct {
	OnOpen        func()
	OnStartWork   func()
	OnStartLunch  func()
	OnEndLunch    func()
	OnEndWork     func()
	OnPreferences func()
	OnAlertAction func(id string, index int)
	OnAlertClick  func(id string)
	OnQuit        func()
}

// Icons are the tray icons for the badge colors.
type Icons struct {
	Normal   fyne.Resource
	Overtime fyne.Resource
	Idle     fyne.Resource
}

// Manager handles system tray state. It implements notify.Alerts and
// notify.Badge on top of the desktop tray.
type Manager struct {
	app       fyne.App
	desktop   desktop.App
	icons     Icons
	callbacks Callbacks
	label     Label

	mu          sync.Mutex
	snapshot    session.Snapshot
	statusLabel string
	phase       session.Phase
	alerts      map[string]notify.Alert
	badgeText   string
	badgeColor  string
}

// New creates a tray manager with the provided callbacks. Menu text goes
// through label so it follows the configured language.
func New(app fyne.App, desktopApp desktop.App, icons Icons, label Label, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		desktop:   desktopApp,
		icons:     icons,
		callbacks: callbacks,
		label:     label,
		snapshot:  session.Snapshot{Phase: session.PhaseIdle, Status: session.StatusReady},
		phase:     session.PhaseIdle,
		alerts:    make(map[string]notify.Alert),
	}
	manager.statusLabel = StatusLabel(manager.snapshot, label)
	desktopApp.SetSystemTrayIcon(icons.Idle)
	manager.refreshMenu()
	return manager
}

// SetSnapshot updates the status line and which actions are enabled.
func (manager *Manager) SetSnapshot(snapshot session.Snapshot) {
	manager.mu.Lock()
	changed := manager.phase != snapshot.Phase
	manager.snapshot = snapshot
	manager.phase = snapshot.Phase
	label := StatusLabel(snapshot, manager.label)
	changed = changed || manager.statusLabel != label
	manager.statusLabel = label
	manager.mu.Unlock()

	if changed {
		fyne.Do(manager.refreshMenu)
	}
}

// Relabel rebuilds the menu after a language change. Call it on the fyne
// goroutine.
func (manager *Manager) Relabel() {
	manager.mu.Lock()
	manager.statusLabel = StatusLabel(manager.snapshot, manager.label)
	manager.mu.Unlock()
	manager.refreshMenu()
}

// Show sends a desktop notification and lists its actions in the tray menu.
func (manager *Manager) Show(_ context.Context, alert notify.Alert) error {
	manager.mu.Lock()
	manager.alerts[alert.ID] = alert
	manager.mu.Unlock()

	fyne.Do(func() {
		manager.app.SendNotification(fyne.NewNotification(alert.Title, alert.Message))
		manager.refreshMenu()
	})
	return nil
}

// Clear removes an alert from the tray menu.
func (manager *Manager) Clear(_ context.Context, id string) error {
	manager.mu.Lock()
	_, ok := manager.alerts[id]
	delete(manager.alerts, id)
	manager.mu.Unlock()

	if ok {
		fyne.Do(manager.refreshMenu)
	}
	return nil
}

// SetText shows the badge text next to the tray icon.
func (manager *Manager) SetText(text string) error {
	manager.mu.Lock()
	changed := manager.badgeText != text
	manager.badgeText = text
	manager.mu.Unlock()

	if changed {
		systray.SetTitle(text)
		systray.SetTooltip(fmt.Sprintf("%s %s", appTitle, text))
	}
	return nil
}

// SetColor switches the tray icon to match the badge color.
func (manager *Manager) SetColor(color string) error {
	manager.mu.Lock()
	changed := manager.badgeColor != color
	manager.badgeColor = color
	manager.mu.Unlock()

	if !changed {
		return nil
	}
	icon := manager.icons.Normal
	switch color {
	case notify.ColorOvertime:
		icon = manager.icons.Overtime
	case "":
		icon = manager.icons.Idle
	}
	fyne.Do(func() {
		manager.desktop.SetSystemTrayIcon(icon)
	})
	return nil
}

func (manager *Manager) refreshMenu() {
	manager.mu.Lock()
	phase := manager.phase
	status := manager.statusLabel
	alerts := make([]notify.Alert, 0, len(manager.alerts))
	for _, alert := range manager.alerts {
		alerts = append(alerts, alert)
	}
	manager.mu.Unlock()
	sort.Slice(alerts, func(i, j int) bool { return alerts[i].ID < alerts[j].ID })

	text := func(id string) string { return manager.label(id, nil) }

	statusItem := fyne.NewMenuItem(manager.label(notify.MsgMenuStatus, map[string]any{"Status": status}), nil)
	statusItem.Disabled = true

	startWork := fyne.NewMenuItem(text(notify.MsgMenuStartWork), call(manager.callbacks.OnStartWork))
	startWork.Disabled = phase != session.PhaseIdle
	startLunch := fyne.NewMenuItem(text(notify.MsgMenuStartLunch), call(manager.callbacks.OnStartLunch))
	startLunch.Disabled = phase != session.PhaseWorking
	endLunch := fyne.NewMenuItem(text(notify.MsgMenuEndLunch), call(manager.callbacks.OnEndLunch))
	endLunch.Disabled = phase != session.PhaseOnLunch
	endWork := fyne.NewMenuItem(text(notify.MsgMenuEndWork), call(manager.callbacks.OnEndWork))
	endWork.Disabled = phase == session.PhaseIdle

	items := []*fyne.MenuItem{
		statusItem,
		fyne.NewMenuItem(text(notify.MsgMenuOpen), call(manager.callbacks.OnOpen)),
		fyne.NewMenuItemSeparator(),
		startWork,
		startLunch,
		endLunch,
		endWork,
	}
	if len(alerts) > 0 {
		items = append(items, fyne.NewMenuItemSeparator())
		for _, alert := range alerts {
			items = append(items, manager.alertItem(alert))
		}
	}
	items = append(items,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(text(notify.MsgMenuPreferences), call(manager.callbacks.OnPreferences)),
		fyne.NewMenuItem(text(notify.MsgMenuQuit), call(manager.callbacks.OnQuit)),
	)

	manager.desktop.SetSystemTrayMenu(fyne.NewMenu(appTitle, items...))
}

// alertItem renders an alert as a menu entry with its actions as children.
// Clicking the entry itself counts as a body click.
func (manager *Manager) alertItem(alert notify.Alert) *fyne.MenuItem {
	id := alert.ID
	item := fyne.NewMenuItem(alert.Message, func() {
		if manager.callbacks.OnAlertClick != nil {
			manager.callbacks.OnAlertClick(id)
		}
	})
	if len(alert.Actions) == 0 {
		return item
	}

	children := make([]*fyne.MenuItem, 0, len(alert.Actions))
	for index, label := range alert.Actions {
		children = append(children, fyne.NewMenuItem(label, func() {
			if manager.callbacks.OnAlertAction != nil {
				manager.callbacks.OnAlertAction(id, index)
			}
		}))
	}
	item.ChildMenu = fyne.NewMenu("", children...)
	return item
}

func call(fn func()) func() {
	return func() {
		if fn != nil {
			fn()
		}
	}
}
