package scheduler

import (
	"context"

	"worktime/internal/core/model"
	"worktime/internal/notify"
)

func (scheduler *Scheduler) preLeaveAlert(settings model.Settings, minutes int) notify.Alert {
	return scheduler.alert(settings, notify.AlertPreLeave, notify.PriorityNormal,
		scheduler.text(settings, notify.MsgPreLeave, map[string]any{"Minutes": minutes}),
		notify.MsgActionEndWorkNow, notify.MsgActionDismiss)
}

func (scheduler *Scheduler) endTimeAlert(settings model.Settings) notify.Alert {
	return scheduler.alert(settings, notify.AlertEndTime, notify.PriorityHigh,
		scheduler.text(settings, notify.MsgLeaveNow, nil),
		notify.MsgActionEndWork, notify.MsgActionOvertime)
}

func (scheduler *Scheduler) lunchEndAlert(settings model.Settings) notify.Alert {
	return scheduler.alert(settings, notify.AlertLunchEnd, notify.PriorityNormal,
		scheduler.text(settings, notify.MsgBackFromLunch, nil),
		notify.MsgActionEndLunch, notify.MsgActionDismiss)
}

// alert builds a notification. Action buttons are dropped in the simple style.
func (scheduler *Scheduler) alert(settings model.Settings, id string, priority notify.Priority, message string, actions ...string) notify.Alert {
	alert := notify.Alert{
		ID:       id,
		Title:    scheduler.text(settings, notify.MsgTitle, nil),
		Message:  message,
		Priority: priority,
	}
	if settings.NotificationStyle == model.StyleSimple {
		return alert
	}
	for _, action := range actions {
		alert.Actions = append(alert.Actions, scheduler.text(settings, action, nil))
	}
	return alert
}

// NotifyWorkEnded confirms a session ended from a notification.
func (scheduler *Scheduler) NotifyWorkEnded(ctx context.Context) {
	settings := scheduler.settings()
	scheduler.show(ctx, scheduler.alert(settings, notify.AlertWorkEnded, notify.PriorityNormal,
		scheduler.text(settings, notify.MsgWorkEnded, nil)))
}

// NotifyOvertime acknowledges that the user keeps working past the end time.
func (scheduler *Scheduler) NotifyOvertime(ctx context.Context) {
	settings := scheduler.settings()
	scheduler.show(ctx, scheduler.alert(settings, notify.AlertOvertime, notify.PriorityNormal,
		scheduler.text(settings, notify.MsgOvertime, nil)))
}

// ClearAlert removes a visible alert.
func (scheduler *Scheduler) ClearAlert(ctx context.Context, id string) {
	if err := scheduler.deps.Alerts.Clear(ctx, id); err != nil {
		scheduler.logger.Warn().Err(err).Str("alert", id).Msg("Failed to clear alert")
	}
}
