package notify

import (
	"fmt"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

// Message identifiers.
const (
	MsgTitle            = "notif.title"
	MsgPreLeave         = "notif.preLeave.msg"
	MsgLeaveNow         = "notif.leaveNow.msg"
	MsgBackFromLunch    = "notif.backFromLunch.msg"
	MsgWorkEnded        = "notif.workEnded.msg"
	MsgOvertime         = "notif.overtime.msg"
	MsgMicroBreak       = "notif.microBreak.msg"
	MsgActionEndWorkNow = "action.endWorkNow"
	MsgActionEndWork    = "action.endWork"
	MsgActionOvertime   = "action.continueOvertime"
	MsgActionEndLunch   = "action.endLunch"
	MsgActionDismiss    = "action.dismiss"

	MsgMenuStatus      = "menu.status"
	MsgMenuOpen        = "menu.open"
	MsgMenuStartWork   = "menu.startWork"
	MsgMenuStartLunch  = "menu.startLunch"
	MsgMenuEndLunch    = "menu.endLunch"
	MsgMenuEndWork     = "menu.endWork"
	MsgMenuPreferences = "menu.preferences"
	MsgMenuQuit        = "menu.quit"

	MsgStatusReady       = "status.ready"
	MsgStatusReadyWorked = "status.readyWorked"
	MsgStatusWorking     = "status.working"
	MsgStatusLunch       = "status.lunch"
	MsgStatusOvertime    = "status.overtime"
)

var english = []*i18n.Message{
	{ID: MsgTitle, Other: "WorkTime Buddy"},
	{ID: MsgPreLeave, Other: "You have {{.Minutes}} minutes left before your work day ends!"},
	{ID: MsgLeaveNow, Other: "Your work day is over! Time to go home! 🏠"},
	{ID: MsgBackFromLunch, Other: "Welcome back from lunch! Time to get back to work! 💼"},
	{ID: MsgWorkEnded, Other: "Work session ended! Have a great rest of your day! 🌟"},
	{ID: MsgOvertime, Other: "Continuing in overtime mode. Remember to take breaks! ⚠️"},
	{ID: MsgMicroBreak, Other: "Time for a short break. Stand up and stretch! 🧘"},
	{ID: MsgActionEndWorkNow, Other: "End Work Now"},
	{ID: MsgActionEndWork, Other: "End Work"},
	{ID: MsgActionOvertime, Other: "Continue (Overtime)"},
	{ID: MsgActionEndLunch, Other: "End Lunch"},
	{ID: MsgActionDismiss, Other: "Dismiss"},
	{ID: MsgMenuStatus, Other: "Status: {{.Status}}"},
	{ID: MsgMenuOpen, Other: "Open"},
	{ID: MsgMenuStartWork, Other: "Start work"},
	{ID: MsgMenuStartLunch, Other: "Start lunch"},
	{ID: MsgMenuEndLunch, Other: "End lunch"},
	{ID: MsgMenuEndWork, Other: "End work"},
	{ID: MsgMenuPreferences, Other: "Preferences"},
	{ID: MsgMenuQuit, Other: "Quit"},
	{ID: MsgStatusReady, Other: "Ready"},
	{ID: MsgStatusReadyWorked, Other: "Ready, {{.Worked}} worked today"},
	{ID: MsgStatusWorking, Other: "Working, {{.Remaining}} left"},
	{ID: MsgStatusLunch, Other: "On lunch, {{.Worked}} worked"},
	{ID: MsgStatusOvertime, Other: "Overtime +{{.Overtime}}"},
}

var vietnamese = []*i18n.Message{
	{ID: MsgTitle, Other: "WorkTime Buddy"},
	{ID: MsgPreLeave, Other: "Bạn còn {{.Minutes}} phút nữa là hết giờ làm việc!"},
	{ID: MsgLeaveNow, Other: "Hết giờ làm việc rồi! Đến giờ về nhà! 🏠"},
	{ID: MsgBackFromLunch, Other: "Chào mừng bạn quay lại sau giờ nghỉ trưa! Đến giờ làm việc! 💼"},
	{ID: MsgWorkEnded, Other: "Kết thúc ca làm việc! Chúc bạn có thời gian nghỉ ngơi tuyệt vời! 🌟"},
	{ID: MsgOvertime, Other: "Tiếp tục chế độ tăng ca. Nhớ nghỉ giải lao nhé! ⚠️"},
	{ID: MsgMicroBreak, Other: "Đến giờ nghỉ ngắn. Hãy đứng dậy vận động nhé! 🧘"},
	{ID: MsgActionEndWorkNow, Other: "Kết thúc ngay"},
	{ID: MsgActionEndWork, Other: "Kết thúc"},
	{ID: MsgActionOvertime, Other: "Tiếp tục (Tăng ca)"},
	{ID: MsgActionEndLunch, Other: "Kết thúc nghỉ trưa"},
	{ID: MsgActionDismiss, Other: "Bỏ qua"},
	{ID: MsgMenuStatus, Other: "Trạng thái: {{.Status}}"},
	{ID: MsgMenuOpen, Other: "Mở"},
	{ID: MsgMenuStartWork, Other: "Bắt đầu làm việc"},
	{ID: MsgMenuStartLunch, Other: "Bắt đầu nghỉ trưa"},
	{ID: MsgMenuEndLunch, Other: "Kết thúc nghỉ trưa"},
	{ID: MsgMenuEndWork, Other: "Kết thúc làm việc"},
	{ID: MsgMenuPreferences, Other: "Cài đặt"},
	{ID: MsgMenuQuit, Other: "Thoát"},
	{ID: MsgStatusReady, Other: "Sẵn sàng"},
	{ID: MsgStatusReadyWorked, Other: "Sẵn sàng, hôm nay đã làm {{.Worked}}"},
	{ID: MsgStatusWorking, Other: "Đang làm việc, còn {{.Remaining}}"},
	{ID: MsgStatusLunch, Other: "Đang nghỉ trưa, đã làm {{.Worked}}"},
	{ID: MsgStatusOvertime, Other: "Tăng ca +{{.Overtime}}"},
}

// Translator resolves message identifiers for a language, falling back to
// English and finally to the identifier itself.
type Translator struct {
	bundle *i18n.Bundle
}

// NewTranslator builds the bundle of built-in catalogs.
func NewTranslator() (*Translator, error) {
	bundle := i18n.NewBundle(language.English)
	if err := bundle.AddMessages(language.English, english...); err != nil {
		return nil, fmt.Errorf("add english messages: %w", err)
	}
	if err := bundle.AddMessages(language.Vietnamese, vietnamese...); err != nil {
		return nil, fmt.Errorf("add vietnamese messages: %w", err)
	}
	return &Translator{bundle: bundle}, nil
}

// Message localizes id. data feeds the message template and may be nil.
func (translator *Translator) Message(lang, id string, data map[string]any) string {
	localizer := i18n.NewLocalizer(translator.bundle, lang, language.English.String())
	text, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		log.Debug().Err(err).Str("message", id).Str("language", lang).Msg("Missing translation")
		return id
	}
	return text
}
