package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/natindo/LectureWizard/internal/models"
	"github.com/natindo/LectureWizard/internal/wizard"
)

// Данные inline-кнопок.
const (
	cbDateToday    = "date_today"
	cbDateTomorrow = "date_tomorrow"
	cbNext         = "wizard_next"
	cbToggle       = "wizard_toggle"
	cbIconPrefix   = "icon_"
	cbResumePrefix = "resume_"
	cbDeletePrefix = "delete_"
)

const dateTimeLayout = "2006-01-02 15:04"

var labels = map[string]string{
	wizard.TextNext:   "Далее",
	wizard.TextFinish: "Готово",
}

var stepNames = map[int]string{
	wizard.StepTitle:       "Название",
	wizard.StepPeriod:      "Время проведения",
	wizard.StepAttachments: "Материалы",
	wizard.StepUnits:       "Разделы",
	wizard.StepReview:      "Проверка",
}

const helpText = "Справка:\n" +
	"/create — начать мастер создания лекции\n" +
	"/create <шаг> — начать с указанного шага (1-5)\n" +
	"/create <YYYY-MM-DD> — создать лекцию на выбранную дату\n" +
	"/edit <id> [шаг] — продолжить работу с лекцией\n" +
	"/list — показать ближайшие лекции\n" +
	"/delete <id> — удалить лекцию\n" +
	"/mode — переключить мастер и ввод одним сообщением\n" +
	"/theme — переключить тему оформления\n" +
	"/cancel — прервать мастер"

const formHelpText = "Режим формы.\n" +
	"Отправьте лекцию одним сообщением:\n" +
	"Название; YYYY-MM-DD HH:MM-HH:MM\n" +
	"/mode — вернуться в мастер."

func navRow(seq *wizard.Sequencer) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(seq.NextIcon()+" "+labels[seq.NextText()], cbNext),
		tgbotapi.NewInlineKeyboardButtonData("🔀 Режим", cbToggle),
	)
}

// sendStep отправляет подсказку для текущего шага мастера.
func (b *Bot) sendStep(s *session) {
	step := s.seq.Step()
	l := s.state.Lecture
	header := fmt.Sprintf("Шаг %d из %d: %s\n", step, wizard.TotalSteps, stepNames[step])

	var (
		text string
		rows [][]tgbotapi.InlineKeyboardButton
	)
	switch step {
	case wizard.StepTitle:
		text = "Введите название лекции или выберите иконку:"
		var icons []tgbotapi.InlineKeyboardButton
		for _, e := range b.pickerFor(s.state.ChatID).Options() {
			icons = append(icons, tgbotapi.NewInlineKeyboardButtonData(e.Native, cbIconPrefix+e.Unified))
		}
		rows = append(rows, icons)
	case wizard.StepPeriod:
		text = "Введите время проведения (YYYY-MM-DD HH:MM-HH:MM)\nили выберите день и введите HH:MM-HH:MM:"
		if !s.state.SelectedDate.IsZero() {
			text = fmt.Sprintf("Дата: %s. Введите время (HH:MM-HH:MM):", s.state.SelectedDate.Format("2006-01-02"))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Сегодня", cbDateToday),
			tgbotapi.NewInlineKeyboardButtonData("Завтра", cbDateTomorrow),
		))
	case wizard.StepAttachments:
		text = fmt.Sprintf("Пришлите файлы или ссылки на материалы (добавлено: %d).", len(l.Attachments))
	case wizard.StepUnits:
		text = fmt.Sprintf("Введите названия разделов, по одному в строке (добавлено: %d).\n"+
			"«Далее» сохранит лекцию.", len(l.Units))
	case wizard.StepReview:
		text = b.lectureSummary(s.state.ChatID, l)
	}
	rows = append(rows, navRow(s.seq))

	msg := tgbotapi.NewMessage(s.state.ChatID, header+text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.sendMessage(msg)
}

// lectureSummary — текстовое описание лекции.
func (b *Bot) lectureSummary(chatID int64, l *models.Lecture) string {
	var sb strings.Builder
	if l.Persisted() {
		fmt.Fprintf(&sb, "Лекция ID=%d\n", l.ID)
	}
	fmt.Fprintf(&sb, "%s\n", l.DisplayTitle())
	if l.StartDate != nil {
		sb.WriteString("Начало: " + l.StartDate.Format(dateTimeLayout) + "\n")
	}
	if l.EndDate != nil {
		sb.WriteString("Окончание: " + l.EndDate.Format(dateTimeLayout) + "\n")
	}
	fmt.Fprintf(&sb, "Напоминание за %d мин\n", l.NotifyBefore)
	if len(l.Attachments) > 0 {
		sb.WriteString("Материалы:\n")
		for _, a := range l.Attachments {
			fmt.Fprintf(&sb, "  • %s\n", a.Name)
		}
	}
	if len(l.Units) > 0 {
		sb.WriteString("Разделы:\n")
		for _, u := range l.Units {
			fmt.Fprintf(&sb, "  %d. %s\n", u.Position, u.Name)
		}
	}
	picker := b.pickerFor(chatID)
	if e, ok := picker.LookupNative(l.Icon); ok {
		if img := picker.SingleImage(e.Unified); img != "" {
			sb.WriteString("Иконка: " + img + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// sendEditor показывает лекцию вне мастера с кнопкой возврата на шаг step.
func (b *Bot) sendEditor(chatID int64, l *models.Lecture, step int) {
	if !wizard.ValidStep(step) {
		step = wizard.LastConfigurableStep
	}
	text := "Редактирование лекции.\n" + b.lectureSummary(chatID, l)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("▶️ Продолжить с шага %d", step),
				fmt.Sprintf("%s%d_%d", cbResumePrefix, l.ID, step)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Удалить", fmt.Sprintf("%s%d", cbDeletePrefix, l.ID)),
		),
	)
	b.sendMessage(msg)
}
