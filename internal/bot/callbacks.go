package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/natindo/LectureWizard/internal/models"
	"github.com/natindo/LectureWizard/internal/services"
	"github.com/natindo/LectureWizard/internal/wizard"
)

// handleCallbackQuery обрабатывает клики по inline-кнопкам.
func (b *Bot) handleCallbackQuery(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil {
		b.answer(cq, "")
		return
	}
	chatID := cq.Message.Chat.ID
	data := cq.Data

	switch {
	case data == cbDateToday:
		b.handleDate(ctx, chatID, cq, b.now(), "Вы выбрали сегодня.")
	case data == cbDateTomorrow:
		b.handleDate(ctx, chatID, cq, b.now().Add(24*time.Hour), "Вы выбрали завтра.")
	case data == cbNext:
		b.answer(cq, "")
		b.handleNext(ctx, chatID)
	case data == cbToggle:
		b.answer(cq, "")
		sess, ok := b.sessions.get(chatID)
		if !ok {
			b.send(chatID, "Нет активного мастера.")
			return
		}
		b.toggle(ctx, sess)
	case strings.HasPrefix(data, cbIconPrefix):
		b.handleIcon(chatID, cq, strings.TrimPrefix(data, cbIconPrefix))
	case strings.HasPrefix(data, cbResumePrefix):
		b.answer(cq, "")
		id, step, err := parseIDAndStep(strings.Replace(strings.TrimPrefix(data, cbResumePrefix), "_", " ", 1))
		if err != nil {
			b.log.Warn("bad resume callback", zap.String("data", data), zap.Error(err))
			return
		}
		b.resume(ctx, chatID, id, step)
	case strings.HasPrefix(data, cbDeletePrefix):
		b.answer(cq, "")
		id, err := strconv.ParseInt(strings.TrimPrefix(data, cbDeletePrefix), 10, 64)
		if err != nil {
			b.log.Warn("bad delete callback", zap.String("data", data), zap.Error(err))
			return
		}
		b.deleteLecture(ctx, chatID, id)
	default:
		// Если callback_data не узнаём, сообщим пользователю
		b.answer(cq, "Неизвестное действие")
	}
}

// handleDate выбирает день лекции. Без активного мастера создаёт новую
// лекцию на этот день.
func (b *Bot) handleDate(ctx context.Context, chatID int64, cq *tgbotapi.CallbackQuery, day time.Time, reply string) {
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())

	sess, ok := b.sessions.get(chatID)
	if !ok {
		b.answer(cq, reply)
		lecture := &models.Lecture{ChatID: chatID, NotifyBefore: b.notifyBefore, StartDate: &day}
		b.begin(ctx, chatID, lecture, 0, "Приступим к созданию лекции.")
		return
	}
	if sess.seq.Step() != wizard.StepPeriod {
		b.answer(cq, "Дату можно выбрать только на шаге 2.")
		return
	}
	sess.state.SelectedDate = day
	b.answer(cq, reply)
	b.sendStep(sess)
}

func (b *Bot) handleIcon(chatID int64, cq *tgbotapi.CallbackQuery, unified string) {
	sess, ok := b.sessions.get(chatID)
	if !ok || sess.seq.Step() != wizard.StepTitle {
		b.answer(cq, "Иконку можно выбрать только на шаге 1.")
		return
	}
	picker := b.pickerFor(chatID)
	e, ok := picker.Lookup(unified)
	if !ok {
		b.answer(cq, "Неизвестная иконка")
		return
	}
	picker.Select(e)
	b.answer(cq, "Иконка: "+e.Native)
}

// stepMissing возвращает подсказку, если текущий шаг не заполнен.
func stepMissing(step int, l *models.Lecture) string {
	switch step {
	case wizard.StepTitle:
		if strings.TrimSpace(l.Title) == "" {
			return "Сначала введите название лекции."
		}
	case wizard.StepPeriod:
		if l.StartDate == nil || l.EndDate == nil {
			return "Сначала укажите время проведения."
		}
	}
	return ""
}

// handleNext — кнопка «Далее»/«Готово».
func (b *Bot) handleNext(ctx context.Context, chatID int64) {
	sess, ok := b.sessions.get(chatID)
	if !ok {
		b.send(chatID, "Нет активного мастера. /create — создать лекцию.")
		return
	}
	if hint := stepMissing(sess.seq.Step(), sess.state.Lecture); hint != "" {
		b.send(chatID, hint)
		return
	}
	b.advance(ctx, sess)
}

// advance двигает мастер и показывает результат.
func (b *Bot) advance(ctx context.Context, sess *session) {
	chatID := sess.state.ChatID
	outcome, err := sess.seq.Advance(ctx)
	switch {
	case errors.Is(err, wizard.ErrSaveInProgress):
		b.send(chatID, "Лекция уже сохраняется, подождите.")
		return
	case errors.Is(err, services.ErrEmptyTitle):
		b.send(chatID, "У лекции нет названия. /create 1 — начать заново или /mode — ввести лекцию одним сообщением.")
		return
	case err != nil:
		b.log.Error("advance wizard", zap.Int64("chat_id", chatID), zap.Int("step", sess.seq.Step()), zap.Error(err))
		b.send(chatID, "Произошла ошибка при сохранении лекции.")
		return
	}

	if outcome == wizard.OutcomeFinished || sess.seq.Finished() {
		b.sessions.drop(chatID)
		b.send(chatID, "Лекция сохранена.\n"+b.lectureSummary(chatID, sess.state.Lecture))
		return
	}
	b.sendStep(sess)
}

// handleInput обрабатывает обычные сообщения активного мастера.
func (b *Bot) handleInput(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	sess, ok := b.sessions.get(chatID)
	if !ok {
		// Нет активного «диалога» — выходим
		return
	}
	if sess.state.Mode == models.ModeForm {
		b.handleForm(ctx, sess, msg)
		return
	}

	l := sess.state.Lecture
	switch sess.seq.Step() {
	case wizard.StepTitle:
		title := strings.TrimSpace(msg.Text)
		if title == "" {
			b.send(chatID, "Название не может быть пустым.")
			return
		}
		l.Title = title
		b.advance(ctx, sess)

	case wizard.StepPeriod:
		start, end, err := models.ParsePeriod(msg.Text, sess.state.SelectedDate, b.now().Location())
		if err != nil {
			b.send(chatID, "Некорректный формат. Пример: 2026-10-20 10:00-11:30")
			return
		}
		l.StartDate, l.EndDate = &start, &end
		b.advance(ctx, sess)

	case wizard.StepAttachments:
		if msg.Document != nil {
			l.Attachments = append(l.Attachments, models.Attachment{
				LectureID: l.ID,
				Name:      msg.Document.FileName,
				Link:      msg.Document.FileID,
				Kind:      models.AttachmentFile,
			})
			b.send(chatID, fmt.Sprintf("Файл «%s» добавлен.", msg.Document.FileName))
			return
		}
		link, ok := models.ParseLink(msg.Text)
		if !ok {
			b.send(chatID, "Пришлите файл или ссылку http(s)://...")
			return
		}
		l.Attachments = append(l.Attachments, models.Attachment{
			LectureID: l.ID,
			Name:      link,
			Link:      link,
			Kind:      models.AttachmentLink,
		})
		b.send(chatID, "Ссылка добавлена.")

	case wizard.StepUnits:
		added := 0
		for _, line := range strings.Split(msg.Text, "\n") {
			if name := strings.TrimSpace(line); name != "" {
				l.AddUnit(name)
				added++
			}
		}
		if added == 0 {
			b.send(chatID, "Введите название раздела.")
			return
		}
		b.send(chatID, fmt.Sprintf("Добавлено разделов: %d (всего %d).", added, len(l.Units)))

	case wizard.StepReview:
		b.sendStep(sess)
	}
}
