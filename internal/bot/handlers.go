package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/natindo/LectureWizard/internal/models"
	"github.com/natindo/LectureWizard/internal/services"
	"github.com/natindo/LectureWizard/internal/wizard"
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.cmdStart(msg)
	case "help":
		b.send(msg.Chat.ID, helpText)
	case "list":
		b.cmdList(ctx, msg)
	case "create":
		b.cmdCreate(ctx, msg)
	case "edit":
		b.cmdEdit(ctx, msg)
	case "delete":
		b.cmdDelete(ctx, msg)
	case "mode":
		b.cmdMode(ctx, msg)
	case "theme":
		b.cmdTheme(msg)
	case "cancel":
		b.cmdCancel(msg)
	default:
		b.send(msg.Chat.ID, "Неизвестная команда. Используйте /help")
	}
}

func (b *Bot) cmdStart(msg *tgbotapi.Message) {
	text := "Привет! Я помогу создать лекцию по шагам.\n" +
		"Доступные команды:\n" +
		"/create — пошагово создать лекцию\n" +
		"/list — показать ближайшие лекции\n" +
		"/edit <id> — продолжить работу с лекцией\n" +
		"/delete <id> — удалить лекцию\n" +
		"/help — справка"
	b.send(msg.Chat.ID, text)
}

func (b *Bot) cmdList(ctx context.Context, msg *tgbotapi.Message) {
	lectures, err := b.store.ListUpcoming(ctx, msg.Chat.ID, b.now())
	if err != nil {
		b.log.Error("list lectures", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
		b.send(msg.Chat.ID, "Ошибка при получении списка лекций")
		return
	}
	if len(lectures) == 0 {
		b.send(msg.Chat.ID, "Ближайших лекций нет. /create — создать новую.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Ваши лекции:\n")
	for i, l := range lectures {
		when := "без даты"
		if l.StartDate != nil {
			when = l.StartDate.Format(dateTimeLayout)
		}
		fmt.Fprintf(&sb, "%d) ID=%d | %s (%s)\n", i+1, l.ID, l.DisplayTitle(), when)
	}

	// Лекция на завтра создаётся с заданной датой и начинается со второго шага.
	message := tgbotapi.NewMessage(msg.Chat.ID, sb.String())
	message.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Лекция на завтра", cbDateTomorrow),
		),
	)
	b.sendMessage(message)
}

func (b *Bot) cmdCreate(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	step, date, err := parseCreateArg(msg.CommandArguments(), b.now().Location())
	if err != nil {
		b.send(chatID, "Укажите номер шага (1-5) или дату YYYY-MM-DD: /create 2")
		return
	}

	lecture := &models.Lecture{ChatID: chatID, NotifyBefore: b.notifyBefore}
	if !date.IsZero() {
		lecture.StartDate = &date
	}
	b.begin(ctx, chatID, lecture, step, "Приступим к созданию лекции.")
}

func (b *Bot) cmdEdit(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	id, step, err := parseIDAndStep(msg.CommandArguments())
	if err != nil {
		b.send(chatID, "Укажите ID лекции: /edit 123 [шаг]")
		return
	}
	b.resume(ctx, chatID, id, step)
}

// resume открывает мастер для сохранённой лекции.
func (b *Bot) resume(ctx context.Context, chatID, id int64, step int) {
	lecture, err := b.store.GetLecture(ctx, chatID, id)
	if errors.Is(err, services.ErrNotFound) {
		b.send(chatID, "Лекция не найдена.")
		return
	}
	if err != nil {
		b.log.Error("get lecture", zap.Int64("lecture_id", id), zap.Error(err))
		b.send(chatID, "Ошибка при получении лекции.")
		return
	}
	b.begin(ctx, chatID, lecture, step, "Редактирование лекции.")
}

// begin запускает мастер и показывает стартовый шаг.
func (b *Bot) begin(ctx context.Context, chatID int64, lecture *models.Lecture, step int, greeting string) {
	b.sessions.drop(chatID)
	sess, err := b.startSession(ctx, chatID, lecture, step)
	if err != nil {
		b.log.Error("start wizard", zap.Int64("chat_id", chatID), zap.Error(err))
		b.send(chatID, "Не удалось запустить мастер.")
		return
	}
	if step != 0 && !wizard.ValidStep(step) {
		greeting += fmt.Sprintf("\nШага %d нет, начинаем с шага %d.", step, sess.seq.Step())
	}
	b.send(chatID, greeting)
	b.sendStep(sess)
}

func (b *Bot) cmdDelete(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		b.send(msg.Chat.ID, "Укажите ID лекции: /delete 123")
		return
	}
	id, err := strconv.ParseInt(args, 10, 64)
	if err != nil {
		b.send(msg.Chat.ID, "Некорректный ID.")
		return
	}
	b.deleteLecture(ctx, msg.Chat.ID, id)
}

func (b *Bot) deleteLecture(ctx context.Context, chatID, id int64) {
	err := b.store.DeleteLecture(ctx, chatID, id)
	switch {
	case errors.Is(err, services.ErrNotFound):
		b.send(chatID, "Лекция не найдена.")
	case err != nil:
		b.log.Error("delete lecture", zap.Int64("lecture_id", id), zap.Error(err))
		b.send(chatID, "Ошибка при удалении лекции.")
	default:
		if sess, ok := b.sessions.get(chatID); ok && sess.state.Lecture.ID == id {
			b.sessions.drop(chatID)
		}
		b.send(chatID, "Лекция удалена.")
	}
}

func (b *Bot) cmdMode(ctx context.Context, msg *tgbotapi.Message) {
	sess, ok := b.sessions.get(msg.Chat.ID)
	if !ok {
		b.send(msg.Chat.ID, "Нет активного мастера. /create — создать лекцию.")
		return
	}
	b.toggle(ctx, sess)
}

func (b *Bot) toggle(ctx context.Context, sess *session) {
	if err := sess.seq.ToggleMode(ctx); err != nil {
		b.log.Error("toggle mode", zap.Int64("chat_id", sess.state.ChatID), zap.Error(err))
		b.send(sess.state.ChatID, "Не удалось переключить режим.")
	}
}

func (b *Bot) cmdTheme(msg *tgbotapi.Message) {
	t := b.themeFor(msg.Chat.ID).Toggle()
	b.send(msg.Chat.ID, "Тема оформления: "+t.String())
}

func (b *Bot) cmdCancel(msg *tgbotapi.Message) {
	if _, ok := b.sessions.get(msg.Chat.ID); !ok {
		b.send(msg.Chat.ID, "Нет активного мастера.")
		return
	}
	b.sessions.drop(msg.Chat.ID)
	b.send(msg.Chat.ID, "Мастер прерван.")
}

// handleForm сохраняет лекцию, введённую одним сообщением.
func (b *Bot) handleForm(ctx context.Context, sess *session, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	title, start, end, err := models.ParseForm(msg.Text, b.now().Location())
	if err != nil {
		b.send(chatID, "Не удалось разобрать лекцию.\n"+formHelpText)
		return
	}

	l := sess.state.Lecture
	l.Title = title
	l.StartDate, l.EndDate = &start, &end

	if err := services.SaveLecture(ctx, b.store, l); err != nil {
		b.log.Error("save lecture from form", zap.Int64("chat_id", chatID), zap.Error(err))
		b.send(chatID, "Произошла ошибка при сохранении лекции.")
		return
	}
	b.sessions.drop(chatID)
	b.send(chatID, fmt.Sprintf("Лекция создана (ID=%d).\n%s\n/edit %d — добавить материалы и разделы.",
		l.ID, b.lectureSummary(chatID, l), l.ID))
}
