package bot

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natindo/LectureWizard/internal/database"
	"github.com/natindo/LectureWizard/internal/models"
	"github.com/natindo/LectureWizard/internal/services"
	"github.com/natindo/LectureWizard/internal/theme"
	"github.com/natindo/LectureWizard/internal/wizard"
)

const chatID = int64(100)

type fakeAPI struct {
	mu       sync.Mutex
	messages []tgbotapi.MessageConfig
	answers  []tgbotapi.CallbackConfig
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.messages = append(f.messages, m)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cb, ok := c.(tgbotapi.CallbackConfig); ok {
		f.answers = append(f.answers, cb)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) last() tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.messages) == 0 {
		return tgbotapi.MessageConfig{}
	}
	return f.messages[len(f.messages)-1]
}

type fixture struct {
	api   *fakeAPI
	store *services.SQLiteStore
	bot   *Bot
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.MigrateSQLite(ctx, db))

	api := &fakeAPI{}
	store := services.NewSQLiteStore(db)
	b := New(api, store, Options{DefaultNotifyBefore: 10, DefaultTheme: theme.Light})
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.Local)
	b.now = func() time.Time { return now }
	return &fixture{api: api, store: store, bot: b}
}

func command(text string) tgbotapi.Update {
	name := strings.Fields(text)[0]
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: chatID},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}}
}

func text(s string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}, Text: s}}
}

func callback(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		Data:    data,
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}},
	}}
}

func (f *fixture) do(updates ...tgbotapi.Update) {
	for _, u := range updates {
		f.bot.HandleUpdate(context.Background(), u)
	}
}

func (f *fixture) step(t *testing.T) int {
	t.Helper()
	sess, ok := f.bot.sessions.get(chatID)
	require.True(t, ok, "no active session")
	return sess.seq.Step()
}

func TestCreateLectureThroughWizard(t *testing.T) {
	f := newFixture(t)

	f.do(command("/create"))
	assert.Equal(t, wizard.StepTitle, f.step(t))

	f.do(callback(cbIconPrefix + "1F4DA"))
	f.do(text("Алгоритмы"))
	assert.Equal(t, wizard.StepPeriod, f.step(t))

	f.do(callback(cbDateTomorrow), text("10:00-11:30"))
	assert.Equal(t, wizard.StepAttachments, f.step(t))

	f.do(text("https://example.org/slides.pdf"))
	f.do(tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: chatID},
		Document: &tgbotapi.Document{FileID: "file-1", FileName: "notes.pdf"},
	}})
	f.do(callback(cbNext))
	assert.Equal(t, wizard.StepUnits, f.step(t))

	f.do(text("Сортировки\nПоиск"))
	f.do(callback(cbNext))
	assert.Equal(t, wizard.StepReview, f.step(t))
	assert.Contains(t, f.api.last().Text, "Лекция ID=")
	assert.Contains(t, f.api.last().Text, "📚 Алгоритмы")

	f.do(callback(cbNext))
	_, ok := f.bot.sessions.get(chatID)
	assert.False(t, ok)
	assert.Contains(t, f.api.last().Text, "Лекция сохранена.")

	lectures, err := f.store.ListUpcoming(context.Background(), chatID, f.bot.now())
	require.NoError(t, err)
	require.Len(t, lectures, 1)
	l := lectures[0]
	assert.Equal(t, "Алгоритмы", l.Title)
	assert.Equal(t, "📚", l.Icon)
	assert.Equal(t, 10, l.NotifyBefore)
	assert.Equal(t, "2026-10-20 10:00", l.StartDate.Format(dateTimeLayout))
	assert.Equal(t, "2026-10-20 11:30", l.EndDate.Format(dateTimeLayout))
	assert.Len(t, l.Units, 2)
	assert.Len(t, l.Attachments, 2)
}

func TestCreateWithRequestedStep(t *testing.T) {
	f := newFixture(t)

	f.do(command("/create 3"))
	assert.Equal(t, 3, f.step(t))

	f.do(command("/create 9"))
	assert.Equal(t, wizard.StepTitle, f.step(t))
	assert.Contains(t, f.api.messages[len(f.api.messages)-2].Text, "Шага 9 нет")
}

func TestCreateWithPresetDate(t *testing.T) {
	f := newFixture(t)

	f.do(command("/create 2026-11-02"))
	assert.Equal(t, wizard.StepPeriod, f.step(t))
	assert.Contains(t, f.api.last().Text, "Дата: 2026-11-02")

	f.do(text("12:00-13:00"))
	sess, _ := f.bot.sessions.get(chatID)
	assert.Equal(t, "2026-11-02 12:00", sess.state.Lecture.StartDate.Format(dateTimeLayout))
}

func TestTomorrowButtonWithoutWizardStartsAtPeriod(t *testing.T) {
	f := newFixture(t)

	f.do(callback(cbDateTomorrow))
	assert.Equal(t, wizard.StepPeriod, f.step(t))
}

func TestNextRequiresFilledStep(t *testing.T) {
	f := newFixture(t)

	f.do(command("/create"), callback(cbNext))
	assert.Equal(t, wizard.StepTitle, f.step(t))
	assert.Equal(t, "Сначала введите название лекции.", f.api.last().Text)
}

func TestSaveWithoutTitleReportsError(t *testing.T) {
	f := newFixture(t)

	f.do(command("/create 4"), callback(cbNext))
	assert.Equal(t, wizard.StepUnits, f.step(t))
	assert.Contains(t, f.api.last().Text, "нет названия")

	sess, _ := f.bot.sessions.get(chatID)
	assert.False(t, sess.seq.Saving())
}

func TestEditExistingLectureStartsAtUnits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := f.bot.now().Add(48 * time.Hour)
	id, err := f.store.CreateLecture(ctx, newLecture("Физика", start))
	require.NoError(t, err)

	f.do(command("/edit " + itoa(id)))
	assert.Equal(t, wizard.StepUnits, f.step(t))

	f.do(text("Механика"), callback(cbNext))
	assert.Equal(t, wizard.StepReview, f.step(t))

	got, err := f.store.GetLecture(ctx, chatID, id)
	require.NoError(t, err)
	require.Len(t, got.Units, 1)
	assert.Equal(t, "Механика", got.Units[0].Name)
}

func TestToggleModeForNewLectureSwitchesToForm(t *testing.T) {
	f := newFixture(t)

	f.do(command("/create"), callback(cbToggle))
	assert.Equal(t, formHelpText, f.api.last().Text)

	f.do(text("Химия; 2026-10-21 14:00-15:30"))
	_, ok := f.bot.sessions.get(chatID)
	assert.False(t, ok)
	assert.Contains(t, f.api.last().Text, "Лекция создана")

	lectures, err := f.store.ListUpcoming(context.Background(), chatID, f.bot.now())
	require.NoError(t, err)
	require.Len(t, lectures, 1)
	assert.Equal(t, "Химия", lectures[0].Title)
}

func TestToggleModeTwiceReturnsToWizard(t *testing.T) {
	f := newFixture(t)

	f.do(command("/create"), command("/mode"), command("/mode"))
	sess, ok := f.bot.sessions.get(chatID)
	require.True(t, ok)
	assert.Contains(t, f.api.last().Text, "Шаг 1 из 5")
	assert.Equal(t, wizard.StepTitle, sess.seq.Step())
}

func TestToggleModeForSavedLectureOpensEditor(t *testing.T) {
	f := newFixture(t)
	id, err := f.store.CreateLecture(context.Background(), newLecture("Биология", f.bot.now().Add(time.Hour)))
	require.NoError(t, err)

	f.do(command("/edit "+itoa(id)+" 3"), callback(cbToggle))
	_, ok := f.bot.sessions.get(chatID)
	assert.False(t, ok)

	msg := f.api.last()
	assert.Contains(t, msg.Text, "Редактирование лекции.")
	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Equal(t, cbResumePrefix+itoa(id)+"_3", *markup.InlineKeyboard[0][0].CallbackData)

	f.do(callback(*markup.InlineKeyboard[0][0].CallbackData))
	assert.Equal(t, 3, f.step(t))
}

func TestNextButtonLabel(t *testing.T) {
	f := newFixture(t)

	f.do(command("/create 4"))
	markup := f.api.last().ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	nav := markup.InlineKeyboard[len(markup.InlineKeyboard)-1]
	assert.Equal(t, "➡️ Далее", nav[0].Text)

	f.do(command("/create 5"))
	markup = f.api.last().ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	nav = markup.InlineKeyboard[len(markup.InlineKeyboard)-1]
	assert.Equal(t, "✅ Готово", nav[0].Text)
}

func TestDeleteAndList(t *testing.T) {
	f := newFixture(t)
	id, err := f.store.CreateLecture(context.Background(), newLecture("Логика", f.bot.now().Add(time.Hour)))
	require.NoError(t, err)

	f.do(command("/list"))
	assert.Contains(t, f.api.last().Text, "Логика")

	f.do(command("/delete " + itoa(id)))
	assert.Equal(t, "Лекция удалена.", f.api.last().Text)

	f.do(command("/delete " + itoa(id)))
	assert.Equal(t, "Лекция не найдена.", f.api.last().Text)

	f.do(command("/list"))
	assert.Contains(t, f.api.last().Text, "Ближайших лекций нет")
}

func TestThemeAffectsSummaryIcon(t *testing.T) {
	f := newFixture(t)

	f.do(command("/theme"))
	assert.Equal(t, "Тема оформления: dark", f.api.last().Text)

	f.do(command("/create 5"))
	sess, _ := f.bot.sessions.get(chatID)
	sess.state.Lecture.Title = "Астрономия"
	sess.state.Lecture.Icon = "🌍"
	f.do(text("?"))
	assert.Contains(t, f.api.last().Text, "public/emoji/1f30d.png")
}

func TestCancelAndUnknown(t *testing.T) {
	f := newFixture(t)

	f.do(command("/cancel"))
	assert.Equal(t, "Нет активного мастера.", f.api.last().Text)

	f.do(command("/create"), command("/cancel"))
	assert.Equal(t, "Мастер прерван.", f.api.last().Text)

	f.do(command("/foo"))
	assert.Equal(t, "Неизвестная команда. Используйте /help", f.api.last().Text)

	f.do(callback("nope"))
	assert.Equal(t, "Неизвестное действие", f.api.answers[len(f.api.answers)-1].Text)
}

func TestRunStopsWhenUpdatesClosed(t *testing.T) {
	f := newFixture(t)
	updates := make(chan tgbotapi.Update, 1)
	updates <- command("/help")
	close(updates)

	require.NoError(t, f.bot.Run(context.Background(), updates))
	assert.Equal(t, helpText, f.api.last().Text)
}

func newLecture(title string, start time.Time) *models.Lecture {
	end := start.Add(90 * time.Minute)
	return &models.Lecture{ChatID: chatID, Title: title, StartDate: &start, EndDate: &end, NotifyBefore: 10}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
