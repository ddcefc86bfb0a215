package bot

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/natindo/LectureWizard/internal/emoji"
	"github.com/natindo/LectureWizard/internal/services"
	"github.com/natindo/LectureWizard/internal/theme"
)

// Sender — часть *tgbotapi.BotAPI, которой пользуется бот.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

var commands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Запустить бота"},
	{Command: "help", Description: "Справка"},
	{Command: "list", Description: "Показать ближайшие лекции"},
	{Command: "create", Description: "Создать лекцию"},
	{Command: "edit", Description: "Изменить лекцию"},
	{Command: "delete", Description: "Удалить лекцию"},
	{Command: "mode", Description: "Переключить мастер/форму"},
	{Command: "theme", Description: "Светлая/тёмная тема"},
	{Command: "cancel", Description: "Прервать мастер"},
}

// NewBotAPI инициализирует *tgbotapi.BotAPI и регистрирует команды.
func NewBotAPI(token string, debug bool, log *zap.Logger) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "create bot api")
	}
	api.Debug = debug

	if _, err := api.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		return nil, errors.Wrap(err, "set commands")
	}
	log.Info("bot initialized", zap.String("username", api.Self.UserName))
	return api, nil
}

// Options — настройки бота.
type Options struct {
	// DefaultNotifyBefore — за сколько минут напоминать о новой лекции.
	DefaultNotifyBefore int
	DefaultTheme        theme.Theme
	Logger              *zap.Logger
}

// Bot обрабатывает апдейты Telegram. HandleUpdate вызывается последовательно.
type Bot struct {
	api      Sender
	store    services.LectureStore
	log      *zap.Logger
	sessions *sessions

	notifyBefore int
	defaultTheme theme.Theme
	themesMu     sync.Mutex
	themes       map[int64]*theme.Switch

	now func() time.Time
}

func New(api Sender, store services.LectureStore, opts Options) *Bot {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Bot{
		api:          api,
		store:        store,
		log:          log.Named("bot"),
		sessions:     newSessions(),
		notifyBefore: opts.DefaultNotifyBefore,
		defaultTheme: opts.DefaultTheme,
		themes:       make(map[int64]*theme.Switch),
		now:          time.Now,
	}
}

// Run запускает основной цикл: чтение апдейтов и их обработку.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate разбирает один апдейт.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	// Inline-кнопки (CallbackQuery)
	if update.CallbackQuery != nil {
		b.handleCallbackQuery(ctx, update.CallbackQuery)
		return
	}

	// Обычные сообщения
	msg := update.Message
	if msg == nil {
		return
	}
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	// Возможно, пользователь в процессе пошагового создания
	b.handleInput(ctx, msg)
}

// themeFor возвращает переключатель темы чата.
func (b *Bot) themeFor(chatID int64) *theme.Switch {
	b.themesMu.Lock()
	defer b.themesMu.Unlock()
	sw, ok := b.themes[chatID]
	if !ok {
		sw = theme.NewSwitch(b.defaultTheme)
		b.themes[chatID] = sw
	}
	return sw
}

// pickerFor — выбор иконки, который записывает её в лекцию активного мастера.
func (b *Bot) pickerFor(chatID int64) *emoji.Picker {
	return emoji.NewPicker(b.themeFor(chatID), func(e emoji.Emoji) {
		if sess, ok := b.sessions.get(chatID); ok {
			sess.state.Lecture.Icon = e.Native
		}
	})
}

func (b *Bot) send(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Warn("send message", zap.Int64("chat_id", msg.ChatID), zap.Error(err))
	}
}

// answer закрывает «часики» на inline-кнопке.
func (b *Bot) answer(cq *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, text)); err != nil {
		b.log.Debug("answer callback", zap.Error(err))
	}
}
