package bot

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/natindo/LectureWizard/internal/models"
	"github.com/natindo/LectureWizard/internal/services"
	"github.com/natindo/LectureWizard/internal/wizard"
)

// Экраны, между которыми переходит мастер.
const (
	viewWizard = "wizard"
	viewEditor = "editor"
)

const saveTimeout = 10 * time.Second

// session — мастер одного чата вместе с состоянием создания лекции.
type session struct {
	bot   *Bot
	state *models.CreationState
	seq   *wizard.Sequencer
}

// sessions хранит активные мастера по chat_id.
type sessions struct {
	mu   sync.Mutex
	byID map[int64]*session
}

func newSessions() *sessions {
	return &sessions{byID: make(map[int64]*session)}
}

func (s *sessions) get(chatID int64) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[chatID]
	return sess, ok
}

func (s *sessions) put(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[sess.state.ChatID] = sess
}

func (s *sessions) drop(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, chatID)
}

// startSession создаёт мастер для лекции и выбирает стартовый шаг.
// requested — шаг из аргумента команды, 0 если не указан.
func (b *Bot) startSession(ctx context.Context, chatID int64, lecture *models.Lecture, requested int) (*session, error) {
	sess := &session{bot: b, state: models.NewCreationState(chatID, lecture, b.now())}
	if lecture != nil && lecture.StartDate != nil {
		sess.state.SelectedDate = *lecture.StartDate
	}

	seq, err := wizard.New(wizard.Config{
		Subject:    sess.state.Lecture,
		Navigator:  wizard.NavigatorFunc(sess.navigate),
		Route:      wizard.StaticRoute{Step: requested, Set: requested != 0},
		Saver:      wizard.SaverFunc(sess.save),
		Toggler:    wizard.ToggleFunc(sess.toggleMode),
		WizardPath: viewWizard,
		EditPath:   viewEditor,
		Logger:     b.log.With(zap.Int64("chat_id", chatID), zap.String("session", sess.state.SessionID.String())),
	})
	if err != nil {
		return nil, err
	}
	sess.seq = seq

	b.sessions.put(sess)
	if err := seq.Init(ctx); err != nil {
		b.sessions.drop(chatID)
		return nil, err
	}
	return sess, nil
}

// navigate — переход мастера. Переход в редактор завершает мастер.
func (s *session) navigate(ctx context.Context, path string, st wizard.NavigationState) error {
	s.state.View = path
	if path != viewEditor {
		return nil
	}
	s.bot.sessions.drop(s.state.ChatID)
	s.bot.sendEditor(s.state.ChatID, s.state.Lecture, st.Step)
	return nil
}

// save создаёт или обновляет лекцию и сообщает мастеру о завершении.
func (s *session) save(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, saveTimeout)
	defer cancel()

	if err := services.SaveLecture(ctx, s.bot.store, s.state.Lecture); err != nil {
		return errors.Wrap(err, "save lecture")
	}
	s.bot.log.Info("lecture saved",
		zap.Int64("chat_id", s.state.ChatID),
		zap.Int64("lecture_id", s.state.Lecture.ID))
	s.seq.OnCreationSucceeded()
	return nil
}

// toggleMode переключает чат между мастером и вводом одним сообщением.
func (s *session) toggleMode(ctx context.Context) error {
	if s.state.Mode == models.ModeForm {
		s.state.Mode = models.ModeWizard
		s.bot.sendStep(s)
		return nil
	}
	s.state.Mode = models.ModeForm
	s.bot.send(s.state.ChatID, formHelpText)
	return nil
}
