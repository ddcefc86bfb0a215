// Package tui — локальный терминальный мастер создания лекции.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/natindo/LectureWizard/internal/emoji"
	"github.com/natindo/LectureWizard/internal/models"
	"github.com/natindo/LectureWizard/internal/services"
	"github.com/natindo/LectureWizard/internal/theme"
	"github.com/natindo/LectureWizard/internal/wizard"
)

const (
	viewWizard = "wizard"
	viewEditor = "editor"
)

// saveResultMsg приходит, когда сохранение в фоне завершилось.
type saveResultMsg struct {
	saved *models.Lecture
	form  bool
	err   error
}

// Options — необязательные параметры модели.
type Options struct {
	Theme  *theme.Switch
	Logger *zap.Logger
	Now    func() time.Time
	// Step — шаг, запрошенный при запуске (0 — вычислить).
	Step int
}

// Model — bubbletea-модель мастера. Мастер меняется только из Update.
type Model struct {
	ctx   context.Context
	store services.LectureStore
	log   *zap.Logger
	now   func() time.Time

	lecture *models.Lecture
	seq     *wizard.Sequencer
	mode    models.Mode
	view    string
	// editorStep — шаг, с которого можно вернуться в мастер из редактора.
	editorStep int
	pending    tea.Cmd

	input  textinput.Model
	theme  *theme.Switch
	picker *emoji.Picker
	styles styles

	selectedDate time.Time
	status       string
	errText      string
	done         bool
}

// New создаёт модель для лекции; лекция без ID будет создана.
func New(ctx context.Context, store services.LectureStore, lecture *models.Lecture, opts Options) (*Model, error) {
	if opts.Theme == nil {
		opts.Theme = theme.NewSwitch(theme.Light)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	input := textinput.New()
	input.Prompt = "› "
	input.CharLimit = 256
	input.Focus()

	m := &Model{
		ctx:     ctx,
		store:   store,
		log:     opts.Logger.Named("tui"),
		now:     opts.Now,
		lecture: lecture,
		mode:    models.ModeWizard,
		input:   input,
		theme:   opts.Theme,
		styles:  newStyles(opts.Theme.Theme()),
	}
	m.theme.Subscribe(func(t theme.Theme) { m.styles = newStyles(t) })
	m.picker = emoji.NewPicker(m.theme, func(e emoji.Emoji) { m.lecture.Icon = e.Native })

	if err := m.start(opts.Step); err != nil {
		return nil, err
	}
	return m, nil
}

// start создаёт мастер с запрошенным шагом.
func (m *Model) start(step int) error {
	seq, err := wizard.New(wizard.Config{
		Subject:    m.lecture,
		Navigator:  wizard.NavigatorFunc(m.navigate),
		Route:      wizard.StaticRoute{Step: step, Set: step != 0},
		Saver:      wizard.SaverFunc(m.save),
		Toggler:    wizard.ToggleFunc(m.toggleMode),
		WizardPath: viewWizard,
		EditPath:   viewEditor,
		Logger:     m.log,
	})
	if err != nil {
		return errors.Wrap(err, "new wizard")
	}
	m.seq = seq
	m.mode = models.ModeWizard
	if l := m.lecture; l.StartDate != nil && l.EndDate == nil {
		m.selectedDate = *l.StartDate
	}
	if err := seq.Init(m.ctx); err != nil {
		return errors.Wrap(err, "init wizard")
	}
	if step != 0 && !wizard.ValidStep(step) {
		m.status = fmt.Sprintf("Шага %d нет, начинаем с шага %d.", step, seq.Step())
	}
	m.input.Focus()
	m.resetInput()
	return nil
}

func (m *Model) navigate(_ context.Context, path string, state wizard.NavigationState) error {
	m.view = path
	if path == viewEditor {
		m.editorStep = state.Step
		m.input.Blur()
	}
	return nil
}

// save запускает сохранение копии лекции в фоне.
func (m *Model) save(ctx context.Context) error {
	if err := services.ValidateLecture(m.lecture); err != nil {
		return err
	}
	m.pending = saveCmd(ctx, m.store, m.lecture.Clone(), false)
	return nil
}

func saveCmd(ctx context.Context, store services.LectureStore, l *models.Lecture, form bool) tea.Cmd {
	return func() tea.Msg {
		err := services.SaveLecture(ctx, store, l)
		return saveResultMsg{saved: l, form: form, err: err}
	}
}

func (m *Model) toggleMode(context.Context) error {
	if m.mode == models.ModeForm {
		m.mode = models.ModeWizard
	} else {
		m.mode = models.ModeForm
	}
	m.resetInput()
	return nil
}

func (m *Model) resetInput() {
	m.input.Reset()
	m.input.Placeholder = m.placeholder()
}

func (m *Model) placeholder() string {
	if m.mode == models.ModeForm {
		return "Название; YYYY-MM-DD HH:MM-HH:MM"
	}
	switch m.seq.Step() {
	case wizard.StepTitle:
		return "Название лекции"
	case wizard.StepPeriod:
		if !m.selectedDate.IsZero() {
			return "HH:MM-HH:MM"
		}
		return "YYYY-MM-DD HH:MM-HH:MM"
	case wizard.StepAttachments:
		return "https://..."
	case wizard.StepUnits:
		return "Название раздела"
	}
	return ""
}

// Lecture возвращает редактируемую лекцию.
func (m *Model) Lecture() *models.Lecture { return m.lecture }

// Step — текущий шаг мастера.
func (m *Model) Step() int { return m.seq.Step() }

// Done — работа с моделью завершена.
func (m *Model) Done() bool { return m.done }

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case saveResultMsg:
		return m.handleSaved(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.done = true
			return m, tea.Quit
		case "ctrl+t":
			m.clearMessages()
			if m.busy() {
				return m, nil
			}
			if err := m.seq.ToggleMode(m.ctx); err != nil {
				m.fail("Не удалось переключить режим.", err)
			}
			return m, nil
		case "ctrl+n":
			m.clearMessages()
			return m, m.next()
		case "ctrl+d":
			m.theme.Toggle()
			return m, nil
		case "tab":
			if m.view == viewWizard && m.mode == models.ModeWizard && m.seq.Step() == wizard.StepTitle {
				m.cycleIcon()
				return m, nil
			}
		case "enter":
			m.clearMessages()
			return m, m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) clearMessages() {
	m.status, m.errText = "", ""
}

func (m *Model) fail(text string, err error) {
	m.errText = text
	if err != nil {
		m.log.Warn(text, zap.Error(err))
	}
}

// cycleIcon выбирает следующую иконку из предложенных.
func (m *Model) cycleIcon() {
	options := m.picker.Options()
	next := options[0]
	for i, e := range options {
		if e.Native == m.lecture.Icon {
			next = options[(i+1)%len(options)]
			break
		}
	}
	m.picker.Select(next)
}

// submit обрабатывает Enter: пустой ввод — «Далее», иначе данные шага.
func (m *Model) submit() tea.Cmd {
	if m.view == viewEditor {
		if err := m.start(m.editorStep); err != nil {
			m.fail("Не удалось вернуться в мастер.", err)
		}
		return nil
	}

	if m.busy() {
		return nil
	}

	text := strings.TrimSpace(m.input.Value())
	if m.mode == models.ModeForm {
		return m.submitForm(text)
	}
	if text == "" {
		return m.next()
	}

	l := m.lecture
	switch m.seq.Step() {
	case wizard.StepTitle:
		l.Title = text
		return m.advance()
	case wizard.StepPeriod:
		if day, ok := m.pickDay(text); ok {
			m.selectedDate = day
			m.status = "Дата: " + day.Format("2006-01-02") + "."
			m.resetInput()
			return nil
		}
		start, end, err := models.ParsePeriod(text, m.selectedDate, m.now().Location())
		if err != nil {
			m.errText = "Некорректный формат. Пример: 2026-10-20 10:00-11:30"
			return nil
		}
		l.StartDate, l.EndDate = &start, &end
		return m.advance()
	case wizard.StepAttachments:
		link, ok := models.ParseLink(text)
		if !ok {
			m.errText = "Введите ссылку http(s)://..."
			return nil
		}
		l.Attachments = append(l.Attachments, models.Attachment{
			LectureID: l.ID, Name: link, Link: link, Kind: models.AttachmentLink,
		})
		m.status = "Ссылка добавлена."
	case wizard.StepUnits:
		l.AddUnit(text)
		m.status = fmt.Sprintf("Раздел добавлен (всего %d).", len(l.Units))
	case wizard.StepReview:
		return m.next()
	}
	m.input.Reset()
	return nil
}

func (m *Model) submitForm(text string) tea.Cmd {
	title, start, end, err := models.ParseForm(text, m.now().Location())
	if err != nil {
		m.errText = "Не удалось разобрать лекцию. Формат: Название; YYYY-MM-DD HH:MM-HH:MM"
		return nil
	}
	m.lecture.Title = title
	m.lecture.StartDate, m.lecture.EndDate = &start, &end
	return saveCmd(m.ctx, m.store, m.lecture.Clone(), true)
}

// pickDay распознаёт «сегодня» и «завтра».
func (m *Model) pickDay(text string) (time.Time, bool) {
	now := m.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch strings.ToLower(text) {
	case "сегодня":
		return today, true
	case "завтра":
		return today.AddDate(0, 0, 1), true
	}
	return time.Time{}, false
}

// busy сообщает пользователю, что идёт сохранение, и запрещает менять лекцию.
func (m *Model) busy() bool {
	if !m.seq.Saving() {
		return false
	}
	m.status = "Лекция сохраняется, подождите."
	return true
}

// next — «Далее» без ввода; незаполненный шаг не пропускается.
func (m *Model) next() tea.Cmd {
	if m.view == viewEditor || m.mode == models.ModeForm {
		return nil
	}
	switch m.seq.Step() {
	case wizard.StepTitle:
		if strings.TrimSpace(m.lecture.Title) == "" {
			m.errText = "Сначала введите название лекции."
			return nil
		}
	case wizard.StepPeriod:
		if m.lecture.StartDate == nil || m.lecture.EndDate == nil {
			m.errText = "Сначала укажите время проведения."
			return nil
		}
	}
	return m.advance()
}

func (m *Model) advance() tea.Cmd {
	outcome, err := m.seq.Advance(m.ctx)
	cmd := m.pending
	m.pending = nil

	switch {
	case errors.Is(err, wizard.ErrSaveInProgress):
		m.status = "Лекция сохраняется, подождите."
		return nil
	case errors.Is(err, services.ErrEmptyTitle):
		m.errText = "У лекции нет названия. Ctrl+T — ввести лекцию одной строкой."
		return nil
	case err != nil:
		m.fail("Ошибка при сохранении лекции.", err)
		return nil
	}

	switch outcome {
	case wizard.OutcomeFinished:
		m.done = true
		return tea.Quit
	case wizard.OutcomeSaving:
		m.status = "Сохранение..."
		return cmd
	}
	m.resetInput()
	return nil
}

func (m *Model) handleSaved(msg saveResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if !msg.form {
			m.seq.OnSaveFailed(msg.err)
		}
		m.fail("Ошибка при сохранении лекции.", msg.err)
		return m, nil
	}

	m.lecture.AdoptID(msg.saved.ID)
	if msg.form {
		m.status = fmt.Sprintf("Лекция создана (ID=%d).", m.lecture.ID)
		m.done = true
		return m, tea.Quit
	}

	m.seq.OnCreationSucceeded()
	m.status = fmt.Sprintf("Лекция сохранена (ID=%d).", m.lecture.ID)
	if m.seq.Finished() {
		m.done = true
		return m, tea.Quit
	}
	m.resetInput()
	return m, nil
}
