package wizard

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Шаги мастера создания лекции.
const (
	StepTitle       = 1
	StepPeriod      = 2
	StepAttachments = 3
	StepUnits       = 4
	StepReview      = 5

	TotalSteps           = StepReview
	LastConfigurableStep = StepUnits
)

// Иконки и подписи кнопки «дальше».
const (
	IconNext   = "➡️"
	IconFinish = "✅"

	TextNext   = "wizard.next_step"
	TextFinish = "wizard.finish"
)

// Outcome — результат Advance.
type Outcome int

const (
	// OutcomeMoved — шаг увеличен на единицу.
	OutcomeMoved Outcome = iota
	// OutcomeSaving — вызвано сохранение, шаг сменится после OnCreationSucceeded.
	OutcomeSaving
	// OutcomeFinished — мастер завершён.
	OutcomeFinished
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMoved:
		return "moved"
	case OutcomeSaving:
		return "saving"
	case OutcomeFinished:
		return "finished"
	}
	return "unknown"
}

// Config описывает зависимости мастера.
type Config struct {
	Subject   Subject
	Navigator Navigator
	Route     RouteReader
	Saver     Saver
	Toggler   ModeToggler

	// WizardPath — экран мастера; на него уходит очищающий переход при Init.
	WizardPath string
	// EditPath — экран обычного редактирования для уже созданной сущности.
	EditPath string

	Logger *zap.Logger
}

// Sequencer вычисляет активный шаг и управляет переходами.
// Не потокобезопасен: владелец сериализует вызовы сам.
type Sequencer struct {
	cfg Config
	log *zap.Logger

	step        int
	initialized bool
	finished    bool

	saving     bool
	savingFrom int
}

// New проверяет порты и возвращает неинициализированный мастер.
func New(cfg Config) (*Sequencer, error) {
	switch {
	case cfg.Subject == nil:
		return nil, errors.Wrap(ErrMissingPort, "subject")
	case cfg.Navigator == nil:
		return nil, errors.Wrap(ErrMissingPort, "navigator")
	case cfg.Saver == nil:
		return nil, errors.Wrap(ErrMissingPort, "saver")
	case cfg.Toggler == nil:
		return nil, errors.Wrap(ErrMissingPort, "mode toggler")
	}
	if cfg.Route == nil {
		cfg.Route = StaticRoute{}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Sequencer{cfg: cfg, log: log.Named("wizard")}, nil
}

// ValidStep сообщает, лежит ли шаг в диапазоне [1, TotalSteps].
func ValidStep(step int) bool {
	return step >= 1 && step <= TotalSteps
}

// InitialStep — правило выбора стартового шага без подсказки.
func InitialStep(s Subject) int {
	switch {
	case !s.Persisted() && !s.HasStartDate():
		return StepTitle
	case !s.Persisted():
		return StepPeriod
	default:
		return LastConfigurableStep
	}
}

// Init один раз читает запрошенный шаг и выбирает стартовый шаг.
// Подсказка вне диапазона отбрасывается. После выбора шага параметры
// маршрута очищаются переходом на WizardPath.
func (s *Sequencer) Init(ctx context.Context) error {
	if s.initialized {
		return ErrAlreadyInitialized
	}

	hint, ok, err := s.cfg.Route.RequestedStep(ctx)
	if err != nil {
		s.log.Warn("requested step unreadable, ignoring", zap.Error(err))
		ok = false
	}

	s.step = InitialStep(s.cfg.Subject)
	if ok {
		if ValidStep(hint) {
			s.step = hint
		} else {
			s.log.Warn("requested step rejected", zap.Int("step", hint), zap.Int("fallback", s.step))
		}
	}
	s.initialized = true
	s.log.Debug("initialized", zap.Int("step", s.step))

	if err := s.cfg.Navigator.Navigate(ctx, s.cfg.WizardPath, NavigationState{}); err != nil {
		return errors.Wrap(err, "clear route params")
	}
	return nil
}

// Step возвращает текущий шаг (0 до Init).
func (s *Sequencer) Step() int { return s.step }

func (s *Sequencer) Initialized() bool { return s.initialized }

func (s *Sequencer) Finished() bool { return s.finished }

// Saving сообщает, ожидается ли завершение сохранения.
func (s *Sequencer) Saving() bool { return s.saving }

// IsLast — активен финальный шаг.
func (s *Sequencer) IsLast() bool { return s.step == TotalSteps }

// Advance переходит к следующему шагу. На последнем настраиваемом шаге
// и на финальном шаге для несохранённой сущности вместо перехода
// вызывается сохранение.
func (s *Sequencer) Advance(ctx context.Context) (Outcome, error) {
	switch {
	case !s.initialized:
		return 0, ErrNotInitialized
	case s.finished:
		return 0, ErrFinished
	case s.saving:
		return 0, ErrSaveInProgress
	}

	switch {
	case s.step < LastConfigurableStep:
		s.step++
		return OutcomeMoved, nil
	case s.step == TotalSteps && s.cfg.Subject.Persisted():
		s.finished = true
		s.log.Info("wizard finished")
		return OutcomeFinished, nil
	}

	// Флаг выставляется до вызова: Saver может сообщить о завершении сразу.
	s.saving = true
	s.savingFrom = s.step
	if err := s.cfg.Saver.Save(ctx); err != nil {
		s.saving = false
		return 0, errors.Wrap(err, "save")
	}
	return OutcomeSaving, nil
}

// OnCreationSucceeded вызывается, когда асинхронное сохранение завершилось.
// Шаг становится следующим за тем, на котором сохранение было запущено.
func (s *Sequencer) OnCreationSucceeded() {
	from := s.step
	if s.saving {
		from = s.savingFrom
	}
	s.saving = false

	if from >= TotalSteps {
		s.step = TotalSteps
		s.finished = true
		s.log.Info("wizard finished after save")
		return
	}
	s.step = from + 1
	s.log.Debug("save succeeded", zap.Int("step", s.step))
}

// OnSaveFailed снимает признак сохранения, чтобы можно было повторить.
func (s *Sequencer) OnSaveFailed(err error) {
	s.saving = false
	s.log.Warn("save failed", zap.Int("step", s.step), zap.Error(err))
}

// ToggleMode для несохранённой сущности переключает режим интерфейса,
// для сохранённой — уходит на экран редактирования с текущим шагом.
func (s *Sequencer) ToggleMode(ctx context.Context) error {
	if !s.initialized {
		return ErrNotInitialized
	}
	if !s.cfg.Subject.Persisted() {
		return errors.Wrap(s.cfg.Toggler.ToggleMode(ctx), "toggle mode")
	}
	err := s.cfg.Navigator.Navigate(ctx, s.cfg.EditPath, NavigationState{Step: s.step})
	return errors.Wrap(err, "navigate to editor")
}

// NextIcon — иконка кнопки «дальше» для текущего шага.
func (s *Sequencer) NextIcon() string {
	if s.IsLast() {
		return IconFinish
	}
	return IconNext
}

// NextText — ключ подписи кнопки «дальше» для текущего шага.
func (s *Sequencer) NextText() string {
	if s.IsLast() {
		return TextFinish
	}
	return TextNext
}
