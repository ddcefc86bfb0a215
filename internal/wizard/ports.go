package wizard

import "context"

// Subject — сущность, которую мастер заполняет шаг за шагом.
type Subject interface {
	// Persisted сообщает, есть ли у сущности идентификатор (уже создана).
	Persisted() bool
	// HasStartDate сообщает, задана ли заранее дата начала.
	HasStartDate() bool
}

// NavigationState передаётся вместе с переходом, чтобы получатель мог
// продолжить с нужного шага. Step == 0 означает «без состояния».
type NavigationState struct {
	Step int
}

// Navigator выполняет переход на другой экран (path) с состоянием.
type Navigator interface {
	Navigate(ctx context.Context, path string, state NavigationState) error
}

// RouteReader один раз при старте отдаёт запрошенный шаг, если он есть.
type RouteReader interface {
	RequestedStep(ctx context.Context) (step int, ok bool, err error)
}

// Saver сохраняет сущность. Завершение сохранения сообщается через
// Sequencer.OnCreationSucceeded / Sequencer.OnSaveFailed.
type Saver interface {
	Save(ctx context.Context) error
}

// ModeToggler переключает интерфейс между мастером и обычной формой.
type ModeToggler interface {
	ToggleMode(ctx context.Context) error
}

// NavigatorFunc позволяет использовать обычную функцию как Navigator.
type NavigatorFunc func(ctx context.Context, path string, state NavigationState) error

func (f NavigatorFunc) Navigate(ctx context.Context, path string, state NavigationState) error {
	return f(ctx, path, state)
}

// SaverFunc позволяет использовать обычную функцию как Saver.
type SaverFunc func(ctx context.Context) error

func (f SaverFunc) Save(ctx context.Context) error { return f(ctx) }

// ToggleFunc позволяет использовать обычную функцию как ModeToggler.
type ToggleFunc func(ctx context.Context) error

func (f ToggleFunc) ToggleMode(ctx context.Context) error { return f(ctx) }

// StaticRoute — RouteReader с заранее известным значением.
type StaticRoute struct {
	Step int
	Set  bool
}

func (r StaticRoute) RequestedStep(context.Context) (int, bool, error) {
	return r.Step, r.Set, nil
}
