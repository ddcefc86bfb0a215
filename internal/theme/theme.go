// Package theme хранит выбранную тему оформления и оповещает подписчиков о её смене.
package theme

import "sync"

type Theme int

const (
	Light Theme = iota
	Dark
)

func (t Theme) String() string {
	if t == Dark {
		return "dark"
	}
	return "light"
}

// Parse разбирает название темы; всё, кроме "dark", считается светлой темой.
func Parse(s string) Theme {
	if s == "dark" {
		return Dark
	}
	return Light
}

// Observer отдаёт текущую тему и сообщает о её смене.
type Observer interface {
	Theme() Theme
	Subscribe(fn func(Theme)) (unsubscribe func())
}

// Switch — Observer, тема которого меняется явным вызовом Apply.
type Switch struct {
	mu     sync.Mutex
	theme  Theme
	nextID int
	subs   map[int]func(Theme)
}

func NewSwitch(initial Theme) *Switch {
	return &Switch{theme: initial, subs: make(map[int]func(Theme))}
}

func (s *Switch) Theme() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

func (s *Switch) Subscribe(fn func(Theme)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Apply устанавливает тему и, если она изменилась, вызывает подписчиков.
func (s *Switch) Apply(t Theme) {
	s.mu.Lock()
	if s.theme == t {
		s.mu.Unlock()
		return
	}
	s.theme = t
	subs := make([]func(Theme), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(t)
	}
}

// Toggle переключает светлую тему на тёмную и обратно.
func (s *Switch) Toggle() Theme {
	next := Dark
	if s.Theme() == Dark {
		next = Light
	}
	s.Apply(next)
	return next
}
