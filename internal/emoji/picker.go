// Package emoji выбирает иконку лекции из набора эмодзи с учётом темы оформления.
package emoji

import (
	"strings"

	"github.com/natindo/LectureWizard/internal/theme"
)

// Emoji — символ и его код Unicode в формате "1F4DA".
type Emoji struct {
	Native  string
	Unified string
}

// defaultSet — иконки, которые предлагаются для лекции.
var defaultSet = []Emoji{
	{Native: "📚", Unified: "1F4DA"},
	{Native: "🧮", Unified: "1F9EE"},
	{Native: "🧪", Unified: "1F9EA"},
	{Native: "💻", Unified: "1F4BB"},
	{Native: "🌍", Unified: "1F30D"},
	{Native: "🎨", Unified: "1F3A8"},
}

// Picker отдаёт набор эмодзи и передаёт выбранный в обработчик.
type Picker struct {
	observer theme.Observer
	onSelect func(Emoji)
	set      []Emoji
}

// NewPicker создаёт выбор эмодзи. onSelect может быть nil.
func NewPicker(observer theme.Observer, onSelect func(Emoji)) *Picker {
	return &Picker{observer: observer, onSelect: onSelect, set: defaultSet}
}

// Dark — включена ли тёмная тема.
func (p *Picker) Dark() bool {
	return p.observer.Theme() == theme.Dark
}

// SingleImage — путь к картинке эмодзи. В светлой теме используются
// системные эмодзи, поэтому путь пустой.
func (p *Picker) SingleImage(unified string) string {
	if !p.Dark() {
		return ""
	}
	return "public/emoji/" + strings.ToLower(unified) + ".png"
}

func (p *Picker) Options() []Emoji {
	return p.set
}

// Lookup ищет эмодзи набора по коду.
func (p *Picker) Lookup(unified string) (Emoji, bool) {
	for _, e := range p.set {
		if strings.EqualFold(e.Unified, unified) {
			return e, true
		}
	}
	return Emoji{}, false
}

// LookupNative ищет эмодзи набора по самому символу.
func (p *Picker) LookupNative(native string) (Emoji, bool) {
	for _, e := range p.set {
		if native != "" && e.Native == native {
			return e, true
		}
	}
	return Emoji{}, false
}

// Select передаёт выбранный эмодзи обработчику.
func (p *Picker) Select(e Emoji) {
	if p.onSelect != nil {
		p.onSelect(e)
	}
}
