package emoji

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/natindo/LectureWizard/internal/theme"
)

func TestPickerReactsToThemeChanges(t *testing.T) {
	sw := theme.NewSwitch(theme.Light)
	p := NewPicker(sw, nil)

	assert.False(t, p.Dark())
	assert.Equal(t, "", p.SingleImage("1F519"))

	sw.Apply(theme.Dark)

	assert.True(t, p.Dark())
	assert.Equal(t, "public/emoji/1f519.png", p.SingleImage("1F519"))
}

func TestPickerSelect(t *testing.T) {
	var got []Emoji
	p := NewPicker(theme.NewSwitch(theme.Light), func(e Emoji) { got = append(got, e) })

	books, ok := p.Lookup("1f4da")
	assert.True(t, ok)
	p.Select(books)

	assert.Equal(t, []Emoji{{Native: "📚", Unified: "1F4DA"}}, got)

	_, ok = p.Lookup("FFFF")
	assert.False(t, ok)

	e, ok := p.LookupNative("💻")
	assert.True(t, ok)
	assert.Equal(t, "1F4BB", e.Unified)
	_, ok = p.LookupNative("")
	assert.False(t, ok)
}

func TestPickerSelectWithoutHandler(t *testing.T) {
	p := NewPicker(theme.NewSwitch(theme.Light), nil)
	assert.NotPanics(t, func() { p.Select(p.Options()[0]) })
}
