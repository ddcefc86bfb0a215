package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const layout = "2006-01-02 15:04"

func TestParsePeriod(t *testing.T) {
	day := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)

	tcs := map[string]struct {
		text      string
		day       time.Time
		wantStart string
		wantEnd   string
		wantErr   bool
	}{
		"full period":           {text: "2026-10-21 10:00-11:30", wantStart: "2026-10-21 10:00", wantEnd: "2026-10-21 11:30"},
		"default duration":      {text: "2026-10-21 10:00", wantStart: "2026-10-21 10:00", wantEnd: "2026-10-21 11:30"},
		"time on selected day":  {text: " 09:15-10:00 ", day: day, wantStart: "2026-10-20 09:15", wantEnd: "2026-10-20 10:00"},
		"time without day":      {text: "09:15-10:00", wantErr: true},
		"end before start":      {text: "2026-10-21 10:00-09:00", wantErr: true},
		"bad date":              {text: "21.10.2026 10:00", wantErr: true},
		"bad clock":             {text: "2026-10-21 25:00", wantErr: true},
		"bad end clock":         {text: "2026-10-21 10:00-xx", wantErr: true},
		"too many fields":       {text: "2026-10-21 10:00 11:00", wantErr: true},
		"empty":                 {text: "", wantErr: true},
	}
	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			start, end, err := ParsePeriod(tc.text, tc.day, time.UTC)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrBadPeriod)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantStart, start.Format(layout))
			assert.Equal(t, tc.wantEnd, end.Format(layout))
		})
	}
}

func TestParseForm(t *testing.T) {
	title, start, end, err := ParseForm("Теория вероятностей; 2026-10-22 12:00-13:00", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "Теория вероятностей", title)
	assert.Equal(t, "2026-10-22 12:00", start.Format(layout))
	assert.Equal(t, "2026-10-22 13:00", end.Format(layout))

	for _, bad := range []string{"без периода", "; 2026-10-22 12:00", "Название; завтра"} {
		_, _, _, err := ParseForm(bad, time.UTC)
		assert.ErrorIs(t, err, ErrBadForm, bad)
	}
}

func TestParseLink(t *testing.T) {
	link, ok := ParseLink(" https://example.org/a.pdf ")
	assert.True(t, ok)
	assert.Equal(t, "https://example.org/a.pdf", link)

	for _, bad := range []string{"example.org", "ftp://example.org/a", "https://", "просто текст"} {
		_, ok := ParseLink(bad)
		assert.False(t, ok, bad)
	}
}

