package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLectureSubject(t *testing.T) {
	l := &Lecture{}
	assert.False(t, l.Persisted())
	assert.False(t, l.HasStartDate())

	now := time.Now()
	l.StartDate = &now
	l.ID = 5
	assert.True(t, l.Persisted())
	assert.True(t, l.HasStartDate())
}

func TestLectureAddUnit(t *testing.T) {
	l := &Lecture{ID: 3}
	l.AddUnit("Введение")
	l.AddUnit("Графы")

	assert.Equal(t, []LectureUnit{
		{LectureID: 3, Position: 1, Name: "Введение"},
		{LectureID: 3, Position: 2, Name: "Графы"},
	}, l.Units)
}

func TestDisplayTitle(t *testing.T) {
	assert.Equal(t, "Алгоритмы", (&Lecture{Title: "Алгоритмы"}).DisplayTitle())
	assert.Equal(t, "📚 Алгоритмы", (&Lecture{Title: "Алгоритмы", Icon: "📚"}).DisplayTitle())
}

func TestNewCreationState(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	st := NewCreationState(77, nil, now)

	assert.Equal(t, int64(77), st.ChatID)
	assert.Equal(t, int64(77), st.Lecture.ChatID)
	assert.Equal(t, ModeWizard, st.Mode)
	assert.NotEqual(t, st.SessionID, NewCreationState(77, nil, now).SessionID)
}

func TestLectureCloneIsIndependent(t *testing.T) {
	start := time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC)
	l := &Lecture{Title: "Алгебра", StartDate: &start}
	l.AddUnit("Группы")

	c := l.Clone()
	c.AddUnit("Кольца")
	*c.StartDate = start.Add(time.Hour)
	c.AdoptID(5)

	assert.Len(t, l.Units, 1)
	assert.Equal(t, start, *l.StartDate)
	assert.Zero(t, l.ID)
	assert.Equal(t, int64(5), c.Units[1].LectureID)
}
