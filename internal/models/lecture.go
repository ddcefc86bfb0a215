package models

import "time"

// Lecture хранит данные о лекции и её составных частях.
type Lecture struct {
	ID           int64
	ChatID       int64
	Title        string
	Icon         string
	StartDate    *time.Time
	EndDate      *time.Time
	NotifyBefore int
	Notified     bool
	Units        []LectureUnit
	Attachments  []Attachment
}

// LectureUnit — раздел лекции, порядок задаёт Position.
type LectureUnit struct {
	ID        int64
	LectureID int64
	Position  int
	Name      string
}

// Виды вложений.
const (
	AttachmentFile = "file"
	AttachmentLink = "link"
)

// Attachment — файл (Telegram file id) или ссылка.
type Attachment struct {
	ID        int64
	LectureID int64
	Name      string
	Link      string
	Kind      string
}

// Persisted — лекция уже сохранена в БД.
func (l *Lecture) Persisted() bool { return l.ID != 0 }

// HasStartDate — дата начала уже выбрана.
func (l *Lecture) HasStartDate() bool { return l.StartDate != nil }

// DisplayTitle возвращает название вместе с иконкой, если она выбрана.
func (l *Lecture) DisplayTitle() string {
	if l.Icon == "" {
		return l.Title
	}
	return l.Icon + " " + l.Title
}

// AddUnit добавляет раздел в конец списка.
func (l *Lecture) AddUnit(name string) {
	l.Units = append(l.Units, LectureUnit{
		LectureID: l.ID,
		Position:  len(l.Units) + 1,
		Name:      name,
	})
}

// Clone возвращает независимую копию лекции вместе с разделами и вложениями.
func (l *Lecture) Clone() *Lecture {
	c := *l
	c.Units = append([]LectureUnit(nil), l.Units...)
	c.Attachments = append([]Attachment(nil), l.Attachments...)
	if l.StartDate != nil {
		start := *l.StartDate
		c.StartDate = &start
	}
	if l.EndDate != nil {
		end := *l.EndDate
		c.EndDate = &end
	}
	return &c
}

// AdoptID переносит ID сохранённой копии в лекцию и её составные части.
func (l *Lecture) AdoptID(id int64) {
	l.ID = id
	for i := range l.Units {
		l.Units[i].LectureID = id
	}
	for i := range l.Attachments {
		l.Attachments[i].LectureID = id
	}
}
