package models

import (
	"time"

	"github.com/google/uuid"
)

// Mode — режим ввода лекции в чате.
type Mode int

const (
	ModeWizard Mode = iota
	// ModeForm — вся лекция вводится одним сообщением.
	ModeForm
)

// CreationState описывает пошаговое создание/редактирование лекции в одном чате.
// Шаг хранит не сама структура, а мастер, который её обслуживает.
type CreationState struct {
	SessionID uuid.UUID
	ChatID    int64
	Mode      Mode
	Lecture   *Lecture
	// SelectedDate — день, выбранный кнопками «Сегодня/Завтра» до ввода времени.
	SelectedDate time.Time
	// View — последний экран, на который был выполнен переход.
	View      string
	StartedAt time.Time
}

// NewCreationState создаёт состояние для новой или существующей лекции.
func NewCreationState(chatID int64, lecture *Lecture, now time.Time) *CreationState {
	if lecture == nil {
		lecture = &Lecture{ChatID: chatID}
	}
	return &CreationState{
		SessionID: uuid.New(),
		ChatID:    chatID,
		Mode:      ModeWizard,
		Lecture:   lecture,
		StartedAt: now,
	}
}
