package services

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/natindo/LectureWizard/internal/models"
)

var (
	ErrNotFound      = errors.New("lecture not found")
	ErrEmptyTitle    = errors.New("lecture title is empty")
	ErrInvalidPeriod = errors.New("lecture ends before it starts")
)

// LectureStore — хранилище лекций вместе с разделами и вложениями.
type LectureStore interface {
	// CreateLecture вставляет новую лекцию и возвращает её ID.
	CreateLecture(ctx context.Context, l *models.Lecture) (int64, error)
	// UpdateLecture перезаписывает лекцию, её разделы и вложения.
	UpdateLecture(ctx context.Context, l *models.Lecture) error
	// GetLecture возвращает лекцию, если она принадлежит chatID.
	GetLecture(ctx context.Context, chatID, id int64) (*models.Lecture, error)
	// ListUpcoming — лекции начиная с текущих суток и лекции без даты.
	ListUpcoming(ctx context.Context, chatID int64, now time.Time) ([]models.Lecture, error)
	DeleteLecture(ctx context.Context, chatID, id int64) error
	// LecturesToNotify — лекции, о которых пора напомнить.
	LecturesToNotify(ctx context.Context, now time.Time) ([]models.Lecture, error)
	MarkNotified(ctx context.Context, id int64) error
}

// ValidateLecture проверяет лекцию перед сохранением.
func ValidateLecture(l *models.Lecture) error {
	if strings.TrimSpace(l.Title) == "" {
		return ErrEmptyTitle
	}
	if l.StartDate != nil && l.EndDate != nil && l.EndDate.Before(*l.StartDate) {
		return ErrInvalidPeriod
	}
	return nil
}

// SaveLecture создаёт лекцию или обновляет уже сохранённую. После создания
// ID записывается в саму лекцию и её разделы.
func SaveLecture(ctx context.Context, store LectureStore, l *models.Lecture) error {
	if err := ValidateLecture(l); err != nil {
		return err
	}
	if l.Persisted() {
		return store.UpdateLecture(ctx, l)
	}
	id, err := store.CreateLecture(ctx, l)
	if err != nil {
		return err
	}
	l.AdoptID(id)
	return nil
}

func startOfDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
