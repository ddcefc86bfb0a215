package services

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/natindo/LectureWizard/internal/models"
)

// Sender — часть *tgbotapi.BotAPI, нужная для отправки сообщений.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier раз в interval проверяет лекции.
// Если (start_date - now) <= notify_before и notified=false, отправляет напоминание.
type Notifier struct {
	store    LectureStore
	sender   Sender
	interval time.Duration
	log      *zap.Logger
	now      func() time.Time
}

func NewNotifier(store LectureStore, sender Sender, interval time.Duration, log *zap.Logger) *Notifier {
	return &Notifier{
		store:    store,
		sender:   sender,
		interval: interval,
		log:      log.Named("notifier"),
		now:      time.Now,
	}
}

// Run работает до отмены ctx.
func (n *Notifier) Run(ctx context.Context) error {
	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := n.Tick(ctx); err != nil {
				n.log.Error("notify tick failed", zap.Error(err))
			}
		}
	}
}

// Tick отправляет все назревшие напоминания и возвращает их количество.
// Лекция помечается уведомлённой, только если сообщение ушло.
func (n *Notifier) Tick(ctx context.Context) (int, error) {
	lectures, err := n.store.LecturesToNotify(ctx, n.now())
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, l := range lectures {
		if _, err := n.sender.Send(tgbotapi.NewMessage(l.ChatID, ReminderText(l))); err != nil {
			n.log.Warn("send reminder", zap.Int64("lecture_id", l.ID), zap.Error(err))
			continue
		}
		if err := n.store.MarkNotified(ctx, l.ID); err != nil {
			return sent, errors.Wrapf(err, "lecture %d", l.ID)
		}
		sent++
	}
	return sent, nil
}

// ReminderText — текст напоминания о лекции.
func ReminderText(l models.Lecture) string {
	text := fmt.Sprintf("Напоминание!\nЧерез %d мин начнётся лекция:\n%s", l.NotifyBefore, l.DisplayTitle())
	if l.StartDate != nil {
		text += "\nВремя: " + l.StartDate.Format("15:04")
		if l.EndDate != nil {
			text += " - " + l.EndDate.Format("15:04")
		}
	}
	return text
}
