package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/natindo/LectureWizard/internal/models"
	"github.com/natindo/LectureWizard/internal/theme"
	"github.com/natindo/LectureWizard/internal/tui"
)

var (
	tuiChatID int64
	tuiEditID int64
	tuiStep   int
	tuiDate   string
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Создать или отредактировать лекцию в терминале",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, closeStore, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		lecture := &models.Lecture{ChatID: tuiChatID, NotifyBefore: cfg.DefaultNotifyBefore}
		if tuiEditID != 0 {
			if lecture, err = store.GetLecture(ctx, tuiChatID, tuiEditID); err != nil {
				return errors.Wrapf(err, "load lecture %d", tuiEditID)
			}
		} else if tuiDate != "" {
			day, err := time.ParseInLocation("2006-01-02", tuiDate, time.Local)
			if err != nil {
				return errors.Wrap(err, "parse --date")
			}
			lecture.StartDate = &day
		}

		t := theme.Parse(cfg.Theme)
		if lipgloss.HasDarkBackground() {
			t = theme.Dark
		}

		// Логи поверх экрана мастера мешают, поэтому модель пишет их в никуда.
		model, err := tui.New(ctx, store, lecture, tui.Options{
			Theme:  theme.NewSwitch(t),
			Logger: zap.NewNop(),
			Step:   tuiStep,
		})
		if err != nil {
			return err
		}

		if _, err := tea.NewProgram(model, tea.WithContext(ctx)).Run(); err != nil {
			return errors.Wrap(err, "run tui")
		}
		if l := model.Lecture(); l.Persisted() {
			logger.Info("lecture saved", zap.Int64("lecture_id", l.ID), zap.String("title", l.Title))
		}
		return nil
	},
}

func init() {
	tuiCmd.Flags().Int64Var(&tuiChatID, "chat", 0, "ID чата, которому принадлежит лекция")
	tuiCmd.Flags().Int64Var(&tuiEditID, "edit", 0, "ID лекции для редактирования")
	tuiCmd.Flags().IntVar(&tuiStep, "step", 0, "шаг, с которого начать (1-5)")
	tuiCmd.Flags().StringVar(&tuiDate, "date", "", "дата новой лекции YYYY-MM-DD")
}
