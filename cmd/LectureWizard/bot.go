package main

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/natindo/LectureWizard/internal/bot"
	"github.com/natindo/LectureWizard/internal/services"
	"github.com/natindo/LectureWizard/internal/theme"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Запустить Telegram-бота и рассылку напоминаний",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if !cfg.HasToken() {
			return errors.New("TELEGRAM_BOT_TOKEN is required to run the bot")
		}

		// 1. Подключаемся к БД
		store, closeStore, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		// 2. Создаём инстанс бота
		api, err := bot.NewBotAPI(cfg.TelegramToken, cfg.Debug, logger)
		if err != nil {
			return err
		}
		b := bot.New(api, store, bot.Options{
			DefaultNotifyBefore: cfg.DefaultNotifyBefore,
			DefaultTheme:        theme.Parse(cfg.Theme),
			Logger:              logger,
		})
		notifier := services.NewNotifier(store, api, cfg.NotifyInterval, logger)

		u := tgbotapi.NewUpdate(0)
		u.Timeout = 60
		updates := api.GetUpdatesChan(u)

		// 3. Бот и воркер уведомлений живут до сигнала остановки
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return b.Run(gctx, updates) })
		g.Go(func() error { return notifier.Run(gctx) })
		g.Go(func() error {
			<-gctx.Done()
			api.StopReceivingUpdates()
			return nil
		})

		logger.Info("bot started", zap.Duration("notify_interval", cfg.NotifyInterval))
		if err := g.Wait(); err != nil {
			return err
		}
		logger.Info("bot stopped")
		return nil
	},
}
