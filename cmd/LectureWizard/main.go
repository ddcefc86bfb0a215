package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/natindo/LectureWizard/internal/config"
	"github.com/natindo/LectureWizard/internal/logging"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lecturewizard",
	Short: "Пошаговое создание лекций в Telegram и в терминале",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 1. Читаем конфиг (env важнее файла)
		var err error
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Debug = true
		}

		// 2. Логгер; замечания конфига выводим уже через него
		logger, err = logging.New(cfg.LogLevel, cfg.Debug)
		if err != nil {
			return errors.Wrap(err, "init logger")
		}
		for _, w := range cfg.Warnings {
			logger.Warn(w)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "файл конфигурации (yaml, json, toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "подробные логи")

	rootCmd.AddCommand(botCmd, tuiCmd, migrateCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
