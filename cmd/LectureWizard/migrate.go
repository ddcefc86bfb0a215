package main

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Создать таблицы в выбранном хранилище",
	RunE: func(cmd *cobra.Command, args []string) error {
		// openStore сам применяет схему
		_, closeStore, err := openStore(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		closeStore()
		logger.Info("migration complete")
		return nil
	},
}
