package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, time.Minute, cfg.NotifyInterval)
	assert.Equal(t, 15, cfg.DefaultNotifyBefore)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("STORAGE", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/l.db")
	t.Setenv("NOTIFY_INTERVAL", "30s")

	cfg, err := load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.TelegramToken)
	assert.True(t, cfg.HasToken())
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, "/tmp/l.db", cfg.SQLitePath)
	assert.Equal(t, 30*time.Second, cfg.NotifyInterval)
	assert.Empty(t, cfg.Warnings)
}

func TestLoadConfigWarnsAboutMissingValues(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STORAGE", "")

	cfg, err := load(viper.New(), "")
	require.NoError(t, err)

	assert.False(t, cfg.HasToken())
	assert.Equal(t, placeholderToken, cfg.TelegramToken)
	assert.Len(t, cfg.Warnings, 2)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lecturewizard.yaml")
	content := "telegram_bot_token: file-token\nstorage: sqlite\nsqlite_path: file.db\ndefault_notify_before: 5\ntheme: dark\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "file-token", cfg.TelegramToken)
	assert.Equal(t, "file.db", cfg.SQLitePath)
	assert.Equal(t, 5, cfg.DefaultNotifyBefore)
	assert.Equal(t, "dark", cfg.Theme)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tcs := map[string]struct {
		mutate  func(*Config)
		wantErr bool
	}{
		"defaults":          {mutate: func(*Config) {}},
		"unknown storage":   {mutate: func(c *Config) { c.Storage = "mongo" }, wantErr: true},
		"empty dsn":         {mutate: func(c *Config) { c.DatabaseURL = "" }, wantErr: true},
		"empty sqlite path": {mutate: func(c *Config) { c.Storage = StorageSQLite; c.SQLitePath = "" }, wantErr: true},
		"zero interval":     {mutate: func(c *Config) { c.NotifyInterval = 0 }, wantErr: true},
		"negative notify":   {mutate: func(c *Config) { c.DefaultNotifyBefore = -1 }, wantErr: true},
	}
	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if tc.wantErr {
				assert.Error(t, cfg.Validate())
				return
			}
			assert.NoError(t, cfg.Validate())
		})
	}
}
