package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"

	placeholderToken = "CHANGE_ME"
	defaultDSN       = "user=myuser password=mypass dbname=mydb host=localhost port=5432 sslmode=disable"
)

// Config хранит основные настройки приложения.
type Config struct {
	TelegramToken string `mapstructure:"telegram_bot_token"`
	DatabaseURL   string `mapstructure:"database_url"`
	// Storage — "postgres" или "sqlite".
	Storage    string `mapstructure:"storage"`
	SQLitePath string `mapstructure:"sqlite_path"`

	// NotifyInterval — как часто проверять лекции для напоминаний.
	NotifyInterval time.Duration `mapstructure:"notify_interval"`
	// DefaultNotifyBefore — за сколько минут до начала напоминать по умолчанию.
	DefaultNotifyBefore int `mapstructure:"default_notify_before"`
	// Theme — тема оформления по умолчанию ("light" или "dark").
	Theme    string `mapstructure:"theme"`
	LogLevel string `mapstructure:"log_level"`
	Debug    bool   `mapstructure:"debug"`

	// Warnings — замечания, накопленные при загрузке; логируются после создания логгера.
	Warnings []string `mapstructure:"-"`
}

// Default возвращает настройки по умолчанию.
func Default() *Config {
	return &Config{
		DatabaseURL:         defaultDSN,
		Storage:             StoragePostgres,
		SQLitePath:          "lectures.db",
		NotifyInterval:      time.Minute,
		DefaultNotifyBefore: 15,
		Theme:               "light",
		LogLevel:            "info",
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("telegram_bot_token", d.TelegramToken)
	v.SetDefault("database_url", d.DatabaseURL)
	v.SetDefault("storage", d.Storage)
	v.SetDefault("sqlite_path", d.SQLitePath)
	v.SetDefault("notify_interval", d.NotifyInterval)
	v.SetDefault("default_notify_before", d.DefaultNotifyBefore)
	v.SetDefault("theme", d.Theme)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("debug", d.Debug)
}

// LoadConfig читает настройки из окружения и, если указан, из файла.
// Переменные окружения важнее файла.
func LoadConfig(path string) (*Config, error) {
	return load(viper.New(), path)
}

func load(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	if cfg.TelegramToken == "" {
		cfg.Warnings = append(cfg.Warnings, "TELEGRAM_BOT_TOKEN не задан в окружении")
		cfg.TelegramToken = placeholderToken
	}
	if cfg.DatabaseURL == defaultDSN && cfg.Storage == StoragePostgres {
		cfg.Warnings = append(cfg.Warnings, "DATABASE_URL не задан в окружении, используем дефолтную строку подключения")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения, без которых приложение не запустится.
func (c *Config) Validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return errors.New("database_url must be set for postgres storage")
		}
	case StorageSQLite:
		if c.SQLitePath == "" {
			return errors.New("sqlite_path must be set for sqlite storage")
		}
	default:
		return errors.Errorf("unknown storage %q", c.Storage)
	}
	if c.NotifyInterval <= 0 {
		return errors.New("notify_interval must be positive")
	}
	if c.DefaultNotifyBefore < 0 {
		return errors.New("default_notify_before must not be negative")
	}
	return nil
}

// HasToken — задан ли настоящий токен бота.
func (c *Config) HasToken() bool {
	return c.TelegramToken != "" && c.TelegramToken != placeholderToken
}
