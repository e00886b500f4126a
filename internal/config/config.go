package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken string `envconfig:"BOT_TOKEN" required:"true"`
	DBPath   string `envconfig:"DB_PATH" default:"./data/medications.db"`
	// BOT_TZ, not TZ: the POSIX TZ variable is often set by the host
	// (including forms like ":/etc/localtime" that LoadLocation rejects)
	// and must not override the reminder timezone.
	TZ       string `envconfig:"BOT_TZ" default:"Europe/Moscow"` // single fixed reminder timezone
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`       // debug|info|warn|error
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`      // healthz
}

// Load reads an optional .env file, then environment variables into Config.
func Load() (Config, error) {
	// A missing .env is fine; real env vars always win.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
