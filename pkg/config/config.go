package config

import (
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT"`
		Host    string `env:"POSTGRES_HOST"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
	Instagram struct {
		// SessionID is an opaque session cookie produced by an external
		// login flow. The scraper only forwards it.
		SessionID  string `env:"INSTAGRAM_SESSION_ID"`
		UsersFetch string `env:"INSTAGRAM_USERS_FETCH"`
	}
	Scraper struct {
		RequestDelay  time.Duration `env:"SCRAPER_REQUEST_DELAY" env-default:"3s"`
		RequestJitter float64       `env:"SCRAPER_REQUEST_JITTER" env-default:"0.2"`
	}
	Retry struct {
		MaxAttempts uint64        `env:"RETRY_MAX_ATTEMPTS" env-default:"3"`
		InitialWait time.Duration `env:"RETRY_INITIAL_WAIT" env-default:"2s"`
		MaxWait     time.Duration `env:"RETRY_MAX_WAIT" env-default:"30s"`
		Multiplier  float64       `env:"RETRY_MULTIPLIER" env-default:"2"`
	}
	Downloader struct {
		Dir           string `env:"DOWNLOADER_DIR" env-default:"./downloads"`
		MaxConcurrent int    `env:"DOWNLOADER_MAX_CONCURRENT" env-default:"3"`
		ChunkSize     int    `env:"DOWNLOADER_CHUNK_SIZE" env-default:"8192"`
	}
	Telegram struct {
		User  int64  `env:"TELEGRAM_USER"`
		Token string `env:"TELEGRAM_TOKEN"`
	}
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}
