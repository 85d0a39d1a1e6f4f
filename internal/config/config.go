package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

var (
	ErrEmptyToken  = errors.New("error getting PM_TELEGRAM_TOKEN: variable not specified or contains an empty string")
	ErrEmptyAPIURL = errors.New("error getting PM_API_URL: variable not specified or contains an empty string")
	// ErrInvalidInterval is returned when PM_FEATURED_INTERVAL is zero or negative.
	ErrInvalidInterval = errors.New("error getting PM_FEATURED_INTERVAL: the interval must be positive")
)

type Config struct {
	Env         string // Env is the current environment: local, development, production.
	APIURL      string // APIURL is the origin of the marketplace API.
	StoragePath string
	MetricsAddr string // MetricsAddr serves /metrics when not empty.
	Tg          Telegram
	HTTP        HTTP
	Feed        Feed
}

type Telegram struct {
	Token   string        // Token is an unique telegram bot token.
	Timeout time.Duration // Timeout is a poller timeout duration.
}

type HTTP struct {
	Timeout time.Duration // Timeout bounds every API request.
}

type Feed struct {
	MaxPrice         int           // MaxPrice is the price treated as "no limit".
	FeaturedInterval time.Duration // FeaturedInterval is how often the featured slide is checked.
}

// MustLoad loads the configuration from environment variables and returns a Config struct.
func MustLoad() *Config {
	// Automatically binds environment variables to config keys
	viper.SetEnvPrefix("PM")
	viper.AutomaticEnv()

	// optional args
	viper.SetDefault("ENV", "production")
	viper.SetDefault("TELEGRAM_TIMEOUT", "15s")
	viper.SetDefault("STORAGE_PATH", "./storage/pulsemarket.db")
	viper.SetDefault("HTTP_TIMEOUT", "10s")
	viper.SetDefault("MAX_PRICE", 5000)
	viper.SetDefault("FEATURED_INTERVAL", "5m")
	viper.SetDefault("METRICS_ADDR", "")

	if viper.GetString("TELEGRAM_TOKEN") == "" {
		panic(ErrEmptyToken)
	}
	if viper.GetString("API_URL") == "" {
		panic(ErrEmptyAPIURL)
	}
	if viper.GetDuration("FEATURED_INTERVAL") <= 0 {
		panic(ErrInvalidInterval)
	}

	return &Config{
		Env:         viper.GetString("ENV"),
		APIURL:      viper.GetString("API_URL"),
		StoragePath: viper.GetString("STORAGE_PATH"),
		MetricsAddr: viper.GetString("METRICS_ADDR"),
		Tg: Telegram{
			Token:   viper.GetString("TELEGRAM_TOKEN"),
			Timeout: viper.GetDuration("TELEGRAM_TIMEOUT"),
		},
		HTTP: HTTP{
			Timeout: viper.GetDuration("HTTP_TIMEOUT"),
		},
		Feed: Feed{
			MaxPrice:         viper.GetInt("MAX_PRICE"),
			FeaturedInterval: viper.GetDuration("FEATURED_INTERVAL"),
		},
	}
}
