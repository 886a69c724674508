package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Addr        string `envconfig:"ADDR" default:":8080"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret   string `envconfig:"JWT_SECRET" required:"true"`

	GatewayBaseURL   string        `envconfig:"GATEWAY_BASE_URL" default:"https://api.razorpay.com"`
	GatewayKeyID     string        `envconfig:"GATEWAY_KEY_ID" required:"true"`
	GatewayKeySecret string        `envconfig:"GATEWAY_KEY_SECRET" required:"true"`
	GatewayTimeout   time.Duration `envconfig:"GATEWAY_TIMEOUT" default:"10s"`
	Currency         string        `envconfig:"CURRENCY" default:"INR"`

	MetricsUser string `envconfig:"METRICS_USER" default:"metrics"`
	MetricsPass string `envconfig:"METRICS_PASS" default:"metrics"`

	RateLimit       int           `envconfig:"RATE_LIMIT" default:"100"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	Env string `envconfig:"ENV" default:"development"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
