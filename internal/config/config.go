package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config carries every knob the service needs. Components receive the
// values they use at construction time; nothing reads the environment
// after LoadConfig returns.
type Config struct {
	PostgresHost     string `env:"POSTGRES_HOST"     envDefault:"localhost"`
	PostgresPort     string `env:"POSTGRES_PORT"     envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER"     envDefault:"auction_user"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"auction_password"`
	PostgresDb       string `env:"POSTGRES_DB"       envDefault:"auction_db"`

	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort uint16 `env:"REDIS_PORT" envDefault:"6379" validate:"min=1000,max=65535"`

	ChangeStream     string `env:"AUCTION_CHANGE_STREAM" envDefault:"auctions:changes" validate:"required"`
	DeadLetterStream string `env:"AUCTION_DLQ_STREAM"    envDefault:"auctions:dlq"     validate:"required"`

	EventMaxAttempts int           `env:"EVENT_MAX_ATTEMPTS" envDefault:"3"   validate:"min=1,max=10"`
	SweepInterval    time.Duration `env:"SWEEP_INTERVAL"     envDefault:"10s" validate:"min=1s"`

	DefaultAuctionDuration time.Duration `env:"DEFAULT_AUCTION_DURATION" envDefault:"1h" validate:"min=1m"`

	HttpServerPort uint16 `env:"HTTP_SERVER_PORT" envDefault:"8085" validate:"min=1000,max=65535"`
}

func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	err := godotenv.Load(".env")
	if err != nil {
		zap.L().Debug(".env file not found", zap.Error(err))
	}

	cfg := &Config{}
	// Parse config from environment variables
	if err = env.Parse(cfg); err != nil {
		zap.L().Error("config_load_failed", zap.Error(err))
		return nil, err
	}

	// Validate the config
	validate := validator.New()
	err = validate.Struct(cfg)
	if err != nil {
		zap.L().Error("config_validation_failed", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}
