package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server   ServerConfig   `envPrefix:"SERVER_"`
	Database DatabaseConfig `envPrefix:"DATABASE_"`
	Cache    CacheConfig    `envPrefix:"CACHE_"`
	Auth     AuthConfig     `envPrefix:"AUTH_"`
	Kafka    KafkaConfig    `envPrefix:"KAFKA_"`
	Log      LogConfig      `envPrefix:"LOG_"`
}

type ServerConfig struct {
	Addr         string  `env:"ADDR" envDefault:":8080"`
	CORSOrigin   string  `env:"CORS_ORIGIN" envDefault:".*"`
	RateLimit    float64 `env:"RATE_LIMIT" envDefault:"100"`
	PprofEnabled bool    `env:"PPROF_ENABLED" envDefault:"false"`
}

type DatabaseConfig struct {
	// Driver is one of postgres, sqlite or mongo.
	Driver string `env:"DRIVER" envDefault:"sqlite"`
	DSN    string `env:"DSN" envDefault:"file:merch.db?cache=shared&_fk=1"`

	// mongo only
	Database string `env:"DATABASE" envDefault:"merch"`

	MaxOpenConns int  `env:"MAX_OPEN_CONNS" envDefault:"10"`
	Debug        bool `env:"DEBUG" envDefault:"false"`
}

type CacheConfig struct {
	// Driver is one of redis, memory or none.
	Driver        string        `env:"DRIVER" envDefault:"redis"`
	Addr          string        `env:"ADDR" envDefault:"localhost:6379"`
	Password      string        `env:"PASSWORD"`
	DB            int           `env:"DB" envDefault:"0"`
	KeyPrefix     string        `env:"KEY_PREFIX" envDefault:"cache:"`
	OpTimeout     time.Duration `env:"OP_TIMEOUT" envDefault:"150ms"`
	RetryInterval time.Duration `env:"RETRY_INTERVAL" envDefault:"5s"`
	ListingTTL    time.Duration `env:"LISTING_TTL" envDefault:"300s"`
	CategoryTTL   time.Duration `env:"CATEGORY_TTL" envDefault:"3600s"`
	WriteWorkers  int           `env:"WRITE_WORKERS" envDefault:"4"`

	// memory driver
	Capacity           int `env:"CAPACITY" envDefault:"10000"`
	Shards             int `env:"SHARDS" envDefault:"64"`
	EvictionPercentage int `env:"EVICTION_PERCENTAGE" envDefault:"10"`
}

type AuthConfig struct {
	JWTSecret        string        `env:"JWT_SECRET" envDefault:"change-me"`
	JWTRefreshSecret string        `env:"JWT_REFRESH_SECRET" envDefault:"change-me-too"`
	AccessTTL        time.Duration `env:"ACCESS_TTL" envDefault:"1h"`
	RefreshTTL       time.Duration `env:"REFRESH_TTL" envDefault:"168h"`
	BcryptCost       int           `env:"BCRYPT_COST" envDefault:"10"`
}

type KafkaConfig struct {
	Enabled bool     `env:"ENABLED" envDefault:"false"`
	Brokers []string `env:"BROKERS" envDefault:"localhost:9092"`
	Topic   string   `env:"TOPIC" envDefault:"merch.catalog.events"`
	GroupID string   `env:"GROUP_ID"`
	Workers int      `env:"WORKERS" envDefault:"2"`
}

type LogConfig struct {
	Level string `env:"LEVEL" envDefault:"info"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
