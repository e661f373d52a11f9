package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth      AuthConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Billing   BillingConfig
	Notify    NotifyConfig
	Bootstrap BootstrapConfig
}

type AuthConfig struct {
	JWTSecret       string        `env:"JWT_SECRET, required"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL,  default=5m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL, default=24h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017/?replicaSet=rs0"`
	Database string `env:"MONGO_DB,  default=casework"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=10"`
}

type StorageConfig struct {
	Endpoint     string        `env:"STORAGE_ENDPOINT,   default=localhost:9000"`
	AccessKey    string        `env:"STORAGE_ACCESS_KEY"`
	SecretKey    string        `env:"STORAGE_SECRET_KEY"`
	Bucket       string        `env:"STORAGE_BUCKET,     default=casework-documents"`
	Region       string        `env:"STORAGE_REGION,     default=us-east-1"`
	UseSSL       bool          `env:"STORAGE_USE_SSL,    default=false"`
	UploadURLTTL time.Duration `env:"UPLOAD_URL_TTL,     default=1h"`
}

type BillingConfig struct {
	TaxRate         string `env:"INVOICE_TAX_RATE, default=0.15"`
	DefaultCurrency string `env:"DEFAULT_CURRENCY, default=ZAR"`
}

type NotifyConfig struct {
	Workers int `env:"NOTIFY_WORKERS, default=4"`
}

// BootstrapConfig seeds the first administrator. Both fields empty disables it.
type BootstrapConfig struct {
	AdminEmail    string `env:"BOOTSTRAP_ADMIN_EMAIL"`
	AdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD"`
}

// IsDevelopment reports whether the service runs with developer conveniences
// such as pretty logs.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "local"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Lookup reads configuration through a custom lookuper. Used by tests.
func Lookup(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
