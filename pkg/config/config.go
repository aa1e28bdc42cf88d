package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Razorpay     RazorpayConfig
	Checkout     CheckoutConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"JUSTBECHO_APP_ENV" required:"true"`
	Port         string `envconfig:"JUSTBECHO_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"JUSTBECHO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"JUSTBECHO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"JUSTBECHO_DB_DSN"`
	Driver string `envconfig:"JUSTBECHO_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"JUSTBECHO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"JUSTBECHO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"JUSTBECHO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"JUSTBECHO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"JUSTBECHO_REDIS_URL" required:"true"`
	Password     string        `envconfig:"JUSTBECHO_REDIS_PASSWORD"`
	DB           int           `envconfig:"JUSTBECHO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"JUSTBECHO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"JUSTBECHO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"JUSTBECHO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"JUSTBECHO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"JUSTBECHO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"JUSTBECHO_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"JUSTBECHO_JWT_ISSUER" default:"justbecho"`
	ExpirationMinutes      int    `envconfig:"JUSTBECHO_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"JUSTBECHO_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"JUSTBECHO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"JUSTBECHO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"JUSTBECHO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"JUSTBECHO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"JUSTBECHO_ARGON_KEY_LEN" default:"32"`
}

type RazorpayConfig struct {
	KeyID     string `envconfig:"JUSTBECHO_RAZORPAY_KEY_ID" required:"true"`
	KeySecret string `envconfig:"JUSTBECHO_RAZORPAY_KEY_SECRET" required:"true"`
	Currency  string `envconfig:"JUSTBECHO_RAZORPAY_CURRENCY" default:"INR"`
}

type CheckoutConfig struct {
	LockTTL        time.Duration `envconfig:"JUSTBECHO_CHECKOUT_LOCK_TTL" default:"2m"`
	IdempotencyTTL time.Duration `envconfig:"JUSTBECHO_CHECKOUT_IDEMPOTENCY_TTL" default:"168h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"JUSTBECHO_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"JUSTBECHO_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"JUSTBECHO_GCP_PROJECT_ID"`
	CredentialsJSON string `envconfig:"JUSTBECHO_GCP_CREDENTIALS_JSON"`
}

type PubSubConfig struct {
	OrdersTopic string `envconfig:"JUSTBECHO_PUBSUB_ORDERS_TOPIC" default:"order-events"`
}

type OutboxConfig struct {
	PollInterval time.Duration `envconfig:"JUSTBECHO_OUTBOX_POLL_INTERVAL" default:"5s"`
	BatchSize    int           `envconfig:"JUSTBECHO_OUTBOX_BATCH_SIZE" default:"50"`
}
