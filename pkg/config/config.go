package config

import (
	"fmt"
	"net/url"
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
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Commerce      CommerceConfig
	ImageHost     ImageHostConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"OPENSHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"OPENSHOP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"OPENSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"OPENSHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"OPENSHOP_DB_DSN"`
	Driver string `envconfig:"OPENSHOP_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"OPENSHOP_DB_HOST"`
	Port     int    `envconfig:"OPENSHOP_DB_PORT" default:"5432"`
	User     string `envconfig:"OPENSHOP_DB_USER"`
	Password string `envconfig:"OPENSHOP_DB_PASSWORD"`
	Name     string `envconfig:"OPENSHOP_DB_NAME"`
	SSLMode  string `envconfig:"OPENSHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"OPENSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"OPENSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"OPENSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"OPENSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"OPENSHOP_REDIS_URL"`
	Address      string        `envconfig:"OPENSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"OPENSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"OPENSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"OPENSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"OPENSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"OPENSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"OPENSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"OPENSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"OPENSHOP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"OPENSHOP_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"OPENSHOP_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"OPENSHOP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"OPENSHOP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"OPENSHOP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"OPENSHOP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"OPENSHOP_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"OPENSHOP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"OPENSHOP_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"OPENSHOP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"OPENSHOP_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"OPENSHOP_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"OPENSHOP_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"OPENSHOP_AUTO_MIGRATE" default:"false"`
}

// CommerceConfig holds the external payment provider credentials.
type CommerceConfig struct {
	APIKey        string        `envconfig:"OPENSHOP_COMMERCE_API_KEY"`
	WebhookSecret string        `envconfig:"OPENSHOP_COMMERCE_WEBHOOK_SECRET"`
	BaseURL       string        `envconfig:"OPENSHOP_COMMERCE_BASE_URL" default:"https://api.commerce.coinbase.com"`
	Timeout       time.Duration `envconfig:"OPENSHOP_COMMERCE_TIMEOUT" default:"15s"`
}

// ImageHostConfig holds the external media storage credentials.
type ImageHostConfig struct {
	CloudName string        `envconfig:"OPENSHOP_IMAGEHOST_CLOUD_NAME"`
	APIKey    string        `envconfig:"OPENSHOP_IMAGEHOST_API_KEY"`
	APISecret string        `envconfig:"OPENSHOP_IMAGEHOST_API_SECRET"`
	Timeout   time.Duration `envconfig:"OPENSHOP_IMAGEHOST_TIMEOUT" default:"30s"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		"OPENSHOP_DB_HOST": db.Host,
		"OPENSHOP_DB_USER": db.User,
		"OPENSHOP_DB_NAME": db.Name,
	}
	for _, key := range []string{"OPENSHOP_DB_HOST", "OPENSHOP_DB_USER", "OPENSHOP_DB_NAME"} {
		if values[key] == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either OPENSHOP_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
