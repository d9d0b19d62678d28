package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// EnvPrefix namespaces every tillpoint environment variable.
const EnvPrefix = "TILLPOINT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	Backend       BackendConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Tax           TaxConfig
	Cart          CartConfig
	AuthRateLimit AuthRateLimitConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Backend.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Tax.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TILLPOINT_APP_ENV" required:"true"`
	Port         string `envconfig:"TILLPOINT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TILLPOINT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TILLPOINT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig points at the hosted database/auth service that owns all
// durable state.
type BackendConfig struct {
	URL            string        `envconfig:"TILLPOINT_BACKEND_URL" required:"true"`
	AnonKey        string        `envconfig:"TILLPOINT_BACKEND_ANON_KEY" required:"true"`
	ServiceKey     string        `envconfig:"TILLPOINT_BACKEND_SERVICE_KEY"`
	Timeout        time.Duration `envconfig:"TILLPOINT_BACKEND_TIMEOUT" default:"15s"`
	ReadRetries    int           `envconfig:"TILLPOINT_BACKEND_READ_RETRIES" default:"3"`
	ReadRetryDelay time.Duration `envconfig:"TILLPOINT_BACKEND_READ_RETRY_DELAY" default:"200ms"`
}

func (b BackendConfig) validate() error {
	parsed, err := url.Parse(b.URL)
	if err != nil {
		return fmt.Errorf("parsing backend url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("backend url must be http or https, got %q", b.URL)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"TILLPOINT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TILLPOINT_REDIS_ADDR"`
	Password     string        `envconfig:"TILLPOINT_REDIS_PASSWORD"`
	DB           int           `envconfig:"TILLPOINT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TILLPOINT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TILLPOINT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TILLPOINT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TILLPOINT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TILLPOINT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig verifies access tokens minted by the hosted auth provider.
type JWTConfig struct {
	Secret   string `envconfig:"TILLPOINT_JWT_SECRET" required:"true"`
	Issuer   string `envconfig:"TILLPOINT_JWT_ISSUER"`
	Audience string `envconfig:"TILLPOINT_JWT_AUDIENCE" default:"authenticated"`
}

// TaxConfig fixes the tax rate applied to every cart session.
type TaxConfig struct {
	Rate decimal.Decimal `envconfig:"TILLPOINT_TAX_RATE" default:"0.055"`
}

func (t TaxConfig) validate() error {
	if t.Rate.IsNegative() {
		return fmt.Errorf("tax rate must be non-negative, got %s", t.Rate)
	}
	return nil
}

// CartConfig controls the in-process session cart registry.
type CartConfig struct {
	SessionTTL    time.Duration `envconfig:"TILLPOINT_CART_SESSION_TTL" default:"2h"`
	SweepInterval time.Duration `envconfig:"TILLPOINT_CART_SWEEP_INTERVAL" default:"5m"`
}

type AuthRateLimitConfig struct {
	LoginWindow      time.Duration `envconfig:"TILLPOINT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit  int           `envconfig:"TILLPOINT_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit     int           `envconfig:"TILLPOINT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow     time.Duration `envconfig:"TILLPOINT_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"TILLPOINT_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"TILLPOINT_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"TILLPOINT_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}
