package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Gateway      GatewayConfig
	Checkout     CheckoutConfig
	RateLimit    RateLimitConfig
	Sweeper      SweeperConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Gateway.validate(cfg.App); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LIVEDEALS_APP_ENV" required:"true"`
	Port         string `envconfig:"LIVEDEALS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LIVEDEALS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LIVEDEALS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LIVEDEALS_DB_DSN"`
	Driver string `envconfig:"LIVEDEALS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LIVEDEALS_DB_HOST"`
	LegacyPort     int    `envconfig:"LIVEDEALS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LIVEDEALS_DB_USER"`
	LegacyPassword string `envconfig:"LIVEDEALS_DB_PASSWORD"`
	LegacyName     string `envconfig:"LIVEDEALS_DB_NAME"`
	LegacySSLMode  string `envconfig:"LIVEDEALS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LIVEDEALS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LIVEDEALS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LIVEDEALS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LIVEDEALS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LIVEDEALS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LIVEDEALS_REDIS_ADDR"`
	Password     string        `envconfig:"LIVEDEALS_REDIS_PASSWORD"`
	DB           int           `envconfig:"LIVEDEALS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LIVEDEALS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LIVEDEALS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LIVEDEALS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LIVEDEALS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LIVEDEALS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"LIVEDEALS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"LIVEDEALS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"LIVEDEALS_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// GatewayConfig describes the split-payment gateway integration.
type GatewayConfig struct {
	WebhookSecret string `envconfig:"LIVEDEALS_GATEWAY_WEBHOOK_SECRET" required:"true"`
	NotifyURL     string `envconfig:"LIVEDEALS_GATEWAY_NOTIFY_URL" required:"true"`
	Currency      string `envconfig:"LIVEDEALS_GATEWAY_CURRENCY" default:"INR"`

	// AllowSimulationBypass accepts the SIMULATION_BYPASS webhook signature.
	// Local/demo escape hatch only; Load rejects it in prod.
	AllowSimulationBypass bool `envconfig:"LIVEDEALS_GATEWAY_ALLOW_SIMULATION_BYPASS" default:"false"`
}

func (g GatewayConfig) validate(app AppConfig) error {
	if g.AllowSimulationBypass && app.IsProd() {
		return fmt.Errorf("%s must not be enabled in production", EnvGatewayAllowBypass)
	}
	return nil
}

type CheckoutConfig struct {
	PendingPaymentTTL     time.Duration `envconfig:"LIVEDEALS_CHECKOUT_PENDING_TTL" default:"5m"`
	DefaultCommissionRate float64       `envconfig:"LIVEDEALS_CHECKOUT_DEFAULT_COMMISSION_RATE" default:"15"`
}

type RateLimitConfig struct {
	CheckoutWindow     time.Duration `envconfig:"LIVEDEALS_RL_CHECKOUT_WINDOW" default:"1m"`
	CheckoutIPLimit    int           `envconfig:"LIVEDEALS_RL_CHECKOUT_IP_LIMIT" default:"30"`
	CheckoutEmailLimit int           `envconfig:"LIVEDEALS_RL_CHECKOUT_EMAIL_LIMIT" default:"10"`
}

type SweeperConfig struct {
	LockTTL time.Duration `envconfig:"LIVEDEALS_SWEEPER_LOCK_TTL" default:"10m"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"LIVEDEALS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"LIVEDEALS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
