package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	CartBackendFile  = "file"
	CartBackendRedis = "redis"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	Cart     CartConfig
	Catalog  CatalogConfig
	Checkout CheckoutConfig
	Gateway  GatewayConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Cart.validate(cfg.Redis); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8000"`
	BaseURL      string `envconfig:"STOREFRONT_BASE_URL"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// PublicBaseURL is the externally reachable origin used for gateway
// success/failure callbacks.
func (a AppConfig) PublicBaseURL() string {
	if a.BaseURL != "" {
		return strings.TrimRight(a.BaseURL, "/")
	}
	return "http://localhost:" + a.Port
}

type DBConfig struct {
	Path        string `envconfig:"STOREFRONT_DB_PATH" default:"db.sqlite"`
	AutoMigrate bool   `envconfig:"STOREFRONT_AUTO_MIGRATE" default:"false"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"1"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"1"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Configured reports whether a Redis endpoint has been supplied at all.
func (r RedisConfig) Configured() bool {
	return r.URL != "" || r.Address != ""
}

type CartConfig struct {
	Backend  string `envconfig:"STOREFRONT_CART_BACKEND" default:"file"`
	FilePath string `envconfig:"STOREFRONT_CART_FILE" default:"cart.json"`
	RedisKey string `envconfig:"STOREFRONT_CART_REDIS_KEY" default:"cart"`
}

func (c CartConfig) validate(redis RedisConfig) error {
	switch c.Backend {
	case CartBackendFile:
		if c.FilePath == "" {
			return fmt.Errorf("cart file path is required for the file backend")
		}
	case CartBackendRedis:
		if !redis.Configured() {
			return fmt.Errorf("redis url or address is required for the redis cart backend")
		}
	default:
		return fmt.Errorf("unknown cart backend %q", c.Backend)
	}
	return nil
}

type CatalogConfig struct {
	BaseURL string        `envconfig:"STOREFRONT_CATALOG_URL" default:"http://localhost:8000"`
	Timeout time.Duration `envconfig:"STOREFRONT_CATALOG_TIMEOUT" default:"10s"`
}

type CheckoutConfig struct {
	OrderServiceURL   string `envconfig:"STOREFRONT_ORDER_SERVICE_URL" default:"http://localhost:8000"`
	PaymentServiceURL string `envconfig:"STOREFRONT_PAYMENT_SERVICE_URL" default:"http://localhost:8000"`

	// HTTPTimeout bounds the SUBMITTING_ORDER and INITIATING_PAYMENT phases.
	// Zero disables the bound and a hung request parks the orchestrator.
	HTTPTimeout time.Duration `envconfig:"STOREFRONT_CHECKOUT_HTTP_TIMEOUT" default:"15s"`
}

type GatewayConfig struct {
	ProductCode string `envconfig:"STOREFRONT_ESEWA_PRODUCT_CODE" default:"EPAYTEST"`
	SecretKey   string `envconfig:"STOREFRONT_ESEWA_SECRET_KEY" default:"8gBm/:&EnhH.1/q"`
	FormURL     string `envconfig:"STOREFRONT_ESEWA_FORM_URL" default:"https://rc-epay.esewa.com.np/api/epay/main/v2/form"`
}
