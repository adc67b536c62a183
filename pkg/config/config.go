package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "PRICEINDEX"

	EnvDBDSN  = "PRICEINDEX_DB_DSN"
	EnvDBHost = "PRICEINDEX_DB_HOST"
	EnvDBUser = "PRICEINDEX_DB_USER"
	EnvDBName = "PRICEINDEX_DB_NAME"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	Scope   ScopeConfig
	Index   IndexConfig
	Watcher WatcherConfig
	Ops     OpsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PRICEINDEX_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"PRICEINDEX_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PRICEINDEX_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PRICEINDEX_DB_DSN"`
	Driver string `envconfig:"PRICEINDEX_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PRICEINDEX_DB_HOST"`
	LegacyPort     int    `envconfig:"PRICEINDEX_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PRICEINDEX_DB_USER"`
	LegacyPassword string `envconfig:"PRICEINDEX_DB_PASSWORD"`
	LegacyName     string `envconfig:"PRICEINDEX_DB_NAME"`
	LegacySSLMode  string `envconfig:"PRICEINDEX_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PRICEINDEX_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PRICEINDEX_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PRICEINDEX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PRICEINDEX_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"PRICEINDEX_AUTO_MIGRATE" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PRICEINDEX_REDIS_URL"`
	Address      string        `envconfig:"PRICEINDEX_REDIS_ADDR"`
	Password     string        `envconfig:"PRICEINDEX_REDIS_PASSWORD"`
	DB           int           `envconfig:"PRICEINDEX_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PRICEINDEX_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PRICEINDEX_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PRICEINDEX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PRICEINDEX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PRICEINDEX_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// ScopeConfig mirrors the catalog price-scope settings. It is read once per
// reindex run and handed to the pipeline as a value, never consulted again
// mid-run.
type ScopeConfig struct {
	PriceScope     string `envconfig:"PRICEINDEX_PRICE_SCOPE" default:"global" validate:"oneof=global website store"`
	ShowOutOfStock bool   `envconfig:"PRICEINDEX_SHOW_OUT_OF_STOCK" default:"false"`
	DimensionMode  string `envconfig:"PRICEINDEX_DIMENSION_MODE" default:"none" validate:"oneof=none store customer_group store_and_customer_group"`
	TaxEnabled     bool   `envconfig:"PRICEINDEX_TAX_ENABLED" default:"true"`
}

type IndexConfig struct {
	BaseCurrency string `envconfig:"PRICEINDEX_BASE_CURRENCY" default:"USD" validate:"len=3"`
	BatchSize    int    `envconfig:"PRICEINDEX_BATCH_SIZE" default:"500" validate:"gt=0"`
}

type WatcherConfig struct {
	PollInterval time.Duration `envconfig:"PRICEINDEX_WATCH_POLL_INTERVAL" default:"30s"`
	LockTTL      time.Duration `envconfig:"PRICEINDEX_WATCH_LOCK_TTL" default:"10m"`
}

type OpsConfig struct {
	Port string `envconfig:"PRICEINDEX_OPS_PORT" default:"8090"`
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
