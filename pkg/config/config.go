package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable the app reads.
const EnvPrefix = "SLOPCHEST"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	JWT          JWTConfig
	PIN          PINConfig
	FeatureFlags FeatureFlagsConfig
	Bootstrap    BootstrapConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SLOPCHEST_APP_ENV" default:"dev"`
	Port         string `envconfig:"SLOPCHEST_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SLOPCHEST_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"SLOPCHEST_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"SLOPCHEST_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// DBConfig selects the datastore. The shipboard terminal runs sqlite on
// local disk; postgres is available for a shore-side deployment.
type DBConfig struct {
	Driver string `envconfig:"SLOPCHEST_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"SLOPCHEST_DB_DSN" default:"file:slopchest.db?_pragma=foreign_keys(1)"`

	MaxOpenConns    int           `envconfig:"SLOPCHEST_DB_MAX_OPEN_CONNS" default:"1"`
	MaxIdleConns    int           `envconfig:"SLOPCHEST_DB_MAX_IDLE_CONNS" default:"1"`
	ConnMaxLifetime time.Duration `envconfig:"SLOPCHEST_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SLOPCHEST_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d DBConfig) validate() error {
	switch strings.ToLower(d.Driver) {
	case DBDriverSQLite, DBDriverPostgres:
	default:
		return fmt.Errorf("unsupported db driver %q", d.Driver)
	}
	if d.DSN == "" {
		return fmt.Errorf("database DSN is required")
	}
	return nil
}

type JWTConfig struct {
	Secret            string `envconfig:"SLOPCHEST_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SLOPCHEST_JWT_ISSUER" default:"slopchest"`
	ExpirationMinutes int    `envconfig:"SLOPCHEST_JWT_EXPIRATION_MINUTES" default:"720"`
}

// PINConfig carries the Argon2id parameters for cashier PIN hashing.
type PINConfig struct {
	ArgonMemoryKB    int `envconfig:"SLOPCHEST_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SLOPCHEST_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SLOPCHEST_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SLOPCHEST_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SLOPCHEST_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SLOPCHEST_FEATURE_AUTO_MIGRATE" default:"true"`
}

// BootstrapConfig seeds the first admin account on an empty user table.
// Seeding is skipped when the PIN is unset.
type BootstrapConfig struct {
	AdminName string `envconfig:"SLOPCHEST_BOOTSTRAP_ADMIN_NAME" default:"admin"`
	AdminPIN  string `envconfig:"SLOPCHEST_BOOTSTRAP_ADMIN_PIN"`
}
