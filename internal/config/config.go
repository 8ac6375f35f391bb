package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env     string        `mapstructure:"env"`
	LogFile string        `mapstructure:"log_file"`
	DB      DBConfig      `mapstructure:"db"`
	JWT     JWTConfig     `mapstructure:"jwt"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Ports   PortsConfig   `mapstructure:"ports"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	TimeZone        string        `mapstructure:"timezone"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
	Issuer string        `mapstructure:"issuer"`
}

type CatalogConfig struct {
	LowStockThreshold int `mapstructure:"low_stock_threshold"`
}

// PortsConfig holds one listen port per service. Identity and delivery
// must not share a port.
type PortsConfig struct {
	Identity string `mapstructure:"identity"`
	Catalog  string `mapstructure:"catalog"`
	Orders   string `mapstructure:"orders"`
	Delivery string `mapstructure:"delivery"`
}

// DSNString returns the explicit DSN when set, otherwise one assembled from the parts.
func (c DBConfig) DSNString() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.TimeZone,
	)
}

// envBindings keeps the plain variable names operators already use.
var envBindings = map[string]string{
	"env":                         "APP_ENV",
	"log_file":                    "LOG_FILE",
	"db.dsn":                      "DATABASE_URL",
	"db.host":                     "DB_HOST",
	"db.port":                     "DB_PORT",
	"db.user":                     "DB_USER",
	"db.password":                 "DB_PASSWORD",
	"db.name":                     "DB_NAME",
	"db.timezone":                 "DB_TIMEZONE",
	"db.max_idle_conns":           "DB_MAX_IDLE_CONNS",
	"db.max_open_conns":           "DB_MAX_OPEN_CONNS",
	"db.conn_max_lifetime":        "DB_CONN_MAX_LIFETIME",
	"db.log_level":                "DB_LOG_LEVEL",
	"jwt.secret":                  "JWT_SECRET",
	"jwt.ttl":                     "JWT_TTL",
	"jwt.issuer":                  "JWT_ISSUER",
	"catalog.low_stock_threshold": "LOW_STOCK_THRESHOLD",
	"ports.identity":              "IDENTITY_PORT",
	"ports.catalog":               "CATALOG_PORT",
	"ports.orders":                "ORDERS_PORT",
	"ports.delivery":              "DELIVERY_PORT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.name", "produits_service")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.max_open_conns", 100)
	v.SetDefault("db.conn_max_lifetime", time.Hour)
	v.SetDefault("db.log_level", "warn")
	v.SetDefault("jwt.ttl", 24*time.Hour)
	v.SetDefault("jwt.issuer", "go-shop-ms")
	v.SetDefault("catalog.low_stock_threshold", 10)
	v.SetDefault("ports.identity", "4002")
	v.SetDefault("ports.catalog", "4000")
	v.SetDefault("ports.orders", "4001")
	v.SetDefault("ports.delivery", "4003")
}

// Load reads .env, an optional config.yaml and the environment, in that
// order of increasing precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./deploy/")
	v.AddConfigPath("./")
	v.AddConfigPath("/etc/go-shop-ms/")

	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Ports.Identity == c.Ports.Delivery {
		return fmt.Errorf("identity and delivery services cannot share port %s", c.Ports.Identity)
	}
	if c.JWT.TTL <= 0 {
		return errors.New("jwt ttl must be positive")
	}
	return nil
}

// RequireJWTSecret is checked by the services that sign or verify tokens.
func (c *Config) RequireJWTSecret() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	return nil
}
