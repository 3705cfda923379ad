package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "SHOPHUB_CONFIG_FILE"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	OTLP     OTLPConfig     `mapstructure:"otlp"`
	Log      LogConfig      `mapstructure:"log"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Checkout CheckoutConfig `mapstructure:"checkout"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type OTLPConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
	Environment string `mapstructure:"environment"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type CatalogConfig struct {
	URL string `mapstructure:"url"`
	// Timeout of 0 means the fetch waits for the remote side indefinitely
	Timeout         time.Duration `mapstructure:"timeout"`
	DefaultMaxPrice float64       `mapstructure:"default_max_price"`
}

type StorageConfig struct {
	Driver     string      `mapstructure:"driver"`
	SQLitePath string      `mapstructure:"sqlite_path"`
	CartKey    string      `mapstructure:"cart_key"`
	SessionKey string      `mapstructure:"session_key"`
	Redis      RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	User        string        `mapstructure:"user"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	KeyPrefix   string        `mapstructure:"key_prefix"`
	MaxRetries  int           `mapstructure:"max_retries"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type AuthConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	UserID   int64  `mapstructure:"user_id"`
	Email    string `mapstructure:"email"`
}

type CheckoutConfig struct {
	Delay time.Duration `mapstructure:"delay"`
}

// setting binds one config key to its default and environment variable
type setting struct {
	key    string
	env    string
	defVal any
}

var settings = []setting{
	{"server.host", "SERVER_HOST", "0.0.0.0"},
	{"server.port", "SERVER_PORT", "8080"},
	{"server.read_timeout", "HTTP_READ_TIMEOUT", 5 * time.Second},
	{"server.write_timeout", "HTTP_WRITE_TIMEOUT", 10 * time.Second},
	{"server.idle_timeout", "HTTP_IDLE_TIMEOUT", 60 * time.Second},
	{"server.shutdown_timeout", "SHUTDOWN_TIMEOUT", 10 * time.Second},

	{"otlp.enabled", "OTEL_ENABLED", false},
	{"otlp.endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"},
	{"otlp.service_name", "OTEL_SERVICE_NAME", "shophub-api"},
	{"otlp.environment", "OTEL_ENVIRONMENT", "development"},

	{"log.level", "LOG_LEVEL", "debug"},

	{"catalog.url", "CATALOG_URL", "https://fakestoreapi.com/products"},
	{"catalog.timeout", "CATALOG_TIMEOUT", time.Duration(0)},
	{"catalog.default_max_price", "FILTER_DEFAULT_MAX_PRICE", 1000.0},

	{"storage.driver", "STORAGE_DRIVER", "sqlite"},
	{"storage.sqlite_path", "STORAGE_SQLITE_PATH", "shophub.db"},
	{"storage.cart_key", "STORAGE_CART_KEY", "shopHub-cart"},
	{"storage.session_key", "STORAGE_SESSION_KEY", "isAuthenticated"},
	{"storage.redis.addr", "REDIS_ADDR", "localhost:6379"},
	{"storage.redis.user", "REDIS_USER", ""},
	{"storage.redis.password", "REDIS_PASSWORD", ""},
	{"storage.redis.db", "REDIS_DB", 0},
	{"storage.redis.key_prefix", "REDIS_KEY_PREFIX", "shophub"},
	{"storage.redis.max_retries", "REDIS_MAX_RETRIES", 3},
	{"storage.redis.dial_timeout", "REDIS_DIAL_TIMEOUT", 5 * time.Second},
	{"storage.redis.timeout", "REDIS_TIMEOUT", 3 * time.Second},

	{"auth.username", "AUTH_USERNAME", "admin"},
	{"auth.password", "AUTH_PASSWORD", "password"},
	{"auth.user_id", "AUTH_USER_ID", 1},
	{"auth.email", "AUTH_EMAIL", "admin@example.com"},

	{"checkout.delay", "CHECKOUT_DELAY", 2 * time.Second},
}

// LoadConfig loads configuration from defaults, an optional YAML file and
// environment variables, in increasing order of precedence.
// args are the command line arguments without the program name.
func LoadConfig(args []string) (*Config, error) {
	v := viper.New()

	for _, s := range settings {
		v.SetDefault(s.key, s.defVal)
		if err := v.BindEnv(s.key, s.env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", s.env, err)
		}
	}

	path, err := configFilePath(args)
	if err != nil {
		return nil, err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return &cfg, nil
}

func configFilePath(args []string) (string, error) {
	flags := pflag.NewFlagSet("shophub-api", pflag.ContinueOnError)
	path := flags.String("config", "", "path to a YAML config file")
	if err := flags.Parse(args); err != nil {
		return "", fmt.Errorf("failed to parse flags: %w", err)
	}
	if env, ok := os.LookupEnv(configFileEnvName); ok && *path == "" {
		return env, nil
	}
	return *path, nil
}

// Addr is the listen address of the HTTP server
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// String renders the loaded config with secrets masked
func (c Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "server=%s storage=%s catalog=%s otlp_enabled=%t otlp_endpoint=%s log_level=%s ",
		c.Server.Addr(), c.Storage.Driver, c.Catalog.URL, c.OTLP.Enabled, c.OTLP.Endpoint, c.Log.Level)
	fmt.Fprintf(&b, "auth_user=%s auth_password=%s checkout_delay=%s",
		c.Auth.Username, mask(c.Auth.Password), c.Checkout.Delay)
	return b.String()
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "***"
}
