package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"

	AttemptsBackendStore = "store"
	AttemptsBackendRedis = "redis"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Surge    SurgeConfig    `yaml:"surge"`
	Wallet   WalletConfig   `yaml:"wallet"`
	Flights  FlightsConfig  `yaml:"flights"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address        string   `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	SwaggerDir     string   `yaml:"swagger_dir" env:"HTTP_SWAGGER_DIR"`
	CORSOrigins    []string `yaml:"cors_origins" env:"HTTP_CORS_ORIGINS" env-separator:","`
	RateLimitRPS   float64  `yaml:"rate_limit_rps" env:"HTTP_RATE_LIMIT_RPS" env-default:"5"`
	RateLimitBurst int      `yaml:"rate_limit_burst" env:"HTTP_RATE_LIMIT_BURST" env-default:"10"`
}

type GRPCConfig struct {
	Address string `yaml:"address" env:"GRPC_ADDRESS" env-default:":9090"`
}

type AuthConfig struct {
	// Empty secret disables bearer auth; the user is then taken from X-User-ID.
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

type StorageConfig struct {
	Driver        string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"`
	MigrationsDir string `yaml:"migrations_dir" env:"STORAGE_MIGRATIONS_DIR" env-default:"migrations"`
	SeedFlights   bool   `yaml:"seed_flights" env:"STORAGE_SEED_FLIGHTS"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	Name     string `yaml:"name" env:"DB_NAME" env-default:"skyfare"`
	SSLMode  string `yaml:"ssl_mode" env:"DB_SSL_MODE" env-default:"disable"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// URL is the form expected by golang-migrate and lib/pq.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s", d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	BookingTopic       string   `yaml:"booking_topic" env:"KAFKA_BOOKING_TOPIC" env-default:"bookings"`
	NotificationsTopic string   `yaml:"notifications_topic" env:"KAFKA_NOTIFICATIONS_TOPIC"`
	GroupID            string   `yaml:"group_id" env:"KAFKA_GROUP_ID" env-default:"skyfare-worker"`
}

type SurgeConfig struct {
	Threshold       int    `yaml:"threshold" env:"SURGE_THRESHOLD" env-default:"3"`
	WindowMinutes   int    `yaml:"window_minutes" env:"SURGE_WINDOW_MINUTES" env-default:"5"`
	Percent         int64  `yaml:"percent" env:"SURGE_PERCENT" env-default:"10"`
	ResetMinutes    int    `yaml:"reset_minutes" env:"SURGE_RESET_MINUTES" env-default:"10"`
	AttemptsBackend string `yaml:"attempts_backend" env:"SURGE_ATTEMPTS_BACKEND" env-default:"store"`
}

func (s SurgeConfig) Window() time.Duration { return time.Duration(s.WindowMinutes) * time.Minute }

func (s SurgeConfig) Reset() time.Duration { return time.Duration(s.ResetMinutes) * time.Minute }

type WalletConfig struct {
	DefaultBalance int64 `yaml:"default_balance" env:"WALLET_DEFAULT_BALANCE" env-default:"5000000"`
}

type FlightsConfig struct {
	CacheTTLSeconds int `yaml:"cache_ttl_seconds" env:"FLIGHTS_CACHE_TTL_SECONDS" env-default:"60"`
	SearchLimit     int `yaml:"search_limit" env:"FLIGHTS_SEARCH_LIMIT" env-default:"10"`
}

func (f FlightsConfig) CacheTTL() time.Duration { return time.Duration(f.CacheTTLSeconds) * time.Second }

type WorkerConfig struct {
	PurgeIntervalSeconds int `yaml:"purge_interval_seconds" env:"WORKER_PURGE_INTERVAL_SECONDS" env-default:"60"`
	// Rendered tickets are written here by the notification consumer; empty
	// disables writing.
	TicketOutboxDir string `yaml:"ticket_outbox_dir" env:"WORKER_TICKET_OUTBOX_DIR"`
	// Set when cmd/worker is deployed so the API process does not run its
	// own purge loop.
	DisableEmbeddedPurge bool `yaml:"disable_embedded_purge" env:"WORKER_DISABLE_EMBEDDED_PURGE"`
}

func (w WorkerConfig) PurgeInterval() time.Duration {
	return time.Duration(w.PurgeIntervalSeconds) * time.Second
}

// LoadConfig reads the YAML file at path (a missing file is allowed), loads
// a .env file from the working directory if present and then applies
// environment overrides and defaults.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverPostgres:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Surge.AttemptsBackend {
	case AttemptsBackendStore:
	case AttemptsBackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("surge.attempts_backend=redis requires redis.addr")
		}
	default:
		return fmt.Errorf("unknown attempts backend %q", c.Surge.AttemptsBackend)
	}
	if c.Surge.Threshold <= 0 {
		return errors.New("surge.threshold must be positive")
	}
	if c.Surge.WindowMinutes <= 0 {
		return errors.New("surge.window_minutes must be positive")
	}
	if c.Surge.Percent < 0 {
		return errors.New("surge.percent must not be negative")
	}
	if c.Surge.ResetMinutes < c.Surge.WindowMinutes {
		return errors.New("surge.reset_minutes must be at least surge.window_minutes")
	}
	if c.Wallet.DefaultBalance < 0 {
		return errors.New("wallet.default_balance must not be negative")
	}
	if c.Worker.PurgeIntervalSeconds <= 0 {
		return errors.New("worker.purge_interval_seconds must be positive")
	}
	return nil
}
