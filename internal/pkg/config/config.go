// internal/pkg/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const defaultConfigFile = "configs/booking-service.yaml"

// Config is the full runtime configuration of the booking service.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Log      LogConfig      `yaml:"log"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Tracing  TracingConfig  `yaml:"tracing"`
	Nacos    NacosConfig    `yaml:"nacos"`
	Services ServicesConfig `yaml:"services"`
}

type ServiceConfig struct {
	Name                 string        `yaml:"name"`
	Port                 int           `yaml:"port"`
	ProcessingTimeout    time.Duration `yaml:"processing_timeout"`
	CallTimeout          time.Duration `yaml:"call_timeout"`
	CompensationTimeout  time.Duration `yaml:"compensation_timeout"`
	ShutdownTimeout      time.Duration `yaml:"shutdown_timeout"`
	DefaultPaymentMethod string        `yaml:"default_payment_method"`
	DefaultCurrency      string        `yaml:"default_currency"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console | json
}

type MySQLConfig struct {
	DSN             string        `yaml:"dsn"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	AutoMigrate     bool          `yaml:"auto_migrate"`
}

// RedisConfig with no addrs falls back to the in-process booking code generator.
type RedisConfig struct {
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
	DB       int      `yaml:"db"`
}

func (c RedisConfig) Enabled() bool { return len(c.Addrs) > 0 }

type KafkaConfig struct {
	Brokers              []string `yaml:"brokers"`
	BookingEventsTopic   string   `yaml:"booking_events_topic"`
	PaymentStatusTopic   string   `yaml:"payment_status_topic"`
	PaymentStatusGroupID string   `yaml:"payment_status_group_id"`
}

func (c KafkaConfig) Enabled() bool { return len(c.Brokers) > 0 }

type TracingConfig struct {
	JaegerEndpoint string `yaml:"jaeger_endpoint"`
}

type NacosConfig struct {
	ServerAddrs string `yaml:"server_addrs"`
	Namespace   string `yaml:"namespace"`
	Group       string `yaml:"group"`
}

func (c NacosConfig) Enabled() bool { return c.ServerAddrs != "" }

// Endpoint describes one downstream service. Name is the service name used for
// discovery; URL is the static fallback.
type Endpoint struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type ServicesConfig struct {
	Flight      Endpoint `yaml:"flight"`
	Hotel       Endpoint `yaml:"hotel"`
	Train       Endpoint `yaml:"train"`
	LocalTravel Endpoint `yaml:"local_travel"`
	Payment     Endpoint `yaml:"payment"`
}

// Default returns the configuration used when no file or env override is present.
func Default() Config {
	return Config{
		Service: ServiceConfig{
			Name:                 "booking-service",
			Port:                 3004,
			ProcessingTimeout:    30 * time.Second,
			CallTimeout:          5 * time.Second,
			CompensationTimeout:  10 * time.Second,
			ShutdownTimeout:      10 * time.Second,
			DefaultPaymentMethod: "credit_card",
			DefaultCurrency:      "IDR",
		},
		Log: LogConfig{Level: "info", Format: "console"},
		MySQL: MySQLConfig{
			Host:            "localhost",
			Port:            3306,
			User:            "root",
			Database:        "travel_booking",
			MaxOpenConns:    20,
			MaxIdleConns:    10,
			ConnMaxLifetime: time.Hour,
		},
		Kafka: KafkaConfig{
			BookingEventsTopic:   "booking-events",
			PaymentStatusTopic:   "payment-status",
			PaymentStatusGroupID: "booking-service-payment-status",
		},
		Nacos: NacosConfig{Group: "DEFAULT_GROUP"},
		Services: ServicesConfig{
			Flight:      Endpoint{Name: "flight-service", URL: "http://localhost:3002"},
			Hotel:       Endpoint{Name: "hotel-service", URL: "http://localhost:3003"},
			Train:       Endpoint{Name: "train-service", URL: "http://localhost:3007"},
			LocalTravel: Endpoint{Name: "local-travel-service", URL: "http://localhost:3006"},
			Payment:     Endpoint{Name: "payment-service", URL: "http://localhost:3005"},
		},
	}
}

// Load reads the YAML file named by CONFIG_FILE (or the default path), applies
// environment overrides and validates the result. A missing file is not an error.
func Load() (*Config, error) {
	return LoadFile(getEnv("CONFIG_FILE", defaultConfigFile))
}

func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config file %s", path)
		}
	case os.IsNotExist(err):
	default:
		return nil, errors.Wrapf(err, "read config file %s", path)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Service.Name = getEnv("SERVICE_NAME", cfg.Service.Name)
	cfg.Service.Port = getEnvInt("PORT", cfg.Service.Port)
	cfg.Service.ProcessingTimeout = getEnvDuration("PROCESSING_TIMEOUT", cfg.Service.ProcessingTimeout)
	cfg.Service.CallTimeout = getEnvDuration("CALL_TIMEOUT", cfg.Service.CallTimeout)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)

	cfg.MySQL.DSN = getEnv("MYSQL_DSN", cfg.MySQL.DSN)
	cfg.MySQL.Host = getEnv("MYSQL_HOST", cfg.MySQL.Host)
	cfg.MySQL.Port = getEnvInt("MYSQL_PORT", cfg.MySQL.Port)
	cfg.MySQL.User = getEnv("MYSQL_USER", cfg.MySQL.User)
	cfg.MySQL.Password = getEnv("MYSQL_PASSWORD", cfg.MySQL.Password)
	cfg.MySQL.Database = getEnv("MYSQL_DATABASE", cfg.MySQL.Database)

	cfg.Redis.Addrs = getEnvList("REDIS_ADDRS", cfg.Redis.Addrs)
	cfg.Kafka.Brokers = getEnvList("KAFKA_BROKERS", cfg.Kafka.Brokers)
	cfg.Tracing.JaegerEndpoint = getEnv("JAEGER_ENDPOINT", cfg.Tracing.JaegerEndpoint)

	cfg.Nacos.ServerAddrs = getEnv("NACOS_SERVER_ADDRS", cfg.Nacos.ServerAddrs)
	cfg.Nacos.Namespace = getEnv("NACOS_NAMESPACE", cfg.Nacos.Namespace)
	cfg.Nacos.Group = getEnv("NACOS_GROUP", cfg.Nacos.Group)

	cfg.Services.Flight.URL = getEnv("FLIGHT_SERVICE_URL", cfg.Services.Flight.URL)
	cfg.Services.Hotel.URL = getEnv("HOTEL_SERVICE_URL", cfg.Services.Hotel.URL)
	cfg.Services.Train.URL = getEnv("TRAIN_SERVICE_URL", cfg.Services.Train.URL)
	cfg.Services.LocalTravel.URL = getEnv("LOCAL_TRAVEL_SERVICE_URL", cfg.Services.LocalTravel.URL)
	cfg.Services.Payment.URL = getEnv("PAYMENT_SERVICE_URL", cfg.Services.Payment.URL)
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if c.Service.Port <= 0 {
		return errors.Errorf("invalid service port %d", c.Service.Port)
	}
	if c.Service.ProcessingTimeout <= 0 || c.Service.CallTimeout <= 0 || c.Service.CompensationTimeout <= 0 {
		return errors.New("service timeouts must be positive")
	}
	endpoints := map[string]Endpoint{
		"flight":       c.Services.Flight,
		"hotel":        c.Services.Hotel,
		"train":        c.Services.Train,
		"local_travel": c.Services.LocalTravel,
		"payment":      c.Services.Payment,
	}
	for name, ep := range endpoints {
		if ep.URL == "" {
			return errors.Errorf("services.%s.url is required", name)
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
