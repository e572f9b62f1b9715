package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds all configuration for the price manager.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Log       LogConfig       `mapstructure:"log"`
	MySQL     MySQLConfig     `mapstructure:"mysql"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	Port     string `mapstructure:"port"`
	Env      string `mapstructure:"env"` // local, test, prod
	Currency string `mapstructure:"currency"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type MySQLConfig struct {
	Host       string `mapstructure:"host"`
	Port       string `mapstructure:"port"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	Name       string `mapstructure:"name"`
	MaxRetries int    `mapstructure:"max_retries"`
}

// DSN returns the go-sql-driver/mysql data source name.
func (c MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", c.User, c.Password, c.Host, c.Port, c.Name)
}

type RedisConfig struct {
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	MarkupTTL time.Duration `mapstructure:"markup_ttl"`
}

type KafkaConfig struct {
	Brokers      []string `mapstructure:"brokers"`
	ProductTopic string   `mapstructure:"product_topic"`
	PriceTopic   string   `mapstructure:"price_topic"`
	GroupID      string   `mapstructure:"group_id"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type RateLimitConfig struct {
	Rate      float64       `mapstructure:"rate"`
	Burst     int           `mapstructure:"burst"`
	ExpiresIn time.Duration `mapstructure:"expires_in"`
}

var errNoBrokers = errors.New("kafka brokers cannot be empty")

// LoadConfig reads configuration from a .env file, environment variables and
// defaults, in that order of precedence after the real environment.
func LoadConfig() (*Config, error) {
	v := viper.New()

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, relying on environment variables")
	}

	setDefaults(v)

	// app.port -> APP_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnv(v, "app.name", "app.port", "app.env", "app.currency")
	bindEnv(v, "log.level")
	bindEnv(v, "mysql.host", "mysql.port", "mysql.user", "mysql.password", "mysql.name", "mysql.max_retries")
	bindEnv(v, "redis.addr", "redis.password", "redis.db", "redis.markup_ttl")
	bindEnv(v, "kafka.brokers", "kafka.product_topic", "kafka.price_topic", "kafka.group_id")
	bindEnv(v, "auth.jwt_secret")
	bindEnv(v, "rate_limit.rate", "rate_limit.burst", "rate_limit.expires_in")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "price-manager")
	v.SetDefault("app.port", "8083")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.currency", "USD")

	v.SetDefault("log.level", "info")

	v.SetDefault("mysql.host", "127.0.0.1")
	v.SetDefault("mysql.port", "3306")
	v.SetDefault("mysql.user", "root")
	v.SetDefault("mysql.password", "")
	v.SetDefault("mysql.name", "price-manager-db")
	v.SetDefault("mysql.max_retries", 10)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.markup_ttl", time.Hour)

	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.product_topic", "product-topic")
	v.SetDefault("kafka.price_topic", "price-topic")
	v.SetDefault("kafka.group_id", "price-manager-group")

	v.SetDefault("auth.jwt_secret", "")

	v.SetDefault("rate_limit.rate", 10)
	v.SetDefault("rate_limit.burst", 30)
	v.SetDefault("rate_limit.expires_in", 3*time.Minute)
}

// bindEnv binds several keys at once.
func bindEnv(v *viper.Viper, keys ...string) {
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			log.Warn().Err(err).Msgf("could not bind env var for key %s", key)
		}
	}
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	if len(c.Kafka.Brokers) == 0 || (len(c.Kafka.Brokers) == 1 && c.Kafka.Brokers[0] == "") {
		return errNoBrokers
	}
	if c.Auth.JWTSecret == "" && c.App.Env != "test" {
		return errors.New("auth jwt secret must be set")
	}
	if c.RateLimit.Rate <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit must be positive, got rate=%v burst=%d", c.RateLimit.Rate, c.RateLimit.Burst)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	return nil
}

// ApplyLogLevel sets the global zerolog level from the config.
func (c *Config) ApplyLogLevel() {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}
