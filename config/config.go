package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string         `mapstructure:"port"`
	JWTSecret   string         `mapstructure:"jwt_secret"`
	FrontendURL string         `mapstructure:"frontend_url"`
	CorsOrigin  string         `mapstructure:"cors_origin"`
	LogLevel    string         `mapstructure:"log_level"`
	MySQL       MySQLConfig    `mapstructure:"mysql"`
	Mongo       MongoConfig    `mapstructure:"mongo"`
	Redis       RedisConfig    `mapstructure:"redis"`
	Mail        MailConfig     `mapstructure:"mail"`
	Queue       QueueConfig    `mapstructure:"queue"`
	Reminder    ReminderConfig `mapstructure:"reminder"`
}

type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type QueueConfig struct {
	// Backend is "memory" or "redis".
	Backend        string        `mapstructure:"backend"`
	Size           int           `mapstructure:"size"`
	Workers        int           `mapstructure:"workers"`
	EnqueueTimeout time.Duration `mapstructure:"enqueue_timeout"`
	RedisKey       string        `mapstructure:"redis_key"`
}

type ReminderConfig struct {
	DailySchedule string        `mapstructure:"daily_schedule"`
	RoundInterval time.Duration `mapstructure:"round_interval"`
	SelfSchedule  string        `mapstructure:"self_schedule"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "5000")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("frontend_url", "http://localhost:3000")
	v.SetDefault("cors_origin", "*")
	v.SetDefault("log_level", "info")
	v.SetDefault("mysql.dsn", "")
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "reminder_app")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("mail.host", "")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "Reminder App <no-reply@localhost>")
	v.SetDefault("queue.backend", "memory")
	v.SetDefault("queue.size", 500)
	v.SetDefault("queue.workers", 4)
	v.SetDefault("queue.enqueue_timeout", 2*time.Second)
	v.SetDefault("queue.redis_key", "reminder:mail_queue")
	v.SetDefault("reminder.daily_schedule", "30 11 * * *")
	v.SetDefault("reminder.round_interval", 3*time.Minute)
	v.SetDefault("reminder.self_schedule", "* * * * *")
}

// LoadConfig reads configPath when it exists and lets environment variables
// override any key, e.g. MYSQL_DSN for mysql.dsn.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				var notFound viper.ConfigFileNotFoundError
				if !errors.As(err, &notFound) {
					return nil, fmt.Errorf("error reading config file: %w", err)
				}
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// ValidateServer checks the settings the HTTP server cannot start without.
func (c *Config) ValidateServer() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret is required"))
	}
	if c.MySQL.DSN == "" {
		errs = append(errs, errors.New("mysql.dsn is required"))
	}
	if c.Queue.Backend != "memory" && c.Queue.Backend != "redis" {
		errs = append(errs, fmt.Errorf("queue.backend must be memory or redis, got %q", c.Queue.Backend))
	}
	if c.Queue.Workers < 1 {
		errs = append(errs, errors.New("queue.workers must be at least 1"))
	}
	return errors.Join(errs...)
}
