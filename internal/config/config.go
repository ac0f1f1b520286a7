package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingDestination is the fatal precondition error: without a
// notification destination a run must not start at all.
var ErrMissingDestination = errors.New("notification destination is not set")

type Config struct {
	Addr   string       `mapstructure:"addr"`
	LogDir string       `mapstructure:"log_dir"`
	Source SourceConfig `mapstructure:"source"`
	Flags  FlagsConfig  `mapstructure:"flags"`
	Notify NotifyConfig `mapstructure:"notify"`
	Probe  ProbeConfig  `mapstructure:"probe"`
	API    APIConfig    `mapstructure:"api"`
}

type SourceConfig struct {
	File string `mapstructure:"file"` // local urls document
	URL  string `mapstructure:"url"`  // or a remote one; file wins when both set
}

type FlagsConfig struct {
	Backend     string `mapstructure:"backend"` // fs | memory | postgres
	Dir         string `mapstructure:"dir"`
	DatabaseURL string `mapstructure:"database_url"`
}

type NotifyConfig struct {
	SlackWebhook string   `mapstructure:"slack_webhook"`
	KafkaBrokers []string `mapstructure:"kafka_brokers"`
	KafkaTopic   string   `mapstructure:"kafka_topic"`
}

type ProbeConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

type APIConfig struct {
	Keys  []string `mapstructure:"keys"` // empty = auth disabled (local dev)
	RPM   int      `mapstructure:"rpm"`
	Burst int      `mapstructure:"burst"`
}

// Load reads config from an optional pingwatch.yaml plus environment
// variables (dots become underscores, e.g. NOTIFY_SLACK_WEBHOOK).
func Load() (*Config, error) {
	setDefaults()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("pingwatch")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("addr", "127.0.0.1:8080")
	viper.SetDefault("log_dir", "logs")

	viper.SetDefault("source.file", "urls.json")
	viper.SetDefault("source.url", "")

	viper.SetDefault("flags.backend", "fs")
	viper.SetDefault("flags.dir", "flags")
	viper.SetDefault("flags.database_url", "")

	viper.SetDefault("notify.slack_webhook", "")
	viper.SetDefault("notify.kafka_brokers", []string{})
	viper.SetDefault("notify.kafka_topic", "")

	viper.SetDefault("probe.timeout_seconds", 10)

	viper.SetDefault("api.keys", []string{})
	viper.SetDefault("api.rpm", 120)
	viper.SetDefault("api.burst", 60)
}

// HasDestination reports whether at least one notification transport is
// fully configured.
func (c *Config) HasDestination() bool {
	if c.Notify.SlackWebhook != "" {
		return true
	}
	return len(c.Notify.KafkaBrokers) > 0 && c.Notify.KafkaTopic != ""
}

// Validate checks run preconditions.
func (c *Config) Validate() error {
	if !c.HasDestination() {
		return ErrMissingDestination
	}
	if c.Source.File == "" && c.Source.URL == "" {
		return errors.New("no urls document configured")
	}
	switch c.Flags.Backend {
	case "fs", "memory":
	case "postgres":
		if c.Flags.DatabaseURL == "" {
			return errors.New("flags.backend is postgres but flags.database_url is empty")
		}
	default:
		return fmt.Errorf("unknown flags backend %q", c.Flags.Backend)
	}
	return nil
}

func (c *Config) ProbeTimeout() time.Duration {
	if c.Probe.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Probe.TimeoutSeconds) * time.Second
}
