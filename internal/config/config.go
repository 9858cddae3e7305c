package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// EnvPrefix namespaces every environment variable, e.g. STOREFRONT_HTTP_ADDR.
const EnvPrefix = "STOREFRONT"

type Config struct {
	HTTPAddr    string
	LogLevel    string
	CatalogPath string // empty means the embedded menu
	WebDir      string
	TaxRate     decimal.Decimal
	Countries   []string
	Kafka       KafkaConfig
	SMTP        SMTPConfig
}

type KafkaConfig struct {
	Brokers []string // empty disables event publishing
	Topic   string
	GroupID string
}

// Enabled reports whether brokers are configured.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type SMTPConfig struct {
	Host     string
	Port     string
	From     string
	NotifyTo string
}

func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.NotifyTo != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("catalog_path", "")
	v.SetDefault("web_dir", "")
	v.SetDefault("tax_rate", "0.10")
	v.SetDefault("countries", "Japan,Future,USA,Other")
	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.topic", "storefront-orders")
	v.SetDefault("kafka.group_id", "storefront-notifier")
	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", "1025")
	v.SetDefault("smtp.from", "orders@storefront.local")
	v.SetDefault("smtp.notify_to", "")
}

// Load reads configuration from the environment and, when path is set, a config file.
// Environment variables win over the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	rate, err := decimal.NewFromString(strings.TrimSpace(v.GetString("tax_rate")))
	if err != nil {
		return nil, fmt.Errorf("%w: tax_rate: %v", ErrInvalidConfig, err)
	}
	if rate.IsNegative() {
		return nil, fmt.Errorf("%w: tax_rate must not be negative", ErrInvalidConfig)
	}

	cfg := &Config{
		HTTPAddr:    v.GetString("http_addr"),
		LogLevel:    v.GetString("log_level"),
		CatalogPath: v.GetString("catalog_path"),
		WebDir:      v.GetString("web_dir"),
		TaxRate:     rate,
		Countries:   stringList(v, "countries"),
		Kafka: KafkaConfig{
			Brokers: stringList(v, "kafka.brokers"),
			Topic:   v.GetString("kafka.topic"),
			GroupID: v.GetString("kafka.group_id"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("smtp.host"),
			Port:     v.GetString("smtp.port"),
			From:     v.GetString("smtp.from"),
			NotifyTo: v.GetString("smtp.notify_to"),
		},
	}
	if len(cfg.Countries) == 0 {
		return nil, fmt.Errorf("%w: at least one country is required", ErrInvalidConfig)
	}
	return cfg, nil
}

// stringList accepts either a list (config file) or a comma-separated string (env).
func stringList(v *viper.Viper, key string) []string {
	var raw []string
	switch val := v.Get(key).(type) {
	case string:
		raw = strings.Split(val, ",")
	default:
		raw = v.GetStringSlice(key)
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
