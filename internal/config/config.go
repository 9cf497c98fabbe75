// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"port"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	DatabaseURL string `mapstructure:"database_url"`
	StoreDriver string `mapstructure:"store_driver"`

	// Values the original service read from APP_* variables.
	SigningSecret    string `mapstructure:"signing_secret"`
	MailSender       string `mapstructure:"mail_sender"`
	MailPassword     string `mapstructure:"mail_password"`
	MailFrom         string `mapstructure:"mail_from"`
	ResetLinkBase    string `mapstructure:"reset_link_base"`
	ValidateLinkBase string `mapstructure:"validate_link_base"`
	ClientURL        string `mapstructure:"client_url"`

	MailTransport string        `mapstructure:"mail_transport"`
	SMTPHost      string        `mapstructure:"smtp_host"`
	SMTPPort      string        `mapstructure:"smtp_port"`
	SMTPUseTLS    bool          `mapstructure:"smtp_use_tls"`
	NotifyTimeout time.Duration `mapstructure:"notify_timeout"`

	AWSRegion          string `mapstructure:"aws_region"`
	AWSAccessKeyID     string `mapstructure:"aws_access_key_id"`
	AWSSecretAccessKey string `mapstructure:"aws_secret_access_key"`

	TokenTTL       time.Duration `mapstructure:"token_ttl"`
	ResetTokenTTL  time.Duration `mapstructure:"reset_token_ttl"`
	VerifyTokenTTL time.Duration `mapstructure:"verify_token_ttl"`
	BcryptCost     int           `mapstructure:"bcrypt_cost"`

	RateLimitRequests int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window"`
	// TrustProxy takes the client address from X-Forwarded-For and friends.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxy bool `mapstructure:"trust_proxy"`
}

// envKeys maps config keys to the environment variables they are read from.
var envKeys = map[string]string{
	"port":                  "PORT",
	"environment":           "ENVIRONMENT",
	"log_level":             "LOG_LEVEL",
	"database_url":          "DATABASE_URL",
	"store_driver":          "STORE_DRIVER",
	"signing_secret":        "APP_SECRETORKEY",
	"mail_sender":           "APP_EMAIL",
	"mail_password":         "APP_PASSWORD",
	"mail_from":             "APP_RESETEMAIL",
	"reset_link_base":       "APP_RESETLINK",
	"validate_link_base":    "APP_VALIDATELINK",
	"client_url":            "APP_CLIENTURL",
	"mail_transport":        "MAIL_TRANSPORT",
	"smtp_host":             "SMTP_HOST",
	"smtp_port":             "SMTP_PORT",
	"smtp_use_tls":          "SMTP_USE_TLS",
	"notify_timeout":        "NOTIFY_TIMEOUT",
	"aws_region":            "AWS_REGION",
	"aws_access_key_id":     "AWS_ACCESS_KEY_ID",
	"aws_secret_access_key": "AWS_SECRET_ACCESS_KEY",
	"token_ttl":             "TOKEN_TTL",
	"reset_token_ttl":       "RESET_TOKEN_TTL",
	"verify_token_ttl":      "VERIFY_TOKEN_TTL",
	"bcrypt_cost":           "BCRYPT_COST",
	"rate_limit_requests":   "RATE_LIMIT_REQUESTS",
	"rate_limit_window":     "RATE_LIMIT_WINDOW",
	"trust_proxy":           "TRUST_PROXY",
	"psql_host":             "PSQL_HOST",
	"psql_port":             "PSQL_PORT",
	"psql_user":             "PSQL_USER",
	"psql_password":         "PSQL_PASSWORD",
	"psql_db_name":          "PSQL_DB_NAME",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("store_driver", "postgres")
	v.SetDefault("mail_transport", "smtp")
	v.SetDefault("smtp_host", "smtp.gmail.com")
	v.SetDefault("smtp_port", "587")
	v.SetDefault("smtp_use_tls", false)
	v.SetDefault("notify_timeout", 10*time.Second)
	v.SetDefault("token_ttl", 31556926*time.Second)
	v.SetDefault("reset_token_ttl", time.Hour)
	v.SetDefault("verify_token_ttl", time.Duration(0))
	v.SetDefault("bcrypt_cost", 12)
	v.SetDefault("rate_limit_requests", 100)
	v.SetDefault("rate_limit_window", 15*time.Minute)
	v.SetDefault("trust_proxy", false)
	v.SetDefault("psql_host", "localhost")
	v.SetDefault("psql_port", "5432")
	v.SetDefault("psql_user", "postgres")
	v.SetDefault("psql_password", "postgres")
	v.SetDefault("psql_db_name", "accounts")
}

// Load reads defaults, then the optional file named by CONFIG_FILE, then
// the environment. Environment values win.
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.BindEnv("config_file", "CONFIG_FILE"); err != nil {
		return nil, err
	}
	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		u := &url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(v.GetString("psql_user"), v.GetString("psql_password")),
			Host:   v.GetString("psql_host") + ":" + v.GetString("psql_port"),
			Path:   v.GetString("psql_db_name"),
		}
		q := u.Query()
		q.Set("sslmode", "disable")
		u.RawQuery = q.Encode()
		cfg.DatabaseURL = u.String()
	}

	if cfg.MailFrom == "" {
		cfg.MailFrom = cfg.MailSender
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	cfg.MailTransport = strings.ToLower(strings.TrimSpace(cfg.MailTransport))

	return &cfg, nil
}

// Validate reports configuration that would make the service unusable.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.SigningSecret) == "" {
		errs = append(errs, errors.New("APP_SECRETORKEY is required"))
	}
	switch c.StoreDriver {
	case "postgres", "memory":
	default:
		errs = append(errs, fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver))
	}
	switch c.MailTransport {
	case "smtp", "ses", "log":
	default:
		errs = append(errs, fmt.Errorf("unsupported MAIL_TRANSPORT %q", c.MailTransport))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost))
	}
	return errors.Join(errs...)
}

// CORSOrigins returns the origins allowed to call the API from a browser.
func (c *Config) CORSOrigins() []string {
	origins := []string{"http://localhost:3000"}
	if c.ClientURL != "" {
		origins = append(origins, c.ClientURL)
	}
	return origins
}
