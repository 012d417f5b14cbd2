// Package config loads application configuration from a YAML file with
// environment variable overrides for every credential. A .env file is
// loaded first when present, so secrets can live in .env locally and in
// real env vars in production.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the waitlist service.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Email     EmailConfig     `yaml:"email"`
	App       AppConfig       `yaml:"app"`
	CORS      CORSConfig      `yaml:"cors"`
	Captcha   CaptchaConfig   `yaml:"captcha"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Signup    SignupConfig    `yaml:"signup"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the listen host, binding all interfaces on
// container platforms.
func (c ServerConfig) GetHost() string {
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// DatabaseConfig holds the Postgres connection settings.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// EmailConfig holds the transactional email sender settings.
type EmailConfig struct {
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`

	// AWS SES credentials. Empty keys fall back to the default
	// credential chain (IAM role on ECS).
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`

	// TemplateStyle selects the email template variant:
	// minimal (default), professional, or branded.
	TemplateStyle string `yaml:"template_style"`
	ProjectName   string `yaml:"project_name"`
	PrimaryColor  string `yaml:"primary_color"`
	LogoURL       string `yaml:"logo_url"`
}

// AppConfig holds base and redirect URLs for link-based endpoints.
type AppConfig struct {
	BaseURL               string `yaml:"base_url"`
	ConfirmSuccessURL     string `yaml:"confirm_success_url"`
	ConfirmErrorURL       string `yaml:"confirm_error_url"`
	UnsubscribeSuccessURL string `yaml:"unsubscribe_success_url"`
	UnsubscribeErrorURL   string `yaml:"unsubscribe_error_url"`
}

// CORSConfig holds the origin allow-list. Empty means wildcard.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// CaptchaConfig holds Cloudflare Turnstile settings. Presence of the
// secret toggles the feature.
type CaptchaConfig struct {
	TurnstileSecretKey string `yaml:"turnstile_secret_key"`
}

// Enabled reports whether captcha verification is required on signup.
func (c CaptchaConfig) Enabled() bool { return c.TurnstileSecretKey != "" }

// RateLimitConfig holds signup rate limiting settings. Presence of the
// redis URL toggles the feature.
type RateLimitConfig struct {
	RedisURL      string `yaml:"redis_url"`
	Limit         int    `yaml:"limit"`
	WindowMinutes int    `yaml:"window_minutes"`
}

// Enabled reports whether per-IP rate limiting is active.
func (c RateLimitConfig) Enabled() bool { return c.RedisURL != "" }

// WebhookConfig holds inbound webhook settings. Presence of the secret
// toggles signature enforcement.
type WebhookConfig struct {
	SigningSecret string `yaml:"signing_secret"`
}

// SignupConfig holds signup workflow toggles.
type SignupConfig struct {
	// DoubleOptIn defaults to true when unset.
	DoubleOptIn *bool `yaml:"double_opt_in"`
}

// DoubleOptInEnabled reports whether signups require email confirmation.
func (c SignupConfig) DoubleOptInEnabled() bool {
	return c.DoubleOptIn == nil || *c.DoubleOptIn
}

// Load reads and parses the configuration file, then applies defaults.
// A missing file yields a default config: in serverless-style deploys
// everything arrives via environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Email.Region == "" {
		cfg.Email.Region = "us-east-1"
	}
	if cfg.Email.FromEmail == "" {
		cfg.Email.FromEmail = "hello@example.com"
	}
	if cfg.Email.TemplateStyle == "" {
		cfg.Email.TemplateStyle = "minimal"
	}
	if cfg.Email.ProjectName == "" {
		cfg.Email.ProjectName = "Waitlist"
	}
	if cfg.Email.PrimaryColor == "" {
		cfg.Email.PrimaryColor = "#6366f1"
	}
	if cfg.App.BaseURL == "" {
		cfg.App.BaseURL = "http://localhost:8080"
	}
	if cfg.App.ConfirmSuccessURL == "" {
		cfg.App.ConfirmSuccessURL = "/waitlist-confirmed"
	}
	if cfg.App.ConfirmErrorURL == "" {
		cfg.App.ConfirmErrorURL = "/waitlist-error"
	}
	if cfg.App.UnsubscribeSuccessURL == "" {
		cfg.App.UnsubscribeSuccessURL = "/unsubscribe-success"
	}
	if cfg.App.UnsubscribeErrorURL == "" {
		cfg.App.UnsubscribeErrorURL = "/unsubscribe-error"
	}
	if cfg.RateLimit.Limit == 0 {
		cfg.RateLimit.Limit = 5
	}
	if cfg.RateLimit.WindowMinutes == 0 {
		cfg.RateLimit.WindowMinutes = 60
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.RateLimit.RedisURL = v
	}
	if v := os.Getenv("FROM_EMAIL"); v != "" {
		cfg.Email.FromEmail = v
	}
	if v := os.Getenv("FROM_NAME"); v != "" {
		cfg.Email.FromName = v
	}
	if v := os.Getenv("AWS_SES_ACCESS_KEY"); v != "" {
		cfg.Email.AccessKey = v
	}
	if v := os.Getenv("AWS_SES_SECRET_KEY"); v != "" {
		cfg.Email.SecretKey = v
	}
	if v := os.Getenv("AWS_SES_REGION"); v != "" {
		cfg.Email.Region = v
	}
	if v := os.Getenv("EMAIL_TEMPLATE_STYLE"); v != "" {
		cfg.Email.TemplateStyle = v
	}
	if v := os.Getenv("BASE_URL"); v != "" {
		cfg.App.BaseURL = v
	}
	if v := os.Getenv("CONFIRM_SUCCESS_URL"); v != "" {
		cfg.App.ConfirmSuccessURL = v
	}
	if v := os.Getenv("CONFIRM_ERROR_URL"); v != "" {
		cfg.App.ConfirmErrorURL = v
	}
	if v := os.Getenv("UNSUBSCRIBE_SUCCESS_URL"); v != "" {
		cfg.App.UnsubscribeSuccessURL = v
	}
	if v := os.Getenv("UNSUBSCRIBE_ERROR_URL"); v != "" {
		cfg.App.UnsubscribeErrorURL = v
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORS.AllowedOrigins = splitAndTrim(v)
	}
	if v := os.Getenv("TURNSTILE_SECRET_KEY"); v != "" {
		cfg.Captcha.TurnstileSecretKey = v
	}
	if v := os.Getenv("WEBHOOK_SIGNING_SECRET"); v != "" {
		cfg.Webhook.SigningSecret = v
	}
	if v := os.Getenv("DOUBLE_OPTIN"); v != "" {
		enabled := v != "false"
		cfg.Signup.DoubleOptIn = &enabled
	}

	return cfg, nil
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
